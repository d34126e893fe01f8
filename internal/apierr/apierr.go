package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is a service-level error carrying the HTTP status it should map to.
type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

func NotFound(detail string) *Error {
	return &Error{Status: http.StatusNotFound, Code: "not_found", Err: errors.New(detail)}
}

func Conflict(detail string) *Error {
	return &Error{Status: http.StatusConflict, Code: "conflict", Err: errors.New(detail)}
}

// StatusOf resolves the HTTP status an error should surface as. Anything
// that is not an *Error becomes a 500.
func StatusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Status != 0 {
		return apiErr.Status
	}
	return http.StatusInternalServerError
}
