package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mapleroad/mapleroad-backend/internal/apierr"
)

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

// RespondDetail writes the error envelope used across the API.
func RespondDetail(c *gin.Context, status int, detail string) {
	c.JSON(status, gin.H{"detail": detail})
}

// RespondValidation maps a binding/validation failure to 422 with the
// validator's field-level message.
func RespondValidation(c *gin.Context, err error) {
	detail := "invalid request"
	if err != nil {
		detail = err.Error()
	}
	c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": detail})
}

// RespondServiceError maps service errors through apierr; anything without
// an explicit status becomes an opaque 500.
func RespondServiceError(c *gin.Context, err error) {
	status := apierr.StatusOf(err)
	detail := "Internal server error"
	if status != http.StatusInternalServerError && err != nil {
		detail = err.Error()
	}
	c.JSON(status, gin.H{"detail": detail})
}
