package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mapleroad/mapleroad-backend/internal/logger"
	"github.com/mapleroad/mapleroad-backend/internal/repos"
	"github.com/mapleroad/mapleroad-backend/internal/services"
	"github.com/mapleroad/mapleroad-backend/internal/types"
)

type EntryHandler struct {
	log          *logger.Logger
	entryService services.EntryService
}

func NewEntryHandler(log *logger.Logger, entryService services.EntryService) *EntryHandler {
	return &EntryHandler{
		log:          log.With("handler", "EntryHandler"),
		entryService: entryService,
	}
}

type listEntriesQuery struct {
	Year   *int    `form:"year"`
	Month  *int    `form:"month" binding:"omitempty,min=1,max=12"`
	Type   *string `form:"type" binding:"omitempty,oneof=income expense"`
	UserID *string `form:"user_id"`
	Limit  int     `form:"limit,default=100" binding:"min=1,max=500"`
}

type createEntryReq struct {
	UserID   *string         `json:"user_id"`
	Date     types.Date      `json:"date" binding:"required"`
	Type     string          `json:"type" binding:"required,oneof=income expense"`
	Name     string          `json:"name" binding:"required,min=1,max=200"`
	Category string          `json:"category" binding:"required,min=1,max=100"`
	Amount   decimal.Decimal `json:"amount" binding:"required"`
	Currency string          `json:"currency" binding:"omitempty,min=3,max=8"`
	Notes    *string         `json:"notes"`
}

type updateEntryReq struct {
	Date     *types.Date      `json:"date"`
	Type     *string          `json:"type" binding:"omitempty,oneof=income expense"`
	Name     *string          `json:"name" binding:"omitempty,min=1,max=200"`
	Category *string          `json:"category" binding:"omitempty,min=1,max=100"`
	Amount   *decimal.Decimal `json:"amount"`
	Currency *string          `json:"currency" binding:"omitempty,min=3,max=8"`
	Notes    *string          `json:"notes"`
}

func (h *EntryHandler) List(c *gin.Context) {
	var q listEntriesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		RespondValidation(c, err)
		return
	}
	rows, err := h.entryService.List(c.Request.Context(), nil, repos.EntryListFilter{
		Year:   q.Year,
		Month:  q.Month,
		Type:   q.Type,
		UserID: q.UserID,
		Limit:  q.Limit,
	})
	if err != nil {
		h.log.Error("List entries failed", "error", err)
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, rows)
}

func (h *EntryHandler) Create(c *gin.Context) {
	var req createEntryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondValidation(c, err)
		return
	}
	if !req.Amount.IsPositive() {
		RespondDetail(c, http.StatusUnprocessableEntity, "amount must be greater than 0")
		return
	}
	row, err := h.entryService.Create(c.Request.Context(), nil, services.EntryCreateInput{
		UserID:   req.UserID,
		Date:     req.Date,
		Type:     req.Type,
		Name:     req.Name,
		Category: req.Category,
		Amount:   req.Amount,
		Currency: req.Currency,
		Notes:    req.Notes,
	})
	if err != nil {
		h.log.Error("Create entry failed", "error", err)
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, row)
}

func (h *EntryHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondDetail(c, http.StatusUnprocessableEntity, "invalid entry id")
		return
	}
	var req updateEntryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondValidation(c, err)
		return
	}
	if req.Amount != nil && !req.Amount.IsPositive() {
		RespondDetail(c, http.StatusUnprocessableEntity, "amount must be greater than 0")
		return
	}
	row, err := h.entryService.Update(c.Request.Context(), nil, id, services.EntryUpdateInput{
		Date:     req.Date,
		Type:     req.Type,
		Name:     req.Name,
		Category: req.Category,
		Amount:   req.Amount,
		Currency: req.Currency,
		Notes:    req.Notes,
	})
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, row)
}

func (h *EntryHandler) Replace(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondDetail(c, http.StatusUnprocessableEntity, "invalid entry id")
		return
	}
	var req createEntryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondValidation(c, err)
		return
	}
	if !req.Amount.IsPositive() {
		RespondDetail(c, http.StatusUnprocessableEntity, "amount must be greater than 0")
		return
	}
	row, err := h.entryService.Replace(c.Request.Context(), nil, id, services.EntryCreateInput{
		UserID:   req.UserID,
		Date:     req.Date,
		Type:     req.Type,
		Name:     req.Name,
		Category: req.Category,
		Amount:   req.Amount,
		Currency: req.Currency,
		Notes:    req.Notes,
	})
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, row)
}

func (h *EntryHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondDetail(c, http.StatusUnprocessableEntity, "invalid entry id")
		return
	}
	if err := h.entryService.Delete(c.Request.Context(), nil, id); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"deleted": true, "id": id.String(), "mode": "hard"})
}
