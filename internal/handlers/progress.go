package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/mapleroad/mapleroad-backend/internal/logger"
	"github.com/mapleroad/mapleroad-backend/internal/services"
)

type ProgressHandler struct {
	log             *logger.Logger
	progressService services.ProgressService
}

func NewProgressHandler(log *logger.Logger, progressService services.ProgressService) *ProgressHandler {
	return &ProgressHandler{
		log:             log.With("handler", "ProgressHandler"),
		progressService: progressService,
	}
}

type userScopedQuery struct {
	UserID string `form:"user_id" binding:"required"`
}

type progressUpsertReq struct {
	UserID  string `json:"user_id" binding:"required"`
	StepKey string `json:"step_key" binding:"required"`
	// pointer so an absent field is rejected instead of defaulting to 0
	Progress *int `json:"progress" binding:"required,gte=0,lte=100"`
}

func (h *ProgressHandler) List(c *gin.Context) {
	var q userScopedQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		RespondValidation(c, err)
		return
	}
	rows, err := h.progressService.ListByUser(c.Request.Context(), nil, q.UserID)
	if err != nil {
		h.log.Error("List progress failed", "error", err, "user_id", q.UserID)
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, rows)
}

func (h *ProgressHandler) Get(c *gin.Context) {
	var q userScopedQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		RespondValidation(c, err)
		return
	}
	row, err := h.progressService.Get(c.Request.Context(), nil, q.UserID, c.Param("step_key"))
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, row)
}

func (h *ProgressHandler) Upsert(c *gin.Context) {
	var req progressUpsertReq
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondValidation(c, err)
		return
	}
	row, err := h.progressService.Upsert(c.Request.Context(), services.ProgressUpsertInput{
		UserID:   req.UserID,
		StepKey:  req.StepKey,
		Progress: *req.Progress,
	})
	if err != nil {
		h.log.Error("Upsert progress failed", "error", err, "user_id", req.UserID, "step_key", req.StepKey)
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, row)
}

func (h *ProgressHandler) Delete(c *gin.Context) {
	var q userScopedQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		RespondValidation(c, err)
		return
	}
	stepKey := c.Param("step_key")
	if err := h.progressService.Delete(c.Request.Context(), nil, q.UserID, stepKey); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"deleted": true, "user_id": q.UserID, "step_key": stepKey})
}
