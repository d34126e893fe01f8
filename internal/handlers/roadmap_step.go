package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mapleroad/mapleroad-backend/internal/logger"
	"github.com/mapleroad/mapleroad-backend/internal/services"
)

type RoadmapStepHandler struct {
	log         *logger.Logger
	stepService services.RoadmapStepService
}

func NewRoadmapStepHandler(log *logger.Logger, stepService services.RoadmapStepService) *RoadmapStepHandler {
	return &RoadmapStepHandler{
		log:         log.With("handler", "RoadmapStepHandler"),
		stepService: stepService,
	}
}

type listStepsQuery struct {
	ActiveOnly bool `form:"active_only,default=true"`
}

type createStepReq struct {
	Key         string  `json:"key" binding:"required,min=1,max=80"`
	Title       string  `json:"title" binding:"required,min=1,max=200"`
	Subtitle    string  `json:"subtitle" binding:"required,min=1,max=250"`
	Description *string `json:"description"`
	StepOrder   int     `json:"step_order" binding:"required,gte=1"`
	IsActive    *bool   `json:"is_active"`
}

type updateStepReq struct {
	Key         *string `json:"key" binding:"omitempty,min=1,max=80"`
	Title       *string `json:"title" binding:"omitempty,min=1,max=200"`
	Subtitle    *string `json:"subtitle" binding:"omitempty,min=1,max=250"`
	Description *string `json:"description"`
	StepOrder   *int    `json:"step_order" binding:"omitempty,gte=1"`
	IsActive    *bool   `json:"is_active"`
}

func (h *RoadmapStepHandler) List(c *gin.Context) {
	var q listStepsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		RespondValidation(c, err)
		return
	}
	rows, err := h.stepService.List(c.Request.Context(), nil, q.ActiveOnly)
	if err != nil {
		h.log.Error("List roadmap steps failed", "error", err)
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, rows)
}

func (h *RoadmapStepHandler) Create(c *gin.Context) {
	var req createStepReq
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondValidation(c, err)
		return
	}
	row, err := h.stepService.Create(c.Request.Context(), nil, services.RoadmapStepCreateInput{
		Key:         req.Key,
		Title:       req.Title,
		Subtitle:    req.Subtitle,
		Description: req.Description,
		StepOrder:   req.StepOrder,
		IsActive:    req.IsActive,
	})
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, row)
}

func (h *RoadmapStepHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondDetail(c, http.StatusUnprocessableEntity, "invalid step id")
		return
	}
	var req updateStepReq
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondValidation(c, err)
		return
	}
	row, err := h.stepService.Update(c.Request.Context(), nil, id, services.RoadmapStepUpdateInput{
		Key:         req.Key,
		Title:       req.Title,
		Subtitle:    req.Subtitle,
		Description: req.Description,
		StepOrder:   req.StepOrder,
		IsActive:    req.IsActive,
	})
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, row)
}

func (h *RoadmapStepHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondDetail(c, http.StatusUnprocessableEntity, "invalid step id")
		return
	}
	if err := h.stepService.Delete(c.Request.Context(), nil, id); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"deleted": true, "id": id.String()})
}
