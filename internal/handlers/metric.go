package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/mapleroad/mapleroad-backend/internal/logger"
	"github.com/mapleroad/mapleroad-backend/internal/services"
)

type MetricHandler struct {
	log           *logger.Logger
	metricService services.MetricService
}

func NewMetricHandler(log *logger.Logger, metricService services.MetricService) *MetricHandler {
	return &MetricHandler{
		log:           log.With("handler", "MetricHandler"),
		metricService: metricService,
	}
}

type listMetricsQuery struct {
	UserID  string  `form:"user_id" binding:"required"`
	StepKey *string `form:"step_key"`
}

type metricUpsertReq struct {
	UserID    string           `json:"user_id" binding:"required"`
	StepKey   string           `json:"step_key" binding:"required"`
	MetricKey string           `json:"metric_key" binding:"required,min=1,max=80"`
	ValueNum  *decimal.Decimal `json:"value_num" binding:"required"`
}

func (r metricUpsertReq) toInput() services.MetricUpsertInput {
	return services.MetricUpsertInput{
		UserID:    r.UserID,
		StepKey:   r.StepKey,
		MetricKey: r.MetricKey,
		ValueNum:  *r.ValueNum,
	}
}

func (h *MetricHandler) List(c *gin.Context) {
	var q listMetricsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		RespondValidation(c, err)
		return
	}
	rows, err := h.metricService.ListByUser(c.Request.Context(), nil, q.UserID, q.StepKey)
	if err != nil {
		h.log.Error("List metrics failed", "error", err, "user_id", q.UserID)
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, rows)
}

func (h *MetricHandler) Upsert(c *gin.Context) {
	var req metricUpsertReq
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondValidation(c, err)
		return
	}
	row, err := h.metricService.Upsert(c.Request.Context(), req.toInput())
	if err != nil {
		h.log.Error("Upsert metric failed", "error", err, "user_id", req.UserID, "step_key", req.StepKey)
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, row)
}

func (h *MetricHandler) BulkUpsert(c *gin.Context) {
	var reqs []metricUpsertReq
	if err := c.ShouldBindJSON(&reqs); err != nil {
		RespondValidation(c, err)
		return
	}
	inputs := make([]services.MetricUpsertInput, 0, len(reqs))
	for _, req := range reqs {
		inputs = append(inputs, req.toInput())
	}
	rows, err := h.metricService.BulkUpsert(c.Request.Context(), inputs)
	if err != nil {
		h.log.Error("Bulk upsert metrics failed", "error", err, "count", len(reqs))
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, rows)
}
