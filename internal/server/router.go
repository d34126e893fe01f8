package server

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/mapleroad/mapleroad-backend/internal/handlers"
)

type RouterConfig struct {
	// FrontendOrigins is the comma-separated CORS allow-list.
	FrontendOrigins string

	EntryHandler    *handlers.EntryHandler
	StepHandler     *handlers.RoadmapStepHandler
	ProgressHandler *handlers.ProgressHandler
	MetricHandler   *handlers.MetricHandler
	UserHandler     *handlers.UserHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()
	router.Use(otelgin.Middleware("mapleroad-backend"))

	// Cors
	router.Use(cors.New(cors.Config{
		AllowOrigins:     splitOrigins(cfg.FrontendOrigins),
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"*"},
		AllowCredentials: true,
	}))

	router.GET("/health", handlers.HealthCheck)

	entries := router.Group("/entries")
	{
		entries.GET("", cfg.EntryHandler.List)
		entries.POST("", cfg.EntryHandler.Create)
		entries.PATCH("/:id", cfg.EntryHandler.Update)
		entries.PUT("/:id", cfg.EntryHandler.Replace)
		entries.DELETE("/:id", cfg.EntryHandler.Delete)
	}

	steps := router.Group("/roadmap-steps")
	{
		steps.GET("", cfg.StepHandler.List)
		steps.POST("", cfg.StepHandler.Create)
		steps.PATCH("/:id", cfg.StepHandler.Update)
		steps.DELETE("/:id", cfg.StepHandler.Delete)
	}

	progress := router.Group("/user-steps-progress")
	{
		progress.GET("", cfg.ProgressHandler.List)
		progress.PUT("", cfg.ProgressHandler.Upsert)
		progress.GET("/:step_key", cfg.ProgressHandler.Get)
		progress.DELETE("/:step_key", cfg.ProgressHandler.Delete)
	}

	metrics := router.Group("/user-step-metrics")
	{
		metrics.GET("", cfg.MetricHandler.List)
		metrics.PUT("/bulk", cfg.MetricHandler.BulkUpsert)
		metrics.PUT("", cfg.MetricHandler.Upsert)
	}

	router.POST("/users", cfg.UserHandler.Create)

	return router
}

func splitOrigins(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return []string{"http://localhost:3000"}
	}
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			origins = append(origins, p)
		}
	}
	return origins
}
