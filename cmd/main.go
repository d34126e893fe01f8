package main

import (
	"context"
	"fmt"
	"os"

	_ "github.com/joho/godotenv/autoload"

	"github.com/mapleroad/mapleroad-backend/internal/db"
	"github.com/mapleroad/mapleroad-backend/internal/handlers"
	"github.com/mapleroad/mapleroad-backend/internal/logger"
	"github.com/mapleroad/mapleroad-backend/internal/observability"
	"github.com/mapleroad/mapleroad-backend/internal/repos"
	"github.com/mapleroad/mapleroad-backend/internal/server"
	"github.com/mapleroad/mapleroad-backend/internal/services"
	"github.com/mapleroad/mapleroad-backend/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Tracing
	ctx := context.Background()
	shutdownTracing := observability.InitTracing(ctx, log, observability.Config{
		ServiceName: "mapleroad-backend",
		Environment: utils.GetEnv("APP_ENV", "development", log),
	})
	if shutdownTracing != nil {
		defer func() { _ = shutdownTracing(ctx) }()
	}

	// Database
	dbService, err := db.NewService(log)
	if err != nil {
		log.Error("Database init failed", "error", err)
		os.Exit(1)
	}
	if err := dbService.AutoMigrateAll(); err != nil {
		log.Error("Database migration failed", "error", err)
		os.Exit(1)
	}
	database := dbService.DB()
	if err := db.SeedRoadmapSteps(database, log); err != nil {
		log.Error("Roadmap seed failed", "error", err)
		os.Exit(1)
	}

	// Repos
	log.Info("Setting up repos...")
	userRepo := repos.NewUserRepo(database, log)
	entryRepo := repos.NewEntryRepo(database, log)
	stepRepo := repos.NewRoadmapStepRepo(database, log)
	progressRepo := repos.NewUserStepProgressRepo(database, log)
	metricRepo := repos.NewUserStepMetricRepo(database, log)

	// Services
	log.Info("Setting up services...")
	userService := services.NewUserService(database, log, userRepo)
	entryService := services.NewEntryService(database, log, entryRepo)
	stepService := services.NewRoadmapStepService(database, log, stepRepo)
	progressService := services.NewProgressService(database, log, progressRepo)
	metricService := services.NewMetricService(database, log, metricRepo)

	// Handlers
	log.Info("Setting up handlers...")
	userHandler := handlers.NewUserHandler(log, userService)
	entryHandler := handlers.NewEntryHandler(log, entryService)
	stepHandler := handlers.NewRoadmapStepHandler(log, stepService)
	progressHandler := handlers.NewProgressHandler(log, progressService)
	metricHandler := handlers.NewMetricHandler(log, metricService)

	// Router
	log.Info("Setting up router...")
	router := server.NewRouter(server.RouterConfig{
		FrontendOrigins: utils.GetEnv("FRONTEND_ORIGINS", "http://localhost:3000", log),
		EntryHandler:    entryHandler,
		StepHandler:     stepHandler,
		ProgressHandler: progressHandler,
		MetricHandler:   metricHandler,
		UserHandler:     userHandler,
	})

	port := utils.GetEnv("PORT", "8080", log)
	log.Info("Server listening", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
