package db

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mapleroad/mapleroad-backend/internal/logger"
	"github.com/mapleroad/mapleroad-backend/internal/types"
)

// defaultRoadmapSteps is the fixed nine-milestone progression. Seeding is
// keyed on Key, so running it again against a populated catalog is a no-op.
var defaultRoadmapSteps = []types.RoadmapStep{
	{Key: "starter-fund", Title: "Starter Emergency Fund", Subtitle: "Build a quick buffer", StepOrder: 1},
	{Key: "debt", Title: "Eliminate High-Interest Debt", Subtitle: "Stop interest bleeding", StepOrder: 2},
	{Key: "insurance", Title: "Insurance Protection", Subtitle: "Protect your foundation", StepOrder: 3},
	{Key: "full-fund", Title: "Full Emergency Fund", Subtitle: "3–6 months essentials", StepOrder: 4},
	{Key: "automate", Title: "Automate Saving", Subtitle: "Make it consistent", StepOrder: 5},
	{Key: "invest", Title: "Start Investing", Subtitle: "Let money grow", StepOrder: 6},
	{Key: "grow", Title: "Invest for Growth", Subtitle: "Increase contributions", StepOrder: 7},
	{Key: "income", Title: "Increase Income", Subtitle: "Fastest lever", StepOrder: 8},
	{Key: "fi", Title: "Financial Independence", Subtitle: "Work becomes optional", StepOrder: 9},
}

func SeedRoadmapSteps(database *gorm.DB, log *logger.Logger) error {
	seeded := 0
	err := database.Transaction(func(tx *gorm.DB) error {
		for _, step := range defaultRoadmapSteps {
			var count int64
			if err := tx.Model(&types.RoadmapStep{}).Where("key = ?", step.Key).Count(&count).Error; err != nil {
				return fmt.Errorf("check step %q: %w", step.Key, err)
			}
			if count > 0 {
				continue
			}
			row := step
			row.ID = uuid.New()
			row.IsActive = true
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("seed step %q: %w", step.Key, err)
			}
			seeded++
		}
		return nil
	})
	if err != nil {
		return err
	}
	if log != nil {
		log.Info("Roadmap steps seeded", "created", seeded, "total", len(defaultRoadmapSteps))
	}
	return nil
}
