package types

import (
	"time"

	"github.com/google/uuid"
)

// RoadmapStep is one milestone in the fixed financial-wellness progression.
// Key is the stable identity other tables reference; id is internal.
type RoadmapStep struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Key         string    `gorm:"size:80;uniqueIndex;not null" json:"key"`
	Title       string    `gorm:"size:200;not null" json:"title"`
	Subtitle    string    `gorm:"size:250;not null" json:"subtitle"`
	Description *string   `gorm:"type:text" json:"description"`
	StepOrder   int       `gorm:"not null" json:"step_order"`
	IsActive    bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}

func (RoadmapStep) TableName() string { return "roadmap_steps" }
