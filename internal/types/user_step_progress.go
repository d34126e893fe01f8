package types

import (
	"time"

	"github.com/google/uuid"
)

// UserStepProgress holds one completion percentage per (user, step) pair.
// The 0-100 bound is enforced here as a CHECK constraint in addition to
// request validation.
type UserStepProgress struct {
	ID        uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    string       `gorm:"not null;index:idx_user_step,unique" json:"user_id"`
	User      *User        `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"-"`
	StepKey   string       `gorm:"size:80;not null;index:idx_user_step,unique" json:"step_key"`
	Step      *RoadmapStep `gorm:"constraint:OnDelete:CASCADE;foreignKey:StepKey;references:Key" json:"-"`
	Progress  int          `gorm:"not null;check:progress >= 0 AND progress <= 100" json:"progress"`
	CreatedAt time.Time    `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null" json:"updated_at"`
}

func (UserStepProgress) TableName() string { return "user_step_progress" }
