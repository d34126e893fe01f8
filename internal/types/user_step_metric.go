package types

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UserStepMetric is an arbitrary named measurement for a user's progress on
// a step, e.g. metric_key "savings_balance". One row per
// (user, step, metric) triple.
type UserStepMetric struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    string          `gorm:"not null;index:idx_user_step_metric,unique" json:"user_id"`
	User      *User           `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"-"`
	StepKey   string          `gorm:"size:80;not null;index:idx_user_step_metric,unique" json:"step_key"`
	Step      *RoadmapStep    `gorm:"constraint:OnDelete:CASCADE;foreignKey:StepKey;references:Key" json:"-"`
	MetricKey string          `gorm:"size:80;not null;index:idx_user_step_metric,unique" json:"metric_key"`
	ValueNum  decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"value_num"`
	CreatedAt time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time       `gorm:"not null" json:"updated_at"`
}

func (UserStepMetric) TableName() string { return "user_step_metrics" }
