package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mapleroad/mapleroad-backend/internal/logger"
	"github.com/mapleroad/mapleroad-backend/internal/types"
)

type UserStepMetricRepo interface {
	ListByUser(ctx context.Context, tx *gorm.DB, userID string, stepKey *string) ([]*types.UserStepMetric, error)
	GetByTriple(ctx context.Context, tx *gorm.DB, userID, stepKey, metricKey string) (*types.UserStepMetric, error)
	Create(ctx context.Context, tx *gorm.DB, row *types.UserStepMetric) error
	UpdateValue(ctx context.Context, tx *gorm.DB, id uuid.UUID, value decimal.Decimal) error
}

type userStepMetricRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserStepMetricRepo(db *gorm.DB, baseLog *logger.Logger) UserStepMetricRepo {
	return &userStepMetricRepo{db: db, log: baseLog.With("repo", "UserStepMetricRepo")}
}

func (r *userStepMetricRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID string, stepKey *string) ([]*types.UserStepMetric, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	q := transaction.WithContext(ctx).Where("user_id = ?", userID)
	if stepKey != nil {
		q = q.Where("step_key = ?", *stepKey)
	}
	var results []*types.UserStepMetric
	if err := q.Order("updated_at DESC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *userStepMetricRepo) GetByTriple(ctx context.Context, tx *gorm.DB, userID, stepKey, metricKey string) (*types.UserStepMetric, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var row types.UserStepMetric
	err := transaction.WithContext(ctx).
		Where("user_id = ? AND step_key = ? AND metric_key = ?", userID, stepKey, metricKey).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *userStepMetricRepo) Create(ctx context.Context, tx *gorm.DB, row *types.UserStepMetric) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Create(row).Error
}

// UpdateValue overwrites only value_num; other columns on an existing row
// stay untouched.
func (r *userStepMetricRepo) UpdateValue(ctx context.Context, tx *gorm.DB, id uuid.UUID, value decimal.Decimal) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&types.UserStepMetric{}).
		Where("id = ?", id).
		Update("value_num", value).Error
}
