package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mapleroad/mapleroad-backend/internal/logger"
	"github.com/mapleroad/mapleroad-backend/internal/types"
)

type RoadmapStepRepo interface {
	List(ctx context.Context, tx *gorm.DB, activeOnly bool) ([]*types.RoadmapStep, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.RoadmapStep, error)
	GetByKey(ctx context.Context, tx *gorm.DB, key string) (*types.RoadmapStep, error)
	Create(ctx context.Context, tx *gorm.DB, row *types.RoadmapStep) error
	UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error
	DeleteByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (int64, error)
}

type roadmapStepRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRoadmapStepRepo(db *gorm.DB, baseLog *logger.Logger) RoadmapStepRepo {
	return &roadmapStepRepo{db: db, log: baseLog.With("repo", "RoadmapStepRepo")}
}

func (r *roadmapStepRepo) List(ctx context.Context, tx *gorm.DB, activeOnly bool) ([]*types.RoadmapStep, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	q := transaction.WithContext(ctx).Model(&types.RoadmapStep{})
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	var results []*types.RoadmapStep
	if err := q.Order("step_order ASC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *roadmapStepRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.RoadmapStep, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var row types.RoadmapStep
	err := transaction.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *roadmapStepRepo) GetByKey(ctx context.Context, tx *gorm.DB, key string) (*types.RoadmapStep, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var row types.RoadmapStep
	err := transaction.WithContext(ctx).Where("key = ?", key).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *roadmapStepRepo) Create(ctx context.Context, tx *gorm.DB, row *types.RoadmapStep) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Create(row).Error
}

func (r *roadmapStepRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(fields) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Model(&types.RoadmapStep{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *roadmapStepRepo) DeleteByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	res := transaction.WithContext(ctx).Where("id = ?", id).Delete(&types.RoadmapStep{})
	return res.RowsAffected, res.Error
}
