package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mapleroad/mapleroad-backend/internal/logger"
	"github.com/mapleroad/mapleroad-backend/internal/types"
)

type UserStepProgressRepo interface {
	ListByUser(ctx context.Context, tx *gorm.DB, userID string) ([]*types.UserStepProgress, error)
	GetByUserAndStep(ctx context.Context, tx *gorm.DB, userID, stepKey string) (*types.UserStepProgress, error)
	Create(ctx context.Context, tx *gorm.DB, row *types.UserStepProgress) error
	UpdateProgress(ctx context.Context, tx *gorm.DB, id uuid.UUID, progress int) error
	DeleteByUserAndStep(ctx context.Context, tx *gorm.DB, userID, stepKey string) (int64, error)
}

type userStepProgressRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserStepProgressRepo(db *gorm.DB, baseLog *logger.Logger) UserStepProgressRepo {
	return &userStepProgressRepo{db: db, log: baseLog.With("repo", "UserStepProgressRepo")}
}

func (r *userStepProgressRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID string) ([]*types.UserStepProgress, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.UserStepProgress
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *userStepProgressRepo) GetByUserAndStep(ctx context.Context, tx *gorm.DB, userID, stepKey string) (*types.UserStepProgress, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var row types.UserStepProgress
	err := transaction.WithContext(ctx).
		Where("user_id = ? AND step_key = ?", userID, stepKey).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *userStepProgressRepo) Create(ctx context.Context, tx *gorm.DB, row *types.UserStepProgress) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Create(row).Error
}

// UpdateProgress overwrites only the progress value; all other columns on an
// existing row stay untouched.
func (r *userStepProgressRepo) UpdateProgress(ctx context.Context, tx *gorm.DB, id uuid.UUID, progress int) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&types.UserStepProgress{}).
		Where("id = ?", id).
		Update("progress", progress).Error
}

func (r *userStepProgressRepo) DeleteByUserAndStep(ctx context.Context, tx *gorm.DB, userID, stepKey string) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	res := transaction.WithContext(ctx).
		Where("user_id = ? AND step_key = ?", userID, stepKey).
		Delete(&types.UserStepProgress{})
	return res.RowsAffected, res.Error
}
