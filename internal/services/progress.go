package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mapleroad/mapleroad-backend/internal/apierr"
	"github.com/mapleroad/mapleroad-backend/internal/logger"
	"github.com/mapleroad/mapleroad-backend/internal/repos"
	"github.com/mapleroad/mapleroad-backend/internal/types"
)

type ProgressUpsertInput struct {
	UserID   string
	StepKey  string
	Progress int
}

type ProgressService interface {
	ListByUser(ctx context.Context, tx *gorm.DB, userID string) ([]*types.UserStepProgress, error)
	Get(ctx context.Context, tx *gorm.DB, userID, stepKey string) (*types.UserStepProgress, error)
	Upsert(ctx context.Context, input ProgressUpsertInput) (*types.UserStepProgress, error)
	Delete(ctx context.Context, tx *gorm.DB, userID, stepKey string) error
}

type progressService struct {
	db           *gorm.DB
	log          *logger.Logger
	progressRepo repos.UserStepProgressRepo
}

func NewProgressService(db *gorm.DB, baseLog *logger.Logger, progressRepo repos.UserStepProgressRepo) ProgressService {
	return &progressService{
		db:           db,
		log:          baseLog.With("service", "ProgressService"),
		progressRepo: progressRepo,
	}
}

func (s *progressService) ListByUser(ctx context.Context, tx *gorm.DB, userID string) ([]*types.UserStepProgress, error) {
	rows, err := s.progressRepo.ListByUser(ctx, tx, userID)
	if err != nil {
		return nil, fmt.Errorf("list progress: %w", err)
	}
	return rows, nil
}

func (s *progressService) Get(ctx context.Context, tx *gorm.DB, userID, stepKey string) (*types.UserStepProgress, error) {
	row, err := s.progressRepo.GetByUserAndStep(ctx, tx, userID, stepKey)
	if err != nil {
		return nil, fmt.Errorf("load progress: %w", err)
	}
	if row == nil {
		return nil, apierr.NotFound("Progress not found")
	}
	return row, nil
}

// Upsert creates or updates the (user, step) row. The check-then-write runs
// inside one transaction; the unique index on (user_id, step_key) turns a
// concurrent double-insert into a constraint violation instead of a
// duplicate row.
func (s *progressService) Upsert(ctx context.Context, input ProgressUpsertInput) (*types.UserStepProgress, error) {
	var result *types.UserStepProgress
	err := s.db.Transaction(func(tx *gorm.DB) error {
		existing, err := s.progressRepo.GetByUserAndStep(ctx, tx, input.UserID, input.StepKey)
		if err != nil {
			return fmt.Errorf("load progress: %w", err)
		}
		if existing != nil {
			if err := s.progressRepo.UpdateProgress(ctx, tx, existing.ID, input.Progress); err != nil {
				return fmt.Errorf("update progress: %w", err)
			}
			result, err = s.progressRepo.GetByUserAndStep(ctx, tx, input.UserID, input.StepKey)
			if err != nil {
				return fmt.Errorf("reload progress: %w", err)
			}
			return nil
		}
		row := &types.UserStepProgress{
			ID:       uuid.New(),
			UserID:   input.UserID,
			StepKey:  input.StepKey,
			Progress: input.Progress,
		}
		if err := s.progressRepo.Create(ctx, tx, row); err != nil {
			return fmt.Errorf("create progress: %w", err)
		}
		result = row
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *progressService) Delete(ctx context.Context, tx *gorm.DB, userID, stepKey string) error {
	affected, err := s.progressRepo.DeleteByUserAndStep(ctx, tx, userID, stepKey)
	if err != nil {
		return fmt.Errorf("delete progress: %w", err)
	}
	if affected == 0 {
		return apierr.NotFound("Progress not found")
	}
	return nil
}
