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

type RoadmapStepCreateInput struct {
	Key         string
	Title       string
	Subtitle    string
	Description *string
	StepOrder   int
	IsActive    *bool
}

type RoadmapStepUpdateInput struct {
	Key         *string
	Title       *string
	Subtitle    *string
	Description *string
	StepOrder   *int
	IsActive    *bool
}

type RoadmapStepService interface {
	List(ctx context.Context, tx *gorm.DB, activeOnly bool) ([]*types.RoadmapStep, error)
	Create(ctx context.Context, tx *gorm.DB, input RoadmapStepCreateInput) (*types.RoadmapStep, error)
	Update(ctx context.Context, tx *gorm.DB, id uuid.UUID, input RoadmapStepUpdateInput) (*types.RoadmapStep, error)
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type roadmapStepService struct {
	db       *gorm.DB
	log      *logger.Logger
	stepRepo repos.RoadmapStepRepo
}

func NewRoadmapStepService(db *gorm.DB, baseLog *logger.Logger, stepRepo repos.RoadmapStepRepo) RoadmapStepService {
	return &roadmapStepService{
		db:       db,
		log:      baseLog.With("service", "RoadmapStepService"),
		stepRepo: stepRepo,
	}
}

func (s *roadmapStepService) List(ctx context.Context, tx *gorm.DB, activeOnly bool) ([]*types.RoadmapStep, error) {
	rows, err := s.stepRepo.List(ctx, tx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("list roadmap steps: %w", err)
	}
	return rows, nil
}

func (s *roadmapStepService) Create(ctx context.Context, tx *gorm.DB, input RoadmapStepCreateInput) (*types.RoadmapStep, error) {
	// Conflict is pre-checked rather than left to the unique index so the
	// caller gets a clean 409 instead of a driver error.
	existing, err := s.stepRepo.GetByKey(ctx, tx, input.Key)
	if err != nil {
		return nil, fmt.Errorf("check step key: %w", err)
	}
	if existing != nil {
		return nil, apierr.Conflict("Step key already exists")
	}

	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}
	row := &types.RoadmapStep{
		ID:          uuid.New(),
		Key:         input.Key,
		Title:       input.Title,
		Subtitle:    input.Subtitle,
		Description: input.Description,
		StepOrder:   input.StepOrder,
		IsActive:    isActive,
	}
	if err := s.stepRepo.Create(ctx, tx, row); err != nil {
		return nil, fmt.Errorf("create roadmap step: %w", err)
	}
	return row, nil
}

func (s *roadmapStepService) Update(ctx context.Context, tx *gorm.DB, id uuid.UUID, input RoadmapStepUpdateInput) (*types.RoadmapStep, error) {
	existing, err := s.stepRepo.GetByID(ctx, tx, id)
	if err != nil {
		return nil, fmt.Errorf("load roadmap step: %w", err)
	}
	if existing == nil {
		return nil, apierr.NotFound("Step not found")
	}

	fields := map[string]interface{}{}
	if input.Key != nil {
		fields["key"] = *input.Key
	}
	if input.Title != nil {
		fields["title"] = *input.Title
	}
	if input.Subtitle != nil {
		fields["subtitle"] = *input.Subtitle
	}
	if input.Description != nil {
		fields["description"] = *input.Description
	}
	if input.StepOrder != nil {
		fields["step_order"] = *input.StepOrder
	}
	if input.IsActive != nil {
		fields["is_active"] = *input.IsActive
	}

	if err := s.stepRepo.UpdateFields(ctx, tx, id, fields); err != nil {
		return nil, fmt.Errorf("update roadmap step: %w", err)
	}
	updated, err := s.stepRepo.GetByID(ctx, tx, id)
	if err != nil {
		return nil, fmt.Errorf("reload roadmap step: %w", err)
	}
	return updated, nil
}

func (s *roadmapStepService) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	affected, err := s.stepRepo.DeleteByID(ctx, tx, id)
	if err != nil {
		return fmt.Errorf("delete roadmap step: %w", err)
	}
	if affected == 0 {
		return apierr.NotFound("Step not found")
	}
	return nil
}
