package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mapleroad/mapleroad-backend/internal/logger"
	"github.com/mapleroad/mapleroad-backend/internal/repos"
	"github.com/mapleroad/mapleroad-backend/internal/types"
)

type MetricUpsertInput struct {
	UserID    string
	StepKey   string
	MetricKey string
	ValueNum  decimal.Decimal
}

type MetricService interface {
	ListByUser(ctx context.Context, tx *gorm.DB, userID string, stepKey *string) ([]*types.UserStepMetric, error)
	Upsert(ctx context.Context, input MetricUpsertInput) (*types.UserStepMetric, error)
	BulkUpsert(ctx context.Context, inputs []MetricUpsertInput) ([]*types.UserStepMetric, error)
}

type metricService struct {
	db         *gorm.DB
	log        *logger.Logger
	metricRepo repos.UserStepMetricRepo
}

func NewMetricService(db *gorm.DB, baseLog *logger.Logger, metricRepo repos.UserStepMetricRepo) MetricService {
	return &metricService{
		db:         db,
		log:        baseLog.With("service", "MetricService"),
		metricRepo: metricRepo,
	}
}

func (s *metricService) ListByUser(ctx context.Context, tx *gorm.DB, userID string, stepKey *string) ([]*types.UserStepMetric, error) {
	rows, err := s.metricRepo.ListByUser(ctx, tx, userID, stepKey)
	if err != nil {
		return nil, fmt.Errorf("list metrics: %w", err)
	}
	return rows, nil
}

func (s *metricService) Upsert(ctx context.Context, input MetricUpsertInput) (*types.UserStepMetric, error) {
	var result *types.UserStepMetric
	err := s.db.Transaction(func(tx *gorm.DB) error {
		row, err := s.upsertOne(ctx, tx, input)
		if err != nil {
			return err
		}
		result = row
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// BulkUpsert applies the same per-item upsert as Upsert to every item inside
// a single transaction: a failure partway through rolls back all of them.
// Results come back in submission order.
func (s *metricService) BulkUpsert(ctx context.Context, inputs []MetricUpsertInput) ([]*types.UserStepMetric, error) {
	results := make([]*types.UserStepMetric, 0, len(inputs))
	err := s.db.Transaction(func(tx *gorm.DB) error {
		for _, input := range inputs {
			row, err := s.upsertOne(ctx, tx, input)
			if err != nil {
				return err
			}
			results = append(results, row)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (s *metricService) upsertOne(ctx context.Context, tx *gorm.DB, input MetricUpsertInput) (*types.UserStepMetric, error) {
	existing, err := s.metricRepo.GetByTriple(ctx, tx, input.UserID, input.StepKey, input.MetricKey)
	if err != nil {
		return nil, fmt.Errorf("load metric: %w", err)
	}
	if existing != nil {
		if err := s.metricRepo.UpdateValue(ctx, tx, existing.ID, input.ValueNum); err != nil {
			return nil, fmt.Errorf("update metric: %w", err)
		}
		updated, err := s.metricRepo.GetByTriple(ctx, tx, input.UserID, input.StepKey, input.MetricKey)
		if err != nil {
			return nil, fmt.Errorf("reload metric: %w", err)
		}
		return updated, nil
	}
	row := &types.UserStepMetric{
		ID:        uuid.New(),
		UserID:    input.UserID,
		StepKey:   input.StepKey,
		MetricKey: input.MetricKey,
		ValueNum:  input.ValueNum,
	}
	if err := s.metricRepo.Create(ctx, tx, row); err != nil {
		return nil, fmt.Errorf("create metric: %w", err)
	}
	return row, nil
}
