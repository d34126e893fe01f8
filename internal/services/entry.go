package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mapleroad/mapleroad-backend/internal/apierr"
	"github.com/mapleroad/mapleroad-backend/internal/logger"
	"github.com/mapleroad/mapleroad-backend/internal/repos"
	"github.com/mapleroad/mapleroad-backend/internal/types"
)

type EntryCreateInput struct {
	UserID   *string
	Date     types.Date
	Type     string
	Name     string
	Category string
	Amount   decimal.Decimal
	Currency string
	Notes    *string
}

// EntryUpdateInput carries only the fields present in a PATCH body; nil
// means "leave the stored value untouched".
type EntryUpdateInput struct {
	Date     *types.Date
	Type     *string
	Name     *string
	Category *string
	Amount   *decimal.Decimal
	Currency *string
	Notes    *string
}

type EntryService interface {
	List(ctx context.Context, tx *gorm.DB, filter repos.EntryListFilter) ([]*types.Entry, error)
	Create(ctx context.Context, tx *gorm.DB, input EntryCreateInput) (*types.Entry, error)
	Update(ctx context.Context, tx *gorm.DB, id uuid.UUID, input EntryUpdateInput) (*types.Entry, error)
	Replace(ctx context.Context, tx *gorm.DB, id uuid.UUID, input EntryCreateInput) (*types.Entry, error)
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type entryService struct {
	db        *gorm.DB
	log       *logger.Logger
	entryRepo repos.EntryRepo
}

func NewEntryService(db *gorm.DB, baseLog *logger.Logger, entryRepo repos.EntryRepo) EntryService {
	return &entryService{
		db:        db,
		log:       baseLog.With("service", "EntryService"),
		entryRepo: entryRepo,
	}
}

func (s *entryService) List(ctx context.Context, tx *gorm.DB, filter repos.EntryListFilter) ([]*types.Entry, error) {
	if filter.Limit <= 0 {
		filter.Limit = 100
	}
	rows, err := s.entryRepo.List(ctx, tx, filter)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	return rows, nil
}

func (s *entryService) Create(ctx context.Context, tx *gorm.DB, input EntryCreateInput) (*types.Entry, error) {
	currency := input.Currency
	if currency == "" {
		currency = "CAD"
	}

	// year/month always derive from date, never from the caller
	row := &types.Entry{
		ID:       uuid.New(),
		UserID:   input.UserID,
		Date:     input.Date,
		Year:     input.Date.Year(),
		Month:    input.Date.Month(),
		Type:     input.Type,
		Name:     input.Name,
		Category: input.Category,
		Amount:   input.Amount,
		Currency: currency,
		Notes:    input.Notes,
	}
	if err := s.entryRepo.Create(ctx, tx, row); err != nil {
		return nil, fmt.Errorf("create entry: %w", err)
	}
	return row, nil
}

func (s *entryService) Update(ctx context.Context, tx *gorm.DB, id uuid.UUID, input EntryUpdateInput) (*types.Entry, error) {
	existing, err := s.entryRepo.GetActiveByID(ctx, tx, id)
	if err != nil {
		return nil, fmt.Errorf("load entry: %w", err)
	}
	if existing == nil {
		return nil, apierr.NotFound("Entry not found")
	}

	fields := map[string]interface{}{}
	if input.Date != nil {
		fields["date"] = *input.Date
		fields["year"] = input.Date.Year()
		fields["month"] = input.Date.Month()
	}
	if input.Type != nil {
		fields["type"] = *input.Type
	}
	if input.Name != nil {
		fields["name"] = *input.Name
	}
	if input.Category != nil {
		fields["category"] = *input.Category
	}
	if input.Amount != nil {
		fields["amount"] = *input.Amount
	}
	if input.Currency != nil {
		fields["currency"] = *input.Currency
	}
	if input.Notes != nil {
		fields["notes"] = *input.Notes
	}

	if err := s.entryRepo.UpdateFields(ctx, tx, id, fields); err != nil {
		return nil, fmt.Errorf("update entry: %w", err)
	}
	updated, err := s.entryRepo.GetByID(ctx, tx, id)
	if err != nil {
		return nil, fmt.Errorf("reload entry: %w", err)
	}
	return updated, nil
}

func (s *entryService) Replace(ctx context.Context, tx *gorm.DB, id uuid.UUID, input EntryCreateInput) (*types.Entry, error) {
	existing, err := s.entryRepo.GetActiveByID(ctx, tx, id)
	if err != nil {
		return nil, fmt.Errorf("load entry: %w", err)
	}
	if existing == nil {
		return nil, apierr.NotFound("Entry not found")
	}

	currency := input.Currency
	if currency == "" {
		currency = "CAD"
	}
	fields := map[string]interface{}{
		"date":     input.Date,
		"year":     input.Date.Year(),
		"month":    input.Date.Month(),
		"type":     input.Type,
		"name":     input.Name,
		"category": input.Category,
		"amount":   input.Amount,
		"currency": currency,
		"notes":    input.Notes,
	}
	if err := s.entryRepo.UpdateFields(ctx, tx, id, fields); err != nil {
		return nil, fmt.Errorf("replace entry: %w", err)
	}
	updated, err := s.entryRepo.GetByID(ctx, tx, id)
	if err != nil {
		return nil, fmt.Errorf("reload entry: %w", err)
	}
	return updated, nil
}

func (s *entryService) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	affected, err := s.entryRepo.DeleteByID(ctx, tx, id)
	if err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	if affected == 0 {
		return apierr.NotFound("Entry not found")
	}
	return nil
}
