package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mapleroad/mapleroad-backend/internal/logger"
	"github.com/mapleroad/mapleroad-backend/internal/types"
)

// EntryListFilter narrows the entry list; nil fields are ignored.
type EntryListFilter struct {
	Year   *int
	Month  *int
	Type   *string
	UserID *string
	Limit  int
}

type EntryRepo interface {
	List(ctx context.Context, tx *gorm.DB, filter EntryListFilter) ([]*types.Entry, error)
	// GetByID finds a row regardless of its soft-delete flag.
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Entry, error)
	// GetActiveByID finds a row only when it is not soft-deleted.
	GetActiveByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Entry, error)
	Create(ctx context.Context, tx *gorm.DB, row *types.Entry) error
	UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error
	DeleteByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (int64, error)
}

type entryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEntryRepo(db *gorm.DB, baseLog *logger.Logger) EntryRepo {
	return &entryRepo{db: db, log: baseLog.With("repo", "EntryRepo")}
}

func (r *entryRepo) List(ctx context.Context, tx *gorm.DB, filter EntryListFilter) ([]*types.Entry, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	q := transaction.WithContext(ctx).Model(&types.Entry{})
	if filter.Year != nil {
		q = q.Where("year = ?", *filter.Year)
	}
	if filter.Month != nil {
		q = q.Where("month = ?", *filter.Month)
	}
	if filter.Type != nil {
		q = q.Where("type = ?", *filter.Type)
	}
	if filter.UserID != nil {
		q = q.Where("user_id = ?", *filter.UserID)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	var results []*types.Entry
	if err := q.Order("date DESC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *entryRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Entry, error) {
	return r.getOne(ctx, tx, id, false)
}

func (r *entryRepo) GetActiveByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Entry, error) {
	return r.getOne(ctx, tx, id, true)
}

func (r *entryRepo) getOne(ctx context.Context, tx *gorm.DB, id uuid.UUID, activeOnly bool) (*types.Entry, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	q := transaction.WithContext(ctx).Where("id = ?", id)
	if activeOnly {
		q = q.Where("is_deleted = ?", false)
	}
	var row types.Entry
	err := q.First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *entryRepo) Create(ctx context.Context, tx *gorm.DB, row *types.Entry) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Create(row).Error
}

func (r *entryRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(fields) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Model(&types.Entry{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *entryRepo) DeleteByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	res := transaction.WithContext(ctx).Where("id = ?", id).Delete(&types.Entry{})
	return res.RowsAffected, res.Error
}
