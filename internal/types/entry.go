package types

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func init() {
	// Amounts serialize as JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

const (
	EntryTypeIncome  = "income"
	EntryTypeExpense = "expense"
)

// Entry is a single income or expense record. Year and Month are derived
// from Date and are never written independently of it.
type Entry struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    *string         `gorm:"index" json:"user_id,omitempty"`
	User      *User           `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"-"`
	Date      Date            `gorm:"not null;index" json:"date"`
	Year      int             `gorm:"not null;index" json:"year"`
	Month     int             `gorm:"not null;index" json:"month"`
	Type      string          `gorm:"size:16;not null" json:"type"`
	Name      string          `gorm:"size:200;not null" json:"name"`
	Category  string          `gorm:"size:100;not null" json:"category"`
	Amount    decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	Currency  string          `gorm:"size:8;not null;default:'CAD'" json:"currency"`
	Notes     *string         `gorm:"type:text" json:"notes"`
	IsDeleted bool            `gorm:"not null;default:false" json:"is_deleted"`
	CreatedAt time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time       `gorm:"not null" json:"updated_at"`
}

func (Entry) TableName() string { return "entries" }
