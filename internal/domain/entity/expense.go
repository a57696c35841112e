package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense is an outgoing payment recorded against the shop, e.g. rent or supplies.
type Expense struct {
	ID          string          `gorm:"size:64;primaryKey" json:"id"`
	Category    string          `gorm:"size:100;not null;index" json:"category"`
	Amount      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Description string          `gorm:"type:text" json:"description,omitempty"`
	CreatedAt   time.Time       `gorm:"not null;index" json:"created_at"`
}

// TableName returns the table name for the Expense model
func (Expense) TableName() string {
	return "expenses"
}

func (e Expense) Key() string { return e.ID }
