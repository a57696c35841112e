package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product represents a retail product kept in stock
type Product struct {
	ID        string          `gorm:"size:64;primaryKey" json:"id"`
	Name      string          `gorm:"size:255;not null" json:"name"`
	Price     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	Cost      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"cost"`
	Stock     int             `gorm:"not null;default:0" json:"stock"`
	Barcode   string          `gorm:"size:100;index" json:"barcode,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// BeforeCreate generates an ID when the client did not supply one
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// TableName returns the table name for the Product model
func (Product) TableName() string {
	return "products"
}

func (p Product) Key() string { return p.ID }

// Margin is the per-unit profit at the current price.
func (p Product) Margin() decimal.Decimal {
	return p.Price.Sub(p.Cost)
}
