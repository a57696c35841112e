package entity

import (
	"time"

	"github.com/sangkips/trimtime-pos/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// Sale is the immutable record of a completed checkout.
// Amounts are frozen at commit time and never recomputed.
type Sale struct {
	ID            string             `gorm:"size:64;primaryKey" json:"id"`
	CreatedAt     time.Time          `gorm:"not null;index" json:"created_at"`
	Lines         []CartLine         `gorm:"serializer:json;type:text;not null" json:"lines"`
	StaffID       string             `gorm:"size:64;not null;index" json:"staff_id"`
	CustomerID    *string            `gorm:"size:64;index" json:"customer_id,omitempty"`
	Total         decimal.Decimal    `gorm:"type:decimal(12,2);not null" json:"total"`
	Tax           decimal.Decimal    `gorm:"type:decimal(12,2);not null" json:"tax"`
	Discount      decimal.Decimal    `gorm:"type:decimal(12,2);not null" json:"discount"`
	DiscountCode  *string            `gorm:"size:50" json:"discount_code,omitempty"`
	PaymentMethod enum.PaymentMethod `gorm:"size:20;not null" json:"payment_method"`
	TaxType       enum.TaxType       `gorm:"column:tax_mode;not null;default:0" json:"tax_type"`
}

// TableName returns the table name for the Sale model
func (Sale) TableName() string {
	return "sales"
}

func (s Sale) Key() string { return s.ID }

// Subtotal is the undiscounted sum of the line totals.
func (s Sale) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, l := range s.Lines {
		sum = sum.Add(l.LineTotal())
	}
	return sum
}

// ProductQuantities sums the sold quantity per product id.
func (s Sale) ProductQuantities() map[string]int {
	out := make(map[string]int)
	for _, l := range s.Lines {
		if l.Kind == enum.ItemKindProduct {
			out[l.ItemID] += l.Quantity
		}
	}
	return out
}
