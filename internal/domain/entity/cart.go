package entity

import (
	"time"

	"github.com/sangkips/trimtime-pos/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// CartLine is one service or product in an in-progress sale.
// A line is identified by (ItemID, Kind) and its quantity is never below 1.
type CartLine struct {
	ItemID    string          `json:"item_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Kind      enum.ItemKind   `json:"kind"`
	Quantity  int             `json:"quantity"`
}

// LineTotal is unit price times quantity.
func (l CartLine) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Matches reports whether the line holds the given item.
func (l CartLine) Matches(itemID string, kind enum.ItemKind) bool {
	return l.ItemID == itemID && l.Kind == kind
}

// HeldSale is a parked cart waiting to be resumed.
type HeldSale struct {
	ID         string     `json:"id"`
	CreatedAt  time.Time  `json:"created_at"`
	Lines      []CartLine `json:"lines"`
	CustomerID *string    `json:"customer_id,omitempty"`
	StaffID    *string    `json:"staff_id,omitempty"`
}
