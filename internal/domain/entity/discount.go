package entity

import (
	"github.com/sangkips/trimtime-pos/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// DiscountCode is an entry of the static discount catalog.
type DiscountCode struct {
	Code        string            `json:"code" yaml:"code"`
	Kind        enum.DiscountKind `json:"kind" yaml:"kind"`
	Value       decimal.Decimal   `json:"value" yaml:"value"`
	Description string            `json:"description,omitempty" yaml:"description"`
}
