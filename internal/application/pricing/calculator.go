// Package pricing computes cart totals. Everything here is pure: the same
// lines, discount code and tax configuration always give the same Totals.
package pricing

import (
	"github.com/sangkips/trimtime-pos/internal/domain/entity"
	"github.com/sangkips/trimtime-pos/internal/domain/enum"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// TaxConfig is the shop's tax rate (0-100) and how it applies to prices.
type TaxConfig struct {
	Rate decimal.Decimal
	Mode enum.TaxType
}

// TaxConfigFrom reads the tax configuration out of the shop settings.
func TaxConfigFrom(s entity.ShopSettings) TaxConfig {
	return TaxConfig{Rate: s.TaxRate, Mode: s.TaxType}
}

// Totals is derived from a cart on every read and never stored on its own.
type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Discount decimal.Decimal `json:"discount"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

// Rounded returns the totals rounded half away from zero to cents.
func (t Totals) Rounded() Totals {
	return Totals{
		Subtotal: t.Subtotal.Round(2),
		Discount: t.Discount.Round(2),
		Tax:      t.Tax.Round(2),
		Total:    t.Total.Round(2),
	}
}

// DiscountLookup resolves a discount code by exact match.
type DiscountLookup interface {
	Lookup(code string) (entity.DiscountCode, bool)
}

// Compute prices a cart.
//
// The discount is clamped to [0, subtotal] so the total never goes negative.
// With excluded tax the tax is added on top of the discounted amount; with
// included tax the total stays the discounted amount and the embedded tax is
// backed out of it for display.
func Compute(lines []entity.CartLine, code string, discounts DiscountLookup, tax TaxConfig) Totals {
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.LineTotal())
	}

	discount := decimal.Zero
	if code != "" && discounts != nil {
		if dc, ok := discounts.Lookup(code); ok {
			discount = DiscountAmount(dc, subtotal)
		}
	}

	discounted := subtotal.Sub(discount)
	rate := tax.Rate.Div(hundred)

	var taxAmount, total decimal.Decimal
	switch tax.Mode {
	case enum.TaxTypeIncluded:
		total = discounted
		taxAmount = total.Sub(total.Div(decimal.NewFromInt(1).Add(rate)))
	default:
		taxAmount = discounted.Mul(rate)
		total = discounted.Add(taxAmount)
	}

	return Totals{
		Subtotal: subtotal,
		Discount: discount,
		Tax:      taxAmount,
		Total:    total,
	}
}

// DiscountAmount is what a code takes off the given subtotal, clamped to [0, subtotal].
func DiscountAmount(dc entity.DiscountCode, subtotal decimal.Decimal) decimal.Decimal {
	var amount decimal.Decimal
	switch dc.Kind {
	case enum.DiscountKindPercentage:
		amount = subtotal.Mul(dc.Value).Div(hundred)
	case enum.DiscountKindFixed:
		amount = dc.Value
	default:
		return decimal.Zero
	}

	if amount.IsNegative() {
		return decimal.Zero
	}
	if amount.GreaterThan(subtotal) {
		return subtotal
	}
	return amount
}
