package entity

import "github.com/shopspring/decimal"

// ReceiptHeader holds the shop header printed at the top of a receipt.
type ReceiptHeader struct {
	ShopName string `json:"shop_name"`
	Phone    string `json:"phone,omitempty"`
}

// ReceiptItem represents a single line item on a receipt.
type ReceiptItem struct {
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Total     decimal.Decimal `json:"total"`
}

// Receipt is a value object composed from a sale at print or export time.
// It is not stored.
type Receipt struct {
	Header        ReceiptHeader   `json:"header"`
	TransactionID string          `json:"transaction_id"`
	Date          string          `json:"date"`
	Professional  string          `json:"professional"`
	Client        string          `json:"client"`
	PaymentMethod string          `json:"payment_method"`
	Currency      string          `json:"currency"`
	Items         []ReceiptItem   `json:"items"`
	SubTotal      decimal.Decimal `json:"sub_total"`
	Discount      decimal.Decimal `json:"discount"`
	DiscountCode  string          `json:"discount_code,omitempty"`
	TaxRate       decimal.Decimal `json:"tax_rate"`
	TaxIncluded   bool            `json:"tax_included"`
	Tax           decimal.Decimal `json:"tax"`
	Total         decimal.Decimal `json:"total"`
	Footer        string          `json:"footer,omitempty"`
}
