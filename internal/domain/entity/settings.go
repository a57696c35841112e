package entity

import (
	"time"

	"github.com/sangkips/trimtime-pos/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// ShopSettingsID is the primary key of the single settings row.
const ShopSettingsID = 1

// ShopSettings is the shop-wide configuration edited from the settings screen.
type ShopSettings struct {
	ShopName        string          `json:"shop_name"`
	Currency        string          `json:"currency"`
	Language        string          `json:"language"`
	WhatsAppEnabled bool            `json:"whatsapp_enabled"`
	WhatsAppNumber  string          `json:"whatsapp_number,omitempty"`
	ReceiptFooter   string          `json:"receipt_footer"`
	TaxRate         decimal.Decimal `json:"tax_rate"`
	TaxType         enum.TaxType    `json:"tax_type"`
}

// DefaultShopSettings returns the settings used before anything was saved.
func DefaultShopSettings() ShopSettings {
	return ShopSettings{
		ShopName:      "TrimTime Barbershop",
		Currency:      "$",
		Language:      "en",
		ReceiptFooter: "Thank you for choosing us!",
		TaxRate:       decimal.NewFromInt(10),
		TaxType:       enum.TaxTypeExcluded,
	}
}

// SettingsRecord stores ShopSettings as a JSON document in a singleton row.
type SettingsRecord struct {
	ID        int          `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Data      ShopSettings `gorm:"serializer:json;type:text" json:"data"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// TableName returns the table name for the SettingsRecord model
func (SettingsRecord) TableName() string {
	return "settings"
}
