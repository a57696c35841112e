package request

import (
	"github.com/sangkips/trimtime-pos/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// ServiceRequest is one entry of a saved service list
type ServiceRequest struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Duration int             `json:"duration"`
	Category string          `json:"category"`
}

// SaveServicesRequest replaces the whole service list
type SaveServicesRequest struct {
	Services []ServiceRequest `json:"services"`
}

// ProductRequest is one entry of a saved product list
type ProductRequest struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Price   decimal.Decimal `json:"price"`
	Cost    decimal.Decimal `json:"cost"`
	Stock   int             `json:"stock"`
	Barcode string          `json:"barcode"`
}

// SaveProductsRequest replaces the whole product list
type SaveProductsRequest struct {
	Products []ProductRequest `json:"products"`
}

// StaffRequest is one entry of a saved staff list
type StaffRequest struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Username   string          `json:"username"`
	Role       enum.StaffRole  `json:"role"`
	Commission decimal.Decimal `json:"commission"`
	Email      string          `json:"email"`
	Password   string          `json:"password"`
}

// SaveStaffRequest replaces the whole staff list
type SaveStaffRequest struct {
	Staff []StaffRequest `json:"staff"`
}

// CustomerRequest is one entry of a saved customer list
type CustomerRequest struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
	Notes string `json:"notes"`
}

// SaveCustomersRequest replaces the whole customer list
type SaveCustomersRequest struct {
	Customers []CustomerRequest `json:"customers"`
}

// QuickAddCustomerRequest adds a single customer from the register
type QuickAddCustomerRequest struct {
	Name  string `json:"name" binding:"required,max=255"`
	Phone string `json:"phone" binding:"max=50"`
	Email string `json:"email" binding:"omitempty,email"`
	Notes string `json:"notes"`
}

// SettingsRequest represents the shop settings form
type SettingsRequest struct {
	ShopName        string          `json:"shop_name"`
	Currency        string          `json:"currency"`
	Language        string          `json:"language"`
	WhatsAppEnabled bool            `json:"whatsapp_enabled"`
	WhatsAppNumber  string          `json:"whatsapp_number"`
	ReceiptFooter   string          `json:"receipt_footer"`
	TaxRate         decimal.Decimal `json:"tax_rate"`
	TaxType         enum.TaxType    `json:"tax_type"`
}

// ExpenseRequest records one shop expense
type ExpenseRequest struct {
	Category    string          `json:"category" binding:"required"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}
