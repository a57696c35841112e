package request

import (
	"time"

	"github.com/sangkips/trimtime-pos/internal/domain/enum"
)

// AddLineRequest puts a catalog item in the cart
type AddLineRequest struct {
	Kind   enum.ItemKind `json:"kind" binding:"required"`
	ItemID string        `json:"item_id" binding:"required"`
}

// UpdateQuantityRequest changes a line's quantity by delta
type UpdateQuantityRequest struct {
	Delta int `json:"delta" binding:"required,min=-10000,max=10000"`
}

// SelectStaffRequest assigns the sale; an empty id clears it
type SelectStaffRequest struct {
	StaffID string `json:"staff_id"`
}

// SelectCustomerRequest sets the customer; an empty id is a walk-in
type SelectCustomerRequest struct {
	CustomerID string `json:"customer_id"`
}

// DiscountRequest applies a discount code as typed
type DiscountRequest struct {
	Code string `json:"code"`
}

// ScanRequest is a code entered by hand or read by the camera
type ScanRequest struct {
	Code string `json:"code"`
	Key  string `json:"key"` // single keystroke from a keyboard-wedge reader
}

// CheckoutRequest represents the checkout request
type CheckoutRequest struct {
	PaymentMethod enum.PaymentMethod `json:"payment_method" binding:"required"`
}

// ShareReceiptRequest mails a receipt
type ShareReceiptRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// SaleFilterRequest represents sale filter parameters
type SaleFilterRequest struct {
	StaffID string     `form:"staff_id"`
	From    *time.Time `form:"from" time_format:"2006-01-02"`
	To      *time.Time `form:"to" time_format:"2006-01-02"`
	Page    int        `form:"page"`
	PerPage int        `form:"per_page"`
}

// ReportRequest is the inclusive date range of a report
type ReportRequest struct {
	From time.Time `form:"from" binding:"required" time_format:"2006-01-02"`
	To   time.Time `form:"to" binding:"required" time_format:"2006-01-02"`
}
