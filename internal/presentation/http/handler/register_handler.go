package handler

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/trimtime-pos/internal/application/service"
	"github.com/sangkips/trimtime-pos/internal/domain/enum"
	"github.com/sangkips/trimtime-pos/internal/presentation/http/dto/request"
	"github.com/sangkips/trimtime-pos/internal/presentation/http/dto/response"
)

// RegisterHandler handles the operator's cart, held sales and checkout
type RegisterHandler struct {
	registerService *service.RegisterService
}

// NewRegisterHandler creates a new register handler
func NewRegisterHandler(registerService *service.RegisterService) *RegisterHandler {
	return &RegisterHandler{registerService: registerService}
}

// Get returns the cart with its totals
func (h *RegisterHandler) Get(c *gin.Context) {
	op, ok := GetOperator(c)
	if !ok {
		return
	}
	response.OK(c, "Register retrieved successfully", h.registerService.View(op))
}

// AddLine adds a service or product, or increments its quantity
func (h *RegisterHandler) AddLine(c *gin.Context) {
	op, ok := GetOperator(c)
	if !ok {
		return
	}
	var req request.AddLineRequest
	if !bindJSON(c, &req) {
		return
	}

	view, err := h.registerService.AddItem(op, req.Kind, req.ItemID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Item added", view)
}

// UpdateLine changes a line's quantity by delta
func (h *RegisterHandler) UpdateLine(c *gin.Context) {
	op, ok := GetOperator(c)
	if !ok {
		return
	}
	var req request.UpdateQuantityRequest
	if !bindJSON(c, &req) {
		return
	}

	view, err := h.registerService.UpdateQuantity(op, enum.ItemKind(c.Param("kind")), c.Param("id"), req.Delta)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Quantity updated", view)
}

// RemoveLine drops a line from the cart
func (h *RegisterHandler) RemoveLine(c *gin.Context) {
	op, ok := GetOperator(c)
	if !ok {
		return
	}
	view := h.registerService.RemoveItem(op, enum.ItemKind(c.Param("kind")), c.Param("id"))
	response.OK(c, "Item removed", view)
}

// SelectStaff assigns the sale to a staff member
func (h *RegisterHandler) SelectStaff(c *gin.Context) {
	op, ok := GetOperator(c)
	if !ok {
		return
	}
	var req request.SelectStaffRequest
	if !bindJSON(c, &req) {
		return
	}

	view, err := h.registerService.SelectStaff(op, req.StaffID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Staff selected", view)
}

// SelectCustomer sets the sale's customer
func (h *RegisterHandler) SelectCustomer(c *gin.Context) {
	op, ok := GetOperator(c)
	if !ok {
		return
	}
	var req request.SelectCustomerRequest
	if !bindJSON(c, &req) {
		return
	}

	view, err := h.registerService.SelectCustomer(op, req.CustomerID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Customer selected", view)
}

// ApplyDiscount stores a discount code on the cart
func (h *RegisterHandler) ApplyDiscount(c *gin.Context) {
	op, ok := GetOperator(c)
	if !ok {
		return
	}
	var req request.DiscountRequest
	if !bindJSON(c, &req) {
		return
	}
	response.OK(c, "Discount code applied", h.registerService.ApplyDiscount(op, req.Code))
}

// Scan handles a code entered by hand, decoded by the camera or typed by a
// keyboard-wedge reader one key at a time
func (h *RegisterHandler) Scan(c *gin.Context) {
	op, ok := GetOperator(c)
	if !ok {
		return
	}
	var req request.ScanRequest
	if !bindJSON(c, &req) {
		return
	}

	var (
		result *service.ScanResult
		err    error
	)
	switch {
	case req.Key != "":
		result, err = h.registerService.Keystroke(op, req.Key)
	case strings.TrimSpace(req.Code) != "":
		result, err = h.registerService.Scan(op, req.Code)
	default:
		response.BadRequest(c, "A code or a key is required")
		return
	}
	if err != nil {
		response.Error(c, err)
		return
	}
	if result == nil {
		response.OK(c, "Key buffered", gin.H{"accepted": false})
		return
	}
	if !result.Accepted {
		response.OK(c, "Scan ignored", result)
		return
	}
	response.OK(c, "Product added", result)
}

// Hold parks the cart
func (h *RegisterHandler) Hold(c *gin.Context) {
	op, ok := GetOperator(c)
	if !ok {
		return
	}
	held, err := h.registerService.Hold(op)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Sale held", held)
}

// ListHeld returns parked sales, newest first
func (h *RegisterHandler) ListHeld(c *gin.Context) {
	op, ok := GetOperator(c)
	if !ok {
		return
	}
	response.OK(c, "Held sales retrieved successfully", h.registerService.Held(op))
}

// Resume brings a parked sale back into the cart
func (h *RegisterHandler) Resume(c *gin.Context) {
	op, ok := GetOperator(c)
	if !ok {
		return
	}
	view, err := h.registerService.Resume(op, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Sale resumed", view)
}

// Checkout commits the cart as a sale
func (h *RegisterHandler) Checkout(c *gin.Context) {
	op, ok := GetOperator(c)
	if !ok {
		return
	}
	var req request.CheckoutRequest
	if !bindJSON(c, &req) {
		return
	}

	sale, err := h.registerService.Checkout(op, service.CheckoutInput{PaymentMethod: req.PaymentMethod})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Sale completed", sale)
}
