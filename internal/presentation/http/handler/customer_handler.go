package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/trimtime-pos/internal/application/service"
	"github.com/sangkips/trimtime-pos/internal/domain/entity"
	"github.com/sangkips/trimtime-pos/internal/presentation/http/dto/request"
	"github.com/sangkips/trimtime-pos/internal/presentation/http/dto/response"
)

// CustomerHandler handles customer-related HTTP requests
type CustomerHandler struct {
	customerService *service.CustomerService
}

// NewCustomerHandler creates a new customer handler
func NewCustomerHandler(customerService *service.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService}
}

func (h *CustomerHandler) List(c *gin.Context) {
	response.OK(c, "Customers retrieved successfully", h.customerService.List())
}

// Save replaces the customer list
func (h *CustomerHandler) Save(c *gin.Context) {
	var req request.SaveCustomersRequest
	if !bindJSON(c, &req) {
		return
	}

	next := make([]entity.Customer, 0, len(req.Customers))
	for _, cu := range req.Customers {
		existing, _ := h.customerService.Find(cu.ID)
		next = append(next, entity.Customer{
			ID:        cu.ID,
			Name:      cu.Name,
			Phone:     cu.Phone,
			Email:     cu.Email,
			Notes:     cu.Notes,
			CreatedAt: existing.CreatedAt,
		})
	}

	saved, err := h.customerService.Save(next)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Customers saved successfully", saved)
}

// QuickAdd creates one customer from the register
func (h *CustomerHandler) QuickAdd(c *gin.Context) {
	var req request.QuickAddCustomerRequest
	if !bindJSON(c, &req) {
		return
	}

	customer, err := h.customerService.QuickAdd(service.QuickAddCustomerInput{
		Name:  req.Name,
		Phone: req.Phone,
		Email: req.Email,
		Notes: req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Customer created successfully", customer)
}
