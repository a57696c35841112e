package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/trimtime-pos/internal/application/service"
	"github.com/sangkips/trimtime-pos/internal/presentation/http/dto/request"
	"github.com/sangkips/trimtime-pos/internal/presentation/http/dto/response"
)

// ExpenseHandler handles the expense ledger
type ExpenseHandler struct {
	expenseService *service.ExpenseService
}

// NewExpenseHandler creates a new expense handler
func NewExpenseHandler(expenseService *service.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService}
}

func (h *ExpenseHandler) List(c *gin.Context) {
	response.OK(c, "Expenses retrieved successfully", h.expenseService.List())
}

// Add records an expense
func (h *ExpenseHandler) Add(c *gin.Context) {
	var req request.ExpenseRequest
	if !bindJSON(c, &req) {
		return
	}

	expense, err := h.expenseService.Add(service.ExpenseInput{
		Category:    req.Category,
		Amount:      req.Amount,
		Description: req.Description,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Expense recorded successfully", expense)
}

func (h *ExpenseHandler) Delete(c *gin.Context) {
	if err := h.expenseService.Delete(c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Expense deleted successfully", nil)
}
