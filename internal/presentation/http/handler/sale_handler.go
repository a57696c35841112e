package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/trimtime-pos/internal/application/service"
	"github.com/sangkips/trimtime-pos/internal/domain/repository"
	"github.com/sangkips/trimtime-pos/internal/presentation/http/dto/request"
	"github.com/sangkips/trimtime-pos/internal/presentation/http/dto/response"
	"github.com/sangkips/trimtime-pos/pkg/pagination"
)

// SaleHandler handles the sales log and receipts
type SaleHandler struct {
	saleService    *service.SaleService
	printerService *service.PrinterService
}

// NewSaleHandler creates a new sale handler
func NewSaleHandler(saleService *service.SaleService, printerService *service.PrinterService) *SaleHandler {
	return &SaleHandler{saleService: saleService, printerService: printerService}
}

// List pages through the sales log
func (h *SaleHandler) List(c *gin.Context) {
	var filter request.SaleFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	params := &repository.SaleFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    filter.Page,
			PerPage: filter.PerPage,
		},
		StaffID: filter.StaffID,
		From:    filter.From,
	}
	if filter.To != nil {
		end := filter.To.AddDate(0, 0, 1)
		params.To = &end
	}

	result, err := h.saleService.List(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPagination(c, http.StatusOK, "Sales retrieved successfully", result)
}

// Recent returns the sales completed at this register since it started
func (h *SaleHandler) Recent(c *gin.Context) {
	response.OK(c, "Recent sales retrieved successfully", h.saleService.Recent())
}

// Get returns one sale
func (h *SaleHandler) Get(c *gin.Context) {
	sale, err := h.saleService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Sale retrieved successfully", sale)
}

// Receipt returns the receipt as JSON, or as a text download with ?format=text
func (h *SaleHandler) Receipt(c *gin.Context) {
	if c.Query("format") == "text" {
		name, body, err := h.printerService.ExportText(c.Request.Context(), c.Param("id"))
		if err != nil {
			response.Error(c, err)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
		c.Data(http.StatusOK, "text/plain; charset=utf-8", body)
		return
	}

	receipt, err := h.printerService.Receipt(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Receipt retrieved successfully", receipt)
}

// Print sends the receipt to the thermal printer
func (h *SaleHandler) Print(c *gin.Context) {
	receipt, err := h.printerService.PrintSaleReceipt(c.Request.Context(), c.Param("id"))
	if err != nil {
		if receipt == nil {
			response.Error(c, err)
			return
		}
		// the receipt is still useful when the printer is off
		response.OK(c, "Receipt built, printing failed", gin.H{
			"receipt": receipt,
			"warning": err.Error(),
		})
		return
	}
	response.OK(c, "Receipt sent to printer", gin.H{"receipt": receipt})
}

// Share mails the receipt to an address
func (h *SaleHandler) Share(c *gin.Context) {
	var req request.ShareReceiptRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.printerService.ShareByEmail(c.Request.Context(), c.Param("id"), req.Email); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Receipt sent", nil)
}

// PrinterStatus returns the printer connection status
func (h *SaleHandler) PrinterStatus(c *gin.Context) {
	response.OK(c, "Printer status retrieved", h.printerService.GetStatus())
}
