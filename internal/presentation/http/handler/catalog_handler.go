package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/trimtime-pos/internal/application/pricing"
	"github.com/sangkips/trimtime-pos/internal/application/service"
	"github.com/sangkips/trimtime-pos/internal/domain/entity"
	"github.com/sangkips/trimtime-pos/internal/presentation/http/dto/request"
	"github.com/sangkips/trimtime-pos/internal/presentation/http/dto/response"
)

// CatalogHandler handles the service and product lists
type CatalogHandler struct {
	catalogService *service.CatalogService
	discounts      *pricing.Catalog
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalogService *service.CatalogService, discounts *pricing.Catalog) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService, discounts: discounts}
}

// ListDiscounts returns the discount codes the register accepts
func (h *CatalogHandler) ListDiscounts(c *gin.Context) {
	response.OK(c, "Discount codes retrieved successfully", h.discounts.List())
}

func (h *CatalogHandler) ListServices(c *gin.Context) {
	response.OK(c, "Services retrieved successfully", h.catalogService.Services())
}

// SaveServices replaces the service list
func (h *CatalogHandler) SaveServices(c *gin.Context) {
	var req request.SaveServicesRequest
	if !bindJSON(c, &req) {
		return
	}

	next := make([]entity.Service, 0, len(req.Services))
	for _, s := range req.Services {
		next = append(next, entity.Service{
			ID:       s.ID,
			Name:     s.Name,
			Price:    s.Price,
			Duration: s.Duration,
			Category: s.Category,
		})
	}

	saved, err := h.catalogService.SaveServices(next)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Services saved successfully", saved)
}

func (h *CatalogHandler) ListProducts(c *gin.Context) {
	response.OK(c, "Products retrieved successfully", h.catalogService.Products())
}

// SaveProducts replaces the product list
func (h *CatalogHandler) SaveProducts(c *gin.Context) {
	var req request.SaveProductsRequest
	if !bindJSON(c, &req) {
		return
	}

	next := make([]entity.Product, 0, len(req.Products))
	for _, p := range req.Products {
		next = append(next, entity.Product{
			ID:      p.ID,
			Name:    p.Name,
			Price:   p.Price,
			Cost:    p.Cost,
			Stock:   p.Stock,
			Barcode: p.Barcode,
		})
	}

	saved, err := h.catalogService.SaveProducts(next)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Products saved successfully", saved)
}
