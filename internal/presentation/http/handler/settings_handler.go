package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/trimtime-pos/internal/application/service"
	"github.com/sangkips/trimtime-pos/internal/domain/entity"
	"github.com/sangkips/trimtime-pos/internal/presentation/http/dto/request"
	"github.com/sangkips/trimtime-pos/internal/presentation/http/dto/response"
)

// SettingsHandler handles shop settings requests
type SettingsHandler struct {
	settingsService *service.SettingsService
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(settingsService *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// Get returns the shop settings
func (h *SettingsHandler) Get(c *gin.Context) {
	response.OK(c, "Settings retrieved successfully", h.settingsService.Get())
}

// Update replaces the shop settings
func (h *SettingsHandler) Update(c *gin.Context) {
	var req request.SettingsRequest
	if !bindJSON(c, &req) {
		return
	}

	settings, err := h.settingsService.Update(entity.ShopSettings{
		ShopName:        req.ShopName,
		Currency:        req.Currency,
		Language:        req.Language,
		WhatsAppEnabled: req.WhatsAppEnabled,
		WhatsAppNumber:  req.WhatsAppNumber,
		ReceiptFooter:   req.ReceiptFooter,
		TaxRate:         req.TaxRate,
		TaxType:         req.TaxType,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Settings updated successfully", settings)
}
