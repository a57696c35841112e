package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/trimtime-pos/internal/application/service"
	"github.com/sangkips/trimtime-pos/internal/presentation/http/dto/request"
	"github.com/sangkips/trimtime-pos/internal/presentation/http/dto/response"
)

// StaffHandler handles the staff list
type StaffHandler struct {
	staffService *service.StaffService
}

// NewStaffHandler creates a new staff handler
func NewStaffHandler(staffService *service.StaffService) *StaffHandler {
	return &StaffHandler{staffService: staffService}
}

func (h *StaffHandler) List(c *gin.Context) {
	response.OK(c, "Staff retrieved successfully", h.staffService.List())
}

// Save replaces the staff list. Blank passwords keep the stored ones.
func (h *StaffHandler) Save(c *gin.Context) {
	var req request.SaveStaffRequest
	if !bindJSON(c, &req) {
		return
	}

	inputs := make([]service.StaffInput, 0, len(req.Staff))
	for _, s := range req.Staff {
		inputs = append(inputs, service.StaffInput{
			ID:         s.ID,
			Name:       s.Name,
			Username:   s.Username,
			Role:       s.Role,
			Commission: s.Commission,
			Email:      s.Email,
			Password:   s.Password,
		})
	}

	saved, err := h.staffService.Save(inputs)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Staff saved successfully", saved)
}
