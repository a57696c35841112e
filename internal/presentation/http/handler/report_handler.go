package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/trimtime-pos/internal/application/service"
	"github.com/sangkips/trimtime-pos/internal/presentation/http/dto/request"
	"github.com/sangkips/trimtime-pos/internal/presentation/http/dto/response"
)

// ReportHandler handles finance reports
type ReportHandler struct {
	reportService *service.ReportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// Commissions reports revenue and commission per staff member
func (h *ReportHandler) Commissions(c *gin.Context) {
	var req request.ReportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "from and to are required as YYYY-MM-DD")
		return
	}

	report, err := h.reportService.Commissions(c.Request.Context(), req.From, req.To)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Commission report generated", report)
}

// Summary reports revenue, expenses and net profit for the range
func (h *ReportHandler) Summary(c *gin.Context) {
	var req request.ReportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "from and to are required as YYYY-MM-DD")
		return
	}

	summary, err := h.reportService.Summary(c.Request.Context(), req.From, req.To)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Period summary generated", summary)
}
