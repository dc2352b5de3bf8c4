package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"dispatch/internal/service"
)

// ReportHandler handles HTTP requests for exports and activity reports.
type ReportHandler struct {
	exportService    *service.ExportService
	reportingService *service.ReportingService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(exportService *service.ExportService, reportingService *service.ReportingService) *ReportHandler {
	return &ReportHandler{
		exportService:    exportService,
		reportingService: reportingService,
	}
}

// ExportStatements handles GET /v1/reports/statements/export
func (h *ReportHandler) ExportStatements(c *gin.Context) {
	filter, err := statementFilterFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	workbook, filename, err := h.exportService.StatementsWorkbook(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if err := workbook.Write(c.Writer); err != nil {
		// Headers are already out; nothing left to report to the client.
		_ = c.Error(err)
	}
}

// RiderActivityResponse summarizes one rider's delivery activity.
type RiderActivityResponse struct {
	Rider           RiderResponse      `json:"rider"`
	TotalDeliveries int                `json:"total_deliveries"`
	Pending         int                `json:"pending"`
	InProgress      int                `json:"in_progress"`
	Completed       int                `json:"completed"`
	TotalEarnings   float64            `json:"total_earnings"`
	PendingPayments float64            `json:"pending_payments"`
	Recent          []DeliveryResponse `json:"recent_deliveries"`
}

// GetRiderActivity handles GET /v1/reports/riders/:id/activity
func (h *ReportHandler) GetRiderActivity(c *gin.Context) {
	riderID, err := parseID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid rider id"})
		return
	}

	activity, err := h.reportingService.RiderActivitySummary(c.Request.Context(), riderID)
	if err != nil {
		respondError(c, err)
		return
	}

	recent := make([]DeliveryResponse, 0, len(activity.Recent))
	for _, d := range activity.Recent {
		recent = append(recent, toDeliveryResponse(d))
	}

	respondJSON(c, http.StatusOK, RiderActivityResponse{
		Rider:           toRiderResponse(activity.Rider),
		TotalDeliveries: activity.TotalDeliveries,
		Pending:         activity.Pending,
		InProgress:      activity.InProgress,
		Completed:       activity.Completed,
		TotalEarnings:   activity.TotalEarnings,
		PendingPayments: activity.PendingPayments,
		Recent:          recent,
	})
}
