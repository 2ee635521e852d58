package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/attendance-service/internal/api/dto"
	"github.com/spec-kit/attendance-service/internal/service"
)

// ReportsHandler serves the dashboard read endpoints.
type ReportsHandler struct {
	service *service.ReportService
}

// NewReportsHandler constructs handler.
func NewReportsHandler(reportService *service.ReportService) *ReportsHandler {
	return &ReportsHandler{service: reportService}
}

// Stats GET /reports/stats.
func (h *ReportsHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.service.Stats(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.StatsResponse{
		TotalTokens:     stats.TotalTokens,
		ActiveTokens:    stats.ActiveTokens,
		TodayAttendance: stats.TodayAttendance,
		TotalAttendance: stats.TotalAttendance,
	}})
}

// Chart GET /reports/chart.
func (h *ReportsHandler) Chart(c *fiber.Ctx) error {
	days := parseInt(c.Query("days"), 0)
	series, err := h.service.Chart(c.Context(), days)
	if err != nil {
		return err
	}

	items := make([]dto.ChartPointResponse, 0, len(series))
	for _, point := range series {
		items = append(items, dto.ChartPointResponse{
			Date:            point.Date,
			AttendanceCount: point.AttendanceCount,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}

// Export GET /reports/export.
func (h *ReportsHandler) Export(c *fiber.Ctx) error {
	rows, err := h.service.Export(c.Context(), service.ExportInput{
		ClassID:      c.Query("class_id"),
		DepartmentID: c.Query("department_id"),
		Date:         c.Query("date"),
	})
	if err != nil {
		return err
	}

	items := make([]dto.ExportRowResponse, 0, len(rows))
	for _, row := range rows {
		items = append(items, dto.NewExportRowResponse(row))
	}
	return c.JSON(fiber.Map{"data": items})
}
