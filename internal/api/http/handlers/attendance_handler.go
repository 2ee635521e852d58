package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/attendance-service/internal/api/dto"
	"github.com/spec-kit/attendance-service/internal/auth"
	"github.com/spec-kit/attendance-service/internal/service"
	apperrors "github.com/spec-kit/attendance-service/pkg/util"
)

// AttendanceHandler manages the student submission endpoint.
type AttendanceHandler struct {
	service *service.AttendanceService
}

// NewAttendanceHandler constructs handler.
func NewAttendanceHandler(attendanceService *service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{service: attendanceService}
}

// Submit POST /attendance.
func (h *AttendanceHandler) Submit(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Student == nil {
		return apperrors.NewUnauthorized("student required")
	}

	var req dto.SubmitAttendanceRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	record, err := h.service.Submit(c.Context(), req.Token, principal.Student.ID)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.SubmitAttendanceResponse{
		Accepted:    true,
		Timeliness:  record.Timeliness,
		SubmittedAt: record.SubmittedAt,
	}})
}
