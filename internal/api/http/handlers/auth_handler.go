package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/attendance-service/internal/api/dto"
	"github.com/spec-kit/attendance-service/internal/service"
	apperrors "github.com/spec-kit/attendance-service/pkg/util"
)

// AuthHandler manages login endpoints.
type AuthHandler struct {
	service *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{service: authService}
}

// StudentLogin POST /auth/students/login.
func (h *AuthHandler) StudentLogin(c *fiber.Ctx) error {
	var req dto.StudentLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.NISN) == "" || req.Password == "" {
		return apperrors.NewValidationError("nisn and password required", nil)
	}

	student, bearer, exp, err := h.service.LoginStudent(c.Context(), strings.TrimSpace(req.NISN), req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.LoginResponse{
		Token:     bearer,
		ExpiresAt: exp,
		Subject: dto.SubjectSummary{
			ID:   student.ID,
			Name: student.Name,
			Type: "STUDENT",
		},
	}})
}

// AdminLogin POST /auth/admins/login.
func (h *AuthHandler) AdminLogin(c *fiber.Ctx) error {
	var req dto.AdminLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		return apperrors.NewValidationError("username and password required", nil)
	}

	admin, bearer, exp, err := h.service.LoginAdmin(c.Context(), strings.TrimSpace(req.Username), req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.LoginResponse{
		Token:     bearer,
		ExpiresAt: exp,
		Subject: dto.SubjectSummary{
			ID:   admin.ID,
			Name: admin.Name,
			Type: "ADMIN",
		},
	}})
}
