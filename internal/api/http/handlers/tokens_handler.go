package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/attendance-service/internal/api/dto"
	"github.com/spec-kit/attendance-service/internal/service"
	apperrors "github.com/spec-kit/attendance-service/pkg/util"
)

// TokensHandler manages admin token lifecycle endpoints.
type TokensHandler struct {
	service *service.TokenService
}

// NewTokensHandler constructs handler.
func NewTokensHandler(tokenService *service.TokenService) *TokensHandler {
	return &TokensHandler{service: tokenService}
}

// Generate POST /tokens.
func (h *TokensHandler) Generate(c *fiber.Ctx) error {
	var req dto.GenerateTokenRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	token, err := h.service.Issue(c.Context(), service.IssueInput{
		DurationMinutes:  req.DurationMinutes,
		LateAfterMinutes: req.LateAfterMinutes,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewTokenResponse(token, h.service.Now())})
}

// List GET /tokens.
func (h *TokensHandler) List(c *fiber.Ctx) error {
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)
	if page < 1 {
		page = 1
	}

	tokens, err := h.service.List(c.Context(), pageSize, (page-1)*pageSize)
	if err != nil {
		return err
	}

	now := h.service.Now()
	items := make([]dto.TokenResponse, 0, len(tokens))
	for i := range tokens {
		items = append(items, dto.NewTokenResponse(&tokens[i], now))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Revoke DELETE /tokens/:id.
func (h *TokensHandler) Revoke(c *fiber.Ctx) error {
	if err := h.service.Revoke(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"revoked": true}})
}

func parseInt(val string, fallback int) int {
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}
