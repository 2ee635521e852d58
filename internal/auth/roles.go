package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/attendance-service/internal/domain"
	apperrors "github.com/spec-kit/attendance-service/pkg/util"
)

// RequireStudent ensures a STUDENT principal is authenticated.
func RequireStudent() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok || principal.SubjectType != domain.SubjectTypeStudent || principal.Student == nil {
			return apperrors.NewForbidden("student required")
		}
		return c.Next()
	}
}

// RequireAdmin ensures an ADMIN principal is authenticated.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok || principal.SubjectType != domain.SubjectTypeAdmin || principal.Admin == nil {
			return apperrors.NewForbidden("admin required")
		}
		return c.Next()
	}
}
