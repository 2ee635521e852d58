package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/attendance-service/internal/api/http/handlers"
	"github.com/spec-kit/attendance-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Tokens         *handlers.TokensHandler
	Attendance     *handlers.AttendanceHandler
	Reports        *handlers.ReportsHandler
	Catalog        *handlers.CatalogHandler
	AuthMiddleware *auth.AuthMiddleware
	RateLimiter    *SubmissionRateLimiter
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/students/login", cfg.Auth.StudentLogin)
	authGroup.Post("/admins/login", cfg.Auth.AdminLogin)

	app.Post("/attendance", cfg.AuthMiddleware.Handle, auth.RequireStudent(), cfg.RateLimiter.Handle, cfg.Attendance.Submit)

	requireAdmin := auth.RequireAdmin()

	tokens := app.Group("/tokens", cfg.AuthMiddleware.Handle, requireAdmin)
	tokens.Post("/", cfg.Tokens.Generate)
	tokens.Get("/", cfg.Tokens.List)
	tokens.Delete("/:id", cfg.Tokens.Revoke)

	reports := app.Group("/reports", cfg.AuthMiddleware.Handle, requireAdmin)
	reports.Get("/stats", cfg.Reports.Stats)
	reports.Get("/chart", cfg.Reports.Chart)
	reports.Get("/export", cfg.Reports.Export)

	app.Get("/classes", cfg.AuthMiddleware.Handle, requireAdmin, cfg.Catalog.ListClasses)
	app.Get("/departments", cfg.AuthMiddleware.Handle, requireAdmin, cfg.Catalog.ListDepartments)
}
