package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/attendance-service/internal/api/dto"
	"github.com/spec-kit/attendance-service/internal/repository"
)

// CatalogHandler lists classes and departments for the export filter form.
type CatalogHandler struct {
	classes     repository.ClassRepository
	departments repository.DepartmentRepository
}

// NewCatalogHandler constructs handler.
func NewCatalogHandler(classes repository.ClassRepository, departments repository.DepartmentRepository) *CatalogHandler {
	return &CatalogHandler{classes: classes, departments: departments}
}

// ListClasses GET /classes.
func (h *CatalogHandler) ListClasses(c *fiber.Ctx) error {
	classes, err := h.classes.List(c.Context())
	if err != nil {
		return err
	}
	items := make([]dto.ClassResponse, 0, len(classes))
	for _, class := range classes {
		items = append(items, dto.ClassResponse{
			ID:           class.ID,
			Name:         class.Name,
			DepartmentID: class.DepartmentID,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}

// ListDepartments GET /departments.
func (h *CatalogHandler) ListDepartments(c *fiber.Ctx) error {
	departments, err := h.departments.ListActive(c.Context())
	if err != nil {
		return err
	}
	items := make([]dto.DepartmentResponse, 0, len(departments))
	for _, dept := range departments {
		items = append(items, dto.DepartmentResponse{
			ID:   dept.ID,
			Name: dept.Name,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}
