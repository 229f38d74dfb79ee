package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/hazzlo/hazzlo-server/internal/api/dto"
	"github.com/hazzlo/hazzlo-server/internal/auth"
	"github.com/hazzlo/hazzlo-server/internal/service"
	apperrors "github.com/hazzlo/hazzlo-server/pkg/util/errorutil"
)

// CatalogHandler serves categories and service offerings.
type CatalogHandler struct {
	catalog *service.CatalogService
}

// NewCatalogHandler constructs handler.
func NewCatalogHandler(catalog *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// ListCategories GET /api/categories.
func (h *CatalogHandler) ListCategories(c *fiber.Ctx) error {
	categories, err := h.catalog.ListCategories(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": categories})
}

// ListCategoryServices GET /api/categories/:id/services.
func (h *CatalogHandler) ListCategoryServices(c *fiber.Ctx) error {
	services, err := h.catalog.ListByCategory(c.UserContext(), c.Params("id"),
		queryInt(c, "limit", 20), queryInt(c, "offset", 0))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": services})
}

// CreateService POST /api/services.
func (h *CatalogHandler) CreateService(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	req, err := parseServiceRequest(c)
	if err != nil {
		return err
	}
	svc, err := h.catalog.CreateService(c.UserContext(), principal.User.ID, req)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"message": "Servicio creado",
		"data":    svc,
	})
}

// UpdateService PUT /api/services/:id.
func (h *CatalogHandler) UpdateService(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	req, err := parseServiceRequest(c)
	if err != nil {
		return err
	}
	svc, err := h.catalog.UpdateService(c.UserContext(), principal.User.ID, c.Params("id"), req)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "Servicio actualizado",
		"data":    svc,
	})
}

// DeleteService DELETE /api/services/:id.
func (h *CatalogHandler) DeleteService(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	if err := h.catalog.DeleteService(c.UserContext(), principal.User.ID, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Servicio eliminado"})
}

func parseServiceRequest(c *fiber.Ctx) (service.ServiceInput, error) {
	var req dto.CreateServiceRequest
	if err := c.BodyParser(&req); err != nil {
		return service.ServiceInput{}, apperrors.NewValidationError("Solicitud inválida", nil)
	}
	return service.ServiceInput{
		CategoryID:   req.CategoryID,
		Title:        req.Title,
		Description:  req.Description,
		PriceFrom:    req.PriceFrom,
		PriceTo:      req.PriceTo,
		DurationMins: req.DurationMins,
		IsActive:     req.IsActive,
	}, nil
}
