package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/hazzlo/hazzlo-server/internal/api/dto"
	"github.com/hazzlo/hazzlo-server/internal/auth"
	"github.com/hazzlo/hazzlo-server/internal/repository"
	"github.com/hazzlo/hazzlo-server/internal/service"
	apperrors "github.com/hazzlo/hazzlo-server/pkg/util/errorutil"
)

// ProfessionalsHandler serves the public directory and the owner-side
// profile, portfolio and verification endpoints.
type ProfessionalsHandler struct {
	professionals *service.ProfessionalService
	catalog       *service.CatalogService
	reviews       *service.ReviewService
}

// NewProfessionalsHandler constructs handler.
func NewProfessionalsHandler(professionals *service.ProfessionalService, catalog *service.CatalogService, reviews *service.ReviewService) *ProfessionalsHandler {
	return &ProfessionalsHandler{professionals: professionals, catalog: catalog, reviews: reviews}
}

// Search GET /api/professionals.
func (h *ProfessionalsHandler) Search(c *fiber.Ctx) error {
	filter := repository.ProfessionalFilter{
		Limit:  queryInt(c, "limit", 20),
		Offset: queryInt(c, "offset", 0),
	}
	if v := c.Query("q"); v != "" {
		filter.SearchTerm = &v
	}
	if v := c.Query("location"); v != "" {
		filter.Location = &v
	}
	if v := c.Query("category"); v != "" {
		filter.CategoryID = &v
	}
	if v := c.Query("verified"); v != "" {
		verified := v == "true"
		filter.Verified = &verified
	}
	if v := c.Query("premium"); v != "" {
		premium := v == "true"
		filter.Premium = &premium
	}

	result, err := h.professionals.Search(c.UserContext(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.ProfessionalResponse, 0, len(result))
	for i := range result {
		items = append(items, dto.NewProfessionalResponse(&result[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get GET /api/professionals/:id.
func (h *ProfessionalsHandler) Get(c *fiber.Ctx) error {
	prof, err := h.professionals.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewProfessionalResponse(prof)})
}

// UpdateOwn PUT /api/professionals/me.
func (h *ProfessionalsHandler) UpdateOwn(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("Solicitud inválida", nil)
	}
	prof, err := h.professionals.UpdateOwn(c.UserContext(), principal.User.ID, service.ProfileUpdateInput{
		BusinessName: req.BusinessName,
		Description:  req.Description,
		Location:     req.Location,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "Perfil actualizado",
		"data":    dto.NewProfessionalResponse(prof),
	})
}

// ListServices GET /api/professionals/:id/services.
func (h *ProfessionalsHandler) ListServices(c *fiber.Ctx) error {
	services, err := h.catalog.ListByProfessional(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": services})
}

// ListReviews GET /api/professionals/:id/reviews.
func (h *ProfessionalsHandler) ListReviews(c *fiber.Ctx) error {
	reviews, err := h.reviews.ListByProfessional(c.UserContext(), c.Params("id"),
		queryInt(c, "limit", 20), queryInt(c, "offset", 0))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": reviews})
}

// ListPortfolio GET /api/professionals/:id/portfolio.
func (h *ProfessionalsHandler) ListPortfolio(c *fiber.Ctx) error {
	items, err := h.professionals.ListPortfolio(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": items})
}

// AddPortfolio POST /api/portfolio.
func (h *ProfessionalsHandler) AddPortfolio(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	var req dto.CreatePortfolioRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("Solicitud inválida", nil)
	}
	item, err := h.professionals.AddPortfolioItem(c.UserContext(), principal.User.ID, req.ImageURL, req.Caption)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": item})
}

// DeletePortfolio DELETE /api/portfolio/:id.
func (h *ProfessionalsHandler) DeletePortfolio(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	if err := h.professionals.DeletePortfolioItem(c.UserContext(), principal.User.ID, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Imagen eliminada"})
}

// SubmitVerification POST /api/verification-requests.
func (h *ProfessionalsHandler) SubmitVerification(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	var req dto.CreateVerificationRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("Solicitud inválida", nil)
	}
	verification, err := h.professionals.SubmitVerification(c.UserContext(), principal.User.ID, req.DocumentURL, req.Notes)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"message": "Solicitud de verificación enviada",
		"data":    verification,
	})
}

func queryInt(c *fiber.Ctx, key string, fallback int) int {
	val := c.Query(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}
