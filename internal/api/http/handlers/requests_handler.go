package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/hazzlo/hazzlo-server/internal/api/dto"
	"github.com/hazzlo/hazzlo-server/internal/auth"
	"github.com/hazzlo/hazzlo-server/internal/domain"
	"github.com/hazzlo/hazzlo-server/internal/service"
	apperrors "github.com/hazzlo/hazzlo-server/pkg/util/errorutil"
)

// RequestsHandler manages booking requests.
type RequestsHandler struct {
	requests *service.RequestService
}

// NewRequestsHandler constructs handler.
func NewRequestsHandler(requests *service.RequestService) *RequestsHandler {
	return &RequestsHandler{requests: requests}
}

// Create POST /api/service-requests.
func (h *RequestsHandler) Create(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	var req dto.CreateServiceRequestRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("Solicitud inválida", nil)
	}
	request, err := h.requests.Create(c.UserContext(), principal.User.ID, service.RequestInput{
		ProfessionalID: req.ProfessionalID,
		ServiceID:      req.ServiceID,
		Message:        req.Message,
		PreferredDate:  req.PreferredDate,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"message": "Solicitud enviada",
		"data":    request,
	})
}

// List GET /api/service-requests.
func (h *RequestsHandler) List(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	list, err := h.requests.ListForUser(c.UserContext(), principal.User,
		queryInt(c, "limit", 20), queryInt(c, "offset", 0))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": list})
}

// Accept POST /api/service-requests/:id/accept.
func (h *RequestsHandler) Accept(c *fiber.Ctx) error {
	return h.transition(c, domain.RequestStatusAccepted, "Solicitud aceptada")
}

// Decline POST /api/service-requests/:id/decline.
func (h *RequestsHandler) Decline(c *fiber.Ctx) error {
	return h.transition(c, domain.RequestStatusDeclined, "Solicitud rechazada")
}

// Complete POST /api/service-requests/:id/complete.
func (h *RequestsHandler) Complete(c *fiber.Ctx) error {
	return h.transition(c, domain.RequestStatusCompleted, "Solicitud completada")
}

// Cancel POST /api/service-requests/:id/cancel.
func (h *RequestsHandler) Cancel(c *fiber.Ctx) error {
	return h.transition(c, domain.RequestStatusCancelled, "Solicitud cancelada")
}

func (h *RequestsHandler) transition(c *fiber.Ctx, target domain.ServiceRequestStatus, message string) error {
	principal, _ := auth.PrincipalFromContext(c)
	request, err := h.requests.Transition(c.UserContext(), principal.User.ID, c.Params("id"), target)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": message, "data": request})
}
