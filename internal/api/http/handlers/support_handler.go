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

// SupportHandler serves the user side of the help desk.
type SupportHandler struct {
	support *service.SupportService
}

// NewSupportHandler constructs handler.
func NewSupportHandler(support *service.SupportService) *SupportHandler {
	return &SupportHandler{support: support}
}

// Open POST /api/support-chats.
func (h *SupportHandler) Open(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	var req dto.OpenSupportChatRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("Solicitud inválida", nil)
	}
	chat, err := h.support.Open(c.UserContext(), principal.User.ID, req.Subject, req.Message)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"message": "Chat de soporte abierto",
		"data":    chat,
	})
}

// List GET /api/support-chats.
func (h *SupportHandler) List(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	list, err := h.support.ListForUser(c.UserContext(), principal.User.ID,
		queryInt(c, "limit", 20), queryInt(c, "offset", 0))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": list})
}

// Messages GET /api/support-chats/:id/messages.
func (h *SupportHandler) Messages(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	list, err := h.support.Messages(c.UserContext(), c.Params("id"), &principal.User.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": list})
}

// SendMessage POST /api/support-chats/:id/messages.
func (h *SupportHandler) SendMessage(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	var req dto.SendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("Solicitud inválida", nil)
	}
	msg, err := h.support.PostMessage(c.UserContext(), c.Params("id"),
		domain.SupportSenderUser, principal.User.ID, req.Content)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": msg})
}
