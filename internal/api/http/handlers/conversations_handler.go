package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/hazzlo/hazzlo-server/internal/api/dto"
	"github.com/hazzlo/hazzlo-server/internal/auth"
	"github.com/hazzlo/hazzlo-server/internal/service"
	apperrors "github.com/hazzlo/hazzlo-server/pkg/util/errorutil"
)

// ConversationsHandler serves the REST side of chat threads; live traffic
// goes over /ws-chat.
type ConversationsHandler struct {
	chat *service.ChatService
}

// NewConversationsHandler constructs handler.
func NewConversationsHandler(chat *service.ChatService) *ConversationsHandler {
	return &ConversationsHandler{chat: chat}
}

// Start POST /api/conversations.
func (h *ConversationsHandler) Start(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	var req dto.StartConversationRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("Solicitud inválida", nil)
	}
	conv, err := h.chat.StartConversation(c.UserContext(), principal.User.ID, req.ProfessionalID)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": conv})
}

// List GET /api/conversations.
func (h *ConversationsHandler) List(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	list, err := h.chat.ListConversations(c.UserContext(), principal.User.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": list})
}

// Messages GET /api/conversations/:id/messages.
func (h *ConversationsHandler) Messages(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	list, err := h.chat.ListMessages(c.UserContext(), principal.User.ID, c.Params("id"),
		queryInt(c, "limit", 50), queryInt(c, "offset", 0))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": list})
}

// SendMessage POST /api/conversations/:id/messages.
func (h *ConversationsHandler) SendMessage(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	var req dto.SendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("Solicitud inválida", nil)
	}
	msg, err := h.chat.SendMessage(c.UserContext(), principal.User.ID, c.Params("id"), req.Content)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": msg})
}

// MarkRead POST /api/conversations/:id/read.
func (h *ConversationsHandler) MarkRead(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	if err := h.chat.MarkRead(c.UserContext(), principal.User.ID, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Mensajes marcados como leídos"})
}
