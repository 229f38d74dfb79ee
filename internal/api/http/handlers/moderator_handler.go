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

// ModeratorHandler serves the moderator side of the help desk.
type ModeratorHandler struct {
	authSvc *service.AuthService
	support *service.SupportService
}

// NewModeratorHandler constructs handler.
func NewModeratorHandler(authSvc *service.AuthService, support *service.SupportService) *ModeratorHandler {
	return &ModeratorHandler{authSvc: authSvc, support: support}
}

// Login POST /api/moderator/login.
func (h *ModeratorHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("Solicitud inválida", nil)
	}
	session, err := h.authSvc.ModeratorLogin(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.SessionResponse{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		Moderator: dto.NewModeratorResponse(session.Moderator),
	}})
}

// ListChats GET /api/moderator/support-chats.
func (h *ModeratorHandler) ListChats(c *fiber.Ctx) error {
	var status *domain.SupportChatStatus
	if v := c.Query("status"); v != "" {
		s := domain.SupportChatStatus(v)
		status = &s
	}
	list, err := h.support.ListForModerators(c.UserContext(), status,
		queryInt(c, "limit", 20), queryInt(c, "offset", 0))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": list})
}

// Messages GET /api/moderator/support-chats/:id/messages.
func (h *ModeratorHandler) Messages(c *fiber.Ctx) error {
	list, err := h.support.Messages(c.UserContext(), c.Params("id"), nil)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": list})
}

// Assign POST /api/moderator/support-chats/:id/assign.
func (h *ModeratorHandler) Assign(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	chat, err := h.support.Assign(c.UserContext(), principal.Moderator.ID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Chat asignado", "data": chat})
}

// Escalate POST /api/moderator/support-chats/:id/escalate.
func (h *ModeratorHandler) Escalate(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	chat, err := h.support.Escalate(c.UserContext(), principal.Moderator.ID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Chat escalado", "data": chat})
}

// Close POST /api/moderator/support-chats/:id/close.
func (h *ModeratorHandler) Close(c *fiber.Ctx) error {
	chat, err := h.support.Close(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Chat cerrado", "data": chat})
}

// SendMessage POST /api/moderator/support-chats/:id/messages.
func (h *ModeratorHandler) SendMessage(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	var req dto.SendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("Solicitud inválida", nil)
	}
	msg, err := h.support.PostMessage(c.UserContext(), c.Params("id"),
		domain.SupportSenderModerator, principal.Moderator.ID, req.Content)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": msg})
}
