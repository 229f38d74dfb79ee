package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/hazzlo/hazzlo-server/internal/api/dto"
	"github.com/hazzlo/hazzlo-server/internal/auth"
	"github.com/hazzlo/hazzlo-server/internal/service"
	apperrors "github.com/hazzlo/hazzlo-server/pkg/util/errorutil"
)

// AuthHandler manages registration, sessions and password recovery.
type AuthHandler struct {
	service *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{service: authService}
}

// Register POST /api/auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("Solicitud inválida", nil)
	}
	session, err := h.service.Register(c.UserContext(), service.RegisterInput{
		Email:        req.Email,
		Password:     req.Password,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Phone:        req.Phone,
		UserType:     req.UserType,
		BusinessName: req.BusinessName,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"message": "Cuenta creada exitosamente",
		"data":    sessionResponse(session),
	})
}

// Login POST /api/auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("Solicitud inválida", nil)
	}
	session, err := h.service.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": sessionResponse(session)})
}

// Logout POST /api/auth/logout.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("Sesión requerida")
	}
	if err := h.service.Logout(c.UserContext(), principal.TokenID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Sesión cerrada"})
}

// CurrentUser GET /api/auth/user.
func (h *AuthHandler) CurrentUser(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("Sesión requerida")
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(principal.User)})
}

// RequestPasswordReset POST /api/auth/request-password-reset.
func (h *AuthHandler) RequestPasswordReset(c *fiber.Ctx) error {
	var req dto.PasswordResetRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("Solicitud inválida", nil)
	}
	token, err := h.service.RequestPasswordReset(c.UserContext(), req.Email)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "Si el correo existe, recibirás un código de recuperación",
		"data":    fiber.Map{"token": token},
	})
}

// VerifyResetCode POST /api/auth/verify-reset-code.
func (h *AuthHandler) VerifyResetCode(c *fiber.Ctx) error {
	var req dto.VerifyResetCodeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("Solicitud inválida", nil)
	}
	if err := h.service.VerifyResetCode(c.UserContext(), req.Token, req.Code); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Código verificado"})
}

// VerifyResetToken GET /api/auth/verify-reset-token/:token.
func (h *AuthHandler) VerifyResetToken(c *fiber.Ctx) error {
	if err := h.service.VerifyResetToken(c.UserContext(), c.Params("token")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"valid": true})
}

// ResetPassword POST /api/auth/reset-password.
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var req dto.ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("Solicitud inválida", nil)
	}
	if err := h.service.ResetPassword(c.UserContext(), req.Token, req.Code, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Contraseña actualizada"})
}

func sessionResponse(session *service.Session) dto.SessionResponse {
	return dto.SessionResponse{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		User:      dto.NewUserResponse(session.User),
		Moderator: dto.NewModeratorResponse(session.Moderator),
	}
}
