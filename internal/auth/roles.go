package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/hazzlo/hazzlo-server/internal/domain"
	apperrors "github.com/hazzlo/hazzlo-server/pkg/util/errorutil"
)

// RequireUser guards routes that need an authenticated platform user.
func RequireUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok || principal.SubjectType != domain.SubjectTypeUser || principal.User == nil {
			return apperrors.NewUnauthorized("Sesión requerida")
		}
		return c.Next()
	}
}

// RequireAdmin guards the admin console. Runs after RequireUser.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok || principal.User == nil || !principal.User.IsAdmin {
			return apperrors.NewForbidden("Acceso de administrador requerido")
		}
		return c.Next()
	}
}

// RequireModerator guards the moderator support desk.
func RequireModerator() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok || principal.SubjectType != domain.SubjectTypeModerator || principal.Moderator == nil {
			return apperrors.NewForbidden("Acceso de moderador requerido")
		}
		return c.Next()
	}
}
