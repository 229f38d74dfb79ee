package auth

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/hazzlo/hazzlo-server/internal/domain"
	"github.com/hazzlo/hazzlo-server/internal/repository"
	apperrors "github.com/hazzlo/hazzlo-server/pkg/util/errorutil"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller.
type Principal struct {
	SubjectType domain.SubjectType
	User        *domain.User
	Moderator   *domain.Moderator
	TokenID     string
}

// AuthMiddleware validates bearer tokens and loads principals.
type AuthMiddleware struct {
	tokens     *TokenManager
	users      repository.UserRepository
	moderators repository.ModeratorRepository
	denylist   Denylist
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, users repository.UserRepository, moderators repository.ModeratorRepository, denylist Denylist) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, users: users, moderators: moderators, denylist: denylist}
}

// Handle enforces authentication on protected routes. The principal carries
// either a user or a moderator row, loaded fresh per request so bans and
// deactivations take effect immediately.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	raw, err := bearerToken(c.Get(fiber.HeaderAuthorization))
	if err != nil {
		return err
	}

	claims, err := m.tokens.ParseToken(raw)
	if err != nil {
		return apperrors.NewUnauthorized("Sesión inválida")
	}
	if m.denylist != nil && m.denylist.Revoked(c.Context(), claims.ID) {
		return apperrors.NewUnauthorized("Sesión cerrada")
	}

	principal := &Principal{SubjectType: claims.Subject, TokenID: claims.ID}

	switch claims.Subject {
	case domain.SubjectTypeUser:
		user, err := m.users.GetByID(c.Context(), claims.SubjectID)
		if err != nil {
			if err == pgx.ErrNoRows {
				return apperrors.NewUnauthorized("Usuario no encontrado")
			}
			return apperrors.MapError(err)
		}
		if user.Suspended(time.Now()) && !user.IsAdmin {
			return apperrors.NewForbidden("Cuenta suspendida")
		}
		principal.User = user
	case domain.SubjectTypeModerator:
		mod, err := m.moderators.GetByID(c.Context(), claims.SubjectID)
		if err != nil {
			if err == pgx.ErrNoRows {
				return apperrors.NewUnauthorized("Moderador no encontrado")
			}
			return apperrors.MapError(err)
		}
		if !mod.Active {
			return apperrors.NewForbidden("Cuenta de moderador inactiva")
		}
		principal.Moderator = mod
	default:
		return apperrors.NewUnauthorized("Sesión inválida")
	}

	c.Locals(principalKey, principal)
	return c.Next()
}

func bearerToken(header string) (string, error) {
	if header == "" {
		return "", apperrors.NewUnauthorized("Sesión requerida")
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", apperrors.NewUnauthorized("Sesión inválida")
	}
	return token, nil
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
