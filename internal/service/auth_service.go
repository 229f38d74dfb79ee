package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/hazzlo/hazzlo-server/internal/auth"
	"github.com/hazzlo/hazzlo-server/internal/config"
	"github.com/hazzlo/hazzlo-server/internal/domain"
	"github.com/hazzlo/hazzlo-server/internal/repository"
	apperrors "github.com/hazzlo/hazzlo-server/pkg/util/errorutil"
)

// RegisterInput carries signup fields. BusinessName only applies when the
// account type is professional.
type RegisterInput struct {
	Email        string
	Password     string
	FirstName    string
	LastName     string
	Phone        *string
	UserType     domain.UserType
	BusinessName string
}

// Session is the result of a successful authentication.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
	Moderator *domain.Moderator
}

// AuthService implements account registration, login, logout and password
// recovery for both platform users and moderators.
type AuthService struct {
	users         repository.UserRepository
	moderators    repository.ModeratorRepository
	professionals repository.ProfessionalRepository
	resets        repository.PasswordResetRepository
	tokens        *auth.TokenManager
	denylist      auth.Denylist
	mailer        Mailer
	cfg           config.AuthConfig
	logger        *zap.Logger
}

// NewAuthService constructs the service.
func NewAuthService(
	users repository.UserRepository,
	moderators repository.ModeratorRepository,
	professionals repository.ProfessionalRepository,
	resets repository.PasswordResetRepository,
	tokens *auth.TokenManager,
	denylist auth.Denylist,
	mailer Mailer,
	cfg config.AuthConfig,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		users:         users,
		moderators:    moderators,
		professionals: professionals,
		resets:        resets,
		tokens:        tokens,
		denylist:      denylist,
		mailer:        mailer,
		cfg:           cfg,
		logger:        logger,
	}
}

// Register creates a user account, and for professionals the business profile
// alongside it.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*Session, error) {
	input.Email = strings.TrimSpace(strings.ToLower(input.Email))
	input.FirstName = strings.TrimSpace(input.FirstName)
	input.LastName = strings.TrimSpace(input.LastName)

	if input.Email == "" || !strings.Contains(input.Email, "@") {
		return nil, apperrors.NewValidationError("Correo electrónico inválido", nil)
	}
	if len(input.Password) < 8 {
		return nil, apperrors.NewValidationError("La contraseña debe tener al menos 8 caracteres", nil)
	}
	if input.FirstName == "" {
		return nil, apperrors.NewValidationError("Nombre requerido", nil)
	}
	if input.UserType != domain.UserTypeClient && input.UserType != domain.UserTypeProfessional {
		return nil, apperrors.NewValidationError("Tipo de cuenta inválido", nil)
	}

	if _, err := s.users.GetByEmail(ctx, input.Email); err == nil {
		return nil, apperrors.NewConflict("El correo ya está registrado", nil)
	} else if err != pgx.ErrNoRows {
		return nil, apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(input.Password, s.cfg.BcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	user := &domain.User{
		Email:        input.Email,
		PasswordHash: hash,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Phone:        input.Phone,
		UserType:     input.UserType,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}

	if input.UserType == domain.UserTypeProfessional {
		businessName := strings.TrimSpace(input.BusinessName)
		if businessName == "" {
			businessName = user.FullName()
		}
		prof := &domain.Professional{UserID: user.ID, BusinessName: businessName}
		if err := s.professionals.Create(ctx, prof); err != nil {
			return nil, apperrors.MapError(err)
		}
	}

	s.logger.Info("user registered",
		zap.String("user_id", user.ID),
		zap.String("user_type", string(user.UserType)))
	return s.issueUserSession(user)
}

// Login authenticates a platform user.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewUnauthorized("Credenciales inválidas")
		}
		return nil, apperrors.MapError(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, apperrors.NewUnauthorized("Credenciales inválidas")
	}
	if user.IsBanned {
		return nil, apperrors.NewForbidden("Cuenta suspendida permanentemente")
	}
	if user.Suspended(time.Now()) && !user.IsAdmin {
		return nil, apperrors.NewForbidden("Cuenta suspendida temporalmente")
	}
	return s.issueUserSession(user)
}

// ModeratorLogin authenticates a moderator account.
func (s *AuthService) ModeratorLogin(ctx context.Context, email, password string) (*Session, error) {
	mod, err := s.moderators.GetByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewUnauthorized("Credenciales inválidas")
		}
		return nil, apperrors.MapError(err)
	}
	if err := auth.ComparePassword(mod.PasswordHash, password); err != nil {
		return nil, apperrors.NewUnauthorized("Credenciales inválidas")
	}
	if !mod.Active {
		return nil, apperrors.NewForbidden("Cuenta de moderador inactiva")
	}

	token, expiresAt, err := s.tokens.GenerateToken(mod.ID, domain.SubjectTypeModerator, false)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &Session{Token: token, ExpiresAt: expiresAt, Moderator: mod}, nil
}

// Logout revokes the presented token until its natural expiry.
func (s *AuthService) Logout(ctx context.Context, tokenID string) error {
	if tokenID == "" {
		return nil
	}
	if err := s.denylist.Revoke(ctx, tokenID, s.tokens.TTL()); err != nil {
		return apperrors.NewInternalError(err)
	}
	return nil
}

// RequestPasswordReset issues a reset code for the account behind the email.
// Unknown emails succeed silently so the endpoint can't be used to probe for
// accounts; the opaque token ties the later verification to this request.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) (token string, err error) {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		if err == pgx.ErrNoRows {
			return uuid.NewString(), nil
		}
		return "", apperrors.MapError(err)
	}

	code, err := sixDigitCode()
	if err != nil {
		return "", apperrors.NewInternalError(err)
	}

	reset := &repository.PasswordResetCode{
		UserID:    user.ID,
		Code:      code,
		Token:     uuid.NewString(),
		ExpiresAt: time.Now().Add(time.Duration(s.cfg.PasswordResetTTLMinutes) * time.Minute),
	}
	if err := s.resets.Create(ctx, reset); err != nil {
		return "", apperrors.MapError(err)
	}
	if err := s.mailer.SendPasswordReset(ctx, user.Email, code); err != nil {
		s.logger.Warn("password reset email failed", zap.Error(err))
	}
	return reset.Token, nil
}

// VerifyResetCode checks a code against its request token.
func (s *AuthService) VerifyResetCode(ctx context.Context, token, code string) error {
	_, err := s.activeReset(ctx, token, code)
	return err
}

// VerifyResetToken reports whether a reset token is still redeemable, without
// consuming it. Lets the frontend validate a reset link before showing the
// code form.
func (s *AuthService) VerifyResetToken(ctx context.Context, token string) error {
	reset, err := s.resets.GetByToken(ctx, token)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("Enlace de restablecimiento inválido")
		}
		return apperrors.MapError(err)
	}
	if reset.UsedAt != nil || time.Now().After(reset.ExpiresAt) {
		return apperrors.NewValidationError("Código inválido o expirado", nil)
	}
	return nil
}

// ResetPassword verifies the code, stores the new password hash and burns the
// reset request.
func (s *AuthService) ResetPassword(ctx context.Context, token, code, newPassword string) error {
	if len(newPassword) < 8 {
		return apperrors.NewValidationError("La contraseña debe tener al menos 8 caracteres", nil)
	}
	reset, err := s.activeReset(ctx, token, code)
	if err != nil {
		return err
	}

	user, err := s.users.GetByID(ctx, reset.UserID)
	if err != nil {
		return apperrors.MapError(err)
	}
	hash, err := auth.HashPassword(newPassword, s.cfg.BcryptCost)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	user.PasswordHash = hash
	if err := s.users.Update(ctx, user); err != nil {
		return apperrors.MapError(err)
	}
	if err := s.resets.MarkUsed(ctx, reset.ID); err != nil {
		return apperrors.MapError(err)
	}
	s.logger.Info("password reset completed", zap.String("user_id", user.ID))
	return nil
}

func (s *AuthService) activeReset(ctx context.Context, token, code string) (*repository.PasswordResetCode, error) {
	reset, err := s.resets.GetByToken(ctx, token)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewValidationError("Código inválido o expirado", nil)
		}
		return nil, apperrors.MapError(err)
	}
	if reset.UsedAt != nil || time.Now().After(reset.ExpiresAt) || reset.Code != code {
		return nil, apperrors.NewValidationError("Código inválido o expirado", nil)
	}
	return reset, nil
}

func (s *AuthService) issueUserSession(user *domain.User) (*Session, error) {
	token, expiresAt, err := s.tokens.GenerateToken(user.ID, domain.SubjectTypeUser, user.IsAdmin)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &Session{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

func sixDigitCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
