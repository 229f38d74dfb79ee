package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hazzlo/hazzlo-server/internal/auth"
	"github.com/hazzlo/hazzlo-server/internal/config"
	"github.com/hazzlo/hazzlo-server/internal/domain"
	"github.com/hazzlo/hazzlo-server/internal/repository"
	apperrors "github.com/hazzlo/hazzlo-server/pkg/util/errorutil"
)

func requireStatus(t *testing.T, err error, status int) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, status, apperrors.ToDomainError(err).HTTPStatus)
}

type memResetRepo struct {
	mu    sync.Mutex
	codes map[string]*repository.PasswordResetCode
}

func newMemResetRepo() *memResetRepo {
	return &memResetRepo{codes: make(map[string]*repository.PasswordResetCode)}
}

func (r *memResetRepo) Create(_ context.Context, code *repository.PasswordResetCode) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if code.ID == "" {
		code.ID = uuid.NewString()
	}
	code.CreatedAt = time.Now()
	clone := *code
	r.codes[code.ID] = &clone
	return nil
}

func (r *memResetRepo) GetByToken(_ context.Context, token string) (*repository.PasswordResetCode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, code := range r.codes {
		if code.Token == token {
			clone := *code
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memResetRepo) GetActiveByUser(_ context.Context, userID string) (*repository.PasswordResetCode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, code := range r.codes {
		if code.UserID == userID && code.UsedAt == nil && code.ExpiresAt.After(time.Now()) {
			clone := *code
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memResetRepo) MarkUsed(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	code, ok := r.codes[id]
	if !ok {
		return pgx.ErrNoRows
	}
	now := time.Now()
	code.UsedAt = &now
	return nil
}

type memDenylist struct {
	mu      sync.Mutex
	revoked map[string]struct{}
}

func newMemDenylist() *memDenylist {
	return &memDenylist{revoked: make(map[string]struct{})}
}

func (d *memDenylist) Revoke(_ context.Context, jti string, _ time.Duration) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.revoked[jti] = struct{}{}
	return nil
}

func (d *memDenylist) Revoked(_ context.Context, jti string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.revoked[jti]
	return ok
}

type recordingMailer struct {
	mu    sync.Mutex
	sends []string
}

func (m *recordingMailer) SendPasswordReset(_ context.Context, to, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sends = append(m.sends, to+":"+code)
	return nil
}

type authFixture struct {
	svc           *AuthService
	users         *memUserRepo
	professionals *memProfessionalRepo
	moderators    *memModeratorRepo
	resets        *memResetRepo
	denylist      *memDenylist
	mailer        *recordingMailer
	tokens        *auth.TokenManager
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	f := &authFixture{
		users:         newMemUserRepo(),
		professionals: newMemProfessionalRepo(),
		moderators:    newMemModeratorRepo(),
		resets:        newMemResetRepo(),
		denylist:      newMemDenylist(),
		mailer:        &recordingMailer{},
		tokens:        auth.NewTokenManager("test-secret", 30),
	}
	f.svc = NewAuthService(f.users, f.moderators, f.professionals, f.resets,
		f.tokens, f.denylist, f.mailer,
		config.AuthConfig{BcryptCost: 4, PasswordResetTTLMinutes: 30}, zap.NewNop())
	return f
}

func (f *authFixture) register(t *testing.T, email string, userType domain.UserType) *Session {
	t.Helper()
	session, err := f.svc.Register(context.Background(), RegisterInput{
		Email:     email,
		Password:  "secreta123",
		FirstName: "Ana",
		LastName:  "Pérez",
		UserType:  userType,
	})
	require.NoError(t, err)
	return session
}

func TestRegisterProfessionalCreatesBusinessProfile(t *testing.T) {
	f := newAuthFixture(t)

	session := f.register(t, "pro@hazzlo.net", domain.UserTypeProfessional)
	require.NotNil(t, session.User)

	prof, err := f.professionals.GetByUserID(context.Background(), session.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana Pérez", prof.BusinessName)

	claims, err := f.tokens.ParseToken(session.Token)
	require.NoError(t, err)
	assert.Equal(t, session.User.ID, claims.SubjectID)
	assert.Equal(t, domain.SubjectTypeUser, claims.Subject)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "ana@hazzlo.net", domain.UserTypeClient)

	_, err := f.svc.Register(context.Background(), RegisterInput{
		Email:     "Ana@hazzlo.net",
		Password:  "secreta123",
		FirstName: "Ana",
		UserType:  domain.UserTypeClient,
	})
	requireStatus(t, err, 409)
}

func TestLoginChecksCredentialsAndAccountState(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	session := f.register(t, "ana@hazzlo.net", domain.UserTypeClient)

	_, err := f.svc.Login(ctx, "ana@hazzlo.net", "wrong-password")
	requireStatus(t, err, 401)

	_, err = f.svc.Login(ctx, "ana@hazzlo.net", "secreta123")
	require.NoError(t, err)

	user, err := f.users.GetByID(ctx, session.User.ID)
	require.NoError(t, err)
	user.IsBanned = true
	require.NoError(t, f.users.Update(ctx, user))

	_, err = f.svc.Login(ctx, "ana@hazzlo.net", "secreta123")
	requireStatus(t, err, 403)
}

func TestLogoutRevokesTokenID(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	session := f.register(t, "ana@hazzlo.net", domain.UserTypeClient)

	claims, err := f.tokens.ParseToken(session.Token)
	require.NoError(t, err)

	require.NoError(t, f.svc.Logout(ctx, claims.ID))
	assert.True(t, f.denylist.Revoked(ctx, claims.ID))
}

func TestPasswordResetFlow(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	session := f.register(t, "ana@hazzlo.net", domain.UserTypeClient)

	token, err := f.svc.RequestPasswordReset(ctx, "ana@hazzlo.net")
	require.NoError(t, err)
	require.NoError(t, f.svc.VerifyResetToken(ctx, token))

	reset, err := f.resets.GetActiveByUser(ctx, session.User.ID)
	require.NoError(t, err)

	requireStatus(t, f.svc.VerifyResetCode(ctx, token, "000000"), 400)
	require.NoError(t, f.svc.VerifyResetCode(ctx, token, reset.Code))

	require.NoError(t, f.svc.ResetPassword(ctx, token, reset.Code, "nueva-clave-9"))

	_, err = f.svc.Login(ctx, "ana@hazzlo.net", "secreta123")
	requireStatus(t, err, 401)
	_, err = f.svc.Login(ctx, "ana@hazzlo.net", "nueva-clave-9")
	require.NoError(t, err)

	// The request is burned; neither the link nor the code works again.
	requireStatus(t, f.svc.VerifyResetToken(ctx, token), 400)
	requireStatus(t, f.svc.ResetPassword(ctx, token, reset.Code, "otra-clave-10"), 400)
}

func TestRequestPasswordResetHidesUnknownEmails(t *testing.T) {
	f := newAuthFixture(t)

	token, err := f.svc.RequestPasswordReset(context.Background(), "nadie@hazzlo.net")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Empty(t, f.mailer.sends)
}

func TestVerifyResetTokenUnknownIs404(t *testing.T) {
	f := newAuthFixture(t)
	requireStatus(t, f.svc.VerifyResetToken(context.Background(), "no-such-token"), 404)
}
