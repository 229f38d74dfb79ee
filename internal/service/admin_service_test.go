package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hazzlo/hazzlo-server/internal/config"
	"github.com/hazzlo/hazzlo-server/internal/domain"
	"github.com/hazzlo/hazzlo-server/internal/events"
	"github.com/hazzlo/hazzlo-server/internal/observability"
	apperrors "github.com/hazzlo/hazzlo-server/pkg/util/errorutil"
)

type adminFixture struct {
	svc           *AdminService
	users         *memUserRepo
	professionals *memProfessionalRepo
	reviews       *memReviewRepo
	reports       *memReportRepo
	verifications *memVerificationRepo
	actions       *memActionRepo
	notifications *memNotificationRepo
	support       *memSupportRepo
	registry      *recordingRegistry
	admin         *domain.User
}

func newAdminFixture(t *testing.T) *adminFixture {
	t.Helper()
	f := &adminFixture{
		users:         newMemUserRepo(),
		professionals: newMemProfessionalRepo(),
		reviews:       newMemReviewRepo(),
		reports:       newMemReportRepo(),
		verifications: newMemVerificationRepo(),
		actions:       newMemActionRepo(),
		notifications: newMemNotificationRepo(),
		support:       newMemSupportRepo(),
		registry:      newRecordingRegistry(),
	}
	logger := zap.NewNop()
	dispatcher := events.NewInMemoryDispatcher()
	moderators := newMemModeratorRepo()
	notifier := NewNotificationService(f.notifications, f.users, f.registry, logger)
	supportSvc := NewSupportService(f.support, f.registry, newRecordingRegistry(), stubArchiver{}, dispatcher, logger)

	f.svc = NewAdminService(passTxRunner{}, f.users, f.professionals, f.reviews,
		f.reports, moderators, f.verifications, f.actions, f.notifications, f.support,
		notifier, supportSvc, dispatcher, observability.NewMetrics(),
		config.AuthConfig{BcryptCost: 4}, logger)

	f.admin = &domain.User{Email: "admin@hazzlo.net", FirstName: "Admin", UserType: domain.UserTypeClient, IsAdmin: true}
	require.NoError(t, f.users.Create(context.Background(), f.admin))
	return f
}

func (f *adminFixture) seedUser(t *testing.T, email string) *domain.User {
	t.Helper()
	user := &domain.User{Email: email, FirstName: "Target", UserType: domain.UserTypeClient}
	require.NoError(t, f.users.Create(context.Background(), user))
	return user
}

func (f *adminFixture) seedProfessional(t *testing.T) *domain.Professional {
	t.Helper()
	user := f.seedUser(t, "pro@hazzlo.net")
	prof := &domain.Professional{UserID: user.ID, BusinessName: "Taller Central"}
	require.NoError(t, f.professionals.Create(context.Background(), prof))
	return prof
}

func TestBanUserRequiresReason(t *testing.T) {
	f := newAdminFixture(t)
	target := f.seedUser(t, "target@hazzlo.net")

	_, err := f.svc.BanUser(context.Background(), f.admin.ID, target.ID, "   ")
	require.Error(t, err)
	assert.Equal(t, 400, apperrors.ToDomainError(err).HTTPStatus)
	assert.Empty(t, f.actions.all())
}

func TestBanUserFlagsAuditsAndNotifies(t *testing.T) {
	f := newAdminFixture(t)
	ctx := context.Background()
	target := f.seedUser(t, "target@hazzlo.net")

	banned, err := f.svc.BanUser(ctx, f.admin.ID, target.ID, "fraude confirmado")
	require.NoError(t, err)
	assert.True(t, banned.IsBanned)
	assert.True(t, banned.Suspended(time.Now()))

	actions := f.actions.all()
	require.Len(t, actions, 1)
	assert.Equal(t, domain.ActionBanUser, actions[0].Action)
	assert.Equal(t, target.ID, actions[0].TargetID)
	assert.Equal(t, "fraude confirmado", actions[0].Reason)

	rows := f.notifications.forUser(target.ID)
	require.Len(t, rows, 1)
	assert.Equal(t, "Cuenta Suspendida Permanentemente", rows[0].Title)
	assert.Equal(t, "permanent", rows[0].Metadata["suspensionType"])
}

func TestSuspendUserSetsWindow(t *testing.T) {
	f := newAdminFixture(t)
	ctx := context.Background()
	target := f.seedUser(t, "target@hazzlo.net")

	_, err := f.svc.SuspendUser(ctx, f.admin.ID, target.ID, 0, "spam")
	require.Error(t, err)
	assert.Equal(t, 400, apperrors.ToDomainError(err).HTTPStatus)

	suspended, err := f.svc.SuspendUser(ctx, f.admin.ID, target.ID, 7, "spam")
	require.NoError(t, err)
	require.NotNil(t, suspended.SuspendedUntil)
	assert.True(t, suspended.Suspended(time.Now()))
	assert.False(t, suspended.Suspended(time.Now().AddDate(0, 0, 8)))

	rows := f.notifications.forUser(target.ID)
	require.Len(t, rows, 1)
	assert.Equal(t, "Cuenta Suspendida", rows[0].Title)
	assert.Equal(t, "temporary", rows[0].Metadata["suspensionType"])
}

func TestAuditFailureAbortsModeration(t *testing.T) {
	f := newAdminFixture(t)
	ctx := context.Background()
	target := f.seedUser(t, "target@hazzlo.net")

	f.actions.createErr = assert.AnError
	_, err := f.svc.BanUser(ctx, f.admin.ID, target.ID, "fraude")
	require.Error(t, err)
	assert.Empty(t, f.notifications.forUser(target.ID))
}

func TestTogglePremiumTwiceRestoresState(t *testing.T) {
	f := newAdminFixture(t)
	ctx := context.Background()
	prof := f.seedProfessional(t)

	first, err := f.svc.TogglePremium(ctx, f.admin.ID, prof.ID, "promo")
	require.NoError(t, err)
	assert.True(t, first.IsPremium)

	second, err := f.svc.TogglePremium(ctx, f.admin.ID, prof.ID, "fin de promo")
	require.NoError(t, err)
	assert.False(t, second.IsPremium)

	actions := f.actions.all()
	require.Len(t, actions, 2)
	assert.Equal(t, domain.ActionTogglePremium, actions[0].Action)
	assert.Equal(t, true, actions[0].Details["premium"])
	assert.Equal(t, false, actions[1].Details["premium"])

	// One premium notification per toggle, to the profile's account.
	assert.Len(t, f.notifications.forUser(prof.UserID), 2)
}

func TestUpdateRatingOverridesKeepingCount(t *testing.T) {
	f := newAdminFixture(t)
	ctx := context.Background()
	prof := f.seedProfessional(t)
	require.NoError(t, f.professionals.UpdateAggregate(ctx, prof.ID, 3.5, 12))

	updated, err := f.svc.UpdateRating(ctx, f.admin.ID, prof.ID, 4.8, "corrección manual")
	require.NoError(t, err)
	assert.InDelta(t, 4.8, updated.Rating, 0.0001)
	assert.Equal(t, 12, updated.ReviewCount)

	actions := f.actions.all()
	require.Len(t, actions, 1)
	assert.Equal(t, true, actions[0].Details["manual"])
	assert.InDelta(t, 3.5, actions[0].Details["previous"].(float64), 0.0001)

	_, err = f.svc.UpdateRating(ctx, f.admin.ID, prof.ID, 9, "fuera de rango")
	require.Error(t, err)
	assert.Equal(t, 400, apperrors.ToDomainError(err).HTTPStatus)
}

func TestDeleteReviewRecomputesAggregate(t *testing.T) {
	f := newAdminFixture(t)
	ctx := context.Background()
	prof := f.seedProfessional(t)

	first := &domain.Review{ProfessionalID: prof.ID, ClientID: "c1", Rating: 5}
	second := &domain.Review{ProfessionalID: prof.ID, ClientID: "c2", Rating: 1}
	require.NoError(t, f.reviews.Create(ctx, first))
	require.NoError(t, f.reviews.Create(ctx, second))
	require.NoError(t, f.professionals.UpdateAggregate(ctx, prof.ID, 3, 2))

	err := f.svc.DeleteReview(ctx, f.admin.ID, second.ID, "contenido ofensivo")
	require.NoError(t, err)

	updated, err := f.professionals.GetByID(ctx, prof.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.ReviewCount)
	assert.InDelta(t, 5.0, updated.Rating, 0.0001)

	err = f.svc.DeleteReview(ctx, f.admin.ID, second.ID, "otra vez")
	require.Error(t, err)
	assert.Equal(t, 404, apperrors.ToDomainError(err).HTTPStatus)
}

func TestUpdateReportResolvedNotifiesReporter(t *testing.T) {
	f := newAdminFixture(t)
	ctx := context.Background()
	reporter := f.seedUser(t, "reporter@hazzlo.net")

	report := &domain.Report{
		ReporterID: reporter.ID,
		ReportType: domain.ReportTypeProfessionalProfile,
		TargetID:   "some-prof",
		Reason:     "perfil falso",
		Status:     domain.ReportStatusPending,
	}
	require.NoError(t, f.reports.Create(ctx, report))

	resolution := "perfil eliminado"
	updated, err := f.svc.UpdateReport(ctx, f.admin.ID, report.ID, domain.ReportStatusResolved, &resolution)
	require.NoError(t, err)
	assert.Equal(t, domain.ReportStatusResolved, updated.Status)
	require.NotNil(t, updated.Resolution)

	rows := f.notifications.forUser(reporter.ID)
	require.Len(t, rows, 1)
	assert.Equal(t, "Reporte Resuelto", rows[0].Title)

	_, err = f.svc.UpdateReport(ctx, f.admin.ID, report.ID, "bogus", nil)
	require.Error(t, err)
	assert.Equal(t, 400, apperrors.ToDomainError(err).HTTPStatus)
}

func TestResolveVerificationApproveFlipsBadge(t *testing.T) {
	f := newAdminFixture(t)
	ctx := context.Background()
	prof := f.seedProfessional(t)

	doc := "https://cdn.hazzlo.net/docs/cedula.pdf"
	req := &domain.VerificationRequest{ProfessionalID: prof.ID, DocumentURL: &doc, Status: domain.VerificationPending}
	require.NoError(t, f.verifications.Create(ctx, req))

	resolved, err := f.svc.ResolveVerification(ctx, f.admin.ID, req.ID, true, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.VerificationApproved, resolved.Status)
	require.NotNil(t, resolved.ReviewedBy)
	assert.Equal(t, f.admin.ID, *resolved.ReviewedBy)

	updated, err := f.professionals.GetByID(ctx, prof.ID)
	require.NoError(t, err)
	assert.True(t, updated.IsVerified)

	rows := f.notifications.forUser(prof.UserID)
	require.Len(t, rows, 1)
	assert.Equal(t, "Perfil Verificado", rows[0].Title)

	// Already resolved, resolving again conflicts.
	_, err = f.svc.ResolveVerification(ctx, f.admin.ID, req.ID, false, nil)
	require.Error(t, err)
	assert.Equal(t, 409, apperrors.ToDomainError(err).HTTPStatus)
}

func TestCreateModeratorValidatesAndAudits(t *testing.T) {
	f := newAdminFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateModerator(ctx, f.admin.ID, ModeratorInput{Name: "Ana", Email: "ana@hazzlo.net", Password: "short"})
	require.Error(t, err)
	assert.Equal(t, 400, apperrors.ToDomainError(err).HTTPStatus)

	mod, err := f.svc.CreateModerator(ctx, f.admin.ID, ModeratorInput{Name: "Ana", Email: "Ana@Hazzlo.net", Password: "secret-pass"})
	require.NoError(t, err)
	assert.Equal(t, "ana@hazzlo.net", mod.Email)
	assert.True(t, mod.Active)
	assert.NotEqual(t, "secret-pass", mod.PasswordHash)

	_, err = f.svc.CreateModerator(ctx, f.admin.ID, ModeratorInput{Name: "Otra", Email: "ana@hazzlo.net", Password: "secret-pass"})
	require.Error(t, err)
	assert.Equal(t, 409, apperrors.ToDomainError(err).HTTPStatus)

	actions := f.actions.all()
	require.Len(t, actions, 1)
	assert.Equal(t, domain.ActionCreateModerator, actions[0].Action)
}

func TestInterveneSupportChatMarksAndAudits(t *testing.T) {
	f := newAdminFixture(t)
	ctx := context.Background()

	chat := &domain.SupportChat{UserID: "user-1", Subject: "Pago duplicado", Status: domain.SupportStatusAssigned}
	require.NoError(t, f.support.CreateChat(ctx, chat))

	intervened, err := f.svc.InterveneSupportChat(ctx, f.admin.ID, chat.ID)
	require.NoError(t, err)
	assert.True(t, intervened.AdminIntervened)

	actions := f.actions.all()
	require.Len(t, actions, 1)
	assert.Equal(t, domain.ActionInterveneSupportChat, actions[0].Action)
	assert.Equal(t, domain.TargetSupportChat, actions[0].TargetType)
}

func TestGetDashboardCounts(t *testing.T) {
	f := newAdminFixture(t)
	ctx := context.Background()
	f.seedUser(t, "a@hazzlo.net")
	f.seedProfessional(t)

	dashboard, err := f.svc.GetDashboard(ctx)
	require.NoError(t, err)
	// Admin, seeded user and the professional's account.
	assert.EqualValues(t, 3, dashboard.Users)
	assert.EqualValues(t, 1, dashboard.Professionals)
	assert.Zero(t, dashboard.PendingReports)
}
