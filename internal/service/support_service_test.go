package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hazzlo/hazzlo-server/internal/domain"
	"github.com/hazzlo/hazzlo-server/internal/events"
	"github.com/hazzlo/hazzlo-server/internal/realtime"
	apperrors "github.com/hazzlo/hazzlo-server/pkg/util/errorutil"
)

// stubArchiver records archived chats instead of touching the filesystem.
type stubArchiver struct{}

func (stubArchiver) ArchiveSupportChat(*domain.SupportChat, []domain.SupportMessage) error {
	return nil
}

type recordingArchiver struct {
	mu    sync.Mutex
	chats []*domain.SupportChat
	count map[string]int
	err   error
}

func newRecordingArchiver() *recordingArchiver {
	return &recordingArchiver{count: make(map[string]int)}
}

func (a *recordingArchiver) ArchiveSupportChat(chat *domain.SupportChat, _ []domain.SupportMessage) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.err != nil {
		return a.err
	}
	a.chats = append(a.chats, chat)
	a.count[chat.ID]++
	return nil
}

type supportFixture struct {
	svc        *SupportService
	repo       *memSupportRepo
	users      *recordingRegistry
	moderators *recordingRegistry
	archiver   *recordingArchiver
}

func newSupportFixture(t *testing.T) *supportFixture {
	t.Helper()
	f := &supportFixture{
		repo:       newMemSupportRepo(),
		users:      newRecordingRegistry(),
		moderators: newRecordingRegistry(),
		archiver:   newRecordingArchiver(),
	}
	f.svc = NewSupportService(f.repo, f.users, f.moderators, f.archiver,
		events.NewInMemoryDispatcher(), zap.NewNop())
	return f
}

func TestSupportOpenAnnouncesToModerators(t *testing.T) {
	f := newSupportFixture(t)
	ctx := context.Background()

	_, err := f.svc.Open(ctx, "user-1", "  ", "no puedo pagar")
	require.Error(t, err)
	assert.Equal(t, 400, apperrors.ToDomainError(err).HTTPStatus)

	chat, err := f.svc.Open(ctx, "user-1", "Problema de pago", "no puedo pagar")
	require.NoError(t, err)
	assert.Equal(t, domain.SupportStatusOpen, chat.Status)

	msgs, err := f.repo.ListMessages(ctx, chat.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, domain.SupportSenderUser, msgs[0].SenderType)

	require.Len(t, f.moderators.broadcast, 1)
	assert.Equal(t, realtime.MessageTypeNewSupportChat, f.moderators.broadcast[0].Type)
}

func TestSupportAssignEscalateClose(t *testing.T) {
	f := newSupportFixture(t)
	ctx := context.Background()

	chat, err := f.svc.Open(ctx, "user-1", "Problema de pago", "detalle")
	require.NoError(t, err)

	// Escalating an unassigned chat is forbidden.
	_, err = f.svc.Escalate(ctx, "mod-1", chat.ID)
	require.Error(t, err)
	assert.Equal(t, 403, apperrors.ToDomainError(err).HTTPStatus)

	assigned, err := f.svc.Assign(ctx, "mod-1", chat.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SupportStatusAssigned, assigned.Status)
	require.NotNil(t, assigned.ModeratorID)

	// Assigning an already assigned chat conflicts.
	_, err = f.svc.Assign(ctx, "mod-2", chat.ID)
	require.Error(t, err)
	assert.Equal(t, 409, apperrors.ToDomainError(err).HTTPStatus)

	// Only the assigned moderator escalates.
	_, err = f.svc.Escalate(ctx, "mod-2", chat.ID)
	require.Error(t, err)
	assert.Equal(t, 403, apperrors.ToDomainError(err).HTTPStatus)

	escalated, err := f.svc.Escalate(ctx, "mod-1", chat.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SupportStatusEscalated, escalated.Status)

	closed, err := f.svc.Close(ctx, chat.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SupportStatusClosed, closed.Status)
	require.NotNil(t, closed.ClosedAt)

	// Closing archives the transcript exactly once, and the user gets a
	// system push.
	assert.Equal(t, 1, f.archiver.count[chat.ID])
	pushes := f.users.sentTo("user-1")
	require.NotEmpty(t, pushes)
	assert.Equal(t, realtime.MessageTypeSystem, pushes[len(pushes)-1].Type)

	// A closed chat is terminal.
	_, err = f.svc.Close(ctx, chat.ID)
	require.Error(t, err)
	assert.Equal(t, 409, apperrors.ToDomainError(err).HTTPStatus)
}

func TestSupportCloseSurvivesArchiveFailure(t *testing.T) {
	f := newSupportFixture(t)
	ctx := context.Background()

	chat, err := f.svc.Open(ctx, "user-1", "Asunto", "detalle")
	require.NoError(t, err)

	f.archiver.err = assert.AnError
	closed, err := f.svc.Close(ctx, chat.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SupportStatusClosed, closed.Status)
}

func TestSupportPostMessageRouting(t *testing.T) {
	f := newSupportFixture(t)
	ctx := context.Background()

	chat, err := f.svc.Open(ctx, "user-1", "Asunto", "primer mensaje")
	require.NoError(t, err)

	// A stranger cannot write into someone else's chat.
	_, err = f.svc.PostMessage(ctx, chat.ID, domain.SupportSenderUser, "user-2", "hola")
	require.Error(t, err)
	assert.Equal(t, 403, apperrors.ToDomainError(err).HTTPStatus)

	// Unassigned chat: user messages broadcast to the moderator pool.
	_, err = f.svc.PostMessage(ctx, chat.ID, domain.SupportSenderUser, "user-1", "sigo esperando")
	require.NoError(t, err)
	assert.Len(t, f.moderators.broadcast, 2) // open announcement plus this message

	_, err = f.svc.Assign(ctx, "mod-1", chat.ID)
	require.NoError(t, err)

	// Assigned chat: user messages go to the owning moderator only.
	_, err = f.svc.PostMessage(ctx, chat.ID, domain.SupportSenderUser, "user-1", "gracias")
	require.NoError(t, err)
	require.Len(t, f.moderators.sentTo("mod-1"), 1)

	// Moderator replies land on the user's connections.
	_, err = f.svc.PostMessage(ctx, chat.ID, domain.SupportSenderModerator, "mod-1", "revisando")
	require.NoError(t, err)
	require.NotEmpty(t, f.users.sentTo("user-1"))

	_, err = f.svc.Close(ctx, chat.ID)
	require.NoError(t, err)

	_, err = f.svc.PostMessage(ctx, chat.ID, domain.SupportSenderUser, "user-1", "tarde")
	require.Error(t, err)
	assert.Equal(t, 409, apperrors.ToDomainError(err).HTTPStatus)
}

func TestSupportMessagesScopedToOwner(t *testing.T) {
	f := newSupportFixture(t)
	ctx := context.Background()

	chat, err := f.svc.Open(ctx, "user-1", "Asunto", "detalle")
	require.NoError(t, err)

	other := "user-2"
	_, err = f.svc.Messages(ctx, chat.ID, &other)
	require.Error(t, err)
	assert.Equal(t, 403, apperrors.ToDomainError(err).HTTPStatus)

	owner := "user-1"
	msgs, err := f.svc.Messages(ctx, chat.ID, &owner)
	require.NoError(t, err)
	assert.Len(t, msgs, 1)

	// Moderator and admin access passes a nil requester.
	msgs, err = f.svc.Messages(ctx, chat.ID, nil)
	require.NoError(t, err)
	assert.Len(t, msgs, 1)
}
