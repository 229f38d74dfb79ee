package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hazzlo/hazzlo-server/internal/domain"
	"github.com/hazzlo/hazzlo-server/internal/events"
	"github.com/hazzlo/hazzlo-server/internal/realtime"
	apperrors "github.com/hazzlo/hazzlo-server/pkg/util/errorutil"
)

type chatFixture struct {
	svc        *ChatService
	registry   *recordingRegistry
	dispatcher events.Dispatcher
	prof       *domain.Professional
}

func newChatFixture(t *testing.T) *chatFixture {
	t.Helper()
	users := newMemUserRepo()
	profs := newMemProfessionalRepo()
	convs := newMemConversationRepo()
	registry := newRecordingRegistry()
	dispatcher := events.NewInMemoryDispatcher()

	proUser := &domain.User{Email: "pro@hazzlo.net", FirstName: "Pro", UserType: domain.UserTypeProfessional}
	require.NoError(t, users.Create(context.Background(), proUser))
	prof := &domain.Professional{UserID: proUser.ID, BusinessName: "Hazzlo Pro"}
	require.NoError(t, profs.Create(context.Background(), prof))

	return &chatFixture{
		svc:        NewChatService(convs, profs, users, registry, dispatcher, zap.NewNop()),
		registry:   registry,
		dispatcher: dispatcher,
		prof:       prof,
	}
}

func TestStartConversationDedupes(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()

	first, err := f.svc.StartConversation(ctx, "client-1", f.prof.ID)
	require.NoError(t, err)
	// The thread is keyed on the professional's platform account, not the
	// profile id, so pushes and lookups run on user ids throughout.
	assert.Equal(t, f.prof.UserID, first.ProfessionalID)

	second, err := f.svc.StartConversation(ctx, "client-1", f.prof.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}

func TestStartConversationWithSelfFails(t *testing.T) {
	f := newChatFixture(t)

	_, err := f.svc.StartConversation(context.Background(), f.prof.UserID, f.prof.ID)
	require.Error(t, err)
	assert.Equal(t, 400, apperrors.ToDomainError(err).HTTPStatus)
}

func TestSendMessagePushesToRecipientAndPublishes(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()

	conv, err := f.svc.StartConversation(ctx, "client-1", f.prof.ID)
	require.NoError(t, err)

	var published []events.Event
	f.dispatcher.Subscribe(events.EventMessageSent, func(_ context.Context, event events.Event) error {
		published = append(published, event)
		return nil
	})

	msg, err := f.svc.SendMessage(ctx, "client-1", conv.ID, "¿Está disponible mañana?")
	require.NoError(t, err)
	assert.Equal(t, conv.ID, msg.ConversationID)

	pushes := f.registry.sentTo(f.prof.UserID)
	require.Len(t, pushes, 1)
	assert.Equal(t, realtime.MessageTypeNewMessage, pushes[0].Type)

	require.Len(t, published, 1)
	payload, ok := published[0].Payload.(events.MessagePayload)
	require.True(t, ok)
	assert.Equal(t, f.prof.UserID, payload.RecipientID)
	assert.Equal(t, "client-1", payload.SenderID)
}

func TestSendMessageRejectsOutsiders(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()

	conv, err := f.svc.StartConversation(ctx, "client-1", f.prof.ID)
	require.NoError(t, err)

	_, err = f.svc.SendMessage(ctx, "intruder", conv.ID, "hola")
	require.Error(t, err)
	assert.Equal(t, 403, apperrors.ToDomainError(err).HTTPStatus)

	_, err = f.svc.SendMessage(ctx, "client-1", conv.ID, "   ")
	require.Error(t, err)
	assert.Equal(t, 400, apperrors.ToDomainError(err).HTTPStatus)
}

func TestRelayMessageWrapsDeliveredMessage(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()

	conv, err := f.svc.StartConversation(ctx, "client-1", f.prof.ID)
	require.NoError(t, err)

	ack, err := f.svc.RelayMessage(ctx, "client-1", conv.ID, "hola")
	require.NoError(t, err)
	assert.Equal(t, realtime.MessageTypeMessageSent, ack.Type)
}

func TestListMessagesRequiresParticipation(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()

	conv, err := f.svc.StartConversation(ctx, "client-1", f.prof.ID)
	require.NoError(t, err)
	_, err = f.svc.SendMessage(ctx, "client-1", conv.ID, "hola")
	require.NoError(t, err)

	_, err = f.svc.ListMessages(ctx, "intruder", conv.ID, 50, 0)
	require.Error(t, err)
	assert.Equal(t, 403, apperrors.ToDomainError(err).HTTPStatus)

	msgs, err := f.svc.ListMessages(ctx, f.prof.UserID, conv.ID, 50, 0)
	require.NoError(t, err)
	assert.Len(t, msgs, 1)
}
