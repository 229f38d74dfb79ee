package worker

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hazzlo/hazzlo-server/internal/domain"
	"github.com/hazzlo/hazzlo-server/internal/events"
	"github.com/hazzlo/hazzlo-server/internal/repository"
	"github.com/hazzlo/hazzlo-server/internal/service"
)

type notificationStore struct {
	mu   sync.Mutex
	rows []domain.Notification
}

func (s *notificationStore) Create(_ context.Context, n *domain.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	s.rows = append(s.rows, *n)
	return nil
}

func (s *notificationStore) GetByID(context.Context, string) (*domain.Notification, error) {
	return nil, pgx.ErrNoRows
}

func (s *notificationStore) ListByUser(_ context.Context, userID string, _, _ int) ([]domain.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.Notification{}
	for _, row := range s.rows {
		if row.UserID == userID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (s *notificationStore) CountUnread(context.Context, string) (int64, error) { return 0, nil }
func (s *notificationStore) MarkRead(context.Context, string, string) error { return nil }
func (s *notificationStore) MarkAllRead(context.Context, string) error { return nil }
func (s *notificationStore) WithTx(pgx.Tx) repository.NotificationRepository { return s }

type emptyUserStore struct{}

func (emptyUserStore) Create(context.Context, *domain.User) error { return nil }
func (emptyUserStore) Update(context.Context, *domain.User) error { return nil }
func (emptyUserStore) GetByID(context.Context, string) (*domain.User, error) {
	return nil, pgx.ErrNoRows
}
func (emptyUserStore) GetByEmail(context.Context, string) (*domain.User, error) {
	return nil, pgx.ErrNoRows
}
func (emptyUserStore) List(context.Context, int, int) ([]domain.User, error) { return nil, nil }
func (emptyUserStore) ListIDs(context.Context, *domain.UserType) ([]string, error) {
	return nil, nil
}
func (emptyUserStore) Count(context.Context) (int64, error)    { return 0, nil }
func (emptyUserStore) WithTx(pgx.Tx) repository.UserRepository { return emptyUserStore{} }

func newWorkerFixture(t *testing.T) (*notificationStore, events.Dispatcher) {
	t.Helper()
	store := &notificationStore{}
	// Nil registry: the recipient is offline, so delivery is row-only.
	notifier := service.NewNotificationService(store, emptyUserStore{}, nil, zap.NewNop())
	dispatcher := events.NewInMemoryDispatcher()
	NewNotificationWorker(notifier, zap.NewNop()).Register(dispatcher)
	return store, dispatcher
}

func TestMessageSentCreatesRowForOfflineRecipient(t *testing.T) {
	store, dispatcher := newWorkerFixture(t)

	err := dispatcher.Publish(context.Background(), events.Event{
		Type: events.EventMessageSent,
		Payload: events.MessagePayload{
			MessageID:      "m1",
			ConversationID: "conv-1",
			SenderID:       "sender",
			RecipientID:    "recipient",
			Preview:        "hola, ¿está disponible?",
		},
	})
	require.NoError(t, err)

	rows, err := store.ListByUser(context.Background(), "recipient", 50, 0)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Nuevo mensaje", rows[0].Title)
	assert.Equal(t, "hola, ¿está disponible?", rows[0].Message)
	assert.Equal(t, domain.NotificationTypeMessage, rows[0].Type)
	require.NotNil(t, rows[0].ActionURL)
	assert.Equal(t, "/chat/conv-1", *rows[0].ActionURL)
}

func TestReviewCreatedNotifiesProfessionalAccount(t *testing.T) {
	store, dispatcher := newWorkerFixture(t)

	err := dispatcher.Publish(context.Background(), events.Event{
		Type: events.EventReviewCreated,
		Payload: events.ReviewPayload{
			ReviewID:        "r1",
			ProfessionalID:  "prof-1",
			RecipientUserID: "pro-user",
			Rating:          4,
		},
	})
	require.NoError(t, err)

	rows, _ := store.ListByUser(context.Background(), "pro-user", 50, 0)
	require.Len(t, rows, 1)
	assert.Equal(t, "Nueva reseña", rows[0].Title)
	assert.Contains(t, rows[0].Message, "4 estrellas")
}

func TestRequestStatusChangeCopyPerTarget(t *testing.T) {
	store, dispatcher := newWorkerFixture(t)
	ctx := context.Background()

	for _, status := range []domain.ServiceRequestStatus{
		domain.RequestStatusAccepted,
		domain.RequestStatusDeclined,
	} {
		err := dispatcher.Publish(ctx, events.Event{
			Type: events.EventRequestStatusChanged,
			Payload: events.RequestPayload{
				RequestID:       "req-1",
				RecipientUserID: "client-1",
				NewStatus:       status,
			},
		})
		require.NoError(t, err)
	}

	rows, _ := store.ListByUser(ctx, "client-1", 50, 0)
	require.Len(t, rows, 2)
	assert.Equal(t, "Tu solicitud de servicio fue aceptada.", rows[0].Message)
	assert.Equal(t, "Tu solicitud de servicio fue rechazada.", rows[1].Message)
}

func TestUnknownPayloadShapeIsIgnored(t *testing.T) {
	store, dispatcher := newWorkerFixture(t)

	err := dispatcher.Publish(context.Background(), events.Event{
		Type:    events.EventMessageSent,
		Payload: "not a message payload",
	})
	require.NoError(t, err)
	assert.Empty(t, store.rows)
}
