package worker

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/hazzlo/hazzlo-server/internal/domain"
	"github.com/hazzlo/hazzlo-server/internal/events"
	"github.com/hazzlo/hazzlo-server/internal/service"
)

// NotificationWorker turns domain events into notification rows and live
// pushes. It subscribes on startup; the dispatcher is synchronous, so a row
// exists by the time the publishing call returns.
type NotificationWorker struct {
	notifications *service.NotificationService
	logger        *zap.Logger
}

// NewNotificationWorker constructs the worker.
func NewNotificationWorker(notifications *service.NotificationService, logger *zap.Logger) *NotificationWorker {
	return &NotificationWorker{notifications: notifications, logger: logger}
}

// Register wires the worker's handlers into the dispatcher.
func (w *NotificationWorker) Register(dispatcher events.Dispatcher) {
	dispatcher.Subscribe(events.EventMessageSent, w.onMessageSent)
	dispatcher.Subscribe(events.EventReviewCreated, w.onReviewCreated)
	dispatcher.Subscribe(events.EventRequestCreated, w.onRequestCreated)
	dispatcher.Subscribe(events.EventRequestStatusChanged, w.onRequestStatusChanged)
	dispatcher.Subscribe(events.EventReportFiled, w.logOnly)
	dispatcher.Subscribe(events.EventSupportChatOpened, w.logOnly)
	dispatcher.Subscribe(events.EventUserBanned, w.logOnly)
	dispatcher.Subscribe(events.EventUserSuspended, w.logOnly)
	dispatcher.Subscribe(events.EventProfessionalVerified, w.logOnly)
}

func (w *NotificationWorker) onMessageSent(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.MessagePayload)
	if !ok {
		return nil
	}
	actionURL := "/chat/" + payload.ConversationID
	return w.notify(ctx, payload.RecipientID, &domain.Notification{
		Title:     "Nuevo mensaje",
		Message:   payload.Preview,
		Type:      domain.NotificationTypeMessage,
		Metadata:  map[string]any{"conversationId": payload.ConversationID, "messageId": payload.MessageID},
		ActionURL: &actionURL,
	})
}

func (w *NotificationWorker) onReviewCreated(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.ReviewPayload)
	if !ok || payload.RecipientUserID == "" {
		return nil
	}
	return w.notify(ctx, payload.RecipientUserID, &domain.Notification{
		Title:    "Nueva reseña",
		Message:  fmt.Sprintf("Has recibido una reseña de %d estrellas.", payload.Rating),
		Type:     domain.NotificationTypeReview,
		Metadata: map[string]any{"reviewId": payload.ReviewID, "rating": payload.Rating},
	})
}

func (w *NotificationWorker) onRequestCreated(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.RequestPayload)
	if !ok || payload.RecipientUserID == "" {
		return nil
	}
	return w.notify(ctx, payload.RecipientUserID, &domain.Notification{
		Title:    "Nueva solicitud de servicio",
		Message:  "Tienes una nueva solicitud de servicio pendiente.",
		Type:     domain.NotificationTypeRequest,
		Metadata: map[string]any{"requestId": payload.RequestID},
	})
}

var requestStatusCopy = map[domain.ServiceRequestStatus]string{
	domain.RequestStatusAccepted:  "Tu solicitud de servicio fue aceptada.",
	domain.RequestStatusDeclined:  "Tu solicitud de servicio fue rechazada.",
	domain.RequestStatusCompleted: "Tu solicitud de servicio fue marcada como completada.",
	domain.RequestStatusCancelled: "Una solicitud de servicio fue cancelada por el cliente.",
}

func (w *NotificationWorker) onRequestStatusChanged(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.RequestPayload)
	if !ok || payload.RecipientUserID == "" {
		return nil
	}
	message, ok := requestStatusCopy[payload.NewStatus]
	if !ok {
		return nil
	}
	return w.notify(ctx, payload.RecipientUserID, &domain.Notification{
		Title:    "Solicitud de servicio actualizada",
		Message:  message,
		Type:     domain.NotificationTypeRequest,
		Metadata: map[string]any{"requestId": payload.RequestID, "status": payload.NewStatus},
	})
}

func (w *NotificationWorker) logOnly(ctx context.Context, event events.Event) error {
	w.logger.Debug("event observed", zap.String("type", string(event.Type)))
	return nil
}

func (w *NotificationWorker) notify(ctx context.Context, userID string, notification *domain.Notification) error {
	if err := w.notifications.NotifyUser(ctx, userID, notification); err != nil {
		w.logger.Warn("event notification failed",
			zap.String("user_id", userID), zap.Error(err))
		return err
	}
	return nil
}
