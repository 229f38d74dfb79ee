package service

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/hazzlo/hazzlo-server/internal/domain"
	"github.com/hazzlo/hazzlo-server/internal/realtime"
	"github.com/hazzlo/hazzlo-server/internal/repository"
	apperrors "github.com/hazzlo/hazzlo-server/pkg/util/errorutil"
)

// DispatchTarget selects recipients for a notification batch. Exactly one of
// UserID, Email, UserType or All should be set; explicit targets that don't
// exist fail the whole dispatch.
type DispatchTarget struct {
	UserID   *string
	Email    *string
	UserType *domain.UserType
	All      bool
}

// DispatchInput describes a notification batch.
type DispatchInput struct {
	Target    DispatchTarget
	Title     string
	Message   string
	Type      domain.NotificationType
	Metadata  map[string]any
	ActionURL *string
}

// NotificationService persists notifications and pushes them to live
// connections.
type NotificationService struct {
	notifications repository.NotificationRepository
	users         repository.UserRepository
	registry      realtime.Registry
	logger        *zap.Logger
}

// NewNotificationService constructs the service.
func NewNotificationService(
	notifications repository.NotificationRepository,
	users repository.UserRepository,
	registry realtime.Registry,
	logger *zap.Logger,
) *NotificationService {
	return &NotificationService{
		notifications: notifications,
		users:         users,
		registry:      registry,
		logger:        logger,
	}
}

// Dispatch creates one notification row per resolved recipient and pushes a
// live new_notification to those currently connected. Returns the recipient
// count. Rows are inserted sequentially; a failure aborts the batch.
func (s *NotificationService) Dispatch(ctx context.Context, input DispatchInput) (int, error) {
	if strings.TrimSpace(input.Title) == "" || strings.TrimSpace(input.Message) == "" {
		return 0, apperrors.NewValidationError("Título y mensaje son requeridos", nil)
	}
	if input.Type == "" {
		input.Type = domain.NotificationTypeSystem
	}

	recipients, err := s.resolveRecipients(ctx, input.Target)
	if err != nil {
		return 0, err
	}

	for _, userID := range recipients {
		notification := &domain.Notification{
			UserID:    userID,
			Title:     input.Title,
			Message:   input.Message,
			Type:      input.Type,
			Metadata:  input.Metadata,
			ActionURL: input.ActionURL,
		}
		if err := s.notifications.Create(ctx, notification); err != nil {
			return 0, apperrors.MapError(err)
		}
		s.Push(notification)
	}

	s.logger.Info("notifications dispatched",
		zap.Int("recipients", len(recipients)),
		zap.String("title", input.Title))
	return len(recipients), nil
}

func (s *NotificationService) resolveRecipients(ctx context.Context, target DispatchTarget) ([]string, error) {
	switch {
	case target.UserID != nil:
		if _, err := s.users.GetByID(ctx, *target.UserID); err != nil {
			if err == pgx.ErrNoRows {
				return nil, apperrors.NewNotFound("Usuario no encontrado")
			}
			return nil, apperrors.MapError(err)
		}
		return []string{*target.UserID}, nil
	case target.Email != nil:
		user, err := s.users.GetByEmail(ctx, *target.Email)
		if err != nil {
			if err == pgx.ErrNoRows {
				return nil, apperrors.NewNotFound("Usuario no encontrado")
			}
			return nil, apperrors.MapError(err)
		}
		return []string{user.ID}, nil
	case target.UserType != nil:
		ids, err := s.users.ListIDs(ctx, target.UserType)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		return ids, nil
	case target.All:
		ids, err := s.users.ListIDs(ctx, nil)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		return ids, nil
	default:
		return nil, apperrors.NewValidationError("Destinatario requerido", nil)
	}
}

// NotifyUser persists a single notification for a known-good recipient and
// pushes it live. Used by event handlers where the recipient was just read
// from the database.
func (s *NotificationService) NotifyUser(ctx context.Context, userID string, notification *domain.Notification) error {
	notification.UserID = userID
	if err := s.notifications.Create(ctx, notification); err != nil {
		return apperrors.MapError(err)
	}
	s.Push(notification)
	return nil
}

// Push sends a persisted notification to the recipient's live connections, if
// any. Delivery is best effort.
func (s *NotificationService) Push(notification *domain.Notification) bool {
	if s.registry == nil {
		return false
	}
	return s.registry.Send(notification.UserID,
		realtime.NewMessage(realtime.MessageTypeNewNotification, notification))
}

// ListForUser returns a user's notifications, newest first.
func (s *NotificationService) ListForUser(ctx context.Context, userID string, limit, offset int) ([]domain.Notification, error) {
	list, err := s.notifications.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return list, nil
}

// CountUnread returns the unread badge count.
func (s *NotificationService) CountUnread(ctx context.Context, userID string) (int64, error) {
	count, err := s.notifications.CountUnread(ctx, userID)
	if err != nil {
		return 0, apperrors.MapError(err)
	}
	return count, nil
}

// MarkRead marks one notification read. Scoped to the owner.
func (s *NotificationService) MarkRead(ctx context.Context, id, userID string) error {
	if err := s.notifications.MarkRead(ctx, id, userID); err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("Notificación no encontrada")
		}
		return apperrors.MapError(err)
	}
	return nil
}

// MarkAllRead marks every unread notification of the user read.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) error {
	if err := s.notifications.MarkAllRead(ctx, userID); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}
