package service

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/hazzlo/hazzlo-server/internal/archive"
	"github.com/hazzlo/hazzlo-server/internal/domain"
	"github.com/hazzlo/hazzlo-server/internal/events"
	"github.com/hazzlo/hazzlo-server/internal/realtime"
	"github.com/hazzlo/hazzlo-server/internal/repository"
	apperrors "github.com/hazzlo/hazzlo-server/pkg/util/errorutil"
)

// supportTransitions is the chat state machine for moderator actions.
var supportTransitions = map[domain.SupportChatStatus][]domain.SupportChatStatus{
	domain.SupportStatusOpen:      {domain.SupportStatusAssigned, domain.SupportStatusClosed},
	domain.SupportStatusAssigned:  {domain.SupportStatusEscalated, domain.SupportStatusClosed},
	domain.SupportStatusEscalated: {domain.SupportStatusClosed},
}

// SupportService runs the user-to-moderator help desk: chat lifecycle,
// messaging, live pushes to both hubs and closing with archival.
type SupportService struct {
	support    repository.SupportRepository
	users      realtime.Registry
	moderators realtime.Registry
	archiver   archive.Archiver
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewSupportService constructs the service.
func NewSupportService(
	support repository.SupportRepository,
	users realtime.Registry,
	moderators realtime.Registry,
	archiver archive.Archiver,
	dispatcher events.Dispatcher,
	logger *zap.Logger,
) *SupportService {
	return &SupportService{
		support:    support,
		users:      users,
		moderators: moderators,
		archiver:   archiver,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Open starts a support chat with its first message and announces it to every
// connected moderator.
func (s *SupportService) Open(ctx context.Context, userID, subject, firstMessage string) (*domain.SupportChat, error) {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return nil, apperrors.NewValidationError("Asunto requerido", nil)
	}
	if strings.TrimSpace(firstMessage) == "" {
		return nil, apperrors.NewValidationError("El mensaje no puede estar vacío", nil)
	}

	chat := &domain.SupportChat{
		UserID:  userID,
		Subject: subject,
		Status:  domain.SupportStatusOpen,
	}
	if err := s.support.CreateChat(ctx, chat); err != nil {
		return nil, apperrors.MapError(err)
	}
	msg := &domain.SupportMessage{
		ChatID:     chat.ID,
		SenderType: domain.SupportSenderUser,
		SenderID:   userID,
		Content:    firstMessage,
	}
	if err := s.support.CreateMessage(ctx, msg); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.moderators.Broadcast(realtime.NewMessage(realtime.MessageTypeNewSupportChat, chat))
	_ = s.dispatcher.Publish(ctx, events.Event{
		Type:  events.EventSupportChatOpened,
		Actor: events.Actor{Type: domain.SubjectTypeUser, UserID: &userID},
		Payload: events.SupportChatPayload{
			ChatID:  chat.ID,
			UserID:  userID,
			Subject: subject,
		},
	})

	s.logger.Info("support chat opened", zap.String("chat_id", chat.ID))
	return chat, nil
}

// ListForUser returns the caller's support chats.
func (s *SupportService) ListForUser(ctx context.Context, userID string, limit, offset int) ([]domain.SupportChat, error) {
	list, err := s.support.ListChats(ctx, repository.SupportChatFilter{UserID: &userID, Limit: limit, Offset: offset})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return list, nil
}

// ListForModerators returns the queue, optionally narrowed by status.
func (s *SupportService) ListForModerators(ctx context.Context, status *domain.SupportChatStatus, limit, offset int) ([]domain.SupportChat, error) {
	list, err := s.support.ListChats(ctx, repository.SupportChatFilter{Status: status, Limit: limit, Offset: offset})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return list, nil
}

// Messages returns a chat's transcript. Users only see their own chats;
// moderator and admin access is enforced at the route layer.
func (s *SupportService) Messages(ctx context.Context, chatID string, requesterUserID *string) ([]domain.SupportMessage, error) {
	chat, err := s.chat(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if requesterUserID != nil && chat.UserID != *requesterUserID {
		return nil, apperrors.NewForbidden("No participas en este chat")
	}
	list, err := s.support.ListMessages(ctx, chatID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return list, nil
}

// PostMessage appends a message and pushes it live to the other side of the
// desk.
func (s *SupportService) PostMessage(ctx context.Context, chatID string, senderType domain.SupportSenderType, senderID, content string) (*domain.SupportMessage, error) {
	if strings.TrimSpace(content) == "" {
		return nil, apperrors.NewValidationError("El mensaje no puede estar vacío", nil)
	}
	chat, err := s.chat(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if chat.Status == domain.SupportStatusClosed {
		return nil, apperrors.NewConflict("El chat está cerrado", nil)
	}
	if senderType == domain.SupportSenderUser && chat.UserID != senderID {
		return nil, apperrors.NewForbidden("No participas en este chat")
	}

	msg := &domain.SupportMessage{
		ChatID:     chatID,
		SenderType: senderType,
		SenderID:   senderID,
		Content:    content,
	}
	if err := s.support.CreateMessage(ctx, msg); err != nil {
		return nil, apperrors.MapError(err)
	}

	envelope := realtime.NewMessage(realtime.MessageTypeNewMessage, msg)
	if senderType == domain.SupportSenderUser {
		if chat.ModeratorID != nil {
			s.moderators.Send(*chat.ModeratorID, envelope)
		} else {
			s.moderators.Broadcast(envelope)
		}
	} else {
		s.users.Send(chat.UserID, envelope)
	}
	return msg, nil
}

// Assign claims an open chat for a moderator.
func (s *SupportService) Assign(ctx context.Context, moderatorID, chatID string) (*domain.SupportChat, error) {
	return s.transition(ctx, chatID, domain.SupportStatusAssigned, func(chat *domain.SupportChat) {
		chat.ModeratorID = &moderatorID
	})
}

// Escalate raises an assigned chat. Only the assigned moderator escalates.
func (s *SupportService) Escalate(ctx context.Context, moderatorID, chatID string) (*domain.SupportChat, error) {
	chat, err := s.chat(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if chat.ModeratorID == nil || *chat.ModeratorID != moderatorID {
		return nil, apperrors.NewForbidden("El chat está asignado a otro moderador")
	}
	return s.transition(ctx, chatID, domain.SupportStatusEscalated, nil)
}

// Close ends a chat and archives its transcript to the flat-file store. The
// close survives an archive failure; archival is logged and retried by hand.
func (s *SupportService) Close(ctx context.Context, chatID string) (*domain.SupportChat, error) {
	chat, err := s.transition(ctx, chatID, domain.SupportStatusClosed, func(chat *domain.SupportChat) {
		now := time.Now()
		chat.ClosedAt = &now
	})
	if err != nil {
		return nil, err
	}

	messages, err := s.support.ListMessages(ctx, chatID)
	if err != nil {
		s.logger.Error("archive skipped, transcript load failed",
			zap.String("chat_id", chatID), zap.Error(err))
		return chat, nil
	}
	if err := s.archiver.ArchiveSupportChat(chat, messages); err != nil {
		s.logger.Error("support chat archive failed",
			zap.String("chat_id", chatID), zap.Error(err))
	}

	s.users.Send(chat.UserID, realtime.NewMessage(realtime.MessageTypeSystem, map[string]string{
		"status": "support_chat_closed",
		"chatId": chat.ID,
	}))
	return chat, nil
}

// MarkIntervened flags admin participation on a chat.
func (s *SupportService) MarkIntervened(ctx context.Context, chatID string) (*domain.SupportChat, error) {
	chat, err := s.chat(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if chat.Status == domain.SupportStatusClosed {
		return nil, apperrors.NewConflict("El chat está cerrado", nil)
	}
	if !chat.AdminIntervened {
		chat.AdminIntervened = true
		if err := s.support.UpdateChat(ctx, chat); err != nil {
			return nil, apperrors.MapError(err)
		}
	}
	return chat, nil
}

func (s *SupportService) transition(ctx context.Context, chatID string, target domain.SupportChatStatus, mutate func(*domain.SupportChat)) (*domain.SupportChat, error) {
	chat, err := s.chat(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if !supportTransitionAllowed(chat.Status, target) {
		return nil, apperrors.NewConflict("El chat no admite esta transición", map[string]any{
			"current": chat.Status,
			"target":  target,
		})
	}
	chat.Status = target
	if mutate != nil {
		mutate(chat)
	}
	if err := s.support.UpdateChat(ctx, chat); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.logger.Info("support chat transition",
		zap.String("chat_id", chat.ID),
		zap.String("to", string(target)))
	return chat, nil
}

func (s *SupportService) chat(ctx context.Context, chatID string) (*domain.SupportChat, error) {
	chat, err := s.support.GetChatByID(ctx, chatID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("Chat de soporte no encontrado")
		}
		return nil, apperrors.MapError(err)
	}
	return chat, nil
}

func supportTransitionAllowed(from, to domain.SupportChatStatus) bool {
	for _, allowed := range supportTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}
