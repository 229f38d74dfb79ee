package service

import (
	"context"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/hazzlo/hazzlo-server/internal/domain"
	"github.com/hazzlo/hazzlo-server/internal/events"
	"github.com/hazzlo/hazzlo-server/internal/realtime"
	"github.com/hazzlo/hazzlo-server/internal/repository"
	apperrors "github.com/hazzlo/hazzlo-server/pkg/util/errorutil"
)

const previewLength = 80

// ChatService manages client-professional conversations and relays live
// messages. It implements realtime.ChatRelay for the socket handler.
type ChatService struct {
	conversations repository.ConversationRepository
	professionals repository.ProfessionalRepository
	users         repository.UserRepository
	registry      realtime.Registry
	dispatcher    events.Dispatcher
	logger        *zap.Logger
}

// NewChatService constructs the service.
func NewChatService(
	conversations repository.ConversationRepository,
	professionals repository.ProfessionalRepository,
	users repository.UserRepository,
	registry realtime.Registry,
	dispatcher events.Dispatcher,
	logger *zap.Logger,
) *ChatService {
	return &ChatService{
		conversations: conversations,
		professionals: professionals,
		users:         users,
		registry:      registry,
		dispatcher:    dispatcher,
		logger:        logger,
	}
}

// StartConversation finds or creates the thread between the caller and a
// professional's account.
func (s *ChatService) StartConversation(ctx context.Context, clientID, professionalID string) (*domain.Conversation, error) {
	prof, err := s.professionals.GetByID(ctx, professionalID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("Profesional no encontrado")
		}
		return nil, apperrors.MapError(err)
	}
	if prof.UserID == clientID {
		return nil, apperrors.NewValidationError("No puedes iniciar un chat contigo mismo", nil)
	}

	conv, err := s.conversations.GetByParticipants(ctx, clientID, prof.UserID)
	if err == nil {
		return conv, nil
	}
	if err != pgx.ErrNoRows {
		return nil, apperrors.MapError(err)
	}

	conv = &domain.Conversation{ClientID: clientID, ProfessionalID: prof.UserID}
	if err := s.conversations.Create(ctx, conv); err != nil {
		return nil, apperrors.MapError(err)
	}
	return conv, nil
}

// ListConversations returns the caller's threads, most recent activity first.
func (s *ChatService) ListConversations(ctx context.Context, userID string) ([]domain.Conversation, error) {
	list, err := s.conversations.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return list, nil
}

// ListMessages returns a thread's messages. Participants only.
func (s *ChatService) ListMessages(ctx context.Context, requesterID, conversationID string, limit, offset int) ([]domain.Message, error) {
	if _, err := s.participantConversation(ctx, requesterID, conversationID); err != nil {
		return nil, err
	}
	list, err := s.conversations.ListMessages(ctx, conversationID, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return list, nil
}

// MarkRead marks the counterpart's messages as read.
func (s *ChatService) MarkRead(ctx context.Context, requesterID, conversationID string) error {
	if _, err := s.participantConversation(ctx, requesterID, conversationID); err != nil {
		return err
	}
	if err := s.conversations.MarkMessagesRead(ctx, conversationID, requesterID); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// SendMessage persists a message and notifies the counterpart. REST entry
// point; the socket path goes through RelayMessage.
func (s *ChatService) SendMessage(ctx context.Context, senderID, conversationID, content string) (*domain.Message, error) {
	if content == "" {
		return nil, apperrors.NewValidationError("El mensaje no puede estar vacío", nil)
	}
	conv, err := s.participantConversation(ctx, senderID, conversationID)
	if err != nil {
		return nil, err
	}

	msg := &domain.Message{
		ConversationID: conversationID,
		SenderID:       senderID,
		Content:        content,
	}
	if err := s.conversations.CreateMessage(ctx, msg); err != nil {
		return nil, apperrors.MapError(err)
	}

	recipientID := conv.OtherParticipant(senderID)
	s.registry.Send(recipientID, realtime.NewMessage(realtime.MessageTypeNewMessage, msg))

	_ = s.dispatcher.Publish(ctx, events.Event{
		Type:  events.EventMessageSent,
		Actor: events.Actor{Type: domain.SubjectTypeUser, UserID: &senderID},
		Payload: events.MessagePayload{
			MessageID:      msg.ID,
			ConversationID: conversationID,
			SenderID:       senderID,
			RecipientID:    recipientID,
			Preview:        preview(content),
		},
	})
	return msg, nil
}

// RelayMessage is the socket-side send path. Returns the message_sent ack
// envelope for the sender.
func (s *ChatService) RelayMessage(ctx context.Context, senderID, conversationID, content string) (*realtime.Message, error) {
	msg, err := s.SendMessage(ctx, senderID, conversationID, content)
	if err != nil {
		return nil, err
	}
	return realtime.NewMessage(realtime.MessageTypeMessageSent, msg), nil
}

func (s *ChatService) participantConversation(ctx context.Context, userID, conversationID string) (*domain.Conversation, error) {
	conv, err := s.conversations.GetByID(ctx, conversationID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("Conversación no encontrada")
		}
		return nil, apperrors.MapError(err)
	}
	if conv.ClientID != userID && conv.ProfessionalID != userID {
		return nil, apperrors.NewForbidden("No participas en esta conversación")
	}
	return conv, nil
}

func preview(content string) string {
	if len(content) <= previewLength {
		return content
	}
	return content[:previewLength]
}
