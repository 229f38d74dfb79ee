package repository

import (
	"context"

	"github.com/hazzlo/hazzlo-server/internal/domain"
)

// ConversationRepository encapsulates chat-thread and message persistence.
type ConversationRepository interface {
	Create(ctx context.Context, conv *domain.Conversation) error
	GetByID(ctx context.Context, id string) (*domain.Conversation, error)
	GetByParticipants(ctx context.Context, clientID, professionalID string) (*domain.Conversation, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Conversation, error)
	CreateMessage(ctx context.Context, msg *domain.Message) error
	ListMessages(ctx context.Context, conversationID string, limit, offset int) ([]domain.Message, error)
	MarkMessagesRead(ctx context.Context, conversationID, readerID string) error
}

type conversationRepository struct {
	db Querier
}

// NewConversationRepository instantiates repository.
func NewConversationRepository(db Querier) ConversationRepository {
	return &conversationRepository{db: db}
}

const conversationColumns = `id, client_id, professional_id, last_message_at, created_at`

func (r *conversationRepository) Create(ctx context.Context, conv *domain.Conversation) error {
	const query = `
        INSERT INTO conversations (client_id, professional_id)
        VALUES ($1,$2)
        RETURNING id, last_message_at, created_at`
	return r.db.QueryRow(ctx, query,
		conv.ClientID,
		conv.ProfessionalID,
	).Scan(&conv.ID, &conv.LastMessageAt, &conv.CreatedAt)
}

func (r *conversationRepository) GetByID(ctx context.Context, id string) (*domain.Conversation, error) {
	return r.fetchSingle(ctx, `SELECT `+conversationColumns+` FROM conversations WHERE id=$1`, id)
}

func (r *conversationRepository) GetByParticipants(ctx context.Context, clientID, professionalID string) (*domain.Conversation, error) {
	const query = `SELECT ` + conversationColumns + ` FROM conversations WHERE client_id=$1 AND professional_id=$2`
	var conv domain.Conversation
	if err := r.db.QueryRow(ctx, query, clientID, professionalID).Scan(
		&conv.ID, &conv.ClientID, &conv.ProfessionalID, &conv.LastMessageAt, &conv.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &conv, nil
}

func (r *conversationRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Conversation, error) {
	var conv domain.Conversation
	if err := r.db.QueryRow(ctx, query, arg).Scan(
		&conv.ID, &conv.ClientID, &conv.ProfessionalID, &conv.LastMessageAt, &conv.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &conv, nil
}

func (r *conversationRepository) ListByUser(ctx context.Context, userID string) ([]domain.Conversation, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+conversationColumns+` FROM conversations
         WHERE client_id=$1 OR professional_id=$1 ORDER BY last_message_at DESC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Conversation
	for rows.Next() {
		var conv domain.Conversation
		if err := rows.Scan(&conv.ID, &conv.ClientID, &conv.ProfessionalID, &conv.LastMessageAt, &conv.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, conv)
	}
	return result, rows.Err()
}

// CreateMessage inserts the message and bumps the thread's denormalized
// last_message_at in the same round trip sequence.
func (r *conversationRepository) CreateMessage(ctx context.Context, msg *domain.Message) error {
	const query = `
        INSERT INTO messages (conversation_id, sender_id, content)
        VALUES ($1,$2,$3)
        RETURNING id, is_read, created_at`
	if err := r.db.QueryRow(ctx, query,
		msg.ConversationID,
		msg.SenderID,
		msg.Content,
	).Scan(&msg.ID, &msg.IsRead, &msg.CreatedAt); err != nil {
		return err
	}

	_, err := r.db.Exec(ctx,
		`UPDATE conversations SET last_message_at=$1 WHERE id=$2`,
		msg.CreatedAt, msg.ConversationID)
	return err
}

func (r *conversationRepository) ListMessages(ctx context.Context, conversationID string, limit, offset int) ([]domain.Message, error) {
	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := r.db.Query(ctx,
		`SELECT id, conversation_id, sender_id, content, is_read, created_at
         FROM messages WHERE conversation_id=$1 ORDER BY created_at ASC LIMIT $2 OFFSET $3`,
		conversationID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Message
	for rows.Next() {
		var msg domain.Message
		if err := rows.Scan(&msg.ID, &msg.ConversationID, &msg.SenderID, &msg.Content, &msg.IsRead, &msg.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, msg)
	}
	return result, rows.Err()
}

func (r *conversationRepository) MarkMessagesRead(ctx context.Context, conversationID, readerID string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE messages SET is_read=TRUE WHERE conversation_id=$1 AND sender_id<>$2 AND is_read=FALSE`,
		conversationID, readerID)
	return err
}
