package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/hazzlo/hazzlo-server/internal/domain"
)

// SupportChatFilter narrows support-chat listings.
type SupportChatFilter struct {
	Status      *domain.SupportChatStatus
	UserID      *string
	ModeratorID *string
	Limit       int
	Offset      int
}

// SupportRepository encapsulates support chats and their messages.
type SupportRepository interface {
	CreateChat(ctx context.Context, chat *domain.SupportChat) error
	UpdateChat(ctx context.Context, chat *domain.SupportChat) error
	GetChatByID(ctx context.Context, id string) (*domain.SupportChat, error)
	ListChats(ctx context.Context, filter SupportChatFilter) ([]domain.SupportChat, error)
	CountByStatus(ctx context.Context, status domain.SupportChatStatus) (int64, error)
	CreateMessage(ctx context.Context, msg *domain.SupportMessage) error
	ListMessages(ctx context.Context, chatID string) ([]domain.SupportMessage, error)
}

type supportRepository struct {
	db Querier
}

// NewSupportRepository instantiates repository.
func NewSupportRepository(db Querier) SupportRepository {
	return &supportRepository{db: db}
}

const supportChatColumns = `id, user_id, moderator_id, subject, status, admin_intervened,
        created_at, updated_at, closed_at`

func (r *supportRepository) CreateChat(ctx context.Context, chat *domain.SupportChat) error {
	const query = `
        INSERT INTO support_chats (user_id, subject, status)
        VALUES ($1,$2,$3)
        RETURNING id, admin_intervened, created_at, updated_at`
	return r.db.QueryRow(ctx, query,
		chat.UserID,
		chat.Subject,
		chat.Status,
	).Scan(&chat.ID, &chat.AdminIntervened, &chat.CreatedAt, &chat.UpdatedAt)
}

func (r *supportRepository) UpdateChat(ctx context.Context, chat *domain.SupportChat) error {
	const query = `
        UPDATE support_chats SET moderator_id=$1, status=$2, admin_intervened=$3, closed_at=$4, updated_at=NOW()
        WHERE id=$5`
	cmd, err := r.db.Exec(ctx, query,
		chat.ModeratorID,
		chat.Status,
		chat.AdminIntervened,
		chat.ClosedAt,
		chat.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *supportRepository) GetChatByID(ctx context.Context, id string) (*domain.SupportChat, error) {
	var chat domain.SupportChat
	if err := scanSupportChat(r.db.QueryRow(ctx, `SELECT `+supportChatColumns+` FROM support_chats WHERE id=$1`, id), &chat); err != nil {
		return nil, err
	}
	return &chat, nil
}

func (r *supportRepository) ListChats(ctx context.Context, filter SupportChatFilter) ([]domain.SupportChat, error) {
	base := `SELECT ` + supportChatColumns + ` FROM support_chats`
	clauses := []string{"1=1"}
	args := []any{}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}
	if filter.UserID != nil {
		args = append(args, *filter.UserID)
		clauses = append(clauses, fmt.Sprintf("user_id=$%d", len(args)))
	}
	if filter.ModeratorID != nil {
		args = append(args, *filter.ModeratorID)
		clauses = append(clauses, fmt.Sprintf("moderator_id=$%d", len(args)))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf("%s WHERE %s ORDER BY updated_at DESC LIMIT %d OFFSET %d",
		base, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.SupportChat
	for rows.Next() {
		var chat domain.SupportChat
		if err := scanSupportChat(rows, &chat); err != nil {
			return nil, err
		}
		result = append(result, chat)
	}
	return result, rows.Err()
}

func (r *supportRepository) CountByStatus(ctx context.Context, status domain.SupportChatStatus) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM support_chats WHERE status=$1`, status).Scan(&count)
	return count, err
}

func (r *supportRepository) CreateMessage(ctx context.Context, msg *domain.SupportMessage) error {
	const query = `
        INSERT INTO support_messages (chat_id, sender_type, sender_id, content)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at`
	if err := r.db.QueryRow(ctx, query,
		msg.ChatID,
		msg.SenderType,
		msg.SenderID,
		msg.Content,
	).Scan(&msg.ID, &msg.CreatedAt); err != nil {
		return err
	}
	_, err := r.db.Exec(ctx, `UPDATE support_chats SET updated_at=NOW() WHERE id=$1`, msg.ChatID)
	return err
}

func (r *supportRepository) ListMessages(ctx context.Context, chatID string) ([]domain.SupportMessage, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, chat_id, sender_type, sender_id, content, created_at
         FROM support_messages WHERE chat_id=$1 ORDER BY created_at ASC`,
		chatID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.SupportMessage
	for rows.Next() {
		var msg domain.SupportMessage
		if err := rows.Scan(&msg.ID, &msg.ChatID, &msg.SenderType, &msg.SenderID, &msg.Content, &msg.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, msg)
	}
	return result, rows.Err()
}

func scanSupportChat(row rowScanner, chat *domain.SupportChat) error {
	return row.Scan(
		&chat.ID,
		&chat.UserID,
		&chat.ModeratorID,
		&chat.Subject,
		&chat.Status,
		&chat.AdminIntervened,
		&chat.CreatedAt,
		&chat.UpdatedAt,
		&chat.ClosedAt,
	)
}
