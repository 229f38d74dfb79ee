package domain

import "time"

// Moderator is a support operator account, managed by admins.
type Moderator struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// SupportChatStatus enumerates the support desk workflow.
type SupportChatStatus string

const (
	SupportStatusOpen      SupportChatStatus = "open"
	SupportStatusAssigned  SupportChatStatus = "assigned"
	SupportStatusEscalated SupportChatStatus = "escalated"
	SupportStatusClosed    SupportChatStatus = "closed"
)

// SupportChat is a user-to-moderator help conversation. AdminIntervened marks
// that an admin joined an otherwise moderator-owned chat.
type SupportChat struct {
	ID              string
	UserID          string
	ModeratorID     *string
	Subject         string
	Status          SupportChatStatus
	AdminIntervened bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
	ClosedAt        *time.Time
}

// SupportSenderType identifies who wrote a support message.
type SupportSenderType string

const (
	SupportSenderUser      SupportSenderType = "user"
	SupportSenderModerator SupportSenderType = "moderator"
	SupportSenderAdmin     SupportSenderType = "admin"
)

// SupportMessage is an append-only message in a support chat.
type SupportMessage struct {
	ID         string
	ChatID     string
	SenderType SupportSenderType
	SenderID   string
	Content    string
	CreatedAt  time.Time
}
