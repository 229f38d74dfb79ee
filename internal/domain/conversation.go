package domain

import "time"

// Conversation is a chat thread between exactly one client and one
// professional. LastMessageAt is denormalized and bumped on every insert.
type Conversation struct {
	ID             string
	ClientID       string
	ProfessionalID string
	LastMessageAt  time.Time
	CreatedAt      time.Time
}

// OtherParticipant resolves the counterpart of the given user in the thread.
func (c *Conversation) OtherParticipant(userID string) string {
	if c.ClientID == userID {
		return c.ProfessionalID
	}
	return c.ClientID
}

// Message is an append-only chat message.
type Message struct {
	ID             string
	ConversationID string
	SenderID       string
	Content        string
	IsRead         bool
	CreatedAt      time.Time
}
