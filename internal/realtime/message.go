package realtime

import (
	"time"

	"github.com/google/uuid"
)

// Message types exchanged over /ws-chat.
const (
	MessageTypeJoin            = "join"
	MessageTypeModeratorJoin   = "moderator_join"
	MessageTypeChatMessage     = "chat_message"
	MessageTypeNewMessage      = "new_message"
	MessageTypeMessageSent     = "message_sent"
	MessageTypeNewNotification = "new_notification"
	MessageTypeNewSupportChat  = "new_support_chat"
	MessageTypeError           = "error"
	MessageTypeSystem          = "system"
)

// Message is the JSON envelope for every WebSocket frame.
type Message struct {
	Type      string      `json:"type"`
	Payload   interface{} `json:"payload,omitempty"`
	ID        string      `json:"id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// NewMessage creates an envelope with a fresh id and current timestamp.
func NewMessage(msgType string, payload interface{}) *Message {
	return &Message{
		Type:      msgType,
		Payload:   payload,
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
	}
}

// ErrorPayload is sent back to a client on protocol errors.
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
