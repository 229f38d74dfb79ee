package events

import (
	"time"

	"github.com/hazzlo/hazzlo-server/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserBanned            EventType = "user_banned"
	EventUserUnbanned          EventType = "user_unbanned"
	EventUserSuspended         EventType = "user_suspended"
	EventSuspensionRemoved     EventType = "suspension_removed"
	EventProfessionalVerified  EventType = "professional_verified"
	EventReviewCreated         EventType = "review_created"
	EventReviewDeleted         EventType = "review_deleted"
	EventRequestCreated        EventType = "service_request_created"
	EventRequestStatusChanged  EventType = "service_request_status_changed"
	EventMessageSent           EventType = "message_sent"
	EventSupportChatOpened     EventType = "support_chat_opened"
	EventReportFiled           EventType = "report_filed"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	Type        domain.SubjectType `json:"type"`
	UserID      *string            `json:"user_id,omitempty"`
	ModeratorID *string            `json:"moderator_id,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// UserModeratedPayload carries ban/suspension details.
type UserModeratedPayload struct {
	UserID         string     `json:"user_id"`
	Action         string     `json:"action"`
	Reason         string     `json:"reason,omitempty"`
	SuspendedUntil *time.Time `json:"suspended_until,omitempty"`
}

// ReviewPayload carries review aggregate context. RecipientUserID is the
// platform account behind the reviewed professional.
type ReviewPayload struct {
	ReviewID        string  `json:"review_id"`
	ProfessionalID  string  `json:"professional_id"`
	RecipientUserID string  `json:"recipient_user_id"`
	Rating          int     `json:"rating,omitempty"`
	NewAverage      float64 `json:"new_average"`
	NewCount        int     `json:"new_count"`
}

// RequestPayload carries booking lifecycle context. RecipientUserID is the
// counterpart of whoever changed the request.
type RequestPayload struct {
	RequestID       string                      `json:"request_id"`
	ClientID        string                      `json:"client_id"`
	ProfessionalID  string                      `json:"professional_id"`
	RecipientUserID string                      `json:"recipient_user_id"`
	OldStatus       domain.ServiceRequestStatus `json:"old_status,omitempty"`
	NewStatus       domain.ServiceRequestStatus `json:"new_status"`
}

// MessagePayload carries chat relay context.
type MessagePayload struct {
	MessageID      string `json:"message_id"`
	ConversationID string `json:"conversation_id"`
	SenderID       string `json:"sender_id"`
	RecipientID    string `json:"recipient_id"`
	Preview        string `json:"preview"`
}

// SupportChatPayload carries support-chat lifecycle context.
type SupportChatPayload struct {
	ChatID  string `json:"chat_id"`
	UserID  string `json:"user_id"`
	Subject string `json:"subject"`
}

// ReportPayload carries report context.
type ReportPayload struct {
	ReportID   string            `json:"report_id"`
	ReportType domain.ReportType `json:"report_type"`
	TargetID   string            `json:"target_id"`
}
