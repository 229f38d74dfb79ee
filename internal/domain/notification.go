package domain

import "time"

// NotificationType classifies notifications for frontend rendering.
type NotificationType string

const (
	NotificationTypeSystem     NotificationType = "system"
	NotificationTypeAccount    NotificationType = "account"
	NotificationTypeMessage    NotificationType = "message"
	NotificationTypeRequest    NotificationType = "request"
	NotificationTypeReview     NotificationType = "review"
	NotificationTypeAdmin      NotificationType = "admin"
	NotificationTypePromotion  NotificationType = "promotion"
)

// Notification is a persisted per-recipient event. Created in bulk by the
// dispatcher; only IsRead mutates afterwards.
type Notification struct {
	ID        string
	UserID    string
	Title     string
	Message   string
	Type      NotificationType
	IsRead    bool
	Metadata  map[string]any
	ActionURL *string
	CreatedAt time.Time
}
