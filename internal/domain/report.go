package domain

import "time"

// ReportType identifies what a report targets.
type ReportType string

const (
	ReportTypeProfessionalProfile ReportType = "professional_profile"
	ReportTypeChatConversation    ReportType = "chat_conversation"
)

// ReportStatus enumerates the moderation workflow.
type ReportStatus string

const (
	ReportStatusPending       ReportStatus = "pending"
	ReportStatusInvestigating ReportStatus = "investigating"
	ReportStatusResolved      ReportStatus = "resolved"
)

// Report is a user complaint about a profile or a chat conversation.
// Status transitions are admin-only.
type Report struct {
	ID          string
	ReporterID  string
	ReportType  ReportType
	TargetID    string
	Reason      string
	Description *string
	Status      ReportStatus
	Resolution  *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
