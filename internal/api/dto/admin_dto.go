package dto

import "github.com/hazzlo/hazzlo-server/internal/domain"

// TargetUserRequest is the shared payload of user moderation endpoints.
type TargetUserRequest struct {
	UserID string `json:"userId"`
	Reason string `json:"reason"`
}

// SuspendUserRequest payload.
type SuspendUserRequest struct {
	UserID string `json:"userId"`
	Days   int    `json:"days"`
	Reason string `json:"reason"`
}

// TargetProfessionalRequest is the shared payload of professional moderation
// endpoints.
type TargetProfessionalRequest struct {
	ProfessionalID string `json:"professionalId"`
	Reason         string `json:"reason"`
}

// ChangeUserTypeRequest payload.
type ChangeUserTypeRequest struct {
	UserID   string          `json:"userId"`
	UserType domain.UserType `json:"userType"`
	Reason   string          `json:"reason"`
}

// UpdateRatingRequest payload.
type UpdateRatingRequest struct {
	ProfessionalID string  `json:"professionalId"`
	Rating         float64 `json:"rating"`
	Reason         string  `json:"reason"`
}

// SendNotificationRequest payload. Exactly one of targetUserId, targetEmail,
// targetUserType or sendToAll selects the recipients.
type SendNotificationRequest struct {
	TargetUserID   *string                 `json:"targetUserId"`
	TargetEmail    *string                 `json:"targetEmail"`
	TargetUserType *domain.UserType        `json:"targetUserType"`
	SendToAll      bool                    `json:"sendToAll"`
	Title          string                  `json:"title"`
	Message        string                  `json:"message"`
	Type           domain.NotificationType `json:"type"`
	Metadata       map[string]any          `json:"metadata"`
	ActionURL      *string                 `json:"actionUrl"`
}

// UpdateReportRequest payload.
type UpdateReportRequest struct {
	Status     domain.ReportStatus `json:"status"`
	Resolution *string             `json:"resolution"`
}

// AdminUpdateUserRequest is the typed user edit payload.
type AdminUpdateUserRequest struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Phone     *string `json:"phone"`
	Email     *string `json:"email"`
}

// AdminUpdateProfessionalRequest is the typed profile edit payload.
type AdminUpdateProfessionalRequest struct {
	BusinessName *string `json:"businessName"`
	Description  *string `json:"description"`
	Location     *string `json:"location"`
}

// CreateModeratorRequest payload.
type CreateModeratorRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateModeratorRequest payload.
type UpdateModeratorRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Active   *bool   `json:"active"`
}

// ResolveVerificationRequest payload.
type ResolveVerificationRequest struct {
	Notes *string `json:"notes"`
}

// DeleteReviewRequest payload.
type DeleteReviewRequest struct {
	Reason string `json:"reason"`
}
