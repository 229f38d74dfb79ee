package domain

import "time"

// VerificationStatus enumerates verification request states.
type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationApproved VerificationStatus = "approved"
	VerificationRejected VerificationStatus = "rejected"
)

// VerificationRequest is a professional's application for the verified badge.
// Approval flips Professional.IsVerified and is audit-logged.
type VerificationRequest struct {
	ID             string
	ProfessionalID string
	DocumentURL    *string
	Notes          *string
	Status         VerificationStatus
	ReviewedBy     *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
