package domain

import "time"

// Review is a client rating of a professional. Immutable once created except
// for admin deletion, which triggers an aggregate recompute.
type Review struct {
	ID             string
	ProfessionalID string
	ClientID       string
	Rating         int
	Comment        *string
	CreatedAt      time.Time
}
