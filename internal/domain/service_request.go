package domain

import "time"

// ServiceRequestStatus enumerates booking lifecycle states.
type ServiceRequestStatus string

const (
	RequestStatusPending   ServiceRequestStatus = "pending"
	RequestStatusAccepted  ServiceRequestStatus = "accepted"
	RequestStatusDeclined  ServiceRequestStatus = "declined"
	RequestStatusCompleted ServiceRequestStatus = "completed"
	RequestStatusCancelled ServiceRequestStatus = "cancelled"
)

// ServiceRequest is a client-to-professional booking request. Accept, decline
// and complete belong to the owning professional; cancel belongs to the client.
type ServiceRequest struct {
	ID             string
	ClientID       string
	ProfessionalID string
	ServiceID      *string
	Message        *string
	PreferredDate  *time.Time
	Status         ServiceRequestStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
