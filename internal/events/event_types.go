package events

import (
	"time"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated   EventType = "ticket_created"
	EventTicketAssigned  EventType = "ticket_assigned"
	EventTicketDelegated EventType = "ticket_delegated"
	EventTicketResolved  EventType = "ticket_resolved"
)

// Actor identifies who triggered an event. Public submissions have no UserID.
type Actor struct {
	UserID *string     `json:"user_id,omitempty"`
	Name   string      `json:"name"`
	Role   domain.Role `json:"role,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	RequesterName string    `json:"requester_name"`
	Department    string    `json:"department"`
	DueAt         time.Time `json:"due_at"`
}

// TicketAssignedPayload is shared by assignment and delegation.
type TicketAssignedPayload struct {
	PreviousOfficerID *string `json:"previous_officer_id,omitempty"`
	OfficerID         string  `json:"officer_id"`
	OfficerName       string  `json:"officer_name"`
}

// TicketResolvedPayload payload.
type TicketResolvedPayload struct {
	ResolutionDetails string `json:"resolution_details"`
}
