package domain

import "time"

// TicketAction captures which lifecycle operation produced a history entry.
type TicketAction string

const (
	ActionCreated   TicketAction = "CREATED"
	ActionAssigned  TicketAction = "ASSIGNED"
	ActionDelegated TicketAction = "DELEGATED"
	ActionResolved  TicketAction = "RESOLVED"
)

// TicketHistory is an immutable audit trail entry.
type TicketHistory struct {
	ID         string
	TicketID   string
	ActorID    *string
	ActorName  string
	Action     TicketAction
	FromStatus *TicketStatus
	ToStatus   TicketStatus
	Note       string
	CreatedAt  time.Time
}
