package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusNew        TicketStatus = "NEW"
	TicketStatusAssigned   TicketStatus = "ASSIGNED"
	TicketStatusInProgress TicketStatus = "IN_PROGRESS"
	TicketStatusResolved   TicketStatus = "RESOLVED"
	// TicketStatusOverdue is never persisted; see Ticket.EffectiveStatus.
	TicketStatusOverdue TicketStatus = "OVERDUE"
)

// DefaultSLA is the window after creation within which a ticket is due.
const DefaultSLA = 3 * 24 * time.Hour

// Valid reports whether s is a known status.
func (s TicketStatus) Valid() bool {
	switch s {
	case TicketStatusNew, TicketStatusAssigned, TicketStatusInProgress, TicketStatusResolved, TicketStatusOverdue:
		return true
	}
	return false
}

// Ticket is the aggregate for an ICT issue report.
type Ticket struct {
	ID                 string
	RequesterName      string
	RequesterEmail     string
	Phone              string
	Department         string
	IssueDescription   string
	AttachmentName     *string
	Status             TicketStatus
	AssignedToUserID   *string
	AssignedToUserName *string
	ResolutionDetails  *string
	Version            int64
	CreatedAt          time.Time
	UpdatedAt          time.Time
	DueAt              time.Time
}

// IsResolved reports whether the ticket reached its terminal state.
func (t *Ticket) IsResolved() bool {
	return t.Status == TicketStatusResolved
}

// IsOverdue reports whether an unresolved ticket has passed its due time.
func (t *Ticket) IsOverdue(now time.Time) bool {
	return !t.IsResolved() && now.After(t.DueAt)
}

// EffectiveStatus is the status presented to readers at now.
func (t *Ticket) EffectiveStatus(now time.Time) TicketStatus {
	if t.IsOverdue(now) {
		return TicketStatusOverdue
	}
	return t.Status
}

// IsAssignedTo reports whether userID is the current assignee.
func (t *Ticket) IsAssignedTo(userID string) bool {
	return t.AssignedToUserID != nil && *t.AssignedToUserID == userID
}

// AssignTo records officer as the assignee and moves the ticket to ASSIGNED.
// The officer name is copied, so it goes stale if the officer is renamed later.
func (t *Ticket) AssignTo(officer *User) {
	id, name := officer.ID, officer.Name
	t.AssignedToUserID = &id
	t.AssignedToUserName = &name
	t.Status = TicketStatusAssigned
}

// Resolve closes the ticket with the given details.
func (t *Ticket) Resolve(details string) {
	t.Status = TicketStatusResolved
	t.ResolutionDetails = &details
}

// Projected returns a copy of t whose Status is the effective status at now.
// The stored status is left untouched.
func (t Ticket) Projected(now time.Time) Ticket {
	t.Status = t.EffectiveStatus(now)
	return t
}
