package dto

import (
	"time"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// CreateTicketRequest is the public submission form.
type CreateTicketRequest struct {
	RequesterName    string `json:"requester_name"`
	RequesterEmail   string `json:"requester_email"`
	Phone            string `json:"phone"`
	Department       string `json:"department"`
	IssueDescription string `json:"issue_description"`
	AttachmentName   string `json:"attachment_name"`
}

// AssignTicketRequest payload.
type AssignTicketRequest struct {
	OfficerID string `json:"officer_id"`
}

// ResolveTicketRequest payload.
type ResolveTicketRequest struct {
	ResolutionDetails string `json:"resolution_details"`
}

// DelegateTicketRequest payload.
type DelegateTicketRequest struct {
	NewOfficerID string `json:"new_officer_id"`
}

// TicketResponse is the full ticket as presented to staff.
type TicketResponse struct {
	ID                 string              `json:"id"`
	RequesterName      string              `json:"requester_name"`
	RequesterEmail     string              `json:"requester_email"`
	Phone              string              `json:"phone"`
	Department         string              `json:"department"`
	IssueDescription   string              `json:"issue_description"`
	AttachmentName     *string             `json:"attachment_name"`
	Status             domain.TicketStatus `json:"status"`
	AssignedToUserID   *string             `json:"assigned_to_user_id"`
	AssignedToUserName *string             `json:"assigned_to_user_name"`
	ResolutionDetails  *string             `json:"resolution_details"`
	Version            int64               `json:"version"`
	CreatedAt          time.Time           `json:"created_at"`
	UpdatedAt          time.Time           `json:"updated_at"`
	DueAt              time.Time           `json:"due_at"`
}

// TicketDetailResponse adds the audit trail.
type TicketDetailResponse struct {
	TicketResponse
	History []TicketHistoryResponse `json:"history"`
}

// TicketHistoryResponse is one audit entry.
type TicketHistoryResponse struct {
	ID         string               `json:"id"`
	ActorID    *string              `json:"actor_id"`
	ActorName  string               `json:"actor_name"`
	Action     domain.TicketAction  `json:"action"`
	FromStatus *domain.TicketStatus `json:"from_status"`
	ToStatus   domain.TicketStatus  `json:"to_status"`
	Note       string               `json:"note,omitempty"`
	CreatedAt  time.Time            `json:"created_at"`
}

// TicketListResponse wraps a page of tickets.
type TicketListResponse struct {
	Items    []TicketResponse `json:"items"`
	Total    int              `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
}

// TicketStatsResponse feeds the dashboard cards.
type TicketStatsResponse struct {
	Total             int `json:"total"`
	Resolved          int `json:"resolved"`
	PendingAssignment int `json:"pending_assignment"`
	InProgress        int `json:"in_progress"`
	Overdue           int `json:"overdue"`
}

// DepartmentResponse is one entry of the fixed department list.
type DepartmentResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// NewTicketResponse maps a domain ticket.
func NewTicketResponse(ticket *domain.Ticket) TicketResponse {
	return TicketResponse{
		ID:                 ticket.ID,
		RequesterName:      ticket.RequesterName,
		RequesterEmail:     ticket.RequesterEmail,
		Phone:              ticket.Phone,
		Department:         ticket.Department,
		IssueDescription:   ticket.IssueDescription,
		AttachmentName:     ticket.AttachmentName,
		Status:             ticket.Status,
		AssignedToUserID:   ticket.AssignedToUserID,
		AssignedToUserName: ticket.AssignedToUserName,
		ResolutionDetails:  ticket.ResolutionDetails,
		Version:            ticket.Version,
		CreatedAt:          ticket.CreatedAt,
		UpdatedAt:          ticket.UpdatedAt,
		DueAt:              ticket.DueAt,
	}
}

// NewTicketDetailResponse maps a ticket with its history.
func NewTicketDetailResponse(ticket *domain.Ticket, history []domain.TicketHistory) TicketDetailResponse {
	entries := make([]TicketHistoryResponse, 0, len(history))
	for _, h := range history {
		entries = append(entries, TicketHistoryResponse{
			ID:         h.ID,
			ActorID:    h.ActorID,
			ActorName:  h.ActorName,
			Action:     h.Action,
			FromStatus: h.FromStatus,
			ToStatus:   h.ToStatus,
			Note:       h.Note,
			CreatedAt:  h.CreatedAt,
		})
	}
	return TicketDetailResponse{TicketResponse: NewTicketResponse(ticket), History: entries}
}
