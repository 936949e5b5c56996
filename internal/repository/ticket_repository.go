package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	// Update writes ticket only if the stored version still equals
	// ticket.Version, then bumps ticket.Version. It returns ErrStaleVersion
	// when another writer got there first and ErrNotFound when the row is gone.
	Update(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	// List returns every ticket, most recently created first.
	List(ctx context.Context) ([]domain.Ticket, error)
}

type ticketRepository struct {
	pool Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

const ticketColumns = `id, requester_name, requester_email, phone, department, issue_description,
               attachment_name, status, assigned_to_user_id, assigned_to_user_name, resolution_details,
               version, created_at, updated_at, due_at`

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (id, requester_name, requester_email, phone, department, issue_description,
            attachment_name, status, version, created_at, updated_at, due_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`
	_, err := conn(ctx, r.pool).Exec(ctx, query,
		ticket.ID,
		ticket.RequesterName,
		ticket.RequesterEmail,
		ticket.Phone,
		ticket.Department,
		ticket.IssueDescription,
		ticket.AttachmentName,
		ticket.Status,
		ticket.Version,
		ticket.CreatedAt,
		ticket.UpdatedAt,
		ticket.DueAt,
	)
	return translate(err)
}

func (r *ticketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        UPDATE tickets SET status=$1, assigned_to_user_id=$2, assigned_to_user_name=$3,
            resolution_details=$4, updated_at=$5, version=version+1
        WHERE id=$6 AND version=$7`
	cmd, err := conn(ctx, r.pool).Exec(ctx, query,
		ticket.Status,
		ticket.AssignedToUserID,
		ticket.AssignedToUserName,
		ticket.ResolutionDetails,
		ticket.UpdatedAt,
		ticket.ID,
		ticket.Version,
	)
	if err != nil {
		return translate(err)
	}
	if cmd.RowsAffected() == 0 {
		var exists bool
		if err := conn(ctx, r.pool).QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM tickets WHERE id=$1)`, ticket.ID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ErrNotFound
		}
		return ErrStaleVersion
	}
	ticket.Version++
	return nil
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	ticket, err := scanTicket(conn(ctx, r.pool).QueryRow(ctx, `SELECT `+ticketColumns+` FROM tickets WHERE id=$1`, id))
	if err != nil {
		return nil, translate(err)
	}
	return ticket, nil
}

func (r *ticketRepository) List(ctx context.Context) ([]domain.Ticket, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, `SELECT `+ticketColumns+` FROM tickets ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Ticket{}
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *ticket)
	}
	return result, rows.Err()
}

func scanTicket(row pgx.Row) (*domain.Ticket, error) {
	var ticket domain.Ticket
	if err := row.Scan(
		&ticket.ID,
		&ticket.RequesterName,
		&ticket.RequesterEmail,
		&ticket.Phone,
		&ticket.Department,
		&ticket.IssueDescription,
		&ticket.AttachmentName,
		&ticket.Status,
		&ticket.AssignedToUserID,
		&ticket.AssignedToUserName,
		&ticket.ResolutionDetails,
		&ticket.Version,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
		&ticket.DueAt,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}
