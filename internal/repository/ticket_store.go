package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// AssignmentMutation captures one ticket's pending changes from a scheduler
// tick. All mutations of a tick commit atomically.
type AssignmentMutation struct {
	TicketID     int64
	CategoryID   *int64
	AssignedToID int64
	StatusID     int64
}

// TicketStore encapsulates the ticket persistence the scheduler needs.
type TicketStore interface {
	FetchUnassignedCreated(ctx context.Context) ([]domain.Ticket, error)
	CommitAssignments(ctx context.Context, mutations []AssignmentMutation) error
}

type ticketStore struct {
	pool *pgxpool.Pool
}

// NewTicketStore instantiates the store.
func NewTicketStore(pool *pgxpool.Pool) TicketStore {
	return &ticketStore{pool: pool}
}

func (s *ticketStore) FetchUnassignedCreated(ctx context.Context) ([]domain.Ticket, error) {
	const query = `
        SELECT id, owner_id, description, category_id, priority_id, status_id,
               assigned_to_id, due_date, created_at, updated_at
        FROM tickets
        WHERE assigned_to_id IS NULL AND status_id = $1
        ORDER BY created_at ASC`
	rows, err := s.pool.Query(ctx, query, domain.StatusCreated)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (s *ticketStore) CommitAssignments(ctx context.Context, mutations []AssignmentMutation) error {
	if len(mutations) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const updateTicket = `
        UPDATE tickets SET category_id=$1, assigned_to_id=$2, status_id=$3, updated_at=NOW()
        WHERE id=$4`
	const bumpWorkload = `
        UPDATE agent_profiles SET current_workload = current_workload + 1, updated_at=NOW()
        WHERE id=$1`

	for _, m := range mutations {
		cmd, err := tx.Exec(ctx, updateTicket, m.CategoryID, m.AssignedToID, m.StatusID, m.TicketID)
		if err != nil {
			return err
		}
		if cmd.RowsAffected() == 0 {
			return pgx.ErrNoRows
		}
		if _, err := tx.Exec(ctx, bumpWorkload, m.AssignedToID); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		if err := rows.Scan(
			&ticket.ID,
			&ticket.OwnerID,
			&ticket.Description,
			&ticket.CategoryID,
			&ticket.PriorityID,
			&ticket.StatusID,
			&ticket.AssignedToID,
			&ticket.DueDate,
			&ticket.CreatedAt,
			&ticket.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}
