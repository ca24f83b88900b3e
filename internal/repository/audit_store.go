package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// AuditStore persists the append-only audit trail.
type AuditStore interface {
	Append(ctx context.Context, record *domain.AuditRecord) error
	ListByTicket(ctx context.Context, ticketID int64) ([]domain.AuditRecord, error)
}

type auditStore struct {
	pool *pgxpool.Pool
}

// NewAuditStore instantiates the store.
func NewAuditStore(pool *pgxpool.Pool) AuditStore {
	return &auditStore{pool: pool}
}

func (s *auditStore) Append(ctx context.Context, record *domain.AuditRecord) error {
	const query = `
        INSERT INTO ticket_audit (ticket_id, field_name, old_value, new_value, modified_by, changed_at)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id`
	return s.pool.QueryRow(ctx, query,
		record.TicketID,
		record.FieldName,
		record.OldValue,
		record.NewValue,
		record.ModifiedBy,
		record.ChangedAt,
	).Scan(&record.ID)
}

func (s *auditStore) ListByTicket(ctx context.Context, ticketID int64) ([]domain.AuditRecord, error) {
	const query = `
        SELECT id, ticket_id, field_name, old_value, new_value, modified_by, changed_at
        FROM ticket_audit WHERE ticket_id=$1 ORDER BY changed_at ASC`
	rows, err := s.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.AuditRecord
	for rows.Next() {
		var record domain.AuditRecord
		if err := rows.Scan(
			&record.ID,
			&record.TicketID,
			&record.FieldName,
			&record.OldValue,
			&record.NewValue,
			&record.ModifiedBy,
			&record.ChangedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, record)
	}
	return result, rows.Err()
}
