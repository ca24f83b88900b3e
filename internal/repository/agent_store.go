package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// AgentStore loads agent profiles with their skill sets for the workload
// ledger.
type AgentStore interface {
	FetchAgentsWithSkills(ctx context.Context) ([]domain.AgentProfile, error)
}

type agentStore struct {
	pool *pgxpool.Pool
}

// NewAgentStore instantiates the store.
func NewAgentStore(pool *pgxpool.Pool) AgentStore {
	return &agentStore{pool: pool}
}

func (s *agentStore) FetchAgentsWithSkills(ctx context.Context) ([]domain.AgentProfile, error) {
	const query = `
        SELECT a.id, a.user_id, a.current_workload, a.created_at, a.updated_at,
               COALESCE(array_agg(sk.category_id) FILTER (WHERE sk.category_id IS NOT NULL), '{}')
        FROM agent_profiles a
        LEFT JOIN agent_skills sk ON sk.agent_id = a.id
        GROUP BY a.id
        ORDER BY a.id ASC`
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.AgentProfile
	for rows.Next() {
		var agent domain.AgentProfile
		if err := rows.Scan(
			&agent.ID,
			&agent.UserID,
			&agent.CurrentWorkload,
			&agent.CreatedAt,
			&agent.UpdatedAt,
			&agent.Skills,
		); err != nil {
			return nil, err
		}
		result = append(result, agent)
	}
	return result, rows.Err()
}
