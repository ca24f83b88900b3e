package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// CategoryStore resolves category names to ids at index build time.
type CategoryStore interface {
	ListCategories(ctx context.Context) ([]domain.Category, error)
}

type categoryStore struct {
	pool *pgxpool.Pool
}

// NewCategoryStore instantiates the store.
func NewCategoryStore(pool *pgxpool.Pool) CategoryStore {
	return &categoryStore{pool: pool}
}

func (s *categoryStore) ListCategories(ctx context.Context) ([]domain.Category, error) {
	const query = `SELECT id, name FROM categories ORDER BY id ASC`
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Category
	for rows.Next() {
		var category domain.Category
		if err := rows.Scan(&category.ID, &category.Name); err != nil {
			return nil, err
		}
		result = append(result, category)
	}
	return result, rows.Err()
}
