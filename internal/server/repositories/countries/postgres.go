// Package countries persists the country directory in PostgreSQL or in memory.
package countries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/taxdesk/internal/common"
	"github.com/dmitrijs2005/taxdesk/internal/dbx"
	"github.com/dmitrijs2005/taxdesk/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context) ([]models.Country, error) {
	query :=
		`SELECT id, name FROM countries
		 ORDER BY position
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.Country, 0)
	for rows.Next() {
		var c models.Country
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Country, error) {
	query :=
		`SELECT id, name FROM countries
		 WHERE id = $1
		 `

	c := &models.Country{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return c, nil
}

func (r *PostgresRepository) Create(ctx context.Context, c *models.Country) (*models.Country, error) {
	query :=
		`INSERT INTO countries (id, name)
		 VALUES ($1, $2)
		 `

	if _, err := r.db.ExecContext(ctx, query, c.ID, c.Name); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return c, nil
}

func (r *PostgresRepository) Rename(ctx context.Context, id, name string) (*models.Country, error) {
	query :=
		`UPDATE countries SET name = $2, updated_at = now()
		 WHERE id = $1
		 RETURNING id, name
		 `

	c := &models.Country{}
	err := r.db.QueryRowContext(ctx, query, id, name).Scan(&c.ID, &c.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return c, nil
}

func (r *PostgresRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM countries`).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}
