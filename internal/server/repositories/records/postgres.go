// Package records persists tax records in PostgreSQL or in memory.
package records

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

const selectRecord = `SELECT id, name, COALESCE(gender, ''), COALESCE(request_date, ''), country, COALESCE(country_id, ''), attrs
		 FROM records`

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner) (*models.Record, error) {
	r := &models.Record{}
	var attrs []byte
	if err := s.Scan(&r.ID, &r.Name, &r.Gender, &r.RequestDate, &r.Country, &r.CountryID, &attrs); err != nil {
		return nil, err
	}
	if err := r.SetAttrsJSON(attrs); err != nil {
		return nil, fmt.Errorf("record %s attrs: %w", r.ID, err)
	}
	return r, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]models.Record, error) {
	query := selectRecord + `
		 ORDER BY position
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.Record, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Record, error) {
	query := selectRecord + `
		 WHERE id = $1
		 `

	rec, err := scanRecord(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return rec, nil
}

func (r *PostgresRepository) Create(ctx context.Context, rec *models.Record) (*models.Record, error) {
	attrs, err := rec.AttrsJSON()
	if err != nil {
		return nil, err
	}

	query :=
		`INSERT INTO records (id, name, gender, request_date, country, country_id, attrs)
		 VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), $5, NULLIF($6, ''), $7)
		 `

	_, err = r.db.ExecContext(ctx, query,
		rec.ID, rec.Name, rec.Gender, rec.RequestDate, rec.Country, rec.CountryID, attrs)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return rec, nil
}

// Update overwrites every stored field of rec.ID. It returns
// common.ErrorNotFound when no such record exists.
func (r *PostgresRepository) Update(ctx context.Context, rec *models.Record) error {
	attrs, err := rec.AttrsJSON()
	if err != nil {
		return err
	}

	query :=
		`UPDATE records
		 SET name = $2, gender = NULLIF($3, ''), request_date = NULLIF($4, ''),
		     country = $5, country_id = NULLIF($6, ''), attrs = $7, updated_at = now()
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query,
		rec.ID, rec.Name, rec.Gender, rec.RequestDate, rec.Country, rec.CountryID, attrs)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}

	return nil
}

// RenameCountry rewrites the denormalized country name of every record
// pointing at countryID and returns how many rows changed.
func (r *PostgresRepository) RenameCountry(ctx context.Context, countryID, name string) (int64, error) {
	query :=
		`UPDATE records SET country = $2, updated_at = now()
		 WHERE country_id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, countryID, name)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM records`).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}
