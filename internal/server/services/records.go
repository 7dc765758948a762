// Package services contains the record-store business logic shared by the
// HTTP handlers: listing, canonical updates, and country renames that keep
// the denormalized record country in step.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/taxdesk/internal/common"
	"github.com/dmitrijs2005/taxdesk/internal/dbx"
	"github.com/dmitrijs2005/taxdesk/internal/logging"
	"github.com/dmitrijs2005/taxdesk/internal/server/models"
	"github.com/dmitrijs2005/taxdesk/internal/server/repositories/repomanager"
)

// RecordService serves records and countries from a RepositoryManager. db is
// nil for the in-memory store.
type RecordService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	log         logging.Logger
}

// NewRecordService constructs a RecordService.
func NewRecordService(db *sql.DB, m repomanager.RepositoryManager, log logging.Logger) *RecordService {
	return &RecordService{db: db, repomanager: m, log: log.With("module", "services")}
}

func (s *RecordService) conn() dbx.DBTX {
	if s.db == nil {
		return nil
	}
	return s.db
}

func (s *RecordService) withTx(ctx context.Context, fn func(ctx context.Context, tx dbx.DBTX) error) error {
	return dbx.WithTx(ctx, s.db, nil, fn)
}

// Ping checks the backing store.
func (s *RecordService) Ping(ctx context.Context) error {
	if s.db == nil {
		return nil
	}
	return s.db.PingContext(ctx)
}

func (s *RecordService) ListRecords(ctx context.Context) ([]models.Record, error) {
	recs, err := s.repomanager.Records(s.conn()).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing records: %w", err)
	}
	return recs, nil
}

func (s *RecordService) GetRecord(ctx context.Context, id string) (*models.Record, error) {
	rec, err := s.repomanager.Records(s.conn()).Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error reading record %s: %w", id, err)
	}
	return rec, nil
}

// UpdateRecord stores rec under id and returns the canonical row. When
// CountryID names a known country its current name replaces rec.Country.
func (s *RecordService) UpdateRecord(ctx context.Context, id string, rec models.Record) (*models.Record, error) {
	rec.ID = id

	var out *models.Record
	err := s.withTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		if rec.CountryID != "" {
			c, err := s.repomanager.Countries(tx).Get(ctx, rec.CountryID)
			switch {
			case err == nil:
				rec.Country = c.Name
			case errors.Is(err, common.ErrorNotFound):
				s.log.Warn(ctx, "record references unknown country", "record", id, "country_id", rec.CountryID)
			default:
				return err
			}
		}

		repo := s.repomanager.Records(tx)
		if err := repo.Update(ctx, &rec); err != nil {
			return err
		}
		var err error
		out, err = repo.Get(ctx, id)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("error updating record %s: %w", id, err)
	}

	s.log.Info(ctx, "record updated", "record", id)
	return out, nil
}

func (s *RecordService) ListCountries(ctx context.Context) ([]models.Country, error) {
	list, err := s.repomanager.Countries(s.conn()).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing countries: %w", err)
	}
	return list, nil
}

// RenameCountry renames id and rewrites the country name stored on every
// record that references it, in one transaction.
func (s *RecordService) RenameCountry(ctx context.Context, id, name string) (*models.Country, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name required", common.ErrorValidation)
	}

	var out *models.Country
	var touched int64
	err := s.withTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		c, err := s.repomanager.Countries(tx).Rename(ctx, id, name)
		if err != nil {
			return err
		}
		touched, err = s.repomanager.Records(tx).RenameCountry(ctx, id, name)
		if err != nil {
			return err
		}
		out = c
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error renaming country %s: %w", id, err)
	}

	s.log.Info(ctx, "country renamed", "country", id, "records", touched)
	return out, nil
}
