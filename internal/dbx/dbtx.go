// Package dbx holds the database handle shared by the record and country
// repositories and the transaction helper the record service uses for
// updates and country renames.
package dbx

import (
	"context"
	"database/sql"
)

// DBTX is what a repository needs from a connection: *sql.DB and *sql.Tx
// both satisfy it.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// WithTx runs fn inside a transaction on db. fn's error or panic rolls the
// transaction back (the panic is re-raised); otherwise it commits and the
// commit error is returned.
//
// A nil db means the repositories are in memory: fn runs once with a nil
// handle and no transaction.
//
//	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
//	    if _, err := countries.Rename(ctx, id, name); err != nil {
//	        return err
//	    }
//	    _, err := records.RenameCountry(ctx, id, name)
//	    return err
//	})
func WithTx(ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn func(ctx context.Context, tx DBTX) error) (err error) {
	if db == nil {
		return fn(ctx, nil)
	}

	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	return fn(ctx, tx)
}
