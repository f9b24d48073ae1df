package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// SQLSTATE codes translated into repository errors.
const (
	foreignKeyViolation  = "23503"
	uniqueViolation      = "23505"
	stringDataTruncation = "22001"
	numericOutOfRange    = "22003"
)

// PostgresStore implements Store on top of sqlx and lib/pq.
type PostgresStore struct {
	*pgQueries
	db *sqlx.DB
}

// pgQueries runs statements against either the pool or an open transaction.
type pgQueries struct {
	ext sqlx.ExtContext
}

// NewPostgresStore creates a new PostgresStore.
func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{pgQueries: &pgQueries{ext: db}, db: db}
}

// InTx runs fn inside a database transaction.
func (s *PostgresStore) InTx(ctx context.Context, fn func(q Queries) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&pgQueries{ext: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Ping checks the database connection.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// get loads a single row, normalising the not-found case to sql.ErrNoRows.
func (q *pgQueries) get(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	if err := sqlx.GetContext(ctx, q.ext, dest, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return sql.ErrNoRows
		}
		return err
	}
	return nil
}

func (q *pgQueries) insert(ctx context.Context, query string, args []interface{}, dest ...interface{}) error {
	if len(dest) == 0 {
		_, err := q.ext.ExecContext(ctx, query, args...)
		return translate(err)
	}
	return translate(q.ext.QueryRowxContext(ctx, query, args...).Scan(dest...))
}

func translate(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}
	switch pqErr.Code {
	case uniqueViolation:
		return fmt.Errorf("%w: %s", ErrDuplicate, pqErr.Constraint)
	case foreignKeyViolation:
		return fmt.Errorf("%w: %s", ErrInvalidReference, pqErr.Constraint)
	case stringDataTruncation, numericOutOfRange:
		return fmt.Errorf("%w: %s", ErrInvalidValue, pqErr.Message)
	}
	return err
}

func (q *pgQueries) selectRows(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	return sqlx.SelectContext(ctx, q.ext, dest, query, args...)
}
