// Package store persists the ledger in PostgreSQL.
package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/MrJamesThe3rd/homeledger/internal/ledger"
)

//go:embed schema.sql
var schema string

const foreignKeyViolation = "23503"

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// EnsureSchema creates the ledger tables when they do not exist yet.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}

	return nil
}

func (s *Store) Begin(ctx context.Context) (ledger.Tx, error) {
	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}

	return &tx{tx: sqlTx, writable: true}, nil
}

func (s *Store) Snapshot(ctx context.Context) (ledger.Tx, error) {
	sqlTx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("beginning snapshot: %w", err)
	}

	return &tx{tx: sqlTx}, nil
}

type tx struct {
	tx       *sql.Tx
	writable bool
}

func (t *tx) Commit() error {
	if err := t.tx.Commit(); err != nil {
		return fmt.Errorf("committing: %w", err)
	}

	return nil
}

func (t *tx) Rollback() error {
	if err := t.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return fmt.Errorf("rolling back: %w", err)
	}

	return nil
}

// LockAccounts takes the locks one row at a time so the acquisition order is
// exactly the order of ids. NO KEY UPDATE still lets other units insert
// transactions that reference the rows through foreign keys.
func (t *tx) LockAccounts(ctx context.Context, ids []uuid.UUID) error {
	for _, id := range ids {
		var one int

		err := t.tx.QueryRowContext(ctx, `SELECT 1 FROM accounts WHERE id = $1 FOR NO KEY UPDATE`, id).Scan(&one)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("locking account %s: %w", id, ledger.ErrNotFound)
			}

			return fmt.Errorf("locking account %s: %w", id, err)
		}
	}

	return nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func (t *tx) forUpdate() string {
	if t.writable {
		return " FOR NO KEY UPDATE"
	}

	return ""
}

// writeErr maps constraint violations on insert and update to ledger errors.
func writeErr(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
		return fmt.Errorf("%s: %s: %w", op, pgErr.ConstraintName, ledger.ErrNotFound)
	}

	return fmt.Errorf("%s: %w", op, err)
}

// deleteErr maps a foreign key violation on delete to ErrInUse.
func deleteErr(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
		return fmt.Errorf("%s: %s: %w", op, pgErr.ConstraintName, ledger.ErrInUse)
	}

	return fmt.Errorf("%s: %w", op, err)
}

// exec runs a statement that must touch exactly one row.
func (t *tx) exec(ctx context.Context, op string, mapErr func(string, error) error, query string, args ...any) error {
	res, err := t.tx.ExecContext(ctx, query, args...)
	if err != nil {
		return mapErr(op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if n == 0 {
		return fmt.Errorf("%s: %w", op, ledger.ErrNotFound)
	}

	return nil
}

func nullDate(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}

	return sql.NullTime{Time: t, Valid: true}
}

var _ ledger.Store = (*Store)(nil)
