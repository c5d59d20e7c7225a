package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/homeledger/internal/ledger"
)

// Expected column order: id, name, comment, category_id, currency_id, opening_balance, credit_limit,
// interest, enabled, closed, total, total_waiting, created_at, modified_at
const selectAccountColumns = `
	id, name, comment, category_id, currency_id, opening_balance, credit_limit,
	interest, enabled, closed, total, total_waiting, created_at, modified_at
`

func scanAccount(s scanner) (ledger.Account, error) {
	var a ledger.Account

	var closed sql.NullTime

	if err := s.Scan(
		&a.ID, &a.Name, &a.Comment, &a.CategoryID, &a.CurrencyID, &a.OpeningBalance, &a.Limit,
		&a.Interest, &a.Enabled, &closed, &a.Total, &a.TotalWaiting, &a.CreatedAt, &a.ModifiedAt,
	); err != nil {
		return ledger.Account{}, err
	}

	if closed.Valid {
		a.Closed = closed.Time.UTC()
	}

	a.CreatedAt = a.CreatedAt.UTC()
	a.ModifiedAt = a.ModifiedAt.UTC()

	return a, nil
}

func (t *tx) GetAccount(ctx context.Context, id uuid.UUID) (ledger.Account, error) {
	query := `SELECT ` + selectAccountColumns + ` FROM accounts WHERE id = $1`

	a, err := scanAccount(t.tx.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ledger.Account{}, fmt.Errorf("account %s: %w", id, ledger.ErrNotFound)
		}

		return ledger.Account{}, fmt.Errorf("getting account: %w", err)
	}

	return a, nil
}

func (t *tx) ListAccounts(ctx context.Context) ([]ledger.Account, error) {
	query := `SELECT ` + selectAccountColumns + ` FROM accounts ORDER BY lower(name), id`

	rows, err := t.tx.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing accounts: %w", err)
	}
	defer rows.Close()

	var accounts []ledger.Account

	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning account: %w", err)
		}

		accounts = append(accounts, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating accounts: %w", err)
	}

	// lower() follows the database collation; keep the order identical to the cache.
	ledger.SortAccounts(accounts)

	return accounts, nil
}

func (t *tx) InsertAccount(ctx context.Context, a ledger.Account) error {
	query := `
		INSERT INTO accounts (` + selectAccountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := t.tx.ExecContext(ctx, query,
		a.ID, a.Name, a.Comment, a.CategoryID, a.CurrencyID, a.OpeningBalance, a.Limit,
		a.Interest, a.Enabled, nullDate(a.Closed), a.Total, a.TotalWaiting, a.CreatedAt, a.ModifiedAt,
	)
	if err != nil {
		return writeErr("inserting account", err)
	}

	return nil
}

func (t *tx) UpdateAccount(ctx context.Context, a ledger.Account) error {
	query := `
		UPDATE accounts
		SET name = $2, comment = $3, category_id = $4, currency_id = $5, opening_balance = $6,
			credit_limit = $7, interest = $8, enabled = $9, closed = $10, total = $11,
			total_waiting = $12, modified_at = $13
		WHERE id = $1
	`

	return t.exec(ctx, "updating account", writeErr, query,
		a.ID, a.Name, a.Comment, a.CategoryID, a.CurrencyID, a.OpeningBalance,
		a.Limit, a.Interest, a.Enabled, nullDate(a.Closed), a.Total,
		a.TotalWaiting, a.ModifiedAt,
	)
}

func (t *tx) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	return t.exec(ctx, "deleting account", deleteErr, `DELETE FROM accounts WHERE id = $1`, id)
}
