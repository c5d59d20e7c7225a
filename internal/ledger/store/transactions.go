package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/homeledger/internal/ledger"
)

// Expected column order: id, amount, credit_amount, rate, date, type, debit_account_id, debit_category_id,
// debit_category_type, credit_account_id, credit_category_id, credit_category_type, contact_id,
// parent_id, checked, comment, created_at, modified_at
const selectTransactionColumns = `
	id, amount, credit_amount, rate, date, type, debit_account_id, debit_category_id,
	debit_category_type, credit_account_id, credit_category_id, credit_category_type, contact_id,
	parent_id, checked, comment, created_at, modified_at
`

const transactionOrder = ` ORDER BY date, created_at, id`

func scanTransaction(s scanner) (ledger.Transaction, error) {
	var tr ledger.Transaction

	var typeStr, debitType, creditType string

	if err := s.Scan(
		&tr.ID, &tr.Amount, &tr.CreditAmount, &tr.Rate, &tr.Date, &typeStr,
		&tr.Debit.AccountID, &tr.Debit.CategoryID, &debitType,
		&tr.Credit.AccountID, &tr.Credit.CategoryID, &creditType,
		&tr.ContactID, &tr.ParentID, &tr.Checked, &tr.Comment, &tr.CreatedAt, &tr.ModifiedAt,
	); err != nil {
		return ledger.Transaction{}, err
	}

	tr.Type = ledger.TransactionType(typeStr)
	tr.Debit.CategoryType = ledger.CategoryType(debitType)
	tr.Credit.CategoryType = ledger.CategoryType(creditType)
	tr.Date = tr.Date.UTC()
	tr.CreatedAt = tr.CreatedAt.UTC()
	tr.ModifiedAt = tr.ModifiedAt.UTC()

	return tr, nil
}

func (t *tx) queryTransactions(ctx context.Context, op, query string, args ...any) ([]ledger.Transaction, error) {
	rows, err := t.tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var txs []ledger.Transaction

	for rows.Next() {
		tr, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}

		txs = append(txs, tr)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transactions: %w", err)
	}

	return txs, nil
}

func (t *tx) GetTransaction(ctx context.Context, id uuid.UUID) (ledger.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + ` FROM transactions WHERE id = $1` + t.forUpdate()

	tr, err := scanTransaction(t.tx.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ledger.Transaction{}, fmt.Errorf("transaction %s: %w", id, ledger.ErrNotFound)
		}

		return ledger.Transaction{}, fmt.Errorf("getting transaction: %w", err)
	}

	return tr, nil
}

func (t *tx) ListTransactions(ctx context.Context) ([]ledger.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + ` FROM transactions` + transactionOrder

	return t.queryTransactions(ctx, "listing transactions", query)
}

func (t *tx) TransactionsByAccount(ctx context.Context, accountID uuid.UUID) ([]ledger.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + `
		FROM transactions
		WHERE debit_account_id = $1 OR credit_account_id = $1` + transactionOrder

	return t.queryTransactions(ctx, "listing account transactions", query, accountID)
}

func (t *tx) ChildTransactions(ctx context.Context, parentID uuid.UUID) ([]ledger.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + `
		FROM transactions
		WHERE parent_id = $1` + transactionOrder + t.forUpdate()

	return t.queryTransactions(ctx, "listing split lines", query, parentID)
}

func (t *tx) InsertTransaction(ctx context.Context, tr ledger.Transaction) error {
	query := `
		INSERT INTO transactions (` + selectTransactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`

	_, err := t.tx.ExecContext(ctx, query,
		tr.ID, tr.Amount, tr.CreditAmount, tr.Rate, tr.Date, tr.Type,
		tr.Debit.AccountID, tr.Debit.CategoryID, tr.Debit.CategoryType,
		tr.Credit.AccountID, tr.Credit.CategoryID, tr.Credit.CategoryType,
		tr.ContactID, tr.ParentID, tr.Checked, tr.Comment, tr.CreatedAt, tr.ModifiedAt,
	)
	if err != nil {
		return writeErr("inserting transaction", err)
	}

	return nil
}

func (t *tx) UpdateTransaction(ctx context.Context, tr ledger.Transaction) error {
	query := `
		UPDATE transactions
		SET amount = $2, credit_amount = $3, rate = $4, date = $5, type = $6,
			debit_account_id = $7, debit_category_id = $8, debit_category_type = $9,
			credit_account_id = $10, credit_category_id = $11, credit_category_type = $12,
			contact_id = $13, parent_id = $14, checked = $15, comment = $16, modified_at = $17
		WHERE id = $1
	`

	return t.exec(ctx, "updating transaction", writeErr, query,
		tr.ID, tr.Amount, tr.CreditAmount, tr.Rate, tr.Date, tr.Type,
		tr.Debit.AccountID, tr.Debit.CategoryID, tr.Debit.CategoryType,
		tr.Credit.AccountID, tr.Credit.CategoryID, tr.Credit.CategoryType,
		tr.ContactID, tr.ParentID, tr.Checked, tr.Comment, tr.ModifiedAt,
	)
}

func (t *tx) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	return t.exec(ctx, "deleting transaction", deleteErr, `DELETE FROM transactions WHERE id = $1`, id)
}
