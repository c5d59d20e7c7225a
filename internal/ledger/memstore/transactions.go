package memstore

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/homeledger/internal/ledger"
)

func (t *tx) GetTransaction(_ context.Context, id uuid.UUID) (ledger.Transaction, error) {
	tr, ok := t.data.transactions[id]
	if !ok {
		return ledger.Transaction{}, fmt.Errorf("transaction %s: %w", id, ledger.ErrNotFound)
	}

	return tr, nil
}

func (t *tx) ListTransactions(_ context.Context) ([]ledger.Transaction, error) {
	txs := slices.Collect(maps.Values(t.data.transactions))
	ledger.SortTransactions(txs)

	return txs, nil
}

func (t *tx) TransactionsByAccount(_ context.Context, accountID uuid.UUID) ([]ledger.Transaction, error) {
	return t.filter(func(tr ledger.Transaction) bool { return tr.Touches(accountID) }), nil
}

func (t *tx) ChildTransactions(_ context.Context, parentID uuid.UUID) ([]ledger.Transaction, error) {
	return t.filter(func(tr ledger.Transaction) bool {
		return tr.ParentID.Valid && tr.ParentID.UUID == parentID
	}), nil
}

func (t *tx) filter(keep func(ledger.Transaction) bool) []ledger.Transaction {
	var txs []ledger.Transaction

	for _, tr := range t.data.transactions {
		if keep(tr) {
			txs = append(txs, tr)
		}
	}

	ledger.SortTransactions(txs)

	return txs
}

func (t *tx) checkTransactionRefs(tr ledger.Transaction) error {
	for _, id := range []uuid.UUID{tr.Debit.AccountID, tr.Credit.AccountID} {
		if _, ok := t.data.accounts[id]; !ok {
			return fmt.Errorf("account %s: %w", id, ledger.ErrNotFound)
		}
	}

	for _, id := range []uuid.UUID{tr.Debit.CategoryID, tr.Credit.CategoryID} {
		if _, ok := t.data.categories[id]; !ok {
			return fmt.Errorf("category %s: %w", id, ledger.ErrNotFound)
		}
	}

	if tr.ContactID.Valid {
		if _, ok := t.data.contacts[tr.ContactID.UUID]; !ok {
			return fmt.Errorf("contact %s: %w", tr.ContactID.UUID, ledger.ErrNotFound)
		}
	}

	if tr.ParentID.Valid {
		if _, ok := t.data.transactions[tr.ParentID.UUID]; !ok {
			return fmt.Errorf("parent transaction %s: %w", tr.ParentID.UUID, ledger.ErrNotFound)
		}
	}

	return nil
}

func (t *tx) InsertTransaction(_ context.Context, tr ledger.Transaction) error {
	if err := t.writable(); err != nil {
		return err
	}

	if _, exists := t.data.transactions[tr.ID]; exists {
		return fmt.Errorf("inserting transaction %s: duplicate id", tr.ID)
	}

	if err := t.checkTransactionRefs(tr); err != nil {
		return fmt.Errorf("inserting transaction: %w", err)
	}

	t.data.transactions[tr.ID] = tr

	return nil
}

func (t *tx) UpdateTransaction(_ context.Context, tr ledger.Transaction) error {
	if err := t.writable(); err != nil {
		return err
	}

	if _, exists := t.data.transactions[tr.ID]; !exists {
		return fmt.Errorf("updating transaction %s: %w", tr.ID, ledger.ErrNotFound)
	}

	if err := t.checkTransactionRefs(tr); err != nil {
		return fmt.Errorf("updating transaction: %w", err)
	}

	t.data.transactions[tr.ID] = tr

	return nil
}

func (t *tx) DeleteTransaction(_ context.Context, id uuid.UUID) error {
	if err := t.writable(); err != nil {
		return err
	}

	if _, exists := t.data.transactions[id]; !exists {
		return fmt.Errorf("deleting transaction %s: %w", id, ledger.ErrNotFound)
	}

	for _, tr := range t.data.transactions {
		if tr.ParentID.Valid && tr.ParentID.UUID == id {
			return fmt.Errorf("deleting transaction %s: %w", id, ledger.ErrInUse)
		}
	}

	delete(t.data.transactions, id)

	return nil
}
