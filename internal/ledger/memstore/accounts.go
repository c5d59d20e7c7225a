package memstore

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/homeledger/internal/ledger"
)

func (t *tx) GetAccount(_ context.Context, id uuid.UUID) (ledger.Account, error) {
	a, ok := t.data.accounts[id]
	if !ok {
		return ledger.Account{}, fmt.Errorf("account %s: %w", id, ledger.ErrNotFound)
	}

	return a, nil
}

func (t *tx) ListAccounts(_ context.Context) ([]ledger.Account, error) {
	accounts := slices.Collect(maps.Values(t.data.accounts))
	ledger.SortAccounts(accounts)

	return accounts, nil
}

func (t *tx) checkAccountRefs(a ledger.Account) error {
	if _, ok := t.data.categories[a.CategoryID]; !ok {
		return fmt.Errorf("category %s: %w", a.CategoryID, ledger.ErrNotFound)
	}

	if a.CurrencyID.Valid {
		if _, ok := t.data.currencies[a.CurrencyID.UUID]; !ok {
			return fmt.Errorf("currency %s: %w", a.CurrencyID.UUID, ledger.ErrNotFound)
		}
	}

	return nil
}

func (t *tx) InsertAccount(_ context.Context, a ledger.Account) error {
	if err := t.writable(); err != nil {
		return err
	}

	if _, exists := t.data.accounts[a.ID]; exists {
		return fmt.Errorf("inserting account %s: duplicate id", a.ID)
	}

	if err := t.checkAccountRefs(a); err != nil {
		return fmt.Errorf("inserting account: %w", err)
	}

	t.data.accounts[a.ID] = a

	return nil
}

func (t *tx) UpdateAccount(_ context.Context, a ledger.Account) error {
	if err := t.writable(); err != nil {
		return err
	}

	if _, exists := t.data.accounts[a.ID]; !exists {
		return fmt.Errorf("updating account %s: %w", a.ID, ledger.ErrNotFound)
	}

	if err := t.checkAccountRefs(a); err != nil {
		return fmt.Errorf("updating account: %w", err)
	}

	t.data.accounts[a.ID] = a

	return nil
}

func (t *tx) DeleteAccount(_ context.Context, id uuid.UUID) error {
	if err := t.writable(); err != nil {
		return err
	}

	if _, exists := t.data.accounts[id]; !exists {
		return fmt.Errorf("deleting account %s: %w", id, ledger.ErrNotFound)
	}

	for _, tr := range t.data.transactions {
		if tr.Touches(id) {
			return fmt.Errorf("deleting account %s: %w", id, ledger.ErrInUse)
		}
	}

	delete(t.data.accounts, id)

	return nil
}
