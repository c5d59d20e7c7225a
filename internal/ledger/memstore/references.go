package memstore

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/homeledger/internal/ledger"
)

func (t *tx) GetCategory(_ context.Context, id uuid.UUID) (ledger.Category, error) {
	c, ok := t.data.categories[id]
	if !ok {
		return ledger.Category{}, fmt.Errorf("category %s: %w", id, ledger.ErrNotFound)
	}

	return c, nil
}

func (t *tx) ListCategories(_ context.Context) ([]ledger.Category, error) {
	categories := slices.Collect(maps.Values(t.data.categories))
	ledger.SortCategories(categories)

	return categories, nil
}

func (t *tx) InsertCategory(_ context.Context, c ledger.Category) error {
	if err := t.writable(); err != nil {
		return err
	}

	if _, exists := t.data.categories[c.ID]; exists {
		return fmt.Errorf("inserting category %s: duplicate id", c.ID)
	}

	t.data.categories[c.ID] = c

	return nil
}

func (t *tx) UpdateCategory(_ context.Context, c ledger.Category) error {
	if err := t.writable(); err != nil {
		return err
	}

	if _, exists := t.data.categories[c.ID]; !exists {
		return fmt.Errorf("updating category %s: %w", c.ID, ledger.ErrNotFound)
	}

	t.data.categories[c.ID] = c

	return nil
}

func (t *tx) DeleteCategory(_ context.Context, id uuid.UUID) error {
	if err := t.writable(); err != nil {
		return err
	}

	if _, exists := t.data.categories[id]; !exists {
		return fmt.Errorf("deleting category %s: %w", id, ledger.ErrNotFound)
	}

	for _, a := range t.data.accounts {
		if a.CategoryID == id {
			return fmt.Errorf("deleting category %s: %w", id, ledger.ErrInUse)
		}
	}

	for _, tr := range t.data.transactions {
		if tr.Debit.CategoryID == id || tr.Credit.CategoryID == id {
			return fmt.Errorf("deleting category %s: %w", id, ledger.ErrInUse)
		}
	}

	delete(t.data.categories, id)

	return nil
}

func (t *tx) GetCurrency(_ context.Context, id uuid.UUID) (ledger.Currency, error) {
	c, ok := t.data.currencies[id]
	if !ok {
		return ledger.Currency{}, fmt.Errorf("currency %s: %w", id, ledger.ErrNotFound)
	}

	return c, nil
}

func (t *tx) ListCurrencies(_ context.Context) ([]ledger.Currency, error) {
	currencies := slices.Collect(maps.Values(t.data.currencies))
	ledger.SortCurrencies(currencies)

	return currencies, nil
}

func (t *tx) InsertCurrency(_ context.Context, c ledger.Currency) error {
	if err := t.writable(); err != nil {
		return err
	}

	if _, exists := t.data.currencies[c.ID]; exists {
		return fmt.Errorf("inserting currency %s: duplicate id", c.ID)
	}

	t.data.currencies[c.ID] = c

	return nil
}

func (t *tx) UpdateCurrency(_ context.Context, c ledger.Currency) error {
	if err := t.writable(); err != nil {
		return err
	}

	if _, exists := t.data.currencies[c.ID]; !exists {
		return fmt.Errorf("updating currency %s: %w", c.ID, ledger.ErrNotFound)
	}

	t.data.currencies[c.ID] = c

	return nil
}

func (t *tx) DeleteCurrency(_ context.Context, id uuid.UUID) error {
	if err := t.writable(); err != nil {
		return err
	}

	if _, exists := t.data.currencies[id]; !exists {
		return fmt.Errorf("deleting currency %s: %w", id, ledger.ErrNotFound)
	}

	for _, a := range t.data.accounts {
		if a.CurrencyID.Valid && a.CurrencyID.UUID == id {
			return fmt.Errorf("deleting currency %s: %w", id, ledger.ErrInUse)
		}
	}

	delete(t.data.currencies, id)

	return nil
}

func (t *tx) GetContact(_ context.Context, id uuid.UUID) (ledger.Contact, error) {
	c, ok := t.data.contacts[id]
	if !ok {
		return ledger.Contact{}, fmt.Errorf("contact %s: %w", id, ledger.ErrNotFound)
	}

	return c, nil
}

func (t *tx) ListContacts(_ context.Context) ([]ledger.Contact, error) {
	contacts := slices.Collect(maps.Values(t.data.contacts))
	ledger.SortContacts(contacts)

	return contacts, nil
}

func (t *tx) InsertContact(_ context.Context, c ledger.Contact) error {
	if err := t.writable(); err != nil {
		return err
	}

	if _, exists := t.data.contacts[c.ID]; exists {
		return fmt.Errorf("inserting contact %s: duplicate id", c.ID)
	}

	t.data.contacts[c.ID] = c

	return nil
}

func (t *tx) UpdateContact(_ context.Context, c ledger.Contact) error {
	if err := t.writable(); err != nil {
		return err
	}

	if _, exists := t.data.contacts[c.ID]; !exists {
		return fmt.Errorf("updating contact %s: %w", c.ID, ledger.ErrNotFound)
	}

	t.data.contacts[c.ID] = c

	return nil
}

func (t *tx) DeleteContact(_ context.Context, id uuid.UUID) error {
	if err := t.writable(); err != nil {
		return err
	}

	if _, exists := t.data.contacts[id]; !exists {
		return fmt.Errorf("deleting contact %s: %w", id, ledger.ErrNotFound)
	}

	for _, tr := range t.data.transactions {
		if tr.ContactID.Valid && tr.ContactID.UUID == id {
			return fmt.Errorf("deleting contact %s: %w", id, ledger.ErrInUse)
		}
	}

	delete(t.data.contacts, id)

	return nil
}
