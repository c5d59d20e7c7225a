package posting

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/homeledger/internal/ledger"
)

func (s *Service) CreateCategory(ctx context.Context, p ledger.CategoryParams) (ledger.Category, error) {
	c, err := ledger.NewCategory(p)
	if err != nil {
		return ledger.Category{}, err
	}

	err = s.run(ctx, "creating category", func(u *unit) error {
		if err := u.tx.InsertCategory(u.ctx, c); err != nil {
			return fmt.Errorf("inserting category: %w", err)
		}

		u.categories[c.ID] = c

		return nil
	})
	if err != nil {
		return ledger.Category{}, err
	}

	return c, nil
}

// UpdateCategory changes the category itself. Legs that recorded it keep
// their snapshot of the old type.
func (s *Service) UpdateCategory(ctx context.Context, id uuid.UUID, p ledger.CategoryParams) (ledger.Category, error) {
	if _, err := ledger.NewCategory(p); err != nil {
		return ledger.Category{}, err
	}

	var updated ledger.Category

	err := s.run(ctx, "updating category", func(u *unit) error {
		old, err := u.tx.GetCategory(u.ctx, id)
		if err != nil {
			return err
		}

		updated, err = old.Revise(p)
		if err != nil {
			return err
		}

		if err := u.tx.UpdateCategory(u.ctx, updated); err != nil {
			return fmt.Errorf("updating category: %w", err)
		}

		u.categories[id] = updated

		return nil
	})
	if err != nil {
		return ledger.Category{}, err
	}

	return updated, nil
}

func (s *Service) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return s.run(ctx, "deleting category", func(u *unit) error {
		if err := u.tx.DeleteCategory(u.ctx, id); err != nil {
			return fmt.Errorf("deleting category: %w", err)
		}

		u.deletedCategories = append(u.deletedCategories, id)

		return nil
	})
}

// CreateCurrency stores a currency. A new default currency takes the flag
// away from the previous one.
func (s *Service) CreateCurrency(ctx context.Context, p ledger.CurrencyParams) (ledger.Currency, error) {
	c, err := ledger.NewCurrency(p)
	if err != nil {
		return ledger.Currency{}, err
	}

	err = s.run(ctx, "creating currency", func(u *unit) error {
		if c.Default {
			if err := u.clearDefaultCurrency(c.ID); err != nil {
				return err
			}
		}

		if err := u.tx.InsertCurrency(u.ctx, c); err != nil {
			return fmt.Errorf("inserting currency: %w", err)
		}

		u.currencies[c.ID] = c

		return nil
	})
	if err != nil {
		return ledger.Currency{}, err
	}

	return c, nil
}

// UpdateCurrency changes formatting or rates. Existing transactions keep the
// rate they were recorded with.
func (s *Service) UpdateCurrency(ctx context.Context, id uuid.UUID, p ledger.CurrencyParams) (ledger.Currency, error) {
	if _, err := ledger.NewCurrency(p); err != nil {
		return ledger.Currency{}, err
	}

	var updated ledger.Currency

	err := s.run(ctx, "updating currency", func(u *unit) error {
		old, err := u.tx.GetCurrency(u.ctx, id)
		if err != nil {
			return err
		}

		updated, err = old.Revise(p)
		if err != nil {
			return err
		}

		if updated.Default && !old.Default {
			if err := u.clearDefaultCurrency(id); err != nil {
				return err
			}
		}

		if err := u.tx.UpdateCurrency(u.ctx, updated); err != nil {
			return fmt.Errorf("updating currency: %w", err)
		}

		u.currencies[id] = updated

		return nil
	})
	if err != nil {
		return ledger.Currency{}, err
	}

	return updated, nil
}

func (u *unit) clearDefaultCurrency(except uuid.UUID) error {
	currencies, err := u.tx.ListCurrencies(u.ctx)
	if err != nil {
		return fmt.Errorf("listing currencies: %w", err)
	}

	for _, c := range currencies {
		if !c.Default || c.ID == except {
			continue
		}

		c.Default = false

		if err := u.tx.UpdateCurrency(u.ctx, c); err != nil {
			return fmt.Errorf("clearing default currency: %w", err)
		}

		u.currencies[c.ID] = c
	}

	return nil
}

func (s *Service) DeleteCurrency(ctx context.Context, id uuid.UUID) error {
	return s.run(ctx, "deleting currency", func(u *unit) error {
		if err := u.tx.DeleteCurrency(u.ctx, id); err != nil {
			return fmt.Errorf("deleting currency: %w", err)
		}

		u.deletedCurrencies = append(u.deletedCurrencies, id)

		return nil
	})
}

func (s *Service) CreateContact(ctx context.Context, p ledger.ContactParams) (ledger.Contact, error) {
	c, err := ledger.NewContact(p)
	if err != nil {
		return ledger.Contact{}, err
	}

	err = s.run(ctx, "creating contact", func(u *unit) error {
		if err := u.tx.InsertContact(u.ctx, c); err != nil {
			return fmt.Errorf("inserting contact: %w", err)
		}

		u.contacts[c.ID] = c

		return nil
	})
	if err != nil {
		return ledger.Contact{}, err
	}

	return c, nil
}

func (s *Service) UpdateContact(ctx context.Context, id uuid.UUID, p ledger.ContactParams) (ledger.Contact, error) {
	if _, err := ledger.NewContact(p); err != nil {
		return ledger.Contact{}, err
	}

	var updated ledger.Contact

	err := s.run(ctx, "updating contact", func(u *unit) error {
		old, err := u.tx.GetContact(u.ctx, id)
		if err != nil {
			return err
		}

		updated, err = old.Revise(p)
		if err != nil {
			return err
		}

		if err := u.tx.UpdateContact(u.ctx, updated); err != nil {
			return fmt.Errorf("updating contact: %w", err)
		}

		u.contacts[id] = updated

		return nil
	})
	if err != nil {
		return ledger.Contact{}, err
	}

	return updated, nil
}

func (s *Service) DeleteContact(ctx context.Context, id uuid.UUID) error {
	return s.run(ctx, "deleting contact", func(u *unit) error {
		if err := u.tx.DeleteContact(u.ctx, id); err != nil {
			return fmt.Errorf("deleting contact: %w", err)
		}

		u.deletedContacts = append(u.deletedContacts, id)

		return nil
	})
}
