package posting

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/homeledger/internal/ledger"
)

// Batch is a full set of entities restored from a dump. Entities keep their
// ids, timestamps and leg snapshots; account totals are recomputed.
type Batch struct {
	Categories   []ledger.Category
	Currencies   []ledger.Currency
	Contacts     []ledger.Contact
	Accounts     []ledger.Account
	Transactions []ledger.Transaction
}

type ImportResult struct {
	Categories   int
	Currencies   int
	Contacts     int
	Accounts     int
	Transactions int
}

// Import stores every entity of b in one unit. Transactions may reference
// accounts already in the store as well as accounts in b.
func (s *Service) Import(ctx context.Context, b Batch) (ImportResult, error) {
	for _, t := range b.Transactions {
		if err := t.Params().Validate(); err != nil {
			return ImportResult{}, fmt.Errorf("transaction %s: %w", t.ID, err)
		}
	}

	err := s.run(ctx, "importing", func(u *unit) error {
		incoming := make(map[uuid.UUID]bool, len(b.Accounts))
		for _, a := range b.Accounts {
			incoming[a.ID] = true
		}

		var existing []uuid.UUID

		for _, id := range ledger.AccountIDs(b.Transactions...) {
			if !incoming[id] {
				existing = append(existing, id)
			}
		}

		if err := u.lock(existing); err != nil {
			return err
		}

		for _, c := range b.Categories {
			if err := u.tx.InsertCategory(u.ctx, c); err != nil {
				return fmt.Errorf("importing category %s: %w", c.ID, err)
			}

			u.categories[c.ID] = c
		}

		for _, c := range b.Currencies {
			if err := u.tx.InsertCurrency(u.ctx, c); err != nil {
				return fmt.Errorf("importing currency %s: %w", c.ID, err)
			}

			u.currencies[c.ID] = c
		}

		for _, c := range b.Contacts {
			if err := u.tx.InsertContact(u.ctx, c); err != nil {
				return fmt.Errorf("importing contact %s: %w", c.ID, err)
			}

			u.contacts[c.ID] = c
		}

		for _, a := range b.Accounts {
			a.Total = a.Initial()
			a.TotalWaiting = a.Initial()

			if err := u.tx.InsertAccount(u.ctx, a); err != nil {
				return fmt.Errorf("importing account %s: %w", a.ID, err)
			}

			u.accounts[a.ID] = a
			u.touch(a.ID)
		}

		// Parents before their split lines.
		for _, splits := range []bool{false, true} {
			for _, t := range b.Transactions {
				if t.IsSplit() != splits {
					continue
				}

				if err := u.restore(t); err != nil {
					return err
				}
			}
		}

		return nil
	})
	if err != nil {
		return ImportResult{}, err
	}

	return ImportResult{
		Categories:   len(b.Categories),
		Currencies:   len(b.Currencies),
		Contacts:     len(b.Contacts),
		Accounts:     len(b.Accounts),
		Transactions: len(b.Transactions),
	}, nil
}

// restore rebuilds t from its recorded legs so the amounts and the rate stay
// consistent with the accounts' currencies, then inserts it.
func (u *unit) restore(t ledger.Transaction) error {
	debit, err := u.recordedEndpoint(t.Debit)
	if err != nil {
		return fmt.Errorf("importing transaction %s: %w", t.ID, err)
	}

	credit, err := u.recordedEndpoint(t.Credit)
	if err != nil {
		return fmt.Errorf("importing transaction %s: %w", t.ID, err)
	}

	if t.ParentID.Valid {
		if err := u.checkParent(t.ParentID.UUID); err != nil {
			return fmt.Errorf("importing transaction %s: %w", t.ID, err)
		}
	}

	rebuilt, err := ledger.NewTransaction(t.Params(), debit, credit)
	if err != nil {
		return fmt.Errorf("importing transaction %s: %w", t.ID, err)
	}

	if err := u.tx.InsertTransaction(u.ctx, rebuilt); err != nil {
		return fmt.Errorf("importing transaction %s: %w", t.ID, err)
	}

	u.transactions[rebuilt.ID] = rebuilt

	return nil
}

func (u *unit) recordedEndpoint(leg ledger.Leg) (ledger.Endpoint, error) {
	a, err := u.tx.GetAccount(u.ctx, leg.AccountID)
	if err != nil {
		return ledger.Endpoint{}, err
	}

	return ledger.Endpoint{Leg: leg, CurrencyID: a.CurrencyID}, nil
}
