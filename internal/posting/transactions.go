package posting

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/homeledger/internal/ledger"
)

func (s *Service) InsertTransaction(ctx context.Context, p ledger.TransactionParams) (ledger.Transaction, error) {
	txs, err := s.InsertTransactions(ctx, []ledger.TransactionParams{p})
	if err != nil {
		return ledger.Transaction{}, err
	}

	return txs[0], nil
}

// InsertTransactions records every transaction in one unit. A split line may
// reference a parent inserted earlier in the same batch.
func (s *Service) InsertTransactions(ctx context.Context, params []ledger.TransactionParams) ([]ledger.Transaction, error) {
	for i, p := range params {
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("transaction %d: %w", i, err)
		}
	}

	created := make([]ledger.Transaction, 0, len(params))

	err := s.run(ctx, "inserting transactions", func(u *unit) error {
		ids := make([]uuid.UUID, 0, 2*len(params))
		for _, p := range params {
			ids = append(ids, p.DebitAccountID, p.CreditAccountID)
		}

		if err := u.lock(ids); err != nil {
			return err
		}

		for _, p := range params {
			t, err := u.build(p, nil)
			if err != nil {
				return err
			}

			if err := u.tx.InsertTransaction(u.ctx, t); err != nil {
				return fmt.Errorf("inserting transaction: %w", err)
			}

			u.transactions[t.ID] = t
			created = append(created, t)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

// build validates p against the stored accounts and returns the new row, or
// the revision of old when old is not nil.
func (u *unit) build(p ledger.TransactionParams, old *ledger.Transaction) (ledger.Transaction, error) {
	debit, err := u.endpoint(p.DebitAccountID)
	if err != nil {
		return ledger.Transaction{}, fmt.Errorf("debited account: %w", err)
	}

	credit, err := u.endpoint(p.CreditAccountID)
	if err != nil {
		return ledger.Transaction{}, fmt.Errorf("credited account: %w", err)
	}

	if err := u.deriveRate(&p, debit, credit); err != nil {
		return ledger.Transaction{}, err
	}

	if p.ParentID.Valid {
		if err := u.checkParent(p.ParentID.UUID); err != nil {
			return ledger.Transaction{}, err
		}
	}

	if old == nil {
		return ledger.NewTransaction(p, debit, credit)
	}

	return old.Revise(p, debit, credit)
}

// checkParent makes sure split lines hang off a top-level transaction.
func (u *unit) checkParent(parentID uuid.UUID) error {
	parent, ok := u.transactions[parentID]
	if !ok {
		var err error

		parent, err = u.tx.GetTransaction(u.ctx, parentID)
		if err != nil {
			return fmt.Errorf("parent transaction: %w", err)
		}
	}

	if parent.IsSplit() {
		return &ledger.ValidationError{Field: "parent", Reason: "a split line cannot have split lines of its own"}
	}

	return nil
}

func (s *Service) UpdateTransaction(ctx context.Context, p ledger.TransactionParams) (ledger.Transaction, error) {
	txs, err := s.UpdateTransactions(ctx, []ledger.TransactionParams{p})
	if err != nil {
		return ledger.Transaction{}, err
	}

	return txs[0], nil
}

// UpdateTransactions replaces the transactions identified by each p.ID. Both
// the accounts they left and the accounts they moved to are recomputed.
func (s *Service) UpdateTransactions(ctx context.Context, params []ledger.TransactionParams) ([]ledger.Transaction, error) {
	for i, p := range params {
		if p.ID == uuid.Nil {
			return nil, fmt.Errorf("transaction %d: %w", i, &ledger.ValidationError{Field: "id", Reason: "is required"})
		}

		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("transaction %d: %w", i, err)
		}
	}

	updated := make([]ledger.Transaction, 0, len(params))

	err := s.run(ctx, "updating transactions", func(u *unit) error {
		olds := make([]ledger.Transaction, len(params))
		ids := make([]uuid.UUID, 0, 4*len(params))

		for i, p := range params {
			old, err := u.tx.GetTransaction(u.ctx, p.ID)
			if err != nil {
				return err
			}

			olds[i] = old
			ids = append(ids, old.Debit.AccountID, old.Credit.AccountID, p.DebitAccountID, p.CreditAccountID)
		}

		if err := u.lock(ids); err != nil {
			return err
		}

		for i, p := range params {
			if p.ParentID.Valid && !olds[i].IsSplit() {
				children, err := u.tx.ChildTransactions(u.ctx, p.ID)
				if err != nil {
					return fmt.Errorf("reading split lines: %w", err)
				}

				if len(children) > 0 {
					return &ledger.ValidationError{Field: "parent", Reason: "a transaction with split lines cannot become a split line"}
				}
			}

			t, err := u.build(p, &olds[i])
			if err != nil {
				return err
			}

			if err := u.tx.UpdateTransaction(u.ctx, t); err != nil {
				return fmt.Errorf("updating transaction: %w", err)
			}

			u.transactions[t.ID] = t
			updated = append(updated, t)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

func (s *Service) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	return s.DeleteTransactions(ctx, []uuid.UUID{id})
}

// DeleteTransactions removes the transactions and, with them, the split lines
// of any parent among them.
func (s *Service) DeleteTransactions(ctx context.Context, ids []uuid.UUID) error {
	return s.run(ctx, "deleting transactions", func(u *unit) error {
		var doomed []ledger.Transaction

		seen := make(map[uuid.UUID]bool)

		for _, id := range ledger.SortIDs(ids) {
			if seen[id] {
				continue
			}

			t, err := u.tx.GetTransaction(u.ctx, id)
			if err != nil {
				return err
			}

			seen[id] = true
			doomed = append(doomed, t)

			children, err := u.tx.ChildTransactions(u.ctx, id)
			if err != nil {
				return fmt.Errorf("reading split lines: %w", err)
			}

			for _, c := range children {
				if !seen[c.ID] {
					seen[c.ID] = true
					doomed = append(doomed, c)
				}
			}
		}

		if err := u.lock(ledger.AccountIDs(doomed...)); err != nil {
			return err
		}

		// Split lines first: their parents are still referenced until then.
		for _, splits := range []bool{true, false} {
			for _, t := range doomed {
				if t.IsSplit() != splits {
					continue
				}

				if err := u.tx.DeleteTransaction(u.ctx, t.ID); err != nil {
					return fmt.Errorf("deleting transaction: %w", err)
				}

				u.deletedTransactions = append(u.deletedTransactions, t.ID)
			}
		}

		return nil
	})
}

// SetConfirmed sets the confirmed flag of every listed transaction. Rows that
// already carry the flag are left alone.
func (s *Service) SetConfirmed(ctx context.Context, ids []uuid.UUID, checked bool) error {
	return s.run(ctx, "confirming transactions", func(u *unit) error {
		var changed []ledger.Transaction

		for _, id := range ledger.SortIDs(ids) {
			t, err := u.tx.GetTransaction(u.ctx, id)
			if err != nil {
				return err
			}

			if t.Checked != checked {
				changed = append(changed, t.WithChecked(checked))
			}
		}

		return u.rewrite(changed)
	})
}

// ToggleConfirmed flips the confirmed flag of one transaction.
func (s *Service) ToggleConfirmed(ctx context.Context, id uuid.UUID) (ledger.Transaction, error) {
	var toggled ledger.Transaction

	err := s.run(ctx, "toggling confirmation", func(u *unit) error {
		t, err := u.tx.GetTransaction(u.ctx, id)
		if err != nil {
			return err
		}

		toggled = t.WithChecked(!t.Checked)

		return u.rewrite([]ledger.Transaction{toggled})
	})
	if err != nil {
		return ledger.Transaction{}, err
	}

	return toggled, nil
}

// rewrite stores txs whose accounts did not change.
func (u *unit) rewrite(txs []ledger.Transaction) error {
	if err := u.lock(ledger.AccountIDs(txs...)); err != nil {
		return err
	}

	for _, t := range txs {
		if err := u.tx.UpdateTransaction(u.ctx, t); err != nil {
			return fmt.Errorf("updating transaction: %w", err)
		}

		u.transactions[t.ID] = t
	}

	return nil
}
