package posting

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/homeledger/internal/ledger"
)

func (u *unit) checkAccountRefs(a ledger.Account) error {
	if _, err := u.tx.GetCategory(u.ctx, a.CategoryID); err != nil {
		return fmt.Errorf("account category: %w", err)
	}

	if a.CurrencyID.Valid {
		if _, err := u.tx.GetCurrency(u.ctx, a.CurrencyID.UUID); err != nil {
			return fmt.Errorf("account currency: %w", err)
		}
	}

	return nil
}

// CreateAccount stores a new account. Its totals start at OpeningBalance + Limit.
func (s *Service) CreateAccount(ctx context.Context, p ledger.AccountParams) (ledger.Account, error) {
	a, err := ledger.NewAccount(p)
	if err != nil {
		return ledger.Account{}, err
	}

	var settled *unit

	err = s.run(ctx, "creating account", func(u *unit) error {
		settled = u

		if err := u.checkAccountRefs(a); err != nil {
			return err
		}

		if err := u.tx.InsertAccount(u.ctx, a); err != nil {
			return fmt.Errorf("inserting account: %w", err)
		}

		u.accounts[a.ID] = a
		u.touch(a.ID)

		return nil
	})
	if err != nil {
		return ledger.Account{}, err
	}

	return settled.accounts[a.ID], nil
}

// UpdateAccount applies p to the account and recomputes its totals, since the
// opening balance and the limit feed them.
func (s *Service) UpdateAccount(ctx context.Context, id uuid.UUID, p ledger.AccountParams) (ledger.Account, error) {
	p.ID = id
	if _, err := ledger.NewAccount(p); err != nil {
		return ledger.Account{}, err
	}

	var settled *unit

	err := s.run(ctx, "updating account", func(u *unit) error {
		settled = u

		if err := u.lock([]uuid.UUID{id}); err != nil {
			return err
		}

		old, err := u.tx.GetAccount(u.ctx, id)
		if err != nil {
			return err
		}

		next, err := old.Revise(p)
		if err != nil {
			return err
		}

		if err := u.checkAccountRefs(next); err != nil {
			return err
		}

		if err := u.tx.UpdateAccount(u.ctx, next); err != nil {
			return fmt.Errorf("updating account: %w", err)
		}

		u.accounts[id] = next

		return nil
	})
	if err != nil {
		return ledger.Account{}, err
	}

	return settled.accounts[id], nil
}

// DeleteAccount removes an account that no transaction references.
func (s *Service) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	return s.run(ctx, "deleting account", func(u *unit) error {
		if err := u.lock([]uuid.UUID{id}); err != nil {
			return err
		}

		txs, err := u.tx.TransactionsByAccount(u.ctx, id)
		if err != nil {
			return fmt.Errorf("reading account transactions: %w", err)
		}

		if len(txs) > 0 {
			return fmt.Errorf("account %s has %d transactions: %w", id, len(txs), ledger.ErrInUse)
		}

		if err := u.tx.DeleteAccount(u.ctx, id); err != nil {
			return fmt.Errorf("deleting account: %w", err)
		}

		u.deletedAccounts = append(u.deletedAccounts, id)

		return nil
	})
}

// RecomputeBalances rewrites the totals of the listed accounts from their
// transactions. It returns how many accounts had drifted.
func (s *Service) RecomputeBalances(ctx context.Context, ids []uuid.UUID) (int, error) {
	var settled *unit

	err := s.run(ctx, "recomputing balances", func(u *unit) error {
		settled = u
		return u.lock(ids)
	})
	if err != nil {
		return 0, err
	}

	return settled.corrected, nil
}

// RecomputeAll rewrites the totals of every account.
func (s *Service) RecomputeAll(ctx context.Context) (int, error) {
	var settled *unit

	err := s.run(ctx, "recomputing all balances", func(u *unit) error {
		settled = u

		accounts, err := u.tx.ListAccounts(u.ctx)
		if err != nil {
			return fmt.Errorf("listing accounts: %w", err)
		}

		ids := make([]uuid.UUID, 0, len(accounts))
		for _, a := range accounts {
			ids = append(ids, a.ID)
		}

		return u.lock(ids)
	})
	if err != nil {
		return 0, err
	}

	return settled.corrected, nil
}

// DiscrepancyKind tells which copy of an account disagrees.
type DiscrepancyKind string

const (
	// DriftStore means the stored totals differ from the stored transactions.
	DriftStore DiscrepancyKind = "store"
	// DriftCache means the cached account differs from the stored one, or
	// only one of them exists.
	DriftCache DiscrepancyKind = "cache"
	// DriftCacheTransaction means a cached transaction differs from the
	// stored one, or only one of them exists.
	DriftCacheTransaction DiscrepancyKind = "cache-transaction"
)

type Discrepancy struct {
	Kind             DiscrepancyKind
	TransactionID    uuid.NullUUID
	AccountID        uuid.UUID
	Name             string
	Total            decimal.Decimal
	TotalWaiting     decimal.Decimal
	WantTotal        decimal.Decimal
	WantTotalWaiting decimal.Decimal
}

// Verify checks every stored account against its transactions, and every
// cached account and transaction against the store, without changing anything.
func (s *Service) Verify(ctx context.Context) ([]Discrepancy, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("opening snapshot: %w", err)
	}
	defer tx.Rollback()

	accounts, err := tx.ListAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing accounts: %w", err)
	}

	txs, err := tx.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}

	byAccount := make(map[uuid.UUID][]ledger.Transaction, len(accounts))
	for _, t := range txs {
		byAccount[t.Debit.AccountID] = append(byAccount[t.Debit.AccountID], t)
		byAccount[t.Credit.AccountID] = append(byAccount[t.Credit.AccountID], t)
	}

	var found []Discrepancy

	stored := make(map[uuid.UUID]struct{}, len(accounts))

	for _, a := range accounts {
		stored[a.ID] = struct{}{}

		want := ledger.ComputeBalances(a, byAccount[a.ID])
		if !ledger.BalancesMatch(a, byAccount[a.ID]) {
			found = append(found, discrepancy(DriftStore, a, want))
		}

		cached, ok := s.cache.Account(a.ID)
		if !ok || !cached.Total.Equal(a.Total) || !cached.TotalWaiting.Equal(a.TotalWaiting) {
			found = append(found, discrepancy(DriftCache, cached, a))
		}
	}

	for _, cached := range s.cache.Accounts() {
		if _, ok := stored[cached.ID]; !ok {
			found = append(found, discrepancy(DriftCache, cached, ledger.Account{ID: cached.ID, Name: cached.Name}))
		}
	}

	found = append(found, s.transactionDrift(txs)...)

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("closing snapshot: %w", err)
	}

	if len(found) > 0 {
		s.log.Warn().Int("discrepancies", len(found)).Msg("verification found drift")
	}

	return found, nil
}

func discrepancy(kind DiscrepancyKind, got, want ledger.Account) Discrepancy {
	return Discrepancy{
		Kind:             kind,
		AccountID:        want.ID,
		Name:             want.Name,
		Total:            got.Total,
		TotalWaiting:     got.TotalWaiting,
		WantTotal:        want.Total,
		WantTotalWaiting: want.TotalWaiting,
	}
}

func (s *Service) transactionDrift(stored []ledger.Transaction) []Discrepancy {
	var found []Discrepancy

	seen := make(map[uuid.UUID]struct{}, len(stored))

	for _, t := range stored {
		seen[t.ID] = struct{}{}

		if cached, ok := s.cache.Transaction(t.ID); !ok || !cached.Equal(t) {
			found = append(found, transactionDiscrepancy(t))
		}
	}

	for _, t := range s.cache.Transactions() {
		if _, ok := seen[t.ID]; !ok {
			found = append(found, transactionDiscrepancy(t))
		}
	}

	return found
}

func transactionDiscrepancy(t ledger.Transaction) Discrepancy {
	return Discrepancy{
		Kind:          DriftCacheTransaction,
		TransactionID: uuid.NullUUID{UUID: t.ID, Valid: true},
		AccountID:     t.Debit.AccountID,
	}
}
