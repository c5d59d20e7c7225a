// Package posting applies every ledger mutation as one atomic unit that also
// rewrites the materialized totals of each account it touches, then mirrors
// the committed rows into the read cache.
package posting

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/MrJamesThe3rd/homeledger/internal/cache"
	"github.com/MrJamesThe3rd/homeledger/internal/ledger"
)

type Service struct {
	store ledger.Store
	cache *cache.Cache
	log   zerolog.Logger

	// mu orders commits with cache applies and reloads.
	mu sync.Mutex
}

func NewService(store ledger.Store, c *cache.Cache, log zerolog.Logger) *Service {
	return &Service{
		store: store,
		cache: c,
		log:   log.With().Str("component", "posting").Logger(),
	}
}

// Cache returns the read cache the service keeps current.
func (s *Service) Cache() *cache.Cache {
	return s.cache
}

// Reload rebuilds the cache from the store.
func (s *Service) Reload(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.cache.Load(ctx, s.store); err != nil {
		return fmt.Errorf("reloading cache: %w", err)
	}

	s.log.Info().Int("accounts", len(s.cache.Accounts())).Msg("cache loaded")

	return nil
}

// run executes fn inside one store unit. Balances of every account fn marked
// as affected are recomputed before commit; the cache is only touched after a
// successful commit.
func (s *Service) run(ctx context.Context, op string, fn func(u *unit) error) error {
	ctx = context.WithoutCancel(ctx)

	tx, err := s.store.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer tx.Rollback()

	u := newUnit(ctx, tx)

	if err := fn(u); err != nil {
		s.log.Warn().Err(err).Str("op", op).Msg("rolled back")
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := u.settle(); err != nil {
		s.log.Warn().Err(err).Str("op", op).Msg("rolled back")
		return fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := tx.Commit(); err != nil {
		s.log.Error().Err(err).Str("op", op).Msg("commit failed")
		return fmt.Errorf("%s: %w", op, err)
	}

	cs := u.changeset()
	s.cache.Apply(cs)

	s.log.Debug().
		Str("op", op).
		Int("affected_accounts", len(u.affected)).
		Int("rows", cs.Size()).
		Msg("committed")

	return nil
}

// unit tracks what one store unit changed.
type unit struct {
	ctx context.Context
	tx  ledger.Tx

	accounts     map[uuid.UUID]ledger.Account
	transactions map[uuid.UUID]ledger.Transaction
	categories   map[uuid.UUID]ledger.Category
	currencies   map[uuid.UUID]ledger.Currency
	contacts     map[uuid.UUID]ledger.Contact

	deletedAccounts     []uuid.UUID
	deletedTransactions []uuid.UUID
	deletedCategories   []uuid.UUID
	deletedCurrencies   []uuid.UUID
	deletedContacts     []uuid.UUID

	affected  map[uuid.UUID]struct{}
	locked    bool
	corrected int
}

func newUnit(ctx context.Context, tx ledger.Tx) *unit {
	return &unit{
		ctx:          ctx,
		tx:           tx,
		accounts:     make(map[uuid.UUID]ledger.Account),
		transactions: make(map[uuid.UUID]ledger.Transaction),
		categories:   make(map[uuid.UUID]ledger.Category),
		currencies:   make(map[uuid.UUID]ledger.Currency),
		contacts:     make(map[uuid.UUID]ledger.Contact),
		affected:     make(map[uuid.UUID]struct{}),
	}
}

func (u *unit) touch(ids ...uuid.UUID) {
	for _, id := range ids {
		u.affected[id] = struct{}{}
	}
}

// lock write-locks ids in ascending order. A unit locks accounts once, after
// it has read every row it replaces and before it writes anything.
func (u *unit) lock(ids []uuid.UUID) error {
	if u.locked {
		return errors.New("accounts already locked in this unit")
	}

	u.locked = true
	u.touch(ids...)

	if len(ids) == 0 {
		return nil
	}

	if err := u.tx.LockAccounts(u.ctx, ledger.SortIDs(ids)); err != nil {
		return fmt.Errorf("locking accounts: %w", err)
	}

	return nil
}

// settle recomputes every affected account from the transactions now visible
// in the unit and writes the ones whose totals moved.
func (u *unit) settle() error {
	ids := ledger.SortIDs(slices.Collect(maps.Keys(u.affected)))

	for _, id := range ids {
		if slices.Contains(u.deletedAccounts, id) {
			continue
		}

		a, err := u.tx.GetAccount(u.ctx, id)
		if err != nil {
			if errors.Is(err, ledger.ErrNotFound) {
				return fmt.Errorf("account %s disappeared: %w", id, ledger.ErrInvariant)
			}

			return fmt.Errorf("reading account %s: %w", id, err)
		}

		txs, err := u.tx.TransactionsByAccount(u.ctx, id)
		if err != nil {
			return fmt.Errorf("reading transactions of account %s: %w", id, err)
		}

		next := ledger.ComputeBalances(a, txs)

		if !next.Total.Equal(a.Total) || !next.TotalWaiting.Equal(a.TotalWaiting) {
			if err := u.tx.UpdateAccount(u.ctx, next); err != nil {
				if errors.Is(err, ledger.ErrNotFound) {
					return fmt.Errorf("persisting totals of account %s: %w", id, ledger.ErrInvariant)
				}

				return fmt.Errorf("persisting totals of account %s: %w", id, err)
			}

			u.corrected++
			u.accounts[id] = next

			continue
		}

		if _, written := u.accounts[id]; written {
			u.accounts[id] = a
		}
	}

	return nil
}

func (u *unit) changeset() cache.Changeset {
	return cache.Changeset{
		Accounts:            slices.Collect(maps.Values(u.accounts)),
		Transactions:        slices.Collect(maps.Values(u.transactions)),
		Categories:          slices.Collect(maps.Values(u.categories)),
		Currencies:          slices.Collect(maps.Values(u.currencies)),
		Contacts:            slices.Collect(maps.Values(u.contacts)),
		DeletedAccounts:     u.deletedAccounts,
		DeletedTransactions: u.deletedTransactions,
		DeletedCategories:   u.deletedCategories,
		DeletedCurrencies:   u.deletedCurrencies,
		DeletedContacts:     u.deletedContacts,
	}
}

// endpoint snapshots the account and its current category for a new leg.
func (u *unit) endpoint(accountID uuid.UUID) (ledger.Endpoint, error) {
	a, err := u.tx.GetAccount(u.ctx, accountID)
	if err != nil {
		return ledger.Endpoint{}, err
	}

	c, err := u.tx.GetCategory(u.ctx, a.CategoryID)
	if err != nil {
		return ledger.Endpoint{}, fmt.Errorf("category of account %s: %w", accountID, err)
	}

	return ledger.NewEndpoint(a, c)
}

// deriveRate fills in the rate from the stored currency rates when the legs
// convert and the caller left it out.
func (u *unit) deriveRate(p *ledger.TransactionParams, debit, credit ledger.Endpoint) error {
	if !ledger.Converts(debit, credit) || !p.Rate.IsZero() {
		return nil
	}

	from, err := u.tx.GetCurrency(u.ctx, debit.CurrencyID.UUID)
	if err != nil {
		return fmt.Errorf("currency of account %s: %w", debit.Leg.AccountID, err)
	}

	to, err := u.tx.GetCurrency(u.ctx, credit.CurrencyID.UUID)
	if err != nil {
		return fmt.Errorf("currency of account %s: %w", credit.Leg.AccountID, err)
	}

	// CreditAmount stays Amount * Rate exactly; the rate's scale bounds it.
	p.Rate = ledger.ExchangeRate(from, to).Round(ledger.RateScale)

	return nil
}
