// Package cache keeps a process-local copy of the whole ledger for reads.
//
// Readers load an immutable snapshot through an atomic pointer and never
// block. Writers build the next snapshot from the current one and publish it;
// the caller is responsible for applying changesets in commit order.
package cache

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/homeledger/internal/ledger"
)

type snapshot struct {
	accounts     map[uuid.UUID]ledger.Account
	transactions map[uuid.UUID]ledger.Transaction
	categories   map[uuid.UUID]ledger.Category
	currencies   map[uuid.UUID]ledger.Currency
	contacts     map[uuid.UUID]ledger.Contact

	// byAccount and children index transaction ids. Slices are never
	// modified after publication; changed keys get fresh slices.
	byAccount map[uuid.UUID][]uuid.UUID
	children  map[uuid.UUID][]uuid.UUID
}

func emptySnapshot() *snapshot {
	return &snapshot{
		accounts:     make(map[uuid.UUID]ledger.Account),
		transactions: make(map[uuid.UUID]ledger.Transaction),
		categories:   make(map[uuid.UUID]ledger.Category),
		currencies:   make(map[uuid.UUID]ledger.Currency),
		contacts:     make(map[uuid.UUID]ledger.Contact),
		byAccount:    make(map[uuid.UUID][]uuid.UUID),
		children:     make(map[uuid.UUID][]uuid.UUID),
	}
}

func (s *snapshot) clone() *snapshot {
	return &snapshot{
		accounts:     maps.Clone(s.accounts),
		transactions: maps.Clone(s.transactions),
		categories:   maps.Clone(s.categories),
		currencies:   maps.Clone(s.currencies),
		contacts:     maps.Clone(s.contacts),
		byAccount:    maps.Clone(s.byAccount),
		children:     maps.Clone(s.children),
	}
}

func indexAdd(index map[uuid.UUID][]uuid.UUID, key, id uuid.UUID) {
	ids := index[key]
	if slices.Contains(ids, id) {
		return
	}

	next := make([]uuid.UUID, len(ids), len(ids)+1)
	copy(next, ids)
	index[key] = append(next, id)
}

func indexRemove(index map[uuid.UUID][]uuid.UUID, key, id uuid.UUID) {
	ids, ok := index[key]
	if !ok {
		return
	}

	next := slices.DeleteFunc(slices.Clone(ids), func(x uuid.UUID) bool { return x == id })
	if len(next) == 0 {
		delete(index, key)
		return
	}

	index[key] = next
}

func (s *snapshot) putTransaction(t ledger.Transaction) {
	if old, ok := s.transactions[t.ID]; ok {
		s.dropTransaction(old)
	}

	s.transactions[t.ID] = t
	indexAdd(s.byAccount, t.Debit.AccountID, t.ID)
	indexAdd(s.byAccount, t.Credit.AccountID, t.ID)

	if t.ParentID.Valid {
		indexAdd(s.children, t.ParentID.UUID, t.ID)
	}
}

func (s *snapshot) dropTransaction(t ledger.Transaction) {
	delete(s.transactions, t.ID)
	indexRemove(s.byAccount, t.Debit.AccountID, t.ID)
	indexRemove(s.byAccount, t.Credit.AccountID, t.ID)

	if t.ParentID.Valid {
		indexRemove(s.children, t.ParentID.UUID, t.ID)
	}
}

type Cache struct {
	mu   sync.Mutex
	snap atomic.Pointer[snapshot]
}

// New returns an empty cache. Call Load before serving reads.
func New() *Cache {
	c := &Cache{}
	c.snap.Store(emptySnapshot())

	return c
}

// Load replaces the cache content with one consistent snapshot of the store.
func (c *Cache) Load(ctx context.Context, store ledger.Store) error {
	tx, err := store.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("opening snapshot: %w", err)
	}
	defer tx.Rollback()

	next := emptySnapshot()

	categories, err := tx.ListCategories(ctx)
	if err != nil {
		return fmt.Errorf("loading categories: %w", err)
	}

	for _, cat := range categories {
		next.categories[cat.ID] = cat
	}

	currencies, err := tx.ListCurrencies(ctx)
	if err != nil {
		return fmt.Errorf("loading currencies: %w", err)
	}

	for _, cur := range currencies {
		next.currencies[cur.ID] = cur
	}

	contacts, err := tx.ListContacts(ctx)
	if err != nil {
		return fmt.Errorf("loading contacts: %w", err)
	}

	for _, ct := range contacts {
		next.contacts[ct.ID] = ct
	}

	accounts, err := tx.ListAccounts(ctx)
	if err != nil {
		return fmt.Errorf("loading accounts: %w", err)
	}

	for _, a := range accounts {
		next.accounts[a.ID] = a
	}

	txs, err := tx.ListTransactions(ctx)
	if err != nil {
		return fmt.Errorf("loading transactions: %w", err)
	}

	for _, t := range txs {
		next.putTransaction(t)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("closing snapshot: %w", err)
	}

	c.mu.Lock()
	c.snap.Store(next)
	c.mu.Unlock()

	return nil
}

// Apply publishes the rows of one committed unit.
func (c *Cache) Apply(cs Changeset) {
	if cs.Empty() {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	next := c.snap.Load().clone()

	for _, id := range cs.DeletedTransactions {
		if t, ok := next.transactions[id]; ok {
			next.dropTransaction(t)
		}
	}

	for _, cat := range cs.Categories {
		next.categories[cat.ID] = cat
	}

	for _, cur := range cs.Currencies {
		next.currencies[cur.ID] = cur
	}

	for _, ct := range cs.Contacts {
		next.contacts[ct.ID] = ct
	}

	for _, a := range cs.Accounts {
		next.accounts[a.ID] = a
	}

	for _, t := range cs.Transactions {
		next.putTransaction(t)
	}

	for _, id := range cs.DeletedAccounts {
		delete(next.accounts, id)
	}

	for _, id := range cs.DeletedCategories {
		delete(next.categories, id)
	}

	for _, id := range cs.DeletedCurrencies {
		delete(next.currencies, id)
	}

	for _, id := range cs.DeletedContacts {
		delete(next.contacts, id)
	}

	c.snap.Store(next)
}

// Reset drops everything.
func (c *Cache) Reset() {
	c.mu.Lock()
	c.snap.Store(emptySnapshot())
	c.mu.Unlock()
}
