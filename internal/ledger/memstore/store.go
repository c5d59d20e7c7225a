// Package memstore is an in-process implementation of ledger.Store.
//
// Read-write units are serialized by a mutex and work on a private copy of
// the data that replaces the shared state on Commit. Committed state is never
// modified in place, so snapshots read it without locking. Data is lost when
// the process exits; use the PostgreSQL store for persistence.
package memstore

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/homeledger/internal/ledger"
)

var (
	errTxDone   = errors.New("memstore: transaction already finished")
	errReadOnly = errors.New("memstore: write in read-only transaction")
)

type state struct {
	accounts     map[uuid.UUID]ledger.Account
	transactions map[uuid.UUID]ledger.Transaction
	categories   map[uuid.UUID]ledger.Category
	currencies   map[uuid.UUID]ledger.Currency
	contacts     map[uuid.UUID]ledger.Contact
}

func (s *state) clone() *state {
	return &state{
		accounts:     maps.Clone(s.accounts),
		transactions: maps.Clone(s.transactions),
		categories:   maps.Clone(s.categories),
		currencies:   maps.Clone(s.currencies),
		contacts:     maps.Clone(s.contacts),
	}
}

type Store struct {
	writer sync.Mutex
	data   atomic.Pointer[state]
}

func New() *Store {
	s := &Store{}
	s.data.Store(&state{
		accounts:     make(map[uuid.UUID]ledger.Account),
		transactions: make(map[uuid.UUID]ledger.Transaction),
		categories:   make(map[uuid.UUID]ledger.Category),
		currencies:   make(map[uuid.UUID]ledger.Currency),
		contacts:     make(map[uuid.UUID]ledger.Contact),
	})

	return s
}

func (s *Store) Begin(ctx context.Context) (ledger.Tx, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}

	s.writer.Lock()

	return &tx{store: s, data: s.data.Load().clone()}, nil
}

func (s *Store) Snapshot(ctx context.Context) (ledger.Tx, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("beginning snapshot: %w", err)
	}

	return &tx{store: s, data: s.data.Load(), readOnly: true}, nil
}

type tx struct {
	store    *Store
	data     *state
	readOnly bool
	done     bool
}

func (t *tx) Commit() error {
	if t.done {
		return errTxDone
	}

	t.done = true

	if t.readOnly {
		return nil
	}

	t.store.data.Store(t.data)
	t.store.writer.Unlock()

	return nil
}

func (t *tx) Rollback() error {
	if t.done {
		return nil
	}

	t.done = true

	if !t.readOnly {
		t.store.writer.Unlock()
	}

	return nil
}

func (t *tx) writable() error {
	if t.done {
		return errTxDone
	}

	if t.readOnly {
		return errReadOnly
	}

	return nil
}

// LockAccounts only checks existence: a read-write unit already excludes all others.
func (t *tx) LockAccounts(_ context.Context, ids []uuid.UUID) error {
	if err := t.writable(); err != nil {
		return err
	}

	for _, id := range ids {
		if _, ok := t.data.accounts[id]; !ok {
			return fmt.Errorf("locking account %s: %w", id, ledger.ErrNotFound)
		}
	}

	return nil
}

var _ ledger.Store = (*Store)(nil)
