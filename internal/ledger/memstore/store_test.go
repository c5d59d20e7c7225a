package memstore_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/homeledger/internal/ledger"
	"github.com/MrJamesThe3rd/homeledger/internal/ledger/memstore"
)

type fixture struct {
	category ledger.Category
	from     ledger.Account
	to       ledger.Account
}

func seed(t *testing.T, s *memstore.Store) fixture {
	t.Helper()

	ctx := context.Background()

	cat, err := ledger.NewCategory(ledger.CategoryParams{Name: "Banks", Type: ledger.CategoryBanksAndCash})
	require.NoError(t, err)

	from, err := ledger.NewAccount(ledger.AccountParams{Name: "Checking", CategoryID: cat.ID})
	require.NoError(t, err)

	to, err := ledger.NewAccount(ledger.AccountParams{Name: "Savings", CategoryID: cat.ID})
	require.NoError(t, err)

	tx, err := s.Begin(ctx)
	require.NoError(t, err)

	require.NoError(t, tx.InsertCategory(ctx, cat))
	require.NoError(t, tx.InsertAccount(ctx, from))
	require.NoError(t, tx.InsertAccount(ctx, to))
	require.NoError(t, tx.Commit())

	return fixture{category: cat, from: from, to: to}
}

func (f fixture) transaction(t *testing.T, amount int64) ledger.Transaction {
	t.Helper()

	debit, err := ledger.NewEndpoint(f.from, f.category)
	require.NoError(t, err)

	credit, err := ledger.NewEndpoint(f.to, f.category)
	require.NoError(t, err)

	tr, err := ledger.NewTransaction(ledger.TransactionParams{
		Amount:          decimal.NewFromInt(amount),
		Date:            time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		Type:            ledger.TypeTransfer,
		DebitAccountID:  f.from.ID,
		CreditAccountID: f.to.ID,
	}, debit, credit)
	require.NoError(t, err)

	return tr
}

func TestStore_RollbackDiscardsWrites(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	f := seed(t, s)

	tx, err := s.Begin(ctx)
	require.NoError(t, err)

	require.NoError(t, tx.InsertTransaction(ctx, f.transaction(t, 10)))
	require.NoError(t, tx.Rollback())
	require.NoError(t, tx.Rollback())

	snap, err := s.Snapshot(ctx)
	require.NoError(t, err)
	defer snap.Rollback()

	txs, err := snap.ListTransactions(ctx)
	require.NoError(t, err)
	assert.Empty(t, txs)
}

func TestStore_RollbackAfterCommitIsNoop(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	f := seed(t, s)

	tr := f.transaction(t, 10)

	tx, err := s.Begin(ctx)
	require.NoError(t, err)

	require.NoError(t, tx.InsertTransaction(ctx, tr))
	require.NoError(t, tx.Commit())
	require.NoError(t, tx.Rollback())

	snap, err := s.Snapshot(ctx)
	require.NoError(t, err)
	defer snap.Rollback()

	got, err := snap.GetTransaction(ctx, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, tr, got)
}

func TestStore_ReferentialIntegrity(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	f := seed(t, s)

	parent := f.transaction(t, 10)

	child := f.transaction(t, 4)
	child.ParentID = uuid.NullUUID{UUID: parent.ID, Valid: true}

	tx, err := s.Begin(ctx)
	require.NoError(t, err)
	defer tx.Rollback()

	err = tx.InsertTransaction(ctx, child)
	assert.ErrorIs(t, err, ledger.ErrNotFound)

	require.NoError(t, tx.InsertTransaction(ctx, parent))
	require.NoError(t, tx.InsertTransaction(ctx, child))

	assert.ErrorIs(t, tx.DeleteAccount(ctx, f.from.ID), ledger.ErrInUse)
	assert.ErrorIs(t, tx.DeleteCategory(ctx, f.category.ID), ledger.ErrInUse)
	assert.ErrorIs(t, tx.DeleteTransaction(ctx, parent.ID), ledger.ErrInUse)

	require.NoError(t, tx.DeleteTransaction(ctx, child.ID))
	require.NoError(t, tx.DeleteTransaction(ctx, parent.ID))
	require.NoError(t, tx.DeleteAccount(ctx, f.from.ID))

	assert.ErrorIs(t, tx.LockAccounts(ctx, []uuid.UUID{f.from.ID}), ledger.ErrNotFound)
}

func TestStore_SnapshotIsReadOnly(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	f := seed(t, s)

	snap, err := s.Snapshot(ctx)
	require.NoError(t, err)
	defer snap.Rollback()

	assert.Error(t, snap.InsertTransaction(ctx, f.transaction(t, 1)))
	assert.Error(t, snap.LockAccounts(ctx, []uuid.UUID{f.from.ID}))

	byAccount, err := snap.TransactionsByAccount(ctx, f.to.ID)
	require.NoError(t, err)
	assert.Empty(t, byAccount)
}

func TestStore_TransactionsByAccountSorted(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	f := seed(t, s)

	late := f.transaction(t, 1)
	late.Date = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	early := f.transaction(t, 2)

	tx, err := s.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.InsertTransaction(ctx, late))
	require.NoError(t, tx.InsertTransaction(ctx, early))
	require.NoError(t, tx.Commit())

	snap, err := s.Snapshot(ctx)
	require.NoError(t, err)
	defer snap.Rollback()

	got, err := snap.TransactionsByAccount(ctx, f.from.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, early.ID, got[0].ID)
	assert.Equal(t, late.ID, got[1].ID)
}
