package cache_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/homeledger/internal/cache"
	"github.com/MrJamesThe3rd/homeledger/internal/ledger"
	"github.com/MrJamesThe3rd/homeledger/internal/ledger/memstore"
)

func leg(accountID uuid.UUID) ledger.Leg {
	return ledger.Leg{AccountID: accountID, CategoryID: uuid.New(), CategoryType: ledger.CategoryBanksAndCash}
}

func tx(from, to uuid.UUID, day int) ledger.Transaction {
	return ledger.Transaction{
		ID:           uuid.New(),
		Amount:       decimal.NewFromInt(10),
		CreditAmount: decimal.NewFromInt(10),
		Rate:         decimal.NewFromInt(1),
		Date:         time.Date(2024, 1, day, 0, 0, 0, 0, time.UTC),
		Type:         ledger.TypeTransfer,
		Debit:        leg(from),
		Credit:       leg(to),
	}
}

func TestCache_ApplyMaintainsIndexes(t *testing.T) {
	x, y, z := uuid.New(), uuid.New(), uuid.New()

	parent := tx(x, y, 2)
	first := tx(y, x, 1)
	child := tx(x, y, 2)
	child.ParentID = uuid.NullUUID{UUID: parent.ID, Valid: true}

	c := cache.New()
	c.Apply(cache.Changeset{
		Accounts:     []ledger.Account{{ID: x, Name: "X"}, {ID: y, Name: "Y"}, {ID: z, Name: "Z"}},
		Transactions: []ledger.Transaction{parent, first, child},
	})

	forX := c.TransactionsForAccount(x)
	require.Len(t, forX, 3)
	assert.Equal(t, first.ID, forX[0].ID)

	children := c.Children(parent.ID)
	require.Len(t, children, 1)
	assert.Equal(t, child.ID, children[0].ID)

	// Moving the parent from y to z updates both account indexes.
	moved := parent
	moved.Credit = leg(z)
	c.Apply(cache.Changeset{Transactions: []ledger.Transaction{moved}})

	assert.Len(t, c.TransactionsForAccount(y), 2)
	assert.Len(t, c.TransactionsForAccount(z), 1)

	c.Apply(cache.Changeset{DeletedTransactions: []uuid.UUID{child.ID, parent.ID}})

	assert.Empty(t, c.Children(parent.ID))
	assert.Empty(t, c.TransactionsForAccount(z))
	assert.Len(t, c.TransactionsForAccount(x), 1)
	_, ok := c.Transaction(parent.ID)
	assert.False(t, ok)
}

func TestCache_ReadersKeepTheirSnapshot(t *testing.T) {
	x, y := uuid.New(), uuid.New()

	c := cache.New()
	c.Apply(cache.Changeset{Transactions: []ledger.Transaction{tx(x, y, 1)}})

	before := c.TransactionsForAccount(x)

	c.Apply(cache.Changeset{Transactions: []ledger.Transaction{tx(x, y, 2)}})

	assert.Len(t, before, 1)
	assert.Len(t, c.TransactionsForAccount(x), 2)
}

func TestCache_LoadAndReset(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()

	cat, err := ledger.NewCategory(ledger.CategoryParams{Name: "Cash", Type: ledger.CategoryBanksAndCash})
	require.NoError(t, err)

	b, err := ledger.NewAccount(ledger.AccountParams{Name: "b wallet", CategoryID: cat.ID})
	require.NoError(t, err)

	a, err := ledger.NewAccount(ledger.AccountParams{Name: "A purse", CategoryID: cat.ID})
	require.NoError(t, err)

	w, err := s.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, w.InsertCategory(ctx, cat))
	require.NoError(t, w.InsertAccount(ctx, b))
	require.NoError(t, w.InsertAccount(ctx, a))
	require.NoError(t, w.Commit())

	c := cache.New()
	require.NoError(t, c.Load(ctx, s))

	assert.Equal(t, []ledger.Account{a, b}, c.Accounts())
	got, ok := c.Category(cat.ID)
	assert.True(t, ok)
	assert.Equal(t, cat, got)

	c.Reset()
	assert.Empty(t, c.Accounts())
	assert.Empty(t, c.Categories())
}

func TestCache_LoadFailureKeepsContent(t *testing.T) {
	ctrl := gomock.NewController(t)

	store := ledger.NewMockStore(ctrl)
	snap := ledger.NewMockTx(ctrl)

	store.EXPECT().Snapshot(gomock.Any()).Return(snap, nil)
	snap.EXPECT().ListCategories(gomock.Any()).Return(nil, errors.New("connection lost"))
	snap.EXPECT().Rollback().Return(nil)

	x := uuid.New()

	c := cache.New()
	c.Apply(cache.Changeset{Accounts: []ledger.Account{{ID: x, Name: "X"}}})

	err := c.Load(context.Background(), store)
	assert.ErrorContains(t, err, "loading categories")

	_, ok := c.Account(x)
	assert.True(t, ok)
}

func TestChangeset_Empty(t *testing.T) {
	assert.True(t, cache.Changeset{}.Empty())
	assert.False(t, cache.Changeset{DeletedContacts: []uuid.UUID{uuid.New()}}.Empty())
	assert.Equal(t, 2, cache.Changeset{Accounts: make([]ledger.Account, 2)}.Size())
}
