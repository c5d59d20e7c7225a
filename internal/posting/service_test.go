package posting_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/homeledger/internal/cache"
	"github.com/MrJamesThe3rd/homeledger/internal/ledger"
	"github.com/MrJamesThe3rd/homeledger/internal/ledger/memstore"
	"github.com/MrJamesThe3rd/homeledger/internal/posting"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type env struct {
	svc   *posting.Service
	store *memstore.Store
	bank  ledger.Category
	eur   ledger.Currency
	usd   ledger.Currency
	x     ledger.Account
	y     ledger.Account
}

func setup(t *testing.T) *env {
	t.Helper()

	ctx := context.Background()
	st := memstore.New()
	svc := posting.NewService(st, cache.New(), zerolog.Nop())

	bank, err := svc.CreateCategory(ctx, ledger.CategoryParams{Name: "Bank", Type: ledger.CategoryBanksAndCash})
	require.NoError(t, err)

	eur, err := svc.CreateCurrency(ctx, ledger.CurrencyParams{Code: "EUR", Symbol: "€", Default: true})
	require.NoError(t, err)

	usd, err := svc.CreateCurrency(ctx, ledger.CurrencyParams{Code: "USD", Symbol: "$", Rate: dec("0.5")})
	require.NoError(t, err)

	e := &env{svc: svc, store: st, bank: bank, eur: eur, usd: usd}
	e.x = e.account(t, "X", eur, "100")
	e.y = e.account(t, "Y", eur, "0")

	return e
}

func (e *env) account(t *testing.T, name string, cur ledger.Currency, opening string) ledger.Account {
	t.Helper()

	a, err := e.svc.CreateAccount(context.Background(), ledger.AccountParams{
		Name:           name,
		CategoryID:     e.bank.ID,
		CurrencyID:     uuid.NullUUID{UUID: cur.ID, Valid: true},
		OpeningBalance: dec(opening),
		Enabled:        true,
	})
	require.NoError(t, err)

	return a
}

func transfer(from, to ledger.Account, amount string, checked bool) ledger.TransactionParams {
	return ledger.TransactionParams{
		Amount:          dec(amount),
		Date:            time.Date(2024, 4, 10, 0, 0, 0, 0, time.UTC),
		Type:            ledger.TypeTransfer,
		DebitAccountID:  from.ID,
		CreditAccountID: to.ID,
		Checked:         checked,
	}
}

func (e *env) assertTotals(t *testing.T, id uuid.UUID, total, waiting string) {
	t.Helper()

	a, ok := e.svc.Cache().Account(id)
	require.True(t, ok, "account %s not cached", id)
	assert.True(t, dec(total).Equal(a.Total), "total: want %s, got %s", total, a.Total)
	assert.True(t, dec(waiting).Equal(a.TotalWaiting), "total waiting: want %s, got %s", waiting, a.TotalWaiting)
}

// assertCacheFidelity compares the service cache with one freshly loaded from the store.
func (e *env) assertCacheFidelity(t *testing.T) {
	t.Helper()

	fresh := cache.New()
	require.NoError(t, fresh.Load(context.Background(), e.store))

	assert.Equal(t, fresh.Accounts(), e.svc.Cache().Accounts())
	assert.Equal(t, fresh.Transactions(), e.svc.Cache().Transactions())
	assert.Equal(t, fresh.Categories(), e.svc.Cache().Categories())
	assert.Equal(t, fresh.Currencies(), e.svc.Cache().Currencies())
	assert.Equal(t, fresh.Contacts(), e.svc.Cache().Contacts())
}

func TestService_InsertThenDelete(t *testing.T) {
	ctx := context.Background()
	e := setup(t)

	e.assertTotals(t, e.x.ID, "100", "100")
	e.assertTotals(t, e.y.ID, "0", "0")

	tr, err := e.svc.InsertTransaction(ctx, transfer(e.x, e.y, "30", true))
	require.NoError(t, err)

	e.assertTotals(t, e.x.ID, "70", "70")
	e.assertTotals(t, e.y.ID, "30", "30")
	e.assertCacheFidelity(t)

	require.NoError(t, e.svc.DeleteTransaction(ctx, tr.ID))

	e.assertTotals(t, e.x.ID, "100", "100")
	e.assertTotals(t, e.y.ID, "0", "0")
	e.assertCacheFidelity(t)
}

func TestService_SetConfirmedIsIdempotent(t *testing.T) {
	ctx := context.Background()
	e := setup(t)

	tr, err := e.svc.InsertTransaction(ctx, transfer(e.x, e.y, "30", false))
	require.NoError(t, err)

	e.assertTotals(t, e.x.ID, "70", "100")

	require.NoError(t, e.svc.SetConfirmed(ctx, []uuid.UUID{tr.ID}, true))
	e.assertTotals(t, e.x.ID, "70", "70")

	first, _ := e.svc.Cache().Transaction(tr.ID)

	require.NoError(t, e.svc.SetConfirmed(ctx, []uuid.UUID{tr.ID}, true))
	e.assertTotals(t, e.x.ID, "70", "70")

	second, _ := e.svc.Cache().Transaction(tr.ID)
	assert.Equal(t, first, second)

	toggled, err := e.svc.ToggleConfirmed(ctx, tr.ID)
	require.NoError(t, err)
	assert.False(t, toggled.Checked)
	e.assertTotals(t, e.x.ID, "70", "100")
	e.assertTotals(t, e.y.ID, "30", "0")
	e.assertCacheFidelity(t)
}

func TestService_SplitLinesDoNotCount(t *testing.T) {
	ctx := context.Background()
	e := setup(t)

	parent, err := e.svc.InsertTransaction(ctx, transfer(e.x, e.y, "50", true))
	require.NoError(t, err)

	line := transfer(e.x, e.y, "20", true)
	line.ParentID = uuid.NullUUID{UUID: parent.ID, Valid: true}

	child, err := e.svc.InsertTransaction(ctx, line)
	require.NoError(t, err)

	e.assertTotals(t, e.x.ID, "50", "50")
	e.assertTotals(t, e.y.ID, "50", "50")
	assert.Len(t, e.svc.Cache().Children(parent.ID), 1)

	nested := transfer(e.x, e.y, "5", true)
	nested.ParentID = uuid.NullUUID{UUID: child.ID, Valid: true}

	_, err = e.svc.InsertTransaction(ctx, nested)
	assert.ErrorIs(t, err, ledger.ErrValidation)

	require.NoError(t, e.svc.DeleteTransaction(ctx, parent.ID))

	_, ok := e.svc.Cache().Transaction(child.ID)
	assert.False(t, ok, "split line is deleted with its parent")
	assert.Empty(t, e.svc.Cache().Children(parent.ID))
	e.assertTotals(t, e.x.ID, "100", "100")
	e.assertCacheFidelity(t)
}

func TestService_ParentWithSplitLinesCannotBecomeOne(t *testing.T) {
	ctx := context.Background()
	e := setup(t)

	parent, err := e.svc.InsertTransaction(ctx, transfer(e.x, e.y, "50", true))
	require.NoError(t, err)

	line := transfer(e.x, e.y, "20", true)
	line.ParentID = uuid.NullUUID{UUID: parent.ID, Valid: true}
	_, err = e.svc.InsertTransaction(ctx, line)
	require.NoError(t, err)

	other, err := e.svc.InsertTransaction(ctx, transfer(e.y, e.x, "1", true))
	require.NoError(t, err)

	p := parent.Params()
	p.ParentID = uuid.NullUUID{UUID: other.ID, Valid: true}

	_, err = e.svc.UpdateTransaction(ctx, p)
	assert.ErrorIs(t, err, ledger.ErrValidation)
}

func TestService_ConversionSymmetry(t *testing.T) {
	ctx := context.Background()
	e := setup(t)

	z := e.account(t, "Z", e.usd, "0")

	tr, err := e.svc.InsertTransaction(ctx, transfer(e.x, z, "10", true))
	require.NoError(t, err)

	assert.True(t, dec("2").Equal(tr.Rate), "rate derived from currency rates, got %s", tr.Rate)
	assert.True(t, tr.Amount.Mul(tr.Rate).Equal(tr.CreditAmount))

	x, _ := e.svc.Cache().Account(e.x.ID)
	zc, _ := e.svc.Cache().Account(z.ID)

	assert.True(t, tr.Amount.Neg().Equal(ledger.Balance(x, ledger.Relative, e.svc.Cache().TransactionsForAccount(x.ID), ledger.All)))
	assert.True(t, tr.CreditAmount.Equal(ledger.Balance(zc, ledger.Relative, e.svc.Cache().TransactionsForAccount(z.ID), ledger.All)))

	e.assertTotals(t, e.x.ID, "90", "90")
	e.assertTotals(t, z.ID, "20", "20")

	explicit := transfer(e.x, z, "10", true)
	explicit.Rate = dec("1.1")

	tr2, err := e.svc.InsertTransaction(ctx, explicit)
	require.NoError(t, err)
	assert.True(t, dec("11").Equal(tr2.CreditAmount))
}

func TestService_CurrencyRateChangeKeepsTransactions(t *testing.T) {
	ctx := context.Background()
	e := setup(t)

	z := e.account(t, "Z", e.usd, "0")

	tr, err := e.svc.InsertTransaction(ctx, transfer(e.x, z, "10", true))
	require.NoError(t, err)

	_, err = e.svc.UpdateCurrency(ctx, e.usd.ID, ledger.CurrencyParams{Code: "USD", Symbol: "$", Rate: dec("0.25")})
	require.NoError(t, err)

	got, ok := e.svc.Cache().Transaction(tr.ID)
	require.True(t, ok)
	assert.True(t, dec("20").Equal(got.CreditAmount))
	e.assertTotals(t, z.ID, "20", "20")
	e.assertCacheFidelity(t)
}

func TestService_UpdateMovesBetweenAccounts(t *testing.T) {
	ctx := context.Background()
	e := setup(t)

	z := e.account(t, "Z", e.eur, "5")

	tr, err := e.svc.InsertTransaction(ctx, transfer(e.x, e.y, "30", true))
	require.NoError(t, err)

	p := tr.Params()
	p.CreditAccountID = z.ID
	p.Amount = dec("25")

	updated, err := e.svc.UpdateTransaction(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, tr.CreatedAt, updated.CreatedAt)

	e.assertTotals(t, e.x.ID, "75", "75")
	e.assertTotals(t, e.y.ID, "0", "0")
	e.assertTotals(t, z.ID, "30", "30")
	e.assertCacheFidelity(t)
}

func TestService_LegSnapshotSurvivesAccountChanges(t *testing.T) {
	ctx := context.Background()
	e := setup(t)

	assets, err := e.svc.CreateCategory(ctx, ledger.CategoryParams{Name: "Assets", Type: ledger.CategoryAssets})
	require.NoError(t, err)

	tr, err := e.svc.InsertTransaction(ctx, transfer(e.x, e.y, "10", true))
	require.NoError(t, err)

	yp := e.y.Params()
	yp.CategoryID = assets.ID

	_, err = e.svc.UpdateAccount(ctx, e.y.ID, yp)
	require.NoError(t, err)

	p := tr.Params()
	p.Amount = dec("12")

	updated, err := e.svc.UpdateTransaction(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, ledger.CategoryBanksAndCash, updated.Credit.CategoryType)

	fresh, err := e.svc.InsertTransaction(ctx, transfer(e.x, e.y, "1", true))
	require.NoError(t, err)
	assert.Equal(t, ledger.CategoryAssets, fresh.Credit.CategoryType)
	assert.Equal(t, assets.ID, fresh.Credit.CategoryID)
}

func TestService_UpdateAccountRecomputes(t *testing.T) {
	ctx := context.Background()
	e := setup(t)

	_, err := e.svc.InsertTransaction(ctx, transfer(e.x, e.y, "30", true))
	require.NoError(t, err)

	p := e.x.Params()
	p.OpeningBalance = dec("200")
	p.Limit = dec("50")
	p.Name = "X renamed"

	got, err := e.svc.UpdateAccount(ctx, e.x.ID, p)
	require.NoError(t, err)

	assert.Equal(t, "X renamed", got.Name)
	e.assertTotals(t, e.x.ID, "220", "220")
	e.assertCacheFidelity(t)
}

func TestService_DeleteReferencedEntities(t *testing.T) {
	ctx := context.Background()
	e := setup(t)

	contact, err := e.svc.CreateContact(ctx, ledger.ContactParams{Name: "Landlord"})
	require.NoError(t, err)

	p := transfer(e.x, e.y, "30", true)
	p.ContactID = uuid.NullUUID{UUID: contact.ID, Valid: true}

	_, err = e.svc.InsertTransaction(ctx, p)
	require.NoError(t, err)

	assert.ErrorIs(t, e.svc.DeleteAccount(ctx, e.x.ID), ledger.ErrInUse)
	assert.ErrorIs(t, e.svc.DeleteContact(ctx, contact.ID), ledger.ErrInUse)
	assert.ErrorIs(t, e.svc.DeleteCategory(ctx, e.bank.ID), ledger.ErrInUse)
	assert.ErrorIs(t, e.svc.DeleteCurrency(ctx, e.eur.ID), ledger.ErrInUse)

	_, ok := e.svc.Cache().Account(e.x.ID)
	assert.True(t, ok)

	empty := e.account(t, "Empty", e.eur, "0")
	require.NoError(t, e.svc.DeleteAccount(ctx, empty.ID))

	_, ok = e.svc.Cache().Account(empty.ID)
	assert.False(t, ok)

	assert.ErrorIs(t, e.svc.DeleteAccount(ctx, empty.ID), ledger.ErrNotFound)
	e.assertCacheFidelity(t)
}

func TestService_DefaultCurrencyMoves(t *testing.T) {
	ctx := context.Background()
	e := setup(t)

	gbp, err := e.svc.CreateCurrency(ctx, ledger.CurrencyParams{Code: "GBP", Default: true})
	require.NoError(t, err)

	eur, _ := e.svc.Cache().Currency(e.eur.ID)
	assert.False(t, eur.Default)

	got, _ := e.svc.Cache().Currency(gbp.ID)
	assert.True(t, got.Default)
	e.assertCacheFidelity(t)
}

func TestService_BatchIsAtomic(t *testing.T) {
	ctx := context.Background()
	e := setup(t)

	ghost := ledger.Account{ID: uuid.New()}

	_, err := e.svc.InsertTransactions(ctx, []ledger.TransactionParams{
		transfer(e.x, e.y, "30", true),
		transfer(e.x, ghost, "10", true),
	})
	assert.ErrorIs(t, err, ledger.ErrNotFound)

	assert.Empty(t, e.svc.Cache().Transactions())
	e.assertTotals(t, e.x.ID, "100", "100")
	e.assertCacheFidelity(t)
}

func TestService_ValidationHappensBeforeStoreAccess(t *testing.T) {
	ctrl := gomock.NewController(t)

	// No expectations: any store call fails the test.
	store := ledger.NewMockStore(ctrl)
	svc := posting.NewService(store, cache.New(), zerolog.Nop())

	type testCase struct {
		name   string
		params ledger.TransactionParams
	}

	x, y := uuid.New(), uuid.New()
	base := ledger.TransactionParams{
		Amount:          dec("1"),
		Date:            time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Type:            ledger.TypePayment,
		DebitAccountID:  x,
		CreditAccountID: y,
	}

	tests := []testCase{
		{name: "negative amount", params: func() ledger.TransactionParams { p := base; p.Amount = dec("-1"); return p }()},
		{name: "same account", params: func() ledger.TransactionParams { p := base; p.CreditAccountID = x; return p }()},
		{name: "missing date", params: func() ledger.TransactionParams { p := base; p.Date = time.Time{}; return p }()},
		{name: "unknown type", params: func() ledger.TransactionParams { p := base; p.Type = "barter"; return p }()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.InsertTransaction(context.Background(), tt.params)
			assert.ErrorIs(t, err, ledger.ErrValidation)
		})
	}

	_, err := svc.CreateAccount(context.Background(), ledger.AccountParams{Name: " "})
	assert.ErrorIs(t, err, ledger.ErrValidation)
}

func TestService_StoreFailureRollsBack(t *testing.T) {
	ctrl := gomock.NewController(t)

	bank := ledger.Category{ID: uuid.New(), Name: "Bank", Type: ledger.CategoryBanksAndCash}
	x := ledger.Account{ID: uuid.New(), Name: "X", CategoryID: bank.ID, OpeningBalance: dec("100"), Total: dec("100"), TotalWaiting: dec("100")}
	y := ledger.Account{ID: uuid.New(), Name: "Y", CategoryID: bank.ID, Total: dec("0"), TotalWaiting: dec("0")}

	store := ledger.NewMockStore(ctrl)
	tx := ledger.NewMockTx(ctrl)

	var inserted []ledger.Transaction

	store.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	tx.EXPECT().LockAccounts(gomock.Any(), ledger.SortIDs([]uuid.UUID{x.ID, y.ID})).Return(nil)
	tx.EXPECT().GetAccount(gomock.Any(), x.ID).Return(x, nil).AnyTimes()
	tx.EXPECT().GetAccount(gomock.Any(), y.ID).Return(y, nil).AnyTimes()
	tx.EXPECT().GetCategory(gomock.Any(), bank.ID).Return(bank, nil).AnyTimes()
	tx.EXPECT().InsertTransaction(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, t ledger.Transaction) error {
			inserted = append(inserted, t)
			return nil
		})
	tx.EXPECT().TransactionsByAccount(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, uuid.UUID) ([]ledger.Transaction, error) {
			return inserted, nil
		}).AnyTimes()
	tx.EXPECT().UpdateAccount(gomock.Any(), gomock.Any()).Return(errors.New("disk full"))
	tx.EXPECT().Rollback().Return(nil)

	c := cache.New()
	svc := posting.NewService(store, c, zerolog.Nop())

	_, err := svc.InsertTransaction(context.Background(), transfer(x, y, "30", true))
	require.Error(t, err)
	assert.ErrorContains(t, err, "disk full")

	assert.Empty(t, c.Transactions())
	assert.Empty(t, c.Accounts())
}

func TestService_VanishedAccountViolatesInvariant(t *testing.T) {
	ctrl := gomock.NewController(t)

	id := uuid.New()

	store := ledger.NewMockStore(ctrl)
	tx := ledger.NewMockTx(ctrl)

	store.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	tx.EXPECT().LockAccounts(gomock.Any(), []uuid.UUID{id}).Return(nil)
	tx.EXPECT().GetAccount(gomock.Any(), id).Return(ledger.Account{}, ledger.ErrNotFound)
	tx.EXPECT().Rollback().Return(nil)

	svc := posting.NewService(store, cache.New(), zerolog.Nop())

	_, err := svc.RecomputeBalances(context.Background(), []uuid.UUID{id})
	assert.ErrorIs(t, err, ledger.ErrInvariant)
}

func TestService_VerifyAndRecompute(t *testing.T) {
	ctx := context.Background()
	e := setup(t)

	_, err := e.svc.InsertTransaction(ctx, transfer(e.x, e.y, "30", true))
	require.NoError(t, err)

	found, err := e.svc.Verify(ctx)
	require.NoError(t, err)
	assert.Empty(t, found)

	// Corrupt the stored totals behind the service's back.
	tx, err := e.store.Begin(ctx)
	require.NoError(t, err)

	x, err := tx.GetAccount(ctx, e.x.ID)
	require.NoError(t, err)

	x.Total = dec("999")
	require.NoError(t, tx.UpdateAccount(ctx, x))
	require.NoError(t, tx.Commit())

	found, err = e.svc.Verify(ctx)
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, posting.DriftStore, found[0].Kind)
	assert.True(t, dec("70").Equal(found[0].WantTotal))
	assert.Equal(t, posting.DriftCache, found[1].Kind)

	corrected, err := e.svc.RecomputeAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, corrected)

	found, err = e.svc.Verify(ctx)
	require.NoError(t, err)
	assert.Empty(t, found)
	e.assertCacheFidelity(t)
}

func TestService_VerifyComparesWholeCache(t *testing.T) {
	ctx := context.Background()
	e := setup(t)

	z := e.account(t, "Z", e.eur, "5")

	tr, err := e.svc.InsertTransaction(ctx, transfer(e.x, e.y, "30", true))
	require.NoError(t, err)

	// Change the store behind the service's back: drop Z and reword tr.
	tx, err := e.store.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.DeleteAccount(ctx, z.ID))

	stored, err := tx.GetTransaction(ctx, tr.ID)
	require.NoError(t, err)

	stored.Comment = "edited elsewhere"
	require.NoError(t, tx.UpdateTransaction(ctx, stored))
	require.NoError(t, tx.Commit())

	found, err := e.svc.Verify(ctx)
	require.NoError(t, err)
	require.Len(t, found, 2)

	assert.Equal(t, posting.DriftCache, found[0].Kind)
	assert.Equal(t, z.ID, found[0].AccountID)
	assert.True(t, dec("5").Equal(found[0].Total))
	assert.False(t, found[0].TransactionID.Valid)

	assert.Equal(t, posting.DriftCacheTransaction, found[1].Kind)
	assert.Equal(t, uuid.NullUUID{UUID: tr.ID, Valid: true}, found[1].TransactionID)
	assert.Equal(t, e.x.ID, found[1].AccountID)

	require.NoError(t, e.svc.Reload(ctx))

	found, err = e.svc.Verify(ctx)
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestService_DerivedRateHasBoundedScale(t *testing.T) {
	ctx := context.Background()
	e := setup(t)

	gbp, err := e.svc.CreateCurrency(ctx, ledger.CurrencyParams{Code: "GBP", Symbol: "£", Rate: dec("3")})
	require.NoError(t, err)

	w := e.account(t, "W", gbp, "0")

	tr, err := e.svc.InsertTransaction(ctx, transfer(e.x, w, "100", true))
	require.NoError(t, err)

	assert.Equal(t, "0.3333333333", tr.Rate.String())
	assert.Equal(t, "33.33333333", tr.CreditAmount.String())
	assert.True(t, tr.Amount.Mul(tr.Rate).Equal(tr.CreditAmount))
	e.assertTotals(t, w.ID, "33.33333333", "33.33333333")
}

func TestService_Import(t *testing.T) {
	ctx := context.Background()
	e := setup(t)

	cash, err := ledger.NewCategory(ledger.CategoryParams{Name: "Cash", Type: ledger.CategoryBanksAndCash})
	require.NoError(t, err)

	wallet, err := ledger.NewAccount(ledger.AccountParams{
		Name:           "Wallet",
		CategoryID:     cash.ID,
		CurrencyID:     uuid.NullUUID{UUID: e.eur.ID, Valid: true},
		OpeningBalance: dec("40"),
	})
	require.NoError(t, err)

	wallet.Total = dec("12345")

	tr, err := ledger.NewTransaction(
		transfer(e.x, wallet, "15", true),
		ledger.Endpoint{Leg: ledger.Leg{AccountID: e.x.ID, CategoryID: e.bank.ID, CategoryType: e.bank.Type}, CurrencyID: e.x.CurrencyID},
		ledger.Endpoint{Leg: ledger.Leg{AccountID: wallet.ID, CategoryID: cash.ID, CategoryType: cash.Type}, CurrencyID: wallet.CurrencyID},
	)
	require.NoError(t, err)

	res, err := e.svc.Import(ctx, posting.Batch{
		Categories:   []ledger.Category{cash},
		Accounts:     []ledger.Account{wallet},
		Transactions: []ledger.Transaction{tr},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Transactions)

	e.assertTotals(t, wallet.ID, "55", "55")
	e.assertTotals(t, e.x.ID, "85", "85")

	got, ok := e.svc.Cache().Transaction(tr.ID)
	require.True(t, ok)
	assert.Equal(t, tr, got)
	e.assertCacheFidelity(t)
}

func TestService_ConcurrentWriters(t *testing.T) {
	ctx := context.Background()
	e := setup(t)

	const writers = 25

	var wg sync.WaitGroup

	errs := make(chan error, 2*writers)

	for range writers {
		wg.Add(2)

		go func() {
			defer wg.Done()

			_, err := e.svc.InsertTransaction(ctx, transfer(e.x, e.y, "1", true))
			errs <- err
		}()

		go func() {
			defer wg.Done()

			errs <- e.svc.Reload(ctx)
		}()
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	e.assertTotals(t, e.x.ID, "75", "75")
	e.assertTotals(t, e.y.ID, "25", "25")
	e.assertCacheFidelity(t)
}
