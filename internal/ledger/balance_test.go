package ledger_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/homeledger/internal/ledger"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func account(opening, limit string) ledger.Account {
	return ledger.Account{
		ID:             uuid.New(),
		Name:           "Account",
		CategoryID:     uuid.New(),
		OpeningBalance: dec(opening),
		Limit:          dec(limit),
	}
}

func transfer(from, to uuid.UUID, amount, credit string, checked bool) ledger.Transaction {
	return ledger.Transaction{
		ID:           uuid.New(),
		Amount:       dec(amount),
		CreditAmount: dec(credit),
		Rate:         decimal.NewFromInt(1),
		Date:         time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Type:         ledger.TypeTransfer,
		Debit:        ledger.Leg{AccountID: from},
		Credit:       ledger.Leg{AccountID: to},
		Checked:      checked,
	}
}

func TestBalance(t *testing.T) {
	x := account("100", "0")
	y := account("0", "50")

	child := transfer(x.ID, y.ID, "5", "5", true)
	child.ParentID = uuid.NullUUID{UUID: uuid.New(), Valid: true}

	txs := []ledger.Transaction{
		transfer(x.ID, y.ID, "30", "30", true),
		transfer(y.ID, x.ID, "10", "12.5", false),
		child,
		transfer(uuid.New(), uuid.New(), "999", "999", true),
	}

	type testCase struct {
		name    string
		account ledger.Account
		variant ledger.Variant
		include ledger.Predicate
		want    string
	}

	tests := []testCase{
		{name: "debited absolute all", account: x, variant: ledger.Absolute, include: ledger.All, want: "82.5"},
		{name: "debited absolute confirmed", account: x, variant: ledger.Absolute, include: ledger.Confirmed, want: "70"},
		{name: "debited relative unconfirmed", account: x, variant: ledger.Relative, include: ledger.Unconfirmed, want: "12.5"},
		{name: "credited absolute includes limit", account: y, variant: ledger.Absolute, include: ledger.All, want: "70"},
		{name: "credited relative confirmed", account: y, variant: ledger.Relative, include: ledger.Confirmed, want: "30"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ledger.Balance(tt.account, tt.variant, txs, tt.include)
			assert.True(t, dec(tt.want).Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestContribution_SplitLineCountsZero(t *testing.T) {
	x := uuid.New()
	y := uuid.New()

	tx := transfer(x, y, "40", "40", true)
	tx.ParentID = uuid.NullUUID{UUID: uuid.New(), Valid: true}

	assert.True(t, ledger.Contribution(x, tx).IsZero())
	assert.True(t, ledger.Contribution(y, tx).IsZero())
}

func TestComputeBalances(t *testing.T) {
	x := account("100", "0")
	y := account("0", "0")

	confirmed := transfer(x.ID, y.ID, "30", "30", true)
	pending := transfer(x.ID, y.ID, "20", "20", false)

	got := ledger.ComputeBalances(x, []ledger.Transaction{confirmed, pending})
	assert.True(t, dec("50").Equal(got.Total))
	assert.True(t, dec("70").Equal(got.TotalWaiting))

	got = ledger.ComputeBalances(y, []ledger.Transaction{confirmed, pending})
	assert.True(t, dec("50").Equal(got.Total))
	assert.True(t, dec("30").Equal(got.TotalWaiting))
	assert.True(t, ledger.BalancesMatch(got, []ledger.Transaction{pending, confirmed}))
}

func TestComputeBalances_NoTransactions(t *testing.T) {
	x := account("250.75", "1000")

	got := ledger.ComputeBalances(x, nil)
	assert.True(t, dec("1250.75").Equal(got.Total))
	assert.True(t, got.Total.Equal(got.TotalWaiting))
}

func TestComputeBalances_MatchesBalanceComputation(t *testing.T) {
	x := account("100", "0")
	y := account("0", "0")

	txs := []ledger.Transaction{transfer(x.ID, y.ID, "30", "30", false)}

	got := ledger.ComputeBalances(x, txs)
	assert.True(t, ledger.Balance(x, ledger.Absolute, txs, ledger.All).Equal(got.Total))
	assert.True(t, ledger.Balance(x, ledger.Absolute, txs, ledger.Confirmed).Equal(got.TotalWaiting))
	assert.True(t, dec("70").Equal(got.Total))
	assert.True(t, dec("100").Equal(got.TotalWaiting))
	assert.True(t, dec("-30").Equal(ledger.Movement(x, txs)))
}
