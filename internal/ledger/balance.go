package ledger

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Predicate selects the transactions that count towards a balance.
type Predicate func(Transaction) bool

// All counts every transaction.
func All(Transaction) bool { return true }

// Confirmed counts only transactions reconciled against a statement.
func Confirmed(t Transaction) bool { return t.Checked }

// Unconfirmed counts only transactions not yet reconciled.
func Unconfirmed(t Transaction) bool { return !t.Checked }

// Variant picks the starting point of a balance.
type Variant int

const (
	// Absolute starts from OpeningBalance + Limit.
	Absolute Variant = iota
	// Relative starts from zero and yields the movement only.
	Relative
)

// Contribution is the signed effect of t on accountID: +CreditAmount on the
// credited side, -Amount on the debited side, zero for split lines and for
// transactions that do not touch the account.
func Contribution(accountID uuid.UUID, t Transaction) decimal.Decimal {
	if t.IsSplit() {
		return decimal.Zero
	}

	switch accountID {
	case t.Credit.AccountID:
		return t.CreditAmount
	case t.Debit.AccountID:
		return t.Amount.Neg()
	}

	return decimal.Zero
}

// Balance sums the contributions of the transactions selected by include.
// It is pure: the result depends only on its arguments.
func Balance(a Account, variant Variant, txs []Transaction, include Predicate) decimal.Decimal {
	sum := decimal.Zero
	if variant == Absolute {
		sum = a.Initial()
	}

	for _, t := range txs {
		if !include(t) {
			continue
		}

		sum = sum.Add(Contribution(a.ID, t))
	}

	return sum
}

// ComputeBalances returns a with Total (every entry) and TotalWaiting
// (confirmed entries only) derived from txs.
func ComputeBalances(a Account, txs []Transaction) Account {
	return a.withBalances(
		Balance(a, Absolute, txs, All),
		Balance(a, Absolute, txs, Confirmed),
	)
}

// Movement is the change of a's balance since its opening state.
func Movement(a Account, txs []Transaction) decimal.Decimal {
	return Balance(a, Relative, txs, All)
}

// BalancesMatch reports whether the stored totals of a equal the derived ones.
func BalancesMatch(a Account, txs []Transaction) bool {
	want := ComputeBalances(a, txs)
	return want.Total.Equal(a.Total) && want.TotalWaiting.Equal(a.TotalWaiting)
}
