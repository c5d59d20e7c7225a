package ledger

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Account is a ledger account. Total and TotalWaiting are materialized from
// the account's transactions and are only ever written by the posting service.
type Account struct {
	ID             uuid.UUID
	Name           string
	Comment        string
	CategoryID     uuid.UUID
	CurrencyID     uuid.NullUUID // invalid: denominated in a tradable instrument
	OpeningBalance decimal.Decimal
	Limit          decimal.Decimal
	Interest       decimal.Decimal
	Enabled        bool
	Closed         time.Time // zero while the account is open
	Total          decimal.Decimal
	TotalWaiting   decimal.Decimal
	CreatedAt      time.Time
	ModifiedAt     time.Time
}

type AccountParams struct {
	ID             uuid.UUID
	Name           string
	Comment        string
	CategoryID     uuid.UUID
	CurrencyID     uuid.NullUUID
	OpeningBalance decimal.Decimal
	Limit          decimal.Decimal
	Interest       decimal.Decimal
	Enabled        bool
	Closed         time.Time
	CreatedAt      time.Time
	ModifiedAt     time.Time
}

// NewAccount builds an account with no transactions: both totals start at
// OpeningBalance + Limit.
func NewAccount(p AccountParams) (Account, error) {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return Account{}, invalid("name", "must not be blank")
	}

	if p.CategoryID == uuid.Nil {
		return Account{}, invalid("category", "is required")
	}

	if p.CurrencyID.Valid && p.CurrencyID.UUID == uuid.Nil {
		return Account{}, invalid("currency", "must not be the nil id")
	}

	if p.Limit.IsNegative() {
		return Account{}, invalid("limit", "must not be negative")
	}

	closed := p.Closed
	if !closed.IsZero() {
		closed = calendarDate(closed)
	}

	created := timestamp(p.CreatedAt)

	modified := created
	if !p.ModifiedAt.IsZero() {
		modified = timestamp(p.ModifiedAt)
	}

	a := Account{
		ID:             newID(p.ID),
		Name:           name,
		Comment:        p.Comment,
		CategoryID:     p.CategoryID,
		CurrencyID:     p.CurrencyID,
		OpeningBalance: p.OpeningBalance,
		Limit:          p.Limit,
		Interest:       p.Interest,
		Enabled:        p.Enabled,
		Closed:         closed,
		CreatedAt:      created,
		ModifiedAt:     modified,
	}
	a.Total = a.Initial()
	a.TotalWaiting = a.Initial()

	return a, nil
}

// Revise returns a copy of a with p applied. Identity, creation time and the
// materialized totals are kept; the posting service recomputes the totals.
func (a Account) Revise(p AccountParams) (Account, error) {
	p.ID = a.ID
	p.CreatedAt = a.CreatedAt
	p.ModifiedAt = now()

	next, err := NewAccount(p)
	if err != nil {
		return Account{}, err
	}

	next.Total = a.Total
	next.TotalWaiting = a.TotalWaiting

	return next, nil
}

// Params returns the constructor input that reproduces a.
func (a Account) Params() AccountParams {
	return AccountParams{
		ID:             a.ID,
		Name:           a.Name,
		Comment:        a.Comment,
		CategoryID:     a.CategoryID,
		CurrencyID:     a.CurrencyID,
		OpeningBalance: a.OpeningBalance,
		Limit:          a.Limit,
		Interest:       a.Interest,
		Enabled:        a.Enabled,
		Closed:         a.Closed,
		CreatedAt:      a.CreatedAt,
		ModifiedAt:     a.ModifiedAt,
	}
}

// Initial is the starting point of the absolute balance.
func (a Account) Initial() decimal.Decimal {
	return a.OpeningBalance.Add(a.Limit)
}

func (a Account) IsClosed() bool {
	return !a.Closed.IsZero()
}

func (a Account) withBalances(total, waiting decimal.Decimal) Account {
	a.Total = total
	a.TotalWaiting = waiting

	return a
}
