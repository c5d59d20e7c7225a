package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType tags what a transaction represents.
type TransactionType string

const (
	TypePayment    TransactionType = "payment"
	TypeTransfer   TransactionType = "transfer"
	TypeDeposit    TransactionType = "deposit"
	TypeWithdrawal TransactionType = "withdrawal"
	TypeFee        TransactionType = "fee"
	TypeInterest   TransactionType = "interest"
	TypeDividend   TransactionType = "dividend"
	TypePurchase   TransactionType = "purchase"
	TypeSale       TransactionType = "sale"
	TypeIncome     TransactionType = "income"
	TypeRefund     TransactionType = "refund"
)

func (t TransactionType) Valid() bool {
	switch t {
	case TypePayment, TypeTransfer, TypeDeposit, TypeWithdrawal, TypeFee, TypeInterest,
		TypeDividend, TypePurchase, TypeSale, TypeIncome, TypeRefund:
		return true
	}

	return false
}

// Leg is one side of a transaction. The category fields are a snapshot taken
// when the leg was recorded and do not follow later account changes.
type Leg struct {
	AccountID    uuid.UUID
	CategoryID   uuid.UUID
	CategoryType CategoryType
}

// Endpoint is what a leg needs to know about its account at build time.
type Endpoint struct {
	Leg        Leg
	CurrencyID uuid.NullUUID
}

// NewEndpoint snapshots account a and its category c.
func NewEndpoint(a Account, c Category) (Endpoint, error) {
	if a.CategoryID != c.ID {
		return Endpoint{}, invalid("category", "account %s does not belong to category %s", a.ID, c.ID)
	}

	return Endpoint{
		Leg: Leg{
			AccountID:    a.ID,
			CategoryID:   c.ID,
			CategoryType: c.Type,
		},
		CurrencyID: a.CurrencyID,
	}, nil
}

// Converts reports whether amounts between the two endpoints need an exchange rate.
// An endpoint without a currency is a tradable instrument linked 1:1 to the other side.
func Converts(debit, credit Endpoint) bool {
	if !debit.CurrencyID.Valid || !credit.CurrencyID.Valid {
		return false
	}

	return debit.CurrencyID.UUID != credit.CurrencyID.UUID
}

// Transaction moves Amount out of the debited account and CreditAmount into
// the credited one. A transaction with a parent is a split line of that parent.
type Transaction struct {
	ID           uuid.UUID
	Amount       decimal.Decimal
	CreditAmount decimal.Decimal
	Rate         decimal.Decimal
	Date         time.Time
	Type         TransactionType
	Debit        Leg
	Credit       Leg
	ContactID    uuid.NullUUID
	ParentID     uuid.NullUUID
	Checked      bool
	Comment      string
	CreatedAt    time.Time
	ModifiedAt   time.Time
}

type TransactionParams struct {
	ID              uuid.UUID
	Amount          decimal.Decimal
	Rate            decimal.Decimal // zero lets the caller derive it when currencies differ
	Date            time.Time
	Type            TransactionType
	DebitAccountID  uuid.UUID
	CreditAccountID uuid.UUID
	ContactID       uuid.NullUUID
	ParentID        uuid.NullUUID
	Checked         bool
	Comment         string
	CreatedAt       time.Time
	ModifiedAt      time.Time
}

// Validate checks everything that can be checked without looking up other entities.
func (p TransactionParams) Validate() error {
	if p.Amount.IsNegative() {
		return invalid("amount", "must not be negative")
	}

	if p.Rate.IsNegative() {
		return invalid("rate", "must not be negative")
	}

	if p.Date.IsZero() {
		return invalid("date", "is required")
	}

	if !p.Type.Valid() {
		return invalid("type", "unknown transaction type %q", p.Type)
	}

	if p.DebitAccountID == uuid.Nil || p.CreditAccountID == uuid.Nil {
		return invalid("account", "debited and credited accounts are required")
	}

	if p.DebitAccountID == p.CreditAccountID {
		return invalid("account", "debited and credited accounts must differ")
	}

	if p.ParentID.Valid && p.ID != uuid.Nil && p.ParentID.UUID == p.ID {
		return invalid("parent", "a transaction cannot be its own parent")
	}

	return nil
}

// NewTransaction builds a transaction between two endpoints. When both sides
// share a currency the rate is forced to 1 and CreditAmount equals Amount;
// otherwise CreditAmount is Amount * Rate and Rate must be positive.
func NewTransaction(p TransactionParams, debit, credit Endpoint) (Transaction, error) {
	if err := p.Validate(); err != nil {
		return Transaction{}, err
	}

	if debit.Leg.AccountID != p.DebitAccountID || credit.Leg.AccountID != p.CreditAccountID {
		return Transaction{}, invalid("account", "endpoints do not match the requested accounts")
	}

	rate := decimal.NewFromInt(1)
	if Converts(debit, credit) {
		if !p.Rate.IsPositive() {
			return Transaction{}, invalid("rate", "is required when currencies differ")
		}

		rate = p.Rate
	}

	created := timestamp(p.CreatedAt)

	modified := created
	if !p.ModifiedAt.IsZero() {
		modified = timestamp(p.ModifiedAt)
	}

	id := newID(p.ID)
	if p.ParentID.Valid && p.ParentID.UUID == id {
		return Transaction{}, invalid("parent", "a transaction cannot be its own parent")
	}

	return Transaction{
		ID:           id,
		Amount:       p.Amount,
		CreditAmount: p.Amount.Mul(rate),
		Rate:         rate,
		Date:         calendarDate(p.Date),
		Type:         p.Type,
		Debit:        debit.Leg,
		Credit:       credit.Leg,
		ContactID:    p.ContactID,
		ParentID:     p.ParentID,
		Checked:      p.Checked,
		Comment:      p.Comment,
		CreatedAt:    created,
		ModifiedAt:   modified,
	}, nil
}

// Equal reports whether t and o hold the same values.
func (t Transaction) Equal(o Transaction) bool {
	return t.ID == o.ID &&
		t.Amount.Equal(o.Amount) &&
		t.CreditAmount.Equal(o.CreditAmount) &&
		t.Rate.Equal(o.Rate) &&
		t.Date.Equal(o.Date) &&
		t.Type == o.Type &&
		t.Debit == o.Debit &&
		t.Credit == o.Credit &&
		t.ContactID == o.ContactID &&
		t.ParentID == o.ParentID &&
		t.Checked == o.Checked &&
		t.Comment == o.Comment &&
		t.CreatedAt.Equal(o.CreatedAt) &&
		t.ModifiedAt.Equal(o.ModifiedAt)
}

// Revise returns a copy of t with p applied. A leg whose account does not
// change keeps its original category snapshot.
func (t Transaction) Revise(p TransactionParams, debit, credit Endpoint) (Transaction, error) {
	p.ID = t.ID
	p.CreatedAt = t.CreatedAt
	p.ModifiedAt = now()

	if debit.Leg.AccountID == t.Debit.AccountID {
		debit.Leg = t.Debit
	}

	if credit.Leg.AccountID == t.Credit.AccountID {
		credit.Leg = t.Credit
	}

	return NewTransaction(p, debit, credit)
}

// Params returns the constructor input that reproduces t.
func (t Transaction) Params() TransactionParams {
	return TransactionParams{
		ID:              t.ID,
		Amount:          t.Amount,
		Rate:            t.Rate,
		Date:            t.Date,
		Type:            t.Type,
		DebitAccountID:  t.Debit.AccountID,
		CreditAccountID: t.Credit.AccountID,
		ContactID:       t.ContactID,
		ParentID:        t.ParentID,
		Checked:         t.Checked,
		Comment:         t.Comment,
		CreatedAt:       t.CreatedAt,
		ModifiedAt:      t.ModifiedAt,
	}
}

// WithChecked returns a copy of t with the confirmed flag set to checked.
func (t Transaction) WithChecked(checked bool) Transaction {
	t.Checked = checked
	t.ModifiedAt = timestamp(time.Time{})

	return t
}

// IsSplit reports whether t is a detail line of another transaction.
func (t Transaction) IsSplit() bool {
	return t.ParentID.Valid
}

// Touches reports whether accountID is on either side of t.
func (t Transaction) Touches(accountID uuid.UUID) bool {
	return t.Debit.AccountID == accountID || t.Credit.AccountID == accountID
}

// AccountIDs returns the ids of the accounts referenced by txs, without duplicates.
func AccountIDs(txs ...Transaction) []uuid.UUID {
	ids := make([]uuid.UUID, 0, 2*len(txs))
	for _, t := range txs {
		ids = append(ids, t.Debit.AccountID, t.Credit.AccountID)
	}

	return SortIDs(ids)
}
