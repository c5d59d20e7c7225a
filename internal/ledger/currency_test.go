package ledger_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/homeledger/internal/ledger"
)

func TestCurrency_Format(t *testing.T) {
	two := 2
	zero := 0

	type testCase struct {
		name   string
		params ledger.CurrencyParams
		amount string
		want   string
	}

	tests := []testCase{
		{
			name: "euro with european separators",
			params: ledger.CurrencyParams{
				Code: "eur", Symbol: "€", Template: "1 $", Fraction: &two, DecimalSep: ",", ThousandSep: ".",
			},
			amount: "1234.5",
			want:   "1.234,50 €",
		},
		{
			name:   "defaults",
			params: ledger.CurrencyParams{Code: "USD", Symbol: "$"},
			amount: "-12.345",
			want:   "-$12.35",
		},
		{
			name:   "no fraction",
			params: ledger.CurrencyParams{Code: "JPY", Symbol: "¥", Fraction: &zero, ThousandSep: ","},
			amount: "1500000",
			want:   "¥1,500,000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := ledger.NewCurrency(tt.params)
			require.NoError(t, err)
			assert.Equal(t, tt.want, c.Format(dec(tt.amount)))
		})
	}
}

func TestExchangeRate(t *testing.T) {
	eur, err := ledger.NewCurrency(ledger.CurrencyParams{Code: "EUR", Default: true})
	require.NoError(t, err)

	usd, err := ledger.NewCurrency(ledger.CurrencyParams{Code: "USD", Rate: dec("0.5")})
	require.NoError(t, err)

	gbp, err := ledger.NewCurrency(ledger.CurrencyParams{Code: "GBP", Rate: dec("4"), Direction: ledger.RateDivide})
	require.NoError(t, err)

	assert.True(t, dec("2").Equal(ledger.ExchangeRate(eur, usd)))
	assert.True(t, dec("0.5").Equal(ledger.ExchangeRate(usd, eur)))
	assert.True(t, dec("4").Equal(ledger.ExchangeRate(eur, gbp)))
	assert.True(t, dec("0.5").Equal(ledger.ExchangeRate(gbp, usd)), "got %s", ledger.ExchangeRate(gbp, usd))
	assert.True(t, dec("1").Equal(ledger.ExchangeRate(usd, usd)))
}

func TestNewCurrency_Validation(t *testing.T) {
	bad := 9

	_, err := ledger.NewCurrency(ledger.CurrencyParams{Code: " "})
	assert.ErrorIs(t, err, ledger.ErrValidation)

	_, err = ledger.NewCurrency(ledger.CurrencyParams{Code: "EUR", Fraction: &bad})
	assert.ErrorIs(t, err, ledger.ErrValidation)

	_, err = ledger.NewCurrency(ledger.CurrencyParams{Code: "EUR", Rate: dec("-1")})
	assert.ErrorIs(t, err, ledger.ErrValidation)

	_, err = ledger.NewCurrency(ledger.CurrencyParams{Code: "EUR", Template: "$"})
	assert.ErrorIs(t, err, ledger.ErrValidation)
}

func TestNewAccount(t *testing.T) {
	cat := uuid.New()

	a, err := ledger.NewAccount(ledger.AccountParams{
		Name:           "  Checking ",
		CategoryID:     cat,
		OpeningBalance: dec("100"),
		Limit:          dec("500"),
		Enabled:        true,
	})
	require.NoError(t, err)

	assert.Equal(t, "Checking", a.Name)
	assert.NotEqual(t, uuid.Nil, a.ID)
	assert.True(t, dec("600").Equal(a.Total))
	assert.True(t, dec("600").Equal(a.TotalWaiting))
	assert.False(t, a.IsClosed())

	revised, err := a.Revise(ledger.AccountParams{Name: "Main", CategoryID: cat, OpeningBalance: dec("1")})
	require.NoError(t, err)
	assert.Equal(t, a.ID, revised.ID)
	assert.Equal(t, a.CreatedAt, revised.CreatedAt)
	assert.True(t, a.Total.Equal(revised.Total), "totals are left to the posting service")

	_, err = ledger.NewAccount(ledger.AccountParams{Name: "", CategoryID: cat})
	assert.ErrorIs(t, err, ledger.ErrValidation)

	_, err = ledger.NewAccount(ledger.AccountParams{Name: "No category"})
	assert.ErrorIs(t, err, ledger.ErrValidation)
}

func TestNewCategory_RejectsBlankName(t *testing.T) {
	_, err := ledger.NewCategory(ledger.CategoryParams{Name: "\t", Type: ledger.CategoryExpenses})
	assert.ErrorIs(t, err, ledger.ErrValidation)

	_, err = ledger.NewCategory(ledger.CategoryParams{Name: "Food", Type: "food"})
	assert.ErrorIs(t, err, ledger.ErrValidation)

	c, err := ledger.NewCategory(ledger.CategoryParams{Name: "Food", Type: ledger.CategoryExpenses})
	require.NoError(t, err)
	assert.Equal(t, c.CreatedAt, c.ModifiedAt)
}

func TestNewContact_DefaultsType(t *testing.T) {
	c, err := ledger.NewContact(ledger.ContactParams{Name: "Alice"})
	require.NoError(t, err)
	assert.Equal(t, ledger.ContactPersonal, c.Type)
}
