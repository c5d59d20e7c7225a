package ledger

import (
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RateDirection tells how Currency.Rate converts an amount into the default currency.
type RateDirection string

const (
	// RateMultiply means amount * rate is the value in the default currency.
	RateMultiply RateDirection = "multiply"
	// RateDivide means amount / rate is the value in the default currency.
	RateDivide RateDirection = "divide"
)

// Currency carries display formatting and the conversion rate relative to the
// default currency.
type Currency struct {
	ID          uuid.UUID
	Code        string
	Description string
	// Symbol replaces "$" in Template; "1" in Template is the formatted number.
	Symbol      string
	Template    string
	Fraction    int
	DecimalSep  string
	ThousandSep string
	Default     bool
	Rate        decimal.Decimal
	Direction   RateDirection
	CreatedAt   time.Time
	ModifiedAt  time.Time
}

type CurrencyParams struct {
	ID          uuid.UUID
	Code        string
	Description string
	Symbol      string
	Template    string
	Fraction    *int
	DecimalSep  string
	ThousandSep string
	Default     bool
	Rate        decimal.Decimal
	Direction   RateDirection
	CreatedAt   time.Time
	ModifiedAt  time.Time
}

const maxFraction = 8

func NewCurrency(p CurrencyParams) (Currency, error) {
	code := strings.ToUpper(strings.TrimSpace(p.Code))
	if code == "" {
		return Currency{}, invalid("code", "must not be blank")
	}

	fraction := 2
	if p.Fraction != nil {
		fraction = *p.Fraction
	}

	if fraction < 0 || fraction > maxFraction {
		return Currency{}, invalid("fraction", "must be between 0 and %d", maxFraction)
	}

	rate := p.Rate
	if rate.IsZero() {
		rate = decimal.NewFromInt(1)
	}

	if rate.IsNegative() {
		return Currency{}, invalid("rate", "must be positive")
	}

	direction := p.Direction
	if direction == "" {
		direction = RateMultiply
	}

	if direction != RateMultiply && direction != RateDivide {
		return Currency{}, invalid("direction", "unknown rate direction %q", direction)
	}

	template := p.Template
	if template == "" {
		template = "$1"
	}

	if !strings.Contains(template, "1") {
		return Currency{}, invalid("template", "must contain the amount placeholder 1")
	}

	symbol := p.Symbol
	if symbol == "" {
		symbol = code
	}

	decimalSep := p.DecimalSep
	if decimalSep == "" {
		decimalSep = "."
	}

	created := timestamp(p.CreatedAt)

	modified := created
	if !p.ModifiedAt.IsZero() {
		modified = timestamp(p.ModifiedAt)
	}

	return Currency{
		ID:          newID(p.ID),
		Code:        code,
		Description: p.Description,
		Symbol:      symbol,
		Template:    template,
		Fraction:    fraction,
		DecimalSep:  decimalSep,
		ThousandSep: p.ThousandSep,
		Default:     p.Default,
		Rate:        rate,
		Direction:   direction,
		CreatedAt:   created,
		ModifiedAt:  modified,
	}, nil
}

func (c Currency) Revise(p CurrencyParams) (Currency, error) {
	p.ID = c.ID
	p.CreatedAt = c.CreatedAt
	p.ModifiedAt = now()

	return NewCurrency(p)
}

// Format renders amount with the currency's template, rounded to its fraction digits.
func (c Currency) Format(amount decimal.Decimal) string {
	minor := amount.Shift(int32(c.Fraction)).Round(0).IntPart()
	f := money.NewFormatter(c.Fraction, c.DecimalSep, c.ThousandSep, c.Symbol, c.Template)

	return f.Format(minor)
}

func (c Currency) toDefault(amount decimal.Decimal) decimal.Decimal {
	if c.Direction == RateDivide {
		return amount.Div(c.Rate)
	}

	return amount.Mul(c.Rate)
}

func (c Currency) fromDefault(amount decimal.Decimal) decimal.Decimal {
	if c.Direction == RateDivide {
		return amount.Mul(c.Rate)
	}

	return amount.Div(c.Rate)
}

// RateScale is the number of decimal places kept on a derived exchange rate.
const RateScale = 10

// ExchangeRate returns how many units of to one unit of from is worth,
// going through the default currency.
func ExchangeRate(from, to Currency) decimal.Decimal {
	one := decimal.NewFromInt(1)
	if from.ID == to.ID {
		return one
	}

	return to.fromDefault(from.toDefault(one))
}
