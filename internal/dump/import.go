package dump

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/MrJamesThe3rd/homeledger/internal/ledger"
	"github.com/MrJamesThe3rd/homeledger/internal/posting"
)

var (
	ErrFormat = errors.New("not a ledger dump")
	// ErrMalformed wraps every error Service.Import reports before touching the store.
	ErrMalformed = errors.New("malformed dump")
)

// Parse reads a dump in any common charset into a batch for posting.Import.
func Parse(r io.Reader) (posting.Batch, error) {
	b, _, err := parse(r)
	return b, err
}

func parse(r io.Reader) (posting.Batch, string, error) {
	utf8r, charset, err := utf8Reader(r)
	if err != nil {
		return posting.Batch{}, "", fmt.Errorf("detect encoding: %w", err)
	}

	reader := csv.NewReader(utf8r)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return posting.Batch{}, charset, fmt.Errorf("read csv: %w", err)
	}

	if len(rows) == 0 || len(rows[0]) != 2 || rows[0][0] != header {
		return posting.Batch{}, charset, ErrFormat
	}

	if v, err := strconv.Atoi(rows[0][1]); err != nil || v != Version {
		return posting.Batch{}, charset, fmt.Errorf("%w: unsupported version %q", ErrFormat, rows[0][1])
	}

	var b posting.Batch

	for i, row := range rows[1:] {
		line := i + 2

		if len(row) == 0 || (len(row) == 1 && strings.TrimSpace(row[0]) == "") {
			continue
		}

		width, ok := recordWidth[row[0]]
		if !ok {
			return posting.Batch{}, charset, fmt.Errorf("line %d: unknown record kind %q", line, row[0])
		}

		if len(row) != width {
			return posting.Batch{}, charset, fmt.Errorf("line %d: %s record has %d fields, want %d", line, row[0], len(row), width)
		}

		f := &fields{row: row, pos: 1, line: line}

		err := parseRecord(&b, row[0], f)
		if f.err != nil {
			return posting.Batch{}, charset, f.err
		}

		if err != nil {
			return posting.Batch{}, charset, fmt.Errorf("line %d: %w", line, err)
		}
	}

	return b, charset, nil
}

func parseRecord(b *posting.Batch, kind string, f *fields) error {
	switch kind {
	case kindCategory:
		c, err := ledger.NewCategory(ledger.CategoryParams{
			ID:         f.id("id"),
			Name:       f.str(),
			Type:       ledger.CategoryType(f.str()),
			Icon:       f.str(),
			Comment:    f.str(),
			CreatedAt:  f.timestamp("created_at"),
			ModifiedAt: f.timestamp("modified_at"),
		})
		if err != nil {
			return err
		}

		b.Categories = append(b.Categories, c)

	case kindCurrency:
		p := ledger.CurrencyParams{
			ID:          f.id("id"),
			Code:        f.str(),
			Description: f.str(),
			Symbol:      f.str(),
			Template:    f.str(),
		}

		fraction := f.integer("fraction")
		p.Fraction = &fraction
		p.DecimalSep = f.str()
		p.ThousandSep = f.str()
		p.Default = f.boolean("default")
		p.Rate = f.decimal("rate")
		p.Direction = ledger.RateDirection(f.str())
		p.CreatedAt = f.timestamp("created_at")
		p.ModifiedAt = f.timestamp("modified_at")

		c, err := ledger.NewCurrency(p)
		if err != nil {
			return err
		}

		b.Currencies = append(b.Currencies, c)

	case kindContact:
		c, err := ledger.NewContact(ledger.ContactParams{
			ID:         f.id("id"),
			Name:       f.str(),
			Type:       ledger.ContactType(f.str()),
			Phone:      f.str(),
			Email:      f.str(),
			Icon:       f.str(),
			Comment:    f.str(),
			CreatedAt:  f.timestamp("created_at"),
			ModifiedAt: f.timestamp("modified_at"),
		})
		if err != nil {
			return err
		}

		b.Contacts = append(b.Contacts, c)

	case kindAccount:
		p := ledger.AccountParams{
			ID:             f.id("id"),
			Name:           f.str(),
			CategoryID:     f.id("category_id"),
			CurrencyID:     f.nullID("currency_id"),
			OpeningBalance: f.decimal("opening_balance"),
			Limit:          f.decimal("limit"),
			Interest:       f.decimal("interest"),
			Enabled:        f.boolean("enabled"),
			Closed:         f.date("closed"),
		}

		// Totals are recomputed on import.
		f.next()
		f.next()

		p.Comment = f.str()
		p.CreatedAt = f.timestamp("created_at")
		p.ModifiedAt = f.timestamp("modified_at")

		a, err := ledger.NewAccount(p)
		if err != nil {
			return err
		}

		b.Accounts = append(b.Accounts, a)

	case kindTransaction:
		t := ledger.Transaction{
			ID:           f.id("id"),
			Date:         f.date("date"),
			Type:         ledger.TransactionType(f.str()),
			Amount:       f.decimal("amount"),
			CreditAmount: f.decimal("credit_amount"),
			Rate:         f.decimal("rate"),
			Debit: ledger.Leg{
				AccountID:    f.id("debit_account_id"),
				CategoryID:   f.id("debit_category_id"),
				CategoryType: ledger.CategoryType(f.str()),
			},
			Credit: ledger.Leg{
				AccountID:    f.id("credit_account_id"),
				CategoryID:   f.id("credit_category_id"),
				CategoryType: ledger.CategoryType(f.str()),
			},
			ContactID:  f.nullID("contact_id"),
			ParentID:   f.nullID("parent_id"),
			Checked:    f.boolean("checked"),
			Comment:    f.str(),
			CreatedAt:  f.timestamp("created_at"),
			ModifiedAt: f.timestamp("modified_at"),
		}

		if err := t.Params().Validate(); err != nil {
			return err
		}

		b.Transactions = append(b.Transactions, t)
	}

	return nil
}
