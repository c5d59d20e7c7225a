// Package dump writes the whole ledger to a flat `;`-separated file and reads
// it back. Every record starts with its kind; materialized account totals are
// written for reference but recomputed on import.
package dump

import (
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	header = "homeledger dump"
	// Version is bumped whenever a record layout changes.
	Version = 1

	kindCategory    = "category"
	kindCurrency    = "currency"
	kindContact     = "contact"
	kindAccount     = "account"
	kindTransaction = "transaction"

	dateLayout = "2006-01-02"
)

// Field counts per record, kind included.
var recordWidth = map[string]int{
	kindCategory:    8,
	kindCurrency:    14,
	kindContact:     10,
	kindAccount:     15,
	kindTransaction: 19,
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	return t.Format(dateLayout)
}

func formatNullUUID(id uuid.NullUUID) string {
	if !id.Valid {
		return ""
	}

	return id.UUID.String()
}

// fields walks one record and remembers the first parse error.
type fields struct {
	row  []string
	pos  int
	line int
	err  error
}

func (f *fields) fail(name, value string, err error) {
	if f.err == nil {
		f.err = fmt.Errorf("line %d: field %s %q: %w", f.line, name, value, err)
	}
}

func (f *fields) next() string {
	v := f.row[f.pos]
	f.pos++

	return v
}

func (f *fields) str() string {
	return f.next()
}

func (f *fields) id(name string) uuid.UUID {
	v := f.next()

	id, err := uuid.Parse(v)
	if err != nil {
		f.fail(name, v, err)
	}

	return id
}

func (f *fields) nullID(name string) uuid.NullUUID {
	v := f.next()
	if v == "" {
		return uuid.NullUUID{}
	}

	id, err := uuid.Parse(v)
	if err != nil {
		f.fail(name, v, err)
	}

	return uuid.NullUUID{UUID: id, Valid: true}
}

func (f *fields) decimal(name string) decimal.Decimal {
	v := f.next()
	if v == "" {
		return decimal.Zero
	}

	d, err := decimal.NewFromString(v)
	if err != nil {
		f.fail(name, v, err)
	}

	return d
}

func (f *fields) integer(name string) int {
	v := f.next()

	n, err := strconv.Atoi(v)
	if err != nil {
		f.fail(name, v, err)
	}

	return n
}

func (f *fields) boolean(name string) bool {
	v := f.next()

	b, err := strconv.ParseBool(v)
	if err != nil {
		f.fail(name, v, err)
	}

	return b
}

func (f *fields) timestamp(name string) time.Time {
	v := f.next()

	t, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		f.fail(name, v, err)
	}

	return t.UTC()
}

func (f *fields) date(name string) time.Time {
	v := f.next()
	if v == "" {
		return time.Time{}
	}

	t, err := time.Parse(dateLayout, v)
	if err != nil {
		f.fail(name, v, err)
	}

	return t
}
