package ledger

import (
	"bytes"
	"slices"
	"time"

	"github.com/google/uuid"
)

var now = time.Now

// timestamp normalizes t to the precision the durable store keeps, so a value
// read back from the store equals the one that was written.
func timestamp(t time.Time) time.Time {
	if t.IsZero() {
		t = now()
	}

	return t.UTC().Truncate(time.Microsecond)
}

// calendarDate drops the clock part of t.
func calendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newID(id uuid.UUID) uuid.UUID {
	if id == uuid.Nil {
		return uuid.New()
	}

	return id
}

// SortIDs orders ids byte-wise, which matches the store's uuid ordering.
// Row locks are always taken in this order.
func SortIDs(ids []uuid.UUID) []uuid.UUID {
	out := slices.Clone(ids)
	slices.SortFunc(out, func(a, b uuid.UUID) int {
		return bytes.Compare(a[:], b[:])
	})

	return slices.Compact(out)
}
