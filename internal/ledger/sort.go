package ledger

import (
	"bytes"
	"cmp"
	"slices"
	"strings"
)

// SortTransactions orders txs by date, then creation time, then id.
func SortTransactions(txs []Transaction) {
	slices.SortFunc(txs, func(a, b Transaction) int {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}

		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}

		return bytes.Compare(a.ID[:], b.ID[:])
	})
}

// SortAccounts orders accounts by name, case-insensitively, then id.
func SortAccounts(accounts []Account) {
	slices.SortFunc(accounts, func(a, b Account) int {
		if c := cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)); c != 0 {
			return c
		}

		return bytes.Compare(a.ID[:], b.ID[:])
	})
}

func SortCategories(categories []Category) {
	slices.SortFunc(categories, func(a, b Category) int {
		if c := cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)); c != 0 {
			return c
		}

		return bytes.Compare(a.ID[:], b.ID[:])
	})
}

func SortCurrencies(currencies []Currency) {
	slices.SortFunc(currencies, func(a, b Currency) int {
		if c := cmp.Compare(a.Code, b.Code); c != 0 {
			return c
		}

		return bytes.Compare(a.ID[:], b.ID[:])
	})
}

func SortContacts(contacts []Contact) {
	slices.SortFunc(contacts, func(a, b Contact) int {
		if c := cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)); c != 0 {
			return c
		}

		return bytes.Compare(a.ID[:], b.ID[:])
	})
}
