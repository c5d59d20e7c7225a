package cache

import (
	"maps"
	"slices"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/homeledger/internal/ledger"
)

func (c *Cache) Account(id uuid.UUID) (ledger.Account, bool) {
	a, ok := c.snap.Load().accounts[id]
	return a, ok
}

// Accounts returns every account ordered by name.
func (c *Cache) Accounts() []ledger.Account {
	accounts := slices.Collect(maps.Values(c.snap.Load().accounts))
	ledger.SortAccounts(accounts)

	return accounts
}

func (c *Cache) Transaction(id uuid.UUID) (ledger.Transaction, bool) {
	t, ok := c.snap.Load().transactions[id]
	return t, ok
}

// Transactions returns every transaction, split lines included, in ledger order.
func (c *Cache) Transactions() []ledger.Transaction {
	txs := slices.Collect(maps.Values(c.snap.Load().transactions))
	ledger.SortTransactions(txs)

	return txs
}

// TransactionsForAccount returns the transactions with accountID on either side.
func (c *Cache) TransactionsForAccount(accountID uuid.UUID) []ledger.Transaction {
	s := c.snap.Load()
	return collect(s, s.byAccount[accountID])
}

// Children returns the split lines of parentID.
func (c *Cache) Children(parentID uuid.UUID) []ledger.Transaction {
	s := c.snap.Load()
	return collect(s, s.children[parentID])
}

func collect(s *snapshot, ids []uuid.UUID) []ledger.Transaction {
	txs := make([]ledger.Transaction, 0, len(ids))
	for _, id := range ids {
		txs = append(txs, s.transactions[id])
	}

	ledger.SortTransactions(txs)

	return txs
}

func (c *Cache) Category(id uuid.UUID) (ledger.Category, bool) {
	cat, ok := c.snap.Load().categories[id]
	return cat, ok
}

func (c *Cache) Categories() []ledger.Category {
	categories := slices.Collect(maps.Values(c.snap.Load().categories))
	ledger.SortCategories(categories)

	return categories
}

func (c *Cache) Currency(id uuid.UUID) (ledger.Currency, bool) {
	cur, ok := c.snap.Load().currencies[id]
	return cur, ok
}

func (c *Cache) Currencies() []ledger.Currency {
	currencies := slices.Collect(maps.Values(c.snap.Load().currencies))
	ledger.SortCurrencies(currencies)

	return currencies
}

func (c *Cache) Contact(id uuid.UUID) (ledger.Contact, bool) {
	ct, ok := c.snap.Load().contacts[id]
	return ct, ok
}

func (c *Cache) Contacts() []ledger.Contact {
	contacts := slices.Collect(maps.Values(c.snap.Load().contacts))
	ledger.SortContacts(contacts)

	return contacts
}
