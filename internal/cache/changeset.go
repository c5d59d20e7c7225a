package cache

import (
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/homeledger/internal/ledger"
)

// Changeset is the exact set of rows one committed unit wrote or removed.
type Changeset struct {
	Accounts     []ledger.Account
	Transactions []ledger.Transaction
	Categories   []ledger.Category
	Currencies   []ledger.Currency
	Contacts     []ledger.Contact

	DeletedAccounts     []uuid.UUID
	DeletedTransactions []uuid.UUID
	DeletedCategories   []uuid.UUID
	DeletedCurrencies   []uuid.UUID
	DeletedContacts     []uuid.UUID
}

func (cs Changeset) Empty() bool {
	return len(cs.Accounts) == 0 && len(cs.Transactions) == 0 && len(cs.Categories) == 0 &&
		len(cs.Currencies) == 0 && len(cs.Contacts) == 0 &&
		len(cs.DeletedAccounts) == 0 && len(cs.DeletedTransactions) == 0 &&
		len(cs.DeletedCategories) == 0 && len(cs.DeletedCurrencies) == 0 &&
		len(cs.DeletedContacts) == 0
}

// Size is the number of rows the changeset touches.
func (cs Changeset) Size() int {
	return len(cs.Accounts) + len(cs.Transactions) + len(cs.Categories) +
		len(cs.Currencies) + len(cs.Contacts) +
		len(cs.DeletedAccounts) + len(cs.DeletedTransactions) +
		len(cs.DeletedCategories) + len(cs.DeletedCurrencies) + len(cs.DeletedContacts)
}
