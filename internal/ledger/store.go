package ledger

import (
	"context"

	"github.com/google/uuid"
)

// Store opens atomic units of work against the durable store.
//
//go:generate mockgen -source=store.go -destination=store_mock.go -package=ledger
type Store interface {
	// Begin opens a read-write unit.
	Begin(ctx context.Context) (Tx, error)
	// Snapshot opens a read-only unit that sees one consistent state.
	Snapshot(ctx context.Context) (Tx, error)
}

// Tx is one atomic unit. Nothing written through it is visible to other
// units until Commit; Rollback discards everything and is a no-op after Commit.
type Tx interface {
	// LockAccounts blocks until this unit holds a write lock on every listed
	// account. Callers pass ids in SortIDs order.
	LockAccounts(ctx context.Context, ids []uuid.UUID) error

	GetAccount(ctx context.Context, id uuid.UUID) (Account, error)
	ListAccounts(ctx context.Context) ([]Account, error)
	InsertAccount(ctx context.Context, a Account) error
	UpdateAccount(ctx context.Context, a Account) error
	DeleteAccount(ctx context.Context, id uuid.UUID) error

	// GetTransaction also locks the row when called on a read-write unit.
	GetTransaction(ctx context.Context, id uuid.UUID) (Transaction, error)
	ListTransactions(ctx context.Context) ([]Transaction, error)
	TransactionsByAccount(ctx context.Context, accountID uuid.UUID) ([]Transaction, error)
	ChildTransactions(ctx context.Context, parentID uuid.UUID) ([]Transaction, error)
	InsertTransaction(ctx context.Context, t Transaction) error
	UpdateTransaction(ctx context.Context, t Transaction) error
	DeleteTransaction(ctx context.Context, id uuid.UUID) error

	GetCategory(ctx context.Context, id uuid.UUID) (Category, error)
	ListCategories(ctx context.Context) ([]Category, error)
	InsertCategory(ctx context.Context, c Category) error
	UpdateCategory(ctx context.Context, c Category) error
	DeleteCategory(ctx context.Context, id uuid.UUID) error

	GetCurrency(ctx context.Context, id uuid.UUID) (Currency, error)
	ListCurrencies(ctx context.Context) ([]Currency, error)
	InsertCurrency(ctx context.Context, c Currency) error
	UpdateCurrency(ctx context.Context, c Currency) error
	DeleteCurrency(ctx context.Context, id uuid.UUID) error

	GetContact(ctx context.Context, id uuid.UUID) (Contact, error)
	ListContacts(ctx context.Context) ([]Contact, error)
	InsertContact(ctx context.Context, c Contact) error
	UpdateContact(ctx context.Context, c Contact) error
	DeleteContact(ctx context.Context, id uuid.UUID) error

	Commit() error
	Rollback() error
}
