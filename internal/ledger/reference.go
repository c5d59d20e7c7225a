package ledger

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// CategoryType is the account class a category stands for.
type CategoryType string

const (
	CategoryBanksAndCash CategoryType = "banks_and_cash"
	CategoryIncomes      CategoryType = "incomes"
	CategoryExpenses     CategoryType = "expenses"
	CategoryDebts        CategoryType = "debts"
	CategoryPortfolio    CategoryType = "portfolio"
	CategoryAssets       CategoryType = "assets"
	CategoryStartup      CategoryType = "startup"
)

func (t CategoryType) Valid() bool {
	switch t {
	case CategoryBanksAndCash, CategoryIncomes, CategoryExpenses, CategoryDebts,
		CategoryPortfolio, CategoryAssets, CategoryStartup:
		return true
	}

	return false
}

// Category groups accounts and determines their class.
type Category struct {
	ID         uuid.UUID
	Name       string
	Comment    string
	Type       CategoryType
	Icon       string
	CreatedAt  time.Time
	ModifiedAt time.Time
}

type CategoryParams struct {
	ID         uuid.UUID
	Name       string
	Comment    string
	Type       CategoryType
	Icon       string
	CreatedAt  time.Time
	ModifiedAt time.Time
}

func NewCategory(p CategoryParams) (Category, error) {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return Category{}, invalid("name", "must not be blank")
	}

	if !p.Type.Valid() {
		return Category{}, invalid("type", "unknown category type %q", p.Type)
	}

	created := timestamp(p.CreatedAt)

	modified := created
	if !p.ModifiedAt.IsZero() {
		modified = timestamp(p.ModifiedAt)
	}

	return Category{
		ID:         newID(p.ID),
		Name:       name,
		Comment:    p.Comment,
		Type:       p.Type,
		Icon:       p.Icon,
		CreatedAt:  created,
		ModifiedAt: modified,
	}, nil
}

// Revise returns a copy of c with p applied. Identity and creation time are kept.
func (c Category) Revise(p CategoryParams) (Category, error) {
	p.ID = c.ID
	p.CreatedAt = c.CreatedAt
	p.ModifiedAt = now()

	return NewCategory(p)
}

// ContactType classifies a counterparty.
type ContactType string

const (
	ContactPersonal ContactType = "personal"
	ContactClient   ContactType = "client"
	ContactSupplier ContactType = "supplier"
	ContactEmployee ContactType = "employee"
	ContactEmployer ContactType = "employer"
	ContactService  ContactType = "service"
)

func (t ContactType) Valid() bool {
	switch t {
	case ContactPersonal, ContactClient, ContactSupplier, ContactEmployee, ContactEmployer, ContactService:
		return true
	}

	return false
}

// Contact is an optional counterparty of a transaction.
type Contact struct {
	ID         uuid.UUID
	Name       string
	Type       ContactType
	Phone      string
	Email      string
	Comment    string
	Icon       string
	CreatedAt  time.Time
	ModifiedAt time.Time
}

type ContactParams struct {
	ID         uuid.UUID
	Name       string
	Type       ContactType
	Phone      string
	Email      string
	Comment    string
	Icon       string
	CreatedAt  time.Time
	ModifiedAt time.Time
}

func NewContact(p ContactParams) (Contact, error) {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return Contact{}, invalid("name", "must not be blank")
	}

	if p.Type == "" {
		p.Type = ContactPersonal
	}

	if !p.Type.Valid() {
		return Contact{}, invalid("type", "unknown contact type %q", p.Type)
	}

	created := timestamp(p.CreatedAt)

	modified := created
	if !p.ModifiedAt.IsZero() {
		modified = timestamp(p.ModifiedAt)
	}

	return Contact{
		ID:         newID(p.ID),
		Name:       name,
		Type:       p.Type,
		Phone:      p.Phone,
		Email:      p.Email,
		Comment:    p.Comment,
		Icon:       p.Icon,
		CreatedAt:  created,
		ModifiedAt: modified,
	}, nil
}

func (c Contact) Revise(p ContactParams) (Contact, error) {
	p.ID = c.ID
	p.CreatedAt = c.CreatedAt
	p.ModifiedAt = now()

	return NewContact(p)
}
