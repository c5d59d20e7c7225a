package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/homeledger/internal/ledger"
)

const selectCategoryColumns = `id, name, comment, type, icon, created_at, modified_at`

func scanCategory(s scanner) (ledger.Category, error) {
	var c ledger.Category

	var typeStr string

	if err := s.Scan(&c.ID, &c.Name, &c.Comment, &typeStr, &c.Icon, &c.CreatedAt, &c.ModifiedAt); err != nil {
		return ledger.Category{}, err
	}

	c.Type = ledger.CategoryType(typeStr)
	c.CreatedAt = c.CreatedAt.UTC()
	c.ModifiedAt = c.ModifiedAt.UTC()

	return c, nil
}

func (t *tx) GetCategory(ctx context.Context, id uuid.UUID) (ledger.Category, error) {
	query := `SELECT ` + selectCategoryColumns + ` FROM categories WHERE id = $1`

	c, err := scanCategory(t.tx.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ledger.Category{}, fmt.Errorf("category %s: %w", id, ledger.ErrNotFound)
		}

		return ledger.Category{}, fmt.Errorf("getting category: %w", err)
	}

	return c, nil
}

func (t *tx) ListCategories(ctx context.Context) ([]ledger.Category, error) {
	rows, err := t.tx.QueryContext(ctx, `SELECT `+selectCategoryColumns+` FROM categories`)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	defer rows.Close()

	var categories []ledger.Category

	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}

		categories = append(categories, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating categories: %w", err)
	}

	ledger.SortCategories(categories)

	return categories, nil
}

func (t *tx) InsertCategory(ctx context.Context, c ledger.Category) error {
	query := `INSERT INTO categories (` + selectCategoryColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7)`

	if _, err := t.tx.ExecContext(ctx, query, c.ID, c.Name, c.Comment, c.Type, c.Icon, c.CreatedAt, c.ModifiedAt); err != nil {
		return writeErr("inserting category", err)
	}

	return nil
}

func (t *tx) UpdateCategory(ctx context.Context, c ledger.Category) error {
	query := `UPDATE categories SET name = $2, comment = $3, type = $4, icon = $5, modified_at = $6 WHERE id = $1`

	return t.exec(ctx, "updating category", writeErr, query, c.ID, c.Name, c.Comment, c.Type, c.Icon, c.ModifiedAt)
}

func (t *tx) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return t.exec(ctx, "deleting category", deleteErr, `DELETE FROM categories WHERE id = $1`, id)
}

const selectCurrencyColumns = `
	id, code, description, symbol, template, fraction, decimal_sep, thousand_sep,
	is_default, rate, direction, created_at, modified_at
`

func scanCurrency(s scanner) (ledger.Currency, error) {
	var c ledger.Currency

	var direction string

	if err := s.Scan(
		&c.ID, &c.Code, &c.Description, &c.Symbol, &c.Template, &c.Fraction, &c.DecimalSep, &c.ThousandSep,
		&c.Default, &c.Rate, &direction, &c.CreatedAt, &c.ModifiedAt,
	); err != nil {
		return ledger.Currency{}, err
	}

	c.Direction = ledger.RateDirection(direction)
	c.CreatedAt = c.CreatedAt.UTC()
	c.ModifiedAt = c.ModifiedAt.UTC()

	return c, nil
}

func (t *tx) GetCurrency(ctx context.Context, id uuid.UUID) (ledger.Currency, error) {
	query := `SELECT ` + selectCurrencyColumns + ` FROM currencies WHERE id = $1`

	c, err := scanCurrency(t.tx.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ledger.Currency{}, fmt.Errorf("currency %s: %w", id, ledger.ErrNotFound)
		}

		return ledger.Currency{}, fmt.Errorf("getting currency: %w", err)
	}

	return c, nil
}

func (t *tx) ListCurrencies(ctx context.Context) ([]ledger.Currency, error) {
	rows, err := t.tx.QueryContext(ctx, `SELECT `+selectCurrencyColumns+` FROM currencies ORDER BY code, id`)
	if err != nil {
		return nil, fmt.Errorf("listing currencies: %w", err)
	}
	defer rows.Close()

	var currencies []ledger.Currency

	for rows.Next() {
		c, err := scanCurrency(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning currency: %w", err)
		}

		currencies = append(currencies, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating currencies: %w", err)
	}

	return currencies, nil
}

func (t *tx) InsertCurrency(ctx context.Context, c ledger.Currency) error {
	query := `
		INSERT INTO currencies (` + selectCurrencyColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := t.tx.ExecContext(ctx, query,
		c.ID, c.Code, c.Description, c.Symbol, c.Template, c.Fraction, c.DecimalSep, c.ThousandSep,
		c.Default, c.Rate, c.Direction, c.CreatedAt, c.ModifiedAt,
	)
	if err != nil {
		return writeErr("inserting currency", err)
	}

	return nil
}

func (t *tx) UpdateCurrency(ctx context.Context, c ledger.Currency) error {
	query := `
		UPDATE currencies
		SET code = $2, description = $3, symbol = $4, template = $5, fraction = $6, decimal_sep = $7,
			thousand_sep = $8, is_default = $9, rate = $10, direction = $11, modified_at = $12
		WHERE id = $1
	`

	return t.exec(ctx, "updating currency", writeErr, query,
		c.ID, c.Code, c.Description, c.Symbol, c.Template, c.Fraction, c.DecimalSep,
		c.ThousandSep, c.Default, c.Rate, c.Direction, c.ModifiedAt,
	)
}

func (t *tx) DeleteCurrency(ctx context.Context, id uuid.UUID) error {
	return t.exec(ctx, "deleting currency", deleteErr, `DELETE FROM currencies WHERE id = $1`, id)
}

const selectContactColumns = `id, name, type, phone, email, comment, icon, created_at, modified_at`

func scanContact(s scanner) (ledger.Contact, error) {
	var c ledger.Contact

	var typeStr string

	if err := s.Scan(&c.ID, &c.Name, &typeStr, &c.Phone, &c.Email, &c.Comment, &c.Icon, &c.CreatedAt, &c.ModifiedAt); err != nil {
		return ledger.Contact{}, err
	}

	c.Type = ledger.ContactType(typeStr)
	c.CreatedAt = c.CreatedAt.UTC()
	c.ModifiedAt = c.ModifiedAt.UTC()

	return c, nil
}

func (t *tx) GetContact(ctx context.Context, id uuid.UUID) (ledger.Contact, error) {
	query := `SELECT ` + selectContactColumns + ` FROM contacts WHERE id = $1`

	c, err := scanContact(t.tx.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ledger.Contact{}, fmt.Errorf("contact %s: %w", id, ledger.ErrNotFound)
		}

		return ledger.Contact{}, fmt.Errorf("getting contact: %w", err)
	}

	return c, nil
}

func (t *tx) ListContacts(ctx context.Context) ([]ledger.Contact, error) {
	rows, err := t.tx.QueryContext(ctx, `SELECT `+selectContactColumns+` FROM contacts`)
	if err != nil {
		return nil, fmt.Errorf("listing contacts: %w", err)
	}
	defer rows.Close()

	var contacts []ledger.Contact

	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning contact: %w", err)
		}

		contacts = append(contacts, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating contacts: %w", err)
	}

	ledger.SortContacts(contacts)

	return contacts, nil
}

func (t *tx) InsertContact(ctx context.Context, c ledger.Contact) error {
	query := `INSERT INTO contacts (` + selectContactColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := t.tx.ExecContext(ctx, query, c.ID, c.Name, c.Type, c.Phone, c.Email, c.Comment, c.Icon, c.CreatedAt, c.ModifiedAt)
	if err != nil {
		return writeErr("inserting contact", err)
	}

	return nil
}

func (t *tx) UpdateContact(ctx context.Context, c ledger.Contact) error {
	query := `
		UPDATE contacts
		SET name = $2, type = $3, phone = $4, email = $5, comment = $6, icon = $7, modified_at = $8
		WHERE id = $1
	`

	return t.exec(ctx, "updating contact", writeErr, query, c.ID, c.Name, c.Type, c.Phone, c.Email, c.Comment, c.Icon, c.ModifiedAt)
}

func (t *tx) DeleteContact(ctx context.Context, id uuid.UUID) error {
	return t.exec(ctx, "deleting contact", deleteErr, `DELETE FROM contacts WHERE id = $1`, id)
}
