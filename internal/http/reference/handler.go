// Package reference serves categories, currencies and contacts.
package reference

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/homeledger/internal/http/render"
	"github.com/MrJamesThe3rd/homeledger/internal/ledger"
	"github.com/MrJamesThe3rd/homeledger/internal/posting"
)

type Handler struct {
	svc *posting.Service
}

func NewHandler(svc *posting.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) CategoryRoutes(r chi.Router) {
	r.Get("/", h.listCategories)
	r.Post("/", h.createCategory)
	r.Put("/{id}", h.updateCategory)
	r.Delete("/{id}", h.deleteCategory)
}

func (h *Handler) CurrencyRoutes(r chi.Router) {
	r.Get("/", h.listCurrencies)
	r.Post("/", h.createCurrency)
	r.Put("/{id}", h.updateCurrency)
	r.Delete("/{id}", h.deleteCurrency)
}

func (h *Handler) ContactRoutes(r chi.Router) {
	r.Get("/", h.listContacts)
	r.Post("/", h.createContact)
	r.Put("/{id}", h.updateContact)
	r.Delete("/{id}", h.deleteContact)
}

type categoryDTO struct {
	ID         uuid.UUID           `json:"id"`
	Name       string              `json:"name"`
	Type       ledger.CategoryType `json:"type"`
	Icon       string              `json:"icon,omitempty"`
	Comment    string              `json:"comment,omitempty"`
	CreatedAt  time.Time           `json:"created_at"`
	ModifiedAt time.Time           `json:"modified_at"`
}

func (d categoryDTO) params() ledger.CategoryParams {
	return ledger.CategoryParams{Name: d.Name, Type: d.Type, Icon: d.Icon, Comment: d.Comment}
}

type currencyDTO struct {
	ID          uuid.UUID            `json:"id"`
	Code        string               `json:"code"`
	Description string               `json:"description,omitempty"`
	Symbol      string               `json:"symbol"`
	Template    string               `json:"template"`
	Fraction    *int                 `json:"fraction"`
	DecimalSep  string               `json:"decimal_sep"`
	ThousandSep string               `json:"thousand_sep"`
	Default     bool                 `json:"default"`
	Rate        decimal.Decimal      `json:"rate"`
	Direction   ledger.RateDirection `json:"direction"`
	CreatedAt   time.Time            `json:"created_at"`
	ModifiedAt  time.Time            `json:"modified_at"`
}

func (d currencyDTO) params() ledger.CurrencyParams {
	return ledger.CurrencyParams{
		Code:        d.Code,
		Description: d.Description,
		Symbol:      d.Symbol,
		Template:    d.Template,
		Fraction:    d.Fraction,
		DecimalSep:  d.DecimalSep,
		ThousandSep: d.ThousandSep,
		Default:     d.Default,
		Rate:        d.Rate,
		Direction:   d.Direction,
	}
}

type contactDTO struct {
	ID         uuid.UUID          `json:"id"`
	Name       string             `json:"name"`
	Type       ledger.ContactType `json:"type"`
	Phone      string             `json:"phone,omitempty"`
	Email      string             `json:"email,omitempty"`
	Icon       string             `json:"icon,omitempty"`
	Comment    string             `json:"comment,omitempty"`
	CreatedAt  time.Time          `json:"created_at"`
	ModifiedAt time.Time          `json:"modified_at"`
}

func (d contactDTO) params() ledger.ContactParams {
	return ledger.ContactParams{
		Name:    d.Name,
		Type:    d.Type,
		Phone:   d.Phone,
		Email:   d.Email,
		Icon:    d.Icon,
		Comment: d.Comment,
	}
}

func toCategory(c ledger.Category) categoryDTO {
	return categoryDTO{
		ID:         c.ID,
		Name:       c.Name,
		Type:       c.Type,
		Icon:       c.Icon,
		Comment:    c.Comment,
		CreatedAt:  c.CreatedAt,
		ModifiedAt: c.ModifiedAt,
	}
}

func toCurrency(c ledger.Currency) currencyDTO {
	fraction := c.Fraction

	return currencyDTO{
		ID:          c.ID,
		Code:        c.Code,
		Description: c.Description,
		Symbol:      c.Symbol,
		Template:    c.Template,
		Fraction:    &fraction,
		DecimalSep:  c.DecimalSep,
		ThousandSep: c.ThousandSep,
		Default:     c.Default,
		Rate:        c.Rate,
		Direction:   c.Direction,
		CreatedAt:   c.CreatedAt,
		ModifiedAt:  c.ModifiedAt,
	}
}

func toContact(c ledger.Contact) contactDTO {
	return contactDTO{
		ID:         c.ID,
		Name:       c.Name,
		Type:       c.Type,
		Phone:      c.Phone,
		Email:      c.Email,
		Icon:       c.Icon,
		Comment:    c.Comment,
		CreatedAt:  c.CreatedAt,
		ModifiedAt: c.ModifiedAt,
	}
}

func mapList[T, R any](in []T, f func(T) R) []R {
	out := make([]R, len(in))
	for i, v := range in {
		out[i] = f(v)
	}

	return out
}

func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, http.StatusOK, mapList(h.svc.Cache().Categories(), toCategory))
}

func (h *Handler) createCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryDTO
	if err := render.Decode(r, &req); err != nil {
		render.Error(w, r, err)
		return
	}

	c, err := h.svc.CreateCategory(r.Context(), req.params())
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, r, http.StatusCreated, toCategory(c))
}

func (h *Handler) updateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := render.ID(r, "id")
	if err != nil {
		render.Error(w, r, err)
		return
	}

	var req categoryDTO
	if err := render.Decode(r, &req); err != nil {
		render.Error(w, r, err)
		return
	}

	c, err := h.svc.UpdateCategory(r.Context(), id, req.params())
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, r, http.StatusOK, toCategory(c))
}

func (h *Handler) deleteCategory(w http.ResponseWriter, r *http.Request) {
	h.remove(w, r, h.svc.DeleteCategory)
}

func (h *Handler) listCurrencies(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, http.StatusOK, mapList(h.svc.Cache().Currencies(), toCurrency))
}

func (h *Handler) createCurrency(w http.ResponseWriter, r *http.Request) {
	var req currencyDTO
	if err := render.Decode(r, &req); err != nil {
		render.Error(w, r, err)
		return
	}

	c, err := h.svc.CreateCurrency(r.Context(), req.params())
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, r, http.StatusCreated, toCurrency(c))
}

func (h *Handler) updateCurrency(w http.ResponseWriter, r *http.Request) {
	id, err := render.ID(r, "id")
	if err != nil {
		render.Error(w, r, err)
		return
	}

	var req currencyDTO
	if err := render.Decode(r, &req); err != nil {
		render.Error(w, r, err)
		return
	}

	c, err := h.svc.UpdateCurrency(r.Context(), id, req.params())
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, r, http.StatusOK, toCurrency(c))
}

func (h *Handler) deleteCurrency(w http.ResponseWriter, r *http.Request) {
	h.remove(w, r, h.svc.DeleteCurrency)
}

func (h *Handler) listContacts(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, http.StatusOK, mapList(h.svc.Cache().Contacts(), toContact))
}

func (h *Handler) createContact(w http.ResponseWriter, r *http.Request) {
	var req contactDTO
	if err := render.Decode(r, &req); err != nil {
		render.Error(w, r, err)
		return
	}

	c, err := h.svc.CreateContact(r.Context(), req.params())
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, r, http.StatusCreated, toContact(c))
}

func (h *Handler) updateContact(w http.ResponseWriter, r *http.Request) {
	id, err := render.ID(r, "id")
	if err != nil {
		render.Error(w, r, err)
		return
	}

	var req contactDTO
	if err := render.Decode(r, &req); err != nil {
		render.Error(w, r, err)
		return
	}

	c, err := h.svc.UpdateContact(r.Context(), id, req.params())
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, r, http.StatusOK, toContact(c))
}

func (h *Handler) deleteContact(w http.ResponseWriter, r *http.Request) {
	h.remove(w, r, h.svc.DeleteContact)
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request, del func(context.Context, uuid.UUID) error) {
	id, err := render.ID(r, "id")
	if err != nil {
		render.Error(w, r, err)
		return
	}

	if err := del(r.Context(), id); err != nil {
		render.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
