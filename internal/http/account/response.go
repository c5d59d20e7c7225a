package account

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/homeledger/internal/ledger"
	"github.com/MrJamesThe3rd/homeledger/internal/posting"
)

type accountResponse struct {
	ID             uuid.UUID       `json:"id"`
	Name           string          `json:"name"`
	Comment        string          `json:"comment,omitempty"`
	CategoryID     uuid.UUID       `json:"category_id"`
	CurrencyID     uuid.NullUUID   `json:"currency_id"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	Limit          decimal.Decimal `json:"limit"`
	Interest       decimal.Decimal `json:"interest"`
	Enabled        bool            `json:"enabled"`
	Closed         string          `json:"closed,omitempty"`
	Total          decimal.Decimal `json:"total"`
	TotalWaiting   decimal.Decimal `json:"total_waiting"`
	Movement       decimal.Decimal `json:"movement"`
	// Display fields are only set for accounts held in a currency.
	TotalDisplay        string    `json:"total_display,omitempty"`
	TotalWaitingDisplay string    `json:"total_waiting_display,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
	ModifiedAt          time.Time `json:"modified_at"`
}

func (h *Handler) toResponse(a ledger.Account) accountResponse {
	resp := accountResponse{
		ID:             a.ID,
		Name:           a.Name,
		Comment:        a.Comment,
		CategoryID:     a.CategoryID,
		CurrencyID:     a.CurrencyID,
		OpeningBalance: a.OpeningBalance,
		Limit:          a.Limit,
		Interest:       a.Interest,
		Enabled:        a.Enabled,
		Total:          a.Total,
		TotalWaiting:   a.TotalWaiting,
		Movement:       ledger.Movement(a, h.svc.Cache().TransactionsForAccount(a.ID)),
		CreatedAt:      a.CreatedAt,
		ModifiedAt:     a.ModifiedAt,
	}

	if a.IsClosed() {
		resp.Closed = a.Closed.Format(time.DateOnly)
	}

	if a.CurrencyID.Valid {
		if cur, ok := h.svc.Cache().Currency(a.CurrencyID.UUID); ok {
			resp.TotalDisplay = cur.Format(a.Total)
			resp.TotalWaitingDisplay = cur.Format(a.TotalWaiting)
		}
	}

	return resp
}

func (h *Handler) toResponseList(accounts []ledger.Account) []accountResponse {
	resp := make([]accountResponse, len(accounts))
	for i, a := range accounts {
		resp[i] = h.toResponse(a)
	}

	return resp
}

type recomputeResponse struct {
	Corrected int `json:"corrected"`
}

type discrepancyResponse struct {
	Kind             posting.DiscrepancyKind `json:"kind"`
	TransactionID    uuid.NullUUID           `json:"transaction_id"`
	AccountID        uuid.UUID               `json:"account_id"`
	Name             string                  `json:"name"`
	Total            decimal.Decimal         `json:"total"`
	TotalWaiting     decimal.Decimal         `json:"total_waiting"`
	WantTotal        decimal.Decimal         `json:"want_total"`
	WantTotalWaiting decimal.Decimal         `json:"want_total_waiting"`
}

func toDiscrepancyList(found []posting.Discrepancy) []discrepancyResponse {
	resp := make([]discrepancyResponse, len(found))
	for i, d := range found {
		resp[i] = discrepancyResponse(d)
	}

	return resp
}
