package transaction

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/homeledger/internal/ledger"
)

type legResponse struct {
	AccountID    uuid.UUID           `json:"account_id"`
	CategoryID   uuid.UUID           `json:"category_id"`
	CategoryType ledger.CategoryType `json:"category_type"`
}

type transactionResponse struct {
	ID           uuid.UUID              `json:"id"`
	Date         string                 `json:"date"`
	Type         ledger.TransactionType `json:"type"`
	Amount       decimal.Decimal        `json:"amount"`
	CreditAmount decimal.Decimal        `json:"credit_amount"`
	Rate         decimal.Decimal        `json:"rate"`
	Debit        legResponse            `json:"debit"`
	Credit       legResponse            `json:"credit"`
	ContactID    uuid.NullUUID          `json:"contact_id"`
	ParentID     uuid.NullUUID          `json:"parent_id"`
	Checked      bool                   `json:"checked"`
	Comment      string                 `json:"comment,omitempty"`
	Splits       []transactionResponse  `json:"splits,omitempty"`
	CreatedAt    time.Time              `json:"created_at"`
	ModifiedAt   time.Time              `json:"modified_at"`
}

func toResponse(t ledger.Transaction) transactionResponse {
	return transactionResponse{
		ID:           t.ID,
		Date:         t.Date.Format(time.DateOnly),
		Type:         t.Type,
		Amount:       t.Amount,
		CreditAmount: t.CreditAmount,
		Rate:         t.Rate,
		Debit:        legResponse(t.Debit),
		Credit:       legResponse(t.Credit),
		ContactID:    t.ContactID,
		ParentID:     t.ParentID,
		Checked:      t.Checked,
		Comment:      t.Comment,
		CreatedAt:    t.CreatedAt,
		ModifiedAt:   t.ModifiedAt,
	}
}

func toResponseList(txs []ledger.Transaction) []transactionResponse {
	resp := make([]transactionResponse, len(txs))
	for i, t := range txs {
		resp[i] = toResponse(t)
	}

	return resp
}
