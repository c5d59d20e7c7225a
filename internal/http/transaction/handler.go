package transaction

import (
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

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Post("/batch", h.createBatch)
	r.Patch("/confirm", h.confirm)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
	r.Post("/{id}/toggle", h.toggle)
}

type transactionRequest struct {
	Amount          decimal.Decimal        `json:"amount"`
	Rate            decimal.Decimal        `json:"rate"`
	Date            string                 `json:"date"`
	Type            ledger.TransactionType `json:"type"`
	DebitAccountID  uuid.UUID              `json:"debit_account_id"`
	CreditAccountID uuid.UUID              `json:"credit_account_id"`
	ContactID       uuid.NullUUID          `json:"contact_id"`
	ParentID        uuid.NullUUID          `json:"parent_id"`
	Checked         bool                   `json:"checked"`
	Comment         string                 `json:"comment"`
}

func (req transactionRequest) params() (ledger.TransactionParams, error) {
	date, err := time.Parse(time.DateOnly, req.Date)
	if err != nil {
		return ledger.TransactionParams{}, &ledger.ValidationError{Field: "date", Reason: "want YYYY-MM-DD"}
	}

	return ledger.TransactionParams{
		Amount:          req.Amount,
		Rate:            req.Rate,
		Date:            date,
		Type:            req.Type,
		DebitAccountID:  req.DebitAccountID,
		CreditAccountID: req.CreditAccountID,
		ContactID:       req.ContactID,
		ParentID:        req.ParentID,
		Checked:         req.Checked,
		Comment:         req.Comment,
	}, nil
}

// list returns every transaction, or only those of ?account= or the split
// lines of ?parent=.
func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	c := h.svc.Cache()

	var txs []ledger.Transaction

	switch q := r.URL.Query(); {
	case q.Get("account") != "":
		id, err := uuid.Parse(q.Get("account"))
		if err != nil {
			http.Error(w, "invalid account id", http.StatusBadRequest)
			return
		}

		if _, ok := c.Account(id); !ok {
			http.Error(w, "account not found", http.StatusNotFound)
			return
		}

		txs = c.TransactionsForAccount(id)

	case q.Get("parent") != "":
		id, err := uuid.Parse(q.Get("parent"))
		if err != nil {
			http.Error(w, "invalid parent id", http.StatusBadRequest)
			return
		}

		txs = c.Children(id)

	default:
		txs = c.Transactions()
	}

	render.JSON(w, r, http.StatusOK, toResponseList(txs))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := render.ID(r, "id")
	if err != nil {
		render.Error(w, r, err)
		return
	}

	t, ok := h.svc.Cache().Transaction(id)
	if !ok {
		http.Error(w, "transaction not found", http.StatusNotFound)
		return
	}

	resp := toResponse(t)
	resp.Splits = toResponseList(h.svc.Cache().Children(id))

	render.JSON(w, r, http.StatusOK, resp)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := render.Decode(r, &req); err != nil {
		render.Error(w, r, err)
		return
	}

	p, err := req.params()
	if err != nil {
		render.Error(w, r, err)
		return
	}

	t, err := h.svc.InsertTransaction(r.Context(), p)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, r, http.StatusCreated, toResponse(t))
}

type batchRequest struct {
	Transactions []transactionRequest `json:"transactions"`
}

// createBatch stores all transactions in one unit, or none of them.
func (h *Handler) createBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := render.Decode(r, &req); err != nil {
		render.Error(w, r, err)
		return
	}

	params := make([]ledger.TransactionParams, 0, len(req.Transactions))

	for _, tr := range req.Transactions {
		p, err := tr.params()
		if err != nil {
			render.Error(w, r, err)
			return
		}

		params = append(params, p)
	}

	txs, err := h.svc.InsertTransactions(r.Context(), params)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, r, http.StatusCreated, toResponseList(txs))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := render.ID(r, "id")
	if err != nil {
		render.Error(w, r, err)
		return
	}

	var req transactionRequest
	if err := render.Decode(r, &req); err != nil {
		render.Error(w, r, err)
		return
	}

	p, err := req.params()
	if err != nil {
		render.Error(w, r, err)
		return
	}

	p.ID = id

	t, err := h.svc.UpdateTransaction(r.Context(), p)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, r, http.StatusOK, toResponse(t))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := render.ID(r, "id")
	if err != nil {
		render.Error(w, r, err)
		return
	}

	if err := h.svc.DeleteTransaction(r.Context(), id); err != nil {
		render.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type confirmRequest struct {
	IDs     []uuid.UUID `json:"ids"`
	Checked bool        `json:"checked"`
}

func (h *Handler) confirm(w http.ResponseWriter, r *http.Request) {
	var req confirmRequest
	if err := render.Decode(r, &req); err != nil {
		render.Error(w, r, err)
		return
	}

	if err := h.svc.SetConfirmed(r.Context(), req.IDs, req.Checked); err != nil {
		render.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) toggle(w http.ResponseWriter, r *http.Request) {
	id, err := render.ID(r, "id")
	if err != nil {
		render.Error(w, r, err)
		return
	}

	t, err := h.svc.ToggleConfirmed(r.Context(), id)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, r, http.StatusOK, toResponse(t))
}
