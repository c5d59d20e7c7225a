package account

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
	r.Post("/recompute", h.recomputeAll)
	r.Get("/verify", h.verify)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
	r.Post("/{id}/recompute", h.recompute)
}

type accountRequest struct {
	Name           string          `json:"name"`
	Comment        string          `json:"comment"`
	CategoryID     uuid.UUID       `json:"category_id"`
	CurrencyID     uuid.NullUUID   `json:"currency_id"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	Limit          decimal.Decimal `json:"limit"`
	Interest       decimal.Decimal `json:"interest"`
	Enabled        bool            `json:"enabled"`
	Closed         string          `json:"closed"`
}

func (req accountRequest) params() (ledger.AccountParams, error) {
	p := ledger.AccountParams{
		Name:           req.Name,
		Comment:        req.Comment,
		CategoryID:     req.CategoryID,
		CurrencyID:     req.CurrencyID,
		OpeningBalance: req.OpeningBalance,
		Limit:          req.Limit,
		Interest:       req.Interest,
		Enabled:        req.Enabled,
	}

	if req.Closed != "" {
		closed, err := time.Parse(time.DateOnly, req.Closed)
		if err != nil {
			return ledger.AccountParams{}, &ledger.ValidationError{Field: "closed", Reason: "want YYYY-MM-DD"}
		}

		p.Closed = closed
	}

	return p, nil
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, http.StatusOK, h.toResponseList(h.svc.Cache().Accounts()))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := render.ID(r, "id")
	if err != nil {
		render.Error(w, r, err)
		return
	}

	a, ok := h.svc.Cache().Account(id)
	if !ok {
		http.Error(w, "account not found", http.StatusNotFound)
		return
	}

	render.JSON(w, r, http.StatusOK, h.toResponse(a))
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req accountRequest
	if err := render.Decode(r, &req); err != nil {
		render.Error(w, r, err)
		return
	}

	p, err := req.params()
	if err != nil {
		render.Error(w, r, err)
		return
	}

	a, err := h.svc.CreateAccount(r.Context(), p)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, r, http.StatusCreated, h.toResponse(a))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := render.ID(r, "id")
	if err != nil {
		render.Error(w, r, err)
		return
	}

	var req accountRequest
	if err := render.Decode(r, &req); err != nil {
		render.Error(w, r, err)
		return
	}

	p, err := req.params()
	if err != nil {
		render.Error(w, r, err)
		return
	}

	a, err := h.svc.UpdateAccount(r.Context(), id, p)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, r, http.StatusOK, h.toResponse(a))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := render.ID(r, "id")
	if err != nil {
		render.Error(w, r, err)
		return
	}

	if err := h.svc.DeleteAccount(r.Context(), id); err != nil {
		render.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) recompute(w http.ResponseWriter, r *http.Request) {
	id, err := render.ID(r, "id")
	if err != nil {
		render.Error(w, r, err)
		return
	}

	corrected, err := h.svc.RecomputeBalances(r.Context(), []uuid.UUID{id})
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, r, http.StatusOK, recomputeResponse{Corrected: corrected})
}

func (h *Handler) recomputeAll(w http.ResponseWriter, r *http.Request) {
	corrected, err := h.svc.RecomputeAll(r.Context())
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, r, http.StatusOK, recomputeResponse{Corrected: corrected})
}

func (h *Handler) verify(w http.ResponseWriter, r *http.Request) {
	found, err := h.svc.Verify(r.Context())
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, r, http.StatusOK, toDiscrepancyList(found))
}
