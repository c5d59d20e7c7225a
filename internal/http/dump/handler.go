package dump

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/homeledger/internal/dump"
	"github.com/MrJamesThe3rd/homeledger/internal/http/render"
	"github.com/MrJamesThe3rd/homeledger/internal/logger"
)

const maxUpload = 32 << 20

type Handler struct {
	svc *dump.Service
}

func NewHandler(svc *dump.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.download)
	r.Post("/", h.upload)
}

type importResponse struct {
	Categories   int `json:"categories"`
	Currencies   int `json:"currencies"`
	Contacts     int `json:"contacts"`
	Accounts     int `json:"accounts"`
	Transactions int `json:"transactions"`
}

func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	filename := fmt.Sprintf("ledger_%s.csv", time.Now().Format("20060102_150405"))

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := h.svc.Export(w); err != nil {
		logger.FromContext(r.Context()).Error().Err(err).Msg("failed to write dump")
	}
}

// upload accepts the dump either as the raw body or as the "file" field of a
// multipart form.
func (h *Handler) upload(w http.ResponseWriter, r *http.Request) {
	var body io.Reader = http.MaxBytesReader(w, r.Body, maxUpload)

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxUpload); err != nil {
			http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
			return
		}

		file, _, err := r.FormFile("file")
		if err != nil {
			http.Error(w, "file field is required", http.StatusBadRequest)
			return
		}
		defer file.Close()

		body = file
	}

	res, err := h.svc.Import(r.Context(), body)
	if err != nil {
		if errors.Is(err, dump.ErrMalformed) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		render.Error(w, r, err)

		return
	}

	render.JSON(w, r, http.StatusCreated, importResponse(res))
}
