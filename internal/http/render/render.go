// Package render holds the request decoding and response helpers shared by
// the HTTP handlers.
package render

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/homeledger/internal/ledger"
	"github.com/MrJamesThe3rd/homeledger/internal/logger"
)

// Status maps a service error to the HTTP status reported to the client.
func Status(err error) int {
	switch {
	case errors.Is(err, ledger.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ledger.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ledger.ErrInUse):
		return http.StatusConflict
	}

	return http.StatusInternalServerError
}

// Error writes err as a plain text response. Server errors are logged and
// their detail is not sent to the client.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	status := Status(err)
	if status == http.StatusInternalServerError {
		logger.FromContext(r.Context()).Error().Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("request failed")

		http.Error(w, "internal error", status)

		return
	}

	http.Error(w, err.Error(), status)
}

func JSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.FromContext(r.Context()).Error().Err(err).Msg("failed to encode response")
	}
}

// Decode reads a JSON body into v. A malformed body is reported as a
// validation error so Error maps it to 400.
func Decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		return &ledger.ValidationError{Field: "body", Reason: err.Error()}
	}

	return nil
}

// ID parses the URL parameter name as a uuid.
func ID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, &ledger.ValidationError{Field: name, Reason: fmt.Sprintf("%q is not a valid id", chi.URLParam(r, name))}
	}

	return id, nil
}
