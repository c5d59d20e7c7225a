package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/MrJamesThe3rd/homeledger/internal/http/account"
	"github.com/MrJamesThe3rd/homeledger/internal/http/dump"
	"github.com/MrJamesThe3rd/homeledger/internal/http/reference"
	"github.com/MrJamesThe3rd/homeledger/internal/http/transaction"
	"github.com/MrJamesThe3rd/homeledger/internal/logger"
)

type Options struct {
	AllowedOrigins []string
	Timeout        time.Duration
}

func New(
	log zerolog.Logger,
	opts Options,
	accountsV1 *account.Handler,
	transactionsV1 *transaction.Handler,
	referencesV1 *reference.Handler,
	dumpV1 *dump.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
	router.Use(withLogger(log))

	if opts.Timeout > 0 {
		router.Use(middleware.Timeout(opts.Timeout))
	}

	jsonOnly := middleware.AllowContentType("application/json")

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/accounts", func(r chi.Router) {
			r.Use(jsonOnly)
			accountsV1.Routes(r)
		})

		r.Route("/transactions", func(r chi.Router) {
			r.Use(jsonOnly)
			transactionsV1.Routes(r)
		})

		r.Route("/categories", func(r chi.Router) {
			r.Use(jsonOnly)
			referencesV1.CategoryRoutes(r)
		})

		r.Route("/currencies", func(r chi.Router) {
			r.Use(jsonOnly)
			referencesV1.CurrencyRoutes(r)
		})

		r.Route("/contacts", func(r chi.Router) {
			r.Use(jsonOnly)
			referencesV1.ContactRoutes(r)
		})

		r.Route("/dump", dumpV1.Routes)
	})

	return router
}

// withLogger makes log, tagged with the request id, available to handlers.
func withLogger(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			l := log.With().Str("request_id", middleware.GetReqID(r.Context())).Logger()
			next.ServeHTTP(w, r.WithContext(logger.WithContext(r.Context(), l)))
		})
	}
}
