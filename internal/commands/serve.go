package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/homeledger/internal/dump"
	ledgerhttp "github.com/MrJamesThe3rd/homeledger/internal/http"
	accountHandler "github.com/MrJamesThe3rd/homeledger/internal/http/account"
	dumpHandler "github.com/MrJamesThe3rd/homeledger/internal/http/dump"
	referenceHandler "github.com/MrJamesThe3rd/homeledger/internal/http/reference"
	txHandler "github.com/MrJamesThe3rd/homeledger/internal/http/transaction"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand(envFile *string) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the REST API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := openApp(ctx, *envFile)
			if err != nil {
				return err
			}
			defer a.close()

			if port == 0 {
				port = a.cfg.App.Port
			}

			return runServe(ctx, a, port)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "listen port (default from PORT)")

	return cmd
}

func runServe(ctx context.Context, a *app, port int) error {
	var (
		accountH   = accountHandler.NewHandler(a.posting)
		txH        = txHandler.NewHandler(a.posting)
		referenceH = referenceHandler.NewHandler(a.posting)
		dumpH      = dumpHandler.NewHandler(dump.NewService(a.posting, a.log))
	)

	router := ledgerhttp.New(a.log, ledgerhttp.Options{
		AllowedOrigins: a.cfg.Server.AllowedOrigins,
		Timeout:        a.cfg.Server.Timeout,
	}, accountH, txH, referenceH, dumpH)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		a.log.Info().Str("addr", srv.Addr).Str("store", a.cfg.App.Store).Msg("starting server")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		a.log.Error().Err(err).Msg("server failed")

		return fmt.Errorf("serving: %w", err)
	case <-ctx.Done():
	}

	a.log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}

	return nil
}
