package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/MrJamesThe3rd/homeledger/internal/cache"
	"github.com/MrJamesThe3rd/homeledger/internal/config"
	"github.com/MrJamesThe3rd/homeledger/internal/database"
	"github.com/MrJamesThe3rd/homeledger/internal/ledger"
	"github.com/MrJamesThe3rd/homeledger/internal/ledger/memstore"
	"github.com/MrJamesThe3rd/homeledger/internal/ledger/store"
	"github.com/MrJamesThe3rd/homeledger/internal/logger"
	"github.com/MrJamesThe3rd/homeledger/internal/posting"
)

// app is what every command works with: a posting service over the
// configured store with a loaded cache.
type app struct {
	cfg     *config.Config
	log     zerolog.Logger
	posting *posting.Service
	close   func()
}

func openApp(ctx context.Context, envFile string) (*app, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("loading %s: %w", envFile, err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.App.LogLevel)
	if err != nil {
		return nil, err
	}

	log = log.With().Str("app", cfg.App.Name).Logger()

	st, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	svc := posting.NewService(st, cache.New(), log)
	if err := svc.Reload(ctx); err != nil {
		closeStore()
		return nil, err
	}

	return &app{cfg: cfg, log: log, posting: svc, close: closeStore}, nil
}

func openStore(ctx context.Context, cfg *config.Config) (ledger.Store, func(), error) {
	if cfg.App.Store == config.StoreMemory {
		return memstore.New(), func() {}, nil
	}

	db, err := database.New(ctx, cfg.ConnectionString(), database.PoolConfig{
		MaxOpenConns:    cfg.DB.MaxOpenConns,
		MaxIdleConns:    cfg.DB.MaxIdleConns,
		ConnMaxLifetime: cfg.DB.ConnMaxLifetime,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to database: %w", err)
	}

	st := store.New(db)
	if err := st.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, nil, err
	}

	return st, func() { db.Close() }, nil
}
