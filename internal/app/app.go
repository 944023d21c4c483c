// Package app wires a storefront backend, the cart engine and the checkout
// service from a loaded Config.
package app

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/nikolayk812/techhub-cart/internal/cart"
	"github.com/nikolayk812/techhub-cart/internal/checkout"
	"github.com/nikolayk812/techhub-cart/internal/config"
	"github.com/nikolayk812/techhub-cart/internal/httpstore"
	"github.com/nikolayk812/techhub-cart/internal/port"
	"github.com/nikolayk812/techhub-cart/internal/repository"
)

type App struct {
	Engine   *cart.Engine
	Checkout *checkout.Service

	pool *pgxpool.Pool
}

// NewLogger builds a JSON production logger at the given level.
func NewLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("zapcore.ParseLevel: %w", err)
	}

	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(lvl)

	logger, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("zcfg.Build: %w", err)
	}

	return logger, nil
}

func New(ctx context.Context, cfg *config.Config, session port.Session, logger *zap.Logger) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("cfg is nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	a := &App{}

	store, err := a.storefront(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	a.Engine, err = cart.New(store, session,
		cart.WithLogger(logger.Named("cart")),
		cart.WithTimeout(cfg.Store.Timeout))
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("cart.New: %w", err)
	}

	a.Checkout, err = checkout.New(a.Engine, store, session, cfg.Policy,
		checkout.WithLogger(logger.Named("checkout")),
		checkout.WithCurrency(cfg.Currency),
		checkout.WithTimeout(cfg.Store.Timeout))
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("checkout.New: %w", err)
	}

	logger.Info("cart engine ready",
		zap.String("backend", cfg.Backend),
		zap.String("currency", cfg.Currency.String()),
		zap.Duration("timeout", cfg.Store.Timeout))

	return a, nil
}

func (a *App) storefront(ctx context.Context, cfg *config.Config, logger *zap.Logger) (port.Storefront, error) {
	switch cfg.Backend {
	case config.BackendPostgres:
		pool, err := pgxpool.New(ctx, cfg.Database.URL)
		if err != nil {
			return nil, fmt.Errorf("pgxpool.New: %w", err)
		}
		a.pool = pool

		store, err := repository.NewCart(pool)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("repository.NewCart: %w", err)
		}
		return store, nil
	default:
		client, err := httpstore.NewClient(cfg.Store.BaseURL, cfg.Store.Token, cfg.Store.Timeout, logger.Named("httpstore"))
		if err != nil {
			return nil, fmt.Errorf("httpstore.NewClient: %w", err)
		}
		return client, nil
	}
}

// Close releases the database pool, if any.
func (a *App) Close() {
	if a.pool != nil {
		a.pool.Close()
		a.pool = nil
	}
}
