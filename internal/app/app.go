package app

import (
	"context"
	"os"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/aspectxlol/uprak-pos/internal/domain/cart"
	"github.com/aspectxlol/uprak-pos/internal/domain/catalog"
	"github.com/aspectxlol/uprak-pos/internal/domain/checkout"
	"github.com/aspectxlol/uprak-pos/internal/qris"
	"github.com/aspectxlol/uprak-pos/internal/receipt"
	"github.com/aspectxlol/uprak-pos/internal/storage/csvfile"
	"github.com/aspectxlol/uprak-pos/internal/storage/memory"
	"github.com/aspectxlol/uprak-pos/internal/storage/postgres"
	"github.com/aspectxlol/uprak-pos/internal/tui"
)

// Run creates all dependencies and drives the menu loop until the operator
// exits or the context is cancelled. It is the single wiring point for the
// application.
func Run(ctx context.Context, lg *zap.Logger, cfg *Config) error {
	lg.Info("initializing",
		zap.String("backend", cfg.Storage.Backend),
		zap.String("merchant", cfg.Merchant.Name),
	)

	store, err := newStore(ctx, cfg.Storage)
	if err != nil {
		return err
	}

	catalogSvc, err := catalog.NewService(ctx, store)
	if err != nil {
		return errors.Wrap(err, "open catalog")
	}

	cartSvc := cart.NewService(catalogSvc)
	encoder := qris.New(cfg.Merchant.Name, cfg.Merchant.PaymentBaseURL)

	receipts, err := receipt.NewWriter(cfg.Receipts.Dir, cfg.Merchant.Name)
	if err != nil {
		return errors.Wrap(err, "open receipt directory")
	}

	prompter := tui.NewPrompter(os.Stdin, os.Stdout)
	checkoutSvc := checkout.NewService(cartSvc, encoder, receipts, prompter)

	menu := tui.NewMenu(prompter, catalogSvc, cartSvc, checkoutSvc)
	return menu.Run(ctx)
}

func newStore(ctx context.Context, cfg StorageConfig) (catalog.Store, error) {
	switch cfg.Backend {
	case "file":
		return csvfile.New(cfg.CatalogPath), nil
	case "postgres":
		pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, errors.Wrap(err, "create db pool")
		}
		if err := postgres.RunMigrations(ctx, pool); err != nil {
			return nil, errors.Wrap(err, "run migrations")
		}
		return postgres.NewCatalogStore(pool), nil
	case "memory":
		return memory.New(), nil
	default:
		return nil, errors.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
