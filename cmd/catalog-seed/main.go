// Command catalog-seed imports a CSV catalog file into the PostgreSQL
// catalog store, creating the schema when needed. Useful when switching the
// till from the file backend to the postgres backend.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/go-faster/errors"

	"github.com/aspectxlol/uprak-pos/internal/storage/csvfile"
	"github.com/aspectxlol/uprak-pos/internal/storage/postgres"
)

func main() {
	var (
		databaseURL string
		catalogFile string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&catalogFile, "catalog-file", "products.csv", "path to the catalog CSV file")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, catalogFile); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, catalogFile string) error {
	slog.Info("reading catalog file", slog.String("path", catalogFile))

	products, err := csvfile.New(catalogFile).Load(ctx)
	if err != nil {
		return errors.Wrap(err, "load catalog file")
	}
	if len(products) == 0 {
		return errors.New("catalog file has no products")
	}

	slog.Info("connecting to database")

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	slog.Info("importing products", slog.Int("count", len(products)))

	if err := postgres.NewCatalogStore(pool).Save(ctx, products); err != nil {
		return errors.Wrap(err, "save catalog")
	}

	for _, p := range products {
		slog.Info("imported product", slog.Int64("id", p.ID), slog.String("name", p.Name))
	}

	return nil
}
