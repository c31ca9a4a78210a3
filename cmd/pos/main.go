package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/aspectxlol/uprak-pos/internal/app"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cfg, err := app.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	lg, err := newLogger(cfg.Log)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	defer func() { _ = lg.Sync() }()

	ctx = zctx.Base(ctx, lg)
	if err := app.Run(ctx, lg, cfg); err != nil {
		lg.Error("run failed", zap.Error(err))
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// newLogger builds a file-backed zap logger so the terminal stays free for
// the menu.
func newLogger(cfg app.LogConfig) (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	zcfg := zap.NewProductionConfig()
	zcfg.Level = level
	zcfg.OutputPaths = []string{cfg.Path}
	zcfg.ErrorOutputPaths = []string{cfg.Path}
	return zcfg.Build()
}
