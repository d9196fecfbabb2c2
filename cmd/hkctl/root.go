package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hotelops/housekeeping/internal/config"
	"github.com/hotelops/housekeeping/internal/observability"
	"github.com/hotelops/housekeeping/internal/persistence"
)

// rootCmd is the operator CLI for the housekeeping service.
var rootCmd = &cobra.Command{
	Use:           "hkctl",
	Short:         "Operate the housekeeping request service",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// env is what every subcommand needs: config, a logger and an open store.
type env struct {
	cfg    *config.Config
	logger *zap.Logger
	store  *persistence.Store
}

func openEnv(ctx context.Context) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	store, err := persistence.OpenStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, logger: logger, store: store}, nil
}

func (e *env) close() {
	e.store.Close()
	_ = e.logger.Sync()
}
