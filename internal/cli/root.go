// Package cli wires the regsync commands: serve the web UI, run a one-shot
// sync, or write the CSV snapshot.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"regsync/internal/config"
	"regsync/internal/logging"
	"regsync/internal/pipeline"
	"regsync/internal/registry"
)

// NewRootCommand creates the root command for the regsync CLI.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "regsync",
		Short:         "Business-registry CSV sync utility",
		Long:          "regsync downloads the municipal business-registry CSV, upserts it into a local store, and serves a small web UI for sync, preview and export.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(NewServeCommand())
	cmd.AddCommand(NewSyncCommand())
	cmd.AddCommand(NewExportCommand())

	return cmd
}

// app bundles the pieces every command needs.
type app struct {
	cfg   *config.Config
	store *registry.Store
	pipe  *pipeline.Pipeline
}

// setup loads .env and configuration, configures logging, opens the store
// and runs schema creation. Schema creation is an explicit startup step so
// nothing later needs a lazily-initialized handle.
func setup(ctx context.Context) (*app, error) {
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	store, err := registry.Open(cfg.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	if err := store.EnsureSchema(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	pipe := pipeline.New(cfg.Source.URL, store)
	pipe.Client = &http.Client{Timeout: cfg.Source.Timeout}

	slog.Info("configuration loaded",
		"store_path", cfg.Store.Path,
		"source_url", cfg.Source.URL,
		"source_timeout", cfg.Source.Timeout,
	)

	return &app{cfg: cfg, store: store, pipe: pipe}, nil
}

func (a *app) close() {
	if err := a.store.Close(); err != nil {
		slog.Warn("closing store", "error", err)
	}
}
