// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/starford/raido/internal/api"
	"github.com/starford/raido/internal/mcpserver"
	"github.com/starford/raido/internal/ops"
	"github.com/starford/raido/internal/search"
	"github.com/starford/raido/internal/sse"
	"github.com/starford/raido/internal/storage"
	"github.com/starford/raido/internal/vault"
	"github.com/starford/raido/internal/watch"
)

// Run starts the HTTP server with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return fmt.Errorf("config is required")
	}
	cfg := app.config

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("vault_path", cfg.Vault.Path),
		slog.String("search_index", cfg.Search.IndexPath),
		slog.String("log_level", cfg.App.LogLevel.String()))

	operations, db, err := buildCore(cfg, logger)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	broker := sse.NewBroker(logger)

	srv := api.NewServer(operations, db, broker, logger)
	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: srv.Router(cfg.Auth.Mode, cfg.Auth.Token),
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := broker.Run(gCtx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	if !app.disableWatch {
		watcher := watch.New(cfg.Vault.Path, logger, func(wCtx context.Context) {
			if err := operations.Vault().Refresh(); err != nil {
				logger.Warn("index refresh failed", slog.String("error", err.Error()))
				return
			}
			if db != nil {
				if err := search.Sync(db, operations.Vault().Store(), logger); err != nil {
					logger.Warn("search sync failed", slog.String("error", err.Error()))
				}
			}
			broker.Publish(sse.Event{Kind: sse.EventIndexRefresh})
		})
		g.Go(func() error {
			err := watcher.Run(gCtx)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
	}

	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// RunMCP starts the MCP server on stdio. Logs go to stderr so stdout stays
// clean for the protocol.
func RunMCP(ctx context.Context, opts ...Option) error {
	app := &application{}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return fmt.Errorf("config is required")
	}
	cfg := app.config

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	operations, db, err := buildCore(cfg, logger)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	logger.Info("Starting MCP server on stdio", slog.String("vault_path", cfg.Vault.Path))
	return mcpserver.New(operations).ServeStdio()
}

func buildCore(cfg *Config, logger *slog.Logger) (*ops.Operations, *search.DB, error) {
	if err := os.MkdirAll(cfg.Vault.Path, 0o755); err != nil {
		return nil, nil, fmt.Errorf("create vault dir: %w", err)
	}
	store, err := storage.NewFS(cfg.Vault.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("init storage: %w", err)
	}
	v := vault.New(store)
	operations := ops.New(v)

	var db *search.DB
	if cfg.Search.Enabled() {
		db, err = search.Open(cfg.Search.IndexPath)
		if err != nil {
			return nil, nil, fmt.Errorf("init search index: %w", err)
		}
		if err := search.Sync(db, store, logger); err != nil {
			logger.Warn("initial search sync failed", slog.String("error", err.Error()))
		}
	}
	return operations, db, nil
}
