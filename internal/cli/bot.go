package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Houeta/rentcatalog/internal/bot"
	"github.com/Houeta/rentcatalog/internal/catalog"
	"github.com/Houeta/rentcatalog/internal/metrics"
	"github.com/Houeta/rentcatalog/internal/repository/sqlite"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

func newBotCmd(a *app) *cobra.Command {
	var metricsAddr string

	cmd := &cobra.Command{
		Use:   "bot",
		Short: "Run the Telegram bot front end",
		Example: `  # Run the bot and expose Prometheus metrics
  RC_TELEGRAM_TOKEN=... rentcatalog bot --metrics-addr :9090`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runBot(cmd.Context(), metricsAddr)
		},
	}

	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Address to serve /metrics on, disabled when empty")

	return cmd
}

func (a *app) runBot(ctx context.Context, metricsAddr string) error {
	if err := a.cfg.RequireTelegram(); err != nil {
		return err
	}

	repo, err := sqlite.NewRepository(ctx, a.log, a.cfg.StoragePath)
	if err != nil {
		return fmt.Errorf("failed to open session storage: %w", err)
	}
	defer func() {
		if closeErr := repo.Close(); closeErr != nil {
			a.log.Error("Failed to close session storage", "error", closeErr)
		}
	}()

	if saved, listErr := repo.ListSessions(ctx); listErr == nil {
		a.log.InfoContext(ctx, "Loaded session storage", "chats", len(saved))
	}

	registry := prometheus.NewRegistry()
	recorder, err := metrics.NewRecorder(registry)
	if err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}

	open := func(creds catalog.Credentials) (*catalog.Workspace, error) {
		return a.openWorkspace(creds, recorder)
	}

	rentBot, err := bot.NewBot(a.log, a.cfg.Tg.Token, a.cfg.Tg.Timeout, repo, open, a.cfg.PageSize)
	if err != nil {
		return err
	}

	if metricsAddr != "" {
		server := &http.Server{
			Addr:              metricsAddr,
			Handler:           promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
			ReadHeaderTimeout: shutdownTimeout,
		}
		go func() {
			a.log.Info("Serving metrics", "addr", metricsAddr)
			if serveErr := server.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
				a.log.Error("Metrics server failed", "error", serveErr)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if shutdownErr := server.Shutdown(shutdownCtx); shutdownErr != nil {
				a.log.Error("Metrics server shutdown failed", "error", shutdownErr)
			}
		}()
	}

	// Log that the application has started.
	a.log.InfoContext(ctx, "Application started. Press Ctrl+C to stop.")

	// Start the bot in a goroutine to allow the command to listen for signals.
	go rentBot.Start()

	// Wait for the context to be canceled (e.g., by Ctrl+C).
	<-ctx.Done()

	a.log.InfoContext(ctx, "Shutdown signal received. Stopping application...")
	rentBot.Stop()
	a.log.InfoContext(ctx, "Application stopped gracefully.")

	return nil
}
