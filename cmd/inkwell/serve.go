package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"inkwell/internal/database"
	"inkwell/internal/handlers"
	"inkwell/internal/metrics"
	"inkwell/internal/middleware"
	"inkwell/internal/router"
	"inkwell/internal/service"
	"inkwell/internal/valkey"
)

// shutdownTimeout is how long active requests get to finish on shutdown.
const shutdownTimeout = 30 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Long: `Run the HTTP API server. Pending migrations are applied on start and,
in development, an empty database is seeded with sample content.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serve(ctx context.Context) error {
	slog.Info("configuration loaded", "env", cfg.Env, "addr", cfg.Addr())

	pool, err := openDB(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(ctx, pool); err != nil {
			return fmt.Errorf("seeding database: %w", err)
		}
	}

	limiter, closeLimiter, err := newLimiter(ctx)
	if err != nil {
		return err
	}
	defer closeLimiter()

	categories := service.NewCategoryService(pool)
	posts := service.NewPostService(pool)

	r := router.New(router.Deps{
		Categories: handlers.NewCategories(categories),
		Posts:      handlers.NewPosts(posts),
		Limiter:    limiter,
		Metrics:    metrics.New(),
		DB:         pool,
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		slog.Info("shutting down server")

		// Give active requests up to 30 seconds to complete.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	slog.Info("server stopped gracefully")
	return nil
}

// newLimiter returns the Valkey-backed limiter when Valkey is configured and
// the in-process one otherwise. The returned func releases its resources.
func newLimiter(ctx context.Context) (middleware.Limiter, func(), error) {
	if !cfg.ValkeyEnabled() {
		slog.Info("valkey not configured, using in-process rate limiter")
		l := middleware.NewLocalLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow)
		return l, l.Stop, nil
	}

	client, err := valkey.Connect(ctx, cfg.ValkeyAddr(), cfg.ValkeyPassword)
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to valkey: %w", err)
	}
	slog.Info("valkey connected", "addr", cfg.ValkeyAddr())

	l := valkey.NewLimiter(client, cfg.RateLimitRequests, cfg.RateLimitWindow)
	return l, func() { client.Close() }, nil
}
