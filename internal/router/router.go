// Package router sets up all HTTP routes and middleware chains for the
// inkwell API. Everything under /api is JSON; /health and /metrics are
// operational endpoints outside the rate limiter.
package router

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"inkwell/internal/handlers"
	"inkwell/internal/metrics"
	"inkwell/internal/middleware"
)

// healthTimeout bounds the database ping done by /health.
const healthTimeout = 2 * time.Second

// Pinger reports whether a backing service is reachable. *pgxpool.Pool
// satisfies it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps holds everything the router wires together.
type Deps struct {
	Categories *handlers.Categories
	Posts      *handlers.Posts
	Limiter    middleware.Limiter
	Metrics    *metrics.Metrics
	DB         Pinger
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(d Deps) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.Metrics(d.Metrics))

	r.Get("/health", healthHandler(d.DB))
	r.Handle("/metrics", d.Metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.RateLimit(d.Limiter))

		r.Get("/stats", d.Posts.Stats)

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", d.Categories.List)
			r.Post("/", d.Categories.Create)
			r.Get("/slug/{slug}", d.Categories.GetBySlug)
			r.Get("/{id}", d.Categories.Get)
			r.Patch("/{id}", d.Categories.Update)
			r.Delete("/{id}", d.Categories.Delete)
		})

		r.Route("/posts", func(r chi.Router) {
			r.Get("/", d.Posts.List)
			r.Post("/", d.Posts.Create)
			r.Get("/slug/{slug}", d.Posts.GetBySlug)
			r.Get("/{id}", d.Posts.Get)
			r.Patch("/{id}", d.Posts.Update)
			r.Delete("/{id}", d.Posts.Delete)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusNotFound, `{"error":{"code":"NOT_FOUND","message":"Route not found"}}`)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusMethodNotAllowed, `{"error":{"code":"METHOD_NOT_ALLOWED","message":"Method not allowed"}}`)
	})

	return r
}

// healthHandler returns a JSON health check response. It reports 503 when
// the database does not answer a ping.
func healthHandler(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			slog.Warn("health check failed", "error", err)
			writeStatus(w, http.StatusServiceUnavailable, `{"status":"unavailable"}`)
			return
		}
		writeStatus(w, http.StatusOK, `{"status":"ok"}`)
	}
}

func writeStatus(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(body))
}
