// Package httpapi exposes the workbench operations over a local HTTP API.
// Every endpoint accepts and returns JSON, and every response is a
// well-formed envelope, including on panic.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/crmodel/cli/internal/engine"
	"github.com/crmodel/cli/internal/output"
	"github.com/crmodel/cli/internal/version"
)

// Server wires the execution bridge into HTTP handlers.
type Server struct {
	bridge *engine.Bridge
}

// NewServer creates a server backed by the given execution bridge.
// A nil bridge gets replaced with a default one.
func NewServer(bridge *engine.Bridge) *Server {
	if bridge == nil {
		bridge = engine.New()
	}
	return &Server{bridge: bridge}
}

// Router builds the HTTP router.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(recoverJSON)

	r.Get("/api/health", s.handleHealth)
	r.Post("/api/validate", s.handleValidate)
	r.Post("/api/simulate", s.handleSimulate)
	r.Post("/api/bundle", s.handleBundle)
	r.Post("/api/inclusions/detect", s.handleInclusionsDetect)
	r.Post("/api/inclusions/apply", s.handleInclusionsApply)

	return r
}

// ListenAndServe runs the API server on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	output.Info("API server listening", "addr", addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": version.GetInfo().Version,
	})
}

// recoverJSON turns handler panics into a well-formed JSON error response.
func recoverJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				output.Error("handler panic", "path", r.URL.Path, "panic", rec)
				writeError(w, http.StatusInternalServerError, "internal_error",
					"an internal error occurred while processing the request")
			}
		}()
		next.ServeHTTP(w, r)
	})
}
