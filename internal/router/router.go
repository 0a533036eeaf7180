// Package router sets up all HTTP routes and middleware chains for the
// orgchart service.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"

	"orgchart/internal/handlers"
	"orgchart/internal/metrics"
	"orgchart/internal/middleware"
)

// Options wires the handlers into the router.
type Options struct {
	Employees   *handlers.Employees
	Store       handlers.Pinger
	MetricsPath string
	// CORSOrigins lists allowed origins; "*" allows any.
	CORSOrigins []string
}

// New creates and returns the configured Chi router with all middleware
// and routes wired up.
func New(opts Options) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.SecureHeaders)
	r.Use(corsPolicy(opts.CORSOrigins).Handler)

	r.Get("/health", healthHandler)
	if opts.Store != nil {
		r.Get("/health/ready", handlers.Ready(opts.Store))
	}
	if opts.MetricsPath != "" {
		r.Method(http.MethodGet, opts.MetricsPath, metrics.Handler())
	}

	r.Get("/employee/{id}", opts.Employees.Get)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, http.StatusNotFound, `{"message":"Not found."}`)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, http.StatusMethodNotAllowed, `{"message":"Method not allowed."}`)
	})

	return r
}

// corsPolicy allows read-only cross-origin calls from the given origins.
func corsPolicy(origins []string) *cors.Cors {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodHead, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{middleware.RequestIDHeader},
	})
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeMessage(w, http.StatusOK, `{"status":"ok"}`)
}

func writeMessage(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(body))
}
