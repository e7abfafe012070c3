// Package server exposes the sync and analysis HTTP API.
package server

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"fricu/internal/analysis"
	"fricu/internal/auth"
	"fricu/internal/service"
)

// MaxBodyBytes bounds PUT payloads
const MaxBodyBytes = 64 << 10

// ServerConfig contains tunables for the HTTP server
type ServerConfig struct {
	Address      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DefaultServerConfig returns timeouts suitable for the sync API
func DefaultServerConfig(addr string) ServerConfig {
	return ServerConfig{
		Address:      addr,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// NewServer creates *http.Server with provided handler
func NewServer(cfg ServerConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         cfg.Address,
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
}

// Deps are the services the API is built on
type Deps struct {
	Sync          *service.SyncService
	Query         *service.QueryService
	Auth          auth.Config
	DefaultWindow analysis.Window
}

// NewHandler builds the full middleware chain around the API routes
func NewHandler(deps Deps) http.Handler {
	h := &Handler{
		sync:          deps.Sync,
		query:         deps.Query,
		defaultWindow: deps.DefaultWindow,
	}

	mux := http.NewServeMux()
	h.RegisterRoutes(mux)
	mux.Handle("/metrics", promhttp.Handler())

	authMiddleware := auth.NewMiddleware(deps.Auth, auth.ReadOnly)
	authMiddleware.OnError = func(w http.ResponseWriter, _ *http.Request, err error) {
		writeError(w, http.StatusUnauthorized, err.Error())
	}

	return requestID(accessLog(recoverer(authMiddleware.Wrap(mux))))
}
