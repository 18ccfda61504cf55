package api

import (
	"net/http"

	"antares/internal/sim"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// SessionInterface defines the host methods the API layer calls. This
// interface enables mocking for tests without ticking a full simulation.
// Keep this minimal — only include methods the API layer actually calls.
type SessionInterface interface {
	// Snapshot returns the latest published, read-only view of the
	// simulation.
	Snapshot() *sim.Snapshot
	// Admirals returns a copy of the current admiral roster.
	Admirals() []sim.Admiral
	// SubmitInput replaces the input the next tick will consume.
	SubmitInput(sim.InputFrame)
}

// RouterConfig contains all dependencies needed to construct the HTTP
// router. Designed for dependency injection and testability.
//
// Example usage in tests:
//
//	cfg := api.RouterConfig{
//	    Host: mockHost,
//	    RateLimitConfig: &api.RateLimitConfig{
//	        RequestsPerSecond: 1000, // High limit for tests
//	        Burst:             1000,
//	    },
//	}
//	router := api.NewRouter(cfg)
//	ts := httptest.NewServer(router)
type RouterConfig struct {
	// Host is the simulation host (required).
	Host SessionInterface

	// RateLimiter is an optional pre-configured rate limiter. If nil, a
	// new one is created from RateLimitConfig.
	RateLimiter *IPRateLimiter

	// RateLimitConfig is used only if RateLimiter is nil. If both are
	// nil, uses DefaultRateLimitConfig.
	RateLimitConfig *RateLimitConfig

	// CORSOrigins is an optional list of allowed CORS origins. If nil,
	// uses the default localhost-only origins.
	CORSOrigins []string

	// StaticFilesDir serves the operator console's static assets. If
	// empty, defaults to "./console".
	StaticFilesDir string

	// DisableLogging disables the request logger middleware (useful for
	// benchmarks).
	DisableLogging bool
}

// routerHandlers holds the handler functions for the router.
type routerHandlers struct {
	host SessionInterface
}

// NewRouter constructs the HTTP router with all middleware and routes.
//
// It opens no network listeners. When cfg.RateLimiter is nil, the
// limiter it creates starts its cleanup goroutine unless the rate-limit
// config's CleanupInterval is zero.
//
// This makes it safe to use in tests with httptest.NewServer.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	if !cfg.DisableLogging {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)

	// Rate limiting before CORS to reject early and save CPU.
	rateLimiter := cfg.RateLimiter
	if rateLimiter == nil {
		rateLimitCfg := DefaultRateLimitConfig
		if cfg.RateLimitConfig != nil {
			rateLimitCfg = *cfg.RateLimitConfig
		}
		rateLimiter = NewIPRateLimiter(rateLimitCfg)
	}
	r.Use(rateLimiter.Middleware)

	corsOrigins := cfg.CORSOrigins
	if corsOrigins == nil {
		corsOrigins = []string{
			"http://localhost:*",
			"http://127.0.0.1:*",
		}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	h := &routerHandlers{host: cfg.Host}

	r.Route("/api", func(r chi.Router) {
		r.Get("/state", h.handleGetState)
		r.Get("/stats", h.handleGetStats)
		r.Get("/admirals", h.handleGetAdmirals)
		r.Post("/input", h.handlePostInput)
	})

	staticDir := cfg.StaticFilesDir
	if staticDir == "" {
		staticDir = "./console"
	}
	r.Handle("/console/*", http.StripPrefix("/console/", http.FileServer(http.Dir(staticDir))))
	r.Get("/console", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, "/console/", http.StatusMovedPermanently)
	})

	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, "/console/", http.StatusFound)
	})

	return r
}

// GetRateLimiterFromRouter extracts a rate limiter from a RouterConfig,
// useful for tests that need to verify rate limiting behavior.
func GetRateLimiterFromRouter(cfg RouterConfig) *IPRateLimiter {
	if cfg.RateLimiter != nil {
		return cfg.RateLimiter
	}
	rateLimitCfg := DefaultRateLimitConfig
	if cfg.RateLimitConfig != nil {
		rateLimitCfg = *cfg.RateLimitConfig
	}
	return NewIPRateLimiter(rateLimitCfg)
}
