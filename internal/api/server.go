package api

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Server is the HTTP API server with WebSocket support, combining the
// HTTP router with a WebSocket hub that pushes Snapshot updates.
type Server struct {
	host        SessionInterface
	router      *chi.Mux
	wsHub       *WebSocketHub
	rateLimiter *IPRateLimiter
}

// NewServer creates a new API server with default production
// configuration.
//
// The WebSocket hub and broadcast loop do not start, and no network
// listener is opened, until Start() is called. The rate limiter created
// here starts its cleanup goroutine immediately.
//
// For testing HTTP endpoints without WebSocket support, use NewRouter()
// directly.
func NewServer(host SessionInterface) *Server {
	s := &Server{
		host:  host,
		wsHub: NewWebSocketHub(),
	}

	s.rateLimiter = NewIPRateLimiter(DefaultRateLimitConfig)

	s.router = NewRouter(RouterConfig{
		Host:        host,
		RateLimiter: s.rateLimiter,
	})

	s.setupWebSocketRoutes()

	return s
}

// setupWebSocketRoutes adds WebSocket-specific routes to the router.
// These need access to the wsHub instance, so they can't be part of
// the generic NewRouter factory.
func (s *Server) setupWebSocketRoutes() {
	s.router.Get("/ws", s.handleWS)
}

// Start begins the HTTP server AND starts the WebSocket hub and broadcast
// workers. It is the only method that opens a network listener.
//
// Call this method only once. To stop the server, signal the process.
func (s *Server) Start(addr string) error {
	go s.wsHub.Run()
	s.wsHub.StartBroadcastLoop(s.host)

	log.Printf("antares: API server starting on %s", addr)
	return http.ListenAndServe(addr, s.router)
}

// Router returns the HTTP handler for use with httptest.
//
// Example:
//
//	server := api.NewServer(host)
//	ts := httptest.NewServer(server.Router())
//	defer ts.Close()
//	resp, _ := http.Get(ts.URL + "/api/state")
func (s *Server) Router() http.Handler {
	return s.router
}

// Stop performs graceful shutdown of background workers. Call this
// before process exit to ensure clean cleanup.
func (s *Server) Stop() {
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	s.wsHub.HandleWebSocket(w, r)
}
