// Package web provides the HTTP server and handlers for the checkbox grid UI.
package web

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/JonMunkholm/checkgrid/internal/assets"
	"github.com/JonMunkholm/checkgrid/internal/config"
	"github.com/JonMunkholm/checkgrid/internal/export"
	"github.com/JonMunkholm/checkgrid/internal/store"
	"github.com/JonMunkholm/checkgrid/internal/web/middleware"
	"github.com/JonMunkholm/checkgrid/internal/web/templates"
)

// Server is the HTTP server for the grid UI.
type Server struct {
	cfg      *config.Config
	provider store.Provider
	sessions *SessionStore
	exports  *export.Limiter
	router   *chi.Mux
	server   *http.Server
}

// NewServer creates a server reading grid rows from provider.
func NewServer(cfg *config.Config, provider store.Provider) *Server {
	s := &Server{
		cfg:      cfg,
		provider: provider,
		sessions: NewSessionStore(cfg.Session, slog.Default().With("component", "selection")),
		exports:  export.NewLimiter(cfg.Grid.ExportConcurrency, cfg.Grid.ExportWait),
		router:   chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(chimw.RequestID)
	s.router.Use(middleware.TrustedRealIP(s.cfg.Security.TrustedProxies))
	s.router.Use(middleware.Logger)
	s.router.Use(chimw.Recoverer)
	s.router.Use(chimw.Compress(5))
	if s.cfg.Server.RequestTimeout > 0 {
		s.router.Use(chimw.Timeout(s.cfg.Server.RequestTimeout))
	}

	s.router.Use(securityHeaders(s.cfg.Security.EnableCSP))

	if s.cfg.Rate.Enabled {
		limiter := newRateLimiter(s.cfg.Rate.RequestsPerMinute, time.Minute)
		s.router.Use(limiter.middleware)
	}
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(assets.FS()))))

	s.router.Get("/", s.handleIndex)
	s.router.Route("/grid/{gridID}", func(r chi.Router) {
		r.Get("/", s.handleGrid)
		r.Post("/select", s.handleSelect)
		r.Get("/export", s.handleExport)
	})
}

// Start begins listening for HTTP requests and sweeping idle sessions.
// The sweeper stops when ctx is done.
func (s *Server) Start(ctx context.Context) error {
	s.server = &http.Server{
		Addr:         s.cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}
	go s.sessions.Run(ctx)

	slog.Info("starting server", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server and waits for running exports.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	err := s.server.Shutdown(ctx)

	if n := s.exports.Active(); n > 0 {
		slog.Info("waiting for exports to complete", "active", n)
		if derr := s.exports.Drain(ctx); derr != nil {
			slog.Warn("exports did not complete in time", "error", derr)
		}
	}
	return err
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Sessions returns the selection session store.
func (s *Server) Sessions() *SessionStore {
	return s.sessions
}

// securityHeaders adds security headers to all responses.
func securityHeaders(csp bool) func(http.Handler) http.Handler {
	policy := fmt.Sprintf(
		"default-src 'self'; script-src 'self' 'unsafe-inline' 'unsafe-eval' %s; style-src 'self' 'unsafe-inline'",
		templates.HTMXScript,
	)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")
			w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
			if csp {
				// htmx evaluates js: hx-vals expressions.
				w.Header().Set("Content-Security-Policy", policy)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// rateLimiter implements a simple fixed window rate limiter per IP.
type rateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	rate     int
	window   time.Duration
}

type visitor struct {
	tokens    int
	lastReset time.Time
}

func newRateLimiter(rate int, window time.Duration) *rateLimiter {
	return &rateLimiter{
		visitors: make(map[string]*visitor),
		rate:     rate,
		window:   window,
	}
}

// allow consumes a token for ip. Stale visitors are dropped lazily when
// a new window starts.
func (rl *rateLimiter) allow(ip string, now time.Time) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, ok := rl.visitors[ip]
	if !ok || now.Sub(v.lastReset) > rl.window {
		if !ok && len(rl.visitors) > 10000 {
			for k, old := range rl.visitors {
				if now.Sub(old.lastReset) > rl.window {
					delete(rl.visitors, k)
				}
			}
		}
		rl.visitors[ip] = &visitor{tokens: rl.rate - 1, lastReset: now}
		return true
	}
	if v.tokens <= 0 {
		return false
	}
	v.tokens--
	return true
}

func (rl *rateLimiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.allow(clientIP(r.RemoteAddr), time.Now()) {
			w.Header().Set("Retry-After", "60")
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP strips the port from a RemoteAddr.
func clientIP(addr string) string {
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}
