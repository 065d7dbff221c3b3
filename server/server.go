package server

import (
	"context"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"strings"
	"sync/atomic"

	"github.com/jrsteele09/go-inventory-dashboard/credentials"
	"github.com/jrsteele09/go-inventory-dashboard/gateway"
	"github.com/jrsteele09/go-inventory-dashboard/internal/config"
	"github.com/jrsteele09/go-inventory-dashboard/metrics"
	"github.com/jrsteele09/go-inventory-dashboard/session"
	"github.com/prometheus/client_golang/prometheus"
	zlog "github.com/rs/zerolog/log"
)

type Server struct {
	env        string // Environment (e.g., "DEV", "PROD")
	appName    string
	mux        *http.ServeMux
	routes     []string
	config     config.Config
	gateway    *gateway.Client
	backend    credentials.Backend
	sessions   *session.Registry
	metrics    *metrics.Recorder
	gatherer   prometheus.Gatherer
	templates  map[string]*template.Template
	httpClient *http.Client
	ready      atomic.Bool
}

type Option func(*Server)

// WithMetrics registers the collectors on reg and serves reg on /metrics.
func WithMetrics(reg *prometheus.Registry) Option {
	return func(s *Server) {
		s.metrics = metrics.New(reg)
		s.gatherer = reg
	}
}

// WithHTTPClient sets the client used for backend calls
func WithHTTPClient(hc *http.Client) Option {
	return func(s *Server) { s.httpClient = hc }
}

// New builds the dashboard. backend holds one credential slot per browser.
func New(c config.Config, backend credentials.Backend, opts ...Option) (*Server, error) {
	s := &Server{
		env:     c.GetEnv(),
		appName: c.GetAppName(),
		mux:     http.NewServeMux(),
		config:  c,
		backend: backend,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = metrics.New(prometheus.DefaultRegisterer)
		s.gatherer = prometheus.DefaultGatherer
	}

	s.gateway = gateway.New(c.GetAPIURL(), nil,
		gateway.WithHTTPClient(s.httpClient),
		gateway.WithTimeout(c.GetRequestTimeout()),
		gateway.WithMetrics(s.metrics),
		gateway.WithUnauthorizedHandler(s.onUnauthorized),
	)
	s.sessions = session.NewRegistry(s.newStore, s.metrics)

	templates, err := parsePages()
	if err != nil {
		return nil, fmt.Errorf("[Server New] failed to parse templates: %w", err)
	}
	s.templates = templates

	s.initRoutes()
	s.logRoutes()
	s.ready.Store(true)

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

// Sessions exposes the per-browser registry so the caller can sweep it
func (s *Server) Sessions() *session.Registry {
	return s.sessions
}

// SetReady flips /healthz; it is cleared on shutdown
func (s *Server) SetReady(ready bool) {
	s.ready.Store(ready)
}

func (s *Server) vault(browserID string) *credentials.Vault {
	return credentials.NewVault(s.backend.Scope(browserID))
}

func (s *Server) newStore(browserID string) *session.Store {
	v := s.vault(browserID)
	return session.NewStore(s.gateway.WithCredentials(v), v, s.metrics)
}

// client is the gateway bound to the requesting browser's credentials
func (s *Server) client(r *http.Request) *gateway.Client {
	return s.gateway.WithCredentials(s.vault(browserIDFromContext(r.Context())))
}

// onUnauthorized runs after the gateway cleared a browser's tokens. Dropping
// the in-memory store makes the next request start from empty storage.
func (s *Server) onUnauthorized(ctx context.Context) {
	id := browserIDFromContext(ctx)
	if id == "" {
		return
	}
	s.sessions.Forget(id)
	zlog.Ctx(ctx).Info().Msg("backend rejected the session, logged out")
}

func (s *Server) logRoutes() {
	if s.env != config.EnvDev {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	log.Printf("[%-19s] %s\n", coloredMethod(method), path)
}

func coloredMethod(method string) string {
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		return color + paddedMethod + ResetColor
	}
	return Gray + paddedMethod + ResetColor
}

// Helper function to determine the scheme (http/https)
func getScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	if scheme := r.Header.Get("X-Forwarded-Proto"); scheme != "" {
		return scheme
	}
	return "http"
}
