// Package site serves the documentation website: landing page, category
// and component pages, previews, search, static content pages and a small
// JSON API.
package site

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/gnana997/reactatoms/pkg/bundle"
	"github.com/gnana997/reactatoms/pkg/metrics"
)

// Config controls the optional parts of the server.
type Config struct {
	// CacheSize is the number of rendered pages kept. 0 disables the cache.
	CacheSize int
	// RateLimit is requests per second across all clients. <= 0 disables it.
	RateLimit float64
	// Burst is the token bucket size. Defaults to max(1, RateLimit).
	Burst int
	// Dev enables the live reload websocket and its client script.
	Dev bool
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{CacheSize: 512}
}

// Server renders pages from the holder's current bundle.
type Server struct {
	holder  *bundle.Holder
	config  Config
	metrics *metrics.Metrics
	logger  *slog.Logger

	templates *templateSet
	cache     *PageCache
	hub       *Hub
	limiter   *rate.Limiter
	router    chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithMetrics enables request metrics and the /metrics route.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// WithLogger sets the access and error logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// New builds the server and its router. A successful bundle reload purges
// the page cache and, in dev mode, tells connected browsers to reload.
func New(holder *bundle.Holder, config Config, opts ...Option) (*Server, error) {
	s := &Server{
		holder: holder,
		config: config,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	tmpl, err := loadTemplates()
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}
	s.templates = tmpl

	if config.CacheSize > 0 {
		s.cache, err = NewPageCache(config.CacheSize, s.metrics)
		if err != nil {
			return nil, err
		}
	}
	if config.RateLimit > 0 {
		burst := config.Burst
		if burst <= 0 {
			burst = max(1, int(config.RateLimit))
		}
		s.limiter = rate.NewLimiter(rate.Limit(config.RateLimit), burst)
	}
	if config.Dev {
		s.hub = NewHub(s.logger, s.metrics)
	}

	holder.OnReload(func(b *bundle.Bundle) {
		s.Purge()
		if s.hub != nil {
			s.hub.Broadcast("reload")
		}
	})

	s.router = s.routes()
	return s, nil
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Hub returns the live reload hub, nil outside dev mode.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Purge empties the rendered page cache.
func (s *Server) Purge() {
	if s.cache != nil {
		s.cache.Purge()
	}
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.accessLog)
	r.Use(chimw.Recoverer)
	r.Use(s.observe)
	if s.limiter != nil {
		r.Use(s.rateLimit)
	}

	r.Get("/", s.page(s.handleLanding))
	r.Get("/components", s.page(s.handleComponents))
	r.Get("/components/{category}", s.page(s.handleCategory))
	r.Get("/components/{category}/{slug}", s.page(s.handleComponent))
	r.Get("/preview/{slug}", s.page(s.handlePreview))
	r.Get("/search", s.page(s.handleSearch))

	for _, name := range staticPages {
		r.Get("/"+name, s.page(s.handleContent(name)))
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/categories", s.apiCategories)
		r.Get("/components", s.apiComponents)
		r.Get("/components/{slug}", s.apiComponent)
		r.NotFound(s.apiNotFound)
	})

	if s.metrics != nil && s.metrics.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.metrics.Gatherer, promhttp.HandlerOpts{}))
	}
	if s.hub != nil {
		r.Get("/livereload", s.hub.ServeHTTP)
	}

	r.NotFound(s.page(s.handleNotFound))
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	})
	return r
}

// Rendered is one page rendered without a network round trip.
type Rendered struct {
	Status      int
	ContentType string
	Body        []byte
}

// RenderPath runs target through the full handler chain. The static
// exporter uses it to write pages to disk.
func (s *Server) RenderPath(ctx context.Context, target string) (*Rendered, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", target, err)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return &Rendered{
		Status:      rec.Code,
		ContentType: rec.Header().Get("Content-Type"),
		Body:        rec.Body.Bytes(),
	}, nil
}
