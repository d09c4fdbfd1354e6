package http

import (
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"creditlens/internal/cache"
	"creditlens/internal/core"
	"creditlens/internal/log"
	"creditlens/internal/metrics"
	"creditlens/internal/middleware/security"
	"creditlens/internal/middleware/trace"
	"creditlens/internal/services"
	appweb "creditlens/web"
)

// Server serves the dashboard for one report.
type Server struct {
	http.Server

	report    *services.Report
	templates *template.Template
	logger    *log.Logger
	metrics   *metrics.Recorder
	hostGuard *security.HostGuard

	detailCache  *cache.LRUCache[[]core.DetailRow]
	cacheManager *cache.Manager
	started      time.Time
	shutdownOnce sync.Once
}

// Options tune the server. Zero values select the defaults below.
type Options struct {
	Logger    *log.Logger
	Metrics   *metrics.Recorder
	BindHost  string
	CacheSize int
	CacheTTL  time.Duration

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

const (
	defaultCacheSize    = 64
	defaultReadTimeout  = 10 * time.Second
	defaultWriteTimeout = 15 * time.Second
	defaultIdleTimeout  = 60 * time.Second
	staticMaxAge        = 3600
)

// NewServer parses the embedded templates and wires routes and middleware.
// Template parse failures are logged; affected pages then answer 500.
func NewServer(addr string, report *services.Report, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.Discard()
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = defaultCacheSize
	}
	if opts.ReadTimeout <= 0 {
		opts.ReadTimeout = defaultReadTimeout
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = defaultWriteTimeout
	}
	if opts.IdleTimeout <= 0 {
		opts.IdleTimeout = defaultIdleTimeout
	}
	if opts.BindHost == "" {
		opts.BindHost = hostOf(addr)
	}

	s := &Server{
		report:       report,
		logger:       logger.WithComponent(log.ComponentHTTP),
		metrics:      opts.Metrics,
		hostGuard:    security.NewHostGuard(opts.BindHost, logger),
		detailCache:  cache.NewLRUCache[[]core.DetailRow](opts.CacheSize, opts.CacheTTL),
		cacheManager: cache.NewManager(logger),
		started:      time.Now(),
	}
	s.cacheManager.Register(s.detailCache)
	if opts.CacheTTL > 0 {
		s.cacheManager.StartCleanup(opts.CacheTTL)
	}

	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		s.logger.WithComponent(log.ComponentTemplate).Error("Failed parsing templates",
			log.FieldError, err.Error())
	}
	s.templates = t

	s.Server = http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadTimeout:       opts.ReadTimeout,
		ReadHeaderTimeout: opts.ReadTimeout,
		WriteTimeout:      opts.WriteTimeout,
		IdleTimeout:       opts.IdleTimeout,
	}
	return s
}

// routes builds the handler chain: trace, request logger, host guard,
// security headers, mux.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("GET /static/", security.StaticAssetMiddleware(staticMaxAge)(static))
	} else {
		s.logger.Warn("Failed to mount embedded static FS", log.FieldError, err.Error())
	}

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /api/summary", s.handleSummaryData)
	mux.HandleFunc("GET /api/comparison", s.handleComparisonData)
	mux.HandleFunc("GET /ui/details", s.handleDetails)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.Handle("GET /metrics", s.metrics.Handler())

	var h http.Handler = mux
	h = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(h)
	h = s.hostGuard.Middleware(h)
	h = log.RequestIDMiddleware(trace.RequestID)(h)
	h = log.Middleware(s.logger)(h)
	h = trace.NewMiddleware(s.logger, s.metrics, routeLabel).Middleware(h)
	return h
}

// Shutdown stops the cache sweeper and then the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.shutdownOnce.Do(s.cacheManager.Stop)
	if err := s.Server.Shutdown(ctx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}

// URL is the address a browser should open.
func (s *Server) URL() string {
	return "http://" + browsableAddr(s.Addr) + "/"
}
