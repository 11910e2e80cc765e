package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"
	"github.com/go-pkgz/rest/logger"
	"github.com/go-pkgz/routegroup"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cartscope/cartscope/pkg/domain"
	"github.com/cartscope/cartscope/pkg/metrics"
	"github.com/cartscope/cartscope/pkg/page"
	"github.com/cartscope/cartscope/pkg/platform"
)

//go:generate moq -out mocks/config.go -pkg mocks -skip-ensure -fmt goimports . ConfigProvider
//go:generate moq -out mocks/analyzer.go -pkg mocks -skip-ensure -fmt goimports . Analyzer
//go:generate moq -out mocks/injector.go -pkg mocks -skip-ensure -fmt goimports . Injector

// Server represents HTTP server instance
type Server struct {
	config    ConfigProvider
	platforms Identifier
	pages     PageTracker
	extractor CartExtractor
	injector  Injector
	analyzer  Analyzer
	metrics   *metrics.Metrics
	version   string
	debug     bool

	lock       sync.Mutex
	httpServer *http.Server
	router     *routegroup.Bundle
}

// Identifier matches page identity to a platform adapter
type Identifier interface {
	Identify(rawURL string) (*platform.Adapter, bool)
	ByID(id string) (*platform.Adapter, bool)
}

// PageTracker holds the per-tab page documents
type PageTracker interface {
	Set(tabID, rawURL, adapterID string, doc *goquery.Document)
	View(tabID string) (page.View, bool)
	Doc(tabID string) (*goquery.Document, bool)
}

// CartExtractor turns a page document into cart items
type CartExtractor interface {
	Extract(adapter *platform.Adapter, doc *goquery.Document, currency string) []domain.CartItem
}

// Injector schedules trigger injection for a tab
type Injector interface {
	Schedule(tabID string)
}

// Analyzer drives the per-tab request state machine and serves snapshots
type Analyzer interface {
	Request(tabID, sourceRetailer string, items []domain.CartItem) bool
	NavigationCompleted(tabID string)
	Query(tabID string) domain.SessionSnapshot
	Signal(tabID string) domain.Signal
}

// ConfigProvider provides server configuration
type ConfigProvider interface {
	GetServerConfig() (listen string, timeout time.Duration)
}

// New initializes a new server instance
func New(cfg ConfigProvider, platforms Identifier, pages PageTracker, extractor CartExtractor,
	injector Injector, analyzer Analyzer, m *metrics.Metrics, version string, debug bool) *Server {
	s := &Server{
		config:    cfg,
		platforms: platforms,
		pages:     pages,
		extractor: extractor,
		injector:  injector,
		analyzer:  analyzer,
		metrics:   m,
		version:   version,
		debug:     debug,
		router:    routegroup.New(http.NewServeMux()),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// Run starts the HTTP server and handles graceful shutdown
func (s *Server) Run(ctx context.Context) error {
	listen, timeout := s.config.GetServerConfig()
	log.Printf("[INFO] starting server on %s", listen)

	s.lock.Lock()
	s.httpServer = &http.Server{
		Addr:         listen,
		Handler:      s.router,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
	}
	s.lock.Unlock()

	go func() {
		<-ctx.Done()
		log.Printf("[INFO] shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("[WARN] server shutdown error: %v", err)
		}
	}()

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server error: %w", err)
	}

	return nil
}

// setupMiddleware configures standard middleware for the server
func (s *Server) setupMiddleware() {
	s.router.Use(rest.AppInfo("cartscope", "cartscope", s.version))
	s.router.Use(rest.Ping)

	if s.debug {
		s.router.Use(logger.New(logger.Log(lgr.Default()), logger.Prefix("[DEBUG]")).Handler)
	}

	s.router.Use(rest.Recoverer(lgr.Default()))
	s.router.Use(rest.Throttle(100))
	s.router.Use(rest.SizeLimit(5 * 1024 * 1024)) // 5MB, page snapshots carry full HTML
}

// setupRoutes configures application routes
func (s *Server) setupRoutes() {
	// API routes
	s.router.Mount("/api/v1").Route(func(r *routegroup.Bundle) {
		r.HandleFunc("GET /status", s.statusHandler)
		r.HandleFunc("POST /page/event", s.pageEventHandler)
		r.HandleFunc("GET /page/{tab}", s.pageViewHandler)
		r.HandleFunc("POST /page/navigated", s.pageNavigatedHandler)
		r.HandleFunc("POST /analyze", s.analyzeHandler)
		r.HandleFunc("GET /session/{tab}", s.sessionHandler)
		r.HandleFunc("GET /badge/{tab}", s.badgeHandler)
	})

	if s.metrics != nil {
		s.router.Handle("GET /metrics", promhttp.HandlerFor(s.metrics.Registry, promhttp.HandlerOpts{}))
	}
}

// statusHandler returns server status
func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{
		"status":  "ok",
		"version": s.version,
		"time":    time.Now().UTC(),
	}
	renderJSON(w, r, http.StatusOK, status)
}

// renderJSON sends JSON response
func renderJSON(w http.ResponseWriter, _ *http.Request, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Printf("[ERROR] can't encode response to JSON: %v", err)
		}
	}
}

// renderError sends error response as JSON
func renderError(w http.ResponseWriter, r *http.Request, err error, code int) {
	errMsg := "unknown error"
	if err != nil {
		errMsg = err.Error()
	}
	renderJSON(w, r, code, map[string]string{"error": errMsg})
}
