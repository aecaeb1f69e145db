// Package httpapi implements the HTTP surface over the document ingestion
// and semantic search core: thin handlers that parse a request, call into
// internal/blobstore, internal/pdf/*, and internal/semanticindex, and
// translate the result back to JSON. No business logic lives here.
package httpapi

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/agentic-docs/docintel/internal/blobstore"
	"github.com/agentic-docs/docintel/internal/embeddings"
	"github.com/agentic-docs/docintel/internal/lifecycle"
	"github.com/agentic-docs/docintel/internal/registry"
	"github.com/agentic-docs/docintel/internal/semanticindex"
)

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port               int
	Bind               string
	ShutdownTimeout    time.Duration
	IngestTimeout      time.Duration
	IngestRateLimitRPM int
}

// InsightsFunc generates narrative insights over a query selection and its
// matches. A nil InsightsFunc makes the /insights route report disabled.
type InsightsFunc func(ctx context.Context, selection string, matches []semanticindex.Result) ([]string, error)

// AudioFunc synthesizes narration audio from a script. A nil AudioFunc
// makes the /audio route report disabled.
type AudioFunc func(ctx context.Context, script, voice string) ([]byte, error)

// Server is the HTTP server fronting the document core. Safe for
// concurrent use.
type Server struct {
	mu     sync.RWMutex
	config ServerConfig
	router *chi.Mux
	server *http.Server
	log    *slog.Logger

	store     *blobstore.Store
	index     *semanticindex.Index
	embedder  embeddings.EmbeddingsProvider
	registry  *registry.Registry
	lifecycle *lifecycle.Controller

	ingestLimiters *clientLimiters

	metricsHandler http.Handler
	insightsFunc   InsightsFunc
	audioFunc      AudioFunc
}

// NewServer wires a Server over the given core components. reg may be nil;
// registry bookkeeping then becomes best-effort and is skipped.
func NewServer(config ServerConfig, store *blobstore.Store, index *semanticindex.Index, embedder embeddings.EmbeddingsProvider, reg *registry.Registry, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	if config.IngestTimeout <= 0 {
		config.IngestTimeout = 5 * time.Minute
	}
	if config.ShutdownTimeout <= 0 {
		config.ShutdownTimeout = 10 * time.Second
	}

	s := &Server{
		config:         config,
		store:          store,
		index:          index,
		embedder:       embedder,
		registry:       reg,
		lifecycle:      lifecycle.New(store, index),
		log:            log,
		ingestLimiters: newClientLimiters(config.IngestRateLimitRPM),
	}
	s.router = chi.NewRouter()
	s.setupRoutes()
	return s
}

// SetMetricsHandler mounts handler at GET /metrics.
func (s *Server) SetMetricsHandler(handler http.Handler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.metricsHandler = handler
	s.router = chi.NewRouter()
	s.setupRoutes()
}

// SetInsightsFunc wires the insights capability interface.
func (s *Server) SetInsightsFunc(fn InsightsFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.insightsFunc = fn
}

// SetAudioFunc wires the TTS capability interface.
func (s *Server) SetAudioFunc(fn AudioFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.audioFunc = fn
}

// Handler returns the HTTP handler, for tests.
func (s *Server) Handler() http.Handler {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.router
}

func (s *Server) setupRoutes() {
	r := s.router
	r.Use(requestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/healthz", s.handleHealthz)
	r.Get("/readyz", s.handleReadyz)

	if s.metricsHandler != nil {
		r.Handle("/metrics", s.metricsHandler)
	}

	r.Post("/outline", s.handleOutline)

	r.Route("/search", func(r chi.Router) {
		r.With(s.ingestMiddleware).Post("/ingest", s.handleIngest)
		r.Post("/query", s.handleQuery)
		r.With(s.ingestMiddleware).Post("/force-reingest", s.handleForceReingest)
	})

	r.Route("/storage", func(r chi.Router) {
		r.Post("/clear", s.handleStorageClear)
		r.Get("/status", s.handleStorageStatus)
		r.Get("/debug", s.handleStorageDebug)
		r.Get("/health", s.handleStorageHealth)
	})

	r.Route("/files", func(r chi.Router) {
		r.Get("/{docId}", s.handleFileGet)
		r.Delete("/{docId}", s.handleFileDeleteOne)
		r.Post("/delete", s.handleFilesDeleteBatch)
		r.Delete("/", s.handleFilesDeleteBatch)
	})

	r.Post("/insights", s.handleInsights)
	r.Post("/audio", s.handleAudio)
}

// ingestMiddleware applies the ingest timeout and the per-client ingest
// rate limiter ahead of the CPU-heavy embedding path.
func (s *Server) ingestMiddleware(next http.Handler) http.Handler {
	timeoutNext := middleware.Timeout(s.config.IngestTimeout)(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		limiter := s.ingestLimiters.forClient(clientKey(r))
		if !limiter.Allow() {
			writeJSONError(w, http.StatusTooManyRequests, "ingest rate limit exceeded")
			return
		}
		timeoutNext.ServeHTTP(w, r)
	})
}

// requestID stamps every request with a UUID correlation ID under chi's
// standard request-ID context key, so middleware.GetReqID and the access
// log both see it.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), middleware.RequestIDKey, uuid.NewString())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Info("http request",
			"request_id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
		)
	})
}

func clientKey(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// clientLimiters hands out one token-bucket limiter per client address, so
// one noisy client cannot starve the ingest path for everyone else.
type clientLimiters struct {
	mu       sync.Mutex
	rpm      int
	limiters map[string]*rate.Limiter
}

func newClientLimiters(rpm int) *clientLimiters {
	if rpm <= 0 {
		rpm = 30
	}
	return &clientLimiters{rpm: rpm, limiters: make(map[string]*rate.Limiter)}
}

func (c *clientLimiters) forClient(key string) *rate.Limiter {
	c.mu.Lock()
	defer c.mu.Unlock()
	if l, ok := c.limiters[key]; ok {
		return l
	}
	l := rate.NewLimiter(rate.Limit(float64(c.rpm)/60.0), c.rpm)
	c.limiters[key] = l
	return l
}

// Start starts the HTTP server and blocks until it is stopped.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.Bind, s.config.Port)

	s.mu.Lock()
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.router,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}
	server := s.server
	s.mu.Unlock()

	s.log.Info("http server listening", "addr", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server error; %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.RLock()
	server := s.server
	s.mu.RUnlock()

	if server == nil {
		return nil
	}
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown http server; %w", err)
	}
	return nil
}
