// file: internal/server/server.go
// version: 2.0.1
// guid: 4c5d6e7f-8a9b-0c1d-2e3f-4a5b6c7d8e9f

package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jdfalk/dashboard-search/internal/dataset"
	"github.com/jdfalk/dashboard-search/internal/matcher"
	"github.com/jdfalk/dashboard-search/internal/metrics"
	"github.com/jdfalk/dashboard-search/internal/realtime"
	"github.com/jdfalk/dashboard-search/internal/server/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// shutdownGrace gives SSE clients a moment to read the shutdown event.
const shutdownGrace = 500 * time.Millisecond

// Server represents the HTTP server
type Server struct {
	cfg        ServerConfig
	httpServer *http.Server
	router     *gin.Engine
	store      *dataset.Store
	search     *SearchService
	hub        *realtime.EventHub
	log        *zap.Logger
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string
	Host            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration // 0 leaves event streams open
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	RateLimitPerMinute int
	RateLimitBurst     int
	MaxBodyBytes       int64

	DefaultFields []string
	SuggestLimit  int
	Version       string
}

// NewServer creates a new server instance. store, hub and log may be nil.
func NewServer(cfg ServerConfig, store *dataset.Store, m *matcher.Matcher, hub *realtime.EventHub, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	if store == nil {
		store = dataset.NewStore(0, dataset.WithLogger(log))
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(log))
	router.Use(corsMiddleware())
	router.Use(middleware.NewIPRateLimiter(cfg.RateLimitPerMinute, cfg.RateLimitBurst).
		Exempt("/api/v1/health", "/metrics", "/api/events").
		Middleware())
	router.Use(middleware.MaxRequestBodySize(1<<20, cfg.MaxBodyBytes))

	// Register metrics (idempotent)
	metrics.Register()

	s := &Server{
		cfg:    cfg,
		router: router,
		store:  store,
		search: NewSearchService(m, cfg.DefaultFields, cfg.SuggestLimit),
		hub:    hub,
		log:    log,
	}
	s.setupRoutes()
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start runs the server until SIGINT or SIGTERM.
func (s *Server) Start() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return s.Run(ctx)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", net.JoinHostPort(s.cfg.Host, s.cfg.Port))
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.httpServer = &http.Server{
		Handler:        s.router,
		ReadTimeout:    s.cfg.ReadTimeout,
		WriteTimeout:   s.cfg.WriteTimeout,
		IdleTimeout:    s.cfg.IdleTimeout,
		MaxHeaderBytes: 1 << 20, // 1MB
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("starting server", zap.String("addr", ln.Addr().String()))
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Info("shutting down server")

	// Broadcast shutdown event and release open event streams
	if s.hub != nil {
		s.hub.Close("server is shutting down")
		time.Sleep(shutdownGrace)
	}

	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	s.log.Info("server exited")
	return nil
}

// setupRoutes configures all the routes
func (s *Server) setupRoutes() {
	// Prometheus metrics endpoint (standard path)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Real-time events (SSE)
	if s.hub != nil {
		s.router.GET("/api/events", s.hub.HandleSSE)
	}

	api := s.router.Group("/api/v1")
	{
		api.GET("/health", s.healthCheck)

		// Inline search over posted records
		api.POST("/search", s.searchInline)

		// Dataset routes
		api.GET("/datasets", s.listDatasets)
		api.DELETE("/datasets", s.clearDatasets)
		api.PUT("/datasets/:name", s.putDataset)
		api.GET("/datasets/:name", s.getDataset)
		api.DELETE("/datasets/:name", s.deleteDataset)
		api.GET("/datasets/:name/search", s.searchDataset)
	}
}

// corsMiddleware adds CORS headers
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, "+RequestIDHeader)
		c.Header("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")
		c.Header("Access-Control-Expose-Headers", RequestIDHeader)

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func (s *Server) healthCheck(c *gin.Context) {
	resp := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().Unix(),
		Version:   s.cfg.Version,
		Datasets:  s.store.Len(),
	}
	if s.hub != nil {
		resp.SSEClients = s.hub.GetClientCount()
	}
	c.JSON(http.StatusOK, resp)
}

// GetDefaultServerConfig returns default server configuration
func GetDefaultServerConfig() ServerConfig {
	return ServerConfig{
		Port:               "8080",
		Host:               "localhost",
		ReadTimeout:        15 * time.Second,
		IdleTimeout:        60 * time.Second,
		ShutdownTimeout:    30 * time.Second,
		RateLimitPerMinute: 600,
		RateLimitBurst:     60,
		MaxBodyBytes:       32 << 20,
		SuggestLimit:       5,
		Version:            "dev",
	}
}
