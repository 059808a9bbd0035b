package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/hueforge/themed/internal/assets"
	"github.com/hueforge/themed/internal/fetch"
	"github.com/hueforge/themed/internal/infrastructure/config"
	"github.com/hueforge/themed/internal/infrastructure/logging"
	"github.com/hueforge/themed/internal/infrastructure/monitoring"
	"github.com/hueforge/themed/internal/presets"
	themeprovider "github.com/hueforge/themed/internal/providers/theme"
	"github.com/hueforge/themed/internal/service"
)

// Server wraps the HTTP server and dependencies
type Server struct {
	router   *gin.Engine
	http     *http.Server
	registry *service.Registry
	themes   *themeprovider.Provider
	fetcher  *fetch.Fetcher
	assets   *assets.Loader
	metrics  *monitoring.Metrics
	log      *logging.Logger
	cfg      *config.Config
}

// New creates a new server instance
func New(cfg *config.Config, log *logging.Logger) (*Server, error) {
	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}

	metrics := monitoring.NewMetrics()

	themes := themeprovider.NewProvider(metrics)
	if err := seedPresets(themes, log); err != nil {
		return nil, err
	}

	registry := service.NewRegistry()
	if err := registry.Register(themes); err != nil {
		return nil, err
	}

	fetcher := fetch.New(cfg.Fetch, log, metrics)

	loader, err := assets.NewLoader(cfg.Assets, log, metrics)
	if err != nil {
		return nil, fmt.Errorf("failed to create asset loader: %w", err)
	}

	srv := &Server{
		router:   gin.New(),
		registry: registry,
		themes:   themes,
		fetcher:  fetcher,
		assets:   loader,
		metrics:  metrics,
		log:      log,
		cfg:      cfg,
	}
	srv.setupMiddleware()
	srv.setupRoutes()

	return srv, nil
}

func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(corsMiddleware())
	if s.cfg.RateLimit.Enabled {
		s.router.Use(rateLimitMiddleware(s.cfg.RateLimit))
	}
	s.router.Use(monitoring.Middleware(s.metrics))
}

func (s *Server) setupRoutes() {
	s.router.GET("/", s.root)
	s.router.GET("/health", s.health)
	s.router.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	s.router.POST("/themes/parse", s.parseTheme)
	s.router.POST("/themes/validate", s.validateTheme)
	s.router.POST("/themes/create", s.createTheme)
	s.router.POST("/themes/convert/css", s.convertCSS)
	s.router.POST("/themes/convert/registry", s.convertRegistry)
	s.router.POST("/themes/convert/json", s.convertJSON)

	s.router.GET("/themes", s.listThemes)
	s.router.GET("/themes/fetch", s.fetchTheme)
	s.router.GET("/themes/:id", s.getTheme)
	s.router.POST("/themes", s.saveTheme)
	s.router.DELETE("/themes/:id", s.deleteTheme)

	s.router.GET("/assets", s.loadAsset)

	s.router.GET("/services", s.listServices)
	s.router.GET("/services/stats", s.serviceStats)
}

// seedPresets loads the embedded preset themes into the provider.
func seedPresets(themes *themeprovider.Provider, log *logging.Logger) error {
	all, err := presets.All()
	if err != nil {
		return fmt.Errorf("failed to load presets: %w", err)
	}
	for _, p := range all {
		themes.Seed(p.ID(), p.Materialize())
	}
	log.Info("seeded preset themes", zap.Int("count", len(all)))
	return nil
}

// Run starts the HTTP server and blocks until it exits.
func (s *Server) Run() error {
	addr := fmt.Sprintf("%s:%s", s.cfg.Server.Host, s.cfg.Server.Port)
	s.http = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	s.log.Info("server listening", zap.String("addr", addr))
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Close shuts the server down gracefully.
func (s *Server) Close() error {
	s.metrics.Close()
	if s.http == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.http.Shutdown(ctx)
}
