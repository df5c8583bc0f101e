package api

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/cinedex/cinedex/internal/catalog"
	"github.com/cinedex/cinedex/internal/catalog/tmdb"
	"github.com/cinedex/cinedex/internal/config"
	"github.com/cinedex/cinedex/internal/events"
	"github.com/cinedex/cinedex/internal/favorites"
	"github.com/cinedex/cinedex/internal/notification"
	"github.com/cinedex/cinedex/internal/session"
	"github.com/cinedex/cinedex/internal/storage"
)

// Server handles HTTP requests for the Cinedex API.
type Server struct {
	echo      *echo.Echo
	store     *storage.Store
	hub       *events.Hub
	logger    zerolog.Logger
	cfg       *config.Config
	startTime time.Time

	// Services
	tmdbClient          *tmdb.Client
	catalogService      *catalog.Service
	notificationService *notification.Service
	favoritesService    *favorites.Service
	sessionService      *session.Service
}

// NewServer creates a new API server instance.
func NewServer(store *storage.Store, hub *events.Hub, cfg *config.Config, logger zerolog.Logger) (*Server, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:      e,
		store:     store,
		hub:       hub,
		logger:    logger,
		cfg:       cfg,
		startTime: time.Now(),
	}

	// Initialize services
	s.tmdbClient = tmdb.NewClient(cfg.TMDB, logger)
	s.catalogService = catalog.NewService(s.tmdbClient, cfg.TMDB, cfg.Catalog, logger)

	s.notificationService = notification.NewService(store, cfg.Notifications, logger)
	s.favoritesService = favorites.NewService(store, s.notificationService, logger)

	sessionService, err := session.NewService(store, cfg.Session, s.notificationService, logger)
	if err != nil {
		return nil, err
	}
	s.sessionService = sessionService

	if hub != nil {
		s.notificationService.SetBroadcaster(hub)
		s.favoritesService.SetBroadcaster(hub)
		s.sessionService.SetBroadcaster(hub)
		hub.SetDismissHandler(s.notificationService.Dismiss)
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s, nil
}

// setupMiddleware configures Echo middleware.
func (s *Server) setupMiddleware() {
	// Recovery middleware
	s.echo.Use(middleware.Recover())

	// Request ID
	s.echo.Use(middleware.RequestID())

	// CORS
	s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	// Request logging
	s.echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogMethod:   true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if v.Error != nil {
				s.logger.Error().
					Str("method", v.Method).
					Str("uri", v.URI).
					Int("status", v.Status).
					Dur("latency", v.Latency).
					Err(v.Error).
					Msg("request error")
			} else {
				s.logger.Info().
					Str("method", v.Method).
					Str("uri", v.URI).
					Int("status", v.Status).
					Dur("latency", v.Latency).
					Msg("request")
			}
			return nil
		},
	}))

	// Gzip compression
	s.echo.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Level: 5,
		Skipper: func(c echo.Context) bool {
			// Skip compression for WebSocket
			return c.Request().Header.Get("Upgrade") == "websocket"
		},
	}))
}

// setupRoutes configures API routes.
func (s *Server) setupRoutes() {
	// Health check
	s.echo.GET("/health", s.healthCheck)

	// WebSocket endpoint for store change events
	if s.hub != nil {
		s.echo.GET("/ws", s.hub.HandleWebSocket)
	}

	// API v1 group
	api := s.echo.Group("/api/v1")

	// System routes
	api.GET("/status", s.getStatus)

	// Catalog routes
	catalogHandlers := catalog.NewHandlers(s.catalogService)
	catalogHandlers.RegisterRoutes(api.Group("/catalog"))

	// Favorites routes
	favoritesHandlers := favorites.NewHandlers(s.favoritesService)
	favoritesHandlers.RegisterRoutes(api.Group("/favorites"))

	// Session routes
	sessionHandlers := session.NewHandlers(s.sessionService)
	sessionHandlers.RegisterRoutes(api.Group("/session"))

	// Notification routes
	notificationHandlers := notification.NewHandlers(s.notificationService)
	notificationHandlers.RegisterRoutes(api.Group("/notifications"))
}

// Start begins listening for HTTP requests.
func (s *Server) Start(address string) error {
	s.logger.Info().Str("address", address).Msg("starting HTTP server")
	return s.echo.Start(address)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("shutting down HTTP server")

	s.notificationService.Close()

	return s.echo.Shutdown(ctx)
}

// Echo returns the underlying Echo instance (for serving static files).
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

// --- Handler implementations ---

func (s *Server) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) getStatus(c echo.Context) error {
	ctx := c.Request().Context()

	tmdbReachable := s.tmdbClient.Test(ctx) == nil

	connectedClients := 0
	if s.hub != nil {
		connectedClients = s.hub.ClientCount()
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"version":          config.Version,
		"startTime":        s.startTime.Format(time.RFC3339),
		"provider":         s.tmdbClient.Name(),
		"tmdbConfigured":   s.tmdbClient.IsConfigured(),
		"tmdbReachable":    tmdbReachable,
		"connectedClients": connectedClients,
		"favoriteCount":    s.favoritesService.Count(),
		"authenticated":    s.sessionService.IsAuthenticated(),
		"unreadCount":      s.notificationService.UnreadCount(),
	})
}
