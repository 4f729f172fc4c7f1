package server

import (
	"net/http"
	"time"

	"user-match-service/internal/adapter/gin/handler"
	"user-match-service/internal/adapter/gin/middleware"
	"user-match-service/internal/adapter/gin/router"
	"user-match-service/internal/config"
	redisclient "user-match-service/pkg/redis"

	"go.uber.org/zap"
)

// Server holds the HTTP server and its dependencies
type Server struct {
	Config *config.Config
	Logger *zap.Logger
	HTTP   *http.Server
}

// New creates a new server instance with the router fully wired
func New(
	cfg *config.Config,
	l *zap.Logger,
	userHandler *handler.UserHandler,
	redisClient *redisclient.Client,
) *Server {
	rateLimitCfg := middleware.RateLimiterConfig{
		Enabled:           cfg.RateLimit.Enabled,
		RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
		BurstCapacity:     cfg.RateLimit.BurstCapacity,
	}

	engine := router.SetupRouter(userHandler, rateLimitCfg, redisClient, l)

	return &Server{
		Config: cfg,
		Logger: l,
		HTTP: &http.Server{
			Addr:              ":" + cfg.App.HTTPPort,
			Handler:           engine,
			ReadHeaderTimeout: 2 * time.Second,
			ReadTimeout:       10 * time.Second,
			WriteTimeout:      10 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
	}
}

// Start begins serving HTTP traffic. It blocks until the server stops.
func (s *Server) Start() error {
	s.Logger.Info("HTTP server running", zap.String("address", s.HTTP.Addr))
	return s.HTTP.ListenAndServe()
}
