package router

import (
	"net/http"

	"user-match-service/internal/adapter/gin/handler"
	"user-match-service/internal/adapter/gin/middleware"
	redisclient "user-match-service/pkg/redis"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// SetupRouter configures and returns a Gin router with all routes and middleware
func SetupRouter(
	userHandler *handler.UserHandler,
	rateLimitCfg middleware.RateLimiterConfig,
	redisClient *redisclient.Client,
	log *zap.Logger,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	var rdb *redis.Client
	if redisClient != nil {
		rdb = redisClient.Client
	}

	// Global middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery(log))
	router.Use(middleware.Logger(log))
	router.Use(middleware.RateLimiter(rdb, rateLimitCfg, log))

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Hello World",
		})
	})

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "user-match-service",
		})
	})

	// Both /users and /users/ are served directly, no trailing-slash redirect
	users := router.Group("/users")
	{
		users.POST("", userHandler.CreateUser)
		users.POST("/", userHandler.CreateUser)
		users.GET("", userHandler.ListUsers)
		users.GET("/", userHandler.ListUsers)
		users.POST("/matches", userHandler.MatchUsers)
		users.GET("/:id", userHandler.GetUser)
		users.PUT("/:id", userHandler.UpdateUser)
		users.DELETE("/:id", userHandler.DeleteUser)
	}

	return router
}
