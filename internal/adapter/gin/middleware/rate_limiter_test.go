package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func setupRateLimitedRouter(t *testing.T, cfg RateLimiterConfig) (*gin.Engine, *miniredis.Miniredis, *redis.Client) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimiter(client, cfg, zaptest.NewLogger(t)))
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"pong": true})
	})

	return r, mr, client
}

func doPing(r *gin.Engine) int {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = "10.0.0.1:12345"
	r.ServeHTTP(w, req)
	return w.Code
}

func TestRateLimiter_EnforcesBurstCapacity(t *testing.T) {
	r, _, _ := setupRateLimitedRouter(t, RateLimiterConfig{
		Enabled:           true,
		RequestsPerSecond: 1,
		BurstCapacity:     3,
	})

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, doPing(r), "request %d within burst should pass", i+1)
	}
	assert.Equal(t, http.StatusTooManyRequests, doPing(r))
}

func TestRateLimiter_DisabledPassesThrough(t *testing.T) {
	r, _, _ := setupRateLimitedRouter(t, RateLimiterConfig{
		Enabled:           false,
		RequestsPerSecond: 1,
		BurstCapacity:     1,
	})

	for i := 0; i < 10; i++ {
		assert.Equal(t, http.StatusOK, doPing(r))
	}
}

func TestRateLimiter_FailsOpenWhenRedisDown(t *testing.T) {
	r, mr, _ := setupRateLimitedRouter(t, RateLimiterConfig{
		Enabled:           true,
		RequestsPerSecond: 1,
		BurstCapacity:     1,
	})

	mr.Close()

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, doPing(r))
	}
}

func TestRateLimiter_NilClientPassesThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimiter(nil, RateLimiterConfig{Enabled: true, RequestsPerSecond: 1, BurstCapacity: 1}, zaptest.NewLogger(t)))
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"pong": true})
	})

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, doPing(r))
	}
}
