package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	redislib "github.com/redis/go-redis/v9"
	"github.com/richxcame/fx-gateway/pkg/config"
	"github.com/richxcame/fx-gateway/pkg/ratelimit"
	"github.com/stretchr/testify/assert"
)

func limiterConfig() config.RateLimitConfig {
	return config.RateLimitConfig{
		Enabled:        true,
		WindowSeconds:  60,
		DefaultLimit:   30,
		AnonymousLimit: 30,
		RedisPrefix:    "rl",
	}
}

func limitedRouter(client *redislib.Client, cfg config.RateLimitConfig) (*gin.Engine, *ratelimit.Limiter) {
	limiter := ratelimit.NewLimiter(client, cfg)
	router := gin.New()
	router.GET("/api/v1/rates/latest", RateLimit(limiter), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return router, limiter
}

func hit(router *gin.Engine) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/rates/latest", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// httptest requests arrive from this address.
const testClientIP = "192.0.2.1"

func expectWindowCount(mock redismock.ClientMock, limiter *ratelimit.Limiter, count, ttlMs int64) {
	mock.ExpectEvalSha(limiter.ScriptHash(),
		[]string{"rl:" + testClientIP},
		"60000",
	).SetVal([]interface{}{count, ttlMs})
}

func TestRateLimit_AllowedRequestGetsHeaders(t *testing.T) {
	client, mock := redismock.NewClientMock()
	router, limiter := limitedRouter(client, limiterConfig())

	expectWindowCount(mock, limiter, 1, 60000)

	w := hit(router)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "30", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "29", w.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, "60", w.Header().Get("X-RateLimit-Reset"))
}

func TestRateLimit_OverLimitRejected(t *testing.T) {
	client, mock := redismock.NewClientMock()
	router, limiter := limitedRouter(client, limiterConfig())

	expectWindowCount(mock, limiter, 31, 42000)

	w := hit(router)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "42", w.Header().Get("Retry-After"))
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.Contains(t, w.Body.String(), "rate limit exceeded")
}

func TestRateLimit_BudgetSharedAcrossEndpoints(t *testing.T) {
	client, mock := redismock.NewClientMock()
	limiter := ratelimit.NewLimiter(client, limiterConfig())

	router := gin.New()
	router.GET("/api/v1/rates/latest", RateLimit(limiter), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	router.GET("/api/v1/rates/convert", RateLimit(limiter), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	// The identity's window is already exhausted; both endpoints consult the
	// same key and are rejected.
	for _, count := range []int64{31, 32} {
		mock.ExpectEvalSha(limiter.ScriptHash(),
			[]string{"rl:" + testClientIP},
			"60000",
		).SetVal([]interface{}{count, int64(42000)})
	}

	w := hit(router)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/rates/convert", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestRateLimit_RedisOutageFailsOpen(t *testing.T) {
	client, mock := redismock.NewClientMock()
	router, limiter := limitedRouter(client, limiterConfig())

	mock.ExpectEvalSha(limiter.ScriptHash(),
		[]string{"rl:" + testClientIP},
		"60000",
	).SetErr(errors.New("connection refused"))

	w := hit(router)

	assert.Equal(t, http.StatusOK, w.Code, "limiter outage must not reject traffic")
}

func TestRateLimit_DisabledLimiterPassesThrough(t *testing.T) {
	cfg := limiterConfig()
	cfg.Enabled = false
	router, _ := limitedRouter(nil, cfg)

	for i := 0; i < 3; i++ {
		w := hit(router)
		assert.Equal(t, http.StatusOK, w.Code)
	}
}
