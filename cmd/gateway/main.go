package main

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/richxcame/fx-gateway/internal/auth"
	"github.com/richxcame/fx-gateway/internal/rates"
	"github.com/richxcame/fx-gateway/pkg/cache"
	"github.com/richxcame/fx-gateway/pkg/common"
	"github.com/richxcame/fx-gateway/pkg/config"
	"github.com/richxcame/fx-gateway/pkg/logger"
	"github.com/richxcame/fx-gateway/pkg/middleware"
	"github.com/richxcame/fx-gateway/pkg/ratelimit"
	"github.com/richxcame/fx-gateway/pkg/redis"
	"github.com/richxcame/fx-gateway/pkg/resilience"
	"github.com/richxcame/fx-gateway/pkg/tracing"
	"go.uber.org/zap"
)

const serviceName = "fx-gateway"

func main() {
	// Load configuration
	cfg, err := config.Load(serviceName)
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}

	// Initialize logger
	if err := logger.Init(cfg.Server.Environment); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()

	// Initialize tracing
	shutdownTracing, err := tracing.Init(tracing.Config{
		ServiceName:  serviceName,
		OTLPEndpoint: cfg.Tracing.Endpoint,
		Enabled:      cfg.Tracing.Enabled,
	})
	if err != nil {
		logger.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(ctx); err != nil {
			logger.Warn("Tracing shutdown failed", zap.Error(err))
		}
	}()

	// Connect to Redis. The gateway stays up without it: caching degrades to
	// no-op and the rate limiter fails open.
	var store cache.Store = cache.NewNoopStore()
	var limiter *ratelimit.Limiter
	if cfg.Redis.Enabled {
		redisClient, err := redis.NewRedisClient(&cfg.Redis)
		if err != nil {
			logger.Warn("Redis unavailable, running without cache and rate limiting", zap.Error(err))
		} else {
			defer redisClient.Close()
			store = cache.NewRedisStore(redisClient.Client)
			limiter = ratelimit.NewLimiter(redisClient.Client, cfg.RateLimit)
			logger.Info("Connected to Redis")
		}
	}
	if limiter == nil {
		disabled := cfg.RateLimit
		disabled.Enabled = false
		limiter = ratelimit.NewLimiter(nil, disabled)
	}

	// Circuit breakers, one per upstream operation
	breakers := rates.Breakers{
		Latest:  newBreaker("rates-latest", cfg.Upstream),
		Convert: newBreaker("rates-convert", cfg.Upstream),
		History: newBreaker("rates-history", cfg.Upstream),
	}

	// Retry policy for upstream calls
	retryCfg := resilience.RetryConfig{
		MaxAttempts:       cfg.Upstream.RetryMaxAttempts,
		InitialBackoff:    time.Duration(cfg.Upstream.RetryInitialBackoffMs) * time.Millisecond,
		MaxBackoff:        30 * time.Second,
		BackoffMultiplier: 2.0,
		EnableJitter:      true,
		RetryableChecker:  rates.IsTransientUpstreamError,
	}

	// Domain wiring
	provider := rates.NewFrankfurterProvider(cfg.Upstream.BaseURL, cfg.Upstream.Timeout())
	ratesService := rates.NewService(provider, store, breakers, retryCfg, rates.TTLs{
		Latest:  cfg.Cache.LatestTTL(),
		History: cfg.Cache.HistoryTTL(),
	})
	ratesHandler := rates.NewHandler(ratesService)

	authService := auth.NewService(cfg.JWT)
	authHandler := auth.NewHandler(authService)

	// Set up Gin router
	gin.SetMode(ginMode(cfg.Server.Environment))
	router := gin.New()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = strings.Split(cfg.Server.CORSOrigins, ",")
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	router.Use(cors.New(corsConfig))

	router.Use(middleware.CorrelationID())
	router.Use(middleware.Tracing(serviceName))
	router.Use(middleware.RequestLogger())
	router.Use(middleware.Metrics(serviceName))
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.Recovery())

	// Health check and metrics (no auth required)
	router.GET("/health", common.HealthCheck(serviceName, cfg.Server.Environment, cfg.Server.Version))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API routes
	api := router.Group("/api/v1")
	{
		authHandler.RegisterRoutes(api)
		ratesHandler.RegisterRoutes(api,
			middleware.AuthMiddleware(cfg.JWT.Secret),
			middleware.RequireRole("admin"),
			middleware.RateLimit(limiter),
		)
	}

	// Unknown routes get the standard envelope too
	router.NoRoute(func(c *gin.Context) {
		common.ErrorResponse(c, http.StatusNotFound, "route not found")
	})

	// Start server
	addr := ":" + cfg.Server.Port
	logger.Info("FX gateway starting", zap.String("port", cfg.Server.Port))
	if err := router.Run(addr); err != nil {
		logger.Fatal("Failed to start server", zap.Error(err))
	}
}

func newBreaker(name string, cfg config.UpstreamConfig) *resilience.CircuitBreaker {
	settings := resilience.BuildSettings(name,
		cfg.BreakerIntervalSeconds,
		cfg.BreakerTimeoutSeconds,
		cfg.BreakerMinRequests,
		1,
	)
	return resilience.NewCircuitBreaker(settings, nil)
}

func ginMode(environment string) string {
	if environment == "production" {
		return gin.ReleaseMode
	}
	return gin.DebugMode
}
