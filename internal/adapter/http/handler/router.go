package handler

import (
	"proxy-payout-gateway/internal/adapter/http/middleware"
	redisStore "proxy-payout-gateway/internal/adapter/storage/redis"
	"proxy-payout-gateway/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	PayoutSvc      ports.PayoutService
	Vault          ports.KeyVault
	APIKey         string
	RateLimitStore *redisStore.RateLimitStore // nil = rate limiting disabled
	HealthCheckers []ports.HealthChecker
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	// Health check (deep — verifies the chain node and Redis when enabled)
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	// Rate limit rules
	rules := middleware.DefaultRateLimitRules()

	// Helper: return rate limiter middleware if store is available, else noop.
	rl := func(group string) gin.HandlerFunc {
		if deps.RateLimitStore == nil {
			return func(c *gin.Context) { c.Next() }
		}
		rule, ok := rules[group]
		if !ok {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}

	// Every /api route requires the shared API key.
	apiKeyAuth := middleware.APIKeyAuth(deps.APIKey, deps.Logger)
	api := r.Group("/api", apiKeyAuth)

	payoutHandler := NewPayoutHandler(deps.PayoutSvc, deps.Vault)
	{
		api.POST("/proxy-payout", rl("payout"), payoutHandler.ProcessPayout)
		api.GET("/balance", rl("balance"), payoutHandler.GetBalance)
		api.GET("/check-employee/:address", rl("balance"), payoutHandler.CheckEmployee)
	}

	adminHandler := NewAdminHandler(deps.Vault)
	admin := api.Group("/admin")
	{
		admin.POST("/add-employee", rl("admin"), adminHandler.AddEmployee)
		admin.GET("/employees", rl("admin"), adminHandler.ListEmployees)
		admin.DELETE("/employee/:address", rl("admin"), adminHandler.RemoveEmployee)
	}

	return r
}
