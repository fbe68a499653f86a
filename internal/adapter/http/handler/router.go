package handler

import (
	"confidential-lending/internal/adapter/http/middleware"
	redisStore "confidential-lending/internal/adapter/storage/redis"
	"confidential-lending/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// maxBodyBytes bounds request bodies; confidential inputs are a few hundred bytes.
const maxBodyBytes = 64 << 10

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	Engine         ports.LendingEngine
	TokenSvc       ports.TokenService
	RateLimitStore *redisStore.RateLimitStore // nil = rate limiting disabled
	HealthCheckers []ports.HealthChecker
	Mode           string // gin mode; empty means release
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	mode := deps.Mode
	if mode == "" {
		mode = gin.ReleaseMode
	}
	gin.SetMode(mode)
	r := gin.New()

	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(maxBodyBytes))

	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	swagger := r.Group("/swagger")
	{
		swagger.GET("", SwaggerUI)
		swagger.GET("/spec", SwaggerSpec)
	}

	rules := middleware.DefaultRateLimitRules()
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

	ledger := NewLedgerHandler(deps.Engine)
	rounds := NewRoundHandler(deps.Engine)

	v1 := r.Group("/api/v1", middleware.JWTAuth(deps.TokenSvc, deps.Logger))
	{
		v1.POST("/wrap", rl("ledger"), ledger.Wrap)
		v1.POST("/unwrap", rl("ledger"), ledger.Unwrap)
		v1.POST("/lend", rl("submit"), ledger.Lend)
		v1.POST("/withdraw", rl("submit"), ledger.Withdraw)
	}

	accounts := v1.Group("/accounts/me")
	{
		accounts.GET("", rl("reads"), ledger.GetAccount)
		accounts.GET("/balance", rl("reveal"), ledger.RevealBalance)
	}

	roundGroup := v1.Group("/rounds")
	{
		roundGroup.GET("", rl("reads"), rounds.List)
		roundGroup.GET("/current", rl("reads"), rounds.Current)
		roundGroup.GET("/:id", rl("reads"), rounds.Get)
		roundGroup.POST("/advance", middleware.RequireOperator(), rl("operator"), rounds.Advance)
	}

	return r
}
