package request

import (
	"time"

	"go-hris-workflow/internal/authz"
	"go-hris-workflow/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

type RouteOptions struct {
	Verifier       authz.Verifier
	Redis          *redis.Client // nil mematikan Idempotency-Key
	IdempotencyTTL time.Duration
	RatePerSecond  rate.Limit
	RateBurst      int
}

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, opts RouteOptions) {
	requests := r.Group("/requests")
	requests.Use(middleware.Authenticate(opts.Verifier))
	if opts.RatePerSecond > 0 {
		requests.Use(middleware.RateLimitByUser(opts.RatePerSecond, opts.RateBurst))
	}

	create := []gin.HandlerFunc{handler.Create}
	if opts.Redis != nil {
		create = append([]gin.HandlerFunc{middleware.Idempotency(opts.Redis, opts.IdempotencyTTL)}, create...)
	}

	{
		requests.POST("", create...)
		requests.GET("", handler.List)
		requests.GET("/:id", handler.GetByID)
		requests.PATCH("/:id", handler.Decide)
	}
}
