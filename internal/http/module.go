// Package http defines the contract between the composition root, the
// router and the bounded context modules that expose endpoints.
package http

import (
	"context"

	"raf_pnp_backend/platform/config"
	"raf_pnp_backend/platform/httpkit"
	"raf_pnp_backend/platform/logger"

	"github.com/gin-gonic/gin"
)

// Module is implemented by every bounded context with HTTP routes.
type Module interface {
	Name() string
	RegisterRoutes(ctx *RouterContext)
}

// RouterContext is handed to each module while routes are mounted.
type RouterContext struct {
	// Protected is /api/v1. It verifies bearer tokens when JWT_ACCESS_SECRET
	// is set and always binds the acting user or system to the request.
	Protected *gin.RouterGroup
	// OutboundLimiter is for endpoints that send WhatsApp messages.
	OutboundLimiter *httpkit.RateLimiter
}

// RouterConfig is the configuration the router reads.
type RouterConfig interface {
	config.HTTPConfig
	config.JWTConfig
	config.ActorConfig
}

// HealthChecker backs GET /api/health.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// App is assembled by cmd/api and turned into a gin engine by router.New.
type App struct {
	Config  RouterConfig
	Logger  *logger.Logger
	Health  HealthChecker
	Modules []Module
}
