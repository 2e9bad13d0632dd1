package handlers

import (
	"net/http"

	"github.com/SscSPs/bundle_wallet_app/cmd/docs"
	portssvc "github.com/SscSPs/bundle_wallet_app/internal/core/ports/services"
	"github.com/SscSPs/bundle_wallet_app/internal/middleware"
	"github.com/SscSPs/bundle_wallet_app/internal/platform/config"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RouteLimits holds optional rate limiting middleware. A nil entry disables that limit.
type RouteLimits struct {
	// Login guards the credential endpoints, keyed by client IP.
	Login gin.HandlerFunc
	// API guards the authenticated group, keyed by user.
	API gin.HandlerFunc
}

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	limits RouteLimits,
) {
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	r.GET("/", getHome)

	// Paystack calls back without a JWT; the body signature authenticates it.
	RegisterWebhookRoutes(r, services.Deposit)

	public := r.Group("/api/v1")
	registerAuthRoutes(public, cfg, services, limits.Login)
	RegisterCatalogRoutes(public, services.Catalog)

	setupAPIV1Routes(r, cfg, services, limits.API)

	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the authenticated /api/v1 routes
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	apiLimit gin.HandlerFunc,
) {
	chain := []gin.HandlerFunc{middleware.AuthMiddleware(cfg.JWTSecret)}
	if apiLimit != nil {
		chain = append(chain, apiLimit)
	}
	v1 := r.Group("/api/v1", chain...)

	registerUserRoutes(v1, services)
	RegisterWalletRoutes(v1, services.Ledger, services.Deposit)
	RegisterCheckoutRoutes(v1, services.Checkout)
	RegisterAdminRoutes(v1, services.Admin)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
