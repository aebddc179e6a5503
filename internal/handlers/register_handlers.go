package handlers

import (
	"fmt"

	"github.com/gin-gonic/gin"
	portssvc "github.com/plutoken/plubot_backend/internal/core/ports/services"
	"github.com/plutoken/plubot_backend/internal/middleware"
	"github.com/plutoken/plubot_backend/internal/platform/config"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	registerCustomValidators()

	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	setupAPIV1Routes(r, cfg, services)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	// Shed duplicate/retried commands per client IP before they reach the core.
	rate, err := limiter.NewRateFromFormatted("60-M")
	if err != nil {
		panic(fmt.Sprintf("invalid rate limit format: %v", err))
	}
	ipLimiter := limiter.New(memory.NewStore(), rate)

	v1 := r.Group("/api/v1", middleware.RateLimit(ipLimiter))

	registerAccountRoutes(v1, services.Account)
	registerKycRoutes(v1, services.Kyc)
	registerLedgerRoutes(v1, services.Ledger)
	registerPurchaseRoutes(v1, services.Purchase)

	// Moderator routes sit behind JWT auth; privilege is checked before any
	// workflow operation runs.
	mod := v1.Group("/mod", middleware.ModeratorAuthMiddleware(cfg.JWTSecret))

	registerModAccountRoutes(mod, services.Account)
	registerModKycRoutes(mod, services.Kyc)
	registerModLedgerRoutes(mod, services.Ledger)
}
