package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/slada12/secure-blu-vault/cmd/docs"
	"github.com/slada12/secure-blu-vault/internal/core/domain"
	portssvc "github.com/slada12/secure-blu-vault/internal/core/ports/services"
	"github.com/slada12/secure-blu-vault/internal/middleware"
	"github.com/slada12/secure-blu-vault/internal/platform/config"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) error {
	if err := RegisterValidators(); err != nil {
		return err
	}

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	transferLimiter, err := middleware.NewMemoryLimiter(cfg.TransferRateLimit)
	if err != nil {
		return err
	}
	searchLimiter, err := middleware.NewMemoryLimiter(cfg.SearchRateLimit)
	if err != nil {
		return err
	}

	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret))
	RegisterCustomerRoutes(v1, services,
		middleware.RateLimit(transferLimiter, middleware.ByUser),
		middleware.RateLimit(searchLimiter, middleware.ByUser),
	)
	RegisterAdminRoutes(v1.Group("/admin", middleware.RequireRole(domain.RoleAdmin)), services)

	setupSwaggerRoutes(r, cfg)
	return nil
}

// RegisterCustomerRoutes registers the self-service routes behind the customer
// access check. The limit handlers run in front of the transfer and recipient
// search endpoints.
func RegisterCustomerRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer, transferLimit, searchLimit gin.HandlerFunc) {
	rg = rg.Group("", middleware.RequireCustomerAccess(services.Account))
	registerTransferRoutes(rg, services.Transfer, services.Recipient, transferLimit, searchLimit)
	registerMeRoutes(rg, services.Account, services.Notification, services.CardRequest)
}

// RegisterAdminRoutes registers the back-office routes on an already role-checked group.
func RegisterAdminRoutes(admin *gin.RouterGroup, services *portssvc.ServiceContainer) {
	registerCustomerAdminRoutes(admin, services.CustomerAdmin, services.Funding)
	registerSettlementRoutes(admin, services.Settlement)
	registerCardRequestAdminRoutes(admin, services.CardRequest)
	registerAuditRoutes(admin, services.Audit)
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
