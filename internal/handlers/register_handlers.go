package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/nguyenphap-mt/am-thuc-giao-tuyet-sub000/cmd/docs"
	"github.com/nguyenphap-mt/am-thuc-giao-tuyet-sub000/internal/apperrors"
	portssvc "github.com/nguyenphap-mt/am-thuc-giao-tuyet-sub000/internal/core/ports/services"
	"github.com/nguyenphap-mt/am-thuc-giao-tuyet-sub000/internal/middleware"
	"github.com/nguyenphap-mt/am-thuc-giao-tuyet-sub000/pkg/config"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	// Setup API v1 routes with Auth Middleware, passing service interfaces
	setupAPIV1Routes(r, cfg, services)

	// Swagger routes (typically public or conditionally available)
	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	// Apply AuthMiddleware to the entire v1 group
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret))

	registerTenantRoutes(v1, services.Tenant)
	registerAccountRoutes(v1, services.Account)
	RegisterJournalRoutes(v1, services.Journal)
	registerPeriodRoutes(v1, services.Period)
	registerSettingRoutes(v1, services.Setting)
	registerFinanceHookRoutes(v1, services.FinanceHooks)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	// Swagger setup
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

// respondError maps a service error to its HTTP status and writes the
// single-sentence reason.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, apperrors.ErrValidation),
		errors.Is(err, apperrors.ErrUnbalancedEntry),
		errors.Is(err, apperrors.ErrTooFewLines),
		errors.Is(err, apperrors.ErrNonPositiveAmount),
		errors.Is(err, apperrors.ErrDebitCreditOverlap):
		status = http.StatusBadRequest
	case errors.Is(err, apperrors.ErrDuplicate):
		status = http.StatusConflict
	case errors.Is(err, apperrors.ErrPeriodClosed),
		errors.Is(err, apperrors.ErrIllegalTransition):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, apperrors.ErrCodeConflict):
		status = http.StatusConflict
	case errors.Is(err, apperrors.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, apperrors.ErrTenantMissing):
		status = http.StatusUnauthorized
	}
	if status == http.StatusInternalServerError {
		c.JSON(status, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// requestIdentity pulls the authenticated user and tenant from the request
// context; both are set by the auth middleware.
func requestIdentity(c *gin.Context) (userID, tenantID string, ok bool) {
	userID, okUser := middleware.GetUserIDFromCtx(c.Request.Context())
	tenantID, okTenant := middleware.GetTenantIDFromCtx(c.Request.Context())
	if !okUser || !okTenant {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", "", false
	}
	return userID, tenantID, true
}
