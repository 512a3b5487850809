package main

import (
	"strings"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/sales-ops-api/api/swagger"
	"github.com/noah-isme/sales-ops-api/internal/handler"
	internalmiddleware "github.com/noah-isme/sales-ops-api/internal/middleware"
	"github.com/noah-isme/sales-ops-api/internal/models"
	"github.com/noah-isme/sales-ops-api/internal/service"
	"github.com/noah-isme/sales-ops-api/pkg/config"
	"github.com/noah-isme/sales-ops-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/sales-ops-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/sales-ops-api/pkg/middleware/requestid"
)

type routerDeps struct {
	auth          *service.AuthService
	audit         internalmiddleware.AuditWriter
	interactions  *service.InteractionService
	permissions   *service.PermissionService
	notifications *service.NotificationService
	metrics       *service.MetricsService
	db            handler.Pinger
}

func newRouter(cfg *config.Config, logr *zap.Logger, deps routerDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(deps.metrics))

	metricsHandler := handler.NewMetricsHandler(deps.metrics, deps.db)
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	authHandler := handler.NewAuthHandler(deps.auth)
	interactionHandler := handler.NewInteractionHandler(deps.interactions)
	permissionHandler := handler.NewPermissionHandler(deps.permissions)
	notificationHandler := handler.NewNotificationHandler(deps.notifications)

	managers := internalmiddleware.RequireRoles(managerRoles(cfg.Workflow)...)
	audit := func(action, resource string) gin.HandlerFunc {
		return internalmiddleware.Audit(deps.audit, logr, action, resource)
	}

	api := r.Group(cfg.APIPrefix)
	api.POST("/auth/login", authHandler.Login)

	secured := api.Group("")
	secured.Use(internalmiddleware.JWT(deps.auth))
	secured.GET("/auth/me", authHandler.Me)

	secured.POST("/interactions", audit(models.AuditActionInteractionRecord, "interactions"), interactionHandler.Record)
	secured.GET("/opportunities/:id/interactions", interactionHandler.History)

	secured.POST("/permissions", audit(models.AuditActionPermissionSubmit, "permissions"), permissionHandler.Submit)
	secured.GET("/permissions/mine", permissionHandler.Mine)
	secured.POST("/permissions/decide", managers, audit(models.AuditActionPermissionDecision, "permissions"), permissionHandler.Decide)
	secured.GET("/permissions", managers, permissionHandler.List)
	secured.GET("/permissions/export", managers, permissionHandler.Export)
	secured.GET("/permissions/:id", managers, permissionHandler.Get)

	secured.GET("/notifications", notificationHandler.List)

	return r
}

// managerRoles lists the roles allowed to review permission requests and to
// receive workflow notifications.
func managerRoles(cfg config.WorkflowConfig) []models.UserRole {
	roles := make([]models.UserRole, 0, len(cfg.ManagerRoles))
	for _, role := range cfg.ManagerRoles {
		roles = append(roles, models.UserRole(strings.ToUpper(strings.TrimSpace(role))))
	}
	return roles
}
