package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/schedule-grid-api/internal/handler"
	"github.com/noah-isme/schedule-grid-api/internal/middleware"
	"github.com/noah-isme/schedule-grid-api/internal/models"
	"github.com/noah-isme/schedule-grid-api/internal/service"
	"github.com/noah-isme/schedule-grid-api/pkg/config"
	"github.com/noah-isme/schedule-grid-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/schedule-grid-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/schedule-grid-api/pkg/middleware/requestid"
)

// Handlers groups the HTTP handlers mounted by Setup.
type Handlers struct {
	Grid   *handler.GridHandler
	Room   *handler.RoomHandler
	Export *handler.ExportHandler
	Health *handler.HealthHandler
}

var writeRoles = []models.UserRole{models.RoleSuperAdmin, models.RoleAdmin, models.RoleCoordinator}

// Setup builds the gin engine with global middleware and every route.
func Setup(cfg *config.Config, h Handlers, tokens middleware.TokenValidator, metrics *service.MetricsService, logr *zap.Logger) *gin.Engine {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", h.Health.Health)
	r.GET("/ready", h.Health.Ready)
	r.GET("/metrics", h.Health.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.WithResponseMeta())

	units := api.Group("/units/:unitId")
	units.Use(middleware.JWT(tokens), middleware.UnitScope())
	{
		units.GET("/rooms", h.Room.List)
		units.POST("/rooms", middleware.RequireRoles(writeRoles...), h.Room.Create)

		grid := units.Group("/grid")
		{
			grid.GET("", h.Grid.Get)
			grid.GET("/export", h.Export.Export)
			grid.POST("/slots/:slotId/propose", h.Grid.Propose)
			grid.POST("/check", h.Grid.Check)

			grid.POST("/slots", middleware.RequireRoles(writeRoles...), h.Grid.Create)
			grid.POST("/slots/:slotId/move", middleware.RequireRoles(writeRoles...), h.Grid.Move)
			grid.PUT("/slots/:slotId/students", middleware.RequireRoles(writeRoles...), h.Grid.Students)
			grid.DELETE("/slots/:slotId", middleware.RequireRoles(writeRoles...), h.Grid.Delete)
		}
	}

	return r
}
