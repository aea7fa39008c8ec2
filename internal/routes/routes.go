package routes

import (
	"mediavault_backend/internal/handlers"
	"mediavault_backend/internal/logger"
	"mediavault_backend/internal/metrics"
	"mediavault_backend/internal/middleware"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes регистрирует все HTTP маршруты.
func RegisterRoutes(
	ginRouter *gin.Engine,
	appHandlers *handlers.AppHandlers,
	collector *metrics.Collector,
) {
	// Служебные маршруты
	ginRouter.GET("/health", appHandlers.HealthHandler.Health)
	if collector != nil {
		ginRouter.GET("/metrics", gin.WrapH(collector.Handler()))
	}
	ginRouter.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Вход, выход, регистрация, активация - доступны анонимно
	appHandlers.AuthHandler.RegisterRoutes(ginRouter)

	// Всё остальное - только после входа
	authed := ginRouter.Group("")
	authed.Use(middleware.LoginRequired(handlers.LoginURL), middleware.NoCacheMiddleware())
	{
		appHandlers.ProjectHandler.RegisterRoutes(authed)
		appHandlers.MediaHandler.RegisterRoutes(authed)
		appHandlers.FileHandler.RegisterRoutes(authed)

		admin := authed.Group("/admin")
		admin.Use(middleware.StaffOnly())
		appHandlers.UserHandler.RegisterRoutes(authed, admin)
	}

	logger.Info("HTTP routes registered", "count", len(ginRouter.Routes()))
}
