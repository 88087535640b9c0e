package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"aras-dashboard/internal/controllers"
	"aras-dashboard/internal/services"
)

func runDashboardRouter(secureGroup *echo.Group, dashboardService services.DashboardServiceInterface, logger *zap.Logger) {
	dashboardController := controllers.NewDashboardController(dashboardService, logger)

	secureGroup.GET("/dashboard/overview", dashboardController.GetOverview)
	secureGroup.POST("/dashboard/refresh", dashboardController.Refresh)
	secureGroup.GET("/dashboard/empty", dashboardController.GetEmpty)
}
