package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"aras-dashboard/internal/controllers"
	"aras-dashboard/internal/services"
)

func runActionRouter(secureGroup *echo.Group, actionService services.ActionServiceInterface, logger *zap.Logger) {
	actionController := controllers.NewActionController(actionService, logger)

	secureGroup.POST("/actions/dispatch", actionController.Dispatch)
	secureGroup.GET("/actions/history", actionController.History)
	secureGroup.GET("/tasks/local", actionController.LocalTasks)
}
