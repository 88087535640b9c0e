package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"aras-dashboard/internal/services"
	"aras-dashboard/pkg/utils"
)

type DashboardController struct {
	dashboardService services.DashboardServiceInterface
	logger           *zap.Logger
}

func NewDashboardController(ds services.DashboardServiceInterface, logger *zap.Logger) *DashboardController {
	return &DashboardController{dashboardService: ds, logger: logger}
}

func (ctrl *DashboardController) GetOverview(c echo.Context) error {
	overview, err := ctrl.dashboardService.GetOverview(c.Request().Context())
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, overview, "Dashboard overview loaded", http.StatusOK)
}

func (ctrl *DashboardController) Refresh(c echo.Context) error {
	overview, err := ctrl.dashboardService.Refresh(c.Request().Context())
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, overview, "Dashboard overview refreshed", http.StatusOK)
}

func (ctrl *DashboardController) GetEmpty(c echo.Context) error {
	overview, err := ctrl.dashboardService.EmptyDashboard(c.Request().Context())
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, overview, "Empty dashboard generated", http.StatusOK)
}
