package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "aras-dashboard/pkg/errors"
	"aras-dashboard/pkg/utils"
)

// Pinger - зависимость, доступность которой проверяет /healthz.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthController struct {
	checks map[string]Pinger
	logger *zap.Logger
}

func NewHealthController(checks map[string]Pinger, logger *zap.Logger) *HealthController {
	return &HealthController{checks: checks, logger: logger}
}

func (h *HealthController) Health(c echo.Context) error {
	ctx, cancel := utils.ContextWithTimeout(c, 2*time.Second)
	defer cancel()

	report := make(map[string]string, len(h.checks))
	healthy := true
	for name, dep := range h.checks {
		if err := dep.Ping(ctx); err != nil {
			h.logger.Warn("health check failed", zap.String("dependency", name), zap.Error(err))
			report[name] = "down"
			healthy = false
			continue
		}
		report[name] = "up"
	}

	if !healthy {
		return utils.ErrorResponse(c,
			apperrors.NewHttpError(http.StatusServiceUnavailable, "Service degraded", nil, report),
			h.logger,
		)
	}
	return utils.SuccessResponse(c, report, "OK", http.StatusOK)
}
