package routes

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"aras-dashboard/internal/actions"
	"aras-dashboard/internal/controllers"
	"aras-dashboard/internal/integrations/backend"
	"aras-dashboard/internal/metrics"
	"aras-dashboard/internal/overview"
	"aras-dashboard/internal/repositories"
	"aras-dashboard/internal/services"
	"aras-dashboard/pkg/config"
	"aras-dashboard/pkg/eventbus"
	"aras-dashboard/pkg/middleware"
	"aras-dashboard/pkg/service"
)

// Deps - подключения, которые собирает main. DB может быть nil, тогда
// /healthz её не проверяет.
type Deps struct {
	DB        *pgxpool.Pool
	Cache     repositories.CacheRepositoryInterface
	ActionLog repositories.ActionLogRepositoryInterface
	Backend   *backend.Client
	JWT       service.JWTService
	Bus       *eventbus.Bus
	Registry  *prometheus.Registry
}

func InitRouter(e *echo.Echo, deps Deps, cfg *config.Config, logger *zap.Logger) {
	logger.Info("InitRouter: Начало создания маршрутов")

	// --- 0. ОБЩИЕ КОМПОНЕНТЫ ---
	api := e.Group("/api/v1")
	authMW := middleware.NewAuthMiddleware(deps.JWT, logger.Named("auth"))
	appMetrics := metrics.New(deps.Registry)

	// --- 1. РЕПОЗИТОРИИ ---
	localTaskRepo := repositories.NewLocalTaskRepository(deps.Cache, logger.Named("local_tasks"))

	// --- 2. СЕРВИСЫ ---
	dashboardService := services.NewDashboardService(
		deps.Backend,
		overview.NewParser(logger),
		deps.Cache,
		appMetrics,
		cfg.Dashboard.CacheTTL,
		logger,
	)
	dispatcher := actions.NewDispatcher(deps.Backend, localTaskRepo, logger)
	actionService := services.NewActionService(
		dispatcher,
		dashboardService,
		deps.Cache,
		deps.ActionLog,
		localTaskRepo,
		deps.Bus,
		appMetrics,
		cfg.Dashboard.InflightTTL,
		logger,
	)

	// --- 3. РОУТЕРЫ ---
	runHealthRouter(e, deps, logger)
	secureGroup := api.Group("", authMW.Auth)
	runDashboardRouter(secureGroup, dashboardService, logger)
	runActionRouter(secureGroup, actionService, logger)

	logger.Info("INIT_ROUTER: Создание маршрутов завершено")
}

func runHealthRouter(e *echo.Echo, deps Deps, logger *zap.Logger) {
	checks := map[string]controllers.Pinger{"cache": deps.Cache}
	if deps.DB != nil {
		checks["postgres"] = deps.DB
	}
	healthController := controllers.NewHealthController(checks, logger)

	e.GET("/healthz", healthController.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{Registry: deps.Registry})))
}
