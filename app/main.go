// Файл: main.go

package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"aras-dashboard/internal/integrations/backend"
	"aras-dashboard/internal/listeners"
	"aras-dashboard/internal/repositories"
	"aras-dashboard/internal/routes"
	"aras-dashboard/migrations"
	"aras-dashboard/pkg/config"
	"aras-dashboard/pkg/database/postgresql"
	apperrors "aras-dashboard/pkg/errors"
	"aras-dashboard/pkg/eventbus"
	applogger "aras-dashboard/pkg/logger"
	appmiddleware "aras-dashboard/pkg/middleware"
	"aras-dashboard/pkg/service"
	"aras-dashboard/pkg/utils"
	"aras-dashboard/pkg/validation"
)

func main() {
	// 1. Конфиг и логгер
	cfg := config.New()
	logger := applogger.NewLogger(cfg.Log.Level, cfg.Log.File)
	defer logger.Sync()

	if cfg.JWT.SecretKey == "" {
		logger.Fatal("JWT_SECRET_KEY не задан")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 2. Echo и middleware
	e := echo.New()
	e.HideBanner = true
	e.Validator = validation.New()

	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		DisableStackAll: true,
		StackSize:       1 << 10,
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			logger.Error("!!! ОБНАРУЖЕНА ПАНИКА (PANIC) !!!",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Error(err),
				zap.String("stack", string(stack)),
			)
			if !c.Response().Committed {
				httpErr := apperrors.NewHttpError(http.StatusInternalServerError, "internal server error", err, nil)
				utils.ErrorResponse(c, httpErr, logger)
			}
			return err
		},
	}))
	e.Use(appmiddleware.RequestLogger(logger.Named("http")))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, echo.HeaderXRequestID},
		AllowCredentials: true,
		ExposeHeaders:    []string{echo.HeaderContentDisposition, echo.HeaderXRequestID},
	}))
	e.Use(middleware.ContextTimeout(cfg.Server.RequestTimeout))

	// 3. Хранилища
	dbConn, err := postgresql.ConnectDB(ctx, cfg.Postgres.DSN, logger)
	if err != nil {
		logger.Fatal("не удалось подключиться к PostgreSQL", zap.Error(err))
	}
	defer dbConn.Close()

	if cfg.Postgres.RunMigrations {
		if err := postgresql.Migrate(ctx, dbConn, migrations.FS, logger); err != nil {
			logger.Fatal("ошибка применения миграций", zap.Error(err))
		}
	}

	cacheRepo := newCache(ctx, cfg, logger)

	// 4. Сервисы инфраструктуры
	jwtSvc := service.NewJWTService(cfg.JWT.SecretKey, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL, logger)
	backendClient := backend.New(cfg.Backend.BaseURL, cfg.Backend.Timeout, logger)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	bus := eventbus.New(logger.Named("eventbus"))
	actionLogRepo := repositories.NewActionLogRepository(dbConn)
	listeners.NewActionLogListener(actionLogRepo, logger).Register(bus)

	// 5. Роуты
	routes.InitRouter(e, routes.Deps{
		DB:        dbConn,
		Cache:     cacheRepo,
		ActionLog: actionLogRepo,
		Backend:   backendClient,
		JWT:       jwtSvc,
		Bus:       bus,
		Registry:  registry,
	}, cfg, logger)

	// 6. Запуск и graceful shutdown
	go func() {
		logger.Info("🚀 Сервер запущен", zap.String("port", cfg.Server.Port))
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Ошибка запуска сервера", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Остановка сервера...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("ошибка остановки HTTP-сервера", zap.Error(err))
	}
	bus.Wait()
	logger.Info("Сервер остановлен")
}

// newCache: Redis по умолчанию, in-memory для локальной разработки.
func newCache(ctx context.Context, cfg *config.Config, logger *zap.Logger) repositories.CacheRepositoryInterface {
	if cfg.Cache.Driver == "memory" {
		logger.Warn("используется in-memory кеш, данные не переживут рестарт")
		return repositories.NewMemoryCacheRepository()
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if _, err := redisClient.Ping(ctx).Result(); err != nil {
		logger.Fatal("не удалось подключиться к Redis", zap.Error(err), zap.String("address", cfg.Redis.Address))
	}
	return repositories.NewRedisCacheRepository(redisClient)
}
