package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rail-risk-go/internal/client"
	"rail-risk-go/internal/config"
	"rail-risk-go/internal/database"
	"rail-risk-go/internal/environment"
	"rail-risk-go/internal/handler"
	"rail-risk-go/internal/repository"
	"rail-risk-go/internal/rpc"
	"rail-risk-go/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	// Получаем конфигурацию из переменных окружения
	cfg := config.LoadConfig()

	// Инициализируем логгер
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	level, err := logrus.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	logger.Info("Запуск Rail Risk API Server")

	checks := map[string]handler.HealthCheck{}

	// Источник окружений: внешний сервис или локальный генератор
	var generator environment.Generator = environment.NewLocalGenerator()
	if cfg.EnvironmentAPI.BaseURL != "" {
		apiClient := client.NewEnvironmentAPIClient(cfg.EnvironmentAPI.BaseURL, cfg.EnvironmentAPI.Timeout, logger)
		generator = apiClient
		checks["environment_api"] = apiClient.CheckHealth
		logger.Infof("Окружения запрашиваются у %s", cfg.EnvironmentAPI.BaseURL)
	}

	// Кеш окружений в Redis
	if cfg.Redis.Enabled {
		cache, err := environment.NewRedisCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.TTL, logger)
		if err != nil {
			logger.Warnf("Redis недоступен, кеш окружений отключен: %v", err)
		} else {
			defer cache.Close()
			generator = environment.NewCachedGenerator(generator, cache, logger)
			checks["redis"] = cache.Ping
			logger.Infof("Кеш окружений в Redis %s", cfg.Redis.Addr)
		}
	}

	// Журнал расчетов
	var runRepo repository.RunRepository
	if cfg.Database.Enabled {
		logger.Info("Подключение к базе данных...")
		db, err := database.Connect(cfg, logger)
		if err != nil {
			logger.Fatalf("Ошибка подключения к базе данных: %v", err)
		}
		defer database.Close(db)

		if err := database.Migrate(db, logger); err != nil {
			logger.Fatalf("Ошибка выполнения миграций: %v", err)
		}
		if err := database.HealthCheck(db); err != nil {
			logger.Fatalf("База данных недоступна: %v", err)
		}

		runRepo = repository.NewRunRepository(db)
		checks["database"] = func(context.Context) error { return database.HealthCheck(db) }
		logger.Info("База данных успешно подключена и готова к работе")
	} else {
		runRepo = repository.NewMemoryRunRepository(cfg.Database.MemoryRunLimit)
		logger.Infof("База данных отключена, журнал расчетов хранит в памяти последние %d записей",
			cfg.Database.MemoryRunLimit)
	}

	opts := service.Options{
		DefaultSegmentKm:    cfg.Track.DefaultSegmentKm,
		SegmentLengthMeters: cfg.Track.SegmentLengthMeters,
		ProximityThresholdM: cfg.Track.ProximityThresholdM,
		SegmentWorkers:      cfg.Track.MaxParallelSegmenter,
	}

	// Инициализируем сервисы
	runService := service.NewRunService(runRepo, logger)
	parameterService := service.NewParameterService(generator, runService, opts, logger)
	decisionService := service.NewDecisionService(generator, runService, opts, logger)

	// Настраиваем Gin router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := handler.NewRouter(
		handler.NewParameterHandler(parameterService, decisionService, logger),
		handler.NewRunHandler(runService, logger),
		handler.NewHealthHandler(checks, logger),
	)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	grpcServer := rpc.NewGRPCServer(rpc.NewServer(parameterService, decisionService, logger), logger)
	grpcAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.GRPCPort)
	lis, err := net.Listen("tcp", grpcAddr)
	if err != nil {
		logger.Fatalf("Ошибка запуска gRPC listener на %s: %v", grpcAddr, err)
	}

	go func() {
		logger.Infof("gRPC сервер запущен на %s", grpcAddr)
		if err := grpcServer.Serve(lis); err != nil {
			logger.Errorf("Ошибка gRPC сервера: %v", err)
		}
	}()

	go func() {
		logger.Infof("Сервер запущен на порту %d", cfg.Server.Port)
		logger.Infof("API доступно по адресу: http://localhost:%d/api/v1", cfg.Server.Port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Ошибка запуска сервера: %v", err)
		}
	}()

	// Ждем сигнала завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Остановка сервера...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Errorf("Ошибка остановки HTTP сервера: %v", err)
	}
	grpcServer.GracefulStop()

	logger.Info("Сервер остановлен")
}
