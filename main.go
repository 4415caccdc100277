package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"cosecdesk/config"
	_ "cosecdesk/docs"
	"cosecdesk/internal/domain"
	"cosecdesk/internal/repository"
	"cosecdesk/internal/service"
	"cosecdesk/internal/storage"
	"cosecdesk/internal/transport/rest"
	"cosecdesk/internal/transport/websocket"
	"cosecdesk/pkg/logger"
	"cosecdesk/pkg/metrics"
)

// @title CosecDesk Admin API
// @version 1.0
// @description API панели администратора маркетплейса регистрации компаний

// @BasePath /api/v1

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		panic(err)
	}

	log, err := logger.NewLogger(cfg.Environment, cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	dashboardMetrics := metrics.NewDashboardMetrics(registry)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var imageStorage storage.ImageStorage
	if cfg.Media.Backend == config.MediaBackendS3 {
		s3Storage, err := storage.NewS3Storage(cfg.S3, log)
		if err != nil {
			log.Fatal("Не удалось инициализировать S3 хранилище", zap.Error(err))
		}
		if err := s3Storage.EnsureBucket(ctx); err != nil {
			log.Fatal("Не удалось подготовить бакет S3", zap.Error(err))
		}
		imageStorage = s3Storage
		log.Info("S3 хранилище успешно инициализировано", zap.String("endpoint", cfg.S3.Endpoint))
	} else {
		log.Info("Изображения загружаются через удаленный API", zap.String("backend", cfg.Backend.BaseURL))
	}

	if cfg.Auth.JWTSecret == "" {
		log.Warn("AUTH_JWT_SECRET не задан, подпись токенов не проверяется")
	}

	repos := repository.NewRepositories(repository.NewClient(cfg.Backend), dashboardMetrics)

	hub := websocket.NewNotificationHub(cfg.Notifications, domain.NewIdentityParser(cfg.Auth.JWTSecret), log)
	go hub.Run(ctx)

	services := service.NewServices(service.Deps{
		Repos:        repos,
		ImageStorage: imageStorage,
		Notifier:     hub,
		Metrics:      dashboardMetrics,
		Logger:       log,
		Config:       cfg,
	})

	handler := rest.NewHandler(services, log, cfg, hub, registry)

	router := gin.New()
	router.Use(gin.Recovery())

	handler.InitRoutes(router)

	srv := &http.Server{
		Addr:           ":" + cfg.HTTP.Port,
		Handler:        router,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderMB << 20,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Ошибка запуска сервера", zap.Error(err))
		}
	}()

	log.Info("Сервер запущен", zap.String("addr", srv.Addr), zap.String("version", cfg.Version))

	<-ctx.Done()
	log.Info("Выключение сервера...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Ошибка при остановке сервера", zap.Error(err))
	}

	log.Info("Сервер успешно остановлен")
}
