package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Dosada05/fixture-engine/config"
	"github.com/Dosada05/fixture-engine/db"
	_ "github.com/Dosada05/fixture-engine/docs"
	"github.com/Dosada05/fixture-engine/handlers"
	"github.com/Dosada05/fixture-engine/realtime"
	"github.com/Dosada05/fixture-engine/repositories"
	api "github.com/Dosada05/fixture-engine/routes"
	"github.com/Dosada05/fixture-engine/services"
	"github.com/Dosada05/fixture-engine/storage"
	"github.com/Dosada05/fixture-engine/utils"
	"github.com/go-chi/chi/v5"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	// Настройка логгера
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}))
	slog.SetDefault(logger)
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Подключение к базе данных
	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	if err := db.Migrate(ctx, dbConn); err != nil {
		logger.Error("failed to apply database schema", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("database connection established")

	// Снимки расписания и таблицы в S3-совместимое хранилище (опционально)
	var snapshots services.SnapshotPublisher
	if cfg.Storage.Enabled() {
		uploader, err := storage.NewS3Uploader(ctx, storage.S3UploaderConfig{
			AccountID:       cfg.Storage.AccountID,
			Endpoint:        cfg.Storage.Endpoint,
			Region:          cfg.Storage.Region,
			AccessKeyID:     cfg.Storage.AccessKeyID,
			SecretAccessKey: cfg.Storage.SecretAccessKey,
			BucketName:      cfg.Storage.BucketName,
			PublicBaseURL:   cfg.Storage.PublicBaseURL,
			UsePathStyle:    cfg.Storage.UsePathStyle,
		})
		if err != nil {
			logger.Error("failed to initialize snapshot storage", slog.Any("error", err))
			os.Exit(1)
		}
		snapshots = storage.NewSnapshotPublisher(uploader, "tournaments")
		logger.Info("snapshot storage initialized", slog.String("bucket", cfg.Storage.BucketName))
	} else {
		logger.Info("snapshot storage disabled")
	}

	// Инициализация WebSocket Hub
	wsHub := realtime.NewHub(logger)
	go wsHub.Run(ctx)
	logger.Info("WebSocket Hub started")

	// Инициализация репозиториев
	userRepo := repositories.NewPostgresUserRepository(dbConn)
	tournamentRepo := repositories.NewPostgresTournamentRepository(dbConn)
	matchRepo := repositories.NewPostgresMatchRepository(dbConn)
	scheduleRepo := repositories.NewPostgresScheduleRepository(dbConn)
	standingRepo := repositories.NewPostgresTournamentStandingRepository(dbConn)

	// Инициализация сервисов
	authService := services.NewAuthService(userRepo, utils.BcryptCost)
	formatService := services.NewFormatService()
	tournamentService := services.NewTournamentService(tournamentRepo, formatService, logger)
	scheduleService := services.NewScheduleService(dbConn, tournamentRepo, matchRepo, scheduleRepo, standingRepo, wsHub, snapshots, logger)
	matchService := services.NewMatchService(dbConn, tournamentRepo, matchRepo, scheduleRepo, standingRepo, wsHub, snapshots, logger)

	// Настройка маршрутизатора
	router := chi.NewRouter()
	api.SetupRoutes(router, []byte(cfg.JWTSecretKey), cfg.CORSAllowedOrigins, api.Handlers{
		Auth:       handlers.NewAuthHandler(authService, cfg.JWTSecretKey),
		Tournament: handlers.NewTournamentHandler(tournamentService, scheduleService, matchService),
		Match:      handlers.NewMatchHandler(matchService),
		Format:     handlers.NewFormatHandler(formatService),
		WebSocket:  handlers.NewWebSocketHandler(wsHub, tournamentService, cfg.CORSAllowedOrigins),
	})

	// Настройка и запуск HTTP-сервера
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	// Ожидание сигнала завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancelShutdown()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
		} else {
			logger.Info("server shutdown complete")
		}
	}
	cancel()
	logger.Info("application exited")
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
