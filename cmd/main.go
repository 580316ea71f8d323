package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Zanziz/MK-project/brackets"
	"github.com/Zanziz/MK-project/config"
	"github.com/Zanziz/MK-project/db"
	"github.com/Zanziz/MK-project/handlers"
	"github.com/Zanziz/MK-project/metrics"
	"github.com/Zanziz/MK-project/repositories"
	api "github.com/Zanziz/MK-project/routes"
	"github.com/Zanziz/MK-project/services"
	"github.com/Zanziz/MK-project/storage"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
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
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)
	logger.Info("configuration loaded",
		slog.Int("port", cfg.ServerPort),
		slog.String("tournament", cfg.TournamentName),
		slog.Bool("archive_enabled", cfg.ArchiveEnabled()),
	)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Хранилище состояния: Postgres или память
	var stateRepo repositories.StateRepository
	if cfg.DatabaseURL != "" {
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
		if err := db.EnsureSchema(ctx, dbConn); err != nil {
			logger.Error("failed to prepare database schema", slog.Any("error", err))
			os.Exit(1)
		}
		stateRepo = repositories.NewPostgresStateRepository(dbConn)
		logger.Info("database connection established")
	} else {
		stateRepo = repositories.NewMemoryStateRepository()
		logger.Warn("DATABASE_URL is not set, tournament state is kept in memory only")
	}

	// Архивы в Cloudflare R2 (опционально)
	var archiver services.StateArchiver
	if cfg.ArchiveEnabled() {
		uploader, err := storage.NewCloudflareR2Uploader(ctx, storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		archiver = storage.NewArchiver(uploader, cfg.TournamentName, logger)
		logger.Info("Cloudflare R2 archiver initialized")
	}

	// Метрики
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	tournamentMetrics := metrics.NewTournamentMetrics(registry)

	// Инициализация WebSocket Hub
	wsHub := brackets.NewHub(logger)
	go wsHub.Run(ctx)
	logger.Info("WebSocket Hub started")

	tournamentService, err := services.NewTournamentService(
		ctx,
		stateRepo,
		brackets.NewChampionshipGenerator(),
		wsHub,
		archiver,
		tournamentMetrics,
		logger,
	)
	if err != nil {
		logger.Error("failed to initialize tournament service", slog.Any("error", err))
		os.Exit(1)
	}

	// Периодический бэкап
	if archiver != nil && cfg.BackupInterval > 0 {
		backups, err := services.NewBackupScheduler(tournamentService, archiver, cfg.BackupInterval, logger)
		if err != nil {
			logger.Error("failed to initialize backup scheduler", slog.Any("error", err))
			os.Exit(1)
		}
		backups.Start()
		defer func() {
			if err := backups.Shutdown(); err != nil {
				logger.Error("failed to stop backup scheduler", slog.Any("error", err))
			}
		}()
	}

	// Настройка маршрутизатора
	router := chi.NewRouter()
	api.SetupRoutes(router, api.Handlers{
		Tournament: handlers.NewTournamentHandler(tournamentService),
		Player:     handlers.NewPlayerHandler(tournamentService),
		Race:       handlers.NewRaceHandler(tournamentService),
		WebSocket:  handlers.NewWebSocketHandler(wsHub, tournamentService, cfg.CORSAllowedOrigins, logger),
		Health:     handlers.NewHealthHandler(tournamentService, wsHub),
		Metrics:    promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}),
	}, cfg.CORSAllowedOrigins, logger)
	logger.Info("Routes configured")

	// Настройка и запуск HTTP-сервера
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelError),
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
			stop()
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancelShutdown()

		logger.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
		} else {
			logger.Info("server shutdown complete")
		}
	}
	// Закрываем websocket клиентов
	stop()
	logger.Info("application exited")
}
