package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/atendeai/atende-platform/internal/api/router"
	"github.com/atendeai/atende-platform/internal/appointments"
	"github.com/atendeai/atende-platform/internal/assistant"
	appconfig "github.com/atendeai/atende-platform/internal/config"
	"github.com/atendeai/atende-platform/internal/http/handlers"
	"github.com/atendeai/atende-platform/internal/interactions"
	"github.com/atendeai/atende-platform/internal/observability/metrics"
	"github.com/atendeai/atende-platform/internal/webchat"
	"github.com/atendeai/atende-platform/pkg/logging"
	"github.com/atendeai/atende-platform/web"
)

func main() {
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting atende-platform API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Redis backs the per-session dialogue state.
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	stateStore := assistant.NewStateStore(redisClient).WithTTL(cfg.SessionTTL)

	// Postgres backs appointments and the interaction log. The assistant
	// degrades gracefully without it, so an empty DATABASE_URL only warns.
	var (
		appointmentsRepo *appointments.Repository
		availability     *appointments.Availability
		interactionStore *interactions.Store
	)
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to create postgres pool", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		appointmentsRepo = appointments.NewRepository(pool)

		availability, err = appointments.NewAvailability(appointmentsRepo, cfg.OpeningTime, cfg.ClosingTime, cfg.SlotInterval)
		if err != nil {
			logger.Error("invalid slot grid configuration", "error", err)
			os.Exit(1)
		}

		sqlDB, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to open postgres for interactions", "error", err)
			os.Exit(1)
		}
		defer func() { _ = sqlDB.Close() }()
		interactionStore = interactions.NewStore(sqlDB)
	} else {
		logger.Warn("DATABASE_URL not set, appointments and interaction log disabled")
	}

	assistantMetrics := metrics.NewAssistantMetrics(prometheus.DefaultRegisterer)

	serviceCfg := assistant.ServiceConfig{
		Store:       stateStore,
		Events:      assistant.NewEventLogger(logger),
		Metrics:     assistantMetrics,
		Logger:      logger,
		TypingDelay: cfg.TypingDelay,
	}
	if availability != nil {
		serviceCfg.Slots = availability
	}
	if appointmentsRepo != nil {
		serviceCfg.Bookings = appointmentsRepo
	}
	if interactionStore != nil {
		serviceCfg.Interactions = interactions.NewAssistantLogger(interactionStore)
	}
	svc := assistant.NewService(serviceCfg)

	queue := assistant.NewMemoryQueue(0)
	publisher := assistant.NewPublisher(queue, logger)
	webchatHandler := webchat.NewHandler(publisher, svc, web.WidgetJS, cfg.TipInterval, logger)

	worker := assistant.NewWorker(svc, queue, webchat.NewReplyMessenger(webchatHandler, logger), logger,
		assistant.WithWorkerCount(cfg.WorkerCount),
	)
	worker.Start(ctx)

	routerCfg := &router.Config{
		Logger:             logger,
		Webchat:            webchatHandler,
		AdminAuthSecret:    cfg.AdminJWTSecret,
		MetricsHandler:     promhttp.Handler(),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		MessageRate:        cfg.MessageRate,
		MessageBurst:       cfg.MessageBurst,
	}
	if appointmentsRepo != nil {
		routerCfg.AdminAppointments = handlers.NewAdminAppointmentsHandler(appointmentsRepo, logger)
	}
	if interactionStore != nil {
		routerCfg.AdminInteractions = handlers.NewAdminInteractionsHandler(interactionStore, logger)
	}
	r := router.New(routerCfg)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	cancel()
	worker.Wait()

	logger.Info("server stopped")
}
