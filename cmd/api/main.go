package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"io.winapps.jotly/internal/cache"
	"io.winapps.jotly/internal/config"
	"io.winapps.jotly/internal/db"
	"io.winapps.jotly/internal/handlers"
	"io.winapps.jotly/internal/logger"
	"io.winapps.jotly/internal/metrics"
	"io.winapps.jotly/internal/middleware"
	"io.winapps.jotly/internal/scheduler"
	"io.winapps.jotly/internal/service"
	"io.winapps.jotly/internal/store"
	"io.winapps.jotly/internal/store/memory"
	"io.winapps.jotly/internal/store/postgres"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	sugar, err := logger.New(cfg.LogLevel, cfg.LogDevelopment)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = sugar.Sync() }()

	if err := run(cfg, sugar); err != nil {
		sugar.Fatalw("server exited with error", "error", err)
	}
}

func run(cfg *config.Config, logger *zap.SugaredLogger) error {
	ctx := context.Background()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m, err := metrics.New(registry)
	if err != nil {
		return err
	}

	checks := map[string]handlers.Pinger{}

	// Initialize the entry store
	var entryStore store.EntryStore
	switch cfg.StoreDriver {
	case config.StoreDriverMemory:
		logger.Warnw("using in-memory entry store; data is lost on restart")
		entryStore = memory.NewEntryStore()
	default:
		pool, err := db.InitPostgres(ctx, cfg.Postgres)
		if err != nil {
			return err
		}
		defer pool.Close()
		entryStore = postgres.NewEntryStore(&postgres.DB{Pool: pool})
		logger.Infow("connected to PostgreSQL", "max_conns", cfg.Postgres.MaxConns)
	}
	checks["store"] = entryStore

	// Initialize Redis, falling back to an in-process cache
	var entryCache cache.EntryCache = cache.NewLocalCache(cfg.EntryCacheTTL, cfg.StatsCacheTTL)
	if cfg.Redis.Enabled {
		redisClient, err := db.InitRedis(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		defer redisClient.Close()
		entryCache = cache.NewRedisCache(redisClient, cfg.EntryCacheTTL, cfg.StatsCacheTTL)
		checks["redis"] = redisPinger{redisClient}
		logger.Infow("connected to Redis", "addr", cfg.Redis.Addr)
	}

	entries := service.NewEntryService(entryStore,
		service.WithCache(entryCache),
		service.WithLogger(logger.Named("entries")),
		service.WithMetrics(m),
	)

	jobs := scheduler.New(logger.Named("scheduler"), 30*time.Second)
	if err := jobs.ScheduleMoodStatsRefresh(cfg.StatsRefreshSchedule, entries); err != nil {
		return err
	}
	jobs.Start()

	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(
		middleware.RequestIDMiddleware(),
		middleware.RecoveryMiddleware(logger),
		middleware.RequestLoggingMiddleware(logger.Named("http")),
		middleware.MetricsMiddleware(m),
		middleware.CORSMiddleware(cfg.CORSAllowOrigin),
	)

	entryHandler := handlers.NewEntryHandler(entries, logger.Named("handlers"))
	entryHandler.RegisterRoutes(router.Group("/api"))

	router.GET("/health", handlers.NewHealthHandler(checks).Health)
	router.GET("/metrics", gin.WrapH(m.Handler()))

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Infow("server starting", "addr", srv.Addr, "store", cfg.StoreDriver, "redis", cfg.Redis.Enabled)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serverErr:
		return err
	case sig := <-quit:
		logger.Infow("shutting down server", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	jobs.Stop(shutdownCtx)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	logger.Infow("server exited")
	return nil
}

type redisPinger struct{ client *redis.Client }

func (p redisPinger) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}
