package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"loan-recovery/artifact"
	"loan-recovery/config"
	httpLayer "loan-recovery/http"
	"loan-recovery/logger"
	"loan-recovery/metrics"
	"loan-recovery/repository"
	"loan-recovery/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Must("error", "json").Fatal("failed to load configuration", zap.Error(err))
	}

	log, err := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		logger.Must("error", "json").Fatal("failed to build logger", zap.Error(err))
	}
	defer func() { _ = log.Sync() }()

	bundle, err := artifact.Load(cfg.ArtifactPaths())
	if err != nil {
		log.Fatal("failed to load model artifacts", zap.Error(err))
	}
	log.Info("model artifacts loaded",
		zap.String("fingerprint", bundle.Fingerprint),
		zap.Any("checksums", bundle.Checksums),
		zap.Ints("classes", bundle.Model.Classes()),
	)

	m := metrics.New(prometheus.DefaultRegisterer)

	opts := []service.Option{service.WithLogger(log), service.WithMetrics(m)}
	if cfg.Cache.Enabled {
		cache, closeCache := newCache(cfg.Cache, log)
		defer closeCache()
		opts = append(opts, service.WithCache(cache, bundle.Fingerprint))
	}

	predictionService := service.NewPredictionServiceFromBundle(bundle, opts...)
	predictionHandler := httpLayer.NewPredictionHandler(predictionService, cfg.UI.Theme, cfg.UI.Title, m, log)

	var rateLimiter *httpLayer.RateLimiter
	if cfg.RateLimit.Enabled {
		rateLimiter = httpLayer.NewRateLimiter(cfg.RateLimit.Capacity, time.Duration(cfg.RateLimit.Refill)*time.Second)
		defer rateLimiter.Stop()
	}

	router := httpLayer.NewRouter(httpLayer.RouterDeps{
		Handler:     predictionHandler,
		Limiter:     rateLimiter,
		Fingerprint: bundle.Fingerprint,
		Metrics:     m,
		Gatherer:    prometheus.DefaultGatherer,
		Log:         log,
	})

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
		IdleTimeout:  config.GetDuration(cfg.Server.IdleTimeout),
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("server listening",
			zap.String("address", cfg.Server.Address),
			zap.String("theme", cfg.UI.Theme),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		log.Error("error starting server", zap.Error(err))
		return
	case <-quit:
		log.Info("shutting down server")
	}

	ctx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("error during server shutdown", zap.Error(err))
	}

	log.Info("server exited")
}

func newCache(cfg config.CacheConfig, log *zap.Logger) (repository.CacheRepository, func()) {
	ttl := time.Duration(cfg.TTL) * time.Second

	if cfg.Backend != config.CacheBackendRedis {
		log.Info("using in-memory prediction cache", zap.Duration("ttl", ttl), zap.Int("max_entries", cfg.MaxEntries))
		return repository.NewMemoryCache(ttl, cfg.MaxEntries), func() {}
	}

	cache := repository.NewRedisCache(repository.RedisOptions{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		TTL:      ttl,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := cache.Ping(ctx); err != nil {
		// lookups degrade to misses until redis comes back
		log.Warn("redis cache unreachable", zap.String("address", cfg.Redis.Address), zap.Error(err))
	} else {
		log.Info("using redis prediction cache", zap.String("address", cfg.Redis.Address), zap.Duration("ttl", ttl))
	}

	return cache, func() {
		if err := cache.Close(); err != nil {
			log.Warn("failed to close redis cache", zap.Error(err))
		}
	}
}
