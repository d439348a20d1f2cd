package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/arklim/article-service/internal/infra/config"
	"github.com/arklim/article-service/internal/infra/database"
	"github.com/arklim/article-service/internal/infra/logger"
	redisinfra "github.com/arklim/article-service/internal/infra/redis"
	"github.com/arklim/article-service/internal/infra/security"
	"github.com/arklim/article-service/internal/infra/telemetry"
	postgresrepo "github.com/arklim/article-service/internal/repository/postgres"
	redisrepo "github.com/arklim/article-service/internal/repository/redis"
	"github.com/arklim/article-service/internal/transport/http/middleware"
	"github.com/arklim/article-service/internal/transport/http/routes"
	"github.com/arklim/article-service/internal/usecase"
)

type Application struct {
	cfg     *config.AppConfig
	handler http.Handler
	logger  *zap.Logger
	pool    *pgxpool.Pool
	redis   *redisinfra.Client
	tracing *telemetry.TracerProvider
}

func New(ctx context.Context, cfg *config.AppConfig) (*Application, error) {
	log, err := logger.New(cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	tracing, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		return nil, fmt.Errorf("init telemetry: %w", err)
	}

	pool, err := database.NewPostgresPool(ctx, cfg.Postgres, log)
	if err != nil {
		_ = tracing.Shutdown(ctx)
		return nil, fmt.Errorf("init postgres: %w", err)
	}

	tokens, err := security.NewTokenManager(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.AccessTokenTTL)
	if err != nil {
		pool.Close()
		_ = tracing.Shutdown(ctx)
		return nil, fmt.Errorf("init token manager: %w", err)
	}

	registry := telemetry.NewRegistry()
	metrics, err := middleware.NewHTTPMetrics(middleware.HTTPMetricsOptions{Registerer: registry})
	if err != nil {
		pool.Close()
		_ = tracing.Shutdown(ctx)
		return nil, fmt.Errorf("init metrics: %w", err)
	}

	var (
		redisClient *redisinfra.Client
		rateLimiter *middleware.RateLimiter
		cache       routes.CacheChecker
	)
	if redisinfra.Enabled(cfg.Redis) {
		redisClient, err = redisinfra.NewClient(ctx, cfg.Redis, log)
		if err != nil {
			pool.Close()
			_ = tracing.Shutdown(ctx)
			return nil, fmt.Errorf("init redis: %w", err)
		}
		cache = redisClient

		rateLimitWindow := cfg.RateLimit.WindowDuration
		if rateLimitWindow <= 0 {
			rateLimitWindow = time.Minute
		}
		rateLimitStore := redisrepo.NewRateLimitRepository(redisClient.Client(), redisrepo.SlidingWindowConfig{
			KeyPrefix: "article:rate-limit",
			TTL:       rateLimitWindow * 2,
		})
		rateLimiter = middleware.NewRateLimiter(rateLimitStore, log)
	} else if cfg.RateLimit.Enabled {
		log.Warn("rate limiting enabled but redis is not configured, writes are not limited")
	}

	articles := postgresrepo.NewArticleRepository(pool, log).
		WithStatementTimeout(cfg.Postgres.AcquireTimeout)

	engine := routes.Register(routes.Dependencies{
		Config:      cfg,
		Logger:      log,
		Articles:    usecase.NewArticleService(articles),
		Tokens:      tokens,
		RateLimiter: rateLimiter,
		Metrics:     metrics,
		Gatherer:    registry,
		Database:    pool,
		Cache:       cache,
	})

	return &Application{
		cfg:     cfg,
		handler: otelhttp.NewHandler(engine, cfg.App.Name),
		logger:  log,
		pool:    pool,
		redis:   redisClient,
		tracing: tracing,
	}, nil
}

func (a *Application) Run(ctx context.Context) error {
	defer func() {
		_ = a.logger.Sync()
	}()
	defer func() {
		if err := a.tracing.Shutdown(context.Background()); err != nil {
			a.logger.Warn("tracer shutdown failed", zap.Error(err))
		}
	}()
	defer a.pool.Close()
	defer func() {
		if a.redis != nil {
			_ = a.redis.Close()
		}
	}()

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", a.cfg.App.Host, a.cfg.App.Port),
		Handler:           a.handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	a.logger.Info("starting article API",
		zap.String("env", a.cfg.App.Env),
		zap.String("address", srv.Addr),
	)

	serverErrCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrCh <- fmt.Errorf("run server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutting down article API")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown server: %w", err)
		}
		return nil
	case err := <-serverErrCh:
		return err
	}
}
