package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/vnkatpara-dev/TastePulse/internal/cache"
	"github.com/vnkatpara-dev/TastePulse/internal/classifier"
	"github.com/vnkatpara-dev/TastePulse/internal/config"
	"github.com/vnkatpara-dev/TastePulse/internal/event"
	handler "github.com/vnkatpara-dev/TastePulse/internal/handler/http"
	"github.com/vnkatpara-dev/TastePulse/internal/repository"
	"github.com/vnkatpara-dev/TastePulse/internal/repository/memory"
	"github.com/vnkatpara-dev/TastePulse/internal/repository/postgres"
	"github.com/vnkatpara-dev/TastePulse/internal/service"
	"github.com/vnkatpara-dev/TastePulse/pkg/database"
	"github.com/vnkatpara-dev/TastePulse/pkg/health"
	pkgkafka "github.com/vnkatpara-dev/TastePulse/pkg/kafka"
	"github.com/vnkatpara-dev/TastePulse/pkg/middleware"
	"github.com/vnkatpara-dev/TastePulse/pkg/tracing"
)

const serviceName = "tastepulse"

// Version is stamped at build time with -ldflags.
var Version = "dev"

// App wires together all dependencies and runs the TastePulse service.
type App struct {
	cfg    *config.Config
	logger *slog.Logger

	pool           *pgxpool.Pool
	redis          *redis.Client
	producer       *pkgkafka.Producer
	consumer       *pkgkafka.Consumer
	deadLetter     *pkgkafka.DeadLetterWriter
	limiter        *middleware.RateLimiter
	shutdownTracer func(context.Context) error

	health     *health.Handler
	httpServer *http.Server
}

// stores bundles the review store and restaurant catalog of one driver.
type stores struct {
	reviews     repository.ReviewStore
	restaurants repository.RestaurantCatalog
}

// NewApp creates a new application instance, initializing all dependencies.
// Resources opened before a failure are released.
func NewApp(cfg *config.Config, logger *slog.Logger) (_ *App, err error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	a := &App{
		cfg:    cfg,
		logger: logger,
		health: health.NewHandler(),
	}
	defer func() {
		if err != nil {
			a.closeResources(context.Background())
		}
	}()

	a.shutdownTracer, err = tracing.InitTracer(ctx, tracing.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTELEndpoint,
		SampleRate:     cfg.OTELSampleRate,
		Enabled:        cfg.OTELEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}

	st, err := a.initStorage(ctx)
	if err != nil {
		return nil, err
	}
	if cfg.SeedData {
		if err := repository.Seed(ctx, st.reviews); err != nil {
			return nil, fmt.Errorf("seed reviews: %w", err)
		}
		logger.Info("sample reviews seeded")
	}

	analyticsCache := a.initCache(ctx)
	events := a.initProducer()

	reviewService := service.NewReviewService(
		st.reviews,
		st.restaurants,
		newClassifier(cfg, logger),
		analyticsCache,
		events,
		service.Config{
			StorageMaxAttempts:   cfg.StorageMaxAttempts,
			StorageRetryInterval: service.DefaultConfig().StorageRetryInterval,
		},
		logger,
	)

	if cfg.KafkaIngestEnabled {
		a.initIngest(reviewService)
	}

	a.limiter = middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, logger)

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.CORSAllowedOrigins

	router := handler.NewRouter(handler.RouterConfig{
		APIPrefix:   cfg.APIPrefix,
		CORS:        corsCfg,
		PprofCIDRs:  cfg.PprofAllowedCIDRs,
		RateLimiter: a.limiter,
	}, reviewService, a.health, logger)

	a.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return a, nil
}

// initStorage opens the configured review store. PostgreSQL is migrated on
// startup and registered as a critical readiness check.
func (a *App) initStorage(ctx context.Context) (stores, error) {
	cfg := a.cfg
	if cfg.StorageDriver == config.StorageDriverMemory {
		store := memory.NewStore(repository.SeedRestaurants())
		a.logger.Info("using in-memory review store")
		return stores{reviews: store, restaurants: store}, nil
	}

	pool, err := OpenPostgres(ctx, cfg, a.logger)
	if err != nil {
		return stores{}, err
	}
	a.pool = pool
	if err := database.RegisterPoolMetrics(prometheus.DefaultRegisterer, pool, serviceName); err != nil {
		a.logger.Warn("failed to register pool metrics", slog.String("error", err.Error()))
	}

	a.health.Register("postgres", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})

	return stores{
		reviews:     postgres.NewReviewRepository(pool),
		restaurants: postgres.NewRestaurantRepository(pool),
	}, nil
}

// OpenPostgres connects to PostgreSQL, applies the embedded migrations and
// configures slow-query logging.
func OpenPostgres(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*pgxpool.Pool, error) {
	pgCfg := database.DefaultPostgresConfig()
	pgCfg.Host = cfg.PostgresHost
	pgCfg.Port = cfg.PostgresPort
	pgCfg.User = cfg.PostgresUser
	pgCfg.Password = cfg.PostgresPass
	pgCfg.DBName = cfg.PostgresDB
	pgCfg.SSLMode = cfg.PostgresSSL
	pgCfg.MaxConns = cfg.PostgresMaxConns

	pool, err := database.NewPostgresPool(ctx, &pgCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	logger.Info("connected to PostgreSQL",
		slog.String("host", cfg.PostgresHost),
		slog.Int("port", cfg.PostgresPort),
		slog.String("database", cfg.PostgresDB),
	)

	if err := database.RunMigrations(ctx, pool, postgres.Migrations(), logger); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrate postgres: %w", err)
	}
	database.SetSlowQueryLogging(cfg.SlowQueryThreshold, logger)
	return pool, nil
}

// initCache connects the Redis analytics cache. The cache is optional: when
// Redis is unreachable at startup the service runs uncached.
func (a *App) initCache(ctx context.Context) cache.AnalyticsCache {
	if !a.cfg.CacheEnabled {
		return cache.Noop{}
	}

	client, err := database.NewRedisClient(ctx, database.RedisConfig{
		Addr:     a.cfg.RedisAddr,
		Password: a.cfg.RedisPassword,
		DB:       a.cfg.RedisDB,
	})
	if err != nil {
		a.logger.Warn("redis unavailable, analytics cache disabled",
			slog.String("addr", a.cfg.RedisAddr),
			slog.String("error", err.Error()),
		)
		return cache.Noop{}
	}
	a.redis = client
	a.logger.Info("connected to Redis", slog.String("addr", a.cfg.RedisAddr))

	a.health.RegisterOptional("redis", func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	})
	return cache.NewRedisCache(client, a.cfg.CacheTTL)
}

// initProducer creates the review.created publisher.
func (a *App) initProducer() service.EventPublisher {
	if !a.cfg.KafkaEnabled {
		return event.NoopPublisher{}
	}

	a.producer = pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(a.cfg.KafkaBrokers), a.logger)
	a.logger.Info("kafka producer initialized", slog.Any("brokers", a.cfg.KafkaBrokers))

	producer := a.producer
	a.health.RegisterOptional("kafka", producer.Ping)
	return event.NewProducer(producer, a.logger)
}

// initIngest creates the review.submitted consumer.
func (a *App) initIngest(submitter event.ReviewSubmitter) {
	if a.cfg.KafkaDeadLetter {
		a.deadLetter = pkgkafka.NewDeadLetterWriter(a.cfg.KafkaBrokers, a.logger)
	}
	a.consumer = event.NewIngestConsumer(event.IngestConfig{
		Brokers:    a.cfg.KafkaBrokers,
		GroupID:    a.cfg.KafkaConsumerGroup,
		DeadLetter: a.deadLetter,
	}, event.NewIngestHandler(submitter, a.logger), a.logger)
}

// newClassifier builds the configured sentiment classifier. The remote
// classifier is retried and sits behind a circuit breaker.
func newClassifier(cfg *config.Config, logger *slog.Logger) classifier.Classifier {
	if cfg.Classifier == config.ClassifierRemote {
		remote := classifier.NewRemoteWithBreaker(cfg.ModelURL, cfg.ClassifierTimeout, logger)
		retryCfg := classifier.DefaultRetryConfig()
		retryCfg.MaxAttempts = cfg.ClassifierMaxAttempts
		retryCfg.AttemptTimeout = cfg.ClassifierTimeout
		logger.Info("using remote sentiment classifier", slog.String("model_url", cfg.ModelURL))
		return classifier.Instrument(config.ClassifierRemote, classifier.NewRetrying(remote, retryCfg, logger))
	}
	logger.Info("using lexicon sentiment classifier")
	return classifier.Instrument(config.ClassifierLexicon, classifier.NewLexicon())
}

// Handler returns the HTTP handler serving the API.
func (a *App) Handler() http.Handler {
	return a.httpServer.Handler
}

// Run starts the HTTP server and the ingest consumer and blocks until the
// context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 2)

	if a.consumer != nil {
		go func() {
			if err := a.consumer.Start(ctx); err != nil {
				errCh <- fmt.Errorf("ingest consumer: %w", err)
			}
		}()
	}

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case runErr = <-errCh:
		a.logger.Error("component failed", slog.String("error", runErr.Error()))
	}

	if err := a.Shutdown(); err != nil {
		return err
	}
	return runErr
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	// Graceful HTTP server shutdown with a 10-second deadline.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	a.closeResources(shutdownCtx)

	a.logger.Info("application shutdown complete")
	return nil
}

// closeResources releases everything NewApp opened, in reverse order.
func (a *App) closeResources(ctx context.Context) {
	if a.limiter != nil {
		a.limiter.Close()
	}
	if a.consumer != nil {
		if err := a.consumer.Close(); err != nil {
			a.logger.Error("kafka consumer close error", slog.String("error", err.Error()))
		}
	}
	if a.deadLetter != nil {
		if err := a.deadLetter.Close(); err != nil {
			a.logger.Error("kafka dead-letter writer close error", slog.String("error", err.Error()))
		}
	}
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
		}
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Error("redis close error", slog.String("error", err.Error()))
		}
	}
	if a.pool != nil {
		a.pool.Close()
	}
	if a.shutdownTracer != nil {
		if err := a.shutdownTracer(ctx); err != nil {
			a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
		}
	}
}
