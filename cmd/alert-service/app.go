package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	_ "github.com/lib/pq" // PostgreSQL driver

	"safegenie/internal/alert"
	"safegenie/internal/broker"
	"safegenie/internal/config"
	"safegenie/internal/constants"
	"safegenie/internal/dispatch"
	"safegenie/internal/location"
	"safegenie/internal/logger"
	"safegenie/pkg/bootstrap"
	"safegenie/pkg/circuitbreaker"
	"safegenie/pkg/health"
	"safegenie/pkg/metrics"
	"safegenie/pkg/middleware"
	"safegenie/pkg/migrations"
	"safegenie/pkg/ratelimit"
	"safegenie/pkg/retry"
)

type App struct {
	config      *config.Config
	logger      logger.Logger
	dbConnector *bootstrap.DatabaseConnector
	db          *sql.DB
	redisClient *redis.Client
	producer    broker.Producer
	tracker     *location.Tracker
	memLimiter  *ratelimit.MemoryStore
	server      *http.Server
	router      *gin.Engine
}

func NewApp(cfg *config.Config, log logger.Logger) *App {
	return &App{
		config:      cfg,
		logger:      log,
		dbConnector: bootstrap.NewDatabaseConnector(cfg, log),
	}
}

func (a *App) Initialize(ctx context.Context) error {
	if err := a.initDatabases(ctx); err != nil {
		return fmt.Errorf("failed to initialize databases: %w", err)
	}

	if err := a.initTracker(); err != nil {
		return fmt.Errorf("failed to initialize location tracker: %w", err)
	}

	if err := a.initRouter(ctx); err != nil {
		return fmt.Errorf("failed to initialize router: %w", err)
	}

	if err := a.initServer(); err != nil {
		return fmt.Errorf("failed to initialize server: %w", err)
	}

	return nil
}

func (a *App) initDatabases(ctx context.Context) error {
	db, err := a.dbConnector.InitPostgreSQL(ctx)
	if err != nil {
		return err
	}
	a.db = db

	if a.db != nil && a.config.Database.RunMigrations {
		if err := migrations.RunPostgres(a.db, a.config.Database.MigrationsPath); err != nil {
			return err
		}
		a.logger.InfowCtx(ctx, "Database migrations applied")
	}

	rdb, err := a.dbConnector.InitRedis(ctx)
	if err != nil {
		return err
	}
	a.redisClient = rdb

	return nil
}

func (a *App) initTracker() error {
	if !a.config.Tracker.Enabled {
		return nil
	}

	provider := location.NewHTTPProvider(a.config.Tracker.ProviderURL)
	a.tracker = location.NewTracker(provider, location.TrackerConfig{
		SampleInterval:  time.Duration(a.config.Tracker.SampleIntervalSeconds) * time.Second,
		RetentionWindow: time.Duration(a.config.Tracker.RetentionWindowSeconds) * time.Second,
		LocateTimeout:   time.Duration(a.config.Tracker.LocateTimeoutSeconds) * time.Second,
	}, a.logger)

	return nil
}

func (a *App) buildChannels(ctx context.Context) ([]dispatch.PrioritizedChannel, error) {
	dryRun := a.config.Channels.DryRun

	pushChannel, err := dispatch.NewPushChannel(ctx, a.config.Channels.Push, dryRun)
	if err != nil {
		return nil, err
	}

	channels := []dispatch.PrioritizedChannel{
		{Channel: dispatch.NewAPIChannel(a.config.Channels.API, dryRun), Priority: a.config.Channels.API.Priority},
		{Channel: dispatch.NewSMTPChannel(a.config.Channels.SMTP, dryRun), Priority: a.config.Channels.SMTP.Priority},
		{Channel: dispatch.NewSMSChannel(a.config.Channels.SMS, dryRun), Priority: a.config.Channels.SMS.Priority},
		{Channel: pushChannel, Priority: a.config.Channels.Push.Priority},
	}

	if a.config.CircuitBreaker.Enabled {
		for i, pc := range channels {
			cbCfg := circuitbreaker.DefaultConfig(pc.Channel.Name())
			if a.config.CircuitBreaker.MaxRequests > 0 {
				cbCfg.MaxRequests = a.config.CircuitBreaker.MaxRequests
			}
			if a.config.CircuitBreaker.Interval > 0 {
				cbCfg.Interval = a.config.CircuitBreaker.Interval
			}
			if a.config.CircuitBreaker.Timeout > 0 {
				cbCfg.Timeout = a.config.CircuitBreaker.Timeout
			}
			channels[i].Channel = dispatch.NewBreakerChannel(pc.Channel, cbCfg)
		}
	}

	return channels, nil
}

func (a *App) rateLimitStore(cfg ratelimit.Config) ratelimit.Store {
	if a.config.RateLimit.Store == constants.RateLimitStoreRedis && a.redisClient != nil {
		return ratelimit.NewRedisStore(a.redisClient)
	}

	a.memLimiter = ratelimit.NewMemoryStore()
	a.memLimiter.StartCleanup(cfg.CleanupInterval, cfg.MaxAge)
	return a.memLimiter
}

func (a *App) initRouter(ctx context.Context) error {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	router.Use(middleware.RecoveryMiddleware(a.logger))
	router.Use(middleware.LoggerMiddleware(a.logger))
	router.Use(middleware.RequestIDMiddleware())

	channels, err := a.buildChannels(ctx)
	if err != nil {
		return err
	}

	sendTimeout := time.Duration(a.config.Channels.SendTimeoutSeconds) * time.Second
	dispatcher := dispatch.NewDispatcher(channels, sendTimeout, a.logger)

	if a.config.Broker.Type == "kafka" && a.config.Broker.Kafka.DispatchTopic != "" {
		producer, err := broker.NewProducer(a.config.Broker, a.logger)
		if err != nil {
			a.logger.WarnwCtx(ctx, "Failed to create dispatch event producer, dispatch events will be disabled", "error", err)
		} else {
			a.producer = producer
		}
	}

	opts := []alert.ServiceOption{}
	if a.tracker != nil {
		opts = append(opts, alert.WithTracker(a.tracker))
	}
	if a.db != nil {
		opts = append(opts, alert.WithHistory(alert.NewPostgresHistory(a.db)))
	}
	if a.producer != nil {
		policy := retry.DefaultPolicy()
		if a.config.Broker.Kafka.Retry.MaxAttempts > 0 {
			policy = retry.Policy{
				MaxAttempts:     a.config.Broker.Kafka.Retry.MaxAttempts,
				InitialInterval: a.config.Broker.Kafka.Retry.InitialInterval,
				MaxInterval:     a.config.Broker.Kafka.Retry.MaxInterval,
				Multiplier:      a.config.Broker.Kafka.Retry.Multiplier,
				MaxElapsedTime:  a.config.Broker.Kafka.Retry.MaxElapsedTime,
			}
		}
		publisher := alert.NewEventPublisher(a.producer, a.config.Broker.Kafka.DispatchTopic, policy, a.logger)
		opts = append(opts, alert.WithEvents(publisher))
	}
	if a.config.Reporting.WebhookURL != "" {
		timeout := time.Duration(a.config.Reporting.TimeoutSeconds) * time.Second
		opts = append(opts, alert.WithReporter(alert.NewWebhookReporter(a.config.Reporting.WebhookURL, timeout, a.logger)))
	}

	validator := alert.NewValidator(a.config.Validation)
	svc := alert.NewService(validator, dispatcher, a.logger, opts...)
	handler := alert.NewHandler(svc, a.logger)

	api := router.Group("/api")
	if a.config.RateLimit.Enabled {
		rlConfig := ratelimit.Config{
			Window:          time.Duration(a.config.RateLimit.WindowSeconds) * time.Second,
			Quota:           a.config.RateLimit.Quota,
			CleanupInterval: time.Duration(a.config.RateLimit.CleanupIntervalSeconds) * time.Second,
			MaxAge:          time.Duration(a.config.RateLimit.MaxAgeSeconds) * time.Second,
		}
		api.Use(ratelimit.Middleware(rlConfig, a.rateLimitStore(rlConfig)))
		a.logger.InfowCtx(ctx, "Rate limiting enabled",
			"window", rlConfig.Window, "quota", rlConfig.Quota, "store", a.config.RateLimit.Store)
	}
	handler.RegisterRoutes(api)

	metrics.RegisterAlertMetrics()
	if a.config.Tracker.Enabled {
		metrics.RegisterTrackerMetrics()
	}
	if a.config.CircuitBreaker.Enabled {
		metrics.RegisterCircuitBreakerMetrics()
	}

	healthRegistry := health.NewCheckerRegistry()
	healthRegistry.Register(health.NewChannelsChecker(dispatcher))
	if a.db != nil {
		healthRegistry.Register(health.NewPostgreSQLChecker(a.db))
	}
	if a.redisClient != nil {
		healthRegistry.Register(health.NewRedisChecker(a.redisClient))
	}
	if a.tracker != nil {
		healthRegistry.Register(health.NewCheckerFunc("tracker", func(context.Context) error {
			if _, ok := a.tracker.Current(); !ok {
				return fmt.Errorf("no position fix yet")
			}
			return nil
		}))
	}

	router.GET("/health", func(c *gin.Context) {
		h := healthRegistry.Check(c.Request.Context())
		statusCode := http.StatusOK
		if h.Status == health.StatusUnhealthy {
			statusCode = http.StatusServiceUnavailable
		}
		c.JSON(statusCode, h)
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	a.router = router
	return nil
}

func (a *App) initServer() error {
	a.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", a.config.Server.Port),
		Handler:      a.router,
		ReadTimeout:  time.Duration(a.config.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(a.config.Server.WriteTimeoutSeconds) * time.Second,
	}
	return nil
}

func (a *App) Run(ctx context.Context) error {
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.InfowCtx(gCtx, "Server listening", "port", a.config.Server.Port)
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	if a.tracker != nil {
		g.Go(func() error {
			a.logger.InfowCtx(gCtx, "Location tracker started",
				"sample_interval_seconds", a.config.Tracker.SampleIntervalSeconds,
				"retention_window_seconds", a.config.Tracker.RetentionWindowSeconds)
			if err := a.tracker.Run(gCtx); err != nil && err != context.Canceled {
				return fmt.Errorf("tracker error: %w", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gCtx.Done()
		return a.Shutdown(gCtx)
	})

	return g.Wait()
}

func (a *App) Shutdown(ctx context.Context) error {
	a.logger.InfowCtx(ctx, "Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer cancel()

	var errs []error

	if a.server != nil {
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("server shutdown error: %w", err))
		}
	}

	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("producer close error: %w", err))
		}
	}

	if a.memLimiter != nil {
		a.memLimiter.Close()
	}

	dbErrs := a.dbConnector.ShutdownDatabases(a.redisClient, a.db)
	errs = append(errs, dbErrs...)

	if len(errs) > 0 {
		return fmt.Errorf("shutdown errors: %v", errs)
	}

	a.logger.InfowCtx(ctx, "Server exited successfully")
	return nil
}
