// Package main is the entry point for the EduPulse risk worker.
//
// The worker owns the background side of the dropout-risk engine:
//   - nightly at-risk roster sweeps that recompute every learner's prediction
//   - raising risk alerts for HIGH and CRITICAL learners
//   - keeping the prediction cache and history warm for the API tier
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/edupulse/edupulse-backend/config"
	"github.com/edupulse/edupulse-backend/internal/application/predictor"
	"github.com/edupulse/edupulse-backend/internal/domain/prediction"
	"github.com/edupulse/edupulse-backend/internal/domain/shared"
	"github.com/edupulse/edupulse-backend/internal/infrastructure/messaging"
	"github.com/edupulse/edupulse-backend/internal/infrastructure/persistence/postgres"
	"github.com/edupulse/edupulse-backend/internal/infrastructure/persistence/redis"
	"github.com/edupulse/edupulse-backend/internal/infrastructure/scheduler"
	"github.com/edupulse/edupulse-backend/internal/infrastructure/scheduler/jobs"
)

// ══════════════════════════════════════════════════════════════════════════════
// MAIN
// ══════════════════════════════════════════════════════════════════════════════

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// ─────────────────────────────────────────────────────────────────────────
	// 1. CONFIGURATION
	// ─────────────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 2. LOGGING
	// ─────────────────────────────────────────────────────────────────────────
	log := setupLogger(cfg)
	log.Info("starting EduPulse risk worker",
		"env", cfg.App.Environment,
		"version", cfg.App.Version,
		"timezone", cfg.App.Timezone,
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 3. POSTGRESQL
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("connecting to database...")
	dbConn, err := postgres.NewConnectionFromURL(ctx, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		log.Info("closing database connection...")
		dbConn.Close()
	}()

	if err := dbConn.Ping(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	log.Info("database connection established")

	// ─────────────────────────────────────────────────────────────────────────
	// 4. MIGRATIONS
	// ─────────────────────────────────────────────────────────────────────────
	if cfg.Database.AutoMigrate {
		log.Info("checking database migrations...")
		migrator := postgres.NewMigrator(dbConn)
		if err := migrator.Migrate(ctx); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		log.Info("database schema is up to date")
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 5. REDIS
	// ─────────────────────────────────────────────────────────────────────────
	var redisCache *redis.Cache
	var predictionCache prediction.Cache

	if !cfg.Redis.Disabled {
		log.Info("connecting to Redis...")
		redisCfg := redis.Config{
			Host:         cfg.Redis.Host,
			Port:         cfg.Redis.Port,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
			MaxRetries:   3,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
			PoolTimeout:  cfg.Redis.DialTimeout,
		}

		redisCache, err = redis.NewCache(redisCfg)
		if err != nil {
			log.Warn("failed to connect to Redis, using in-process cache", "error", err)
		} else {
			defer redisCache.Close()
			predictionCache = redis.NewPredictionCache(redisCache)
			log.Info("Redis connection established")
		}
	}
	if predictionCache == nil {
		predictionCache = newLocalCache()
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 6. EVENT BUS
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing event bus...")
	busConfig := messaging.DefaultInMemoryEventBusConfig()
	busConfig.Logger = log

	var eventBus shared.EventBus
	var closeBus func() error

	if redisCache != nil {
		redisBus, err := messaging.NewRedisEventBus(messaging.RedisEventBusConfig{
			Client:         messaging.NewGoRedisClient(redisCache.Client()),
			LocalBusConfig: busConfig,
			Logger:         log,
		})
		if err != nil {
			return fmt.Errorf("failed to start redis event bus: %w", err)
		}
		eventBus, closeBus = redisBus, redisBus.Close
	} else {
		localBus := messaging.NewInMemoryEventBus(busConfig)
		eventBus, closeBus = localBus, localBus.Close
	}
	defer func() {
		log.Info("closing event bus...")
		_ = closeBus()
	}()

	// Surface raised alerts in the worker log until a notifier consumes them.
	_ = eventBus.Subscribe(shared.EventRiskAlertRaised, func(e shared.Event) error {
		log.Warn("risk alert raised",
			"student_id", e.AggregateID(),
			"payload", e.Payload(),
		)
		return nil
	})

	// ─────────────────────────────────────────────────────────────────────────
	// 7. REPOSITORIES & ENGINE
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing risk engine...")
	analyticsRepo := postgres.NewAnalyticsRepository(dbConn)
	rosterRepo := postgres.NewRosterRepository(dbConn)
	predictionRepo := postgres.NewPredictionRepository(dbConn)

	engine := predictor.NewEngine(
		analyticsRepo,
		rosterRepo,
		predictionCache,
		predictionRepo,
		eventBus,
		predictor.Config{
			WindowDays:   cfg.Predictor.WindowDays,
			CacheTTL:     cfg.Predictor.CacheTTL,
			QueryTimeout: cfg.Predictor.QueryTimeout,
			BatchWorkers: cfg.Predictor.BatchWorkers,
		},
		log,
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 8. SCHEDULER
	// ─────────────────────────────────────────────────────────────────────────
	var sched *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		log.Info("initializing scheduler...")

		schedCfg := scheduler.DefaultSchedulerConfig()
		schedCfg.Logger = log
		schedCfg.Timezone = cfg.App.Location
		sched = scheduler.NewScheduler(schedCfg)

		scanCfg := jobs.ScanAtRiskConfig{
			CourseIDs:      cfg.Scheduler.ScanCourses,
			Threshold:      cfg.Scheduler.ScanThreshold,
			LimitPerCourse: cfg.Scheduler.ScanLimitPerCourse,
			Timeout:        cfg.Scheduler.JobTimeout,
		}
		scanJob := jobs.NewScanAtRiskJob(engine, log, scanCfg)

		scanSchedule, err := scheduler.ParseCronExpression(cfg.Scheduler.ScanCron)
		if err != nil {
			return fmt.Errorf("invalid SCHEDULER_SCAN_CRON: %w", err)
		}
		if err := sched.Register(scanJob, scanSchedule); err != nil {
			return fmt.Errorf("failed to register scan job: %w", err)
		}

		if err := sched.Start(ctx); err != nil {
			return fmt.Errorf("failed to start scheduler: %w", err)
		}
		defer func() {
			log.Info("stopping scheduler...")
			_ = sched.Stop()
		}()
	} else {
		log.Info("scheduler disabled")
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 9. GRACEFUL SHUTDOWN
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("EduPulse risk worker is running",
		"scan_cron", cfg.Scheduler.ScanCron,
		"window_days", cfg.Predictor.WindowDays,
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	select {
	case sig := <-sigCh:
		log.Info("received shutdown signal", "signal", sig.String())
	case <-ctx.Done():
		log.Info("context cancelled")
	}

	log.Info("starting graceful shutdown...", "timeout", cfg.App.ShutdownTimeout.String())
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// HELPERS
// ══════════════════════════════════════════════════════════════════════════════

// setupLogger configures structured logging for the worker.
func setupLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}
	if cfg.App.Debug {
		opts.Level = slog.LevelDebug
	}

	var handler slog.Handler
	if cfg.Observability.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	log := slog.New(handler)
	slog.SetDefault(log)

	return log
}

// localCache is an in-process prediction.Cache fallback for running without
// Redis. Entries expire lazily on read.
type localCache struct {
	mu      sync.Mutex
	entries map[string]localEntry
}

type localEntry struct {
	pred      *prediction.Prediction
	expiresAt time.Time
}

func newLocalCache() *localCache {
	return &localCache{entries: make(map[string]localEntry)}
}

func (c *localCache) Get(ctx context.Context, key string) (*prediction.Prediction, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok || time.Now().After(entry.expiresAt) {
		delete(c.entries, key)
		return nil, prediction.ErrCacheMiss
	}
	return entry.pred, nil
}

func (c *localCache) Set(ctx context.Context, key string, p *prediction.Prediction, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = localEntry{pred: p, expiresAt: time.Now().Add(ttl)}
	return nil
}

func (c *localCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)
	return nil
}
