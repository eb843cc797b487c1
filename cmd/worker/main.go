// Package main is the entry point of the ranking worker.
//
// The worker owns the periodic machinery of the engine:
//   - the daily full-table rank recomputation
//   - weekly and monthly period rollovers with top-3 rewards
//   - the season rollover (operator-triggered)
//   - turning ranking events into persisted notifications
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/lifebit-hub/ranking-core/config"
	"github.com/lifebit-hub/ranking-core/internal/application/eventhandler"
	"github.com/lifebit-hub/ranking-core/internal/domain/ranking"
	"github.com/lifebit-hub/ranking-core/internal/domain/reward"
	"github.com/lifebit-hub/ranking-core/internal/domain/shared"
	"github.com/lifebit-hub/ranking-core/internal/infrastructure/messaging"
	"github.com/lifebit-hub/ranking-core/internal/infrastructure/persistence/postgres"
	"github.com/lifebit-hub/ranking-core/internal/infrastructure/persistence/redis"
	"github.com/lifebit-hub/ranking-core/internal/infrastructure/scheduler"
	"github.com/lifebit-hub/ranking-core/internal/infrastructure/scheduler/jobs"
	"github.com/lifebit-hub/ranking-core/internal/infrastructure/service"
)

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
	// CONFIGURATION AND LOGGING
	// ─────────────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := setupLogger(cfg)
	log.Info("starting ranking worker",
		"env", cfg.App.Environment,
		"version", cfg.App.Version,
		"season", cfg.App.CurrentSeason,
	)

	// ─────────────────────────────────────────────────────────────────────────
	// POSTGRESQL
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("connecting to database")
	dbConn, err := postgres.NewConnectionFromURL(ctx, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		log.Info("closing database connection")
		dbConn.Close()
	}()

	if err := postgres.Migrate(ctx, dbConn, log); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	log.Info("database schema is up to date")

	rankingRepo := postgres.NewRankingRepository(dbConn)
	historyRepo := postgres.NewHistoryRepository(dbConn)
	notificationRepo := postgres.NewNotificationRepository(dbConn)

	// ─────────────────────────────────────────────────────────────────────────
	// REDIS (optional standings cache)
	// ─────────────────────────────────────────────────────────────────────────
	var rankingCache *redis.RankingCache
	if !cfg.Redis.Disabled {
		redisCfg := redis.DefaultConfig()
		redisCfg.Host = cfg.Redis.Host
		redisCfg.Port = cfg.Redis.Port
		redisCfg.Password = cfg.Redis.Password
		redisCfg.DB = cfg.Redis.DB
		redisCfg.PoolSize = cfg.Redis.PoolSize
		redisCfg.MinIdleConns = cfg.Redis.MinIdleConns
		redisCfg.DialTimeout = cfg.Redis.DialTimeout
		redisCfg.ReadTimeout = cfg.Redis.ReadTimeout
		redisCfg.WriteTimeout = cfg.Redis.WriteTimeout

		cache, err := redis.NewCache(redisCfg)
		if err != nil {
			log.Warn("failed to connect to Redis, standings cache disabled", "error", err)
		} else {
			defer cache.Close()
			rankingCache = redis.NewRankingCache(cache)
			log.Info("Redis connection established")
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// EVENT BUS AND NOTIFICATION FAN-OUT
	// ─────────────────────────────────────────────────────────────────────────
	busConfig := messaging.DefaultInMemoryEventBusConfig()
	busConfig.Logger = log
	eventBus := messaging.NewInMemoryEventBus(busConfig)
	defer func() {
		log.Info("closing event bus")
		_ = eventBus.Close()
	}()

	emitter := service.NewNotificationEmitter(notificationRepo, log)

	onRankChanged := eventhandler.NewOnRankChangedHandler(emitter, log, eventhandler.DefaultRankChangedConfig())
	if err := eventBus.Subscribe(shared.EventRankChanged, onRankChanged); err != nil {
		return fmt.Errorf("failed to subscribe rank change handler: %w", err)
	}

	onReward := eventhandler.NewOnRewardGrantedHandler(emitter, log)
	if err := eventBus.Subscribe(shared.EventRewardGranted, onReward); err != nil {
		return fmt.Errorf("failed to subscribe reward handler: %w", err)
	}
	if err := eventBus.Subscribe(shared.EventAchievementUnlocked, onReward); err != nil {
		return fmt.Errorf("failed to subscribe achievement handler: %w", err)
	}

	onRollover := eventhandler.NewOnPeriodEndedHandler(rankingRepo, emitter, log)
	if err := eventBus.Subscribe(shared.EventPeriodEnded, onRollover); err != nil {
		return fmt.Errorf("failed to subscribe period end handler: %w", err)
	}
	if err := eventBus.Subscribe(shared.EventSeasonEnded, onRollover); err != nil {
		return fmt.Errorf("failed to subscribe season end handler: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// SCHEDULED JOBS
	// ─────────────────────────────────────────────────────────────────────────
	rewards := reward.NewCalculator(rankingRepo, historyRepo)

	sched := scheduler.New(scheduler.Config{Logger: log})

	recomputeConfig := jobs.DefaultRecomputeConfig()
	recomputeConfig.Timeout = cfg.Scheduler.RecomputeTimeout
	recomputeJob := jobs.NewRecomputeRanksJob(
		rankingRepo, historyRepo, eventBus, invalidator(rankingCache), log, recomputeConfig,
	)

	weeklyRollover := jobs.NewPeriodRolloverJob(rankingRepo, rewards, eventBus, log, ranking.PeriodWeekly)
	monthlyRollover := jobs.NewPeriodRolloverJob(rankingRepo, rewards, eventBus, log, ranking.PeriodMonthly)
	seasonRollover := jobs.NewSeasonRolloverJob(rankingRepo, rewards, eventBus, log, func() ranking.Season {
		return ranking.Season(cfg.App.CurrentSeason)
	})

	if cfg.Scheduler.Enabled {
		recomputeCron, err := scheduler.ParseCron(cfg.Scheduler.RecomputeCron)
		if err != nil {
			return fmt.Errorf("invalid recompute cron: %w", err)
		}
		weeklyCron, err := scheduler.ParseCron(cfg.Scheduler.WeeklyRolloverCron)
		if err != nil {
			return fmt.Errorf("invalid weekly rollover cron: %w", err)
		}
		monthlyCron, err := scheduler.ParseCron(cfg.Scheduler.MonthlyRolloverCron)
		if err != nil {
			return fmt.Errorf("invalid monthly rollover cron: %w", err)
		}

		if err := sched.Register(recomputeJob, recomputeCron, cfg.Scheduler.RecomputeTimeout); err != nil {
			return err
		}
		if err := sched.Register(weeklyRollover, weeklyCron, 0); err != nil {
			return err
		}
		if err := sched.Register(monthlyRollover, monthlyCron, 0); err != nil {
			return err
		}

		// Seasons close on operator action, not on a clock. Registered
		// disabled so RunNow can reach it.
		if err := sched.Register(seasonRollover, scheduler.MustParseCron(scheduler.CronMonthlyFirst), 0); err != nil {
			return err
		}
		if err := sched.DisableJob(seasonRollover.Name()); err != nil {
			return err
		}

		if err := sched.Start(ctx); err != nil {
			return fmt.Errorf("failed to start scheduler: %w", err)
		}
		defer func() {
			log.Info("stopping scheduler")
			_ = sched.Stop()
		}()
	} else {
		log.Warn("scheduler disabled by configuration")
	}

	log.Info("ranking worker is running")

	// ─────────────────────────────────────────────────────────────────────────
	// GRACEFUL SHUTDOWN
	// ─────────────────────────────────────────────────────────────────────────
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	select {
	case sig := <-sigCh:
		log.Info("received signal, shutting down", "signal", sig.String())
	case <-ctx.Done():
		log.Info("context cancelled, shutting down")
	}

	return nil
}

// invalidator avoids handing a typed-nil interface to the job when Redis is
// not configured.
func invalidator(cache *redis.RankingCache) jobs.StandingsInvalidator {
	if cache == nil {
		return nil
	}
	return cache
}

// setupLogger builds the slog logger from the observability settings.
func setupLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	switch cfg.Observability.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Observability.LogFormat == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	log := slog.New(handler).With(
		"app", cfg.App.Name,
		"version", cfg.App.Version,
	)
	slog.SetDefault(log)

	return log
}
