package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"
	"github.com/teampulse/engagement-pulse/internal/adapter/postgres"
	"github.com/teampulse/engagement-pulse/internal/adapter/redis"
	"github.com/teampulse/engagement-pulse/internal/aggregate"
	"github.com/teampulse/engagement-pulse/internal/app"
	"github.com/teampulse/engagement-pulse/internal/insight"
	"github.com/teampulse/engagement-pulse/internal/platform/config"
	"github.com/teampulse/engagement-pulse/internal/platform/logging"
	"github.com/teampulse/engagement-pulse/internal/scoring"
	"github.com/teampulse/engagement-pulse/internal/server"
)

func setupConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

func setupDB(cfg *config.Config) *pgxpool.Pool {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := postgres.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	if err := postgres.RunMigrationsWithLock(ctx, pool); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	return pool
}

func setupRedis(cfg *config.Config) *redis.Client {
	client, err := redis.NewClient(cfg.RedisURL)
	if err != nil {
		slog.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx); err != nil {
		slog.Error("Failed to ping Redis", "error", err)
		os.Exit(1)
	}

	return client
}

func runGracefulShutdown(srv *server.Server, cancelJobs context.CancelFunc, runner *app.Runner) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, cleaning up...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}

		cancelJobs()
		runner.Wait()

		close(done)
	}()

	return done
}

func main() {
	clock := clockwork.NewRealClock()

	cfg := setupConfig()

	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	slog.Info("Application starting", "env", cfg.AppEnv, "port", cfg.Port)

	pool := setupDB(cfg)
	defer pool.Close()

	channelRepo := postgres.NewChannelRepository(pool)
	sentimentRepo := postgres.NewSentimentRepository(pool)
	summaryRepo := postgres.NewSummaryRepository(pool)
	insightRepo := postgres.NewInsightRepository(pool)

	healthChecks := []server.HealthCheck{
		{Name: "postgres", Check: pool.Ping},
	}

	// Redis is an optional fast path; without it insight dedup falls back to
	// store queries.
	var dedup insight.DedupMarker
	if cfg.RedisURL != "" {
		redisClient := setupRedis(cfg)
		defer func() { _ = redisClient.Close() }()
		dedup = redis.NewInsightMarker(redisClient)
		healthChecks = append(healthChecks, server.HealthCheck{Name: "redis", Check: redisClient.Ping})
	}

	insightEngine := insight.NewEngine(channelRepo, summaryRepo, insightRepo, dedup, clock)

	weekStart, err := cfg.WeekStart()
	if err != nil {
		slog.Error("Invalid week start day", "error", err)
		os.Exit(1)
	}
	aggCfg := aggregate.Config{
		SentimentNegativeThreshold: cfg.SentimentNegativeThreshold,
		BurnoutDeltaThreshold:      cfg.BurnoutDeltaThreshold,
		WeekStartDay:               weekStart,
	}
	aggregator := aggregate.NewEngine(channelRepo, sentimentRepo, summaryRepo, insightEngine, aggCfg, clock)

	scorer := scoring.NewEngine(sentimentRepo, clock)

	svc := app.NewService(channelRepo, scorer, aggregator, insightEngine)

	jobCtx, cancelJobs := context.WithCancel(context.Background())
	runner := app.NewRunner(svc.Jobs(cfg.DailyJobInterval, cfg.WeeklyJobInterval, cfg.InsightsJobInterval), clock)
	runner.Start(jobCtx)

	srv := server.NewServer(cfg, svc, healthChecks)

	done := runGracefulShutdown(srv, cancelJobs, runner)

	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}

	<-done
}
