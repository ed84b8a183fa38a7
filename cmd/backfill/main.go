// Command backfill recreates missing daily and weekly summaries over a date
// range, e.g. after the summary jobs were down.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/teampulse/engagement-pulse/internal/adapter/postgres"
	"github.com/teampulse/engagement-pulse/internal/aggregate"
	"github.com/teampulse/engagement-pulse/internal/platform/config"
	"github.com/teampulse/engagement-pulse/internal/platform/logging"
)

func main() {
	var (
		startFlag    = flag.String("start", "", "first date to backfill (YYYY-MM-DD, required)")
		endFlag      = flag.String("end", "", "last date to backfill (YYYY-MM-DD, defaults to yesterday)")
		channelsFlag = flag.String("channels", "", "comma-separated channel IDs (defaults to all active channels)")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)

	clock := clockwork.NewRealClock()

	if *startFlag == "" {
		slog.Error("-start is required")
		os.Exit(1)
	}
	start, err := time.Parse("2006-01-02", *startFlag)
	if err != nil {
		slog.Error("Invalid -start date", "error", err)
		os.Exit(1)
	}

	end := clock.Now().UTC().AddDate(0, 0, -1)
	if *endFlag != "" {
		end, err = time.Parse("2006-01-02", *endFlag)
		if err != nil {
			slog.Error("Invalid -end date", "error", err)
			os.Exit(1)
		}
	}
	if end.Before(start) {
		slog.Error("-end must not precede -start")
		os.Exit(1)
	}

	var channelIDs []string
	if *channelsFlag != "" {
		channelIDs = strings.Split(*channelsFlag, ",")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	pool, err := postgres.Connect(ctx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	channelRepo := postgres.NewChannelRepository(pool)
	sentimentRepo := postgres.NewSentimentRepository(pool)
	summaryRepo := postgres.NewSummaryRepository(pool)

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

	// No burnout notifier: backfill recreates summaries without re-alerting
	// on historical weeks.
	aggregator := aggregate.NewEngine(channelRepo, sentimentRepo, summaryRepo, nil, aggCfg, clock)

	daily, weekly, err := aggregator.Backfill(context.Background(), start, end, channelIDs)
	if err != nil {
		slog.Error("Backfill failed", "daily_created", daily, "weekly_created", weekly, "error", err)
		os.Exit(1)
	}

	slog.Info("Backfill complete", "start", start.Format("2006-01-02"), "end", end.Format("2006-01-02"), "daily_created", daily, "weekly_created", weekly)
}
