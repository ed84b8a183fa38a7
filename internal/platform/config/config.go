package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

type Config struct {
	AppEnv      string `env:"APP_ENV" default:"development"`
	Port        string `env:"PORT" default:"8080"`
	DatabaseURL string `env:"DATABASE_URL"`
	RedisURL    string `env:"REDIS_URL"`
	LogLevel    string `env:"LOG_LEVEL" default:"info"`
	LogFormat   string `env:"LOG_FORMAT" default:"text"`

	SentimentNegativeThreshold float64 `env:"SENTIMENT_NEGATIVE_THRESHOLD" default:"-0.1"`
	BurnoutDeltaThreshold      float64 `env:"BURNOUT_DELTA_THRESHOLD" default:"-0.2"`
	WeekStartDay               string  `env:"WEEK_START_DAY" default:"monday"`

	DailyJobInterval    time.Duration `env:"DAILY_JOB_INTERVAL" default:"24h"`
	WeeklyJobInterval   time.Duration `env:"WEEKLY_JOB_INTERVAL" default:"168h"`
	InsightsJobInterval time.Duration `env:"INSIGHTS_JOB_INTERVAL" default:"6h"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func validate(cfg *Config) error {
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if _, err := cfg.WeekStart(); err != nil {
		return err
	}

	if cfg.SentimentNegativeThreshold < -1 || cfg.SentimentNegativeThreshold > 1 {
		return fmt.Errorf("SENTIMENT_NEGATIVE_THRESHOLD must be within [-1, 1]")
	}

	return nil
}

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// WeekStart parses the configured week start day name.
func (c *Config) WeekStart() (time.Weekday, error) {
	day, ok := weekdays[strings.ToLower(c.WeekStartDay)]
	if !ok {
		return 0, fmt.Errorf("WEEK_START_DAY %q is not a weekday name", c.WeekStartDay)
	}
	return day, nil
}
