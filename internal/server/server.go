// Package server exposes the HTTP API: event ingestion, trend and
// recommendation reads, insight management and manual job triggers.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/teampulse/engagement-pulse/internal/domain"
	"github.com/teampulse/engagement-pulse/internal/platform/config"
)

type appService interface {
	HandleMessage(ctx context.Context, ev domain.MessageEvent) (*domain.SentimentRecord, error)
	HandleReaction(ctx context.Context, ev domain.ReactionEvent) (*domain.SentimentRecord, error)
	ListChannels(ctx context.Context) ([]domain.Channel, error)
	DeactivateChannel(ctx context.Context, id string) error
	CreateDailySummary(ctx context.Context, channelID string, date time.Time) (*domain.DailySummary, error)
	CreateWeeklySummary(ctx context.Context, channelID string, weekStart time.Time) (*domain.WeeklySummary, error)
	Trends(ctx context.Context, channelID string, days int) (*domain.ChannelTrends, error)
	Recommend(ctx context.Context, channelID string) (*domain.RecommendationReport, error)
	ListInsights(ctx context.Context, filter domain.InsightFilter) ([]domain.Insight, error)
	AcknowledgeInsight(ctx context.Context, id uuid.UUID, actor string) error
	RunDailyJob(ctx context.Context) (int, error)
	RunWeeklyJob(ctx context.Context) (int, error)
	RunInsightsJob(ctx context.Context) (int, error)
}

// HealthCheck is a named health check function.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

type Server struct {
	echo   *echo.Echo
	config *config.Config

	app          appService
	healthChecks []HealthCheck
	startTime    time.Time
}

func NewServer(cfg *config.Config, app appService, healthChecks []HealthCheck) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	srv := &Server{
		echo:         e,
		config:       cfg,
		app:          app,
		healthChecks: healthChecks,
		startTime:    time.Now(),
	}

	srv.registerRoutes()

	return srv
}

func (s *Server) Start() error {
	slog.Info("Starting server", "port", s.config.Port)
	if err := s.echo.Start(":" + s.config.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	return nil
}
