package server

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/teampulse/engagement-pulse/internal/domain"
)

const (
	defaultTrendDays   = 30
	maxTrendDays       = 365
	defaultInsightList = 50
)

func (s *Server) handleMessageEvent(c echo.Context) error {
	var ev domain.MessageEvent
	if err := c.Bind(&ev); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid message event payload")
	}

	rec, err := s.app.HandleMessage(c.Request().Context(), ev)
	if err != nil {
		return err
	}
	if rec == nil {
		return c.JSON(http.StatusAccepted, map[string]string{"status": "skipped"})
	}

	return c.JSON(http.StatusCreated, toRecordResponse(rec))
}

func (s *Server) handleReactionEvent(c echo.Context) error {
	var ev domain.ReactionEvent
	if err := c.Bind(&ev); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid reaction event payload")
	}
	if !ev.Valid() {
		return echo.NewHTTPError(http.StatusBadRequest, "reaction event requires channel, message_ts, reaction and direction 1 or -1")
	}

	rec, err := s.app.HandleReaction(c.Request().Context(), ev)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toRecordResponse(rec))
}

func (s *Server) handleListChannels(c echo.Context) error {
	channels, err := s.app.ListChannels(c.Request().Context())
	if err != nil {
		return err
	}

	out := make([]channelResponse, 0, len(channels))
	for _, ch := range channels {
		out = append(out, toChannelResponse(ch))
	}

	return c.JSON(http.StatusOK, map[string]any{"channels": out, "count": len(out)})
}

func (s *Server) handleDeactivateChannel(c echo.Context) error {
	if err := s.app.DeactivateChannel(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "deactivated"})
}

type createSummaryRequest struct {
	Date string `json:"date"`
}

func (s *Server) handleCreateDailySummary(c echo.Context) error {
	channelID := c.Param("id")

	date, err := bindSummaryDate(c)
	if err != nil {
		return err
	}

	sum, err := s.app.CreateDailySummary(c.Request().Context(), channelID, date)
	if err != nil {
		return err
	}
	if sum == nil {
		return c.JSON(http.StatusOK, map[string]string{"status": "no data"})
	}

	return c.JSON(http.StatusCreated, toDailyResponse(*sum))
}

func (s *Server) handleCreateWeeklySummary(c echo.Context) error {
	channelID := c.Param("id")

	date, err := bindSummaryDate(c)
	if err != nil {
		return err
	}

	sum, err := s.app.CreateWeeklySummary(c.Request().Context(), channelID, date)
	if err != nil {
		return err
	}
	if sum == nil {
		return c.JSON(http.StatusOK, map[string]string{"status": "no data"})
	}

	return c.JSON(http.StatusCreated, toWeeklyResponse(*sum))
}

func bindSummaryDate(c echo.Context) (time.Time, error) {
	var req createSummaryRequest
	if err := c.Bind(&req); err != nil {
		return time.Time{}, echo.NewHTTPError(http.StatusBadRequest, "invalid summary request payload")
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return time.Time{}, echo.NewHTTPError(http.StatusBadRequest, "date must be formatted YYYY-MM-DD")
	}
	return date, nil
}

func (s *Server) handleTrends(c echo.Context) error {
	channelID := c.Param("id")

	days := defaultTrendDays
	if raw := c.QueryParam("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > maxTrendDays {
			return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("days must be between 1 and %d", maxTrendDays))
		}
		days = parsed
	}

	trends, err := s.app.Trends(c.Request().Context(), channelID, days)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toTrendsResponse(trends))
}

func (s *Server) handleRecommendations(c echo.Context) error {
	report, err := s.app.Recommend(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, report)
}

func (s *Server) handleListInsights(c echo.Context) error {
	filter := domain.InsightFilter{
		ChannelID: c.QueryParam("channel"),
		Limit:     defaultInsightList,
	}

	if raw := c.QueryParam("severity"); raw != "" {
		severity := domain.Severity(raw)
		if severity.Rank() < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "severity must be low, medium, high or critical")
		}
		filter.Severity = severity
	}

	if raw := c.QueryParam("active"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "active must be a boolean")
		}
		filter.ActiveOnly = active
	}

	if raw := c.QueryParam("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be a positive integer")
		}
		filter.Limit = limit
	}

	insights, err := s.app.ListInsights(c.Request().Context(), filter)
	if err != nil {
		return err
	}

	out := make([]insightResponse, 0, len(insights))
	for _, ins := range insights {
		out = append(out, toInsightResponse(ins))
	}

	return c.JSON(http.StatusOK, map[string]any{"insights": out, "count": len(out)})
}

type acknowledgeRequest struct {
	AcknowledgedBy string `json:"acknowledged_by"`
}

func (s *Server) handleAcknowledgeInsight(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "insight id must be a UUID")
	}

	var req acknowledgeRequest
	if err := c.Bind(&req); err != nil || req.AcknowledgedBy == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "acknowledged_by is required")
	}

	if err := s.app.AcknowledgeInsight(c.Request().Context(), id, req.AcknowledgedBy); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "acknowledged"})
}

func (s *Server) handleRunJob(run func(ctx context.Context) (int, error)) echo.HandlerFunc {
	return func(c echo.Context) error {
		processed, err := run(c.Request().Context())
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, map[string]int{"processed": processed})
	}
}
