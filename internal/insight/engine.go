package insight

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/teampulse/engagement-pulse/internal/domain"
	"github.com/teampulse/engagement-pulse/internal/metrics"
)

const (
	// recentWeeklyLimit bounds how many weekly summaries a battery run
	// fetches; no check looks further back than 4 weeks.
	recentWeeklyLimit = 6

	// batteryWindow bounds how old a weekly summary may be and still feed
	// the rule battery. Without it a dormant channel's last summaries would
	// re-trigger the same insights on every periodic run.
	batteryWindow = 30 * 24 * time.Hour

	// dedupWindow is the lookback used to suppress re-emitting a burnout
	// alert for the same channel.
	dedupWindow = 7 * 24 * time.Hour

	negativeWeekCutoff   = -0.1
	volatilityThreshold  = 0.3
	slopeDeclineCutoff   = -0.5
	slopeGrowthCutoff    = 0.5
	spikeMeanMin         = 0.3
	spikeImprovementMin  = 0.2
	highParticipationMin = 10
	lowParticipationMax  = 5
)

// DedupMarker is an optional fast path in front of the authoritative store
// query for recently-emitted insight kinds.
type DedupMarker interface {
	SeenRecently(ctx context.Context, channelID string, kind domain.InsightKind) (bool, error)
	Mark(ctx context.Context, channelID string, kind domain.InsightKind) error
}

// Engine runs the insight rule battery and owns the insight lifecycle.
type Engine struct {
	channels  domain.ChannelRepository
	summaries domain.SummaryRepository
	insights  domain.InsightRepository
	dedup     DedupMarker // may be nil
	clock     clockwork.Clock
}

func NewEngine(channels domain.ChannelRepository, summaries domain.SummaryRepository, insights domain.InsightRepository, dedup DedupMarker, clock clockwork.Clock) *Engine {
	return &Engine{
		channels:  channels,
		summaries: summaries,
		insights:  insights,
		dedup:     dedup,
		clock:     clock,
	}
}

// GenerateForChannel runs every rule check against the channel's weekly
// summaries from the trailing 30 days (newest first) and persists the union
// of their outputs. Channels with no summaries in the window produce nothing.
func (e *Engine) GenerateForChannel(ctx context.Context, channelID string) ([]domain.Insight, error) {
	since := e.clock.Now().UTC().Add(-batteryWindow)
	weeks, err := e.summaries.ListRecentWeekly(ctx, channelID, since, recentWeeklyLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch weekly summaries: %w", err)
	}
	if len(weeks) == 0 {
		slog.DebugContext(ctx, "no weekly summaries for insight generation", "channel", channelID)
		return nil, nil
	}

	var found []domain.Insight
	found = append(found, e.checkBurnoutPattern(channelID, weeks)...)
	found = append(found, e.checkEngagementSpike(channelID, weeks)...)
	found = append(found, e.checkParticipationTrend(channelID, weeks)...)
	found = append(found, e.checkSentimentVolatility(channelID, weeks)...)

	for i := range found {
		if err := e.insights.Insert(ctx, &found[i]); err != nil {
			return found[:i], fmt.Errorf("failed to insert %s insight: %w", found[i].Kind, err)
		}
		metrics.InsightsGenerated.WithLabelValues(string(found[i].Kind)).Inc()
	}

	if len(found) > 0 {
		slog.InfoContext(ctx, "insights generated", "channel", channelID, "count", len(found))
	}
	return found, nil
}

// RunJob runs the full battery across all active channels. A failure on one
// channel is logged and does not stop the rest.
func (e *Engine) RunJob(ctx context.Context) (int, error) {
	channels, err := e.channels.ListActive(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list active channels: %w", err)
	}

	total := 0
	for _, ch := range channels {
		found, err := e.GenerateForChannel(ctx, ch.ID)
		if err != nil {
			slog.ErrorContext(ctx, "insight generation failed for channel", "channel", ch.ID, "error", err)
			continue
		}
		total += len(found)
	}

	slog.InfoContext(ctx, "insight generation completed", "insights", total, "channels", len(channels))
	return total, nil
}

// OnBurnoutWeek satisfies the aggregation engine's notifier hook: a flagged
// weekly summary immediately feeds the burnout-alert generator.
func (e *Engine) OnBurnoutWeek(ctx context.Context, summary *domain.WeeklySummary) {
	if err := e.GenerateBurnoutAlert(ctx, summary); err != nil {
		slog.ErrorContext(ctx, "burnout alert generation failed", "channel", summary.ChannelID, "error", err)
	}
}

// GenerateBurnoutAlert emits a burnout alert for a flagged week unless an
// active alert for the channel was already created within the dedup window.
func (e *Engine) GenerateBurnoutAlert(ctx context.Context, summary *domain.WeeklySummary) error {
	now := e.clock.Now().UTC()

	if e.dedup != nil {
		seen, err := e.dedup.SeenRecently(ctx, summary.ChannelID, domain.KindBurnoutAlert)
		if err != nil {
			slog.WarnContext(ctx, "dedup marker check failed, falling back to store", "channel", summary.ChannelID, "error", err)
		} else if seen {
			return nil
		}
	}

	recent, err := e.insights.HasRecentActive(ctx, summary.ChannelID, domain.KindBurnoutAlert, now.Add(-dedupWindow))
	if err != nil {
		return fmt.Errorf("failed to check recent burnout alerts: %w", err)
	}
	if recent {
		slog.InfoContext(ctx, "recent burnout alert already active, skipping", "channel", summary.ChannelID)
		return nil
	}

	mean, trend := summary.AvgSentiment, summary.SentimentTrend

	var severity domain.Severity
	var title string
	switch {
	case mean <= -0.3 || trend <= -0.3:
		severity = domain.SeverityCritical
		title = "Critical Team Burnout Detected"
	case mean <= -0.2 || trend <= -0.25:
		severity = domain.SeverityHigh
		title = "High Risk of Team Burnout"
	default:
		severity = domain.SeverityMedium
		title = "Team Sentiment Declining"
	}

	var actions []string
	if mean <= -0.2 {
		actions = append(actions, "Schedule a team check-in to discuss workload and stress levels")
	}
	if trend <= -0.25 {
		actions = append(actions, "Investigate recent changes that may have impacted team morale")
	}
	if summary.ActiveUserCount < lowParticipationMax {
		actions = append(actions, "Low participation detected - consider improving team engagement")
	}
	recommendation := "Monitor closely and consider team intervention"
	if len(actions) > 0 {
		recommendation = strings.Join(actions, ". ")
	}

	ins := e.newInsight(summary.ChannelID, domain.KindBurnoutAlert, severity, title,
		fmt.Sprintf("Team sentiment in this channel has declined significantly. Current average sentiment: %.2f, trend over past week: %+.2f. Engagement level: %s.",
			mean, trend, summary.EngagementLevel),
		recommendation,
		map[string]any{
			"avg_sentiment":     mean,
			"sentiment_trend":   trend,
			"message_count":     summary.MessageCount,
			"active_user_count": summary.ActiveUserCount,
			"week_start":        summary.WeekStart.Format("2006-01-02"),
			"week_end":          summary.WeekEnd.Format("2006-01-02"),
		})

	if err := e.insights.Insert(ctx, &ins); err != nil {
		return fmt.Errorf("failed to insert burnout alert: %w", err)
	}
	metrics.InsightsGenerated.WithLabelValues(string(domain.KindBurnoutAlert)).Inc()

	if e.dedup != nil {
		if err := e.dedup.Mark(ctx, summary.ChannelID, domain.KindBurnoutAlert); err != nil {
			slog.WarnContext(ctx, "dedup marker update failed", "channel", summary.ChannelID, "error", err)
		}
	}

	slog.InfoContext(ctx, "burnout alert generated", "channel", summary.ChannelID, "severity", severity)
	return nil
}

// Acknowledge records the acknowledger and deactivates the insight. Fails
// with ErrInsightNotFound for unknown IDs; acknowledging an already-inactive
// insight is harmless and still reports success.
func (e *Engine) Acknowledge(ctx context.Context, id uuid.UUID, actor string) error {
	if err := e.insights.Acknowledge(ctx, id, actor, e.clock.Now().UTC()); err != nil {
		return err
	}
	slog.InfoContext(ctx, "insight acknowledged", "insight", id.String(), "actor", actor)
	return nil
}

// List returns stored insights matching the filter, newest first.
func (e *Engine) List(ctx context.Context, filter domain.InsightFilter) ([]domain.Insight, error) {
	return e.insights.List(ctx, filter)
}

func (e *Engine) checkBurnoutPattern(channelID string, weeks []domain.WeeklySummary) []domain.Insight {
	if len(weeks) < 2 {
		return nil
	}

	recent := weeks
	if len(recent) > 3 {
		recent = recent[:3]
	}

	var out []domain.Insight

	negative := 0
	var sum float64
	for _, w := range recent {
		if w.AvgSentiment < negativeWeekCutoff {
			negative++
		}
		sum += w.AvgSentiment
	}

	if negative >= 2 {
		severity := domain.SeverityHigh
		if negative == 3 {
			severity = domain.SeverityCritical
		}
		trendValues := make([]float64, len(recent))
		for i, w := range recent {
			trendValues[i] = w.AvgSentiment
		}
		out = append(out, e.newInsight(channelID, domain.KindBurnoutPattern, severity,
			"Sustained Negative Sentiment Detected",
			fmt.Sprintf("Team sentiment has been negative for %d consecutive weeks. Average sentiment over this period: %.2f",
				negative, sum/float64(len(recent))),
			"Schedule immediate team check-in. Consider workload redistribution and stress management support.",
			map[string]any{
				"weeks_analyzed":      len(recent),
				"negative_weeks":      negative,
				"avg_sentiment_trend": trendValues,
			}))
	}

	// Independent second signal from the same window: a sharp drop in
	// active posters.
	drop := recent[0].ActiveUserCount - recent[len(recent)-1].ActiveUserCount
	if drop < -2 {
		out = append(out, e.newInsight(channelID, domain.KindParticipationDecline, domain.SeverityMedium,
			"Team Participation Declining",
			fmt.Sprintf("Active user participation has dropped by %d users over recent weeks.", -drop),
			"Investigate barriers to participation. Consider team engagement activities.",
			map[string]any{
				"participation_change":  drop,
				"current_active_users":  recent[0].ActiveUserCount,
				"previous_active_users": recent[len(recent)-1].ActiveUserCount,
			}))
	}

	return out
}

func (e *Engine) checkEngagementSpike(channelID string, weeks []domain.WeeklySummary) []domain.Insight {
	if len(weeks) < 2 {
		return nil
	}

	recent, previous := weeks[0], weeks[1]
	var out []domain.Insight

	improvement := recent.AvgSentiment - previous.AvgSentiment
	if recent.AvgSentiment >= spikeMeanMin && improvement > spikeImprovementMin {
		out = append(out, e.newInsight(channelID, domain.KindEngagementSpike, domain.SeverityLow,
			"Exceptional Team Morale Boost",
			fmt.Sprintf("Team sentiment has improved significantly by %+.2f points this week! Current sentiment: %.2f",
				improvement, recent.AvgSentiment),
			"Identify and document what contributed to this positive change to replicate success.",
			map[string]any{
				"sentiment_improvement": improvement,
				"current_sentiment":     recent.AvgSentiment,
				"previous_sentiment":    previous.AvgSentiment,
			}))
	}

	if recent.ActiveUserCount > highParticipationMin {
		window := weeks
		if len(window) > 4 {
			window = window[:4]
		}
		counts := make([]float64, len(window))
		for i, w := range window {
			counts[i] = float64(w.ActiveUserCount)
		}
		avg := mean(counts)

		if avg > 0 && float64(recent.ActiveUserCount) > avg*1.3 {
			out = append(out, e.newInsight(channelID, domain.KindHighParticipation, domain.SeverityLow,
				"Exceptional Team Participation",
				fmt.Sprintf("Team participation reached %d active users this week, %.0f%% above average.",
					recent.ActiveUserCount, (float64(recent.ActiveUserCount)/avg-1)*100),
				"Celebrate this engagement! Consider what factors contributed to high participation.",
				map[string]any{
					"current_participation": recent.ActiveUserCount,
					"average_participation": avg,
				}))
		}
	}

	return out
}

func (e *Engine) checkParticipationTrend(channelID string, weeks []domain.WeeklySummary) []domain.Insight {
	if len(weeks) < 3 {
		return nil
	}

	window := weeks
	if len(window) > 4 {
		window = window[:4]
	}

	// Summaries arrive newest first; reverse before fitting so the slope
	// sign tracks calendar time.
	counts := make([]float64, len(window))
	for i, w := range window {
		counts[len(window)-1-i] = float64(w.ActiveUserCount)
	}
	slope := olsSlope(counts)

	data := map[string]any{
		"trend_slope":           slope,
		"participation_history": counts,
		"weeks_analyzed":        len(counts),
	}

	switch {
	case slope < slopeDeclineCutoff:
		return []domain.Insight{e.newInsight(channelID, domain.KindParticipationTrend, domain.SeverityMedium,
			"Declining Participation Trend",
			fmt.Sprintf("Team participation has been steadily declining over the past %d weeks.", len(counts)),
			"Investigate causes of reduced participation. Consider team surveys or one-on-ones.",
			data)}
	case slope > slopeGrowthCutoff:
		return []domain.Insight{e.newInsight(channelID, domain.KindParticipationGrowth, domain.SeverityLow,
			"Growing Team Participation",
			fmt.Sprintf("Team participation has been steadily increasing over the past %d weeks.", len(counts)),
			"Continue current engagement strategies. Document successful practices.",
			data)}
	default:
		return nil
	}
}

func (e *Engine) checkSentimentVolatility(channelID string, weeks []domain.WeeklySummary) []domain.Insight {
	if len(weeks) < 4 {
		return nil
	}

	means := make([]float64, 4)
	for i, w := range weeks[:4] {
		means[i] = w.AvgSentiment
	}
	sd := stddev(means)
	if sd <= volatilityThreshold {
		return nil
	}

	return []domain.Insight{e.newInsight(channelID, domain.KindSentimentVolatility, domain.SeverityMedium,
		"High Sentiment Volatility Detected",
		fmt.Sprintf("Team sentiment has been highly variable over recent weeks (std dev: %.2f). This may indicate instability or rapid changes in team dynamics.", sd),
		"Investigate causes of sentiment swings. Consider more frequent team check-ins.",
		map[string]any{
			"volatility_score":     sd,
			"mean_sentiment":       mean(means),
			"sentiment_history":    means,
			"volatility_threshold": volatilityThreshold,
		})}
}

func (e *Engine) newInsight(channelID string, kind domain.InsightKind, severity domain.Severity, title, description, recommendation string, data map[string]any) domain.Insight {
	return domain.Insight{
		ID:             uuid.New(),
		ChannelID:      channelID,
		Kind:           kind,
		Title:          title,
		Description:    description,
		Severity:       severity,
		Recommendation: recommendation,
		SupportingData: data,
		IsActive:       true,
		CreatedAt:      e.clock.Now().UTC(),
	}
}
