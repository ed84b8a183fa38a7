package insight

import (
	"context"
	"fmt"
	"time"

	"github.com/teampulse/engagement-pulse/internal/domain"
)

// Recommend derives a prioritised recommendation list from the channel's
// single most recent weekly summary, however old. Read-only; nothing is
// persisted. The report priority is the highest urgency across triggered
// rules, defaulting to low.
func (e *Engine) Recommend(ctx context.Context, channelID string) (*domain.RecommendationReport, error) {
	recent, err := e.summaries.ListRecentWeekly(ctx, channelID, time.Time{}, 1)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch latest weekly summary: %w", err)
	}
	if len(recent) == 0 {
		return nil, domain.ErrSummaryNotFound
	}
	latest := recent[0]

	report := &domain.RecommendationReport{
		ChannelID: channelID,
		CurrentState: domain.WeeklyState{
			EngagementLevel: latest.EngagementLevel,
			AvgSentiment:    latest.AvgSentiment,
			BurnoutFlag:     latest.BurnoutFlag,
			ActiveUsers:     latest.ActiveUserCount,
		},
		Priority:    domain.SeverityLow,
		GeneratedAt: e.clock.Now().UTC(),
	}

	add := func(r domain.Recommendation) {
		report.Recommendations = append(report.Recommendations, r)
		report.Priority = domain.MaxSeverity(report.Priority, r.Urgency)
	}

	if latest.BurnoutFlag {
		add(domain.Recommendation{
			Type:        "immediate_action",
			Title:       "Address Burnout Risk",
			Description: "Schedule urgent team meeting to discuss workload and stress levels",
			Urgency:     domain.SeverityHigh,
		})
	}
	if latest.AvgSentiment < -0.1 {
		add(domain.Recommendation{
			Type:        "sentiment_improvement",
			Title:       "Improve Team Sentiment",
			Description: "Consider team building activities or recognition programs",
			Urgency:     domain.SeverityMedium,
		})
	}
	if latest.ActiveUserCount < lowParticipationMax {
		add(domain.Recommendation{
			Type:        "engagement_boost",
			Title:       "Increase Participation",
			Description: "Encourage more team members to actively participate in discussions",
			Urgency:     domain.SeverityMedium,
		})
	}
	if latest.EngagementLevel == domain.EngagementHigh {
		add(domain.Recommendation{
			Type:        "maintain_momentum",
			Title:       "Maintain High Engagement",
			Description: "Document current successful practices and continue them",
			Urgency:     domain.SeverityLow,
		})
	}

	return report, nil
}
