package server

import (
	"time"

	"github.com/teampulse/engagement-pulse/internal/domain"
)

type channelResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func toChannelResponse(ch domain.Channel) channelResponse {
	return channelResponse{
		ID:        ch.ID,
		Name:      ch.Name,
		IsActive:  ch.IsActive,
		CreatedAt: ch.CreatedAt,
	}
}

type recordResponse struct {
	ChannelID       string  `json:"channel_id"`
	UserID          string  `json:"user_id"`
	MessageTS       string  `json:"message_ts"`
	BaseScore       float64 `json:"base_score"`
	EmojiBoost      float64 `json:"emoji_boost"`
	KeywordModifier float64 `json:"keyword_modifier"`
	ReactionBoost   float64 `json:"reaction_boost"`
	FinalScore      float64 `json:"final_score"`
	AnalysisDate    string  `json:"analysis_date"`
}

func toRecordResponse(rec *domain.SentimentRecord) recordResponse {
	return recordResponse{
		ChannelID:       rec.ChannelID,
		UserID:          rec.UserID,
		MessageTS:       rec.MessageTS,
		BaseScore:       rec.BaseScore,
		EmojiBoost:      rec.EmojiBoost,
		KeywordModifier: rec.KeywordModifier,
		ReactionBoost:   rec.ReactionBoost,
		FinalScore:      rec.FinalScore,
		AnalysisDate:    rec.AnalysisDate.Format("2006-01-02"),
	}
}

type dailySummaryResponse struct {
	ChannelID        string                `json:"channel_id"`
	Date             string                `json:"date"`
	MessageCount     int                   `json:"message_count"`
	AvgSentiment     float64               `json:"avg_sentiment"`
	PositiveCount    int                   `json:"positive_count"`
	NeutralCount     int                   `json:"neutral_count"`
	NegativeCount    int                   `json:"negative_count"`
	MostActiveUsers  []domain.UserActivity `json:"most_active_users"`
	PeakActivityHour int                   `json:"peak_activity_hour"`
}

func toDailyResponse(s domain.DailySummary) dailySummaryResponse {
	return dailySummaryResponse{
		ChannelID:        s.ChannelID,
		Date:             s.Date.Format("2006-01-02"),
		MessageCount:     s.MessageCount,
		AvgSentiment:     s.AvgSentiment,
		PositiveCount:    s.PositiveCount,
		NeutralCount:     s.NeutralCount,
		NegativeCount:    s.NegativeCount,
		MostActiveUsers:  s.MostActiveUsers,
		PeakActivityHour: s.PeakActivityHour,
	}
}

type weeklySummaryResponse struct {
	ChannelID       string   `json:"channel_id"`
	WeekStart       string   `json:"week_start"`
	WeekEnd         string   `json:"week_end"`
	MessageCount    int      `json:"message_count"`
	AvgSentiment    float64  `json:"avg_sentiment"`
	SentimentTrend  float64  `json:"sentiment_trend"`
	BurnoutFlag     bool     `json:"burnout_flag"`
	EngagementLevel string   `json:"engagement_level"`
	TopTopics       []string `json:"top_topics"`
	ActiveUserCount int      `json:"active_user_count"`
}

func toWeeklyResponse(s domain.WeeklySummary) weeklySummaryResponse {
	return weeklySummaryResponse{
		ChannelID:       s.ChannelID,
		WeekStart:       s.WeekStart.Format("2006-01-02"),
		WeekEnd:         s.WeekEnd.Format("2006-01-02"),
		MessageCount:    s.MessageCount,
		AvgSentiment:    s.AvgSentiment,
		SentimentTrend:  s.SentimentTrend,
		BurnoutFlag:     s.BurnoutFlag,
		EngagementLevel: string(s.EngagementLevel),
		TopTopics:       s.TopTopics,
		ActiveUserCount: s.ActiveUserCount,
	}
}

type trendsResponse struct {
	ChannelID  string                  `json:"channel_id"`
	PeriodDays int                     `json:"period_days"`
	Daily      []dailySummaryResponse  `json:"daily"`
	Weekly     []weeklySummaryResponse `json:"weekly"`
}

func toTrendsResponse(t *domain.ChannelTrends) trendsResponse {
	resp := trendsResponse{
		ChannelID:  t.ChannelID,
		PeriodDays: t.PeriodDays,
		Daily:      make([]dailySummaryResponse, 0, len(t.Daily)),
		Weekly:     make([]weeklySummaryResponse, 0, len(t.Weekly)),
	}
	for _, d := range t.Daily {
		resp.Daily = append(resp.Daily, toDailyResponse(d))
	}
	for _, w := range t.Weekly {
		resp.Weekly = append(resp.Weekly, toWeeklyResponse(w))
	}
	return resp
}

type insightResponse struct {
	ID             string         `json:"id"`
	ChannelID      string         `json:"channel_id"`
	Kind           string         `json:"kind"`
	Title          string         `json:"title"`
	Description    string         `json:"description"`
	Severity       string         `json:"severity"`
	Recommendation string         `json:"recommendation,omitempty"`
	SupportingData map[string]any `json:"supporting_data,omitempty"`
	IsActive       bool           `json:"is_active"`
	AcknowledgedBy string         `json:"acknowledged_by,omitempty"`
	AcknowledgedAt *time.Time     `json:"acknowledged_at,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
}

func toInsightResponse(ins domain.Insight) insightResponse {
	return insightResponse{
		ID:             ins.ID.String(),
		ChannelID:      ins.ChannelID,
		Kind:           string(ins.Kind),
		Title:          ins.Title,
		Description:    ins.Description,
		Severity:       string(ins.Severity),
		Recommendation: ins.Recommendation,
		SupportingData: ins.SupportingData,
		IsActive:       ins.IsActive,
		AcknowledgedBy: ins.AcknowledgedBy,
		AcknowledgedAt: ins.AcknowledgedAt,
		CreatedAt:      ins.CreatedAt,
	}
}
