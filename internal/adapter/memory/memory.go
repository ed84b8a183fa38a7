// Package memory provides map-backed implementations of the domain
// repositories for unit tests and single-instance mode.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/teampulse/engagement-pulse/internal/domain"
)

// Store holds all collections behind one mutex. The typed repository views
// returned by Channels/Records/Summaries/Insights satisfy the corresponding
// domain interfaces. Safe for concurrent use.
type Store struct {
	clock clockwork.Clock

	mu           sync.Mutex
	channels     map[string]*domain.Channel
	channelOrder []string
	records      map[string]*domain.SentimentRecord
	recordOrder  []string
	dailies      map[string]*domain.DailySummary
	weeklies     map[string]*domain.WeeklySummary
	insights     []*domain.Insight
	insightsByID map[uuid.UUID]*domain.Insight
}

func NewStore(clock clockwork.Clock) *Store {
	return &Store{
		clock:        clock,
		channels:     make(map[string]*domain.Channel),
		records:      make(map[string]*domain.SentimentRecord),
		dailies:      make(map[string]*domain.DailySummary),
		weeklies:     make(map[string]*domain.WeeklySummary),
		insightsByID: make(map[uuid.UUID]*domain.Insight),
	}
}

func (s *Store) Channels() domain.ChannelRepository  { return channelRepo{s} }
func (s *Store) Records() domain.SentimentRepository { return sentimentRepo{s} }
func (s *Store) Summaries() domain.SummaryRepository { return summaryRepo{s} }
func (s *Store) Insights() domain.InsightRepository  { return insightRepo{s} }

func recordKey(channelID, messageTS string) string { return channelID + "|" + messageTS }

func dateKey(channelID string, date time.Time) string {
	return channelID + "|" + date.UTC().Format("2006-01-02")
}

func day(t time.Time) time.Time { return t.UTC().Truncate(24 * time.Hour) }

// --- domain.ChannelRepository ---

type channelRepo struct{ s *Store }

func (r channelRepo) Upsert(_ context.Context, id, name string) (*domain.Channel, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if ch, ok := r.s.channels[id]; ok {
		cp := *ch
		return &cp, nil
	}

	now := r.s.clock.Now().UTC()
	ch := &domain.Channel{ID: id, Name: name, IsActive: true, CreatedAt: now, UpdatedAt: now}
	r.s.channels[id] = ch
	r.s.channelOrder = append(r.s.channelOrder, id)
	cp := *ch
	return &cp, nil
}

func (r channelRepo) GetByID(_ context.Context, id string) (*domain.Channel, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	ch, ok := r.s.channels[id]
	if !ok {
		return nil, domain.ErrChannelNotFound
	}
	cp := *ch
	return &cp, nil
}

func (r channelRepo) ListActive(_ context.Context) ([]domain.Channel, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []domain.Channel
	for _, id := range r.s.channelOrder {
		if ch := r.s.channels[id]; ch.IsActive {
			out = append(out, *ch)
		}
	}
	return out, nil
}

func (r channelRepo) Deactivate(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	ch, ok := r.s.channels[id]
	if !ok {
		return domain.ErrChannelNotFound
	}
	ch.IsActive = false
	ch.UpdatedAt = r.s.clock.Now().UTC()
	return nil
}

// --- domain.SentimentRepository ---

type sentimentRepo struct{ s *Store }

func (r sentimentRepo) Insert(_ context.Context, rec *domain.SentimentRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	key := recordKey(rec.ChannelID, rec.MessageTS)
	if _, ok := r.s.records[key]; ok {
		return domain.ErrRecordExists
	}
	cp := *rec
	r.s.records[key] = &cp
	r.s.recordOrder = append(r.s.recordOrder, key)
	return nil
}

func (r sentimentRepo) Get(_ context.Context, channelID, messageTS string) (*domain.SentimentRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rec, ok := r.s.records[recordKey(channelID, messageTS)]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}
	cp := *rec
	return &cp, nil
}

func (r sentimentRepo) UpdateReaction(_ context.Context, channelID, messageTS string, reactionBoost, finalScore float64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rec, ok := r.s.records[recordKey(channelID, messageTS)]
	if !ok {
		return domain.ErrRecordNotFound
	}
	rec.ReactionBoost = reactionBoost
	rec.FinalScore = finalScore
	return nil
}

func (r sentimentRepo) ListByDate(ctx context.Context, channelID string, d time.Time) ([]domain.SentimentRecord, error) {
	return r.ListByRange(ctx, channelID, d, d)
}

func (r sentimentRepo) ListByRange(_ context.Context, channelID string, start, end time.Time) ([]domain.SentimentRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	start, end = day(start), day(end)

	var out []domain.SentimentRecord
	for _, key := range r.s.recordOrder {
		rec := r.s.records[key]
		if rec.ChannelID != channelID {
			continue
		}
		d := day(rec.AnalysisDate)
		if d.Before(start) || d.After(end) {
			continue
		}
		out = append(out, *rec)
	}
	return out, nil
}

// --- domain.SummaryRepository ---

type summaryRepo struct{ s *Store }

func (r summaryRepo) InsertDaily(_ context.Context, sum *domain.DailySummary) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	key := dateKey(sum.ChannelID, sum.Date)
	if _, ok := r.s.dailies[key]; ok {
		return domain.ErrSummaryExists
	}
	cp := *sum
	r.s.dailies[key] = &cp
	return nil
}

func (r summaryRepo) GetDaily(_ context.Context, channelID string, date time.Time) (*domain.DailySummary, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	sum, ok := r.s.dailies[dateKey(channelID, date)]
	if !ok {
		return nil, domain.ErrSummaryNotFound
	}
	cp := *sum
	return &cp, nil
}

func (r summaryRepo) ListDailyRange(_ context.Context, channelID string, start, end time.Time) ([]domain.DailySummary, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []domain.DailySummary
	for _, sum := range r.s.dailies {
		if sum.ChannelID != channelID || sum.Date.Before(start) || sum.Date.After(end) {
			continue
		}
		out = append(out, *sum)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (r summaryRepo) InsertWeekly(_ context.Context, sum *domain.WeeklySummary) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	key := dateKey(sum.ChannelID, sum.WeekStart)
	if _, ok := r.s.weeklies[key]; ok {
		return domain.ErrSummaryExists
	}
	cp := *sum
	r.s.weeklies[key] = &cp
	return nil
}

func (r summaryRepo) GetWeekly(_ context.Context, channelID string, weekStart time.Time) (*domain.WeeklySummary, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	sum, ok := r.s.weeklies[dateKey(channelID, weekStart)]
	if !ok {
		return nil, domain.ErrSummaryNotFound
	}
	cp := *sum
	return &cp, nil
}

func (r summaryRepo) ListWeeklyRange(_ context.Context, channelID string, start, end time.Time) ([]domain.WeeklySummary, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []domain.WeeklySummary
	for _, sum := range r.s.weeklies {
		if sum.ChannelID != channelID || sum.WeekStart.Before(start) || sum.WeekStart.After(end) {
			continue
		}
		out = append(out, *sum)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].WeekStart.Before(out[j].WeekStart) })
	return out, nil
}

func (r summaryRepo) ListRecentWeekly(_ context.Context, channelID string, since time.Time, limit int) ([]domain.WeeklySummary, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []domain.WeeklySummary
	for _, sum := range r.s.weeklies {
		if sum.ChannelID == channelID && !sum.WeekStart.Before(since) {
			out = append(out, *sum)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].WeekStart.After(out[j].WeekStart) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// --- domain.InsightRepository ---

type insightRepo struct{ s *Store }

func (r insightRepo) Insert(_ context.Context, ins *domain.Insight) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cp := *ins
	r.s.insights = append(r.s.insights, &cp)
	r.s.insightsByID[cp.ID] = &cp
	return nil
}

func (r insightRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Insight, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	ins, ok := r.s.insightsByID[id]
	if !ok {
		return nil, domain.ErrInsightNotFound
	}
	cp := *ins
	return &cp, nil
}

func (r insightRepo) List(_ context.Context, filter domain.InsightFilter) ([]domain.Insight, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []domain.Insight
	for i := len(r.s.insights) - 1; i >= 0; i-- {
		ins := r.s.insights[i]
		if filter.ChannelID != "" && ins.ChannelID != filter.ChannelID {
			continue
		}
		if filter.Severity != "" && ins.Severity != filter.Severity {
			continue
		}
		if filter.ActiveOnly && !ins.IsActive {
			continue
		}
		out = append(out, *ins)
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return out, nil
}

func (r insightRepo) HasRecentActive(_ context.Context, channelID string, kind domain.InsightKind, since time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, ins := range r.s.insights {
		if ins.ChannelID == channelID && ins.Kind == kind && ins.IsActive && !ins.CreatedAt.Before(since) {
			return true, nil
		}
	}
	return false, nil
}

func (r insightRepo) Acknowledge(_ context.Context, id uuid.UUID, actor string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	ins, ok := r.s.insightsByID[id]
	if !ok {
		return domain.ErrInsightNotFound
	}
	ins.AcknowledgedBy = actor
	ins.AcknowledgedAt = &at
	ins.IsActive = false
	return nil
}
