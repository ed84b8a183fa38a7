package app

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/teampulse/engagement-pulse/internal/metrics"
	"github.com/teampulse/engagement-pulse/internal/platform/correlation"
)

// Job is one periodic background task. Run returns how many channels it
// processed.
type Job struct {
	Name  string
	Every time.Duration
	Run   func(ctx context.Context) (int, error)
}

// Jobs returns the scheduled job set with the given cadences.
func (s *Service) Jobs(daily, weekly, insights time.Duration) []Job {
	return []Job{
		{Name: "daily_summary", Every: daily, Run: s.RunDailyJob},
		{Name: "weekly_summary", Every: weekly, Run: s.RunWeeklyJob},
		{Name: "insights", Every: insights, Run: s.RunInsightsJob},
	}
}

// Runner drives the periodic jobs. Each job runs on its own ticker; a slow
// run delays only its own next tick, never the other jobs.
type Runner struct {
	jobs  []Job
	clock clockwork.Clock
	wg    sync.WaitGroup
}

func NewRunner(jobs []Job, clock clockwork.Clock) *Runner {
	return &Runner{jobs: jobs, clock: clock}
}

// Start launches one goroutine per job. It returns immediately; use Wait
// after cancelling ctx to drain in-flight runs.
func (r *Runner) Start(ctx context.Context) {
	for _, job := range r.jobs {
		r.wg.Add(1)
		go func(job Job) {
			defer r.wg.Done()
			r.loop(ctx, job)
		}(job)
	}
}

// Wait blocks until all job loops have exited.
func (r *Runner) Wait() {
	r.wg.Wait()
}

func (r *Runner) loop(ctx context.Context, job Job) {
	ticker := r.clock.NewTicker(job.Every)
	defer ticker.Stop()

	slog.Info("job scheduled", "job", job.Name, "every", job.Every)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			r.runOnce(ctx, job)
		}
	}
}

func (r *Runner) runOnce(ctx context.Context, job Job) {
	runCtx := correlation.WithID(ctx, correlation.NewID())
	start := r.clock.Now()

	processed, err := job.Run(runCtx)
	duration := r.clock.Since(start)
	metrics.JobDuration.WithLabelValues(job.Name).Observe(duration.Seconds())

	if err != nil {
		metrics.JobRuns.WithLabelValues(job.Name, "error").Inc()
		slog.ErrorContext(runCtx, "job failed", "job", job.Name, "duration", duration, "error", err)
		return
	}

	metrics.JobRuns.WithLabelValues(job.Name, "success").Inc()
	slog.InfoContext(runCtx, "job finished", "job", job.Name, "processed", processed, "duration", duration)
}
