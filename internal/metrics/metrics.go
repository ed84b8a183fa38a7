package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Pipeline metrics
var (
	// MessagesScored tracks message ingestion outcomes (scored/skipped/duplicate)
	MessagesScored = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pulse_messages_scored_total",
			Help: "Message scoring outcomes by result",
		},
		[]string{"result"},
	)

	// ReactionsApplied tracks successful reaction updates
	ReactionsApplied = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pulse_reactions_applied_total",
			Help: "Reaction updates applied to sentiment records",
		},
	)

	// ReactionFailures tracks reaction updates for unscored messages
	ReactionFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pulse_reaction_failures_total",
			Help: "Reaction updates that found no sentiment record",
		},
	)

	// SummariesCreated tracks summary creation by period (daily/weekly)
	SummariesCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pulse_summaries_created_total",
			Help: "Summaries created by period",
		},
		[]string{"period"},
	)

	// InsightsGenerated tracks generated insights by kind
	InsightsGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pulse_insights_generated_total",
			Help: "Insights generated by kind",
		},
		[]string{"kind"},
	)

	// JobRuns tracks batch job executions by job name and status
	JobRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pulse_job_runs_total",
			Help: "Batch job executions by job and status",
		},
		[]string{"job", "status"},
	)

	// JobDuration tracks batch job latency in seconds
	JobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pulse_job_duration_seconds",
			Help:    "Batch job duration in seconds",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"job"},
	)
)

// Redis metrics
var (
	// RedisOpsTotal tracks Redis operations by operation and status
	RedisOpsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pulse_redis_operations_total",
			Help: "Total Redis operations by operation and status",
		},
		[]string{"operation", "status"},
	)

	// RedisOpDuration tracks Redis operation latency in seconds
	RedisOpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pulse_redis_operation_duration_seconds",
			Help:    "Redis operation duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"operation"},
	)

	// CircuitBreakerState tracks the redis breaker state (0=closed, 1=half-open, 2=open)
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "pulse_circuit_breaker_state",
			Help: "Current circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"component"},
	)
)
