// Package insight derives deduplicated, severity-ranked alerts from weekly
// summary sequences. Each rule check is independent; one invocation runs the
// whole battery and unions the results. The statistics are deliberately
// simple and auditable: rolling averages, an ordinary least-squares slope,
// population standard deviation and consecutive-window counting.
package insight
