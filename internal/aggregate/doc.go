// Package aggregate rolls per-message sentiment records into immutable daily
// and weekly per-channel summaries, computing trend against the prior week,
// engagement level and the burnout flag. Summary creation is idempotent per
// (channel, period): re-invocation returns the existing summary unchanged.
package aggregate
