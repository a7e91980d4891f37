package engine

import "sync/atomic"

// metrics counts pipeline activity. All fields are atomic so queries
// never need the engine lock.
type metrics struct {
	rawEvents    atomic.Uint64
	unknownCodes atomic.Uint64
	normalized   atomic.Uint64
	matches      atomic.Uint64
	ticks        atomic.Uint64
	recoveries   atomic.Uint64
}

// MetricsSnapshot is a point-in-time copy of the engine counters.
type MetricsSnapshot struct {
	// RawEvents counts ingress down/up calls.
	RawEvents uint64

	// UnknownCodes counts raw codes the normalizer rejected.
	UnknownCodes uint64

	// NormalizedEvents counts emitted normalized transitions,
	// synthetic repairs included.
	NormalizedEvents uint64

	// Matches counts sequence matches across all pattern types.
	Matches uint64

	// Ticks counts frame clock calls.
	Ticks uint64

	// Recoveries counts forced state recoveries.
	Recoveries uint64
}

// Metrics returns a snapshot of the engine counters.
func (e *Engine) Metrics() MetricsSnapshot {
	return MetricsSnapshot{
		RawEvents:        e.metrics.rawEvents.Load(),
		UnknownCodes:     e.metrics.unknownCodes.Load(),
		NormalizedEvents: e.metrics.normalized.Load(),
		Matches:          e.metrics.matches.Load(),
		Ticks:            e.metrics.ticks.Load(),
		Recoveries:       e.metrics.recoveries.Load(),
	}
}
