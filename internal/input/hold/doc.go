// Package hold derives per-frame animation state for charging hold
// patterns.
//
// The engine consumes hold lifecycle transitions from the sequence
// matcher and answers point-in-time snapshot queries against the frame
// clock. Nothing here owns a timer: progress, animation coefficients,
// and transition flags are pure recomputations from the activation
// start time and the caller's tick timestamp, so tests drive the
// engine with synthetic clocks.
//
// Per hold id the engine keeps a bounded history ring of lifecycle
// entries for diagnostics, surviving the activation that produced
// them.
package hold
