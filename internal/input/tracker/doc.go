// Package tracker maintains the canonical pressed-key and modifier state.
//
// The tracker consumes normalized down/up transitions and produces
// NormalizedEvent values: exactly one down event per physical press and
// one up event per release, with the press duration classified as tap or
// hold. It absorbs the unreliable parts of raw keyboard streams:
//
//   - key-repeat storms (duplicate downs are idempotent)
//   - orphan key-ups (a zero-duration record is synthesized)
//   - stuck modifiers (tracked state is reconciled against the raw
//     modifier snapshot carried by each transition)
//   - focus loss (Recover force-releases everything)
//   - Windows phantom Shift transitions around numpad activity
//
// All timing math uses caller-supplied timestamps. The tracker never
// reads the wall clock and never fails on malformed input; it always
// degrades to a consistent state.
package tracker
