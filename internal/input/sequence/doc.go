// Package sequence matches higher-level input patterns over the
// normalized key event stream.
//
// Three pattern types are supported, represented as a tagged union with
// one evaluation strategy per tag:
//
//   - Chord: an unordered set of keys that must all be pressed at the
//     same time. Edge-triggered: holding a satisfied chord fires once.
//   - Combo: an ordered list of keys that must arrive within a rolling
//     timeout between consecutive keys.
//   - Hold: a single key (optionally with required modifiers) held past
//     a minimum duration, evaluated lazily against the frame clock.
//
// Definitions are validated at registration and immutable afterwards.
// The matcher evaluates definitions in registration order; one raw
// transition can match several independent definitions but at most once
// each. Hold lifecycle changes surface as HoldTransition values that
// the hold progress engine consumes.
package sequence
