package tracker

import (
	"fmt"
	"time"

	"github.com/dshills/normkeys/internal/input/key"
)

// EventType identifies the direction of a key transition.
type EventType uint8

const (
	// EventDown is a key press transition.
	EventDown EventType = iota
	// EventUp is a key release transition.
	EventUp
)

// String returns "down" or "up".
func (t EventType) String() string {
	if t == EventDown {
		return "down"
	}
	return "up"
}

// NormalizedEvent describes one discrete key transition after
// normalization and deduplication. Values are immutable once produced.
type NormalizedEvent struct {
	// Key is the canonical key identifier.
	Key key.Key

	// Side is the physical side of the transition, when known.
	Side key.Side

	// Type is the transition direction.
	Type EventType

	// Time is when the transition occurred.
	Time time.Time

	// Duration is the press duration. Set on up events only.
	Duration time.Duration

	// IsTap is true on up events shorter than the tap/hold threshold.
	IsTap bool

	// IsHold is true on up events at or past the tap/hold threshold.
	IsHold bool

	// Modifiers is the modifier state after this transition.
	Modifiers key.Modifier

	// Synthetic is true for events the tracker fabricated during
	// recovery or stuck-state repair rather than received as input.
	Synthetic bool
}

// String returns a compact representation for logging.
func (e NormalizedEvent) String() string {
	s := fmt.Sprintf("%s %s", e.Key, e.Type)
	if e.Type == EventUp {
		kind := "hold"
		if e.IsTap {
			kind = "tap"
		}
		s += fmt.Sprintf(" %s %v", kind, e.Duration)
	}
	if e.Synthetic {
		s += " (synthetic)"
	}
	return s
}
