package engine

import (
	"time"

	"github.com/dshills/normkeys/internal/input/hold"
	"github.com/dshills/normkeys/internal/input/sequence"
	"github.com/dshills/normkeys/internal/input/tracker"
)

// Option configures an Engine during creation.
type Option func(*config)

// config collects creation-time settings before the sub-components
// are built.
type config struct {
	trackerOpts []tracker.Option
	matcherOpts []sequence.MatcherOption
	holdOpts    []hold.Option
	logger      Logger
}

// WithTapHoldThreshold sets the tap/hold classification threshold.
func WithTapHoldThreshold(d time.Duration) Option {
	return func(c *config) {
		c.trackerOpts = append(c.trackerOpts, tracker.WithTapHoldThreshold(d))
	}
}

// WithPhantomWindow sets the phantom Shift suppression window.
func WithPhantomWindow(d time.Duration) Option {
	return func(c *config) {
		c.trackerOpts = append(c.trackerOpts, tracker.WithPhantomWindow(d))
	}
}

// WithMatchHistorySize bounds the retained sequence match history.
func WithMatchHistorySize(n int) Option {
	return func(c *config) {
		c.matcherOpts = append(c.matcherOpts, sequence.WithHistorySize(n))
	}
}

// WithHoldHistorySize bounds the per-hold lifecycle history ring.
func WithHoldHistorySize(n int) Option {
	return func(c *config) {
		c.holdOpts = append(c.holdOpts, hold.WithHistorySize(n))
	}
}

// WithTransitionWindow sets the observation window for hold transition
// flags.
func WithTransitionWindow(d time.Duration) Option {
	return func(c *config) {
		c.holdOpts = append(c.holdOpts, hold.WithTransitionWindow(d))
	}
}

// WithLogger sets the engine logger. Logging is off by default.
func WithLogger(l Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}
