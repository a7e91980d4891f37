package hold

import (
	"math"
	"time"

	"github.com/dshills/normkeys/internal/input/sequence"
)

// Default configuration values.
const (
	// DefaultTransitionWindow is how long the just-started,
	// just-completed, and just-cancelled flags stay observable after
	// the corresponding lifecycle event.
	DefaultTransitionWindow = 100 * time.Millisecond

	// DefaultHistorySize bounds the per-hold lifecycle history ring.
	DefaultHistorySize = 32
)

// Animation coefficient bounds. All are pure functions of progress.
const (
	scaleMin   = 1.0
	scaleMax   = 1.3
	opacityMin = 0.3
	opacityMax = 1.0

	// glowCutoff is the progress fraction above which the glow ramps
	// from 0 to 1.
	glowCutoff = 0.9

	// shakePeriod is the oscillation period for the shake coefficient
	// while glow is active.
	shakePeriod = 100 * time.Millisecond
)

// EntryKind tags one lifecycle history entry.
type EntryKind uint8

const (
	// EntryStarted records an activation start.
	EntryStarted EntryKind = iota + 1
	// EntryCompleted records a threshold completion.
	EntryCompleted
	// EntryCancelled records a release or recovery before completion.
	EntryCancelled
	// EntryReleased records a release after completion.
	EntryReleased
)

// String returns the entry kind name.
func (k EntryKind) String() string {
	switch k {
	case EntryStarted:
		return "started"
	case EntryCompleted:
		return "completed"
	case EntryCancelled:
		return "cancelled"
	case EntryReleased:
		return "released"
	default:
		return "unknown"
	}
}

// HistoryEntry is one bounded-ring lifecycle record for a hold id.
type HistoryEntry struct {
	Time time.Time
	Kind EntryKind
}

// Snapshot is the point-in-time animation state for one hold id,
// recomputed from scratch on every query.
type Snapshot struct {
	// IsCharging is true while an activation is in progress, including
	// after completion while the key stays down.
	IsCharging bool

	// Progress runs 0 to 100 and pins at 100 once the threshold is
	// reached.
	Progress float64

	// Elapsed is time since the activation started. Zero when idle.
	Elapsed time.Duration

	// Remaining is time until the threshold. Zero at or past it.
	Remaining time.Duration

	// Scale grows linearly from 1.0 to 1.3 with progress.
	Scale float64

	// Opacity grows linearly from 0.3 to 1.0 with progress.
	Opacity float64

	// Glow ramps from 0 to 1 over the final stretch of progress past
	// the ready cutoff.
	Glow float64

	// Shake oscillates while glow is active, scaled by glow.
	Shake float64

	// Transition flags, observable for a fixed window after the
	// corresponding lifecycle event.
	JustStarted   bool
	JustCompleted bool
	JustCancelled bool

	// History is the bounded lifecycle ring, oldest first.
	History []HistoryEntry
}

// holdRecord is the retained per-id state. The activation fields reset
// per cycle; history and flag timestamps outlive activations.
type holdRecord struct {
	charging bool
	start    time.Time
	minHold  time.Duration

	startedAt   time.Time
	completedAt time.Time
	cancelledAt time.Time

	history []HistoryEntry
}

// Option configures an Engine during creation.
type Option func(*Engine)

// WithTransitionWindow sets the observation window for transition
// flags.
func WithTransitionWindow(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.window = d
		}
	}
}

// WithHistorySize bounds the per-hold lifecycle history ring.
func WithHistorySize(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.historySize = n
		}
	}
}

// Engine tracks hold activations and answers snapshot queries. Not
// safe for concurrent use; the input engine serializes access.
type Engine struct {
	window      time.Duration
	historySize int
	records     map[string]*holdRecord
}

// NewEngine creates an empty hold progress engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		window:      DefaultTransitionWindow,
		historySize: DefaultHistorySize,
		records:     make(map[string]*holdRecord),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Apply folds matcher lifecycle transitions into the engine state.
func (e *Engine) Apply(trans []sequence.HoldTransition) {
	for _, tr := range trans {
		rec := e.records[tr.SequenceID]
		if rec == nil {
			rec = &holdRecord{}
			e.records[tr.SequenceID] = rec
		}

		switch tr.Kind {
		case sequence.HoldStarted:
			rec.charging = true
			rec.start = tr.Start
			rec.minHold = tr.MinHold
			rec.startedAt = tr.Time
			rec.completedAt = time.Time{}
			rec.cancelledAt = time.Time{}
			rec.push(HistoryEntry{Time: tr.Time, Kind: EntryStarted}, e.historySize)

		case sequence.HoldCompleted:
			rec.completedAt = tr.Time
			rec.push(HistoryEntry{Time: tr.Time, Kind: EntryCompleted}, e.historySize)

		case sequence.HoldCancelled:
			rec.charging = false
			rec.cancelledAt = tr.Time
			rec.push(HistoryEntry{Time: tr.Time, Kind: EntryCancelled}, e.historySize)

		case sequence.HoldReleased:
			rec.charging = false
			rec.push(HistoryEntry{Time: tr.Time, Kind: EntryReleased}, e.historySize)
		}
	}
}

// ActiveCount returns the number of currently charging holds. The
// engine's frame loop runs only while this is non-zero.
func (e *Engine) ActiveCount() int {
	n := 0
	for _, rec := range e.records {
		if rec.charging {
			n++
		}
	}
	return n
}

// Snapshot computes the animation state for a hold id at the given
// tick time. The boolean result is false for ids the engine has never
// seen a transition for.
func (e *Engine) Snapshot(id string, now time.Time) (Snapshot, bool) {
	rec := e.records[id]
	if rec == nil {
		return Snapshot{Scale: scaleMin, Opacity: opacityMin}, false
	}

	s := Snapshot{
		JustStarted:   e.inWindow(rec.startedAt, now),
		JustCompleted: e.inWindow(rec.completedAt, now),
		JustCancelled: e.inWindow(rec.cancelledAt, now),
		History:       append([]HistoryEntry(nil), rec.history...),
	}

	if !rec.charging {
		s.Scale = scaleMin
		s.Opacity = opacityMin
		return s, true
	}

	elapsed := now.Sub(rec.start)
	if elapsed < 0 {
		elapsed = 0
	}
	s.IsCharging = true
	s.Elapsed = elapsed
	if remaining := rec.minHold - elapsed; remaining > 0 {
		s.Remaining = remaining
	}

	// Progress pins at exactly 100 at and past the threshold so
	// discretized frame clocks never stall just below it.
	p := float64(elapsed) / float64(rec.minHold)
	if p > 1 {
		p = 1
	}
	s.Progress = p * 100
	s.Scale = scaleMin + (scaleMax-scaleMin)*p
	s.Opacity = opacityMin + (opacityMax-opacityMin)*p
	if p >= glowCutoff {
		s.Glow = (p - glowCutoff) / (1 - glowCutoff)
		phase := 2 * math.Pi * float64(elapsed) / float64(shakePeriod)
		s.Shake = s.Glow * math.Sin(phase)
	}
	return s, true
}

// History returns the lifecycle ring for a hold id, oldest first.
func (e *Engine) History(id string) []HistoryEntry {
	rec := e.records[id]
	if rec == nil {
		return nil
	}
	return append([]HistoryEntry(nil), rec.history...)
}

// Reset drops all retained state. Used when the definition registry is
// replaced wholesale.
func (e *Engine) Reset() {
	e.records = make(map[string]*holdRecord)
}

// inWindow reports whether an event timestamp is inside the transition
// flag observation window relative to now.
func (e *Engine) inWindow(at, now time.Time) bool {
	if at.IsZero() {
		return false
	}
	d := now.Sub(at)
	return d >= 0 && d <= e.window
}

// push appends to the bounded history ring.
func (r *holdRecord) push(entry HistoryEntry, max int) {
	r.history = append(r.history, entry)
	if len(r.history) > max {
		r.history = r.history[len(r.history)-max:]
	}
}
