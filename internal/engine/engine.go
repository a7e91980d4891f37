package engine

import (
	"sync"
	"time"

	"github.com/dshills/normkeys/internal/event"
	"github.com/dshills/normkeys/internal/input/hold"
	"github.com/dshills/normkeys/internal/input/key"
	"github.com/dshills/normkeys/internal/input/sequence"
	"github.com/dshills/normkeys/internal/input/tracker"
)

// output is everything one ingress call produced, published after the
// engine lock is released.
type output struct {
	events  []tracker.NormalizedEvent
	matches []sequence.Match
	trans   []sequence.HoldTransition
}

// Engine is the input pipeline façade. All methods are safe for
// concurrent use.
type Engine struct {
	mu      sync.Mutex
	tracker *tracker.Tracker
	matcher *sequence.Matcher
	holds   *hold.Engine

	lastTick time.Time
	closed   bool

	bus     *event.Bus
	log     Logger
	metrics metrics
}

// New creates an engine with the given options.
func New(opts ...Option) *Engine {
	cfg := config{logger: nopLogger{}}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Engine{
		tracker: tracker.New(cfg.trackerOpts...),
		matcher: sequence.NewMatcher(cfg.matcherOpts...),
		holds:   hold.NewEngine(cfg.holdOpts...),
		bus:     event.NewBus(),
		log:     cfg.logger,
	}
}

// RegisterSequences validates and adds definitions to the registry.
func (e *Engine) RegisterSequences(defs ...sequence.Definition) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.matcher.Register(defs...); err != nil {
		return err
	}
	e.log.Debug("registered %d sequence definitions", len(defs))
	return nil
}

// ReplaceSequences swaps the whole registry, cancelling anything in
// flight. Used for hot reload; a validation failure leaves the old
// registry active.
func (e *Engine) ReplaceSequences(at time.Time, defs ...sequence.Definition) error {
	e.mu.Lock()
	trans, err := e.matcher.Replace(at, defs...)
	if err != nil {
		e.mu.Unlock()
		return err
	}
	e.holds.Apply(trans)
	e.holds.Reset()
	e.mu.Unlock()

	e.publish(output{trans: trans})
	e.log.Info("replaced sequence registry with %d definitions", len(defs))
	return nil
}

// Definitions returns the registered definitions in registration
// order.
func (e *Engine) Definitions() []sequence.Definition {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.matcher.Definitions()
}

// Down feeds a raw platform key press. The code is a platform key
// code ("KeyA", "ShiftLeft", "Numpad1"); raw is the platform's own
// modifier snapshot at event time, used to repair desynchronized
// modifier state.
func (e *Engine) Down(code string, at time.Time, raw key.Modifier) {
	e.metrics.rawEvents.Add(1)
	k, side, ok := key.Normalize(code)
	if !ok {
		e.metrics.unknownCodes.Add(1)
		e.log.Debug("unknown key code %q", code)
		return
	}

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	out := e.process(e.tracker.OnDown(k, side, at, raw))
	e.mu.Unlock()

	e.publish(out)
}

// Up feeds a raw platform key release.
func (e *Engine) Up(code string, at time.Time, raw key.Modifier) {
	e.metrics.rawEvents.Add(1)
	k, side, ok := key.Normalize(code)
	if !ok {
		e.metrics.unknownCodes.Add(1)
		e.log.Debug("unknown key code %q", code)
		return
	}

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	out := e.process(e.tracker.OnUp(k, side, at, raw))
	e.mu.Unlock()

	e.publish(out)
}

// Tick advances the frame clock: withheld releases whose window
// passed are finalized and charging holds are checked for completion.
// Hosts only need to call this while TickNeeded reports true.
func (e *Engine) Tick(at time.Time) {
	e.metrics.ticks.Add(1)

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	out := e.process(e.tracker.Tick(at))
	matches, trans := e.matcher.Tick(at)
	e.holds.Apply(trans)
	out.matches = append(out.matches, matches...)
	out.trans = append(out.trans, trans...)
	e.lastTick = at
	e.mu.Unlock()

	e.metrics.matches.Add(uint64(len(matches)))
	e.publish(out)
}

// Recover force-releases all pressed keys and cancels all in-progress
// matching. Called on focus or visibility loss.
func (e *Engine) Recover(at time.Time) {
	e.metrics.recoveries.Add(1)

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	out := e.recoverLocked(at)
	e.mu.Unlock()

	e.publish(out)
	e.log.Debug("recovered: released %d keys", len(out.events))
}

// Close recovers outstanding state and shuts the engine down.
// Idempotent; ingress calls after Close are ignored.
func (e *Engine) Close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	out := e.recoverLocked(e.lastTick)
	e.closed = true
	e.mu.Unlock()

	e.publish(out)
	return nil
}

// IsKeyPressed returns true if the canonical key is currently down.
func (e *Engine) IsKeyPressed(k key.Key) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tracker.IsPressed(k)
}

// PressedKeys returns the pressed canonical keys in press order.
func (e *Engine) PressedKeys() []key.Key {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tracker.Pressed()
}

// ActiveModifiers returns the current modifier flags.
func (e *Engine) ActiveModifiers() key.Modifier {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tracker.Modifiers()
}

// Matches returns the bounded match history, oldest first.
func (e *Engine) Matches() []sequence.Match {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.matcher.Matches()
}

// HoldState returns the animation snapshot for a hold id as of the
// last frame tick. The boolean result is false for ids no activation
// has ever been seen for.
func (e *Engine) HoldState(id string) (hold.Snapshot, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.holds.Snapshot(id, e.lastTick)
}

// HoldStateAt is HoldState against an explicit timestamp, for hosts
// that query between ticks.
func (e *Engine) HoldStateAt(id string, now time.Time) (hold.Snapshot, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.holds.Snapshot(id, now)
}

// TickNeeded reports whether any hold is charging. The host's frame
// loop only needs to run while this is true; it starts on the first
// hold's key-down and stops when the last activation ends.
func (e *Engine) TickNeeded() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.holds.ActiveCount() > 0
}

// Threshold returns the tap/hold classification threshold.
func (e *Engine) Threshold() time.Duration {
	return e.tracker.Threshold()
}

// Bus returns the engine's event bus for direct subscription.
func (e *Engine) Bus() *event.Bus {
	return e.bus
}

// OnEvent subscribes to normalized key transitions.
func (e *Engine) OnEvent(fn func(tracker.NormalizedEvent)) (event.Subscription, error) {
	return e.bus.Subscribe(event.TopicKeyEvent, func(ev any) {
		if ne, ok := ev.(tracker.NormalizedEvent); ok {
			fn(ne)
		}
	})
}

// OnMatch subscribes to sequence matches.
func (e *Engine) OnMatch(fn func(sequence.Match)) (event.Subscription, error) {
	return e.bus.Subscribe(event.TopicMatch, func(ev any) {
		if m, ok := ev.(sequence.Match); ok {
			fn(m)
		}
	})
}

// OnHoldActivity subscribes to hold lifecycle transitions.
func (e *Engine) OnHoldActivity(fn func(sequence.HoldTransition)) (event.Subscription, error) {
	return e.bus.Subscribe(event.TopicHold, func(ev any) {
		if tr, ok := ev.(sequence.HoldTransition); ok {
			fn(tr)
		}
	})
}

// Unsubscribe removes a subscription made through any On helper.
func (e *Engine) Unsubscribe(id event.Subscription) error {
	return e.bus.Unsubscribe(id)
}

// process runs normalized transitions through the matcher, folding
// hold transitions into the progress engine. Caller holds the lock.
func (e *Engine) process(evs []tracker.NormalizedEvent) output {
	out := output{events: evs}
	for _, ev := range evs {
		matches, trans := e.matcher.HandleEvent(ev, e.tracker)
		e.holds.Apply(trans)
		out.matches = append(out.matches, matches...)
		out.trans = append(out.trans, trans...)
	}
	e.metrics.normalized.Add(uint64(len(evs)))
	e.metrics.matches.Add(uint64(len(out.matches)))
	return out
}

// recoverLocked releases tracker state and cancels matcher state.
// Caller holds the lock.
func (e *Engine) recoverLocked(at time.Time) output {
	out := output{events: e.tracker.Recover(at)}
	out.trans = e.matcher.Recover(at)
	e.holds.Apply(out.trans)
	e.metrics.normalized.Add(uint64(len(out.events)))
	return out
}

// publish delivers one ingress call's output in pipeline order:
// normalized events first, then matches, then hold transitions.
func (e *Engine) publish(out output) {
	for _, ev := range out.events {
		e.bus.Publish(event.TopicKeyEvent, ev)
	}
	for _, m := range out.matches {
		e.bus.Publish(event.TopicMatch, m)
	}
	for _, tr := range out.trans {
		e.bus.Publish(event.TopicHold, tr)
	}
}
