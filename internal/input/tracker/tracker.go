package tracker

import (
	"sort"
	"time"

	"github.com/dshills/normkeys/internal/input/key"
)

// Default configuration values.
const (
	// DefaultTapHoldThreshold separates taps from holds on release.
	DefaultTapHoldThreshold = 200 * time.Millisecond

	// DefaultPhantomWindow bounds how long a Shift release adjacent to
	// numpad activity is withheld while a phantom pair is possible.
	DefaultPhantomWindow = 50 * time.Millisecond
)

// Option configures a Tracker during creation.
type Option func(*Tracker)

// WithTapHoldThreshold sets the tap/hold classification threshold.
func WithTapHoldThreshold(d time.Duration) Option {
	return func(t *Tracker) {
		if d > 0 {
			t.threshold = d
		}
	}
}

// WithPhantomWindow sets the phantom Shift suppression window.
func WithPhantomWindow(d time.Duration) Option {
	return func(t *Tracker) {
		if d > 0 {
			t.phantomWindow = d
		}
	}
}

// record is the tracked state for one canonical key.
type record struct {
	key        key.Key
	sides      map[key.Side]struct{}
	pressStart time.Time

	// pendingRelease is set while a Shift release near numpad activity
	// is withheld pending phantom-pair confirmation. Zero otherwise.
	pendingRelease time.Time
	releaseSide    key.Side
}

// Tracker owns the canonical pressed-key set and modifier state.
// It is not safe for concurrent use; the engine serializes access.
type Tracker struct {
	threshold     time.Duration
	phantomWindow time.Duration

	records    map[key.Key]*record
	lastNumpad time.Time
}

// New creates a tracker with the given options.
func New(opts ...Option) *Tracker {
	t := &Tracker{
		threshold:     DefaultTapHoldThreshold,
		phantomWindow: DefaultPhantomWindow,
		records:       make(map[key.Key]*record),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Threshold returns the tap/hold classification threshold.
func (t *Tracker) Threshold() time.Duration {
	return t.threshold
}

// OnDown processes a key press transition. Duplicate downs from
// key-repeat are idempotent: the press start is preserved and no
// duplicate event is emitted. The returned events may include repairs
// finalized before the press itself.
func (t *Tracker) OnDown(k key.Key, side key.Side, at time.Time, raw key.Modifier) []NormalizedEvent {
	if k == key.KeyNone {
		return nil
	}

	evs := t.flush(at)
	evs = append(evs, t.reconcile(at, raw, k)...)

	if side == key.SideNumpad {
		t.lastNumpad = at
	}

	rec := t.records[k]
	if rec != nil && !rec.pendingRelease.IsZero() {
		if k == key.KeyShift && at.Sub(rec.pendingRelease) <= t.phantomWindow {
			// Phantom pair confirmed: the release and this press cancel
			// out and the original press continues uninterrupted.
			rec.pendingRelease = time.Time{}
			rec.sides[side] = struct{}{}
			return evs
		}
		// Deferral expired without confirmation. Finalize the release,
		// then treat this press as fresh.
		evs = append(evs, t.finalizeRelease(rec, rec.pendingRelease, false))
		rec = nil
	}

	if rec != nil {
		// Key-repeat or the other physical side of a duplicated key.
		// Canonical state is already down: no event, no duration reset.
		rec.sides[side] = struct{}{}
		return evs
	}

	rec = &record{
		key:        k,
		sides:      map[key.Side]struct{}{side: {}},
		pressStart: at,
	}
	t.records[k] = rec

	return append(evs, NormalizedEvent{
		Key:       k,
		Side:      side,
		Type:      EventDown,
		Time:      at,
		Modifiers: t.Modifiers(),
	})
}

// OnUp processes a key release transition. An up without a matching
// down (a real browser condition) synthesizes a zero-duration record
// instead of failing. The release is classified as tap or hold and the
// record destroyed.
func (t *Tracker) OnUp(k key.Key, side key.Side, at time.Time, raw key.Modifier) []NormalizedEvent {
	if k == key.KeyNone {
		return nil
	}

	evs := t.flush(at)
	evs = append(evs, t.reconcile(at, raw, k)...)

	if side == key.SideNumpad {
		t.lastNumpad = at
	}

	rec := t.records[k]
	if rec == nil {
		// Orphan up: the down was lost. Synthesize a zero-duration
		// record so the release still produces a consistent event.
		rec = &record{
			key:        k,
			sides:      map[key.Side]struct{}{side: {}},
			pressStart: at,
		}
		t.records[k] = rec
	}

	if !rec.pendingRelease.IsZero() {
		// Duplicate up while a release is already withheld.
		return evs
	}

	rec.releaseSide = side
	delete(rec.sides, side)
	if len(rec.sides) > 0 {
		// The other physical side is still held: canonically pressed.
		return evs
	}

	if k == key.KeyShift && t.nearNumpad(at) {
		// Possible Windows phantom Shift release. Withhold it until a
		// confirming Shift press arrives or the window passes.
		rec.pendingRelease = at
		rec.releaseSide = side
		return evs
	}

	return append(evs, t.finalizeRelease(rec, at, false))
}

// Tick finalizes any withheld releases whose confirmation window has
// passed. Called from the engine's frame tick.
func (t *Tracker) Tick(at time.Time) []NormalizedEvent {
	return t.flush(at)
}

// Recover force-releases every tracked key. Invoked on loss of input
// focus or visibility so that a key which never receives a real keyup
// does not remain pressed forever. Withheld releases are finalized at
// their original timestamps; everything else releases at the given
// time with tap/hold inferred from elapsed press duration.
func (t *Tracker) Recover(at time.Time) []NormalizedEvent {
	recs := make([]*record, 0, len(t.records))
	for _, rec := range t.records {
		recs = append(recs, rec)
	}
	sort.Slice(recs, func(i, j int) bool {
		if recs[i].pressStart.Equal(recs[j].pressStart) {
			return recs[i].key < recs[j].key
		}
		return recs[i].pressStart.Before(recs[j].pressStart)
	})

	var evs []NormalizedEvent
	for _, rec := range recs {
		if !rec.pendingRelease.IsZero() {
			evs = append(evs, t.finalizeRelease(rec, rec.pendingRelease, false))
			continue
		}
		evs = append(evs, t.finalizeRelease(rec, at, true))
	}
	t.lastNumpad = time.Time{}
	return evs
}

// IsPressed returns true if the canonical key is currently pressed.
func (t *Tracker) IsPressed(k key.Key) bool {
	return t.records[k] != nil
}

// Pressed returns the currently pressed canonical keys in press order.
func (t *Tracker) Pressed() []key.Key {
	recs := make([]*record, 0, len(t.records))
	for _, rec := range t.records {
		recs = append(recs, rec)
	}
	sort.Slice(recs, func(i, j int) bool {
		if recs[i].pressStart.Equal(recs[j].pressStart) {
			return recs[i].key < recs[j].key
		}
		return recs[i].pressStart.Before(recs[j].pressStart)
	})
	keys := make([]key.Key, len(recs))
	for i, rec := range recs {
		keys[i] = rec.key
	}
	return keys
}

// PressedSides returns the physical sides currently held for a key.
// Duplicated modifiers collapse canonically but stay distinguishable
// through this query.
func (t *Tracker) PressedSides(k key.Key) []key.Side {
	rec := t.records[k]
	if rec == nil {
		return nil
	}
	sides := make([]key.Side, 0, len(rec.sides))
	for s := range rec.sides {
		sides = append(sides, s)
	}
	sort.Slice(sides, func(i, j int) bool { return sides[i] < sides[j] })
	return sides
}

// Modifiers returns the current modifier flags derived from tracked
// modifier keys.
func (t *Tracker) Modifiers() key.Modifier {
	var mods key.Modifier
	for k := range t.records {
		mods = mods.With(k.Modifier())
	}
	return mods
}

// nearNumpad reports whether the timestamp falls inside the phantom
// window after the most recent numpad transition.
func (t *Tracker) nearNumpad(at time.Time) bool {
	if t.lastNumpad.IsZero() {
		return false
	}
	d := at.Sub(t.lastNumpad)
	return d >= 0 && d <= t.phantomWindow
}

// finalizeRelease destroys the record and produces its up event,
// classified against the tap/hold threshold.
func (t *Tracker) finalizeRelease(rec *record, at time.Time, synthetic bool) NormalizedEvent {
	delete(t.records, rec.key)

	duration := at.Sub(rec.pressStart)
	if duration < 0 {
		duration = 0
	}
	isTap := duration < t.threshold

	side := rec.releaseSide
	if side == key.SideNone && len(rec.sides) == 1 {
		for s := range rec.sides {
			side = s
		}
	}

	return NormalizedEvent{
		Key:       rec.key,
		Side:      side,
		Type:      EventUp,
		Time:      at,
		Duration:  duration,
		IsTap:     isTap,
		IsHold:    !isTap,
		Modifiers: t.Modifiers(),
		Synthetic: synthetic,
	}
}

// flush finalizes withheld releases whose phantom window has expired.
func (t *Tracker) flush(at time.Time) []NormalizedEvent {
	var evs []NormalizedEvent
	for _, rec := range t.records {
		if rec.pendingRelease.IsZero() {
			continue
		}
		if at.Sub(rec.pendingRelease) > t.phantomWindow {
			evs = append(evs, t.finalizeRelease(rec, rec.pendingRelease, false))
		}
	}
	return evs
}

// reconcile repairs tracked modifier state against the raw modifier
// snapshot carried by a transition. A modifier we track as pressed but
// the platform reports released is force-released (the lost-keyup
// case); one the platform reports pressed but we never saw goes down
// with a synthetic event. The key owning the current transition is
// exempt because its own state is about to change.
func (t *Tracker) reconcile(at time.Time, raw key.Modifier, self key.Key) []NormalizedEvent {
	var evs []NormalizedEvent
	for _, flag := range []key.Modifier{key.ModShift, key.ModCtrl, key.ModAlt, key.ModMeta} {
		mk := flag.Key()
		if mk == self {
			continue
		}
		rec := t.records[mk]
		switch {
		case rec != nil && !raw.Has(flag):
			if !rec.pendingRelease.IsZero() {
				// A withheld phantom release already covers this.
				continue
			}
			evs = append(evs, t.finalizeRelease(rec, at, true))
		case rec == nil && raw.Has(flag):
			t.records[mk] = &record{
				key:        mk,
				sides:      map[key.Side]struct{}{key.SideNone: {}},
				pressStart: at,
			}
			evs = append(evs, NormalizedEvent{
				Key:       mk,
				Side:      key.SideNone,
				Type:      EventDown,
				Time:      at,
				Modifiers: t.Modifiers(),
				Synthetic: true,
			})
		}
	}
	return evs
}
