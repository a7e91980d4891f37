package sequence

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/normkeys/internal/input/key"
	"github.com/dshills/normkeys/internal/input/tracker"
)

// State is the pressed-key view the matcher evaluates chords against.
// *tracker.Tracker satisfies it.
type State interface {
	IsPressed(key.Key) bool
	Pressed() []key.Key
	Modifiers() key.Modifier
}

// Match records one successful pattern match. Values are immutable.
type Match struct {
	// ID uniquely identifies this match instance.
	ID string

	// SequenceID is the id of the matched definition.
	SequenceID string

	// Type is the matched definition's variant.
	Type Type

	// Time is when the match fired.
	Time time.Time

	// Keys are the keys that satisfied the pattern.
	Keys []key.Key
}

// TransitionKind identifies a hold lifecycle change.
type TransitionKind uint8

const (
	// HoldStarted fires when a qualifying key-down begins charging.
	HoldStarted TransitionKind = iota + 1
	// HoldCompleted fires when the hold reaches its threshold.
	HoldCompleted
	// HoldCancelled fires on release or recovery before the threshold.
	HoldCancelled
	// HoldReleased fires on release after completion. Not an error and
	// not a cancellation; the activation simply ended.
	HoldReleased
)

// String returns the transition name.
func (k TransitionKind) String() string {
	switch k {
	case HoldStarted:
		return "started"
	case HoldCompleted:
		return "completed"
	case HoldCancelled:
		return "cancelled"
	case HoldReleased:
		return "released"
	default:
		return "unknown"
	}
}

// HoldTransition describes one hold lifecycle change, consumed by the
// hold progress engine.
type HoldTransition struct {
	SequenceID string
	Kind       TransitionKind
	Time       time.Time
	Start      time.Time
	MinHold    time.Duration
	Continuous bool
}

// comboState is the per-combo cursor into its ordered key list.
type comboState struct {
	cursor int
	last   time.Time
}

// holdState is one in-progress hold activation.
type holdState struct {
	start       time.Time
	completions int
}

// MatcherOption configures a Matcher during creation.
type MatcherOption func(*Matcher)

// WithHistorySize bounds the retained match history.
func WithHistorySize(n int) MatcherOption {
	return func(m *Matcher) {
		if n > 0 {
			m.historySize = n
		}
	}
}

// Matcher owns the definition registry and evaluates the normalized
// event stream against it. Not safe for concurrent use; the engine
// serializes access.
type Matcher struct {
	defs  []Definition
	index map[string]struct{}

	chordSat map[string]bool
	combos   map[string]*comboState
	holds    map[string]*holdState

	history     []Match
	historySize int
}

// NewMatcher creates an empty matcher.
func NewMatcher(opts ...MatcherOption) *Matcher {
	m := &Matcher{
		index:       make(map[string]struct{}),
		chordSat:    make(map[string]bool),
		combos:      make(map[string]*comboState),
		holds:       make(map[string]*holdState),
		historySize: DefaultHistorySize,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Register validates and adds definitions. All-or-nothing: on any
// validation failure the registry is left unchanged.
func (m *Matcher) Register(defs ...Definition) error {
	staged := make([]Definition, 0, len(defs))
	stagedIDs := make(map[string]struct{}, len(defs))
	for i := range defs {
		d := defs[i].clone()
		d.normalize()
		if err := d.Validate(); err != nil {
			return err
		}
		if _, exists := m.index[d.ID]; exists {
			return errDuplicate(d.ID)
		}
		if _, exists := stagedIDs[d.ID]; exists {
			return errDuplicate(d.ID)
		}
		stagedIDs[d.ID] = struct{}{}
		staged = append(staged, d)
	}

	for _, d := range staged {
		m.index[d.ID] = struct{}{}
		m.defs = append(m.defs, d)
		if d.Type == TypeCombo {
			m.combos[d.ID] = &comboState{}
		}
	}
	return nil
}

// Replace swaps the whole registry for a new definition set, validating
// first. Used for hot reload. All transient matching state is reset;
// active holds are cancelled at the given time.
func (m *Matcher) Replace(at time.Time, defs ...Definition) ([]HoldTransition, error) {
	next := NewMatcher(WithHistorySize(m.historySize))
	if err := next.Register(defs...); err != nil {
		return nil, err
	}

	trans := m.Recover(at)
	m.defs = next.defs
	m.index = next.index
	m.chordSat = next.chordSat
	m.combos = next.combos
	m.holds = next.holds
	return trans, nil
}

// Definitions returns the registered definitions in registration order.
func (m *Matcher) Definitions() []Definition {
	out := make([]Definition, len(m.defs))
	for i := range m.defs {
		out[i] = m.defs[i].clone()
	}
	return out
}

// HandleEvent evaluates one normalized transition against every
// definition in registration order. A single transition triggers at
// most one match per definition but may match several definitions.
func (m *Matcher) HandleEvent(ev tracker.NormalizedEvent, st State) ([]Match, []HoldTransition) {
	var matches []Match
	var trans []HoldTransition

	for i := range m.defs {
		d := &m.defs[i]
		switch d.Type {
		case TypeChord:
			if mt, ok := m.evalChord(d, ev.Time, st); ok {
				matches = append(matches, mt)
			}
		case TypeCombo:
			if mt, ok := m.evalCombo(d, ev); ok {
				matches = append(matches, mt)
			}
		case TypeHold:
			hm, ht := m.evalHold(d, ev)
			matches = append(matches, hm...)
			trans = append(trans, ht...)
		}
	}
	return matches, trans
}

// Tick evaluates active holds against the frame clock. Completion is
// checked lazily here, never by background timers.
func (m *Matcher) Tick(now time.Time) ([]Match, []HoldTransition) {
	var matches []Match
	var trans []HoldTransition

	for i := range m.defs {
		d := &m.defs[i]
		if d.Type != TypeHold {
			continue
		}
		hs := m.holds[d.ID]
		if hs == nil {
			continue
		}
		if !d.Continuous && hs.completions > 0 {
			continue
		}
		fireAt := hs.start.Add(d.MinHold * time.Duration(hs.completions+1))
		if now.Before(fireAt) {
			continue
		}
		hs.completions++
		matches = append(matches, m.record(d.ID, TypeHold, now, []key.Key{d.Key}))
		trans = append(trans, HoldTransition{
			SequenceID: d.ID,
			Kind:       HoldCompleted,
			Time:       now,
			Start:      hs.start,
			MinHold:    d.MinHold,
			Continuous: d.Continuous,
		})
	}
	return matches, trans
}

// Recover cancels all in-progress matching state: active holds emit
// cancellation (or release, when already completed), combo cursors and
// chord edges reset. Invoked on focus/visibility loss. Unlike a real
// release, recovery never credits elapsed time toward completion; the
// interruption timestamp is not a trustworthy measure of how long the
// key was physically down.
func (m *Matcher) Recover(at time.Time) []HoldTransition {
	var trans []HoldTransition
	for i := range m.defs {
		d := &m.defs[i]
		switch d.Type {
		case TypeChord:
			m.chordSat[d.ID] = false
		case TypeCombo:
			if cs := m.combos[d.ID]; cs != nil {
				cs.cursor = 0
			}
		case TypeHold:
			hs := m.holds[d.ID]
			if hs == nil {
				continue
			}
			kind := HoldCancelled
			if hs.completions > 0 {
				kind = HoldReleased
			}
			trans = append(trans, HoldTransition{
				SequenceID: d.ID,
				Kind:       kind,
				Time:       at,
				Start:      hs.start,
				MinHold:    d.MinHold,
				Continuous: d.Continuous,
			})
			delete(m.holds, d.ID)
		}
	}
	return trans
}

// ActiveHoldCount returns the number of currently charging holds.
func (m *Matcher) ActiveHoldCount() int {
	return len(m.holds)
}

// Matches returns a copy of the bounded match history, oldest first.
func (m *Matcher) Matches() []Match {
	out := make([]Match, len(m.history))
	copy(out, m.history)
	return out
}

// evalChord re-derives chord satisfaction from current pressed state.
// Matches fire only on the transition into the satisfied state.
func (m *Matcher) evalChord(d *Definition, at time.Time, st State) (Match, bool) {
	sat := chordSatisfied(d, st)
	was := m.chordSat[d.ID]
	m.chordSat[d.ID] = sat
	if !sat || was {
		return Match{}, false
	}
	return m.record(d.ID, TypeChord, at, d.Keys), true
}

func chordSatisfied(d *Definition, st State) bool {
	for _, k := range d.Keys {
		if !st.IsPressed(k) {
			return false
		}
	}
	if d.KeyMode == MatchExact {
		// Only the chord's own keys may be down.
		if len(st.Pressed()) != len(d.Keys) {
			return false
		}
	}
	mods := st.Modifiers()
	if !mods.Has(d.Modifiers) {
		return false
	}
	if d.ModifierMode == MatchExact {
		allowed := d.Modifiers
		for _, k := range d.Keys {
			allowed = allowed.With(k.Modifier())
		}
		if !mods.Without(allowed).IsEmpty() {
			return false
		}
	}
	return true
}

// evalCombo advances the combo cursor on matching down events. A failed
// attempt does not consume the triggering key as the start of a new one
// unless that key equals the first expected key.
func (m *Matcher) evalCombo(d *Definition, ev tracker.NormalizedEvent) (Match, bool) {
	if ev.Type != tracker.EventDown {
		return Match{}, false
	}
	cs := m.combos[d.ID]

	// Lazy timeout: the rolling window is checked against the event
	// timestamp, not by a scheduled callback.
	if cs.cursor > 0 && ev.Time.Sub(cs.last) > d.Timeout {
		cs.cursor = 0
	}

	if ev.Key == d.Keys[cs.cursor] {
		cs.cursor++
		cs.last = ev.Time
		if cs.cursor == len(d.Keys) {
			cs.cursor = 0
			return m.record(d.ID, TypeCombo, ev.Time, d.Keys), true
		}
		return Match{}, false
	}

	if cs.cursor > 0 {
		cs.cursor = 0
		if ev.Key == d.Keys[0] {
			cs.cursor = 1
			cs.last = ev.Time
		}
	}
	return Match{}, false
}

// evalHold manages hold activation lifecycles. Completion is normally
// driven by Tick, but a release is also a completion checkpoint: the
// threshold may be crossed inside the frame gap before the key comes
// up, and that release must not read as a cancellation.
func (m *Matcher) evalHold(d *Definition, ev tracker.NormalizedEvent) ([]Match, []HoldTransition) {
	if ev.Key != d.Key {
		return nil, nil
	}
	hs := m.holds[d.ID]

	switch ev.Type {
	case tracker.EventDown:
		if hs != nil {
			return nil, nil
		}
		if !ev.Modifiers.Has(d.Modifiers) {
			return nil, nil
		}
		m.holds[d.ID] = &holdState{start: ev.Time}
		return nil, []HoldTransition{{
			SequenceID: d.ID,
			Kind:       HoldStarted,
			Time:       ev.Time,
			Start:      ev.Time,
			MinHold:    d.MinHold,
			Continuous: d.Continuous,
		}}

	case tracker.EventUp:
		if hs == nil {
			return nil, nil
		}
		delete(m.holds, d.ID)

		var matches []Match
		var trans []HoldTransition
		if hs.completions == 0 && ev.Time.Sub(hs.start) >= d.MinHold {
			// Threshold reached but no tick landed past it yet.
			doneAt := hs.start.Add(d.MinHold)
			hs.completions++
			matches = append(matches, m.record(d.ID, TypeHold, doneAt, []key.Key{d.Key}))
			trans = append(trans, HoldTransition{
				SequenceID: d.ID,
				Kind:       HoldCompleted,
				Time:       doneAt,
				Start:      hs.start,
				MinHold:    d.MinHold,
				Continuous: d.Continuous,
			})
		}

		kind := HoldCancelled
		if hs.completions > 0 {
			// Already completed: a release is not a cancellation.
			kind = HoldReleased
		}
		trans = append(trans, HoldTransition{
			SequenceID: d.ID,
			Kind:       kind,
			Time:       ev.Time,
			Start:      hs.start,
			MinHold:    d.MinHold,
			Continuous: d.Continuous,
		})
		return matches, trans
	}
	return nil, nil
}

// record appends a match to the bounded history and returns it.
func (m *Matcher) record(seqID string, t Type, at time.Time, keys []key.Key) Match {
	mk := make([]key.Key, len(keys))
	copy(mk, keys)
	match := Match{
		ID:         uuid.NewString(),
		SequenceID: seqID,
		Type:       t,
		Time:       at,
		Keys:       mk,
	}
	m.history = append(m.history, match)
	if len(m.history) > m.historySize {
		m.history = m.history[len(m.history)-m.historySize:]
	}
	return match
}

func errDuplicate(id string) error {
	return fmt.Errorf("%w: %q", ErrDuplicateID, id)
}
