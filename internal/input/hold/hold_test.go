package hold

import (
	"math"
	"testing"
	"time"

	"github.com/dshills/normkeys/internal/input/sequence"
)

func at(ms int) time.Time {
	return time.Unix(0, 0).Add(time.Duration(ms) * time.Millisecond)
}

func started(id string, t time.Time, minHold time.Duration) sequence.HoldTransition {
	return sequence.HoldTransition{SequenceID: id, Kind: sequence.HoldStarted, Time: t, Start: t, MinHold: minHold}
}

func completed(id string, t, start time.Time, minHold time.Duration) sequence.HoldTransition {
	return sequence.HoldTransition{SequenceID: id, Kind: sequence.HoldCompleted, Time: t, Start: start, MinHold: minHold}
}

func cancelled(id string, t, start time.Time, minHold time.Duration) sequence.HoldTransition {
	return sequence.HoldTransition{SequenceID: id, Kind: sequence.HoldCancelled, Time: t, Start: start, MinHold: minHold}
}

func released(id string, t, start time.Time, minHold time.Duration) sequence.HoldTransition {
	return sequence.HoldTransition{SequenceID: id, Kind: sequence.HoldReleased, Time: t, Start: start, MinHold: minHold}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestProgressMonotonicAndPinned(t *testing.T) {
	e := NewEngine()
	e.Apply([]sequence.HoldTransition{started("charge", at(0), 500*time.Millisecond)})

	prev := -1.0
	for _, ms := range []int{0, 100, 250, 499, 500, 650, 1000} {
		s, ok := e.Snapshot("charge", at(ms))
		if !ok {
			t.Fatalf("Snapshot() unknown id at %dms", ms)
		}
		if !s.IsCharging {
			t.Errorf("IsCharging = false at %dms", ms)
		}
		if s.Progress < prev {
			t.Errorf("progress decreased at %dms: %v < %v", ms, s.Progress, prev)
		}
		prev = s.Progress
		if ms >= 500 && s.Progress != 100 {
			t.Errorf("progress = %v at %dms, want exactly 100", s.Progress, ms)
		}
	}

	s, _ := e.Snapshot("charge", at(0))
	if s.Progress != 0 {
		t.Errorf("progress = %v at start, want 0", s.Progress)
	}
	s, _ = e.Snapshot("charge", at(250))
	if !almostEqual(s.Progress, 50) {
		t.Errorf("progress = %v at midpoint, want 50", s.Progress)
	}
}

func TestElapsedAndRemaining(t *testing.T) {
	e := NewEngine()
	e.Apply([]sequence.HoldTransition{started("charge", at(0), 500*time.Millisecond)})

	s, _ := e.Snapshot("charge", at(200))
	if s.Elapsed != 200*time.Millisecond {
		t.Errorf("Elapsed = %v, want 200ms", s.Elapsed)
	}
	if s.Remaining != 300*time.Millisecond {
		t.Errorf("Remaining = %v, want 300ms", s.Remaining)
	}

	s, _ = e.Snapshot("charge", at(700))
	if s.Remaining != 0 {
		t.Errorf("Remaining = %v past threshold, want 0", s.Remaining)
	}
}

func TestAnimationCoefficients(t *testing.T) {
	e := NewEngine()
	e.Apply([]sequence.HoldTransition{started("charge", at(0), 1000*time.Millisecond)})

	s, _ := e.Snapshot("charge", at(0))
	if !almostEqual(s.Scale, 1.0) || !almostEqual(s.Opacity, 0.3) {
		t.Errorf("at rest: scale=%v opacity=%v, want 1.0 and 0.3", s.Scale, s.Opacity)
	}
	if s.Glow != 0 || s.Shake != 0 {
		t.Errorf("glow/shake non-zero at start: %v %v", s.Glow, s.Shake)
	}

	s, _ = e.Snapshot("charge", at(500))
	if !almostEqual(s.Scale, 1.15) {
		t.Errorf("scale = %v at 50%%, want 1.15", s.Scale)
	}
	if !almostEqual(s.Opacity, 0.65) {
		t.Errorf("opacity = %v at 50%%, want 0.65", s.Opacity)
	}
	if s.Glow != 0 {
		t.Errorf("glow = %v below the ready cutoff, want 0", s.Glow)
	}

	s, _ = e.Snapshot("charge", at(950))
	if !almostEqual(s.Glow, 0.5) {
		t.Errorf("glow = %v at 95%%, want 0.5", s.Glow)
	}

	s, _ = e.Snapshot("charge", at(1000))
	if !almostEqual(s.Scale, 1.3) || !almostEqual(s.Opacity, 1.0) || !almostEqual(s.Glow, 1.0) {
		t.Errorf("at threshold: scale=%v opacity=%v glow=%v", s.Scale, s.Opacity, s.Glow)
	}
}

func TestShakeOscillates(t *testing.T) {
	e := NewEngine()
	e.Apply([]sequence.HoldTransition{started("charge", at(0), 1000*time.Millisecond)})

	// 925ms: glow active, elapsed lands a quarter period into the
	// oscillation where sin peaks.
	s, _ := e.Snapshot("charge", at(925))
	if s.Shake <= 0 {
		t.Errorf("shake = %v at oscillation peak, want positive", s.Shake)
	}
	s2, _ := e.Snapshot("charge", at(975))
	if s2.Shake >= 0 {
		t.Errorf("shake = %v at oscillation trough, want negative", s2.Shake)
	}
}

func TestTransitionFlagWindows(t *testing.T) {
	e := NewEngine()
	minHold := 500 * time.Millisecond
	e.Apply([]sequence.HoldTransition{started("charge", at(0), minHold)})

	s, _ := e.Snapshot("charge", at(50))
	if !s.JustStarted {
		t.Errorf("JustStarted = false inside window")
	}
	s, _ = e.Snapshot("charge", at(101))
	if s.JustStarted {
		t.Errorf("JustStarted = true past window")
	}

	e.Apply([]sequence.HoldTransition{completed("charge", at(500), at(0), minHold)})
	s, _ = e.Snapshot("charge", at(580))
	if !s.JustCompleted {
		t.Errorf("JustCompleted = false inside window")
	}
	if !s.IsCharging || s.Progress != 100 {
		t.Errorf("completed-but-held: IsCharging=%v progress=%v", s.IsCharging, s.Progress)
	}
	s, _ = e.Snapshot("charge", at(601))
	if s.JustCompleted {
		t.Errorf("JustCompleted = true past window")
	}
}

func TestCancellationNeverCompletes(t *testing.T) {
	e := NewEngine()
	minHold := 500 * time.Millisecond
	e.Apply([]sequence.HoldTransition{started("charge", at(0), minHold)})
	e.Apply([]sequence.HoldTransition{cancelled("charge", at(499), at(0), minHold)})

	s, ok := e.Snapshot("charge", at(520))
	if !ok {
		t.Fatal("Snapshot() unknown id after cancel")
	}
	if !s.JustCancelled {
		t.Errorf("JustCancelled = false inside window")
	}
	if s.JustCompleted {
		t.Errorf("JustCompleted = true for a cancelled activation")
	}
	if s.IsCharging || s.Progress != 0 {
		t.Errorf("cancelled: IsCharging=%v progress=%v", s.IsCharging, s.Progress)
	}
	if e.ActiveCount() != 0 {
		t.Errorf("ActiveCount() = %d after cancel, want 0", e.ActiveCount())
	}
}

func TestReleaseAfterCompletion(t *testing.T) {
	e := NewEngine()
	minHold := 500 * time.Millisecond
	e.Apply([]sequence.HoldTransition{started("charge", at(0), minHold)})
	e.Apply([]sequence.HoldTransition{completed("charge", at(500), at(0), minHold)})
	e.Apply([]sequence.HoldTransition{released("charge", at(700), at(0), minHold)})

	s, _ := e.Snapshot("charge", at(710))
	if s.JustCancelled {
		t.Errorf("release after completion flagged as cancellation")
	}
	if s.IsCharging {
		t.Errorf("IsCharging = true after release")
	}
}

func TestRestartClearsFlags(t *testing.T) {
	e := NewEngine()
	minHold := 500 * time.Millisecond
	e.Apply([]sequence.HoldTransition{started("charge", at(0), minHold)})
	e.Apply([]sequence.HoldTransition{cancelled("charge", at(100), at(0), minHold)})
	e.Apply([]sequence.HoldTransition{started("charge", at(150), minHold)})

	s, _ := e.Snapshot("charge", at(160))
	if !s.JustStarted {
		t.Errorf("JustStarted = false after restart")
	}
	if s.JustCancelled {
		t.Errorf("previous cycle's cancellation leaked into the new one")
	}
	if s.Elapsed != 10*time.Millisecond {
		t.Errorf("Elapsed = %v, want 10ms from the new start", s.Elapsed)
	}
}

func TestHistoryRing(t *testing.T) {
	e := NewEngine(WithHistorySize(3))
	minHold := 500 * time.Millisecond
	for i := 0; i < 3; i++ {
		base := i * 1000
		e.Apply([]sequence.HoldTransition{started("charge", at(base), minHold)})
		e.Apply([]sequence.HoldTransition{cancelled("charge", at(base+100), at(base), minHold)})
	}

	hist := e.History("charge")
	if len(hist) != 3 {
		t.Fatalf("history length = %d, want 3", len(hist))
	}
	// Oldest dropped: the surviving entries are cancel, start, cancel.
	want := []EntryKind{EntryCancelled, EntryStarted, EntryCancelled}
	for i, entry := range hist {
		if entry.Kind != want[i] {
			t.Errorf("history[%d].Kind = %v, want %v", i, entry.Kind, want[i])
		}
	}
}

func TestUnknownID(t *testing.T) {
	e := NewEngine()
	s, ok := e.Snapshot("nope", at(0))
	if ok {
		t.Errorf("Snapshot() reported an unknown id as known")
	}
	if !almostEqual(s.Scale, 1.0) || !almostEqual(s.Opacity, 0.3) {
		t.Errorf("unknown id snapshot not at rest: %+v", s)
	}
}

func TestReset(t *testing.T) {
	e := NewEngine()
	e.Apply([]sequence.HoldTransition{started("charge", at(0), time.Second)})
	e.Reset()
	if e.ActiveCount() != 0 {
		t.Errorf("ActiveCount() = %d after reset, want 0", e.ActiveCount())
	}
	if _, ok := e.Snapshot("charge", at(10)); ok {
		t.Errorf("state survived reset")
	}
}
