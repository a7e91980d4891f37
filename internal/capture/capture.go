package capture

import (
	"time"

	"github.com/dshills/normkeys/internal/input/key"
)

// Sink is the engine-facing ingress surface a source feeds. The input
// engine satisfies it.
type Sink interface {
	// Down reports a raw key press. raw is the platform's modifier
	// snapshot at event time.
	Down(code string, at time.Time, raw key.Modifier)

	// Up reports a raw key release.
	Up(code string, at time.Time, raw key.Modifier)

	// Tick advances the frame clock.
	Tick(at time.Time)

	// Recover reports focus or visibility loss.
	Recover(at time.Time)
}

// Source is a running platform input adapter.
type Source interface {
	// Run blocks, feeding the sink until Stop is called or the
	// platform stream ends.
	Run() error

	// Stop asks Run to return. Safe to call more than once.
	Stop()
}
