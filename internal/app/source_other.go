//go:build !linux

package app

import (
	"fmt"
	"runtime"

	"github.com/dshills/normkeys/internal/capture"
)

// newEvdevSource is unavailable off Linux.
func (app *Application) newEvdevSource() (capture.Source, error) {
	return nil, fmt.Errorf("%w: evdev is Linux-only (running on %s)", ErrUnknownSource, runtime.GOOS)
}
