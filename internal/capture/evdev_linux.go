//go:build linux

package capture

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	evdev "github.com/holoplot/go-evdev"

	"github.com/dshills/normkeys/internal/input/key"
)

// ErrNoKeyboard indicates no evdev keyboard device was found.
var ErrNoKeyboard = errors.New("no keyboard device found")

// EvdevOption configures an Evdev source.
type EvdevOption func(*Evdev)

// WithDevicePath selects an explicit evdev device instead of scanning
// for the first keyboard.
func WithDevicePath(path string) EvdevOption {
	return func(e *Evdev) {
		e.path = path
	}
}

// WithEvdevTickInterval sets the frame tick cadence.
func WithEvdevTickInterval(d time.Duration) EvdevOption {
	return func(e *Evdev) {
		if d > 0 {
			e.interval = d
		}
	}
}

// Evdev captures key input from a Linux evdev keyboard device. Unlike
// the terminal source it sees real press and release events, so hold
// patterns and duration classification work end to end.
type Evdev struct {
	sink     Sink
	path     string
	interval time.Duration

	// mods mirrors the device's modifier key state so each event can
	// carry a platform modifier snapshot.
	mods key.Modifier

	dev      *evdev.InputDevice
	quit     chan struct{}
	stopOnce sync.Once
}

// NewEvdev creates an evdev source feeding the given sink. Without an
// explicit device path the first device that looks like a keyboard is
// used.
func NewEvdev(sink Sink, opts ...EvdevOption) (*Evdev, error) {
	e := &Evdev{
		sink:     sink,
		interval: DefaultTickInterval,
		quit:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.path == "" {
		path, err := findKeyboard()
		if err != nil {
			return nil, err
		}
		e.path = path
	}

	dev, err := evdev.Open(e.path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", e.path, err)
	}
	e.dev = dev
	return e, nil
}

// Path returns the device path being read.
func (e *Evdev) Path() string {
	return e.path
}

// Run blocks reading device events and feeding the sink until Stop is
// called or the device goes away.
func (e *Evdev) Run() error {
	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	errc := make(chan error, 1)
	go e.readLoop(errc)

	for {
		select {
		case <-e.quit:
			return nil
		case now := <-ticker.C:
			e.sink.Tick(now)
		case err := <-errc:
			select {
			case <-e.quit:
				return nil
			default:
			}
			return err
		}
	}
}

// Stop asks Run to return and closes the device, unblocking the read.
func (e *Evdev) Stop() {
	e.stopOnce.Do(func() {
		close(e.quit)
		e.dev.Close()
	})
}

// readLoop consumes raw device events until read fails.
func (e *Evdev) readLoop(errc chan<- error) {
	for {
		ev, err := e.dev.ReadOne()
		if err != nil {
			errc <- err
			return
		}
		if ev.Type != evdev.EV_KEY {
			continue
		}

		code, ok := translateEvdevCode(ev.CodeName())
		if !ok {
			continue
		}
		now := time.Unix(int64(ev.Time.Sec), int64(ev.Time.Usec)*1000)

		switch ev.Value {
		case 1, 2:
			// Press and autorepeat both feed Down; the tracker makes
			// repeats idempotent.
			e.updateMods(code, true)
			e.sink.Down(code, now, e.mods)
		case 0:
			e.updateMods(code, false)
			e.sink.Up(code, now, e.mods)
		}
	}
}

// updateMods mirrors modifier key transitions into the snapshot mask.
func (e *Evdev) updateMods(code string, down bool) {
	k, _, ok := key.Normalize(code)
	if !ok {
		return
	}
	flag := k.Modifier()
	if flag == key.ModNone {
		return
	}
	if down {
		e.mods = e.mods.With(flag)
	} else {
		e.mods = e.mods.Without(flag)
	}
}

// findKeyboard scans evdev devices for the first one that supports
// key and repeat events and names itself a keyboard.
func findKeyboard() (string, error) {
	paths, err := evdev.ListDevicePaths()
	if err != nil {
		return "", fmt.Errorf("listing devices: %w", err)
	}
	for _, p := range paths {
		dev, err := evdev.Open(p.Path)
		if err != nil {
			continue
		}
		ok := hasType(dev.CapableTypes(), evdev.EV_KEY) && hasType(dev.CapableTypes(), evdev.EV_REP)
		if ok {
			name, err := dev.Name()
			ok = err == nil && strings.Contains(strings.ToLower(name), "keyboard")
		}
		dev.Close()
		if ok {
			return p.Path, nil
		}
	}
	return "", ErrNoKeyboard
}

func hasType(types []evdev.EvType, want evdev.EvType) bool {
	for _, t := range types {
		if t == want {
			return true
		}
	}
	return false
}

// evdevCodes maps evdev code names to DOM-style key codes for keys
// that do not follow a mechanical naming pattern.
var evdevCodes = map[string]string{
	"KEY_LEFTSHIFT":  "ShiftLeft",
	"KEY_RIGHTSHIFT": "ShiftRight",
	"KEY_LEFTCTRL":   "ControlLeft",
	"KEY_RIGHTCTRL":  "ControlRight",
	"KEY_LEFTALT":    "AltLeft",
	"KEY_RIGHTALT":   "AltRight",
	"KEY_LEFTMETA":   "MetaLeft",
	"KEY_RIGHTMETA":  "MetaRight",

	"KEY_ENTER":     "Enter",
	"KEY_ESC":       "Escape",
	"KEY_TAB":       "Tab",
	"KEY_SPACE":     "Space",
	"KEY_BACKSPACE": "Backspace",
	"KEY_DELETE":    "Delete",
	"KEY_INSERT":    "Insert",
	"KEY_HOME":      "Home",
	"KEY_END":       "End",
	"KEY_PAGEUP":    "PageUp",
	"KEY_PAGEDOWN":  "PageDown",

	"KEY_UP":    "ArrowUp",
	"KEY_DOWN":  "ArrowDown",
	"KEY_LEFT":  "ArrowLeft",
	"KEY_RIGHT": "ArrowRight",

	"KEY_CAPSLOCK":   "CapsLock",
	"KEY_NUMLOCK":    "NumLock",
	"KEY_SCROLLLOCK": "ScrollLock",

	"KEY_GRAVE":      "Backquote",
	"KEY_MINUS":      "Minus",
	"KEY_EQUAL":      "Equal",
	"KEY_LEFTBRACE":  "BracketLeft",
	"KEY_RIGHTBRACE": "BracketRight",
	"KEY_BACKSLASH":  "Backslash",
	"KEY_SEMICOLON":  "Semicolon",
	"KEY_APOSTROPHE": "Quote",
	"KEY_COMMA":      "Comma",
	"KEY_DOT":        "Period",
	"KEY_SLASH":      "Slash",

	"KEY_KPENTER":    "NumpadEnter",
	"KEY_KPPLUS":     "NumpadAdd",
	"KEY_KPMINUS":    "NumpadSubtract",
	"KEY_KPASTERISK": "NumpadMultiply",
	"KEY_KPSLASH":    "NumpadDivide",
	"KEY_KPDOT":      "NumpadDecimal",
}

// translateEvdevCode converts an evdev code name ("KEY_A") into a
// DOM-style key code ("KeyA").
func translateEvdevCode(name string) (string, bool) {
	if code, ok := evdevCodes[name]; ok {
		return code, true
	}
	rest, ok := strings.CutPrefix(name, "KEY_")
	if !ok {
		return "", false
	}

	switch {
	case len(rest) == 1 && rest[0] >= 'A' && rest[0] <= 'Z':
		return "Key" + rest, true
	case len(rest) == 1 && rest[0] >= '0' && rest[0] <= '9':
		return "Digit" + rest, true
	case len(rest) == 3 && strings.HasPrefix(rest, "KP") && rest[2] >= '0' && rest[2] <= '9':
		return "Numpad" + rest[2:], true
	case len(rest) >= 2 && len(rest) <= 3 && rest[0] == 'F':
		// F1 through F24.
		for i := 1; i < len(rest); i++ {
			if rest[i] < '0' || rest[i] > '9' {
				return "", false
			}
		}
		return rest, true
	}
	return "", false
}
