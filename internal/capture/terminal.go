package capture

import (
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/normkeys/internal/input/key"
)

// DefaultTickInterval is the terminal source's frame cadence.
const DefaultTickInterval = 16 * time.Millisecond

// Renderer draws one frame on the terminal screen. Called from the
// source's run loop after each tick.
type Renderer func(screen tcell.Screen, now time.Time)

// TerminalOption configures a Terminal source.
type TerminalOption func(*Terminal)

// WithTickInterval sets the frame tick cadence.
func WithTickInterval(d time.Duration) TerminalOption {
	return func(t *Terminal) {
		if d > 0 {
			t.interval = d
		}
	}
}

// WithRenderer sets a per-frame draw callback.
func WithRenderer(r Renderer) TerminalOption {
	return func(t *Terminal) {
		t.render = r
	}
}

// WithScreen supplies an existing screen. Tests pass a tcell
// simulation screen here.
func WithScreen(s tcell.Screen) TerminalOption {
	return func(t *Terminal) {
		t.screen = s
	}
}

// Terminal captures key input from a tcell terminal screen.
//
// Terminals report key presses but never releases, so every press is
// fed to the sink as an immediate down/up pair: every terminal key
// event classifies as a tap. Modifier state rides on the snapshot the
// tracker reconciles against. Focus loss, where the terminal reports
// it, triggers recovery.
type Terminal struct {
	sink     Sink
	screen   tcell.Screen
	interval time.Duration
	render   Renderer

	quit     chan struct{}
	stopOnce sync.Once
}

// NewTerminal creates a terminal source feeding the given sink.
func NewTerminal(sink Sink, opts ...TerminalOption) (*Terminal, error) {
	t := &Terminal{
		sink:     sink,
		interval: DefaultTickInterval,
		quit:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.screen == nil {
		screen, err := tcell.NewScreen()
		if err != nil {
			return nil, err
		}
		t.screen = screen
	}
	return t, nil
}

// Run initializes the screen and blocks feeding the sink until Stop
// is called or the user quits with Ctrl+C.
func (t *Terminal) Run() error {
	if err := t.screen.Init(); err != nil {
		return err
	}
	defer t.screen.Fini()
	t.screen.EnableFocus()

	events := make(chan tcell.Event, 16)
	go func() {
		defer close(events)
		for {
			ev := t.screen.PollEvent()
			if ev == nil {
				// Screen finalized.
				return
			}
			if _, ok := ev.(*tcell.EventInterrupt); ok {
				return
			}
			events <- ev
		}
	}()

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-t.quit:
			return nil
		case now := <-ticker.C:
			t.sink.Tick(now)
			if t.render != nil {
				t.render(t.screen, now)
				t.screen.Show()
			}
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if !t.handle(ev) {
				return nil
			}
		}
	}
}

// Stop asks Run to return.
func (t *Terminal) Stop() {
	t.stopOnce.Do(func() {
		close(t.quit)
		_ = t.screen.PostEvent(tcell.NewEventInterrupt(nil))
	})
}

// handle processes one tcell event. Returns false to quit.
func (t *Terminal) handle(ev tcell.Event) bool {
	switch e := ev.(type) {
	case *tcell.EventKey:
		if e.Key() == tcell.KeyCtrlC {
			return false
		}
		code, raw, ok := translateKey(e)
		if !ok {
			return true
		}
		now := e.When()
		t.sink.Down(code, now, raw)
		t.sink.Up(code, now, raw)

	case *tcell.EventFocus:
		if !e.Focused {
			t.sink.Recover(e.When())
		}

	case *tcell.EventResize:
		t.screen.Sync()
	}
	return true
}

// namedKeyCodes maps tcell named keys to DOM-style key codes.
var namedKeyCodes = map[tcell.Key]string{
	tcell.KeyEnter:      "Enter",
	tcell.KeyEscape:     "Escape",
	tcell.KeyTab:        "Tab",
	tcell.KeyBacktab:    "Tab",
	tcell.KeyBackspace:  "Backspace",
	tcell.KeyBackspace2: "Backspace",
	tcell.KeyDelete:     "Delete",
	tcell.KeyInsert:     "Insert",
	tcell.KeyHome:       "Home",
	tcell.KeyEnd:        "End",
	tcell.KeyPgUp:       "PageUp",
	tcell.KeyPgDn:       "PageDown",
	tcell.KeyUp:         "ArrowUp",
	tcell.KeyDown:       "ArrowDown",
	tcell.KeyLeft:       "ArrowLeft",
	tcell.KeyRight:      "ArrowRight",
	tcell.KeyF1:         "F1",
	tcell.KeyF2:         "F2",
	tcell.KeyF3:         "F3",
	tcell.KeyF4:         "F4",
	tcell.KeyF5:         "F5",
	tcell.KeyF6:         "F6",
	tcell.KeyF7:         "F7",
	tcell.KeyF8:         "F8",
	tcell.KeyF9:         "F9",
	tcell.KeyF10:        "F10",
	tcell.KeyF11:        "F11",
	tcell.KeyF12:        "F12",
}

// punctCodes maps unshifted punctuation runes to DOM-style codes.
var punctCodes = map[rune]string{
	'`':  "Backquote",
	'-':  "Minus",
	'=':  "Equal",
	'[':  "BracketLeft",
	']':  "BracketRight",
	'\\': "Backslash",
	';':  "Semicolon",
	'\'': "Quote",
	',':  "Comma",
	'.':  "Period",
	'/':  "Slash",
	' ':  "Space",
}

// shiftedRunes are runes a US layout only produces with Shift held.
// tcell strips ModShift from rune events, so the flag is re-inferred
// here the same way it is for uppercase letters.
var shiftedRunes = map[rune]struct{}{
	'~': {}, '!': {}, '@': {}, '#': {}, '$': {}, '%': {}, '^': {},
	'&': {}, '*': {}, '(': {}, ')': {}, '_': {}, '+': {}, '{': {},
	'}': {}, '|': {}, ':': {}, '"': {}, '<': {}, '>': {}, '?': {},
}

// translateKey converts a tcell key event into a DOM-style key code
// plus the modifier snapshot to feed alongside it.
func translateKey(ev *tcell.EventKey) (string, key.Modifier, bool) {
	raw := convertMods(ev.Modifiers())

	k := ev.Key()
	if code, ok := namedKeyCodes[k]; ok {
		if k == tcell.KeyBacktab {
			raw = raw.With(key.ModShift)
		}
		return code, raw, true
	}

	if k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ {
		// Control chords arrive as dedicated key constants; recover
		// the letter and fold Ctrl into the snapshot.
		letter := rune('a' + (k - tcell.KeyCtrlA))
		return "Key" + string(letter-'a'+'A'), raw.With(key.ModCtrl), true
	}

	if k != tcell.KeyRune {
		return "", raw, false
	}

	r := ev.Rune()
	switch {
	case r >= 'a' && r <= 'z':
		return "Key" + string(r-'a'+'A'), raw, true
	case r >= 'A' && r <= 'Z':
		return "Key" + string(r), raw.With(key.ModShift), true
	case r >= '0' && r <= '9':
		return "Digit" + string(r), raw, true
	}
	if code, ok := punctCodes[r]; ok {
		return code, raw, true
	}
	if _, ok := shiftedRunes[r]; ok {
		return string(r), raw.With(key.ModShift), true
	}
	// Anything else flows through the normalizer's bare-character
	// fallback.
	return string(r), raw, true
}

// convertMods converts a tcell modifier mask to modifier flags.
func convertMods(m tcell.ModMask) key.Modifier {
	var mods key.Modifier
	if m&tcell.ModShift != 0 {
		mods = mods.With(key.ModShift)
	}
	if m&tcell.ModCtrl != 0 {
		mods = mods.With(key.ModCtrl)
	}
	if m&tcell.ModAlt != 0 {
		mods = mods.With(key.ModAlt)
	}
	if m&tcell.ModMeta != 0 {
		mods = mods.With(key.ModMeta)
	}
	return mods
}
