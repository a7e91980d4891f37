package key

import "strings"

// Key is a canonical, platform-stable identifier for a physical key.
// Character keys use their lowercase character ("a", "5", "/"). Named
// keys use the constants below. Only the normalizer produces Keys from
// raw input; the identifiers form a stable public vocabulary.
type Key string

// Named keys.
const (
	// KeyNone represents no key.
	KeyNone Key = ""

	// Modifier keys. Left/right variants collapse to these.
	KeyShift   Key = "Shift"
	KeyControl Key = "Control"
	KeyAlt     Key = "Alt"
	KeyMeta    Key = "Meta"

	// Editing and whitespace keys.
	KeyEnter     Key = "Enter"
	KeyTab       Key = "Tab"
	KeySpace     Key = "Space"
	KeyBackspace Key = "Backspace"
	KeyDelete    Key = "Delete"
	KeyInsert    Key = "Insert"
	KeyEscape    Key = "Escape"

	// Navigation keys.
	KeyArrowUp    Key = "ArrowUp"
	KeyArrowDown  Key = "ArrowDown"
	KeyArrowLeft  Key = "ArrowLeft"
	KeyArrowRight Key = "ArrowRight"
	KeyHome       Key = "Home"
	KeyEnd        Key = "End"
	KeyPageUp     Key = "PageUp"
	KeyPageDown   Key = "PageDown"

	// Lock and system keys.
	KeyCapsLock    Key = "CapsLock"
	KeyNumLock     Key = "NumLock"
	KeyScrollLock  Key = "ScrollLock"
	KeyPause       Key = "Pause"
	KeyPrintScreen Key = "PrintScreen"
	KeyContextMenu Key = "ContextMenu"

	// Function keys.
	KeyF1  Key = "F1"
	KeyF2  Key = "F2"
	KeyF3  Key = "F3"
	KeyF4  Key = "F4"
	KeyF5  Key = "F5"
	KeyF6  Key = "F6"
	KeyF7  Key = "F7"
	KeyF8  Key = "F8"
	KeyF9  Key = "F9"
	KeyF10 Key = "F10"
	KeyF11 Key = "F11"
	KeyF12 Key = "F12"
)

// String returns the canonical name of the key.
func (k Key) String() string {
	if k == KeyNone {
		return "None"
	}
	return string(k)
}

// IsModifier returns true if this is a modifier key.
func (k Key) IsModifier() bool {
	return k == KeyShift || k == KeyControl || k == KeyAlt || k == KeyMeta
}

// Modifier returns the modifier flag for a modifier key, or ModNone
// for every other key.
func (k Key) Modifier() Modifier {
	switch k {
	case KeyShift:
		return ModShift
	case KeyControl:
		return ModCtrl
	case KeyAlt:
		return ModAlt
	case KeyMeta:
		return ModMeta
	default:
		return ModNone
	}
}

// IsArrowKey returns true if this is an arrow key.
func (k Key) IsArrowKey() bool {
	switch k {
	case KeyArrowUp, KeyArrowDown, KeyArrowLeft, KeyArrowRight:
		return true
	}
	return false
}

// IsNavigationKey returns true if this is a navigation key.
func (k Key) IsNavigationKey() bool {
	if k.IsArrowKey() {
		return true
	}
	switch k {
	case KeyHome, KeyEnd, KeyPageUp, KeyPageDown:
		return true
	}
	return false
}

// IsFunctionKey returns true if this is a function key (F1-F12).
func (k Key) IsFunctionKey() bool {
	_, ok := functionKeys[k]
	return ok
}

// IsCharacter returns true if this is a single-character key ("a", "5").
func (k Key) IsCharacter() bool {
	return len(k) == 1
}

var functionKeys = map[Key]struct{}{
	KeyF1: {}, KeyF2: {}, KeyF3: {}, KeyF4: {}, KeyF5: {}, KeyF6: {},
	KeyF7: {}, KeyF8: {}, KeyF9: {}, KeyF10: {}, KeyF11: {}, KeyF12: {},
}

// keyNameMap maps lowercase key names and aliases to canonical Keys.
// Used when parsing key specifications from definition files.
var keyNameMap = map[string]Key{
	"shift":       KeyShift,
	"control":     KeyControl,
	"ctrl":        KeyControl,
	"alt":         KeyAlt,
	"option":      KeyAlt,
	"meta":        KeyMeta,
	"cmd":         KeyMeta,
	"command":     KeyMeta,
	"super":       KeyMeta,
	"win":         KeyMeta,
	"enter":       KeyEnter,
	"return":      KeyEnter,
	"tab":         KeyTab,
	"space":       KeySpace,
	"backspace":   KeyBackspace,
	"delete":      KeyDelete,
	"del":         KeyDelete,
	"insert":      KeyInsert,
	"ins":         KeyInsert,
	"escape":      KeyEscape,
	"esc":         KeyEscape,
	"arrowup":     KeyArrowUp,
	"up":          KeyArrowUp,
	"arrowdown":   KeyArrowDown,
	"down":        KeyArrowDown,
	"arrowleft":   KeyArrowLeft,
	"left":        KeyArrowLeft,
	"arrowright":  KeyArrowRight,
	"right":       KeyArrowRight,
	"home":        KeyHome,
	"end":         KeyEnd,
	"pageup":      KeyPageUp,
	"pgup":        KeyPageUp,
	"pagedown":    KeyPageDown,
	"pgdn":        KeyPageDown,
	"capslock":    KeyCapsLock,
	"numlock":     KeyNumLock,
	"scrolllock":  KeyScrollLock,
	"pause":       KeyPause,
	"printscreen": KeyPrintScreen,
	"contextmenu": KeyContextMenu,
	"f1":          KeyF1,
	"f2":          KeyF2,
	"f3":          KeyF3,
	"f4":          KeyF4,
	"f5":          KeyF5,
	"f6":          KeyF6,
	"f7":          KeyF7,
	"f8":          KeyF8,
	"f9":          KeyF9,
	"f10":         KeyF10,
	"f11":         KeyF11,
	"f12":         KeyF12,
}

// FromName returns the canonical Key for a name (case-insensitive).
// Single characters map to their lowercase character key. Returns
// KeyNone if the name is not recognized.
func FromName(name string) Key {
	name = strings.TrimSpace(name)
	if name == "" {
		return KeyNone
	}
	if k, ok := keyNameMap[strings.ToLower(name)]; ok {
		return k
	}
	if runes := []rune(name); len(runes) == 1 {
		return Key(strings.ToLower(name))
	}
	return KeyNone
}
