package key

import "strings"

// Modifier represents keyboard modifier flags.
type Modifier uint8

const (
	// ModNone indicates no modifiers.
	ModNone Modifier = 0

	// ModShift indicates the Shift key.
	ModShift Modifier = 1 << iota

	// ModCtrl indicates the Control key.
	ModCtrl

	// ModAlt indicates the Alt key (Option on macOS, includes AltGr).
	ModAlt

	// ModMeta indicates the Meta key (Cmd on macOS, Win on Windows).
	ModMeta
)

// modifierFlags lists all flags in canonical display order.
var modifierFlags = []Modifier{ModCtrl, ModShift, ModAlt, ModMeta}

// Has returns true if m contains every flag in mod.
func (m Modifier) Has(mod Modifier) bool {
	return m&mod == mod
}

// HasShift returns true if Shift is set.
func (m Modifier) HasShift() bool { return m.Has(ModShift) }

// HasCtrl returns true if Control is set.
func (m Modifier) HasCtrl() bool { return m.Has(ModCtrl) }

// HasAlt returns true if Alt is set.
func (m Modifier) HasAlt() bool { return m.Has(ModAlt) }

// HasMeta returns true if Meta is set.
func (m Modifier) HasMeta() bool { return m.Has(ModMeta) }

// With returns a copy of m with mod added.
func (m Modifier) With(mod Modifier) Modifier { return m | mod }

// Without returns a copy of m with mod removed.
func (m Modifier) Without(mod Modifier) Modifier { return m &^ mod }

// IsEmpty returns true if no flags are set.
func (m Modifier) IsEmpty() bool { return m == ModNone }

// Key returns the canonical modifier key for a single flag, or KeyNone
// if m is not exactly one flag.
func (m Modifier) Key() Key {
	switch m {
	case ModShift:
		return KeyShift
	case ModCtrl:
		return KeyControl
	case ModAlt:
		return KeyAlt
	case ModMeta:
		return KeyMeta
	default:
		return KeyNone
	}
}

// Split returns the individual flags set in m, in canonical order.
func (m Modifier) Split() []Modifier {
	var out []Modifier
	for _, f := range modifierFlags {
		if m.Has(f) {
			out = append(out, f)
		}
	}
	return out
}

// String returns a readable representation like "Ctrl+Shift".
func (m Modifier) String() string {
	if m == ModNone {
		return ""
	}
	var parts []string
	if m.HasCtrl() {
		parts = append(parts, "Ctrl")
	}
	if m.HasShift() {
		parts = append(parts, "Shift")
	}
	if m.HasAlt() {
		parts = append(parts, "Alt")
	}
	if m.HasMeta() {
		parts = append(parts, "Meta")
	}
	return strings.Join(parts, "+")
}

// ModifierFromName returns the flag for a modifier name (case-insensitive).
// Returns ModNone if the name is not a modifier.
func ModifierFromName(name string) Modifier {
	return FromName(name).Modifier()
}

// Side identifies the physical location of a key that has duplicates.
// The numbering mirrors the DOM KeyboardEvent location values.
type Side uint8

const (
	// SideNone is the standard key block.
	SideNone Side = iota
	// SideLeft is the left-hand variant of a duplicated key.
	SideLeft
	// SideRight is the right-hand variant of a duplicated key.
	SideRight
	// SideNumpad is the numeric keypad block.
	SideNumpad
)

// String returns a readable name for the side.
func (s Side) String() string {
	switch s {
	case SideLeft:
		return "left"
	case SideRight:
		return "right"
	case SideNumpad:
		return "numpad"
	default:
		return "standard"
	}
}
