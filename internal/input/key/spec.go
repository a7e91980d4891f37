package key

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// Spec parse errors.
var (
	ErrEmptySpec   = errors.New("empty key specification")
	ErrInvalidSpec = errors.New("invalid key specification")
)

// ParseSpec parses a key specification string into a canonical key plus
// required modifiers.
//
// Supported formats:
//   - Single character: "a", "A", "5", "/"
//   - Named keys: "Enter", "Escape", "Space", "ArrowUp", "F5"
//   - With modifiers: "Ctrl+S", "Alt+F4", "Ctrl+Shift+p"
//
// Uppercase letters imply Shift ("A" is equivalent to "Shift+a").
func ParseSpec(spec string) (Key, Modifier, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return KeyNone, ModNone, ErrEmptySpec
	}

	parts := strings.Split(spec, "+")

	// A trailing empty part means the key itself is "+": "Ctrl++".
	if parts[len(parts)-1] == "" && len(parts) >= 2 {
		parts = parts[:len(parts)-1]
		parts[len(parts)-1] = "+"
	}

	var mods Modifier
	for _, p := range parts[:len(parts)-1] {
		mod := ModifierFromName(p)
		if mod == ModNone {
			return KeyNone, ModNone, fmt.Errorf("%w: unknown modifier %q", ErrInvalidSpec, p)
		}
		mods = mods.With(mod)
	}

	keyPart := strings.TrimSpace(parts[len(parts)-1])
	if keyPart == "" {
		return KeyNone, ModNone, ErrInvalidSpec
	}

	// Uppercase single letters carry implicit Shift.
	if runes := []rune(keyPart); len(runes) == 1 && unicode.IsUpper(runes[0]) {
		mods = mods.With(ModShift)
	}

	k := FromName(keyPart)
	if k == KeyNone {
		return KeyNone, ModNone, fmt.Errorf("%w: unknown key %q", ErrInvalidSpec, keyPart)
	}
	return k, mods, nil
}

// MustParseSpec parses a key specification and panics on error.
// Use only for known-valid specs in initialization code.
func MustParseSpec(spec string) (Key, Modifier) {
	k, mods, err := ParseSpec(spec)
	if err != nil {
		panic("invalid key specification: " + spec + ": " + err.Error())
	}
	return k, mods
}

// FormatSpec renders a key plus modifiers as a canonical specification
// string that parses back to the same values.
func FormatSpec(k Key, mods Modifier) string {
	if mods == ModNone {
		return k.String()
	}
	return mods.String() + "+" + k.String()
}
