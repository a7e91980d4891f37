package sequence

import (
	"errors"
	"fmt"
	"time"

	"github.com/dshills/normkeys/internal/input/key"
)

// Registration errors.
var (
	// ErrEmptyID indicates a definition without an id.
	ErrEmptyID = errors.New("sequence definition has no id")

	// ErrDuplicateID indicates an id already present in the registry.
	ErrDuplicateID = errors.New("duplicate sequence id")

	// ErrUnknownType indicates a definition with no valid type tag.
	ErrUnknownType = errors.New("unknown sequence type")

	// ErrNoKeys indicates an empty chord or combo key list.
	ErrNoKeys = errors.New("sequence has no keys")

	// ErrComboTooShort indicates a combo with fewer than two keys.
	ErrComboTooShort = errors.New("combo needs at least two keys")

	// ErrDuplicateKey indicates a repeated key in a chord set.
	ErrDuplicateKey = errors.New("chord contains a duplicate key")

	// ErrNoHoldKey indicates a hold definition without a trigger key.
	ErrNoHoldKey = errors.New("hold has no trigger key")

	// ErrInvalidMinHold indicates a non-positive minimum hold time.
	ErrInvalidMinHold = errors.New("hold time must be positive")
)

// Default configuration values.
const (
	// DefaultComboTimeout is the rolling timeout between combo keys.
	DefaultComboTimeout = 1000 * time.Millisecond

	// DefaultHistorySize bounds the retained match history.
	DefaultHistorySize = 100
)

// Type tags a sequence definition variant.
type Type uint8

const (
	// TypeChord is a simultaneous unordered key set.
	TypeChord Type = iota + 1
	// TypeCombo is an ordered key list with a rolling timeout.
	TypeCombo
	// TypeHold is a single key held past a minimum duration.
	TypeHold
)

// String returns the type name.
func (t Type) String() string {
	switch t {
	case TypeChord:
		return "chord"
	case TypeCombo:
		return "combo"
	case TypeHold:
		return "hold"
	default:
		return "unknown"
	}
}

// TypeFromName returns the Type for a name (as used in definition
// files). The boolean result is false for unrecognized names.
func TypeFromName(name string) (Type, bool) {
	switch name {
	case "chord":
		return TypeChord, true
	case "combo":
		return TypeCombo, true
	case "hold":
		return TypeHold, true
	default:
		return 0, false
	}
}

// MatchMode selects how strictly a chord compares key and modifier
// state against its requirements.
type MatchMode uint8

const (
	// MatchSubset allows extra pressed keys or modifiers beyond the
	// required ones. This is the default.
	MatchSubset MatchMode = iota
	// MatchExact requires the pressed state to contain nothing beyond
	// the definition's requirements.
	MatchExact
)

// String returns "subset" or "exact".
func (m MatchMode) String() string {
	if m == MatchExact {
		return "exact"
	}
	return "subset"
}

// Definition describes one registered pattern. Exactly one variant is
// active per value, selected by Type. Definitions are immutable once
// registered.
type Definition struct {
	// ID uniquely identifies the definition within a registry.
	ID string

	// Type selects the variant.
	Type Type

	// Keys are the chord members or the ordered combo keys.
	Keys []key.Key

	// Key is the hold trigger key.
	Key key.Key

	// Modifiers are required modifier flags (chord and hold).
	Modifiers key.Modifier

	// ModifierMode controls whether extra, unlisted modifiers held
	// simultaneously cause a non-match. Subset by default.
	ModifierMode MatchMode

	// KeyMode controls whether a chord requires exactly its key set to
	// be pressed and nothing else. Subset by default.
	KeyMode MatchMode

	// Timeout is the rolling per-step combo timeout. Defaults to
	// DefaultComboTimeout when zero.
	Timeout time.Duration

	// MinHold is the hold threshold.
	MinHold time.Duration

	// Continuous makes a hold re-fire every MinHold interval while the
	// key stays down past the threshold.
	Continuous bool
}

// Chord builds a chord definition over the given keys.
func Chord(id string, keys ...key.Key) Definition {
	return Definition{ID: id, Type: TypeChord, Keys: keys}
}

// Combo builds a combo definition with the given rolling timeout.
func Combo(id string, timeout time.Duration, keys ...key.Key) Definition {
	return Definition{ID: id, Type: TypeCombo, Keys: keys, Timeout: timeout}
}

// Hold builds a hold definition for a single trigger key.
func Hold(id string, k key.Key, minHold time.Duration) Definition {
	return Definition{ID: id, Type: TypeHold, Key: k, MinHold: minHold}
}

// normalize fills defaults for optional fields.
func (d *Definition) normalize() {
	if d.Type == TypeCombo && d.Timeout <= 0 {
		d.Timeout = DefaultComboTimeout
	}
	if d.Type == TypeHold && d.Key == key.KeyNone && len(d.Keys) == 1 {
		d.Key = d.Keys[0]
	}
}

// Validate checks the definition for configuration errors. It reports
// the first problem found; the registry stays unchanged on failure.
func (d *Definition) Validate() error {
	if d.ID == "" {
		return ErrEmptyID
	}
	switch d.Type {
	case TypeChord:
		if len(d.Keys) == 0 {
			return fmt.Errorf("%w: chord %q", ErrNoKeys, d.ID)
		}
		seen := make(map[key.Key]struct{}, len(d.Keys))
		for _, k := range d.Keys {
			if _, dup := seen[k]; dup {
				return fmt.Errorf("%w: %q in chord %q", ErrDuplicateKey, k, d.ID)
			}
			seen[k] = struct{}{}
		}
	case TypeCombo:
		if len(d.Keys) == 0 {
			return fmt.Errorf("%w: combo %q", ErrNoKeys, d.ID)
		}
		if len(d.Keys) < 2 {
			return fmt.Errorf("%w: combo %q", ErrComboTooShort, d.ID)
		}
	case TypeHold:
		if d.Key == key.KeyNone {
			return fmt.Errorf("%w: hold %q", ErrNoHoldKey, d.ID)
		}
		if d.MinHold <= 0 {
			return fmt.Errorf("%w: hold %q", ErrInvalidMinHold, d.ID)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownType, d.ID)
	}
	return nil
}

// clone returns a deep copy so registered definitions stay immutable
// even if the caller mutates its slice afterwards.
func (d Definition) clone() Definition {
	if d.Keys != nil {
		keys := make([]key.Key, len(d.Keys))
		copy(keys, d.Keys)
		d.Keys = keys
	}
	return d
}
