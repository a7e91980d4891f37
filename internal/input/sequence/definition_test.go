package sequence

import (
	"testing"
	"time"

	"github.com/dshills/normkeys/internal/input/key"
)

func TestTypeFromName(t *testing.T) {
	tests := []struct {
		name string
		want Type
		ok   bool
	}{
		{"chord", TypeChord, true},
		{"combo", TypeCombo, true},
		{"hold", TypeHold, true},
		{"swipe", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, ok := TypeFromName(tt.name)
		if got != tt.want || ok != tt.ok {
			t.Errorf("TypeFromName(%q) = %v, %v; want %v, %v", tt.name, got, ok, tt.want, tt.ok)
		}
	}
}

func TestNormalizeDefaults(t *testing.T) {
	d := Combo("ab", 0, "a", "b")
	d.normalize()
	if d.Timeout != DefaultComboTimeout {
		t.Errorf("Timeout = %v, want %v", d.Timeout, DefaultComboTimeout)
	}

	// A hold given a one-element key list adopts it as the trigger.
	h := Definition{ID: "h", Type: TypeHold, Keys: []key.Key{"f"}, MinHold: time.Second}
	h.normalize()
	if h.Key != "f" {
		t.Errorf("Key = %q after normalize, want f", h.Key)
	}
	if err := h.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestCloneIsolation(t *testing.T) {
	m := NewMatcher()
	keys := []key.Key{"a", "b"}
	if err := m.Register(Chord("c", keys...)); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	keys[0] = "z"
	defs := m.Definitions()
	if defs[0].Keys[0] != "a" {
		t.Errorf("registered definition shares the caller's slice")
	}
}
