package key

import (
	"errors"
	"testing"
)

func TestParseSpec(t *testing.T) {
	tests := []struct {
		spec     string
		wantKey  Key
		wantMods Modifier
	}{
		{"a", "a", ModNone},
		{"A", "a", ModShift},
		{"5", "5", ModNone},
		{"Enter", KeyEnter, ModNone},
		{"escape", KeyEscape, ModNone},
		{"Ctrl+s", "s", ModCtrl},
		{"Ctrl+S", "s", ModCtrl | ModShift},
		{"Ctrl+Shift+p", "p", ModCtrl | ModShift},
		{"Alt+F4", KeyF4, ModAlt},
		{"Meta+ArrowUp", KeyArrowUp, ModMeta},
		{"Cmd+Space", KeySpace, ModMeta},
		{"Ctrl++", "+", ModCtrl},
		{"  Ctrl+x  ", "x", ModCtrl},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			k, mods, err := ParseSpec(tt.spec)
			if err != nil {
				t.Fatalf("ParseSpec(%q) error: %v", tt.spec, err)
			}
			if k != tt.wantKey {
				t.Errorf("key = %q, want %q", k, tt.wantKey)
			}
			if mods != tt.wantMods {
				t.Errorf("mods = %v, want %v", mods, tt.wantMods)
			}
		})
	}
}

func TestParseSpecErrors(t *testing.T) {
	tests := []struct {
		spec    string
		wantErr error
	}{
		{"", ErrEmptySpec},
		{"   ", ErrEmptySpec},
		{"Bogus+a", ErrInvalidSpec},
		{"Ctrl+NotAKey", ErrInvalidSpec},
		{"NotAKey", ErrInvalidSpec},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			_, _, err := ParseSpec(tt.spec)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ParseSpec(%q) error = %v, want %v", tt.spec, err, tt.wantErr)
			}
		})
	}
}

func TestFormatSpecRoundTrip(t *testing.T) {
	tests := []struct {
		key  Key
		mods Modifier
		want string
	}{
		{Key("s"), ModCtrl, "Ctrl+s"},
		{KeyEnter, ModNone, "Enter"},
		{KeyF4, ModAlt, "Alt+F4"},
		{Key("p"), ModCtrl | ModShift, "Ctrl+Shift+p"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got := FormatSpec(tt.key, tt.mods)
			if got != tt.want {
				t.Fatalf("FormatSpec = %q, want %q", got, tt.want)
			}
			k, mods, err := ParseSpec(got)
			if err != nil {
				t.Fatalf("re-parse error: %v", err)
			}
			if k != tt.key || mods != tt.mods {
				t.Errorf("round trip = (%q, %v), want (%q, %v)", k, mods, tt.key, tt.mods)
			}
		})
	}
}

func TestMustParseSpecPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustParseSpec should panic on invalid spec")
		}
	}()
	MustParseSpec("NotAKey")
}
