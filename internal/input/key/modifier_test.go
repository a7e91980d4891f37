package key

import "testing"

func TestModifierHas(t *testing.T) {
	m := ModCtrl.With(ModShift)

	if !m.HasCtrl() {
		t.Error("expected Ctrl to be set")
	}
	if !m.HasShift() {
		t.Error("expected Shift to be set")
	}
	if m.HasAlt() {
		t.Error("Alt should not be set")
	}
	if m.HasMeta() {
		t.Error("Meta should not be set")
	}
	if !m.Has(ModCtrl | ModShift) {
		t.Error("Has should require all flags in the argument")
	}
	if m.Has(ModCtrl | ModAlt) {
		t.Error("Has(Ctrl|Alt) should be false when Alt is clear")
	}
}

func TestModifierWithWithout(t *testing.T) {
	m := ModNone.With(ModAlt).With(ModMeta)
	if !m.HasAlt() || !m.HasMeta() {
		t.Fatalf("With failed: %v", m)
	}

	m = m.Without(ModAlt)
	if m.HasAlt() {
		t.Error("Without(Alt) left Alt set")
	}
	if !m.HasMeta() {
		t.Error("Without(Alt) cleared Meta")
	}

	if !ModNone.IsEmpty() {
		t.Error("ModNone should be empty")
	}
	if m.IsEmpty() {
		t.Error("Meta-only modifier should not be empty")
	}
}

func TestModifierString(t *testing.T) {
	tests := []struct {
		mod  Modifier
		want string
	}{
		{ModNone, ""},
		{ModCtrl, "Ctrl"},
		{ModShift, "Shift"},
		{ModCtrl | ModShift, "Ctrl+Shift"},
		{ModCtrl | ModShift | ModAlt | ModMeta, "Ctrl+Shift+Alt+Meta"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.mod.String(); got != tt.want {
				t.Errorf("Modifier.String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestModifierKey(t *testing.T) {
	if got := ModShift.Key(); got != KeyShift {
		t.Errorf("ModShift.Key() = %v, want Shift", got)
	}
	if got := (ModCtrl | ModShift).Key(); got != KeyNone {
		t.Errorf("combined modifier Key() = %v, want None", got)
	}
	if got := ModNone.Key(); got != KeyNone {
		t.Errorf("ModNone.Key() = %v, want None", got)
	}
}

func TestModifierSplit(t *testing.T) {
	m := ModMeta | ModCtrl
	got := m.Split()
	if len(got) != 2 || got[0] != ModCtrl || got[1] != ModMeta {
		t.Errorf("Split() = %v, want [Ctrl Meta]", got)
	}
	if got := ModNone.Split(); got != nil {
		t.Errorf("ModNone.Split() = %v, want nil", got)
	}
}

func TestModifierFromName(t *testing.T) {
	tests := []struct {
		name string
		want Modifier
	}{
		{"ctrl", ModCtrl},
		{"Control", ModCtrl},
		{"shift", ModShift},
		{"alt", ModAlt},
		{"option", ModAlt},
		{"meta", ModMeta},
		{"cmd", ModMeta},
		{"super", ModMeta},
		{"enter", ModNone},
		{"", ModNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ModifierFromName(tt.name); got != tt.want {
				t.Errorf("ModifierFromName(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestSideString(t *testing.T) {
	tests := []struct {
		side Side
		want string
	}{
		{SideNone, "standard"},
		{SideLeft, "left"},
		{SideRight, "right"},
		{SideNumpad, "numpad"},
	}

	for _, tt := range tests {
		if got := tt.side.String(); got != tt.want {
			t.Errorf("Side(%d).String() = %q, want %q", tt.side, got, tt.want)
		}
	}
}
