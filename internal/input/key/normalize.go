package key

import "strings"

// mapping is one entry in the platform quirk table.
type mapping struct {
	key  Key
	side Side
}

// codeTable maps raw platform key codes (DOM KeyboardEvent.code style)
// to canonical keys. Entries are additive: a new quirk may introduce a
// new raw code but never changes what an existing code normalizes to.
var codeTable = map[string]mapping{
	// Duplicated modifiers collapse to one canonical identity.
	"ShiftLeft":    {KeyShift, SideLeft},
	"ShiftRight":   {KeyShift, SideRight},
	"ControlLeft":  {KeyControl, SideLeft},
	"ControlRight": {KeyControl, SideRight},
	"AltLeft":      {KeyAlt, SideLeft},
	"AltRight":     {KeyAlt, SideRight},
	"MetaLeft":     {KeyMeta, SideLeft},
	"MetaRight":    {KeyMeta, SideRight},

	// Legacy and per-browser modifier spellings.
	"OSLeft":  {KeyMeta, SideLeft},
	"OSRight": {KeyMeta, SideRight},

	// AltGr decomposes to the canonical Alt on its right side.
	"AltGraph": {KeyAlt, SideRight},

	// Named keys.
	"Enter":       {KeyEnter, SideNone},
	"Tab":         {KeyTab, SideNone},
	"Space":       {KeySpace, SideNone},
	"Backspace":   {KeyBackspace, SideNone},
	"Delete":      {KeyDelete, SideNone},
	"Insert":      {KeyInsert, SideNone},
	"Escape":      {KeyEscape, SideNone},
	"ArrowUp":     {KeyArrowUp, SideNone},
	"ArrowDown":   {KeyArrowDown, SideNone},
	"ArrowLeft":   {KeyArrowLeft, SideNone},
	"ArrowRight":  {KeyArrowRight, SideNone},
	"Home":        {KeyHome, SideNone},
	"End":         {KeyEnd, SideNone},
	"PageUp":      {KeyPageUp, SideNone},
	"PageDown":    {KeyPageDown, SideNone},
	"CapsLock":    {KeyCapsLock, SideNone},
	"NumLock":     {KeyNumLock, SideNone},
	"ScrollLock":  {KeyScrollLock, SideNone},
	"Pause":       {KeyPause, SideNone},
	"PrintScreen": {KeyPrintScreen, SideNone},
	"ContextMenu": {KeyContextMenu, SideNone},

	// Punctuation row.
	"Backquote":    {"`", SideNone},
	"Minus":        {"-", SideNone},
	"Equal":        {"=", SideNone},
	"BracketLeft":  {"[", SideNone},
	"BracketRight": {"]", SideNone},
	"Backslash":    {"\\", SideNone},
	"Semicolon":    {";", SideNone},
	"Quote":        {"'", SideNone},
	"Comma":        {",", SideNone},
	"Period":       {".", SideNone},
	"Slash":        {"/", SideNone},
	"IntlBackslash": {"\\", SideNone},

	// Numpad keys normalize to their plain equivalents. The numpad
	// origin stays queryable through the Side and IsNumpadCode.
	"NumpadEnter":    {KeyEnter, SideNumpad},
	"NumpadAdd":      {"+", SideNumpad},
	"NumpadSubtract": {"-", SideNumpad},
	"NumpadMultiply": {"*", SideNumpad},
	"NumpadDivide":   {"/", SideNumpad},
	"NumpadDecimal":  {".", SideNumpad},
	"NumpadEqual":    {"=", SideNumpad},
}

// Normalize maps a raw platform key code to its canonical Key and
// physical side. It is a pure function over the code and the static
// quirk table. The boolean result is false when the raw code carries
// no actionable key.
func Normalize(code string) (Key, Side, bool) {
	if code == "" {
		return KeyNone, SideNone, false
	}
	if m, ok := codeTable[code]; ok {
		return m.key, m.side, true
	}

	// Letter block: "KeyA".."KeyZ".
	if len(code) == 4 && strings.HasPrefix(code, "Key") {
		c := code[3]
		if c >= 'A' && c <= 'Z' {
			return Key(strings.ToLower(code[3:])), SideNone, true
		}
	}

	// Digit row: "Digit0".."Digit9".
	if len(code) == 6 && strings.HasPrefix(code, "Digit") {
		c := code[5]
		if c >= '0' && c <= '9' {
			return Key(code[5:]), SideNone, true
		}
	}

	// Numpad digits: "Numpad0".."Numpad9".
	if len(code) == 7 && strings.HasPrefix(code, "Numpad") {
		c := code[6]
		if c >= '0' && c <= '9' {
			return Key(code[6:]), SideNumpad, true
		}
	}

	// Function keys: "F1".."F24".
	if len(code) >= 2 && len(code) <= 3 && code[0] == 'F' && isDigits(code[1:]) {
		return Key(code), SideNone, true
	}

	// A bare canonical character key is already normalized. This lets
	// recorded canonical streams be replayed through the normalizer.
	if runes := []rune(code); len(runes) == 1 {
		return Key(strings.ToLower(code)), SideNone, true
	}

	return KeyNone, SideNone, false
}

// IsNumpadCode reports whether a raw code originates from the numpad.
func IsNumpadCode(code string) bool {
	return strings.HasPrefix(code, "Numpad")
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return len(s) > 0
}
