// Package key defines the canonical key vocabulary for the input engine.
//
// Raw platform key codes vary by operating system, browser, and layout.
// This package maps them onto a stable set of canonical identifiers:
//
//   - Key: an opaque string identifier for a physical key ("a", "Shift",
//     "Enter", "ArrowUp"). The same physical key always normalizes to the
//     same Key on every supported platform.
//   - Side: the physical location of a key with duplicates (left/right
//     modifiers, numpad variants). Duplicates collapse to one canonical
//     Key while their physical side remains queryable.
//   - Modifier: bitflags for Ctrl, Shift, Alt, and Meta.
//
// Normalization is a pure function over the raw code plus a static quirk
// table. Adding a quirk never changes the meaning of an existing canonical
// identifier, so consumer logic keyed on key names stays valid.
package key
