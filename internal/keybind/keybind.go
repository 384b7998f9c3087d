// Package keybind parses keybind expressions into canonical chord
// sequences and renders them back to their canonical textual form.
//
// The grammar is deliberately small: an expression is whitespace-separated
// chord tokens, and a chord token is a "+"-joined list of modifier names
// followed by exactly one key token. Parsing and printing are designed to
// round-trip: the String form of a parsed sequence always lists modifiers
// in the canonical order even if the input did not use it.
package keybind

import (
	"fmt"
	"strconv"
	"strings"

	kbserrors "github.com/dbalmain/kbsr/internal/errors"
)

// Modifier is a bitset drawn from {Ctrl, Alt, Shift, Super, Meta, Hyper}.
type Modifier uint8

const (
	Ctrl Modifier = 1 << iota
	Alt
	Shift
	Super
	Meta
	Hyper
)

// modifierOrder is the canonical print order for modifiers.
var modifierOrder = []struct {
	mod  Modifier
	name string
}{
	{Ctrl, "Ctrl"},
	{Alt, "Alt"},
	{Shift, "Shift"},
	{Super, "Super"},
	{Meta, "Meta"},
	{Hyper, "Hyper"},
}

var modifierByName = map[string]Modifier{
	"ctrl":  Ctrl,
	"alt":   Alt,
	"shift": Shift,
	"super": Super,
	"meta":  Meta,
	"hyper": Hyper,
}

// String renders the modifier set in canonical order, e.g. "Ctrl+Alt".
func (m Modifier) String() string {
	var parts []string
	for _, e := range modifierOrder {
		if m&e.mod != 0 {
			parts = append(parts, e.name)
		}
	}
	return strings.Join(parts, "+")
}

// Has reports whether m contains every modifier in other.
func (m Modifier) Has(other Modifier) bool {
	return m&other == other
}

// KeyKind distinguishes a printable-character key from a named key (Enter,
// Tab, arrow keys, function keys, and so on).
type KeyKind int

const (
	KindRune KeyKind = iota
	KindNamed
)

// Key is a single non-modifier key: either a rune or a named key such as
// "Enter" or "F5". The zero Key is invalid.
type Key struct {
	Kind KeyKind
	Rune rune
	Name string
}

// String renders the key's bare display form, without modifiers.
func (k Key) String() string {
	switch k.Kind {
	case KindNamed:
		return k.Name
	default:
		if k.Rune == ' ' {
			return "Space"
		}
		return string(k.Rune)
	}
}

var namedKeys = map[string]string{
	"enter":       "Enter",
	"tab":         "Tab",
	"esc":         "Esc",
	"escape":      "Esc",
	"space":       "Space",
	"backspace":   "Backspace",
	"delete":      "Delete",
	"up":          "Up",
	"down":        "Down",
	"left":        "Left",
	"right":       "Right",
	"home":        "Home",
	"end":         "End",
	"pgup":        "PgUp",
	"pageup":      "PgUp",
	"pgdown":      "PgDown",
	"pagedown":    "PgDown",
	"insert":      "Insert",
	"capslock":    "CapsLock",
	"lock":        "CapsLock",
	"print":       "Print",
	"printscreen": "Print",
	"pause":       "Pause",
	"menu":        "Menu",
}

// Chord is a simultaneous combination of a modifier set and one key.
// Equality is componentwise on (Modifiers, Key).
type Chord struct {
	Modifiers Modifier
	Key       Key
}

// String renders the chord in canonical form: "Ctrl+Alt+F".
func (c Chord) String() string {
	mods := c.Modifiers.String()
	key := c.Key.String()
	if mods == "" {
		return key
	}
	return mods + "+" + key
}

// ChordSeq is an ordered, non-empty sequence of chords typed one after
// another, e.g. "Ctrl+K Ctrl+C".
type ChordSeq []Chord

// String renders a chord sequence in canonical form, chords separated by
// single spaces.
func (s ChordSeq) String() string {
	parts := make([]string, len(s))
	for i, c := range s {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}

// Equal reports whether two chord sequences are componentwise equal.
func (s ChordSeq) Equal(other ChordSeq) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Parse parses a keybind expression such as "Ctrl+K Ctrl+C" into a
// canonical ChordSeq. Modifier names are case-insensitive; duplicate
// modifiers within one chord token are an error. If any chord token fails
// to parse, the whole expression fails with an InvalidKeybindError
// carrying the byte offset of the offending token.
func Parse(expr string) (ChordSeq, error) {
	fields := splitFields(expr)
	if len(fields) == 0 {
		return nil, kbserrors.NewInvalidKeybindError(expr, "empty keybind expression", 0)
	}

	seq := make(ChordSeq, 0, len(fields))
	for _, f := range fields {
		chord, err := parseChordToken(f.text)
		if err != nil {
			return nil, kbserrors.NewInvalidKeybindError(expr, err.Error(), f.offset)
		}
		seq = append(seq, chord)
	}
	return seq, nil
}

type field struct {
	text   string
	offset int
}

// splitFields splits on whitespace while tracking each token's byte offset
// in the original string, so parse errors can report a position.
func splitFields(expr string) []field {
	var fields []field
	inField := false
	start := 0
	for i, r := range expr {
		if r == ' ' || r == '\t' || r == '\n' {
			if inField {
				fields = append(fields, field{expr[start:i], start})
				inField = false
			}
			continue
		}
		if !inField {
			start = i
			inField = true
		}
	}
	if inField {
		fields = append(fields, field{expr[start:], start})
	}
	return fields
}

func parseChordToken(token string) (Chord, error) {
	// The "+" key must be written last ("Ctrl++"): the token ends in two
	// consecutive "+" where the first is the modifier-list separator and
	// the second is the literal key, not a trailing, key-less separator.
	if strings.HasSuffix(token, "++") {
		return parseChordWithPlusKey(token)
	}

	parts := strings.Split(token, "+")
	if len(parts) == 0 || parts[len(parts)-1] == "" {
		return Chord{}, fmt.Errorf("chord token %q has no key", token)
	}

	keyPart := parts[len(parts)-1]
	mods, err := parseModifiers(parts[:len(parts)-1], token)
	if err != nil {
		return Chord{}, err
	}

	key, err := parseKey(keyPart)
	if err != nil {
		return Chord{}, fmt.Errorf("chord %q: %w", token, err)
	}

	return Chord{Modifiers: mods, Key: key}, nil
}

// parseChordWithPlusKey handles a token ending in "++": the literal "+" key
// preceded by its modifier list and separator, e.g. "Ctrl++" or just "++"
// (Ctrl held, or no modifiers, plus the "+" key).
func parseChordWithPlusKey(token string) (Chord, error) {
	modExpr := strings.TrimSuffix(token[:len(token)-1], "+")
	var modParts []string
	if modExpr != "" {
		modParts = strings.Split(modExpr, "+")
	}

	mods, err := parseModifiers(modParts, token)
	if err != nil {
		return Chord{}, err
	}

	return Chord{Modifiers: mods, Key: Key{Kind: KindRune, Rune: '+'}}, nil
}

func parseModifiers(modParts []string, token string) (Modifier, error) {
	var mods Modifier
	for _, mp := range modParts {
		mod, ok := modifierByName[strings.ToLower(mp)]
		if !ok {
			return 0, fmt.Errorf("unknown modifier %q in chord %q", mp, token)
		}
		if mods.Has(mod) {
			return 0, fmt.Errorf("duplicate modifier %q in chord %q", mp, token)
		}
		mods |= mod
	}
	return mods, nil
}

func parseKey(s string) (Key, error) {
	lower := strings.ToLower(s)
	if name, ok := namedKeys[lower]; ok {
		return Key{Kind: KindNamed, Name: name}, nil
	}
	if strings.HasPrefix(lower, "f") {
		if n, err := strconv.Atoi(s[1:]); err == nil && n >= 1 && n <= 20 {
			return Key{Kind: KindNamed, Name: "F" + strconv.Itoa(n)}, nil
		}
	}
	runes := []rune(s)
	if len(runes) == 1 {
		return Key{Kind: KindRune, Rune: runes[0]}, nil
	}
	return Key{}, fmt.Errorf("unrecognized key %q", s)
}
