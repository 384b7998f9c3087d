// Package interpret translates raw terminal key events into keybind
// chords, with the translation strategy selected once per session from the
// active deck's mode rather than branched at every comparison site.
//
// Event deliberately does not depend on any terminal/TUI library type: the
// adapter that owns the real event loop is responsible for turning its
// library's key message into an Event before calling Interpret.
package interpret

import (
	"strings"
	"unicode"

	"github.com/dbalmain/kbsr/internal/keybind"
)

// Mode selects how a raw Event is turned into a chord candidate. It mirrors
// the input mode a deck declares for its cards.
type Mode int

const (
	// ModeRaw takes (modifiers, key) verbatim.
	ModeRaw Mode = iota
	// ModeChars derives a printable character from Shift + key when
	// possible, stripping Shift from the resulting chord's modifiers.
	ModeChars
	// ModeCommand treats each keystroke as literal text entry: Enter is a
	// submit signal, Backspace deletes the last accepted chord, every
	// character key (and Space) yields an unmodified literal-character
	// chord, and any other named key is ignored.
	ModeCommand
)

// String renders the mode's lowercase directive name.
func (m Mode) String() string {
	switch m {
	case ModeChars:
		return "chars"
	case ModeCommand:
		return "command"
	default:
		return "raw"
	}
}

// ParseMode maps the deck-declared mode name to a Mode, defaulting to
// ModeRaw for an unrecognized or empty string.
func ParseMode(name string) Mode {
	switch strings.ToLower(name) {
	case "chars":
		return ModeChars
	case "command":
		return ModeCommand
	default:
		return ModeRaw
	}
}

// Event is a single raw key press as reported by the terminal, including
// the Kitty-protocol-style enhanced modifier set (Shift reported
// explicitly rather than folded into the rune case).
type Event struct {
	Modifiers   keybind.Modifier
	Key         keybind.Key
	IsEnter     bool
	IsBackspace bool
}

// Signal is an out-of-band result of interpreting an event that the
// matcher must react to without it being a chord in the expected sequence.
type Signal int

const (
	// SignalNone means the event produced an ordinary chord candidate.
	SignalNone Signal = iota
	// SignalSubmit means the user pressed Enter in command mode.
	SignalSubmit
	// SignalBackspace means the user pressed Backspace in command mode and
	// the last accepted chord in the in-progress buffer should be removed.
	SignalBackspace
	// SignalIgnore means the event carries no chord (e.g. a bare modifier
	// press) and should be dropped silently.
	SignalIgnore
)

// Interpret converts a raw Event into a chord candidate under the given
// mode, or a Signal when the event is not an ordinary chord.
func Interpret(mode Mode, ev Event) (keybind.Chord, Signal) {
	switch mode {
	case ModeCommand:
		return interpretCommand(ev)
	case ModeChars:
		return interpretChars(ev)
	default:
		return interpretRaw(ev)
	}
}

func interpretRaw(ev Event) (keybind.Chord, Signal) {
	if ev.Key == (keybind.Key{}) {
		return keybind.Chord{}, SignalIgnore
	}
	return keybind.Chord{Modifiers: ev.Modifiers, Key: ev.Key}, SignalNone
}

func interpretChars(ev Event) (keybind.Chord, Signal) {
	if ev.Key == (keybind.Key{}) {
		return keybind.Chord{}, SignalIgnore
	}

	if ev.Key.Kind != keybind.KindRune || ev.Modifiers&keybind.Shift == 0 {
		return keybind.Chord{Modifiers: ev.Modifiers, Key: ev.Key}, SignalNone
	}

	shifted, ok := shiftRune(ev.Key.Rune)
	if !ok {
		return keybind.Chord{Modifiers: ev.Modifiers, Key: ev.Key}, SignalNone
	}

	return keybind.Chord{
		Modifiers: ev.Modifiers &^ keybind.Shift,
		Key:       keybind.Key{Kind: keybind.KindRune, Rune: shifted},
	}, SignalNone
}

func interpretCommand(ev Event) (keybind.Chord, Signal) {
	if ev.IsEnter {
		return keybind.Chord{}, SignalSubmit
	}
	if ev.IsBackspace {
		return keybind.Chord{}, SignalBackspace
	}
	if ev.Key == (keybind.Key{}) {
		return keybind.Chord{}, SignalIgnore
	}

	r := ev.Key.Rune
	if ev.Key.Kind == keybind.KindNamed && ev.Key.Name == "Space" {
		r = ' '
	}
	if r == 0 {
		return keybind.Chord{}, SignalIgnore
	}
	return keybind.Chord{Key: keybind.Key{Kind: keybind.KindRune, Rune: r}}, SignalNone
}

// shiftedSymbols maps the unshifted US-layout symbol to its shifted form.
var shiftedSymbols = map[rune]rune{
	'1': '!', '2': '@', '3': '#', '4': '$', '5': '%',
	'6': '^', '7': '&', '8': '*', '9': '(', '0': ')',
	'-': '_', '=': '+', '[': '{', ']': '}', '\\': '|',
	';': ':', '\'': '"', ',': '<', '.': '>', '/': '?',
	'`': '~',
}

// shiftRune returns the character Shift+r would produce on a US layout, and
// false if there is no defined shifted form (e.g. named keys are handled
// elsewhere and never reach here).
func shiftRune(r rune) (rune, bool) {
	if unicode.IsLower(r) {
		return unicode.ToUpper(r), true
	}
	if shifted, ok := shiftedSymbols[r]; ok {
		return shifted, true
	}
	return 0, false
}
