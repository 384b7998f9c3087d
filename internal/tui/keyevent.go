package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dbalmain/kbsr/internal/keybind"
	"github.com/dbalmain/kbsr/internal/keybind/interpret"
)

// bubbleNamedKeys maps bubbletea's KeyMsg.String() token for a named key to
// the keybind package's canonical name. bubbletea and keybind independently
// settled on almost the same vocabulary; this table only needs to cover
// where they diverge or where bubbletea's token is multi-word.
var bubbleNamedKeys = map[string]string{
	"enter":     "Enter",
	"tab":       "Tab",
	"backspace": "Backspace",
	"esc":       "Esc",
	"escape":    "Esc",
	"up":        "Up",
	"down":      "Down",
	"left":      "Left",
	"right":     "Right",
	"home":      "Home",
	"end":       "End",
	"pgup":      "PgUp",
	"pgdown":    "PgDown",
	"delete":    "Delete",
	"insert":    "Insert",
	"caps lock": "CapsLock",
	"print":     "Print",
	"pause":     "Pause",
	"menu":      "Menu",
	"space":     "Space",
	"f1":        "F1", "f2": "F2", "f3": "F3", "f4": "F4",
	"f5": "F5", "f6": "F6", "f7": "F7", "f8": "F8",
	"f9": "F9", "f10": "F10", "f11": "F11", "f12": "F12",
}

// eventFromKeyMsg turns a bubbletea key message into an interpret.Event.
// bubbletea's KeyMsg.String() renders a "+"-joined token list ("ctrl+alt+a",
// "shift+tab", "a"). Model.Init requests the Kitty disambiguation and
// uniform-key-layout enhancements (internal/terminal.Acquire) so that, on a
// terminal that honors them, this token list carries an explicit Shift
// modifier instead of folding it into a shifted rune; token-splitting it is
// both the simplest and the least version-fragile way to recover modifiers
// without depending on bubbletea's internal enhanced-key struct layout.
func eventFromKeyMsg(msg tea.KeyMsg) interpret.Event {
	tokens := strings.Split(msg.String(), "+")
	last := tokens[len(tokens)-1]

	var mods keybind.Modifier
	for _, tok := range tokens[:len(tokens)-1] {
		switch tok {
		case "ctrl":
			mods |= keybind.Ctrl
		case "alt":
			mods |= keybind.Alt
		case "shift":
			mods |= keybind.Shift
		case "super", "cmd":
			mods |= keybind.Super
		case "meta":
			mods |= keybind.Meta
		case "hyper":
			mods |= keybind.Hyper
		}
	}

	ev := interpret.Event{Modifiers: mods}

	if name, ok := bubbleNamedKeys[last]; ok {
		ev.Key = keybind.Key{Kind: keybind.KindNamed, Name: name}
		ev.IsEnter = name == "Enter"
		ev.IsBackspace = name == "Backspace"
		return ev
	}

	runes := []rune(last)
	if len(runes) == 1 {
		ev.Key = keybind.Key{Kind: keybind.KindRune, Rune: runes[0]}
	} else {
		// Unrecognized multi-rune token (e.g. a paste burst folded into one
		// KeyMsg): fall back to the first rune rather than dropping the
		// event entirely.
		if len(runes) > 0 {
			ev.Key = keybind.Key{Kind: keybind.KindRune, Rune: runes[0]}
		}
	}
	return ev
}
