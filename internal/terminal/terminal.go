// Package terminal manages the keyboard-protocol enhancement layer that
// Raw-mode chord interpretation depends on to see modifier-bearing key
// events instead of plain runes (§4.2: "Shift is reported as an explicit
// modifier").
//
// Bubble Tea tracks the Kitty keyboard protocol's progressive-enhancement
// stack itself, per-screen, through its own renderer — "the main screen and
// alternate screen have their own Kitty keyboard state stack" (see the
// vendored bubbletea's own requestKeyboardEnhancements). Writing the push/pop
// escape sequences directly to stdout outside of that renderer would race
// the alt-screen switch and target the wrong stack entirely, so this
// package's Guard only ever drives the real API: tea.RequestKeyDisambiguation
// / tea.RequestUniformKeyLayout as the push, tea.DisableKeyboardEnhancements
// as the pop, both sent as Cmds through the running Program.
//
// The scoped-acquisition shape mirrors internal/applock: a layer is tracked
// as acquired only once the push Cmd has been handed to Bubble Tea, and
// Release is idempotent so it is safe to call from every exit path,
// including a panicking study session.
package terminal

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Guard tracks whether this run has requested the keyboard-enhancement
// layer, so Release pops it at most once.
type Guard struct {
	acquired bool
}

// Acquire returns a Guard and the Cmd that requests the keyboard
// enhancements Raw mode depends on. The caller must return the Cmd from
// Model.Init so Bubble Tea sends the request through its own renderer; the
// terminal's support (or lack of it) for what was requested arrives later as
// a tea.KeyboardEnhancementsMsg.
func Acquire() (*Guard, tea.Cmd) {
	return &Guard{acquired: true}, tea.Batch(tea.RequestKeyDisambiguation, tea.RequestUniformKeyLayout)
}

// Release returns the Cmd that pops this guard's enhancement layer, or nil
// if Acquire was never called or Release already ran. Safe to call more
// than once; only the first call produces a Cmd.
func (g *Guard) Release() tea.Cmd {
	if g == nil || !g.acquired {
		return nil
	}
	g.acquired = false
	return tea.DisableKeyboardEnhancements
}

// Acquired reports whether this guard currently owns a requested layer.
func (g *Guard) Acquired() bool {
	return g != nil && g.acquired
}
