// Package matcher tracks progress through an expected chord sequence as
// raw terminal events arrive, across the three input-mode interpretation
// strategies exposed by keybind/interpret.
package matcher

import (
	"strings"
	"time"

	"github.com/dbalmain/kbsr/internal/keybind"
	"github.com/dbalmain/kbsr/internal/keybind/interpret"
)

// Outcome classifies the result of driving the matcher with one event.
type Outcome int

const (
	// OutcomeNone means the event produced no externally visible change
	// (ignored event, command-mode character buffered, backspace applied).
	OutcomeNone Outcome = iota
	// OutcomeProgress means a chord matched and more are expected.
	OutcomeProgress
	// OutcomeWrong means a chord did not match; the match restarts from
	// the beginning of the expected sequence.
	OutcomeWrong
	// OutcomeComplete means the full expected sequence has now been typed.
	OutcomeComplete
	// OutcomeTimeout means the per-card timer elapsed before completion.
	// The matcher keeps accepting input after this.
	OutcomeTimeout
	// OutcomeReveal means the answer is now shown: either max_attempts was
	// reached or the user pressed Escape outside command mode. The match
	// must still be completed to leave the card, but the rating locks to
	// Again.
	OutcomeReveal
)

// Result reports the outcome of driving the matcher with a single event.
type Result struct {
	Outcome  Outcome
	Index    int           // chords matched so far (0 in command mode until submit)
	Attempts int           // wrong attempts so far
	Elapsed  time.Duration // only meaningful on OutcomeComplete
}

// Matcher holds progressive-match state for one presented card.
type Matcher struct {
	expected    keybind.ChordSeq
	mode        interpret.Mode
	maxAttempts int
	timeout     time.Duration

	index     int
	accepted  keybind.ChordSeq
	attempts  int
	startedAt time.Time
	started   bool

	cmdBuf []keybind.Chord

	revealed bool // Again-locked: either timed out or manually/auto revealed
}

// New creates a Matcher for an expected chord sequence under the given
// input mode.
func New(expected keybind.ChordSeq, mode interpret.Mode, maxAttempts int, timeout time.Duration) *Matcher {
	return &Matcher{
		expected:    expected,
		mode:        mode,
		maxAttempts: maxAttempts,
		timeout:     timeout,
	}
}

// Revealed reports whether the rating for this presentation is locked to
// Again because of a reveal or timeout.
func (m *Matcher) Revealed() bool {
	return m.revealed
}

// Attempts returns the number of wrong attempts taken so far.
func (m *Matcher) Attempts() int {
	return m.attempts
}

// Drive advances the matcher with one raw event at time now.
func (m *Matcher) Drive(now time.Time, ev interpret.Event) Result {
	if m.mode != interpret.ModeCommand && ev.Key.Kind == keybind.KindNamed && ev.Key.Name == "Esc" {
		return m.reveal()
	}

	chord, sig := interpret.Interpret(m.mode, ev)

	switch sig {
	case interpret.SignalIgnore:
		return Result{Outcome: OutcomeNone, Index: m.index, Attempts: m.attempts}
	case interpret.SignalBackspace:
		if len(m.cmdBuf) > 0 {
			m.cmdBuf = m.cmdBuf[:len(m.cmdBuf)-1]
		}
		return Result{Outcome: OutcomeNone, Index: m.index, Attempts: m.attempts}
	case interpret.SignalSubmit:
		return m.submit(now)
	default:
		if m.mode == interpret.ModeCommand {
			m.markStarted(now)
			m.cmdBuf = append(m.cmdBuf, chord)
			return Result{Outcome: OutcomeNone, Index: m.index, Attempts: m.attempts}
		}
		return m.compare(now, chord)
	}
}

// CheckTimeout should be called on each timer tick while awaiting input. It
// emits OutcomeTimeout once when the deadline passes; the matcher keeps
// accepting input afterward.
func (m *Matcher) CheckTimeout(now time.Time) (Result, bool) {
	if m.revealed || !m.started || m.index >= len(m.expected) {
		return Result{}, false
	}
	if now.Sub(m.startedAt) < m.timeout {
		return Result{}, false
	}
	m.revealed = true
	return Result{Outcome: OutcomeTimeout, Index: m.index, Attempts: m.attempts}, true
}

func (m *Matcher) markStarted(now time.Time) {
	if !m.started {
		m.started = true
		m.startedAt = now
	}
}

func (m *Matcher) compare(now time.Time, candidate keybind.Chord) Result {
	m.markStarted(now)

	if candidate == m.expected[m.index] {
		m.accepted = append(m.accepted, candidate)
		m.index++
		if m.index == len(m.expected) {
			return Result{Outcome: OutcomeComplete, Index: m.index, Attempts: m.attempts, Elapsed: now.Sub(m.startedAt)}
		}
		return Result{Outcome: OutcomeProgress, Index: m.index, Attempts: m.attempts}
	}

	m.index = 0
	m.accepted = nil
	m.attempts++

	if m.maxAttempts > 0 && m.attempts >= m.maxAttempts && !m.revealed {
		m.revealed = true
		return Result{Outcome: OutcomeReveal, Index: m.index, Attempts: m.attempts}
	}
	return Result{Outcome: OutcomeWrong, Index: m.index, Attempts: m.attempts}
}

func (m *Matcher) submit(now time.Time) Result {
	m.markStarted(now)

	// The buffer is compared as the literal text typed (spaces included),
	// not as a rendered chord sequence.
	var typed strings.Builder
	for _, c := range m.cmdBuf {
		typed.WriteRune(c.Key.Rune)
	}
	want := m.expected.String()

	if typed.String() == want {
		result := Result{Outcome: OutcomeComplete, Index: len(m.expected), Attempts: m.attempts, Elapsed: now.Sub(m.startedAt)}
		m.index = len(m.expected)
		return result
	}

	m.cmdBuf = nil
	m.attempts++
	if m.maxAttempts > 0 && m.attempts >= m.maxAttempts && !m.revealed {
		m.revealed = true
		return Result{Outcome: OutcomeReveal, Index: m.index, Attempts: m.attempts}
	}
	return Result{Outcome: OutcomeWrong, Index: m.index, Attempts: m.attempts}
}

func (m *Matcher) reveal() Result {
	m.revealed = true
	return Result{Outcome: OutcomeReveal, Index: m.index, Attempts: m.attempts}
}
