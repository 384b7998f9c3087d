package tui

import (
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dbalmain/kbsr/internal/config"
	"github.com/dbalmain/kbsr/internal/keybind"
	"github.com/dbalmain/kbsr/internal/keybind/interpret"
	"github.com/dbalmain/kbsr/internal/matcher"
	"github.com/dbalmain/kbsr/internal/session"
)

// Update dispatches incoming messages. Global chords (pause/quit) are
// checked before any screen-specific handling so they work from every
// phase, per §6 ("quit chord to exit anywhere").
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		if s, ok := m.screen.(deckSelectionScreen); ok {
			s.list.SetSize(msg.Width, msg.Height-4)
			m.screen = s
		}
		return m, nil

	case decksLoadedMsg:
		return m.handleDecksLoaded(msg)

	case tea.KeyMsg:
		ev := eventFromKeyMsg(msg)
		rawChord := keybind.Chord{Modifiers: ev.Modifiers, Key: ev.Key}
		if matchesGlobalChord(rawChord, m.quitChord) {
			return m.handleQuit()
		}
		if matchesGlobalChord(rawChord, m.pauseChord) {
			return m.handlePause()
		}
		if s, ok := m.screen.(deckSelectionScreen); ok {
			return m.handleDeckSelectionKey(s, ev, msg)
		}
		return m.handleKey(ev)

	case tickMsg:
		return m.handleTick()

	case flashDoneMsg:
		return m.handleFlashDone()

	case tea.KeyboardEnhancementsMsg:
		m.logger.Debug("keyboard enhancements negotiated",
			"key_disambiguation", msg.SupportsKeyDisambiguation(),
			"key_releases", msg.SupportsKeyReleases(),
		)
		return m, nil
	}

	return m, nil
}

// matchesGlobalChord reports whether c equals the configured single-chord
// sequence seq. Pause and quit are always single chords (§6).
func matchesGlobalChord(c keybind.Chord, seq keybind.ChordSeq) bool {
	return len(seq) == 1 && c == seq[0]
}

func (m Model) handleDecksLoaded(msg decksLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.err = msg.err
		m.logger.Error("deck load failed", "error", msg.err)
		return m, tea.Quit
	}
	for _, w := range msg.warnings {
		m.logger.Warn("deck parse warning", "deck", w.Deck, "line", w.Line, "error", w.Err)
	}
	l := newDeckList(msg.decks, msg.dueCount)
	l.SetSize(m.width, m.height-4)
	m.screen = deckSelectionScreen{decks: msg.decks, warnings: msg.warnings, dueCount: msg.dueCount, list: l}
	return m, nil
}

func (m Model) handleQuit() (tea.Model, tea.Cmd) {
	m.quit = true
	return m, tea.Batch(m.termGuard.Release(), tea.Quit)
}

func (m Model) handlePause() (tea.Model, tea.Cmd) {
	if _, ok := m.screen.(pausedScreen); ok {
		return m, nil
	}
	m.screen = pausedScreen{prev: m.screen}
	return m, nil
}

func (m Model) handleKey(ev interpret.Event) (tea.Model, tea.Cmd) {
	switch s := m.screen.(type) {
	case pausedScreen:
		m.screen = s.prev
		return m, tickCmd()
	case studyingScreen:
		return m.handleStudyingKey(s, ev)
	case answerScreen:
		// The answer stays on screen until the sequence is typed correctly.
		next, cmd := m.handleStudyingKey(*s.prev, ev)
		if nm, ok := next.(Model); ok {
			if st, ok := nm.screen.(studyingScreen); ok {
				nm.screen = answerScreen{prev: &st}
				return nm, cmd
			}
		}
		return next, cmd
	default:
		return m, nil
	}
}

// handleDeckSelectionKey dispatches a key while the deck list is showing.
// Enter starts the session (every due card, per §4.6 — the list is a
// browsable summary, not a filter); every other key is forwarded to the
// list widget for navigation/filtering.
func (m Model) handleDeckSelectionKey(s deckSelectionScreen, ev interpret.Event, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if ev.Key.Kind != keybind.KindNamed || ev.Key.Name != "Enter" || s.list.FilterState() == list.Filtering {
		var cmd tea.Cmd
		s.list, cmd = s.list.Update(msg)
		m.screen = s
		return m, cmd
	}

	engine, err := session.New(m.db, m.cfg, deckModeMap(s.decks), m.clock(), shuffleIfEnabled(m.cfg))
	if err != nil {
		m.err = err
		return m, tea.Quit
	}
	if engine.Empty() {
		m.screen = summaryScreen{ratings: map[matcher.Rating]int{}}
		return m, nil
	}

	m.startedAt = m.clock()
	study := studyingScreen{
		engine:    engine,
		deckModes: deckModeMap(s.decks),
		ratings:   map[matcher.Rating]int{},
	}
	m.screen = study.withNextCard(m.cfg)
	return m, tickCmd()
}

func (m Model) handleStudyingKey(s studyingScreen, ev interpret.Event) (tea.Model, tea.Cmd) {
	if s.card == nil {
		return m, nil
	}
	now := m.clock()
	result := s.matcher.Drive(now, ev)
	s.lastResult = result

	switch result.Outcome {
	case matcher.OutcomeReveal:
		m.screen = answerScreen{prev: &s}
		return m, nil

	case matcher.OutcomeComplete:
		rating := matcher.Rate(matcher.RatingInput{
			ChordCount:    len(s.card.Chords),
			Attempts:      result.Attempts + 1, // wrong attempts plus the completing one
			Presentations: exitEligiblePresentations(s.card),
			Elapsed:       result.Elapsed,
			Revealed:      s.matcher.Revealed(),
		}, m.cfg.EasyThresholdMs, m.cfg.HardThresholdMs)

		if _, err := s.engine.Score(s.card, rating, now, result.Elapsed, result.Attempts, s.matcher.Revealed()); err != nil {
			m.err = err
			return m, tea.Quit
		}
		s.reviewed++
		s.ratings[rating]++
		m.screen = successScreen{prev: &s, rating: rating}
		return m, flashDoneCmd(m.cfg.SuccessDelay())

	default:
		m.screen = s
		return m, nil
	}
}

// exitEligiblePresentations returns the presentations value to feed into
// matcher.Rate for a completed presentation. Presentations only gates the
// rating table while a card is chasing its first score (§4.4); once
// FirstShowScored is true, further re-presentations are pure muscle-memory
// practice aiming for an eventual Easy-timing exit (§4.6), so they're rated
// as if p were still 0 — otherwise a card that missed Easy on its first
// showing could never reach Easy again and would requeue forever.
func exitEligiblePresentations(sc *session.SessionCard) int {
	if sc.FirstShowScored {
		return 0
	}
	return sc.Presentations
}

func (m Model) handleTick() (tea.Model, tea.Cmd) {
	s, ok := m.screen.(studyingScreen)
	if !ok || s.card == nil {
		return m, nil
	}
	if _, timedOut := s.matcher.CheckTimeout(m.clock()); timedOut {
		m.screen = answerScreen{prev: &s}
		return m, nil
	}
	return m, tickCmd()
}

func (m Model) handleFlashDone() (tea.Model, tea.Cmd) {
	s, ok := m.screen.(successScreen)
	if !ok {
		return m, nil
	}
	return m.advanceFrom(*s.prev)
}

// advanceFrom dequeues the next card from s's engine, or transitions to
// Summary if the queue is now empty.
func (m Model) advanceFrom(s studyingScreen) (tea.Model, tea.Cmd) {
	if s.engine.Empty() {
		m.screen = summaryScreen{ratings: s.ratings, elapsed: m.clock().Sub(m.startedAt)}
		return m, nil
	}
	m.screen = s.withNextCard(m.cfg)
	return m, tickCmd()
}

// withNextCard dequeues the next card and builds a fresh matcher for it,
// returning the updated screen.
func (s studyingScreen) withNextCard(cfg *config.Config) studyingScreen {
	card := s.engine.Dequeue()
	s.card = card
	s.lastResult = matcher.Result{}
	if card == nil {
		return s
	}
	s.matcher = matcher.New(card.Chords, card.Mode, cfg.MaxAttempts, cfg.TimeoutDuration())
	return s
}

// shuffleIfEnabled returns a session.Shuffler using system entropy when
// cfg.ShuffleCards is set, or nil to preserve file order. Production uses
// system entropy (§9); a seeded source is only for tests, which call
// session.New directly with their own Shuffler.
func shuffleIfEnabled(cfg *config.Config) session.Shuffler {
	if !cfg.ShuffleCards {
		return nil
	}
	return shuffleSystemEntropy
}
