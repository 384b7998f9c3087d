// Package tui implements the interactive study screen: deck selection,
// presenting due cards, scoring typed chords, and the pause/summary
// overlays, wired to the session engine, matcher, and persistent store.
package tui

import (
	"fmt"
	"sort"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dbalmain/kbsr/internal/config"
	"github.com/dbalmain/kbsr/internal/deck"
	"github.com/dbalmain/kbsr/internal/keybind"
	"github.com/dbalmain/kbsr/internal/keybind/interpret"
	"github.com/dbalmain/kbsr/internal/logging"
	"github.com/dbalmain/kbsr/internal/matcher"
	"github.com/dbalmain/kbsr/internal/session"
	"github.com/dbalmain/kbsr/internal/store"
	"github.com/dbalmain/kbsr/internal/terminal"
)

// screen is the tagged-variant session state (§9): each concrete type
// carries only the fields its phase needs. The shared Model shell holds
// only what every phase needs regardless of which one is active.
type screen interface {
	isScreen()
}

// deckSelectionScreen lists the decks found in the decks directory with
// their due counts and waits for the user to start a session. The list is
// purely browsable (§1: widget choice is a renderer concern, not a core
// one) — Enter always studies every due card regardless of which row is
// highlighted, matching the session queue's "all cards whose due ≤ now"
// scope (§4.6).
type deckSelectionScreen struct {
	decks    []*deck.Deck
	warnings []deck.Warning
	dueCount map[string]int
	list     list.Model
}

// deckItem adapts a deck + its due count to bubbles/list's list.Item.
type deckItem struct {
	name string
	due  int
}

func (i deckItem) Title() string { return i.name }
func (i deckItem) Description() string {
	if i.due == 0 {
		return "nothing due"
	}
	return fmt.Sprintf("%d due", i.due)
}
func (i deckItem) FilterValue() string { return i.name }

// newDeckList builds the deck-selection list widget from loaded decks,
// sorted by name for a stable display order.
func newDeckList(decks []*deck.Deck, dueCount map[string]int) list.Model {
	names := make([]string, 0, len(decks))
	for _, d := range decks {
		names = append(names, d.Name)
	}
	sort.Strings(names)

	items := make([]list.Item, 0, len(names))
	for _, name := range names {
		items = append(items, deckItem{name: name, due: dueCount[name]})
	}

	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Decks"
	l.SetShowHelp(false)
	return l
}

// studyingScreen is the active presentation of one card from the session
// queue.
type studyingScreen struct {
	engine     *session.Engine
	deckModes  map[string]interpret.Mode
	card       *session.SessionCard
	matcher    *matcher.Matcher
	lastResult matcher.Result
	reviewed   int
	ratings    map[matcher.Rating]int
}

// successScreen is a brief confirmation flash after a card is matched,
// shown for cfg.SuccessDelay before returning to Studying (or Summary if
// the queue just emptied).
type successScreen struct {
	prev   *studyingScreen
	rating matcher.Rating
}

// answerScreen shows the revealed answer after max_attempts or an
// Escape-reveal; the user must still type the chord sequence correctly to
// advance.
type answerScreen struct {
	prev *studyingScreen
}

// pausedScreen is a snapshot of the interrupted phase, swapped in by move
// so resuming restores it exactly (§9: "Pause is a snapshot of the prior
// variant swapped in by move").
type pausedScreen struct {
	prev screen
}

// summaryScreen is shown once the session queue empties.
type summaryScreen struct {
	ratings map[matcher.Rating]int
	elapsed time.Duration
}

func (deckSelectionScreen) isScreen() {}
func (studyingScreen) isScreen()      {}
func (successScreen) isScreen()       {}
func (answerScreen) isScreen()        {}
func (pausedScreen) isScreen()        {}
func (summaryScreen) isScreen()       {}

// Model is the bubbletea shell: config, storage handle, scheduler
// parameters, and chord bindings, plus whichever screen variant is
// currently active.
type Model struct {
	cfg    *config.Config
	db     *store.DB
	logger *logging.Logger
	clock  func() time.Time

	pauseChord keybind.ChordSeq
	quitChord  keybind.ChordSeq

	termGuard  *terminal.Guard
	enhanceCmd tea.Cmd

	width, height int
	startedAt     time.Time

	screen screen
	err    error
	quit   bool
}

// New builds the initial Model in the DeckSelection phase. It acquires the
// keyboard-enhancement layer Raw mode depends on (§5); Model requests it in
// Init and releases it on quit.
func New(cfg *config.Config, db *store.DB, logger *logging.Logger, clock func() time.Time) Model {
	pause, pauseErr := cfg.PauseChord()
	if pauseErr != nil {
		logger.Warn("pause keybind fell back to default", "error", pauseErr)
	}
	quit, quitErr := cfg.QuitChord()
	if quitErr != nil {
		logger.Warn("quit keybind fell back to default", "error", quitErr)
	}

	guard, enhanceCmd := terminal.Acquire()

	return Model{
		cfg:        cfg,
		db:         db,
		logger:     logger,
		clock:      clock,
		pauseChord: pause,
		quitChord:  quit,
		termGuard:  guard,
		enhanceCmd: enhanceCmd,
		screen:     deckSelectionScreen{dueCount: map[string]int{}, list: newDeckList(nil, nil)},
	}
}

// Init loads decks, syncs them to the store, takes a startup backup, and
// requests the keyboard-enhancement layer through Bubble Tea's own renderer
// so the terminal's (un)support for it arrives later as a
// tea.KeyboardEnhancementsMsg.
func (m Model) Init() tea.Cmd {
	return tea.Batch(loadDecksCmd(m.cfg, m.db, m.clock), m.enhanceCmd)
}

// deckModeMap builds the deck-name → mode table session.New needs.
func deckModeMap(decks []*deck.Deck) map[string]interpret.Mode {
	modes := make(map[string]interpret.Mode, len(decks))
	for _, d := range decks {
		modes[d.Name] = d.Mode
	}
	return modes
}
