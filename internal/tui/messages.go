package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dbalmain/kbsr/internal/config"
	"github.com/dbalmain/kbsr/internal/deck"
	"github.com/dbalmain/kbsr/internal/store"
)

// decksLoadedMsg carries the result of parsing and syncing the decks
// directory, reported once at startup.
type decksLoadedMsg struct {
	decks    []*deck.Deck
	warnings []deck.Warning
	dueCount map[string]int
	err      error
}

// tickMsg drives the per-card timeout check once per second, mirroring the
// teacher's tick-driven Update loop.
type tickMsg time.Time

// flashDoneMsg fires after the success/fail flash delay elapses.
type flashDoneMsg struct{}

// loadDecksCmd parses the decks directory, syncs it into the store (§4.7),
// and reports each deck's due count for the DeckSelection screen.
func loadDecksCmd(cfg *config.Config, db *store.DB, now func() time.Time) tea.Cmd {
	return func() tea.Msg {
		if err := store.Backup(cfg.DBPath, now()); err != nil {
			return decksLoadedMsg{err: err}
		}

		decks, warnings, err := deck.ParseDir(cfg.DecksDir)
		if err != nil {
			return decksLoadedMsg{err: err}
		}
		if err := db.SyncDecks(decks); err != nil {
			return decksLoadedMsg{err: err}
		}

		due, err := db.DueCards(now())
		if err != nil {
			return decksLoadedMsg{err: err}
		}
		counts := make(map[string]int, len(decks))
		for _, c := range due {
			counts[c.DeckName]++
		}

		return decksLoadedMsg{decks: decks, warnings: warnings, dueCount: counts}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func flashDoneCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return flashDoneMsg{}
	})
}
