package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/dbalmain/kbsr/internal/deck"
	"github.com/dbalmain/kbsr/internal/keybind/interpret"
	"github.com/dbalmain/kbsr/internal/matcher"
	"github.com/dbalmain/kbsr/internal/srs"
)

var t0 = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	dir := t.TempDir()
	db, err := Open(filepath.Join(dir, "kbsr.db"))
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func vimDeck() *deck.Deck {
	return &deck.Deck{
		Name: "vim",
		Mode: interpret.ModeRaw,
		Cards: []deck.Card{
			{KeybindText: "g g", Description: "Go to top"},
			{KeybindText: "d d", Description: "Delete line"},
		},
	}
}

func TestOpen_CreatesSchema(t *testing.T) {
	db := openTestDB(t)
	if err := db.SyncDecks([]*deck.Deck{vimDeck()}); err != nil {
		t.Fatalf("SyncDecks returned error: %v", err)
	}
	cards, err := db.DueCards(t0)
	if err != nil {
		t.Fatalf("DueCards returned error: %v", err)
	}
	if len(cards) != 2 {
		t.Fatalf("expected 2 new cards due, got %d", len(cards))
	}
}

func TestSyncDecks_NewCardsHaveEmptyState(t *testing.T) {
	db := openTestDB(t)
	if err := db.SyncDecks([]*deck.Deck{vimDeck()}); err != nil {
		t.Fatalf("SyncDecks returned error: %v", err)
	}
	cards, _ := db.DueCards(t0)
	for _, c := range cards {
		if !c.State.IsNew() {
			t.Errorf("expected freshly synced card to be new, got reps=%d", c.State.Reps)
		}
	}
}

func TestSyncDecks_DescriptionChangeResetsFSRS(t *testing.T) {
	db := openTestDB(t)
	d := vimDeck()
	if err := db.SyncDecks([]*deck.Deck{d}); err != nil {
		t.Fatalf("SyncDecks returned error: %v", err)
	}

	cards, _ := db.DueCards(t0)
	var ggID int64
	for _, c := range cards {
		if c.Keybind == "g g" {
			ggID = c.ID
		}
	}
	if err := db.RecordReview(ggID, srs.State{Stability: 2, Difficulty: 5, Reps: 1}, t0.AddDate(0, 0, 2), t0, matcher.Good, time.Second, 1, false); err != nil {
		t.Fatalf("RecordReview returned error: %v", err)
	}

	changed := vimDeck()
	changed.Cards[0].Description = "Jump to top"
	if err := db.SyncDecks([]*deck.Deck{changed}); err != nil {
		t.Fatalf("second SyncDecks returned error: %v", err)
	}

	cards, _ = db.DueCards(t0)
	for _, c := range cards {
		if c.Keybind == "g g" {
			if !c.State.IsNew() {
				t.Errorf("expected FSRS state reset after description change, got reps=%d stability=%v", c.State.Reps, c.State.Stability)
			}
			if c.Description != "Jump to top" {
				t.Errorf("expected updated description, got %q", c.Description)
			}
		}
	}
}

func TestSyncDecks_UnchangedDescriptionKeepsFSRS(t *testing.T) {
	db := openTestDB(t)
	d := vimDeck()
	if err := db.SyncDecks([]*deck.Deck{d}); err != nil {
		t.Fatalf("SyncDecks returned error: %v", err)
	}
	cards, _ := db.DueCards(t0)
	var ddID int64
	for _, c := range cards {
		if c.Keybind == "d d" {
			ddID = c.ID
		}
	}
	if err := db.RecordReview(ddID, srs.State{Stability: 3, Difficulty: 4, Reps: 1}, t0.AddDate(0, 0, 3), t0, matcher.Good, time.Second, 1, false); err != nil {
		t.Fatalf("RecordReview returned error: %v", err)
	}

	if err := db.SyncDecks([]*deck.Deck{vimDeck()}); err != nil {
		t.Fatalf("second SyncDecks returned error: %v", err)
	}

	cards, _ = db.DueCards(t0.AddDate(0, 0, 1))
	for _, c := range cards {
		if c.Keybind == "d d" {
			t.Fatalf("card with unchanged description should not be due yet")
		}
	}
}

func TestSyncDecks_DeletesCardsMissingFromFile(t *testing.T) {
	db := openTestDB(t)
	full := &deck.Deck{Name: "vim", Mode: interpret.ModeRaw, Cards: []deck.Card{
		{KeybindText: "G", Description: "Go to bottom"},
		{KeybindText: "g g", Description: "Go to top"},
		{KeybindText: "d d", Description: "Delete line"},
	}}
	if err := db.SyncDecks([]*deck.Deck{full}); err != nil {
		t.Fatalf("SyncDecks returned error: %v", err)
	}

	trimmed := &deck.Deck{Name: "vim", Mode: interpret.ModeRaw, Cards: []deck.Card{
		{KeybindText: "G", Description: "Go to bottom"},
		{KeybindText: "g g", Description: "Go to top"},
	}}
	if err := db.SyncDecks([]*deck.Deck{trimmed}); err != nil {
		t.Fatalf("second SyncDecks returned error: %v", err)
	}

	cards, err := db.DueCards(t0)
	if err != nil {
		t.Fatalf("DueCards returned error: %v", err)
	}
	if len(cards) != 2 {
		t.Fatalf("expected dd to be deleted, got %d cards", len(cards))
	}
}

func TestSyncDecks_DeletesDecksMissingFromFileSet(t *testing.T) {
	db := openTestDB(t)
	shell := &deck.Deck{Name: "shell", Mode: interpret.ModeCommand, Cards: []deck.Card{
		{KeybindText: "l s", Description: "List files"},
	}}
	if err := db.SyncDecks([]*deck.Deck{vimDeck(), shell}); err != nil {
		t.Fatalf("SyncDecks returned error: %v", err)
	}

	if err := db.SyncDecks([]*deck.Deck{vimDeck()}); err != nil {
		t.Fatalf("second SyncDecks returned error: %v", err)
	}

	cards, err := db.DueCards(t0)
	if err != nil {
		t.Fatalf("DueCards returned error: %v", err)
	}
	for _, c := range cards {
		if c.DeckName == "shell" {
			t.Fatalf("expected shell deck and its cards to be deleted")
		}
	}
}

func TestDueCards_NotYetDueIsExcluded(t *testing.T) {
	db := openTestDB(t)
	if err := db.SyncDecks([]*deck.Deck{vimDeck()}); err != nil {
		t.Fatalf("SyncDecks returned error: %v", err)
	}
	cards, _ := db.DueCards(t0)
	var id int64
	for _, c := range cards {
		if c.Keybind == "g g" {
			id = c.ID
		}
	}
	if err := db.RecordReview(id, srs.State{Stability: 1, Difficulty: 5, Reps: 1}, t0.AddDate(0, 0, 5), t0, matcher.Good, time.Second, 1, false); err != nil {
		t.Fatalf("RecordReview returned error: %v", err)
	}

	due, err := db.DueCards(t0.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("DueCards returned error: %v", err)
	}
	for _, c := range due {
		if c.Keybind == "g g" {
			t.Fatalf("card due in the future should not appear")
		}
	}

	due, err = db.DueCards(t0.AddDate(0, 0, 5))
	if err != nil {
		t.Fatalf("DueCards returned error: %v", err)
	}
	found := false
	for _, c := range due {
		if c.Keybind == "g g" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected card to be due once its due date arrives")
	}
}

func TestRecordReview_AppendsHistory(t *testing.T) {
	db := openTestDB(t)
	if err := db.SyncDecks([]*deck.Deck{vimDeck()}); err != nil {
		t.Fatalf("SyncDecks returned error: %v", err)
	}
	cards, _ := db.DueCards(t0)
	id := cards[0].ID

	if err := db.RecordReview(id, srs.State{Stability: 1, Difficulty: 5, Reps: 1}, t0.AddDate(0, 0, 1), t0, matcher.Hard, 2*time.Second, 2, false); err != nil {
		t.Fatalf("RecordReview returned error: %v", err)
	}
	if err := db.RecordReview(id, srs.State{Stability: 2, Difficulty: 4.5, Reps: 2}, t0.AddDate(0, 0, 3), t0.AddDate(0, 0, 1), matcher.Good, time.Second, 1, false); err != nil {
		t.Fatalf("RecordReview returned error: %v", err)
	}

	history, err := db.ReviewHistory(id)
	if err != nil {
		t.Fatalf("ReviewHistory returned error: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 review events, got %d", len(history))
	}
	if history[0].Rating != matcher.Hard || history[1].Rating != matcher.Good {
		t.Errorf("review events out of expected order/rating: %+v", history)
	}
}
