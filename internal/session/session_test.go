package session

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/dbalmain/kbsr/internal/config"
	"github.com/dbalmain/kbsr/internal/deck"
	"github.com/dbalmain/kbsr/internal/keybind/interpret"
	"github.com/dbalmain/kbsr/internal/matcher"
	"github.com/dbalmain/kbsr/internal/store"
)

var t0 = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.DesiredRetention = 0.9
	cfg.IntervalModifier = 0.12
	cfg.MaxIntervalDays = 30
	return cfg
}

func setupDB(t *testing.T) *store.DB {
	t.Helper()
	dir := t.TempDir()
	db, err := store.Open(filepath.Join(dir, "kbsr.db"))
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	d := &deck.Deck{Name: "vim", Mode: interpret.ModeRaw, Cards: []deck.Card{
		{KeybindText: "g g", Description: "Go to top"},
		{KeybindText: "d d", Description: "Delete line"},
	}}
	if err := db.SyncDecks([]*deck.Deck{d}); err != nil {
		t.Fatalf("SyncDecks: %v", err)
	}
	return db
}

func TestNew_LoadsAllDueCards(t *testing.T) {
	db := setupDB(t)
	eng, err := New(db, testConfig(), map[string]interpret.Mode{"vim": interpret.ModeRaw}, t0, nil)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if eng.Remaining() != 2 {
		t.Fatalf("expected 2 due cards, got %d", eng.Remaining())
	}
}

func TestEngine_EasyExitsSession(t *testing.T) {
	db := setupDB(t)
	eng, err := New(db, testConfig(), map[string]interpret.Mode{"vim": interpret.ModeRaw}, t0, nil)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	sc := eng.Dequeue()
	exited, err := eng.Score(sc, matcher.Easy, t0, 500*time.Millisecond, 0, false)
	if err != nil {
		t.Fatalf("Score returned error: %v", err)
	}
	if !exited {
		t.Fatal("expected Easy rating to exit the session")
	}
	if eng.Remaining() != 1 {
		t.Fatalf("expected 1 card left in queue, got %d", eng.Remaining())
	}
}

func TestEngine_NonEasyRequeuesToBack(t *testing.T) {
	db := setupDB(t)
	eng, err := New(db, testConfig(), map[string]interpret.Mode{"vim": interpret.ModeRaw}, t0, nil)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	first := eng.Dequeue()
	exited, err := eng.Score(first, matcher.Hard, t0, 6*time.Second, 1, false)
	if err != nil {
		t.Fatalf("Score returned error: %v", err)
	}
	if exited {
		t.Fatal("Hard rating should not exit the session")
	}
	if eng.Remaining() != 2 {
		t.Fatalf("expected card requeued to back, queue size %d", eng.Remaining())
	}
	if first.Presentations != 1 {
		t.Errorf("expected Presentations incremented to 1, got %d", first.Presentations)
	}
	if !first.FirstShowScored {
		t.Error("expected FirstShowScored set true after first scoring")
	}
}

func TestEngine_SubsequentPresentationsDoNotRescore(t *testing.T) {
	db := setupDB(t)
	eng, err := New(db, testConfig(), map[string]interpret.Mode{"vim": interpret.ModeRaw}, t0, nil)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	sc := eng.Dequeue()
	if _, err := eng.Score(sc, matcher.Hard, t0, 6*time.Second, 1, false); err != nil {
		t.Fatalf("Score returned error: %v", err)
	}
	stateAfterFirst := sc.State

	// Requeued card comes back around; score it again (not Easy) and
	// confirm the persisted FSRS state does not change again.
	if _, err := eng.Score(sc, matcher.Again, t0.Add(time.Minute), time.Second, 3, false); err != nil {
		t.Fatalf("second Score returned error: %v", err)
	}
	if sc.State != stateAfterFirst {
		t.Errorf("expected FSRS state unchanged on re-presentation, got %+v vs %+v", sc.State, stateAfterFirst)
	}
	if sc.Presentations != 2 {
		t.Errorf("expected Presentations incremented to 2, got %d", sc.Presentations)
	}
}

func TestEngine_QueueEmptiesInFiniteSteps(t *testing.T) {
	db := setupDB(t)
	eng, err := New(db, testConfig(), map[string]interpret.Mode{"vim": interpret.ModeRaw}, t0, nil)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	steps := 0
	now := t0
	for !eng.Empty() && steps < 1000 {
		sc := eng.Dequeue()
		if _, err := eng.Score(sc, matcher.Easy, now, time.Second, 0, false); err != nil {
			t.Fatalf("Score returned error: %v", err)
		}
		now = now.Add(time.Minute)
		steps++
	}
	if !eng.Empty() {
		t.Fatalf("expected queue to empty, %d cards remain after %d steps", eng.Remaining(), steps)
	}
}
