package store

import (
	"database/sql"
	"time"

	kbserrors "github.com/dbalmain/kbsr/internal/errors"
	"github.com/dbalmain/kbsr/internal/matcher"
	"github.com/dbalmain/kbsr/internal/srs"
)

const timeLayout = time.RFC3339

// Card is one persisted card row, including its FSRS state.
type Card struct {
	ID          int64
	DeckName    string
	Keybind     string
	Description string
	State       srs.State
	LastReview  time.Time // zero if never reviewed
	Due         time.Time // zero means "due now" (new card, or unparseable due)
}

// DueCards returns every card whose due timestamp is at or before now,
// across all decks. New cards (due never set) are always due. Per §4.8, a
// card whose stored due value fails to parse degrades to "due now" rather
// than being dropped or erroring.
func (db *DB) DueCards(now time.Time) ([]Card, error) {
	rows, err := db.conn.Query(`
		SELECT id, deck_name, keybind, description, stability, difficulty,
		       last_review, due, reps, lapses
		FROM cards
	`)
	if err != nil {
		return nil, wrapStorageErr("query due cards", err)
	}
	defer rows.Close()

	var due []Card
	for rows.Next() {
		c, dueNow, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		if dueNow || !c.Due.After(now) {
			due = append(due, c)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, wrapStorageErr("query due cards", err)
	}
	return due, nil
}

func scanCard(rows *sql.Rows) (Card, bool, error) {
	var c Card
	var lastReview, dueStr sql.NullString
	var reps, lapses int64
	if err := rows.Scan(&c.ID, &c.DeckName, &c.Keybind, &c.Description,
		&c.State.Stability, &c.State.Difficulty, &lastReview, &dueStr, &reps, &lapses); err != nil {
		return Card{}, false, wrapStorageErr("scan card", err)
	}
	c.State.Reps = uint32(reps)
	c.State.Lapses = uint32(lapses)

	if lastReview.Valid && lastReview.String != "" {
		t, err := time.Parse(timeLayout, lastReview.String)
		if err == nil {
			c.LastReview = t
		}
		// A corrupt last_review is not review history (reviews.timestamp);
		// it degrades silently to the zero value like due does.
	}

	dueNow := true
	if dueStr.Valid && dueStr.String != "" {
		t, err := time.Parse(timeLayout, dueStr.String)
		if err == nil {
			c.Due = t
			dueNow = false
		}
	}
	return c, dueNow, nil
}

// RecordReview applies one scored review atomically: it updates the card's
// FSRS state and appends a review row in a single transaction, per §5
// ("Scoring, FSRS update, and ReviewEvent append for a single card happen
// atomically in one DB transaction per card").
func (db *DB) RecordReview(cardID int64, next srs.State, due time.Time, now time.Time, rating matcher.Rating, elapsed time.Duration, attempts int, revealed bool) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return wrapStorageErr("begin review transaction", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		UPDATE cards
		SET stability = ?, difficulty = ?, last_review = ?, due = ?, reps = ?, lapses = ?
		WHERE id = ?
	`, next.Stability, next.Difficulty, now.Format(timeLayout), due.Format(timeLayout), next.Reps, next.Lapses, cardID)
	if err != nil {
		return wrapStorageErr("update card state", err)
	}

	_, err = tx.Exec(`
		INSERT INTO reviews (card_id, timestamp, rating, elapsed_ms, attempts, revealed)
		VALUES (?, ?, ?, ?, ?, ?)
	`, cardID, now.Format(timeLayout), int(rating), elapsed.Milliseconds(), attempts, boolToInt(revealed))
	if err != nil {
		return wrapStorageErr("insert review", err)
	}

	if err := tx.Commit(); err != nil {
		return wrapStorageErr("commit review transaction", err)
	}
	return nil
}

// ReviewHistory returns every review recorded for cardID, oldest first. A
// corrupt timestamp is a StorageHistoryCorruptionError, not a degradation:
// review history is an append-only audit log with no sane fallback value.
func (db *DB) ReviewHistory(cardID int64) ([]ReviewEvent, error) {
	rows, err := db.conn.Query(`
		SELECT id, timestamp, rating, elapsed_ms, attempts, revealed
		FROM reviews WHERE card_id = ? ORDER BY id ASC
	`, cardID)
	if err != nil {
		return nil, wrapStorageErr("query review history", err)
	}
	defer rows.Close()

	var events []ReviewEvent
	for rows.Next() {
		var ev ReviewEvent
		var ts string
		var rating int
		var revealed int
		ev.CardID = cardID
		if err := rows.Scan(&ev.ID, &ts, &rating, &ev.ElapsedMs, &ev.Attempts, &revealed); err != nil {
			return nil, wrapStorageErr("scan review", err)
		}
		t, err := time.Parse(timeLayout, ts)
		if err != nil {
			return nil, kbserrors.NewStorageHistoryCorruptionError(cardID, ts, err)
		}
		ev.Timestamp = t
		ev.Rating = matcher.Rating(rating)
		ev.Revealed = revealed != 0
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapStorageErr("query review history", err)
	}
	return events, nil
}

// ReviewEvent is one row of a card's review history.
type ReviewEvent struct {
	ID        int64
	CardID    int64
	Timestamp time.Time
	Rating    matcher.Rating
	ElapsedMs int64
	Attempts  int
	Revealed  bool
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
