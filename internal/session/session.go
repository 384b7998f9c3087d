// Package session implements the per-session card queue (§4.6): loading
// due cards at session start, dequeuing presentations, and scoring
// completed presentations against the persistent store.
package session

import (
	"time"

	"github.com/google/uuid"

	"github.com/dbalmain/kbsr/internal/config"
	"github.com/dbalmain/kbsr/internal/keybind"
	"github.com/dbalmain/kbsr/internal/keybind/interpret"
	"github.com/dbalmain/kbsr/internal/matcher"
	"github.com/dbalmain/kbsr/internal/srs"
	"github.com/dbalmain/kbsr/internal/store"
)

// SessionCard is one card's in-progress state for the current session. It
// wraps the persisted Card with the per-session counters the scheduler
// needs that never reach the database until (if) the card is scored.
type SessionCard struct {
	CardID      int64
	DeckName    string
	KeybindText string
	Description string
	Mode        interpret.Mode
	Chords      keybind.ChordSeq

	State      srs.State
	LastReview time.Time

	Presentations   int
	FirstShowScored bool
}

// Engine drives the session queue: loading due cards, handing out the next
// presentation, and applying a completed presentation's rating.
type Engine struct {
	db    *store.DB
	cfg   *config.Config
	queue []*SessionCard

	// ID identifies this run for log correlation (internal/logging.WithSession).
	ID string
}

// Shuffler randomizes the order of a freshly loaded queue in place.
type Shuffler func([]*SessionCard)

// New loads every due card (§4.6: due ≤ now, new cards always due) and
// builds the initial session queue. deckModes supplies each due card's
// mode, keyed by deck name, since mode is a deck-level attribute.
func New(db *store.DB, cfg *config.Config, deckModes map[string]interpret.Mode, now time.Time, shuffle Shuffler) (*Engine, error) {
	cards, err := db.DueCards(now)
	if err != nil {
		return nil, err
	}

	queue := make([]*SessionCard, 0, len(cards))
	for _, c := range cards {
		chords, err := keybind.Parse(c.Keybind)
		if err != nil {
			// A card's keybind was valid when synced; if it can no longer
			// parse, skip it from this session rather than fail the whole
			// queue load.
			continue
		}
		queue = append(queue, &SessionCard{
			CardID:      c.ID,
			DeckName:    c.DeckName,
			KeybindText: c.Keybind,
			Description: c.Description,
			Mode:        deckModes[c.DeckName],
			Chords:      chords,
			State:       c.State,
			LastReview:  c.LastReview,
		})
	}

	if shuffle != nil {
		shuffle(queue)
	}

	return &Engine{db: db, cfg: cfg, queue: queue, ID: uuid.NewString()}, nil
}

// Empty reports whether the session queue has no remaining cards.
func (e *Engine) Empty() bool {
	return len(e.queue) == 0
}

// Remaining returns the number of cards still in the queue.
func (e *Engine) Remaining() int {
	return len(e.queue)
}

// Dequeue removes and returns the next card to present, or nil if the
// queue is empty.
func (e *Engine) Dequeue() *SessionCard {
	if len(e.queue) == 0 {
		return nil
	}
	sc := e.queue[0]
	e.queue = e.queue[1:]
	return sc
}

// Score applies the outcome of one completed presentation (§4.6). Rating is
// only applied to persistent FSRS state and recorded as a ReviewEvent on
// the card's first scored presentation; later re-presentations still
// increment Presentations but do not rescore. Returns true if the card has
// now exited the session (rating Easy on this presentation).
func (e *Engine) Score(sc *SessionCard, rating matcher.Rating, now time.Time, elapsed time.Duration, attempts int, revealed bool) (bool, error) {
	firstScore := !sc.FirstShowScored
	sc.Presentations++

	if firstScore {
		next := srs.Update(sc.State, rating, now, sc.LastReview)
		interval := srs.NextInterval(next.Stability, rating, e.cfg.DesiredRetention, e.cfg.IntervalModifier, e.cfg.MaxIntervalDays)
		due := srs.NextDue(now, interval)

		if err := e.db.RecordReview(sc.CardID, next, due, now, rating, elapsed, attempts, revealed); err != nil {
			return false, err
		}

		sc.State = next
		sc.LastReview = now
		sc.FirstShowScored = true
	}

	if rating == matcher.Easy {
		return true, nil
	}

	e.queue = append(e.queue, sc)
	return false, nil
}
