package tui

import (
	"math/rand"

	"github.com/dbalmain/kbsr/internal/session"
)

// shuffleSystemEntropy randomizes the session queue using the default
// system-seeded source. Tests that need a reproducible order call
// session.New directly with their own Shuffler instead of going through
// the TUI's Model.
func shuffleSystemEntropy(queue []*session.SessionCard) {
	rand.Shuffle(len(queue), func(i, j int) {
		queue[i], queue[j] = queue[j], queue[i]
	})
}
