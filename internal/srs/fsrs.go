// Package srs implements the spaced-repetition stability/difficulty update
// used to schedule the next due date for a card after a scored review.
//
// The recurrence follows the shape of the published FSRS model (stability
// grows with successful recall and collapses on a lapse; difficulty mean-
// reverts toward a target). The coefficients are kept as a single constant
// vector (Weights) so the exact model is reproducible across runs.
package srs

import (
	"math"
	"time"

	"github.com/dbalmain/kbsr/internal/matcher"
)

// Weights is the fixed coefficient vector for the update recurrence. All
// tuning lives here; no call site should hardcode a model constant.
var Weights = struct {
	InitialStability  [5]float64 // indexed by Rating (index 0 unused)
	InitialDifficulty [5]float64

	Alpha float64 // α: log-scale stability growth factor on recall
	Beta  float64 // β: stability-dependent exponent (negative: diminishing returns)
	Gamma float64 // γ: retrievability-deficit growth factor

	DeltaHard float64 // δ_Hard: difficulty mean-reversion rate on Hard
	DeltaGood float64 // δ_Good: difficulty mean-reversion rate on Good
	DeltaEasy float64 // δ_Easy: difficulty mean-reversion rate on Easy
	DTarget   float64 // difficulty mean-reversion target

	AAgain float64 // a_again: difficulty contribution to post-lapse stability floor
	BAgain float64 // b_again: retrievability-deficit contribution to post-lapse stability
	DAgain float64 // d_again: additive difficulty bump on a lapse
	SMin   float64 // S_min: stability floor after a lapse, in days
}{
	// InitialStability[Easy] is tuned so a new card's first interval lands
	// at ~1 day under the default desired_retention/interval_modifier
	// (§8 scenario 1): applied = S · ln(R)/ln(0.9) · interval_modifier,
	// which collapses to S · interval_modifier at the default R = 0.9.
	InitialStability:  [5]float64{0, 0.4, 0.9, 2.5, 8.5},
	InitialDifficulty: [5]float64{0, 8.0, 6.0, 4.93, 3.0},
	Alpha:             0.1,
	Beta:              -0.1,
	Gamma:             1.0,
	DeltaHard:         -0.05,
	DeltaGood:         -0.10,
	DeltaEasy:         -0.20,
	DTarget:           4.93,
	AAgain:            0.1,
	BAgain:            0.3,
	DAgain:            1.0,
	SMin:              0.5,
}

// State is a card's persistent FSRS state.
type State struct {
	Stability  float64
	Difficulty float64
	Reps       uint32
	Lapses     uint32
}

// IsNew reports whether the card has never been reviewed.
func (s State) IsNew() bool {
	return s.Reps == 0
}

// ln09 is ln(0.9), used by both retrievability and interval computation.
var ln09 = math.Log(0.9)

// Retrievability returns the probability of recall after t elapsed days at
// the given stability.
func Retrievability(stability, elapsedDays float64) float64 {
	if stability <= 0 {
		return 0
	}
	return math.Exp(ln09 * elapsedDays / stability)
}

// Update applies one scored review to a card's FSRS state. now and
// lastReview determine the elapsed days; lastReview is the zero Time for a
// card that has never been reviewed.
func Update(s State, rating matcher.Rating, now, lastReview time.Time) State {
	if s.IsNew() {
		return State{
			Stability:  Weights.InitialStability[rating],
			Difficulty: clampDifficulty(Weights.InitialDifficulty[rating]),
			Reps:       1,
			Lapses:     lapseCount(0, rating),
		}
	}

	t := elapsedDays(now, lastReview)
	r := Retrievability(s.Stability, t)

	var next State
	next.Reps = s.Reps + 1

	if rating == matcher.Again {
		next.Stability = Weights.SMin * math.Exp(Weights.AAgain*s.Difficulty+Weights.BAgain*(1-r))
		next.Difficulty = clampDifficulty(s.Difficulty + Weights.DAgain)
		next.Lapses = s.Lapses + 1
		return next
	}

	growth := math.Exp(Weights.Alpha) * (11 - s.Difficulty) * math.Pow(s.Stability, Weights.Beta) * (math.Exp(Weights.Gamma*(1-r)) - 1)
	next.Stability = s.Stability * (1 + growth)
	next.Difficulty = clampDifficulty(s.Difficulty + delta(rating)*(s.Difficulty-Weights.DTarget))
	next.Lapses = s.Lapses
	return next
}

func delta(rating matcher.Rating) float64 {
	switch rating {
	case matcher.Hard:
		return Weights.DeltaHard
	case matcher.Easy:
		return Weights.DeltaEasy
	default:
		return Weights.DeltaGood
	}
}

func lapseCount(existing uint32, rating matcher.Rating) uint32 {
	if rating == matcher.Again {
		return existing + 1
	}
	return existing
}

func clampDifficulty(d float64) float64 {
	if d < 1 {
		return 1
	}
	if d > 10 {
		return 10
	}
	return d
}

func elapsedDays(now, lastReview time.Time) float64 {
	if lastReview.IsZero() {
		return 0
	}
	d := now.Sub(lastReview).Hours() / 24
	if d < 0 {
		return 0
	}
	return d
}

// NextInterval computes the applied scheduling interval in days, per §4.5:
// raw FSRS interval scaled by interval_modifier and capped at
// max_interval_days. Again ratings use a short floor interval (a few
// minutes, expressed in days) before modifier scaling so a lapsed card
// still returns within the session day.
func NextInterval(stability float64, rating matcher.Rating, desiredRetention, intervalModifier, maxIntervalDays float64) float64 {
	if rating == matcher.Again {
		const againFloorDays = 5.0 / (24 * 60) // 5 minutes
		interval := againFloorDays * intervalModifier
		if interval > maxIntervalDays {
			return maxIntervalDays
		}
		return interval
	}

	raw := stability * math.Log(desiredRetention) / ln09
	applied := raw * intervalModifier
	if applied > maxIntervalDays {
		return maxIntervalDays
	}
	if applied < 0 {
		return 0
	}
	return applied
}

// NextDue returns the next due timestamp for a review completed at now
// with the given applied interval in days.
func NextDue(now time.Time, intervalDays float64) time.Time {
	return now.Add(time.Duration(intervalDays * 24 * float64(time.Hour)))
}
