package matcher

import "time"

// Rating is the outcome assigned to the first scored presentation of a
// card in a session.
type Rating int

const (
	Again Rating = iota + 1
	Hard
	Good
	Easy
)

func (r Rating) String() string {
	switch r {
	case Again:
		return "Again"
	case Hard:
		return "Hard"
	case Good:
		return "Good"
	case Easy:
		return "Easy"
	default:
		return "Unknown"
	}
}

// RatingInput carries the facts needed to score one completed presentation
// (§4.4).
type RatingInput struct {
	// ChordCount is the number of chords in the expected sequence (C).
	ChordCount int
	// Attempts is the number of attempts taken, counting the one that
	// completed the sequence (a): 1 means a first-try completion.
	Attempts int
	// Presentations is the number of times this card has been dequeued in
	// the session before this event (p).
	Presentations int
	// Elapsed is the time from first input to completion (e).
	Elapsed time.Duration
	// Revealed is true if the answer was revealed or the card timed out (r).
	Revealed bool
}

// EasyThreshold scales easy_threshold_ms by the chord-count multiplier.
func EasyThreshold(easyThresholdMs int, chordCount int) time.Duration {
	return scaledThreshold(easyThresholdMs, chordCount)
}

// HardThreshold scales hard_threshold_ms by the chord-count multiplier.
func HardThreshold(hardThresholdMs int, chordCount int) time.Duration {
	return scaledThreshold(hardThresholdMs, chordCount)
}

func scaledThreshold(baseMs int, chordCount int) time.Duration {
	multiplier := 1.0 + 0.2*float64(chordCount-1)
	return time.Duration(float64(baseMs)*multiplier) * time.Millisecond
}

// Rate determines the rating for a completed presentation per the
// top-down condition table in §4.4.
func Rate(in RatingInput, easyThresholdMs, hardThresholdMs int) Rating {
	if in.Revealed || in.Attempts >= 3 || in.Presentations >= 3 {
		return Again
	}

	tEasy := EasyThreshold(easyThresholdMs, in.ChordCount)
	tHard := HardThreshold(hardThresholdMs, in.ChordCount)

	if in.Attempts == 1 && in.Elapsed < tEasy && in.Presentations == 0 {
		return Easy
	}
	if in.Attempts == 1 && in.Elapsed < tHard && in.Presentations == 0 {
		return Good
	}
	return Hard
}
