// Package score tracks keystrokes and derives WPM, accuracy and the final
// penalized score.
package score

import (
	"math"
	"time"
)

const (
	// CharsPerWord is the standard typing-test word length.
	CharsPerWord = 5
	// MistakePenalty is subtracted from the final WPM for every mistake.
	MistakePenalty = 2

	displayInterval = time.Second
)

// Tracker accumulates counts over time delivered by the session tick, so a
// paused session does not lower the WPM.
type Tracker struct {
	correct  int
	mistakes int
	elapsed  time.Duration
	tracking bool

	displayWPM  int
	sinceSample time.Duration
}

// New returns a tracker that has not started.
func New() *Tracker {
	return &Tracker{}
}

// Start zeroes the counters and begins tracking.
func (t *Tracker) Start() {
	*t = Tracker{tracking: true}
}

// Stop freezes the counters and elapsed time.
func (t *Tracker) Stop() {
	t.tracking = false
}

// Reset returns the tracker to its initial state.
func (t *Tracker) Reset() {
	*t = Tracker{}
}

// Advance adds session time and refreshes the displayed WPM once a second.
func (t *Tracker) Advance(dt time.Duration) {
	if !t.tracking || dt <= 0 {
		return
	}
	t.elapsed += dt
	t.sinceSample += dt
	if t.sinceSample >= displayInterval {
		t.displayWPM = t.CurrentWPM()
		t.sinceSample = 0
	}
}

// RecordCorrect counts a correct keystroke.
func (t *Tracker) RecordCorrect() {
	if !t.tracking {
		return
	}
	t.correct++
}

// RecordMistake counts an incorrect keystroke.
func (t *Tracker) RecordMistake() {
	if !t.tracking {
		return
	}
	t.mistakes++
}

// Correct returns the number of correct keystrokes.
func (t *Tracker) Correct() int {
	return t.correct
}

// Mistakes returns the number of incorrect keystrokes.
func (t *Tracker) Mistakes() int {
	return t.mistakes
}

// Elapsed returns the tracked time.
func (t *Tracker) Elapsed() time.Duration {
	return t.elapsed
}

// CurrentWPM returns round(correct/5/minutes), 0 when no time has elapsed.
func (t *Tracker) CurrentWPM() int {
	return wpm(t.correct, t.elapsed)
}

// DisplayWPM returns the WPM sampled at the last whole second.
func (t *Tracker) DisplayWPM() int {
	return t.displayWPM
}

// FinalWPM returns the WPM over the whole tracked time.
func (t *Tracker) FinalWPM() int {
	return wpm(t.correct, t.elapsed)
}

// Penalty returns the WPM deducted for mistakes.
func (t *Tracker) Penalty() int {
	return t.mistakes * MistakePenalty
}

// FinalScore returns the final WPM minus the mistake penalty, floored at 0.
func (t *Tracker) FinalScore() int {
	score := t.FinalWPM() - t.Penalty()
	if score < 0 {
		return 0
	}
	return score
}

// Accuracy returns the correct share of keystrokes as a percentage with one
// decimal. With no keystrokes it is 100.
func (t *Tracker) Accuracy() float64 {
	total := t.correct + t.mistakes
	if total == 0 {
		return 100
	}
	acc := float64(t.correct) / float64(total) * 100
	return math.Round(acc*10) / 10
}

func wpm(correct int, elapsed time.Duration) int {
	minutes := elapsed.Minutes()
	if minutes <= 0 {
		return 0
	}
	raw := float64(correct) / CharsPerWord / minutes
	return int(math.Round(math.Max(0, raw)))
}

// Level returns a performance label for a WPM value.
func Level(wpm int) string {
	switch {
	case wpm >= 70:
		return "Exceptional"
	case wpm >= 60:
		return "Advanced"
	case wpm >= 50:
		return "Proficient"
	case wpm >= 40:
		return "Good"
	case wpm >= 30:
		return "Average"
	case wpm >= 20:
		return "Below Average"
	default:
		return "Beginner"
	}
}
