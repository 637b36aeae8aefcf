package input

import "time"

// FeedbackDuration is how long the last outcome stays visible.
const FeedbackDuration = 800 * time.Millisecond

// Feedback holds the most recent outcome for display.
type Feedback struct {
	outcome   Outcome
	remaining time.Duration
}

// Show replaces the visible outcome and restarts the window.
func (f *Feedback) Show(outcome Outcome) {
	if outcome == None {
		return
	}
	f.outcome = outcome
	f.remaining = FeedbackDuration
}

// Update runs the display timer.
func (f *Feedback) Update(dt time.Duration) {
	if f.remaining <= 0 || dt <= 0 {
		return
	}
	f.remaining -= dt
	if f.remaining <= 0 {
		f.remaining = 0
		f.outcome = None
	}
}

// Current returns the visible outcome, or None.
func (f *Feedback) Current() Outcome {
	return f.outcome
}

// Clear hides any visible outcome.
func (f *Feedback) Clear() {
	*f = Feedback{}
}
