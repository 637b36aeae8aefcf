// Package input turns key events into correct/incorrect outcomes against the
// chain's active label, with a lockout after each mistake.
package input

import (
	"time"
	"unicode/utf8"
)

// LockoutDuration is how long input is ignored after a mistake.
const LockoutDuration = 500 * time.Millisecond

// State is the gate state.
type State int

// Gate states.
const (
	Idle State = iota
	Armed
	Locked
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case Armed:
		return "armed"
	case Locked:
		return "locked"
	default:
		return "idle"
	}
}

// Outcome is the result of a submitted key.
type Outcome int

// Submission outcomes.
const (
	None Outcome = iota
	Correct
	Incorrect
)

// Gate matches keys against a target label.
type Gate struct {
	state         State
	target        rune
	lockRemaining time.Duration

	// target change requested while locked, applied on unlock
	pendingSet bool
	pending    rune
	pendingOK  bool
}

// NewGate returns an idle gate.
func NewGate() *Gate {
	return &Gate{}
}

// State returns the current state.
func (g *Gate) State() State {
	return g.state
}

// SetTarget arms the gate for label. While locked the change is deferred
// until the lockout ends.
func (g *Gate) SetTarget(label rune) {
	if g.state == Locked {
		g.pendingSet, g.pending, g.pendingOK = true, label, true
		return
	}
	g.target = label
	g.state = Armed
}

// ClearTarget returns the gate to Idle, deferred while locked.
func (g *Gate) ClearTarget() {
	if g.state == Locked {
		g.pendingSet, g.pending, g.pendingOK = true, 0, false
		return
	}
	g.target = 0
	g.state = Idle
}

// Submit checks a key. Keys that are not a single character never match and
// are not mistakes. Only an armed gate produces outcomes.
func (g *Gate) Submit(key string) Outcome {
	if g.state != Armed {
		return None
	}
	if utf8.RuneCountInString(key) != 1 {
		return None
	}
	r, _ := utf8.DecodeRuneInString(key)
	if r == g.target {
		return Correct
	}
	g.state = Locked
	g.lockRemaining = LockoutDuration
	return Incorrect
}

// Update runs the lockout timer.
func (g *Gate) Update(dt time.Duration) {
	if g.state != Locked || dt <= 0 {
		return
	}
	g.lockRemaining -= dt
	if g.lockRemaining > 0 {
		return
	}
	g.lockRemaining = 0
	g.state = Armed
	if g.pendingSet {
		if g.pendingOK {
			g.target = g.pending
		} else {
			g.target = 0
			g.state = Idle
		}
		g.pendingSet, g.pending, g.pendingOK = false, 0, false
	}
}

// Stop drops the target, any pending change and the lockout.
func (g *Gate) Stop() {
	*g = Gate{}
}

// LockRemaining returns the time left in the lockout.
func (g *Gate) LockRemaining() time.Duration {
	return g.lockRemaining
}

// LockProgress returns the fraction of the lockout still remaining, 0 when
// not locked.
func (g *Gate) LockProgress() float64 {
	if g.state != Locked {
		return 0
	}
	return float64(g.lockRemaining) / float64(LockoutDuration)
}
