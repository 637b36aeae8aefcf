package session

import (
	"time"

	"github.com/verte-zerg/snaketype/internal/chain"
	"github.com/verte-zerg/snaketype/internal/input"
	"github.com/verte-zerg/snaketype/internal/track"
)

// Snapshot is everything a presentation layer needs to draw one frame.
type Snapshot struct {
	State    State
	Paused   bool
	Head     track.Sample
	Tail     track.Sample
	Segments []chain.Segment
	Target   track.Point

	Locked       bool
	LockProgress float64
	Feedback     input.Outcome

	WPM       int
	Mistakes  int
	Remaining int
	TimeLeft  time.Duration
	Progress  float64
}

// Snapshot captures the current frame. Before Start it is the zero value.
func (c *Coordinator) Snapshot() Snapshot {
	if c.chain == nil {
		return Snapshot{State: c.state}
	}
	return Snapshot{
		State:        c.state,
		Paused:       c.paused,
		Head:         c.chain.Head(),
		Tail:         c.chain.Tail(),
		Segments:     c.chain.Segments(),
		Target:       c.path.End(),
		Locked:       c.gate.State() == input.Locked,
		LockProgress: c.gate.LockProgress(),
		Feedback:     c.feedback.Current(),
		WPM:          c.score.DisplayWPM(),
		Mistakes:     c.score.Mistakes(),
		Remaining:    c.chain.Remaining(),
		TimeLeft:     c.TimeLeft(),
		Progress:     c.chain.Progress(),
	}
}
