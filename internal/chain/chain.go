// Package chain simulates the lettered chain advancing along a track.
package chain

import (
	"math"
	"time"

	"github.com/verte-zerg/snaketype/internal/track"
)

// DefaultSpacing is the distance between segment centers in path units.
const DefaultSpacing = 35.0

// Segment is one lettered unit of the chain. Position is recomputed on every
// advance and removal.
type Segment struct {
	Label    rune
	Active   bool
	Progress float64
	Position track.Sample
}

// Chain owns the segments and the head progress along a track.
type Chain struct {
	path     *track.Track
	segments []Segment
	head     float64
	speed    float64
	spacing  float64

	headPos track.Sample
	tailPos track.Sample
}

// New creates one segment per label in order. Ordinal 0 is active.
func New(path *track.Track, labels []rune) *Chain {
	c := &Chain{
		path:     path,
		segments: make([]Segment, len(labels)),
		spacing:  DefaultSpacing,
	}
	for i, label := range labels {
		c.segments[i] = Segment{Label: label}
	}
	c.layout()
	return c
}

// SetSpeed converts pixels per second into progress units per second.
func (c *Chain) SetSpeed(pixelsPerSecond float64) {
	if pixelsPerSecond < 0 || math.IsNaN(pixelsPerSecond) {
		pixelsPerSecond = 0
	}
	c.speed = pixelsPerSecond / c.path.TotalLength()
}

// SetSpacing changes the distance between segments. Non-positive values
// restore DefaultSpacing.
func (c *Chain) SetSpacing(pixels float64) {
	if pixels <= 0 || math.IsNaN(pixels) {
		pixels = DefaultSpacing
	}
	c.spacing = pixels
	c.layout()
}

// Speed returns the speed in progress units per second.
func (c *Chain) Speed() float64 {
	return c.speed
}

// Progress returns the head progress in [0,1].
func (c *Chain) Progress() float64 {
	return c.head
}

// Advance moves the head by speed*dt and reports whether it has reached the
// end of the track. Once there, every later call reports true again.
func (c *Chain) Advance(dt time.Duration) bool {
	if dt > 0 {
		c.head += c.speed * dt.Seconds()
	}
	reached := false
	if c.head >= 1 {
		c.head = 1
		reached = true
	}
	c.layout()
	return reached
}

// RemoveActive destroys the active segment and reports whether the chain is
// now empty. On an empty chain it does nothing and returns false.
func (c *Chain) RemoveActive() bool {
	if len(c.segments) == 0 {
		return false
	}
	c.segments = c.segments[1:]
	c.layout()
	return len(c.segments) == 0
}

// ActiveLabel returns the label to type next.
func (c *Chain) ActiveLabel() (rune, bool) {
	if len(c.segments) == 0 {
		return 0, false
	}
	return c.segments[0].Label, true
}

// Remaining returns the number of segments left.
func (c *Chain) Remaining() int {
	return len(c.segments)
}

// Empty reports whether every segment has been destroyed.
func (c *Chain) Empty() bool {
	return len(c.segments) == 0
}

// Segments returns a copy of the current segments.
func (c *Chain) Segments() []Segment {
	out := make([]Segment, len(c.segments))
	copy(out, c.segments)
	return out
}

// Head returns the position of the chain's lead edge.
func (c *Chain) Head() track.Sample {
	return c.headPos
}

// Tail returns the position one spacing behind the last segment.
func (c *Chain) Tail() track.Sample {
	return c.tailPos
}

func (c *Chain) layout() {
	total := c.path.TotalLength()
	c.headPos = c.path.Position(c.head)
	for i := range c.segments {
		p := c.trailing(i+1, total)
		c.segments[i].Progress = p
		c.segments[i].Position = c.path.Position(p)
		c.segments[i].Active = i == 0
	}
	c.tailPos = c.path.Position(c.trailing(len(c.segments)+1, total))
}

func (c *Chain) trailing(ordinal int, total float64) float64 {
	return math.Max(0, c.head-float64(ordinal)*c.spacing/total)
}
