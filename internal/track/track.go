// Package track builds the switchback path the chain travels along and
// samples positions on it by travelled distance.
package track

import (
	"fmt"
	"math"
)

// Layout constants, in path units (pixels of the virtual canvas).
const (
	topMargin     = 50.0
	endClearance  = 100.0
	topSpanRatio  = 0.8
	bottomSpan    = 100.0
	endPointRatio = 0.9
)

// Kind identifies how a segment is interpolated.
type Kind int

// Segment kinds.
const (
	Straight Kind = iota
	CurveToEnd
)

// Point is a location on the canvas.
type Point struct {
	X float64
	Y float64
}

// Segment is one traversable stretch of the path.
type Segment struct {
	Start   Point
	End     Point
	Control Point
	Length  float64
	Kind    Kind
	Level   int
}

// Sample is a position on the path with its travel direction in radians.
type Sample struct {
	X       float64
	Y       float64
	Angle   float64
	Segment int
}

// Point returns the sample location.
func (s Sample) Point() Point {
	return Point{X: s.X, Y: s.Y}
}

// Track is an immutable path ending at the protected target.
type Track struct {
	segments []Segment
	total    float64
	end      Point
}

// Build lays out levels alternating horizontal traversals that narrow from
// 80% of the width to a fixed span, then curves into the end point.
func Build(width, height float64, levels int) (*Track, error) {
	if width <= 0 || height <= 0 || math.IsNaN(width) || math.IsNaN(height) {
		return nil, fmt.Errorf("invalid viewport %vx%v", width, height)
	}
	if levels < 1 {
		return nil, fmt.Errorf("levels must be >= 1, got %d", levels)
	}

	t := &Track{
		end:      Point{X: width / 2, Y: height * endPointRatio},
		segments: make([]Segment, 0, levels+1),
	}
	centerX := width / 2
	startY := topMargin
	endY := t.end.Y - endClearance
	levelHeight := (endY - startY) / float64(levels)
	topSpan := width * topSpanRatio

	// each level starts exactly where the previous one ended
	x, y := centerX, startY
	for level := 0; level < levels; level++ {
		nextY := endY
		if level < levels-1 {
			nextY = y + levelHeight
		}
		narrowing := 0.0
		if levels > 1 {
			narrowing = float64(level) / float64(levels-1)
		}
		half := (topSpan - (topSpan-bottomSpan)*narrowing) / 2
		endX := centerX + half
		if level%2 == 1 {
			endX = centerX - half
		}
		seg := Segment{
			Start: Point{X: x, Y: y},
			End:   Point{X: endX, Y: nextY},
			Kind:  Straight,
			Level: level,
		}
		seg.Length = math.Abs(seg.End.X-seg.Start.X) + math.Abs(seg.End.Y-seg.Start.Y)
		t.segments = append(t.segments, seg)
		x, y = endX, nextY
	}

	last := t.segments[len(t.segments)-1].End
	curve := Segment{
		Start:   last,
		End:     t.end,
		Control: Point{X: (last.X + t.end.X) / 2, Y: last.Y},
		Kind:    CurveToEnd,
		Level:   levels,
	}
	curve.Length = math.Hypot(curve.End.X-curve.Start.X, curve.End.Y-curve.Start.Y)
	t.segments = append(t.segments, curve)

	for _, seg := range t.segments {
		t.total += seg.Length
	}
	if t.total <= 0 {
		return nil, fmt.Errorf("path has zero length for viewport %vx%v", width, height)
	}
	return t, nil
}

// TotalLength returns the summed segment lengths.
func (t *Track) TotalLength() float64 {
	return t.total
}

// Start returns the first point of the path.
func (t *Track) Start() Point {
	return t.segments[0].Start
}

// End returns the protected target location.
func (t *Track) End() Point {
	return t.end
}

// Segments returns a copy of the path segments.
func (t *Track) Segments() []Segment {
	out := make([]Segment, len(t.segments))
	copy(out, t.segments)
	return out
}

// Position maps progress in [0,1] to a point on the path. Values outside the
// range (and NaN) are clamped.
func (t *Track) Position(progress float64) Sample {
	if progress <= 0 || math.IsNaN(progress) {
		start := t.segments[0].Start
		return Sample{X: start.X, Y: start.Y}
	}
	if progress >= 1 {
		return t.endSample()
	}

	target := progress * t.total
	walked := 0.0
	for i, seg := range t.segments {
		segEnd := walked + seg.Length
		if target <= segEnd {
			local := 0.0
			if seg.Length > 0 {
				local = (target - walked) / seg.Length
			}
			return seg.sample(local, i)
		}
		walked = segEnd
	}
	return t.endSample()
}

// Trace returns steps+1 evenly spaced samples from start to end.
func (t *Track) Trace(steps int) []Sample {
	if steps < 1 {
		steps = 1
	}
	out := make([]Sample, 0, steps+1)
	for i := 0; i <= steps; i++ {
		out = append(out, t.Position(float64(i)/float64(steps)))
	}
	return out
}

func (t *Track) endSample() Sample {
	return Sample{X: t.end.X, Y: t.end.Y, Segment: len(t.segments) - 1}
}

func (s Segment) sample(local float64, index int) Sample {
	if s.Kind == CurveToEnd {
		p := s.bezier(local)
		return Sample{X: p.X, Y: p.Y, Angle: s.tangentAngle(local), Segment: index}
	}
	return Sample{
		X:       s.Start.X + (s.End.X-s.Start.X)*local,
		Y:       s.Start.Y + (s.End.Y-s.Start.Y)*local,
		Angle:   s.chordAngle(),
		Segment: index,
	}
}

func (s Segment) bezier(u float64) Point {
	a := (1 - u) * (1 - u)
	b := 2 * (1 - u) * u
	c := u * u
	return Point{
		X: a*s.Start.X + b*s.Control.X + c*s.End.X,
		Y: a*s.Start.Y + b*s.Control.Y + c*s.End.Y,
	}
}

func (s Segment) tangentAngle(u float64) float64 {
	dx := 2*(1-u)*(s.Control.X-s.Start.X) + 2*u*(s.End.X-s.Control.X)
	dy := 2*(1-u)*(s.Control.Y-s.Start.Y) + 2*u*(s.End.Y-s.Control.Y)
	if math.Abs(dx) < 1e-12 && math.Abs(dy) < 1e-12 {
		return s.chordAngle()
	}
	return math.Atan2(dy, dx)
}

func (s Segment) chordAngle() float64 {
	return math.Atan2(s.End.Y-s.Start.Y, s.End.X-s.Start.X)
}
