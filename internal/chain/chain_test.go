package chain

import (
	"math"
	"testing"
	"time"

	"github.com/verte-zerg/snaketype/internal/track"
)

func newTrack(t *testing.T) *track.Track {
	t.Helper()
	tr, err := track.Build(800, 600, 6)
	if err != nil {
		t.Fatalf("build track: %v", err)
	}
	return tr
}

func TestNewPreservesOrder(t *testing.T) {
	c := New(newTrack(t), []rune("abc"))
	segs := c.Segments()
	if len(segs) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(segs))
	}
	if string([]rune{segs[0].Label, segs[1].Label, segs[2].Label}) != "abc" {
		t.Fatalf("unexpected labels")
	}
	if !segs[0].Active || segs[1].Active {
		t.Fatalf("expected only ordinal 0 active")
	}
	label, ok := c.ActiveLabel()
	if !ok || label != 'a' {
		t.Fatalf("expected active label a, got %q", label)
	}
}

func TestSetSpeedUsesProgressUnits(t *testing.T) {
	tr := newTrack(t)
	c := New(tr, []rune("a"))
	c.SetSpeed(tr.TotalLength() / 10)
	if math.Abs(c.Speed()-0.1) > 1e-12 {
		t.Fatalf("expected 0.1 progress/s, got %v", c.Speed())
	}
	if c.Advance(5 * time.Second) {
		t.Fatalf("did not expect to reach the end after 5s")
	}
	if math.Abs(c.Progress()-0.5) > 1e-9 {
		t.Fatalf("expected progress 0.5, got %v", c.Progress())
	}
}

func TestAdvanceClampsAndRepeats(t *testing.T) {
	tr := newTrack(t)
	c := New(tr, []rune("ab"))
	c.SetSpeed(tr.TotalLength())
	if !c.Advance(2 * time.Second) {
		t.Fatalf("expected end reached")
	}
	if c.Progress() != 1 {
		t.Fatalf("expected progress clamped to 1, got %v", c.Progress())
	}
	for i := 0; i < 3; i++ {
		if !c.Advance(time.Second) {
			t.Fatalf("expected repeated advance to keep reporting the end")
		}
		if c.Progress() != 1 {
			t.Fatalf("progress grew past 1")
		}
	}
	if c.Head().Point() != tr.End() {
		t.Fatalf("expected head at the end point")
	}
}

func TestZeroSpeedNeverMoves(t *testing.T) {
	c := New(newTrack(t), []rune("ab"))
	for i := 0; i < 10; i++ {
		if c.Advance(time.Second) {
			t.Fatalf("zero speed must never reach the end")
		}
	}
	if c.Progress() != 0 {
		t.Fatalf("expected no progress, got %v", c.Progress())
	}
}

func TestNegativeDeltaIgnored(t *testing.T) {
	tr := newTrack(t)
	c := New(tr, []rune("a"))
	c.SetSpeed(tr.TotalLength() / 10)
	c.Advance(time.Second)
	before := c.Progress()
	c.Advance(-time.Second)
	if c.Progress() != before {
		t.Fatalf("negative delta moved the chain")
	}
}

func TestTrailingSpacing(t *testing.T) {
	tr := newTrack(t)
	c := New(tr, []rune("abcd"))
	c.SetSpeed(tr.TotalLength() / 2)
	c.Advance(time.Second)
	segs := c.Segments()
	for i, seg := range segs {
		want := math.Max(0, 0.5-float64(i+1)*DefaultSpacing/tr.TotalLength())
		if math.Abs(seg.Progress-want) > 1e-12 {
			t.Fatalf("segment %d: expected progress %v, got %v", i, want, seg.Progress)
		}
		if seg.Position != tr.Position(want) {
			t.Fatalf("segment %d position does not match its progress", i)
		}
	}
}

func TestSegmentsBunchAtStart(t *testing.T) {
	tr := newTrack(t)
	c := New(tr, []rune("abcdef"))
	for _, seg := range c.Segments() {
		if seg.Progress != 0 {
			t.Fatalf("expected every segment at the start before moving")
		}
		if seg.Position.Point() != tr.Start() {
			t.Fatalf("expected segment at path start")
		}
	}
}

func TestRemoveActive(t *testing.T) {
	c := New(newTrack(t), []rune("xyz"))
	for i := 0; i < 2; i++ {
		if c.RemoveActive() {
			t.Fatalf("chain reported empty after %d removals", i+1)
		}
	}
	label, _ := c.ActiveLabel()
	if label != 'z' {
		t.Fatalf("expected z active, got %q", label)
	}
	if !c.RemoveActive() {
		t.Fatalf("expected the third removal to empty the chain")
	}
	if c.RemoveActive() {
		t.Fatalf("removal on an empty chain must return false")
	}
	if _, ok := c.ActiveLabel(); ok {
		t.Fatalf("expected no active label")
	}
	if c.Remaining() != 0 || !c.Empty() {
		t.Fatalf("expected empty chain")
	}
}

func TestTailFollowsLastSegment(t *testing.T) {
	tr := newTrack(t)
	c := New(tr, []rune("ab"))
	c.SetSpeed(tr.TotalLength() / 2)
	c.Advance(time.Second)
	want := tr.Position(math.Max(0, 0.5-3*DefaultSpacing/tr.TotalLength()))
	if c.Tail() != want {
		t.Fatalf("unexpected tail position: %+v", c.Tail())
	}
}

func TestSetSpacing(t *testing.T) {
	tr := newTrack(t)
	c := New(tr, []rune("ab"))
	c.SetSpeed(tr.TotalLength() / 2)
	c.Advance(time.Second)
	c.SetSpacing(70)
	want := 0.5 - 70/tr.TotalLength()
	if got := c.Segments()[0].Progress; math.Abs(got-want) > 1e-12 {
		t.Fatalf("expected progress %v, got %v", want, got)
	}
}
