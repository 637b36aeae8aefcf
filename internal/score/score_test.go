package score

import (
	"testing"
	"time"
)

func TestAccuracyDefaults(t *testing.T) {
	tr := New()
	tr.Start()
	if got := tr.Accuracy(); got != 100 {
		t.Fatalf("expected 100 with no keystrokes, got %v", got)
	}
	for i := 0; i < 8; i++ {
		tr.RecordCorrect()
	}
	tr.RecordMistake()
	tr.RecordMistake()
	if got := tr.Accuracy(); got != 80.0 {
		t.Fatalf("expected 80.0, got %v", got)
	}
}

func TestAccuracyRoundsToOneDecimal(t *testing.T) {
	tr := New()
	tr.Start()
	tr.RecordCorrect()
	tr.RecordCorrect()
	tr.RecordMistake()
	if got := tr.Accuracy(); got != 66.7 {
		t.Fatalf("expected 66.7, got %v", got)
	}
}

func TestRecordingRequiresStart(t *testing.T) {
	tr := New()
	tr.RecordCorrect()
	tr.RecordMistake()
	tr.Advance(time.Second)
	if tr.Correct() != 0 || tr.Mistakes() != 0 || tr.Elapsed() != 0 {
		t.Fatalf("expected no-ops before start")
	}
}

func TestWPM(t *testing.T) {
	tr := New()
	tr.Start()
	if tr.CurrentWPM() != 0 {
		t.Fatalf("expected 0 WPM with no elapsed time")
	}
	for i := 0; i < 50; i++ {
		tr.RecordCorrect()
	}
	tr.Advance(30 * time.Second)
	if got := tr.CurrentWPM(); got != 20 {
		t.Fatalf("expected 20 WPM, got %d", got)
	}
}

func TestFinalScorePenalty(t *testing.T) {
	tr := New()
	tr.Start()
	for i := 0; i < 100; i++ {
		tr.RecordCorrect()
	}
	for i := 0; i < 3; i++ {
		tr.RecordMistake()
	}
	tr.Advance(time.Minute)
	tr.Stop()
	if tr.FinalWPM() != 20 {
		t.Fatalf("expected 20 WPM, got %d", tr.FinalWPM())
	}
	if tr.FinalScore() != 14 {
		t.Fatalf("expected 14 after penalty, got %d", tr.FinalScore())
	}
	for i := 0; i < 20; i++ {
		tr.RecordMistake()
	}
	if tr.Mistakes() != 3 {
		t.Fatalf("stopped tracker kept counting")
	}
}

func TestFinalScoreFloorsAtZero(t *testing.T) {
	tr := New()
	tr.Start()
	tr.RecordCorrect()
	for i := 0; i < 10; i++ {
		tr.RecordMistake()
	}
	tr.Advance(time.Minute)
	if tr.FinalScore() != 0 {
		t.Fatalf("expected score floored at 0, got %d", tr.FinalScore())
	}
}

func TestDisplayWPMSampledPerSecond(t *testing.T) {
	tr := New()
	tr.Start()
	for i := 0; i < 10; i++ {
		tr.RecordCorrect()
	}
	tr.Advance(500 * time.Millisecond)
	if tr.DisplayWPM() != 0 {
		t.Fatalf("expected display WPM to wait for a full second")
	}
	tr.Advance(500 * time.Millisecond)
	if tr.DisplayWPM() != 120 {
		t.Fatalf("expected 120 WPM, got %d", tr.DisplayWPM())
	}
}

func TestReset(t *testing.T) {
	tr := New()
	tr.Start()
	tr.RecordCorrect()
	tr.Reset()
	if tr.Correct() != 0 {
		t.Fatalf("expected fresh tracker after reset")
	}
	tr.RecordCorrect()
	if tr.Correct() != 0 {
		t.Fatalf("expected reset tracker to ignore keystrokes until started")
	}
}

func TestLevel(t *testing.T) {
	cases := map[int]string{
		0:  "Beginner",
		25: "Below Average",
		30: "Average",
		45: "Good",
		55: "Proficient",
		61: "Advanced",
		90: "Exceptional",
	}
	for wpm, want := range cases {
		if got := Level(wpm); got != want {
			t.Fatalf("Level(%d) = %q, want %q", wpm, got, want)
		}
	}
}
