package session

import (
	"errors"
	"testing"
	"time"

	"github.com/verte-zerg/snaketype/internal/generator"
	"github.com/verte-zerg/snaketype/internal/input"
	"github.com/verte-zerg/snaketype/internal/model"
)

func newCoordinator() *Coordinator {
	return New(generator.NewSeeded(1))
}

func mediumShort() model.Config {
	return model.Config{
		CharSets:   model.Lowercase,
		Difficulty: "medium",
		Duration:   "short",
	}
}

func mustStart(t *testing.T, c *Coordinator, cfg model.Config) {
	t.Helper()
	if err := c.Start(cfg); err != nil {
		t.Fatalf("start: %v", err)
	}
}

func activeKey(t *testing.T, c *Coordinator) string {
	t.Helper()
	label, ok := c.Chain().ActiveLabel()
	if !ok {
		t.Fatalf("expected an active label")
	}
	return string(label)
}

func TestSequenceLength(t *testing.T) {
	if got := SequenceLength(40, 30); got != 100 {
		t.Fatalf("expected 100, got %d", got)
	}
	if got := SequenceLength(10, 10); got != 10 {
		t.Fatalf("expected minimum of 10, got %d", got)
	}
	if got := SequenceLength(70, 120); got != 700 {
		t.Fatalf("expected 700, got %d", got)
	}
}

func TestStartDerivesSequenceAndSpeed(t *testing.T) {
	c := newCoordinator()
	mustStart(t, c, mediumShort())
	if c.State() != Running {
		t.Fatalf("expected running")
	}
	if got := c.Chain().Remaining(); got != 100 {
		t.Fatalf("expected 100 letters, got %d", got)
	}
	want := c.Track().TotalLength() / 30 * 1.25
	if c.SpeedPixels() != want {
		t.Fatalf("expected speed %v px/s, got %v", want, c.SpeedPixels())
	}
	for _, seg := range c.Chain().Segments() {
		if seg.Label < 'a' || seg.Label > 'z' {
			t.Fatalf("letter %q outside the lowercase pool", seg.Label)
		}
	}
}

func TestUnimpededChainReachesEndEarly(t *testing.T) {
	c := newCoordinator()
	mustStart(t, c, mediumShort())
	ticks := 0
	for c.State() == Running && ticks < 1000 {
		c.Tick(100 * time.Millisecond)
		ticks++
	}
	res, ok := c.Result()
	if !ok {
		t.Fatalf("expected a result")
	}
	if res.Outcome != model.Defeat {
		t.Fatalf("expected defeat, got %s", res.Outcome)
	}
	// 30s / 1.25 = 24s
	if ticks < 239 || ticks > 241 {
		t.Fatalf("expected the chain to arrive after ~240 ticks, took %d", ticks)
	}
}

func TestEmptyPoolIsConfigurationError(t *testing.T) {
	c := newCoordinator()
	cfg := mediumShort()
	cfg.CharSets = 0
	err := c.Start(cfg)
	if !errors.Is(err, ErrConfiguration) || !errors.Is(err, ErrEmptyPool) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if c.Chain() != nil || c.Track() != nil {
		t.Fatalf("no engine state may exist after a configuration error")
	}
	if c.State() != NotStarted {
		t.Fatalf("expected NotStarted, got %v", c.State())
	}
}

func TestUnknownTierIsConfigurationError(t *testing.T) {
	c := newCoordinator()
	cfg := mediumShort()
	cfg.Difficulty = "ludicrous"
	if err := c.Start(cfg); !errors.Is(err, ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestTypingEverythingIsVictory(t *testing.T) {
	c := newCoordinator()
	mustStart(t, c, mediumShort())

	if got := c.SubmitKey("#"); got != input.Incorrect {
		t.Fatalf("expected incorrect, got %v", got)
	}
	c.Tick(input.LockoutDuration)

	for c.State() == Running {
		if got := c.SubmitKey(activeKey(t, c)); got != input.Correct {
			t.Fatalf("expected correct, got %v", got)
		}
		c.Tick(10 * time.Millisecond)
	}

	res, ok := c.Result()
	if !ok {
		t.Fatalf("expected a result")
	}
	if res.Outcome != model.Victory {
		t.Fatalf("expected victory, got %s", res.Outcome)
	}
	if res.CharactersTyped != 100 || res.Mistakes != 1 {
		t.Fatalf("unexpected counts: %+v", res)
	}
	want := res.FinalWPM - 2*res.Mistakes
	if want < 0 {
		want = 0
	}
	if res.FinalScore != want {
		t.Fatalf("expected final score %d, got %d", want, res.FinalScore)
	}
	if res.FinalWPM <= 0 {
		t.Fatalf("expected positive WPM, got %d", res.FinalWPM)
	}
	if res.Accuracy != 99.0 {
		t.Fatalf("expected 99.0 accuracy, got %v", res.Accuracy)
	}
	if res.ConfigKey != "lowercase-medium-short" {
		t.Fatalf("unexpected config key %q", res.ConfigKey)
	}
}

func TestVictoryShortCircuitsFrame(t *testing.T) {
	c := newCoordinator()
	cfg := mediumShort()
	cfg.Difficulty = "slowest"
	cfg.Duration = "shortest"
	mustStart(t, c, cfg)
	for c.Chain().Remaining() > 0 {
		c.SubmitKey(activeKey(t, c))
	}
	if c.State() != Ended {
		t.Fatalf("expected the last keystroke to end the session")
	}
	before := c.Elapsed()
	c.Tick(time.Second)
	if c.Elapsed() != before {
		t.Fatalf("tick after victory advanced the session")
	}
	res, _ := c.Result()
	if res.Outcome != model.Victory {
		t.Fatalf("expected victory, got %s", res.Outcome)
	}
}

func TestTimeUp(t *testing.T) {
	c := newCoordinator()
	cfg := mediumShort()
	cfg.Difficulty = "slowest"
	cfg.Duration = "shortest"
	mustStart(t, c, cfg)
	for i := 0; i < 200 && c.State() == Running; i++ {
		c.Tick(100 * time.Millisecond)
	}
	res, ok := c.Result()
	if !ok || res.Outcome != model.TimeUp {
		t.Fatalf("expected timeUp, got %+v", res)
	}
	if res.Elapsed < 10*time.Second {
		t.Fatalf("expected at least 10s elapsed, got %v", res.Elapsed)
	}
}

func TestMistakeLocksInput(t *testing.T) {
	c := newCoordinator()
	mustStart(t, c, mediumShort())
	c.SubmitKey("#")
	if got := c.SubmitKey(activeKey(t, c)); got != input.None {
		t.Fatalf("expected locked input to be ignored, got %v", got)
	}
	snap := c.Snapshot()
	if !snap.Locked || snap.Feedback != input.Incorrect || snap.Mistakes != 1 {
		t.Fatalf("unexpected snapshot after mistake: %+v", snap)
	}
	c.Tick(300 * time.Millisecond)
	c.Tick(200 * time.Millisecond)
	if got := c.SubmitKey(activeKey(t, c)); got != input.Correct {
		t.Fatalf("expected correct after the lockout, got %v", got)
	}
	if c.Chain().Remaining() != 99 {
		t.Fatalf("expected one segment destroyed")
	}
}

func TestMistakeCountedAgainstExpectedLabel(t *testing.T) {
	c := newCoordinator()
	mustStart(t, c, mediumShort())
	expected := activeKey(t, c)
	c.SubmitKey("#")
	c.End(model.Defeat)
	res, _ := c.Result()
	if len(res.CharStats) != 1 || res.CharStats[0].Char != expected || res.CharStats[0].Incorrect != 1 {
		t.Fatalf("unexpected char stats: %+v", res.CharStats)
	}
}

func TestNonCharacterKeysAreNotMistakes(t *testing.T) {
	c := newCoordinator()
	mustStart(t, c, mediumShort())
	for _, key := range []string{"left", "ctrl+a", "enter"} {
		if got := c.SubmitKey(key); got != input.None {
			t.Fatalf("key %q produced %v", key, got)
		}
	}
	if c.Snapshot().Mistakes != 0 {
		t.Fatalf("expected no mistakes")
	}
}

func TestPauseFreezesEverything(t *testing.T) {
	c := newCoordinator()
	mustStart(t, c, mediumShort())
	c.Tick(time.Second)
	progress := c.Chain().Progress()
	c.Pause()
	c.Tick(10 * time.Second)
	if c.Elapsed() != time.Second || c.Chain().Progress() != progress {
		t.Fatalf("paused session advanced")
	}
	if got := c.SubmitKey(activeKey(t, c)); got != input.None {
		t.Fatalf("paused session accepted input")
	}
	c.Resume()
	c.Tick(time.Second)
	if c.Elapsed() != 2*time.Second {
		t.Fatalf("expected 2s elapsed after resume, got %v", c.Elapsed())
	}
}

func TestEndIsTerminalAndIdempotent(t *testing.T) {
	c := newCoordinator()
	mustStart(t, c, mediumShort())
	c.End(model.Defeat)
	c.End(model.Victory)
	res, ok := c.Result()
	if !ok || res.Outcome != model.Defeat {
		t.Fatalf("expected the first outcome to stick, got %+v", res)
	}
	if got := c.SubmitKey("a"); got != input.None {
		t.Fatalf("late keystroke produced %v", got)
	}
	c.Tick(time.Second)
	if c.Elapsed() != 0 {
		t.Fatalf("tick after end advanced the session")
	}
}

func TestStopAbandonsWithoutResult(t *testing.T) {
	c := newCoordinator()
	mustStart(t, c, mediumShort())
	c.Stop()
	c.Stop()
	if c.State() != Ended {
		t.Fatalf("expected ended after stop")
	}
	c.End(model.Victory)
	if _, ok := c.Result(); ok {
		t.Fatalf("stopped session must not produce a result")
	}
}

func TestResultTimestamps(t *testing.T) {
	c := newCoordinator()
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	calls := 0
	c.SetClock(func() time.Time {
		calls++
		return base.Add(time.Duration(calls) * time.Minute)
	})
	mustStart(t, c, mediumShort())
	c.End(model.TimeUp)
	res, _ := c.Result()
	if !res.StartedAt.Equal(base.Add(time.Minute)) || !res.EndedAt.Equal(base.Add(2*time.Minute)) {
		t.Fatalf("unexpected timestamps: %v %v", res.StartedAt, res.EndedAt)
	}
	if res.Level != "Beginner" {
		t.Fatalf("expected Beginner level, got %q", res.Level)
	}
}

func TestWeakCharactersBiasSequence(t *testing.T) {
	c := newCoordinator()
	cfg := mediumShort()
	cfg.Weak = map[rune]struct{}{'q': {}}
	cfg.WeakFactor = 1000
	mustStart(t, c, cfg)
	q := 0
	for _, seg := range c.Chain().Segments() {
		if seg.Label == 'q' {
			q++
		}
	}
	if q < 80 {
		t.Fatalf("expected the weak character to dominate, got %d of 100", q)
	}
}

func TestSnapshotBeforeStart(t *testing.T) {
	c := newCoordinator()
	snap := c.Snapshot()
	if snap.State != NotStarted || snap.Segments != nil {
		t.Fatalf("unexpected snapshot before start: %+v", snap)
	}
}
