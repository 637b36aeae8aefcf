// Package session runs one game: it turns a configuration into a track and
// a chain, drives them frame by frame, and produces the final result.
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/verte-zerg/snaketype/internal/chain"
	"github.com/verte-zerg/snaketype/internal/generator"
	"github.com/verte-zerg/snaketype/internal/input"
	"github.com/verte-zerg/snaketype/internal/model"
	"github.com/verte-zerg/snaketype/internal/score"
	"github.com/verte-zerg/snaketype/internal/track"
)

const (
	minLetters = 10
	// charsPerTargetWord sizes the sequence so a player at the target WPM
	// needs roughly the whole duration: one word plus the gap.
	charsPerTargetWord = 12
)

var (
	// ErrConfiguration marks settings that cannot produce a playable session.
	ErrConfiguration = errors.New("configuration error")
	// ErrEmptyPool is returned when no character set is enabled.
	ErrEmptyPool = errors.New("no character set enabled")
)

// State is the coordinator lifecycle state.
type State int

// Coordinator states.
const (
	NotStarted State = iota
	Running
	Ended
)

type charStat struct {
	correct   int
	incorrect int
}

// Coordinator owns all engine state for one session. It is not safe for
// concurrent use; the host calls Tick and SubmitKey from one goroutine.
type Coordinator struct {
	gen *generator.Generator
	now func() time.Time

	cfg        model.Config
	difficulty model.Difficulty
	duration   model.DurationTier

	state  State
	paused bool

	path     *track.Track
	chain    *chain.Chain
	gate     *input.Gate
	feedback input.Feedback
	score    *score.Tracker

	speedPixels float64
	elapsed     time.Duration
	startedAt   time.Time
	charStats   map[rune]*charStat
	charOrder   []rune

	result *model.SessionResult
}

// New returns a coordinator that draws letters from gen.
func New(gen *generator.Generator) *Coordinator {
	if gen == nil {
		gen = generator.New()
	}
	return &Coordinator{
		gen:   gen,
		now:   time.Now,
		gate:  input.NewGate(),
		score: score.New(),
	}
}

// SetClock replaces the wall clock used for result timestamps.
func (c *Coordinator) SetClock(now func() time.Time) {
	if now != nil {
		c.now = now
	}
}

// SequenceLength returns max(10, floor(targetWPM*seconds/12)).
func SequenceLength(targetWPM, seconds int) int {
	n := targetWPM * seconds / charsPerTargetWord
	if n < minLetters {
		return minLetters
	}
	return n
}

// Start validates cfg and begins a session. On error no engine state is
// created and the coordinator stays NotStarted.
func (c *Coordinator) Start(cfg model.Config) error {
	if c.state != NotStarted {
		return fmt.Errorf("session already started")
	}
	difficulty, err := model.LookupDifficulty(cfg.Difficulty)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	duration, err := model.LookupDuration(cfg.Duration)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	if duration.Seconds <= 0 {
		return fmt.Errorf("%w: duration must be positive", ErrConfiguration)
	}
	pool := cfg.CharSets.Pool()
	if len(pool) == 0 {
		return fmt.Errorf("%w: %w", ErrConfiguration, ErrEmptyPool)
	}
	if cfg.Width == 0 && cfg.Height == 0 {
		cfg.Width, cfg.Height = model.DefaultWidth, model.DefaultHeight
	}
	if cfg.Levels == 0 {
		cfg.Levels = model.DefaultLevels
	}
	path, err := track.Build(cfg.Width, cfg.Height, cfg.Levels)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConfiguration, err)
	}

	count := SequenceLength(difficulty.TargetWPM, duration.Seconds)
	var letters []rune
	if len(cfg.Weak) > 0 && cfg.WeakFactor > 0 {
		letters = c.gen.LettersWeighted(pool, count, cfg.Weak, cfg.WeakFactor)
	} else {
		letters = c.gen.Letters(pool, count)
	}

	c.cfg = cfg
	c.difficulty = difficulty
	c.duration = duration
	c.path = path
	c.chain = chain.New(path, letters)
	c.speedPixels = path.TotalLength() / float64(duration.Seconds) * difficulty.Multiplier
	c.chain.SetSpeed(c.speedPixels)
	c.charStats = map[rune]*charStat{}
	c.charOrder = nil
	c.elapsed = 0
	c.startedAt = c.now()
	c.score.Start()
	c.syncTarget()
	c.state = Running
	return nil
}

// Tick advances the session by dt. It does nothing while paused or once the
// session has ended.
func (c *Coordinator) Tick(dt time.Duration) {
	if c.state != Running || c.paused || dt <= 0 {
		return
	}
	c.elapsed += dt
	c.score.Advance(dt)
	c.gate.Update(dt)
	c.feedback.Update(dt)

	if c.elapsed >= c.duration.Length() {
		c.End(model.TimeUp)
		return
	}
	if c.chain.Advance(dt) {
		c.End(model.Defeat)
		return
	}
	if c.chain.Empty() {
		c.End(model.Victory)
		return
	}
	c.syncTarget()
}

// SubmitKey applies one key event. A key that destroys the last segment ends
// the session with a victory immediately.
func (c *Coordinator) SubmitKey(key string) input.Outcome {
	if c.state != Running || c.paused {
		return input.None
	}
	expected, _ := c.chain.ActiveLabel()
	outcome := c.gate.Submit(key)
	switch outcome {
	case input.Correct:
		c.stat(expected).correct++
		c.score.RecordCorrect()
		c.feedback.Show(outcome)
		if c.chain.RemoveActive() {
			c.End(model.Victory)
			return outcome
		}
		c.syncTarget()
	case input.Incorrect:
		c.stat(expected).incorrect++
		c.score.RecordMistake()
		c.feedback.Show(outcome)
	}
	return outcome
}

// Pause suspends ticks and input.
func (c *Coordinator) Pause() {
	if c.state == Running {
		c.paused = true
	}
}

// Resume continues a paused session.
func (c *Coordinator) Resume() {
	c.paused = false
}

// Paused reports whether the session is paused.
func (c *Coordinator) Paused() bool {
	return c.paused
}

// End finalizes the session with outcome. Calls after the first are ignored.
func (c *Coordinator) End(outcome model.Outcome) {
	if c.state != Running {
		return
	}
	c.state = Ended
	c.paused = false
	c.gate.Stop()
	c.feedback.Clear()
	c.score.Stop()

	finalWPM := c.score.FinalWPM()
	result := model.SessionResult{
		FinalWPM:        finalWPM,
		FinalScore:      c.score.FinalScore(),
		Accuracy:        c.score.Accuracy(),
		CharactersTyped: c.score.Correct(),
		Mistakes:        c.score.Mistakes(),
		Elapsed:         c.elapsed,
		Outcome:         outcome,
		StartedAt:       c.startedAt,
		EndedAt:         c.now(),
		ConfigKey:       c.cfg.Key(),
		CharSets:        c.cfg.CharSets,
		Difficulty:      c.difficulty.Key,
		Duration:        c.duration.Key,
		MistakePenalty:  c.score.Penalty(),
		Level:           score.Level(finalWPM),
		CharStats:       c.collectCharStats(),
	}
	c.result = &result
}

// Stop abandons a running session without producing a result.
func (c *Coordinator) Stop() {
	if c.state == Ended {
		return
	}
	c.state = Ended
	c.paused = false
	c.gate.Stop()
	c.feedback.Clear()
	c.score.Stop()
}

// State returns the lifecycle state.
func (c *Coordinator) State() State {
	return c.state
}

// Result returns the final result once the session has ended with an outcome.
func (c *Coordinator) Result() (model.SessionResult, bool) {
	if c.result == nil {
		return model.SessionResult{}, false
	}
	return *c.result, true
}

// Track returns the session path, nil before Start.
func (c *Coordinator) Track() *track.Track {
	return c.path
}

// Chain returns the session chain, nil before Start.
func (c *Coordinator) Chain() *chain.Chain {
	return c.chain
}

// SpeedPixels returns the chain speed in path units per second.
func (c *Coordinator) SpeedPixels() float64 {
	return c.speedPixels
}

// Elapsed returns the session time delivered by ticks.
func (c *Coordinator) Elapsed() time.Duration {
	return c.elapsed
}

// Config returns the settings the session was started with.
func (c *Coordinator) Config() model.Config {
	return c.cfg
}

func (c *Coordinator) syncTarget() {
	if label, ok := c.chain.ActiveLabel(); ok {
		c.gate.SetTarget(label)
		return
	}
	c.gate.ClearTarget()
}

func (c *Coordinator) stat(r rune) *charStat {
	entry, ok := c.charStats[r]
	if !ok {
		entry = &charStat{}
		c.charStats[r] = entry
		c.charOrder = append(c.charOrder, r)
	}
	return entry
}

func (c *Coordinator) collectCharStats() []model.CharStats {
	out := make([]model.CharStats, 0, len(c.charOrder))
	for _, r := range c.charOrder {
		entry := c.charStats[r]
		out = append(out, model.CharStats{
			Char:      string(r),
			Correct:   entry.correct,
			Incorrect: entry.incorrect,
		})
	}
	return out
}

// TimeLeft returns the time remaining before the session times out.
func (c *Coordinator) TimeLeft() time.Duration {
	left := c.duration.Length() - c.elapsed
	if left < 0 {
		return 0
	}
	return left
}
