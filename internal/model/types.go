// Package model defines shared data structures.
package model

import (
	"sort"
	"strings"
	"time"
)

// CharSet is a bit set of enabled character groups.
type CharSet uint8

// Character groups in pool order.
const (
	Lowercase CharSet = 1 << iota
	Uppercase
	Numbers
	Symbols
)

const (
	lowercaseChars = "abcdefghijklmnopqrstuvwxyz"
	uppercaseChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	numberChars    = "0123456789"
	symbolChars    = "~!@#$%^&*()_-+={[}]|\\:;\"'<,>.?/"
)

var charSetOrder = []struct {
	set   CharSet
	name  string
	chars string
}{
	{Lowercase, "lowercase", lowercaseChars},
	{Uppercase, "uppercase", uppercaseChars},
	{Numbers, "numbers", numberChars},
	{Symbols, "symbols", symbolChars},
}

// Has reports whether every group in other is enabled.
func (s CharSet) Has(other CharSet) bool {
	return s&other == other
}

// Pool returns the characters of all enabled groups in a fixed order.
func (s CharSet) Pool() []rune {
	var pool []rune
	for _, entry := range charSetOrder {
		if s.Has(entry.set) {
			pool = append(pool, []rune(entry.chars)...)
		}
	}
	return pool
}

// Names returns the enabled group names in pool order.
func (s CharSet) Names() []string {
	var names []string
	for _, entry := range charSetOrder {
		if s.Has(entry.set) {
			names = append(names, entry.name)
		}
	}
	return names
}

// String implements fmt.Stringer.
func (s CharSet) String() string {
	names := s.Names()
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ", ")
}

// ParseCharSets converts group names into a CharSet. Unknown names are reported.
func ParseCharSets(names []string) (CharSet, []string) {
	var set CharSet
	var unknown []string
	for _, name := range names {
		name = strings.TrimSpace(strings.ToLower(name))
		if name == "" {
			continue
		}
		found := false
		for _, entry := range charSetOrder {
			if entry.name == name {
				set |= entry.set
				found = true
				break
			}
		}
		if !found {
			unknown = append(unknown, name)
		}
	}
	return set, unknown
}

// Config defines game settings before tier lookup.
type Config struct {
	CharSets   CharSet
	Difficulty string
	Duration   string

	Width  float64
	Height float64
	Levels int

	Weak       map[rune]struct{}
	WeakFactor float64
}

// Key groups results that were played with the same settings.
func (c Config) Key() string {
	names := c.CharSets.Names()
	sort.Strings(names)
	return strings.Join(names, ",") + "-" + c.Difficulty + "-" + c.Duration
}

// PracticeConfig holds the CLI-level options that produce a Config.
type PracticeConfig struct {
	CharSets   CharSet
	Difficulty string
	Duration   string
	Levels     int
	FocusWeak  bool
	WeakTop    int
	WeakFactor float64
	WeakWindow int
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	Since *time.Time
	Last  int
}

// Outcome is the terminal reason of a session.
type Outcome string

// Session outcomes.
const (
	Victory Outcome = "victory"
	Defeat  Outcome = "defeat"
	TimeUp  Outcome = "timeUp"
)

// SessionResult captures a finished game. It is never modified after creation.
type SessionResult struct {
	FinalWPM        int
	FinalScore      int
	Accuracy        float64
	CharactersTyped int
	Mistakes        int
	Elapsed         time.Duration
	Outcome         Outcome

	StartedAt      time.Time
	EndedAt        time.Time
	ConfigKey      string
	CharSets       CharSet
	Difficulty     string
	Duration       string
	MistakePenalty int
	Level          string
	CharStats      []CharStats
}

// ElapsedSeconds returns elapsed time rounded to one decimal.
func (r SessionResult) ElapsedSeconds() float64 {
	return float64(r.Elapsed.Round(100*time.Millisecond).Milliseconds()) / 1000
}

// CharStats stores per-character stats for a session.
type CharStats struct {
	Char      string
	Correct   int
	Incorrect int
}

// CharAggregate aggregates character stats across sessions.
type CharAggregate struct {
	Char      string
	Correct   int
	Incorrect int
}

// SessionAggregate summarizes a stored session for reporting.
type SessionAggregate struct {
	SessionID  int64
	EndedAt    time.Time
	ConfigKey  string
	Outcome    Outcome
	FinalWPM   int
	FinalScore int
	Accuracy   float64
	Mistakes   int
	DurationMs int64
}

// BestScore is the highest-WPM session recorded for one config key.
type BestScore struct {
	ConfigKey  string
	CharSets   CharSet
	Difficulty string
	Duration   string
	FinalWPM   int
	FinalScore int
	Mistakes   int
	Accuracy   float64
	EndedAt    time.Time
}
