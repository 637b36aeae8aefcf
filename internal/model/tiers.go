package model

import (
	"fmt"
	"time"
)

// Difficulty is a speed tier.
type Difficulty struct {
	Key        string
	TargetWPM  int
	Multiplier float64
	Label      string
}

// DurationTier is a session length tier.
type DurationTier struct {
	Key     string
	Seconds int
	Label   string
}

// Length returns the tier as a time.Duration.
func (d DurationTier) Length() time.Duration {
	return time.Duration(d.Seconds) * time.Second
}

// Difficulties lists the speed tiers from slowest to fastest.
var Difficulties = []Difficulty{
	{Key: "slowest", TargetWPM: 10, Multiplier: 0.5, Label: "Slowest (~10 WPM)"},
	{Key: "slower", TargetWPM: 20, Multiplier: 0.75, Label: "Slower (~20 WPM)"},
	{Key: "slow", TargetWPM: 30, Multiplier: 1.0, Label: "Slow (~30 WPM)"},
	{Key: "medium", TargetWPM: 40, Multiplier: 1.25, Label: "Medium (~40 WPM)"},
	{Key: "fast", TargetWPM: 50, Multiplier: 1.5, Label: "Fast (~50 WPM)"},
	{Key: "faster", TargetWPM: 60, Multiplier: 1.75, Label: "Faster (~60 WPM)"},
	{Key: "fastest", TargetWPM: 70, Multiplier: 2.0, Label: "Fastest (~70 WPM)"},
}

// Durations lists the session length tiers from shortest to longest.
var Durations = []DurationTier{
	{Key: "shortest", Seconds: 10, Label: "Shortest (10 seconds)"},
	{Key: "shorter", Seconds: 20, Label: "Shorter (20 seconds)"},
	{Key: "short", Seconds: 30, Label: "Short (30 seconds)"},
	{Key: "medium", Seconds: 40, Label: "Medium (40 seconds)"},
	{Key: "long", Seconds: 50, Label: "Long (50 seconds)"},
	{Key: "longer", Seconds: 60, Label: "Longer (60 seconds)"},
	{Key: "extraLong", Seconds: 120, Label: "Extra Long (120 seconds)"},
}

// Defaults used when neither flags nor config file set a value.
const (
	DefaultDifficulty = "medium"
	DefaultDuration   = "medium"
	DefaultCharSets   = Lowercase
	DefaultLevels     = 6
	DefaultWidth      = 800
	DefaultHeight     = 600
)

// LookupDifficulty resolves a difficulty key.
func LookupDifficulty(key string) (Difficulty, error) {
	for _, d := range Difficulties {
		if d.Key == key {
			return d, nil
		}
	}
	return Difficulty{}, fmt.Errorf("unknown difficulty %q", key)
}

// LookupDuration resolves a duration key.
func LookupDuration(key string) (DurationTier, error) {
	for _, d := range Durations {
		if d.Key == key {
			return d, nil
		}
	}
	return DurationTier{}, fmt.Errorf("unknown duration %q", key)
}

// DifficultyLabel returns the display label for a key, or the key itself.
func DifficultyLabel(key string) string {
	if d, err := LookupDifficulty(key); err == nil {
		return d.Label
	}
	return key
}

// DurationLabel returns the display label for a key, or the key itself.
func DurationLabel(key string) string {
	if d, err := LookupDuration(key); err == nil {
		return d.Label
	}
	return key
}
