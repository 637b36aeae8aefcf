package stats

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"
)

// Export formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

type exportDoc struct {
	Best     []exportBest    `json:"best" yaml:"best"`
	Summary  exportSummary   `json:"summary" yaml:"summary"`
	Sessions []exportSession `json:"sessions" yaml:"sessions"`
	Chars    []exportChar    `json:"chars" yaml:"chars"`
}

type exportBest struct {
	Config     string   `json:"config" yaml:"config"`
	CharSets   []string `json:"charSets" yaml:"charSets"`
	Difficulty string   `json:"difficulty" yaml:"difficulty"`
	Duration   string   `json:"duration" yaml:"duration"`
	WPM        int      `json:"wpm" yaml:"wpm"`
	Score      int      `json:"score" yaml:"score"`
	Mistakes   int      `json:"mistakes" yaml:"mistakes"`
	Accuracy   float64  `json:"accuracy" yaml:"accuracy"`
	Date       string   `json:"date" yaml:"date"`
}

type exportSummary struct {
	Games       int            `json:"games" yaml:"games"`
	AvgWPM      float64        `json:"avgWpm" yaml:"avgWpm"`
	BestWPM     int            `json:"bestWpm" yaml:"bestWpm"`
	AvgAccuracy float64        `json:"avgAccuracy" yaml:"avgAccuracy"`
	Outcomes    map[string]int `json:"outcomes" yaml:"outcomes"`
}

type exportSession struct {
	ID         int64   `json:"id" yaml:"id"`
	EndedAt    string  `json:"endedAt" yaml:"endedAt"`
	Config     string  `json:"config" yaml:"config"`
	Outcome    string  `json:"outcome" yaml:"outcome"`
	WPM        int     `json:"wpm" yaml:"wpm"`
	Score      int     `json:"score" yaml:"score"`
	Accuracy   float64 `json:"accuracy" yaml:"accuracy"`
	Mistakes   int     `json:"mistakes" yaml:"mistakes"`
	DurationMs int64   `json:"durationMs" yaml:"durationMs"`
}

type exportChar struct {
	Char      string `json:"char" yaml:"char"`
	Correct   int    `json:"correct" yaml:"correct"`
	Incorrect int    `json:"incorrect" yaml:"incorrect"`
}

// Export writes the report in a machine-readable format.
func Export(w io.Writer, report Report, format string) error {
	doc := buildExport(report)
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown export format %q", format)
	}
}

func buildExport(report Report) exportDoc {
	sum := Summarize(report.Sessions)
	doc := exportDoc{
		Best:     make([]exportBest, 0, len(report.Best)),
		Sessions: make([]exportSession, 0, len(report.Sessions)),
		Chars:    make([]exportChar, 0, len(report.CharAggs)),
		Summary: exportSummary{
			Games:       sum.Sessions,
			AvgWPM:      sum.AvgWPM,
			BestWPM:     sum.BestWPM,
			AvgAccuracy: sum.AvgAccuracy,
			Outcomes:    map[string]int{},
		},
	}
	for outcome, n := range sum.Outcomes {
		doc.Summary.Outcomes[string(outcome)] = n
	}
	for _, b := range report.Best {
		doc.Best = append(doc.Best, exportBest{
			Config:     b.ConfigKey,
			CharSets:   b.CharSets.Names(),
			Difficulty: b.Difficulty,
			Duration:   b.Duration,
			WPM:        b.FinalWPM,
			Score:      b.FinalScore,
			Mistakes:   b.Mistakes,
			Accuracy:   b.Accuracy,
			Date:       b.EndedAt.UTC().Format(time.RFC3339),
		})
	}
	for _, s := range report.Sessions {
		doc.Sessions = append(doc.Sessions, exportSession{
			ID:         s.SessionID,
			EndedAt:    s.EndedAt.UTC().Format(time.RFC3339),
			Config:     s.ConfigKey,
			Outcome:    string(s.Outcome),
			WPM:        s.FinalWPM,
			Score:      s.FinalScore,
			Accuracy:   s.Accuracy,
			Mistakes:   s.Mistakes,
			DurationMs: s.DurationMs,
		})
	}
	for _, c := range report.CharAggs {
		doc.Chars = append(doc.Chars, exportChar(c))
	}
	return doc
}
