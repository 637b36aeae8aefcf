package stats

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/verte-zerg/snaketype/internal/model"
)

// BestColumn identifies a sortable column of the best-score table.
type BestColumn int

// Best-score table columns.
const (
	ColumnConfig BestColumn = iota
	ColumnWPM
	ColumnScore
	ColumnMistakes
	ColumnAccuracy
	ColumnDate
)

var bestColumnNames = map[string]BestColumn{
	"config":   ColumnConfig,
	"wpm":      ColumnWPM,
	"score":    ColumnScore,
	"mistakes": ColumnMistakes,
	"accuracy": ColumnAccuracy,
	"date":     ColumnDate,
}

// ParseBestColumn resolves a column name such as "wpm" or "date".
func ParseBestColumn(name string) (BestColumn, error) {
	col, ok := bestColumnNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("unknown sort column %q", name)
	}
	return col, nil
}

// DefaultDescending reports the natural direction for col: numbers read best
// high-to-low, text and dates low-to-high. Fewer mistakes is better.
func DefaultDescending(col BestColumn) bool {
	return col != ColumnConfig && col != ColumnDate && col != ColumnMistakes
}

// BestHeaders are the column titles used by RenderBestTable and the stats UI.
var BestHeaders = []string{"Config", "WPM", "Score", "Mistakes", "Accuracy", "Date"}

// ConfigLabel describes a best-score row in human terms.
func ConfigLabel(b model.BestScore) string {
	return fmt.Sprintf("%s / %s / %s", b.CharSets, model.DifficultyLabel(b.Difficulty), model.DurationLabel(b.Duration))
}

// SortBest orders rows in place by column. Ties fall back to the config key.
func SortBest(rows []model.BestScore, col BestColumn, desc bool) {
	less := func(a, b model.BestScore) int {
		switch col {
		case ColumnWPM:
			return cmpInt(a.FinalWPM, b.FinalWPM)
		case ColumnScore:
			return cmpInt(a.FinalScore, b.FinalScore)
		case ColumnMistakes:
			return cmpInt(a.Mistakes, b.Mistakes)
		case ColumnAccuracy:
			return cmpFloat(a.Accuracy, b.Accuracy)
		case ColumnDate:
			return a.EndedAt.Compare(b.EndedAt)
		default:
			return strings.Compare(ConfigLabel(a), ConfigLabel(b))
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		c := less(rows[i], rows[j])
		if c == 0 {
			return rows[i].ConfigKey < rows[j].ConfigKey
		}
		if desc {
			return c > 0
		}
		return c < 0
	})
}

// BestRow formats a best-score entry as table cells.
func BestRow(b model.BestScore) []string {
	return []string{
		ConfigLabel(b),
		fmt.Sprintf("%d", b.FinalWPM),
		fmt.Sprintf("%d", b.FinalScore),
		fmt.Sprintf("%d", b.Mistakes),
		fmt.Sprintf("%.1f%%", b.Accuracy),
		b.EndedAt.Local().Format("2006-01-02 15:04"),
	}
}

// RenderBestTable prints the best score for every config played.
func RenderBestTable(w io.Writer, rows []model.BestScore) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "No best scores yet.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Best Scores"); err != nil {
		return err
	}
	tableRows := make([][]string, 0, len(rows))
	for _, r := range rows {
		tableRows = append(tableRows, BestRow(r))
	}
	for _, line := range formatTable(BestHeaders, tableRows, map[int]bool{1: true, 2: true, 3: true, 4: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
