package stats

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/snaketype/internal/model"
)

func bestRows() []model.BestScore {
	base := time.Date(2026, 1, 10, 8, 0, 0, 0, time.UTC)
	return []model.BestScore{
		{ConfigKey: "lowercase-medium-medium", CharSets: model.Lowercase, Difficulty: "medium", Duration: "medium", FinalWPM: 40, FinalScore: 36, Mistakes: 2, Accuracy: 95, EndedAt: base},
		{ConfigKey: "lowercase,numbers-fast-short", CharSets: model.Lowercase | model.Numbers, Difficulty: "fast", Duration: "short", FinalWPM: 55, FinalScore: 55, Mistakes: 0, Accuracy: 100, EndedAt: base.Add(time.Hour)},
		{ConfigKey: "symbols-slow-long", CharSets: model.Symbols, Difficulty: "slow", Duration: "long", FinalWPM: 25, FinalScore: 15, Mistakes: 5, Accuracy: 80, EndedAt: base.Add(-time.Hour)},
	}
}

func TestSortBest(t *testing.T) {
	rows := bestRows()
	SortBest(rows, ColumnWPM, true)
	if rows[0].FinalWPM != 55 || rows[2].FinalWPM != 25 {
		t.Fatalf("unexpected wpm order: %+v", rows)
	}
	SortBest(rows, ColumnMistakes, false)
	if rows[0].Mistakes != 0 || rows[2].Mistakes != 5 {
		t.Fatalf("unexpected mistakes order: %+v", rows)
	}
	SortBest(rows, ColumnDate, false)
	if rows[0].ConfigKey != "symbols-slow-long" {
		t.Fatalf("unexpected date order: %+v", rows)
	}
	SortBest(rows, ColumnAccuracy, true)
	if rows[0].Accuracy != 100 {
		t.Fatalf("unexpected accuracy order: %+v", rows)
	}
}

func TestParseBestColumn(t *testing.T) {
	col, err := ParseBestColumn(" WPM ")
	if err != nil || col != ColumnWPM {
		t.Fatalf("expected wpm column, got %v %v", col, err)
	}
	if _, err := ParseBestColumn("speed"); err == nil {
		t.Fatalf("expected error for unknown column")
	}
}

func TestDefaultDescending(t *testing.T) {
	for col, want := range map[BestColumn]bool{
		ColumnConfig:   false,
		ColumnWPM:      true,
		ColumnScore:    true,
		ColumnMistakes: false,
		ColumnAccuracy: true,
		ColumnDate:     false,
	} {
		if got := DefaultDescending(col); got != want {
			t.Fatalf("column %d: expected desc=%v, got %v", col, want, got)
		}
	}
}

func TestRenderBestTable(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderBestTable(&buf, bestRows()); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Best Scores") || !strings.Contains(out, "Medium (~40 WPM)") {
		t.Fatalf("unexpected table:\n%s", out)
	}
	buf.Reset()
	if err := RenderBestTable(&buf, nil); err != nil {
		t.Fatalf("render empty: %v", err)
	}
	if !strings.Contains(buf.String(), "No best scores yet.") {
		t.Fatalf("unexpected empty output %q", buf.String())
	}
}
