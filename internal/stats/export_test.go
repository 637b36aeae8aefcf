package stats

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/snaketype/internal/model"
)

func exportReport() Report {
	return Report{
		Best: bestRows(),
		Sessions: []model.SessionAggregate{
			{SessionID: 1, ConfigKey: "lowercase-medium-medium", Outcome: model.Victory, FinalWPM: 40, Accuracy: 95},
		},
		CharAggs: []model.CharAggregate{{Char: "a", Correct: 3, Incorrect: 1}},
	}
}

func TestExportJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := Export(&buf, exportReport(), FormatJSON); err != nil {
		t.Fatalf("export: %v", err)
	}
	var doc exportDoc
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(doc.Best) != 3 || doc.Summary.Games != 1 || doc.Summary.Outcomes["victory"] != 1 {
		t.Fatalf("unexpected doc: %+v", doc)
	}
	if doc.Best[1].CharSets[1] != "numbers" {
		t.Fatalf("unexpected char sets: %+v", doc.Best[1])
	}
}

func TestExportYAML(t *testing.T) {
	var buf bytes.Buffer
	if err := Export(&buf, exportReport(), FormatYAML); err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.Contains(buf.String(), "avgWpm: 40") {
		t.Fatalf("unexpected yaml:\n%s", buf.String())
	}
	var doc exportDoc
	if err := yaml.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(doc.Chars) != 1 || doc.Chars[0].Incorrect != 1 {
		t.Fatalf("unexpected chars: %+v", doc.Chars)
	}
}

func TestExportUnknownFormat(t *testing.T) {
	if err := Export(&bytes.Buffer{}, Report{}, "xml"); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}
