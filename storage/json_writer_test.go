package storage

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"eventpulse/models"
)

func TestOutputFilename(t *testing.T) {
	at := time.Date(2024, 5, 1, 13, 5, 9, 0, time.UTC)

	tests := []struct {
		keyword string
		want    string
	}{
		{"Taylor Swift!!", "taylor_swift_20240501_130509_search_output.json"},
		{"Notting Hill Carnival", "notting_hill_carnival_20240501_130509_search_output.json"},
		{"glasto-2024", "glasto-2024_20240501_130509_search_output.json"},
		{"a_b", "a_b_20240501_130509_search_output.json"},
	}

	for _, tt := range tests {
		if got := OutputFilename(tt.keyword, at); got != tt.want {
			t.Errorf("OutputFilename(%q) = %q; want %q", tt.keyword, got, tt.want)
		}
	}
}

func sampleReport() *models.Report {
	count := 2
	return &models.Report{
		Keyword: "Taylor Swift",
		Summary: &models.Summary{EventbriteEvents: &count, RedditMentions: &count},
		DetailedData: &models.DetailedData{
			Eventbrite: &models.EventResult{Count: 2, Events: []*models.Event{}},
			Reddit:     &models.RedditResult{Count: 2, Posts: []*models.RedditPost{}},
		},
		Date:        "2024-05-01",
		CollectedAt: "2024-05-01T13:05:09Z",
		SearchMetadata: &models.SearchMetadata{
			DateRange:         "2024-05-01 to 2024-05-02",
			SourcesAttempted:  []string{"eventbrite", "reddit", "google_trends"},
			SourcesSuccessful: []string{"eventbrite", "reddit"},
		},
	}
}

func TestJSONWriterWritesFileAndEchoes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "report.json")
	var echo bytes.Buffer

	w := NewJSONWriter(path)
	w.echo = &echo

	if err := w.Write(sampleReport()); err != nil {
		t.Fatalf("Write: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading report: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("report is not valid JSON: %v", err)
	}
	for _, key := range []string{"keyword", "summary", "detailed_data", "date", "collected_at", "search_metadata"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("report missing key %q", key)
		}
	}

	// Null summary value survives the round trip as null, not 0.
	summary := decoded["summary"].(map[string]any)
	if summary["google_trends_score"] != nil {
		t.Errorf("google_trends_score: got %v, want null", summary["google_trends_score"])
	}

	if echo.Len() == 0 {
		t.Error("report was not echoed")
	}
	if echo.String() != string(data) {
		t.Error("echoed JSON differs from the file contents")
	}
}

func TestJSONWriterIndentsOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	w := NewJSONWriter(path)
	w.echo = nil

	if err := w.Write(sampleReport()); err != nil {
		t.Fatalf("Write: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading report: %v", err)
	}
	if !strings.Contains(string(data), "\n  \"keyword\"") {
		t.Error("expected 2-space-indented JSON")
	}
}
