package services

import (
	"testing"
	"time"

	"eventpulse/config"
	"eventpulse/models"
	"eventpulse/utils"
)

type stubEvents struct {
	result *models.EventResult
	panics bool
}

func (s *stubEvents) Fetch(string) *models.EventResult {
	if s.panics {
		panic("eventbrite exploded")
	}
	return s.result
}

type stubReddit struct {
	result *models.RedditResult
	panics bool
}

func (s *stubReddit) Fetch(string, int64, int64) *models.RedditResult {
	if s.panics {
		panic("reddit exploded")
	}
	return s.result
}

type stubTrends struct {
	result *models.TrendResult
	panics bool
}

func (s *stubTrends) Fetch(string, time.Time, time.Time) *models.TrendResult {
	if s.panics {
		panic("trends exploded")
	}
	return s.result
}

func newTestAggregator(e EventSource, r RedditSource, tr TrendSource) *Aggregator {
	return NewAggregator(&config.Config{}, utils.NewLogger(false), e, r, tr)
}

func mustParseRange(t *testing.T, input string) (time.Time, time.Time) {
	t.Helper()
	start, end, err := ParseDateInput(input)
	if err != nil {
		t.Fatalf("ParseDateInput(%q): %v", input, err)
	}
	return start, end
}

func TestParseDateInputSingleDate(t *testing.T) {
	start, end := mustParseRange(t, "2024-05-01")

	wantStart := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	wantEnd := time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)
	if !start.Equal(wantStart) {
		t.Errorf("start: got %v, want %v", start, wantStart)
	}
	if !end.Equal(wantEnd) {
		t.Errorf("end: got %v, want %v", end, wantEnd)
	}
}

func TestParseDateInputExplicitRange(t *testing.T) {
	start, end := mustParseRange(t, "2024-05-01,2024-05-10")

	if !start.Equal(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("start: got %v", start)
	}
	if !end.Equal(time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("end: got %v", end)
	}
}

func TestParseDateInputDateTime(t *testing.T) {
	start, _ := mustParseRange(t, "2024-05-01T13:05:09")
	if !start.Equal(time.Date(2024, 5, 1, 13, 5, 9, 0, time.UTC)) {
		t.Errorf("start: got %v", start)
	}
}

func TestParseDateInputMalformed(t *testing.T) {
	for _, input := range []string{"yesterday", "2024-13-40", "2024-05-01,nope", ""} {
		if _, _, err := ParseDateInput(input); err == nil {
			t.Errorf("ParseDateInput(%q): expected error", input)
		}
	}
}

func TestRunAllSourcesDegraded(t *testing.T) {
	agg := newTestAggregator(
		&stubEvents{result: &models.EventResult{Count: 0, Events: []*models.Event{}, Source: "eventbrite_scrape", Error: "No events found"}},
		&stubReddit{result: &models.RedditResult{Count: 0, Posts: []*models.RedditPost{}, Source: "no_api"}},
		&stubTrends{result: nil},
	)

	start, end := mustParseRange(t, "2024-05-01")
	report := agg.Run("Taylor Swift", start, end)

	if report == nil {
		t.Fatal("report must always be produced")
	}
	if report.Summary.EventbriteEvents == nil || *report.Summary.EventbriteEvents != 0 {
		t.Errorf("eventbrite summary: got %v, want 0", report.Summary.EventbriteEvents)
	}
	if report.Summary.RedditMentions == nil || *report.Summary.RedditMentions != 0 {
		t.Errorf("reddit summary: got %v, want 0", report.Summary.RedditMentions)
	}
	if report.Summary.GoogleTrendsScore != nil {
		t.Errorf("trends summary: got %d, want nil", *report.Summary.GoogleTrendsScore)
	}
	if report.DetailedData.GoogleTrends != nil {
		t.Errorf("trends detail should be nil when absent")
	}

	// Zero counts with valid results still count as successful; only the
	// absent trend source is excluded.
	got := report.SearchMetadata.SourcesSuccessful
	want := []string{"eventbrite", "reddit"}
	if len(got) != len(want) {
		t.Fatalf("SourcesSuccessful: got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("SourcesSuccessful[%d]: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestRunEventSourcePanicIsolated(t *testing.T) {
	gt := 55
	agg := newTestAggregator(
		&stubEvents{panics: true},
		&stubReddit{result: &models.RedditResult{Count: 3, Posts: []*models.RedditPost{}, Source: "reddit_api"}},
		&stubTrends{result: &models.TrendResult{MaxScore: &gt, AvgScore: 40, TrendDirection: "stable"}},
	)

	start, end := mustParseRange(t, "2024-05-01")
	report := agg.Run("Taylor Swift", start, end)

	if report.Summary.EventbriteEvents != nil {
		t.Errorf("panicking source must yield nil summary value")
	}
	if report.DetailedData.Eventbrite == nil || report.DetailedData.Eventbrite.Error == "" {
		t.Error("substituted eventbrite result should carry the failure text")
	}
	if *report.Summary.RedditMentions != 3 {
		t.Errorf("reddit summary: got %d, want 3", *report.Summary.RedditMentions)
	}
	if *report.Summary.GoogleTrendsScore != 55 {
		t.Errorf("trends summary: got %d, want 55", *report.Summary.GoogleTrendsScore)
	}

	got := report.SearchMetadata.SourcesSuccessful
	if len(got) != 2 || got[0] != "reddit" || got[1] != "google_trends" {
		t.Errorf("SourcesSuccessful: got %v, want [reddit google_trends]", got)
	}
}

func TestRunRedditPanicStillCountsZero(t *testing.T) {
	agg := newTestAggregator(
		&stubEvents{result: &models.EventResult{Count: 1, Events: []*models.Event{{Title: "x", RelevanceScore: 95}}}},
		&stubReddit{panics: true},
		&stubTrends{result: nil},
	)

	start, end := mustParseRange(t, "2024-05-01")
	report := agg.Run("Taylor Swift", start, end)

	if report.Summary.RedditMentions == nil || *report.Summary.RedditMentions != 0 {
		t.Errorf("substituted reddit failure keeps an explicit zero count, got %v", report.Summary.RedditMentions)
	}
	if report.DetailedData.Reddit.Error == "" {
		t.Error("substituted reddit result should carry the failure text")
	}
}

func TestRunTrendErrorExcludedFromSuccessful(t *testing.T) {
	agg := newTestAggregator(
		&stubEvents{result: &models.EventResult{Count: 0, Events: []*models.Event{}}},
		&stubReddit{result: &models.RedditResult{Count: 0, Posts: []*models.RedditPost{}, Source: "no_api"}},
		&stubTrends{result: &models.TrendResult{Error: "quota exceeded"}},
	)

	start, end := mustParseRange(t, "2024-05-01")
	report := agg.Run("Taylor Swift", start, end)

	if report.Summary.GoogleTrendsScore != nil {
		t.Error("errored trend query must leave the summary score nil")
	}
	if report.DetailedData.GoogleTrends == nil || report.DetailedData.GoogleTrends.Error == "" {
		t.Error("errored trend query should keep its detail section with the error")
	}
	for _, s := range report.SearchMetadata.SourcesSuccessful {
		if s == "google_trends" {
			t.Error("google_trends must not be marked successful on error")
		}
	}
}

func TestRunReportMetadata(t *testing.T) {
	agg := newTestAggregator(
		&stubEvents{result: &models.EventResult{Count: 0, Events: []*models.Event{}}},
		&stubReddit{result: &models.RedditResult{Count: 0, Posts: []*models.RedditPost{}}},
		&stubTrends{result: nil},
	)

	start, end := mustParseRange(t, "2024-05-01,2024-05-10")
	report := agg.Run("Taylor Swift", start, end)

	if report.Keyword != "Taylor Swift" {
		t.Errorf("Keyword: got %q", report.Keyword)
	}
	if report.Date != "2024-05-01" {
		t.Errorf("Date: got %q, want 2024-05-01", report.Date)
	}
	if report.SearchMetadata.DateRange != "2024-05-01 to 2024-05-10" {
		t.Errorf("DateRange: got %q", report.SearchMetadata.DateRange)
	}
	attempted := report.SearchMetadata.SourcesAttempted
	if len(attempted) != 3 || attempted[0] != "eventbrite" || attempted[1] != "reddit" || attempted[2] != "google_trends" {
		t.Errorf("SourcesAttempted: got %v", attempted)
	}
	if report.CollectedAt == "" {
		t.Error("CollectedAt must be set")
	}
}
