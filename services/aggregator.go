package services

import (
	"fmt"
	"strings"
	"time"

	"eventpulse/config"
	"eventpulse/models"
	"eventpulse/utils"
)

// EventSource, RedditSource and TrendSource are the three collectors the
// aggregator drives. Each is total: failures come back inside the result, not
// as errors.
type EventSource interface {
	Fetch(keyword string) *models.EventResult
}

type RedditSource interface {
	Fetch(keyword string, startTS, endTS int64) *models.RedditResult
}

type TrendSource interface {
	Fetch(keyword string, start, end time.Time) *models.TrendResult
}

// Aggregator runs every source strictly in sequence and assembles the final
// report. One source failing never prevents the others from running.
type Aggregator struct {
	cfg    *config.Config
	logger *utils.Logger
	events EventSource
	reddit RedditSource
	trends TrendSource
}

// NewAggregator wires the aggregator with explicit dependencies.
func NewAggregator(cfg *config.Config, logger *utils.Logger,
	events EventSource, reddit RedditSource, trends TrendSource) *Aggregator {
	return &Aggregator{
		cfg:    cfg,
		logger: logger,
		events: events,
		reddit: reddit,
		trends: trends,
	}
}

// ParseDateInput parses either a single ISO date (yielding a 24-hour window)
// or an explicit "start,end" pair.
func ParseDateInput(input string) (time.Time, time.Time, error) {
	if strings.Contains(input, ",") {
		parts := strings.SplitN(input, ",", 2)
		start, err := parseISO(strings.TrimSpace(parts[0]))
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		end, err := parseISO(strings.TrimSpace(parts[1]))
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		return start, end, nil
	}

	start, err := parseISO(strings.TrimSpace(input))
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, start.Add(24 * time.Hour), nil
}

func parseISO(s string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid ISO date %q", s)
}

// Run collects from all three sources and builds the aggregate report. It
// always returns a well-formed report, whatever subset of sources failed.
func (a *Aggregator) Run(keyword string, start, end time.Time) *models.Report {
	began := time.Now()

	a.logger.Info("[aggregator] Keyword: %q | Range: %s to %s",
		keyword, start.Format("2006-01-02"), end.Format("2006-01-02"))

	ebResult, ebCount := a.collectEvents(keyword)
	rdResult, rdCount := a.collectReddit(keyword, start.Unix(), end.Unix())
	gtResult, gtScore := a.collectTrends(keyword, start, end)

	successful := make([]string, 0, 3)
	if ebCount != nil {
		successful = append(successful, "eventbrite")
	}
	if rdCount != nil {
		successful = append(successful, "reddit")
	}
	if gtScore != nil {
		successful = append(successful, "google_trends")
	}

	return &models.Report{
		Keyword: keyword,
		Summary: &models.Summary{
			EventbriteEvents:  ebCount,
			RedditMentions:    rdCount,
			GoogleTrendsScore: gtScore,
		},
		DetailedData: &models.DetailedData{
			Eventbrite:   ebResult,
			Reddit:       rdResult,
			GoogleTrends: gtResult,
		},
		Date:        start.Format("2006-01-02"),
		CollectedAt: time.Now().UTC().Format(time.RFC3339),
		SearchMetadata: &models.SearchMetadata{
			SearchDurationSeconds: time.Since(began).Seconds(),
			DateRange: fmt.Sprintf("%s to %s",
				start.Format("2006-01-02"), end.Format("2006-01-02")),
			SourcesAttempted:  []string{"eventbrite", "reddit", "google_trends"},
			SourcesSuccessful: successful,
		},
	}
}

// collectEvents isolates the event-listing source: a panicking adapter is
// downgraded to a zero-count result with a nil summary value.
func (a *Aggregator) collectEvents(keyword string) (result *models.EventResult, count *int) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("[aggregator] Eventbrite fetch error: %v", r)
			result = &models.EventResult{
				Count:  0,
				Events: []*models.Event{},
				Source: "eventbrite_scrape",
				Error:  fmt.Sprint(r),
			}
			count = nil
		}
	}()

	result = a.events.Fetch(keyword)
	count = &result.Count
	a.logger.Info("[aggregator] Eventbrite result: %d events", result.Count)
	return result, count
}

// collectReddit isolates the discussion source. A substituted failure still
// carries an explicit zero count, matching the summary's null-vs-zero rule.
func (a *Aggregator) collectReddit(keyword string, startTS, endTS int64) (result *models.RedditResult, count *int) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("[aggregator] Reddit fetch error: %v", r)
			zero := 0
			result = &models.RedditResult{
				Count:  0,
				Posts:  []*models.RedditPost{},
				Source: "reddit_api",
				Error:  fmt.Sprint(r),
			}
			count = &zero
		}
	}()

	result = a.reddit.Fetch(keyword, startTS, endTS)
	count = &result.Count
	a.logger.Info("[aggregator] Reddit result: %d posts (%d in date range)",
		result.Count, result.PostsInDateRange)
	return result, count
}

// collectTrends isolates the trend source. Absent and failed are distinct
// degraded states; both leave the summary score nil.
func (a *Aggregator) collectTrends(keyword string, start, end time.Time) (result *models.TrendResult, score *int) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("[aggregator] Google Trends error: %v", r)
			result = &models.TrendResult{Error: fmt.Sprint(r)}
			score = nil
		}
	}()

	result = a.trends.Fetch(keyword, start, end)
	if result == nil {
		a.logger.Info("[aggregator] Google Trends result: no data available")
		return nil, nil
	}
	if result.MaxScore != nil {
		a.logger.Info("[aggregator] Google Trends result: Max %d, Avg %d, Trend: %s",
			*result.MaxScore, result.AvgScore, result.TrendDirection)
	}
	return result, result.MaxScore
}
