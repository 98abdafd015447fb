package models

// Event is one scraped event listing, normalized and scored at extraction
// time. Field names match the report format written to disk.
type Event struct {
	Title          string `json:"title"`
	DateText       string `json:"date_text"`
	Location       string `json:"location"`
	Link           string `json:"link"`
	RelevanceScore int    `json:"relevance_score"`
	Source         string `json:"source"`
}

// EventResult is the per-run outcome of the event-listing source.
// Invariant: Count == len(Events), and every kept event scores at or above
// RelevanceThreshold.
type EventResult struct {
	Count              int      `json:"count"`
	Events             []*Event `json:"events"`
	Source             string   `json:"source"`
	SelectorUsed       string   `json:"selector_used,omitempty"`
	TotalEventsFound   int      `json:"total_events_found"`
	RelevanceThreshold int      `json:"relevance_threshold"`
	Error              string   `json:"error,omitempty"`
}

// RedditPost is one discussion post with its computed relevance and
// date-range membership.
type RedditPost struct {
	Title          string  `json:"title"`
	Subreddit      string  `json:"subreddit"`
	Author         string  `json:"author"`
	Score          int     `json:"score"`
	NumComments    int     `json:"num_comments"`
	CreatedUTC     float64 `json:"created_utc"`
	CreatedDate    string  `json:"created_date"`
	URL            string  `json:"url"`
	RelevanceScore int     `json:"relevance_score"`
	InDateRange    bool    `json:"in_date_range"`
}

// RedditResult is the per-run outcome of the discussion source. Source is
// "reddit_api" when the API was reached and "no_api" when credentials are
// not configured.
type RedditResult struct {
	Count              int           `json:"count"`
	Posts              []*RedditPost `json:"posts"`
	InDateRange        int           `json:"in_date_range"`
	Source             string        `json:"source"`
	TotalPostsFound    int           `json:"total_posts_found"`
	PostsInDateRange   int           `json:"posts_in_date_range"`
	RelevanceThreshold int           `json:"relevance_threshold"`
	Error              string        `json:"error,omitempty"`
}

// TrendPoint is one day of source-normalized search interest (0-100).
type TrendPoint struct {
	Date  string `json:"date"`
	Score int    `json:"score"`
}

// TrendResult aggregates a daily interest series. A nil *TrendResult means
// the capability is absent or the series was empty; a non-nil result with
// only Error set means the query failed.
type TrendResult struct {
	MaxScore       *int          `json:"max_score"`
	AvgScore       int           `json:"avg_score"`
	MinScore       int           `json:"min_score"`
	TrendDirection string        `json:"trend_direction"`
	TotalDays      int           `json:"total_days"`
	Timeframe      string        `json:"timeframe"`
	DailyData      []*TrendPoint `json:"daily_data"`
	Error          string        `json:"error,omitempty"`
}

// Summary holds one scalar per source. A nil value marshals as null and
// marks the source as failed; an explicit zero still counts as successful.
type Summary struct {
	EventbriteEvents  *int `json:"eventbrite_events"`
	RedditMentions    *int `json:"reddit_mentions"`
	GoogleTrendsScore *int `json:"google_trends_score"`
}

// DetailedData carries each source's full result verbatim.
type DetailedData struct {
	Eventbrite   *EventResult  `json:"eventbrite"`
	Reddit       *RedditResult `json:"reddit"`
	GoogleTrends *TrendResult  `json:"google_trends"`
}

// SearchMetadata describes how the run went.
type SearchMetadata struct {
	SearchDurationSeconds float64  `json:"search_duration_seconds"`
	DateRange             string   `json:"date_range"`
	SourcesAttempted      []string `json:"sources_attempted"`
	SourcesSuccessful     []string `json:"sources_successful"`
}

// Report is the single JSON document produced per run.
type Report struct {
	Keyword        string          `json:"keyword"`
	Summary        *Summary        `json:"summary"`
	DetailedData   *DetailedData   `json:"detailed_data"`
	Date           string          `json:"date"`
	CollectedAt    string          `json:"collected_at"`
	SearchMetadata *SearchMetadata `json:"search_metadata"`
}
