// Package trends retrieves daily search-interest series from Google Trends.
package trends

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"eventpulse/config"
	"eventpulse/models"
	"eventpulse/utils"
)

const (
	explorePath = "/trends/api/explore"
	widgetPath  = "/trends/api/widgetdata/multiline"

	hostLanguage = "en-UK"
	timezone     = "0"
)

// Client queries the public Trends JSON endpoints: an explore call yields a
// widget token, a widgetdata call yields the timeline. Fetch returns nil when
// the capability is disabled or the series is empty; both are recognized
// degraded modes, not errors.
type Client struct {
	cfg        *config.Config
	logger     *utils.Logger
	HTTPClient *http.Client

	// BaseURL is overridable in tests.
	BaseURL string
}

// NewClient creates a new Trends client.
func NewClient(cfg *config.Config, logger *utils.Logger) *Client {
	return &Client{
		cfg:    cfg,
		logger: logger,
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		BaseURL: "https://trends.google.com",
	}
}

// Available reports whether the trend-query capability is enabled.
func (c *Client) Available() bool {
	return c.cfg.TrendsEnabled
}

// Fetch retrieves the daily interest series for keyword over the inclusive
// date window and summarizes it. A nil return means no data is available.
func (c *Client) Fetch(keyword string, start, end time.Time) *models.TrendResult {
	c.logger.Info("[trends] Starting search for keyword: %q", keyword)

	if !c.Available() {
		c.logger.Warn("[trends] Trend queries disabled, skipping")
		return nil
	}

	timeframe := start.Format("2006-01-02") + " " + end.Format("2006-01-02")
	c.logger.Info("[trends] Building payload with timeframe: %s", timeframe)

	points, err := c.interestOverTime(keyword, timeframe)
	if err != nil {
		c.logger.Error("[trends] Query failed: %v", err)
		return &models.TrendResult{Error: err.Error()}
	}
	if len(points) == 0 {
		c.logger.Warn("[trends] No data returned")
		return nil
	}

	result := summarize(points, timeframe)
	c.logger.Info("[trends] Scores - Max: %d, Average: %d, Trend: %s",
		*result.MaxScore, result.AvgScore, result.TrendDirection)
	return result
}

// summarize computes the aggregate view over a non-empty series.
func summarize(points []*models.TrendPoint, timeframe string) *models.TrendResult {
	maxScore := points[0].Score
	minScore := points[0].Score
	total := 0
	for _, p := range points {
		total += p.Score
		if p.Score > maxScore {
			maxScore = p.Score
		}
		if p.Score < minScore {
			minScore = p.Score
		}
	}

	direction := "unknown"
	if len(points) >= 2 {
		first, last := points[0].Score, points[len(points)-1].Score
		switch {
		case last > first:
			direction = "increasing"
		case last < first:
			direction = "decreasing"
		default:
			direction = "stable"
		}
	}

	return &models.TrendResult{
		MaxScore:       &maxScore,
		AvgScore:       total / len(points),
		MinScore:       minScore,
		TrendDirection: direction,
		TotalDays:      len(points),
		Timeframe:      timeframe,
		DailyData:      points,
	}
}

// exploreResponse carries the widget list returned by the explore endpoint.
type exploreResponse struct {
	Widgets []struct {
		ID      string          `json:"id"`
		Token   string          `json:"token"`
		Request json.RawMessage `json:"request"`
	} `json:"widgets"`
}

// widgetResponse carries the timeline returned by the multiline endpoint.
type widgetResponse struct {
	Default struct {
		TimelineData []struct {
			Time  string `json:"time"`
			Value []int  `json:"value"`
		} `json:"timelineData"`
	} `json:"default"`
}

// interestOverTime performs the explore/widgetdata call pair.
func (c *Client) interestOverTime(keyword, timeframe string) ([]*models.TrendPoint, error) {
	exploreReq := map[string]any{
		"comparisonItem": []map[string]string{
			{"keyword": keyword, "geo": "", "time": timeframe},
		},
		"category": 0,
		"property": "",
	}
	reqJSON, err := json.Marshal(exploreReq)
	if err != nil {
		return nil, fmt.Errorf("marshal explore request: %w", err)
	}

	body, err := c.get(c.BaseURL+explorePath, url.Values{
		"hl":  {hostLanguage},
		"tz":  {timezone},
		"req": {string(reqJSON)},
	})
	if err != nil {
		return nil, fmt.Errorf("explore: %w", err)
	}

	var explore exploreResponse
	if err := json.Unmarshal(stripXSSIPrefix(body), &explore); err != nil {
		return nil, fmt.Errorf("decode explore response: %w", err)
	}

	var token string
	var widgetReq json.RawMessage
	for _, w := range explore.Widgets {
		if w.ID == "TIMESERIES" {
			token = w.Token
			widgetReq = w.Request
			break
		}
	}
	if token == "" {
		return nil, fmt.Errorf("no TIMESERIES widget in explore response")
	}

	body, err = c.get(c.BaseURL+widgetPath, url.Values{
		"hl":    {hostLanguage},
		"tz":    {timezone},
		"req":   {string(widgetReq)},
		"token": {token},
	})
	if err != nil {
		return nil, fmt.Errorf("widgetdata: %w", err)
	}

	var widget widgetResponse
	if err := json.Unmarshal(stripXSSIPrefix(body), &widget); err != nil {
		return nil, fmt.Errorf("decode widgetdata response: %w", err)
	}

	points := make([]*models.TrendPoint, 0, len(widget.Default.TimelineData))
	for _, d := range widget.Default.TimelineData {
		secs, err := strconv.ParseInt(d.Time, 10, 64)
		if err != nil || len(d.Value) == 0 {
			continue
		}
		points = append(points, &models.TrendPoint{
			Date:  time.Unix(secs, 0).UTC().Format("2006-01-02"),
			Score: d.Value[0],
		})
	}
	return points, nil
}

func (c *Client) get(endpoint string, params url.Values) ([]byte, error) {
	req, err := http.NewRequest(http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "eventpulse/1.0")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// stripXSSIPrefix removes the anti-XSSI garbage line the endpoints prepend to
// their JSON bodies.
func stripXSSIPrefix(body []byte) []byte {
	if i := bytes.IndexByte(body, '{'); i > 0 {
		return body[i:]
	}
	return body
}
