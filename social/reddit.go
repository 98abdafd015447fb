// Package social collects keyword mentions from the Reddit API.
package social

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"eventpulse/config"
	"eventpulse/models"
	"eventpulse/relevance"
	"eventpulse/utils"
)

const (
	// ukSubreddits is the fixed allow-list of region-specific forums searched.
	ukSubreddits = "unitedkingdom+uk+london+manchester+birmingham+glasgow+edinburgh+" +
		"liverpool+bristol+leeds+casualuk+britishproblems+askuk"

	// searchLimit is the API's per-request maximum; pagination is out of scope.
	searchLimit = 100

	sourceAPI  = "reddit_api"
	sourceNone = "no_api"
)

// Client handles interactions with the Reddit API.
type Client struct {
	cfg        *config.Config
	logger     *utils.Logger
	HTTPClient *http.Client

	// AuthURL and APIURL are overridable in tests.
	AuthURL string
	APIURL  string
}

// apiPost mirrors the fields of a search result we care about.
type apiPost struct {
	Title       string  `json:"title"`
	Subreddit   string  `json:"subreddit"`
	Author      string  `json:"author"`
	Score       int     `json:"score"`
	NumComments int     `json:"num_comments"`
	CreatedUTC  float64 `json:"created_utc"`
	Permalink   string  `json:"permalink"`
}

// listingResponse mirrors the structure of a Reddit listing.
type listingResponse struct {
	Data struct {
		Children []struct {
			Data apiPost `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

// NewClient creates a new Reddit API client.
func NewClient(cfg *config.Config, logger *utils.Logger) *Client {
	return &Client{
		cfg:    cfg,
		logger: logger,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		AuthURL: "https://www.reddit.com",
		APIURL:  "https://oauth.reddit.com",
	}
}

// Available reports whether API credentials are configured.
func (c *Client) Available() bool {
	return c.cfg.RedditClientID != "" && c.cfg.RedditClientSecret != ""
}

// Fetch searches the UK subreddit allow-list for keyword and returns mentions
// created between startTS and endTS (inclusive Unix seconds). It always
// returns a result: missing credentials and API failures are degraded states,
// never errors.
func (c *Client) Fetch(keyword string, startTS, endTS int64) *models.RedditResult {
	c.logger.Info("[reddit] Starting search for keyword: %q (UK-prioritized)", keyword)
	c.logger.Info("[reddit] Date range: %s to %s (timestamps: %d - %d)",
		time.Unix(startTS, 0).Format("2006-01-02 15:04:05"),
		time.Unix(endTS, 0).Format("2006-01-02 15:04:05"),
		startTS, endTS)

	if !c.Available() {
		c.logger.Info("[reddit] API credentials not available")
		return &models.RedditResult{
			Count:  0,
			Posts:  []*models.RedditPost{},
			Source: sourceNone,
		}
	}

	posts, err := c.search(keyword)
	if err != nil {
		c.logger.Error("[reddit] API search failed: %v", err)
		return &models.RedditResult{
			Count:  0,
			Posts:  []*models.RedditPost{},
			Source: sourceAPI,
			Error:  err.Error(),
		}
	}

	c.logger.Info("[reddit] Found %d total submissions", len(posts))
	return c.buildResult(posts, keyword, startTS, endTS)
}

// buildResult partitions posts by the date window and applies the relevance
// filter. When nothing falls inside the window the result is empty no matter
// how well the off-range posts score; they are never substituted in.
func (c *Client) buildResult(posts []apiPost, keyword string, startTS, endTS int64) *models.RedditResult {
	detailed := make([]*models.RedditPost, 0, len(posts))
	inRange := 0

	for _, p := range posts {
		author := p.Author
		if author == "" {
			author = "[deleted]"
		}

		created := int64(p.CreatedUTC)
		within := created >= startTS && created <= endTS
		if within {
			inRange++
		}

		detailed = append(detailed, &models.RedditPost{
			Title:          p.Title,
			Subreddit:      p.Subreddit,
			Author:         author,
			Score:          p.Score,
			NumComments:    p.NumComments,
			CreatedUTC:     p.CreatedUTC,
			CreatedDate:    time.Unix(created, 0).Format("2006-01-02 15:04:05"),
			URL:            "https://reddit.com" + p.Permalink,
			RelevanceScore: relevance.Score(p.Title, keyword),
			InDateRange:    within,
		})
	}

	if inRange == 0 {
		c.logger.Info("[reddit] No posts found in target date range, returning empty result")
		return &models.RedditResult{
			Count:              0,
			Posts:              []*models.RedditPost{},
			InDateRange:        0,
			Source:             sourceAPI,
			TotalPostsFound:    len(detailed),
			PostsInDateRange:   0,
			RelevanceThreshold: relevance.Threshold,
		}
	}

	high := make([]*models.RedditPost, 0, inRange)
	for _, p := range detailed {
		if p.InDateRange && p.RelevanceScore >= relevance.Threshold {
			high = append(high, p)
		}
	}

	c.logger.Info("[reddit] Filtered to %d high-relevance posts (%d+ score) within date range from %d total",
		len(high), relevance.Threshold, len(detailed))

	return &models.RedditResult{
		Count:              len(high),
		Posts:              high,
		InDateRange:        len(high),
		Source:             sourceAPI,
		TotalPostsFound:    len(detailed),
		PostsInDateRange:   inRange,
		RelevanceThreshold: relevance.Threshold,
	}
}

// search issues one authenticated search call scoped to the UK allow-list,
// returning up to searchLimit most-recent matches.
func (c *Client) search(keyword string) ([]apiPost, error) {
	token, err := c.accessToken()
	if err != nil {
		return nil, fmt.Errorf("access token: %w", err)
	}

	q := url.Values{}
	q.Set("q", keyword)
	q.Set("limit", fmt.Sprintf("%d", searchLimit))
	q.Set("sort", "new")
	q.Set("restrict_sr", "1")
	q.Set("raw_json", "1")

	endpoint := fmt.Sprintf("%s/r/%s/search.json?%s", c.APIURL, ukSubreddits, q.Encode())

	req, err := http.NewRequest(http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("User-Agent", c.cfg.RedditUserAgent)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("connect to Reddit API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Reddit API returned status code %d", resp.StatusCode)
	}

	var listing listingResponse
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		return nil, fmt.Errorf("decode Reddit API response: %w", err)
	}

	posts := make([]apiPost, 0, len(listing.Data.Children))
	for _, child := range listing.Data.Children {
		posts = append(posts, child.Data)
	}
	return posts, nil
}

// accessToken obtains an application-only OAuth token via the
// client-credentials grant.
func (c *Client) accessToken() (string, error) {
	form := url.Values{"grant_type": {"client_credentials"}}

	req, err := http.NewRequest(http.MethodPost,
		c.AuthURL+"/api/v1/access_token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.SetBasicAuth(c.cfg.RedditClientID, c.cfg.RedditClientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", c.cfg.RedditUserAgent)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("connect to Reddit auth: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("Reddit auth returned status code %d", resp.StatusCode)
	}

	var tok struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}
	if tok.AccessToken == "" {
		return "", fmt.Errorf("empty access token in response")
	}
	return tok.AccessToken, nil
}
