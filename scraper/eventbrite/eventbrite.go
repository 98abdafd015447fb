package eventbrite

import (
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode"

	"github.com/PuerkitoBio/goquery"

	"eventpulse/config"
	"eventpulse/models"
	"eventpulse/relevance"
	"eventpulse/utils"
)

const (
	sourceScrape = "eventbrite_scrape"
	sourceLinks  = "eventbrite_links"

	// linkBase absolutizes relative event links found in search pages.
	linkBase = "https://www.eventbrite.com"

	userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 " +
		"(KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

	maxTitleLen = 200
	maxFieldLen = 100
)

// cardSelectors are tried in priority order; the first selector that matches
// at least one element wins. Eventbrite rotates its markup, so the list spans
// several generations of the search page.
var cardSelectors = []string{
	"[data-testid='search-result-event-card']",
	".search-event-card-wrapper",
	".eds-event-card-content__primary-content",
	".search-main-content__events-list-item",
	"[data-spec='search-result']",
	".search-results-panel-content article",
	".event-card",
	"[class*='event-card']",
	".discover-search-desktop-card",
	".eds-card-content",
}

// Scraper extracts event listings from Eventbrite search pages.
type Scraper struct {
	cfg    *config.Config
	logger *utils.Logger
	client *http.Client

	// BaseURL is the search site root; overridable in tests.
	BaseURL string
}

// New creates a ready-to-use Eventbrite Scraper.
func New(cfg *config.Config, logger *utils.Logger) *Scraper {
	return &Scraper{
		cfg:    cfg,
		logger: logger,
		client: &http.Client{
			Timeout: time.Duration(cfg.FetchTimeoutSec) * time.Second,
		},
		BaseURL: "https://www.eventbrite.co.uk",
	}
}

// Fetch runs the UK-focused search for keyword and returns a result even when
// every URL and extraction strategy fails.
func (s *Scraper) Fetch(keyword string) *models.EventResult {
	s.logger.Info("[eventbrite] Starting search for keyword: %q (UK-focused)", keyword)

	for i, pageURL := range s.searchURLs(keyword) {
		s.logger.Info("[eventbrite] Attempt %d: fetching %s", i+1, pageURL)

		doc, err := s.fetchDocument(pageURL)
		if err != nil {
			s.logger.Error("[eventbrite] Error with URL %d: %v", i+1, err)
			continue
		}
		if doc == nil {
			s.logger.Info("[eventbrite] URL %d returned 404, trying next...", i+1)
			continue
		}

		if result := s.extract(doc, keyword); result != nil {
			return result
		}

		// Static HTML had nothing extractable; re-render through a headless
		// browser when one is available and try once more.
		if html, ok := s.render(pageURL); ok {
			rendered, err := goquery.NewDocumentFromReader(strings.NewReader(html))
			if err != nil {
				s.logger.Warn("[eventbrite] Rendered page parse failed: %v", err)
			} else if result := s.extract(rendered, keyword); result != nil {
				return result
			}
		}

		s.logger.Info("[eventbrite] No events found with URL %d, trying next...", i+1)
	}

	s.logger.Warn("[eventbrite] No events found with any URL or method")
	return &models.EventResult{
		Count:  0,
		Events: []*models.Event{},
		Source: sourceScrape,
		Error:  "No events found",
	}
}

// searchURLs returns the candidate query URLs in fallback order.
func (s *Scraper) searchURLs(keyword string) []string {
	q := strings.ReplaceAll(keyword, " ", "+")
	return []string{
		fmt.Sprintf("%s/d/united-kingdom/%s/", s.BaseURL, q),
		fmt.Sprintf("%s/search?q=%s&location=United+Kingdom", s.BaseURL, q),
	}
}

// fetchDocument GETs pageURL and parses it. A 404 returns (nil, nil) so the
// caller can move to the next URL without treating it as a failure.
func (s *Scraper) fetchDocument(pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequest(http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch page: %w", err)
	}
	defer resp.Body.Close()

	s.logger.Info("[eventbrite] HTTP status: %d", resp.StatusCode)

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}
	return doc, nil
}

// extract tries each card selector in priority order, then falls back to
// scanning event-detail links. Returns nil when nothing was extractable.
func (s *Scraper) extract(doc *goquery.Document, keyword string) *models.EventResult {
	s.logger.Debug("[eventbrite] Trying %d CSS selectors...", len(cardSelectors))

	for i, selector := range cardSelectors {
		cards := doc.Find(selector)
		s.logger.Debug("[eventbrite] %d. Selector %q: %d matches", i+1, selector, cards.Length())
		if cards.Length() == 0 {
			continue
		}

		s.logger.Info("[eventbrite] Found %d events using selector: %s", cards.Length(), selector)

		var events []*models.Event
		cards.Each(func(_ int, card *goquery.Selection) {
			events = append(events, s.parseCard(card, keyword))
		})

		high := filterEvents(events)
		s.logger.Info("[eventbrite] Filtered to %d high-relevance events (%d+ score) from %d total",
			len(high), relevance.Threshold, len(events))

		return &models.EventResult{
			Count:              len(high),
			Events:             high,
			Source:             sourceScrape,
			SelectorUsed:       selector,
			TotalEventsFound:   len(events),
			RelevanceThreshold: relevance.Threshold,
		}
	}

	return s.extractLinks(doc, keyword)
}

// extractLinks is the last-resort strategy: collect every hyperlink whose
// target looks like an event detail page.
func (s *Scraper) extractLinks(doc *goquery.Document, keyword string) *models.EventResult {
	s.logger.Info("[eventbrite] Trying fallback: looking for event links (/e/ pattern)")

	links := doc.Find("a[href*='/e/']")
	if links.Length() == 0 {
		return nil
	}

	s.logger.Info("[eventbrite] Found %d event links", links.Length())

	seen := utils.NewURLSet()
	var events []*models.Event

	links.Each(func(i int, link *goquery.Selection) {
		href, _ := link.Attr("href")
		if href == "" {
			return
		}
		href = absolutize(href)
		if !seen.Add(href) {
			s.logger.Debug("[eventbrite] Skipping duplicate link: %s", href)
			return
		}

		title := collapseWhitespace(link.Text())
		if title == "" {
			title = fmt.Sprintf("Event %d", i+1)
		}

		events = append(events, &models.Event{
			Title:          truncate(title, maxTitleLen),
			DateText:       "",
			Location:       "",
			Link:           href,
			RelevanceScore: relevance.Score(title, keyword),
			Source:         sourceLinks,
		})
	})

	high := filterEvents(events)
	s.logger.Info("[eventbrite] Filtered to %d high-relevance events (%d+ score) from %d total",
		len(high), relevance.Threshold, len(events))

	return &models.EventResult{
		Count:              len(high),
		Events:             high,
		Source:             sourceLinks,
		TotalEventsFound:   len(events),
		RelevanceThreshold: relevance.Threshold,
	}
}

// parseCard derives a normalized Event from one result card.
func (s *Scraper) parseCard(card *goquery.Selection, keyword string) *models.Event {
	title := collapseWhitespace(card.Find("h1, h2, h3, h4, h5, h6").First().Text())
	if title == "" {
		title = textByClassContaining(card, "title")
	}
	if title == "" {
		title = truncate(collapseWhitespace(card.Text()), maxFieldLen)
	}

	dateText := textByClassContaining(card, "date", "time", "when")
	location := textByClassContaining(card, "location", "venue", "where")

	link, _ := card.Find("a[href]").First().Attr("href")
	link = absolutize(link)

	return &models.Event{
		Title:          truncate(title, maxTitleLen),
		DateText:       truncate(dateText, maxFieldLen),
		Location:       truncate(location, maxFieldLen),
		Link:           link,
		RelevanceScore: relevance.Score(title, keyword),
		Source:         sourceScrape,
	}
}

// filterEvents keeps only events at or above the relevance threshold.
func filterEvents(events []*models.Event) []*models.Event {
	high := make([]*models.Event, 0, len(events))
	for _, e := range events {
		if e.RelevanceScore >= relevance.Threshold {
			high = append(high, e)
		}
	}
	return high
}

// textByClassContaining returns the text of the first descendant whose class
// attribute contains any of the given words, case-insensitively.
func textByClassContaining(sel *goquery.Selection, words ...string) string {
	var out string
	sel.Find("[class]").EachWithBreak(func(_ int, el *goquery.Selection) bool {
		class, _ := el.Attr("class")
		classLower := strings.ToLower(class)
		for _, w := range words {
			if strings.Contains(classLower, w) {
				out = collapseWhitespace(el.Text())
				return false
			}
		}
		return true
	})
	return out
}

func absolutize(link string) string {
	if link == "" || strings.HasPrefix(link, "http") {
		return link
	}
	return linkBase + link
}

// collapseWhitespace trims the string and folds internal runs of whitespace
// into single spaces.
func collapseWhitespace(s string) string {
	fields := strings.FieldsFunc(strings.TrimSpace(s), unicode.IsSpace)
	return strings.Join(fields, " ")
}

// truncate caps s at max runes without splitting a multi-byte character.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
