// Package relevance scores candidate text against a search keyword.
package relevance

import "strings"

// Threshold is the minimum score for an item to count toward a source's total.
const Threshold = 90

// eventTerms earn a context bonus: text mentioning any of these reads as
// event-related even without a keyword hit.
var eventTerms = []string{
	"festival", "event", "celebration", "party", "concert",
	"show", "tour", "live", "performance",
}

// Score rates how relevant text is to keyword on a 0-100 scale. The match is
// case-insensitive: a whole-keyword hit is worth 100, each keyword word found
// in the text adds 35 (the keyword's own words count again), and any
// event-related term adds 20. The total is clamped once, at the end. An empty
// keyword can only score through the event-term bonus.
func Score(text, keyword string) int {
	textLower := strings.ToLower(text)
	keywordLower := strings.ToLower(keyword)

	score := 0

	if keywordLower != "" && strings.Contains(textLower, keywordLower) {
		score += 100
	}

	for _, word := range strings.Fields(keywordLower) {
		if strings.Contains(textLower, word) {
			score += 35
		}
	}

	for _, term := range eventTerms {
		if strings.Contains(textLower, term) {
			score += 20
			break
		}
	}

	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}
	return score
}
