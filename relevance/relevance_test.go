package relevance

import "testing"

func TestScoreTable(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		keyword string
		want    int
	}{
		{"exact match clamps", "Taylor Swift Tribute Night", "Taylor Swift", 100},
		{"case insensitive", "TAYLOR SWIFT live", "taylor swift", 100},
		{"single word match", "Swift boat trips", "Taylor Swift", 35},
		{"word match plus event term", "Swift river concert", "Taylor Swift", 55},
		{"event term only", "Summer music festival", "obscure band", 20},
		{"no match", "Pottery class", "Taylor Swift", 0},
		{"empty text", "", "Taylor Swift", 0},
		{"empty keyword no bonus", "Pottery class", "", 0},
		{"empty keyword with event term", "Village fete and celebration", "", 20},
		{"both empty", "", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(tt.text, tt.keyword)
			if got != tt.want {
				t.Errorf("Score(%q, %q) = %d; want %d", tt.text, tt.keyword, got, tt.want)
			}
		})
	}
}

// The raw total can exceed 100 (full match + both words + event term would
// be 190); the clamp must apply only once, after all bonuses.
func TestScoreClampsAboveHundred(t *testing.T) {
	got := Score("Taylor Swift live in concert", "Taylor Swift")
	if got != 100 {
		t.Errorf("expected clamped score 100, got %d", got)
	}
}

func TestScoreAlwaysInRange(t *testing.T) {
	texts := []string{"", "a", "Taylor Swift festival concert live", "xyz", "LIVE LIVE LIVE"}
	keywords := []string{"", "Taylor Swift", "live", "a b c d e f g", "Taylor Swift live show"}

	for _, text := range texts {
		for _, keyword := range keywords {
			got := Score(text, keyword)
			if got < 0 || got > 100 {
				t.Errorf("Score(%q, %q) = %d out of [0,100]", text, keyword, got)
			}
		}
	}
}

func TestScoreDeterministic(t *testing.T) {
	first := Score("Taylor Swift live", "Taylor Swift")
	for i := 0; i < 5; i++ {
		if got := Score("Taylor Swift live", "Taylor Swift"); got != first {
			t.Fatalf("score changed between calls: %d vs %d", got, first)
		}
	}
}
