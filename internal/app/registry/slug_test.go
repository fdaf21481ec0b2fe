package registry

import (
	"strings"
	"testing"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple", "General Chat", "general-chat"},
		{"diacritics", "Café São Paulo!!", "cafe-sao-paulo"},
		{"punctuation runs collapse", "Team   Chat!", "team-chat"},
		{"leading and trailing junk", "--hello--", "hello"},
		{"already a slug", "market-talk", "market-talk"},
		{"digits kept", "Top 10 Picks", "top-10-picks"},
		{"empty input", "", "room"},
		{"only punctuation", "!!!", "room"},
		{"mixed case", "AI Lab", "ai-lab"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Slugify(tc.input); got != tc.want {
				t.Errorf("Slugify(%q) = %q; want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestSlugifyTruncates(t *testing.T) {
	long := strings.Repeat("a", 200)
	got := Slugify(long)
	if len(got) != 60 {
		t.Errorf("Slugify of long name returned %d chars; want 60", len(got))
	}

	// Truncation must not leave a trailing hyphen.
	spaced := strings.Repeat("word ", 40)
	got = Slugify(spaced)
	if strings.HasSuffix(got, "-") {
		t.Errorf("truncated slug %q ends with a hyphen", got)
	}
	if len(got) > 60 {
		t.Errorf("truncated slug %q longer than 60 chars", got)
	}
}

func TestTitleFromID(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"ops", "Ops"},
		{"ai-lab", "Ai-Lab"},
		{"markets", "Markets"},
	}

	for _, tc := range tests {
		if got := TitleFromID(tc.input); got != tc.want {
			t.Errorf("TitleFromID(%q) = %q; want %q", tc.input, got, tc.want)
		}
	}
}
