package titles

import "testing"

func TestExtractEpisodeNumber(t *testing.T) {
	cases := []struct {
		raw  string
		want int
	}{
		{"Show Name E07 1080p.mkv", 7},
		{"Show Name Episode 7.mp4", 7},
		{"Show Name Episode07.mp4", 7},
		{"Show Name Ep 7.mkv", 7},
		{"Show Name Ep.7.mkv", 7},
		{"Show [07] x265.mkv", 7},
		{"Show Name 12 1080p", 12},
		{"Show Name - 4", 4},
		{"03 Show Name", 3},
		{"Show-9", 9},
		{"S01E05 Show", 5}, // E<digits> fires on "E05"
		{"Show Name v2 10", 10},
	}
	for _, tc := range cases {
		if got := ExtractEpisodeNumber(tc.raw); got != tc.want {
			t.Errorf("ExtractEpisodeNumber(%q) = %d, want %d", tc.raw, got, tc.want)
		}
	}
}

func TestExtractEpisodeNumber_Fallback(t *testing.T) {
	// No structured pattern: first digit run anywhere wins.
	if got := ExtractEpisodeNumber("abc123def"); got != 123 {
		t.Errorf("ExtractEpisodeNumber(\"abc123def\") = %d, want 123", got)
	}
}

func TestExtractEpisodeNumber_NoDigits(t *testing.T) {
	if got := ExtractEpisodeNumber("Opening Theme"); got != 0 {
		t.Errorf("ExtractEpisodeNumber with no digits = %d, want 0", got)
	}
}

func TestCleanTitle(t *testing.T) {
	got := CleanTitle("Show Name S01E05 1080p x265 ESub.mkv")
	if got != "Show Name" {
		t.Errorf("CleanTitle = %q, want %q", got, "Show Name")
	}
}

func TestCleanTitle_AllNoise(t *testing.T) {
	if got := CleanTitle("1080p.mkv"); got != "" {
		t.Errorf("CleanTitle(noise only) = %q, want empty", got)
	}
}

func TestCleanTitle_KeepsPlainNames(t *testing.T) {
	if got := CleanTitle("The  Hated   Classmate"); got != "The Hated Classmate" {
		t.Errorf("CleanTitle = %q", got)
	}
}

func TestSplitSeason(t *testing.T) {
	cases := []struct {
		in     string
		base   string
		season int
	}{
		{"Kaguya-sama Season 2", "Kaguya-sama", 2},
		{"Kaguya-sama season2", "Kaguya-sama", 2},
		{"The Eminence in Shadow", "The Eminence in Shadow", 1},
	}
	for _, tc := range cases {
		base, season := SplitSeason(tc.in)
		if base != tc.base || season != tc.season {
			t.Errorf("SplitSeason(%q) = (%q, %d), want (%q, %d)", tc.in, base, season, tc.base, tc.season)
		}
	}
}
