// Package titles extracts structured episode information from the
// freeform filenames returned by file-hosting providers. Parsing is
// deliberately tolerant: uploaders follow no single naming convention,
// so a cascade of patterns is tried from most to least specific.
package titles

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// episodePatterns are tried in order; the first capture wins.
	episodePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)E(\d+)`),           // E01, e01
		regexp.MustCompile(`(?i)Episode\s*(\d+)`),  // Episode 1, Episode01
		regexp.MustCompile(`(?i)Ep\s*\.?\s*(\d+)`), // Ep 1, Ep.1, Ep01
		regexp.MustCompile(`\[(\d+)\]`),            // [01]
		regexp.MustCompile(`\s(\d+)\s`),            // number between spaces
		regexp.MustCompile(`\s(\d+)$`),             // trailing number after space
		regexp.MustCompile(`^(\d+)`),               // leading number
		regexp.MustCompile(`\D(\d+)$`),             // trailing number after non-digit
	}

	// anyNumberRe is the last-resort fallback: the first digit run anywhere.
	anyNumberRe = regexp.MustCompile(`\d+`)

	// extensionRe strips a trailing file extension.
	extensionRe = regexp.MustCompile(`\.[^/.]+$`)

	// resolutionRe strips resolution tags like 720p / 1080p / 2160p.
	resolutionRe = regexp.MustCompile(`(?i)\d{3,4}p`)

	// releaseTagsRe strips known codec, subtitle and release-group tokens.
	releaseTagsRe = regexp.MustCompile(`(?i)x265|x264|ESub|PikaHD\.com|\.mkv|\.mp4`)

	// seasonEpisodeRe strips combined notation like S01E05.
	seasonEpisodeRe = regexp.MustCompile(`(?i)S\d+E\d+`)

	// multiSpaceRe collapses runs of whitespace left behind by stripping.
	multiSpaceRe = regexp.MustCompile(`\s{2,}`)

	// seasonSuffixRe matches a trailing "Season N" qualifier on a show name.
	seasonSuffixRe = regexp.MustCompile(`(?i)\s*Season\s*(\d+)`)
)

// ExtractEpisodeNumber recovers an episode number from a raw filename.
// It returns 0 when the name contains no digits at all; callers must
// treat 0 as "unknown", not as episode zero.
func ExtractEpisodeNumber(raw string) int {
	for _, re := range episodePatterns {
		if m := re.FindStringSubmatch(raw); len(m) > 1 && m[1] != "" {
			n, err := strconv.Atoi(m[1])
			if err == nil {
				return n
			}
		}
	}
	if m := anyNumberRe.FindString(raw); m != "" {
		n, err := strconv.Atoi(m)
		if err == nil {
			return n
		}
	}
	return 0
}

// CleanTitle strips the file extension, resolution and release tags and
// season/episode notation from a raw filename. The result may be empty;
// callers substitute a generated "Episode N" title in that case.
func CleanTitle(raw string) string {
	s := extensionRe.ReplaceAllString(raw, "")
	s = resolutionRe.ReplaceAllString(s, "")
	s = releaseTagsRe.ReplaceAllString(s, "")
	s = seasonEpisodeRe.ReplaceAllString(s, "")
	s = multiSpaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// SplitSeason splits a display name like "Show Name Season 2" into the
// base show name and season number. Names without a season qualifier
// resolve to season 1.
func SplitSeason(name string) (base string, season int) {
	season = 1
	if m := seasonSuffixRe.FindStringSubmatch(name); len(m) > 1 {
		if n, err := strconv.Atoi(m[1]); err == nil {
			season = n
		}
	}
	base = strings.TrimSpace(seasonSuffixRe.ReplaceAllString(name, ""))
	return base, season
}
