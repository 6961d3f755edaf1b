package fallback

import (
	"context"

	"github.com/otakuflix/episode-resolver/internal/episodes"
)

// InMemoryStore holds fallback tables in process memory. The seed data
// is fixed at construction; lookups never fail.
type InMemoryStore struct {
	tables map[string][]episodes.Episode
}

// NewInMemoryStore creates a store over the given tables. Pass nil to
// use the built-in seed set.
func NewInMemoryStore(tables map[string][]episodes.Episode) *InMemoryStore {
	if tables == nil {
		tables = seedTables
	}
	return &InMemoryStore{tables: tables}
}

func (s *InMemoryStore) EpisodesFor(_ context.Context, animeID string) ([]episodes.Episode, error) {
	eps, ok := s.tables[animeID]
	if !ok {
		return []episodes.Episode{}, nil
	}
	out := make([]episodes.Episode, len(eps))
	copy(out, eps)
	return out, nil
}

// seedTables mirrors the curated catalog entries shipped with the app
// so a cold start with no reachable providers still plays something.
var seedTables = map[string][]episodes.Episode{
	"233": {
		{ID: "ep233-1", Title: "I Want to be Confessed To: Kaguya Wants to be Confessed To", FileCode: "mock_file_code_1", Provider: "Filemoon", Number: 1, Thumbnail: "https://iili.io/3vGIm4j.webp", Duration: 24, Synopsis: "Kaguya Shinomiya and Miyuki Shirogane are two geniuses who stand atop their prestigious academy's student council, making them the elite among elite. But it's lonely at the top and each has fallen for the other."},
		{ID: "ep233-2", Title: "I Want to be Heard: Kaguya Wants to be Heard", FileCode: "mock_file_code_2", Provider: "Filemoon", Number: 2, Thumbnail: "https://iili.io/3vGIm4j.webp", Duration: 24, Synopsis: "Kaguya tries to get Miyuki to praise her by having him overhear her singing, but her plan backfires."},
		{ID: "ep233-3", Title: "I Want to be Invited: Kaguya Wants to be Invited", FileCode: "mock_file_code_3", Provider: "Filemoon", Number: 3, Thumbnail: "https://iili.io/3vGIm4j.webp", Duration: 24, Synopsis: "Miyuki invites everyone but Kaguya to his house to study. Kaguya tries to get herself invited without directly asking."},
		{ID: "ep233-4", Title: "I Want to be Visited: Kaguya Wants to be Visited", FileCode: "mock_file_code_4", Provider: "Filemoon", Number: 4, Thumbnail: "https://iili.io/3vGIm4j.webp", Duration: 24, Synopsis: "Kaguya falls ill and hopes that Miyuki will visit her."},
		{ID: "ep233-5", Title: "I Want to be Stopped: Kaguya Wants to be Stopped", FileCode: "mock_file_code_5", Provider: "Filemoon", Number: 5, Thumbnail: "https://iili.io/3vGIm4j.webp", Duration: 24, Synopsis: "Kaguya and Miyuki both end up working on the same project."},
		{ID: "ep233-6", Title: "I Want to Offer: Kaguya Wants to Offer", FileCode: "mock_file_code_6", Provider: "Filemoon", Number: 6, Thumbnail: "https://iili.io/3vGIm4j.webp", Duration: 24, Synopsis: "Valentine's Day is approaching, and Kaguya wants to give Miyuki chocolates without making it seem like a romantic gesture."},
		{ID: "ep233-7", Title: "I Want You to Believe Me: Kaguya Wants to Be Believed", FileCode: "mock_file_code_7", Provider: "RpmShare", Number: 7, Thumbnail: "https://iili.io/3vGIm4j.webp", Duration: 24, Synopsis: "Kaguya tells a lie that spirals out of control."},
		{ID: "ep233-8", Title: "I Want to Be Covered: Kaguya Wants to Be Covered", FileCode: "mock_file_code_8", Provider: "RpmShare", Number: 8, Thumbnail: "https://iili.io/3vGIm4j.webp", Duration: 24, Synopsis: "During a rainstorm, Kaguya hopes that Miyuki will offer to share his umbrella with her."},
		{ID: "ep233-9", Title: "I Want to Do Something: Kaguya Wants to Do Something", FileCode: "mock_file_code_9", Provider: "RpmShare", Number: 9, Thumbnail: "https://iili.io/3vGIm4j.webp", Duration: 24, Synopsis: "Kaguya and Miyuki both want to do something special for each other but struggle with how to approach it."},
		{ID: "ep233-10", Title: "I Want to Make You Look Good: Kaguya Wants to Make You Look Good", FileCode: "mock_file_code_10", Provider: "RpmShare", Number: 10, Thumbnail: "https://iili.io/3vGIm4j.webp", Duration: 24, Synopsis: "Kaguya tries to help Miyuki improve his image, while Miyuki does the same for her."},
		{ID: "ep233-11", Title: "I Can't Hear the Fireworks, Part 1", FileCode: "mock_file_code_11", Provider: "RpmShare", Number: 11, Thumbnail: "https://iili.io/3vGIm4j.webp", Duration: 24, Synopsis: "The summer festival is approaching, and Kaguya wants to see the fireworks with Miyuki."},
		{ID: "ep233-12", Title: "I Can't Hear the Fireworks, Part 2", FileCode: "mock_file_code_12", Provider: "RpmShare", Number: 12, Thumbnail: "https://iili.io/3vGIm4j.webp", Duration: 24, Synopsis: "Miyuki and the others devise a plan to help Kaguya see the fireworks despite her family's restrictions."},
	},
	"234": {
		{ID: "ep234-1", Title: "The Hated Classmate", FileCode: "mock_file_code_13", Provider: "Filemoon", Number: 1, Thumbnail: "https://iili.io/3vGVxSI.webp", Duration: 24, Synopsis: "Cid Kagenou was reborn into a world of magic, where he aspires to become the power in the shadows."},
		{ID: "ep234-2", Title: "Shadow Garden is Born", FileCode: "mock_file_code_14", Provider: "Filemoon", Number: 2, Thumbnail: "https://iili.io/3vGVxSI.webp", Duration: 24, Synopsis: "Cid saves a girl named Alpha and implants false memories about a fictional organization called Shadow Garden."},
		{ID: "ep234-3", Title: "A Flock of Black-Winged Followers", FileCode: "mock_file_code_15", Provider: "Filemoon", Number: 3, Thumbnail: "https://iili.io/3vGVxSI.webp", Duration: 24, Synopsis: "Shadow Garden has grown into a real organization with devoted followers."},
		{ID: "ep234-4", Title: "Sadism's Rewards", FileCode: "mock_file_code_16", Provider: "RpmShare", Number: 4, Thumbnail: "https://iili.io/3vGVxSI.webp", Duration: 24, Synopsis: "Cid's elaborate role-playing leads to unexpected consequences as Shadow Garden uncovers a real conspiracy."},
	},
}
