package episodes

import "sort"

// Merge folds raw per-provider records into one canonical episode per
// episode number. The first record seen for a number supplies the id,
// title and playback fields; later records for the same number are
// appended as alternate servers, deduplicated by (provider, file_code).
// Thumbnail and synopsis are backfilled first-writer-wins and never
// overwritten here. The result is sorted ascending by number.
func Merge(records []Raw) []Episode {
	byNumber := make(map[int]*Episode)

	for _, r := range records {
		ep, ok := byNumber[r.Number]
		if !ok {
			byNumber[r.Number] = &Episode{
				ID:        r.ID,
				Title:     r.Title,
				FileCode:  r.FileCode,
				Provider:  r.Provider,
				Number:    r.Number,
				Thumbnail: r.Thumbnail,
				Duration:  r.Duration,
				Synopsis:  r.Synopsis,
				Servers:   []Server{{Provider: r.Provider, FileCode: r.FileCode}},
			}
			continue
		}

		exists := false
		for _, s := range ep.Servers {
			if s.Provider == r.Provider && s.FileCode == r.FileCode {
				exists = true
				break
			}
		}
		if !exists {
			ep.Servers = append(ep.Servers, Server{Provider: r.Provider, FileCode: r.FileCode})
		}
		if ep.Thumbnail == "" && r.Thumbnail != "" {
			ep.Thumbnail = r.Thumbnail
		}
		if ep.Synopsis == "" && r.Synopsis != "" {
			ep.Synopsis = r.Synopsis
		}
	}

	out := make([]Episode, 0, len(byNumber))
	for _, ep := range byNumber {
		out = append(out, *ep)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out
}
