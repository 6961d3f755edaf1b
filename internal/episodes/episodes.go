// Package episodes defines the canonical episode model shared by the
// provider clients, the merger and the resolver.
package episodes

// Server is one playable copy of an episode on a specific host.
type Server struct {
	Provider string `json:"provider"`
	FileCode string `json:"file_code"`
}

// Raw is a single file entry as reported by one provider, before
// cross-provider grouping. Never persisted.
type Raw struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	FileCode  string `json:"file_code"`
	Provider  string `json:"provider"`
	Number    int    `json:"number"`
	Thumbnail string `json:"thumbnail,omitempty"`
	Duration  int    `json:"duration,omitempty"`
	Synopsis  string `json:"synopsis,omitempty"`
}

// Episode is the canonical per-number record returned to callers.
// Servers lists every known (provider, file_code) copy in the order
// the providers were processed.
type Episode struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	FileCode  string   `json:"file_code"`
	Provider  string   `json:"provider"`
	Number    int      `json:"number"`
	Thumbnail string   `json:"thumbnail,omitempty"`
	Duration  int      `json:"duration,omitempty"`
	Synopsis  string   `json:"synopsis,omitempty"`
	Servers   []Server `json:"servers,omitempty"`
}
