package filehost

import (
	"context"
	"strings"

	"github.com/otakuflix/episode-resolver/internal/episodes"
)

// Provider is the port for fetching a folder's episode listing from one
// file-hosting source.
type Provider interface {
	// ProviderName reports the name callers use to select this source.
	ProviderName() string
	FetchEpisodes(ctx context.Context, folderID string) ([]episodes.Raw, error)
}

// ProviderName implements Provider.
func (c *Client) ProviderName() string { return c.Name }

// Registry maps provider names to configured clients.
type Registry map[string]Provider

// Lookup returns the provider registered under name, nil if unknown.
// The catalog feed is not consistent about casing, so an exact miss
// falls back to a case-insensitive scan.
func (r Registry) Lookup(name string) Provider {
	if p, ok := r[name]; ok {
		return p
	}
	for k, p := range r {
		if strings.EqualFold(k, name) {
			return p
		}
	}
	return nil
}
