// Package fallback serves static per-anime episode tables used when
// every live provider comes back empty. Entries already conform to the
// canonical episode shape.
package fallback

import (
	"context"

	"github.com/otakuflix/episode-resolver/internal/episodes"
)

// Store defines the contract for fallback episode lookups. An unknown
// anime id yields an empty slice and no error.
type Store interface {
	EpisodesFor(ctx context.Context, animeID string) ([]episodes.Episode, error)
}
