package tvdb

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/otakuflix/episode-resolver/internal/episodes"
	"github.com/otakuflix/episode-resolver/internal/titles"
)

// Enrich overlays TVDB titles, synopses and thumbnails onto merged
// episodes. Authentication or show-resolution failure returns the input
// unchanged; per-episode lookup failures leave just that episode as it
// was. Lookups fan out concurrently, capped by Client.Concurrency.
func (c *Client) Enrich(ctx context.Context, animeName string, eps []episodes.Episode) []episodes.Episode {
	if len(eps) == 0 {
		return eps
	}

	token, err := c.bearerToken(ctx)
	if err != nil {
		c.Log.Warn("tvdb auth failed, skipping enrichment", zap.Error(err))
		return eps
	}

	baseName, season := titles.SplitSeason(animeName)
	showID, err := c.resolveShow(ctx, token, baseName, season)
	if err != nil {
		c.Log.Warn("tvdb show resolution failed, skipping enrichment", zap.String("name", animeName), zap.Error(err))
		return eps
	}

	out := make([]episodes.Episode, len(eps))
	copy(out, eps)

	limit := c.Concurrency
	if limit <= 0 {
		limit = 4
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i := range out {
		i := i
		g.Go(func() error {
			ep := &out[i]
			detail, found, err := c.episodeDetails(gctx, token, showID, season, ep.Number)
			if err != nil {
				c.Log.Warn("tvdb episode lookup failed", zap.Int("episode", ep.Number), zap.Error(err))
				return nil // degrade per episode, never abort the group
			}
			if !found {
				return nil
			}
			if detail.Title != "" {
				ep.Title = c.Translator.ToEnglish(gctx, detail.Title)
			}
			if detail.Synopsis != "" {
				ep.Synopsis = c.Translator.ToEnglish(gctx, detail.Synopsis)
			}
			if detail.Thumbnail != "" {
				ep.Thumbnail = detail.Thumbnail
			}
			return nil
		})
	}
	_ = g.Wait()
	return out
}
