// Package resolver orchestrates the episode-resolution pipeline:
// provider fan-out, merge, metadata enrichment and static fallback.
package resolver

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/otakuflix/episode-resolver/internal/cache"
	"github.com/otakuflix/episode-resolver/internal/catalog"
	"github.com/otakuflix/episode-resolver/internal/episodes"
	"github.com/otakuflix/episode-resolver/internal/events"
	"github.com/otakuflix/episode-resolver/internal/fallback"
	"github.com/otakuflix/episode-resolver/internal/filehost"
)

// ErrMissingAnimeID is the only error Resolve returns: caller input
// validation. Every upstream failure degrades to partial or empty data.
var ErrMissingAnimeID = errors.New("anime id is required")

// Enricher is the port for the metadata enrichment step. Enrich never
// fails; it returns its input unchanged when enrichment is unavailable.
type Enricher interface {
	Enrich(ctx context.Context, animeName string, eps []episodes.Episode) []episodes.Episode
}

// CatalogLookup resolves an anime id to provider wiring when the caller
// did not supply it.
type CatalogLookup interface {
	Lookup(ctx context.Context, animeID string) (catalog.Entry, error)
}

// Request identifies the anime to resolve. Providers and FolderIDs are
// parallel lists; both may be empty, in which case the catalog feed
// supplies them.
type Request struct {
	AnimeID   string
	AnimeName string
	Providers []string
	FolderIDs []string
}

// Service wires the pipeline together. Catalog, Cache and Events are
// optional; Fallback and Providers are required, Enricher is skipped
// when nil.
type Service struct {
	Providers filehost.Registry
	Enricher  Enricher
	Fallback  fallback.Store
	Catalog   CatalogLookup
	Cache     *cache.RedisCache
	Events    *events.Publisher
	Log       *zap.Logger
}

// Resolve returns the canonical episode list for one anime. An empty
// list is a valid terminal state; only a missing anime id is an error.
func (s *Service) Resolve(ctx context.Context, req Request) ([]episodes.Episode, error) {
	animeID := strings.TrimSpace(req.AnimeID)
	if animeID == "" {
		return nil, ErrMissingAnimeID
	}
	log := s.logger()

	if cached, ok, err := s.Cache.GetEpisodes(ctx, animeID); err == nil && ok {
		log.Debug("episodes served from cache", zap.String("anime_id", animeID), zap.Int("count", len(cached)))
		return cached, nil
	}

	name := strings.TrimSpace(req.AnimeName)
	providers, folderIDs := req.Providers, req.FolderIDs

	// No provider wiring from the caller: consult the catalog feed.
	if (len(providers) == 0 || len(folderIDs) == 0) && s.Catalog != nil {
		entry, err := s.Catalog.Lookup(ctx, animeID)
		if err != nil {
			log.Warn("catalog lookup failed, trying fallback table", zap.String("anime_id", animeID), zap.Error(err))
			return s.serveFallback(ctx, animeID)
		}
		providers, folderIDs = entry.Providers, entry.FolderIDs
		if name == "" {
			name = entry.Name
		}
	}
	if name == "" {
		name = "Unknown Anime"
	}

	records := s.fetchAll(ctx, providers, folderIDs)
	merged := episodes.Merge(records)
	if len(merged) == 0 {
		log.Info("no episodes from any provider", zap.String("anime_id", animeID))
		return s.serveFallback(ctx, animeID)
	}

	if s.Enricher != nil {
		merged = s.Enricher.Enrich(ctx, name, merged)
	}

	if err := s.Cache.SetEpisodes(ctx, animeID, merged); err != nil {
		log.Warn("episode cache write failed", zap.String("anime_id", animeID), zap.Error(err))
	}
	s.Events.Publish(events.SubjectEpisodesResolved, animeID, map[string]any{
		"episodes":  len(merged),
		"providers": providers,
	})
	return merged, nil
}

// fetchAll queries every usable (provider, folder id) pair concurrently
// and concatenates the listings in input order, so the first provider
// in the request wins metadata and server-order ties downstream.
func (s *Service) fetchAll(ctx context.Context, providers, folderIDs []string) []episodes.Raw {
	n := len(providers)
	if len(folderIDs) < n {
		n = len(folderIDs)
	}

	log := s.logger()
	results := make([][]episodes.Raw, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		name := providers[i]
		folderID := strings.TrimSpace(folderIDs[i])
		if folderID == "" {
			log.Debug("skipping provider with empty folder id", zap.String("provider", name))
			continue
		}
		client := s.Providers.Lookup(name)
		if client == nil {
			log.Warn("unknown provider in request", zap.String("provider", name))
			continue
		}
		wg.Add(1)
		go func(i int, client filehost.Provider) {
			defer wg.Done()
			recs, err := client.FetchEpisodes(ctx, folderID)
			if err != nil {
				log.Warn("provider fetch failed", zap.String("provider", client.ProviderName()), zap.Error(err))
				return
			}
			results[i] = recs
		}(i, client)
	}
	wg.Wait()

	var all []episodes.Raw
	for _, recs := range results {
		all = append(all, recs...)
	}
	return all
}

func (s *Service) serveFallback(ctx context.Context, animeID string) ([]episodes.Episode, error) {
	eps, err := s.Fallback.EpisodesFor(ctx, animeID)
	if err != nil {
		s.logger().Warn("fallback lookup failed", zap.String("anime_id", animeID), zap.Error(err))
		return []episodes.Episode{}, nil
	}
	if len(eps) > 0 {
		s.Events.Publish(events.SubjectFallbackServed, animeID, map[string]any{"episodes": len(eps)})
	}
	return eps, nil
}

func (s *Service) logger() *zap.Logger {
	if s.Log != nil {
		return s.Log
	}
	return zap.NewNop()
}
