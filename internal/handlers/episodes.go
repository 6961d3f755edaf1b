// Package handlers exposes the episode-resolution pipeline over HTTP.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/otakuflix/episode-resolver/internal/episodes"
	"github.com/otakuflix/episode-resolver/internal/platform/api"
	"github.com/otakuflix/episode-resolver/internal/platform/httpserver"
	"github.com/otakuflix/episode-resolver/internal/resolver"
)

// EpisodeResolver is the part of the resolver service the handler needs.
type EpisodeResolver interface {
	Resolve(ctx context.Context, req resolver.Request) ([]episodes.Episode, error)
}

type episodesResponse struct {
	AnimeID  string             `json:"anime_id"`
	Count    int                `json:"count"`
	Episodes []episodes.Episode `json:"episodes"`
}

// GetEpisodes handles GET /api/anime/{anime_id}/episodes.
//
// Query parameters: name (display title), providers and provider_ids
// (parallel comma-separated lists). All are optional; without provider
// wiring the service falls back to its catalog feed.
func GetEpisodes(svc EpisodeResolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID := httpserver.RequestIDFromContext(r.Context())

		animeID := strings.TrimSpace(chi.URLParam(r, "anime_id"))
		if animeID == "" {
			api.BadRequest(w, "MISSING_ID", "anime_id is required", requestID, nil)
			return
		}

		q := r.URL.Query()
		req := resolver.Request{
			AnimeID:   animeID,
			AnimeName: strings.TrimSpace(q.Get("name")),
			Providers: splitParam(q.Get("providers")),
			FolderIDs: splitParam(q.Get("provider_ids")),
		}

		eps, err := svc.Resolve(r.Context(), req)
		if err != nil {
			if errors.Is(err, resolver.ErrMissingAnimeID) {
				api.BadRequest(w, "MISSING_ID", "anime_id is required", requestID, nil)
				return
			}
			api.Internal(w, requestID)
			return
		}
		if eps == nil {
			eps = []episodes.Episode{}
		}

		api.WriteJSON(w, http.StatusOK, episodesResponse{
			AnimeID:  animeID,
			Count:    len(eps),
			Episodes: eps,
		})
	}
}

func splitParam(v string) []string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, strings.TrimSpace(p))
	}
	return out
}
