// Package catalog resolves an anime id to its provider names and
// folder ids using the published catalog feed. The feed is a single
// JSON array refreshed out of band, so responses are cached briefly.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

const defaultFeedURL = "https://raw.githubusercontent.com/OtakuFlix/ADATA/refs/heads/main/anime_data.txt"

// Entry is one catalog row with provider wiring split out of the
// comma-separated feed columns.
type Entry struct {
	AnimeID   string
	Name      string
	Providers []string
	FolderIDs []string
}

// feedAnime is the raw feed row; cname/cid are comma-separated lists
// of provider names and folder ids in matching order.
type feedAnime struct {
	AID   json.Number `json:"aid"`
	Name  string      `json:"name"`
	CName string      `json:"cname"`
	CID   string      `json:"cid"`
}

// Client fetches and caches the catalog feed.
type Client struct {
	FeedURL    string
	HTTPClient *http.Client
	Log        *zap.Logger

	cache *gocache.Cache
}

func New(feedURL string, ttl time.Duration, log *zap.Logger) *Client {
	if feedURL == "" {
		feedURL = defaultFeedURL
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		FeedURL:    feedURL,
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
		Log:        log,
		cache:      gocache.New(ttl, 2*ttl),
	}
}

const feedCacheKey = "feed"

// Lookup finds the catalog entry for animeID. A feed fetch failure or
// an id not present in the feed returns an error; the caller decides
// how to degrade.
func (c *Client) Lookup(ctx context.Context, animeID string) (Entry, error) {
	rows, err := c.feed(ctx)
	if err != nil {
		return Entry{}, err
	}
	for _, row := range rows {
		if row.AID.String() != animeID {
			continue
		}
		return Entry{
			AnimeID:   animeID,
			Name:      row.Name,
			Providers: splitList(row.CName),
			FolderIDs: splitList(row.CID),
		}, nil
	}
	return Entry{}, fmt.Errorf("catalog: anime %s not found", animeID)
}

func (c *Client) feed(ctx context.Context) ([]feedAnime, error) {
	if cached, ok := c.cache.Get(feedCacheKey); ok {
		return cached.([]feedAnime), nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.FeedURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog feed: status %d", resp.StatusCode)
	}

	var rows []feedAnime
	if err := json.Unmarshal(b, &rows); err != nil {
		return nil, fmt.Errorf("catalog feed: decode: %w", err)
	}

	c.cache.SetDefault(feedCacheKey, rows)
	c.Log.Debug("catalog feed refreshed", zap.Int("rows", len(rows)))
	return rows, nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
