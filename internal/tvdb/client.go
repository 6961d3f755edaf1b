// Package tvdb enriches merged episodes with titles, synopses and
// thumbnails from the TVDB v4 API. Every step degrades to a no-op on
// failure: callers always get their episodes back, enriched or not.
package tvdb

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	gocache "github.com/patrickmn/go-cache"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/otakuflix/episode-resolver/internal/translate"
)

const (
	defaultBaseURL = "https://api4.thetvdb.com/v4"

	// defaultTokenTTL is assumed when the bearer token carries no
	// readable expiry claim.
	defaultTokenTTL = 24 * time.Hour

	// tokenExpiryMargin forces re-login slightly before the claimed expiry.
	tokenExpiryMargin = 5 * time.Minute
)

// sourceAttributionRe strips "(Source: ...)" attributions from overviews.
var sourceAttributionRe = regexp.MustCompile(`\(Source:.*?\)`)

// Client is an authenticated TVDB v4 client. Show-name resolutions are
// cached for the life of the process; the bearer token is refreshed
// when its expiry claim approaches.
type Client struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
	CB         *gobreaker.CircuitBreaker
	Log        *zap.Logger
	Translator *translate.Client

	// Concurrency caps the per-episode lookup fan-out during Enrich.
	Concurrency int

	mu       sync.Mutex
	token    string
	tokenExp time.Time

	showIDs *gocache.Cache
}

// Option configures the Client.
type Option func(*Client)

func WithCircuitBreaker(cb *gobreaker.CircuitBreaker) Option {
	return func(c *Client) { c.CB = cb }
}

func WithLogger(log *zap.Logger) Option {
	return func(c *Client) { c.Log = log }
}

func WithTranslator(tr *translate.Client) Option {
	return func(c *Client) { c.Translator = tr }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.HTTPClient = hc }
}

// WithConcurrency caps the per-episode lookup fan-out during Enrich.
func WithConcurrency(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.Concurrency = n
		}
	}
}

func New(baseURL, apiKey string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	c := &Client{
		BaseURL:     strings.TrimRight(baseURL, "/"),
		APIKey:      apiKey,
		HTTPClient:  &http.Client{Timeout: 10 * time.Second},
		Log:         zap.NewNop(),
		Concurrency: 4,
		showIDs:     gocache.New(gocache.NoExpiration, 0),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type loginResponse struct {
	Data struct {
		Token string `json:"token"`
	} `json:"data"`
}

type searchResponse struct {
	Data []struct {
		Name   string `json:"name"`
		TVDBID string `json:"tvdb_id"`
	} `json:"data"`
}

type episodePage struct {
	Data struct {
		Episodes []struct {
			SeasonNumber int    `json:"seasonNumber"`
			Number       int    `json:"number"`
			Name         string `json:"name"`
			Overview     string `json:"overview"`
			Image        string `json:"image"`
		} `json:"episodes"`
	} `json:"data"`
	Links struct {
		Next string `json:"next"`
	} `json:"links"`
}

// episodeDetail is the per-episode enrichment payload.
type episodeDetail struct {
	Title     string
	Synopsis  string
	Thumbnail string
}

// bearerToken returns a valid token, logging in when none is held or
// the held one is close to expiry.
func (c *Client) bearerToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && time.Now().Before(c.tokenExp.Add(-tokenExpiryMargin)) {
		return c.token, nil
	}

	body, err := json.Marshal(map[string]string{"apikey": c.APIKey})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/login", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	var out loginResponse
	if err := c.do(req, &out); err != nil {
		return "", fmt.Errorf("tvdb login: %w", err)
	}
	if out.Data.Token == "" {
		return "", fmt.Errorf("tvdb login: empty token")
	}

	c.token = out.Data.Token
	c.tokenExp = tokenExpiry(out.Data.Token)
	c.Log.Debug("tvdb authenticated", zap.Time("token_exp", c.tokenExp))
	return c.token, nil
}

// tokenExpiry reads the exp claim from the bearer token, which TVDB
// issues as a JWT. Unreadable tokens get a conservative default TTL.
func tokenExpiry(token string) time.Time {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err == nil {
		if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
			return exp.Time
		}
	}
	return time.Now().Add(defaultTokenTTL)
}

// resolveShow maps a base show name and season to a TVDB series id,
// consulting the process-wide cache first. A search with no results is
// a resolution failure, not an error for the caller to escalate.
func (c *Client) resolveShow(ctx context.Context, token, baseName string, season int) (string, error) {
	cacheKey := fmt.Sprintf("%s-%d", baseName, season)
	if id, ok := c.showIDs.Get(cacheKey); ok {
		return id.(string), nil
	}

	u := fmt.Sprintf("%s/search?query=%s&type=series", c.BaseURL, url.QueryEscape(baseName))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	var out searchResponse
	if err := c.do(req, &out); err != nil {
		return "", fmt.Errorf("tvdb search: %w", err)
	}
	if len(out.Data) == 0 {
		return "", fmt.Errorf("tvdb search: no results for %q", baseName)
	}

	// Prefer a case-insensitive exact name match, else the first hit.
	match := out.Data[0]
	for _, item := range out.Data {
		if strings.EqualFold(item.Name, baseName) {
			match = item
			break
		}
	}
	if match.TVDBID == "" {
		return "", fmt.Errorf("tvdb search: match for %q has no id", baseName)
	}

	c.showIDs.Set(cacheKey, match.TVDBID, gocache.NoExpiration)
	c.Log.Debug("tvdb show resolved", zap.String("name", baseName), zap.Int("season", season), zap.String("tvdb_id", match.TVDBID))
	return match.TVDBID, nil
}

// episodeDetails pages through a show's default episode order looking
// for the given season and episode number.
func (c *Client) episodeDetails(ctx context.Context, token, showID string, season, number int) (episodeDetail, bool, error) {
	for page := 0; ; page++ {
		u := fmt.Sprintf("%s/series/%s/episodes/default?page=%d", c.BaseURL, showID, page)
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return episodeDetail{}, false, err
		}
		req.Header.Set("Authorization", "Bearer "+token)

		var out episodePage
		if err := c.do(req, &out); err != nil {
			return episodeDetail{}, false, fmt.Errorf("tvdb episodes page %d: %w", page, err)
		}
		if len(out.Data.Episodes) == 0 {
			return episodeDetail{}, false, nil
		}

		for _, ep := range out.Data.Episodes {
			if ep.SeasonNumber != season || ep.Number != number {
				continue
			}
			title := ep.Name
			if title == "" {
				title = fmt.Sprintf("Episode %d", number)
			}
			synopsis := strings.TrimSpace(sourceAttributionRe.ReplaceAllString(ep.Overview, ""))
			return episodeDetail{Title: title, Synopsis: synopsis, Thumbnail: ep.Image}, true, nil
		}

		if out.Links.Next == "" {
			return episodeDetail{}, false, nil
		}
	}
}

func (c *Client) do(req *http.Request, out any) error {
	if c.CB == nil {
		return c.doOnce(req, out)
	}
	_, err := c.CB.Execute(func() (interface{}, error) {
		return nil, c.doOnce(req, out)
	})
	return err
}

func (c *Client) doOnce(req *http.Request, out any) error {
	req.Header.Set("Accept", "application/json")
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(resp.Body, 2<<20))
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d body=%q", resp.StatusCode, string(b[:min(len(b), 200)]))
	}
	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("decode: %w body=%q", err, string(b[:min(len(b), 200)]))
	}
	return nil
}
