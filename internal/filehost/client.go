// Package filehost fetches folder listings from file-hosting providers.
// RpmShare and Filemoon expose the same listing API, so a single client
// parameterized by host name and endpoint serves both.
package filehost

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/otakuflix/episode-resolver/internal/episodes"
	"github.com/otakuflix/episode-resolver/internal/titles"
)

// defaultDurationMinutes is assumed when the host does not report a length.
const defaultDurationMinutes = 24

// ClientConfig holds configurable settings for a file-host client.
type ClientConfig struct {
	MaxRetries     int
	RetryBaseDelay time.Duration
}

// Client talks to one file-hosting listing API.
type Client struct {
	Name       string // provider name as exposed to callers, e.g. "RpmShare"
	IDPrefix   string // prefix for stable episode ids, e.g. "rpm"
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
	Config     ClientConfig
	CB         *gobreaker.CircuitBreaker
	Log        *zap.Logger
}

// Option configures the Client.
type Option func(*Client)

func WithCircuitBreaker(cb *gobreaker.CircuitBreaker) Option {
	return func(c *Client) { c.CB = cb }
}

func WithLogger(log *zap.Logger) Option {
	return func(c *Client) { c.Log = log }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.HTTPClient = hc }
}

// New creates a client for one hosting provider.
func New(name, idPrefix, baseURL, apiKey string, cfg ClientConfig, opts ...Option) *Client {
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RetryBaseDelay <= 0 {
		cfg.RetryBaseDelay = 500 * time.Millisecond
	}
	c := &Client{
		Name:       name,
		IDPrefix:   idPrefix,
		BaseURL:    strings.TrimRight(baseURL, "/"),
		APIKey:     apiKey,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
		Config:     cfg,
		Log:        zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// listResponse is the strict shape of the folder listing envelope.
type listResponse struct {
	Msg     string `json:"msg"`
	Status  string `json:"status"`
	Message string `json:"message"`
	Result  struct {
		ResultsTotal int        `json:"results_total"`
		Pages        int        `json:"pages"`
		Files        []fileItem `json:"files"`
	} `json:"result"`
}

type fileItem struct {
	Title     string `json:"title"`
	FileCode  string `json:"file_code"`
	Thumbnail string `json:"thumbnail"`
	Length    int    `json:"length"` // seconds
}

// FetchEpisodes lists the given folder and converts every file entry to
// a raw episode record. An explicit error status or an empty folder is
// "no episodes" (nil slice, nil error); only transport and decode
// failures surface as errors, and the caller decides whether those are
// fatal.
func (c *Client) FetchEpisodes(ctx context.Context, folderID string) ([]episodes.Raw, error) {
	endpoint := fmt.Sprintf("%s/api/file/list?key=%s&fld_id=%s", c.BaseURL, url.QueryEscape(c.APIKey), url.QueryEscape(folderID))

	body, err := c.getWithRetry(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	files, err := decodeFileList(body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", strings.ToLower(c.Name), err)
	}
	if len(files) == 0 {
		c.Log.Debug("folder listing empty", zap.String("provider", c.Name), zap.String("fld_id", folderID))
		return nil, nil
	}

	out := make([]episodes.Raw, 0, len(files))
	for _, f := range files {
		number := titles.ExtractEpisodeNumber(f.Title)
		title := titles.CleanTitle(f.Title)
		if title == "" {
			title = fmt.Sprintf("Episode %d", number)
		}
		duration := defaultDurationMinutes
		if f.Length > 0 {
			duration = f.Length / 60
		}
		idCode := f.FileCode
		if idCode == "" {
			// Entries without a file code are kept rather than dropped;
			// playback will fail for them but the episode stays visible.
			idCode = "unknown"
		}
		out = append(out, episodes.Raw{
			ID:        fmt.Sprintf("%s-%s", c.IDPrefix, idCode),
			Title:     title,
			FileCode:  f.FileCode,
			Provider:  c.Name,
			Number:    number,
			Thumbnail: f.Thumbnail,
			Duration:  duration,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

func (c *Client) getWithRetry(ctx context.Context, u string) ([]byte, error) {
	if c.CB == nil {
		return c.getWithBackoff(ctx, u)
	}
	result, err := c.CB.Execute(func() (interface{}, error) {
		return c.getWithBackoff(ctx, u)
	})
	if err != nil {
		return nil, err
	}
	return result.([]byte), nil
}

func (c *Client) getWithBackoff(ctx context.Context, u string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.Config.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := c.Config.RetryBaseDelay * time.Duration(math.Pow(2, float64(attempt-1)))
			c.Log.Debug("retrying listing request", zap.String("provider", c.Name), zap.Int("attempt", attempt), zap.Duration("delay", delay))
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}
		body, err := c.get(ctx, u)
		if err == nil {
			return body, nil
		}
		lastErr = err
		c.Log.Warn("listing request failed", zap.String("provider", c.Name), zap.Int("attempt", attempt), zap.Error(err))
	}
	return nil, lastErr
}

func (c *Client) get(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	reader := resp.Body
	if strings.Contains(resp.Header.Get("Content-Encoding"), "gzip") {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, err
		}
		defer gz.Close()
		reader = gz
	}

	b, err := io.ReadAll(io.LimitReader(reader, 2<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: status %d body=%q", strings.ToLower(c.Name), resp.StatusCode, string(b[:min(len(b), 200)]))
	}
	return b, nil
}

// decodeFileList parses a listing envelope. It tries the strict schema
// first and falls back to a tolerant field-by-field extraction when the
// host returns values of an unexpected type. An error status with no
// usable file list yields an empty result rather than an error.
func decodeFileList(body []byte) ([]fileItem, error) {
	var env listResponse
	if err := json.Unmarshal(body, &env); err == nil {
		if env.Status == "error" || (env.Msg != "" && env.Msg != "OK") {
			return nil, nil
		}
		return env.Result.Files, nil
	}

	files, ok := extractFiles(body)
	if !ok {
		return nil, fmt.Errorf("decode listing: unrecognized envelope body=%q", string(body[:min(len(body), 200)]))
	}
	return files, nil
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
