// Package config loads service configuration from the environment.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	ServiceName string
	LogLevel    string
	HTTPAddr    string

	// File-hosting providers.
	RpmShareBaseURL string
	RpmShareAPIKey  string
	FilemoonBaseURL string
	FilemoonAPIKey  string

	// Metadata enrichment; empty TVDBAPIKey disables enrichment.
	TVDBBaseURL       string
	TVDBAPIKey        string
	EnrichConcurrency int
	TranslateBaseURL  string
	TranslateEnabled  bool

	// Catalog feed used when callers pass only an anime id.
	CatalogFeedURL string
	CatalogTTL     time.Duration

	// Optional infrastructure; empty URLs disable the integration.
	RedisURL    string
	CacheTTL    time.Duration
	NATSURL     string
	DatabaseURL string

	// Upstream retry and circuit-breaker settings.
	MaxRetries         int
	RetryBaseDelay     time.Duration
	CBMaxRequests      uint32
	CBInterval         time.Duration
	CBTimeout          time.Duration
	CBFailureThreshold uint32
}

func Load() (Config, error) {
	cfg := Config{
		ServiceName: envString("SERVICE_NAME", "episode-resolver"),
		LogLevel:    envString("LOG_LEVEL", "info"),
		HTTPAddr:    envString("HTTP_ADDR", ":8080"),

		RpmShareBaseURL: envString("RPMSHARE_BASE_URL", "https://rpmshare.com"),
		RpmShareAPIKey:  strings.TrimSpace(os.Getenv("RPMSHARE_API_KEY")),
		FilemoonBaseURL: envString("FILEMOON_BASE_URL", "https://filemoonapi.com"),
		FilemoonAPIKey:  strings.TrimSpace(os.Getenv("FILEMOON_API_KEY")),

		TVDBBaseURL:       envString("TVDB_BASE_URL", "https://api4.thetvdb.com/v4"),
		TVDBAPIKey:        strings.TrimSpace(os.Getenv("TVDB_API_KEY")),
		EnrichConcurrency: envInt("TVDB_ENRICH_CONCURRENCY", 4),
		TranslateBaseURL:  strings.TrimSpace(os.Getenv("TRANSLATE_BASE_URL")),
		TranslateEnabled:  envBool("TRANSLATE_ENABLED", true),

		CatalogFeedURL: strings.TrimSpace(os.Getenv("CATALOG_FEED_URL")),
		CatalogTTL:     envDuration("CATALOG_TTL", 10*time.Minute),

		RedisURL:    strings.TrimSpace(os.Getenv("REDIS_URL")),
		CacheTTL:    envDuration("CACHE_TTL", 20*time.Minute),
		NATSURL:     strings.TrimSpace(os.Getenv("NATS_URL")),
		DatabaseURL: strings.TrimSpace(os.Getenv("DATABASE_URL")),

		MaxRetries:         envInt("UPSTREAM_MAX_RETRIES", 3),
		RetryBaseDelay:     envDuration("UPSTREAM_RETRY_BASE_DELAY", 500*time.Millisecond),
		CBMaxRequests:      uint32(envInt("CB_MAX_REQUESTS", 5)),
		CBInterval:         envDuration("CB_INTERVAL", 60*time.Second),
		CBTimeout:          envDuration("CB_TIMEOUT", 30*time.Second),
		CBFailureThreshold: uint32(envInt("CB_FAILURE_THRESHOLD", 5)),
	}

	if cfg.RpmShareAPIKey == "" {
		return Config{}, errors.New("RPMSHARE_API_KEY is required")
	}
	if cfg.FilemoonAPIKey == "" {
		return Config{}, errors.New("FILEMOON_API_KEY is required")
	}
	return cfg, nil
}

func envString(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func envInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func envBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func envDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
