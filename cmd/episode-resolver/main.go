package main

import (
	"context"

	"github.com/go-chi/chi/v5"
	"github.com/nats-io/nats.go"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/otakuflix/episode-resolver/internal/cache"
	"github.com/otakuflix/episode-resolver/internal/catalog"
	"github.com/otakuflix/episode-resolver/internal/config"
	"github.com/otakuflix/episode-resolver/internal/events"
	"github.com/otakuflix/episode-resolver/internal/fallback"
	"github.com/otakuflix/episode-resolver/internal/filehost"
	"github.com/otakuflix/episode-resolver/internal/handlers"
	"github.com/otakuflix/episode-resolver/internal/platform/db"
	"github.com/otakuflix/episode-resolver/internal/platform/httpserver"
	"github.com/otakuflix/episode-resolver/internal/platform/logging"
	"github.com/otakuflix/episode-resolver/internal/platform/natsconn"
	"github.com/otakuflix/episode-resolver/internal/platform/run"
	"github.com/otakuflix/episode-resolver/internal/resolver"
	"github.com/otakuflix/episode-resolver/internal/translate"
	"github.com/otakuflix/episode-resolver/internal/tvdb"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log, err := logging.New(cfg.LogLevel, cfg.ServiceName)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	clientCfg := filehost.ClientConfig{
		MaxRetries:     cfg.MaxRetries,
		RetryBaseDelay: cfg.RetryBaseDelay,
	}
	registry := filehost.Registry{
		"rpmshare": filehost.New("RpmShare", "rpm", cfg.RpmShareBaseURL, cfg.RpmShareAPIKey, clientCfg,
			filehost.WithCircuitBreaker(newBreaker("rpmshare", cfg, log)), filehost.WithLogger(log)),
		"filemoon": filehost.New("Filemoon", "filemoon", cfg.FilemoonBaseURL, cfg.FilemoonAPIKey, clientCfg,
			filehost.WithCircuitBreaker(newBreaker("filemoon", cfg, log)), filehost.WithLogger(log)),
	}

	var enricher resolver.Enricher
	if cfg.TVDBAPIKey != "" {
		opts := []tvdb.Option{
			tvdb.WithCircuitBreaker(newBreaker("tvdb", cfg, log)),
			tvdb.WithLogger(log),
			tvdb.WithConcurrency(cfg.EnrichConcurrency),
		}
		if cfg.TranslateEnabled {
			opts = append(opts, tvdb.WithTranslator(translate.New(cfg.TranslateBaseURL)))
		}
		enricher = tvdb.New(cfg.TVDBBaseURL, cfg.TVDBAPIKey, opts...)
	} else {
		log.Warn("TVDB_API_KEY not set, metadata enrichment disabled")
	}

	store, closeStore := initFallback(cfg, log)
	if closeStore != nil {
		defer closeStore()
	}

	var episodeCache *cache.RedisCache
	if cfg.RedisURL != "" {
		episodeCache, err = cache.NewRedisCache(cfg.RedisURL, cfg.CacheTTL)
		if err != nil {
			log.Error("redis", zap.Error(err))
			run.Exit(1)
		}
	} else {
		log.Warn("REDIS_URL not set, episode caching disabled")
	}

	publisher, closeNATS := initEvents(cfg, log)
	if closeNATS != nil {
		defer closeNATS()
	}

	svc := &resolver.Service{
		Providers: registry,
		Enricher:  enricher,
		Fallback:  store,
		Catalog:   catalog.New(cfg.CatalogFeedURL, cfg.CatalogTTL, log),
		Cache:     episodeCache,
		Events:    publisher,
		Log:       log,
	}

	r := chi.NewRouter()
	httpserver.SetupRouter(r)
	r.Get("/api/anime/{anime_id}/episodes", handlers.GetEpisodes(svc))

	srv := httpserver.New(httpserver.Options{Addr: cfg.HTTPAddr, Router: r})

	runner := run.New(log)
	code := runner.WithSignals(func(ctx context.Context) error {
		go func() {
			<-ctx.Done()
			_ = srv.Shutdown(context.Background())
		}()
		return srv.Start(log)
	})

	log.Info("exit", zap.Int("code", code))
	run.Exit(code)
}

func newBreaker(name string, cfg config.Config, log *zap.Logger) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.CBMaxRequests,
		Interval:    cfg.CBInterval,
		Timeout:     cfg.CBTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.CBFailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Info("circuit-breaker state change", zap.String("name", name), zap.String("from", from.String()), zap.String("to", to.String()))
		},
	})
}

// initFallback selects the fallback-episode backend: Postgres when
// DATABASE_URL is set, the built-in static tables otherwise.
func initFallback(cfg config.Config, log *zap.Logger) (fallback.Store, func()) {
	if cfg.DatabaseURL == "" {
		log.Warn("DATABASE_URL not set, using built-in fallback tables")
		return fallback.NewInMemoryStore(nil), nil
	}
	pool, err := db.Open(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Warn("postgres unavailable, using built-in fallback tables", zap.Error(err))
		return fallback.NewInMemoryStore(nil), nil
	}
	log.Info("fallback store: postgres")
	return fallback.NewPostgresStore(pool), pool.Close
}

// initEvents connects the fire-and-forget event publisher. NATS being
// down is never fatal.
func initEvents(cfg config.Config, log *zap.Logger) (*events.Publisher, func()) {
	if cfg.NATSURL == "" {
		return nil, nil
	}
	nc, err := natsconn.Connect(natsconn.Options{URL: cfg.NATSURL, Name: cfg.ServiceName})
	if err != nil {
		log.Error("nats connect", zap.Error(err))
		return nil, nil
	}
	js, err := nc.JetStream(nats.PublishAsyncMaxPending(256))
	if err != nil {
		log.Error("jetstream context", zap.Error(err))
		nc.Close()
		return nil, nil
	}
	return events.New(js, log), nc.Close
}
