// Auspex - Social Content Virality Prediction and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auspex

// Package main is the entry point for the Auspex server.
//
// Auspex predicts the virality of social content before it is posted,
// scoring drafts for Twitter, Instagram, and TikTok with per-platform
// heuristic models, optionally blended with an external Model Runtime.
// Recorded outcomes feed a training pipeline that retrains and
// re-evaluates the models on a schedule.
//
// # Startup Order
//
//  1. Configuration: Koanf v2 layered sources (env over file over defaults)
//  2. Logging: zerolog, json or console per LOG_FORMAT
//  3. Training store: Badger at TRAINING_PATH, or in-memory
//  4. Prediction cache: in-process TTL cache, or Redis via CACHE_BACKEND=redis
//  5. Domain: extractor, platform registry, explainer, training manager
//  6. Model Runtime client, when RUNTIME_ENABLED=true
//  7. Event bus and consumer router (pending points, trending observation)
//  8. Supervisor tree: data / events / jobs / api layers
//
// # Signal Handling
//
// SIGINT and SIGTERM cancel the root context. The supervisor tree drains
// each layer; the HTTP server gets HTTP_SHUTDOWN_GRACE to finish
// in-flight requests.
//
// # Example Usage
//
// Heuristics only, in-memory store, for development:
//
//	export TRAINING_STORE=memory
//	export LOG_FORMAT=console
//	./auspex
//
// Production with the Model Runtime and Redis cache:
//
//	export RUNTIME_ENABLED=true
//	export RUNTIME_URL=http://runtime:9000
//	export RUNTIME_API_KEY=...
//	export CACHE_BACKEND=redis
//	export REDIS_ADDR=redis:6379
//	export TRAINING_PATH=/data/auspex/training
//	./auspex
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/auspex/internal/api"
	"github.com/tomtom215/auspex/internal/cache"
	"github.com/tomtom215/auspex/internal/config"
	"github.com/tomtom215/auspex/internal/content"
	"github.com/tomtom215/auspex/internal/engine"
	"github.com/tomtom215/auspex/internal/events"
	"github.com/tomtom215/auspex/internal/explain"
	"github.com/tomtom215/auspex/internal/logging"
	"github.com/tomtom215/auspex/internal/mlruntime"
	"github.com/tomtom215/auspex/internal/models"
	"github.com/tomtom215/auspex/internal/platform"
	"github.com/tomtom215/auspex/internal/scheduler"
	"github.com/tomtom215/auspex/internal/supervisor"
	"github.com/tomtom215/auspex/internal/supervisor/services"
	"github.com/tomtom215/auspex/internal/training"
)

// version is injected at build time via
// -ldflags "-X main.version=v1.2.3".
var version = "dev"

// pendingPruneInterval is how often unresolved predictions beyond the
// retention limit are evicted.
const pendingPruneInterval = time.Hour

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	logger := logging.Logger()

	logger.Info().
		Str("version", version).
		Str("environment", cfg.Server.Environment).
		Bool("runtime_enabled", cfg.Runtime.Enabled).
		Str("cache_backend", cfg.Cache.Backend).
		Str("training_store", cfg.Training.Store).
		Msg("Starting Auspex")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Training store.
	var (
		store training.Store
		db    *badger.DB
	)
	if cfg.Training.Store == "memory" {
		store = training.NewMemoryStore()
	} else {
		db, err = badger.Open(badger.DefaultOptions(cfg.Training.Path).WithLogger(nil))
		if err != nil {
			logger.Fatal().Err(err).Str("path", cfg.Training.Path).Msg("Failed to open training store")
		}
		defer func() {
			if err := db.Close(); err != nil {
				logger.Error().Err(err).Msg("Closing training store failed")
			}
		}()
		store = training.NewBadgerStore(db)
	}
	trainingMgr := training.NewManager(store, &logger)

	// Prediction cache.
	var (
		predCache  cache.Cacher
		redisCache *cache.RedisCache
	)
	if cfg.Cache.Backend == "redis" {
		redisCache, err = cache.NewRedis(ctx, cache.RedisOptions{
			Addr:        cfg.Cache.Redis.Addr,
			Password:    cfg.Cache.Redis.Password,
			DB:          cfg.Cache.Redis.DB,
			DialTimeout: cfg.Cache.Redis.DialTimeout,
			DefaultTTL:  cfg.Cache.TTL,
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer func() {
			if err := redisCache.Close(); err != nil {
				logger.Error().Err(err).Msg("Closing Redis failed")
			}
		}()
		predCache = cache.NewRemoteCacher(redisCache, predictionCodec{}, cfg.Cache.TTL)
	} else {
		predCache = cache.NewCacher(localCacheConfig(&cfg.Cache))
	}

	// Domain components.
	extractor := content.New(cfg.Extractor, &logger)
	registry, err := platform.NewRegistry(platform.DefaultConfigs(), &logger,
		platform.WithTrendSource(extractor))
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to build platform registry")
	}
	explainer := explain.New(&logger)

	var runtime mlruntime.Client
	if cfg.Runtime.Enabled {
		runtime = mlruntime.NewHTTPClient(&cfg.Runtime, &logger)
	}

	bus := events.NewBus(&cfg.Events, &logger)
	defer func() {
		if err := bus.Close(); err != nil {
			logger.Error().Err(err).Msg("Closing event bus failed")
		}
	}()

	eng, err := engine.New(cfg, engine.Deps{
		Extractor: extractor,
		Registry:  registry,
		Explainer: explainer,
		Training:  trainingMgr,
		Runtime:   runtime,
		Cache:     predCache,
		Publisher: bus,
	}, &logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to build prediction engine")
	}
	eng.RestoreModelStates(ctx)

	// Event consumers.
	eventRouter, err := events.NewRouter(nil, events.NewLoggerAdapter(&logger))
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to build event router")
	}
	eventRouter.AddConsumerHandler("pending-points", events.TopicPredictionRecorded,
		bus.Subscriber(), events.NewPendingPointHandler(trainingMgr, &logger).Handle)
	eventRouter.AddConsumerHandler("trending-observe", events.TopicOutcomeRecorded,
		bus.Subscriber(), events.NewTrendingHandler(extractor, &logger).Handle)

	// HTTP surface.
	apiRouter := api.NewRouter(&cfg.API, eng, version, readyChecks(db, redisCache), &logger)
	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      apiRouter.Handler(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  2 * cfg.Server.Timeout,
	}

	// Supervisor tree.
	tree, err := supervisor.NewTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to build supervisor tree")
	}

	if db != nil {
		tree.AddDataService(services.NewBadgerGCService(db, 0, &logger))
	}
	tree.AddEventsService(services.NewRouterService(eventRouter))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownGrace))

	trendJob := scheduler.NewJob("trend-refresh", cfg.Extractor.TrendRefreshInterval,
		extractor.RefreshTrending, &logger, scheduler.WithRunAtStart())
	tree.AddJobService(services.NewJobService(trendJob))

	retrainOpts := []scheduler.Option{scheduler.WithTimeout(cfg.Jobs.Timeout)}
	if cfg.Jobs.RetrainOnStartup {
		retrainOpts = append(retrainOpts, scheduler.WithRunAtStart())
	}
	retrainJob := scheduler.NewJob("retrain", cfg.Jobs.RetrainInterval,
		eng.RetrainAll, &logger, retrainOpts...)
	tree.AddJobService(services.NewJobService(retrainJob))

	evaluateJob := scheduler.NewJob("evaluate", cfg.Jobs.EvaluateInterval,
		eng.EvaluateAll, &logger, scheduler.WithTimeout(cfg.Jobs.Timeout))
	tree.AddJobService(services.NewJobService(evaluateJob))

	pruneJob := scheduler.NewJob("prune-pending", pendingPruneInterval,
		eng.PrunePending, &logger)
	tree.AddJobService(services.NewJobService(pruneJob))

	logger.Info().
		Str("addr", server.Addr).
		Msg("Supervisor tree starting")

	if err := tree.Serve(ctx); err != nil && ctx.Err() == nil {
		logger.Fatal().Err(err).Msg("Supervisor tree failed")
	}

	if unstopped, err := tree.UnstoppedServiceReport(); err == nil && len(unstopped) > 0 {
		for _, svc := range unstopped {
			logger.Warn().Str("service", fmt.Sprintf("%v", svc.Service)).Msg("Service did not stop in time")
		}
	}

	logger.Info().Msg("Shutdown complete")
}

// readyChecks builds the dependency probes behind /ready. Only
// configured backends are probed.
func readyChecks(db *badger.DB, redisCache *cache.RedisCache) []api.ReadyCheck {
	var checks []api.ReadyCheck

	if db != nil {
		checks = append(checks, api.ReadyCheck{
			Name: "training-store",
			Check: func(ctx context.Context) error {
				if db.IsClosed() {
					return fmt.Errorf("badger: database closed")
				}
				return nil
			},
		})
	}

	if redisCache != nil {
		checks = append(checks, api.ReadyCheck{
			Name: "cache",
			Check: func(ctx context.Context) error {
				return redisCache.Ping(ctx)
			},
		})
	}

	return checks
}

// localCacheConfig maps the cache settings onto an in-process backend:
// "lfu" keeps a frequency-ordered hot set, anything else is the bounded
// TTL cache. Both honor the entry bound and the cleanup interval.
func localCacheConfig(cfg *config.CacheConfig) cache.CacheConfig {
	ctype := cache.CacheTypeTTL
	if cfg.Backend == "lfu" {
		ctype = cache.CacheTypeLFU
	}
	return cache.CacheConfig{
		Type:            ctype,
		TTL:             cfg.TTL,
		Capacity:        cfg.MaxEntries,
		CleanupInterval: cfg.CleanupInterval,
	}
}

// predictionCodec round-trips cached predictions through JSON for the
// Redis backend.
type predictionCodec struct{}

func (predictionCodec) Marshal(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

func (predictionCodec) Unmarshal(data []byte) (interface{}, error) {
	var pred models.ViralPrediction
	if err := json.Unmarshal(data, &pred); err != nil {
		return nil, err
	}
	return &pred, nil
}
