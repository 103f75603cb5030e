// Command engine runs the freight optimization engine: it loads jobs off a
// priority queue, routes each to the matching optimization component, and
// publishes completed results. See SPEC_FULL.md for the full component map.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"freightengine/internal/demand"
	"freightengine/internal/dispatch"
	"freightengine/internal/eventbus"
	"freightengine/internal/hub"
	"freightengine/internal/ingress"
	"freightengine/internal/job"
	"freightengine/internal/predictor"
	"freightengine/internal/relay"
	"freightengine/internal/result"
	"freightengine/pkg/cache"
	"freightengine/pkg/config"
	"freightengine/pkg/database"
	"freightengine/pkg/logger"
	"freightengine/pkg/metrics"
	"freightengine/pkg/ratelimit"
	"freightengine/pkg/telemetry"
)

func main() {
	cfg := config.MustLoad()
	if err := cfg.Validate(); err != nil {
		panic(err)
	}

	logger.InitWithConfig(logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		FilePath:   cfg.Log.FilePath,
		MaxSize:    cfg.Log.MaxSize,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAge,
		Compress:   cfg.Log.Compress,
	})
	logger.Log.Info("starting freight optimization engine", "environment", cfg.App.Environment, "version", cfg.App.Version)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Metrics.Enabled {
		metrics.InitMetrics(cfg.Metrics.Namespace, cfg.Metrics.Subsystem)
		go func() {
			if err := metrics.StartMetricsServer(cfg.Metrics.Port); err != nil {
				logger.Log.Error("metrics server stopped", "error", err)
			}
		}()
	}

	tp, err := telemetry.Init(ctx, telemetry.Config{
		Enabled:     cfg.Tracing.Enabled,
		Endpoint:    cfg.Tracing.Endpoint,
		ServiceName: cfg.Tracing.ServiceName,
		Version:     cfg.App.Version,
		Environment: cfg.App.Environment,
		SampleRate:  cfg.Tracing.SampleRate,
	})
	if err != nil {
		logger.Log.Error("failed to initialize telemetry", "error", err)
	} else {
		defer tp.Shutdown(context.Background())
	}

	predCache := newPredictionCache(cfg)

	jobStore, resultStore, hubRepo, closeStores := newStores(ctx, cfg)
	defer closeStores()
	fleetRepo := dispatch.NewMemoryFleetRepository(nil, nil, nil)

	models := []predictor.Model{
		predictor.NewDemandModel(50),
		predictor.NewSupplyModel(20),
		predictor.NewDriverBehaviorModel(0.8),
		predictor.NewPriceModel(2.1, 0.15),
		predictor.NewNetworkEfficiencyModel(0.75),
	}
	facade := predictor.New(models, predCache, cfg.Engine.UsePredictionCache, cfg.Engine.DefaultConfidenceThreshold)
	demandPredictor := demand.New(facade, predCache, cfg.Engine.PredictionCacheTTL)

	relayPlanner := relay.NewPlanner(hubRepo)

	hubSelector := hub.NewSelector(hubRepo)

	router := dispatch.NewEngineRouter(fleetRepo, relayPlanner, hubSelector, demandPredictor)

	bus := newEventBus(cfg)
	defer bus.Close()

	publisher := result.NewPublisher(bus, cfg.EventBus.ResultsTopic)

	queue := job.NewQueue()
	defer queue.Close()

	backoff := dispatch.BackoffParams{
		MaxAttempts:    cfg.Retry.MaxAttempts,
		InitialBackoff: cfg.Retry.InitialBackoff,
		MaxBackoff:     cfg.Retry.MaxBackoff,
		Multiplier:     cfg.Retry.BackoffMultiplier,
		JitterFraction: cfg.Retry.JitterFraction,
	}
	dispatcher := dispatch.New(router, resultStore, publisher, queue, backoff)

	pool := job.NewPool(jobStore, queue, dispatcher.Handler(), cfg.Queue.MaxConcurrentJobs, cfg.Queue.JobTimeout)

	gate := ingress.NewBackpressureGate(queue, cfg.Queue.QueueHighWaterMark, cfg.Queue.QueueLowWaterMark, newTriggerLimiter(cfg))
	positionParams := ingress.PositionParams{
		ThresholdMiles: cfg.Engine.OptimizationTriggerThresholdMeters / 1609.34,
		Cooldown:       cfg.Engine.OptimizationTriggerCooldown,
	}
	positionHandler := ingress.NewPositionHandler(jobStore, queue, gate, positionParams)
	loadHandler := ingress.NewLoadStatusHandler(jobStore, queue)

	subscribeIngress(ctx, bus, cfg, positionHandler, loadHandler)

	logger.Log.Info("engine ready", "workers", cfg.Queue.MaxConcurrentJobs)
	pool.Run(ctx)
	logger.Log.Info("engine shut down")
}

// newStores constructs the job/result/hub repositories: Postgres-backed
// (pkg/database, via pgx) when cfg.Database.Enabled, otherwise the
// in-memory defaults. The returned func closes the Postgres pool, if one
// was opened.
func newStores(ctx context.Context, cfg *config.Config) (job.Store, result.Store, hub.Repository, func()) {
	if !cfg.Database.Enabled {
		return job.NewMemoryStore(), result.NewMemoryStore(), hub.NewMemoryRepository(), func() {}
	}

	pool, err := database.NewPostgresDB(ctx, &cfg.Database)
	if err != nil {
		logger.Log.Error("failed to connect to postgres, falling back to in-memory stores", "error", err)
		return job.NewMemoryStore(), result.NewMemoryStore(), hub.NewMemoryRepository(), func() {}
	}

	if err := database.RunDefaultMigrations(ctx, pool.Pool(), &cfg.Database); err != nil {
		logger.Log.Error("failed to run migrations", "error", err)
	}

	return database.NewPostgresJobStore(pool), database.NewPostgresResultStore(pool), database.NewPostgresHubRepository(pool), pool.Close
}

// newTriggerLimiter constructs the per-driver rate limiter layered onto the
// position-trigger backpressure gate, or nil if rate limiting is disabled.
func newTriggerLimiter(cfg *config.Config) ratelimit.Limiter {
	if !cfg.RateLimit.Enabled {
		return nil
	}
	limiter, err := ratelimit.New(&ratelimit.Config{
		Requests:        cfg.RateLimit.Requests,
		Window:          cfg.RateLimit.Window,
		Strategy:        cfg.RateLimit.Strategy,
		Backend:         cfg.RateLimit.Backend,
		BurstSize:       cfg.RateLimit.BurstSize,
		CleanupInterval: cfg.RateLimit.CleanupInterval,
		RedisAddr:       cfg.RateLimit.RedisAddr,
	})
	if err != nil {
		logger.Log.Error("failed to construct rate limiter, triggers unthrottled", "error", err)
		return nil
	}
	return limiter
}

func newPredictionCache(cfg *config.Config) *cache.PredictionCache {
	c, err := cache.New(cache.FromConfig(&cfg.Cache))
	if err != nil {
		logger.Log.Error("failed to construct cache, falling back to memory", "error", err)
		c = cache.NewMemoryCache(cache.DefaultOptions())
	}
	return cache.NewPredictionCache(c, cfg.Cache.DefaultTTL)
}

func newEventBus(cfg *config.Config) interface {
	eventbus.Publisher
	eventbus.Subscriber
} {
	if len(cfg.EventBus.Brokers) == 0 {
		logger.Log.Warn("no event bus brokers configured, using in-memory bus")
		return eventbus.NewMemoryBus()
	}
	return eventbus.NewKafkaBus(cfg.EventBus)
}

func subscribeIngress(ctx context.Context, bus interface {
	eventbus.Publisher
	eventbus.Subscriber
}, cfg *config.Config, positions *ingress.PositionHandler, loads *ingress.LoadStatusHandler) {
	go func() {
		err := bus.Subscribe(ctx, cfg.EventBus.PositionsTopic, func(ctx context.Context, msg eventbus.Message) error {
			pos, err := ingress.DecodePosition(msg.Value)
			if err != nil {
				return err
			}
			return positions.Handle(ctx, pos)
		})
		if err != nil && ctx.Err() == nil {
			logger.Log.Error("position subscription stopped", "error", err)
		}
	}()

	go func() {
		err := bus.Subscribe(ctx, cfg.EventBus.LoadEventsTopic, func(ctx context.Context, msg eventbus.Message) error {
			evt, err := ingress.DecodeLoadEvent(msg.Value)
			if err != nil {
				return err
			}
			return loads.Handle(ctx, evt)
		})
		if err != nil && ctx.Err() == nil {
			logger.Log.Error("load event subscription stopped", "error", err)
		}
	}()
}
