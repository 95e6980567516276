package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/bioquery/taxoblast/config"
	"github.com/bioquery/taxoblast/internal/blast"
	"github.com/bioquery/taxoblast/internal/core"
	"github.com/bioquery/taxoblast/internal/data"
	"github.com/bioquery/taxoblast/internal/genbank"
	"github.com/bioquery/taxoblast/internal/genome"
	"github.com/bioquery/taxoblast/internal/pipeline"
	"github.com/bioquery/taxoblast/internal/service"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Jobs     *service.JobService
	Genomes  *service.GenomeService
	Consumer *pipeline.Consumer
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	AWS         *AWSClients
	Logger      *slog.Logger
}

// BuildServices wires repositories, adapters and services.
func BuildServices(deps ServiceDeps) ServiceContainer {
	cfg := deps.Config
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	jobRepo := data.NewJobRepo(deps.DB)
	genomeRepo := data.NewGenomeRepo(deps.DB)
	resultRepo := data.NewResultRepo(deps.DB)

	container := ServiceContainer{
		Jobs: service.NewJobService(service.JobServiceOptions{
			Jobs:    jobRepo,
			Results: resultRepo,
			Queue:   deps.AWS.JobQueue,
			Logger:  logger,
		}),
		Genomes: service.NewGenomeService(service.GenomeServiceOptions{Genomes: genomeRepo}),
	}

	if cfg.IsWorkerEnabled() {
		cache := genome.NewStoreCache(genome.StoreCacheOptions{
			Archive:    genbank.NewClient(cfg.GenBank),
			Store:      deps.AWS.ObjectStore,
			Genomes:    genomeRepo,
			Lookups:    lookupCache(deps.RedisClient),
			PresignTTL: cfg.Worker.PresignTTL,
			LookupTTL:  cfg.Redis.LookupTTL,
			Logger:     logger,
		})
		processor := pipeline.NewProcessor(pipeline.ProcessorOptions{
			Jobs:    jobRepo,
			Results: resultRepo,
			Genomes: cache,
			Tool: blast.NewInvoker(blast.InvokerOptions{
				Command: cfg.Worker.BlastCommand,
				Script:  cfg.Worker.BlastScript,
				Timeout: cfg.Worker.BlastTimeout,
				Logger:  logger,
			}),
			Logger: logger,
		})
		container.Consumer = pipeline.NewConsumer(pipeline.ConsumerOptions{
			Queue:        deps.AWS.JobQueue,
			Jobs:         jobRepo,
			Processor:    processor,
			ErrorBackoff: cfg.Worker.ErrorBackoff,
			Logger:       logger,
		})
	}
	return container
}

// healthCheck verifies the backing stores the process actually connected to.
func healthCheck(db *sql.DB, redisClient redis.UniversalClient) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		if err := db.PingContext(ctx); err != nil {
			return err
		}
		if redisClient != nil {
			return redisClient.Ping(ctx).Err()
		}
		return nil
	}
}

// lookupCache adapts an optional Redis client; a worker without Redis still
// runs, it just resolves every taxon upstream.
//
//nolint:ireturn // a nil interface signals the cache is absent.
func lookupCache(client redis.UniversalClient) core.CacheRepository {
	if client == nil {
		return nil
	}
	return data.NewRedisCacheRepo(client)
}

// Run connects infrastructure, builds services and runs the enabled ones
// until a shutdown signal arrives.
func Run(ctx context.Context, cfg *config.AppConfig, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := ConnectDB(DatabaseConfig{DBConfig: cfg.Postgres, Logger: logger})
	if err != nil {
		return err
	}
	defer db.Close()

	if err := RunMigrations(ctx, db, DatabaseConfig{DBConfig: cfg.Postgres, Logger: logger}); err != nil {
		return err
	}

	var redisClient redis.UniversalClient
	if cfg.IsWorkerEnabled() {
		redisClient, err = ConnectRedis(DatabaseConfig{RedisConfig: cfg.Redis, Logger: logger})
		if err != nil {
			// The lookup cache is an optimization; the worker can run without it.
			logger.Warn("redis unavailable, taxon lookups will not be cached", "error", err)
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}

	awsClients, err := ConnectAWS(ctx, cfg, logger)
	if err != nil {
		return err
	}

	container := BuildServices(ServiceDeps{
		Config:      cfg,
		DB:          db,
		RedisClient: redisClient,
		AWS:         awsClients,
		Logger:      logger,
	})

	g, gctx := errgroup.WithContext(ctx)

	if cfg.IsHTTPServerEnabled() {
		server := StartHTTPServer(&HTTPServerConfig{
			Config:   cfg,
			Services: container,
			Health:   healthCheck(db, redisClient),
			Logger:   logger,
		})
		g.Go(func() error { return serveHTTP(gctx, server, logger) })
	}

	if cfg.IsWorkerEnabled() {
		g.Go(func() error {
			if err := container.Consumer.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Info("shutdown complete")
	return nil
}
