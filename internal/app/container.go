package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"job-matcher/internal/config"
	"job-matcher/internal/database"
	"job-matcher/internal/database/migration"
	dbpostgres "job-matcher/internal/database/postgres"
	"job-matcher/internal/database/seeder"
	"job-matcher/internal/events"
	"job-matcher/internal/infrastructure/cache"
	"job-matcher/internal/infrastructure/oracle"
	"job-matcher/internal/metrics"
	"job-matcher/internal/repository"
	"job-matcher/internal/usecase"
	"job-matcher/internal/ws"
	"job-matcher/migrations"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

// Container owns the long-lived dependencies shared by the server and the CLI.
type Container struct {
	Config  config.Config
	Logger  *zap.Logger
	DB      database.DB
	Cache   *cache.Redis
	Metrics *metrics.Metrics
	Hub     *ws.Hub

	Jobs    repository.JobRepository
	Resumes repository.ResumeRepository
	Matches repository.MatchRepository

	JobUsecase    *usecase.Jobs
	ResumeUsecase *usecase.Resumes

	publisher events.Publisher
	kafka     *events.KafkaPublisher
}

func NewContainer(ctx context.Context, cfg config.Config, logger *zap.Logger) (*Container, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	connCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(connCtx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	c := &Container{
		Config:  cfg,
		Logger:  logger,
		DB:      db,
		Cache:   cache.NewRedis(connCtx, cfg.Redis, logger.Named("redis")),
		Metrics: metrics.New(reg),
		Hub:     ws.NewHub(logger.Named("ws")),
		Jobs:    repository.NewPostgresJobRepository(db),
		Resumes: repository.NewPostgresResumeRepository(db),
		Matches: repository.NewPostgresMatchRepository(db),
	}
	c.JobUsecase = usecase.NewJobUsecase(c.Jobs, c.Cache, logger.Named("jobs"))
	c.ResumeUsecase = usecase.NewResumeUsecase(c.Resumes, logger.Named("resumes"))

	publishers := events.Multi{c.Hub}
	if len(cfg.Kafka.Brokers) > 0 {
		c.kafka = events.NewKafkaPublisher(cfg.Kafka, logger)
		publishers = append(publishers, c.kafka)
		logger.Info("match events published to kafka", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))
	}
	c.publisher = publishers

	return c, nil
}

// Migrate applies the embedded SQL migrations.
func (c *Container) Migrate(ctx context.Context) error {
	sqlDB := c.DB.SQLDB()
	if sqlDB == nil {
		return errors.New("database has no database/sql handle")
	}
	r := migration.Runner{FS: migrations.FS, Logger: c.Logger.Named("migration")}
	return r.Run(ctx, sqlDB)
}

func (c *Container) Seed(ctx context.Context) error {
	r := seeder.Runner{Seeders: seeder.Defaults(), Logger: c.Logger.Named("seeder")}
	return r.Run(ctx, c.DB)
}

// NewMatching builds the scoring pipeline on top of the configured oracle.
// matches overrides the Postgres match store when non-nil.
func (c *Container) NewMatching(ctx context.Context, matches repository.MatchRepository) (*usecase.Matching, error) {
	client, err := oracle.New(ctx, c.Config.Oracle, c.Cache, c.Config.Redis.ScoreTTL, c.Logger)
	if err != nil {
		return nil, fmt.Errorf("oracle client: %w", err)
	}
	if matches == nil {
		matches = c.Matches
	}

	scorer := usecase.NewPairScorer(client, c.Config.Matcher, c.Metrics, c.Logger.Named("scorer"))
	return usecase.NewMatchingUsecase(usecase.MatchingDeps{
		Resumes:   c.Resumes,
		Jobs:      c.Jobs,
		Matches:   matches,
		Scorer:    scorer,
		Publisher: c.publisher,
		Metrics:   c.Metrics,
		Logger:    c.Logger.Named("matcher"),
	}, c.Config.Matcher), nil
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	var errs []error
	if c.kafka != nil {
		errs = append(errs, c.kafka.Close())
	}
	if c.Cache != nil {
		errs = append(errs, c.Cache.Close())
	}
	if c.DB != nil {
		errs = append(errs, c.DB.Close())
	}
	return errors.Join(errs...)
}
