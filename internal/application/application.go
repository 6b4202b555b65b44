// Package application wires configuration, stores, services and transports
// into the runnable service.
package application

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"osrs_profit/internal/config"
	"osrs_profit/internal/domain/service/history"
	"osrs_profit/internal/domain/service/method"
	"osrs_profit/internal/domain/service/pricing"
	"osrs_profit/internal/infrastructure/persistence"
	"osrs_profit/internal/infrastructure/upstream"
	"osrs_profit/internal/server"
	"osrs_profit/internal/worker"
	"osrs_profit/pkg/application/connectors"
	"osrs_profit/pkg/application/modules"
	"osrs_profit/pkg/contextx"
	"osrs_profit/pkg/httpx"
	"osrs_profit/pkg/logx"
	"osrs_profit/pkg/middlewarex"
	"osrs_profit/pkg/probe"
)

const (
	TaskRefreshPrices    = "refresh-prices"
	TaskRecomputeProfits = "recompute-profits"
	TaskCaptureHistory   = "capture-history"
)

// Application holds the connectors and services shared by the commands.
type Application struct {
	cfg      config.Config
	postgres *connectors.Postgres
	redis    *connectors.Redis
}

func New(cfg config.Config) *Application {
	return &Application{
		cfg: cfg,
		postgres: &connectors.Postgres{
			DSN:             cfg.Postgres.DSN,
			MaxIdleConns:    cfg.Postgres.MaxIdleConns,
			MaxOpenConns:    cfg.Postgres.MaxOpenConns,
			ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
			ConnMaxIdleTime: cfg.Postgres.ConnMaxIdleTime,
			ConnectTimeout:  cfg.Postgres.ConnectTimeout,
		},
		redis: &connectors.Redis{
			Username:           cfg.Redis.Username,
			Password:           cfg.Redis.Password,
			Address:            cfg.Redis.Address,
			DatabaseNumber:     cfg.Redis.DatabaseNumber,
			PoolSize:           cfg.Redis.PoolSize,
			MinIdleConnections: cfg.Redis.MinIdleConnections,
			MaxIdleConnections: cfg.Redis.MaxIdleConnections,
		},
	}
}

func (a *Application) Close(ctx context.Context) {
	a.redis.Close(ctx)
	a.postgres.Close(ctx)
}

// PriceCache builds the price cache over the live stores and the feed.
func (a *Application) PriceCache(ctx context.Context) *pricing.Cache {
	feed := upstream.NewPriceFeed(
		a.cfg.Prices.APIURL,
		upstream.NewClient("prices", a.cfg.Prices.UserAgent, a.cfg.Prices.Timeout, a.httpxOptions()...),
	)

	return pricing.NewCache(
		feed,
		persistence.NewPriceStore(a.redis.Client(ctx)),
		persistence.NewPriceRuleRepository(a.postgres.Client(ctx)),
	).
		WithRecencyWindow(a.cfg.Prices.RecencyWindow).
		WithBatchSize(a.cfg.Prices.WriteBatch).
		WithLegacyTTL(a.cfg.Prices.LegacyTTL)
}

// Serve runs the HTTP API, the probe and metrics servers and the scheduled
// tasks until ctx is done or one of them fails.
func (a *Application) Serve(ctx context.Context) error {
	loc, err := time.LoadLocation(a.cfg.History.DefaultTimezone)
	if err != nil {
		return fmt.Errorf("HISTORY_DEFAULT_TZ: %w", err)
	}

	db := a.postgres.Client(ctx)
	rdb := a.redis.Client(ctx)

	methodRepo := persistence.NewMethodRepository(db)
	historyRepo := persistence.NewHistoryRepository(db)
	profitStore := persistence.NewProfitStore(rdb)

	prices := a.PriceCache(ctx)

	aggregator := history.NewAggregator(historyRepo, persistence.NewSnapshotRepository(db)).
		WithDefaultTimezone(loc).
		WithMaxBuckets(a.cfg.History.MaxBuckets)

	ranker := method.NewRanker(methodRepo, prices, aggregator).
		WithCatalogTTL(a.cfg.HTTP.CatalogCacheTTL)

	refresher := method.NewRefresher(methodRepo, prices, profitStore)
	recorder := history.NewRecorder(profitStore, historyRepo)

	players := upstream.NewPlayerClient(
		a.cfg.Player.APIURL,
		upstream.NewClient("player", a.cfg.Player.UserAgent, a.cfg.Player.Timeout, a.httpxOptions()...),
	).
		WithRateLimit(a.cfg.Player.RPS).
		WithCacheTTL(a.cfg.Player.CacheTTL)

	tasks := []worker.Task{
		{
			Name:     TaskRefreshPrices,
			Interval: a.cfg.Scheduler.PriceRefreshInterval,
			Run: func(ctx context.Context) error {
				_, err := prices.Refresh(ctx, false)
				return err
			},
		},
		{
			Name:     TaskRecomputeProfits,
			Interval: a.cfg.Scheduler.ProfitRefreshInterval,
			Run: func(ctx context.Context) error {
				_, err := refresher.Recompute(ctx)
				return err
			},
		},
		{
			Name:     TaskCaptureHistory,
			Interval: a.cfg.Scheduler.HistoryCaptureInterval,
			Run: func(ctx context.Context) error {
				_, err := recorder.Capture(ctx)
				return err
			},
		},
	}

	srv := server.NewServer(
		server.NewMethodServer(ranker, players),
		server.NewHistoryServer(aggregator, a.cfg.History.QueryTimeout),
		server.NewPriceServer(prices),
		server.NewHealthServer(a.cfg.App.Version,
			server.HealthCheck{Name: "db", Check: a.postgres.Ping},
			server.HealthCheck{Name: "redis", Check: a.redis.Ping},
		),
	)

	g, ctx := errgroup.WithContext(ctx)

	modules.HTTPServer{
		ListenAddress:   a.cfg.HTTP.ListenAddress,
		ShutdownTimeout: a.cfg.HTTP.ShutdownTimeout,
	}.Run(ctx, g, a.httpHandler(ctx, srv))

	modules.ProbeServer{
		Name:          a.cfg.App.Name,
		Version:       a.cfg.App.Version,
		ListenAddress: a.cfg.HTTP.ProbeListenAddress,
		Checks: []probe.Check{
			{Name: "postgres", Check: a.postgres.Ping},
			{Name: "redis", Check: a.redis.Ping},
		},
	}.Run(ctx, g)

	modules.MetricServer{ListenAddress: a.cfg.HTTP.MetricsListenAddress}.Run(ctx, g)

	a.runScheduler(ctx, g, tasks)

	if err := g.Wait(); err != nil {
		return fmt.Errorf("errgroup.Wait: %w", err)
	}

	return nil
}

func (a *Application) runScheduler(ctx context.Context, g *errgroup.Group, tasks []worker.Task) {
	if a.cfg.Scheduler.Backend == config.SchedulerAsynq {
		asynqRedis := modules.AsynqRedis{
			RedisUsername: a.cfg.Redis.Username,
			RedisPassword: a.cfg.Redis.Password,
			RedisAddress:  a.cfg.Redis.Address,
			RedisDB:       a.cfg.Redis.DatabaseNumber,
		}

		modules.AsynqScheduler{AsynqRedis: asynqRedis}.Run(ctx, g, worker.AsynqEntries(tasks...)...)
		modules.AsynqServer{AsynqRedis: asynqRedis, Concurrency: a.cfg.Scheduler.AsynqConcurrency}.
			Run(ctx, g, modules.AsynqQueues{"default": 1}, worker.AsynqHandlers(tasks...)...)

		return
	}

	g.Go(func() error {
		if err := worker.NewScheduler(tasks...).Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("scheduler.Run: %w", err)
		}

		return nil
	})
}

func (a *Application) httpHandler(ctx context.Context, srv server.Server) http.Handler {
	masker := logx.NewSensitiveDataMasker()

	r := chi.NewRouter()
	r.Use(
		middlewarex.TraceID,
		middlewarex.Logger(contextx.LoggerFromContextOrDefault(ctx)),
		middlewarex.RequestLogging(masker, a.cfg.HTTP.LogFieldMaxLen, server.HealthPath),
		middlewarex.ResponseLogging(masker, a.cfg.HTTP.LogFieldMaxLen, server.HealthPath),
		middlewarex.Recovery,
	)

	srv.RegisterRoutes(r)

	return r
}

func (a *Application) httpxOptions() []httpx.Option {
	return []httpx.Option{
		httpx.WithLogFieldMaxLen(a.cfg.HTTP.LogFieldMaxLen),
		httpx.WithSensitiveDataMasker(logx.NewSensitiveDataMasker()),
	}
}
