package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/lexquote/lexquote/internal/adminapi"
	"github.com/lexquote/lexquote/internal/analytics"
	"github.com/lexquote/lexquote/internal/app"
	jobmetrics "github.com/lexquote/lexquote/internal/jobs"
	"github.com/lexquote/lexquote/internal/platform/cache"
	"github.com/lexquote/lexquote/internal/pricing"
	"github.com/lexquote/lexquote/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	redisOpts := cfg.RedisOptions()
	redisClient, err := cache.New(ctx, redisOpts)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	adminClient := adminapi.NewClient(cfg.AdminAPIURL, cfg.AdminAPIToken).
		WithHTTPClient(&http.Client{Timeout: cfg.AdminAPITimeout})
	analyticsCache := analytics.NewCache(redisClient, cfg.AnalyticsTTL)
	analyticsService := analytics.NewService(adminClient, analyticsCache)
	rates := pricing.NewCachedRateSource(pricing.NewHTTPRateSource(cfg.ExchangeAPIURL), redisClient, cfg.RatesTTL)

	metrics := jobmetrics.NewMetrics(nil)
	warmupJob := jobs.NewAnalyticsWarmupJob(analyticsService, analyticsCache, logger, metrics)
	ratesJob := jobs.NewRatesRefreshJob(rates, logger, metrics)

	warmupTask, err := jobs.NewAnalyticsWarmupTask(false)
	if err != nil {
		logger.Error("build warmup task", slog.Any("error", err))
		os.Exit(1)
	}
	ratesTask, err := jobs.NewRatesRefreshTask()
	if err != nil {
		logger.Error("build rates task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: redisOpts.AsynqOpt(),
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskAnalyticsWarmup, Handler: warmupJob.Handle},
			{Type: jobs.TaskRatesRefresh, Handler: ratesJob.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: "*/30 * * * *", Task: warmupTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
			{Spec: "5 * * * *", Task: ratesTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
