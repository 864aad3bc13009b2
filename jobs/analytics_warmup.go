package jobs

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/lexquote/lexquote/internal/jobs"
)

var defaultJobMetrics = jobmetrics.NewMetrics(nil)

// AnalyticsWarmer fills the analytics cache.
type AnalyticsWarmer interface {
	Warm(ctx context.Context) (int, error)
}

// CacheBumper invalidates a versioned cache.
type CacheBumper interface {
	Bump(ctx context.Context) error
}

// AnalyticsWarmupJob pre-populates analytics summaries so the analytics
// panel rarely waits on the admin API.
type AnalyticsWarmupJob struct {
	Analytics AnalyticsWarmer
	Cache     CacheBumper
	Logger    *slog.Logger
	Metrics   *jobmetrics.Metrics
	Timeout   time.Duration
}

// NewAnalyticsWarmupJob wires dependencies for the warmup handler.
func NewAnalyticsWarmupJob(analytics AnalyticsWarmer, cache CacheBumper, logger *slog.Logger, metrics *jobmetrics.Metrics) *AnalyticsWarmupJob {
	return &AnalyticsWarmupJob{
		Analytics: analytics,
		Cache:     cache,
		Logger:    logger,
		Metrics:   metrics,
		Timeout:   30 * time.Second,
	}
}

// Handle processes analytics warmup tasks.
func (j *AnalyticsWarmupJob) Handle(ctx context.Context, t *asynq.Task) (resultErr error) {
	if j == nil || j.Analytics == nil {
		return errors.New("analytics warmup: handler not configured")
	}
	var payload AnalyticsWarmupPayload
	if err := decodePayload(t, &payload); err != nil {
		return asynq.SkipRetry
	}

	metrics := metricsOrDefault(j.Metrics)
	tracker := metrics.Track(TaskAnalyticsWarmup)
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	logger := jobLogger(j.Logger, TaskAnalyticsWarmup).With(slog.Bool("bump", payload.Bump))
	start := time.Now()
	logger.Info("starting analytics warmup")

	if j.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.Timeout)
		defer cancel()
	}

	if payload.Bump && j.Cache != nil {
		if err := j.Cache.Bump(ctx); err != nil {
			logger.Error("bump analytics cache", slog.Any("error", err))
			return err
		}
	}
	warmed, err := j.Analytics.Warm(ctx)
	metrics.AddWarmed(TaskAnalyticsWarmup, warmed)
	if err != nil {
		logger.Error("warm analytics", slog.Int("periods", warmed), slog.Any("error", err))
		return err
	}
	logger.Info("completed analytics warmup", slog.Int("periods", warmed), slog.Duration("duration", time.Since(start)))
	return nil
}

func metricsOrDefault(m *jobmetrics.Metrics) *jobmetrics.Metrics {
	if m != nil {
		return m
	}
	return defaultJobMetrics
}

func jobLogger(logger *slog.Logger, task string) *slog.Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return logger.With(slog.String("job", task))
}
