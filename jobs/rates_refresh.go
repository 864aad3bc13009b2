package jobs

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/lexquote/lexquote/internal/jobs"
	"github.com/lexquote/lexquote/internal/pricing"
)

// RatesRefresher fetches and stores a fresh rate table.
type RatesRefresher interface {
	Refresh(ctx context.Context, base string) (pricing.Rates, error)
}

// RatesRefreshJob keeps the cached exchange rates warm for every display
// currency.
type RatesRefreshJob struct {
	Rates   RatesRefresher
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
}

// NewRatesRefreshJob wires dependencies for the refresh handler.
func NewRatesRefreshJob(rates RatesRefresher, logger *slog.Logger, metrics *jobmetrics.Metrics) *RatesRefreshJob {
	return &RatesRefreshJob{Rates: rates, Logger: logger, Metrics: metrics}
}

// Handle processes rates refresh tasks. A failing base does not stop the
// others; the joined error is returned so Asynq retries the task.
func (j *RatesRefreshJob) Handle(ctx context.Context, t *asynq.Task) (resultErr error) {
	if j == nil || j.Rates == nil {
		return errors.New("rates refresh: handler not configured")
	}
	var payload RatesRefreshPayload
	if err := decodePayload(t, &payload); err != nil {
		return asynq.SkipRetry
	}
	bases := payload.Bases
	if len(bases) == 0 {
		bases = pricing.SupportedCurrencies
	}

	metrics := metricsOrDefault(j.Metrics)
	tracker := metrics.Track(TaskRatesRefresh)
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	logger := jobLogger(j.Logger, TaskRatesRefresh)
	start := time.Now()
	refreshed := 0
	var errs []error
	for _, base := range bases {
		base = strings.ToUpper(strings.TrimSpace(base))
		if base == "" {
			continue
		}
		if _, err := j.Rates.Refresh(ctx, base); err != nil {
			logger.Warn("refresh rates", slog.String("base", base), slog.Any("error", err))
			errs = append(errs, err)
			continue
		}
		refreshed++
	}
	metrics.AddWarmed(TaskRatesRefresh, refreshed)
	logger.Info("completed rates refresh", slog.Int("bases", refreshed), slog.Duration("duration", time.Since(start)))
	return errors.Join(errs...)
}
