package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskAnalyticsWarmup refreshes cached analytics summaries.
	TaskAnalyticsWarmup = "dashboard:analytics_warmup"
	// TaskRatesRefresh refreshes cached exchange-rate tables.
	TaskRatesRefresh = "pricing:rates_refresh"
)

// AnalyticsWarmupPayload configures an analytics warmup run. Bump discards
// every cached summary before warming.
type AnalyticsWarmupPayload struct {
	Bump bool `json:"bump"`
}

// RatesRefreshPayload lists the base currencies to refresh. Empty means all
// supported currencies.
type RatesRefreshPayload struct {
	Bases []string `json:"bases,omitempty"`
}

// NewAnalyticsWarmupTask constructs an analytics warmup task.
func NewAnalyticsWarmupTask(bump bool) (*asynq.Task, error) {
	data, err := json.Marshal(AnalyticsWarmupPayload{Bump: bump})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskAnalyticsWarmup, data), nil
}

// NewRatesRefreshTask constructs a rates refresh task.
func NewRatesRefreshTask(bases ...string) (*asynq.Task, error) {
	data, err := json.Marshal(RatesRefreshPayload{Bases: bases})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskRatesRefresh, data), nil
}

func decodePayload(t *asynq.Task, dest any) error {
	if len(t.Payload()) == 0 {
		return nil
	}
	return json.Unmarshal(t.Payload(), dest)
}
