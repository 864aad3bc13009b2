// Package analytics serves the admin analytics summary through a
// versioned Redis cache.
package analytics

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/lexquote/lexquote/internal/adminapi"
)

var periodRegex = regexp.MustCompile(`^\d{4}-\d{2}$`)

// ErrInvalidPeriod is returned for periods not shaped YYYY-MM.
var ErrInvalidPeriod = errors.New("analytics: invalid period")

// Source loads analytics from the backend.
type Source interface {
	AnalyticsSummary(ctx context.Context, period string) (adminapi.AnalyticsSummary, error)
}

// Service coordinates analytics lookups with the cache layer.
type Service struct {
	source Source
	cache  *Cache
	now    func() time.Time
}

// NewService wires a Source with a Cache helper.
func NewService(source Source, cache *Cache) *Service {
	return &Service{source: source, cache: cache, now: time.Now}
}

// WithNow overrides the clock for testing.
func (s *Service) WithNow(fn func() time.Time) {
	if fn != nil {
		s.now = fn
	}
}

// CurrentPeriod returns the current month as YYYY-MM in UTC.
func (s *Service) CurrentPeriod() string {
	return s.now().UTC().Format("2006-01")
}

// Summary returns the analytics summary for a period. An empty period
// means the current month.
func (s *Service) Summary(ctx context.Context, period string) (adminapi.AnalyticsSummary, error) {
	if period == "" {
		period = s.CurrentPeriod()
	}
	if !periodRegex.MatchString(period) {
		return adminapi.AnalyticsSummary{}, ErrInvalidPeriod
	}
	key, err := s.cache.BuildKey(ctx, "analytics", "summary", period)
	if err != nil {
		return adminapi.AnalyticsSummary{}, err
	}
	var out adminapi.AnalyticsSummary
	err = s.cache.FetchJSON(ctx, key, &out, func(ctx context.Context) (any, error) {
		return s.source.AnalyticsSummary(ctx, period)
	})
	return out, err
}

// Warm refreshes the cached summary for the current and previous months.
func (s *Service) Warm(ctx context.Context) (int, error) {
	if err := s.cache.Bump(ctx); err != nil {
		return 0, err
	}
	now := s.now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	periods := []string{monthStart.Format("2006-01"), monthStart.AddDate(0, -1, 0).Format("2006-01")}
	for i, period := range periods {
		if _, err := s.Summary(ctx, period); err != nil {
			return i, err
		}
	}
	return len(periods), nil
}
