package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/lexquote/lexquote/internal/adminapi"
)

type mockSource struct {
	summary adminapi.AnalyticsSummary
	err     error
	calls   int
	periods []string
}

func (m *mockSource) AnalyticsSummary(ctx context.Context, period string) (adminapi.AnalyticsSummary, error) {
	m.calls++
	m.periods = append(m.periods, period)
	out := m.summary
	out.Period = period
	return out, m.err
}

func newTestService(t *testing.T, source Source) (*Service, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	svc := NewService(source, NewCache(client, time.Minute))
	svc.WithNow(func() time.Time { return time.Date(2026, 3, 31, 12, 0, 0, 0, time.UTC) })
	return svc, mr
}

func TestSummaryCaches(t *testing.T) {
	source := &mockSource{summary: adminapi.AnalyticsSummary{QuotesIssued: 40, QuotesAccepted: 10}}
	svc, _ := newTestService(t, source)
	ctx := context.Background()

	summary, err := svc.Summary(ctx, "2026-02")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.QuotesIssued != 40 {
		t.Fatalf("expected 40 quotes issued, got %d", summary.QuotesIssued)
	}

	// Second call should hit cache.
	if _, err := svc.Summary(ctx, "2026-02"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if source.calls != 1 {
		t.Fatalf("expected cached result, source called %d times", source.calls)
	}

	// Bumping the cache should trigger reload.
	if err := svc.cache.Bump(ctx); err != nil {
		t.Fatalf("bump failed: %v", err)
	}
	source.summary.QuotesIssued = 55
	summary, err = svc.Summary(ctx, "2026-02")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.QuotesIssued != 55 {
		t.Fatalf("expected refreshed value 55 got %d", summary.QuotesIssued)
	}
	if source.calls != 2 {
		t.Fatalf("expected source to refresh, calls %d", source.calls)
	}
}

func TestSummaryDefaultsToCurrentPeriod(t *testing.T) {
	source := &mockSource{}
	svc, _ := newTestService(t, source)

	summary, err := svc.Summary(context.Background(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.Period != "2026-03" {
		t.Fatalf("expected period 2026-03, got %s", summary.Period)
	}
}

func TestSummaryRejectsInvalidPeriod(t *testing.T) {
	svc, _ := newTestService(t, &mockSource{})
	if _, err := svc.Summary(context.Background(), "March"); !errors.Is(err, ErrInvalidPeriod) {
		t.Fatalf("expected ErrInvalidPeriod, got %v", err)
	}
}

func TestSummaryDoesNotCacheErrors(t *testing.T) {
	source := &mockSource{err: errors.New("backend down")}
	svc, _ := newTestService(t, source)
	ctx := context.Background()

	if _, err := svc.Summary(ctx, "2026-01"); err == nil {
		t.Fatal("expected error")
	}
	source.err = nil
	if _, err := svc.Summary(ctx, "2026-01"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if source.calls != 2 {
		t.Fatalf("expected two source calls, got %d", source.calls)
	}
}

func TestWarmLoadsCurrentAndPreviousMonth(t *testing.T) {
	source := &mockSource{}
	svc, mr := newTestService(t, source)

	warmed, err := svc.Warm(context.Background())
	if err != nil {
		t.Fatalf("warm: %v", err)
	}
	if warmed != 2 {
		t.Fatalf("expected 2 periods warmed, got %d", warmed)
	}
	if len(source.periods) != 2 || source.periods[0] != "2026-03" || source.periods[1] != "2026-02" {
		t.Fatalf("unexpected periods %v", source.periods)
	}
	ver, err := mr.Get(cacheVersionKey)
	if err != nil {
		t.Fatalf("version key: %v", err)
	}
	if ver != "1" {
		t.Fatalf("expected version 1 after first bump, got %s", ver)
	}
}

func TestNilCacheFallsThrough(t *testing.T) {
	source := &mockSource{summary: adminapi.AnalyticsSummary{QuotesIssued: 3}}
	svc := NewService(source, NewCache(nil, time.Minute))
	for i := 0; i < 2; i++ {
		if _, err := svc.Summary(context.Background(), "2026-01"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if source.calls != 2 {
		t.Fatalf("expected uncached calls, got %d", source.calls)
	}
}
