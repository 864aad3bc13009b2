package panels

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexquote/lexquote/internal/adminapi"
	"github.com/lexquote/lexquote/internal/dashboard"
	"github.com/lexquote/lexquote/internal/pricing"
)

type stubAPI struct {
	summary     adminapi.QuoteSummary
	quotes      []adminapi.Quote
	users       []adminapi.User
	activeCount int
	status      adminapi.SystemStatus
	events      []adminapi.SecurityEvent
	err         error
	activeCalls int
	lastCaller  adminapi.Caller
}

func (s *stubAPI) QuoteSummary(ctx context.Context, caller adminapi.Caller) (adminapi.QuoteSummary, error) {
	s.lastCaller = caller
	return s.summary, s.err
}

func (s *stubAPI) ListQuotes(ctx context.Context, caller adminapi.Caller, limit int) ([]adminapi.Quote, error) {
	s.lastCaller = caller
	return s.quotes, s.err
}

func (s *stubAPI) ActiveUserCount(ctx context.Context, caller adminapi.Caller) (int, error) {
	s.activeCalls++
	return s.activeCount, s.err
}

func (s *stubAPI) ListUsers(ctx context.Context, caller adminapi.Caller) ([]adminapi.User, error) {
	return s.users, s.err
}

func (s *stubAPI) SystemStatus(ctx context.Context, caller adminapi.Caller) (adminapi.SystemStatus, error) {
	return s.status, s.err
}

func (s *stubAPI) SecurityEvents(ctx context.Context, caller adminapi.Caller, limit int) ([]adminapi.SecurityEvent, error) {
	return s.events, s.err
}

type stubAnalytics struct {
	summary adminapi.AnalyticsSummary
}

func (s stubAnalytics) Summary(ctx context.Context, period string) (adminapi.AnalyticsSummary, error) {
	return s.summary, nil
}

type stubInspector struct {
	infos map[string]*asynq.QueueInfo
}

func (s stubInspector) Queues() ([]string, error) {
	names := make([]string, 0, len(s.infos))
	for name := range s.infos {
		names = append(names, name)
	}
	return names, nil
}

func (s stubInspector) GetQueueInfo(queue string) (*asynq.QueueInfo, error) {
	return s.infos[queue], nil
}

func viewer(role dashboard.Role) dashboard.Viewer {
	return dashboard.Viewer{UserID: "42", Role: role, Capabilities: dashboard.CapabilitiesFor(role), Locale: "en"}
}

func TestStandardCoversEverySection(t *testing.T) {
	reg, err := dashboard.NewRegistry(Standard(Deps{})...)
	require.NoError(t, err)
	for _, item := range dashboard.Navigation(dashboard.RoleSuperAdmin) {
		assert.False(t, dashboard.IsNoContent(reg.Resolve(dashboard.RoleSuperAdmin, item.ID)), item.ID)
	}
}

func TestOverviewSkipsUserCountForUsers(t *testing.T) {
	api := &stubAPI{summary: adminapi.QuoteSummary{Total: 4, Open: 2, OpenValueMinor: 250000, Currency: "EUR"}, activeCount: 9}
	panel := &Overview{Quotes: api, Users: api}

	content, err := panel.Load(context.Background(), viewer(dashboard.RoleUser))
	require.NoError(t, err)
	data := content.Data.(OverviewData)
	assert.Equal(t, 4, data.TotalQuotes)
	assert.False(t, data.ShowUserCounts)
	assert.Zero(t, api.activeCalls)
	assert.Contains(t, data.OpenValue, "2,500.00")
	assert.Equal(t, adminapi.Caller{UserID: "42", Role: "USER"}, api.lastCaller)

	content, err = panel.Load(context.Background(), viewer(dashboard.RoleAdmin))
	require.NoError(t, err)
	data = content.Data.(OverviewData)
	assert.True(t, data.ShowUserCounts)
	assert.Equal(t, 9, data.ActiveUsers)
}

func TestOverviewPropagatesError(t *testing.T) {
	api := &stubAPI{err: errors.New("backend down")}
	_, err := (&Overview{Quotes: api, Users: api}).Load(context.Background(), viewer(dashboard.RoleAdmin))
	assert.Error(t, err)
}

func TestQuotesBuildsRows(t *testing.T) {
	api := &stubAPI{quotes: []adminapi.Quote{{
		ID:            "q 1",
		Reference:     "LQ-001",
		Mark:          "ACME",
		Classes:       []int{9, 42},
		Jurisdictions: []string{"EU", "US"},
		AmountMinor:   99000,
		Currency:      "EUR",
		Status:        "sent",
	}}}
	content, err := (&Quotes{API: api}).Load(context.Background(), viewer(dashboard.RoleUser))
	require.NoError(t, err)
	assert.Equal(t, "panels/quotes.html", content.Template)
	data := content.Data.(QuotesData)
	require.Len(t, data.Rows, 1)
	row := data.Rows[0]
	assert.Equal(t, 2, row.Classes)
	assert.Equal(t, "EU, US", row.Jurisdictions)
	assert.Equal(t, "/quotes/q%201/pdf", row.PDFHref)
	assert.Contains(t, row.Amount, "990.00")
}

type fixedMoney struct{}

func (fixedMoney) Display(ctx context.Context, m pricing.Money, preferred, locale string) string {
	return preferred + " converted"
}

func TestQuotesUsesMoneyDisplay(t *testing.T) {
	api := &stubAPI{quotes: []adminapi.Quote{{ID: "q1", AmountMinor: 100, Currency: "EUR"}}}
	v := viewer(dashboard.RoleUser)
	v.Currency = "USD"
	content, err := (&Quotes{API: api, Money: fixedMoney{}}).Load(context.Background(), v)
	require.NoError(t, err)
	assert.Equal(t, "USD converted", content.Data.(QuotesData).Rows[0].Amount)
}

func TestUsersSortsAndCounts(t *testing.T) {
	api := &stubAPI{users: []adminapi.User{{Email: "z@x.io", Active: true}, {Email: "a@x.io"}, {Email: "m@x.io", Active: true}}}
	content, err := (&Users{API: api}).Load(context.Background(), viewer(dashboard.RoleAdmin))
	require.NoError(t, err)
	data := content.Data.(UsersData)
	assert.Equal(t, 2, data.Active)
	assert.Equal(t, "a@x.io", data.Users[0].Email)
}

func TestAnalyticsFormatsConversion(t *testing.T) {
	svc := stubAnalytics{summary: adminapi.AnalyticsSummary{Period: "2026-10", QuotesIssued: 8, QuotesAccepted: 2, RevenueMinor: 100000, Currency: "EUR"}}
	content, err := (&Analytics{Service: svc}).Load(context.Background(), viewer(dashboard.RoleAdmin))
	require.NoError(t, err)
	data := content.Data.(AnalyticsData)
	assert.Equal(t, "25.0%", data.Conversion)
	assert.Contains(t, data.Revenue, "1,000.00")
}

func TestSystemAndSecurity(t *testing.T) {
	api := &stubAPI{
		status: adminapi.SystemStatus{Version: "1.4.0", UptimeSeconds: 90, Components: []adminapi.ComponentStatus{{Name: "db", Healthy: true}}},
		events: []adminapi.SecurityEvent{{Success: true}, {Success: false}, {Success: false}},
	}
	content, err := (&System{API: api}).Load(context.Background(), viewer(dashboard.RoleSuperAdmin))
	require.NoError(t, err)
	sys := content.Data.(SystemData)
	assert.True(t, sys.Healthy)
	assert.Equal(t, 90*time.Second, sys.Uptime)

	content, err = (&Security{API: api}).Load(context.Background(), viewer(dashboard.RoleSuperAdmin))
	require.NoError(t, err)
	assert.Equal(t, 2, content.Data.(SecurityData).Failures)
}

func TestMonitoringListsQueuesSorted(t *testing.T) {
	inspector := stubInspector{infos: map[string]*asynq.QueueInfo{
		"default":  {Queue: "default", Pending: 3},
		"critical": {Queue: "critical", Failed: 1},
	}}
	content, err := (&Monitoring{Inspector: inspector}).Load(context.Background(), viewer(dashboard.RoleSuperAdmin))
	require.NoError(t, err)
	rows := content.Data.(MonitoringData).Queues
	require.Len(t, rows, 2)
	assert.Equal(t, "critical", rows[0].Name)
	assert.Equal(t, 3, rows[1].Pending)
}

func TestSettingsDefaults(t *testing.T) {
	content, err := (&Settings{}).Load(context.Background(), dashboard.Viewer{Role: dashboard.RoleUser})
	require.NoError(t, err)
	data := content.Data.(SettingsData)
	assert.Equal(t, "EUR", data.Currency)
	assert.Equal(t, "en", data.Locale)
	assert.Contains(t, data.Sample, "1,234.56")
}
