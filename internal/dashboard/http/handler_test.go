package dashboardhttp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexquote/lexquote/internal/adminapi"
	"github.com/lexquote/lexquote/internal/dashboard"
	"github.com/lexquote/lexquote/internal/panels"
	"github.com/lexquote/lexquote/internal/shared"
	"github.com/lexquote/lexquote/internal/view"
	_ "github.com/lexquote/lexquote/testing"
)

type recorder struct {
	decisions []string
}

func (r *recorder) ObserveDecision(section, outcome string) {
	r.decisions = append(r.decisions, section+":"+outcome)
}

type stubAPI struct {
	err error
}

func (s stubAPI) QuoteSummary(ctx context.Context, caller adminapi.Caller) (adminapi.QuoteSummary, error) {
	return adminapi.QuoteSummary{Total: 12, Open: 3, OpenValueMinor: 420000, Currency: "EUR"}, s.err
}

func (s stubAPI) ListQuotes(ctx context.Context, caller adminapi.Caller, limit int) ([]adminapi.Quote, error) {
	return nil, s.err
}

func (s stubAPI) ActiveUserCount(ctx context.Context, caller adminapi.Caller) (int, error) {
	return 5, s.err
}

func (s stubAPI) ListUsers(ctx context.Context, caller adminapi.Caller) ([]adminapi.User, error) {
	return []adminapi.User{{Email: "paralegal@firm.test", Role: "USER", Active: true}}, s.err
}

func (s stubAPI) SystemStatus(ctx context.Context, caller adminapi.Caller) (adminapi.SystemStatus, error) {
	return adminapi.SystemStatus{Version: "3.2.1"}, s.err
}

func (s stubAPI) SecurityEvents(ctx context.Context, caller adminapi.Caller, limit int) ([]adminapi.SecurityEvent, error) {
	return nil, s.err
}

type failingAnalytics struct{}

func (failingAnalytics) Summary(ctx context.Context, period string) (adminapi.AnalyticsSummary, error) {
	return adminapi.AnalyticsSummary{}, errors.New("admin api down")
}

type fixture struct {
	router   http.Handler
	sessions *shared.SessionManager
	csrf     *shared.CSRFManager
	recorder *recorder
}

func newFixture(t *testing.T, extra ...dashboard.Panel) *fixture {
	t.Helper()
	mr := miniredis.RunT(t)
	sessions := shared.NewSessionManager(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "test_session", time.Hour, false)
	csrf := shared.NewCSRFManager("csrfsecret")
	templates, err := view.NewEngine()
	require.NoError(t, err)

	api := stubAPI{}
	list := []dashboard.Panel{
		&panels.Overview{Quotes: api, Users: api},
		&panels.Users{API: api},
		&panels.System{API: api},
		&panels.Settings{},
	}
	list = append(list, extra...)
	registry, err := dashboard.NewRegistry(list...)
	require.NoError(t, err)

	rec := &recorder{}
	handler := NewHandler(nil, templates, registry, csrf, rec)
	r := chi.NewRouter()
	r.Route(dashboard.BasePath, handler.MountRoutes)
	r.Route("/api/dashboard", handler.MountAPIRoutes)
	return &fixture{router: r, sessions: sessions, csrf: csrf, recorder: rec}
}

func (f *fixture) do(t *testing.T, req *http.Request, role string) (*httptest.ResponseRecorder, *shared.Session) {
	t.Helper()
	sess, err := f.sessions.Load(context.Background(), req)
	require.NoError(t, err)
	if role != "" {
		sess.SetPrincipal("42", role)
	}
	req = shared.WithSession(req, sess)
	rr := httptest.NewRecorder()
	f.router.ServeHTTP(rr, req)
	return rr, sess
}

func (f *fixture) get(t *testing.T, path, role string) *httptest.ResponseRecorder {
	t.Helper()
	rr, _ := f.do(t, httptest.NewRequest(http.MethodGet, path, nil), role)
	return rr
}

func postForm(path string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestUnauthenticatedRedirectsToLogin(t *testing.T) {
	f := newFixture(t)
	rr := f.get(t, "/dashboard", "")
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, LoginPath, rr.Header().Get("Location"))
}

func TestIndexRendersOverview(t *testing.T) {
	f := newFixture(t)
	rr := f.get(t, "/dashboard", "USER")

	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, `data-outcome="render"`)
	assert.Contains(t, body, "Open quotes")
	assert.Contains(t, body, `href="/dashboard/quotes"`)
	assert.NotContains(t, body, `href="/dashboard/users"`)
	assert.Equal(t, []string{"overview:render"}, f.recorder.decisions)
}

func TestAdminSeesAdminSection(t *testing.T) {
	f := newFixture(t)
	rr := f.get(t, "/dashboard/users", "ADMIN")

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "paralegal@firm.test")
	assert.Contains(t, rr.Body.String(), `href="/dashboard/analytics"`)
}

func TestUserRequestingAdminSectionGetsEmptyContent(t *testing.T) {
	f := newFixture(t)
	rr := f.get(t, "/dashboard/users", "USER")

	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, `data-outcome="empty"`)
	assert.NotContains(t, body, "paralegal@firm.test")
	assert.NotContains(t, body, dashboard.AccessDeniedNotice)
}

func TestUnknownSectionIsEmpty(t *testing.T) {
	f := newFixture(t)
	rr := f.get(t, "/dashboard/billing", "SUPER_ADMIN")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `data-outcome="empty"`)
	assert.Equal(t, []string{"billing:empty"}, f.recorder.decisions)
}

func TestSegmentDenialRendersNotice(t *testing.T) {
	f := newFixture(t)
	rr := f.get(t, "/dashboard/super-admin/overview", "ADMIN")

	require.Equal(t, http.StatusForbidden, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, "You don&#39;t have permission to access this section")
	assert.NotContains(t, body, "Open quotes")
}

func TestSegmentOnlyPathDefaultsToOverview(t *testing.T) {
	f := newFixture(t)

	rr := f.get(t, "/dashboard/admin", "SUPER_ADMIN")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Open quotes")
	assert.Contains(t, rr.Body.String(), `href="/dashboard/admin/users"`)

	rr = f.get(t, "/dashboard/admin", "USER")
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestSuperAdminSectionInSegment(t *testing.T) {
	f := newFixture(t)
	rr := f.get(t, "/dashboard/super-admin/system", "SUPER_ADMIN")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Version 3.2.1")
}

func TestKnownSectionWithoutPanelIsBlank(t *testing.T) {
	f := newFixture(t)
	rr := f.get(t, "/dashboard/quotes", "USER")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `data-outcome="render"`)
	assert.NotContains(t, rr.Body.String(), `class="panel `)
}

func TestPanelFailureRendersInlineError(t *testing.T) {
	f := newFixture(t, &panels.Analytics{Service: failingAnalytics{}})
	rr := f.get(t, "/dashboard/analytics", "ADMIN")

	assert.Equal(t, http.StatusBadGateway, rr.Code)
	assert.Contains(t, rr.Body.String(), "This section could not be loaded")
	assert.NotContains(t, rr.Body.String(), "admin api down")
}

func TestNavigateRedirectsToCanonicalPath(t *testing.T) {
	f := newFixture(t)

	rr, _ := f.do(t, postForm("/dashboard", url.Values{"section": {"Users"}, "segment": {"admin"}}), "USER")
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/dashboard/admin/users", rr.Header().Get("Location"))

	rr, _ = f.do(t, postForm("/dashboard", url.Values{"section": {"quotes"}}), "USER")
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/dashboard/quotes", rr.Header().Get("Location"))
}

func TestNavigateRejectsUnknownSection(t *testing.T) {
	f := newFixture(t)
	rr, _ := f.do(t, postForm("/dashboard", url.Values{"section": {"billing"}}), "USER")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestSettingsPageShowsForm(t *testing.T) {
	f := newFixture(t)
	rr := f.get(t, "/dashboard/settings", "USER")
	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, `action="/dashboard/settings"`)
	assert.Contains(t, body, `name="csrf_token"`)
	assert.Contains(t, body, `<option value="EUR" selected>`)
}

func TestSaveSettingsStoresPreferences(t *testing.T) {
	f := newFixture(t)
	rr, sess := f.do(t, postForm("/dashboard/settings", url.Values{"currency": {"usd"}, "locale": {"de"}}), "USER")

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/dashboard/settings", rr.Header().Get("Location"))
	assert.Equal(t, "USD", sess.Get(shared.SessionKeyCurrency))
	assert.Equal(t, "de", sess.Get(shared.SessionKeyLocale))
}

func TestSaveSettingsValidates(t *testing.T) {
	f := newFixture(t)
	rr, sess := f.do(t, postForm("/dashboard/settings", url.Values{"currency": {"BTC"}, "locale": {"de"}}), "USER")

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), `data-field="Currency"`)
	assert.Empty(t, sess.Get(shared.SessionKeyCurrency))
}

func TestNavigationJSON(t *testing.T) {
	f := newFixture(t)
	rr := f.get(t, "/api/dashboard/navigation", "ADMIN")
	require.Equal(t, http.StatusOK, rr.Code)

	var body navigationResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, dashboard.RoleAdmin, body.Role)
	assert.Equal(t, dashboard.SegmentAdmin, body.Segment)
	require.Len(t, body.Items, 5)
	assert.Equal(t, "/dashboard/admin/users", body.Items[2].Href)
}

func TestRouteJSON(t *testing.T) {
	f := newFixture(t)

	rr := f.get(t, "/api/dashboard/route?section=system&segment=super-admin", "ADMIN")
	require.Equal(t, http.StatusOK, rr.Code)
	var body routeResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "denied", body.Outcome)
	assert.Equal(t, dashboard.AccessDeniedNotice, body.Notice)

	rr = f.get(t, "/api/dashboard/route?section=users", "USER")
	require.Equal(t, http.StatusOK, rr.Code)
	var empty routeResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &empty))
	assert.Equal(t, "empty", empty.Outcome)
	assert.Empty(t, empty.Notice)
	assert.NotContains(t, rr.Body.String(), "notice")
}

func TestAPIRequiresSession(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, http.StatusUnauthorized, f.get(t, "/api/dashboard/navigation", "").Code)
	assert.Equal(t, http.StatusUnauthorized, f.get(t, "/api/dashboard/route", "").Code)
}

func TestUnknownSegmentKeepsSidebarOnBasePaths(t *testing.T) {
	f := newFixture(t)
	rr := f.get(t, "/dashboard/quotes/users", "SUPER_ADMIN")

	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, "paralegal@firm.test")
	assert.Contains(t, body, `href="/dashboard/overview"`)
	assert.NotContains(t, body, `href="/dashboard/quotes/overview"`)
}
