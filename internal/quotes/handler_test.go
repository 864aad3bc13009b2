package quotes

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexquote/lexquote/internal/adminapi"
	"github.com/lexquote/lexquote/internal/shared"
	"github.com/lexquote/lexquote/internal/view"
	"github.com/lexquote/lexquote/report"
	_ "github.com/lexquote/lexquote/testing"
)

type stubQuotes struct {
	quote  adminapi.Quote
	err    error
	caller adminapi.Caller
}

func (s *stubQuotes) GetQuote(ctx context.Context, caller adminapi.Caller, id string) (adminapi.Quote, error) {
	s.caller = caller
	if s.err != nil {
		return adminapi.Quote{}, s.err
	}
	q := s.quote
	q.ID = id
	return q, nil
}

type stubPDF struct {
	html string
	err  error
}

func (s *stubPDF) RenderHTML(ctx context.Context, html string, opts report.PageOptions) ([]byte, error) {
	s.html = html
	if s.err != nil {
		return nil, s.err
	}
	return []byte("%PDF-1.7"), nil
}

type fixture struct {
	router   http.Handler
	sessions *shared.SessionManager
	quotes   *stubQuotes
	pdf      *stubPDF
}

func newFixture(t *testing.T, limit int) *fixture {
	t.Helper()
	mr := miniredis.RunT(t)
	sessions := shared.NewSessionManager(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "test_session", time.Hour, false)
	templates, err := view.NewEngine()
	require.NoError(t, err)

	f := &fixture{
		sessions: sessions,
		quotes: &stubQuotes{quote: adminapi.Quote{
			Reference:     "LQ-2026/7",
			ClientName:    "Acme GmbH",
			Mark:          "ACME",
			Classes:       []int{9, 42},
			Jurisdictions: []string{"EU"},
			Lines:         []adminapi.Line{{Description: "Filing fee", Jurisdiction: "EU", AmountMinor: 85000}},
			AmountMinor:   85000,
			Currency:      "EUR",
		}},
		pdf: &stubPDF{},
	}
	handler := NewHandler(HandlerConfig{
		Quotes:    f.quotes,
		Templates: templates,
		PDF:       f.pdf,
		Brand:     "Northmark IP",
		RateLimit: limit,
	})
	r := chi.NewRouter()
	r.Route("/quotes", handler.MountRoutes)
	f.router = r
	return f
}

func (f *fixture) get(t *testing.T, path, userID, role string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	sess, err := f.sessions.Load(context.Background(), req)
	require.NoError(t, err)
	if userID != "" {
		sess.SetPrincipal(userID, role)
	}
	req = shared.WithSession(req, sess)
	rr := httptest.NewRecorder()
	f.router.ServeHTTP(rr, req)
	return rr
}

func TestDownloadPDF(t *testing.T) {
	f := newFixture(t, 10)

	rr := f.get(t, "/quotes/q-1/pdf", "7", "USER")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/pdf", rr.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="quote-LQ-2026_7.pdf"`, rr.Header().Get("Content-Disposition"))
	assert.Equal(t, "%PDF-1.7", rr.Body.String())

	assert.Equal(t, adminapi.Caller{UserID: "7", Role: "USER"}, f.quotes.caller)
	assert.Contains(t, f.pdf.html, "Northmark IP quotation LQ-2026/7")
	assert.Contains(t, f.pdf.html, "Acme GmbH")
	assert.Contains(t, f.pdf.html, "9, 42")
	assert.Contains(t, f.pdf.html, "850.00")
}

func TestDownloadRequiresSession(t *testing.T) {
	f := newFixture(t, 10)
	rr := f.get(t, "/quotes/q-1/pdf", "", "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestDownloadMapsBackendErrors(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{adminapi.ErrNotFound, http.StatusNotFound},
		{adminapi.ErrUnauthorized, http.StatusForbidden},
		{&adminapi.StatusError{Path: "/quotes/q-1", Status: 500}, http.StatusBadGateway},
	}
	for _, tc := range cases {
		f := newFixture(t, 10)
		f.quotes.err = tc.err
		rr := f.get(t, "/quotes/q-1/pdf", "7", "ADMIN")
		assert.Equal(t, tc.status, rr.Code, tc.err.Error())
	}
}

func TestDownloadRendererFailure(t *testing.T) {
	f := newFixture(t, 10)
	f.pdf.err = errors.New("gotenberg down")
	rr := f.get(t, "/quotes/q-1/pdf", "7", "USER")
	assert.Equal(t, http.StatusBadGateway, rr.Code)
}

func TestDownloadRateLimitedPerUser(t *testing.T) {
	f := newFixture(t, 2)
	for i := 0; i < 2; i++ {
		require.Equal(t, http.StatusOK, f.get(t, "/quotes/q-1/pdf", "7", "USER").Code)
	}
	assert.Equal(t, http.StatusTooManyRequests, f.get(t, "/quotes/q-1/pdf", "7", "USER").Code)
	assert.Equal(t, http.StatusOK, f.get(t, "/quotes/q-1/pdf", "8", "USER").Code)
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "quote-LQ_1.pdf", Filename(adminapi.Quote{Reference: "LQ 1"}))
	assert.Equal(t, "quote-abc.pdf", Filename(adminapi.Quote{ID: "abc"}))
	assert.Equal(t, "quote.pdf", Filename(adminapi.Quote{}))
	assert.True(t, strings.HasPrefix(Filename(adminapi.Quote{Reference: `a"b`}), "quote-a_b"))
}
