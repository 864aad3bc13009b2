package quotes

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"

	"github.com/lexquote/lexquote/internal/adminapi"
	"github.com/lexquote/lexquote/internal/dashboard"
	"github.com/lexquote/lexquote/internal/platform/httpx"
	"github.com/lexquote/lexquote/internal/shared"
	"github.com/lexquote/lexquote/internal/view"
	"github.com/lexquote/lexquote/report"
)

// QuoteSource loads a single quote.
type QuoteSource interface {
	GetQuote(ctx context.Context, caller adminapi.Caller, id string) (adminapi.Quote, error)
}

// PDFRenderer converts HTML into PDF bytes.
type PDFRenderer interface {
	RenderHTML(ctx context.Context, html string, opts report.PageOptions) ([]byte, error)
}

// HandlerConfig collects the handler dependencies.
type HandlerConfig struct {
	Logger    *slog.Logger
	Quotes    QuoteSource
	Templates *view.Engine
	PDF       PDFRenderer
	Money     MoneyDisplay
	Brand     string
	// RateLimit is the number of downloads allowed per user per minute.
	RateLimit int
}

// Handler serves quote PDF downloads.
type Handler struct {
	logger    *slog.Logger
	quotes    QuoteSource
	templates *view.Engine
	pdf       PDFRenderer
	money     MoneyDisplay
	brand     string
	limit     int
}

// NewHandler constructs the quote download handler.
func NewHandler(cfg HandlerConfig) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	limit := cfg.RateLimit
	if limit <= 0 {
		limit = 10
	}
	return &Handler{
		logger:    logger,
		quotes:    cfg.Quotes,
		templates: cfg.Templates,
		pdf:       cfg.PDF,
		money:     cfg.Money,
		brand:     cfg.Brand,
		limit:     limit,
	}
}

// MountRoutes registers quote routes. Mount under /quotes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.With(httprate.Limit(h.limit, time.Minute, httprate.WithKeyFuncs(keyByUser))).Get("/{id}/pdf", h.downloadPDF)
}

func keyByUser(r *http.Request) (string, error) {
	if sess := shared.SessionFromContext(r.Context()); sess.Authenticated() {
		return "user:" + sess.User(), nil
	}
	return httprate.KeyByIP(r)
}

func (h *Handler) downloadPDF(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	if !sess.Authenticated() {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	role := dashboard.ParseRole(sess.Role())
	if !dashboard.CanView(role, dashboard.SectionQuotes) || !dashboard.CapabilitiesFor(role).Has(shared.PermQuotesExport) {
		httpx.RespondError(w, httpx.ErrForbidden)
		return
	}

	id := chi.URLParam(r, "id")
	logger := h.logger.With(slog.String("quote_id", id), slog.String("user_id", sess.User()))
	quote, err := h.quotes.GetQuote(r.Context(), adminapi.Caller{UserID: sess.User(), Role: role.String()}, id)
	if err != nil {
		switch {
		case errors.Is(err, adminapi.ErrNotFound):
			httpx.RespondError(w, httpx.ErrNotFound)
		case errors.Is(err, adminapi.ErrUnauthorized):
			httpx.RespondError(w, httpx.ErrForbidden)
		default:
			logger.Warn("load quote", slog.Any("error", err))
			httpx.RespondError(w, httpx.ErrUpstream)
		}
		return
	}

	locale := sess.Get(shared.SessionKeyLocale)
	doc := BuildDocument(r.Context(), quote, h.money, h.brand, sess.Get(shared.SessionKeyCurrency), locale)
	html, err := h.templates.Document("pdf/quote.html", doc)
	if err != nil {
		logger.Error("render quote html", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	pdf, err := h.pdf.RenderHTML(r.Context(), html, report.A4)
	if err != nil {
		logger.Warn("render quote pdf", slog.Any("error", err))
		httpx.RespondError(w, httpx.ErrUpstream)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+Filename(quote)+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(pdf)))
	w.Header().Set("Cache-Control", "private, no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}
