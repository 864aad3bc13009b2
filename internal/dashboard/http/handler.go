package dashboardhttp

import (
	"html/template"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/lexquote/lexquote/internal/dashboard"
	"github.com/lexquote/lexquote/internal/pricing"
	"github.com/lexquote/lexquote/internal/shared"
	"github.com/lexquote/lexquote/internal/view"
)

// LoginPath is where unauthenticated visitors are sent.
const LoginPath = "/auth/login"

// DecisionRecorder counts routing outcomes.
type DecisionRecorder interface {
	ObserveDecision(section, outcome string)
}

// Handler serves the role-gated dashboard shell.
type Handler struct {
	logger    *slog.Logger
	templates *view.Engine
	registry  *dashboard.Registry
	csrf      *shared.CSRFManager
	recorder  DecisionRecorder
	validator *validator.Validate
}

// NewHandler constructs the dashboard handler.
func NewHandler(logger *slog.Logger, templates *view.Engine, registry *dashboard.Registry, csrf *shared.CSRFManager, recorder DecisionRecorder) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		logger:    logger,
		templates: templates,
		registry:  registry,
		csrf:      csrf,
		recorder:  recorder,
		validator: validator.New(),
	}
}

// MountRoutes registers the dashboard pages. Mount under dashboard.BasePath.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.handleIndex)
	r.Post("/", h.handleNavigate)
	r.Get("/settings", h.handleSettings)
	r.Post("/settings", h.handleSaveSettings)
	r.Get("/{first}", h.handleFirst)
	r.Get("/{segment}/{section}", h.handleSegmentSection)
}

// pageData feeds pages/dashboard.html.
type pageData struct {
	Role       dashboard.Role
	Segment    dashboard.RoleSegment
	Active     dashboard.SectionID
	Sidebar    []dashboard.NavigationItem
	Outcome    string
	Denied     bool
	Notice     string
	Panel      template.HTML
	PanelError string
	FormErrors map[string]string
}

// panelView is the data handed to panel templates.
type panelView struct {
	CSRFToken string
	Locale    string
	Data      any
}

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, dashboard.SegmentNone, "", nil)
}

func (h *Handler) handleSettings(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, dashboard.SegmentNone, string(dashboard.SectionSettings), nil)
}

func (h *Handler) handleFirst(w http.ResponseWriter, r *http.Request) {
	first := chi.URLParam(r, "first")
	if dashboard.IsSegment(first) {
		h.serve(w, r, dashboard.ParseSegment(first), "", nil)
		return
	}
	h.serve(w, r, dashboard.SegmentNone, first, nil)
}

func (h *Handler) handleSegmentSection(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, dashboard.ParseSegment(chi.URLParam(r, "segment")), chi.URLParam(r, "section"), nil)
}

func (h *Handler) serve(w http.ResponseWriter, r *http.Request, segment dashboard.RoleSegment, rawSection string, formErrors map[string]string) {
	sess := shared.SessionFromContext(r.Context())
	if !sess.Authenticated() {
		http.Redirect(w, r, LoginPath, http.StatusSeeOther)
		return
	}
	viewer := viewerFromSession(sess)
	csrfToken, _ := h.csrf.EnsureToken(sess)
	decision := dashboard.Route(dashboard.Request{
		Role:    viewer.Role,
		Section: dashboard.ParseSection(rawSection),
		Segment: segment,
	})
	if h.recorder != nil {
		h.recorder.ObserveDecision(string(decision.Section), decision.Outcome.String())
	}

	// Sidebar links stay under known, permitted segments only.
	sidebarSegment := segment
	if !segment.Known() || !segment.PermitsRole(viewer.Role) {
		sidebarSegment = dashboard.SegmentNone
	}
	page := pageData{
		Role:       viewer.Role,
		Segment:    segment,
		Active:     decision.Section,
		Sidebar:    dashboard.NavigationForSegment(viewer.Role, sidebarSegment),
		Outcome:    decision.Outcome.String(),
		FormErrors: formErrors,
	}

	status := http.StatusOK
	switch decision.Outcome {
	case dashboard.OutcomeDenied:
		page.Denied = true
		page.Notice = dashboard.AccessDeniedNotice
		status = http.StatusForbidden
	case dashboard.OutcomeRender:
		panel := h.registry.Resolve(viewer.Role, decision.Section)
		content, err := panel.Load(r.Context(), viewer)
		if err != nil {
			h.logger.Warn("load panel", slog.String("section", string(decision.Section)), slog.Any("error", err))
			page.PanelError = "This section could not be loaded. Please try again shortly."
			status = http.StatusBadGateway
			break
		}
		if !content.Empty() {
			fragment, err := h.templates.Fragment(content.Template, panelView{CSRFToken: csrfToken, Locale: viewer.Locale, Data: content.Data})
			if err != nil {
				h.logger.Error("render panel", slog.String("template", content.Template), slog.Any("error", err))
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}
			page.Panel = fragment
		}
	}
	if len(formErrors) > 0 && status == http.StatusOK {
		status = http.StatusBadRequest
	}
	h.render(w, r, sess, csrfToken, status, decision.Section.Label(), page)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, sess *shared.Session, csrfToken string, status int, title string, page pageData) {
	viewData := view.TemplateData{
		Title:       title,
		CSRFToken:   csrfToken,
		Flash:       sess.PopFlash(),
		CurrentPath: r.URL.Path,
		Data:        page,
	}
	if err := h.templates.RenderStatus(w, status, "pages/dashboard.html", viewData); err != nil {
		h.logger.Error("render dashboard", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func viewerFromSession(sess *shared.Session) dashboard.Viewer {
	role := dashboard.ParseRole(sess.Role())
	locale := sess.Get(shared.SessionKeyLocale)
	if locale == "" {
		locale = pricing.DefaultLocale
	}
	return dashboard.Viewer{
		UserID:       sess.User(),
		Role:         role,
		Capabilities: dashboard.CapabilitiesFor(role),
		Currency:     sess.Get(shared.SessionKeyCurrency),
		Locale:       locale,
	}
}
