package dashboardhttp

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lexquote/lexquote/internal/dashboard"
	"github.com/lexquote/lexquote/internal/platform/httpx"
	"github.com/lexquote/lexquote/internal/shared"
)

// MountAPIRoutes registers JSON endpoints. Mount under /api/dashboard.
func (h *Handler) MountAPIRoutes(r chi.Router) {
	r.Get("/navigation", h.handleNavigationJSON)
	r.Get("/route", h.handleRouteJSON)
}

type navigationResponse struct {
	Role    dashboard.Role             `json:"role"`
	Segment dashboard.RoleSegment      `json:"segment"`
	Items   []dashboard.NavigationItem `json:"items"`
}

type routeResponse struct {
	Outcome string                `json:"outcome"`
	Section dashboard.SectionID   `json:"section"`
	Segment dashboard.RoleSegment `json:"segment,omitempty"`
	Notice  string                `json:"notice,omitempty"`
}

func (h *Handler) handleNavigationJSON(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	if !sess.Authenticated() {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	role := dashboard.ParseRole(sess.Role())
	segment := dashboard.SegmentForRole(role)
	httpx.JSON(w, http.StatusOK, navigationResponse{
		Role:    role,
		Segment: segment,
		Items:   dashboard.NavigationForSegment(role, segment),
	})
}

func (h *Handler) handleRouteJSON(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	if !sess.Authenticated() {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	q := r.URL.Query()
	decision := dashboard.Route(dashboard.Request{
		Role:    dashboard.ParseRole(sess.Role()),
		Section: dashboard.ParseSection(q.Get("section")),
		Segment: dashboard.ParseSegment(q.Get("segment")),
	})
	resp := routeResponse{
		Outcome: decision.Outcome.String(),
		Section: decision.Section,
		Segment: decision.Segment,
	}
	if decision.Outcome == dashboard.OutcomeDenied {
		resp.Notice = dashboard.AccessDeniedNotice
	}
	httpx.JSON(w, http.StatusOK, resp)
}
