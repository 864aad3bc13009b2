package dashboardhttp

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/lexquote/lexquote/internal/dashboard"
	"github.com/lexquote/lexquote/internal/shared"
)

type navigateForm struct {
	Section string `validate:"required,oneof=overview quotes users analytics system security monitoring settings"`
	Segment string `validate:"omitempty,oneof=user admin super-admin"`
}

type settingsForm struct {
	Currency string `validate:"required,oneof=EUR USD GBP CHF"`
	Locale   string `validate:"required,oneof=en en-GB de fr es it nl"`
}

// handleNavigate turns a sidebar selection into a redirect to the
// canonical section URL. Access is checked when that URL is served.
func (h *Handler) handleNavigate(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	if !sess.Authenticated() {
		http.Redirect(w, r, LoginPath, http.StatusSeeOther)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	form := navigateForm{
		Section: strings.ToLower(strings.TrimSpace(r.PostFormValue("section"))),
		Segment: strings.ToLower(strings.TrimSpace(r.PostFormValue("segment"))),
	}
	if errs := h.validate(form); len(errs) > 0 {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	target := dashboard.SectionPath(dashboard.RoleSegment(form.Segment), dashboard.SectionID(form.Section))
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (h *Handler) handleSaveSettings(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	if !sess.Authenticated() {
		http.Redirect(w, r, LoginPath, http.StatusSeeOther)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	form := settingsForm{
		Currency: strings.ToUpper(strings.TrimSpace(r.PostFormValue("currency"))),
		Locale:   strings.TrimSpace(r.PostFormValue("locale")),
	}
	if errs := h.validate(form); len(errs) > 0 {
		h.serve(w, r, dashboard.SegmentNone, string(dashboard.SectionSettings), errs)
		return
	}
	sess.Set(shared.SessionKeyCurrency, form.Currency)
	sess.Set(shared.SessionKeyLocale, form.Locale)
	sess.AddFlash(shared.FlashMessage{Kind: "success", Message: "Preferences saved"})
	http.Redirect(w, r, dashboard.SectionPath(dashboard.SegmentNone, dashboard.SectionSettings), http.StatusSeeOther)
}

func (h *Handler) validate(form any) map[string]string {
	err := h.validator.Struct(form)
	if err == nil {
		return nil
	}
	errs := make(map[string]string)
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		for _, fe := range fieldErrs {
			errs[fe.Field()] = fe.Error()
		}
		return errs
	}
	errs["general"] = err.Error()
	return errs
}
