package dashboard

import (
	"context"
	"errors"
	"fmt"
)

// ErrDuplicatePanel is returned when two panels claim the same section.
var ErrDuplicatePanel = errors.New("dashboard: duplicate panel")

// ErrUnknownSection is returned when a panel is registered for a section
// outside the fixed table.
var ErrUnknownSection = errors.New("dashboard: unknown section")

// Viewer is the read-only context handed to panels. Capabilities are opaque
// to the navigation model and router.
type Viewer struct {
	UserID       string
	Role         Role
	Capabilities Capabilities
	Currency     string
	Locale       string
}

// Content is what a panel hands back to the layout.
type Content struct {
	Template string
	Data     any
}

// Empty reports whether the content area should stay blank.
func (c Content) Empty() bool {
	return c.Template == ""
}

// Panel renders one dashboard section.
type Panel interface {
	Section() SectionID
	Load(ctx context.Context, viewer Viewer) (Content, error)
}

type noContentPanel struct{}

func (noContentPanel) Section() SectionID { return "" }

func (noContentPanel) Load(context.Context, Viewer) (Content, error) {
	return Content{}, nil
}

// NoContent is the panel resolved when nothing may be shown.
var NoContent Panel = noContentPanel{}

// IsNoContent reports whether p is the NoContent panel.
func IsNoContent(p Panel) bool {
	_, ok := p.(noContentPanel)
	return ok
}

// Registry is the fixed section to panel table.
type Registry struct {
	panels map[SectionID]Panel
}

// NewRegistry builds a Registry. Every panel must name a known section and
// no section may be registered twice.
func NewRegistry(panels ...Panel) (*Registry, error) {
	reg := &Registry{panels: make(map[SectionID]Panel, len(panels))}
	for _, p := range panels {
		if p == nil {
			continue
		}
		id := p.Section()
		if !id.Known() {
			return nil, fmt.Errorf("%w: %q", ErrUnknownSection, id)
		}
		if _, exists := reg.panels[id]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicatePanel, id)
		}
		reg.panels[id] = p
	}
	return reg, nil
}

// Resolve returns the panel for a section, or NoContent when none is
// registered or the role cannot view it.
func (r *Registry) Resolve(role Role, section SectionID) Panel {
	if r == nil || !CanView(ParseRole(string(role)), section) {
		return NoContent
	}
	p, ok := r.panels[section]
	if !ok {
		return NoContent
	}
	return p
}

// Sections lists the registered sections in sidebar order for a SUPER_ADMIN.
func (r *Registry) Sections() []SectionID {
	if r == nil {
		return nil
	}
	out := make([]SectionID, 0, len(r.panels))
	for _, item := range Navigation(RoleSuperAdmin) {
		if _, ok := r.panels[item.ID]; ok {
			out = append(out, item.ID)
		}
	}
	return out
}
