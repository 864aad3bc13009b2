package dashboard

import "strings"

// SectionID identifies a dashboard content panel.
type SectionID string

const (
	SectionOverview   SectionID = "overview"
	SectionQuotes     SectionID = "quotes"
	SectionUsers      SectionID = "users"
	SectionAnalytics  SectionID = "analytics"
	SectionSystem     SectionID = "system"
	SectionSecurity   SectionID = "security"
	SectionMonitoring SectionID = "monitoring"
	SectionSettings   SectionID = "settings"
)

// DefaultSection is shown when the URL names no section.
const DefaultSection = SectionOverview

// sectionSpec describes the static properties of a section.
type sectionSpec struct {
	label    string
	icon     string
	required Role // empty means any authenticated role
}

var sections = map[SectionID]sectionSpec{
	SectionOverview:   {label: "Overview", icon: "layout-dashboard"},
	SectionQuotes:     {label: "Quotes", icon: "file-text"},
	SectionUsers:      {label: "Users", icon: "users", required: RoleAdmin},
	SectionAnalytics:  {label: "Analytics", icon: "bar-chart-3", required: RoleAdmin},
	SectionSystem:     {label: "System", icon: "server", required: RoleSuperAdmin},
	SectionSecurity:   {label: "Security", icon: "shield", required: RoleSuperAdmin},
	SectionMonitoring: {label: "Monitoring", icon: "activity", required: RoleSuperAdmin},
	SectionSettings:   {label: "Settings", icon: "settings"},
}

// ParseSection maps a raw path component to a SectionID. An empty value
// yields DefaultSection; unknown values are returned as-is and fail Known.
func ParseSection(raw string) SectionID {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return DefaultSection
	}
	return SectionID(raw)
}

// Known reports whether the section exists in the fixed table.
func (s SectionID) Known() bool {
	_, ok := sections[s]
	return ok
}

// RequiredRole returns the minimum role for the section and whether one is set.
func (s SectionID) RequiredRole() (Role, bool) {
	spec, ok := sections[s]
	if !ok || spec.required == "" {
		return "", false
	}
	return spec.required, true
}

// Label returns the human readable sidebar label.
func (s SectionID) Label() string {
	if spec, ok := sections[s]; ok {
		return spec.label
	}
	return string(s)
}

func (s SectionID) String() string {
	return string(s)
}

// CanView is the access decision for a role and section. Unknown sections
// are never viewable.
func CanView(role Role, section SectionID) bool {
	spec, ok := sections[section]
	if !ok {
		return false
	}
	if spec.required == "" {
		return true
	}
	return role.Satisfies(spec.required)
}
