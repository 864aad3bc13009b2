package dashboard

// NavigationItem is a single sidebar entry.
type NavigationItem struct {
	ID           SectionID `json:"id"`
	Label        string    `json:"label"`
	Icon         string    `json:"icon"`
	RequiredRole Role      `json:"required_role,omitempty"`
	Href         string    `json:"href"`
}

var (
	baseItems       = []SectionID{SectionOverview, SectionQuotes, SectionSettings}
	adminItems      = []SectionID{SectionUsers, SectionAnalytics}
	superAdminItems = []SectionID{SectionSystem, SectionSecurity, SectionMonitoring}
)

// Navigation returns the ordered sidebar for role. Admin and super-admin
// entries are inserted before the trailing settings entry.
func Navigation(role Role) []NavigationItem {
	role = ParseRole(string(role))

	ids := make([]SectionID, 0, len(baseItems)+len(adminItems)+len(superAdminItems))
	ids = append(ids, baseItems[:len(baseItems)-1]...)
	if role.Satisfies(RoleAdmin) {
		ids = append(ids, adminItems...)
	}
	if role.Satisfies(RoleSuperAdmin) {
		ids = append(ids, superAdminItems...)
	}
	ids = append(ids, baseItems[len(baseItems)-1])

	items := make([]NavigationItem, 0, len(ids))
	for _, id := range ids {
		items = append(items, newNavigationItem(id, ""))
	}
	return items
}

// NavigationForSegment is Navigation with hrefs under a role segment.
func NavigationForSegment(role Role, segment RoleSegment) []NavigationItem {
	items := Navigation(role)
	for i := range items {
		items[i].Href = SectionPath(segment, items[i].ID)
	}
	return items
}

func newNavigationItem(id SectionID, segment RoleSegment) NavigationItem {
	spec := sections[id]
	return NavigationItem{
		ID:           id,
		Label:        spec.label,
		Icon:         spec.icon,
		RequiredRole: spec.required,
		Href:         SectionPath(segment, id),
	}
}
