package dashboard

import (
	"sort"
	"strings"

	"github.com/lexquote/lexquote/internal/shared"
)

// Capabilities is the permission set passed through to panels.
type Capabilities struct {
	set map[string]struct{}
}

// NewCapabilities builds a set from permission names.
func NewCapabilities(perms ...string) Capabilities {
	set := make(map[string]struct{}, len(perms))
	for _, p := range perms {
		p = strings.TrimSpace(strings.ToLower(p))
		if p == "" {
			continue
		}
		set[p] = struct{}{}
	}
	return Capabilities{set: set}
}

// CapabilitiesFor derives the capability set of a role.
func CapabilitiesFor(role Role) Capabilities {
	role = ParseRole(string(role))
	perms := shared.UserScopes()
	if role.Satisfies(RoleAdmin) {
		perms = append(perms, shared.AdminScopes()...)
	}
	if role.Satisfies(RoleSuperAdmin) {
		perms = append(perms, shared.SuperAdminScopes()...)
	}
	return NewCapabilities(perms...)
}

// Has reports whether the permission is granted.
func (c Capabilities) Has(perm string) bool {
	_, ok := c.set[strings.ToLower(perm)]
	return ok
}

// List returns the granted permissions sorted by name.
func (c Capabilities) List() []string {
	out := make([]string, 0, len(c.set))
	for p := range c.set {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}
