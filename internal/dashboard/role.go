package dashboard

import "strings"

// Role is the authenticated user's privilege tier.
type Role string

const (
	RoleUser       Role = "USER"
	RoleAdmin      Role = "ADMIN"
	RoleSuperAdmin Role = "SUPER_ADMIN"
)

var roleRank = map[Role]int{
	RoleUser:       0,
	RoleAdmin:      1,
	RoleSuperAdmin: 2,
}

// ParseRole normalises a raw role value. Anything unrecognised is USER.
func ParseRole(raw string) Role {
	r := Role(strings.ToUpper(strings.TrimSpace(raw)))
	if _, ok := roleRank[r]; ok {
		return r
	}
	return RoleUser
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	_, ok := roleRank[r]
	return ok
}

// Satisfies reports whether r carries at least the privileges of required.
func (r Role) Satisfies(required Role) bool {
	have, ok := roleRank[r]
	if !ok {
		have = roleRank[RoleUser]
	}
	need, ok := roleRank[required]
	if !ok {
		return false
	}
	return have >= need
}

func (r Role) String() string {
	return string(r)
}
