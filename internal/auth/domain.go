package auth

import (
	"time"

	"github.com/lexquote/lexquote/internal/dashboard"
)

// User represents an account allowed to sign in to the dashboard. Role
// holds the raw users.role value; DashboardRole normalises it.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	Role         string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// DashboardRole maps the stored role onto the dashboard tiers. Unknown
// values fall back to USER.
func (u *User) DashboardRole() dashboard.Role {
	if u == nil {
		return dashboard.RoleUser
	}
	return dashboard.ParseRole(u.Role)
}
