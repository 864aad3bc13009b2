package dashboard

import (
	"path"
	"strings"
)

// RoleSegment is the dashboard area named in the URL. It is distinct from
// the authenticated Role but checked against it.
type RoleSegment string

const (
	SegmentNone       RoleSegment = ""
	SegmentUser       RoleSegment = "user"
	SegmentAdmin      RoleSegment = "admin"
	SegmentSuperAdmin RoleSegment = "super-admin"
)

// BasePath is the mount point of the dashboard.
const BasePath = "/dashboard"

// ParseSegment normalises a raw path component.
func ParseSegment(raw string) RoleSegment {
	return RoleSegment(strings.ToLower(strings.TrimSpace(raw)))
}

// Known reports whether s is one of the defined segments.
func (s RoleSegment) Known() bool {
	switch s {
	case SegmentUser, SegmentAdmin, SegmentSuperAdmin:
		return true
	}
	return false
}

// IsSegment reports whether a raw path component names a role segment
// rather than a section.
func IsSegment(raw string) bool {
	return ParseSegment(raw).Known()
}

// minimumRole returns the role needed to enter the segment. Unknown
// segments require the highest tier.
func (s RoleSegment) minimumRole() Role {
	switch s {
	case SegmentUser:
		return RoleUser
	case SegmentAdmin:
		return RoleAdmin
	default:
		return RoleSuperAdmin
	}
}

// PermitsRole reports whether role may enter the segment.
func (s RoleSegment) PermitsRole(role Role) bool {
	return role.Satisfies(s.minimumRole())
}

// SegmentForRole returns the home segment of a role.
func SegmentForRole(role Role) RoleSegment {
	switch ParseRole(string(role)) {
	case RoleSuperAdmin:
		return SegmentSuperAdmin
	case RoleAdmin:
		return SegmentAdmin
	default:
		return SegmentUser
	}
}

// SectionPath builds /dashboard/<section> or /dashboard/<segment>/<section>.
func SectionPath(segment RoleSegment, section SectionID) string {
	if section == "" {
		section = DefaultSection
	}
	if segment == SegmentNone {
		return path.Join(BasePath, string(section))
	}
	return path.Join(BasePath, string(segment), string(section))
}
