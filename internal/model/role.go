package model

import "strings"

// Role is totally ordered: GUEST < MEMBER < ADMIN.
type Role int

const (
	RoleGuest Role = iota
	RoleMember
	RoleAdmin
)

func (r Role) String() string {
	switch r {
	case RoleMember:
		return "MEMBER"
	case RoleAdmin:
		return "ADMIN"
	default:
		return "GUEST"
	}
}

// ParseRole maps unknown names to RoleGuest.
func ParseRole(s string) Role {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ADMIN":
		return RoleAdmin
	case "MEMBER":
		return RoleMember
	default:
		return RoleGuest
	}
}

// AtLeast reports whether role grants everything required grants.
func AtLeast(role, required Role) bool {
	return role >= required
}
