package users

import "strings"

// Role is a user's role within its tenant.
type Role string

const (
	RoleOwner   Role = "OWNER"   // Created with the tenant at signup
	RoleAdmin   Role = "ADMIN"   // Manages users and settings
	RoleMember  Role = "MEMBER"  // Regular user
	RoleBilling Role = "BILLING" // Invoices and payments only
)

var roles = []Role{RoleOwner, RoleAdmin, RoleMember, RoleBilling}

func (r Role) Valid() bool {
	for _, role := range roles {
		if r == role {
			return true
		}
	}
	return false
}

// ParseRole accepts any casing of a known role.
func ParseRole(s string) (Role, bool) {
	role := Role(strings.ToUpper(strings.TrimSpace(s)))
	return role, role.Valid()
}
