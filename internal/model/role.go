package model

import "fmt"

// Role is a user's position in the platform hierarchy. The numeric order
// is the authority order: a higher value grants everything a lower value
// does. Comparisons go through MeetsOrExceeds, never through string
// positions.
type Role int

const (
	RoleModuleUser Role = iota
	RoleModuleManager
	RoleTenantAdmin
	RoleSuperAdmin
)

var roleNames = map[Role]string{
	RoleModuleUser:    "MODULE_USER",
	RoleModuleManager: "MODULE_MANAGER",
	RoleTenantAdmin:   "TENANT_ADMIN",
	RoleSuperAdmin:    "SUPER_ADMIN",
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return fmt.Sprintf("Role(%d)", int(r))
}

// ParseRole maps a stored role name back to its Role value.
func ParseRole(s string) (Role, error) {
	for r, name := range roleNames {
		if name == s {
			return r, nil
		}
	}
	return 0, fmt.Errorf("unknown role %q", s)
}

// MeetsOrExceeds reports whether r carries at least the authority of
// required.
func (r Role) MeetsOrExceeds(required Role) bool {
	return r >= required
}

// IsModuleScoped reports whether the role's access is bounded by explicit
// module assignments rather than tenant-wide grants.
func (r Role) IsModuleScoped() bool {
	return r == RoleModuleUser || r == RoleModuleManager
}
