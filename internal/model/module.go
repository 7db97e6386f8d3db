package model

import "time"

// Module is a row in the platform's capability catalog (`modules` table).
// Codes are fixed short identifiers such as "farm", "hr" or "sensor" and
// double as the module's schema name inside a tenant database.
type Module struct {
	Code         string // modules.code (primary key)
	Name         string // modules.name (display name)
	DefaultRoute string // modules.default_route (landing path inside the module)
	IsActive     bool   // modules.is_active (catalog-level kill switch)
}

// TenantModule is a row in `tenant_modules`, the tenant's subscribed
// subset of the catalog. TENANT_ADMIN access is implicit over every
// enabled row; MODULE_MANAGER/MODULE_USER access additionally requires a
// UserModuleAssignment.
type TenantModule struct {
	TenantID   string     // tenant_modules.tenant_id
	ModuleCode string     // tenant_modules.module_code
	Enabled    bool       // tenant_modules.enabled
	ManagerID  *string    // tenant_modules.manager_id (optional module manager)
	ExpiresAt  *time.Time // tenant_modules.expires_at (optional subscription end)
	CreatedAt  time.Time  // tenant_modules.created_at
}

// UserModuleAssignment grants one MODULE_MANAGER or MODULE_USER access to
// one module within their tenant, optionally time-limited.
type UserModuleAssignment struct {
	ID         string     // user_module_assignments.id (uuid)
	UserID     string     // user_module_assignments.user_id
	TenantID   string     // user_module_assignments.tenant_id
	ModuleCode string     // user_module_assignments.module_code
	Active     bool       // user_module_assignments.active
	ExpiresAt  *time.Time // user_module_assignments.expires_at (null = no limit)
	CreatedAt  time.Time  // user_module_assignments.created_at
}

// IsCurrent reports whether the assignment grants access at the given
// instant.
func (a *UserModuleAssignment) IsCurrent(now time.Time) bool {
	if !a.Active {
		return false
	}
	return a.ExpiresAt == nil || now.Before(*a.ExpiresAt)
}
