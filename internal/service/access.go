package service

import (
	"context"

	"github.com/fieldline/platform/internal/model"
)

// Post-login redirect targets.
const (
	AdminDashboardPath  = "/admin/dashboard"
	TenantDashboardPath = "/dashboard"
	NoAccessPath        = "/no-access"
)

// Access computes which modules a user may reach. Resolution is a pure
// read of stored state; the result feeds both the JWT module claim and
// the post-login redirect decision.
type Access struct {
	modules ModuleStore
}

func NewAccess(modules ModuleStore) *Access {
	return &Access{modules: modules}
}

// Resolve returns the user's accessible modules.
//
// SUPER_ADMIN manages the platform, not modules, and resolves to the empty
// set. TENANT_ADMIN access is implicit over every module enabled for the
// tenant. MODULE_MANAGER and MODULE_USER only reach modules with an
// active, non-expired assignment row.
func (a *Access) Resolve(ctx context.Context, u model.User) ([]model.Module, error) {
	switch {
	case u.Role == model.RoleSuperAdmin:
		return nil, nil
	case u.Role == model.RoleTenantAdmin:
		if u.TenantID == nil {
			return nil, nil
		}
		return a.modules.EnabledForTenant(ctx, *u.TenantID)
	default:
		return a.modules.AssignedToUser(ctx, u.ID)
	}
}

// ModuleCodes projects resolved modules onto their codes, for the JWT
// claim.
func ModuleCodes(modules []model.Module) []string {
	if len(modules) == 0 {
		return nil
	}
	codes := make([]string, len(modules))
	for i, m := range modules {
		codes[i] = m.Code
	}
	return codes
}

// RedirectPath decides where a freshly authenticated user lands: super
// admins on the platform dashboard, tenant admins on the tenant dashboard,
// module-scoped users on their first module's default route, and users
// with no module access on the no-access page.
func RedirectPath(u model.User, modules []model.Module) string {
	switch u.Role {
	case model.RoleSuperAdmin:
		return AdminDashboardPath
	case model.RoleTenantAdmin:
		return TenantDashboardPath
	default:
		if len(modules) == 0 {
			return NoAccessPath
		}
		return modules[0].DefaultRoute
	}
}
