package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldline/platform/internal/model"
)

func TestResolveByRole(t *testing.T) {
	modules := newFakeModules()
	access := NewAccess(modules)
	tid := "tenant-1"

	enabled := []model.Module{
		{Code: "farm", Name: "Farm", DefaultRoute: "/farm"},
		{Code: "hr", Name: "HR", DefaultRoute: "/hr"},
	}
	modules.enabledByTenant[tid] = enabled
	modules.assignedByUser["u-worker"] = enabled[:1]

	tests := []struct {
		name string
		user model.User
		want []model.Module
	}{
		{
			name: "super admin resolves to the empty set",
			user: model.User{ID: "u-root", Role: model.RoleSuperAdmin},
			want: nil,
		},
		{
			name: "tenant admin sees every enabled module",
			user: model.User{ID: "u-admin", Role: model.RoleTenantAdmin, TenantID: &tid},
			want: enabled,
		},
		{
			name: "module user sees only assigned modules",
			user: model.User{ID: "u-worker", Role: model.RoleModuleUser, TenantID: &tid},
			want: enabled[:1],
		},
		{
			name: "module manager with no assignments sees nothing",
			user: model.User{ID: "u-idle", Role: model.RoleModuleManager, TenantID: &tid},
			want: nil,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := access.Resolve(context.Background(), tc.user)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestRedirectPath(t *testing.T) {
	tid := "tenant-1"
	farm := model.Module{Code: "farm", DefaultRoute: "/farm"}

	assert.Equal(t, AdminDashboardPath,
		RedirectPath(model.User{Role: model.RoleSuperAdmin}, nil))
	assert.Equal(t, TenantDashboardPath,
		RedirectPath(model.User{Role: model.RoleTenantAdmin, TenantID: &tid}, nil))
	assert.Equal(t, "/farm",
		RedirectPath(model.User{Role: model.RoleModuleUser}, []model.Module{farm}))
	assert.Equal(t, NoAccessPath,
		RedirectPath(model.User{Role: model.RoleModuleUser}, nil))
}

func TestModuleCodes(t *testing.T) {
	assert.Nil(t, ModuleCodes(nil))
	assert.Equal(t, []string{"farm", "hr"}, ModuleCodes([]model.Module{
		{Code: "farm"}, {Code: "hr"},
	}))
}
