package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoleOrdering(t *testing.T) {
	assert.True(t, RoleSuperAdmin.MeetsOrExceeds(RoleTenantAdmin))
	assert.True(t, RoleTenantAdmin.MeetsOrExceeds(RoleTenantAdmin))
	assert.True(t, RoleModuleManager.MeetsOrExceeds(RoleModuleUser))
	assert.False(t, RoleModuleUser.MeetsOrExceeds(RoleModuleManager))
	assert.False(t, RoleTenantAdmin.MeetsOrExceeds(RoleSuperAdmin))
}

func TestParseRole(t *testing.T) {
	for _, name := range []string{"MODULE_USER", "MODULE_MANAGER", "TENANT_ADMIN", "SUPER_ADMIN"} {
		r, err := ParseRole(name)
		require.NoError(t, err, name)
		assert.Equal(t, name, r.String())
	}

	_, err := ParseRole("ADMIN")
	assert.Error(t, err)
	_, err = ParseRole("")
	assert.Error(t, err)
}

func TestIsModuleScoped(t *testing.T) {
	assert.True(t, RoleModuleUser.IsModuleScoped())
	assert.True(t, RoleModuleManager.IsModuleScoped())
	assert.False(t, RoleTenantAdmin.IsModuleScoped())
	assert.False(t, RoleSuperAdmin.IsModuleScoped())
}
