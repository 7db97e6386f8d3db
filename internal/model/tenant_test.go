package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSchemaNameForTenant(t *testing.T) {
	assert.Equal(t, "t_1f2e3d4c", SchemaNameForTenant("1f2e3d4c-5b6a-7980-a1b2-c3d4e5f60718"))
	// Hyphens are stripped before the prefix is taken.
	assert.Equal(t, "t_abcd1234", SchemaNameForTenant("ab-cd-12-34-5678"))
	assert.Equal(t, "t_short", SchemaNameForTenant("short"))
}

func TestMaxUsersForPlan(t *testing.T) {
	assert.Equal(t, 5, MaxUsersForPlan("trial"))
	assert.Equal(t, 10, MaxUsersForPlan("starter"))
	assert.Equal(t, 50, MaxUsersForPlan("professional"))
	assert.Equal(t, 500, MaxUsersForPlan("enterprise"))
	// Unknown plans fall back to the trial limit.
	assert.Equal(t, 5, MaxUsersForPlan("platinum"))
}

func TestTenantIsUsable(t *testing.T) {
	tn := Tenant{Status: TenantActive}
	assert.True(t, tn.IsUsable())
	for _, st := range []TenantStatus{TenantPending, TenantSuspended, TenantCancelled} {
		tn.Status = st
		assert.False(t, tn.IsUsable(), string(st))
	}
}
