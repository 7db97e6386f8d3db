package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldline/platform/internal/apperr"
	"github.com/fieldline/platform/internal/model"
	"github.com/fieldline/platform/internal/provision"
)

type tenantFixture struct {
	svc         *Tenants
	tenants     *fakeTenants
	users       *fakeUsers
	modules     *fakeModules
	provisioner *fakeProvisioner
	events      *fakeEvents
	now         time.Time
}

func newTenantFixture(t *testing.T) *tenantFixture {
	t.Helper()
	f := &tenantFixture{
		tenants:     newFakeTenants(),
		users:       newFakeUsers(),
		modules:     newFakeModules(),
		provisioner: &fakeProvisioner{result: provision.Result{Success: true}},
		events:      &fakeEvents{},
		now:         time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	f.svc = NewTenants(testConfig(), f.tenants, f.users, f.modules, f.provisioner, f.events)
	f.svc.now = func() time.Time { return f.now }
	return f
}

func TestCreateTenantSuccess(t *testing.T) {
	f := newTenantFixture(t)

	got, err := f.svc.CreateTenant(context.Background(), CreateTenantInput{
		Name:         "Acme",
		ContactEmail: "ops@acme.test",
	}, "u-root")
	require.NoError(t, err)

	assert.Equal(t, model.TenantActive, got.Status)
	assert.Equal(t, "acme", got.Slug)
	assert.Equal(t, "trial", got.Plan)
	assert.Equal(t, 5, got.MaxUsers)
	require.NotNil(t, got.TrialEndsAt)
	assert.Equal(t, f.now.Add(14*24*time.Hour), *got.TrialEndsAt)

	// Stored row was activated too.
	stored := f.tenants.byID[got.ID]
	assert.Equal(t, model.TenantActive, stored.Status)

	// Default modules were subscribed.
	assert.Equal(t, defaultModuleCodes, f.modules.subscribed[got.ID])

	// Bootstrap admin exists with the new tenant's id.
	admin, err := f.users.GetByEmail(context.Background(), "ops@acme.test")
	require.NoError(t, err)
	assert.Equal(t, model.RoleTenantAdmin, admin.Role)
	require.NotNil(t, admin.TenantID)
	assert.Equal(t, got.ID, *admin.TenantID)
	assert.NotEmpty(t, admin.PasswordHash)

	// TenantCreated event emitted with the schema name.
	require.Len(t, f.events.tenants, 1)
	assert.Equal(t, got.SchemaName(), f.events.tenants[0].SchemaName)
}

func TestCreateTenantProvisioningFailureLeavesPending(t *testing.T) {
	f := newTenantFixture(t)
	f.provisioner.result = provision.Result{Success: false, Errors: []string{"create schema: denied"}}

	got, err := f.svc.CreateTenant(context.Background(), CreateTenantInput{
		Name:         "Acme",
		ContactEmail: "ops@acme.test",
	}, "u-root")
	// The caller sees no error; the row exists but is PENDING.
	require.NoError(t, err)
	assert.Equal(t, model.TenantPending, got.Status)
	assert.Equal(t, model.TenantPending, f.tenants.byID[got.ID].Status)

	// No bootstrap admin, no subscriptions, no event.
	_, uerr := f.users.GetByEmail(context.Background(), "ops@acme.test")
	assert.Error(t, uerr)
	assert.Empty(t, f.modules.subscribed[got.ID])
	assert.Empty(t, f.events.tenants)
}

func TestCreateTenantProvisionerError(t *testing.T) {
	f := newTenantFixture(t)
	f.provisioner.err = errStoreDown

	got, err := f.svc.CreateTenant(context.Background(), CreateTenantInput{Name: "Acme"}, "u-root")
	require.NoError(t, err)
	assert.Equal(t, model.TenantPending, got.Status)
}

func TestCreateTenantDuplicate(t *testing.T) {
	f := newTenantFixture(t)

	_, err := f.svc.CreateTenant(context.Background(), CreateTenantInput{Name: "Acme"}, "u-root")
	require.NoError(t, err)

	_, err = f.svc.CreateTenant(context.Background(), CreateTenantInput{Name: "Acme"}, "u-root")
	assert.True(t, apperr.Is(err, apperr.Conflict))
}

func TestCreateTenantValidation(t *testing.T) {
	f := newTenantFixture(t)

	_, err := f.svc.CreateTenant(context.Background(), CreateTenantInput{Name: "  "}, "u-root")
	assert.True(t, apperr.Is(err, apperr.InvalidRequest))

	_, err = f.svc.CreateTenant(context.Background(), CreateTenantInput{Name: "!!!"}, "u-root")
	assert.True(t, apperr.Is(err, apperr.InvalidRequest))
}

func TestCreateTenantPlanLimits(t *testing.T) {
	f := newTenantFixture(t)

	tests := []struct {
		plan     string
		maxUsers int
		trial    bool
	}{
		{"trial", 5, true},
		{"starter", 10, false},
		{"professional", 50, false},
		{"enterprise", 500, false},
	}
	for _, tc := range tests {
		got, err := f.svc.CreateTenant(context.Background(), CreateTenantInput{
			Name: "Tenant " + tc.plan,
			Plan: tc.plan,
		}, "u-root")
		require.NoError(t, err, tc.plan)
		assert.Equal(t, tc.maxUsers, got.MaxUsers, tc.plan)
		assert.Equal(t, tc.trial, got.TrialEndsAt != nil, tc.plan)
	}
}

func TestCreateTenantBootstrapAdminIsIdempotent(t *testing.T) {
	f := newTenantFixture(t)

	got, err := f.svc.CreateTenant(context.Background(), CreateTenantInput{
		Name:         "Acme",
		ContactEmail: "ops@acme.test",
	}, "u-root")
	require.NoError(t, err)

	// Re-running the bootstrap for the same tenant reuses the user.
	stored := f.tenants.byID[got.ID]
	require.NoError(t, f.svc.bootstrapAdmin(context.Background(), stored))
	count := 0
	for _, u := range f.users.users {
		if u.Email == "ops@acme.test" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Acme", "acme"},
		{"Acme Farms", "acme-farms"},
		{"  Acme   Farms  ", "acme-farms"},
		{"Acme & Sons, Ltd.", "acme-sons-ltd"},
		{"ACME-2000", "acme-2000"},
		{"thé farm", "thé-farm"},
		{"!!!", ""},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, Slugify(tc.in), tc.in)
	}
}
