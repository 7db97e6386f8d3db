package model

import (
	"strings"
	"time"
)

// TenantStatus enumerates the provisioning lifecycle of a tenant.
// A tenant becomes ACTIVE strictly after its schema has been provisioned;
// a provisioning failure leaves it PENDING until an operator intervenes.
type TenantStatus string

const (
	TenantPending   TenantStatus = "PENDING"
	TenantActive    TenantStatus = "ACTIVE"
	TenantSuspended TenantStatus = "SUSPENDED"
	TenantCancelled TenantStatus = "CANCELLED"
)

// Plan limits: default maxUsers per plan. Unknown plans fall back to the
// trial limit.
var planUserLimits = map[string]int{
	"trial":        5,
	"starter":      10,
	"professional": 50,
	"enterprise":   500,
}

// MaxUsersForPlan returns the default user cap for a plan.
func MaxUsersForPlan(plan string) int {
	if n, ok := planUserLimits[strings.ToLower(plan)]; ok {
		return n
	}
	return planUserLimits["trial"]
}

// tenantSchemaPrefixLen is how many characters of the hyphen-stripped
// tenant id participate in the schema name.
const tenantSchemaPrefixLen = 8

// Tenant is an organization row in the `tenants` table.
type Tenant struct {
	ID           string       // tenants.id (uuid)
	Name         string       // tenants.name (unique)
	Slug         string       // tenants.slug (unique)
	Status       TenantStatus // tenants.status
	Plan         string       // tenants.plan
	MaxUsers     int          // tenants.max_users
	ContactEmail string       // tenants.contact_email (optional admin bootstrap)
	TrialEndsAt  *time.Time   // tenants.trial_ends_at (set for trial plans)
	CreatedBy    string       // tenants.created_by
	CreatedAt    time.Time    // tenants.created_at
	UpdatedAt    time.Time    // tenants.updated_at
}

// IsUsable reports whether tenant-scoped users may authenticate against
// live data.
func (t *Tenant) IsUsable() bool {
	return t.Status == TenantActive
}

// SchemaName returns the tenant's dedicated database schema name, derived
// deterministically from the tenant id. Hyphens are stripped and a fixed
// prefix keeps the identifier valid even when the id starts with a digit.
func (t *Tenant) SchemaName() string {
	return SchemaNameForTenant(t.ID)
}

// SchemaNameForTenant computes the dedicated schema name for a tenant id.
func SchemaNameForTenant(tenantID string) string {
	id := strings.ReplaceAll(tenantID, "-", "")
	if len(id) > tenantSchemaPrefixLen {
		id = id[:tenantSchemaPrefixLen]
	}
	return "t_" + id
}
