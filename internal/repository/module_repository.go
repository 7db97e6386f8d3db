package repository

import (
	"context"
	"database/sql"

	"github.com/fieldline/platform/internal/model"
)

// ModuleRepo provides access to the module catalog and its tenant/user
// grant tables.
type ModuleRepo struct{ DB *sql.DB }

func NewModuleRepo(db *sql.DB) *ModuleRepo { return &ModuleRepo{DB: db} }

// EnabledForTenant returns the modules currently enabled for a tenant,
// ordered by display name. Subscriptions with a past expiry are excluded.
func (r *ModuleRepo) EnabledForTenant(ctx context.Context, tenantID string) ([]model.Module, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT m.code, m.name, m.default_route, m.is_active
		 FROM tenant_modules tm
		 JOIN modules m ON m.code = tm.module_code
		 WHERE tm.tenant_id = ? AND tm.enabled = 1 AND m.is_active = 1
		   AND (tm.expires_at IS NULL OR tm.expires_at > UTC_TIMESTAMP())
		 ORDER BY m.name`, tenantID)
	if err != nil {
		return nil, err
	}
	return collectModules(rows)
}

// AssignedToUser returns the modules a MODULE_MANAGER/MODULE_USER can
// access via active, non-expired assignment rows, ordered by display name.
func (r *ModuleRepo) AssignedToUser(ctx context.Context, userID string) ([]model.Module, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT m.code, m.name, m.default_route, m.is_active
		 FROM user_module_assignments a
		 JOIN modules m ON m.code = a.module_code
		 WHERE a.user_id = ? AND a.active = 1 AND m.is_active = 1
		   AND (a.expires_at IS NULL OR a.expires_at > UTC_TIMESTAMP())
		 ORDER BY m.name`, userID)
	if err != nil {
		return nil, err
	}
	return collectModules(rows)
}

// EnabledCodesForTenant returns just the enabled module codes for a tenant.
// The schema-access allowlist is built from this.
func (r *ModuleRepo) EnabledCodesForTenant(ctx context.Context, tenantID string) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT module_code FROM tenant_modules
		 WHERE tenant_id = ? AND enabled = 1
		   AND (expires_at IS NULL OR expires_at > UTC_TIMESTAMP())
		 ORDER BY module_code`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var codes []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		codes = append(codes, c)
	}
	return codes, rows.Err()
}

// SubscribeTenant inserts enabled tenant_modules rows for the given codes.
// Existing subscriptions are left untouched so re-provisioning stays
// idempotent.
func (r *ModuleRepo) SubscribeTenant(ctx context.Context, tenantID string, codes []string) error {
	for _, code := range codes {
		_, err := r.DB.ExecContext(ctx,
			`INSERT INTO tenant_modules (tenant_id, module_code, enabled)
			 VALUES (?,?,1)
			 ON DUPLICATE KEY UPDATE enabled = enabled`,
			tenantID, code)
		if err != nil {
			return err
		}
	}
	return nil
}

func collectModules(rows *sql.Rows) ([]model.Module, error) {
	defer rows.Close()
	var out []model.Module
	for rows.Next() {
		var m model.Module
		if err := rows.Scan(&m.Code, &m.Name, &m.DefaultRoute, &m.IsActive); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
