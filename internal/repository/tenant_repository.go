package repository

import (
	"context"
	"database/sql"

	"github.com/fieldline/platform/internal/model"
)

// TenantRepo provides access to the `tenants` table.
type TenantRepo struct{ DB *sql.DB }

func NewTenantRepo(db *sql.DB) *TenantRepo { return &TenantRepo{DB: db} }

// Create inserts a tenant row. Name and slug collisions surface as
// ErrTenantExists.
func (r *TenantRepo) Create(ctx context.Context, t *model.Tenant) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO tenants (id,name,slug,status,plan,max_users,contact_email,trial_ends_at,created_by)
		 VALUES (?,?,?,?,?,?,?,?,?)`,
		t.ID, t.Name, t.Slug, string(t.Status), t.Plan, t.MaxUsers,
		t.ContactEmail, t.TrialEndsAt, t.CreatedBy)
	if isDuplicate(err) {
		return ErrTenantExists
	}
	return err
}

// GetByID fetches a tenant by id.
func (r *TenantRepo) GetByID(ctx context.Context, id string) (model.Tenant, error) {
	return r.get(ctx, "id", id)
}

// GetBySlug fetches a tenant by slug.
func (r *TenantRepo) GetBySlug(ctx context.Context, slug string) (model.Tenant, error) {
	return r.get(ctx, "slug", slug)
}

func (r *TenantRepo) get(ctx context.Context, col, val string) (model.Tenant, error) {
	var (
		t            model.Tenant
		status       string
		contactEmail sql.NullString
		trialEndsAt  sql.NullTime
	)
	err := r.DB.QueryRowContext(ctx,
		`SELECT id,name,slug,status,plan,max_users,contact_email,trial_ends_at,created_by,created_at,updated_at
		 FROM tenants WHERE `+col+`=? LIMIT 1`, val).
		Scan(&t.ID, &t.Name, &t.Slug, &status, &t.Plan, &t.MaxUsers,
			&contactEmail, &trialEndsAt, &t.CreatedBy, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return model.Tenant{}, err
	}
	t.Status = model.TenantStatus(status)
	if contactEmail.Valid {
		t.ContactEmail = contactEmail.String
	}
	if trialEndsAt.Valid {
		t.TrialEndsAt = &trialEndsAt.Time
	}
	return t, nil
}

// Exists reports whether a tenant with the given name or slug already
// exists. Used for a friendly pre-check; the unique constraints remain the
// real guard.
func (r *TenantRepo) Exists(ctx context.Context, name, slug string) (bool, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM tenants WHERE name=? OR slug=?", name, slug).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// UpdateStatus sets the tenant's lifecycle status.
func (r *TenantRepo) UpdateStatus(ctx context.Context, id string, status model.TenantStatus) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE tenants SET status=? WHERE id=?", string(status), id)
	return err
}
