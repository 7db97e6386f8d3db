package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/fieldline/platform/internal/model"
)

// InvitationRepo provides access to the `invitations` audit table.
type InvitationRepo struct{ DB *sql.DB }

func NewInvitationRepo(db *sql.DB) *InvitationRepo { return &InvitationRepo{DB: db} }

// Create inserts an invitation row. The token is the table's only unique
// column; several rows per email are expected, since cancelled and expired
// invitations stay behind as the audit trail.
func (r *InvitationRepo) Create(ctx context.Context, inv *model.Invitation) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO invitations (id,token,email,role,tenant_id,status,expires_at,resend_count,created_by)
		 VALUES (?,?,?,?,?,?,?,?,?)`,
		inv.ID, inv.Token, strings.ToLower(strings.TrimSpace(inv.Email)),
		inv.Role.String(), inv.TenantID, string(inv.Status), inv.ExpiresAt,
		inv.ResendCount, inv.CreatedBy)
	return err
}

// GetByToken fetches an invitation by its raw token.
func (r *InvitationRepo) GetByToken(ctx context.Context, token string) (model.Invitation, error) {
	return r.get(ctx, "token", token)
}

// GetByID fetches an invitation by id.
func (r *InvitationRepo) GetByID(ctx context.Context, id string) (model.Invitation, error) {
	return r.get(ctx, "id", id)
}

func (r *InvitationRepo) get(ctx context.Context, col, val string) (model.Invitation, error) {
	var (
		inv        model.Invitation
		role       string
		status     string
		tenantID   sql.NullString
		acceptedAt sql.NullTime
		acceptedIP sql.NullString
	)
	err := r.DB.QueryRowContext(ctx,
		`SELECT id,token,email,role,tenant_id,status,expires_at,resend_count,
		 accepted_at,accepted_from_ip,created_by,created_at,updated_at
		 FROM invitations WHERE `+col+`=? LIMIT 1`, val).
		Scan(&inv.ID, &inv.Token, &inv.Email, &role, &tenantID, &status,
			&inv.ExpiresAt, &inv.ResendCount, &acceptedAt, &acceptedIP,
			&inv.CreatedBy, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return model.Invitation{}, err
	}
	inv.Role, err = model.ParseRole(role)
	if err != nil {
		return model.Invitation{}, err
	}
	inv.Status = model.InvitationStatus(status)
	if tenantID.Valid {
		inv.TenantID = &tenantID.String
	}
	if acceptedAt.Valid {
		inv.AcceptedAt = &acceptedAt.Time
	}
	if acceptedIP.Valid {
		inv.AcceptedFromIP = acceptedIP.String
	}
	return inv, nil
}

// MarkAccepted flips a PENDING invitation to ACCEPTED with timestamp and
// client IP. The status guard makes double-acceptance lose the race at the
// store, not just in application code.
func (r *InvitationRepo) MarkAccepted(ctx context.Context, id string, at time.Time, ip string) (bool, error) {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE invitations SET status=?, accepted_at=?, accepted_from_ip=?
		 WHERE id=? AND status=?`,
		string(model.InvitationAccepted), at, ip, id, string(model.InvitationPending))
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// Rearm resets an invitation to PENDING with a fresh expiry and bumps the
// resend counter.
func (r *InvitationRepo) Rearm(ctx context.Context, id string, expiresAt time.Time, resendCount int) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE invitations SET status=?, expires_at=?, resend_count=? WHERE id=?",
		string(model.InvitationPending), expiresAt, resendCount, id)
	return err
}

// UpdateStatus sets the invitation status (EXPIRED, CANCELLED).
func (r *InvitationRepo) UpdateStatus(ctx context.Context, id string, status model.InvitationStatus) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE invitations SET status=? WHERE id=?", string(status), id)
	return err
}
