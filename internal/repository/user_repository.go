package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/fieldline/platform/internal/model"
)

// UserRepo provides access to the `users` table.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = `id,email,password_hash,first_name,last_name,role,tenant_id,is_active,
email_verified,failed_attempts,lock_until,invite_token,invite_expires_at,
last_login_at,last_login_ip,created_at,updated_at`

// Create inserts a user row. The caller supplies the id.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO users (id,email,password_hash,first_name,last_name,role,tenant_id,
		 is_active,email_verified,invite_token,invite_expires_at)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		u.ID, strings.ToLower(strings.TrimSpace(u.Email)), u.PasswordHash,
		u.FirstName, u.LastName, u.Role.String(), u.TenantID,
		u.IsActive, u.EmailVerified, u.InviteToken, u.InviteExpiresAt)
	if isDuplicate(err) {
		return ErrEmailExists
	}
	return err
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email)
	return scanUser(row)
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id string) (model.User, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id)
	return scanUser(row)
}

// GetByInviteToken fetches the pending user carrying the given raw
// invitation token.
func (r *UserRepo) GetByInviteToken(ctx context.Context, token string) (model.User, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE invite_token=? LIMIT 1", token)
	return scanUser(row)
}

// RecordLoginFailure persists the new failed-attempt count and, when the
// threshold was reached, the lock deadline.
func (r *UserRepo) RecordLoginFailure(ctx context.Context, id string, attempts int, lockUntil *time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET failed_attempts=?, lock_until=? WHERE id=?",
		attempts, lockUntil, id)
	return err
}

// RecordLoginSuccess resets the failure counter and lock and stamps the
// last-login time and IP.
func (r *UserRepo) RecordLoginSuccess(ctx context.Context, id string, at time.Time, ip string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET failed_attempts=0, lock_until=NULL, last_login_at=?, last_login_ip=? WHERE id=?",
		at, ip, id)
	return err
}

// SetPasswordFromInvite materializes a pending user: stores the password
// hash, clears the invitation token and its expiry, and marks the email
// verified. One statement so a user can never hold both a password and a
// live invitation token.
func (r *UserRepo) SetPasswordFromInvite(ctx context.Context, id, hash, firstName, lastName string) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE users SET password_hash=?, first_name=?, last_name=?,
		 invite_token=NULL, invite_expires_at=NULL, email_verified=1 WHERE id=?`,
		hash, firstName, lastName, id)
	return err
}

// RearmInvite refreshes the invitation token, expiry and role grant on a
// pending user row. The guard on an empty password hash keeps a
// materialized account from ever being handed a new invitation token.
func (r *UserRepo) RearmInvite(ctx context.Context, id, token string, expiresAt time.Time, role model.Role, tenantID *string) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE users SET invite_token=?, invite_expires_at=?, role=?, tenant_id=?, is_active=1
		 WHERE id=? AND password_hash=''`,
		token, expiresAt, role.String(), tenantID, id)
	return err
}

// ClearInvite removes the invitation token and expiry from a user row,
// leaving the email free to be re-invited.
func (r *UserRepo) ClearInvite(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET invite_token=NULL, invite_expires_at=NULL WHERE id=?", id)
	return err
}

// scanUser reads one user row, converting nullable columns.
func scanUser(row *sql.Row) (model.User, error) {
	var (
		u         model.User
		role      string
		tenantID  sql.NullString
		lockUntil sql.NullTime
		invToken  sql.NullString
		invExp    sql.NullTime
		lastAt    sql.NullTime
		lastIP    sql.NullString
	)
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName,
		&role, &tenantID, &u.IsActive, &u.EmailVerified, &u.FailedAttempts,
		&lockUntil, &invToken, &invExp, &lastAt, &lastIP, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return model.User{}, err
	}
	u.Role, err = model.ParseRole(role)
	if err != nil {
		return model.User{}, err
	}
	if tenantID.Valid {
		u.TenantID = &tenantID.String
	}
	if lockUntil.Valid {
		u.LockUntil = &lockUntil.Time
	}
	if invToken.Valid {
		u.InviteToken = &invToken.String
	}
	if invExp.Valid {
		u.InviteExpiresAt = &invExp.Time
	}
	if lastAt.Valid {
		u.LastLoginAt = &lastAt.Time
	}
	if lastIP.Valid {
		u.LastLoginIP = lastIP.String
	}
	return u, nil
}
