package model

import "time"

// User represents a row in the `users` table. Each field corresponds to a
// column. Pointer fields map to nullable columns.
//
// A user with a non-empty InviteToken and no password hash is "pending":
// the account was created by an invitation that has not been accepted yet.
// Accepting the invitation sets the hash and clears the token in the same
// update. TenantID is nil only for SUPER_ADMIN accounts, which belong to
// the platform rather than to any one tenant.
type User struct {
	ID              string     // users.id (uuid)
	Email           string     // users.email (unique, stored lowercase)
	PasswordHash    string     // users.password_hash (empty until invitation accepted)
	FirstName       string     // users.first_name
	LastName        string     // users.last_name
	Role            Role       // users.role
	TenantID        *string    // users.tenant_id (null only for SUPER_ADMIN)
	IsActive        bool       // users.is_active
	EmailVerified   bool       // users.email_verified
	FailedAttempts  int        // users.failed_attempts
	LockUntil       *time.Time // users.lock_until (null when not locked)
	InviteToken     *string    // users.invite_token (unique when present)
	InviteExpiresAt *time.Time // users.invite_expires_at
	LastLoginAt     *time.Time // users.last_login_at
	LastLoginIP     string     // users.last_login_ip
	CreatedAt       time.Time  // users.created_at
	UpdatedAt       time.Time  // users.updated_at
}

// IsPending reports whether the user was invited but has not set a
// password yet. Pending users cannot log in.
func (u *User) IsPending() bool {
	return u.InviteToken != nil && u.PasswordHash == ""
}

// IsLocked reports whether the account is locked out at the given instant.
func (u *User) IsLocked(now time.Time) bool {
	return u.LockUntil != nil && now.Before(*u.LockUntil)
}
