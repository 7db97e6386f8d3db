package model

import "time"

// RefreshToken models an entry in the `refresh_tokens` table. Each token
// belongs to one user and to one issuance event. The plain token value is
// never stored; only its SHA-256 hash.
//
// A token is valid iff it has not been revoked and has not expired. Rotation
// revokes the presented token (reason "rotated") in the same operation that
// creates its successor, so at most one active link exists per chain.
type RefreshToken struct {
	ID            string     // refresh_tokens.id (uuid)
	UserID        string     // refresh_tokens.user_id
	TokenHash     string     // refresh_tokens.token_hash (SHA-256 hex digest)
	ExpiresAt     time.Time  // refresh_tokens.expires_at
	RevokedAt     *time.Time // refresh_tokens.revoked_at (null while active)
	RevokedReason string     // refresh_tokens.revoked_reason
	IP            string     // refresh_tokens.ip (client provenance)
	UserAgent     string     // refresh_tokens.user_agent
	DeviceID      string     // refresh_tokens.device_id
	CreatedAt     time.Time  // refresh_tokens.created_at
}

// IsValid reports whether the token can still be redeemed at the given
// instant.
func (t *RefreshToken) IsValid(now time.Time) bool {
	return t.RevokedAt == nil && now.Before(t.ExpiresAt)
}
