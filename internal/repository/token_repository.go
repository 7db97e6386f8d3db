package repository

import (
	"context"
	"database/sql"

	"github.com/fieldline/platform/internal/model"
)

// TokenRepo persists refresh tokens, stored by SHA-256 hash.
type TokenRepo struct{ DB *sql.DB }

func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{DB: db} }

// Store inserts a refresh token row.
func (r *TokenRepo) Store(ctx context.Context, t *model.RefreshToken) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO refresh_tokens (id,user_id,token_hash,expires_at,ip,user_agent,device_id)
		 VALUES (?,?,?,?,?,?,?)`,
		t.ID, t.UserID, t.TokenHash, t.ExpiresAt, t.IP, t.UserAgent, t.DeviceID)
	return err
}

// GetByHash fetches a refresh token row by hash, revoked or not. Validity
// checks belong to the caller.
func (r *TokenRepo) GetByHash(ctx context.Context, hash string) (model.RefreshToken, error) {
	var (
		t         model.RefreshToken
		revokedAt sql.NullTime
		reason    sql.NullString
	)
	err := r.DB.QueryRowContext(ctx,
		`SELECT id,user_id,token_hash,expires_at,revoked_at,revoked_reason,ip,user_agent,device_id,created_at
		 FROM refresh_tokens WHERE token_hash=? LIMIT 1`, hash).
		Scan(&t.ID, &t.UserID, &t.TokenHash, &t.ExpiresAt, &revokedAt, &reason,
			&t.IP, &t.UserAgent, &t.DeviceID, &t.CreatedAt)
	if err != nil {
		return model.RefreshToken{}, err
	}
	if revokedAt.Valid {
		t.RevokedAt = &revokedAt.Time
	}
	if reason.Valid {
		t.RevokedReason = reason.String
	}
	return t, nil
}

// Revoke marks a token as revoked with a reason. The update is conditional
// on the token still being active; the boolean result is false when another
// caller revoked it first. Rotation relies on this for its at-most-one-
// winner guarantee.
func (r *TokenRepo) Revoke(ctx context.Context, hash, reason string) (bool, error) {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE refresh_tokens SET revoked_at=UTC_TIMESTAMP(), revoked_reason=?
		 WHERE token_hash=? AND revoked_at IS NULL`,
		reason, hash)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// RevokeAllForUser revokes every active token owned by the user.
func (r *TokenRepo) RevokeAllForUser(ctx context.Context, userID, reason string) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE refresh_tokens SET revoked_at=UTC_TIMESTAMP(), revoked_reason=?
		 WHERE user_id=? AND revoked_at IS NULL`,
		reason, userID)
	return err
}
