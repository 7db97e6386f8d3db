package utils // package utils provides helper functions for token creation and hashing

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// AccessToken represents a signed JWT access token along with its expiry.
// Access tokens are short-lived and carried in the Authorization header
// when calling protected endpoints.
type AccessToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// AccessClaims are the inputs embedded into an access token. TenantID is
// nil for SUPER_ADMIN accounts; Modules is omitted from the claim set when
// empty.
type AccessClaims struct {
	UserID   string
	Email    string
	Role     string
	TenantID *string
	Modules  []string
}

// NewAccessToken builds and signs an HS256 JWT for a user. The claim set
// carries the subject (sub), email, role, tenant id and the caller's
// accessible module codes, plus standard exp/iat timestamps.
func NewAccessToken(secret string, in AccessClaims, ttl time.Duration) (AccessToken, error) {
	exp := time.Now().UTC().Add(ttl)
	claims := jwt.MapClaims{
		"sub":   in.UserID,
		"email": in.Email,
		"role":  in.Role,
		"exp":   exp.Unix(),
		"iat":   time.Now().UTC().Unix(),
	}
	if in.TenantID != nil {
		claims["tenant_id"] = *in.TenantID
	} else {
		claims["tenant_id"] = nil
	}
	if len(in.Modules) > 0 {
		claims["modules"] = in.Modules
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

// ParseAccessToken verifies signature and expiry and returns the claim map.
// Tokens signed with any method other than HMAC are rejected.
func ParseAccessToken(secret, raw string) (jwt.MapClaims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return nil, errors.New("invalid token")
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid claims")
	}
	return claims, nil
}
