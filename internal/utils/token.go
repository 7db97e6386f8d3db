package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"math/big"
	"time"
)

// RefreshToken represents a long-lived opaque token used to obtain new
// access tokens. The Raw field is returned to the client exactly once; the
// database stores only a SHA-256 hash of it.
type RefreshToken struct {
	Raw string    // raw token string returned to the client
	Exp time.Time // UTC expiration time
}

// NewRefreshToken returns a cryptographically secure random token (raw)
// and its expiration time. The value is 48 random bytes hex-encoded,
// giving a 96-character string.
func NewRefreshToken(ttl time.Duration) (RefreshToken, error) {
	raw, err := randomHex(48)
	if err != nil {
		return RefreshToken{}, err
	}
	return RefreshToken{
		Raw: raw,
		Exp: time.Now().UTC().Add(ttl),
	}, nil
}

// HashRefreshRaw returns the SHA-256 hash of the raw refresh token as a hex
// string. Storing only the hash prevents stolen database entries from being
// used to refresh sessions.
func HashRefreshRaw(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// inviteAlphabet is the character set for invitation tokens.
const inviteAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// InviteTokenLen is the length of generated invitation tokens.
const InviteTokenLen = 64

// NewInviteToken returns a 64-character alphanumeric invitation token drawn
// from crypto/rand. Invitation tokens travel in emailed links and must be
// unpredictable.
func NewInviteToken() (string, error) {
	b := make([]byte, InviteTokenLen)
	max := big.NewInt(int64(len(inviteAlphabet)))
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = inviteAlphabet[n.Int64()]
	}
	return string(b), nil
}

// NewTempPassword returns a random 32-character password for bootstrap
// accounts. The value is expected to be rotated by the recipient on first
// login.
func NewTempPassword() (string, error) {
	return randomHex(16)
}

// randomHex returns a hex-encoded string generated from n bytes of
// cryptographically secure random data.
func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
