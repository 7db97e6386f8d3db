package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInvitationExpiry(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	inv := Invitation{Status: InvitationPending, ExpiresAt: now.Add(time.Hour)}

	assert.False(t, inv.IsExpired(now))
	assert.True(t, inv.CanBeAccepted(now))

	// The deadline itself counts as expired.
	assert.True(t, inv.IsExpired(now.Add(time.Hour)))
	assert.False(t, inv.CanBeAccepted(now.Add(time.Hour)))
}

func TestInvitationCanBeAcceptedOnlyWhenPending(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	inv := Invitation{ExpiresAt: now.Add(time.Hour)}

	for st, want := range map[InvitationStatus]bool{
		InvitationPending:   true,
		InvitationAccepted:  false,
		InvitationExpired:   false,
		InvitationCancelled: false,
	} {
		inv.Status = st
		assert.Equal(t, want, inv.CanBeAccepted(now), string(st))
	}
}

func TestInvitationCanResend(t *testing.T) {
	inv := Invitation{Status: InvitationPending}
	assert.True(t, inv.CanResend())

	inv.Status = InvitationExpired
	assert.True(t, inv.CanResend())

	inv.Status = InvitationAccepted
	assert.False(t, inv.CanResend())

	inv.Status = InvitationCancelled
	assert.False(t, inv.CanResend())

	inv.Status = InvitationPending
	inv.ResendCount = MaxInvitationResends
	assert.False(t, inv.CanResend())
}
