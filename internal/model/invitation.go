package model

import "time"

// InvitationStatus enumerates the lifecycle states of an invitation.
// Transitions are monotonic (PENDING -> ACCEPTED | EXPIRED | CANCELLED)
// except for resending, which re-arms a PENDING or EXPIRED invitation
// back to PENDING with a fresh expiry.
type InvitationStatus string

const (
	InvitationPending   InvitationStatus = "PENDING"
	InvitationAccepted  InvitationStatus = "ACCEPTED"
	InvitationExpired   InvitationStatus = "EXPIRED"
	InvitationCancelled InvitationStatus = "CANCELLED"
)

// MaxInvitationResends caps how many times a single invitation may be
// re-sent before a new one must be created.
const MaxInvitationResends = 5

// Invitation is the audit trail of an invite event, stored in the
// `invitations` table. The raw token also appears on the invited user row;
// the two records reference the same value and are resolved together when
// the invitation is accepted.
type Invitation struct {
	ID             string           // invitations.id (uuid)
	Token          string           // invitations.token (unique)
	Email          string           // invitations.email (stored lowercase)
	Role           Role             // invitations.role assigned on acceptance
	TenantID       *string          // invitations.tenant_id (null for platform invites)
	Status         InvitationStatus // invitations.status
	ExpiresAt      time.Time        // invitations.expires_at
	ResendCount    int              // invitations.resend_count
	AcceptedAt     *time.Time       // invitations.accepted_at
	AcceptedFromIP string           // invitations.accepted_from_ip
	CreatedBy      string           // invitations.created_by (inviting user id)
	CreatedAt      time.Time        // invitations.created_at
	UpdatedAt      time.Time        // invitations.updated_at
}

// IsExpired reports whether the invitation's deadline has passed,
// regardless of whether the status row has been flipped to EXPIRED yet.
func (i *Invitation) IsExpired(now time.Time) bool {
	return !now.Before(i.ExpiresAt)
}

// CanBeAccepted reports whether Accept may proceed: the invitation must
// still be PENDING and unexpired.
func (i *Invitation) CanBeAccepted(now time.Time) bool {
	return i.Status == InvitationPending && !i.IsExpired(now)
}

// CanResend reports whether the invitation may be re-armed. Only PENDING
// and EXPIRED invitations qualify, and only below the resend cap.
func (i *Invitation) CanResend() bool {
	if i.Status != InvitationPending && i.Status != InvitationExpired {
		return false
	}
	return i.ResendCount < MaxInvitationResends
}
