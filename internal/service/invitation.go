package service

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fieldline/platform/internal/apperr"
	"github.com/fieldline/platform/internal/config"
	"github.com/fieldline/platform/internal/model"
	"github.com/fieldline/platform/internal/repository"
	"github.com/fieldline/platform/internal/utils"
)

const minPasswordLen = 8

// InvitationCheck is the read-only view returned by Validate. Expired is
// reported separately from plain invalidity so the UI can show different
// messaging.
type InvitationCheck struct {
	Valid   bool   `json:"valid"`
	Email   string `json:"email,omitempty"`
	Role    string `json:"role,omitempty"`
	Expired bool   `json:"expired,omitempty"`
}

// CreateInvitationInput are the parameters for issuing a new invitation.
type CreateInvitationInput struct {
	Email    string
	Role     model.Role
	TenantID *string
}

// Invitations manages invitation-based onboarding: issuing, validating,
// resending, cancelling and accepting invitations. Accepting an invitation
// materializes the pending user and ends with a token issuance identical
// to a fresh login.
type Invitations struct {
	cfg     config.Config
	invites InvitationStore
	users   UserStore
	auth    *Auth
	now     func() time.Time
}

func NewInvitations(cfg config.Config, invites InvitationStore, users UserStore, auth *Auth) *Invitations {
	return &Invitations{
		cfg:     cfg,
		invites: invites,
		users:   users,
		auth:    auth,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Create issues an invitation and the matching pending user row. Both rows
// carry the same raw token; acceptance resolves them together. The token
// is returned so the caller can build the invite link; it is not stored
// anywhere else in plain form beyond these two rows.
//
// An email with a materialized account is a conflict, checked before any
// row is written. An email with a still-pending user (earlier invitation
// cancelled, expired or simply superseded) is re-invited: the existing
// user row is re-armed with the fresh token and role grant.
func (s *Invitations) Create(ctx context.Context, in CreateInvitationInput, createdBy string) (model.Invitation, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" {
		return model.Invitation{}, apperr.New(apperr.InvalidRequest, "email is required")
	}
	if in.Role == model.RoleSuperAdmin && in.TenantID != nil {
		return model.Invitation{}, apperr.New(apperr.InvalidRequest, "super admin accounts are not tenant-scoped")
	}
	if in.Role != model.RoleSuperAdmin && in.TenantID == nil {
		return model.Invitation{}, apperr.New(apperr.InvalidRequest, "tenant is required for this role")
	}

	var pending *model.User
	existing, err := s.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.PasswordHash != "" {
			return model.Invitation{}, apperr.New(apperr.Conflict, "email already in use")
		}
		pending = &existing
	case errors.Is(err, sql.ErrNoRows):
		// fresh invite
	default:
		return model.Invitation{}, err
	}

	token, err := utils.NewInviteToken()
	if err != nil {
		return model.Invitation{}, err
	}
	now := s.now()
	expires := now.Add(s.cfg.InviteTTL)

	inv := model.Invitation{
		ID:        uuid.NewString(),
		Token:     token,
		Email:     email,
		Role:      in.Role,
		TenantID:  in.TenantID,
		Status:    model.InvitationPending,
		ExpiresAt: expires,
		CreatedBy: createdBy,
	}
	if err := s.invites.Create(ctx, &inv); err != nil {
		return model.Invitation{}, err
	}
	if pending != nil {
		if err := s.users.RearmInvite(ctx, pending.ID, token, expires, in.Role, in.TenantID); err != nil {
			return model.Invitation{}, err
		}
		return inv, nil
	}
	newUser := model.User{
		ID:              uuid.NewString(),
		Email:           email,
		Role:            in.Role,
		TenantID:        in.TenantID,
		IsActive:        true,
		InviteToken:     &token,
		InviteExpiresAt: &expires,
	}
	if err := s.users.Create(ctx, &newUser); err != nil {
		// Lost a race with a concurrent signup for the same email.
		if errors.Is(err, repository.ErrEmailExists) {
			return model.Invitation{}, apperr.New(apperr.Conflict, "email already in use")
		}
		return model.Invitation{}, err
	}
	return inv, nil
}

// Validate is a read-only check of an invitation token. It never mutates
// state: an invitation past its deadline is reported expired even when its
// status row still says PENDING.
func (s *Invitations) Validate(ctx context.Context, token string) (InvitationCheck, error) {
	inv, err := s.invites.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return InvitationCheck{}, nil
		}
		return InvitationCheck{}, err
	}
	if inv.Status != model.InvitationPending {
		return InvitationCheck{}, nil
	}
	if inv.IsExpired(s.now()) {
		return InvitationCheck{Email: inv.Email, Role: inv.Role.String(), Expired: true}, nil
	}
	return InvitationCheck{Valid: true, Email: inv.Email, Role: inv.Role.String()}, nil
}

// Accept redeems a PENDING, unexpired invitation: it sets the pending
// user's password (clearing the invitation token and verifying the email
// in the same update), flips the invitation to ACCEPTED with the client
// IP, and issues tokens exactly as a fresh login would. A second call with
// the same token fails because the invitation is no longer PENDING.
func (s *Invitations) Accept(ctx context.Context, token, password, firstName, lastName, ip string) (TokenPair, error) {
	inv, err := s.invites.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return TokenPair{}, apperr.New(apperr.NotFound, "invitation not found")
		}
		return TokenPair{}, err
	}
	now := s.now()
	if !inv.CanBeAccepted(now) {
		if inv.Status == model.InvitationPending && inv.IsExpired(now) {
			return TokenPair{}, apperr.New(apperr.InvalidRequest, "invitation has expired")
		}
		return TokenPair{}, apperr.New(apperr.NotFound, "invitation not found")
	}
	if len(password) < minPasswordLen {
		return TokenPair{}, apperr.New(apperr.InvalidRequest, "password must be at least 8 characters")
	}

	u, err := s.users.GetByInviteToken(ctx, token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return TokenPair{}, apperr.New(apperr.NotFound, "invitation not found")
		}
		return TokenPair{}, err
	}

	hash, err := utils.HashPassword(password, s.cfg.BcryptCost)
	if err != nil {
		return TokenPair{}, err
	}
	if firstName == "" {
		firstName = u.FirstName
	}
	if lastName == "" {
		lastName = u.LastName
	}
	if err := s.users.SetPasswordFromInvite(ctx, u.ID, hash, firstName, lastName); err != nil {
		return TokenPair{}, err
	}
	ok, err := s.invites.MarkAccepted(ctx, inv.ID, now, ip)
	if err != nil {
		return TokenPair{}, err
	}
	if !ok {
		// Lost a double-accept race after the password was already set.
		return TokenPair{}, apperr.New(apperr.InvalidRequest, "invitation already accepted")
	}

	u.PasswordHash = hash
	u.FirstName = firstName
	u.LastName = lastName
	u.InviteToken = nil
	u.InviteExpiresAt = nil
	u.EmailVerified = true
	return s.auth.completeLogin(ctx, u, ip, "")
}

// Resend re-arms a PENDING or EXPIRED invitation with a fresh expiry,
// keeping the original token so already-sent links stay usable. Each
// invitation may be re-sent at most five times.
func (s *Invitations) Resend(ctx context.Context, id string) (model.Invitation, error) {
	inv, err := s.invites.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Invitation{}, apperr.New(apperr.NotFound, "invitation not found")
		}
		return model.Invitation{}, err
	}
	if !inv.CanResend() {
		if inv.ResendCount >= model.MaxInvitationResends {
			return model.Invitation{}, apperr.New(apperr.InvalidRequest, "invitation resend limit reached")
		}
		return model.Invitation{}, apperr.New(apperr.InvalidRequest, "invitation cannot be resent")
	}
	now := s.now()
	inv.Status = model.InvitationPending
	inv.ExpiresAt = now.Add(s.cfg.InviteTTL)
	inv.ResendCount++
	if err := s.invites.Rearm(ctx, inv.ID, inv.ExpiresAt, inv.ResendCount); err != nil {
		return model.Invitation{}, err
	}
	// Keep the pending user row's expiry in step with the invitation.
	if u, err := s.users.GetByInviteToken(ctx, inv.Token); err == nil {
		if err := s.users.RearmInvite(ctx, u.ID, inv.Token, inv.ExpiresAt, inv.Role, inv.TenantID); err != nil {
			return model.Invitation{}, err
		}
	} else if !errors.Is(err, sql.ErrNoRows) {
		return model.Invitation{}, err
	}
	return inv, nil
}

// Cancel marks an invitation CANCELLED and strips the token from the
// pending user row, so the email is immediately free for a new invitation.
// Accepted invitations cannot be cancelled.
func (s *Invitations) Cancel(ctx context.Context, id string) error {
	inv, err := s.invites.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.New(apperr.NotFound, "invitation not found")
		}
		return err
	}
	if inv.Status == model.InvitationAccepted {
		return apperr.New(apperr.InvalidRequest, "invitation already accepted")
	}
	if err := s.invites.UpdateStatus(ctx, inv.ID, model.InvitationCancelled); err != nil {
		return err
	}
	if u, err := s.users.GetByInviteToken(ctx, inv.Token); err == nil {
		if err := s.users.ClearInvite(ctx, u.ID); err != nil {
			return err
		}
	} else if !errors.Is(err, sql.ErrNoRows) {
		return err
	}
	log.Printf("invitations: cancelled %s (%s)", inv.ID, inv.Email)
	return nil
}
