// Package service implements the identity and tenant-access core: credential
// verification with lockout, token lifecycle, invitation onboarding, module
// access resolution, tenant provisioning and the schema-access guard.
// Services depend on narrow store interfaces so the SQL repositories stay an
// adapter detail; tests substitute in-memory fakes.
package service

import (
	"context"
	"time"

	"github.com/fieldline/platform/internal/model"
	"github.com/fieldline/platform/internal/queue"
	"github.com/fieldline/platform/internal/repository"
)

// UserStore is the persistence surface required for user aggregates.
type UserStore interface {
	Create(ctx context.Context, u *model.User) error
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByID(ctx context.Context, id string) (model.User, error)
	GetByInviteToken(ctx context.Context, token string) (model.User, error)
	RecordLoginFailure(ctx context.Context, id string, attempts int, lockUntil *time.Time) error
	RecordLoginSuccess(ctx context.Context, id string, at time.Time, ip string) error
	SetPasswordFromInvite(ctx context.Context, id, hash, firstName, lastName string) error
	RearmInvite(ctx context.Context, id, token string, expiresAt time.Time, role model.Role, tenantID *string) error
	ClearInvite(ctx context.Context, id string) error
}

// TokenStore is the persistence surface required for refresh tokens.
type TokenStore interface {
	Store(ctx context.Context, t *model.RefreshToken) error
	GetByHash(ctx context.Context, hash string) (model.RefreshToken, error)
	Revoke(ctx context.Context, hash, reason string) (bool, error)
	RevokeAllForUser(ctx context.Context, userID, reason string) error
}

// InvitationStore is the persistence surface required for invitations.
type InvitationStore interface {
	Create(ctx context.Context, inv *model.Invitation) error
	GetByToken(ctx context.Context, token string) (model.Invitation, error)
	GetByID(ctx context.Context, id string) (model.Invitation, error)
	MarkAccepted(ctx context.Context, id string, at time.Time, ip string) (bool, error)
	Rearm(ctx context.Context, id string, expiresAt time.Time, resendCount int) error
	UpdateStatus(ctx context.Context, id string, status model.InvitationStatus) error
}

// TenantStore is the persistence surface required for tenants.
type TenantStore interface {
	Create(ctx context.Context, t *model.Tenant) error
	GetByID(ctx context.Context, id string) (model.Tenant, error)
	GetBySlug(ctx context.Context, slug string) (model.Tenant, error)
	Exists(ctx context.Context, name, slug string) (bool, error)
	UpdateStatus(ctx context.Context, id string, status model.TenantStatus) error
}

// ModuleStore is the persistence surface for the module catalog and its
// grant tables.
type ModuleStore interface {
	EnabledForTenant(ctx context.Context, tenantID string) ([]model.Module, error)
	AssignedToUser(ctx context.Context, userID string) ([]model.Module, error)
	EnabledCodesForTenant(ctx context.Context, tenantID string) ([]string, error)
	SubscribeTenant(ctx context.Context, tenantID string, codes []string) error
}

// CatalogStore reads table metadata for the admin data browser.
type CatalogStore interface {
	Columns(ctx context.Context, schema, table string) ([]repository.Column, error)
	Indexes(ctx context.Context, schema, table string) ([]repository.Index, error)
}

// EventPublisher emits domain events. Implementations are best-effort; the
// request path ignores publish failures.
type EventPublisher interface {
	PublishUserLoggedIn(ctx context.Context, ev queue.UserLoggedInEvent) error
	PublishTenantCreated(ctx context.Context, ev queue.TenantCreatedEvent) error
}
