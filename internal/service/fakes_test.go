package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/fieldline/platform/internal/model"
	"github.com/fieldline/platform/internal/provision"
	"github.com/fieldline/platform/internal/queue"
	"github.com/fieldline/platform/internal/repository"
)

// In-memory store fakes. Not safe for concurrent use; tests are
// sequential.

type fakeUsers struct {
	users map[string]*model.User // by id
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{users: map[string]*model.User{}}
}

func (f *fakeUsers) add(u model.User) *model.User {
	cp := u
	f.users[u.ID] = &cp
	return f.users[u.ID]
}

func (f *fakeUsers) Create(_ context.Context, u *model.User) error {
	for _, ex := range f.users {
		if ex.Email == u.Email {
			return repository.ErrEmailExists
		}
	}
	f.add(*u)
	return nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return *u, nil
		}
	}
	return model.User{}, sql.ErrNoRows
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (model.User, error) {
	if u, ok := f.users[id]; ok {
		return *u, nil
	}
	return model.User{}, sql.ErrNoRows
}

func (f *fakeUsers) GetByInviteToken(_ context.Context, token string) (model.User, error) {
	for _, u := range f.users {
		if u.InviteToken != nil && *u.InviteToken == token {
			return *u, nil
		}
	}
	return model.User{}, sql.ErrNoRows
}

func (f *fakeUsers) RecordLoginFailure(_ context.Context, id string, attempts int, lockUntil *time.Time) error {
	u, ok := f.users[id]
	if !ok {
		return sql.ErrNoRows
	}
	u.FailedAttempts = attempts
	u.LockUntil = lockUntil
	return nil
}

func (f *fakeUsers) RecordLoginSuccess(_ context.Context, id string, at time.Time, ip string) error {
	u, ok := f.users[id]
	if !ok {
		return sql.ErrNoRows
	}
	u.FailedAttempts = 0
	u.LockUntil = nil
	u.LastLoginAt = &at
	u.LastLoginIP = ip
	return nil
}

func (f *fakeUsers) RearmInvite(_ context.Context, id, token string, expiresAt time.Time, role model.Role, tenantID *string) error {
	u, ok := f.users[id]
	if !ok {
		return sql.ErrNoRows
	}
	if u.PasswordHash != "" {
		return nil
	}
	u.InviteToken = &token
	u.InviteExpiresAt = &expiresAt
	u.Role = role
	u.TenantID = tenantID
	u.IsActive = true
	return nil
}

func (f *fakeUsers) ClearInvite(_ context.Context, id string) error {
	u, ok := f.users[id]
	if !ok {
		return sql.ErrNoRows
	}
	u.InviteToken = nil
	u.InviteExpiresAt = nil
	return nil
}

func (f *fakeUsers) SetPasswordFromInvite(_ context.Context, id, hash, firstName, lastName string) error {
	u, ok := f.users[id]
	if !ok {
		return sql.ErrNoRows
	}
	u.PasswordHash = hash
	u.FirstName = firstName
	u.LastName = lastName
	u.InviteToken = nil
	u.InviteExpiresAt = nil
	u.EmailVerified = true
	return nil
}

type fakeTokens struct {
	byHash map[string]*model.RefreshToken
}

func newFakeTokens() *fakeTokens {
	return &fakeTokens{byHash: map[string]*model.RefreshToken{}}
}

func (f *fakeTokens) Store(_ context.Context, t *model.RefreshToken) error {
	cp := *t
	f.byHash[t.TokenHash] = &cp
	return nil
}

func (f *fakeTokens) GetByHash(_ context.Context, hash string) (model.RefreshToken, error) {
	if t, ok := f.byHash[hash]; ok {
		return *t, nil
	}
	return model.RefreshToken{}, sql.ErrNoRows
}

func (f *fakeTokens) Revoke(_ context.Context, hash, reason string) (bool, error) {
	t, ok := f.byHash[hash]
	if !ok || t.RevokedAt != nil {
		return false, nil
	}
	now := time.Now().UTC()
	t.RevokedAt = &now
	t.RevokedReason = reason
	return true, nil
}

func (f *fakeTokens) RevokeAllForUser(_ context.Context, userID, reason string) error {
	now := time.Now().UTC()
	for _, t := range f.byHash {
		if t.UserID == userID && t.RevokedAt == nil {
			t.RevokedAt = &now
			t.RevokedReason = reason
		}
	}
	return nil
}

func (f *fakeTokens) activeCount(userID string) int {
	n := 0
	for _, t := range f.byHash {
		if t.UserID == userID && t.RevokedAt == nil {
			n++
		}
	}
	return n
}

type fakeInvitations struct {
	byID map[string]*model.Invitation
}

func newFakeInvitations() *fakeInvitations {
	return &fakeInvitations{byID: map[string]*model.Invitation{}}
}

func (f *fakeInvitations) add(inv model.Invitation) *model.Invitation {
	cp := inv
	f.byID[inv.ID] = &cp
	return f.byID[inv.ID]
}

func (f *fakeInvitations) Create(_ context.Context, inv *model.Invitation) error {
	f.add(*inv)
	return nil
}

func (f *fakeInvitations) GetByToken(_ context.Context, token string) (model.Invitation, error) {
	for _, inv := range f.byID {
		if inv.Token == token {
			return *inv, nil
		}
	}
	return model.Invitation{}, sql.ErrNoRows
}

func (f *fakeInvitations) GetByID(_ context.Context, id string) (model.Invitation, error) {
	if inv, ok := f.byID[id]; ok {
		return *inv, nil
	}
	return model.Invitation{}, sql.ErrNoRows
}

func (f *fakeInvitations) MarkAccepted(_ context.Context, id string, at time.Time, ip string) (bool, error) {
	inv, ok := f.byID[id]
	if !ok || inv.Status != model.InvitationPending {
		return false, nil
	}
	inv.Status = model.InvitationAccepted
	inv.AcceptedAt = &at
	inv.AcceptedFromIP = ip
	return true, nil
}

func (f *fakeInvitations) Rearm(_ context.Context, id string, expiresAt time.Time, resendCount int) error {
	inv, ok := f.byID[id]
	if !ok {
		return sql.ErrNoRows
	}
	inv.Status = model.InvitationPending
	inv.ExpiresAt = expiresAt
	inv.ResendCount = resendCount
	return nil
}

func (f *fakeInvitations) UpdateStatus(_ context.Context, id string, status model.InvitationStatus) error {
	inv, ok := f.byID[id]
	if !ok {
		return sql.ErrNoRows
	}
	inv.Status = status
	return nil
}

type fakeTenants struct {
	byID map[string]*model.Tenant
}

func newFakeTenants() *fakeTenants {
	return &fakeTenants{byID: map[string]*model.Tenant{}}
}

func (f *fakeTenants) add(t model.Tenant) *model.Tenant {
	cp := t
	f.byID[t.ID] = &cp
	return f.byID[t.ID]
}

func (f *fakeTenants) Create(_ context.Context, t *model.Tenant) error {
	for _, ex := range f.byID {
		if ex.Name == t.Name || ex.Slug == t.Slug {
			return repository.ErrTenantExists
		}
	}
	f.add(*t)
	return nil
}

func (f *fakeTenants) GetByID(_ context.Context, id string) (model.Tenant, error) {
	if t, ok := f.byID[id]; ok {
		return *t, nil
	}
	return model.Tenant{}, sql.ErrNoRows
}

func (f *fakeTenants) GetBySlug(_ context.Context, slug string) (model.Tenant, error) {
	for _, t := range f.byID {
		if t.Slug == slug {
			return *t, nil
		}
	}
	return model.Tenant{}, sql.ErrNoRows
}

func (f *fakeTenants) Exists(_ context.Context, name, slug string) (bool, error) {
	for _, t := range f.byID {
		if t.Name == name || t.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeTenants) UpdateStatus(_ context.Context, id string, status model.TenantStatus) error {
	t, ok := f.byID[id]
	if !ok {
		return sql.ErrNoRows
	}
	t.Status = status
	return nil
}

type fakeModules struct {
	enabledByTenant map[string][]model.Module
	assignedByUser  map[string][]model.Module
	subscribed      map[string][]string
}

func newFakeModules() *fakeModules {
	return &fakeModules{
		enabledByTenant: map[string][]model.Module{},
		assignedByUser:  map[string][]model.Module{},
		subscribed:      map[string][]string{},
	}
}

func (f *fakeModules) EnabledForTenant(_ context.Context, tenantID string) ([]model.Module, error) {
	return f.enabledByTenant[tenantID], nil
}

func (f *fakeModules) AssignedToUser(_ context.Context, userID string) ([]model.Module, error) {
	return f.assignedByUser[userID], nil
}

func (f *fakeModules) EnabledCodesForTenant(_ context.Context, tenantID string) ([]string, error) {
	var codes []string
	for _, m := range f.enabledByTenant[tenantID] {
		codes = append(codes, m.Code)
	}
	return codes, nil
}

func (f *fakeModules) SubscribeTenant(_ context.Context, tenantID string, codes []string) error {
	f.subscribed[tenantID] = append(f.subscribed[tenantID], codes...)
	return nil
}

type fakeCatalog struct {
	columns map[string][]repository.Column // keyed schema.table
	indexes map[string][]repository.Index
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		columns: map[string][]repository.Column{},
		indexes: map[string][]repository.Index{},
	}
}

func (f *fakeCatalog) Columns(_ context.Context, schema, table string) ([]repository.Column, error) {
	return f.columns[schema+"."+table], nil
}

func (f *fakeCatalog) Indexes(_ context.Context, schema, table string) ([]repository.Index, error) {
	return f.indexes[schema+"."+table], nil
}

type fakeEvents struct {
	logins  []queue.UserLoggedInEvent
	tenants []queue.TenantCreatedEvent
}

func (f *fakeEvents) PublishUserLoggedIn(_ context.Context, ev queue.UserLoggedInEvent) error {
	f.logins = append(f.logins, ev)
	return nil
}

func (f *fakeEvents) PublishTenantCreated(_ context.Context, ev queue.TenantCreatedEvent) error {
	f.tenants = append(f.tenants, ev)
	return nil
}

// fakeProvisioner scripts the schema-provisioning collaborator.
type fakeProvisioner struct {
	result provision.Result
	err    error
	calls  []string // tenant ids in call order
}

func (f *fakeProvisioner) CreateTenantSchema(_ context.Context, tenantID string, _ []string) (provision.Result, error) {
	f.calls = append(f.calls, tenantID)
	if f.err != nil {
		return provision.Result{}, f.err
	}
	res := f.result
	if res.SchemaName == "" {
		res.SchemaName = model.SchemaNameForTenant(tenantID)
	}
	return res, f.err
}

var errStoreDown = errors.New("store down")
