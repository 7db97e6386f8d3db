package service

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/fieldline/platform/internal/apperr"
	"github.com/fieldline/platform/internal/config"
	"github.com/fieldline/platform/internal/model"
	"github.com/fieldline/platform/internal/queue"
	"github.com/fieldline/platform/internal/utils"
)

// Refresh-token revocation reasons.
const (
	revokeReasonRotated = "rotated"
	revokeReasonLogout  = "logout"
)

// TokenPair is the result of every successful authentication: a signed
// access token, the raw refresh token (returned exactly once) and the
// redirect target for the caller's role.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	TokenType    string `json:"token_type"`
	RedirectURL  string `json:"redirect_url"`
}

// Auth verifies credentials and owns the token lifecycle: access-token
// signing, refresh-token issuance, rotation and revocation, plus the
// failed-attempt lockout counter.
type Auth struct {
	cfg    config.Config
	users  UserStore
	tokens TokenStore
	access *Access
	events EventPublisher
	now    func() time.Time
}

func NewAuth(cfg config.Config, users UserStore, tokens TokenStore, access *Access, events EventPublisher) *Auth {
	return &Auth{
		cfg:    cfg,
		users:  users,
		tokens: tokens,
		access: access,
		events: events,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Login verifies the email/password pair and returns a fresh token pair.
//
// The lookup is by email alone; the tenant comes from the stored record,
// which is how platform accounts with no tenant authenticate through the
// same path. A wrong password increments the failed-attempt counter and,
// at the configured threshold, locks the account for the lockout duration.
// The error message never reveals whether the email exists, except for
// pending invitations, which get their own message so the UI can point the
// user back at the invite link.
func (s *Auth) Login(ctx context.Context, email, password, ip, userAgent string) (TokenPair, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return TokenPair{}, apperr.New(apperr.Unauthenticated, "invalid credentials")
		}
		return TokenPair{}, err
	}
	now := s.now()
	if u.IsPending() {
		return TokenPair{}, apperr.New(apperr.Unauthenticated,
			"account invitation is pending; accept the invitation to set a password")
	}
	if u.PasswordHash == "" {
		return TokenPair{}, apperr.New(apperr.Unauthenticated, "invalid credentials")
	}
	if !u.IsActive {
		return TokenPair{}, apperr.New(apperr.Unauthenticated, "account is deactivated")
	}
	if u.IsLocked(now) {
		return TokenPair{}, apperr.New(apperr.Unauthenticated,
			"account is locked due to failed login attempts; try again later")
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		attempts := u.FailedAttempts + 1
		var lockUntil *time.Time
		if attempts >= s.cfg.MaxFailedLogins {
			t := now.Add(s.cfg.LockoutDuration)
			lockUntil = &t
		}
		if err := s.users.RecordLoginFailure(ctx, u.ID, attempts, lockUntil); err != nil {
			log.Printf("auth: record login failure for %s: %v", u.ID, err)
		}
		return TokenPair{}, apperr.New(apperr.Unauthenticated, "invalid credentials")
	}
	return s.completeLogin(ctx, u, ip, userAgent)
}

// completeLogin is the shared tail of credential login and invitation
// acceptance: reset counters, stamp last-login, issue a pair, emit the
// login event.
func (s *Auth) completeLogin(ctx context.Context, u model.User, ip, userAgent string) (TokenPair, error) {
	now := s.now()
	if err := s.users.RecordLoginSuccess(ctx, u.ID, now, ip); err != nil {
		log.Printf("auth: record login success for %s: %v", u.ID, err)
	}
	pair, err := s.issuePair(ctx, u, ip, userAgent)
	if err != nil {
		return TokenPair{}, err
	}
	_ = s.events.PublishUserLoggedIn(ctx, queue.UserLoggedInEvent{
		UserID:     u.ID,
		Email:      u.Email,
		Role:       u.Role.String(),
		TenantID:   u.TenantID,
		IP:         ip,
		UserAgent:  userAgent,
		LoggedInAt: now.Format(time.RFC3339),
	})
	return pair, nil
}

// issuePair resolves the user's modules, signs an access token carrying
// them and persists a new refresh token. The raw refresh value leaves this
// function exactly once; only its hash is stored.
func (s *Auth) issuePair(ctx context.Context, u model.User, ip, userAgent string) (TokenPair, error) {
	modules, err := s.access.Resolve(ctx, u)
	if err != nil {
		return TokenPair{}, err
	}
	access, err := utils.NewAccessToken(s.cfg.JWTSecret, utils.AccessClaims{
		UserID:   u.ID,
		Email:    u.Email,
		Role:     u.Role.String(),
		TenantID: u.TenantID,
		Modules:  ModuleCodes(modules),
	}, s.cfg.AccessTTL)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := utils.NewRefreshToken(s.cfg.RefreshTTL)
	if err != nil {
		return TokenPair{}, err
	}
	rec := &model.RefreshToken{
		ID:        uuid.NewString(),
		UserID:    u.ID,
		TokenHash: utils.HashRefreshRaw(refresh.Raw),
		ExpiresAt: refresh.Exp,
		IP:        ip,
		UserAgent: userAgent,
	}
	if err := s.tokens.Store(ctx, rec); err != nil {
		return TokenPair{}, err
	}
	return TokenPair{
		AccessToken:  access.Token,
		RefreshToken: refresh.Raw,
		ExpiresIn:    int(s.cfg.AccessTTL.Seconds()),
		TokenType:    "Bearer",
		RedirectURL:  RedirectPath(u, modules),
	}, nil
}

// Refresh rotates a refresh token: the presented token is revoked with
// reason "rotated" in the same operation that issues its successor, so a
// token can be redeemed at most once. Two concurrent calls with the same
// token race on a conditional update; the loser fails Unauthenticated.
// The original client IP and user agent carry over to the successor as
// provenance.
func (s *Auth) Refresh(ctx context.Context, raw string) (TokenPair, error) {
	hash := utils.HashRefreshRaw(raw)
	t, err := s.tokens.GetByHash(ctx, hash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return TokenPair{}, apperr.New(apperr.Unauthenticated, "invalid refresh token")
		}
		return TokenPair{}, err
	}
	if !t.IsValid(s.now()) {
		return TokenPair{}, apperr.New(apperr.Unauthenticated, "invalid refresh token")
	}
	ok, err := s.tokens.Revoke(ctx, hash, revokeReasonRotated)
	if err != nil {
		return TokenPair{}, err
	}
	if !ok {
		// Lost a rotation race, or replay of an already-rotated token.
		return TokenPair{}, apperr.New(apperr.Unauthenticated, "invalid refresh token")
	}
	u, err := s.users.GetByID(ctx, t.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return TokenPair{}, apperr.New(apperr.Unauthenticated, "invalid refresh token")
		}
		return TokenPair{}, err
	}
	if !u.IsActive {
		return TokenPair{}, apperr.New(apperr.Unauthenticated, "account is deactivated")
	}
	return s.issuePair(ctx, u, t.IP, t.UserAgent)
}

// Logout revokes every active refresh token owned by the user, ending all
// of their sessions, not just the presenting one.
func (s *Auth) Logout(ctx context.Context, userID string) error {
	return s.tokens.RevokeAllForUser(ctx, userID, revokeReasonLogout)
}

// Me returns the user's record, resolved modules and redirect path for the
// session-introspection endpoint.
func (s *Auth) Me(ctx context.Context, userID string) (model.User, []model.Module, string, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, nil, "", apperr.New(apperr.NotFound, "user not found")
		}
		return model.User{}, nil, "", err
	}
	modules, err := s.access.Resolve(ctx, u)
	if err != nil {
		return model.User{}, nil, "", err
	}
	return u, modules, RedirectPath(u, modules), nil
}
