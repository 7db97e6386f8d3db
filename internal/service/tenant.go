package service

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	"github.com/fieldline/platform/internal/apperr"
	"github.com/fieldline/platform/internal/config"
	"github.com/fieldline/platform/internal/model"
	"github.com/fieldline/platform/internal/provision"
	"github.com/fieldline/platform/internal/queue"
	"github.com/fieldline/platform/internal/repository"
	"github.com/fieldline/platform/internal/utils"
)

// defaultModuleCodes is the module set every new tenant starts with.
var defaultModuleCodes = []string{"farm", "hr", "sensor"}

// trialPeriod is how long a trial tenant lives before expiring.
const trialPeriod = 14 * 24 * time.Hour

// CreateTenantInput are the parameters for provisioning a new tenant.
// Slug is computed from Name when empty; Plan defaults to trial.
type CreateTenantInput struct {
	Name         string
	Slug         string
	Plan         string
	ContactEmail string
}

// Tenants orchestrates tenant provisioning. Creation is synchronous and
// follows a PENDING -> ACTIVE state machine: the tenant row is persisted
// first, then the schema collaborator runs, and only a fully provisioned
// tenant is flipped ACTIVE. Any failure after the row exists leaves the
// tenant PENDING without failing the request; stuck-PENDING tenants are an
// operational concern, visible rather than rolled back.
type Tenants struct {
	cfg         config.Config
	tenants     TenantStore
	users       UserStore
	modules     ModuleStore
	provisioner provision.Provisioner
	events      EventPublisher
	now         func() time.Time
}

func NewTenants(cfg config.Config, tenants TenantStore, users UserStore, modules ModuleStore,
	provisioner provision.Provisioner, events EventPublisher) *Tenants {
	return &Tenants{
		cfg:         cfg,
		tenants:     tenants,
		users:       users,
		modules:     modules,
		provisioner: provisioner,
		events:      events,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// CreateTenant creates a tenant and provisions its dedicated schema.
//
// The returned tenant is ACTIVE when every step succeeded and PENDING when
// provisioning or any later step failed. Only duplicate names/slugs and
// invalid input fail the call itself.
func (s *Tenants) CreateTenant(ctx context.Context, in CreateTenantInput, createdBy string) (model.Tenant, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return model.Tenant{}, apperr.New(apperr.InvalidRequest, "tenant name is required")
	}
	slug := strings.TrimSpace(in.Slug)
	if slug == "" {
		slug = Slugify(name)
	}
	if slug == "" {
		return model.Tenant{}, apperr.New(apperr.InvalidRequest, "tenant slug could not be derived from name")
	}

	exists, err := s.tenants.Exists(ctx, name, slug)
	if err != nil {
		return model.Tenant{}, err
	}
	if exists {
		return model.Tenant{}, apperr.New(apperr.Conflict, "tenant name or slug already exists")
	}

	now := s.now()
	plan := strings.ToLower(strings.TrimSpace(in.Plan))
	if plan == "" {
		plan = "trial"
	}
	t := model.Tenant{
		ID:           uuid.NewString(),
		Name:         name,
		Slug:         slug,
		Status:       model.TenantPending,
		Plan:         plan,
		MaxUsers:     model.MaxUsersForPlan(plan),
		ContactEmail: strings.ToLower(strings.TrimSpace(in.ContactEmail)),
		CreatedBy:    createdBy,
	}
	if plan == "trial" {
		end := now.Add(trialPeriod)
		t.TrialEndsAt = &end
	}
	if err := s.tenants.Create(ctx, &t); err != nil {
		if errors.Is(err, repository.ErrTenantExists) {
			return model.Tenant{}, apperr.New(apperr.Conflict, "tenant name or slug already exists")
		}
		return model.Tenant{}, err
	}

	// From here on the tenant row exists. Failures are logged and leave the
	// tenant PENDING; the caller still gets the row back without an error.
	res, err := s.provisioner.CreateTenantSchema(ctx, t.ID, defaultModuleCodes)
	if err != nil || !res.Success {
		log.Printf("provisioner: tenant %s (%s) schema provisioning failed: err=%v errors=%v",
			t.ID, t.Slug, err, res.Errors)
		return t, nil
	}
	if err := s.modules.SubscribeTenant(ctx, t.ID, defaultModuleCodes); err != nil {
		log.Printf("provisioner: tenant %s module subscription failed: %v", t.ID, err)
		return t, nil
	}
	if t.ContactEmail != "" {
		if err := s.bootstrapAdmin(ctx, &t); err != nil {
			log.Printf("provisioner: tenant %s admin bootstrap failed: %v", t.ID, err)
			return t, nil
		}
	}
	if err := s.tenants.UpdateStatus(ctx, t.ID, model.TenantActive); err != nil {
		log.Printf("provisioner: tenant %s activation failed: %v", t.ID, err)
		return t, nil
	}
	t.Status = model.TenantActive

	_ = s.events.PublishTenantCreated(ctx, queue.TenantCreatedEvent{
		TenantID:   t.ID,
		Name:       t.Name,
		Slug:       t.Slug,
		Plan:       t.Plan,
		SchemaName: res.SchemaName,
		Modules:    defaultModuleCodes,
		CreatedBy:  createdBy,
		CreatedAt:  now.Format(time.RFC3339),
	})
	return t, nil
}

// Get fetches a tenant by id.
func (s *Tenants) Get(ctx context.Context, id string) (model.Tenant, error) {
	t, err := s.tenants.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Tenant{}, apperr.New(apperr.NotFound, "tenant not found")
		}
		return model.Tenant{}, err
	}
	return t, nil
}

// bootstrapAdmin creates the tenant's first TENANT_ADMIN with a random
// temporary password. Idempotent: an existing user with the contact email
// inside this tenant is reused, not duplicated.
func (s *Tenants) bootstrapAdmin(ctx context.Context, t *model.Tenant) error {
	existing, err := s.users.GetByEmail(ctx, t.ContactEmail)
	switch {
	case err == nil:
		if existing.TenantID != nil && *existing.TenantID == t.ID {
			return nil
		}
		return errors.New("contact email belongs to another account")
	case errors.Is(err, sql.ErrNoRows):
		// fall through to create
	default:
		return err
	}

	tempPassword, err := utils.NewTempPassword()
	if err != nil {
		return err
	}
	hash, err := utils.HashPassword(tempPassword, s.cfg.BcryptCost)
	if err != nil {
		return err
	}
	admin := model.User{
		ID:           uuid.NewString(),
		Email:        t.ContactEmail,
		PasswordHash: hash,
		Role:         model.RoleTenantAdmin,
		TenantID:     &t.ID,
		IsActive:     true,
	}
	return s.users.Create(ctx, &admin)
}

// Slugify derives a URL-safe slug from a tenant name: lowercase, runs of
// non-alphanumerics collapsed to single hyphens, trimmed at both ends.
func Slugify(name string) string {
	var b strings.Builder
	lastHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(name) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}
