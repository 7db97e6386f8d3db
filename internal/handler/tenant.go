package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/fieldline/platform/internal/middleware"
	"github.com/fieldline/platform/internal/model"
	"github.com/fieldline/platform/internal/service"
)

// provisionTimeout bounds tenant creation, which runs schema DDL inline.
const provisionTimeout = 30 * time.Second

// TenantHandler bundles dependencies for tenant administration endpoints.
type TenantHandler struct {
	Tenants *service.Tenants
}

func NewTenantHandler(t *service.Tenants) *TenantHandler {
	return &TenantHandler{Tenants: t}
}

type createTenantReq struct {
	Name         string `json:"name"`
	Slug         string `json:"slug"`
	Plan         string `json:"plan"`
	ContactEmail string `json:"contact_email"`
}

type tenantResp struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Slug         string     `json:"slug"`
	Status       string     `json:"status"`
	Plan         string     `json:"plan"`
	MaxUsers     int        `json:"max_users"`
	TrialEndsAt  *time.Time `json:"trial_ends_at,omitempty"`
	SchemaName   string     `json:"schema_name"`
	CreatedAt    time.Time  `json:"created_at"`
}

func toTenantResp(t model.Tenant) tenantResp {
	return tenantResp{
		ID:          t.ID,
		Name:        t.Name,
		Slug:        t.Slug,
		Status:      string(t.Status),
		Plan:        t.Plan,
		MaxUsers:    t.MaxUsers,
		TrialEndsAt: t.TrialEndsAt,
		SchemaName:  t.SchemaName(),
		CreatedAt:   t.CreatedAt,
	}
}

// Create provisions a new tenant synchronously. The response status is 201
// even when the tenant ends up PENDING: the row exists and the body's
// status field tells the caller whether provisioning completed.
func (h *TenantHandler) Create(c echo.Context) error {
	var req createTenantReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), provisionTimeout)
	defer cancel()

	t, err := h.Tenants.CreateTenant(ctx, service.CreateTenantInput{
		Name:         req.Name,
		Slug:         req.Slug,
		Plan:         req.Plan,
		ContactEmail: req.ContactEmail,
	}, middleware.UserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, toTenantResp(t))
}

// Get returns one tenant.
func (h *TenantHandler) Get(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	t, err := h.Tenants.Get(ctx, c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toTenantResp(t))
}
