package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/fieldline/platform/internal/middleware"
	"github.com/fieldline/platform/internal/model"
	"github.com/fieldline/platform/internal/service"
)

// InvitationHandler bundles dependencies for invitation endpoints.
type InvitationHandler struct {
	Invitations *service.Invitations
}

func NewInvitationHandler(inv *service.Invitations) *InvitationHandler {
	return &InvitationHandler{Invitations: inv}
}

type acceptReq struct {
	Token     string `json:"token"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type createInviteReq struct {
	Email    string  `json:"email"`
	Role     string  `json:"role"`
	TenantID *string `json:"tenant_id"`
}

// Validate is the read-only token check behind the invite landing page.
// It distinguishes expired invitations from unknown tokens so the UI can
// offer a "request a new invite" flow.
func (h *InvitationHandler) Validate(c echo.Context) error {
	token := strings.TrimSpace(c.Param("token"))
	if token == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "token required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	check, err := h.Invitations.Validate(ctx, token)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, check)
}

// Accept redeems an invitation, sets the new user's password and returns a
// token pair as a fresh login would.
func (h *InvitationHandler) Accept(c echo.Context) error {
	var req acceptReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.Token) == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "token/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	pair, err := h.Invitations.Accept(ctx, strings.TrimSpace(req.Token),
		req.Password, strings.TrimSpace(req.FirstName), strings.TrimSpace(req.LastName), c.RealIP())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, pair)
}

// Create issues a new invitation. Tenant admins invite into their own
// tenant regardless of the request body; super admins must name a tenant
// unless inviting another super admin.
func (h *InvitationHandler) Create(c echo.Context) error {
	var req createInviteReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	role, err := model.ParseRole(strings.ToUpper(strings.TrimSpace(req.Role)))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown role"})
	}

	callerRole, _ := middleware.RoleOf(c)
	tenantID := req.TenantID
	if callerRole != model.RoleSuperAdmin {
		if role.MeetsOrExceeds(model.RoleTenantAdmin) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		tid := middleware.TenantID(c)
		if tid == "" {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		tenantID = &tid
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	inv, err := h.Invitations.Create(ctx, service.CreateInvitationInput{
		Email:    req.Email,
		Role:     role,
		TenantID: tenantID,
	}, middleware.UserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"id":         inv.ID,
		"token":      inv.Token, // caller builds and emails the invite link
		"email":      inv.Email,
		"role":       inv.Role.String(),
		"expires_at": inv.ExpiresAt,
	})
}

// Resend re-arms an invitation with a fresh expiry.
func (h *InvitationHandler) Resend(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	inv, err := h.Invitations.Resend(ctx, c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"id":           inv.ID,
		"expires_at":   inv.ExpiresAt,
		"resend_count": inv.ResendCount,
	})
}

// Cancel marks an invitation cancelled.
func (h *InvitationHandler) Cancel(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Invitations.Cancel(ctx, c.Param("id")); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
