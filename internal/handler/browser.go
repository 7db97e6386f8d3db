package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fieldline/platform/internal/middleware"
	"github.com/fieldline/platform/internal/model"
	"github.com/fieldline/platform/internal/service"
)

// BrowserHandler fronts the admin data browser. Every request passes the
// schema-access guard before any catalog metadata is read.
type BrowserHandler struct {
	Guard *service.SchemaGuard
}

func NewBrowserHandler(g *service.SchemaGuard) *BrowserHandler {
	return &BrowserHandler{Guard: g}
}

// scopeTenant resolves which tenant the caller may browse. Super admins
// browse any tenant; tenant admins only their own.
func scopeTenant(c echo.Context) (string, bool) {
	requested := c.Param("id")
	role, ok := middleware.RoleOf(c)
	if !ok {
		return "", false
	}
	if role == model.RoleSuperAdmin {
		return requested, true
	}
	own := middleware.TenantID(c)
	return requested, own != "" && own == requested
}

// Schemas lists the schemas the tenant is allowed to browse.
func (h *BrowserHandler) Schemas(c echo.Context) error {
	tenantID, ok := scopeTenant(c)
	if !ok {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	schemas, err := h.Guard.AllowedSchemas(ctx, tenantID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"schemas": schemas})
}

// TableSchema returns column and index metadata for one allowlisted table.
func (h *BrowserHandler) TableSchema(c echo.Context) error {
	tenantID, ok := scopeTenant(c)
	if !ok {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	ts, err := h.Guard.TableSchemaFor(ctx, tenantID, c.Param("schema"), c.Param("table"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, ts)
}
