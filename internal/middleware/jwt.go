package middleware // middleware provides shared request processing for handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/fieldline/platform/internal/model"
	"github.com/fieldline/platform/internal/utils"
)

// Context keys populated by JWTAuth.
const (
	CtxUserID   = "user_id"
	CtxEmail    = "email"
	CtxRole     = "role"
	CtxTenantID = "tenant_id"
)

// JWTAuth returns an Echo middleware that validates a Bearer access token
// and injects the subject, email, role and tenant claims into the request
// context. The secret must match the one used when issuing tokens. Tokens
// whose role claim does not parse are rejected; downstream middleware
// relies on a well-formed role.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			claims, err := utils.ParseAccessToken(secret, raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}

			sub, _ := claims["sub"].(string)
			roleStr, _ := claims["role"].(string)
			role, err := model.ParseRole(roleStr)
			if sub == "" || err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
			}

			c.Set(CtxUserID, sub)
			c.Set(CtxRole, role)
			if email, ok := claims["email"].(string); ok {
				c.Set(CtxEmail, email)
			}
			if tid, ok := claims["tenant_id"].(string); ok && tid != "" {
				c.Set(CtxTenantID, tid)
			}
			return next(c)
		}
	}
}

// UserID returns the authenticated user id stored by JWTAuth, or "".
func UserID(c echo.Context) string {
	if v, ok := c.Get(CtxUserID).(string); ok {
		return v
	}
	return ""
}

// TenantID returns the authenticated tenant id stored by JWTAuth, or "".
// Super admin tokens have no tenant claim.
func TenantID(c echo.Context) string {
	if v, ok := c.Get(CtxTenantID).(string); ok {
		return v
	}
	return ""
}

// RoleOf returns the authenticated role stored by JWTAuth. The boolean is
// false when no valid token was processed.
func RoleOf(c echo.Context) (model.Role, bool) {
	v, ok := c.Get(CtxRole).(model.Role)
	return v, ok
}
