package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fieldline/platform/internal/model"
)

// RequireRole enforces that the authenticated user holds at least the
// given role. Roles are totally ordered, so a single minimum expresses
// every gate this API needs. Assumes JWTAuth ran earlier on the chain.
func RequireRole(min model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := RoleOf(c)
			if !ok || !role.MeetsOrExceeds(min) {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
