// Package handler contains the Echo HTTP handlers fronting the identity
// and tenant-access services.
package handler

import (
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fieldline/platform/internal/apperr"
)

// writeError maps service errors to HTTP responses. Typed apperr kinds
// carry user-safe messages and map to their status codes; anything else is
// an infrastructure fault, logged in full and reported generically.
func writeError(c echo.Context, err error) error {
	if kind, ok := apperr.KindOf(err); ok {
		return c.JSON(statusFor(kind), echo.Map{"error": err.Error()})
	}
	log.Printf("handler: %s %s: %v", c.Request().Method, c.Path(), err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}

func statusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.Unauthenticated:
		return http.StatusUnauthorized
	case apperr.InvalidRequest:
		return http.StatusBadRequest
	case apperr.Forbidden:
		return http.StatusForbidden
	case apperr.Conflict:
		return http.StatusConflict
	case apperr.NotFound:
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
