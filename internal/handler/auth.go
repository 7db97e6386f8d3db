package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/fieldline/platform/internal/middleware"
	"github.com/fieldline/platform/internal/model"
	"github.com/fieldline/platform/internal/service"
)

// dbTimeout bounds the store work done on behalf of one request.
const dbTimeout = 5 * time.Second

// AuthHandler bundles dependencies for the authentication endpoints.
type AuthHandler struct {
	Auth *service.Auth
}

func NewAuthHandler(auth *service.Auth) *AuthHandler {
	return &AuthHandler{Auth: auth}
}

// ----- DTOs -----

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}

type userPart struct {
	ID        string  `json:"id"`
	Email     string  `json:"email"`
	FirstName string  `json:"first_name,omitempty"`
	LastName  string  `json:"last_name,omitempty"`
	Role      string  `json:"role"`
	TenantID  *string `json:"tenant_id"`
}

type modulePart struct {
	Code         string `json:"code"`
	Name         string `json:"name"`
	DefaultRoute string `json:"default_route"`
}

func toUserPart(u model.User) userPart {
	return userPart{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role.String(),
		TenantID:  u.TenantID,
	}
}

func toModuleParts(modules []model.Module) []modulePart {
	out := make([]modulePart, 0, len(modules))
	for _, m := range modules {
		out = append(out, modulePart{Code: m.Code, Name: m.Name, DefaultRoute: m.DefaultRoute})
	}
	return out
}

// Login verifies credentials and returns a token pair.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	pair, err := h.Auth.Login(ctx, req.Email, req.Password, c.RealIP(), c.Request().UserAgent())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, pair)
}

// Refresh rotates the presented refresh token and returns a new pair.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	pair, err := h.Auth.Refresh(ctx, strings.TrimSpace(req.RefreshToken))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, pair)
}

// Logout revokes every active refresh token of the authenticated user,
// ending all sessions across devices.
func (h *AuthHandler) Logout(c echo.Context) error {
	uid := middleware.UserID(c)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Auth.Logout(ctx, uid); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// Me returns the authenticated user's record, accessible modules and
// redirect path.
func (h *AuthHandler) Me(c echo.Context) error {
	uid := middleware.UserID(c)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	u, modules, redirect, err := h.Auth.Me(ctx, uid)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"user":          toUserPart(u),
		"modules":       toModuleParts(modules),
		"redirect_path": redirect,
	})
}
