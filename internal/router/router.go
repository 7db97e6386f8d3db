// Package router wires HTTP routes to their handlers and middleware.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/fieldline/platform/internal/config"
	"github.com/fieldline/platform/internal/handler"
	"github.com/fieldline/platform/internal/middleware"
	"github.com/fieldline/platform/internal/model"
)

// Handlers collects every handler the router mounts.
type Handlers struct {
	Auth        *handler.AuthHandler
	Invitations *handler.InvitationHandler
	Tenants     *handler.TenantHandler
	Browser     *handler.BrowserHandler
}

// Register mounts all application routes on the Echo instance.
//
// Open endpoints live under /v1/auth behind the Redis rate limiter.
// Everything else requires a valid access token; role gates are applied
// per group using the ordered role hierarchy.
func Register(e *echo.Echo, cfg config.Config, rlCfg config.RateLimitConfig, rdb *redis.Client, h Handlers) {
	e.GET("/healthz", handler.Health)

	// Unauthenticated auth surface: login, token refresh and invitation
	// redemption. Rate limited per IP before any database work.
	open := e.Group("/v1/auth")
	open.Use(middleware.NewTokenBucket(rlCfg, rdb))
	open.POST("/login", h.Auth.Login)
	open.POST("/refresh", h.Auth.Refresh)
	open.GET("/invitations/:token", h.Invitations.Validate)
	open.POST("/invitations/accept", h.Invitations.Accept)

	// Everything below requires a valid access token.
	api := e.Group("/v1")
	api.Use(middleware.JWTAuth(cfg.JWTSecret))
	api.POST("/auth/logout", h.Auth.Logout)
	api.GET("/me", h.Auth.Me)

	// Invitation administration: tenant admins and above.
	admin := api.Group("", middleware.RequireRole(model.RoleTenantAdmin))
	admin.POST("/invitations", h.Invitations.Create)
	admin.POST("/invitations/:id/resend", h.Invitations.Resend)
	admin.DELETE("/invitations/:id", h.Invitations.Cancel)

	// Data browser: tenant admins browse their own tenant, super admins any.
	admin.GET("/tenants/:id/schemas", h.Browser.Schemas)
	admin.GET("/tenants/:id/schemas/:schema/tables/:table", h.Browser.TableSchema)

	// Tenant provisioning is platform-level.
	super := api.Group("", middleware.RequireRole(model.RoleSuperAdmin))
	super.POST("/tenants", h.Tenants.Create)
	super.GET("/tenants/:id", h.Tenants.Get)
}
