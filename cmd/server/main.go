package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/fieldline/platform/internal/config"
	"github.com/fieldline/platform/internal/database"
	"github.com/fieldline/platform/internal/handler"
	"github.com/fieldline/platform/internal/provision"
	"github.com/fieldline/platform/internal/queue"
	"github.com/fieldline/platform/internal/repository"
	"github.com/fieldline/platform/internal/router"
	"github.com/fieldline/platform/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; rate limiting disabled")
	}

	events := queue.NewPublisher(cfg.AMQPURL)
	go queue.StartAuditConsumer(cfg.AMQPURL)

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	invites := repository.NewInvitationRepo(db)
	tenants := repository.NewTenantRepo(db)
	modules := repository.NewModuleRepo(db)
	catalog := repository.NewCatalogRepo(db)

	access := service.NewAccess(modules)
	auth := service.NewAuth(cfg, users, tokens, access, events)
	invitations := service.NewInvitations(cfg, invites, users, auth)
	tenantSvc := service.NewTenants(cfg, tenants, users, modules,
		provision.NewMySQLProvisioner(db), events)
	guard := service.NewSchemaGuard(tenants, modules, catalog)

	e := echo.New()
	router.Register(e, cfg, config.LoadRateLimitConfig(), rdb, router.Handlers{
		Auth:        handler.NewAuthHandler(auth),
		Invitations: handler.NewInvitationHandler(invitations),
		Tenants:     handler.NewTenantHandler(tenantSvc),
		Browser:     handler.NewBrowserHandler(guard),
	})

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
