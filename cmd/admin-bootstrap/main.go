// Command admin-bootstrap creates the storefront administrator from
// ADMIN_EMAIL and ADMIN_PASSWORD. Running it again is harmless.
package main

import (
	"context"
	"log"
	"log/slog"
	"time"

	"github.com/Apurer/go-gin-storefront-api/internal/app/api"
	ordersevents "github.com/Apurer/go-gin-storefront-api/internal/domains/orders/adapters/events"
	platformobservability "github.com/Apurer/go-gin-storefront-api/internal/platform/observability"
)

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	cfg, err := api.LoadConfig("")
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	if cfg.AdminPassword == "" {
		log.Fatal("ADMIN_PASSWORD is required")
	}
	instruments, shutdown, err := platformobservability.Init(ctx, cfg.Observability("storefront-admin-bootstrap"))
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() { _ = shutdown(context.Background()) }()
	logger := instruments.Logger

	stores, closeStores := api.OpenStores(ctx, cfg, logger)
	defer closeStores()
	if stores.Backend == api.BackendMemory {
		logger.Warn("bootstrapping into in-memory storage; the admin will not outlive this process")
	}
	services, err := api.BuildServices(cfg, stores, ordersevents.NewLoggingPublisher(logger), instruments)
	if err != nil {
		log.Fatalf("failed to build services: %v", err)
	}
	token, err := services.Admin.Bootstrap(ctx, cfg.AdminEmail, cfg.AdminPassword)
	if err != nil {
		log.Fatalf("failed to bootstrap admin: %v", err)
	}
	logger.Info("admin ready", slog.String("email", token.Session.Email), slog.Time("tokenExpiresAt", token.ExpiresAt))
}
