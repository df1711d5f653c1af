package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/Apurer/go-gin-storefront-api/internal/app/api"
	adminpostgres "github.com/Apurer/go-gin-storefront-api/internal/domains/admin/adapters/persistence/postgres"
	platformpostgres "github.com/Apurer/go-gin-storefront-api/internal/platform/postgres"
)

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg, err := api.LoadConfig("")
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	db, cleanup := platformpostgres.ConnectOrNil(ctx, cfg.PostgresDSN, logger)
	defer cleanup()
	if db == nil {
		log.Fatal("POSTGRES_DSN not set or connection failed; cannot purge admin sessions")
	}

	purged, err := adminpostgres.NewSessionStore(db).PurgeExpired(ctx)
	if err != nil {
		log.Fatalf("failed to purge admin sessions: %v", err)
	}
	logger.Info("admin session purge completed", slog.Int64("purged", purged))
}
