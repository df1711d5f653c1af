// Package mongo connects to MongoDB and owns the collection indexes used by
// the document-store adapters.
package mongo

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Collection names shared by adapters and index setup.
const (
	ProductsCollection  = "products"
	OrdersCollection    = "orders"
	HomepagesCollection = "homepage"
	AdminsCollection    = "admins"
	OrderKeysCollection = "order_idempotency_keys"
)

// Connect dials MongoDB and verifies the primary is reachable.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	if strings.TrimSpace(uri) == "" {
		return nil, fmt.Errorf("mongo URI is empty")
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).SetServerSelectionTimeout(5*time.Second))
	if err != nil {
		return nil, err
	}
	if err := Ping(ctx, client); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return client, nil
}

// Ping checks the primary with a short deadline.
func Ping(ctx context.Context, client *mongo.Client) error {
	if client == nil {
		return fmt.Errorf("mongo client not configured")
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return Translate(client.Ping(ctx, readpref.Primary()), nil)
}

// ConnectOrNil mirrors the postgres helper: failures are logged and yield a
// nil database so callers can fall back to memory adapters.
func ConnectOrNil(ctx context.Context, uri, database string, logger *slog.Logger) (*mongo.Database, func()) {
	if strings.TrimSpace(uri) == "" {
		return nil, func() {}
	}
	client, err := Connect(ctx, uri)
	if err != nil {
		if logger != nil {
			logger.Warn("failed to connect to mongo, falling back to in-memory repositories", slog.String("error", err.Error()))
		}
		return nil, func() {}
	}
	db := client.Database(database)
	if err := EnsureIndexes(ctx, db); err != nil && logger != nil {
		logger.Warn("mongo index setup incomplete", slog.String("error", err.Error()))
	}
	if logger != nil {
		logger.Info("mongo connection established", slog.String("database", db.Name()))
	}
	return db, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(shutdownCtx)
	}
}
