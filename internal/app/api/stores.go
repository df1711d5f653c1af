package api

import (
	"context"
	"log/slog"

	goredis "github.com/redis/go-redis/v9"

	adminmemory "github.com/Apurer/go-gin-storefront-api/internal/domains/admin/adapters/memory"
	adminmongo "github.com/Apurer/go-gin-storefront-api/internal/domains/admin/adapters/persistence/mongo"
	adminpostgres "github.com/Apurer/go-gin-storefront-api/internal/domains/admin/adapters/persistence/postgres"
	adminredis "github.com/Apurer/go-gin-storefront-api/internal/domains/admin/adapters/redis"
	adminports "github.com/Apurer/go-gin-storefront-api/internal/domains/admin/ports"
	catalogcache "github.com/Apurer/go-gin-storefront-api/internal/domains/catalog/adapters/cache"
	catalogmemory "github.com/Apurer/go-gin-storefront-api/internal/domains/catalog/adapters/memory"
	catalogmongo "github.com/Apurer/go-gin-storefront-api/internal/domains/catalog/adapters/persistence/mongo"
	catalogpostgres "github.com/Apurer/go-gin-storefront-api/internal/domains/catalog/adapters/persistence/postgres"
	catalogstorage "github.com/Apurer/go-gin-storefront-api/internal/domains/catalog/adapters/storage"
	catalogports "github.com/Apurer/go-gin-storefront-api/internal/domains/catalog/ports"
	homepagememory "github.com/Apurer/go-gin-storefront-api/internal/domains/homepage/adapters/memory"
	homepagemongo "github.com/Apurer/go-gin-storefront-api/internal/domains/homepage/adapters/persistence/mongo"
	homepagepostgres "github.com/Apurer/go-gin-storefront-api/internal/domains/homepage/adapters/persistence/postgres"
	homepageports "github.com/Apurer/go-gin-storefront-api/internal/domains/homepage/ports"
	ordersmemory "github.com/Apurer/go-gin-storefront-api/internal/domains/orders/adapters/memory"
	ordersmongo "github.com/Apurer/go-gin-storefront-api/internal/domains/orders/adapters/persistence/mongo"
	orderspostgres "github.com/Apurer/go-gin-storefront-api/internal/domains/orders/adapters/persistence/postgres"
	ordersports "github.com/Apurer/go-gin-storefront-api/internal/domains/orders/ports"
	"github.com/Apurer/go-gin-storefront-api/internal/platform/migrations"
	platformmongo "github.com/Apurer/go-gin-storefront-api/internal/platform/mongo"
	platformpostgres "github.com/Apurer/go-gin-storefront-api/internal/platform/postgres"
	platformredis "github.com/Apurer/go-gin-storefront-api/internal/platform/redis"
)

// SessionPurger is implemented by session stores that keep expired rows
// until they are purged.
type SessionPurger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// Stores holds the adapters picked for the configured backend.
type Stores struct {
	Backend      string
	Products     catalogports.Repository
	ProductCache catalogports.ProductCache
	Images       catalogports.ImageStore
	ImageReader  catalogports.ImageReader
	Orders       ordersports.Repository
	OrderKeys    ordersports.IdempotencyStore
	Homepages    homepageports.Repository
	Admins       adminports.Repository
	Sessions     adminports.SessionStore
	// Purger is nil unless Sessions keeps expired rows.
	Purger SessionPurger
}

// OpenStores connects the configured backend. An unreachable backend falls
// back to the in-memory adapters with a warning. The returned cleanup closes
// every connection that was opened.
func OpenStores(ctx context.Context, cfg Config, logger *slog.Logger) (*Stores, func()) {
	var cleanups []func()
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}
	stores := memoryStores(cfg)

	switch cfg.StoreBackend {
	case BackendPostgres:
		db, closeDB := platformpostgres.ConnectOrNil(ctx, cfg.PostgresDSN, logger)
		cleanups = append(cleanups, closeDB)
		if db == nil {
			break
		}
		if err := migrations.Run(db); err != nil {
			logger.Warn("postgres migrations failed, falling back to in-memory repositories", slog.String("error", err.Error()))
			break
		}
		sessions := adminpostgres.NewSessionStore(db)
		stores.Backend = BackendPostgres
		stores.Products = catalogpostgres.NewRepository(db)
		stores.Orders = orderspostgres.NewRepository(db)
		stores.OrderKeys = orderspostgres.NewIdempotencyStore(db)
		stores.Homepages = homepagepostgres.NewRepository(db)
		stores.Admins = adminpostgres.NewRepository(db)
		stores.Sessions = sessions
		stores.Purger = sessions
		logger.Info("repositories configured with postgres")
	case BackendMongo:
		db, closeDB := platformmongo.ConnectOrNil(ctx, cfg.MongoURI, cfg.MongoDB, logger)
		cleanups = append(cleanups, closeDB)
		if db == nil {
			break
		}
		if err := platformmongo.EnsureIndexes(ctx, db); err != nil {
			logger.Warn("mongo index setup failed, falling back to in-memory repositories", slog.String("error", err.Error()))
			break
		}
		stores.Backend = BackendMongo
		stores.Products = catalogmongo.NewRepository(db)
		stores.Orders = ordersmongo.NewRepository(db)
		stores.OrderKeys = ordersmongo.NewIdempotencyStore(db)
		stores.Homepages = homepagemongo.NewRepository(db)
		stores.Admins = adminmongo.NewRepository(db)
		if bucket, err := catalogstorage.NewGridFS(db, cfg.PublicBaseURL); err != nil {
			logger.Warn("gridfs unavailable, image uploads keep the default store", slog.String("error", err.Error()))
		} else {
			stores.Images, stores.ImageReader = bucket, bucket
		}
		logger.Info("repositories configured with mongo", slog.String("database", cfg.MongoDB))
	default:
		logger.Info("repositories configured in memory")
	}

	if cfg.RedisURL != "" {
		client, closeRedis := platformredis.ConnectOrNil(ctx, cfg.RedisURL, logger)
		cleanups = append(cleanups, closeRedis)
		if client != nil {
			useRedis(stores, client, cfg)
			logger.Info("product cache and admin sessions configured with redis")
		}
	}
	return stores, cleanup
}

func memoryStores(cfg Config) *Stores {
	stores := &Stores{
		Backend:      BackendMemory,
		Products:     catalogmemory.NewRepository(),
		ProductCache: catalogcache.NewMemory(cfg.CacheTTL(), nil),
		Orders:       ordersmemory.NewRepository(),
		OrderKeys:    ordersmemory.NewIdempotencyStore(),
		Homepages:    homepagememory.NewRepository(),
		Admins:       adminmemory.NewRepository(),
		Sessions:     adminmemory.NewSessionStore(),
	}
	if cfg.MediaDir != "" {
		local := catalogstorage.NewLocal(cfg.MediaDir, cfg.PublicBaseURL)
		stores.Images, stores.ImageReader = local, local
	}
	return stores
}

func useRedis(stores *Stores, client *goredis.Client, cfg Config) {
	stores.ProductCache = catalogcache.NewRedis(client, cfg.CacheTTL())
	stores.Sessions = adminredis.NewSessionStore(client)
	stores.Purger = nil
}
