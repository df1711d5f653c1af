package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.temporal.io/sdk/client"

	storefrontserver "github.com/Apurer/go-gin-storefront-api/go"

	adminobs "github.com/Apurer/go-gin-storefront-api/internal/domains/admin/adapters/observability"
	adminsecurity "github.com/Apurer/go-gin-storefront-api/internal/domains/admin/adapters/security"
	adminapp "github.com/Apurer/go-gin-storefront-api/internal/domains/admin/application"
	adminports "github.com/Apurer/go-gin-storefront-api/internal/domains/admin/ports"
	catalogobs "github.com/Apurer/go-gin-storefront-api/internal/domains/catalog/adapters/observability"
	catalogapp "github.com/Apurer/go-gin-storefront-api/internal/domains/catalog/application"
	catalogports "github.com/Apurer/go-gin-storefront-api/internal/domains/catalog/ports"
	homepageobs "github.com/Apurer/go-gin-storefront-api/internal/domains/homepage/adapters/observability"
	homepageworkflows "github.com/Apurer/go-gin-storefront-api/internal/domains/homepage/adapters/workflows"
	homepageapp "github.com/Apurer/go-gin-storefront-api/internal/domains/homepage/application"
	homepageports "github.com/Apurer/go-gin-storefront-api/internal/domains/homepage/ports"
	ordersevents "github.com/Apurer/go-gin-storefront-api/internal/domains/orders/adapters/events"
	ordersobs "github.com/Apurer/go-gin-storefront-api/internal/domains/orders/adapters/observability"
	ordersapp "github.com/Apurer/go-gin-storefront-api/internal/domains/orders/application"
	ordersports "github.com/Apurer/go-gin-storefront-api/internal/domains/orders/ports"
	platformobservability "github.com/Apurer/go-gin-storefront-api/internal/platform/observability"
	platformtemporal "github.com/Apurer/go-gin-storefront-api/internal/platform/temporal"
)

const serviceName = "storefront-api"

// Services are the decorated use cases of every bounded context.
type Services struct {
	Catalog   catalogports.Service
	Orders    ordersports.Service
	Homepages homepageports.Service
	Admin     adminports.Service
}

// Run boots the storefront HTTP API and blocks until ctx is cancelled or the
// server fails.
func Run(ctx context.Context, cfg Config) error {
	instruments, shutdown, err := platformobservability.Init(ctx, cfg.Observability(serviceName))
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	stores, closeStores := OpenStores(ctx, cfg, logger)
	defer closeStores()

	events, closeEvents := buildOrderEvents(cfg, logger)
	defer closeEvents()

	services, err := BuildServices(cfg, stores, events, instruments)
	if err != nil {
		return err
	}

	publication, closePublication := selectPublication(stores.Backend, services.Homepages, func() (client.Client, error) {
		return platformtemporal.Dial(platformtemporal.Settings{
			Address:   cfg.TemporalAddress,
			Namespace: cfg.TemporalNamespace,
			Disabled:  cfg.TemporalDisabled,
		}, logger, instruments.Tracer("temporal-client"))
	}, logger)
	defer closePublication()

	if stores.Purger != nil && cfg.SessionPurgeInterval() > 0 {
		go purgeSessions(ctx, stores.Purger, cfg.SessionPurgeInterval(), logger)
	}

	engine := gin.New()
	engine.Use(gin.Recovery(), otelgin.Middleware(serviceName))
	router := storefrontserver.NewRouterWithGinEngine(engine, storefrontserver.ApiHandleFunctions{
		AdminAPI:     storefrontserver.NewAdminAPI(services.Admin),
		HomepagesAPI: storefrontserver.NewHomepagesAPI(services.Homepages, publication),
		MediaAPI:     storefrontserver.NewMediaAPI(stores.ImageReader),
		OrdersAPI:    storefrontserver.NewOrdersAPI(services.Orders, cfg.RevenueLocation()),
		ProductsAPI:  storefrontserver.NewProductsAPI(services.Catalog),
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() {
		logger.Info("storefront API listening", slog.String("addr", server.Addr), slog.String("backend", stores.Backend))
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("storefront API server exited", slog.String("addr", server.Addr), slog.String("error", err.Error()))
			return err
		}
		return nil
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	logger.Info("storefront API shutting down")
	return server.Shutdown(shutdownCtx)
}

// selectPublication picks how homepages are published. The memory backend
// always publishes inline: the Temporal worker runs in its own process and
// would write to its own empty stores.
func selectPublication(backend string, homepages homepageports.Service, dial func() (client.Client, error), logger *slog.Logger) (homepageports.WorkflowOrchestrator, func()) {
	inline := homepageworkflows.NewInlinePublication(homepages)
	if backend == BackendMemory {
		logger.Info("memory backend selected, publishing homepages inline")
		return inline, func() {}
	}
	temporalClient, err := dial()
	if err != nil {
		logger.Warn("Temporal workflows unavailable, publishing homepages inline", slog.String("error", err.Error()))
		return inline, func() {}
	}
	logger.Info("Temporal workflows enabled")
	return homepageworkflows.NewTemporalPublication(temporalClient), temporalClient.Close
}

// BuildServices wires every application service over stores and wraps each in
// its observability decorator.
func BuildServices(cfg Config, stores *Stores, events ordersports.EventPublisher, instruments *platformobservability.Instruments) (*Services, error) {
	logger := instruments.Logger

	catalogOpts := []catalogapp.Option{catalogapp.WithLogger(logger)}
	if stores.Images != nil {
		catalogOpts = append(catalogOpts, catalogapp.WithImageStore(stores.Images))
	}
	catalog := catalogobs.New(
		catalogapp.NewService(stores.Products, stores.ProductCache, catalogOpts...),
		catalogobs.WithLogger(logger),
		catalogobs.WithTracer(instruments.Tracer("internal.catalog.application")),
		catalogobs.WithMeter(instruments.Meter("internal.catalog.application")),
	)

	orders := ordersobs.New(
		ordersapp.NewService(stores.Orders,
			ordersapp.WithIdempotencyStore(stores.OrderKeys),
			ordersapp.WithEvents(events),
			ordersapp.WithLogger(logger),
		),
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
		ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
	)

	homepages := homepageobs.New(
		homepageapp.NewService(stores.Homepages),
		homepageobs.WithLogger(logger),
		homepageobs.WithTracer(instruments.Tracer("internal.homepage.application")),
		homepageobs.WithMeter(instruments.Meter("internal.homepage.application")),
	)

	issuer, err := adminsecurity.NewJWTIssuer(cfg.JWTSecret)
	if err != nil {
		return nil, fmt.Errorf("configure admin tokens: %w", err)
	}
	admin := adminobs.New(
		adminapp.NewService(stores.Admins, stores.Sessions, adminsecurity.NewBcryptHasher(cfg.BcryptCost), issuer,
			adminapp.WithSessionTTL(cfg.SessionTTL()),
			adminapp.WithLogger(logger),
		),
		adminobs.WithLogger(logger),
		adminobs.WithTracer(instruments.Tracer("internal.admin.application")),
		adminobs.WithMeter(instruments.Meter("internal.admin.application")),
	)

	return &Services{Catalog: catalog, Orders: orders, Homepages: homepages, Admin: admin}, nil
}

// buildOrderEvents publishes to Kafka when brokers are configured and logs
// the events otherwise.
func buildOrderEvents(cfg Config, logger *slog.Logger) (ordersports.EventPublisher, func()) {
	if len(cfg.KafkaBrokers) == 0 {
		return ordersevents.NewLoggingPublisher(logger), func() {}
	}
	publisher, err := ordersevents.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopicPrefix)
	if err != nil {
		logger.Warn("kafka unavailable, logging order events instead", slog.String("error", err.Error()))
		return ordersevents.NewLoggingPublisher(logger), func() {}
	}
	logger.Info("order events published to kafka", slog.Any("brokers", cfg.KafkaBrokers))
	return publisher, func() {
		if err := publisher.Close(); err != nil {
			logger.Warn("failed to close kafka publisher", slog.String("error", err.Error()))
		}
	}
}

func purgeSessions(ctx context.Context, purger SessionPurger, interval time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			purged, err := purger.PurgeExpired(ctx)
			if err != nil {
				logger.Warn("admin session purge failed", slog.String("error", err.Error()))
				continue
			}
			logger.Debug("admin sessions purged", slog.Int64("count", purged))
		}
	}
}
