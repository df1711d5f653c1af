package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/go-gin-storefront-api/internal/app/api"
	homepageobs "github.com/Apurer/go-gin-storefront-api/internal/domains/homepage/adapters/observability"
	homepageapp "github.com/Apurer/go-gin-storefront-api/internal/domains/homepage/application"
	homepageworkflows "github.com/Apurer/go-gin-storefront-api/internal/durable/temporal/workflows/homepage"
	platformobservability "github.com/Apurer/go-gin-storefront-api/internal/platform/observability"
	platformtemporal "github.com/Apurer/go-gin-storefront-api/internal/platform/temporal"
	homepageactivities "github.com/Apurer/go-gin-storefront-api/internal/platform/temporal/activities/homepage"
)

func main() {
	ctx := context.Background()
	const serviceName = "storefront-worker"
	cfg, err := api.LoadConfig("")
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	instruments, shutdown, err := platformobservability.Init(ctx, cfg.Observability(serviceName))
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	stores, closeStores := api.OpenStores(ctx, cfg, logger)
	defer closeStores()
	if stores.Backend == api.BackendMemory {
		logger.Warn("worker runs on in-memory homepages; publications will not be visible to the API")
	}
	homepageService := homepageobs.New(
		homepageapp.NewService(stores.Homepages),
		homepageobs.WithLogger(logger),
		homepageobs.WithTracer(instruments.Tracer("internal.homepage.application")),
		homepageobs.WithMeter(instruments.Meter("internal.homepage.application")),
	)
	activities := homepageactivities.NewActivities(homepageService)

	temporalClient, err := platformtemporal.Dial(platformtemporal.Settings{
		Address:   cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Disabled:  cfg.TemporalDisabled,
	}, logger, instruments.Tracer("temporal-worker"))
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, homepageworkflows.PublicationTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(homepageworkflows.PublicationWorkflow, workflow.RegisterOptions{Name: homepageworkflows.PublicationWorkflowName})
	w.RegisterActivityWithOptions(activities.CreateDraft, activity.RegisterOptions{Name: homepageactivities.CreateDraftActivityName})
	w.RegisterActivityWithOptions(activities.Activate, activity.RegisterOptions{Name: homepageactivities.ActivateActivityName})

	logger.Info("worker listening", slog.String("taskQueue", homepageworkflows.PublicationTaskQueue), slog.String("namespace", cfg.TemporalNamespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}
