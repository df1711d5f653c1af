package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	homepagedomain "github.com/Apurer/go-gin-storefront-api/internal/domains/homepage/domain"
	homepageactivities "github.com/Apurer/go-gin-storefront-api/internal/platform/temporal/activities/homepage"
)

// RunHomepagePublicationSequence stores the draft inactive and, when the
// draft asks for it, activates it in a second step.
func RunHomepagePublicationSequence(ctx workflow.Context, draft homepagedomain.Draft) (*homepagedomain.Homepage, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("homepage publication sequence started", "activate", draft.IsActive)
	// The insert is not idempotent; a retried attempt could store two copies.
	draftOptions := workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy:         &temporal.RetryPolicy{MaximumAttempts: 1},
	}
	activateOptions := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    10 * time.Second,
			MaximumAttempts:    5,
		},
	}

	var stored homepagedomain.Homepage
	err := workflow.ExecuteActivity(workflow.WithActivityOptions(ctx, draftOptions), homepageactivities.CreateDraftActivityName, draft).Get(ctx, &stored)
	if err != nil {
		logger.Error("homepage publication sequence failed to store draft", "error", err)
		return nil, err
	}
	logger.Info("homepage publication sequence stored draft", "homepageId", stored.ID)
	if !draft.IsActive {
		return &stored, nil
	}

	var activated homepagedomain.Homepage
	err = workflow.ExecuteActivity(workflow.WithActivityOptions(ctx, activateOptions), homepageactivities.ActivateActivityName, stored.ID).Get(ctx, &activated)
	if err != nil {
		logger.Error("homepage publication sequence failed to activate", "homepageId", stored.ID, "error", err)
		return &stored, err
	}
	logger.Info("homepage publication sequence activated", "homepageId", activated.ID)
	return &activated, nil
}
