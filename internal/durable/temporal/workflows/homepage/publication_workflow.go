package homepage

import (
	"go.temporal.io/sdk/workflow"

	homepagedomain "github.com/Apurer/go-gin-storefront-api/internal/domains/homepage/domain"
	"github.com/Apurer/go-gin-storefront-api/internal/durable/temporal/sequences"
)

const (
	// PublicationWorkflowName is the public identifier for registering the workflow.
	PublicationWorkflowName = "homepage.workflows.Publication"
	// PublicationTaskQueue is the queue consumed by the worker processing homepage workflows.
	PublicationTaskQueue = "HOMEPAGE_PUBLICATION"
)

// PublicationWorkflowInput carries the draft to publish.
type PublicationWorkflowInput struct {
	Draft   homepagedomain.Draft
	TraceID string
}

// PublicationWorkflow creates a homepage configuration and activates it in
// two separately retried steps.
func PublicationWorkflow(ctx workflow.Context, input PublicationWorkflowInput) (*homepagedomain.Homepage, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("PublicationWorkflow started", withTraceID(input.TraceID, "activate", input.Draft.IsActive)...)
	homepage, err := sequences.RunHomepagePublicationSequence(ctx, input.Draft)
	if err != nil {
		logger.Error("PublicationWorkflow failed", withTraceID(input.TraceID, "error", err)...)
		return nil, err
	}
	logger.Info("PublicationWorkflow completed", withTraceID(input.TraceID, "homepageId", homepage.ID)...)
	return homepage, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
