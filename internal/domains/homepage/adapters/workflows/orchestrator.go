package workflows

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	oteltrace "go.opentelemetry.io/otel/trace"
	enumspb "go.temporal.io/api/enums/v1"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"

	"github.com/Apurer/go-gin-storefront-api/internal/domains/homepage/domain"
	"github.com/Apurer/go-gin-storefront-api/internal/domains/homepage/ports"
	homepageworkflows "github.com/Apurer/go-gin-storefront-api/internal/durable/temporal/workflows/homepage"
)

var (
	_ ports.WorkflowOrchestrator = (*TemporalPublication)(nil)
	_ ports.WorkflowOrchestrator = (*InlinePublication)(nil)
)

// TemporalPublication starts homepage publication workflows on a Temporal
// cluster and waits for their result.
type TemporalPublication struct {
	client    client.Client
	taskQueue string
}

func NewTemporalPublication(c client.Client) *TemporalPublication {
	return &TemporalPublication{client: c, taskQueue: homepageworkflows.PublicationTaskQueue}
}

// Publish runs the two-phase publication workflow. Repeating an idempotency
// key joins the execution started for it, whether still running or already
// completed; only a failed run may be started again under the same key.
func (o *TemporalPublication) Publish(ctx context.Context, input ports.PublishInput) (*domain.Homepage, error) {
	if o == nil || o.client == nil {
		return nil, errors.New("temporal homepage workflows not configured")
	}
	traceComponent := workflowTraceComponent(ctx)
	workflowID := buildPublicationWorkflowID(input.IdempotencyKey, traceComponent)
	options := client.StartWorkflowOptions{
		ID:                                       workflowID,
		TaskQueue:                                o.taskQueue,
		WorkflowIDReusePolicy:                    enumspb.WORKFLOW_ID_REUSE_POLICY_ALLOW_DUPLICATE_FAILED_ONLY,
		WorkflowExecutionErrorWhenAlreadyStarted: true,
	}
	run, err := o.client.ExecuteWorkflow(
		ctx,
		options,
		homepageworkflows.PublicationWorkflowName,
		homepageworkflows.PublicationWorkflowInput{Draft: input.Draft, TraceID: traceComponent},
	)
	if err != nil {
		var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
		if errors.As(err, &alreadyStarted) && strings.TrimSpace(input.IdempotencyKey) != "" {
			run = o.client.GetWorkflow(ctx, workflowID, alreadyStarted.RunId)
		} else {
			return nil, err
		}
	}
	var homepage domain.Homepage
	if err := run.Get(ctx, &homepage); err != nil {
		return nil, err
	}
	return &homepage, nil
}

// InlinePublication creates the homepage in a single service call, used when
// Temporal is disabled or unreachable.
type InlinePublication struct {
	service ports.Service
}

func NewInlinePublication(service ports.Service) *InlinePublication {
	return &InlinePublication{service: service}
}

func (o *InlinePublication) Publish(ctx context.Context, input ports.PublishInput) (*domain.Homepage, error) {
	if o == nil || o.service == nil {
		return nil, errors.New("inline homepage workflows not configured")
	}
	return o.service.CreateHomepage(ctx, input.Draft)
}

func buildPublicationWorkflowID(idempotencyKey, traceComponent string) string {
	if key := strings.TrimSpace(idempotencyKey); key != "" {
		return fmt.Sprintf("homepage-publication-idem-%s", hashIdempotencyKey(key))
	}
	return fmt.Sprintf("homepage-publication-%d-%s", time.Now().UnixNano(), traceComponent)
}

func hashIdempotencyKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	// First 16 hex chars keep the ID short and deterministic.
	return hex.EncodeToString(sum[:8])
}

func workflowTraceComponent(ctx context.Context) string {
	if traceID := workflowTraceID(ctx); traceID != "" {
		return traceID
	}
	return fmt.Sprintf("fallback-%d", time.Now().UnixNano())
}

func workflowTraceID(ctx context.Context) string {
	spanCtx := oteltrace.SpanFromContext(ctx).SpanContext()
	if !spanCtx.IsValid() {
		return ""
	}
	return spanCtx.TraceID().String()
}
