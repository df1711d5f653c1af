package workflows

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	oteltrace "go.opentelemetry.io/otel/trace"
	enumspb "go.temporal.io/api/enums/v1"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"

	homepagememory "github.com/Apurer/go-gin-storefront-api/internal/domains/homepage/adapters/memory"
	"github.com/Apurer/go-gin-storefront-api/internal/domains/homepage/application"
	"github.com/Apurer/go-gin-storefront-api/internal/domains/homepage/domain"
	"github.com/Apurer/go-gin-storefront-api/internal/domains/homepage/ports"
)

func TestBuildPublicationWorkflowID_IdempotencyKeyIsDeterministic(t *testing.T) {
	first := buildPublicationWorkflowID(" summer-launch ", "trace-a")
	second := buildPublicationWorkflowID("summer-launch", "trace-b")

	require.Equal(t, first, second)
	require.True(t, strings.HasPrefix(first, "homepage-publication-idem-"))
	require.Len(t, strings.TrimPrefix(first, "homepage-publication-idem-"), 16)
}

func TestBuildPublicationWorkflowID_WithoutKeyUsesTrace(t *testing.T) {
	id := buildPublicationWorkflowID("", "4bf92f3577b34da6a3ce929d0e0e4736")
	require.True(t, strings.HasPrefix(id, "homepage-publication-"))
	require.True(t, strings.HasSuffix(id, "-4bf92f3577b34da6a3ce929d0e0e4736"))
}

func TestWorkflowTraceComponent(t *testing.T) {
	require.True(t, strings.HasPrefix(workflowTraceComponent(context.Background()), "fallback-"))

	traceID, err := oteltrace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	require.NoError(t, err)
	spanID, err := oteltrace.SpanIDFromHex("00f067aa0ba902b7")
	require.NoError(t, err)
	ctx := oteltrace.ContextWithSpanContext(context.Background(), oteltrace.NewSpanContext(oteltrace.SpanContextConfig{TraceID: traceID, SpanID: spanID}))
	require.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", workflowTraceComponent(ctx))
}

func TestInlinePublication_CreatesThroughService(t *testing.T) {
	svc := application.NewService(homepagememory.NewRepository())
	orchestrator := NewInlinePublication(svc)

	homepage, err := orchestrator.Publish(context.Background(), ports.PublishInput{
		Draft: domain.Draft{Content: domain.Content{IsActive: true}},
	})
	require.NoError(t, err)
	require.True(t, homepage.IsActive)

	active, err := svc.GetActiveHomepage(context.Background())
	require.NoError(t, err)
	require.Equal(t, homepage.ID, active.ID)
}

func TestTemporalPublication_RequiresClient(t *testing.T) {
	_, err := (&TemporalPublication{}).Publish(context.Background(), ports.PublishInput{})
	require.Error(t, err)
}

type fakeRun struct {
	client.WorkflowRun
	homepage domain.Homepage
}

func (r fakeRun) Get(_ context.Context, valuePtr interface{}) error {
	*(valuePtr.(*domain.Homepage)) = r.homepage
	return nil
}

// fakeTemporal reports every start as a duplicate of an earlier run.
type fakeTemporal struct {
	client.Client

	options      client.StartWorkflowOptions
	fetchedID    string
	fetchedRunID string
	existing     domain.Homepage
}

func (f *fakeTemporal) ExecuteWorkflow(_ context.Context, options client.StartWorkflowOptions, _ interface{}, _ ...interface{}) (client.WorkflowRun, error) {
	f.options = options
	return nil, serviceerror.NewWorkflowExecutionAlreadyStarted("workflow execution already started", "", "run-1")
}

func (f *fakeTemporal) GetWorkflow(_ context.Context, workflowID, runID string) client.WorkflowRun {
	f.fetchedID, f.fetchedRunID = workflowID, runID
	return fakeRun{homepage: f.existing}
}

func TestTemporalPublication_RepeatedKeyReturnsEarlierRun(t *testing.T) {
	fake := &fakeTemporal{existing: domain.Homepage{ID: "home-1"}}
	orchestrator := NewTemporalPublication(fake)

	homepage, err := orchestrator.Publish(context.Background(), ports.PublishInput{IdempotencyKey: "summer-launch"})
	require.NoError(t, err)
	require.Equal(t, "home-1", homepage.ID)

	require.Equal(t, enumspb.WORKFLOW_ID_REUSE_POLICY_ALLOW_DUPLICATE_FAILED_ONLY, fake.options.WorkflowIDReusePolicy)
	require.True(t, fake.options.WorkflowExecutionErrorWhenAlreadyStarted)
	require.Equal(t, buildPublicationWorkflowID("summer-launch", ""), fake.options.ID)
	require.Equal(t, fake.options.ID, fake.fetchedID)
	require.Equal(t, "run-1", fake.fetchedRunID)
}

func TestTemporalPublication_DuplicateWithoutKeyFails(t *testing.T) {
	fake := &fakeTemporal{}
	_, err := NewTemporalPublication(fake).Publish(context.Background(), ports.PublishInput{})

	var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
	require.ErrorAs(t, err, &alreadyStarted)
	require.Empty(t, fake.fetchedID)
}
