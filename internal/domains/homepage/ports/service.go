package ports

import (
	"context"

	"github.com/Apurer/go-gin-storefront-api/internal/domains/homepage/domain"
)

// Service exposes homepage use cases to adapters.
type Service interface {
	CreateHomepage(ctx context.Context, draft domain.Draft) (*domain.Homepage, error)
	UpdateHomepage(ctx context.Context, id string, patch domain.Patch) (*domain.Homepage, error)
	GetHomepage(ctx context.Context, id string) (*domain.Homepage, error)
	GetActiveHomepage(ctx context.Context) (*domain.Homepage, error)
	GetAllHomepages(ctx context.Context) ([]*domain.Homepage, error)
}

// PublishInput asks for a configuration to be created and, when the draft is
// active, activated.
type PublishInput struct {
	Draft          domain.Draft
	IdempotencyKey string
}

// WorkflowOrchestrator exposes durable publication for the homepage context.
type WorkflowOrchestrator interface {
	Publish(ctx context.Context, input PublishInput) (*domain.Homepage, error)
}
