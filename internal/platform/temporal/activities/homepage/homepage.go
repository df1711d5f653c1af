package homepage

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"

	homepagedomain "github.com/Apurer/go-gin-storefront-api/internal/domains/homepage/domain"
	homepageports "github.com/Apurer/go-gin-storefront-api/internal/domains/homepage/ports"
)

const (
	// CreateDraftActivityName stores a configuration that is never active.
	CreateDraftActivityName = "homepage.activities.CreateDraft"
	// ActivateActivityName makes a stored configuration the active one.
	ActivateActivityName = "homepage.activities.Activate"
)

// Activities groups activities that operate on the homepage bounded context.
type Activities struct {
	service homepageports.Service
}

func NewActivities(service homepageports.Service) *Activities {
	return &Activities{service: service}
}

// CreateDraft stores draft with IsActive forced off so the insert never
// touches the active configuration.
func (a *Activities) CreateDraft(ctx context.Context, draft homepagedomain.Draft) (*homepagedomain.Homepage, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.service == nil {
		logger.Error("homepage draft activity not initialized")
		return nil, errors.New("homepage draft activity not initialized")
	}
	draft.IsActive = false
	logger.Info("CreateDraft activity started")
	homepage, err := a.service.CreateHomepage(ctx, draft)
	if err != nil {
		logger.Error("CreateDraft activity failed", "error", err)
		return nil, err
	}
	logger.Info("CreateDraft activity completed", "homepageId", homepage.ID)
	return homepage, nil
}

// Activate is idempotent: activating the already-active configuration only
// refreshes its UpdatedAt.
func (a *Activities) Activate(ctx context.Context, id string) (*homepagedomain.Homepage, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.service == nil {
		logger.Error("homepage activate activity not initialized", "homepageId", id)
		return nil, errors.New("homepage activate activity not initialized")
	}
	logger.Info("Activate activity started", "homepageId", id)
	active := true
	homepage, err := a.service.UpdateHomepage(ctx, id, homepagedomain.Patch{IsActive: &active})
	if err != nil {
		logger.Error("Activate activity failed", "homepageId", id, "error", err)
		return nil, err
	}
	logger.Info("Activate activity completed", "homepageId", id)
	return homepage, nil
}
