package storefrontserver

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	homepagehttpmapper "github.com/Apurer/go-gin-storefront-api/internal/domains/homepage/adapters/http/mapper"
	homepagedomain "github.com/Apurer/go-gin-storefront-api/internal/domains/homepage/domain"
	homepageports "github.com/Apurer/go-gin-storefront-api/internal/domains/homepage/ports"
)

// IdempotencyKeyHeader deduplicates retried homepage publications.
const IdempotencyKeyHeader = "Idempotency-Key"

// HomepagesAPI wires HTTP transport with the homepage bounded context service
// and its publication workflow.
type HomepagesAPI struct {
	service   homepageports.Service
	workflows homepageports.WorkflowOrchestrator
}

// NewHomepagesAPI creates a HomepagesAPI. workflows may be nil, in which case
// active drafts are created directly through the service.
func NewHomepagesAPI(service homepageports.Service, workflows homepageports.WorkflowOrchestrator) HomepagesAPI {
	return HomepagesAPI{service: service, workflows: workflows}
}

// Get /api/homepage
// Returns the active homepage configuration
func (api *HomepagesAPI) GetActiveHomepage(c *gin.Context) {
	homepage, err := api.service.GetActiveHomepage(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, homepagehttpmapper.FromDomainHomepage(homepage))
}

// Get /admin/api/homepages
func (api *HomepagesAPI) ListHomepages(c *gin.Context) {
	homepages, err := api.service.GetAllHomepages(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, homepagehttpmapper.FromDomainHomepages(homepages))
}

// Post /admin/api/homepages
// Creates a configuration; an active one replaces the current homepage
func (api *HomepagesAPI) CreateHomepage(c *gin.Context) {
	var payload homepagehttpmapper.HomepageInput
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	homepage, err := api.createHomepage(c.Request.Context(), homepagehttpmapper.ToDraft(payload), c.GetHeader(IdempotencyKeyHeader))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, homepagehttpmapper.FromDomainHomepage(homepage))
}

func (api *HomepagesAPI) createHomepage(ctx context.Context, draft homepagedomain.Draft, idempotencyKey string) (*homepagedomain.Homepage, error) {
	if draft.IsActive && api.workflows != nil {
		return api.workflows.Publish(ctx, homepageports.PublishInput{Draft: draft, IdempotencyKey: idempotencyKey})
	}
	return api.service.CreateHomepage(ctx, draft)
}

// Put /admin/api/homepages/:id
// Applies a partial update; isActive=true demotes every other configuration
func (api *HomepagesAPI) UpdateHomepage(c *gin.Context) {
	var payload homepagehttpmapper.HomepagePatch
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	homepage, err := api.service.UpdateHomepage(c.Request.Context(), c.Param("id"), homepagehttpmapper.ToPatch(payload))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, homepagehttpmapper.FromDomainHomepage(homepage))
}
