package storefrontserver

import (
	"github.com/gin-gonic/gin"

	adminapp "github.com/Apurer/go-gin-storefront-api/internal/domains/admin/application"
	catalogapp "github.com/Apurer/go-gin-storefront-api/internal/domains/catalog/application"
	homepageapp "github.com/Apurer/go-gin-storefront-api/internal/domains/homepage/application"
	ordersapp "github.com/Apurer/go-gin-storefront-api/internal/domains/orders/application"
	orderdomain "github.com/Apurer/go-gin-storefront-api/internal/domains/orders/domain"
	apierrors "github.com/Apurer/go-gin-storefront-api/internal/shared/errors"
)

// responder maps the application sentinels of every bounded context ahead of
// the failure taxonomy.
var responder = apierrors.NewResponder("",
	apierrors.WhenIs(catalogapp.ErrInvalidInput, apierrors.ErrValidation),
	apierrors.WhenIs(catalogapp.ErrImagesDisabled, apierrors.ErrUnavailable),
	apierrors.WhenIs(ordersapp.ErrInvalidInput, apierrors.ErrValidation),
	apierrors.WhenIs(orderdomain.ErrInvalidStatus, apierrors.ErrValidation),
	apierrors.WhenIs(homepageapp.ErrInvalidInput, apierrors.ErrValidation),
	apierrors.WhenIs(adminapp.ErrInvalidInput, apierrors.ErrValidation),
	apierrors.WhenIs(adminapp.ErrInvalidCredentials, apierrors.ErrUnauthorized),
	apierrors.WhenIs(adminapp.ErrUnauthenticated, apierrors.ErrUnauthorized),
)

func respondProblem(c *gin.Context, problem apierrors.ProblemDetail) {
	responder.Respond(c, problem)
}

// respondError answers with the RFC 7807 problem matching err.
func respondError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	responder.RespondError(c, err)
}

func respondBadRequest(c *gin.Context, err error) {
	respondProblem(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
}
