package storefrontserver

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	adminhttpmapper "github.com/Apurer/go-gin-storefront-api/internal/domains/admin/adapters/http/mapper"
	admindomain "github.com/Apurer/go-gin-storefront-api/internal/domains/admin/domain"
	adminports "github.com/Apurer/go-gin-storefront-api/internal/domains/admin/ports"
	apierrors "github.com/Apurer/go-gin-storefront-api/internal/shared/errors"
)

// SessionContextKey is the gin context key holding the authenticated
// *admindomain.Session.
const SessionContextKey = "admin_session"

// AdminAPI wires HTTP transport with the admin authentication service.
type AdminAPI struct {
	service adminports.Service
}

// NewAdminAPI creates an AdminAPI backed by the provided service.
func NewAdminAPI(service adminports.Service) AdminAPI {
	return AdminAPI{service: service}
}

// Post /admin/login
// Exchanges credentials for a bearer token
func (api *AdminAPI) Login(c *gin.Context) {
	var payload adminhttpmapper.LoginRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	token, err := api.service.Login(c.Request.Context(), payload.Email, payload.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, adminhttpmapper.FromDomainToken(token))
}

// Post /admin/api/logout
func (api *AdminAPI) Logout(c *gin.Context) {
	if err := api.service.Logout(c.Request.Context(), bearerToken(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Get /admin/api/session
func (api *AdminAPI) Session(c *gin.Context) {
	session, ok := CurrentSession(c)
	if !ok {
		respondProblem(c, apierrors.ErrUnauthorized.WithDetail("authentication required"))
		return
	}
	c.JSON(http.StatusOK, adminhttpmapper.FromDomainSession(session))
}

// AdminAuth rejects requests without a live admin session and stores the
// session under SessionContextKey.
func (api *AdminAPI) AdminAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			respondProblem(c, apierrors.ErrUnauthorized.WithDetail("missing bearer token"))
			return
		}
		session, err := api.service.Authenticate(c.Request.Context(), token)
		if err != nil {
			respondError(c, err)
			return
		}
		c.Set(SessionContextKey, session)
		c.Next()
	}
}

// CurrentSession returns the session stored by AdminAuth.
func CurrentSession(c *gin.Context) (*admindomain.Session, bool) {
	value, ok := c.Get(SessionContextKey)
	if !ok {
		return nil, false
	}
	session, ok := value.(*admindomain.Session)
	return session, ok && session != nil
}

func bearerToken(c *gin.Context) string {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
