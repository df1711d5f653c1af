//go:build pact
// +build pact

package provider_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	pacttest "github.com/Apurer/go-gin-storefront-api/test/pact"

	storefrontserver "github.com/Apurer/go-gin-storefront-api/go"
	adminmemory "github.com/Apurer/go-gin-storefront-api/internal/domains/admin/adapters/memory"
	adminsecurity "github.com/Apurer/go-gin-storefront-api/internal/domains/admin/adapters/security"
	adminapp "github.com/Apurer/go-gin-storefront-api/internal/domains/admin/application"
	catalogmemory "github.com/Apurer/go-gin-storefront-api/internal/domains/catalog/adapters/memory"
	catalogobs "github.com/Apurer/go-gin-storefront-api/internal/domains/catalog/adapters/observability"
	catalogapp "github.com/Apurer/go-gin-storefront-api/internal/domains/catalog/application"
	catalogdomain "github.com/Apurer/go-gin-storefront-api/internal/domains/catalog/domain"
	catalogports "github.com/Apurer/go-gin-storefront-api/internal/domains/catalog/ports"
	homepagememory "github.com/Apurer/go-gin-storefront-api/internal/domains/homepage/adapters/memory"
	homepageobs "github.com/Apurer/go-gin-storefront-api/internal/domains/homepage/adapters/observability"
	homepageworkflows "github.com/Apurer/go-gin-storefront-api/internal/domains/homepage/adapters/workflows"
	homepageapp "github.com/Apurer/go-gin-storefront-api/internal/domains/homepage/application"
	homepagedomain "github.com/Apurer/go-gin-storefront-api/internal/domains/homepage/domain"
	homepageports "github.com/Apurer/go-gin-storefront-api/internal/domains/homepage/ports"
	ordersmemory "github.com/Apurer/go-gin-storefront-api/internal/domains/orders/adapters/memory"
	ordersobs "github.com/Apurer/go-gin-storefront-api/internal/domains/orders/adapters/observability"
	ordersapp "github.com/Apurer/go-gin-storefront-api/internal/domains/orders/application"

	"github.com/gin-gonic/gin"
	"github.com/pact-foundation/pact-go/v2/models"
	pactprovider "github.com/pact-foundation/pact-go/v2/provider"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestStorefrontProviderPact(t *testing.T) {
	gin.SetMode(gin.TestMode)

	app := newContractProviderApp(t)
	pactFile := filepath.ToSlash(pacttest.PactFile(t))
	if _, err := os.Stat(pactFile); errors.Is(err, os.ErrNotExist) {
		t.Fatalf("pact file not found at %s - run the pact consumer tests first", pactFile)
	} else {
		require.NoError(t, err)
	}

	reset := func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
		app.reset(t)
		return nil, nil
	}
	verifier := pactprovider.NewVerifier()
	stateHandlers := models.StateHandlers{
		pacttest.StateCatalogSeeded: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset(t)
			if setup {
				app.seedProduct(t)
			}
			return nil, nil
		},
		pacttest.StateProductMissing: reset,
		pacttest.StateHomepageActive: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset(t)
			if setup {
				app.seedActiveHomepage(t)
			}
			return nil, nil
		},
		pacttest.StateCheckoutOpen: reset,
	}

	err := verifier.VerifyProvider(t, pactprovider.VerifyRequest{
		ProviderBaseURL: app.server.URL,
		Provider:        pacttest.ProviderName,
		PactFiles:       []string{pactFile},
		StateHandlers:   stateHandlers,
		BeforeEach: func() error {
			app.reset(t)
			return nil
		},
	})
	require.NoError(t, err)
}

// contractProviderApp rebuilds the whole in-memory storefront on every reset
// so provider states never leak into each other.
type contractProviderApp struct {
	mu        sync.RWMutex
	handler   http.Handler
	catalog   catalogports.Service
	homepages homepageports.Service
	server    *httptest.Server
}

func newContractProviderApp(t testing.TB) *contractProviderApp {
	t.Helper()
	app := &contractProviderApp{}
	app.reset(t)
	app.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		app.mu.RLock()
		handler := app.handler
		app.mu.RUnlock()
		handler.ServeHTTP(w, r)
	}))
	t.Cleanup(app.server.Close)
	return app
}

func (a *contractProviderApp) reset(t testing.TB) {
	t.Helper()
	catalog := catalogobs.New(catalogapp.NewService(catalogmemory.NewRepository(), nil))
	orders := ordersobs.New(ordersapp.NewService(ordersmemory.NewRepository()))
	homepages := homepageobs.New(homepageapp.NewService(homepagememory.NewRepository()))
	issuer, err := adminsecurity.NewJWTIssuer("pact-provider-secret")
	require.NoError(t, err)
	admin := adminapp.NewService(adminmemory.NewRepository(), adminmemory.NewSessionStore(),
		adminsecurity.NewBcryptHasher(bcrypt.MinCost), issuer)

	router := gin.New()
	router.Use(gin.Recovery())
	router = storefrontserver.NewRouterWithGinEngine(router, storefrontserver.ApiHandleFunctions{
		AdminAPI:     storefrontserver.NewAdminAPI(admin),
		HomepagesAPI: storefrontserver.NewHomepagesAPI(homepages, homepageworkflows.NewInlinePublication(homepages)),
		MediaAPI:     storefrontserver.NewMediaAPI(nil),
		OrdersAPI:    storefrontserver.NewOrdersAPI(orders, nil),
		ProductsAPI:  storefrontserver.NewProductsAPI(catalog),
	})

	a.mu.Lock()
	defer a.mu.Unlock()
	a.handler = router
	a.catalog = catalog
	a.homepages = homepages
}

func (a *contractProviderApp) seedProduct(t testing.TB) {
	t.Helper()
	a.mu.RLock()
	defer a.mu.RUnlock()
	_, err := a.catalog.AddProduct(context.Background(), catalogdomain.ProductDraft{
		Price:         12500,
		OriginalPrice: 15000,
		Image:         "https://example.pact/media/products/casque.png",
		Features:      []string{"Bluetooth 5.3"},
		Translations: catalogdomain.Translations{
			EN: catalogdomain.Translation{Name: "Wireless headset", Description: "Noise cancelling"},
			FR: catalogdomain.Translation{Name: "Casque sans fil", Description: "Reduction de bruit"},
		},
	})
	require.NoError(t, err)
}

func (a *contractProviderApp) seedActiveHomepage(t testing.TB) {
	t.Helper()
	a.mu.RLock()
	defer a.mu.RUnlock()
	_, err := a.homepages.CreateHomepage(context.Background(), homepagedomain.Draft{Content: homepagedomain.Content{
		Hero: homepagedomain.Hero{
			Title: homepagedomain.Localized{EN: "Summer sale", FR: "Soldes d'ete"},
		},
		IsActive: true,
	}})
	require.NoError(t, err)
}
