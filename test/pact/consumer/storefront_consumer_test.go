//go:build pact
// +build pact

package consumer_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	pacttest "github.com/Apurer/go-gin-storefront-api/test/pact"

	pactconsumer "github.com/pact-foundation/pact-go/v2/consumer"
	pactlog "github.com/pact-foundation/pact-go/v2/log"
	"github.com/pact-foundation/pact-go/v2/matchers"
	"github.com/stretchr/testify/require"
)

type problemDetail struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail"`
}

type apiError struct {
	status int
	title  string
	detail string
}

func (e apiError) Error() string {
	msg := e.title
	if msg == "" {
		msg = "api error"
	}
	if e.detail != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.detail)
	}
	return fmt.Sprintf("%s (status %d)", msg, e.status)
}

func TestStorefrontContract(t *testing.T) {
	pactlog.SetLogLevel("INFO")

	pact, err := pactconsumer.NewV2Pact(pactconsumer.MockHTTPProviderConfig{
		Consumer: pacttest.ConsumerName,
		Provider: pacttest.ProviderName,
		PactDir:  pacttest.PactDir(t),
		LogDir:   pacttest.LogDir(t),
	})
	require.NoError(t, err)

	jsonContentType := matchers.Regex("application/json; charset=utf-8", "application\\/json(?:;\\s?charset=utf-8)?")
	localized := matchers.Map{"en": matchers.Like("Summer sale"), "fr": matchers.Like("Soldes d'ete")}
	productMatcher := matchers.Map{
		"id":              matchers.Like("6c1f0f0e-8d1b-4c33-9c1e-1b7f4d3a2b10"),
		"price":           matchers.Like(12500),
		"originalPrice":   matchers.Like(15000),
		"discountPercent": matchers.Like(17),
		"formattedPrice":  matchers.Like("12 500 FCFA"),
		"translations": matchers.Map{
			"en": matchers.Map{"name": matchers.Like("Wireless headset")},
			"fr": matchers.Map{"name": matchers.Like("Casque sans fil")},
		},
	}
	notFound := matchers.Map{
		"type":   matchers.S("/problems/not-found"),
		"title":  matchers.S("Resource Not Found"),
		"status": matchers.Like(http.StatusNotFound),
	}

	pact.AddInteraction().
		Given(pacttest.StateCatalogSeeded).
		UponReceiving("a request for the catalog").
		WithRequest("GET", "/api/products").
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.EachLike(productMatcher, 1))
		})

	pact.AddInteraction().
		Given(pacttest.StateProductMissing).
		UponReceiving("a request for a missing product").
		WithRequest("GET", "/api/products/"+pacttest.MissingProductID).
		WillRespondWith(http.StatusNotFound, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", matchers.S("application/problem+json"))
			b.JSONBody(notFound)
		})

	pact.AddInteraction().
		Given(pacttest.StateHomepageActive).
		UponReceiving("a request for the active homepage").
		WithRequest("GET", "/api/homepage").
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{
				"id":       matchers.Like("homepage-1"),
				"isActive": matchers.Like(true),
				"hero":     matchers.Map{"title": localized},
			})
		})

	pact.AddInteraction().
		Given(pacttest.StateCheckoutOpen).
		UponReceiving("a checkout").
		WithRequest("POST", "/api/orders", func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", matchers.S("application/json"))
			b.JSONBody(pacttest.ExampleOrderPayload())
		}).
		WillRespondWith(http.StatusCreated, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{
				"id":          matchers.Like("2f0c8f9a-3b7e-4bb4-a7a8-0e9d1c2b3a4f"),
				"status":      matchers.S("pending"),
				"totalAmount": matchers.Like(25000),
			})
		})

	err = pact.ExecuteTest(t, func(config pactconsumer.MockServerConfig) error {
		client := newStorefrontClient(config)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var products []map[string]any
		if err := client.get(ctx, "/api/products", &products); err != nil {
			return fmt.Errorf("list products: %w", err)
		}
		if len(products) == 0 {
			return fmt.Errorf("expected at least one product")
		}
		if err := client.get(ctx, "/api/products/"+pacttest.MissingProductID, nil); !isStatus(err, http.StatusNotFound) {
			return fmt.Errorf("expected 404 for missing product, got %v", err)
		}

		var homepage map[string]any
		if err := client.get(ctx, "/api/homepage", &homepage); err != nil {
			return fmt.Errorf("active homepage: %w", err)
		}

		var order map[string]any
		if err := client.post(ctx, "/api/orders", pacttest.ExampleOrderPayload(), &order); err != nil {
			return fmt.Errorf("place order: %w", err)
		}
		if order["status"] != "pending" {
			return fmt.Errorf("expected pending order, got %v", order["status"])
		}
		return nil
	})
	require.NoError(t, err)
}

type storefrontClient struct {
	baseURL    string
	httpClient *http.Client
}

func newStorefrontClient(config pactconsumer.MockServerConfig) *storefrontClient {
	host := config.Host
	if host == "" {
		host = "localhost"
	}
	transport := &http.Transport{TLSClientConfig: config.TLSConfig}
	return &storefrontClient{
		baseURL:    fmt.Sprintf("http://%s:%d", host, config.Port),
		httpClient: &http.Client{Transport: transport, Timeout: 10 * time.Second},
	}
}

func (c *storefrontClient) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *storefrontClient) post(ctx context.Context, path string, body, out any) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *storefrontClient) do(req *http.Request, out any) error {
	res, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode >= http.StatusBadRequest {
		var problem problemDetail
		_ = json.NewDecoder(res.Body).Decode(&problem)
		status := problem.Status
		if status == 0 {
			status = res.StatusCode
		}
		return apiError{status: status, title: problem.Title, detail: problem.Detail}
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(res.Body).Decode(out)
}

func isStatus(err error, status int) bool {
	apiErr, ok := err.(apiError)
	return ok && apiErr.status == status
}
