//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const (
	ProviderName = "storefront-api"
	ConsumerName = "storefront-web"

	StateCatalogSeeded  = "catalog has products"
	StateProductMissing = "no product with id missing-product"
	StateHomepageActive = "an active homepage exists"
	StateCheckoutOpen   = "checkout accepts orders"
)

const MissingProductID = "missing-product"

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// PactFile returns the canonical pact file path for the storefront consumer.
func PactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), ConsumerName+"-"+ProviderName+".json")
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

// ExampleProductPayload is the admin payload used to seed the catalog.
func ExampleProductPayload() map[string]any {
	return map[string]any{
		"price":         12500,
		"originalPrice": 15000,
		"image":         "https://example.pact/media/products/casque.png",
		"features":      []string{"Bluetooth 5.3"},
		"translations": map[string]any{
			"en": map[string]string{"name": "Wireless headset", "description": "Noise cancelling"},
			"fr": map[string]string{"name": "Casque sans fil", "description": "Reduction de bruit"},
		},
	}
}

// ExampleOrderPayload is a valid public checkout.
func ExampleOrderPayload() map[string]any {
	return map[string]any{
		"customerName":    "Awa Ngono",
		"customerPhone":   "+237600000000",
		"customerAddress": "Bonapriso, Douala",
		"products": []map[string]any{
			{"id": "p-101", "name": "Casque sans fil", "price": 12500, "quantity": 2},
		},
		"totalAmount": 25000,
	}
}

// projectRoot walks up from this file to the workspace root.
func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
