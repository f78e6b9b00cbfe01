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
	ProviderName = "orders-inventory-api"
	ConsumerName = "storefront-portal"

	StateCatalogBaseline = "catalog baseline"
	StateProductExists   = "product with id 101 exists"
	StateProductMissing  = "no product with id 404"
	StateOrderExists     = "order with id 301 exists"
	StateOrderMissing    = "no order with id 999"
)

const (
	ExistingProductID int64 = 101
	MissingProductID  int64 = 404

	ExistingOrderID int64 = 301
	MissingOrderID  int64 = 999
)

const (
	exampleSKU         = "PACT-SKU-001"
	exampleProductName = "Pact Widget"
)

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

// ExampleProductPayload provides stable test data for product interactions.
func ExampleProductPayload() map[string]any {
	return map[string]any{
		"id":    ExistingProductID,
		"sku":   exampleSKU,
		"name":  exampleProductName,
		"price": 9.99,
		"stock": int64(25),
	}
}

// ExampleOrderPayload provides stable test data for order interactions.
func ExampleOrderPayload() map[string]any {
	return map[string]any{
		"id":         ExistingOrderID,
		"product_id": ExistingProductID,
		"quantity":   int64(2),
		"status":     "PENDING",
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
