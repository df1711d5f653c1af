package ports

import (
	"context"

	"github.com/Apurer/go-gin-storefront-api/internal/domains/catalog/domain"
)

// Cache keys shared by every cache adapter.
const (
	ProductsKey      = "products"
	productKeyPrefix = "product_"
)

// ProductKey is the per-product cache key.
func ProductKey(id string) string { return productKeyPrefix + id }

// ProductCache is the read-through cache in front of the repository. A
// lookup error is treated by callers as a miss; Clear must succeed for a
// write to be reported as successful.
//
// Every Clear advances the cache generation. Readers capture Generation
// before loading from the repository and pass it to SetList/SetProduct; a
// set whose generation is no longer current is dropped, so a snapshot read
// before a write can never be stored after that write's Clear.
type ProductCache interface {
	Generation(ctx context.Context) (uint64, error)
	GetList(ctx context.Context, key string) ([]*domain.Product, bool, error)
	SetList(ctx context.Context, key string, products []*domain.Product, gen uint64) error
	GetProduct(ctx context.Context, key string) (*domain.Product, bool, error)
	SetProduct(ctx context.Context, key string, product *domain.Product, gen uint64) error
	Clear(ctx context.Context) error
}
