package ports

import (
	"context"
	"io"

	"github.com/Apurer/go-gin-storefront-api/internal/domains/catalog/domain"
)

// CartLine is a product reference with a quantity, priced by Quote.
type CartLine struct {
	ProductID string
	Quantity  int64
}

// Service exposes catalog use cases to adapters.
type Service interface {
	AddProduct(ctx context.Context, draft domain.ProductDraft) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id string, draft domain.ProductDraft) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	GetProducts(ctx context.Context) ([]*domain.Product, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	UploadImage(ctx context.Context, filename, contentType string, body io.Reader) (string, error)
	Quote(ctx context.Context, lines []CartLine, promoCode string) (domain.Quote, error)
}
