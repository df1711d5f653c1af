package ports

import (
	"context"
	"time"

	"github.com/Apurer/go-gin-storefront-api/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-storefront-api/internal/shared/failure"
)

var (
	ErrNotFound      = failure.New(failure.NotFound, "product not found")
	ErrDuplicateName = failure.New(failure.AlreadyExists, "a product with this name already exists")
)

// Repository persists catalog products.
type Repository interface {
	Insert(ctx context.Context, draft domain.ProductDraft, now time.Time) (*domain.Product, error)
	// Replace overwrites every field of id. Missing ids yield ErrNotFound.
	Replace(ctx context.Context, id string, draft domain.ProductDraft, now time.Time) (*domain.Product, error)
	// Delete removes id; a missing id is not an error.
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context) ([]*domain.Product, error)
	// FindByFrenchName matches translations.fr.name exactly.
	FindByFrenchName(ctx context.Context, name string) ([]*domain.Product, error)
}

// Reconnector is implemented by repositories that can reset their connection
// between read retries.
type Reconnector interface {
	Reconnect(ctx context.Context) error
}
