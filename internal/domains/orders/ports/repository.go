package ports

import (
	"context"
	"time"

	"github.com/Apurer/go-gin-storefront-api/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-storefront-api/internal/shared/failure"
)

var ErrNotFound = failure.New(failure.NotFound, "order not found")

// Repository persists orders. Lists are ordered by CreatedAt descending.
type Repository interface {
	Insert(ctx context.Context, draft domain.Draft, status domain.Status, now time.Time) (*domain.Order, error)
	// UpdateStatus overwrites the status of id. Missing ids yield ErrNotFound.
	UpdateStatus(ctx context.Context, id string, status domain.Status, now time.Time) (*domain.Order, error)
	// Delete removes id; a missing id is not an error.
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	List(ctx context.Context) ([]*domain.Order, error)
	ListByStatus(ctx context.Context, status domain.Status) ([]*domain.Order, error)
}
