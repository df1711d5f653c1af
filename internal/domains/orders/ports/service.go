package ports

import (
	"context"
	"time"

	"github.com/Apurer/go-gin-storefront-api/internal/domains/orders/domain"
)

// Service exposes order use cases to adapters.
type Service interface {
	CreateOrder(ctx context.Context, draft domain.Draft) (*domain.Order, error)
	// PlaceOrder is CreateOrder keyed by a client idempotency key. replayed
	// reports that the order was placed by an earlier request with the same key.
	PlaceOrder(ctx context.Context, idempotencyKey string, draft domain.Draft) (order *domain.Order, replayed bool, err error)
	GetOrders(ctx context.Context) ([]*domain.Order, error)
	GetOrdersByStatus(ctx context.Context, status domain.Status) ([]*domain.Order, error)
	GetOrder(ctx context.Context, id string) (*domain.Order, error)
	UpdateOrderStatus(ctx context.Context, id string, status domain.Status) (*domain.Order, error)
	DeleteOrder(ctx context.Context, id string) error
	Stats(ctx context.Context) (domain.Stats, error)
	RevenueSeries(ctx context.Context, loc *time.Location) ([]domain.RevenuePoint, error)
	StatusSeries(ctx context.Context, label func(domain.Status) string) ([]domain.StatusPoint, error)
}
