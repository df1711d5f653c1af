package ports

import (
	"context"
	"time"

	"github.com/Apurer/go-gin-storefront-api/internal/domains/homepage/domain"
	"github.com/Apurer/go-gin-storefront-api/internal/shared/failure"
)

var (
	ErrNotFound = failure.New(failure.NotFound, "homepage not found")
	// ErrActivationConflict is returned when a concurrent writer activated
	// another configuration first.
	ErrActivationConflict = failure.New(failure.AlreadyExists, "another homepage was activated at the same time, please retry")
)

// Tx is the write view of one homepage transaction. Reads through Tx observe
// the writes already staged in it.
type Tx interface {
	ListActive(ctx context.Context) ([]*domain.Homepage, error)
	Get(ctx context.Context, id string) (*domain.Homepage, error)
	Insert(ctx context.Context, content domain.Content, now time.Time) (*domain.Homepage, error)
	// Replace overwrites content and UpdatedAt of an existing configuration.
	Replace(ctx context.Context, homepage *domain.Homepage) error
	Deactivate(ctx context.Context, id string, now time.Time) error
}

// Repository persists homepage configurations.
type Repository interface {
	// InTransaction commits every write made through tx atomically, or none
	// of them when fn returns an error.
	InTransaction(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	ListActive(ctx context.Context) ([]*domain.Homepage, error)
	// List returns every configuration, newest first.
	List(ctx context.Context) ([]*domain.Homepage, error)
	GetByID(ctx context.Context, id string) (*domain.Homepage, error)
}
