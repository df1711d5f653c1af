package ports

import (
	"context"
	"time"

	"github.com/Apurer/go-gin-storefront-api/internal/shared/failure"
)

// ErrIdempotencyConflict means the key is already bound to a different checkout.
var ErrIdempotencyConflict = failure.New(failure.AlreadyExists, "this idempotency key was already used for a different order")

// IdempotencyRecord binds a client-supplied checkout key to the order it placed.
type IdempotencyRecord struct {
	Key         string
	RequestHash string
	OrderID     string
	CreatedAt   time.Time
}

// IdempotencyStore remembers checkout keys so retried submissions replay the
// original order instead of placing a new one.
type IdempotencyStore interface {
	// Get returns the record for key, or nil when the key is unknown.
	Get(ctx context.Context, key string) (*IdempotencyRecord, error)
	// Save stores record. When the key exists with the same hash and order,
	// the stored record is returned. Any other existing record is returned
	// together with ErrIdempotencyConflict.
	Save(ctx context.Context, record IdempotencyRecord) (*IdempotencyRecord, error)
}
