package memory

import (
	"context"
	"sync"
	"time"

	"github.com/Apurer/go-gin-storefront-api/internal/domains/orders/ports"
	"github.com/Apurer/go-gin-storefront-api/internal/shared/cache"
)

// DefaultKeyRetention bounds how long a checkout key can replay its order.
const DefaultKeyRetention = 24 * time.Hour

var _ ports.IdempotencyStore = (*IdempotencyStore)(nil)

// IdempotencyStore keeps checkout keys in process memory. Keys older than the
// retention window are forgotten.
type IdempotencyStore struct {
	// mu makes Save's check-then-set atomic; keys has its own lock for reads.
	mu   sync.Mutex
	keys *cache.TTL[string, ports.IdempotencyRecord]
	now  func() time.Time
}

func NewIdempotencyStore() *IdempotencyStore {
	return NewIdempotencyStoreWithClock(DefaultKeyRetention, time.Now)
}

func NewIdempotencyStoreWithClock(retention time.Duration, now func() time.Time) *IdempotencyStore {
	return &IdempotencyStore{
		keys: cache.New[string, ports.IdempotencyRecord](retention, cache.WithClock[string, ports.IdempotencyRecord](now)),
		now:  now,
	}
}

func (s *IdempotencyStore) Get(_ context.Context, key string) (*ports.IdempotencyRecord, error) {
	record, ok := s.keys.Get(key)
	if !ok {
		return nil, nil
	}
	return &record, nil
}

func (s *IdempotencyStore) Save(_ context.Context, record ports.IdempotencyRecord) (*ports.IdempotencyRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.keys.Get(record.Key); ok {
		if existing.RequestHash != record.RequestHash || existing.OrderID != record.OrderID {
			return &existing, ports.ErrIdempotencyConflict
		}
		return &existing, nil
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = s.now()
	}
	s.keys.Set(record.Key, record)
	return &record, nil
}
