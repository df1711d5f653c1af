// Package cache holds the product cache adapters: an in-process TTL map and a
// Redis-backed variant shared by every API replica.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/Apurer/go-gin-storefront-api/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-storefront-api/internal/domains/catalog/ports"
	"github.com/Apurer/go-gin-storefront-api/internal/shared/cache"
)

var _ ports.ProductCache = (*Memory)(nil)

type entry struct {
	list    []*domain.Product
	product *domain.Product
}

// Memory caches products in process. Values are cloned on the way in and out
// so callers cannot mutate cached state.
type Memory struct {
	entries *cache.TTL[string, entry]

	// mu orders sets against Clear so a stale generation never lands.
	mu  sync.Mutex
	gen uint64
}

// NewMemory builds an in-process cache. now may be nil.
func NewMemory(ttl time.Duration, now func() time.Time) *Memory {
	return &Memory{entries: cache.New[string, entry](ttl, cache.WithClock[string, entry](now))}
}

func (m *Memory) Generation(context.Context) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gen, nil
}

func (m *Memory) GetList(_ context.Context, key string) ([]*domain.Product, bool, error) {
	e, ok := m.entries.Get(key)
	if !ok || e.list == nil {
		return nil, false, nil
	}
	return cloneAll(e.list), true, nil
}

func (m *Memory) SetList(_ context.Context, key string, products []*domain.Product, gen uint64) error {
	m.setIfCurrent(key, entry{list: cloneAll(products)}, gen)
	return nil
}

func (m *Memory) GetProduct(_ context.Context, key string) (*domain.Product, bool, error) {
	e, ok := m.entries.Get(key)
	if !ok || e.product == nil {
		return nil, false, nil
	}
	return e.product.Clone(), true, nil
}

func (m *Memory) SetProduct(_ context.Context, key string, product *domain.Product, gen uint64) error {
	if product == nil {
		return nil
	}
	m.setIfCurrent(key, entry{product: product.Clone()}, gen)
	return nil
}

func (m *Memory) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gen++
	m.entries.Clear()
	return nil
}

func (m *Memory) setIfCurrent(key string, e entry, gen uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if gen != m.gen {
		return
	}
	m.entries.Set(key, e)
}

func cloneAll(products []*domain.Product) []*domain.Product {
	out := make([]*domain.Product, 0, len(products))
	for _, p := range products {
		out = append(out, p.Clone())
	}
	return out
}
