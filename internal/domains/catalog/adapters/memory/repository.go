package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Apurer/go-gin-storefront-api/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-storefront-api/internal/domains/catalog/ports"
	"github.com/Apurer/go-gin-storefront-api/internal/shared/projection"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory product persistence adapter.
type Repository struct {
	mu       sync.RWMutex
	products map[string]*domain.Product
}

func NewRepository() *Repository {
	return &Repository{products: map[string]*domain.Product{}}
}

func (r *Repository) Insert(_ context.Context, draft domain.ProductDraft, now time.Time) (*domain.Product, error) {
	product := &domain.Product{ID: uuid.NewString(), ProductDraft: draft, Metadata: projection.Stamp(now)}
	product = product.Clone()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[product.ID] = product
	return product.Clone(), nil
}

func (r *Repository) Replace(_ context.Context, id string, draft domain.ProductDraft, now time.Time) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.products[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	updated := &domain.Product{ID: id, ProductDraft: draft, Metadata: existing.Metadata}
	updated.Touch(now)
	updated = updated.Clone()
	r.products[id] = updated
	return updated.Clone(), nil
}

func (r *Repository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.products, id)
	return nil
}

func (r *Repository) GetByID(_ context.Context, id string) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	product, ok := r.products[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return product.Clone(), nil
}

// List returns products oldest first, matching insertion order.
func (r *Repository) List(_ context.Context) ([]*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Product, 0, len(r.products))
	for _, product := range r.products {
		list = append(list, product.Clone())
	}
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].ID < list[j].ID
		}
		return list[i].CreatedAt.Before(list[j].CreatedAt)
	})
	return list, nil
}

func (r *Repository) FindByFrenchName(_ context.Context, name string) ([]*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var matches []*domain.Product
	for _, product := range r.products {
		if product.Translations.FR.Name == name {
			matches = append(matches, product.Clone())
		}
	}
	return matches, nil
}
