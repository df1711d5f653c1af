package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Apurer/go-gin-storefront-api/internal/domains/homepage/domain"
	"github.com/Apurer/go-gin-storefront-api/internal/domains/homepage/ports"
	"github.com/Apurer/go-gin-storefront-api/internal/shared/projection"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory homepage adapter. Transactions hold the write
// lock for their whole duration and stage writes on a copy that is swapped in
// only when the callback succeeds.
type Repository struct {
	mu        sync.RWMutex
	homepages map[string]*domain.Homepage
}

func NewRepository() *Repository {
	return &Repository{homepages: map[string]*domain.Homepage{}}
}

func (r *Repository) InTransaction(ctx context.Context, fn func(ctx context.Context, tx ports.Tx) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	staged := &tx{homepages: make(map[string]*domain.Homepage, len(r.homepages))}
	for id, h := range r.homepages {
		staged.homepages[id] = h.Clone()
	}
	if err := fn(ctx, staged); err != nil {
		return err
	}
	r.homepages = staged.homepages
	return nil
}

func (r *Repository) ListActive(_ context.Context) ([]*domain.Homepage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return listActive(r.homepages), nil
}

func (r *Repository) List(_ context.Context) ([]*domain.Homepage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Homepage, 0, len(r.homepages))
	for _, h := range r.homepages {
		list = append(list, h.Clone())
	}
	sortNewestFirst(list)
	return list, nil
}

func (r *Repository) GetByID(_ context.Context, id string) (*domain.Homepage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.homepages[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return h.Clone(), nil
}

type tx struct {
	homepages map[string]*domain.Homepage
}

func (t *tx) ListActive(_ context.Context) ([]*domain.Homepage, error) {
	return listActive(t.homepages), nil
}

func (t *tx) Get(_ context.Context, id string) (*domain.Homepage, error) {
	h, ok := t.homepages[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return h.Clone(), nil
}

func (t *tx) Insert(_ context.Context, content domain.Content, now time.Time) (*domain.Homepage, error) {
	h := &domain.Homepage{ID: uuid.NewString(), Content: content, Metadata: projection.Stamp(now)}
	h = h.Clone()
	t.homepages[h.ID] = h
	return h.Clone(), nil
}

func (t *tx) Replace(_ context.Context, homepage *domain.Homepage) error {
	existing, ok := t.homepages[homepage.ID]
	if !ok {
		return ports.ErrNotFound
	}
	replaced := homepage.Clone()
	replaced.CreatedAt = existing.CreatedAt
	t.homepages[homepage.ID] = replaced
	return nil
}

func (t *tx) Deactivate(_ context.Context, id string, now time.Time) error {
	h, ok := t.homepages[id]
	if !ok {
		return ports.ErrNotFound
	}
	h.IsActive = false
	h.Touch(now)
	return nil
}

func listActive(homepages map[string]*domain.Homepage) []*domain.Homepage {
	var active []*domain.Homepage
	for _, h := range homepages {
		if h.IsActive {
			active = append(active, h.Clone())
		}
	}
	sortNewestFirst(active)
	return active
}

func sortNewestFirst(list []*domain.Homepage) {
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].ID > list[j].ID
		}
		return list[i].NewerThan(list[j].Metadata)
	})
}
