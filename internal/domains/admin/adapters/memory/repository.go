package memory

import (
	"context"
	"sync"
	"time"

	"github.com/Apurer/go-gin-storefront-api/internal/domains/admin/domain"
	"github.com/Apurer/go-gin-storefront-api/internal/domains/admin/ports"
	"github.com/Apurer/go-gin-storefront-api/internal/shared/projection"
)

var _ ports.Repository = (*Repository)(nil)

// Repository keeps admin accounts in process, keyed by normalized email.
type Repository struct {
	mu     sync.RWMutex
	admins map[string]domain.Admin
}

func NewRepository() *Repository {
	return &Repository{admins: map[string]domain.Admin{}}
}

func (r *Repository) Create(_ context.Context, admin *domain.Admin, now time.Time) (*domain.Admin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	email := domain.NormalizeEmail(admin.Email)
	if _, ok := r.admins[email]; ok {
		return nil, ports.ErrAlreadyExists
	}
	stored := *admin
	stored.Email = email
	stored.Metadata = projection.Stamp(now)
	r.admins[email] = stored
	return &stored, nil
}

func (r *Repository) GetByEmail(_ context.Context, email string) (*domain.Admin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	admin, ok := r.admins[domain.NormalizeEmail(email)]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return &admin, nil
}
