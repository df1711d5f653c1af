package ports

import (
	"context"

	"github.com/Apurer/go-gin-storefront-api/internal/domains/admin/domain"
)

// Service exposes admin authentication to adapters.
type Service interface {
	Login(ctx context.Context, email, password string) (*domain.Token, error)
	Logout(ctx context.Context, token string) error
	Authenticate(ctx context.Context, token string) (*domain.Session, error)
	Bootstrap(ctx context.Context, email, password string) (*domain.Token, error)
}
