package ports

import (
	"context"
	"time"

	"github.com/Apurer/go-gin-storefront-api/internal/domains/admin/domain"
	"github.com/Apurer/go-gin-storefront-api/internal/shared/failure"
)

var (
	ErrNotFound      = failure.New(failure.NotFound, "admin not found")
	ErrAlreadyExists = failure.New(failure.AlreadyExists, "an admin with this email already exists")
)

// Repository persists admin accounts keyed by normalized email.
type Repository interface {
	// Create returns ErrAlreadyExists when the email is taken.
	Create(ctx context.Context, admin *domain.Admin, now time.Time) (*domain.Admin, error)
	GetByEmail(ctx context.Context, email string) (*domain.Admin, error)
}
