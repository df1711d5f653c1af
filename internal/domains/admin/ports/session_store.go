package ports

import (
	"context"

	"github.com/Apurer/go-gin-storefront-api/internal/domains/admin/domain"
	"github.com/Apurer/go-gin-storefront-api/internal/shared/failure"
)

var ErrSessionNotFound = failure.New(failure.NotFound, "session not found")

// SessionStore keeps the server-side half of admin sessions.
type SessionStore interface {
	Save(ctx context.Context, session domain.Session) error
	// Get returns ErrSessionNotFound for unknown or expired sessions.
	Get(ctx context.Context, id string) (*domain.Session, error)
	Delete(ctx context.Context, id string) error
}
