package memory

import (
	"context"
	"sync"
	"time"

	"github.com/Apurer/go-gin-storefront-api/internal/domains/admin/domain"
	"github.com/Apurer/go-gin-storefront-api/internal/domains/admin/ports"
)

var _ ports.SessionStore = (*SessionStore)(nil)

// SessionStore is an in-memory SessionStore implementation. Expired
// sessions are dropped when read.
type SessionStore struct {
	sessions sync.Map
	now      func() time.Time
}

func NewSessionStore() *SessionStore {
	return &SessionStore{now: time.Now}
}

func (s *SessionStore) Save(_ context.Context, session domain.Session) error {
	s.sessions.Store(session.ID, session)
	return nil
}

func (s *SessionStore) Get(_ context.Context, id string) (*domain.Session, error) {
	value, ok := s.sessions.Load(id)
	if !ok {
		return nil, ports.ErrSessionNotFound
	}
	session := value.(domain.Session)
	if session.Expired(s.now()) {
		s.sessions.Delete(id)
		return nil, ports.ErrSessionNotFound
	}
	return &session, nil
}

func (s *SessionStore) Delete(_ context.Context, id string) error {
	s.sessions.Delete(id)
	return nil
}
