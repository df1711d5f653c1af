package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/Apurer/go-gin-storefront-api/internal/domains/admin/domain"
	"github.com/Apurer/go-gin-storefront-api/internal/domains/admin/ports"
	"github.com/Apurer/go-gin-storefront-api/internal/shared/failure"
)

var _ ports.SessionStore = (*SessionStore)(nil)

const keyPrefix = "storefront:admin:session:"

// SessionStore keeps admin sessions as Redis keys that expire together with
// the session, so no purge job is needed.
type SessionStore struct {
	client goredis.UniversalClient
	now    func() time.Time
}

func NewSessionStore(client goredis.UniversalClient) *SessionStore {
	return &SessionStore{client: client, now: time.Now}
}

type sessionPayload struct {
	AdminID   string    `json:"adminId"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	IssuedAt  time.Time `json:"issuedAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (s *SessionStore) Save(ctx context.Context, session domain.Session) error {
	if err := s.ensureClient(); err != nil {
		return err
	}
	ttl := session.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	payload, err := json.Marshal(sessionPayload{
		AdminID:   session.AdminID,
		Email:     session.Email,
		Role:      session.Role,
		IssuedAt:  session.IssuedAt.UTC(),
		ExpiresAt: session.ExpiresAt.UTC(),
	})
	if err != nil {
		return err
	}
	return translate(s.client.Set(ctx, keyPrefix+session.ID, payload, ttl).Err())
}

func (s *SessionStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	if err := s.ensureClient(); err != nil {
		return nil, err
	}
	raw, err := s.client.Get(ctx, keyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, ports.ErrSessionNotFound
		}
		return nil, translate(err)
	}
	var payload sessionPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, err
	}
	return &domain.Session{
		ID:        id,
		AdminID:   payload.AdminID,
		Email:     payload.Email,
		Role:      payload.Role,
		IssuedAt:  payload.IssuedAt,
		ExpiresAt: payload.ExpiresAt,
	}, nil
}

func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if err := s.ensureClient(); err != nil {
		return err
	}
	return translate(s.client.Del(ctx, keyPrefix+id).Err())
}

func (s *SessionStore) ensureClient() error {
	if s == nil || s.client == nil {
		return errors.New("redis session store not configured")
	}
	return nil
}

// translate reports every Redis failure other than a missing key as
// Unavailable; the store has no permission model of its own.
func translate(err error) error {
	if err == nil || errors.Is(err, goredis.Nil) {
		return nil
	}
	return failure.Wrap(failure.Unavailable, err, "")
}
