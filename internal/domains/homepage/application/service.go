package application

import (
	"context"
	"strings"
	"time"

	"github.com/Apurer/go-gin-storefront-api/internal/domains/homepage/domain"
	"github.com/Apurer/go-gin-storefront-api/internal/domains/homepage/ports"
	"github.com/Apurer/go-gin-storefront-api/internal/shared/retry"
)

// Service orchestrates homepage use cases and keeps at most one
// configuration active. Activation writes run in a single repository
// transaction and are never retried here.
type Service struct {
	repo   ports.Repository
	policy retry.Policy
	now    func() time.Time
}

type Option func(*Service)

func WithRetryPolicy(policy retry.Policy) Option {
	return func(s *Service) {
		s.policy = policy
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func NewService(repo ports.Repository, opts ...Option) *Service {
	s := &Service{repo: repo, policy: retry.DefaultPolicy(), now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// CreateHomepage stores draft. An active draft demotes every currently active
// configuration in the same transaction.
func (s *Service) CreateHomepage(ctx context.Context, draft domain.Draft) (*domain.Homepage, error) {
	draft.Normalize()
	var created *domain.Homepage
	err := s.repo.InTransaction(ctx, func(ctx context.Context, tx ports.Tx) error {
		now := s.now()
		if draft.IsActive {
			if err := demoteActive(ctx, tx, "", now); err != nil {
				return err
			}
		}
		homepage, err := tx.Insert(ctx, draft.Content, now)
		if err != nil {
			return err
		}
		created = homepage
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// UpdateHomepage applies patch to id. If the result is active, every other
// active configuration is demoted in the same transaction.
func (s *Service) UpdateHomepage(ctx context.Context, id string, patch domain.Patch) (*domain.Homepage, error) {
	if strings.TrimSpace(id) == "" {
		return nil, mapError(domain.ErrEmptyID)
	}
	var updated *domain.Homepage
	err := s.repo.InTransaction(ctx, func(ctx context.Context, tx ports.Tx) error {
		homepage, err := tx.Get(ctx, id)
		if err != nil {
			return err
		}
		now := s.now()
		homepage.Apply(patch)
		if homepage.IsActive {
			if err := demoteActive(ctx, tx, id, now); err != nil {
				return err
			}
		}
		homepage.Touch(now)
		if err := tx.Replace(ctx, homepage); err != nil {
			return err
		}
		updated = homepage
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *Service) GetHomepage(ctx context.Context, id string) (*domain.Homepage, error) {
	if strings.TrimSpace(id) == "" {
		return nil, mapError(domain.ErrEmptyID)
	}
	return retry.Do(ctx, s.policy, nil, func(ctx context.Context) (*domain.Homepage, error) {
		return s.repo.GetByID(ctx, id)
	})
}

// GetActiveHomepage returns ports.ErrNotFound when nothing is active.
func (s *Service) GetActiveHomepage(ctx context.Context) (*domain.Homepage, error) {
	active, err := retry.Do(ctx, s.policy, nil, s.repo.ListActive)
	if err != nil {
		return nil, err
	}
	chosen := domain.SelectActive(active)
	if chosen == nil {
		return nil, ports.ErrNotFound
	}
	return chosen, nil
}

func (s *Service) GetAllHomepages(ctx context.Context) ([]*domain.Homepage, error) {
	return retry.Do(ctx, s.policy, nil, s.repo.List)
}

func demoteActive(ctx context.Context, tx ports.Tx, keepID string, now time.Time) error {
	active, err := tx.ListActive(ctx)
	if err != nil {
		return err
	}
	for _, h := range active {
		if h.ID == keepID {
			continue
		}
		if err := tx.Deactivate(ctx, h.ID, now); err != nil {
			return err
		}
	}
	return nil
}

var _ ports.Service = (*Service)(nil)
