package application

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/Apurer/go-gin-storefront-api/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-storefront-api/internal/domains/orders/ports"
	"github.com/Apurer/go-gin-storefront-api/internal/shared/retry"
)

// Service orchestrates order use cases. Reads are never cached so derived
// statistics always reflect the current order set.
type Service struct {
	repo        ports.Repository
	idempotency ports.IdempotencyStore
	events      ports.EventPublisher
	logger      *slog.Logger
	policy      retry.Policy
	now         func() time.Time
}

type Option func(*Service)

// WithEvents publishes lifecycle events after successful writes.
func WithEvents(publisher ports.EventPublisher) Option {
	return func(s *Service) {
		s.events = publisher
	}
}

// WithIdempotencyStore enables checkout replay through PlaceOrder.
func WithIdempotencyStore(store ports.IdempotencyStore) Option {
	return func(s *Service) {
		s.idempotency = store
	}
}

// WithLogger receives publish failures, which never fail the write.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

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
	s := &Service{
		repo:   repo,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		policy: retry.DefaultPolicy(),
		now:    time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// CreateOrder places draft as pending. The submitted total is kept as is.
func (s *Service) CreateOrder(ctx context.Context, draft domain.Draft) (*domain.Order, error) {
	draft.Normalize()
	if err := draft.Validate(); err != nil {
		return nil, mapError(err)
	}
	order, err := s.repo.Insert(ctx, draft, domain.StatusPending, s.now())
	if err != nil {
		return nil, err
	}
	s.publishPlaced(ctx, order)
	return order, nil
}

func (s *Service) GetOrders(ctx context.Context) ([]*domain.Order, error) {
	return retry.Do(ctx, s.policy, nil, s.repo.List)
}

func (s *Service) GetOrdersByStatus(ctx context.Context, status domain.Status) ([]*domain.Order, error) {
	if !status.Valid() {
		return nil, mapError(domain.ErrInvalidStatus)
	}
	return retry.Do(ctx, s.policy, nil, func(ctx context.Context) ([]*domain.Order, error) {
		return s.repo.ListByStatus(ctx, status)
	})
}

func (s *Service) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	if strings.TrimSpace(id) == "" {
		return nil, mapError(domain.ErrEmptyID)
	}
	return retry.Do(ctx, s.policy, nil, func(ctx context.Context) (*domain.Order, error) {
		return s.repo.GetByID(ctx, id)
	})
}

// UpdateOrderStatus allows any known status to follow any other.
func (s *Service) UpdateOrderStatus(ctx context.Context, id string, status domain.Status) (*domain.Order, error) {
	if strings.TrimSpace(id) == "" {
		return nil, mapError(domain.ErrEmptyID)
	}
	if !status.Valid() {
		return nil, mapError(domain.ErrInvalidStatus)
	}
	order, err := s.repo.UpdateStatus(ctx, id, status, s.now())
	if err != nil {
		return nil, err
	}
	s.publish(ctx, ports.Event{
		Type:        ports.EventOrderStatusChanged,
		OrderID:     order.ID,
		Status:      string(order.Status),
		TotalAmount: order.TotalAmount,
	})
	return order, nil
}

func (s *Service) DeleteOrder(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return mapError(domain.ErrEmptyID)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, ports.Event{Type: ports.EventOrderDeleted, OrderID: id})
	return nil
}

func (s *Service) Stats(ctx context.Context) (domain.Stats, error) {
	orders, err := s.GetOrders(ctx)
	if err != nil {
		return domain.Stats{}, err
	}
	return domain.CalculateStats(orders), nil
}

// RevenueSeries buckets revenue by creation day in loc.
func (s *Service) RevenueSeries(ctx context.Context, loc *time.Location) ([]domain.RevenuePoint, error) {
	orders, err := s.GetOrders(ctx)
	if err != nil {
		return nil, err
	}
	return domain.PrepareRevenueData(orders, loc), nil
}

func (s *Service) StatusSeries(ctx context.Context, label func(domain.Status) string) ([]domain.StatusPoint, error) {
	stats, err := s.Stats(ctx)
	if err != nil {
		return nil, err
	}
	return domain.PrepareStatusData(stats, label), nil
}

func (s *Service) publishPlaced(ctx context.Context, order *domain.Order) {
	s.publish(ctx, ports.Event{
		Type:        ports.EventOrderPlaced,
		OrderID:     order.ID,
		Status:      string(order.Status),
		TotalAmount: order.TotalAmount,
	})
}

func (s *Service) publish(ctx context.Context, event ports.Event) {
	if s.events == nil {
		return
	}
	event.OccurredAt = s.now().UTC()
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to encode order event", slog.String("event.type", event.Type), slog.String("error", err.Error()))
		return
	}
	if err := s.events.Publish(ctx, event.Type, payload, event.OrderID); err != nil {
		s.logger.WarnContext(ctx, "failed to publish order event",
			slog.String("event.type", event.Type),
			slog.String("order.id", event.OrderID),
			slog.String("error", err.Error()))
	}
}

var _ ports.Service = (*Service)(nil)
