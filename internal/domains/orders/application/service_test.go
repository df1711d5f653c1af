package application

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	ordermemory "github.com/Apurer/go-gin-storefront-api/internal/domains/orders/adapters/memory"
	"github.com/Apurer/go-gin-storefront-api/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-storefront-api/internal/domains/orders/ports"
	"github.com/Apurer/go-gin-storefront-api/internal/shared/failure"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []ports.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, eventType string, payload []byte, key string) error {
	var event ports.Event
	if err := json.Unmarshal(payload, &event); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

type stepClock struct {
	now time.Time
}

func (c *stepClock) Now() time.Time {
	c.now = c.now.Add(time.Minute)
	return c.now
}

func draft(total int64) domain.Draft {
	return domain.Draft{
		Customer:    domain.Customer{Name: "Awa", Phone: "699000000", Address: "Akwa, Douala"},
		Lines:       []domain.Line{{ProductID: "p1", Name: "Casque", Price: total, Quantity: 1}},
		TotalAmount: total,
	}
}

func TestCreateOrder_ForcesPendingAndPublishes(t *testing.T) {
	events := &recordingPublisher{}
	clock := &stepClock{now: time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)}
	svc := NewService(ordermemory.NewRepository(), WithEvents(events), WithClock(clock.Now))

	order, err := svc.CreateOrder(context.Background(), draft(1500))
	require.NoError(t, err)
	require.Equal(t, domain.StatusPending, order.Status)
	require.Equal(t, order.CreatedAt, order.UpdatedAt)
	require.Equal(t, int64(1500), order.TotalAmount)

	require.Len(t, events.events, 1)
	require.Equal(t, ports.EventOrderPlaced, events.events[0].Type)
	require.Equal(t, order.ID, events.events[0].OrderID)
}

func TestCreateOrder_InvalidInput(t *testing.T) {
	svc := NewService(ordermemory.NewRepository())
	d := draft(100)
	d.Lines = nil
	_, err := svc.CreateOrder(context.Background(), d)
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, domain.ErrNoLines)
}

func TestCreateOrder_PublishFailureDoesNotFailWrite(t *testing.T) {
	events := &recordingPublisher{err: errors.New("broker down")}
	repo := ordermemory.NewRepository()
	svc := NewService(repo, WithEvents(events))

	order, err := svc.CreateOrder(context.Background(), draft(100))
	require.NoError(t, err)
	_, err = repo.GetByID(context.Background(), order.ID)
	require.NoError(t, err)
}

func TestGetOrders_NewestFirstAndByStatus(t *testing.T) {
	clock := &stepClock{now: time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)}
	svc := NewService(ordermemory.NewRepository(), WithClock(clock.Now))
	ctx := context.Background()

	first, err := svc.CreateOrder(ctx, draft(100))
	require.NoError(t, err)
	second, err := svc.CreateOrder(ctx, draft(200))
	require.NoError(t, err)
	_, err = svc.UpdateOrderStatus(ctx, first.ID, domain.StatusShipped)
	require.NoError(t, err)

	all, err := svc.GetOrders(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{second.ID, first.ID}, []string{all[0].ID, all[1].ID})

	shipped, err := svc.GetOrdersByStatus(ctx, domain.StatusShipped)
	require.NoError(t, err)
	require.Len(t, shipped, 1)
	require.Equal(t, first.ID, shipped[0].ID)

	_, err = svc.GetOrdersByStatus(ctx, domain.Status("lost"))
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdateOrderStatus_AnyToAny(t *testing.T) {
	events := &recordingPublisher{}
	clock := &stepClock{now: time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)}
	svc := NewService(ordermemory.NewRepository(), WithEvents(events), WithClock(clock.Now))
	ctx := context.Background()

	order, err := svc.CreateOrder(ctx, draft(100))
	require.NoError(t, err)

	delivered, err := svc.UpdateOrderStatus(ctx, order.ID, domain.StatusDelivered)
	require.NoError(t, err)
	require.True(t, delivered.UpdatedAt.After(order.UpdatedAt))
	require.Equal(t, order.CreatedAt, delivered.CreatedAt)

	back, err := svc.UpdateOrderStatus(ctx, order.ID, domain.StatusPending)
	require.NoError(t, err)
	require.Equal(t, domain.StatusPending, back.Status)

	_, err = svc.UpdateOrderStatus(ctx, "missing", domain.StatusShipped)
	require.ErrorIs(t, err, ports.ErrNotFound)
	require.True(t, failure.Is(err, failure.NotFound))

	_, err = svc.UpdateOrderStatus(ctx, order.ID, domain.Status("refunded"))
	require.ErrorIs(t, err, ErrInvalidInput)

	require.Len(t, events.events, 3)
	require.Equal(t, ports.EventOrderStatusChanged, events.events[2].Type)
	require.Equal(t, "pending", events.events[2].Status)
}

func TestDeleteOrder_MissingIsNoop(t *testing.T) {
	events := &recordingPublisher{}
	svc := NewService(ordermemory.NewRepository(), WithEvents(events))
	ctx := context.Background()

	order, err := svc.CreateOrder(ctx, draft(100))
	require.NoError(t, err)
	require.NoError(t, svc.DeleteOrder(ctx, order.ID))
	require.NoError(t, svc.DeleteOrder(ctx, order.ID))

	_, err = svc.GetOrder(ctx, order.ID)
	require.ErrorIs(t, err, ports.ErrNotFound)
	require.Equal(t, ports.EventOrderDeleted, events.events[len(events.events)-1].Type)
}

func TestStatsAndSeries_ReflectCurrentOrders(t *testing.T) {
	clock := &stepClock{now: time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)}
	svc := NewService(ordermemory.NewRepository(), WithClock(clock.Now))
	ctx := context.Background()

	a, err := svc.CreateOrder(ctx, draft(1000))
	require.NoError(t, err)
	_, err = svc.CreateOrder(ctx, draft(500))
	require.NoError(t, err)
	c, err := svc.CreateOrder(ctx, draft(300))
	require.NoError(t, err)
	_, err = svc.UpdateOrderStatus(ctx, a.ID, domain.StatusDelivered)
	require.NoError(t, err)
	_, err = svc.UpdateOrderStatus(ctx, c.ID, domain.StatusDelivered)
	require.NoError(t, err)

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, domain.Stats{Pending: 1, Delivered: 2, Total: 1800, DeliveredRevenue: 1300}, stats)

	revenue, err := svc.RevenueSeries(ctx, time.UTC)
	require.NoError(t, err)
	require.Len(t, revenue, 1)
	require.Equal(t, int64(1800), revenue[0].Revenue)
	require.Equal(t, int64(1300), revenue[0].DeliveredRevenue)

	require.NoError(t, svc.DeleteOrder(ctx, a.ID))
	stats, err = svc.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(800), stats.Total)

	points, err := svc.StatusSeries(ctx, nil)
	require.NoError(t, err)
	require.Len(t, points, 5)
	require.Equal(t, domain.StatusPoint{Name: "delivered", Value: 1}, points[3])
}
