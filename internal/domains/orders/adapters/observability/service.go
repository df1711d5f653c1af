package observability

import (
	"context"
	"io"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	orderdomain "github.com/Apurer/go-gin-storefront-api/internal/domains/orders/domain"
	orderports "github.com/Apurer/go-gin-storefront-api/internal/domains/orders/ports"
)

const tracerName = "github.com/Apurer/go-gin-storefront-api/internal/domains/orders/adapters/observability/service"

// Service decorates the order service with tracing, logging, and metrics.
type Service struct {
	inner   orderports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wraps the core order service.
func New(inner orderports.Service, opts ...Option) orderports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return s
}

func (s *Service) CreateOrder(ctx context.Context, draft orderdomain.Draft) (*orderdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.CreateOrder",
		trace.WithAttributes(attribute.Int("order.lines", len(draft.Lines)), attribute.Int64("order.total", draft.TotalAmount)))
	defer span.End()

	s.logInfo(ctx, "placing order", slog.Int("order.lines", len(draft.Lines)))
	result, err := s.inner.CreateOrder(ctx, draft)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to place order")
	}
	s.metrics.recordPlaced(ctx, result.TotalAmount)
	span.SetAttributes(attribute.String("order.id", result.ID))
	s.logInfo(ctx, "order placed", slog.String("order.id", result.ID), slog.Int64("order.total", result.TotalAmount))
	return result, nil
}

func (s *Service) PlaceOrder(ctx context.Context, idempotencyKey string, draft orderdomain.Draft) (*orderdomain.Order, bool, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.PlaceOrder",
		trace.WithAttributes(
			attribute.Int("order.lines", len(draft.Lines)),
			attribute.Int64("order.total", draft.TotalAmount),
			attribute.Bool("order.idempotent", idempotencyKey != ""),
		))
	defer span.End()

	result, replayed, err := s.inner.PlaceOrder(ctx, idempotencyKey, draft)
	if err != nil {
		return nil, false, s.handleError(ctx, span, err, "failed to place order")
	}
	span.SetAttributes(attribute.String("order.id", result.ID), attribute.Bool("order.replayed", replayed))
	if replayed {
		s.logInfo(ctx, "order replayed for idempotency key", slog.String("order.id", result.ID))
		return result, true, nil
	}
	s.metrics.recordPlaced(ctx, result.TotalAmount)
	s.logInfo(ctx, "order placed", slog.String("order.id", result.ID), slog.Int64("order.total", result.TotalAmount))
	return result, false, nil
}

func (s *Service) GetOrders(ctx context.Context) ([]*orderdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.GetOrders")
	defer span.End()

	result, err := s.inner.GetOrders(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list orders")
	}
	span.SetAttributes(attribute.Int("order.count", len(result)))
	return result, nil
}

func (s *Service) GetOrdersByStatus(ctx context.Context, status orderdomain.Status) ([]*orderdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.GetOrdersByStatus", trace.WithAttributes(attribute.String("order.status", string(status))))
	defer span.End()

	result, err := s.inner.GetOrdersByStatus(ctx, status)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list orders by status", slog.String("order.status", string(status)))
	}
	span.SetAttributes(attribute.Int("order.count", len(result)))
	return result, nil
}

func (s *Service) GetOrder(ctx context.Context, id string) (*orderdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.GetOrder", trace.WithAttributes(attribute.String("order.id", id)))
	defer span.End()

	result, err := s.inner.GetOrder(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load order", slog.String("order.id", id))
	}
	return result, nil
}

func (s *Service) UpdateOrderStatus(ctx context.Context, id string, status orderdomain.Status) (*orderdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.UpdateOrderStatus",
		trace.WithAttributes(attribute.String("order.id", id), attribute.String("order.status", string(status))))
	defer span.End()

	s.logInfo(ctx, "updating order status", slog.String("order.id", id), slog.String("order.status", string(status)))
	result, err := s.inner.UpdateOrderStatus(ctx, id, status)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update order status", slog.String("order.id", id))
	}
	s.metrics.recordStatusChange(ctx, result.Status)
	s.logInfo(ctx, "order status updated", slog.String("order.id", id), slog.String("order.status", string(result.Status)))
	return result, nil
}

func (s *Service) DeleteOrder(ctx context.Context, id string) error {
	ctx, span := s.tracer.Start(ctx, "OrderService.DeleteOrder", trace.WithAttributes(attribute.String("order.id", id)))
	defer span.End()

	s.logInfo(ctx, "deleting order", slog.String("order.id", id))
	if err := s.inner.DeleteOrder(ctx, id); err != nil {
		return s.handleError(ctx, span, err, "failed to delete order", slog.String("order.id", id))
	}
	s.metrics.recordDeleted(ctx)
	s.logInfo(ctx, "order deleted", slog.String("order.id", id))
	return nil
}

func (s *Service) Stats(ctx context.Context) (orderdomain.Stats, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.Stats")
	defer span.End()

	result, err := s.inner.Stats(ctx)
	if err != nil {
		return orderdomain.Stats{}, s.handleError(ctx, span, err, "failed to calculate order stats")
	}
	span.SetAttributes(attribute.Int64("order.total_revenue", result.Total), attribute.Int64("order.delivered_revenue", result.DeliveredRevenue))
	return result, nil
}

func (s *Service) RevenueSeries(ctx context.Context, loc *time.Location) ([]orderdomain.RevenuePoint, error) {
	locName := time.UTC.String()
	if loc != nil {
		locName = loc.String()
	}
	ctx, span := s.tracer.Start(ctx, "OrderService.RevenueSeries", trace.WithAttributes(attribute.String("revenue.location", locName)))
	defer span.End()

	result, err := s.inner.RevenueSeries(ctx, loc)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to prepare revenue series")
	}
	span.SetAttributes(attribute.Int("revenue.days", len(result)))
	return result, nil
}

func (s *Service) StatusSeries(ctx context.Context, label func(orderdomain.Status) string) ([]orderdomain.StatusPoint, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.StatusSeries")
	defer span.End()

	result, err := s.inner.StatusSeries(ctx, label)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to prepare status series")
	}
	return result, nil
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
}

type serviceMetrics struct {
	ordersPlaced  metric.Int64Counter
	orderRevenue  metric.Int64Counter
	statusChanges metric.Int64Counter
	ordersDeleted metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	ordersPlaced, _ := m.Int64Counter("orders.service.orders_placed", metric.WithDescription("Number of orders placed"))
	orderRevenue, _ := m.Int64Counter("orders.service.revenue_placed", metric.WithDescription("Submitted order totals in FCFA"), metric.WithUnit("{FCFA}"))
	statusChanges, _ := m.Int64Counter("orders.service.status_changes", metric.WithDescription("Number of order status updates"))
	ordersDeleted, _ := m.Int64Counter("orders.service.orders_deleted", metric.WithDescription("Number of orders deleted"))
	return serviceMetrics{ordersPlaced: ordersPlaced, orderRevenue: orderRevenue, statusChanges: statusChanges, ordersDeleted: ordersDeleted}
}

func (m serviceMetrics) recordPlaced(ctx context.Context, total int64) {
	if m.ordersPlaced != nil {
		m.ordersPlaced.Add(ctx, 1)
	}
	if m.orderRevenue != nil && total > 0 {
		m.orderRevenue.Add(ctx, total)
	}
}

func (m serviceMetrics) recordStatusChange(ctx context.Context, status orderdomain.Status) {
	if m.statusChanges != nil {
		m.statusChanges.Add(ctx, 1, metric.WithAttributes(attribute.String("order.status", string(status))))
	}
}

func (m serviceMetrics) recordDeleted(ctx context.Context) {
	if m.ordersDeleted != nil {
		m.ordersDeleted.Add(ctx, 1)
	}
}

var _ orderports.Service = (*Service)(nil)
