package observability

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	homepagedomain "github.com/Apurer/go-gin-storefront-api/internal/domains/homepage/domain"
	homepageports "github.com/Apurer/go-gin-storefront-api/internal/domains/homepage/ports"
	"github.com/Apurer/go-gin-storefront-api/internal/shared/failure"
)

const tracerName = "github.com/Apurer/go-gin-storefront-api/internal/domains/homepage/adapters/observability/service"

// Service decorates the homepage service with tracing, logging, and metrics.
type Service struct {
	inner   homepageports.Service
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

func New(inner homepageports.Service, opts ...Option) homepageports.Service {
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

func (s *Service) CreateHomepage(ctx context.Context, draft homepagedomain.Draft) (*homepagedomain.Homepage, error) {
	ctx, span := s.tracer.Start(ctx, "HomepageService.CreateHomepage", trace.WithAttributes(attribute.Bool("homepage.is_active", draft.IsActive)))
	defer span.End()

	s.logInfo(ctx, "creating homepage", slog.Bool("homepage.is_active", draft.IsActive))
	result, err := s.inner.CreateHomepage(ctx, draft)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create homepage")
	}
	if result.IsActive {
		s.metrics.recordActivation(ctx)
	}
	span.SetAttributes(attribute.String("homepage.id", result.ID))
	s.logInfo(ctx, "homepage created", slog.String("homepage.id", result.ID), slog.Bool("homepage.is_active", result.IsActive))
	return result, nil
}

func (s *Service) UpdateHomepage(ctx context.Context, id string, patch homepagedomain.Patch) (*homepagedomain.Homepage, error) {
	ctx, span := s.tracer.Start(ctx, "HomepageService.UpdateHomepage", trace.WithAttributes(attribute.String("homepage.id", id)))
	defer span.End()

	s.logInfo(ctx, "updating homepage", slog.String("homepage.id", id))
	result, err := s.inner.UpdateHomepage(ctx, id, patch)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update homepage", slog.String("homepage.id", id))
	}
	if patch.IsActive != nil && *patch.IsActive {
		s.metrics.recordActivation(ctx)
	}
	s.logInfo(ctx, "homepage updated", slog.String("homepage.id", id), slog.Bool("homepage.is_active", result.IsActive))
	return result, nil
}

func (s *Service) GetHomepage(ctx context.Context, id string) (*homepagedomain.Homepage, error) {
	ctx, span := s.tracer.Start(ctx, "HomepageService.GetHomepage", trace.WithAttributes(attribute.String("homepage.id", id)))
	defer span.End()

	result, err := s.inner.GetHomepage(ctx, id)
	if err != nil {
		if failure.Is(err, failure.NotFound) {
			span.SetAttributes(attribute.Bool("homepage.found", false))
			return nil, err
		}
		return nil, s.handleError(ctx, span, err, "failed to load homepage", slog.String("homepage.id", id))
	}
	return result, nil
}

func (s *Service) GetActiveHomepage(ctx context.Context) (*homepagedomain.Homepage, error) {
	ctx, span := s.tracer.Start(ctx, "HomepageService.GetActiveHomepage")
	defer span.End()

	result, err := s.inner.GetActiveHomepage(ctx)
	if err != nil {
		if failure.Is(err, failure.NotFound) {
			span.SetAttributes(attribute.Bool("homepage.found", false))
			return nil, err
		}
		return nil, s.handleError(ctx, span, err, "failed to load active homepage")
	}
	span.SetAttributes(attribute.String("homepage.id", result.ID))
	return result, nil
}

func (s *Service) GetAllHomepages(ctx context.Context) ([]*homepagedomain.Homepage, error) {
	ctx, span := s.tracer.Start(ctx, "HomepageService.GetAllHomepages")
	defer span.End()

	result, err := s.inner.GetAllHomepages(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list homepages")
	}
	span.SetAttributes(attribute.Int("homepage.count", len(result)))
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
		attrs = append(attrs, slog.String("error", err.Error()), slog.String("error.kind", failure.KindOf(err).String()))
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
	activations metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	activations, _ := m.Int64Counter("homepages_activated", metric.WithDescription("Number of homepage activations"))
	return serviceMetrics{activations: activations}
}

func (m serviceMetrics) recordActivation(ctx context.Context) {
	if m.activations != nil {
		m.activations.Add(ctx, 1)
	}
}

var _ homepageports.Service = (*Service)(nil)
