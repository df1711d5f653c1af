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

	catalogdomain "github.com/Apurer/go-gin-storefront-api/internal/domains/catalog/domain"
	catalogports "github.com/Apurer/go-gin-storefront-api/internal/domains/catalog/ports"
	"github.com/Apurer/go-gin-storefront-api/internal/shared/failure"
)

const tracerName = "github.com/Apurer/go-gin-storefront-api/internal/domains/catalog/adapters/observability/service"

// Service decorates the catalog service with tracing, logging, and metrics.
type Service struct {
	inner   catalogports.Service
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

// New wraps the core catalog service.
func New(inner catalogports.Service, opts ...Option) catalogports.Service {
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

func (s *Service) AddProduct(ctx context.Context, draft catalogdomain.ProductDraft) (*catalogdomain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.AddProduct",
		trace.WithAttributes(attribute.String("product.name_fr", draft.Translations.FR.Name), attribute.Int64("product.price", draft.Price)))
	defer span.End()

	s.logInfo(ctx, "adding product", slog.String("product.name_fr", draft.Translations.FR.Name))
	result, err := s.inner.AddProduct(ctx, draft)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to add product", slog.String("product.name_fr", draft.Translations.FR.Name))
	}
	s.metrics.recordWrite(ctx, "add")
	span.SetAttributes(attribute.String("product.id", result.ID))
	s.logInfo(ctx, "product added", slog.String("product.id", result.ID))
	return result, nil
}

func (s *Service) UpdateProduct(ctx context.Context, id string, draft catalogdomain.ProductDraft) (*catalogdomain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.UpdateProduct", trace.WithAttributes(attribute.String("product.id", id)))
	defer span.End()

	s.logInfo(ctx, "updating product", slog.String("product.id", id))
	result, err := s.inner.UpdateProduct(ctx, id, draft)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update product", slog.String("product.id", id))
	}
	s.metrics.recordWrite(ctx, "update")
	s.logInfo(ctx, "product updated", slog.String("product.id", id))
	return result, nil
}

func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	ctx, span := s.tracer.Start(ctx, "CatalogService.DeleteProduct", trace.WithAttributes(attribute.String("product.id", id)))
	defer span.End()

	s.logInfo(ctx, "deleting product", slog.String("product.id", id))
	if err := s.inner.DeleteProduct(ctx, id); err != nil {
		return s.handleError(ctx, span, err, "failed to delete product", slog.String("product.id", id))
	}
	s.metrics.recordWrite(ctx, "delete")
	s.logInfo(ctx, "product deleted", slog.String("product.id", id))
	return nil
}

func (s *Service) GetProducts(ctx context.Context) ([]*catalogdomain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.GetProducts")
	defer span.End()

	result, err := s.inner.GetProducts(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list products")
	}
	span.SetAttributes(attribute.Int("product.count", len(result)))
	return result, nil
}

func (s *Service) GetProduct(ctx context.Context, id string) (*catalogdomain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.GetProduct", trace.WithAttributes(attribute.String("product.id", id)))
	defer span.End()

	result, err := s.inner.GetProduct(ctx, id)
	if err != nil {
		if failure.Is(err, failure.NotFound) {
			span.SetAttributes(attribute.Bool("product.found", false))
			return nil, err
		}
		return nil, s.handleError(ctx, span, err, "failed to load product", slog.String("product.id", id))
	}
	return result, nil
}

func (s *Service) UploadImage(ctx context.Context, filename, contentType string, body io.Reader) (string, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.UploadImage",
		trace.WithAttributes(attribute.String("image.filename", filename), attribute.String("image.content_type", contentType)))
	defer span.End()

	s.logInfo(ctx, "uploading product image", slog.String("image.filename", filename))
	url, err := s.inner.UploadImage(ctx, filename, contentType, body)
	if err != nil {
		return "", s.handleError(ctx, span, err, "failed to upload product image", slog.String("image.filename", filename))
	}
	s.metrics.recordWrite(ctx, "upload_image")
	s.logInfo(ctx, "product image uploaded", slog.String("image.url", url))
	return url, nil
}

func (s *Service) Quote(ctx context.Context, lines []catalogports.CartLine, promoCode string) (catalogdomain.Quote, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.Quote",
		trace.WithAttributes(attribute.Int("quote.lines", len(lines)), attribute.String("quote.promo_code", promoCode)))
	defer span.End()

	result, err := s.inner.Quote(ctx, lines, promoCode)
	if err != nil {
		return catalogdomain.Quote{}, s.handleError(ctx, span, err, "failed to quote cart")
	}
	span.SetAttributes(attribute.Int64("quote.total", result.Total))
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
	writes metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	writes, _ := m.Int64Counter("catalog.service.writes", metric.WithDescription("Number of successful catalog writes"))
	return serviceMetrics{writes: writes}
}

func (m serviceMetrics) recordWrite(ctx context.Context, op string) {
	if m.writes != nil {
		m.writes.Add(ctx, 1, metric.WithAttributes(attribute.String("catalog.operation", op)))
	}
}

var _ catalogports.Service = (*Service)(nil)
