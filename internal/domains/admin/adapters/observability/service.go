package observability

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Apurer/go-gin-storefront-api/internal/domains/admin/application"
	admindomain "github.com/Apurer/go-gin-storefront-api/internal/domains/admin/domain"
	adminports "github.com/Apurer/go-gin-storefront-api/internal/domains/admin/ports"
	"github.com/Apurer/go-gin-storefront-api/internal/shared/failure"
)

const tracerName = "github.com/Apurer/go-gin-storefront-api/internal/domains/admin/adapters/observability/service"

// Service decorates the admin service with tracing, logging, and metrics.
// Tokens and passwords never reach logs or span attributes.
type Service struct {
	inner   adminports.Service
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

func New(inner adminports.Service, opts ...Option) adminports.Service {
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

func (s *Service) Login(ctx context.Context, email, password string) (*admindomain.Token, error) {
	ctx, span := s.tracer.Start(ctx, "AdminService.Login")
	defer span.End()

	token, err := s.inner.Login(ctx, email, password)
	if err != nil {
		s.metrics.recordLogin(ctx, "rejected")
		if errors.Is(err, application.ErrInvalidCredentials) {
			span.SetAttributes(attribute.Bool("admin.authenticated", false))
			s.logWarn(ctx, "admin login rejected", slog.String("admin.email", admindomain.NormalizeEmail(email)))
			return nil, err
		}
		return nil, s.handleError(ctx, span, err, "admin login failed")
	}
	s.metrics.recordLogin(ctx, "accepted")
	span.SetAttributes(attribute.String("admin.id", token.Session.AdminID), attribute.String("session.id", token.Session.ID))
	s.logInfo(ctx, "admin logged in", slog.String("admin.id", token.Session.AdminID), slog.String("session.id", token.Session.ID))
	return token, nil
}

func (s *Service) Logout(ctx context.Context, token string) error {
	ctx, span := s.tracer.Start(ctx, "AdminService.Logout")
	defer span.End()

	if err := s.inner.Logout(ctx, token); err != nil {
		return s.handleError(ctx, span, err, "admin logout failed")
	}
	s.logInfo(ctx, "admin logged out")
	return nil
}

func (s *Service) Authenticate(ctx context.Context, token string) (*admindomain.Session, error) {
	ctx, span := s.tracer.Start(ctx, "AdminService.Authenticate")
	defer span.End()

	session, err := s.inner.Authenticate(ctx, token)
	if err != nil {
		if errors.Is(err, application.ErrUnauthenticated) {
			span.SetAttributes(attribute.Bool("admin.authenticated", false))
			return nil, err
		}
		return nil, s.handleError(ctx, span, err, "admin session check failed")
	}
	span.SetAttributes(attribute.String("admin.id", session.AdminID), attribute.String("session.id", session.ID))
	return session, nil
}

func (s *Service) Bootstrap(ctx context.Context, email, password string) (*admindomain.Token, error) {
	ctx, span := s.tracer.Start(ctx, "AdminService.Bootstrap")
	defer span.End()

	email = admindomain.NormalizeEmail(email)
	s.logInfo(ctx, "bootstrapping admin", slog.String("admin.email", email))
	token, err := s.inner.Bootstrap(ctx, email, password)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "admin bootstrap failed", slog.String("admin.email", email))
	}
	s.logInfo(ctx, "admin bootstrapped", slog.String("admin.id", token.Session.AdminID))
	return token, nil
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logWarn(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelWarn, msg, attrs...)
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
	logins metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	logins, _ := m.Int64Counter("admin_logins", metric.WithDescription("Number of admin login attempts"))
	return serviceMetrics{logins: logins}
}

func (m serviceMetrics) recordLogin(ctx context.Context, outcome string) {
	if m.logins != nil {
		m.logins.Add(ctx, 1, metric.WithAttributes(attribute.String("login.outcome", outcome)))
	}
}

var _ adminports.Service = (*Service)(nil)
