package application

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Apurer/go-gin-storefront-api/internal/domains/admin/domain"
	"github.com/Apurer/go-gin-storefront-api/internal/domains/admin/ports"
	"github.com/Apurer/go-gin-storefront-api/internal/shared/failure"
)

// DefaultSessionTTL bounds how long an admin stays signed in.
const DefaultSessionTTL = 24 * time.Hour

// Service signs admins in and out and answers whether a token belongs to a
// live session.
type Service struct {
	repo       ports.Repository
	sessions   ports.SessionStore
	hasher     ports.Hasher
	tokens     ports.TokenIssuer
	sessionTTL time.Duration
	logger     *slog.Logger
	now        func() time.Time
}

type Option func(*Service)

func WithSessionTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.sessionTTL = ttl
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func NewService(repo ports.Repository, sessions ports.SessionStore, hasher ports.Hasher, tokens ports.TokenIssuer, opts ...Option) *Service {
	s := &Service{
		repo:       repo,
		sessions:   sessions,
		hasher:     hasher,
		tokens:     tokens,
		sessionTTL: DefaultSessionTTL,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:        time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Login checks the credentials and opens a new session.
func (s *Service) Login(ctx context.Context, email, password string) (*domain.Token, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	admin, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if failure.Is(err, failure.NotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := s.hasher.Compare(admin.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := s.now().UTC()
	session := domain.Session{
		ID:        uuid.NewString(),
		AdminID:   admin.ID,
		Email:     admin.Email,
		Role:      admin.Role,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.sessionTTL),
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	signed, err := s.tokens.Sign(session)
	if err != nil {
		return nil, err
	}
	return &domain.Token{Value: signed, ExpiresAt: session.ExpiresAt, Session: session}, nil
}

// Logout revokes the session behind token. Tokens that no longer verify
// have nothing left to revoke.
func (s *Service) Logout(ctx context.Context, token string) error {
	session, err := s.tokens.Parse(strings.TrimSpace(token))
	if err != nil {
		return nil
	}
	return s.sessions.Delete(ctx, session.ID)
}

// Authenticate returns the live session behind token, or
// ErrUnauthenticated.
func (s *Service) Authenticate(ctx context.Context, token string) (*domain.Session, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrUnauthenticated
	}
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, ErrUnauthenticated
	}
	session, err := s.sessions.Get(ctx, claims.ID)
	if err != nil {
		if failure.Is(err, failure.NotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, err
	}
	if session.Expired(s.now()) || session.Role != domain.RoleAdmin {
		return nil, ErrUnauthenticated
	}
	return session, nil
}

// Bootstrap creates the admin account and signs it in. An existing account
// with the same email is not an error, so setup can be re-run.
func (s *Service) Bootstrap(ctx context.Context, email, password string) (*domain.Token, error) {
	email, err := domain.ValidateCredentials(email, password)
	if err != nil {
		return nil, mapError(err)
	}
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}
	admin := &domain.Admin{ID: uuid.NewString(), Email: email, PasswordHash: hash, Role: domain.RoleAdmin}
	if _, err := s.repo.Create(ctx, admin, s.now()); err != nil {
		if !failure.Is(err, failure.AlreadyExists) {
			return nil, err
		}
		s.logger.InfoContext(ctx, "admin already exists, signing in", slog.String("admin.email", email))
	}
	return s.Login(ctx, email, password)
}

var _ ports.Service = (*Service)(nil)
