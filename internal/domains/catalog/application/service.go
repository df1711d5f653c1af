package application

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/Apurer/go-gin-storefront-api/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-storefront-api/internal/domains/catalog/ports"
	"github.com/Apurer/go-gin-storefront-api/internal/shared/retry"
)

// Service orchestrates catalog use cases. Reads go through the product cache
// and the transient-failure retry policy; every successful write clears the
// whole cache.
type Service struct {
	repo   ports.Repository
	cache  ports.ProductCache
	images ports.ImageStore
	policy retry.Policy
	logger *slog.Logger
	now    func() time.Time
}

type Option func(*Service)

// WithImageStore enables UploadImage.
func WithImageStore(store ports.ImageStore) Option {
	return func(s *Service) {
		s.images = store
	}
}

// WithRetryPolicy overrides the read retry policy.
func WithRetryPolicy(policy retry.Policy) Option {
	return func(s *Service) {
		s.policy = policy
	}
}

// WithLogger records cache failures that do not fail the request.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the time source used for timestamps and upload keys.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService wires the catalog service. A nil cache disables caching.
func NewService(repo ports.Repository, cache ports.ProductCache, opts ...Option) *Service {
	if cache == nil {
		cache = noCache{}
	}
	s := &Service{
		repo:   repo,
		cache:  cache,
		policy: retry.DefaultPolicy(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:    time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// AddProduct rejects a French name that is already taken, then inserts. The
// name check and the insert are separate operations.
func (s *Service) AddProduct(ctx context.Context, draft domain.ProductDraft) (*domain.Product, error) {
	draft.Normalize()
	if err := draft.Validate(); err != nil {
		return nil, mapError(err)
	}
	existing, err := s.repo.FindByFrenchName(ctx, draft.Translations.FR.Name)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return nil, ports.ErrDuplicateName
	}
	product, err := s.repo.Insert(ctx, draft, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.invalidate(ctx); err != nil {
		return nil, err
	}
	return product, nil
}

// UpdateProduct overwrites every field; last writer wins.
func (s *Service) UpdateProduct(ctx context.Context, id string, draft domain.ProductDraft) (*domain.Product, error) {
	if strings.TrimSpace(id) == "" {
		return nil, mapError(domain.ErrEmptyID)
	}
	draft.Normalize()
	if err := draft.Validate(); err != nil {
		return nil, mapError(err)
	}
	product, err := s.repo.Replace(ctx, id, draft, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.invalidate(ctx); err != nil {
		return nil, err
	}
	return product, nil
}

// DeleteProduct hard-deletes id. Unknown ids are not reported.
func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return mapError(domain.ErrEmptyID)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	return s.invalidate(ctx)
}

func (s *Service) GetProducts(ctx context.Context) ([]*domain.Product, error) {
	if cached, ok, err := s.cache.GetList(ctx, ports.ProductsKey); err == nil && ok {
		return cached, nil
	}
	gen, genErr := s.cache.Generation(ctx)
	products, err := retry.Do(ctx, s.policy, s.reconnect, s.repo.List)
	if err != nil {
		return nil, err
	}
	if genErr != nil {
		s.logCacheError(ctx, "read product cache generation", ports.ProductsKey, genErr)
		return products, nil
	}
	if err := s.cache.SetList(ctx, ports.ProductsKey, products, gen); err != nil {
		s.logCacheError(ctx, "store product list", ports.ProductsKey, err)
	}
	return products, nil
}

// GetProduct returns ports.ErrNotFound for unknown ids; misses are not cached.
func (s *Service) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	if strings.TrimSpace(id) == "" {
		return nil, mapError(domain.ErrEmptyID)
	}
	key := ports.ProductKey(id)
	if cached, ok, err := s.cache.GetProduct(ctx, key); err == nil && ok {
		return cached, nil
	}
	gen, genErr := s.cache.Generation(ctx)
	product, err := retry.Do(ctx, s.policy, s.reconnect, func(ctx context.Context) (*domain.Product, error) {
		return s.repo.GetByID(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	if genErr != nil {
		s.logCacheError(ctx, "read product cache generation", key, genErr)
		return product, nil
	}
	if err := s.cache.SetProduct(ctx, key, product, gen); err != nil {
		s.logCacheError(ctx, "store product", key, err)
	}
	return product, nil
}

// UploadImage stores body under products/<unix millis>_<file name>.
func (s *Service) UploadImage(ctx context.Context, filename, contentType string, body io.Reader) (string, error) {
	if s.images == nil {
		return "", ErrImagesDisabled
	}
	key := fmt.Sprintf("products/%d_%s", s.now().UnixMilli(), sanitizeFilename(filename))
	return s.images.Upload(ctx, key, contentType, body)
}

// Quote prices a cart from current catalog prices.
func (s *Service) Quote(ctx context.Context, lines []ports.CartLine, promoCode string) (domain.Quote, error) {
	priced := make([]domain.QuoteLine, 0, len(lines))
	for _, line := range lines {
		product, err := s.GetProduct(ctx, line.ProductID)
		if err != nil {
			return domain.Quote{}, err
		}
		priced = append(priced, domain.QuoteLine{
			ProductID: product.ID,
			Name:      product.Translations.FR.Name,
			UnitPrice: product.Price,
			Quantity:  line.Quantity,
		})
	}
	quote, err := domain.NewQuote(priced, promoCode)
	if err != nil {
		return domain.Quote{}, mapError(err)
	}
	return quote, nil
}

func (s *Service) invalidate(ctx context.Context) error {
	if err := s.cache.Clear(ctx); err != nil {
		return fmt.Errorf("clear product cache: %w", err)
	}
	return nil
}

func (s *Service) logCacheError(ctx context.Context, msg, key string, err error) {
	s.logger.WarnContext(ctx, "failed to "+msg, slog.String("cache.key", key), slog.String("error", err.Error()))
}

func (s *Service) reconnect(ctx context.Context) error {
	if r, ok := s.repo.(ports.Reconnector); ok {
		return r.Reconnect(ctx)
	}
	return nil
}

func sanitizeFilename(name string) string {
	name = filepath.Base(strings.TrimSpace(name))
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 || name == "." || name == string(filepath.Separator) {
		return "image"
	}
	return b.String()
}

type noCache struct{}

func (noCache) Generation(context.Context) (uint64, error) { return 0, nil }
func (noCache) GetList(context.Context, string) ([]*domain.Product, bool, error) {
	return nil, false, nil
}
func (noCache) SetList(context.Context, string, []*domain.Product, uint64) error { return nil }
func (noCache) GetProduct(context.Context, string) (*domain.Product, bool, error) {
	return nil, false, nil
}
func (noCache) SetProduct(context.Context, string, *domain.Product, uint64) error { return nil }
func (noCache) Clear(context.Context) error                                       { return nil }

var _ ports.Service = (*Service)(nil)
