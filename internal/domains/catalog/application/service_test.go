package application

import (
	"bytes"
	"context"
	"errors"
	"io"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	catalogcache "github.com/Apurer/go-gin-storefront-api/internal/domains/catalog/adapters/cache"
	catalogmemory "github.com/Apurer/go-gin-storefront-api/internal/domains/catalog/adapters/memory"
	"github.com/Apurer/go-gin-storefront-api/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-storefront-api/internal/domains/catalog/ports"
	"github.com/Apurer/go-gin-storefront-api/internal/shared/failure"
	"github.com/Apurer/go-gin-storefront-api/internal/shared/retry"
)

// countingRepo wraps the memory repository and lets tests inject read failures.
type countingRepo struct {
	*catalogmemory.Repository

	mu         sync.Mutex
	listCalls  int
	getCalls   int
	reconnects int
	listErrs   []error
	// nameBarrier, when set, holds FindByFrenchName until released.
	nameBarrier *sync.WaitGroup
	// listed and listHold, when set, pause List after it has read the rows.
	listed   chan struct{}
	listHold chan struct{}
}

func newCountingRepo() *countingRepo {
	return &countingRepo{Repository: catalogmemory.NewRepository()}
}

func (r *countingRepo) List(ctx context.Context) ([]*domain.Product, error) {
	r.mu.Lock()
	r.listCalls++
	var err error
	if len(r.listErrs) > 0 {
		err, r.listErrs = r.listErrs[0], r.listErrs[1:]
	}
	listed, hold := r.listed, r.listHold
	r.mu.Unlock()
	if err != nil {
		return nil, err
	}
	products, err := r.Repository.List(ctx)
	if listed != nil {
		listed <- struct{}{}
		<-hold
	}
	return products, err
}

func (r *countingRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	r.mu.Lock()
	r.getCalls++
	r.mu.Unlock()
	return r.Repository.GetByID(ctx, id)
}

func (r *countingRepo) FindByFrenchName(ctx context.Context, name string) ([]*domain.Product, error) {
	matches, err := r.Repository.FindByFrenchName(ctx, name)
	if r.nameBarrier != nil {
		r.nameBarrier.Done()
		r.nameBarrier.Wait()
	}
	return matches, err
}

func (r *countingRepo) Reconnect(context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reconnects++
	return nil
}

type instantTimer struct{ c chan time.Time }

func (t *instantTimer) Start(time.Duration) {
	t.c = make(chan time.Time, 1)
	t.c <- time.Now()
}
func (t *instantTimer) Stop()               {}
func (t *instantTimer) C() <-chan time.Time { return t.c }

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func newTestService(repo ports.Repository, clock *fakeClock, opts ...Option) *Service {
	cache := catalogcache.NewMemory(5*time.Minute, clock.Now)
	opts = append([]Option{
		WithClock(clock.Now),
		WithRetryPolicy(retry.Policy{Attempts: 3, Delay: time.Second, Timer: &instantTimer{}}),
	}, opts...)
	return NewService(repo, cache, opts...)
}

func sampleDraft(frName string) domain.ProductDraft {
	return domain.ProductDraft{
		Price:         12500,
		OriginalPrice: 15000,
		Image:         "/media/products/casque.png",
		Features:      []string{"Bluetooth 5.3", " ", "Autonomie 30h"},
		Translations: domain.Translations{
			EN: domain.Translation{Name: "Headset", Description: "Wireless"},
			FR: domain.Translation{Name: frName, Description: "Sans fil"},
		},
	}
}

func TestAddProduct_NormalizesAndPersists(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)}
	svc := newTestService(newCountingRepo(), clock)

	product, err := svc.AddProduct(context.Background(), sampleDraft("  Casque  "))
	require.NoError(t, err)
	require.NotEmpty(t, product.ID)
	require.Equal(t, "  Casque  ", product.Translations.FR.Name)
	require.Equal(t, []string{"Bluetooth 5.3", "Autonomie 30h"}, product.Features)
	require.Equal(t, clock.Now(), product.CreatedAt)
}

func TestAddProduct_InvalidInput(t *testing.T) {
	svc := newTestService(newCountingRepo(), &fakeClock{now: time.Now()})

	draft := sampleDraft("Casque")
	draft.Price = -1
	_, err := svc.AddProduct(context.Background(), draft)
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, domain.ErrNegativePrice)

	_, err = svc.AddProduct(context.Background(), sampleDraft(" "))
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestAddProduct_RejectsDuplicateFrenchName(t *testing.T) {
	svc := newTestService(newCountingRepo(), &fakeClock{now: time.Now()})
	ctx := context.Background()

	_, err := svc.AddProduct(ctx, sampleDraft("Casque"))
	require.NoError(t, err)

	_, err = svc.AddProduct(ctx, sampleDraft("Casque"))
	require.ErrorIs(t, err, ports.ErrDuplicateName)
	require.True(t, failure.Is(err, failure.AlreadyExists))

	_, err = svc.AddProduct(ctx, sampleDraft("casque"))
	require.NoError(t, err)

	_, err = svc.AddProduct(ctx, sampleDraft("Casque "))
	require.NoError(t, err)
}

// The name check and the insert are not atomic: two concurrent adds of the
// same name can both pass the check.
func TestAddProduct_ConcurrentDuplicatesBothSucceed(t *testing.T) {
	repo := newCountingRepo()
	barrier := &sync.WaitGroup{}
	barrier.Add(2)
	repo.nameBarrier = barrier
	svc := newTestService(repo, &fakeClock{now: time.Now()})

	errs := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() {
			_, err := svc.AddProduct(context.Background(), sampleDraft("Montre"))
			errs <- err
		}()
	}
	require.NoError(t, <-errs)
	require.NoError(t, <-errs)

	repo.nameBarrier = nil
	matches, err := repo.FindByFrenchName(context.Background(), "Montre")
	require.NoError(t, err)
	require.Len(t, matches, 2)
}

func TestGetProducts_ServesFromCacheWithinTTL(t *testing.T) {
	repo := newCountingRepo()
	clock := &fakeClock{now: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)}
	svc := newTestService(repo, clock)
	ctx := context.Background()
	_, err := svc.AddProduct(ctx, sampleDraft("Casque"))
	require.NoError(t, err)

	first, err := svc.GetProducts(ctx)
	require.NoError(t, err)
	clock.Advance(5 * time.Minute)
	second, err := svc.GetProducts(ctx)
	require.NoError(t, err)

	require.Equal(t, first, second)
	require.Equal(t, 1, repo.listCalls)

	clock.Advance(time.Second)
	_, err = svc.GetProducts(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, repo.listCalls)
}

func TestWrites_InvalidateCache(t *testing.T) {
	repo := newCountingRepo()
	svc := newTestService(repo, &fakeClock{now: time.Now()})
	ctx := context.Background()

	product, err := svc.AddProduct(ctx, sampleDraft("Casque"))
	require.NoError(t, err)
	list, err := svc.GetProducts(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	_, err = svc.GetProduct(ctx, product.ID)
	require.NoError(t, err)

	updated := sampleDraft("Casque Pro")
	_, err = svc.UpdateProduct(ctx, product.ID, updated)
	require.NoError(t, err)

	fetched, err := svc.GetProduct(ctx, product.ID)
	require.NoError(t, err)
	require.Equal(t, "Casque Pro", fetched.Translations.FR.Name)
	require.Equal(t, 2, repo.getCalls)

	require.NoError(t, svc.DeleteProduct(ctx, product.ID))
	list, err = svc.GetProducts(ctx)
	require.NoError(t, err)
	require.Empty(t, list)
	require.Equal(t, 2, repo.listCalls)
}

func TestGetProducts_SnapshotReadBeforeWriteIsNotCached(t *testing.T) {
	repo := newCountingRepo()
	svc := newTestService(repo, &fakeClock{now: time.Now()})
	ctx := context.Background()
	product, err := svc.AddProduct(ctx, sampleDraft("Casque"))
	require.NoError(t, err)

	repo.listed = make(chan struct{})
	repo.listHold = make(chan struct{})
	var stale []*domain.Product
	var staleErr error
	done := make(chan struct{})
	go func() {
		defer close(done)
		stale, staleErr = svc.GetProducts(ctx)
	}()

	<-repo.listed
	repriced := sampleDraft("Casque")
	repriced.Price = 9000
	_, err = svc.UpdateProduct(ctx, product.ID, repriced)
	require.NoError(t, err)
	close(repo.listHold)
	<-done
	require.NoError(t, staleErr)
	require.Equal(t, int64(12500), stale[0].Price)

	repo.mu.Lock()
	repo.listed, repo.listHold = nil, nil
	repo.mu.Unlock()

	list, err := svc.GetProducts(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, int64(9000), list[0].Price)
	require.Equal(t, 2, repo.listCalls)
}

func TestGetProduct_SnapshotReadBeforeDeleteIsNotCached(t *testing.T) {
	repo := newCountingRepo()
	svc := newTestService(repo, &fakeClock{now: time.Now()})
	ctx := context.Background()
	product, err := svc.AddProduct(ctx, sampleDraft("Casque"))
	require.NoError(t, err)

	cache := catalogcache.NewMemory(time.Minute, nil)
	gen, err := cache.Generation(ctx)
	require.NoError(t, err)
	svc = NewService(repo, cache)
	require.NoError(t, svc.DeleteProduct(ctx, product.ID))

	// A read that captured the generation before the delete lands late.
	require.NoError(t, cache.SetProduct(ctx, ports.ProductKey(product.ID), product, gen))
	_, err = svc.GetProduct(ctx, product.ID)
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestGetProducts_RetriesUnavailableReads(t *testing.T) {
	repo := newCountingRepo()
	transient := failure.Wrap(failure.Unavailable, errors.New("connection reset"), "")
	repo.listErrs = []error{transient, transient}
	svc := newTestService(repo, &fakeClock{now: time.Now()})

	list, err := svc.GetProducts(context.Background())
	require.NoError(t, err)
	require.Empty(t, list)
	require.Equal(t, 3, repo.listCalls)
	require.Equal(t, 2, repo.reconnects)
}

func TestGetProducts_SurfacesErrorAfterThreeAttempts(t *testing.T) {
	repo := newCountingRepo()
	transient := failure.Wrap(failure.Unavailable, errors.New("connection reset"), "")
	repo.listErrs = []error{transient, transient, transient, transient}
	svc := newTestService(repo, &fakeClock{now: time.Now()})

	_, err := svc.GetProducts(context.Background())
	require.True(t, failure.Is(err, failure.Unavailable))
	require.Equal(t, 3, repo.listCalls)
}

func TestGetProducts_DoesNotRetryPermissionDenied(t *testing.T) {
	repo := newCountingRepo()
	repo.listErrs = []error{failure.New(failure.PermissionDenied, "")}
	svc := newTestService(repo, &fakeClock{now: time.Now()})

	_, err := svc.GetProducts(context.Background())
	require.True(t, failure.Is(err, failure.PermissionDenied))
	require.Equal(t, 1, repo.listCalls)
	require.Zero(t, repo.reconnects)
}

func TestGetProduct_NotFoundIsNotCached(t *testing.T) {
	repo := newCountingRepo()
	svc := newTestService(repo, &fakeClock{now: time.Now()})
	ctx := context.Background()

	_, err := svc.GetProduct(ctx, "missing")
	require.ErrorIs(t, err, ports.ErrNotFound)
	require.True(t, failure.Is(err, failure.NotFound))
	_, err = svc.GetProduct(ctx, "missing")
	require.ErrorIs(t, err, ports.ErrNotFound)
	require.Equal(t, 2, repo.getCalls)

	_, err = svc.GetProduct(ctx, " ")
	require.ErrorIs(t, err, ErrInvalidInput)
}

type recordingImages struct {
	key  string
	body []byte
}

func (r *recordingImages) Upload(_ context.Context, key, _ string, body io.Reader) (string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	r.key, r.body = key, data
	return "https://cdn.example.com/" + key, nil
}

func TestUploadImage_BuildsTimestampedKey(t *testing.T) {
	clock := &fakeClock{now: time.UnixMilli(1714550400000)}
	images := &recordingImages{}
	svc := newTestService(newCountingRepo(), clock, WithImageStore(images))

	url, err := svc.UploadImage(context.Background(), "../photo casque.png", "image/png", bytes.NewBufferString("png"))
	require.NoError(t, err)
	require.Equal(t, "products/1714550400000_photo_casque.png", images.key)
	require.Equal(t, "https://cdn.example.com/products/1714550400000_photo_casque.png", url)
	require.Equal(t, []byte("png"), images.body)

	disabled := newTestService(newCountingRepo(), clock)
	_, err = disabled.UploadImage(context.Background(), "a.png", "image/png", bytes.NewBufferString("png"))
	require.ErrorIs(t, err, ErrImagesDisabled)
}

func TestQuote_PricesFromCatalog(t *testing.T) {
	svc := newTestService(newCountingRepo(), &fakeClock{now: time.Now()})
	ctx := context.Background()
	product, err := svc.AddProduct(ctx, sampleDraft("Casque"))
	require.NoError(t, err)

	quote, err := svc.Quote(ctx, []ports.CartLine{{ProductID: product.ID, Quantity: 2}}, "WELCOME10")
	require.NoError(t, err)
	require.Equal(t, int64(25000), quote.Subtotal)
	require.Equal(t, int64(2500), quote.Discount)
	require.Equal(t, int64(22500), quote.Total)
	require.Equal(t, "Casque", quote.Lines[0].Name)

	_, err = svc.Quote(ctx, []ports.CartLine{{ProductID: product.ID, Quantity: 1}}, "BOGUS")
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Quote(ctx, []ports.CartLine{{ProductID: "missing", Quantity: 1}}, "")
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestQuote_RejectsOverflowingQuantity(t *testing.T) {
	svc := newTestService(newCountingRepo(), &fakeClock{now: time.Now()})
	ctx := context.Background()
	product, err := svc.AddProduct(ctx, sampleDraft("Casque"))
	require.NoError(t, err)

	_, err = svc.Quote(ctx, []ports.CartLine{{ProductID: product.ID, Quantity: math.MaxInt64 / 1000}}, "")
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, domain.ErrQuoteOverflow)
}
