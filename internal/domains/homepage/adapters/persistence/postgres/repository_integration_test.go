//go:build integration

package postgres

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Apurer/go-gin-storefront-api/internal/domains/homepage/application"
	"github.com/Apurer/go-gin-storefront-api/internal/domains/homepage/domain"
	"github.com/Apurer/go-gin-storefront-api/internal/domains/homepage/ports"
	"github.com/Apurer/go-gin-storefront-api/internal/platform/migrations"
	"github.com/Apurer/go-gin-storefront-api/internal/shared/failure"
)

func setupHomepagePostgresContainer(t *testing.T) (*gorm.DB, func()) {
	ctx := context.Background()

	pgContainer, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcpostgres.WithDatabase("storefront_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, migrations.Run(db))

	cleanup := func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		pgContainer.Terminate(ctx)
	}
	return db, cleanup
}

func activeDraft(title string) domain.Draft {
	return domain.Draft{Content: domain.Content{
		Hero:     domain.Hero{Title: domain.Localized{EN: title, FR: title}},
		Featured: domain.Featured{ProductIDs: []string{"p1"}},
		IsActive: true,
	}}
}

func TestRepository_ConcurrentActivationsKeepSingleActive(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	db, cleanup := setupHomepagePostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	svc := application.NewService(repo)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.CreateHomepage(ctx, activeDraft("Concurrent"))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	active, err := repo.ListActive(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 1)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 8)
}

func TestRepository_UniqueIndexRejectsSecondActiveRow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	db, cleanup := setupHomepagePostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	err := repo.InTransaction(ctx, func(ctx context.Context, tx ports.Tx) error {
		if _, err := tx.Insert(ctx, activeDraft("One").Content, time.Now()); err != nil {
			return err
		}
		_, err := tx.Insert(ctx, activeDraft("Two").Content, time.Now())
		return err
	})
	assert.ErrorIs(t, err, ports.ErrActivationConflict)
	assert.True(t, failure.Is(err, failure.AlreadyExists))

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all, "the failed transaction is rolled back")
}

func TestRepository_UpdateRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	db, cleanup := setupHomepagePostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	svc := application.NewService(repo)
	ctx := context.Background()

	created, err := svc.CreateHomepage(ctx, activeDraft("Launch"))
	require.NoError(t, err)

	inactive := false
	updated, err := svc.UpdateHomepage(ctx, created.ID, domain.Patch{
		Featured: &domain.Featured{ProductIDs: []string{"p2", "p2", "p3"}},
		IsActive: &inactive,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"p2", "p3"}, updated.Featured.ProductIDs)

	fetched, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, fetched.IsActive)
	assert.Equal(t, "Launch", fetched.Hero.Title.FR)
	assert.Equal(t, []string{"p2", "p3"}, fetched.Featured.ProductIDs)

	_, err = svc.GetActiveHomepage(ctx)
	assert.ErrorIs(t, err, ports.ErrNotFound)
}
