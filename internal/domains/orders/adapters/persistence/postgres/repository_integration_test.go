//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Apurer/go-gin-storefront-api/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-storefront-api/internal/domains/orders/ports"
	"github.com/Apurer/go-gin-storefront-api/internal/platform/migrations"
)

func setupOrdersPostgresContainer(t *testing.T) (*gorm.DB, func()) {
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

func sampleDraft(total int64) domain.Draft {
	return domain.Draft{
		Customer:    domain.Customer{Name: "Awa", Phone: "699000000", Address: "Douala"},
		Lines:       []domain.Line{{ProductID: "p1", Name: "Casque", Price: total, Quantity: 1}},
		TotalAmount: total,
	}
}

func TestRepository_InsertAndGetByID(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	saved, err := repo.Insert(ctx, sampleDraft(1500), domain.StatusPending, time.Now())
	require.NoError(t, err)

	fetched, err := repo.GetByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, fetched.Status)
	assert.Equal(t, saved.Lines, fetched.Lines)
	assert.Equal(t, int64(1500), fetched.TotalAmount)
}

func TestRepository_UpdateStatus(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()
	created := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

	saved, err := repo.Insert(ctx, sampleDraft(100), domain.StatusPending, created)
	require.NoError(t, err)

	updated, err := repo.UpdateStatus(ctx, saved.ID, domain.StatusDelivered, created.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDelivered, updated.Status)
	assert.True(t, created.Equal(updated.CreatedAt))
	assert.True(t, created.Add(time.Hour).Equal(updated.UpdatedAt))

	_, err = repo.UpdateStatus(ctx, "missing", domain.StatusShipped, created)
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestRepository_ListNewestFirst(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()
	base := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

	var ids []string
	for i := 0; i < 3; i++ {
		saved, err := repo.Insert(ctx, sampleDraft(int64(100*(i+1))), domain.StatusPending, base.Add(time.Duration(i)*time.Minute))
		require.NoError(t, err)
		ids = append(ids, saved.ID)
	}
	_, err := repo.UpdateStatus(ctx, ids[1], domain.StatusShipped, base.Add(time.Hour))
	require.NoError(t, err)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, ids[2], list[0].ID)

	shipped, err := repo.ListByStatus(ctx, domain.StatusShipped)
	require.NoError(t, err)
	require.Len(t, shipped, 1)
	assert.Equal(t, ids[1], shipped[0].ID)
}

func TestRepository_Delete(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	saved, err := repo.Insert(ctx, sampleDraft(100), domain.StatusPending, time.Now())
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, saved.ID))
	_, err = repo.GetByID(ctx, saved.ID)
	assert.ErrorIs(t, err, ports.ErrNotFound)
	require.NoError(t, repo.Delete(ctx, saved.ID))
}
