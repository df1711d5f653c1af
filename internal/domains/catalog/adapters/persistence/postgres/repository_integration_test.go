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

	"github.com/Apurer/go-gin-storefront-api/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-storefront-api/internal/domains/catalog/ports"
	"github.com/Apurer/go-gin-storefront-api/internal/platform/migrations"
)

func setupCatalogPostgresContainer(t *testing.T) (*gorm.DB, func()) {
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

func draft(frName string, price int64) domain.ProductDraft {
	return domain.ProductDraft{
		Price:    price,
		Features: []string{"Garantie 1 an"},
		Translations: domain.Translations{
			EN: domain.Translation{Name: "Item " + frName},
			FR: domain.Translation{Name: frName},
		},
	}
}

func TestRepository_InsertAndGetByID(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	db, cleanup := setupCatalogPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	saved, err := repo.Insert(ctx, draft("Casque", 12500), time.Now())
	require.NoError(t, err)

	fetched, err := repo.GetByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "Casque", fetched.Translations.FR.Name)
	assert.Equal(t, []string{"Garantie 1 an"}, fetched.Features)
	assert.Equal(t, int64(12500), fetched.Price)

	_, err = repo.GetByID(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestRepository_ReplaceKeepsCreatedAt(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	db, cleanup := setupCatalogPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	saved, err := repo.Insert(ctx, draft("Montre", 5000), created)
	require.NoError(t, err)

	updated, err := repo.Replace(ctx, saved.ID, draft("Montre connectée", 7000), created.Add(time.Hour))
	require.NoError(t, err)
	assert.True(t, created.Equal(updated.CreatedAt))
	assert.Equal(t, int64(7000), updated.Price)

	_, err = repo.Replace(ctx, "00000000-0000-0000-0000-000000000000", draft("x", 1), created)
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestRepository_ListAndFindByFrenchName(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	db, cleanup := setupCatalogPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()
	base := time.Now()
	for i, name := range []string{"Casque", "Montre", "Casque"} {
		_, err := repo.Insert(ctx, draft(name, 1000), base.Add(time.Duration(i)*time.Second))
		require.NoError(t, err)
	}

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 3)
	assert.Equal(t, "Montre", list[1].Translations.FR.Name)

	matches, err := repo.FindByFrenchName(ctx, "Casque")
	require.NoError(t, err)
	assert.Len(t, matches, 2)

	require.NoError(t, repo.Delete(ctx, list[0].ID))
	require.NoError(t, repo.Delete(ctx, list[0].ID))
	require.NoError(t, repo.Reconnect(ctx))
}
