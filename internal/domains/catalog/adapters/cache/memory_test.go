package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-gin-storefront-api/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-storefront-api/internal/domains/catalog/ports"
)

func TestMemory_IsolatesCachedValues(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(time.Minute, nil)
	product := &domain.Product{ID: "p1", ProductDraft: domain.ProductDraft{Features: []string{"a"}}}

	require.NoError(t, c.SetList(ctx, ports.ProductsKey, []*domain.Product{product}, 0))
	product.Features[0] = "mutated"

	cached, ok, err := c.GetList(ctx, ports.ProductsKey)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "a", cached[0].Features[0])

	cached[0].Features[0] = "mutated again"
	again, _, _ := c.GetList(ctx, ports.ProductsKey)
	require.Equal(t, "a", again[0].Features[0])
}

func TestMemory_KeysDoNotCollideAcrossShapes(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(time.Minute, nil)
	require.NoError(t, c.SetProduct(ctx, ports.ProductKey("p1"), &domain.Product{ID: "p1"}, 0))

	_, ok, err := c.GetList(ctx, ports.ProductKey("p1"))
	require.NoError(t, err)
	require.False(t, ok)

	got, ok, err := c.GetProduct(ctx, ports.ProductKey("p1"))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "p1", got.ID)

	require.NoError(t, c.Clear(ctx))
	_, ok, _ = c.GetProduct(ctx, ports.ProductKey("p1"))
	require.False(t, ok)
}

func TestMemory_ExpiresAfterTTL(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewMemory(5*time.Minute, func() time.Time { return now })
	require.NoError(t, c.SetList(ctx, ports.ProductsKey, []*domain.Product{}, 0))

	now = now.Add(5*time.Minute + time.Second)
	_, ok, err := c.GetList(ctx, ports.ProductsKey)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMemory_DropsSetsFromBeforeClear(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(time.Minute, nil)

	gen, err := c.Generation(ctx)
	require.NoError(t, err)
	require.NoError(t, c.Clear(ctx))

	require.NoError(t, c.SetList(ctx, ports.ProductsKey, []*domain.Product{{ID: "stale"}}, gen))
	require.NoError(t, c.SetProduct(ctx, ports.ProductKey("stale"), &domain.Product{ID: "stale"}, gen))
	_, ok, _ := c.GetList(ctx, ports.ProductsKey)
	require.False(t, ok)
	_, ok, _ = c.GetProduct(ctx, ports.ProductKey("stale"))
	require.False(t, ok)

	current, err := c.Generation(ctx)
	require.NoError(t, err)
	require.Equal(t, gen+1, current)
	require.NoError(t, c.SetList(ctx, ports.ProductsKey, []*domain.Product{{ID: "fresh"}}, current))
	list, ok, _ := c.GetList(ctx, ports.ProductsKey)
	require.True(t, ok)
	require.Equal(t, "fresh", list[0].ID)
}
