package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Apurer/go-gin-storefront-api/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-storefront-api/internal/domains/catalog/ports"
	"github.com/Apurer/go-gin-storefront-api/internal/shared/cache"
)

var _ ports.ProductCache = (*Redis)(nil)

const (
	redisKeyPrefix = "catalog:"
	// Outside the prefix so Clear's scan never deletes it.
	redisGenerationKey = "catalog-generation"
)

// Redis stores JSON snapshots with a server-side TTL, so expiry is enforced by
// Redis rather than on read.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	if ttl <= 0 {
		ttl = cache.DefaultTTL
	}
	return &Redis{client: client, ttl: ttl}
}

func (r *Redis) Generation(ctx context.Context) (uint64, error) {
	return r.generation(ctx, r.client)
}

func (r *Redis) GetList(ctx context.Context, key string) ([]*domain.Product, bool, error) {
	var products []*domain.Product
	ok, err := r.get(ctx, key, &products)
	return products, ok, err
}

func (r *Redis) SetList(ctx context.Context, key string, products []*domain.Product, gen uint64) error {
	return r.set(ctx, key, products, gen)
}

func (r *Redis) GetProduct(ctx context.Context, key string) (*domain.Product, bool, error) {
	var product domain.Product
	ok, err := r.get(ctx, key, &product)
	if !ok || err != nil {
		return nil, false, err
	}
	return &product, true, nil
}

func (r *Redis) SetProduct(ctx context.Context, key string, product *domain.Product, gen uint64) error {
	if product == nil {
		return nil
	}
	return r.set(ctx, key, product, gen)
}

// Clear bumps the generation, then deletes every catalog key. Sets already
// holding the old generation fail their WATCH and are dropped.
func (r *Redis) Clear(ctx context.Context) error {
	if err := r.client.Incr(ctx, redisGenerationKey).Err(); err != nil {
		return err
	}
	iter := r.client.Scan(ctx, 0, redisKeyPrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return r.client.Del(ctx, keys...).Err()
}

func (r *Redis) get(ctx context.Context, key string, dst any) (bool, error) {
	raw, err := r.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, err
	}
	return true, nil
}

type stringGetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func (r *Redis) generation(ctx context.Context, c stringGetter) (uint64, error) {
	gen, err := c.Get(ctx, redisGenerationKey).Uint64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

func (r *Redis) set(ctx context.Context, key string, value any, gen uint64) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	err = r.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := r.generation(ctx, tx)
		if err != nil {
			return err
		}
		if current != gen {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.Set(ctx, redisKeyPrefix+key, raw, r.ttl)
			return nil
		})
		return err
	}, redisGenerationKey)
	if errors.Is(err, redis.TxFailedErr) {
		return nil
	}
	return err
}
