package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/veloura/storefront/internal/catalog/domain"
	"github.com/veloura/storefront/internal/catalog/ports"
)

const (
	productKeyPrefix = "catalog:product:"
	listKey          = "catalog:products:all"
)

// CachedProductRepository is a read-through cache in front of a product
// repository. Only slug lookups and the unfiltered listing are cached;
// filtered listings always hit the inner repository. Cache failures are
// logged and the call falls through, so Redis being down degrades to
// uncached reads rather than errors.
type CachedProductRepository struct {
	inner  ports.ProductRepository
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewCachedProductRepository(inner ports.ProductRepository, client *redis.Client, ttl time.Duration, logger *slog.Logger) *CachedProductRepository {
	return &CachedProductRepository{
		inner:  inner,
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

func (r *CachedProductRepository) List(ctx context.Context, filter ports.ProductFilter) ([]domain.Product, error) {
	if filter != (ports.ProductFilter{}) {
		return r.inner.List(ctx, filter)
	}

	cached, err := r.client.Get(ctx, listKey).Bytes()
	if err == nil {
		var products []domain.Product
		if err := json.Unmarshal(cached, &products); err == nil {
			return products, nil
		}
		r.logger.WarnContext(ctx, "discarding corrupt cache entry", "key", listKey)
	} else if !errors.Is(err, redis.Nil) {
		r.logger.WarnContext(ctx, "product list cache read failed", "error", err)
	}

	products, err := r.inner.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	r.store(ctx, listKey, products)
	return products, nil
}

func (r *CachedProductRepository) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	key := productKeyPrefix + slug

	cached, err := r.client.Get(ctx, key).Bytes()
	if err == nil {
		var product domain.Product
		if err := json.Unmarshal(cached, &product); err == nil {
			return &product, nil
		}
		r.logger.WarnContext(ctx, "discarding corrupt cache entry", "key", key)
	} else if !errors.Is(err, redis.Nil) {
		r.logger.WarnContext(ctx, "product cache read failed", "slug", slug, "error", err)
	}

	product, err := r.inner.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	r.store(ctx, key, product)
	return product, nil
}

func (r *CachedProductRepository) Create(ctx context.Context, product domain.Product) error {
	if err := r.inner.Create(ctx, product); err != nil {
		return err
	}

	if err := r.client.Del(ctx, listKey).Err(); err != nil {
		r.logger.WarnContext(ctx, "product list cache invalidation failed", "error", err)
	}
	return nil
}

func (r *CachedProductRepository) store(ctx context.Context, key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		r.logger.WarnContext(ctx, "cache marshal failed", "key", key, "error", err)
		return
	}
	if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
		r.logger.WarnContext(ctx, "cache write failed", "key", key, "error", err)
	}
}

// NewClient connects to Redis and verifies the connection.
func NewClient(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}
