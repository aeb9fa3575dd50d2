package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"storefront/internal/infra"

	"github.com/go-redis/redis/v8"
)

var ErrProductNotFound = errors.New("product not found")

// ProductCatalog resolves products through a read-through Redis cache in
// front of the product service. A nil cache disables caching.
type ProductCatalog struct {
	client infra.ProductClientInterface
	cache  redis.Cmdable
	ttl    time.Duration
}

func NewProductCatalog(client infra.ProductClientInterface, cache redis.Cmdable, ttl time.Duration) *ProductCatalog {
	return &ProductCatalog{client: client, cache: cache, ttl: ttl}
}

func productCacheKey(id uint64) string {
	return fmt.Sprintf("product:%d", id)
}

func (c *ProductCatalog) Get(ctx context.Context, id uint64) (*infra.ProductInfo, error) {
	if c.cache != nil {
		if cached, err := c.cache.Get(ctx, productCacheKey(id)).Bytes(); err == nil {
			var p infra.ProductInfo
			if err := json.Unmarshal(cached, &p); err == nil {
				return &p, nil
			}
		}
	}

	p, err := c.client.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProductNotFound
	}

	c.store(ctx, p, c.ttl)
	return p, nil
}

// Warmup loads ids into the cache; individual failures are logged and skipped.
func (c *ProductCatalog) Warmup(ctx context.Context, ids []uint64) error {
	if c.cache == nil {
		return nil
	}

	for _, id := range ids {
		p, err := c.client.GetProduct(ctx, id)
		if err != nil {
			slog.WarnContext(ctx, "product cache warmup failed", "product_id", id, "err", err)
			continue
		}
		if p != nil {
			c.store(ctx, p, 5*c.ttl)
		}
	}
	return nil
}

func (c *ProductCatalog) store(ctx context.Context, p *infra.ProductInfo, ttl time.Duration) {
	if c.cache == nil {
		return
	}
	data, err := json.Marshal(p)
	if err != nil {
		return
	}
	if err := c.cache.Set(ctx, productCacheKey(p.ID), data, ttl).Err(); err != nil {
		slog.WarnContext(ctx, "product cache write failed", "product_id", p.ID, "err", err)
	}
}
