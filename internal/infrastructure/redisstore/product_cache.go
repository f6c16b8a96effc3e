package redisstore

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-storefront/internal/domain/entity"
	"github.com/oksasatya/go-storefront/internal/domain/repository"
)

var _ repository.ProductSource = (*ProductCache)(nil)

// ProductCache keeps the backend product list in Redis for a short TTL.
// Redis errors fall through to the source.
type ProductCache struct {
	source repository.ProductSource
	client redis.Cmdable
	ttl    time.Duration
	logger *logrus.Logger
}

func NewProductCache(source repository.ProductSource, client redis.Cmdable, ttl time.Duration, logger *logrus.Logger) *ProductCache {
	return &ProductCache{source: source, client: client, ttl: ttl, logger: logger}
}

func (c *ProductCache) ListProducts(ctx context.Context) ([]entity.Product, error) {
	var cached []entity.Product
	ok, err := getJSON(ctx, c.client, productListKey, &cached)
	if err != nil {
		c.logger.WithError(err).Warn("product cache read failed")
	}
	if ok {
		return cached, nil
	}

	products, err := c.source.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	if err := setJSON(ctx, c.client, productListKey, products, c.ttl); err != nil {
		c.logger.WithError(err).Warn("product cache write failed")
	}
	return products, nil
}

// Invalidate drops the cached list after a catalog write.
func (c *ProductCache) Invalidate(ctx context.Context) {
	if err := c.client.Del(ctx, productListKey).Err(); err != nil {
		c.logger.WithError(err).Warn("product cache invalidate failed")
	}
}
