package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/go-storefront/internal/domain/entity"
	"github.com/oksasatya/go-storefront/internal/domain/repository"
)

const maxUpdateRetries = 10

var ErrConflict = errors.New("cart update conflict")

var _ repository.CartStorage = (*CartStorage)(nil)

// CartStorage stores each visitor's cart as JSON under a fixed key.
type CartStorage struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCartStorage returns a storage whose keys expire after ttl of inactivity.
// A zero ttl keeps carts forever.
func NewCartStorage(client *redis.Client, ttl time.Duration) *CartStorage {
	return &CartStorage{client: client, ttl: ttl}
}

func (s *CartStorage) Load(ctx context.Context, visitorID string) (entity.Cart, error) {
	return s.read(ctx, s.client, visitorKey(visitorID, CartKey))
}

// Update runs fn inside a WATCH transaction so concurrent requests for the
// same visitor are applied one after another.
func (s *CartStorage) Update(ctx context.Context, visitorID string, fn func(entity.Cart) entity.Cart) (entity.Cart, error) {
	key := visitorKey(visitorID, CartKey)
	var out entity.Cart

	txf := func(tx *redis.Tx) error {
		cur, err := s.read(ctx, tx, key)
		if err != nil {
			return err
		}
		next := fn(cur)
		b, err := json.Marshal(next)
		if err != nil {
			return fmt.Errorf("marshal cart failed: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, b, s.ttl)
			return nil
		})
		if err == nil {
			out = next
		}
		return err
	}

	for i := 0; i < maxUpdateRetries; i++ {
		err := s.client.Watch(ctx, txf, key)
		if err == nil {
			return out, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return entity.Cart{}, err
	}
	return entity.Cart{}, ErrConflict
}

func (s *CartStorage) read(ctx context.Context, c redis.Cmdable, key string) (entity.Cart, error) {
	data, err := c.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return entity.Cart{Lines: []entity.CartLine{}}, nil
	}
	if err != nil {
		return entity.Cart{}, fmt.Errorf("redis get failed: %w", err)
	}
	var cart entity.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return entity.Cart{}, fmt.Errorf("unmarshal cart failed: %w", err)
	}
	if cart.Lines == nil {
		cart.Lines = []entity.CartLine{}
	}
	return cart, nil
}
