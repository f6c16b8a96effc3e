package redisstore

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-storefront/internal/domain/entity"
)

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client, mr
}

func addLine(id string, price float64) func(entity.Cart) entity.Cart {
	return func(c entity.Cart) entity.Cart {
		for i := range c.Lines {
			if c.Lines[i].Product.ID == id {
				c.Lines[i].Quantity++
				return c
			}
		}
		c.Lines = append(c.Lines, entity.CartLine{Product: entity.ProductSnapshot{ID: id, Price: price}, Quantity: 1})
		return c
	}
}

func TestCartStorage_LoadMissingIsEmpty(t *testing.T) {
	client, _ := setupTestRedis(t)
	s := NewCartStorage(client, 0)

	c, err := s.Load(context.Background(), "v1")
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())
	assert.NotNil(t, c.Lines)
}

func TestCartStorage_UpdatePersistsUnderFixedKey(t *testing.T) {
	client, mr := setupTestRedis(t)
	s := NewCartStorage(client, time.Hour)
	ctx := context.Background()

	out, err := s.Update(ctx, "v1", addLine("p1", 100))
	require.NoError(t, err)
	require.Len(t, out.Lines, 1)

	raw, err := mr.Get("storefront:visitor:v1:cart-storage")
	require.NoError(t, err)
	var stored entity.Cart
	require.NoError(t, json.Unmarshal([]byte(raw), &stored))
	assert.Equal(t, out, stored)
	assert.Equal(t, time.Hour, mr.TTL("storefront:visitor:v1:cart-storage"))

	loaded, err := s.Load(ctx, "v1")
	require.NoError(t, err)
	assert.Equal(t, out, loaded)
}

func TestCartStorage_ConcurrentUpdatesAreNotLost(t *testing.T) {
	client, _ := setupTestRedis(t)
	s := NewCartStorage(client, 0)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Update(ctx, "v1", addLine("p1", 10))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	c, err := s.Load(ctx, "v1")
	require.NoError(t, err)
	require.Len(t, c.Lines, 1)
	assert.Equal(t, 5, c.Lines[0].Quantity)
}

func TestCartStorage_VisitorsAreIsolated(t *testing.T) {
	client, _ := setupTestRedis(t)
	s := NewCartStorage(client, 0)
	ctx := context.Background()

	_, err := s.Update(ctx, "a", addLine("p1", 1))
	require.NoError(t, err)

	c, err := s.Load(ctx, "b")
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())
}

func TestCartStorage_CorruptPayload(t *testing.T) {
	client, mr := setupTestRedis(t)
	s := NewCartStorage(client, 0)
	require.NoError(t, mr.Set("storefront:visitor:v1:cart-storage", "{not json"))

	_, err := s.Load(context.Background(), "v1")
	assert.Error(t, err)
}
