package redisstore

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/go-storefront/internal/domain/entity"
	"github.com/oksasatya/go-storefront/internal/domain/repository"
)

var _ repository.CredentialStore = (*CredentialStore)(nil)

var credentialKeys = []string{AccessTokenKey, RefreshTokenKey, UserIDKey, UserEmailKey, UserNameKey, UserRoleKey}

// CredentialStore keeps one visitor's session under separate keys that are
// always written and deleted together.
type CredentialStore struct {
	client    *redis.Client
	visitorID string
	ttl       time.Duration
}

func NewCredentialStore(client *redis.Client, visitorID string, ttl time.Duration) *CredentialStore {
	return &CredentialStore{client: client, visitorID: visitorID, ttl: ttl}
}

func (s *CredentialStore) keys() []string {
	out := make([]string, len(credentialKeys))
	for i, k := range credentialKeys {
		out[i] = visitorKey(s.visitorID, k)
	}
	return out
}

func (s *CredentialStore) Load(ctx context.Context) (entity.Credentials, error) {
	vals, err := s.client.MGet(ctx, s.keys()...).Result()
	if err != nil {
		return entity.Credentials{}, fmt.Errorf("redis mget failed: %w", err)
	}
	str := func(i int) string {
		if i >= len(vals) || vals[i] == nil {
			return ""
		}
		if v, ok := vals[i].(string); ok {
			return v
		}
		return ""
	}
	return entity.Credentials{
		AccessToken:  str(0),
		RefreshToken: str(1),
		UserID:       str(2),
		UserEmail:    str(3),
		UserName:     str(4),
		UserRole:     str(5),
	}, nil
}

func (s *CredentialStore) Save(ctx context.Context, c entity.Credentials) error {
	keys := s.keys()
	values := []string{c.AccessToken, c.RefreshToken, c.UserID, c.UserEmail, c.UserName, c.UserRole}
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, k := range keys {
			pipe.Set(ctx, k, values[i], s.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis save credentials failed: %w", err)
	}
	return nil
}

func (s *CredentialStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.keys()...).Err(); err != nil {
		return fmt.Errorf("redis clear credentials failed: %w", err)
	}
	return nil
}
