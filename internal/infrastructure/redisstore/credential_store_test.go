package redisstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-storefront/internal/domain/entity"
)

func TestCredentialStore_SaveLoadClear(t *testing.T) {
	client, mr := setupTestRedis(t)
	s := NewCredentialStore(client, "v1", 0)
	ctx := context.Background()

	creds := entity.Credentials{
		AccessToken:  "at",
		RefreshToken: "rt",
		UserID:       "u1",
		UserEmail:    "a@example.com",
		UserName:     "Ann",
		UserRole:     entity.RoleAdmin,
	}
	require.NoError(t, s.Save(ctx, creds))

	for _, k := range credentialKeys {
		assert.True(t, mr.Exists(visitorKey("v1", k)), k)
	}

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, creds, got)

	require.NoError(t, s.Clear(ctx))
	for _, k := range credentialKeys {
		assert.False(t, mr.Exists(visitorKey("v1", k)), k)
	}

	got, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, entity.Credentials{}, got)
}

func TestCredentialStore_LeavesCartAlone(t *testing.T) {
	client, mr := setupTestRedis(t)
	s := NewCredentialStore(client, "v1", 0)
	ctx := context.Background()
	require.NoError(t, mr.Set(visitorKey("v1", CartKey), `{"lines":[]}`))

	require.NoError(t, s.Save(ctx, entity.Credentials{AccessToken: "x"}))
	require.NoError(t, s.Clear(ctx))

	assert.True(t, mr.Exists(visitorKey("v1", CartKey)))
}
