// Package memory holds in-memory CartStorage and CredentialStore test doubles
// shared by the cart, session and handler tests. The server always stores
// carts and credentials in Redis.
package memory

import (
	"context"
	"sync"

	"github.com/oksasatya/go-storefront/internal/domain/entity"
	"github.com/oksasatya/go-storefront/internal/domain/repository"
)

var _ repository.CartStorage = (*CartStorage)(nil)
var _ repository.CredentialStore = (*CredentialStore)(nil)

// CartStorage keeps carts per visitor behind a single mutex.
type CartStorage struct {
	mu    sync.Mutex
	carts map[string]entity.Cart
}

func NewCartStorage() *CartStorage {
	return &CartStorage{carts: make(map[string]entity.Cart)}
}

func (s *CartStorage) Load(_ context.Context, visitorID string) (entity.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.carts[visitorID], nil
}

func (s *CartStorage) Update(_ context.Context, visitorID string, fn func(entity.Cart) entity.Cart) (entity.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := fn(s.carts[visitorID])
	s.carts[visitorID] = next
	return next, nil
}

// CredentialStore holds one visitor's credentials.
type CredentialStore struct {
	mu    sync.Mutex
	creds entity.Credentials
}

func NewCredentialStore(initial entity.Credentials) *CredentialStore {
	return &CredentialStore{creds: initial}
}

func (s *CredentialStore) Load(context.Context) (entity.Credentials, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.creds, nil
}

func (s *CredentialStore) Save(_ context.Context, c entity.Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds = c
	return nil
}

func (s *CredentialStore) Clear(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds = entity.Credentials{}
	return nil
}
