package store

import (
	"context"
	"errors"
	"sync"
)

var (
	// ErrTokenNotFound is returned when no access token is stored for the lookup key.
	ErrTokenNotFound = errors.New("access token not found")
	// ErrEmptyShopName is returned when attempting to store a token without a shop name.
	ErrEmptyShopName = errors.New("shop name cannot be empty")
)

// MemoryStore implements the core.TokenStore interface using two in-memory maps.
// Entries live for the lifetime of the process and are never evicted.
type MemoryStore struct {
	mu                sync.RWMutex
	accessTokenByShop map[string]string
	shopNameByUserID  map[string]string
}

// NewMemoryStore creates a new instance of MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		accessTokenByShop: make(map[string]string),
		shopNameByUserID:  make(map[string]string),
	}
}

// GetByUserID resolves the user's shop and returns its access token.
// It returns ErrTokenNotFound if the user or the shop token is unknown.
func (m *MemoryStore) GetByUserID(ctx context.Context, userID string) (string, error) {
	if userID == "" {
		return "", ErrTokenNotFound
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	shopName, exists := m.shopNameByUserID[userID]
	if !exists || shopName == "" {
		return "", ErrTokenNotFound
	}
	return m.lookupShop(shopName)
}

// GetByShopName returns the access token stored for shopName.
// It returns ErrTokenNotFound if shopName is empty or unknown.
func (m *MemoryStore) GetByShopName(ctx context.Context, shopName string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.lookupShop(shopName)
}

func (m *MemoryStore) lookupShop(shopName string) (string, error) {
	if shopName == "" {
		return "", ErrTokenNotFound
	}
	accessToken, exists := m.accessTokenByShop[shopName]
	if !exists {
		return "", ErrTokenNotFound
	}
	return accessToken, nil
}

// Store overwrites both mappings under a single lock so readers never see
// the user mapped to a shop that has no token yet.
func (m *MemoryStore) Store(ctx context.Context, userID, shopName, accessToken string) error {
	if shopName == "" {
		return ErrEmptyShopName
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.shopNameByUserID[userID] = shopName
	m.accessTokenByShop[shopName] = accessToken
	return nil
}
