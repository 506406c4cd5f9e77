package store

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/rueidis"
)

const (
	// Key prefixes for Redis storage
	shopTokenPrefix = "shop_token:"
	userShopPrefix  = "user_shop:"

	// client-side cache TTL for lookups; MSET invalidates tracked keys
	lookupCacheTTL = 30 * time.Second
)

// RedisStore implements the core.TokenStore interface using Redis via rueidis.
// Tokens survive process restarts and are shared between server replicas.
type RedisStore struct {
	client rueidis.Client
}

// NewRedisStore creates a new instance of RedisStore with the provided rueidis client.
func NewRedisStore(client rueidis.Client) *RedisStore {
	return &RedisStore{
		client: client,
	}
}

// RedisOptions contains configuration for Redis connection.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisStoreFromOptions creates a new RedisStore with simplified options.
func NewRedisStoreFromOptions(opts RedisOptions) (*RedisStore, error) {
	return NewRedisStoreFromClientOption(rueidis.ClientOption{
		InitAddress: []string{opts.Addr},
		Password:    opts.Password,
		SelectDB:    opts.DB,
	})
}

// NewRedisStoreFromClientOption creates a new RedisStore with full rueidis client options.
func NewRedisStoreFromClientOption(opts rueidis.ClientOption) (*RedisStore, error) {
	client, err := rueidis.NewClient(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create redis client: %w", err)
	}
	return NewRedisStore(client), nil
}

// Close closes the Redis client connection.
func (r *RedisStore) Close() {
	r.client.Close()
}

// GetByUserID resolves the user's shop and returns its access token.
// It returns ErrTokenNotFound if the user or the shop token is unknown.
func (r *RedisStore) GetByUserID(ctx context.Context, userID string) (string, error) {
	if userID == "" {
		return "", ErrTokenNotFound
	}

	shopName, err := r.get(ctx, userShopPrefix+userID)
	if err != nil {
		return "", err
	}
	return r.GetByShopName(ctx, shopName)
}

// GetByShopName returns the access token stored for shopName.
// It returns ErrTokenNotFound if shopName is empty or unknown.
func (r *RedisStore) GetByShopName(ctx context.Context, shopName string) (string, error) {
	if shopName == "" {
		return "", ErrTokenNotFound
	}

	return r.get(ctx, shopTokenPrefix+shopName)
}

func (r *RedisStore) get(ctx context.Context, key string) (string, error) {
	cmd := r.client.B().Get().Key(key).Cache()
	result, err := r.client.DoCache(ctx, cmd, lookupCacheTTL).ToString()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return "", ErrTokenNotFound
		}
		return "", fmt.Errorf("failed to get %s from redis: %w", key, err)
	}
	return result, nil
}

// Store writes both mappings with a single MSET, which Redis applies atomically.
func (r *RedisStore) Store(ctx context.Context, userID, shopName, accessToken string) error {
	if shopName == "" {
		return ErrEmptyShopName
	}

	cmd := r.client.B().Mset().KeyValue().
		KeyValue(userShopPrefix+userID, shopName).
		KeyValue(shopTokenPrefix+shopName, accessToken).
		Build()
	if err := r.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("failed to store access token in redis: %w", err)
	}

	return nil
}
