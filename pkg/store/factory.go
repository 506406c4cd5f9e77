package store

import (
	"fmt"
	"strings"

	"github.com/go-training/shopify-token-store/pkg/core"
)

// StoreType represents the type of store backend.
type StoreType string

const (
	// StoreTypeMemory represents in-memory storage.
	StoreTypeMemory StoreType = "memory"
	// StoreTypeRedis represents Redis storage.
	StoreTypeRedis StoreType = "redis"
	// StoreTypeSQLite represents SQLite storage.
	StoreTypeSQLite StoreType = "sqlite"
)

// Config contains configuration for creating a store.
type Config struct {
	// Type specifies the store type (memory, redis or sqlite).
	Type StoreType
	// Redis contains Redis-specific configuration.
	Redis RedisOptions
	// SQLitePath is the database file used when Type is sqlite.
	SQLitePath string
}

// Factory creates store instances based on configuration.
type Factory struct {
	config Config
}

// NewFactory creates a new store factory with the provided configuration.
func NewFactory(config Config) *Factory {
	return &Factory{
		config: config,
	}
}

// Create creates and returns a new store instance based on the factory configuration.
// Returns an error if the store type is invalid or if store creation fails.
func (f *Factory) Create() (core.TokenStore, error) {
	switch f.config.Type {
	case StoreTypeMemory:
		return NewMemoryStore(), nil
	case StoreTypeRedis:
		store, err := NewRedisStoreFromOptions(f.config.Redis)
		if err != nil {
			return nil, err
		}
		return store, nil
	case StoreTypeSQLite:
		path := f.config.SQLitePath
		if path == "" {
			path = ":memory:"
		}
		store, err := NewSQLiteStore(path)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported store type: %s", f.config.Type)
	}
}

// NewStore is a convenience function that creates a store directly from configuration.
// It's equivalent to NewFactory(config).Create().
func NewStore(config Config) (core.TokenStore, error) {
	return NewFactory(config).Create()
}

// ParseStoreType parses a string into a StoreType.
// Returns StoreTypeMemory for invalid inputs.
func ParseStoreType(s string) StoreType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "redis":
		return StoreTypeRedis
	case "sqlite":
		return StoreTypeSQLite
	default:
		return StoreTypeMemory
	}
}

// String returns the string representation of a StoreType.
func (t StoreType) String() string {
	return string(t)
}

// IsValid returns true if the StoreType is valid.
func (t StoreType) IsValid() bool {
	switch t {
	case StoreTypeMemory, StoreTypeRedis, StoreTypeSQLite:
		return true
	default:
		return false
	}
}

// MustCreate creates a store and panics if creation fails.
func MustCreate(config Config) core.TokenStore {
	store, err := NewStore(config)
	if err != nil {
		panic(fmt.Sprintf("failed to create store: %v", err))
	}
	return store
}

// DefaultConfig returns the default store configuration (memory store).
func DefaultConfig() Config {
	return MemoryConfig()
}

// MemoryConfig creates a memory store configuration.
func MemoryConfig() Config {
	return Config{
		Type: StoreTypeMemory,
	}
}

// RedisConfig creates a Redis store configuration with the provided options.
func RedisConfig(redisOpts RedisOptions) Config {
	return Config{
		Type:  StoreTypeRedis,
		Redis: redisOpts,
	}
}

// SQLiteConfig creates a SQLite store configuration for the database at path.
func SQLiteConfig(path string) Config {
	return Config{
		Type:       StoreTypeSQLite,
		SQLitePath: path,
	}
}

// Close releases the store's connections if it holds any.
func Close(s core.TokenStore) error {
	switch c := s.(type) {
	case *SQLiteStore:
		return c.Close()
	case *RedisStore:
		c.Close()
	}
	return nil
}
