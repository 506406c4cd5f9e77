package store_test

import (
	"context"
	"fmt"
	"log"

	"github.com/go-training/shopify-token-store/pkg/store"
)

// Example demonstrates basic usage of the store factory.
func Example() {
	s, err := store.NewStore(store.MemoryConfig())
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	if err := s.Store(ctx, "user-1", "acme", "shpat_example"); err != nil {
		log.Fatal(err)
	}

	token, err := s.GetByUserID(ctx, "user-1")
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(token)
	// Output: shpat_example
}

// Example_sqliteStore demonstrates creating a durable SQLite store.
func Example_sqliteStore() {
	s, err := store.NewStore(store.SQLiteConfig(":memory:"))
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close(s)

	fmt.Printf("Store type: %T\n", s)
	// Output: Store type: *store.SQLiteStore
}

// Example_parseStoreType demonstrates parsing a store type from a flag value.
func Example_parseStoreType() {
	fmt.Println(store.ParseStoreType("Redis"))
	fmt.Println(store.ParseStoreType("unknown"))
	// Output:
	// redis
	// memory
}
