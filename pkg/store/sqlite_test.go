package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/go-training/shopify-token-store/pkg/core"
)

func setupSQLiteStore(t *testing.T, path string) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteStore_TokenStore(t *testing.T) {
	testTokenStore(t, func(t *testing.T) core.TokenStore {
		return setupSQLiteStore(t, ":memory:")
	})
}

func TestSQLiteStore_Close(t *testing.T) {
	store, err := NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}

	if err := store.Close(); err != nil {
		t.Errorf("Close() returned error: %v", err)
	}
}

func TestSQLiteStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.db")
	ctx := context.Background()

	first, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	if err := first.Store(ctx, "u1", "acme", "tok"); err != nil {
		t.Fatalf("Store() error = %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	second := setupSQLiteStore(t, path)
	got, err := second.GetByUserID(ctx, "u1")
	if err != nil {
		t.Fatalf("GetByUserID() error = %v", err)
	}
	if got != "tok" {
		t.Errorf("GetByUserID() = %q, want %q", got, "tok")
	}
}
