package store

import (
	"context"
	"errors"
	"testing"

	"github.com/go-training/shopify-token-store/pkg/core"
)

// testTokenStore runs the behaviour every core.TokenStore must share.
func testTokenStore(t *testing.T, newStore func(t *testing.T) core.TokenStore) {
	t.Helper()

	t.Run("store resolves by user and shop", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		if err := s.Store(ctx, "u1", "acme", "tok"); err != nil {
			t.Fatalf("Store() error = %v", err)
		}

		byUser, err := s.GetByUserID(ctx, "u1")
		if err != nil {
			t.Fatalf("GetByUserID() error = %v", err)
		}
		byShop, err := s.GetByShopName(ctx, "acme")
		if err != nil {
			t.Fatalf("GetByShopName() error = %v", err)
		}
		if byUser != "tok" || byShop != "tok" {
			t.Errorf("got byUser=%q byShop=%q, want both %q", byUser, byShop, "tok")
		}
	})

	t.Run("unknown keys are not found", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		if _, err := s.GetByUserID(ctx, "unknown"); !errors.Is(err, ErrTokenNotFound) {
			t.Errorf("GetByUserID(unknown) error = %v, want %v", err, ErrTokenNotFound)
		}
		if _, err := s.GetByShopName(ctx, "unknown"); !errors.Is(err, ErrTokenNotFound) {
			t.Errorf("GetByShopName(unknown) error = %v, want %v", err, ErrTokenNotFound)
		}
		if _, err := s.GetByShopName(ctx, ""); !errors.Is(err, ErrTokenNotFound) {
			t.Errorf("GetByShopName(\"\") error = %v, want %v", err, ErrTokenNotFound)
		}
	})

	t.Run("empty user id is never resolved", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		if err := s.Store(ctx, "", "acme.myshopify.com", "tok"); err != nil {
			t.Fatalf("Store() error = %v", err)
		}
		if _, err := s.GetByUserID(ctx, ""); !errors.Is(err, ErrTokenNotFound) {
			t.Errorf("GetByUserID(\"\") error = %v, want %v", err, ErrTokenNotFound)
		}
		got, err := s.GetByShopName(ctx, "acme.myshopify.com")
		if err != nil || got != "tok" {
			t.Errorf("GetByShopName() = %q, %v, want tok", got, err)
		}
	})

	t.Run("second store remaps user", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		if err := s.Store(ctx, "u1", "acme", "tok"); err != nil {
			t.Fatalf("Store() error = %v", err)
		}
		if err := s.Store(ctx, "u1", "other", "tok2"); err != nil {
			t.Fatalf("Store() error = %v", err)
		}

		got, err := s.GetByUserID(ctx, "u1")
		if err != nil {
			t.Fatalf("GetByUserID() error = %v", err)
		}
		if got != "tok2" {
			t.Errorf("GetByUserID() = %q, want %q", got, "tok2")
		}

		// the first shop keeps its own token
		got, err = s.GetByShopName(ctx, "acme")
		if err != nil {
			t.Fatalf("GetByShopName() error = %v", err)
		}
		if got != "tok" {
			t.Errorf("GetByShopName(acme) = %q, want %q", got, "tok")
		}
	})

	t.Run("shop token overwrite is visible to every user", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		_ = s.Store(ctx, "u1", "acme", "tok")
		_ = s.Store(ctx, "u2", "acme", "rotated")

		got, err := s.GetByUserID(ctx, "u1")
		if err != nil {
			t.Fatalf("GetByUserID() error = %v", err)
		}
		if got != "rotated" {
			t.Errorf("GetByUserID(u1) = %q, want %q", got, "rotated")
		}
	})

	t.Run("empty shop name is rejected", func(t *testing.T) {
		s := newStore(t)
		err := s.Store(context.Background(), "u1", "", "tok")
		if !errors.Is(err, ErrEmptyShopName) {
			t.Errorf("Store() error = %v, want %v", err, ErrEmptyShopName)
		}
	})
}
