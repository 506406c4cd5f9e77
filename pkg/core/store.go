package core

import "context"

// TokenStore persists Shopify access tokens keyed by shop name and resolves
// user ids to the shop they installed the app on.
type TokenStore interface {
	// GetByUserID returns the access token of the shop the user is mapped to.
	GetByUserID(ctx context.Context, userID string) (string, error)
	// GetByShopName returns the access token stored for the shop.
	GetByShopName(ctx context.Context, shopName string) (string, error)
	// Store maps userID to shopName and shopName to accessToken, overwriting
	// any previous values.
	Store(ctx context.Context, userID, shopName, accessToken string) error
}
