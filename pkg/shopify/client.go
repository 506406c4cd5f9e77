// Package shopify implements the OAuth flow of a Shopify app: building the
// authorization redirect, verifying signed callbacks, exchanging the
// authorization code for an access token and storing that token.
package shopify

import (
	"context"
	"net/http"
	"time"

	"github.com/go-training/shopify-token-store/pkg/core"
	"github.com/go-training/shopify-token-store/pkg/store"

	"golang.org/x/oauth2"
)

const (
	// DefaultScope is requested when neither the client nor the call names scopes.
	DefaultScope = "read_content"
	// DefaultTimeout bounds the access token exchange when Config.Timeout is zero.
	DefaultTimeout = 60 * time.Second

	shopDomainSuffix = ".myshopify.com"
	authorizePath    = "/admin/oauth/authorize"
	accessTokenPath  = "/admin/oauth/access_token"
)

// Config configures a Client. APIKey, SharedSecret and RedirectURI are required.
type Config struct {
	APIKey       string
	SharedSecret string
	RedirectURI  string
	// Scopes are comma-joined into the authorization URL. Defaults to DefaultScope.
	Scopes []string
	// Timeout bounds GetAccessToken. Defaults to DefaultTimeout.
	Timeout time.Duration
	// Store persists access tokens. Defaults to an in-memory store.
	Store core.TokenStore
	// HTTPClient sends the token exchange request. Defaults to a new http.Client.
	// Redirects are never followed.
	HTTPClient *http.Client
}

// Client is a Shopify OAuth client. It is immutable after New and safe for
// concurrent use.
type Client struct {
	apiKey       string
	sharedSecret string
	redirectURI  string
	scopes       []string
	timeout      time.Duration
	store        core.TokenStore
	httpClient   *http.Client
}

// New validates cfg and returns a Client.
func New(cfg Config) (*Client, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	c := &Client{
		apiKey:       cfg.APIKey,
		sharedSecret: cfg.SharedSecret,
		redirectURI:  cfg.RedirectURI,
		scopes:       append([]string(nil), cfg.Scopes...),
		timeout:      cfg.Timeout,
		store:        cfg.Store,
	}
	if len(c.scopes) == 0 {
		c.scopes = []string{DefaultScope}
	}
	if c.timeout == 0 {
		c.timeout = DefaultTimeout
	}
	if c.store == nil {
		c.store = store.NewMemoryStore()
	}
	c.httpClient = noRedirectClient(cfg.HTTPClient)
	return c, nil
}

// noRedirectClient returns a copy of hc that hands 3xx responses back to the
// caller instead of following them, so the token request is sent exactly once.
func noRedirectClient(hc *http.Client) *http.Client {
	var client http.Client
	if hc != nil {
		client = *hc
	}
	client.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}
	return &client
}

func validateConfig(cfg Config) error {
	switch {
	case cfg.APIKey == "":
		return &ConfigError{Field: "apiKey", Reason: "is required"}
	case cfg.SharedSecret == "":
		return &ConfigError{Field: "sharedSecret", Reason: "is required"}
	case cfg.RedirectURI == "":
		return &ConfigError{Field: "redirectUri", Reason: "is required"}
	case cfg.Timeout < 0:
		return &ConfigError{Field: "timeout", Reason: "must be positive"}
	}
	return nil
}

// Endpoint returns the OAuth endpoints of a shop. shopName may be the bare
// shop name or its myshopify.com domain.
func Endpoint(shopName string) oauth2.Endpoint {
	host := "https://" + normalizeShop(shopName) + shopDomainSuffix
	return oauth2.Endpoint{
		AuthURL:   host + authorizePath,
		TokenURL:  host + accessTokenPath,
		AuthStyle: oauth2.AuthStyleInParams,
	}
}

// Scopes returns the default scopes of the client.
func (c *Client) Scopes() []string {
	return append([]string(nil), c.scopes...)
}

// GetByUserID returns the access token of the shop the user installed the app on.
func (c *Client) GetByUserID(ctx context.Context, userID string) (string, error) {
	return c.store.GetByUserID(ctx, userID)
}

// GetByShopName returns the access token stored for a shop.
func (c *Client) GetByShopName(ctx context.Context, shopName string) (string, error) {
	return c.store.GetByShopName(ctx, shopName)
}

// Store records the access token for shopName and maps userID to that shop.
func (c *Client) Store(ctx context.Context, userID, shopName, accessToken string) error {
	return c.store.Store(ctx, userID, shopName, accessToken)
}
