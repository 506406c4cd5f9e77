package shopify

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAuthorizationURL(t *testing.T) {
	c := newTestClient(t, nil)

	raw, err := c.GenerateAuthorizationURL("acme", WithNonce("n0nce"))
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "https", u.Scheme)
	assert.Equal(t, "acme.myshopify.com", u.Host)
	assert.Equal(t, "/admin/oauth/authorize", u.Path)
	assert.Equal(t,
		"scope=read_content&state=n0nce&redirect_uri=https%3A%2F%2Fapp.example.com%2Fcb&client_id=k",
		u.RawQuery,
	)
}

func TestGenerateAuthorizationURL_GeneratedNonce(t *testing.T) {
	c := newTestClient(t, nil)

	raw, err := c.GenerateAuthorizationURL("acme")
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Regexp(t, `^[0-9a-f]{32}$`, u.Query().Get("state"))
}

func TestGenerateAuthorizationURL_Scopes(t *testing.T) {
	tests := []struct {
		name         string
		clientScopes []string
		opts         []AuthorizeOption
		want         string
	}{
		{
			name: "default scope",
			want: "read_content",
		},
		{
			name:         "client scopes joined by comma",
			clientScopes: []string{"read_products", "write_orders"},
			want:         "read_products,write_orders",
		},
		{
			name:         "call scopes override client scopes",
			clientScopes: []string{"read_products"},
			opts:         []AuthorizeOption{WithScopes("read_customers")},
			want:         "read_customers",
		},
		{
			name:         "empty call scopes fall back",
			clientScopes: []string{"read_products"},
			opts:         []AuthorizeOption{WithScopes()},
			want:         "read_products",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(cfg *Config) { cfg.Scopes = tt.clientScopes })

			raw, err := c.GenerateAuthorizationURL("acme", tt.opts...)
			require.NoError(t, err)

			u, err := url.Parse(raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, u.Query().Get("scope"))
			assert.True(t, strings.HasPrefix(u.RawQuery, "scope="))
		})
	}
}

func TestGenerateAuthorizationURL_FullDomain(t *testing.T) {
	c := newTestClient(t, nil)

	raw, err := c.GenerateAuthorizationURL("acme.myshopify.com", WithNonce("n"))
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "acme.myshopify.com", u.Host)
}

func TestGenerateAuthorizationURL_MixedCaseShop(t *testing.T) {
	c := newTestClient(t, nil)

	for _, shop := range []string{"ACME", " Acme.MyShopify.com "} {
		raw, err := c.GenerateAuthorizationURL(shop, WithNonce("n"))
		require.NoError(t, err)

		u, err := url.Parse(raw)
		require.NoError(t, err)
		assert.Equal(t, "acme.myshopify.com", u.Host, "shop %q", shop)
	}
}

func TestGenerateAuthorizationURL_QueryEncoding(t *testing.T) {
	c := newTestClient(t, func(cfg *Config) {
		cfg.RedirectURI = "https://app.example.com/cb?next=a b"
	})

	raw, err := c.GenerateAuthorizationURL("acme",
		WithNonce("it's (a+b)*!~"),
		WithScopes("read_products", "write_orders"),
	)
	require.NoError(t, err)

	assert.Equal(t,
		"https://acme.myshopify.com/admin/oauth/authorize"+
			"?scope=read_products%2Cwrite_orders"+
			"&state=it's%20(a%2Bb)*!~"+
			"&redirect_uri=https%3A%2F%2Fapp.example.com%2Fcb%3Fnext%3Da%20b"+
			"&client_id=k",
		raw,
	)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "it's (a+b)*!~", u.Query().Get("state"))
	assert.Equal(t, "https://app.example.com/cb?next=a b", u.Query().Get("redirect_uri"))
}

func TestGenerateAuthorizationURL_InvalidShop(t *testing.T) {
	c := newTestClient(t, nil)

	for _, shop := range []string{"", "  ", "evil.com/acme", "user@acme"} {
		_, err := c.GenerateAuthorizationURL(shop)
		assert.ErrorIs(t, err, ErrInvalidShop, "shop %q", shop)
	}
}

func TestValidShopDomain(t *testing.T) {
	tests := []struct {
		shop string
		want bool
	}{
		{"acme.myshopify.com", true},
		{"acme-store-2.myshopify.com", true},
		{"acme", false},
		{"-acme.myshopify.com", false},
		{"acme.myshopify.com.evil.com", false},
		{"acme.evil.com", false},
		{"ACME.myshopify.com", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ValidShopDomain(tt.shop), tt.shop)
	}
}

func TestParseScopes(t *testing.T) {
	assert.Equal(t, []string{"read_products", "write_orders"}, ParseScopes(" read_products,, write_orders ,"))
	assert.Empty(t, ParseScopes(""))
	assert.Empty(t, ParseScopes(" , "))
}
