package shopify

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var shopDomainPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*\.myshopify\.com$`)

// componentEscaper turns url.QueryEscape output into URI component form:
// spaces as %20 and the sub-delimiters !'()* left as is.
var componentEscaper = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// AuthorizeOption customises a single authorization URL.
type AuthorizeOption func(*authorizeOptions)

type authorizeOptions struct {
	scopes []string
	nonce  string
}

// WithScopes overrides the client's scopes for one URL.
func WithScopes(scopes ...string) AuthorizeOption {
	return func(o *authorizeOptions) {
		o.scopes = scopes
	}
}

// WithNonce sets the state parameter instead of generating one.
func WithNonce(nonce string) AuthorizeOption {
	return func(o *authorizeOptions) {
		o.nonce = nonce
	}
}

// GenerateAuthorizationURL builds the URL the merchant is redirected to in
// order to grant the app access to shopName:
//
//	https://{shop}.myshopify.com/admin/oauth/authorize?scope=...&state=...&redirect_uri=...&client_id=...
func (c *Client) GenerateAuthorizationURL(shopName string, opts ...AuthorizeOption) (string, error) {
	shop := normalizeShop(shopName)
	if shop == "" || strings.ContainsAny(shop, "/?#@:") {
		return "", fmt.Errorf("%w: %q", ErrInvalidShop, shopName)
	}

	o := authorizeOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	scopes := o.scopes
	if len(scopes) == 0 {
		scopes = c.scopes
	}
	nonce := o.nonce
	if nonce == "" {
		nonce = GenerateNonce()
	}

	u, err := url.Parse(Endpoint(shop).AuthURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse authorize URL: %w", err)
	}
	u.RawQuery = encodeOrdered(
		"scope", strings.Join(scopes, ","),
		"state", nonce,
		"redirect_uri", c.redirectURI,
		"client_id", c.apiKey,
	)
	return u.String(), nil
}

// ParseScopes splits a comma separated scope list, dropping blank entries.
func ParseScopes(s string) []string {
	var scopes []string
	for _, scope := range strings.Split(s, ",") {
		if scope = strings.TrimSpace(scope); scope != "" {
			scopes = append(scopes, scope)
		}
	}
	return scopes
}

// encodeOrdered query-encodes key/value pairs keeping their order, which
// url.Values.Encode would sort.
func encodeOrdered(kv ...string) string {
	var b strings.Builder
	for i := 0; i+1 < len(kv); i += 2 {
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(escapeComponent(kv[i]))
		b.WriteByte('=')
		b.WriteString(escapeComponent(kv[i+1]))
	}
	return b.String()
}

func escapeComponent(s string) string {
	return componentEscaper.Replace(url.QueryEscape(s))
}

// normalizeShop strips a trailing .myshopify.com so both "acme" and
// "acme.myshopify.com" name the same shop.
func normalizeShop(shopName string) string {
	return strings.TrimSuffix(strings.ToLower(strings.TrimSpace(shopName)), shopDomainSuffix)
}

// ValidShopDomain reports whether shop is a well-formed myshopify.com hostname.
// Callbacks must be checked with it before the shop is used as a token host.
func ValidShopDomain(shop string) bool {
	return shopDomainPattern.MatchString(shop)
}
