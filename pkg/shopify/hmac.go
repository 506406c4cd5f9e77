package shopify

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"slices"
	"strings"
)

var (
	keyEscaper   = strings.NewReplacer("%", "%25", "&", "%26", "=", "%3D")
	valueEscaper = strings.NewReplacer("%", "%25", "&", "%26")
)

// CanonicalQuery renders the callback parameters Shopify signs: every
// parameter except hmac and signature as key=value, sorted and joined by "&".
//
// A parameter with several values, or whose key ends in "[]", is rendered as
// ["v1", "v2"] under the key without the brackets.
func CanonicalQuery(query url.Values) string {
	pairs := make([]string, 0, len(query))
	for key, values := range query {
		if key == "hmac" || key == "signature" {
			continue
		}
		name, list := key, len(values) > 1
		if strings.HasSuffix(key, "[]") {
			name, list = strings.TrimSuffix(key, "[]"), true
		}

		var value string
		switch {
		case list:
			value = `["` + strings.Join(values, `", "`) + `"]`
		case len(values) == 1:
			value = values[0]
		}
		pairs = append(pairs, keyEscaper.Replace(name)+"="+valueEscaper.Replace(value))
	}
	slices.Sort(pairs)
	return strings.Join(pairs, "&")
}

// SignQuery returns the lowercase hex HMAC-SHA256 of CanonicalQuery(query)
// keyed with secret.
func SignQuery(secret string, query url.Values) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(CanonicalQuery(query)))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyHMAC reports whether the hmac parameter of a callback query matches
// the signature computed with the client's shared secret.
func (c *Client) VerifyHMAC(query url.Values) bool {
	expected := query.Get("hmac")
	if expected == "" {
		return false
	}
	digest := SignQuery(c.sharedSecret, query)
	return hmac.Equal([]byte(digest), []byte(expected))
}
