package shopify

import (
	"crypto/rand"
	"encoding/hex"
)

const nonceBytes = 16

// GenerateNonce returns 16 random bytes from crypto/rand as 32 lowercase hex characters.
func GenerateNonce() string {
	b := make([]byte, nonceBytes)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// GenerateNonce is the method form of the package-level GenerateNonce.
func (c *Client) GenerateNonce() string {
	return GenerateNonce()
}
