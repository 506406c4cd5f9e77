package shopify

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidConfig matches every *ConfigError.
	ErrInvalidConfig = errors.New("shopify: invalid configuration")
	// ErrInvalidShop is returned when a shop name cannot form a shop hostname.
	ErrInvalidShop = errors.New("shopify: invalid shop name")

	errMissingAccessToken = errors.New("access_token missing from response")
)

// ConfigError reports a Config field that failed validation in New.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("shopify: %s %s", e.Field, e.Reason)
}

// Is reports whether target is ErrInvalidConfig.
func (e *ConfigError) Is(target error) bool {
	return target == ErrInvalidConfig
}

// TimeoutError is returned when the token exchange does not complete within
// the configured timeout. The in-flight request has been aborted.
type TimeoutError struct {
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("shopify: access token request timed out after %s", e.Timeout)
}

// Unwrap lets errors.Is(err, context.DeadlineExceeded) match.
func (e *TimeoutError) Unwrap() error {
	return context.DeadlineExceeded
}

// HTTPStatusError is returned when the token endpoint answers with a status
// other than 200. Body holds the raw response for diagnostics.
type HTTPStatusError struct {
	StatusCode int
	Body       string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("shopify: failed to get access token: status %d", e.StatusCode)
}

// ResponseParseError is returned when a 200 response carries no usable token.
type ResponseParseError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *ResponseParseError) Error() string {
	return fmt.Sprintf("shopify: failed to parse access token response: %v", e.Err)
}

func (e *ResponseParseError) Unwrap() error {
	return e.Err
}
