package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-training/shopify-token-store/pkg/core"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("github.com/go-training/shopify-token-store/pkg/shopify")

type tokenRequest struct {
	ClientSecret string `json:"client_secret"`
	ClientID     string `json:"client_id"`
	Code         string `json:"code"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	Scope       string `json:"scope,omitempty"`
}

// GetAccessToken exchanges an authorization code for a permanent access token
// by POSTing to https://{hostname}/admin/oauth/access_token.
//
// The request is aborted once the client timeout elapses and a *TimeoutError
// is returned. A non-200 answer yields *HTTPStatusError and an unreadable 200
// body yields *ResponseParseError. Transport failures, including cancellation
// of ctx, are returned unchanged. No retry is attempted.
func (c *Client) GetAccessToken(ctx context.Context, hostname, code string) (string, error) {
	ctx, span := tracer.Start(ctx, "shopify.GetAccessToken",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("shopify.hostname", hostname)),
	)
	defer span.End()

	accessToken, err := c.exchange(ctx, hostname, code)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}
	return accessToken, nil
}

func (c *Client) exchange(ctx context.Context, hostname, code string) (string, error) {
	logger := core.LoggerFromCtx(ctx)

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	jsonBody, err := json.Marshal(tokenRequest{
		ClientSecret: c.sharedSecret,
		ClientID:     c.apiKey,
		Code:         code,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request body: %w", err)
	}
	req, err := http.NewRequestWithContext(
		reqCtx,
		http.MethodPost,
		"https://"+hostname+accessTokenPath,
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	logger.Debug("Exchanging authorization code", "hostname", hostname)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", c.requestError(ctx, reqCtx, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", c.requestError(ctx, reqCtx, err)
	}
	trace.SpanFromContext(ctx).SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	if resp.StatusCode != http.StatusOK {
		logger.Warn("Access token request rejected", "hostname", hostname, "status", resp.StatusCode)
		return "", &HTTPStatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var tokenResp tokenResponse
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return "", &ResponseParseError{StatusCode: resp.StatusCode, Body: string(body), Err: err}
	}
	if tokenResp.AccessToken == "" {
		return "", &ResponseParseError{StatusCode: resp.StatusCode, Body: string(body), Err: errMissingAccessToken}
	}

	logger.Debug("Access token received", "hostname", hostname, "scope", tokenResp.Scope)
	return tokenResp.AccessToken, nil
}

// requestError maps the expiry of our own deadline to *TimeoutError. Any other
// failure, including the caller's context ending first, is passed through.
func (c *Client) requestError(parent, reqCtx context.Context, err error) error {
	if errors.Is(reqCtx.Err(), context.DeadlineExceeded) && parent.Err() == nil {
		return &TimeoutError{Timeout: c.timeout}
	}
	return err
}
