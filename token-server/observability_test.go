package main

import (
	"context"
	"errors"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func toolRequest(name string, args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func TestArgumentNames(t *testing.T) {
	req := toolRequest("shopify_verify_callback", map[string]any{
		"query": "hmac=abc&code=secret",
		"a":     1,
	})
	assert.Equal(t, "a,query", argumentNames(req))
	assert.Empty(t, argumentNames(toolRequest("x", nil)))
}

func TestToolHandlerMiddleware_PassesThrough(t *testing.T) {
	mw := toolHandlerMiddleware()

	t.Run("result", func(t *testing.T) {
		want := mcp.NewToolResultText("ok")
		handler := mw(func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return want, nil
		})
		res, err := handler(t.Context(), toolRequest("shopify_installation_status", nil))
		require.NoError(t, err)
		assert.Same(t, want, res)
	})

	t.Run("tool error result", func(t *testing.T) {
		handler := mw(func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultError("shop is required"), nil
		})
		res, err := handler(t.Context(), toolRequest("shopify_installation_status", nil))
		require.NoError(t, err)
		assert.True(t, res.IsError)
	})

	t.Run("handler error", func(t *testing.T) {
		boom := errors.New("boom")
		handler := mw(func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return nil, boom
		})
		res, err := handler(t.Context(), toolRequest("shopify_installation_status", nil))
		assert.ErrorIs(t, err, boom)
		assert.Nil(t, res)
	})
}
