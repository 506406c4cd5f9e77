package main

import (
	"context"
	"net/http"
	"time"

	"github.com/go-training/shopify-token-store/pkg/core"
	"github.com/go-training/shopify-token-store/pkg/operation"
	"github.com/go-training/shopify-token-store/pkg/shopify"

	"github.com/mark3labs/mcp-go/server"
)

// MCPServer wraps the underlying MCP server instance.
type MCPServer struct {
	server *server.MCPServer
}

// NewMCPServer creates an MCP server exposing the Shopify installation tools.
func NewMCPServer(client *shopify.Client) *MCPServer {
	mcpServer := server.NewMCPServer(
		"shopify-token-server",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithLogging(),
		server.WithRecovery(),
		server.WithToolHandlerMiddleware(toolHandlerMiddleware()),
	)

	operation.RegisterShopifyTool(mcpServer, client)

	return &MCPServer{
		server: mcpServer,
	}
}

// ServeHTTP returns a streamable HTTP server that tags each call with the
// request ID of the HTTP request carrying it.
func (s *MCPServer) ServeHTTP() *server.StreamableHTTPServer {
	return server.NewStreamableHTTPServer(s.server,
		server.WithHeartbeatInterval(30*time.Second),
		server.WithHTTPContextFunc(func(ctx context.Context, r *http.Request) context.Context {
			if reqID := core.RequestIDFromCtx(r.Context()); reqID != "" {
				return core.WithRequestIDValue(ctx, reqID)
			}
			return core.WithRequestID(ctx)
		}),
	)
}
