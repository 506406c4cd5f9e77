// Package install provides MCP tools around the Shopify app installation flow.
package install

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-training/shopify-token-store/pkg/core"
	"github.com/go-training/shopify-token-store/pkg/shopify"
	"github.com/go-training/shopify-token-store/pkg/store"

	"github.com/mark3labs/mcp-go/mcp"
)

// AuthorizationURLTool defines the MCP tool building a shop's authorization URL.
var AuthorizationURLTool = mcp.NewTool("shopify_authorization_url",
	mcp.WithDescription(`Shopify Authorization URL Tool

Description:
  Builds the URL a merchant must visit to install the app on their shop.
  The returned state must be compared with the state echoed on the callback.

Output:
  {"url": "https://acme.myshopify.com/admin/oauth/authorize?...", "state": "<nonce>"}`),
	mcp.WithString("shop",
		mcp.Description("Shop name, e.g. acme or acme.myshopify.com."),
		mcp.Required(),
	),
	mcp.WithString("scopes",
		mcp.Description("Comma separated scopes. Defaults to the app's configured scopes."),
	),
	mcp.WithString("nonce",
		mcp.Description("State value to embed. Generated when omitted."),
	),
)

// VerifyCallbackTool defines the MCP tool checking a callback's HMAC signature.
var VerifyCallbackTool = mcp.NewTool("shopify_verify_callback",
	mcp.WithDescription("Verify the hmac signature of a Shopify OAuth callback query string. Returns valid or invalid."),
	mcp.WithString("query",
		mcp.Description("Raw callback query string, e.g. code=...&hmac=...&shop=...&timestamp=..."),
		mcp.Required(),
	),
)

// InstallationStatusTool defines the MCP tool reporting whether a token is stored.
var InstallationStatusTool = mcp.NewTool("shopify_installation_status",
	mcp.WithDescription("Report whether an access token is stored for a shop or a user. The token itself is never returned."),
	mcp.WithString("shop",
		mcp.Description("Shop name to look up."),
	),
	mcp.WithString("user_id",
		mcp.Description("User id to look up. Used when shop is empty."),
	),
)

// Status is the installation state reported by InstallationStatusTool.
type Status struct {
	Shop      string `json:"shop,omitempty"`
	UserID    string `json:"user_id,omitempty"`
	Installed bool   `json:"installed"`
}

// Handler serves the install tools for one Shopify client.
type Handler struct {
	client *shopify.Client
}

// NewHandler returns a Handler bound to client.
func NewHandler(client *shopify.Client) *Handler {
	return &Handler{client: client}
}

// HandleAuthorizationURL is the handler of AuthorizationURLTool.
func (h *Handler) HandleAuthorizationURL(
	ctx context.Context,
	req mcp.CallToolRequest,
) (*mcp.CallToolResult, error) {
	logger := core.LoggerFromCtx(ctx)
	args := req.GetArguments()

	shop, ok := args["shop"].(string)
	if !ok || shop == "" {
		return nil, fmt.Errorf("invalid shop argument")
	}
	nonce, _ := args["nonce"].(string)
	if nonce == "" {
		nonce = h.client.GenerateNonce()
	}
	opts := []shopify.AuthorizeOption{shopify.WithNonce(nonce)}
	if scopes, _ := args["scopes"].(string); scopes != "" {
		opts = append(opts, shopify.WithScopes(shopify.ParseScopes(scopes)...))
	}

	authURL, err := h.client.GenerateAuthorizationURL(shop, opts...)
	if err != nil {
		logger.Error("Failed to build authorization URL", "shop", shop, "error", err)
		return nil, err
	}

	return jsonResult(map[string]string{"url": authURL, "state": nonce})
}

// HandleVerifyCallback is the handler of VerifyCallbackTool.
func (h *Handler) HandleVerifyCallback(
	ctx context.Context,
	req mcp.CallToolRequest,
) (*mcp.CallToolResult, error) {
	raw, ok := req.GetArguments()["query"].(string)
	if !ok {
		return nil, fmt.Errorf("invalid query argument")
	}
	query, err := url.ParseQuery(strings.TrimPrefix(raw, "?"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse query: %w", err)
	}

	if !h.client.VerifyHMAC(query) {
		core.LoggerFromCtx(ctx).Warn("Callback signature rejected", "shop", query.Get("shop"))
		return mcp.NewToolResultText("invalid"), nil
	}
	return mcp.NewToolResultText("valid"), nil
}

// HandleInstallationStatus is the handler of InstallationStatusTool.
func (h *Handler) HandleInstallationStatus(
	ctx context.Context,
	req mcp.CallToolRequest,
) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	shop, _ := args["shop"].(string)
	userID, _ := args["user_id"].(string)

	var err error
	status := Status{Shop: shop, UserID: userID}
	switch {
	case shop != "":
		_, err = h.client.GetByShopName(ctx, shop)
	case userID != "":
		_, err = h.client.GetByUserID(ctx, userID)
	default:
		return nil, fmt.Errorf("shop or user_id is required")
	}

	switch {
	case err == nil:
		status.Installed = true
	case errors.Is(err, store.ErrTokenNotFound):
	default:
		core.LoggerFromCtx(ctx).Error("Failed to look up access token", "error", err)
		return nil, err
	}
	return jsonResult(status)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(data)), nil
}
