package main

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-training/shopify-token-store/pkg/core"
	"github.com/go-training/shopify-token-store/pkg/operation/install"
	"github.com/go-training/shopify-token-store/pkg/shopify"
	"github.com/go-training/shopify-token-store/pkg/store"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	stateCookie = "shopify_state"
	userCookie  = "shopify_user"

	stateTTL = 10 * time.Minute
	userTTL  = 365 * 24 * time.Hour
)

// app holds the handlers of the install flow.
type app struct {
	client        *shopify.Client
	secureCookies bool
}

// newRouter wires the install flow, the status endpoints and the MCP endpoint.
func newRouter(a *app, middleware ...gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestIDMiddleware)
	router.Use(middleware...)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/install", a.handleInstall)
	router.GET("/callback", a.handleCallback)
	router.GET("/shops/:shop", a.handleShopStatus)
	router.GET("/me", a.handleMe)

	mcpHandler := gin.WrapH(NewMCPServer(a.client).ServeHTTP())
	for _, method := range []string{http.MethodPost, http.MethodGet, http.MethodDelete} {
		router.Handle(method, "/mcp", mcpHandler)
	}

	return router
}

// shopDomain accepts a bare shop name or its myshopify.com domain and returns
// the domain, or "" when the input is not a valid shop.
func shopDomain(shop string) string {
	shop = strings.ToLower(strings.TrimSpace(shop))
	if !strings.HasSuffix(shop, ".myshopify.com") {
		shop += ".myshopify.com"
	}
	if !shopify.ValidShopDomain(shop) {
		return ""
	}
	return shop
}

func (a *app) setCookie(c *gin.Context, name, value string, ttl time.Duration) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, int(ttl.Seconds()), "/", "", a.secureCookies, true)
}

func (a *app) handleInstall(c *gin.Context) {
	logger := core.LoggerFromCtx(c.Request.Context())

	shop := shopDomain(c.Query("shop"))
	if shop == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid shop"})
		return
	}

	nonce := a.client.GenerateNonce()
	authURL, err := a.client.GenerateAuthorizationURL(shop, shopify.WithNonce(nonce))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	a.setCookie(c, stateCookie, nonce, stateTTL)
	if userID, err := c.Cookie(userCookie); err != nil || userID == "" {
		a.setCookie(c, userCookie, uuid.New().String(), userTTL)
	}

	logger.Info("Redirecting to Shopify authorization", "shop", shop)
	c.Redirect(http.StatusFound, authURL)
}

func (a *app) handleCallback(c *gin.Context) {
	ctx := c.Request.Context()
	logger := core.LoggerFromCtx(ctx)
	query := c.Request.URL.Query()

	if !a.client.VerifyHMAC(query) {
		logger.Warn("Callback signature rejected", "shop", query.Get("shop"))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid hmac"})
		return
	}

	shop := query.Get("shop")
	if !shopify.ValidShopDomain(shop) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid shop"})
		return
	}

	// the state cookie is single use
	state, err := c.Cookie(stateCookie)
	a.setCookie(c, stateCookie, "", -time.Second)
	if err != nil || state == "" ||
		subtle.ConstantTimeCompare([]byte(state), []byte(query.Get("state"))) != 1 {
		logger.Warn("Callback state mismatch", "shop", shop)
		c.JSON(http.StatusForbidden, gin.H{"error": "invalid state"})
		return
	}

	code := query.Get("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "code is required"})
		return
	}

	accessToken, err := a.client.GetAccessToken(ctx, shop, code)
	if err != nil {
		logger.Error("Token exchange failed", "shop", shop, "error", err)
		var timeoutErr *shopify.TimeoutError
		if errors.As(err, &timeoutErr) {
			c.JSON(http.StatusGatewayTimeout, gin.H{"error": "token exchange timed out"})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "token exchange failed"})
		return
	}

	userID, err := c.Cookie(userCookie)
	if err != nil || userID == "" {
		userID = uuid.New().String()
		a.setCookie(c, userCookie, userID, userTTL)
	}

	if err := a.client.Store(ctx, userID, shop, accessToken); err != nil {
		logger.Error("Failed to store access token", "shop", shop, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store access token"})
		return
	}

	logger.Info("Shop installed", "shop", shop, "user_id", userID)
	c.JSON(http.StatusOK, install.Status{Shop: shop, Installed: true})
}

func (a *app) handleShopStatus(c *gin.Context) {
	shop := shopDomain(c.Param("shop"))
	if shop == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid shop"})
		return
	}

	_, err := a.client.GetByShopName(c.Request.Context(), shop)
	a.writeStatus(c, install.Status{Shop: shop}, err)
}

func (a *app) handleMe(c *gin.Context) {
	userID, err := c.Cookie(userCookie)
	if err != nil || userID == "" {
		c.JSON(http.StatusOK, install.Status{})
		return
	}

	_, err = a.client.GetByUserID(c.Request.Context(), userID)
	a.writeStatus(c, install.Status{UserID: userID}, err)
}

func (a *app) writeStatus(c *gin.Context, status install.Status, err error) {
	switch {
	case err == nil:
		status.Installed = true
	case errors.Is(err, store.ErrTokenNotFound):
	default:
		core.LoggerFromCtx(c.Request.Context()).Error("Failed to look up access token", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to look up access token"})
		return
	}
	c.JSON(http.StatusOK, status)
}
