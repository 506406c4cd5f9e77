// Package main runs an HTTP service that installs a Shopify app on merchant
// shops: it redirects merchants to Shopify, verifies the signed callback,
// exchanges the authorization code and stores the resulting access token.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-training/shopify-token-store/pkg/config"
	"github.com/go-training/shopify-token-store/pkg/logger"
	"github.com/go-training/shopify-token-store/pkg/shopify"
	"github.com/go-training/shopify-token-store/pkg/store"

	"github.com/appleboy/graceful"
	sloggin "github.com/gin-contrib/slog"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	var scopes string
	var insecureCookies bool
	flag.StringVar(&cfg.APIKey, "client_id", cfg.APIKey, "Shopify app API key")
	flag.StringVar(&cfg.SharedSecret, "client_secret", cfg.SharedSecret, "Shopify app shared secret")
	flag.StringVar(&cfg.RedirectURI, "redirect_uri", cfg.RedirectURI, "OAuth callback URL registered for the app")
	flag.StringVar(&scopes, "scopes", strings.Join(cfg.Scopes, ","), "Comma separated scopes to request")
	flag.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "Access token request timeout")
	flag.StringVar(&cfg.Addr, "addr", cfg.Addr, "address to listen on")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (DEBUG, INFO, WARN, ERROR). Defaults to DEBUG in development, INFO in production")
	flag.StringVar(&cfg.StoreType, "store", cfg.StoreType, "Store type: memory, redis or sqlite")
	flag.StringVar(&cfg.RedisAddr, "redis-addr", cfg.RedisAddr, "Redis address (only used when store=redis)")
	flag.StringVar(&cfg.RedisPassword, "redis-password", cfg.RedisPassword, "Redis password (only used when store=redis)")
	flag.IntVar(&cfg.RedisDB, "redis-db", cfg.RedisDB, "Redis database (only used when store=redis)")
	flag.StringVar(&cfg.SQLitePath, "sqlite-path", cfg.SQLitePath, "SQLite database file (only used when store=sqlite)")
	flag.BoolVar(&insecureCookies, "insecure-cookies", false, "Send cookies over plain HTTP (local development only)")
	flag.Parse()

	// Initialize logger with the specified log level
	logger.NewWithLevel(cfg.LogLevel)

	// Initialize store using factory pattern
	storeConfig := store.Config{
		Type: store.ParseStoreType(cfg.StoreType),
		Redis: store.RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		},
		SQLitePath: cfg.SQLitePath,
	}
	tokenStore, err := store.NewStore(storeConfig)
	if err != nil {
		slog.Error("Failed to create store", "type", cfg.StoreType, "error", err)
		os.Exit(1)
	}

	switch storeConfig.Type {
	case store.StoreTypeMemory:
		slog.Info("Using in-memory store")
	case store.StoreTypeRedis:
		slog.Info("Using Redis store", "addr", cfg.RedisAddr, "db", cfg.RedisDB)
	case store.StoreTypeSQLite:
		slog.Info("Using SQLite store", "path", cfg.SQLitePath)
	}

	client, err := shopify.New(shopify.Config{
		APIKey:       cfg.APIKey,
		SharedSecret: cfg.SharedSecret,
		RedirectURI:  cfg.RedirectURI,
		Scopes:       shopify.ParseScopes(scopes),
		Timeout:      cfg.Timeout,
		Store:        tokenStore,
	})
	if err != nil {
		slog.Error("Invalid Shopify configuration", "error", err)
		_ = store.Close(tokenStore)
		os.Exit(1)
	}

	router := newRouter(&app{
		client:        client,
		secureCookies: !insecureCookies,
	}, sloggin.SetLogger())

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.Timeout + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	m := graceful.NewManager()
	m.AddRunningJob(func(ctx context.Context) error {
		slog.Info("Token server listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "err", err)
			return err
		}
		return nil
	})
	m.AddShutdownJob(func() error {
		slog.Info("Shutdown signal received, shutting down server...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			slog.Error("Server forced to shutdown", "err", err)
		}
		return store.Close(tokenStore)
	})

	<-m.Done()
	slog.Info("Server shutdown gracefully")
}

func init() {
	if os.Getenv("ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
}
