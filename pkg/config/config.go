// Package config loads the token server configuration from the environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds every setting of the token server.
type Config struct {
	// Shopify app credentials.
	APIKey       string        `env:"SHOPIFY_API_KEY"`
	SharedSecret string        `env:"SHOPIFY_SHARED_SECRET"`
	RedirectURI  string        `env:"SHOPIFY_REDIRECT_URI"`
	Scopes       []string      `env:"SHOPIFY_SCOPES"        envSeparator:"," envDefault:"read_content"`
	Timeout      time.Duration `env:"SHOPIFY_TIMEOUT"       envDefault:"60s"`

	// HTTP server.
	Addr     string `env:"ADDR"      envDefault:":8095"`
	LogLevel string `env:"LOG_LEVEL"`

	// Token storage.
	StoreType     string `env:"STORE_TYPE"     envDefault:"memory"`
	RedisAddr     string `env:"REDIS_ADDR"     envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB"       envDefault:"0"`
	SQLitePath    string `env:"SQLITE_PATH"    envDefault:"shopify-tokens.db"`
}

// Load parses the environment into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.Scopes = trimCSV(cfg.Scopes)
	return cfg, nil
}

// trimCSV removes empty entries from a string slice.
func trimCSV(values []string) []string {
	result := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v != "" {
			result = append(result, v)
		}
	}
	if len(result) == 0 {
		return nil
	}
	return result
}
