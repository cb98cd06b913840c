// Package config reads the service configuration from the environment.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"portions/internal/domain"
)

// Config holds the configuration for the application.
type Config struct {
	Addr string

	// Storage: DatabaseURL selects PostgreSQL, SQLitePath selects SQLite,
	// neither means in-memory.
	DatabaseURL string
	SQLitePath  string

	APIKeyHash string
	OIDC       OIDC

	LogLevel  slog.Level
	LogFormat string

	// UnitWeights holds per-unit gram overrides for count, container and
	// volume units.
	UnitWeights map[domain.PortionUnit]domain.Grams
}

// OIDC is the single sign-on client registration.
type OIDC struct {
	IssuerURL    string
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// Enabled reports whether SSO is configured.
func (o OIDC) Enabled() bool {
	return o.IssuerURL != ""
}

// StorageKind names the configured repository backend.
func (c *Config) StorageKind() string {
	switch {
	case c.DatabaseURL != "":
		return "postgres"
	case c.SQLitePath != "":
		return "sqlite"
	default:
		return "memory"
	}
}

var weightKeys = map[string]domain.PortionUnit{
	"PORTION_WEIGHT_PIECE":      domain.Piece,
	"PORTION_WEIGHT_SLICE":      domain.Slice,
	"PORTION_WEIGHT_SERVING":    domain.Serving,
	"PORTION_WEIGHT_BOTTLE":     domain.Bottle,
	"PORTION_WEIGHT_CAN":        domain.Can,
	"PORTION_WEIGHT_CUP":        domain.Cup,
	"PORTION_WEIGHT_TABLESPOON": domain.Tablespoon,
}

// NewFromEnv creates a new Config object from environment variables.
func NewFromEnv() (*Config, error) {
	cfg := &Config{
		Addr:        env("ADDR", ":8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		SQLitePath:  os.Getenv("SQLITE_PATH"),
		APIKeyHash:  os.Getenv("API_KEY_HASH"),
		OIDC: OIDC{
			IssuerURL:    os.Getenv("OIDC_ISSUER_URL"),
			ClientID:     os.Getenv("OIDC_CLIENT_ID"),
			ClientSecret: os.Getenv("OIDC_CLIENT_SECRET"),
			RedirectURL:  os.Getenv("OIDC_REDIRECT_URL"),
		},
		LogFormat: strings.ToLower(env("LOG_FORMAT", "text")),
	}

	if cfg.DatabaseURL != "" && cfg.SQLitePath != "" {
		return nil, fmt.Errorf("DATABASE_URL and SQLITE_PATH are mutually exclusive")
	}

	if err := cfg.OIDC.validate(); err != nil {
		return nil, err
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(env("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, fmt.Errorf("LOG_FORMAT must be \"text\" or \"json\", got %q", cfg.LogFormat)
	}

	for key, unit := range weightKeys {
		v := os.Getenv(key)
		if v == "" {
			continue
		}
		g, err := strconv.ParseFloat(strings.Replace(v, ",", ".", 1), 64)
		if err != nil || g <= 0 {
			return nil, fmt.Errorf("%s must be a number > 0, got %q", key, v)
		}
		if cfg.UnitWeights == nil {
			cfg.UnitWeights = make(map[domain.PortionUnit]domain.Grams)
		}
		cfg.UnitWeights[unit] = domain.Grams(g)
	}

	return cfg, nil
}

func (o OIDC) validate() error {
	set := map[string]string{
		"OIDC_ISSUER_URL":    o.IssuerURL,
		"OIDC_CLIENT_ID":     o.ClientID,
		"OIDC_CLIENT_SECRET": o.ClientSecret,
		"OIDC_REDIRECT_URL":  o.RedirectURL,
	}
	configured := false
	for _, v := range set {
		if v != "" {
			configured = true
		}
	}
	if !configured {
		return nil
	}
	for _, key := range []string{"OIDC_ISSUER_URL", "OIDC_CLIENT_ID", "OIDC_CLIENT_SECRET", "OIDC_REDIRECT_URL"} {
		if set[key] == "" {
			return fmt.Errorf("%s environment variable not set", key)
		}
	}
	return nil
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
