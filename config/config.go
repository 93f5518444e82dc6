// Package config loads this service's runtime configuration from the
// environment, the same flat env-var idiom spec.md §6 names and the
// teacher's metadb.ForTest/cmp.Or defaulting pattern follows elsewhere.
package config

import (
	"cmp"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds every knob this service reads from the environment.
type Config struct {
	// HTTPHost and HTTPPort address the API listener.
	HTTPHost string
	HTTPPort int
	// DatabasePath is the on-disk directory for the pebble-backed store.
	DatabasePath string
	// AuthorityKeyPath points at the PEM file holding the blind-issuer's
	// RSA private key. If absent and Debug is set, a fresh ephemeral
	// keypair is generated at startup with a WARN log (§4.7 Design Note).
	AuthorityKeyPath string
	// AllowedOrigins is the CORS allow-list for the HTTP API.
	AllowedOrigins []string
	// BulletinServiceURL is the address of an external bulletin board
	// service. When set, every bulletin entry is still appended to local
	// storage and is also relayed there over HTTP.
	BulletinServiceURL string
	// Debug relaxes startup requirements (ephemeral authority keys) and
	// enables direct token issuance. It does not change the log level.
	Debug bool
	// LogLevel is one of debug/info/warn/error.
	LogLevel string
}

// FromEnv reads Config from the process environment, applying the same
// defaults a developer running this service locally would expect.
func FromEnv() (*Config, error) {
	debug, err := parseBool(os.Getenv("DEBUG"), false)
	if err != nil {
		return nil, fmt.Errorf("DEBUG: %w", err)
	}

	port, err := parseInt(cmp.Or(os.Getenv("HTTP_PORT"), "8080"))
	if err != nil {
		return nil, fmt.Errorf("HTTP_PORT: %w", err)
	}

	cfg := &Config{
		HTTPHost:           cmp.Or(os.Getenv("HTTP_HOST"), "0.0.0.0"),
		HTTPPort:           port,
		DatabasePath:       cmp.Or(os.Getenv("DATABASE_URL"), "./data"),
		AuthorityKeyPath:   os.Getenv("RSA_KEY_PATH"),
		AllowedOrigins:     parseList(os.Getenv("ALLOWED_ORIGINS"), []string{"*"}),
		BulletinServiceURL: os.Getenv("BULLETIN_SERVICE_URL"),
		Debug:              debug,
		LogLevel:           cmp.Or(os.Getenv("LOG_LEVEL"), "info"),
	}
	return cfg, nil
}

func parseBool(s string, fallback bool) (bool, error) {
	if s == "" {
		return fallback, nil
	}
	return strconv.ParseBool(s)
}

func parseInt(s string) (int, error) {
	return strconv.Atoi(s)
}

func parseList(s string, fallback []string) []string {
	if s == "" {
		return fallback
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
