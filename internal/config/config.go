// Package config loads the server configuration from environment
// variables.
//
// A .env file in the working directory is loaded first (godotenv) so local
// development doesn't need exported variables; real environment variables
// always win because godotenv.Load never overwrites existing ones.
//
// Load fails fast: a missing JWT_SECRET or a malformed PORT returns an
// error and main exits non-zero before anything binds a socket or touches
// the database.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds everything main needs to wire the server.
type Config struct {
	Port   int    // PORT, default 8080
	DBPath string // DB_PATH, default data/blog.db

	JWTSecret string // JWT_SECRET, required, min 16 chars

	// CORS_ALLOWED_ORIGINS, comma-separated. Defaults to the fixed
	// local-development allow-list; credentials are always permitted.
	CORSAllowedOrigins []string

	// ENFORCE_POST_OWNERSHIP, default true. When false, any authenticated
	// caller may update or delete any post — the behavior of the system
	// this one replaces. Kept as a switch so the hardened default can be
	// rolled back without a deploy of old code.
	EnforcePostOwnership bool

	// GitHub OAuth sign-in. Optional: when ClientID is empty the OAuth
	// routes are not registered and password login is the only flow.
	GitHubClientID     string
	GitHubClientSecret string
	GitHubCallbackURL  string
}

var defaultCORSOrigins = []string{
	"http://localhost",
	"http://localhost:8080",
	"http://localhost:3000",
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	// Best effort — a missing .env file is not an error.
	_ = godotenv.Load()

	cfg := &Config{
		Port:                 8080,
		DBPath:               "data/blog.db",
		CORSAllowedOrigins:   defaultCORSOrigins,
		EnforcePostOwnership: true,
	}

	if portStr := os.Getenv("PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil || port <= 0 || port > 65535 {
			return nil, fmt.Errorf("config: invalid PORT %q", portStr)
		}
		cfg.Port = port
	}

	if dbPath := os.Getenv("DB_PATH"); dbPath != "" {
		cfg.DBPath = dbPath
	}

	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("config: JWT_SECRET is required")
	}
	if len(cfg.JWTSecret) < 16 {
		return nil, fmt.Errorf("config: JWT_SECRET must be at least 16 characters")
	}

	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		cfg.CORSAllowedOrigins = splitAndTrim(origins)
		if len(cfg.CORSAllowedOrigins) == 0 {
			return nil, fmt.Errorf("config: CORS_ALLOWED_ORIGINS is set but empty")
		}
	}

	if enforce := os.Getenv("ENFORCE_POST_OWNERSHIP"); enforce != "" {
		v, err := strconv.ParseBool(enforce)
		if err != nil {
			return nil, fmt.Errorf("config: invalid ENFORCE_POST_OWNERSHIP %q", enforce)
		}
		cfg.EnforcePostOwnership = v
	}

	cfg.GitHubClientID = os.Getenv("GITHUB_CLIENT_ID")
	cfg.GitHubClientSecret = os.Getenv("GITHUB_CLIENT_SECRET")
	cfg.GitHubCallbackURL = os.Getenv("GITHUB_CALLBACK_URL")
	if cfg.GitHubClientID != "" && cfg.GitHubCallbackURL == "" {
		cfg.GitHubCallbackURL = fmt.Sprintf("http://localhost:%d/auth/github/callback", cfg.Port)
	}

	return cfg, nil
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
