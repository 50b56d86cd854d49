package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application-level settings. Chat transport settings live in
// the llm package.
type Config struct {
	CalendarID      string
	CredentialsFile string
	TokenFile       string
	DBPath          string
	MaxUpcoming     int64
	MultiStep       bool
	Verbose         bool
}

// Default returns the configuration the CLI ships with. The database and
// token live under ~/.ollender.
func Default() Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	dir := filepath.Join(home, ".ollender")
	return Config{
		CalendarID:      "primary",
		CredentialsFile: "credentials.json",
		TokenFile:       filepath.Join(dir, "token.json"),
		DBPath:          filepath.Join(dir, "ollender.db"),
		MaxUpcoming:     30,
		MultiStep:       true,
	}
}

// Load reads configuration from a .env file (if present) and the
// environment, falling back to defaults.
func Load() Config {
	// Missing .env is fine; explicit env vars always win anyway.
	_ = godotenv.Load()

	cfg := Default()

	if v := os.Getenv("OLLENDER_CALENDAR_ID"); v != "" {
		cfg.CalendarID = v
	}
	if v := os.Getenv("OLLENDER_CREDENTIALS_FILE"); v != "" {
		cfg.CredentialsFile = v
	}
	if v := os.Getenv("OLLENDER_TOKEN_FILE"); v != "" {
		cfg.TokenFile = v
	}
	if v := os.Getenv("OLLENDER_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("OLLENDER_MAX_UPCOMING"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			cfg.MaxUpcoming = n
		}
	}
	if v := os.Getenv("OLLENDER_MULTI_STEP"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.MultiStep = b
		}
	}
	if v := os.Getenv("OLLENDER_VERBOSE"); v != "" {
		cfg.Verbose, _ = strconv.ParseBool(v)
	}

	return cfg
}
