// internal/config/config.go
//
// Runtime configuration for the Hangman server, read from environment
// variables (main loads a .env file first via godotenv).
//
// Environment variables (defaults in parentheses):
//   PORT                    HTTP listen port (8080)
//   LOG_LEVEL               zerolog level: trace|debug|info|warn|error (info)
//   LOG_FORMAT              json|console (json)
//   SESSION_STORE           memory|sqlite (memory)
//   DB_PATH                 SQLite file for SESSION_STORE=sqlite (./data/sessions.db)
//   SESSION_IDLE_TIMEOUT    idle time before a session is forgotten (20s)
//   SESSION_SWEEP_INTERVAL  how often expired sessions are purged (1m)
//   SESSION_SECRET          HMAC key for the session cookie (dev_secret_change_me)
//   COOKIE_NAME             session cookie name (hangman_session)
//   CLIENT_ORIGIN           allowed CORS origin (http://localhost:5173)
//   WORD_SOURCE             api|list|api+list (api)
//   WORD_API_URL            random word endpoint (https://random-word-api.herokuapp.com/word)
//   WORD_API_TIMEOUT        HTTP timeout for the word API (5s)
//   WORDS_FILE              word list for the list source (embedded list)

package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config holds application configuration.
type Config struct {
	Port      string
	LogLevel  string
	LogFormat string

	SessionStore  string
	DatabasePath  string
	IdleTimeout   time.Duration
	SweepInterval time.Duration
	SessionSecret string
	CookieName    string
	ClientOrigin  string

	WordSource     string
	WordAPIURL     string
	WordAPITimeout time.Duration
	WordsFile      string
}

// Load reads configuration from the environment with defaults.
// It fails only on malformed values.
func Load() (*Config, error) {
	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFormat:     strings.ToLower(getEnv("LOG_FORMAT", "json")),
		SessionStore:  strings.ToLower(getEnv("SESSION_STORE", "memory")),
		DatabasePath:  getEnv("DB_PATH", "./data/sessions.db"),
		SessionSecret: getEnv("SESSION_SECRET", "dev_secret_change_me"),
		CookieName:    getEnv("COOKIE_NAME", "hangman_session"),
		ClientOrigin:  getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
		WordSource:    strings.ToLower(getEnv("WORD_SOURCE", "api")),
		WordAPIURL:    getEnv("WORD_API_URL", "https://random-word-api.herokuapp.com/word"),
		WordsFile:     os.Getenv("WORDS_FILE"),
	}

	var err error
	if cfg.IdleTimeout, err = getDuration("SESSION_IDLE_TIMEOUT", 20*time.Second); err != nil {
		return nil, err
	}
	if cfg.SweepInterval, err = getDuration("SESSION_SWEEP_INTERVAL", time.Minute); err != nil {
		return nil, err
	}
	if cfg.WordAPITimeout, err = getDuration("WORD_API_TIMEOUT", 5*time.Second); err != nil {
		return nil, err
	}

	switch cfg.SessionStore {
	case "memory", "sqlite":
	default:
		return nil, fmt.Errorf("SESSION_STORE must be memory or sqlite, got %q", cfg.SessionStore)
	}
	return cfg, nil
}

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// getDuration parses k as a time.Duration ("20s", "1m"), or returns def.
func getDuration(k string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration: %w", k, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s must not be negative", k)
	}
	return d, nil
}
