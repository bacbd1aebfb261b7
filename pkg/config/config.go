// Package config holds global settings for the honeytrap service. Every
// setting can be configured via environment variables or programmatically.
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"
)

// Config is the full service configuration.
type Config struct {
	// === HTTP API ===
	ListenAddr string // bind address for the API server (default ":8080")
	APIKey     string // x-api-key value required on API requests; empty disables auth

	// === Detection ===
	MinConfidence  int    // engagement threshold, 0-100 (default 50)
	PatternCatalog string // optional YAML file overriding the built-in scam patterns
	PersonaCatalog string // optional YAML file overriding the built-in personas
	DefaultPersona string // persona id used when no preference matches the scam type

	// === Engagement ===
	MaxTurns       int           // per-conversation turn budget (default 20)
	MinTypingDelay time.Duration // lower bound of the simulated typing pause
	MaxTypingDelay time.Duration // upper bound of the simulated typing pause
	EnableTypos    bool          // typo/ellipsis post-processing on replies

	// === Session registry ===
	RedisAddr  string        // optional Redis address; empty keeps sessions in memory
	SessionTTL time.Duration // idle session expiry (default 1 hour)

	// === Integrations (all optional) ===
	DatabaseURL string // Postgres URL for the report archive
	CallbackURL string // final-result delivery endpoint
	CallbackKey string // x-api-key for the callback endpoint
}

// NewDefaultConfig builds a Config from the environment with sensible
// defaults for everything.
func NewDefaultConfig() *Config {
	return &Config{
		ListenAddr: GetEnv("HONEYTRAP_LISTEN_ADDR", ":8080"),
		APIKey:     GetEnv("HONEYTRAP_API_KEY", ""),

		MinConfidence:  GetEnvInt("HONEYTRAP_MIN_CONFIDENCE", 50),
		PatternCatalog: GetEnv("HONEYTRAP_PATTERN_CATALOG", ""),
		PersonaCatalog: GetEnv("HONEYTRAP_PERSONA_CATALOG", ""),
		DefaultPersona: GetEnv("HONEYTRAP_DEFAULT_PERSONA", ""),

		MaxTurns:       GetEnvInt("HONEYTRAP_MAX_TURNS", 20),
		MinTypingDelay: GetEnvDuration("HONEYTRAP_MIN_TYPING_DELAY", 2*time.Second),
		MaxTypingDelay: GetEnvDuration("HONEYTRAP_MAX_TYPING_DELAY", 8*time.Second),
		EnableTypos:    GetEnvBool("HONEYTRAP_ENABLE_TYPOS", true),

		RedisAddr:  GetEnv("HONEYTRAP_REDIS_ADDR", ""),
		SessionTTL: GetEnvDuration("HONEYTRAP_SESSION_TTL", time.Hour),

		DatabaseURL: GetEnv("DATABASE_URL", ""),
		CallbackURL: GetEnv("HONEYTRAP_CALLBACK_URL", ""),
		CallbackKey: GetEnv("HONEYTRAP_CALLBACK_KEY", ""),
	}
}

// Validate reports the first configuration problem found. Called once at
// startup; a bad configuration is fatal, never discovered mid-session.
func (c *Config) Validate() error {
	if c.ListenAddr == "" {
		return fmt.Errorf("config: listen address is empty")
	}
	if c.MinConfidence < 0 || c.MinConfidence > 100 {
		return fmt.Errorf("config: min confidence %d outside [0,100]", c.MinConfidence)
	}
	if c.MaxTurns <= 0 {
		return fmt.Errorf("config: max turns must be positive, got %d", c.MaxTurns)
	}
	if c.MinTypingDelay < 0 {
		return fmt.Errorf("config: negative min typing delay %v", c.MinTypingDelay)
	}
	if c.MinTypingDelay > c.MaxTypingDelay {
		return fmt.Errorf("config: min typing delay %v exceeds max %v",
			c.MinTypingDelay, c.MaxTypingDelay)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("config: session ttl must be positive, got %v", c.SessionTTL)
	}
	if c.CallbackKey != "" && c.CallbackURL == "" {
		return fmt.Errorf("config: callback key set but callback url is empty")
	}
	return nil
}

// MustValidate calls Validate and fatally exits on failure. Call at startup
// before serving.
func (c *Config) MustValidate() {
	if err := c.Validate(); err != nil {
		log.Fatalf("[STARTUP] FATAL: configuration validation failed: %v", err)
	}
	log.Println("[STARTUP] configuration validated")
}

// GetEnv returns the value of an environment variable or a default value.
func GetEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

// GetEnvBool returns the boolean value of an environment variable or a default value.
func GetEnvBool(key string, defaultValue bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return defaultValue
}

// GetEnvInt returns the integer value of an environment variable or a default value.
func GetEnvInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return defaultValue
}

// GetEnvDuration returns the duration value of an environment variable or a
// default value. Accepts Go duration syntax ("90s", "2m").
func GetEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err == nil {
			return d
		}
	}
	return defaultValue
}
