package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config carries the runtime settings for both the TUI and the server.
type Config struct {
	// APIBaseURL is the content API the TUI talks to.
	APIBaseURL string

	// Addr is the listen address for `cyberkit serve`.
	Addr string

	// DBPath overrides the default SQLite location when non-empty.
	DBPath string

	// ModulesPath points at a module bank JSON file; empty means the
	// embedded bank.
	ModulesPath string

	// HIBPBaseURL is the Have I Been Pwned range API endpoint.
	HIBPBaseURL string

	// FeedbackDelay is how long advisory check feedback stays on screen
	// before navigation proceeds.
	FeedbackDelay time.Duration

	LogLevel string
	LogFile  string
}

// Load reads configuration from a .env file (if present) and environment
// variables, applying defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent.
	_ = godotenv.Load()

	return Config{
		APIBaseURL:    envOr("CYBERKIT_API", "http://localhost:9000/api"),
		Addr:          envOr("CYBERKIT_ADDR", ":9000"),
		DBPath:        envOr("CYBERKIT_DB", ""),
		ModulesPath:   envOr("CYBERKIT_MODULES", ""),
		HIBPBaseURL:   envOr("CYBERKIT_HIBP_URL", "https://api.pwnedpasswords.com/range"),
		FeedbackDelay: envDurationOr("CYBERKIT_FEEDBACK_DELAY", 800*time.Millisecond),
		LogLevel:      envOr("CYBERKIT_LOG_LEVEL", "info"),
		LogFile:       envOr("CYBERKIT_LOG_FILE", ""),
	}
}

// Validate checks invariants that would otherwise surface as confusing
// runtime failures.
func (c Config) Validate() error {
	if c.APIBaseURL == "" {
		return fmt.Errorf("CYBERKIT_API cannot be empty")
	}
	if c.Addr == "" {
		return fmt.Errorf("CYBERKIT_ADDR cannot be empty")
	}
	if c.HIBPBaseURL == "" {
		return fmt.Errorf("CYBERKIT_HIBP_URL cannot be empty")
	}
	if c.FeedbackDelay < 0 || c.FeedbackDelay > 10*time.Second {
		return fmt.Errorf("CYBERKIT_FEEDBACK_DELAY out of range: %s", c.FeedbackDelay)
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envDurationOr(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if ms, err := strconv.Atoi(v); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	return def
}
