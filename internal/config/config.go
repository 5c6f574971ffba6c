package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	// Mongo (subscription documents + public library)
	MongoURI      string        // ex: "mongodb://localhost:27017"
	MongoDatabase string        // ex: "curator"
	MongoTimeout  time.Duration // per-operation timeout (default: 10s)

	// Redis (optional upstream response cache; empty addr disables it)
	RedisAddr     string
	RedisUser     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration // how long upstream payloads stay cached

	// Upstream API credentials. News and legislative sources are skipped
	// with a per-subscription error when their key is missing.
	NYTAPIKey      string
	GuardianAPIKey string
	CongressAPIKey string

	// Bluesky (optional; search falls back to the public API without them,
	// repost requires them)
	BlueskyHandle      string
	BlueskyAppPassword string

	FetchTimeout time.Duration // per-adapter upstream call timeout

	CatalogFile string // path to the curated source catalog (optional)

	AllowedOrigins []string // CORS origins for the dashboard frontend
	TrustProxy     bool     // true => trust X-Forwarded-For headers
}

func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenPort:      getenv("CURATOR_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("CURATOR_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("CURATOR_LOG_LEVEL", "info"),
		PrettyLog: mustBool("CURATOR_PRETTY_LOG", true),

		// Mongo settings
		MongoURI:      requireEnv("CURATOR_MONGO_URI"),
		MongoDatabase: getenv("CURATOR_MONGO_DB", "curator"),
		MongoTimeout:  mustDuration("CURATOR_MONGO_TIMEOUT", 10*time.Second),

		// Redis cache settings (optional)
		RedisAddr:     getenv("CURATOR_REDIS_ADDR", ""),
		RedisUser:     getenv("CURATOR_REDIS_USERNAME", "default"),
		RedisPassword: getenv("CURATOR_REDIS_PASSWORD", ""),
		RedisDB:       getenvInt("CURATOR_REDIS_DB", 0),
		CacheTTL:      mustDuration("CURATOR_CACHE_TTL", 5*time.Minute),

		// Upstream credentials
		NYTAPIKey:      getenv("NYT_API_KEY", ""),
		GuardianAPIKey: getenv("GUARDIAN_API_KEY", ""),
		CongressAPIKey: getenv("CONGRESS_API_KEY", ""),

		BlueskyHandle:      getenv("BLUESKY_HANDLE", ""),
		BlueskyAppPassword: getenv("BLUESKY_APP_PASSWORD", ""),

		FetchTimeout: mustDuration("CURATOR_FETCH_TIMEOUT", 20*time.Second),

		CatalogFile: getenv("CURATOR_CATALOG_FILE", ""),

		AllowedOrigins: splitAndTrim(getenv("CURATOR_ALLOWED_ORIGINS", "*")),
		TrustProxy:     mustBool("CURATOR_TRUST_PROXY", true),
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		cfgCopy.RedisPassword = redact(cfg.RedisPassword)
		cfgCopy.NYTAPIKey = redact(cfg.NYTAPIKey)
		cfgCopy.GuardianAPIKey = redact(cfg.GuardianAPIKey)
		cfgCopy.CongressAPIKey = redact(cfg.CongressAPIKey)
		cfgCopy.BlueskyAppPassword = redact(cfg.BlueskyAppPassword)
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

func redact(v string) string {
	if v == "" {
		return ""
	}
	return "***REDACTED***"
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return v
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
