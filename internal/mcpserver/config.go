package mcpserver

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/erraggy/apichangelog/differ"
)

// serverConfig holds all configurable MCP server defaults.
// Loaded once at startup from environment variables via loadConfig().
type serverConfig struct {
	// Spec cache settings.
	CacheEnabled    bool
	CacheMaxSize    int
	CacheFileTTL    time.Duration
	CacheURLTTL     time.Duration
	CacheContentTTL time.Duration

	// Catalog cache settings.
	CatalogCacheSize int
	CatalogTTL       time.Duration

	// Result limits.
	ChangeLimit int
	MaxLimit    int

	// Input limits.
	MaxInlineSize   int64
	AllowPrivateIPs bool

	// Comparison defaults.
	References differ.ReferenceMode
	Strict     bool
}

// cfg is the active server configuration, initialized at package load time.
var cfg = loadConfig()

// loadConfig reads configuration from APICHANGELOG_* environment variables.
// Invalid values log a warning and fall back to the hardcoded default.
func loadConfig() *serverConfig {
	return &serverConfig{
		CacheEnabled:     envBool("APICHANGELOG_CACHE_ENABLED", true),
		CacheMaxSize:     envInt("APICHANGELOG_CACHE_MAX_SIZE", 10),
		CacheFileTTL:     envDuration("APICHANGELOG_CACHE_FILE_TTL", 15*time.Minute),
		CacheURLTTL:      envDuration("APICHANGELOG_CACHE_URL_TTL", 5*time.Minute),
		CacheContentTTL:  envDuration("APICHANGELOG_CACHE_CONTENT_TTL", 15*time.Minute),
		CatalogCacheSize: envInt("APICHANGELOG_CATALOG_CACHE_SIZE", 4),
		CatalogTTL:       envDuration("APICHANGELOG_CATALOG_TTL", 10*time.Minute),
		ChangeLimit:      envInt("APICHANGELOG_CHANGE_LIMIT", 100),
		MaxLimit:         envInt("APICHANGELOG_MAX_LIMIT", 1000),
		MaxInlineSize:    int64(envInt("APICHANGELOG_MAX_INLINE_SIZE", 10*1024*1024)),
		AllowPrivateIPs:  envBool("APICHANGELOG_ALLOW_PRIVATE_IPS", false),
		References:       envReferences("APICHANGELOG_REFERENCES"),
		Strict:           envBool("APICHANGELOG_STRICT", false),
	}
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("invalid bool env var, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return b
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		slog.Warn("invalid int env var, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return n
}

func envReferences(key string) differ.ReferenceMode {
	v := os.Getenv(key)
	mode, err := differ.ParseReferenceMode(v)
	if err != nil {
		slog.Warn("invalid reference mode env var, using default", "key", key, "value", v, "default", mode.String())
	}
	return mode
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		slog.Warn("invalid duration env var, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return d
}
