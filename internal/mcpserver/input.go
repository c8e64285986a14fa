package mcpserver

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/erraggy/apichangelog"
	"github.com/erraggy/apichangelog/parser"
)

// specInput represents the three ways a document can be provided to a tool.
// Exactly one of File, URL, or Content must be set.
type specInput struct {
	File    string `json:"file,omitempty"    jsonschema:"Path to an OpenAPI document on disk"`
	URL     string `json:"url,omitempty"     jsonschema:"URL to fetch an OpenAPI document from"`
	Content string `json:"content,omitempty" jsonschema:"Inline OpenAPI document content (JSON or YAML)"`
}

// specCacheStore caches parsed documents for the session. File inputs are
// keyed by (absolutePath, modTime), content inputs by a SHA-256 hash and URL
// inputs by the URL. Each input kind has its own TTL.
type specCacheStore struct {
	files    *expirable.LRU[string, *parser.ParseResult]
	urls     *expirable.LRU[string, *parser.ParseResult]
	contents *expirable.LRU[string, *parser.ParseResult]
}

func newSpecCache(c *serverConfig) *specCacheStore {
	return &specCacheStore{
		files:    expirable.NewLRU[string, *parser.ParseResult](c.CacheMaxSize, nil, c.CacheFileTTL),
		urls:     expirable.NewLRU[string, *parser.ParseResult](c.CacheMaxSize, nil, c.CacheURLTTL),
		contents: expirable.NewLRU[string, *parser.ParseResult](c.CacheMaxSize, nil, c.CacheContentTTL),
	}
}

var specCache = newSpecCache(cfg)

// store returns the cache for the input kind.
func (c *specCacheStore) store(s specInput) *expirable.LRU[string, *parser.ParseResult] {
	switch {
	case s.File != "":
		return c.files
	case s.URL != "":
		return c.urls
	default:
		return c.contents
	}
}

// reset clears all cached entries. Used in tests.
func (c *specCacheStore) reset() {
	c.files.Purge()
	c.urls.Purge()
	c.contents.Purge()
}

// size returns the number of cached entries.
func (c *specCacheStore) size() int {
	return c.files.Len() + c.urls.Len() + c.contents.Len()
}

// makeCacheKey creates a cache key for the given input, or "" when the input
// cannot be cached.
func makeCacheKey(s specInput, strict bool) string {
	mode := "loose"
	if strict {
		mode = "strict"
	}
	switch {
	case s.File != "":
		absPath, err := filepath.Abs(s.File)
		if err != nil {
			return ""
		}
		info, err := os.Stat(absPath)
		if err != nil {
			return ""
		}
		return fmt.Sprintf("file:%s:%s:%d", mode, absPath, info.ModTime().UnixNano())
	case s.Content != "":
		h := sha256.Sum256([]byte(s.Content))
		return fmt.Sprintf("content:%s:%s", mode, hex.EncodeToString(h[:]))
	case s.URL != "":
		return fmt.Sprintf("url:%s:%s", mode, s.URL)
	default:
		return ""
	}
}

// resolve parses the document from whichever input was provided, using the
// cache when enabled.
func (s specInput) resolve(strict bool) (*parser.ParseResult, error) {
	count := 0
	for _, set := range []bool{s.File != "", s.URL != "", s.Content != ""} {
		if set {
			count++
		}
	}
	if count != 1 {
		return nil, fmt.Errorf("exactly one of file, url, or content must be provided (got %d)", count)
	}

	if s.Content != "" && int64(len(s.Content)) > cfg.MaxInlineSize {
		return nil, fmt.Errorf("inline content size %d bytes exceeds maximum %d bytes; use file input instead, or set APICHANGELOG_MAX_INLINE_SIZE to increase",
			len(s.Content), cfg.MaxInlineSize)
	}

	var key string
	if cfg.CacheEnabled {
		key = makeCacheKey(s, strict)
	}
	if key != "" {
		if cached, ok := specCache.store(s).Get(key); ok {
			return cached, nil
		}
	}

	opts := []parser.Option{
		parser.WithStrict(strict),
		parser.WithUserAgent(apichangelog.UserAgent()),
	}
	switch {
	case s.File != "":
		opts = append(opts, parser.WithFilePath(s.File))
	case s.URL != "":
		opts = append(opts, parser.WithFilePath(s.URL))
		if !cfg.AllowPrivateIPs {
			opts = append(opts, parser.WithHTTPClient(newSafeHTTPClient()))
		}
	case s.Content != "":
		opts = append(opts, parser.WithBytes([]byte(s.Content)))
	}

	result, err := parser.ParseWithOptions(opts...)
	if err != nil {
		return nil, err
	}
	if key != "" {
		specCache.store(s).Add(key, result)
	}
	return result, nil
}
