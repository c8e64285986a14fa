package catalog

import (
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/erraggy/apichangelog/differ"
	"github.com/erraggy/apichangelog/internal/maputil"
	"github.com/erraggy/apichangelog/parser"
)

// DefaultCacheSize is the number of lazily computed pairs kept in memory.
const DefaultCacheSize = 256

// Info is the per-version metadata stored next to each document.
type Info struct {
	// Date is when the version was published (the commit date when collected
	// from git history).
	Date time.Time `json:"date,omitzero"`
}

// Version is one decoded document of an API.
type Version struct {
	// API is the API name (the first directory level).
	API string
	// Version is the version identifier (the second directory level).
	Version string
	// Info is the version's metadata.
	Info Info
	// SourcePath is the file the document was read from.
	SourcePath string
	// Spec is the comparison model. It is never modified after Add.
	Spec *parser.Specification
	// Raw is the document as decoded JSON-compatible data, persisted
	// verbatim in the site data.
	Raw map[string]any
	// Warnings lists the loader's approximations for this document.
	Warnings []string
}

// pairKey identifies one (new, old) comparison of an API.
type pairKey struct {
	api, newVersion, oldVersion string
}

// Catalog holds every version of every API and the changes between each
// ordered pair of versions of the same API.
//
// A Catalog is safe for concurrent use once populated.
type Catalog struct {
	// Workers bounds concurrent parsing and comparison.
	// Default: DefaultWorkers()
	Workers int64
	// Strict loads documents through kin-openapi.
	Strict bool
	// References is passed to every comparison.
	References differ.ReferenceMode
	// Logger is the structured logger for progress and diagnostics
	// If nil, logging is disabled (default)
	Logger parser.Logger

	mu    sync.RWMutex
	apis  map[string]map[string]*Version
	built map[pairKey][]differ.Change
	cache *lru.Cache[pairKey, []differ.Change]
}

// New creates an empty Catalog with default settings.
func New() *Catalog {
	cache, _ := lru.New[pairKey, []differ.Change](DefaultCacheSize)
	return &Catalog{
		apis:  make(map[string]map[string]*Version),
		built: make(map[pairKey][]differ.Change),
		cache: cache,
	}
}

func (c *Catalog) log() parser.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return parser.NopLogger{}
}

func (c *Catalog) workers() int64 {
	if c.Workers > 0 {
		return c.Workers
	}
	return DefaultWorkers()
}

// Add registers a version. Adding the same API and version twice is an error.
func (c *Catalog) Add(v *Version) error {
	if v == nil || v.Spec == nil {
		return fmt.Errorf("catalog: version has no specification")
	}
	if v.API == "" || v.Version == "" {
		return fmt.Errorf("catalog: version requires an API name and a version identifier")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	versions, ok := c.apis[v.API]
	if !ok {
		versions = make(map[string]*Version)
		c.apis[v.API] = versions
	}
	if _, dup := versions[v.Version]; dup {
		return fmt.Errorf("catalog: duplicate version %s of %s", v.Version, v.API)
	}
	versions[v.Version] = v
	c.invalidate(v.API)
	return nil
}

// invalidate drops computed pairs of api. The caller holds c.mu.
func (c *Catalog) invalidate(api string) {
	for key := range c.built {
		if key.api == api {
			delete(c.built, key)
		}
	}
	for _, key := range c.cache.Keys() {
		if key.api == api {
			c.cache.Remove(key)
		}
	}
}

// APIs returns the API names in ascending order.
func (c *Catalog) APIs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return maputil.SortedKeys(c.apis)
}

// Versions returns the version identifiers of api, oldest first.
func (c *Catalog) Versions(api string) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	versions := maputil.SortedKeys(c.apis[api])
	SortVersions(versions)
	return versions
}

// Version returns one registered version.
func (c *Catalog) Version(api, version string) (*Version, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.apis[api][version]
	return v, ok
}

// Len returns the number of registered versions across all APIs.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	n := 0
	for _, versions := range c.apis {
		n += len(versions)
	}
	return n
}
