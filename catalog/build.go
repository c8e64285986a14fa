package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/erraggy/apichangelog/differ"
)

// pairs returns every ordered (new, old) pair with new != old, grouped by
// API in ascending name order and by versions in ascending order.
func (c *Catalog) pairs() []pairKey {
	var out []pairKey
	for _, api := range c.APIs() {
		versions := c.Versions(api)
		for _, newVersion := range versions {
			for _, oldVersion := range versions {
				if newVersion == oldVersion {
					continue
				}
				out = append(out, pairKey{api: api, newVersion: newVersion, oldVersion: oldVersion})
			}
		}
	}
	return out
}

// Build computes the changes for every ordered pair of versions of each API.
// Pairs run concurrently, bounded by Workers. Cancellation stops pairs that
// have not started; on error no result is recorded.
func (c *Catalog) Build(ctx context.Context) error {
	start := time.Now()
	pairs := c.pairs()
	results := make([][]differ.Change, len(pairs))

	tasks := make([]task, len(pairs))
	for i, key := range pairs {
		tasks[i] = func(ctx context.Context) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			changes, err := c.compare(key)
			if err != nil {
				return err
			}
			results[i] = changes
			return nil
		}
	}

	if err := runParallel(ctx, c.workers(), tasks); err != nil {
		return fmt.Errorf("catalog: build: %w", err)
	}

	c.mu.Lock()
	for i, key := range pairs {
		c.built[key] = results[i]
	}
	c.mu.Unlock()

	c.log().Info("built version diffs",
		"apis", len(c.APIs()),
		"pairs", len(pairs),
		"elapsed", time.Since(start))
	return nil
}

// compare runs one comparison. Both versions must be registered.
func (c *Catalog) compare(key pairKey) ([]differ.Change, error) {
	c.mu.RLock()
	newV := c.apis[key.api][key.newVersion]
	oldV := c.apis[key.api][key.oldVersion]
	c.mu.RUnlock()
	if newV == nil || oldV == nil {
		return nil, fmt.Errorf("catalog: %s has no versions %s and %s", key.api, key.newVersion, key.oldVersion)
	}

	d := &differ.Differ{
		References: c.References,
		Logger:     c.log().With("api", key.api, "new", key.newVersion, "old", key.oldVersion),
	}
	result := d.Diff(oldV.Spec, newV.Spec)
	c.log().Debug("compared versions",
		"api", key.api,
		"new", key.newVersion,
		"old", key.oldVersion,
		"changes", len(result.Changes))
	return result.Changes, nil
}

// ChangesFor returns the ordered changes from oldVersion to newVersion of
// api. Pairs not computed by Build are computed on first request and kept
// in a bounded cache. The boolean is false when either version is unknown
// or the versions are equal.
func (c *Catalog) ChangesFor(api, newVersion, oldVersion string) ([]differ.Change, bool) {
	if newVersion == oldVersion {
		return nil, false
	}
	key := pairKey{api: api, newVersion: newVersion, oldVersion: oldVersion}

	c.mu.RLock()
	changes, ok := c.built[key]
	c.mu.RUnlock()
	if ok {
		return changes, true
	}
	if changes, ok := c.cache.Get(key); ok {
		return changes, true
	}

	changes, err := c.compare(key)
	if err != nil {
		c.log().Debug("changes unavailable", "api", api, "new", newVersion, "old", oldVersion, "error", err)
		return nil, false
	}
	c.cache.Add(key, changes)
	return changes, true
}

// Diffs returns the changes from every other version of api to newVersion,
// keyed by the old version.
func (c *Catalog) Diffs(api, newVersion string) differ.Diff {
	out := make(differ.Diff)
	for _, oldVersion := range c.Versions(api) {
		if oldVersion == newVersion {
			continue
		}
		if changes, ok := c.ChangesFor(api, newVersion, oldVersion); ok {
			out[oldVersion] = changes
		}
	}
	return out
}
