package mcpserver

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/apichangelog/catalog"
)

// catalogCache holds scanned catalogs keyed by absolute root directory.
// Pairs computed through a cached catalog stay cached with it.
var catalogCache = expirable.NewLRU[string, *catalog.Catalog](cfg.CatalogCacheSize, nil, cfg.CatalogTTL)

// loadCatalog returns the catalog rooted at dir, scanning it on first use.
func loadCatalog(ctx context.Context, dir string) (*catalog.Catalog, error) {
	if dir == "" {
		return nil, fmt.Errorf("dir is required")
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve dir: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", abs)
	}

	if cached, ok := catalogCache.Get(abs); ok {
		return cached, nil
	}
	cat := catalog.New()
	cat.Strict = cfg.Strict
	cat.References = cfg.References
	if err := cat.Scan(ctx, abs); err != nil {
		return nil, err
	}
	catalogCache.Add(abs, cat)
	return cat, nil
}

type listVersionsInput struct {
	Dir string `json:"dir"           jsonschema:"Catalog root laid out as <dir>/<api>/<version>/<document>"`
	API string `json:"api,omitempty" jsonschema:"Only list versions of this API"`
}

type versionOutput struct {
	Version string `json:"version"`
	Date    string `json:"date,omitempty"`
}

type apiOutput struct {
	Name     string          `json:"name"`
	Versions []versionOutput `json:"versions"`
}

type listVersionsOutput struct {
	APIs []apiOutput `json:"apis"`
}

func handleListVersions(ctx context.Context, _ *mcp.CallToolRequest, input listVersionsInput) (*mcp.CallToolResult, listVersionsOutput, error) {
	cat, err := loadCatalog(ctx, input.Dir)
	if err != nil {
		return errResult(err), listVersionsOutput{}, nil
	}

	output := listVersionsOutput{APIs: []apiOutput{}}
	for _, api := range cat.APIs() {
		if input.API != "" && api != input.API {
			continue
		}
		entry := apiOutput{Name: api, Versions: []versionOutput{}}
		for _, version := range cat.Versions(api) {
			out := versionOutput{Version: version}
			if v, ok := cat.Version(api, version); ok && !v.Info.Date.IsZero() {
				out.Date = v.Info.Date.UTC().Format(time.RFC3339)
			}
			entry.Versions = append(entry.Versions, out)
		}
		output.APIs = append(output.APIs, entry)
	}
	if input.API != "" && len(output.APIs) == 0 {
		return errResult(fmt.Errorf("no API named %q in catalog", input.API)), listVersionsOutput{}, nil
	}
	return nil, output, nil
}

type changesForInput struct {
	Dir      string `json:"dir"                 jsonschema:"Catalog root laid out as <dir>/<api>/<version>/<document>"`
	API      string `json:"api"                 jsonschema:"API name (first directory level)"`
	New      string `json:"new"                 jsonschema:"Newer version identifier"`
	Old      string `json:"old"                 jsonschema:"Older version identifier"`
	MinLevel string `json:"min_level,omitempty" jsonschema:"Only report changes at or above this level: text, minor, required, type, member, shape, endpoint"`
	Offset   int    `json:"offset,omitempty"    jsonschema:"Skip the first N changes"`
	Limit    int    `json:"limit,omitempty"     jsonschema:"Maximum number of changes to return"`
}

type changesForOutput struct {
	API          string         `json:"api"`
	NewVersion   string         `json:"new_version"`
	OldVersion   string         `json:"old_version"`
	TotalChanges int            `json:"total_changes"`
	Returned     int            `json:"returned"`
	Changes      []changeOutput `json:"changes,omitempty"`
	Summary      string         `json:"summary"`
}

func handleChangesFor(ctx context.Context, _ *mcp.CallToolRequest, input changesForInput) (*mcp.CallToolResult, changesForOutput, error) {
	minLevel, err := parseMinLevel(input.MinLevel)
	if err != nil {
		return errResult(err), changesForOutput{}, nil
	}
	cat, err := loadCatalog(ctx, input.Dir)
	if err != nil {
		return errResult(err), changesForOutput{}, nil
	}

	changes, ok := cat.ChangesFor(input.API, input.New, input.Old)
	if !ok {
		return errResult(fmt.Errorf("no changes available for %s %s against %s; use list_versions to see known versions",
			input.API, input.New, input.Old)), changesForOutput{}, nil
	}

	changes = filterLevel(changes, minLevel)
	output := changesForOutput{
		API:          input.API,
		NewVersion:   input.New,
		OldVersion:   input.Old,
		TotalChanges: len(changes),
	}
	output.Changes = changesOutput(paginate(changes, input.Offset, input.Limit))
	output.Returned = len(output.Changes)
	output.Summary = buildDiffSummary(diffOutput{TotalChanges: output.TotalChanges, Returned: output.Returned})
	return nil, output, nil
}
