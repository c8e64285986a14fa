// Package mcpserver implements an MCP (Model Context Protocol) server
// that exposes the changelog engine as MCP tools over stdio.
package mcpserver

import (
	"context"
	"regexp"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/apichangelog"
)

const serverInstructions = `apichangelog MCP server: compares versions of OpenAPI documents and reports ordered, leveled changes.

Tools:
- diff: compare two documents given as file, url, or inline content
- list_versions: list the APIs and versions of a catalog directory (<dir>/<api>/<version>/<document>)
- changes_for: changes of one API between two catalog versions

Levels, highest first: endpoint, shape, member, type, required, minor, text. Use min_level to drop lower levels and offset/limit to page.

Configuration: defaults are configurable via APICHANGELOG_* environment variables set in your MCP client config.

Key settings:
- APICHANGELOG_REFERENCES (default: structural): structural or nominal reference comparison
- APICHANGELOG_STRICT (default: false): load documents through the strict OpenAPI 3 loader
- APICHANGELOG_CHANGE_LIMIT (default: 100): default page size
- APICHANGELOG_CACHE_FILE_TTL (default: 15m): cache TTL for local file documents
- APICHANGELOG_CACHE_URL_TTL (default: 5m): cache TTL for URL-fetched documents
- APICHANGELOG_CATALOG_TTL (default: 10m): cache TTL for scanned catalogs`

// Run starts the MCP server over stdio and blocks until the client disconnects
// or the context is cancelled.
func Run(ctx context.Context) error {
	server := mcp.NewServer(
		&mcp.Implementation{Name: "apichangelog", Version: apichangelog.Version()},
		&mcp.ServerOptions{
			Instructions: serverInstructions,
		},
	)
	registerAllTools(server)
	return server.Run(ctx, &mcp.StdioTransport{})
}

func registerAllTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "diff",
		Description: "Compare two versions of an OpenAPI document and list the changes from old to new, ordered paths first then components. Each change has a level (endpoint, shape, member, type, required, minor, text), a kind, the affected path or component and a one-line text. Unresolvable references are reported as diagnostics. Set nominal_refs=true to compare references by name so a renamed component is reported at each use site.",
	}, handleDiff)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_versions",
		Description: "List the APIs and their versions in a catalog directory laid out as <dir>/<api>/<version>/<document>, oldest version first, with publication dates when known. Use before changes_for to find valid version identifiers.",
	}, handleListVersions)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "changes_for",
		Description: "Return the changes of one API in a catalog directory between two of its versions (new against old). Any ordered pair works, including new older than old. Results are cached per catalog.",
	}, handleChangesFor)
}

// paginate applies offset/limit pagination to a slice, returning the
// requested page. A non-positive limit defaults to cfg.ChangeLimit.
func paginate[T any](items []T, offset, limit int) []T {
	if limit <= 0 {
		limit = cfg.ChangeLimit
	}
	if limit > cfg.MaxLimit {
		limit = cfg.MaxLimit
	}
	if offset < 0 || offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end < offset || end > len(items) { // overflow or beyond slice
		end = len(items)
	}
	return items[offset:end]
}

// makeSlice returns nil when n is 0 (preserving omitempty JSON semantics),
// otherwise returns make([]T, 0, n) for pre-allocated appending.
func makeSlice[T any](n int) []T {
	if n == 0 {
		return nil
	}
	return make([]T, 0, n)
}

// sanitizeError strips absolute filesystem paths from error messages
// to prevent leaking internal directory structure to MCP clients.
var pathPattern = regexp.MustCompile(`(?:/(?:home|tmp|var|Users|etc|opt|usr|private|root|mnt|srv|run|snap|nix)[a-zA-Z0-9._/-]*)`)

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return pathPattern.ReplaceAllString(err.Error(), "<path>")
}

// errResult creates an MCP error result from an error.
func errResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: sanitizeError(err)}},
	}
}
