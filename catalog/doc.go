// Package catalog holds the versions of one or more APIs and the changes
// between every ordered pair of versions of the same API.
//
// # Layout
//
// Scan reads a directory tree laid out as <root>/<api>/<version>/ where each
// version directory contains one OpenAPI document (.yaml, .yml or .json) and
// an optional info.json with the version's publication date:
//
//	apis/
//	  Petstore/
//	    1.0.0/openapi.yaml
//	    1.0.0/info.json
//	    1.1.0/openapi.yaml
//
// Versions sort by semantic version precedence when the identifiers parse as
// such, otherwise by name.
//
// # Usage
//
//	cat := catalog.New()
//	if err := cat.Scan(ctx, "apis"); err != nil {
//	    return err
//	}
//	if err := cat.Build(ctx); err != nil {
//	    return err
//	}
//	changes, ok := cat.ChangesFor("Petstore", "1.1.0", "1.0.0")
//
// Build compares all pairs up front with bounded concurrency. ChangesFor
// works without Build too: missing pairs are computed on demand and cached.
//
// # Site data
//
// WriteSite persists the catalog as data/api-data.json, the input of the
// changelog site:
//
//	{"apis": [{"name": "Petstore", "versions": [
//	    {"version": "1.1.0", "info": {"date": "..."}, "spec": {...},
//	     "diffs": {"1.0.0": [...changes...]}}]}]}
package catalog
