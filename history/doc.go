// Package history collects API versions out of a git repository's history.
//
// Every commit reachable from any reference is walked newest first. Each
// .yaml, .yml or .json blob that decodes as an OpenAPI document with both
// info.title and info.version is written once per (title, version) into the
// layout read by catalog.Scan:
//
//	<out>/<title>/<version>/<file>
//	<out>/<title>/<version>/info.json
//
// Titles and versions are sanitized into single path segments.
//
//	c := history.New()
//	c.MaxVersions = 10
//	res, err := c.CollectURL(ctx, "https://github.com/acme/api.git", "apis")
package history
