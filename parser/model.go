package parser

import (
	"sort"
	"strings"
)

// Specification is one version of an API description reduced to the parts
// that matter for change detection: paths, operations, and reusable schemas.
//
// A Specification is treated as immutable once constructed. The differ never
// mutates its inputs, so a single Specification may be compared against many
// others concurrently.
type Specification struct {
	Info Info
	// Paths maps a URL template (e.g. "/users/{id}") to its operations.
	Paths map[string]*PathItem
	// Schemas maps a component name to its schema. OAS 3.x components.schemas
	// and OAS 2.0 definitions both land here.
	Schemas map[string]*Schema
}

// Info holds the document's descriptive metadata.
type Info struct {
	Title       string
	Description string
	Version     string
}

// Method is a lowercase HTTP method name as used in OpenAPI path items.
type Method string

// HTTP methods supported in path items.
const (
	MethodGet     Method = "get"
	MethodPost    Method = "post"
	MethodPut     Method = "put"
	MethodDelete  Method = "delete"
	MethodPatch   Method = "patch"
	MethodHead    Method = "head"
	MethodOptions Method = "options"
	MethodTrace   Method = "trace"
)

// Methods is the fixed order in which operations of a path item are visited.
var Methods = []Method{
	MethodGet,
	MethodPost,
	MethodPut,
	MethodDelete,
	MethodPatch,
	MethodHead,
	MethodOptions,
	MethodTrace,
}

// IsMethod reports whether s names a supported HTTP method (case-insensitive).
func IsMethod(s string) bool {
	m := Method(strings.ToLower(s))
	for _, known := range Methods {
		if m == known {
			return true
		}
	}
	return false
}

// PathItem holds the operations available on one path template.
type PathItem struct {
	Operations map[Method]*Operation
}

// Operation is one HTTP-method handler for one path template.
type Operation struct {
	OperationID string
	Summary     string
	Description string
	Deprecated  bool
	// Parameters keeps document order; alignment is by Parameter.Key.
	Parameters  []*Parameter
	RequestBody *RequestBody
	// Responses maps a status code ("200", "4XX", "default") to a response.
	// May be empty for malformed documents.
	Responses map[string]*Response
}

// Parameter is an operation input located in the path, query, header, or cookie.
type Parameter struct {
	Name        string
	In          string
	Description string
	Required    bool
	Schema      *Schema
}

// Key returns the alignment key "in.name" used to match parameters across
// versions. Two parameters with the same name in different locations are
// distinct.
func (p *Parameter) Key() string {
	return p.In + "." + p.Name
}

// RequestBody describes the payload accepted by an operation.
type RequestBody struct {
	Description string
	Required    bool
	Content     map[string]*MediaType
}

// Response describes one response of an operation.
type Response struct {
	Description string
	Content     map[string]*MediaType
}

// MediaType holds the schema for one content type.
type MediaType struct {
	Schema *Schema
}

// MediaTypeJSON is the preferred JSON content type.
const MediaTypeJSON = "application/json"

// JSONSchema selects the schema of the JSON media type in content.
// "application/json" wins; otherwise the lexicographically first media type
// whose subtype ends in "json" (e.g. "application/problem+json") is used.
// Returns nil when content has no JSON media type or the media type has no schema.
func JSONSchema(content map[string]*MediaType) *Schema {
	if len(content) == 0 {
		return nil
	}
	if mt, ok := content[MediaTypeJSON]; ok && mt != nil {
		return mt.Schema
	}
	var candidates []string
	for name := range content {
		if isJSONMediaType(name) {
			candidates = append(candidates, name)
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	sort.Strings(candidates)
	if mt := content[candidates[0]]; mt != nil {
		return mt.Schema
	}
	return nil
}

func isJSONMediaType(name string) bool {
	name = strings.ToLower(name)
	if idx := strings.Index(name, ";"); idx != -1 {
		name = strings.TrimSpace(name[:idx])
	}
	return strings.HasSuffix(name, "json")
}
