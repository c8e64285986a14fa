// Package testutil provides test utilities and fixtures for unit tests.
package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"go.yaml.in/yaml/v4"

	"github.com/erraggy/apichangelog/parser"
)

// NewSpec creates an empty specification with the given info.version.
func NewSpec(version string) *parser.Specification {
	return &parser.Specification{
		Info: parser.Info{
			Title:   "Test API",
			Version: version,
		},
		Paths:   make(map[string]*parser.PathItem),
		Schemas: make(map[string]*parser.Schema),
	}
}

// AddOperation adds op to spec under route and method, creating the path
// item when needed. Returns op for chaining field assignments.
func AddOperation(spec *parser.Specification, route string, method parser.Method, op *parser.Operation) *parser.Operation {
	item, ok := spec.Paths[route]
	if !ok {
		item = &parser.PathItem{Operations: make(map[parser.Method]*parser.Operation)}
		spec.Paths[route] = item
	}
	if op.Responses == nil {
		op.Responses = make(map[string]*parser.Response)
	}
	item.Operations[method] = op
	return op
}

// JSONContent wraps schema in an application/json content map.
func JSONContent(schema *parser.Schema) map[string]*parser.MediaType {
	return map[string]*parser.MediaType{
		parser.MediaTypeJSON: {Schema: schema},
	}
}

// NewUsersSpec creates a small users API: GET /users returning a list of
// User, and a User component with id, name, and email.
func NewUsersSpec(version string) *parser.Specification {
	spec := NewSpec(version)
	spec.Schemas["User"] = parser.NewObject([]string{"id", "name"},
		parser.Property{Name: "id", Schema: parser.NewPrimitive("integer", "int64")},
		parser.Property{Name: "name", Schema: parser.NewPrimitive("string", "")},
		parser.Property{Name: "email", Schema: parser.NewPrimitive("string", "")},
	)
	AddOperation(spec, "/users", parser.MethodGet, &parser.Operation{
		OperationID: "listUsers",
		Summary:     "List users",
		Parameters: []*parser.Parameter{
			{Name: "limit", In: "query", Schema: parser.NewPrimitive("integer", "int32")},
		},
		Responses: map[string]*parser.Response{
			"200": {
				Description: "A list of users",
				Content:     JSONContent(parser.NewArray(parser.NewRef("User"))),
			},
		},
	})
	return spec
}

// UsersV1YAML is the document form of NewUsersSpec("1.0.0").
const UsersV1YAML = `openapi: 3.0.3
info:
  title: Test API
  version: 1.0.0
paths:
  /users:
    get:
      operationId: listUsers
      summary: List users
      parameters:
        - name: limit
          in: query
          schema:
            type: integer
            format: int32
      responses:
        '200':
          description: A list of users
          content:
            application/json:
              schema:
                type: array
                items:
                  $ref: '#/components/schemas/User'
components:
  schemas:
    User:
      type: object
      required: [id, name]
      properties:
        id:
          type: integer
          format: int64
        name:
          type: string
        email:
          type: string
`

// UsersV2YAML adds POST /users and an email format to UsersV1YAML.
const UsersV2YAML = `openapi: 3.0.3
info:
  title: Test API
  version: 2.0.0
paths:
  /users:
    get:
      operationId: listUsers
      summary: List users
      parameters:
        - name: limit
          in: query
          schema:
            type: integer
            format: int32
      responses:
        '200':
          description: A list of users
          content:
            application/json:
              schema:
                type: array
                items:
                  $ref: '#/components/schemas/User'
    post:
      operationId: createUser
      requestBody:
        required: true
        content:
          application/json:
            schema:
              $ref: '#/components/schemas/User'
      responses:
        '201':
          description: Created
components:
  schemas:
    User:
      type: object
      required: [id, name]
      properties:
        id:
          type: integer
          format: int64
        name:
          type: string
        email:
          type: string
          format: email
`

// WriteTempYAML marshals a document to YAML and writes it to a temporary file.
// Returns the path to the temporary file.
// The file is automatically cleaned up when the test completes (via t.TempDir).
func WriteTempYAML(t *testing.T, doc any) string {
	t.Helper()

	data, err := yaml.Marshal(doc)
	if err != nil {
		t.Fatalf("Failed to marshal document to YAML: %v", err)
	}

	tmpFile := filepath.Join(t.TempDir(), "test.yaml")
	if err := os.WriteFile(tmpFile, data, 0600); err != nil {
		t.Fatalf("Failed to write temporary YAML file: %v", err)
	}

	return tmpFile
}

// WriteTempJSON marshals a document to JSON and writes it to a temporary file.
// Returns the path to the temporary file.
// The file is automatically cleaned up when the test completes (via t.TempDir).
func WriteTempJSON(t *testing.T, doc any) string {
	t.Helper()

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		t.Fatalf("Failed to marshal document to JSON: %v", err)
	}

	tmpFile := filepath.Join(t.TempDir(), "test.json")
	if err := os.WriteFile(tmpFile, data, 0600); err != nil {
		t.Fatalf("Failed to write temporary JSON file: %v", err)
	}

	return tmpFile
}

// WriteVersion writes a catalog entry <root>/<api>/<version>/openapi.yaml with
// the given document text. When date is non-empty an info.json carrying it is
// written alongside.
func WriteVersion(t *testing.T, root, api, version, doc, date string) string {
	t.Helper()

	dir := filepath.Join(root, api, version)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("Failed to create version directory: %v", err)
	}
	specFile := filepath.Join(dir, "openapi.yaml")
	if err := os.WriteFile(specFile, []byte(doc), 0600); err != nil {
		t.Fatalf("Failed to write document: %v", err)
	}
	if date != "" {
		info, err := json.Marshal(map[string]string{"date": date})
		if err != nil {
			t.Fatalf("Failed to marshal info: %v", err)
		}
		if err := os.WriteFile(filepath.Join(dir, "info.json"), info, 0600); err != nil {
			t.Fatalf("Failed to write info.json: %v", err)
		}
	}
	return specFile
}
