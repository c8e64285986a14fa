package parser

import (
	"context"
	"errors"
	"testing"

	"github.com/erraggy/apichangelog/oaserrors"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const strictOAS3 = `
openapi: 3.0.3
info:
  title: Users
  version: 2.0.0
paths:
  /users:
    get:
      operationId: listUsers
      parameters:
        - name: limit
          in: query
          schema:
            type: integer
      responses:
        '200':
          description: Users
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
      required: [id]
      properties:
        id:
          type: string
        email:
          type: string
          format: email
        role:
          type: string
          enum: [admin, member]
`

func TestLoadStrict(t *testing.T) {
	res, err := LoadStrict(context.Background(), []byte(strictOAS3))
	require.NoError(t, err)

	assert.Equal(t, "3.0.3", res.Version)
	assert.Equal(t, "Users", res.Spec.Info.Title)

	user := res.Spec.Schemas["User"]
	require.NotNil(t, user)
	obj := user.Shape.(*Object)
	assert.Equal(t, []string{"email", "id", "role"}, obj.Order, "kin-openapi loses order; names are sorted")
	assert.Equal(t, []string{"id"}, obj.Required)
	assert.Equal(t, &Primitive{Type: "string", Format: "email"}, obj.Properties["email"].Shape)
	assert.Equal(t, []string{"admin", "member"}, obj.Properties["role"].Shape.(*Primitive).Enum)

	get := res.Spec.Paths["/users"].Operations[MethodGet]
	require.NotNil(t, get)
	assert.Equal(t, "listUsers", get.OperationID)
	require.Len(t, get.Parameters, 1)
	assert.Equal(t, "query.limit", get.Parameters[0].Key())

	body := JSONSchema(get.Responses["200"].Content)
	require.NotNil(t, body)
	arr := body.Shape.(*Array)
	assert.Equal(t, &Reference{Name: "User"}, arr.Items.Shape)
}

func TestLoadStrictMatchesLenientDecoding(t *testing.T) {
	strict, err := LoadStrict(context.Background(), []byte(strictOAS3))
	require.NoError(t, err)
	lenient, err := Parse([]byte(strictOAS3))
	require.NoError(t, err)

	assert.Equal(t, lenient.Spec.Info, strict.Spec.Info)
	assert.ElementsMatch(t,
		lenient.Spec.Schemas["User"].Shape.(*Object).Order,
		strict.Spec.Schemas["User"].Shape.(*Object).Order)
}

func TestLoadStrictSwagger(t *testing.T) {
	res, err := LoadStrict(context.Background(), []byte(petstoreOAS2))
	require.NoError(t, err)
	assert.True(t, res.IsOAS2())
	require.Contains(t, res.Spec.Schemas, "Pet")

	post := res.Spec.Paths["/pets"].Operations[MethodPost]
	require.NotNil(t, post)
	require.NotNil(t, post.RequestBody)
	assert.Equal(t, &Reference{Name: "Pet"}, JSONSchema(post.RequestBody.Content).Shape)
}

func TestLoadStrictRejectsInvalid(t *testing.T) {
	invalid := `
openapi: 3.0.3
info:
  title: Missing version
paths: {}
`
	_, err := LoadStrict(context.Background(), []byte(invalid))
	require.Error(t, err)
	assert.True(t, errors.Is(err, oaserrors.ErrParse))
}

func TestParserStrictOption(t *testing.T) {
	res, err := ParseWithOptions(WithBytes([]byte(strictOAS3)), WithStrict(true))
	require.NoError(t, err)
	assert.Equal(t, "ParseBytes.yaml", res.SourcePath)
	assert.Contains(t, res.Spec.Schemas, "User")
}

func TestFromOpenAPI3(t *testing.T) {
	t.Run("nil document", func(t *testing.T) {
		spec, warnings := FromOpenAPI3(nil)
		require.NotNil(t, spec)
		assert.Empty(t, spec.Paths)
		assert.Empty(t, warnings)
	})

	t.Run("composition and unsupported keywords", func(t *testing.T) {
		doc := &openapi3.T{
			OpenAPI: "3.0.3",
			Info:    &openapi3.Info{Title: "t", Version: "1"},
			Components: &openapi3.Components{
				Schemas: openapi3.Schemas{
					"Base": &openapi3.SchemaRef{Value: &openapi3.Schema{
						Type:       &openapi3.Types{openapi3.TypeObject},
						Properties: openapi3.Schemas{"id": {Value: &openapi3.Schema{Type: &openapi3.Types{openapi3.TypeString}}}},
					}},
					"Derived": &openapi3.SchemaRef{Value: &openapi3.Schema{
						AllOf: openapi3.SchemaRefs{{Ref: "#/components/schemas/Base"}},
					}},
					"Either": &openapi3.SchemaRef{Value: &openapi3.Schema{
						OneOf: openapi3.SchemaRefs{{Value: &openapi3.Schema{}}},
					}},
				},
			},
		}
		spec, warnings := FromOpenAPI3(doc)
		comp, ok := spec.Schemas["Derived"].Shape.(*Composition)
		require.True(t, ok)
		assert.Equal(t, &Reference{Name: "Base"}, comp.AllOf[0].Shape)
		assert.Equal(t, &Primitive{}, spec.Schemas["Either"].Shape)
		assert.True(t, containsSubstring(warnings, "Either: oneOf is not compared"))
	})
}
