package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSchemaKind(t *testing.T) {
	tests := []struct {
		name   string
		schema *Schema
		want   Kind
	}{
		{"nil schema", nil, KindPrimitive},
		{"no shape", &Schema{}, KindPrimitive},
		{"primitive", NewPrimitive("string", ""), KindPrimitive},
		{"array", NewArray(NewPrimitive("string", "")), KindArray},
		{"object", NewObject(nil), KindObject},
		{"composition", NewAllOf(NewRef("A")), KindComposition},
		{"reference", NewRef("A"), KindReference},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.schema.Kind())
		})
	}
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "primitive", KindPrimitive.String())
	assert.Equal(t, "composition", KindComposition.String())
	assert.Equal(t, "kind(99)", Kind(99).String())
}

func TestObjectPropertyNames(t *testing.T) {
	obj := &Object{
		Properties: map[string]*Schema{
			"z": NewPrimitive("string", ""),
			"a": NewPrimitive("string", ""),
			"m": NewPrimitive("string", ""),
			"b": NewPrimitive("string", ""),
		},
		Order: []string{"z", "gone", "a", "z"},
	}
	assert.Equal(t, []string{"z", "a", "b", "m"}, obj.PropertyNames())

	obj.Order = nil
	assert.Equal(t, []string{"a", "b", "m", "z"}, obj.PropertyNames())
}

func TestObjectIsRequired(t *testing.T) {
	obj := NewObject([]string{"id"}).Shape.(*Object)
	assert.True(t, obj.IsRequired("id"))
	assert.False(t, obj.IsRequired("name"))
}

func TestNewObjectDuplicateProperty(t *testing.T) {
	s := NewObject(nil,
		Property{Name: "a", Schema: NewPrimitive("string", "")},
		Property{Name: "a", Schema: NewPrimitive("integer", "")},
	)
	obj := s.Shape.(*Object)
	assert.Equal(t, []string{"a"}, obj.Order)
	assert.Equal(t, "integer", obj.Properties["a"].Shape.(*Primitive).Type)
}

func TestJSONSchema(t *testing.T) {
	str := NewPrimitive("string", "")
	num := NewPrimitive("number", "")
	obj := NewObject(nil)

	tests := []struct {
		name    string
		content map[string]*MediaType
		want    *Schema
	}{
		{"nil content", nil, nil},
		{"application/json preferred", map[string]*MediaType{
			"application/vnd.api+json": {Schema: num},
			"application/json":         {Schema: str},
		}, str},
		{"first json suffix", map[string]*MediaType{
			"application/problem+json": {Schema: obj},
			"application/hal+json":     {Schema: num},
			"text/plain":               {Schema: str},
		}, num},
		{"parameters ignored", map[string]*MediaType{
			"application/merge-patch+json; charset=utf-8": {Schema: obj},
		}, obj},
		{"no json", map[string]*MediaType{
			"text/plain":      {Schema: str},
			"application/xml": {Schema: obj},
		}, nil},
		{"json without schema", map[string]*MediaType{
			"application/json": {},
		}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Same(t, tt.want, JSONSchema(tt.content))
		})
	}
}

func TestIsMethod(t *testing.T) {
	assert.True(t, IsMethod("GET"))
	assert.True(t, IsMethod("trace"))
	assert.False(t, IsMethod("connect"))
	assert.False(t, IsMethod("parameters"))
}
