package parser

import (
	"fmt"
	"sort"
)

// Kind identifies the structural variant of a schema node.
type Kind int

const (
	// KindPrimitive is a scalar: string, integer, number, boolean, or untyped.
	KindPrimitive Kind = iota + 1
	// KindArray is a list of items sharing one schema.
	KindArray
	// KindObject is a set of named properties.
	KindObject
	// KindComposition is an allOf combination of member schemas.
	KindComposition
	// KindReference points at a named component schema.
	KindReference
)

// String returns the kind's label.
func (k Kind) String() string {
	switch k {
	case KindPrimitive:
		return "primitive"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	case KindComposition:
		return "composition"
	case KindReference:
		return "reference"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Schema is a recursive description of a data shape.
//
// The description is kept apart from the structural Shape so that prose
// changes can be reported separately from structural ones.
type Schema struct {
	Description string
	Shape       Shape
}

// Kind returns the kind of the schema's shape. A nil schema or a schema
// without a shape is an untyped primitive.
func (s *Schema) Kind() Kind {
	if s == nil || s.Shape == nil {
		return KindPrimitive
	}
	return s.Shape.Kind()
}

// Shape is the closed set of structural variants a Schema can take.
// Only the types in this package implement it.
type Shape interface {
	Kind() Kind
	sealed()
}

// Primitive is a scalar schema. An empty Type means "any".
type Primitive struct {
	Type   string
	Format string
	// Enum holds the allowed values rendered as strings, in document order.
	Enum []string
}

// Array is a list schema.
type Array struct {
	Items *Schema
}

// Object is a schema with named properties.
type Object struct {
	Properties map[string]*Schema
	// Order is the order in which properties appear in the document.
	// Names missing from Order are visited after it, sorted.
	Order    []string
	Required []string
}

// Composition combines member schemas with allOf semantics.
type Composition struct {
	AllOf []*Schema
}

// Reference points at a component schema by name. For references that do
// not target a local component schema, Name holds the raw $ref value.
type Reference struct {
	Name string
}

// Kind implements Shape.
func (*Primitive) Kind() Kind { return KindPrimitive }

// Kind implements Shape.
func (*Array) Kind() Kind { return KindArray }

// Kind implements Shape.
func (*Object) Kind() Kind { return KindObject }

// Kind implements Shape.
func (*Composition) Kind() Kind { return KindComposition }

// Kind implements Shape.
func (*Reference) Kind() Kind { return KindReference }

func (*Primitive) sealed()   {}
func (*Array) sealed()       {}
func (*Object) sealed()      {}
func (*Composition) sealed() {}
func (*Reference) sealed()   {}

// IsRequired reports whether name is in the object's required list.
func (o *Object) IsRequired(name string) bool {
	for _, r := range o.Required {
		if r == name {
			return true
		}
	}
	return false
}

// PropertyNames returns the property names in document order followed by any
// names not covered by Order, sorted.
func (o *Object) PropertyNames() []string {
	seen := make(map[string]struct{}, len(o.Properties))
	names := make([]string, 0, len(o.Properties))
	for _, name := range o.Order {
		if _, ok := o.Properties[name]; !ok {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	if len(names) == len(o.Properties) {
		return names
	}
	var rest []string
	for name := range o.Properties {
		if _, ok := seen[name]; !ok {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(names, rest...)
}

// Convenience constructors used by adapters and tests.

// NewPrimitive returns a primitive schema of the given type and format.
func NewPrimitive(typ, format string) *Schema {
	return &Schema{Shape: &Primitive{Type: typ, Format: format}}
}

// NewArray returns an array schema of items.
func NewArray(items *Schema) *Schema {
	return &Schema{Shape: &Array{Items: items}}
}

// NewRef returns a reference to the named component schema.
func NewRef(name string) *Schema {
	return &Schema{Shape: &Reference{Name: name}}
}

// NewAllOf returns a composition of members.
func NewAllOf(members ...*Schema) *Schema {
	return &Schema{Shape: &Composition{AllOf: members}}
}

// Property is a name/schema pair used by NewObject.
type Property struct {
	Name   string
	Schema *Schema
}

// NewObject returns an object schema whose property order follows props.
func NewObject(required []string, props ...Property) *Schema {
	obj := &Object{
		Properties: make(map[string]*Schema, len(props)),
		Order:      make([]string, 0, len(props)),
		Required:   required,
	}
	for _, p := range props {
		if _, dup := obj.Properties[p.Name]; !dup {
			obj.Order = append(obj.Order, p.Name)
		}
		obj.Properties[p.Name] = p.Schema
	}
	return &Schema{Shape: obj}
}
