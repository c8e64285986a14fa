package parser

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/erraggy/apichangelog/internal/pathutil"
	"github.com/erraggy/apichangelog/oaserrors"
	"github.com/getkin/kin-openapi/openapi2"
	"github.com/getkin/kin-openapi/openapi2conv"
	"github.com/getkin/kin-openapi/openapi3"
	"go.yaml.in/yaml/v4"
)

// LoadStrict loads data through kin-openapi's loader, validates it, and
// converts the result into the comparison model. Swagger 2.0 documents are
// upgraded to OAS 3 with openapi2conv first. Validation failures are
// returned as *oaserrors.ParseError.
//
// kin-openapi does not preserve map order, so object properties of a strictly
// loaded document are ordered by name.
func LoadStrict(ctx context.Context, data []byte) (*ParseResult, error) {
	raw, err := decodeRaw(data)
	if err != nil {
		return nil, err
	}

	var (
		doc     *openapi3.T
		version string
	)
	if v, ok := raw["swagger"]; ok {
		version = fmt.Sprint(v)
		jsonData, err := json.Marshal(raw)
		if err != nil {
			return nil, &oaserrors.ParseError{Message: "cannot re-encode swagger document", Cause: err}
		}
		var doc2 openapi2.T
		if err := json.Unmarshal(jsonData, &doc2); err != nil {
			return nil, &oaserrors.ParseError{Message: "invalid swagger document", Cause: err}
		}
		doc, err = openapi2conv.ToV3(&doc2)
		if err != nil {
			return nil, &oaserrors.ParseError{Message: "cannot convert swagger document to OAS 3", Cause: err}
		}
	} else {
		version = fmt.Sprint(raw["openapi"])
		loader := openapi3.NewLoader()
		loader.Context = ctx
		doc, err = loader.LoadFromData(data)
		if err != nil {
			return nil, &oaserrors.ParseError{Message: "kin-openapi loader rejected document", Cause: err}
		}
	}

	if err := doc.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return nil, &oaserrors.ParseError{Message: "document failed validation", Cause: err}
	}

	spec, warnings := FromOpenAPI3(doc)
	return &ParseResult{
		SourceFormat: detectFormatFromContent(data),
		Version:      version,
		Spec:         spec,
		Data:         raw,
		Warnings:     warnings,
		SourceSize:   int64(len(data)),
	}, nil
}

// FromOpenAPI3 converts a kin-openapi document into the comparison model.
// The returned warnings list constructs that were converted approximately.
func FromOpenAPI3(doc *openapi3.T) (*Specification, []string) {
	c := &kinConverter{}
	spec := &Specification{
		Paths:   make(map[string]*PathItem),
		Schemas: make(map[string]*Schema),
	}
	if doc == nil {
		return spec, nil
	}
	if doc.Info != nil {
		spec.Info = Info{
			Title:       doc.Info.Title,
			Description: doc.Info.Description,
			Version:     doc.Info.Version,
		}
	}
	if doc.Components != nil {
		for name, ref := range doc.Components.Schemas {
			spec.Schemas[name] = c.schema(ref, name, true)
		}
	}
	if doc.Paths != nil {
		for path, item := range doc.Paths.Map() {
			spec.Paths[path] = c.pathItem(path, item)
		}
	}
	return spec, c.warnings
}

type kinConverter struct {
	warnings []string
}

func (c *kinConverter) warnf(format string, args ...any) {
	c.warnings = append(c.warnings, fmt.Sprintf(format, args...))
}

func (c *kinConverter) pathItem(path string, item *openapi3.PathItem) *PathItem {
	out := &PathItem{Operations: make(map[Method]*Operation)}
	if item == nil {
		return out
	}
	at := "paths." + path
	shared := c.parameters(at, item.Parameters)
	for name, op := range item.Operations() {
		if !IsMethod(name) || op == nil {
			continue
		}
		method := Method(strings.ToLower(name))
		out.Operations[method] = c.operation(at+"."+string(method), op, shared)
	}
	return out
}

func (c *kinConverter) operation(at string, op *openapi3.Operation, shared []*Parameter) *Operation {
	out := &Operation{
		OperationID: op.OperationID,
		Summary:     op.Summary,
		Description: op.Description,
		Deprecated:  op.Deprecated,
		Parameters:  mergeParameters(shared, c.parameters(at, op.Parameters)),
		Responses:   make(map[string]*Response),
	}
	if op.RequestBody != nil && op.RequestBody.Value != nil {
		rb := op.RequestBody.Value
		out.RequestBody = &RequestBody{
			Description: rb.Description,
			Required:    rb.Required,
			Content:     c.content(at+".requestBody", rb.Content),
		}
	}
	if op.Responses != nil {
		for code, ref := range op.Responses.Map() {
			if ref == nil || ref.Value == nil {
				c.warnf("%s.responses.%s: unresolved response", at, code)
				continue
			}
			resp := &Response{Content: c.content(at+".responses."+code, ref.Value.Content)}
			if ref.Value.Description != nil {
				resp.Description = *ref.Value.Description
			}
			out.Responses[code] = resp
		}
	}
	return out
}

func (c *kinConverter) parameters(at string, params openapi3.Parameters) []*Parameter {
	var out []*Parameter
	for i, ref := range params {
		if ref == nil || ref.Value == nil {
			c.warnf("%s.parameters[%d]: unresolved parameter", at, i)
			continue
		}
		p := ref.Value
		param := &Parameter{
			Name:        p.Name,
			In:          p.In,
			Description: p.Description,
			Required:    p.Required,
		}
		where := fmt.Sprintf("%s.parameters[%d]", at, i)
		switch {
		case p.Schema != nil:
			param.Schema = c.schema(p.Schema, where, false)
		case p.Content != nil:
			param.Schema = JSONSchema(c.content(where, p.Content))
		}
		out = append(out, param)
	}
	return out
}

func (c *kinConverter) content(at string, content openapi3.Content) map[string]*MediaType {
	if len(content) == 0 {
		return nil
	}
	out := make(map[string]*MediaType, len(content))
	for name, mt := range content {
		m := &MediaType{}
		if mt != nil && mt.Schema != nil {
			m.Schema = c.schema(mt.Schema, at+".content."+name, false)
		}
		out[name] = m
	}
	return out
}

// schema converts a schema ref. A component definition (top) is converted by
// value even when kin-openapi recorded it as an alias.
func (c *kinConverter) schema(ref *openapi3.SchemaRef, at string, top bool) *Schema {
	if ref == nil {
		return &Schema{Shape: &Primitive{}}
	}
	if ref.Ref != "" {
		if name, ok := pathutil.SchemaName(ref.Ref); ok {
			return &Schema{Shape: &Reference{Name: name}}
		}
		if !top {
			c.warnf("%s: external reference %q compared by value", at, ref.Ref)
		}
	}
	s := ref.Value
	if s == nil {
		return &Schema{Shape: &Reference{Name: ref.Ref}}
	}
	return &Schema{Description: s.Description, Shape: c.shape(s, at)}
}

func (c *kinConverter) shape(s *openapi3.Schema, at string) Shape {
	if len(s.OneOf) > 0 {
		c.warnf("%s: oneOf is not compared; treated as untyped", at)
	}
	if len(s.AnyOf) > 0 {
		c.warnf("%s: anyOf is not compared; treated as untyped", at)
	}
	if s.Not != nil {
		c.warnf("%s: not is not compared; treated as untyped", at)
	}

	if len(s.AllOf) > 0 {
		comp := &Composition{}
		for i, member := range s.AllOf {
			comp.AllOf = append(comp.AllOf, c.schema(member, fmt.Sprintf("%s.allOf[%d]", at, i), false))
		}
		if len(s.Properties) > 0 {
			comp.AllOf = append(comp.AllOf, &Schema{Shape: c.object(s, at)})
		}
		return comp
	}

	var types []string
	for _, t := range s.Type.Slice() {
		if t != openapi3.TypeNull {
			types = append(types, t)
		}
	}
	sort.Strings(types)
	typ := strings.Join(types, "|")

	switch {
	case typ == openapi3.TypeArray || (typ == "" && s.Items != nil):
		return &Array{Items: c.schema(s.Items, at+"[]", false)}
	case typ == openapi3.TypeObject || (typ == "" && len(s.Properties) > 0):
		return c.object(s, at)
	}

	prim := &Primitive{Type: typ, Format: s.Format}
	for _, v := range s.Enum {
		if v == nil {
			prim.Enum = append(prim.Enum, "null")
			continue
		}
		prim.Enum = append(prim.Enum, fmt.Sprint(v))
	}
	return prim
}

func (c *kinConverter) object(s *openapi3.Schema, at string) *Object {
	obj := &Object{
		Properties: make(map[string]*Schema, len(s.Properties)),
		Required:   append([]string(nil), s.Required...),
	}
	for name, prop := range s.Properties {
		obj.Properties[name] = c.schema(prop, at+"."+name, false)
		obj.Order = append(obj.Order, name)
	}
	sort.Strings(obj.Order)
	return obj
}

// decodeRaw decodes YAML or JSON into a JSON-compatible map.
func decodeRaw(data []byte) (map[string]any, error) {
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, &oaserrors.ParseError{Message: "invalid YAML or JSON", Cause: err}
	}
	raw, ok := normalizeRaw(v).(map[string]any)
	if !ok {
		return nil, &oaserrors.ParseError{Message: "document root must be a mapping"}
	}
	return raw, nil
}

// normalizeRaw converts YAML maps with non-string keys (e.g. status codes
// decoded as integers) into map[string]any so the value encodes as JSON.
func normalizeRaw(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, val := range t {
			t[k] = normalizeRaw(val)
		}
		return t
	case map[any]any:
		m := make(map[string]any, len(t))
		for k, val := range t {
			m[fmt.Sprint(k)] = normalizeRaw(val)
		}
		return m
	case []any:
		for i, val := range t {
			t[i] = normalizeRaw(val)
		}
		return t
	default:
		return v
	}
}
