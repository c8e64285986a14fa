package parser

import (
	"fmt"
	"sort"
	"strings"

	"github.com/erraggy/apichangelog/internal/pathutil"
	"github.com/erraggy/apichangelog/oaserrors"
	"go.yaml.in/yaml/v4"
)

// maxRefHops bounds alias chains between non-schema components
// (parameters, responses, request bodies).
const maxRefHops = 16

// Component section prefixes for non-schema references.
const (
	refPrefixParameters    = "#/components/parameters/"
	refPrefixRequestBodies = "#/components/requestBodies/"
	refPrefixResponses     = "#/components/responses/"
	refPrefixOAS2Params    = "#/parameters/"
	refPrefixOAS2Responses = "#/responses/"
)

// decoder walks a yaml.Node tree and builds the comparison model.
// It keeps document order for object properties and collects warnings for
// constructs it can only approximate.
type decoder struct {
	oas2     bool
	root     *yaml.Node
	warnings []string
}

func newDecoder() *decoder {
	return &decoder{}
}

func (d *decoder) warnf(format string, args ...any) {
	d.warnings = append(d.warnings, fmt.Sprintf(format, args...))
}

func (d *decoder) decodeDocument(root *yaml.Node) (*Specification, string, error) {
	doc := deref(root)
	if doc != nil && doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
		doc = deref(doc.Content[0])
	}
	if doc == nil || doc.Kind != yaml.MappingNode {
		line, col := position(doc)
		return nil, "", &oaserrors.ParseError{Line: line, Column: col, Message: "document root must be a mapping"}
	}
	d.root = doc

	version := scalar(doc, "openapi")
	if version == "" {
		version = scalar(doc, "swagger")
		d.oas2 = version != ""
	}
	if version == "" {
		return nil, "", &oaserrors.ParseError{Line: doc.Line, Column: doc.Column, Message: "missing openapi or swagger version field"}
	}

	spec := &Specification{
		Paths:   make(map[string]*PathItem),
		Schemas: make(map[string]*Schema),
	}
	if info := mapping(lookup(doc, "info")); info != nil {
		spec.Info = Info{
			Title:       scalar(info, "title"),
			Description: scalar(info, "description"),
			Version:     scalar(info, "version"),
		}
	}

	var schemas *yaml.Node
	if d.oas2 {
		schemas = mapping(lookup(doc, "definitions"))
	} else {
		schemas = mapping(lookup(mapping(lookup(doc, "components")), "schemas"))
	}
	for _, kv := range pairs(schemas) {
		spec.Schemas[kv.key] = d.decodeSchema(kv.value, kv.key)
	}

	for _, kv := range pairs(mapping(lookup(doc, "paths"))) {
		item := d.decodePathItem(kv.key, kv.value)
		if item != nil {
			spec.Paths[kv.key] = item
		}
	}

	return spec, version, nil
}

func (d *decoder) decodePathItem(path string, n *yaml.Node) *PathItem {
	m := mapping(n)
	if m == nil {
		d.warnf("paths.%s: path item is not a mapping", path)
		return nil
	}
	if ref := scalar(m, "$ref"); ref != "" {
		d.warnf("paths.%s: path item $ref %q is not followed", path, ref)
	}

	shared := d.decodeParameters(fmt.Sprintf("paths.%s", path), lookup(m, "parameters"), nil)
	item := &PathItem{Operations: make(map[Method]*Operation)}
	for _, kv := range pairs(m) {
		if !IsMethod(kv.key) {
			continue
		}
		method := Method(strings.ToLower(kv.key))
		item.Operations[method] = d.decodeOperation(fmt.Sprintf("paths.%s.%s", path, method), kv.value, shared)
	}
	return item
}

func (d *decoder) decodeOperation(at string, n *yaml.Node, shared []*Parameter) *Operation {
	op := &Operation{Responses: make(map[string]*Response)}
	m := mapping(n)
	if m == nil {
		d.warnf("%s: operation is not a mapping", at)
		return op
	}
	op.OperationID = scalar(m, "operationId")
	op.Summary = scalar(m, "summary")
	op.Description = scalar(m, "description")
	op.Deprecated = boolean(m, "deprecated")

	var body *RequestBody
	own := d.decodeParameters(at, lookup(m, "parameters"), &body)
	op.Parameters = mergeParameters(shared, own)

	if rb := lookup(m, "requestBody"); rb != nil {
		body = d.decodeRequestBody(at+".requestBody", rb)
	}
	op.RequestBody = body

	for _, kv := range pairs(mapping(lookup(m, "responses"))) {
		if strings.HasPrefix(kv.key, "x-") {
			continue
		}
		if resp := d.decodeResponse(at+".responses."+kv.key, kv.value); resp != nil {
			op.Responses[kv.key] = resp
		}
	}
	return op
}

// mergeParameters overlays operation parameters on path-level ones.
// Path-level parameters keep their position; an operation parameter with the
// same key replaces it in place. Operation-only parameters follow.
func mergeParameters(shared, own []*Parameter) []*Parameter {
	if len(shared) == 0 {
		return own
	}
	ownByKey := make(map[string]*Parameter, len(own))
	for _, p := range own {
		ownByKey[p.Key()] = p
	}
	merged := make([]*Parameter, 0, len(shared)+len(own))
	used := make(map[string]bool, len(own))
	for _, p := range shared {
		if o, ok := ownByKey[p.Key()]; ok {
			merged = append(merged, o)
			used[p.Key()] = true
			continue
		}
		merged = append(merged, p)
	}
	for _, p := range own {
		if !used[p.Key()] {
			merged = append(merged, p)
		}
	}
	return merged
}

// decodeParameters decodes a parameter list. An OAS 2.0 body parameter is
// turned into a request body and stored through body when body is non-nil.
func (d *decoder) decodeParameters(at string, n *yaml.Node, body **RequestBody) []*Parameter {
	seq := sequence(n)
	if seq == nil {
		return nil
	}
	var params []*Parameter
	seen := make(map[string]bool)
	for i, item := range seq.Content {
		where := fmt.Sprintf("%s.parameters[%d]", at, i)
		pm := d.followRef(where, item, refPrefixParameters, refPrefixOAS2Params)
		if pm == nil {
			continue
		}
		in := scalar(pm, "in")
		if in == "body" {
			if body != nil {
				*body = &RequestBody{
					Description: scalar(pm, "description"),
					Required:    boolean(pm, "required"),
					Content: map[string]*MediaType{
						MediaTypeJSON: {Schema: d.decodeSchema(lookup(pm, "schema"), where+".schema")},
					},
				}
			}
			continue
		}
		p := &Parameter{
			Name:        scalar(pm, "name"),
			In:          in,
			Description: scalar(pm, "description"),
			Required:    boolean(pm, "required"),
		}
		switch {
		case lookup(pm, "schema") != nil:
			p.Schema = d.decodeSchema(lookup(pm, "schema"), where+".schema")
		case lookup(pm, "content") != nil:
			p.Schema = JSONSchema(d.decodeContent(where, lookup(pm, "content")))
		case d.oas2:
			// OAS 2.0 non-body parameters carry their type inline.
			p.Schema = &Schema{Shape: d.decodeShape(pm, where)}
		}
		if seen[p.Key()] {
			d.warnf("%s: duplicate parameter %s", where, p.Key())
			continue
		}
		seen[p.Key()] = true
		params = append(params, p)
	}
	return params
}

func (d *decoder) decodeRequestBody(at string, n *yaml.Node) *RequestBody {
	m := d.followRef(at, n, refPrefixRequestBodies)
	if m == nil {
		return nil
	}
	return &RequestBody{
		Description: scalar(m, "description"),
		Required:    boolean(m, "required"),
		Content:     d.decodeContent(at, lookup(m, "content")),
	}
}

func (d *decoder) decodeResponse(at string, n *yaml.Node) *Response {
	m := d.followRef(at, n, refPrefixResponses, refPrefixOAS2Responses)
	if m == nil {
		return nil
	}
	resp := &Response{Description: scalar(m, "description")}
	if d.oas2 {
		if s := lookup(m, "schema"); s != nil {
			resp.Content = map[string]*MediaType{
				MediaTypeJSON: {Schema: d.decodeSchema(s, at+".schema")},
			}
		}
		return resp
	}
	resp.Content = d.decodeContent(at, lookup(m, "content"))
	return resp
}

func (d *decoder) decodeContent(at string, n *yaml.Node) map[string]*MediaType {
	kvs := pairs(mapping(n))
	if len(kvs) == 0 {
		return nil
	}
	content := make(map[string]*MediaType, len(kvs))
	for _, kv := range kvs {
		mt := &MediaType{}
		if s := lookup(mapping(kv.value), "schema"); s != nil {
			mt.Schema = d.decodeSchema(s, at+".content."+kv.key+".schema")
		}
		content[kv.key] = mt
	}
	return content
}

// followRef returns the mapping n refers to when n is a $ref into one of the
// given component sections, or n itself when it is not a reference.
func (d *decoder) followRef(at string, n *yaml.Node, prefixes ...string) *yaml.Node {
	m := mapping(n)
	for hop := 0; m != nil; hop++ {
		ref := scalar(m, "$ref")
		if ref == "" {
			return m
		}
		if hop == maxRefHops {
			d.warnf("%s: reference chain through %q is too long", at, ref)
			return nil
		}
		target := d.lookupPointer(ref, prefixes)
		if target == nil {
			d.warnf("%s: unresolved reference %q", at, ref)
			return nil
		}
		m = target
	}
	d.warnf("%s: expected a mapping", at)
	return nil
}

func (d *decoder) lookupPointer(ref string, prefixes []string) *yaml.Node {
	for _, prefix := range prefixes {
		if !strings.HasPrefix(ref, prefix) {
			continue
		}
		segments := strings.Split(strings.TrimPrefix(prefix, "#/"), "/")
		segments = append(segments[:len(segments)-1], unescapePointer(ref[len(prefix):]))
		n := d.root
		for _, seg := range segments {
			n = mapping(lookup(n, seg))
			if n == nil {
				return nil
			}
		}
		return n
	}
	return nil
}

func unescapePointer(s string) string {
	s = strings.ReplaceAll(s, "~1", "/")
	return strings.ReplaceAll(s, "~0", "~")
}

// decodeSchema decodes a schema node. Nil or non-mapping nodes decode to an
// untyped primitive.
func (d *decoder) decodeSchema(n *yaml.Node, at string) *Schema {
	m := mapping(n)
	if m == nil {
		return &Schema{Shape: &Primitive{}}
	}
	return &Schema{
		Description: scalar(m, "description"),
		Shape:       d.decodeShape(m, at),
	}
}

func (d *decoder) decodeShape(m *yaml.Node, at string) Shape {
	if ref := scalar(m, "$ref"); ref != "" {
		name, ok := pathutil.SchemaName(ref)
		if !ok {
			name = ref
		}
		return &Reference{Name: name}
	}

	for _, unsupported := range []string{"oneOf", "anyOf", "not"} {
		if lookup(m, unsupported) != nil {
			d.warnf("%s: %s is not compared; treated as untyped", at, unsupported)
		}
	}

	if all := sequence(lookup(m, "allOf")); all != nil {
		comp := &Composition{}
		for i, member := range all.Content {
			comp.AllOf = append(comp.AllOf, d.decodeSchema(member, fmt.Sprintf("%s.allOf[%d]", at, i)))
		}
		// Sibling properties alongside allOf behave like one more member.
		if lookup(m, "properties") != nil {
			comp.AllOf = append(comp.AllOf, &Schema{Shape: d.decodeObject(m, at)})
		}
		return comp
	}

	typ := d.schemaType(m, at)
	switch {
	case typ == "array" || (typ == "" && lookup(m, "items") != nil):
		return &Array{Items: d.decodeSchema(lookup(m, "items"), at+"[]")}
	case typ == "object" || (typ == "" && lookup(m, "properties") != nil):
		return d.decodeObject(m, at)
	}

	prim := &Primitive{Type: typ, Format: scalar(m, "format")}
	if enum := sequence(lookup(m, "enum")); enum != nil {
		for _, v := range enum.Content {
			v = deref(v)
			if v.Kind != yaml.ScalarNode {
				continue
			}
			if v.ShortTag() == "!!null" {
				prim.Enum = append(prim.Enum, "null")
				continue
			}
			prim.Enum = append(prim.Enum, v.Value)
		}
	}
	return prim
}

// schemaType returns the declared type. OAS 3.1 type arrays are reduced to
// their non-null members joined with "|" in sorted order.
func (d *decoder) schemaType(m *yaml.Node, at string) string {
	n := deref(lookup(m, "type"))
	if n == nil {
		return ""
	}
	switch n.Kind {
	case yaml.ScalarNode:
		return n.Value
	case yaml.SequenceNode:
		var types []string
		for _, t := range n.Content {
			t = deref(t)
			if t.Kind == yaml.ScalarNode && t.Value != "null" {
				types = append(types, t.Value)
			}
		}
		sort.Strings(types)
		return strings.Join(types, "|")
	default:
		d.warnf("%s: unexpected type value", at)
		return ""
	}
}

func (d *decoder) decodeObject(m *yaml.Node, at string) *Object {
	obj := &Object{Properties: make(map[string]*Schema)}
	for _, kv := range pairs(mapping(lookup(m, "properties"))) {
		if _, dup := obj.Properties[kv.key]; dup {
			continue
		}
		obj.Order = append(obj.Order, kv.key)
		obj.Properties[kv.key] = d.decodeSchema(kv.value, at+"."+kv.key)
	}
	if req := sequence(lookup(m, "required")); req != nil {
		for _, r := range req.Content {
			r = deref(r)
			if r.Kind == yaml.ScalarNode {
				obj.Required = append(obj.Required, r.Value)
			}
		}
	}
	return obj
}

// yaml.Node helpers.

type keyValue struct {
	key   string
	value *yaml.Node
}

// deref follows alias nodes.
func deref(n *yaml.Node) *yaml.Node {
	for i := 0; n != nil && n.Kind == yaml.AliasNode && i < maxRefHops; i++ {
		n = n.Alias
	}
	return n
}

func mapping(n *yaml.Node) *yaml.Node {
	n = deref(n)
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}
	return n
}

func sequence(n *yaml.Node) *yaml.Node {
	n = deref(n)
	if n == nil || n.Kind != yaml.SequenceNode {
		return nil
	}
	return n
}

func lookup(m *yaml.Node, key string) *yaml.Node {
	if m == nil {
		return nil
	}
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i+1]
		}
	}
	return nil
}

func pairs(m *yaml.Node) []keyValue {
	if m == nil {
		return nil
	}
	out := make([]keyValue, 0, len(m.Content)/2)
	for i := 0; i+1 < len(m.Content); i += 2 {
		out = append(out, keyValue{key: m.Content[i].Value, value: m.Content[i+1]})
	}
	return out
}

func scalar(m *yaml.Node, key string) string {
	n := deref(lookup(m, key))
	if n == nil || n.Kind != yaml.ScalarNode {
		return ""
	}
	return n.Value
}

func boolean(m *yaml.Node, key string) bool {
	return strings.EqualFold(scalar(m, key), "true")
}

func position(n *yaml.Node) (int, int) {
	if n == nil {
		return 0, 0
	}
	return n.Line, n.Column
}
