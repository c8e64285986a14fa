package differ

import (
	"errors"
	"fmt"
	"strings"

	"github.com/erraggy/apichangelog/internal/issues"
	"github.com/erraggy/apichangelog/internal/maputil"
	"github.com/erraggy/apichangelog/internal/pathutil"
	"github.com/erraggy/apichangelog/oaserrors"
	"github.com/erraggy/apichangelog/parser"
)

// side identifies one of the two documents under comparison.
type side struct {
	name     string
	resolver *parser.Resolver
	stack    *parser.ResolutionStack
}

// walker holds the state of one Diff call. Nothing in it outlives the call.
type walker struct {
	d *Differ

	oldSpec *parser.Specification
	newSpec *parser.Specification
	oldSide side
	newSide side

	path    *pathutil.PathBuilder
	release func()

	// coordinates of the facts being emitted
	section     Section
	route       string
	operation   parser.Method
	operationID string

	facts       []fact
	diagnostics []issues.Issue
}

func newWalker(d *Differ, oldSpec, newSpec *parser.Specification) *walker {
	path, release := pathutil.Acquire()
	return &walker{
		d:       d,
		oldSpec: oldSpec,
		newSpec: newSpec,
		oldSide: side{name: "old", resolver: parser.NewResolver(oldSpec), stack: parser.NewResolutionStack()},
		newSide: side{name: "new", resolver: parser.NewResolver(newSpec), stack: parser.NewResolutionStack()},
		path:    path,
		release: release,
	}
}

// take returns the facts gathered so far and starts a new batch.
func (w *walker) take() []fact {
	out := w.facts
	w.facts = nil
	return out
}

func (w *walker) emit(kind Kind, oldValue, newValue string) {
	w.facts = append(w.facts, fact{
		section:     w.section,
		path:        w.route,
		operation:   string(w.operation),
		operationID: w.operationID,
		fieldPath:   w.path.String(),
		kind:        kind,
		oldValue:    oldValue,
		newValue:    newValue,
	})
}

// hasFactAt reports whether a fact at fieldPath was emitted since mark.
func (w *walker) hasFactAt(mark int, fieldPath string) bool {
	for _, f := range w.facts[mark:] {
		if f.fieldPath == fieldPath {
			return true
		}
	}
	return false
}

// unresolved records a reference that could not be followed. The comparison
// continues by name.
func (w *walker) unresolved(s side, name string, err error) {
	kind := issues.KindDanglingReference
	msg := "no such component schema"
	if errors.Is(err, oaserrors.ErrCyclicReference) {
		kind = issues.KindCyclicReference
		msg = "reference cycle"
		var refErr *oaserrors.ReferenceError
		if errors.As(err, &refErr) && len(refErr.Chain) > 0 {
			msg = "reference cycle: " + strings.Join(refErr.Chain, " -> ")
		}
	}

	issue := issues.Issue{
		Kind:    kind,
		Side:    s.name,
		Path:    w.location(),
		Ref:     name,
		Message: msg,
	}
	if w.section == SectionPaths {
		issue.OperationContext = &issues.OperationContext{
			Method:      strings.ToUpper(string(w.operation)),
			Path:        w.route,
			OperationID: w.operationID,
		}
	}
	w.diagnostics = append(w.diagnostics, issue)
	w.d.log().Warn("unresolved reference",
		"side", s.name,
		"ref", name,
		"kind", kind.String(),
		"path", issue.Path)
}

// location returns the field path for diagnostics, falling back to the route.
func (w *walker) location() string {
	if p := w.path.String(); p != "" {
		return p
	}
	return w.route
}

// compareSchema compares two schema nodes at the current field path.
// oldDesc and newDesc are the descriptions in effect for the node; callers
// pass the schema's own description unless the owner (a parameter, body, or
// response) carries one.
func (w *walker) compareSchema(oldNode, newNode *parser.Schema, oldDesc, newDesc string) {
	w.compareSchemaSince(len(w.facts), oldNode, newNode, oldDesc, newDesc)
}

// compareSchemaSince is compareSchema for owners that emit facts of their own
// at the node's path (a required flag) before comparing the schema. Facts
// emitted since mark count against the description rule.
func (w *walker) compareSchemaSince(mark int, oldNode, newNode *parser.Schema, oldDesc, newDesc string) {
	here := w.path.String()
	oldMark, newMark := w.oldSide.stack.Len(), w.newSide.stack.Len()
	defer func() {
		w.oldSide.stack.Truncate(oldMark)
		w.newSide.stack.Truncate(newMark)
	}()

	oldNode, newNode = unwrap(oldNode), unwrap(newNode)
	oldNode, newNode, done := w.resolvePair(oldNode, newNode)
	if !done {
		if oldDesc == "" {
			oldDesc = description(oldNode)
		}
		if newDesc == "" {
			newDesc = description(newNode)
		}
		w.compareShapes(w.effective(oldNode, w.oldSide), w.effective(newNode, w.newSide))
	}

	if oldDesc != newDesc && !w.hasFactAt(mark, here) {
		w.emit(KindDescriptionChanged, oldDesc, newDesc)
	}
}

// resolvePair applies the reference rules to a node pair. It returns the
// nodes to compare structurally, or done when the pair was settled by name.
func (w *walker) resolvePair(oldNode, newNode *parser.Schema) (*parser.Schema, *parser.Schema, bool) {
	oldRef, oldIsRef := shapeOf(oldNode).(*parser.Reference)
	newRef, newIsRef := shapeOf(newNode).(*parser.Reference)
	if !oldIsRef && !newIsRef {
		return oldNode, newNode, false
	}
	if oldIsRef && newIsRef {
		if oldRef.Name == newRef.Name {
			return oldNode, newNode, true
		}
		if w.d.References == ReferencesNominal {
			w.emit(KindReferenceChanged, oldRef.Name, newRef.Name)
			return oldNode, newNode, true
		}
	}

	oldTarget, oldOK := oldNode, true
	if oldIsRef {
		oldTarget, oldOK = w.resolve(w.oldSide, oldRef.Name)
	}
	newTarget, newOK := newNode, true
	if newIsRef {
		newTarget, newOK = w.resolve(w.newSide, newRef.Name)
	}
	if oldOK && newOK {
		return oldTarget, newTarget, false
	}

	if oldName, newName := refLabel(oldNode), refLabel(newNode); oldName != newName {
		w.emit(KindReferenceChanged, oldName, newName)
	}
	return oldNode, newNode, true
}

func (w *walker) resolve(s side, name string) (*parser.Schema, bool) {
	target, err := s.resolver.Resolve(name, s.stack)
	if err != nil {
		w.unresolved(s, name, err)
		return nil, false
	}
	return target, true
}

// effective returns the shape to compare for a resolved node. Compositions
// are folded; the result is never a Composition or a Reference.
func (w *walker) effective(node *parser.Schema, s side) parser.Shape {
	switch sh := shapeOf(node).(type) {
	case *parser.Composition:
		return w.fold(sh, s)
	case *parser.Reference:
		target, ok := w.resolve(s, sh.Name)
		if !ok {
			return &parser.Primitive{}
		}
		return w.effective(target, s)
	default:
		return sh
	}
}

// fold merges allOf members into one effective object. Properties keep the
// first occurrence in member order and required names are unioned. A
// composition with exactly one resolvable member folds to that member.
// Names resolved for a member are popped before the next one, so only
// ancestors of the composition stay on the stack.
func (w *walker) fold(c *parser.Composition, s side) parser.Shape {
	var members []parser.Shape
	seen := make(map[string]struct{})
	mark := s.stack.Len()
	for _, m := range c.AllOf {
		m = unwrap(m)
		if ref, ok := shapeOf(m).(*parser.Reference); ok {
			if _, dup := seen[ref.Name]; dup {
				continue
			}
			seen[ref.Name] = struct{}{}
			target, ok := w.resolve(s, ref.Name)
			if !ok {
				continue
			}
			m = target
		}
		members = append(members, w.effective(m, s))
		s.stack.Truncate(mark)
	}
	if len(members) == 1 {
		return members[0]
	}

	merged := &parser.Object{Properties: make(map[string]*parser.Schema)}
	for _, m := range members {
		obj, ok := m.(*parser.Object)
		if !ok {
			continue
		}
		for _, name := range obj.PropertyNames() {
			if _, dup := merged.Properties[name]; dup {
				continue
			}
			merged.Properties[name] = obj.Properties[name]
			merged.Order = append(merged.Order, name)
		}
		for _, name := range obj.Required {
			if !merged.IsRequired(name) {
				merged.Required = append(merged.Required, name)
			}
		}
	}
	return merged
}

func (w *walker) compareShapes(oldShape, newShape parser.Shape) {
	if oldShape.Kind() != newShape.Kind() {
		w.emit(KindShapeChanged, shapeLabel(oldShape), shapeLabel(newShape))
		return
	}

	switch o := oldShape.(type) {
	case *parser.Primitive:
		w.comparePrimitive(o, newShape.(*parser.Primitive))
	case *parser.Array:
		n := newShape.(*parser.Array)
		w.path.PushItems()
		w.compareSchema(o.Items, n.Items, description(o.Items), description(n.Items))
		w.path.Pop()
	case *parser.Object:
		w.compareObject(o, newShape.(*parser.Object))
	default:
		panic(fmt.Sprintf("differ: unexpected %s shape after folding", oldShape.Kind()))
	}
}

func (w *walker) comparePrimitive(o, n *parser.Primitive) {
	if o.Type != n.Type {
		w.emit(KindTypeChanged, typeLabel(o), typeLabel(n))
		return
	}
	if o.Format != n.Format {
		w.emit(KindFormatChanged, o.Format, n.Format)
	}
	added, removed := enumValuesDelta(o.Enum, n.Enum)
	if len(added) > 0 || len(removed) > 0 {
		w.emit(KindEnumChanged, strings.Join(removed, "\n"), strings.Join(added, "\n"))
	}
}

func (w *walker) compareObject(o, n *parser.Object) {
	oldNames := maputil.SortedKeys(o.Properties)

	for _, name := range onlyIn(o, n) {
		w.path.Push(name)
		w.emit(KindPropertyRemoved, "", "")
		w.path.Pop()
	}
	for _, name := range onlyIn(n, o) {
		w.path.Push(name)
		w.emit(KindPropertyAdded, "", "")
		w.path.Pop()
	}
	for _, name := range oldNames {
		newProp, ok := n.Properties[name]
		if !ok {
			continue
		}
		oldProp := o.Properties[name]
		w.path.Push(name)
		w.compareSchema(oldProp, newProp, description(oldProp), description(newProp))
		w.path.Pop()
	}

	for _, name := range requiredUnion(o.Required, n.Required) {
		wasRequired, isRequired := o.IsRequired(name), n.IsRequired(name)
		if wasRequired == isRequired {
			continue
		}
		w.path.Push(name)
		if isRequired {
			w.emit(KindRequiredAdded, "false", "true")
		} else {
			w.emit(KindRequiredRemoved, "true", "false")
		}
		w.path.Pop()
	}
}

// unwrap strips single-member compositions so that allOf: [$ref X] compares
// like $ref X.
func unwrap(node *parser.Schema) *parser.Schema {
	for node != nil {
		c, ok := node.Shape.(*parser.Composition)
		if !ok || len(c.AllOf) != 1 || c.AllOf[0] == nil {
			return node
		}
		node = c.AllOf[0]
	}
	return node
}

// shapeOf returns the node's shape, treating a missing node as untyped.
func shapeOf(node *parser.Schema) parser.Shape {
	if node == nil || node.Shape == nil {
		return &parser.Primitive{}
	}
	return node.Shape
}

func description(node *parser.Schema) string {
	if node == nil {
		return ""
	}
	return node.Description
}

func refLabel(node *parser.Schema) string {
	if ref, ok := shapeOf(node).(*parser.Reference); ok {
		return ref.Name
	}
	return "inline schema"
}

func shapeLabel(sh parser.Shape) string {
	if p, ok := sh.(*parser.Primitive); ok {
		return typeLabel(p)
	}
	return sh.Kind().String()
}

// typeLabel renders a primitive as "type" or "type (format)".
func typeLabel(p *parser.Primitive) string {
	typ := p.Type
	if typ == "" {
		typ = "any"
	}
	if p.Format != "" {
		return typ + " (" + p.Format + ")"
	}
	return typ
}

// enumValuesDelta returns values only in newValues (added) and only in
// oldValues (removed), each in document order.
func enumValuesDelta(oldValues, newValues []string) (added, removed []string) {
	oldSet := make(map[string]struct{}, len(oldValues))
	for _, v := range oldValues {
		oldSet[v] = struct{}{}
	}
	newSet := make(map[string]struct{}, len(newValues))
	for _, v := range newValues {
		newSet[v] = struct{}{}
		if _, ok := oldSet[v]; !ok {
			added = append(added, v)
		}
	}
	for _, v := range oldValues {
		if _, ok := newSet[v]; !ok {
			removed = append(removed, v)
		}
	}
	return added, removed
}

// onlyIn returns the property names of a absent from b, sorted.
func onlyIn(a, b *parser.Object) []string {
	return maputil.OnlyIn(a.Properties, b.Properties)
}

// requiredUnion returns the names required on either side, sorted.
func requiredUnion(a, b []string) []string {
	set := make(map[string]struct{}, len(a)+len(b))
	for _, name := range a {
		set[name] = struct{}{}
	}
	for _, name := range b {
		set[name] = struct{}{}
	}
	return maputil.SortedKeys(set)
}
