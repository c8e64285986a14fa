package differ

import (
	"strconv"

	"github.com/erraggy/apichangelog/internal/maputil"
	"github.com/erraggy/apichangelog/parser"
)

// diffPaths walks the union of path templates in sorted order and the
// methods of each in parser.Methods order.
func (w *walker) diffPaths() {
	w.section = SectionPaths
	defer w.leaveOperation()

	for _, route := range maputil.SortedUnion(w.oldSpec.Paths, w.newSpec.Paths) {
		oldItem, newItem := w.oldSpec.Paths[route], w.newSpec.Paths[route]
		for _, method := range parser.Methods {
			oldOp, newOp := operationOf(oldItem, method), operationOf(newItem, method)
			if oldOp == nil && newOp == nil {
				continue
			}
			w.enterOperation(route, method, oldOp, newOp)
			switch {
			case oldOp == nil:
				w.emit(KindOperationAdded, "", "")
			case newOp == nil:
				w.emit(KindOperationRemoved, "", "")
			default:
				w.diffOperation(oldOp, newOp)
			}
		}
	}
}

func (w *walker) enterOperation(route string, method parser.Method, oldOp, newOp *parser.Operation) {
	w.route = route
	w.operation = method
	w.operationID = ""
	if newOp != nil && newOp.OperationID != "" {
		w.operationID = newOp.OperationID
	} else if oldOp != nil {
		w.operationID = oldOp.OperationID
	}
	w.path.Reset()
}

func (w *walker) leaveOperation() {
	w.route = ""
	w.operation = ""
	w.operationID = ""
	w.path.Reset()
}

func operationOf(item *parser.PathItem, method parser.Method) *parser.Operation {
	if item == nil {
		return nil
	}
	return item.Operations[method]
}

// diffOperation compares two operations matched by path and method.
func (w *walker) diffOperation(o, n *parser.Operation) {
	w.diffText("summary", KindSummaryChanged, o.Summary, n.Summary)
	w.diffText("description", KindDescriptionChanged, o.Description, n.Description)
	w.diffText("operationId", KindOperationIDChanged, o.OperationID, n.OperationID)
	if o.Deprecated != n.Deprecated {
		w.path.Push("deprecated")
		w.emit(KindDeprecatedChanged, strconv.FormatBool(o.Deprecated), strconv.FormatBool(n.Deprecated))
		w.path.Pop()
	}

	w.diffParameters(o.Parameters, n.Parameters)
	w.diffRequestBody(o.RequestBody, n.RequestBody)
	w.diffResponses(o.Responses, n.Responses)
}

func (w *walker) diffText(field string, kind Kind, oldValue, newValue string) {
	if oldValue == newValue {
		return
	}
	w.path.Push(field)
	w.emit(kind, oldValue, newValue)
	w.path.Pop()
}

// diffParameters aligns parameters by (in, name). Removed and added keys are
// reported sorted; matched parameters are compared in old order.
func (w *walker) diffParameters(oldParams, newParams []*parser.Parameter) {
	oldByKey := indexParameters(oldParams)
	newByKey := indexParameters(newParams)

	w.path.Push("parameters")
	defer w.path.Pop()

	for _, key := range maputil.OnlyIn(oldByKey, newByKey) {
		w.path.Push(key)
		w.emit(KindParameterRemoved, "", "")
		w.path.Pop()
	}
	for _, key := range maputil.OnlyIn(newByKey, oldByKey) {
		w.path.Push(key)
		w.emit(KindParameterAdded, "", "")
		w.path.Pop()
	}
	for _, op := range oldParams {
		if op == nil {
			continue
		}
		key := op.Key()
		np, ok := newByKey[key]
		if !ok || oldByKey[key] != op {
			continue
		}
		w.path.Push(key)
		mark := len(w.facts)
		w.diffRequired(op.Required, np.Required)
		w.compareSchemaSince(mark, op.Schema, np.Schema,
			firstNonEmpty(op.Description, description(op.Schema)),
			firstNonEmpty(np.Description, description(np.Schema)))
		w.path.Pop()
	}
}

// indexParameters maps parameters by key. A duplicated key keeps the first
// occurrence.
func indexParameters(params []*parser.Parameter) map[string]*parser.Parameter {
	out := make(map[string]*parser.Parameter, len(params))
	for _, p := range params {
		if p == nil {
			continue
		}
		if _, dup := out[p.Key()]; !dup {
			out[p.Key()] = p
		}
	}
	return out
}

func (w *walker) diffRequired(wasRequired, isRequired bool) {
	switch {
	case !wasRequired && isRequired:
		w.emit(KindRequiredAdded, "false", "true")
	case wasRequired && !isRequired:
		w.emit(KindRequiredRemoved, "true", "false")
	}
}

func (w *walker) diffRequestBody(o, n *parser.RequestBody) {
	if o == nil && n == nil {
		return
	}
	w.path.Push("requestBody")
	defer w.path.Pop()

	switch {
	case o == nil:
		w.emit(KindRequestBodyAdded, "", "")
	case n == nil:
		w.emit(KindRequestBodyRemoved, "", "")
	default:
		mark := len(w.facts)
		w.diffRequired(o.Required, n.Required)
		w.diffContent(mark, parser.JSONSchema(o.Content), parser.JSONSchema(n.Content), o.Description, n.Description)
	}
}

// diffResponses walks the sorted union of status codes.
func (w *walker) diffResponses(oldResponses, newResponses map[string]*parser.Response) {
	w.path.Push("responses")
	defer w.path.Pop()

	for _, code := range maputil.SortedUnion(oldResponses, newResponses) {
		o, n := oldResponses[code], newResponses[code]
		w.path.Push(code)
		switch {
		case o == nil && n == nil:
		case o == nil:
			w.emit(KindResponseAdded, "", "")
		case n == nil:
			w.emit(KindResponseRemoved, "", "")
		default:
			w.diffContent(len(w.facts), parser.JSONSchema(o.Content), parser.JSONSchema(n.Content), o.Description, n.Description)
		}
		w.path.Pop()
	}
}

// diffContent compares the JSON schemas of a body or response at the
// current field path. ownerOld and ownerNew are the owner's descriptions,
// which take precedence over the schema's.
func (w *walker) diffContent(mark int, o, n *parser.Schema, ownerOld, ownerNew string) {
	switch {
	case o == nil && n == nil:
		if ownerOld != ownerNew && !w.hasFactAt(mark, w.path.String()) {
			w.emit(KindDescriptionChanged, ownerOld, ownerNew)
		}
	case o == nil:
		w.emit(KindSchemaAdded, "", "")
	case n == nil:
		w.emit(KindSchemaRemoved, "", "")
	default:
		w.compareSchemaSince(mark, o, n,
			firstNonEmpty(ownerOld, description(o)),
			firstNonEmpty(ownerNew, description(n)))
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
