package differ

import (
	"github.com/erraggy/apichangelog/internal/maputil"
)

// diffComponents walks the sorted union of component schema names. Each
// matched pair is compared with both resolution stacks seeded with the
// component's name, so a self-reference inside it is caught on first revisit.
func (w *walker) diffComponents() {
	w.section = SectionComponents
	w.operation = ""
	w.operationID = ""
	defer func() {
		w.route = ""
		w.path.Reset()
	}()

	for _, name := range maputil.SortedUnion(w.oldSpec.Schemas, w.newSpec.Schemas) {
		oldSchema, oldOK := w.oldSpec.Schemas[name]
		newSchema, newOK := w.newSpec.Schemas[name]

		w.route = name
		w.path.Reset()
		w.path.Push(name)

		switch {
		case !oldOK:
			w.emit(KindComponentAdded, "", "")
		case !newOK:
			w.emit(KindComponentRemoved, "", "")
		default:
			oldMark, newMark := w.oldSide.stack.Len(), w.newSide.stack.Len()
			w.oldSide.stack.Push(name)
			w.newSide.stack.Push(name)
			w.compareSchema(oldSchema, newSchema, description(oldSchema), description(newSchema))
			w.oldSide.stack.Truncate(oldMark)
			w.newSide.stack.Truncate(newMark)
		}
	}
}
