package differ

import (
	"fmt"
	"strings"
)

// text renders the human-readable form of a fact. Paths-section texts end
// with the operation they belong to.
func (f fact) text() string {
	where := f.fieldPath
	switch f.kind {
	case KindOperationAdded:
		return "added operation " + f.operationLabel()
	case KindOperationRemoved:
		return "removed operation " + f.operationLabel()
	case KindComponentAdded:
		return "added schema " + f.path
	case KindComponentRemoved:
		return "removed schema " + f.path
	case KindDeprecatedChanged:
		if f.newValue == "true" {
			return "deprecated operation " + f.operationLabel()
		}
		return "removed deprecation of operation " + f.operationLabel()
	case KindSummaryChanged:
		return "changed summary of " + f.operationLabel()
	case KindOperationIDChanged:
		return fmt.Sprintf("changed operationId of %s from %s to %s",
			f.operationLabel(), quote(f.oldValue), quote(f.newValue))
	case KindDescriptionChanged:
		if f.section == SectionPaths && where == "description" {
			return "changed description of " + f.operationLabel()
		}
	}

	var msg string
	switch f.kind {
	case KindPropertyAdded:
		msg = "added property " + where
	case KindPropertyRemoved:
		msg = "removed property " + where
	case KindParameterAdded:
		msg = "added " + parameterLabel(where)
	case KindParameterRemoved:
		msg = "removed " + parameterLabel(where)
	case KindRequestBodyAdded:
		msg = "added request body"
	case KindRequestBodyRemoved:
		msg = "removed request body"
	case KindResponseAdded:
		msg = "added response " + strings.TrimPrefix(where, "responses.")
	case KindResponseRemoved:
		msg = "removed response " + strings.TrimPrefix(where, "responses.")
	case KindSchemaAdded:
		msg = "added schema to " + where
	case KindSchemaRemoved:
		msg = "removed schema from " + where
	case KindShapeChanged:
		msg = fmt.Sprintf("changed %s from %s to %s", where, quote(f.oldValue), quote(f.newValue))
	case KindTypeChanged:
		msg = fmt.Sprintf("changed type of %s from %s to %s", where, quote(f.oldValue), quote(f.newValue))
	case KindReferenceChanged:
		msg = fmt.Sprintf("changed reference of %s from %s to %s", where, quote(f.oldValue), quote(f.newValue))
	case KindRequiredAdded:
		msg = "made " + where + " required"
	case KindRequiredRemoved:
		msg = "made " + where + " optional"
	case KindFormatChanged:
		switch {
		case f.oldValue == "":
			msg = fmt.Sprintf("added format %s to %s", quote(f.newValue), where)
		case f.newValue == "":
			msg = fmt.Sprintf("removed format %s from %s", quote(f.oldValue), where)
		default:
			msg = fmt.Sprintf("changed format of %s from %s to %s", where, quote(f.oldValue), quote(f.newValue))
		}
	case KindEnumChanged:
		msg = "changed enum of " + where + enumDelta(f.newValue, f.oldValue)
	case KindDescriptionChanged:
		msg = "changed description of " + where
	default:
		msg = fmt.Sprintf("%s at %s", f.kind, where)
	}

	if f.section == SectionPaths {
		msg += " in " + f.operationLabel()
	}
	return msg
}

// operationLabel returns "POST /users" style labels.
func (f fact) operationLabel() string {
	return strings.ToUpper(f.operation) + " " + f.path
}

// parameterLabel renders "parameters.query.limit" as "query parameter 'limit'".
func parameterLabel(fieldPath string) string {
	key := strings.TrimPrefix(fieldPath, "parameters.")
	in, name, ok := strings.Cut(key, ".")
	if !ok {
		return "parameter " + quote(key)
	}
	return in + " parameter " + quote(name)
}

// enumDelta renders the added and removed values of an enum change. Values
// are stored newline-separated on the fact.
func enumDelta(added, removed string) string {
	var parts []string
	if added != "" {
		parts = append(parts, "added "+quoteList(added))
	}
	if removed != "" {
		parts = append(parts, "removed "+quoteList(removed))
	}
	if len(parts) == 0 {
		return ""
	}
	return ": " + strings.Join(parts, "; ")
}

func quoteList(values string) string {
	list := strings.Split(values, "\n")
	for i, v := range list {
		list[i] = quote(v)
	}
	return strings.Join(list, ", ")
}

func quote(s string) string {
	return "'" + s + "'"
}
