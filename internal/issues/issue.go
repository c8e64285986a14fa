// Package issues provides the diagnostic record produced alongside a diff:
// unresolved references and loader warnings that degraded the comparison
// without aborting it.
package issues

import "fmt"

// Kind classifies a diagnostic.
type Kind int

const (
	// KindWarning is a loader warning about a construct that was decoded
	// approximately (for example an unsupported oneOf).
	KindWarning Kind = iota
	// KindDanglingReference is a reference to a component that does not exist.
	KindDanglingReference
	// KindCyclicReference is a reference chain that revisits a component.
	KindCyclicReference
)

// String returns the kind's label.
func (k Kind) String() string {
	switch k {
	case KindWarning:
		return "warning"
	case KindDanglingReference:
		return "dangling-reference"
	case KindCyclicReference:
		return "cyclic-reference"
	default:
		return "unknown"
	}
}

// Issue represents a single diagnostic.
type Issue struct {
	// Kind classifies the issue.
	Kind Kind
	// Side is "old" or "new" when the issue belongs to one document.
	Side string
	// Path is the field path at which the issue was encountered (e.g., "Pet.owner")
	Path string
	// Ref is the reference name involved, if any.
	Ref string
	// Message is a human-readable description of the issue
	Message string
	// OperationContext identifies the operation being compared, when the issue
	// was raised under the paths section. Nil for component issues.
	OperationContext *OperationContext
}

// String returns a formatted string representation of the issue.
func (i Issue) String() string {
	symbol := "⚠"
	if i.Kind == KindWarning {
		symbol = "ℹ"
	}

	location := i.Path
	if i.Side != "" {
		location = i.Side + ":" + location
	}
	if i.OperationContext != nil && !i.OperationContext.IsEmpty() {
		location = fmt.Sprintf("%s %s", location, i.OperationContext.String())
	}

	if i.Ref != "" {
		return fmt.Sprintf("%s %s [%s %s]: %s", symbol, location, i.Kind, i.Ref, i.Message)
	}
	return fmt.Sprintf("%s %s [%s]: %s", symbol, location, i.Kind, i.Message)
}

// IsReference reports whether the issue describes an unresolved reference.
func (i Issue) IsReference() bool {
	return i.Kind == KindDanglingReference || i.Kind == KindCyclicReference
}
