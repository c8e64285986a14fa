// Package severity provides the ordinal levels attached to detected changes.
//
// A level ranks how structurally significant a change is. Higher levels are
// more significant:
//
//	Text < Minor < Required < Type < Member < Shape < Endpoint
//
// Levels are not a compatibility verdict. A removed property and an added
// property share LevelMember even though only one of them may break clients.
package severity

// Level indicates how structurally significant a change is.
type Level int

const (
	// LevelText marks prose-only changes (description, summary).
	LevelText Level = iota + 1

	// LevelMinor marks metadata changes that do not alter the data shape:
	// format, enum values, operationId, deprecation.
	LevelMinor

	// LevelRequired marks a change in requiredness of a property,
	// parameter, or request body.
	LevelRequired

	// LevelType marks a primitive type change or a change of reference target
	// that could not be compared structurally.
	LevelType

	// LevelMember marks a property, parameter, request body, response, or
	// body schema that was added or removed.
	LevelMember

	// LevelShape marks a change of structural kind (object to array, etc.).
	LevelShape

	// LevelEndpoint marks an operation or component schema that was added
	// or removed.
	LevelEndpoint
)

// String returns the string representation of the level.
func (l Level) String() string {
	switch l {
	case LevelText:
		return "text"
	case LevelMinor:
		return "minor"
	case LevelRequired:
		return "required"
	case LevelType:
		return "type"
	case LevelMember:
		return "member"
	case LevelShape:
		return "shape"
	case LevelEndpoint:
		return "endpoint"
	default:
		return "unknown"
	}
}

// IsValid reports whether l is one of the defined levels.
func (l Level) IsValid() bool {
	return l >= LevelText && l <= LevelEndpoint
}

// ParseLevel returns the level named s, as produced by String.
func ParseLevel(s string) (Level, bool) {
	for l := LevelText; l <= LevelEndpoint; l++ {
		if l.String() == s {
			return l, true
		}
	}
	return 0, false
}
