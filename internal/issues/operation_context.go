package issues

import "strings"

// OperationContext identifies the API operation a diagnostic was raised in.
type OperationContext struct {
	// Method is the lowercase HTTP method (get, post, ...)
	Method string
	// Path is the API path pattern (e.g., "/users/{id}")
	Path string
	// OperationID is the operationId if defined (may be empty)
	OperationID string
}

// String returns "(operationId: x, METHOD /path)" style context, or "" when empty.
func (c OperationContext) String() string {
	if c.IsEmpty() {
		return ""
	}
	var parts []string
	if c.OperationID != "" {
		parts = append(parts, "operationId: "+c.OperationID)
	}
	if c.Method != "" || c.Path != "" {
		parts = append(parts, strings.TrimSpace(strings.ToUpper(c.Method)+" "+c.Path))
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// IsEmpty returns true if no context information is set.
func (c OperationContext) IsEmpty() bool {
	return c.Method == "" && c.Path == "" && c.OperationID == ""
}
