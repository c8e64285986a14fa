package pathutil

import "strings"

// Local schema reference prefixes.
const (
	// RefPrefixSchemas is the OAS 3.x component schema prefix.
	RefPrefixSchemas = "#/components/schemas/"
	// RefPrefixDefinitions is the OAS 2.0 definitions prefix.
	RefPrefixDefinitions = "#/definitions/"
)

// SchemaRef builds "#/components/schemas/{name}" (OAS 3.x).
func SchemaRef(name string) string {
	return RefPrefixSchemas + name
}

// DefinitionRef builds "#/definitions/{name}" (OAS 2.0).
func DefinitionRef(name string) string {
	return RefPrefixDefinitions + name
}

// SchemaName extracts the component name from a local schema reference.
// JSON Pointer escapes (~1, ~0) in the name are decoded. Returns false for
// external references and references into other component sections.
func SchemaName(ref string) (string, bool) {
	var name string
	switch {
	case strings.HasPrefix(ref, RefPrefixSchemas):
		name = ref[len(RefPrefixSchemas):]
	case strings.HasPrefix(ref, RefPrefixDefinitions):
		name = ref[len(RefPrefixDefinitions):]
	default:
		return "", false
	}
	if name == "" || strings.Contains(name, "/") {
		return "", false
	}
	name = strings.ReplaceAll(name, "~1", "/")
	name = strings.ReplaceAll(name, "~0", "~")
	return name, true
}
