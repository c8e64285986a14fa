// Package pathutil provides field-path building and reference helpers used
// while comparing two OpenAPI documents.
//
// The primary type is [PathBuilder], which uses push/pop semantics to build
// field paths incrementally without allocating intermediate strings. The
// comparator pushes a segment per property it descends into and only
// materializes the path when it records a change:
//
//	path, release := pathutil.Acquire()
//	defer release()
//
//	path.Push("User")
//	path.Push("tags")
//	path.PushItems()      // "User.tags[]"
//	path.Push("name")     // "User.tags[].name"
//
// # Reference Helpers
//
// [SchemaName] extracts a component name from a local schema reference:
//
//	name, ok := pathutil.SchemaName("#/components/schemas/Pet") // "Pet", true
//	name, ok = pathutil.SchemaName("#/definitions/Pet")          // "Pet", true
//
// # Output Path Sanitization
//
// [SanitizeOutputPath] validates and cleans output file paths for security.
// It rejects symlinks.
package pathutil
