// Package oaserrors provides structured error types for the apichangelog library.
//
// Import path: github.com/erraggy/apichangelog/oaserrors
//
// This package enables programmatic error handling via [errors.Is] and [errors.As],
// allowing callers to distinguish between different categories of errors.
//
// # Error Types
//
//   - [ParseError]: YAML/JSON decoding failures and structural issues
//   - [ReferenceError]: schema reference resolution failures (dangling or cyclic)
//   - [ConfigError]: invalid configuration or input options
//
// # Sentinel Errors
//
//   - [ErrParse]: Matches any [ParseError]
//   - [ErrReference]: Matches any [ReferenceError]
//   - [ErrDanglingReference]: Matches [ReferenceError] with IsCyclic=false
//   - [ErrCyclicReference]: Matches [ReferenceError] with IsCyclic=true
//   - [ErrConfig]: Matches any [ConfigError]
//
// # Reference errors during a diff
//
// The differ never returns reference errors to its caller. A dangling or cyclic
// reference degrades the comparison of that node to a comparison by reference
// name, and the error is recorded as a diagnostic on the result:
//
//	result := differ.New().Diff(oldSpec, newSpec)
//	for _, d := range result.Diagnostics {
//	    fmt.Println(d)
//	}
//
// The resolver itself does return them:
//
//	_, err := parser.NewResolver(spec).Resolve("Pet", nil)
//	if errors.Is(err, oaserrors.ErrCyclicReference) {
//	    // compare nominally
//	}
package oaserrors
