// Package parser decodes OpenAPI Specification documents into the model the
// differ compares.
//
// The parser reads OAS 2.0 and OAS 3.x documents in YAML or JSON, from files,
// readers, byte slices, or URLs (http:// or https://). It keeps only what
// matters for change detection: paths and their operations, parameters,
// request bodies, responses, and component schemas. Property order is
// preserved from the source document.
//
// # Quick Start
//
//	result, err := parser.ParseFile("openapi.yaml")
//	if err != nil {
//		log.Fatal(err)
//	}
//	for _, w := range result.Warnings {
//		fmt.Println("warning:", w)
//	}
//	spec := result.Spec
//
// Or with functional options:
//
//	result, err := parser.ParseWithOptions(
//		parser.WithFilePath("https://example.com/api/openapi.yaml"),
//		parser.WithStrict(true),
//	)
//
// # Schema Model
//
// A [Schema] holds a description and a [Shape]. Shape is a closed set of
// variants: [Primitive], [Array], [Object], [Composition] (allOf), and
// [Reference]. Constructs the differ does not compare (oneOf, anyOf, not)
// decode to an untyped primitive and produce a warning.
//
// # References
//
// Schema references stay unresolved in the model. [Resolver] looks them up
// lazily, one name at a time, against the document's component table and
// reports dangling and cyclic chains as *oaserrors.ReferenceError. The
// caller owns the [ResolutionStack] for its walk.
//
// # Strict Loading
//
// [LoadStrict] and the Strict option load documents through kin-openapi,
// validate them, and convert with [FromOpenAPI3]. Swagger 2.0 documents are
// upgraded to OAS 3 during strict loading.
package parser
