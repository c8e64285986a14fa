/*
Package differ compares two versions of an OpenAPI document and reports the
semantically meaningful changes between them.

# Overview

The differ walks two decoded documents ([parser.Specification]) side by side:
path templates and their operations first, then component schemas. Every
difference it finds becomes one [Change] record with a stable identifier, a
level, and a generated text. The comparison is pure: it never modifies its
inputs, starts no goroutines, and keeps no state between calls, so one
[Differ] may be shared across goroutines.

# Usage

	result := differ.New().Diff(oldSpec, newSpec)
	for _, c := range result.Changes {
		fmt.Println(c)
	}

Or with functional options, parsing the inputs as well:

	result, err := differ.DiffWithOptions(
		differ.WithOldFilePath("api-v1.yaml"),
		differ.WithNewFilePath("api-v2.yaml"),
	)
	if err != nil {
		log.Fatal(err)
	}

# Ordering

Path templates are visited in lexicographic order and methods in
[parser.Methods] order. Within an operation, text and metadata come first,
then parameters (removed, added, matched), the request body, and responses
by status code. Within an object, removed properties come first, then added
properties, then modified properties by name,
then requiredness changes. All paths changes precede all components
changes. The output is identical for identical inputs.

# Levels

Each change carries a level. From highest to lowest: operation or
component added/removed, shape change, member added/removed, type or
reference change, requiredness change, format/enum/metadata change, and
description text change.

# References

References with the same name on both sides are equal at the use site; a
change inside the referenced component is reported once, under the
components section. With [ReferencesStructural] (the default) references
with different names are resolved and their targets compared, so renaming a
component without changing its shape produces only the component-removed
and component-added changes. [ReferencesNominal] reports a reference-changed
fact instead.

A dangling or cyclic reference never aborts the diff. The pair is compared
by name and the failure is recorded in [DiffResult.Diagnostics].
*/
package differ
