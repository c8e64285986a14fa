// Package apichangelog computes semantic changelogs between versions of
// OpenAPI Specification documents.
//
// Given two versions of an API description, it produces an ordered list of
// meaningful changes: endpoints and operations added or removed, parameters,
// request and response schemas, and reusable component schemas. Each change
// carries a stable id, a severity level, and a generated description.
//
// # Overview
//
// The module consists of the following packages:
//
//   - parser: Decode OAS 2.0 and 3.x documents into the comparison model
//   - differ: Compare two parsed documents and produce changes
//   - catalog: Diff every pair of versions of many APIs and persist the result
//   - history: Collect document versions from a git repository's history
//   - oaserrors: Error types shared by the packages above
//
// # Quick Start
//
//	oldRes, _ := parser.ParseFile("v1.yaml")
//	newRes, _ := parser.ParseFile("v2.yaml")
//	result := differ.New().Diff(oldRes.Spec, newRes.Spec)
//	for _, c := range result.Changes {
//		fmt.Println(c.Text)
//	}
//
// The apichangelog command wraps these packages; see cmd/apichangelog.
package apichangelog
