package differ

import (
	"fmt"
	"strings"

	"github.com/erraggy/apichangelog/internal/severity"
)

// Section identifies which part of the document a change belongs to.
type Section string

const (
	// SectionPaths holds changes under paths and their operations.
	SectionPaths Section = "paths"
	// SectionComponents holds changes to component schemas.
	SectionComponents Section = "components"
)

// Source indicates which side of the comparison introduced a change.
type Source string

const (
	// SourceAdded indicates the element exists only in the new document.
	SourceAdded Source = "added"
	// SourceRemoved indicates the element exists only in the old document.
	SourceRemoved Source = "removed"
	// SourceModified indicates the element exists on both sides and differs.
	SourceModified Source = "modified"
)

// Kind names the detected fact. The kind determines the change's level and
// source.
type Kind string

// Kinds reported by the comparator. Added and removed kinds carry their side
// as the change source; every other kind is a modification.
const (
	KindOperationAdded     Kind = "operation-added"
	KindOperationRemoved   Kind = "operation-removed"
	KindComponentAdded     Kind = "component-added"
	KindComponentRemoved   Kind = "component-removed"
	KindShapeChanged       Kind = "shape-changed"
	KindPropertyAdded      Kind = "property-added"
	KindPropertyRemoved    Kind = "property-removed"
	KindParameterAdded     Kind = "parameter-added"
	KindParameterRemoved   Kind = "parameter-removed"
	KindRequestBodyAdded   Kind = "request-body-added"
	KindRequestBodyRemoved Kind = "request-body-removed"
	KindResponseAdded      Kind = "response-added"
	KindResponseRemoved    Kind = "response-removed"
	KindSchemaAdded        Kind = "schema-added"
	KindSchemaRemoved      Kind = "schema-removed"
	KindTypeChanged        Kind = "type-changed"
	KindReferenceChanged   Kind = "reference-changed"
	KindRequiredAdded      Kind = "required-added"
	KindRequiredRemoved    Kind = "required-removed"
	KindFormatChanged      Kind = "format-changed"
	KindEnumChanged        Kind = "enum-changed"
	KindOperationIDChanged Kind = "operation-id-changed"
	KindDeprecatedChanged  Kind = "deprecated-changed"
	KindSummaryChanged     Kind = "summary-changed"
	KindDescriptionChanged Kind = "description-changed"
)

type kindInfo struct {
	level  severity.Level
	source Source
}

var kinds = map[Kind]kindInfo{
	KindOperationAdded:     {severity.LevelEndpoint, SourceAdded},
	KindOperationRemoved:   {severity.LevelEndpoint, SourceRemoved},
	KindComponentAdded:     {severity.LevelEndpoint, SourceAdded},
	KindComponentRemoved:   {severity.LevelEndpoint, SourceRemoved},
	KindShapeChanged:       {severity.LevelShape, SourceModified},
	KindPropertyAdded:      {severity.LevelMember, SourceAdded},
	KindPropertyRemoved:    {severity.LevelMember, SourceRemoved},
	KindParameterAdded:     {severity.LevelMember, SourceAdded},
	KindParameterRemoved:   {severity.LevelMember, SourceRemoved},
	KindRequestBodyAdded:   {severity.LevelMember, SourceAdded},
	KindRequestBodyRemoved: {severity.LevelMember, SourceRemoved},
	KindResponseAdded:      {severity.LevelMember, SourceAdded},
	KindResponseRemoved:    {severity.LevelMember, SourceRemoved},
	KindSchemaAdded:        {severity.LevelMember, SourceAdded},
	KindSchemaRemoved:      {severity.LevelMember, SourceRemoved},
	KindTypeChanged:        {severity.LevelType, SourceModified},
	KindReferenceChanged:   {severity.LevelType, SourceModified},
	KindRequiredAdded:      {severity.LevelRequired, SourceModified},
	KindRequiredRemoved:    {severity.LevelRequired, SourceModified},
	KindFormatChanged:      {severity.LevelMinor, SourceModified},
	KindEnumChanged:        {severity.LevelMinor, SourceModified},
	KindOperationIDChanged: {severity.LevelMinor, SourceModified},
	KindDeprecatedChanged:  {severity.LevelMinor, SourceModified},
	KindSummaryChanged:     {severity.LevelText, SourceModified},
	KindDescriptionChanged: {severity.LevelText, SourceModified},
}

// Level returns the significance of the kind. Unknown kinds rank lowest.
func (k Kind) Level() severity.Level {
	if info, ok := kinds[k]; ok {
		return info.level
	}
	return severity.LevelText
}

// Source returns the side of the comparison that introduces the kind.
func (k Kind) Source() Source {
	if info, ok := kinds[k]; ok {
		return info.source
	}
	return SourceModified
}

// Change represents a single difference between two versions of a document.
type Change struct {
	// ID is a stable identifier derived from section, path, operation,
	// field path, and kind.
	ID string `json:"id" yaml:"id"`
	// Level ranks how structurally significant the change is.
	Level severity.Level `json:"level" yaml:"level"`
	// Section is "paths" or "components".
	Section Section `json:"section" yaml:"section"`
	// Operation is the lowercase HTTP method, empty for component changes.
	Operation string `json:"operation" yaml:"operation"`
	// Path is the URL template or the component name.
	Path string `json:"path" yaml:"path"`
	// OperationID is carried through from the document when present.
	OperationID string `json:"operationId" yaml:"operationId"`
	// Source indicates which side introduced the change.
	Source Source `json:"source" yaml:"source"`
	// Text is the human-readable rendering of the change.
	Text string `json:"text" yaml:"text"`
	// Kind names the detected fact.
	Kind Kind `json:"kind" yaml:"kind"`
	// FieldPath locates the change below Path (e.g., "requestBody.tags[].name").
	FieldPath string `json:"fieldPath" yaml:"fieldPath"`
}

// String returns a formatted string representation of the change
func (c Change) String() string {
	var symbol string
	switch c.Source {
	case SourceAdded:
		symbol = "+"
	case SourceRemoved:
		symbol = "-"
	default:
		symbol = "~"
	}
	return fmt.Sprintf("%s [%s] %s", symbol, c.Level, c.Text)
}

// ChangeID returns the identifier for a change with the given coordinates.
// It is a pure function of its arguments.
func ChangeID(section Section, path, operation, fieldPath string, kind Kind) string {
	return strings.Join([]string{string(section), path, operation, fieldPath, string(kind)}, ":")
}

// fact is one atomic difference found by the comparator, before it is
// rendered into a Change.
type fact struct {
	section     Section
	path        string
	operation   string
	operationID string
	fieldPath   string
	kind        Kind
	oldValue    string
	newValue    string
}

func (f fact) change() Change {
	return Change{
		ID:          ChangeID(f.section, f.path, f.operation, f.fieldPath, f.kind),
		Level:       f.kind.Level(),
		Section:     f.section,
		Operation:   f.operation,
		Path:        f.path,
		OperationID: f.operationID,
		Source:      f.kind.Source(),
		Text:        f.text(),
		Kind:        f.kind,
		FieldPath:   f.fieldPath,
	}
}

// aggregate renders facts into changes, paths section first.
func aggregate(pathFacts, componentFacts []fact) []Change {
	changes := make([]Change, 0, len(pathFacts)+len(componentFacts))
	for _, f := range pathFacts {
		changes = append(changes, f.change())
	}
	for _, f := range componentFacts {
		changes = append(changes, f.change())
	}
	return changes
}
