package cliutil

import (
	"bytes"
	"testing"

	fcolor "github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"github.com/erraggy/apichangelog/differ"
	"github.com/erraggy/apichangelog/internal/issues"
	"github.com/erraggy/apichangelog/internal/severity"
)

// disableColor turns off escape codes for the duration of the test.
func disableColor(t *testing.T) {
	t.Helper()
	saved := fcolor.NoColor
	fcolor.NoColor = true
	t.Cleanup(func() { fcolor.NoColor = saved })
}

func TestWritef(t *testing.T) {
	tests := []struct {
		name   string
		format string
		args   []any
		want   string
	}{
		{"with arg", "Hello, %s!", []any{"World"}, "Hello, World!"},
		{"no args", "Simple message", nil, "Simple message"},
		{"multiple args", "%s: %d items, %v active", []any{"Status", 42, true}, "Status: 42 items, true active"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Writef(&buf, tt.format, tt.args...)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

// errorWriter is a writer that always returns an error
type errorWriter struct{}

func (errorWriter) Write([]byte) (int, error) {
	return 0, assert.AnError
}

func TestWritef_WriteError(t *testing.T) {
	assert.NotPanics(t, func() { Writef(errorWriter{}, "This will fail") })
}

func TestErrorf(t *testing.T) {
	disableColor(t)
	var buf bytes.Buffer
	Errorf(&buf, "load %s: %v", "a.yaml", "boom")
	assert.Equal(t, "✗ load a.yaml: boom\n", buf.String())
}

func TestHeading(t *testing.T) {
	disableColor(t)
	var buf bytes.Buffer
	Heading(&buf, string(differ.SectionComponents))
	assert.Equal(t, "Components\n", buf.String())
}

func TestWriteChange(t *testing.T) {
	disableColor(t)
	tests := []struct {
		name   string
		change differ.Change
		want   string
	}{
		{
			name:   "added",
			change: differ.Change{Level: severity.LevelEndpoint, Source: differ.SourceAdded, Text: "added operation POST /users"},
			want:   "  + [endpoint] added operation POST /users\n",
		},
		{
			name:   "removed",
			change: differ.Change{Level: severity.LevelMember, Source: differ.SourceRemoved, Text: "removed property name"},
			want:   "  - [member] removed property name\n",
		},
		{
			name:   "modified",
			change: differ.Change{Level: severity.LevelMinor, Source: differ.SourceModified, Text: "format changed"},
			want:   "  ~ [minor] format changed\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			WriteChange(&buf, tt.change)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestSourceColor(t *testing.T) {
	assert.Same(t, addedColor, SourceColor(differ.SourceAdded))
	assert.Same(t, removedColor, SourceColor(differ.SourceRemoved))
	assert.Same(t, modifiedColor, SourceColor(differ.SourceModified))
	assert.Same(t, modifiedColor, SourceColor(""))
}

func TestWriteIssue(t *testing.T) {
	disableColor(t)
	var buf bytes.Buffer
	WriteIssue(&buf, issues.Issue{
		Kind:    issues.KindDanglingReference,
		Side:    "new",
		Path:    "Pet.kind",
		Ref:     "Missing",
		Message: "component not found",
	})
	assert.Equal(t, "  ⚠ new:Pet.kind [dangling-reference Missing]: component not found\n", buf.String())
}
