// Package cliutil provides output helpers for the apichangelog CLI.
package cliutil

import (
	"fmt"
	"io"
	"os"

	fcolor "github.com/fatih/color"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/erraggy/apichangelog/differ"
	"github.com/erraggy/apichangelog/internal/issues"
)

var (
	addedColor    = fcolor.New(fcolor.FgGreen)
	removedColor  = fcolor.New(fcolor.FgRed)
	modifiedColor = fcolor.New(fcolor.FgYellow)
	headingColor  = fcolor.New(fcolor.Bold)
	warnColor     = fcolor.New(fcolor.FgYellow)
	errorColor    = fcolor.New(fcolor.FgRed, fcolor.Bold)
)

// Writef writes formatted output to the writer.
// If the write fails, it logs to stderr (useful for debugging).
func Writef(w io.Writer, format string, args ...any) {
	if _, err := fmt.Fprintf(w, format, args...); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "write error: %v\n", err)
	}
}

// Errorf writes an error line prefixed with "✗".
func Errorf(w io.Writer, format string, args ...any) {
	Writef(w, "%s %s\n", errorColor.Sprint("✗"), fmt.Sprintf(format, args...))
}

// Heading writes title in title case, bold when color is enabled.
func Heading(w io.Writer, title string) {
	caser := cases.Title(language.English)
	Writef(w, "%s\n", headingColor.Sprint(caser.String(title)))
}

// SourceColor returns the color used for changes introduced by source.
func SourceColor(source differ.Source) *fcolor.Color {
	switch source {
	case differ.SourceAdded:
		return addedColor
	case differ.SourceRemoved:
		return removedColor
	default:
		return modifiedColor
	}
}

// WriteChange writes one indented change line, colored by its source.
func WriteChange(w io.Writer, c differ.Change) {
	Writef(w, "  %s\n", SourceColor(c.Source).Sprint(c.String()))
}

// WriteIssue writes one indented diagnostic line.
func WriteIssue(w io.Writer, i issues.Issue) {
	Writef(w, "  %s\n", warnColor.Sprint(i.String()))
}
