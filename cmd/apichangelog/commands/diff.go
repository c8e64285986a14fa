package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	apichangelog "github.com/erraggy/apichangelog"
	"github.com/erraggy/apichangelog/differ"
	"github.com/erraggy/apichangelog/internal/cliutil"
	"github.com/erraggy/apichangelog/internal/issues"
	"github.com/erraggy/apichangelog/internal/severity"
)

const diffLong = `Compare two versions of an OpenAPI document and list the changes from
<old> to <new>. Either argument may be a file path or an http(s) URL.

Changes under paths are listed first, then changes to component schemas.
Unresolved and cyclic references do not abort the comparison; they are
reported as diagnostics.

Exits 1 when changes are found (after --min-level filtering), 0 otherwise.`

// DiffReport is the structured (json/yaml) form of a diff.
type DiffReport struct {
	OldVersion    string          `json:"oldVersion" yaml:"oldVersion"`
	NewVersion    string          `json:"newVersion" yaml:"newVersion"`
	MaxLevel      string          `json:"maxLevel,omitempty" yaml:"maxLevel,omitempty"`
	AddedCount    int             `json:"addedCount" yaml:"addedCount"`
	RemovedCount  int             `json:"removedCount" yaml:"removedCount"`
	ModifiedCount int             `json:"modifiedCount" yaml:"modifiedCount"`
	Changes       []differ.Change `json:"changes" yaml:"changes"`
	Diagnostics   []Diagnostic    `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
}

// Diagnostic is the structured form of an issues.Issue.
type Diagnostic struct {
	Kind    string `json:"kind" yaml:"kind"`
	Side    string `json:"side,omitempty" yaml:"side,omitempty"`
	Path    string `json:"path" yaml:"path"`
	Ref     string `json:"ref,omitempty" yaml:"ref,omitempty"`
	Message string `json:"message" yaml:"message"`
}

// NewDiffCmd creates the diff command.
func NewDiffCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "diff <old> <new>",
		Short:        "Compare two versions of an OpenAPI document",
		Long:         diffLong,
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			return runDiff(cmd, v, args[0], args[1])
		},
	}

	cmd.Flags().StringP(flagFormat, "f", FormatText, "output format: text, json, or yaml")
	cmd.Flags().String(flagMinLevel, "", "only report changes at or above this level (text, minor, required, type, member, shape, endpoint)")
	addComparisonFlags(cmd)

	return cmd
}

func runDiff(cmd *cobra.Command, v *viper.Viper, oldPath, newPath string) error {
	format := v.GetString(flagFormat)
	if err := ValidateOutputFormat(format); err != nil {
		return err
	}
	minLevel, err := parseMinLevel(v.GetString(flagMinLevel))
	if err != nil {
		return err
	}

	result, err := differ.DiffWithOptions(
		differ.WithOldFilePath(oldPath),
		differ.WithNewFilePath(newPath),
		differ.WithReferenceMode(referenceMode(v)),
		differ.WithStrict(v.GetBool(flagStrict)),
		differ.WithLogger(newLogger(cmd, v)),
		differ.WithUserAgent(apichangelog.UserAgent()),
	)
	if err != nil {
		return fmt.Errorf("diff: %w", err)
	}
	result.Changes = filterLevel(result.Changes, minLevel)

	report := newDiffReport(result)
	out := cmd.OutOrStdout()
	if format == FormatText {
		writeDiffText(out, oldPath, newPath, result, report)
	} else if err := OutputStructured(out, report, format); err != nil {
		return err
	}

	if len(report.Changes) > 0 {
		return ErrChangesFound
	}
	return nil
}

func parseMinLevel(s string) (severity.Level, error) {
	if s == "" {
		return 0, nil
	}
	level, ok := severity.ParseLevel(s)
	if !ok {
		return 0, fmt.Errorf("invalid min-level '%s'. Valid levels: text, minor, required, type, member, shape, endpoint", s)
	}
	return level, nil
}

func filterLevel(changes []differ.Change, floor severity.Level) []differ.Change {
	if floor == 0 {
		return changes
	}
	kept := make([]differ.Change, 0, len(changes))
	for _, c := range changes {
		if c.Level >= floor {
			kept = append(kept, c)
		}
	}
	return kept
}

func newDiffReport(result *differ.DiffResult) DiffReport {
	report := DiffReport{
		OldVersion: result.OldVersion,
		NewVersion: result.NewVersion,
		Changes:    result.Changes,
	}
	if report.Changes == nil {
		report.Changes = []differ.Change{}
	}
	var top severity.Level
	for _, c := range report.Changes {
		top = max(top, c.Level)
		switch c.Source {
		case differ.SourceAdded:
			report.AddedCount++
		case differ.SourceRemoved:
			report.RemovedCount++
		default:
			report.ModifiedCount++
		}
	}
	if top.IsValid() {
		report.MaxLevel = top.String()
	}
	for _, i := range result.Diagnostics {
		report.Diagnostics = append(report.Diagnostics, newDiagnostic(i))
	}
	return report
}

func newDiagnostic(i issues.Issue) Diagnostic {
	return Diagnostic{
		Kind:    i.Kind.String(),
		Side:    i.Side,
		Path:    i.Path,
		Ref:     i.Ref,
		Message: i.Message,
	}
}

func writeDiffText(w io.Writer, oldPath, newPath string, result *differ.DiffResult, report DiffReport) {
	cliutil.Writef(w, "Old: %s (version %s)\n", oldPath, result.OldVersion)
	cliutil.Writef(w, "New: %s (version %s)\n", newPath, result.NewVersion)

	var section differ.Section
	for _, c := range report.Changes {
		if c.Section != section {
			section = c.Section
			cliutil.Writef(w, "\n")
			cliutil.Heading(w, string(section))
		}
		cliutil.WriteChange(w, c)
	}

	if len(result.Diagnostics) > 0 {
		cliutil.Writef(w, "\n")
		cliutil.Heading(w, fmt.Sprintf("diagnostics (%d)", len(result.Diagnostics)))
		for _, i := range result.Diagnostics {
			cliutil.WriteIssue(w, i)
		}
	}

	cliutil.Writef(w, "\n")
	if len(report.Changes) == 0 {
		cliutil.Writef(w, "No changes detected.\n")
		return
	}
	cliutil.Writef(w, "%d change(s): %d added, %d removed, %d modified (highest level: %s)\n",
		len(report.Changes), report.AddedCount, report.RemovedCount, report.ModifiedCount, report.MaxLevel)
}
