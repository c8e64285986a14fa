package mcpserver

import (
	"context"
	"fmt"
	"strconv"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/apichangelog/differ"
	"github.com/erraggy/apichangelog/internal/issues"
	"github.com/erraggy/apichangelog/internal/severity"
)

type diffInput struct {
	Old         specInput `json:"old"                    jsonschema:"The older OpenAPI document"`
	New         specInput `json:"new"                    jsonschema:"The newer OpenAPI document to compare against old"`
	NominalRefs bool      `json:"nominal_refs,omitempty" jsonschema:"Compare references with different names by name instead of by target shape"`
	Strict      bool      `json:"strict,omitempty"       jsonschema:"Load both documents through the strict OpenAPI 3 loader"`
	MinLevel    string    `json:"min_level,omitempty"    jsonschema:"Only report changes at or above this level: text, minor, required, type, member, shape, endpoint"`
	Offset      int       `json:"offset,omitempty"       jsonschema:"Skip the first N changes"`
	Limit       int       `json:"limit,omitempty"        jsonschema:"Maximum number of changes to return"`
}

// changeOutput is one change as returned to MCP clients.
type changeOutput struct {
	ID          string `json:"id"`
	Level       string `json:"level"`
	Section     string `json:"section"`
	Operation   string `json:"operation,omitempty"`
	Path        string `json:"path"`
	OperationID string `json:"operation_id,omitempty"`
	Source      string `json:"source"`
	Kind        string `json:"kind"`
	FieldPath   string `json:"field_path,omitempty"`
	Text        string `json:"text"`
}

type diagnosticOutput struct {
	Kind    string `json:"kind"`
	Side    string `json:"side,omitempty"`
	Path    string `json:"path,omitempty"`
	Message string `json:"message"`
}

type diffOutput struct {
	OldVersion    string             `json:"old_version"`
	NewVersion    string             `json:"new_version"`
	TotalChanges  int                `json:"total_changes"`
	AddedCount    int                `json:"added_count"`
	RemovedCount  int                `json:"removed_count"`
	ModifiedCount int                `json:"modified_count"`
	MaxLevel      string             `json:"max_level,omitempty"`
	Returned      int                `json:"returned"`
	Changes       []changeOutput     `json:"changes,omitempty"`
	Diagnostics   []diagnosticOutput `json:"diagnostics,omitempty"`
	Summary       string             `json:"summary"`
}

func handleDiff(_ context.Context, _ *mcp.CallToolRequest, input diffInput) (*mcp.CallToolResult, diffOutput, error) {
	minLevel, err := parseMinLevel(input.MinLevel)
	if err != nil {
		return errResult(err), diffOutput{}, nil
	}

	strict := input.Strict || cfg.Strict
	oldResult, err := input.Old.resolve(strict)
	if err != nil {
		return errResult(fmt.Errorf("old: %w", err)), diffOutput{}, nil
	}
	newResult, err := input.New.resolve(strict)
	if err != nil {
		return errResult(fmt.Errorf("new: %w", err)), diffOutput{}, nil
	}

	mode := cfg.References
	if input.NominalRefs {
		mode = differ.ReferencesNominal
	}
	result, err := differ.DiffWithOptions(
		differ.WithOldSpec(oldResult.Spec),
		differ.WithNewSpec(newResult.Spec),
		differ.WithReferenceMode(mode),
	)
	if err != nil {
		return errResult(err), diffOutput{}, nil
	}

	changes := filterLevel(result.Changes, minLevel)
	output := diffOutput{
		OldVersion:    result.OldVersion,
		NewVersion:    result.NewVersion,
		TotalChanges:  len(changes),
		AddedCount:    result.AddedCount,
		RemovedCount:  result.RemovedCount,
		ModifiedCount: result.ModifiedCount,
		Diagnostics:   diagnosticsOutput(result.Diagnostics),
	}
	if result.HasChanges() {
		output.MaxLevel = result.MaxLevel().String()
	}
	output.Changes = changesOutput(paginate(changes, input.Offset, input.Limit))
	output.Returned = len(output.Changes)
	output.Summary = buildDiffSummary(output)

	return nil, output, nil
}

// parseMinLevel returns 0 for an empty level, which keeps every change.
func parseMinLevel(s string) (severity.Level, error) {
	if s == "" {
		return 0, nil
	}
	level, ok := severity.ParseLevel(s)
	if !ok {
		return 0, fmt.Errorf("invalid min_level %q; valid values: text, minor, required, type, member, shape, endpoint", s)
	}
	return level, nil
}

func filterLevel(changes []differ.Change, minLevel severity.Level) []differ.Change {
	if minLevel == 0 {
		return changes
	}
	out := makeSlice[differ.Change](len(changes))
	for _, c := range changes {
		if c.Level >= minLevel {
			out = append(out, c)
		}
	}
	return out
}

func changesOutput(changes []differ.Change) []changeOutput {
	out := makeSlice[changeOutput](len(changes))
	for _, c := range changes {
		out = append(out, changeOutput{
			ID:          c.ID,
			Level:       c.Level.String(),
			Section:     string(c.Section),
			Operation:   c.Operation,
			Path:        c.Path,
			OperationID: c.OperationID,
			Source:      string(c.Source),
			Kind:        string(c.Kind),
			FieldPath:   c.FieldPath,
			Text:        c.Text,
		})
	}
	return out
}

func diagnosticsOutput(diags []issues.Issue) []diagnosticOutput {
	out := makeSlice[diagnosticOutput](len(diags))
	for _, d := range diags {
		out = append(out, diagnosticOutput{
			Kind:    d.Kind.String(),
			Side:    d.Side,
			Path:    d.Path,
			Message: d.Message,
		})
	}
	return out
}

func buildDiffSummary(output diffOutput) string {
	if output.TotalChanges == 0 {
		return "No changes detected."
	}

	summary := formatCount(output.TotalChanges, "change") + " found"
	if output.MaxLevel != "" {
		summary += " (highest level: " + output.MaxLevel + ")"
	}
	summary += "."
	if output.Returned < output.TotalChanges {
		summary += " Showing " + strconv.Itoa(output.Returned) + "; use offset/limit to page."
	}
	return summary
}

func formatCount(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return strconv.Itoa(n) + " " + noun + "s"
}
