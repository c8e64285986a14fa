package differ

import (
	"fmt"
	"strings"

	"github.com/erraggy/apichangelog/internal/issues"
	"github.com/erraggy/apichangelog/internal/maputil"
	"github.com/erraggy/apichangelog/internal/options"
	"github.com/erraggy/apichangelog/internal/severity"
	"github.com/erraggy/apichangelog/oaserrors"
	"github.com/erraggy/apichangelog/parser"
)

// ReferenceMode selects how two schema references with different names are
// compared.
type ReferenceMode int

const (
	// ReferencesStructural resolves references with different names and
	// compares their targets. A renamed component with an unchanged shape
	// produces no change at its use sites.
	ReferencesStructural ReferenceMode = iota
	// ReferencesNominal compares references by name. A renamed component
	// produces a reference-changed fact at every use site.
	ReferencesNominal
)

// String returns the configuration name of the mode.
func (m ReferenceMode) String() string {
	switch m {
	case ReferencesStructural:
		return "structural"
	case ReferencesNominal:
		return "nominal"
	default:
		return "unknown"
	}
}

// ParseReferenceMode parses "structural" or "nominal" (case-insensitive).
func ParseReferenceMode(s string) (ReferenceMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "structural":
		return ReferencesStructural, nil
	case "nominal":
		return ReferencesNominal, nil
	default:
		return ReferencesStructural, &oaserrors.ConfigError{
			Option:  "references",
			Value:   s,
			Message: "must be structural or nominal",
		}
	}
}

// DiffResult contains the results of comparing two versions of a document
type DiffResult struct {
	// OldVersion is the old document's info.version
	OldVersion string
	// NewVersion is the new document's info.version
	NewVersion string
	// Changes contains all detected changes, paths section first
	Changes []Change
	// Diagnostics lists unresolved references and loader warnings that
	// degraded the comparison
	Diagnostics []issues.Issue
	// AddedCount is the number of changes whose source is "added"
	AddedCount int
	// RemovedCount is the number of changes whose source is "removed"
	RemovedCount int
	// ModifiedCount is the number of changes whose source is "modified"
	ModifiedCount int
}

// HasChanges reports whether any change was detected.
func (r *DiffResult) HasChanges() bool {
	return len(r.Changes) > 0
}

// MaxLevel returns the highest level among the changes, or 0 when there are
// none.
func (r *DiffResult) MaxLevel() severity.Level {
	var top severity.Level
	for _, c := range r.Changes {
		if c.Level > top {
			top = c.Level
		}
	}
	return top
}

func (r *DiffResult) count() {
	r.AddedCount, r.RemovedCount, r.ModifiedCount = 0, 0, 0
	for _, c := range r.Changes {
		switch c.Source {
		case SourceAdded:
			r.AddedCount++
		case SourceRemoved:
			r.RemovedCount++
		default:
			r.ModifiedCount++
		}
	}
}

// Diff maps an old version identifier to the ordered changes from that
// version to one new version.
type Diff map[string][]Change

// Versions returns the old version identifiers in ascending order.
func (d Diff) Versions() []string {
	return maputil.SortedKeys(d)
}

// Differ compares specifications
type Differ struct {
	// References selects structural or nominal comparison of reference pairs
	// with different names. Default: ReferencesStructural
	References ReferenceMode
	// Logger is the structured logger for diagnostics
	// If nil, logging is disabled (default)
	Logger parser.Logger
}

// New creates a new Differ instance with default settings
func New() *Differ {
	return &Differ{References: ReferencesStructural}
}

func (d *Differ) log() parser.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return parser.NopLogger{}
}

// Diff compares oldSpec to newSpec and returns the ordered changes.
// Neither specification is modified. Both must be non-nil.
func (d *Differ) Diff(oldSpec, newSpec *parser.Specification) *DiffResult {
	if oldSpec == nil || newSpec == nil {
		panic("differ: Diff requires two non-nil specifications")
	}

	w := newWalker(d, oldSpec, newSpec)
	defer w.release()
	w.diffPaths()
	pathFacts := w.take()
	w.diffComponents()
	componentFacts := w.take()

	result := &DiffResult{
		OldVersion:  oldSpec.Info.Version,
		NewVersion:  newSpec.Info.Version,
		Changes:     aggregate(pathFacts, componentFacts),
		Diagnostics: w.diagnostics,
	}
	result.count()

	d.log().Debug("diff complete",
		"old", result.OldVersion,
		"new", result.NewVersion,
		"changes", len(result.Changes),
		"diagnostics", len(result.Diagnostics))
	return result
}

// Compare is a convenience function that diffs oldSpec against newSpec with
// default settings and returns only the changes.
func Compare(oldSpec, newSpec *parser.Specification) []Change {
	return New().Diff(oldSpec, newSpec).Changes
}

// Option is a function that configures a diff operation
type Option func(*diffConfig) error

// diffConfig holds configuration for a diff operation
type diffConfig struct {
	// Input sources (exactly one old and one new must be set)
	oldFilePath *string
	oldSpec     *parser.Specification
	newFilePath *string
	newSpec     *parser.Specification

	references ReferenceMode
	logger     parser.Logger
	strict     bool
	userAgent  string
}

// DiffWithOptions compares two documents using functional options.
//
// Example:
//
//	result, err := differ.DiffWithOptions(
//	    differ.WithOldFilePath("api-v1.yaml"),
//	    differ.WithNewFilePath("api-v2.yaml"),
//	    differ.WithReferenceMode(differ.ReferencesNominal),
//	)
func DiffWithOptions(opts ...Option) (*DiffResult, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("differ: invalid options: %w", err)
	}

	d := &Differ{
		References: cfg.references,
		Logger:     cfg.logger,
	}

	var warnings []issues.Issue
	load := func(side string, path *string, spec *parser.Specification) (*parser.Specification, error) {
		if spec != nil {
			return spec, nil
		}
		p := parser.New()
		p.Strict = cfg.strict
		p.Logger = cfg.logger
		if cfg.userAgent != "" {
			p.UserAgent = cfg.userAgent
		}
		res, err := p.Parse(*path)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s document: %w", side, err)
		}
		for _, w := range res.Warnings {
			warnings = append(warnings, issues.Issue{Kind: issues.KindWarning, Side: side, Path: res.SourcePath, Message: w})
		}
		return res.Spec, nil
	}

	oldSpec, err := load("old", cfg.oldFilePath, cfg.oldSpec)
	if err != nil {
		return nil, err
	}
	newSpec, err := load("new", cfg.newFilePath, cfg.newSpec)
	if err != nil {
		return nil, err
	}

	result := d.Diff(oldSpec, newSpec)
	if len(warnings) > 0 {
		result.Diagnostics = append(warnings, result.Diagnostics...)
	}
	return result, nil
}

// applyOptions applies option functions and validates configuration
func applyOptions(opts ...Option) (*diffConfig, error) {
	cfg := &diffConfig{
		references: ReferencesStructural,
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if err := options.ValidateSingleInputSource(
		"old",
		"WithOldFilePath or WithOldSpec",
		cfg.oldFilePath != nil, cfg.oldSpec != nil,
	); err != nil {
		return nil, err
	}
	if err := options.ValidateSingleInputSource(
		"new",
		"WithNewFilePath or WithNewSpec",
		cfg.newFilePath != nil, cfg.newSpec != nil,
	); err != nil {
		return nil, err
	}

	return cfg, nil
}

// WithOldFilePath specifies a file path or URL as the old document
func WithOldFilePath(path string) Option {
	return func(cfg *diffConfig) error {
		cfg.oldFilePath = &path
		return nil
	}
}

// WithOldSpec specifies an already decoded old document
func WithOldSpec(spec *parser.Specification) Option {
	return func(cfg *diffConfig) error {
		if spec == nil {
			return fmt.Errorf("differ: old specification cannot be nil")
		}
		cfg.oldSpec = spec
		return nil
	}
}

// WithNewFilePath specifies a file path or URL as the new document
func WithNewFilePath(path string) Option {
	return func(cfg *diffConfig) error {
		cfg.newFilePath = &path
		return nil
	}
}

// WithNewSpec specifies an already decoded new document
func WithNewSpec(spec *parser.Specification) Option {
	return func(cfg *diffConfig) error {
		if spec == nil {
			return fmt.Errorf("differ: new specification cannot be nil")
		}
		cfg.newSpec = spec
		return nil
	}
}

// WithReferenceMode sets how reference pairs with different names compare
// Default: ReferencesStructural
func WithReferenceMode(mode ReferenceMode) Option {
	return func(cfg *diffConfig) error {
		if mode != ReferencesStructural && mode != ReferencesNominal {
			return &oaserrors.ConfigError{
				Option:  "references",
				Value:   mode,
				Message: "unknown reference mode",
			}
		}
		cfg.references = mode
		return nil
	}
}

// WithLogger sets the structured logger used by the parser and the differ
func WithLogger(l parser.Logger) Option {
	return func(cfg *diffConfig) error {
		cfg.logger = l
		return nil
	}
}

// WithStrict loads file inputs through kin-openapi with validation
// Default: false
func WithStrict(enabled bool) Option {
	return func(cfg *diffConfig) error {
		cfg.strict = enabled
		return nil
	}
}

// WithUserAgent sets the User-Agent string for HTTP requests
// Default: "" (uses parser default)
func WithUserAgent(ua string) Option {
	return func(cfg *diffConfig) error {
		cfg.userAgent = ua
		return nil
	}
}
