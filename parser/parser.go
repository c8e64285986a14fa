package parser

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/erraggy/apichangelog"
	"github.com/erraggy/apichangelog/oaserrors"
	"go.yaml.in/yaml/v4"
)

// Parser decodes OpenAPI documents into the comparison model.
type Parser struct {
	// UserAgent is the User-Agent string used when fetching URLs
	// Defaults to "apichangelog/<version>" if not set
	UserAgent string
	// HTTPClient is the HTTP client used for fetching URLs.
	// If nil, a default client with 30-second timeout is created.
	HTTPClient *http.Client
	// Strict loads documents through kin-openapi and rejects documents that
	// fail its validation before they reach the model.
	Strict bool
	// Logger is the structured logger for debug output
	// If nil, logging is disabled (default)
	Logger Logger
}

// New creates a new Parser instance with default settings
func New() *Parser {
	return &Parser{
		UserAgent: apichangelog.UserAgent(),
	}
}

// log returns the configured logger, or a no-op logger if none is set.
func (p *Parser) log() Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return NopLogger{}
}

// SourceFormat represents the format of the source OpenAPI specification file
type SourceFormat string

const (
	// SourceFormatYAML indicates the source was in YAML format
	SourceFormatYAML SourceFormat = "yaml"
	// SourceFormatJSON indicates the source was in JSON format
	SourceFormatJSON SourceFormat = "json"
	// SourceFormatUnknown indicates the source format could not be determined
	SourceFormatUnknown SourceFormat = "unknown"
)

// ParseResult contains the decoded document and metadata about its source.
//
// Callers should treat ParseResult as read-only after parsing. The same
// Spec is shared by every comparison it takes part in.
type ParseResult struct {
	// SourcePath is the document's input source path that it was read from.
	// Note: if the source was not a file path, this will be set to the name of the method
	// and end in '.yaml' or '.json' based on the detected format
	SourcePath string
	// SourceFormat is the format of the source file (JSON or YAML)
	SourceFormat SourceFormat
	// Version is the declared OAS version string (e.g., "2.0", "3.0.3", "3.1.0")
	Version string
	// Spec is the comparison model of the document.
	Spec *Specification
	// Data contains the raw decoded document as a map.
	Data map[string]any
	// Warnings lists constructs that were decoded approximately.
	Warnings []string
	// LoadTime is the time taken to read the source.
	LoadTime time.Duration
	// SourceSize is the size of the source in bytes.
	SourceSize int64
}

// IsOAS2 reports whether the document declared swagger 2.0.
func (pr *ParseResult) IsOAS2() bool {
	return pr.Version == "2.0"
}

// Parse parses an OpenAPI document file or URL
// For URLs (http:// or https://), the content is fetched and parsed
// For local files, the file is read and parsed
func (p *Parser) Parse(specPath string) (*ParseResult, error) {
	var (
		data     []byte
		err      error
		format   SourceFormat
		loadTime time.Duration
	)

	loadStart := time.Now()
	if isURL(specPath) {
		var contentType string
		data, contentType, err = p.fetchURL(specPath)
		loadTime = time.Since(loadStart)
		if err != nil {
			return nil, err
		}
		format = detectFormatFromURL(specPath, contentType)
	} else {
		data, err = os.ReadFile(specPath) //nolint:gosec // G304 - path is user-provided input (CLI parser)
		loadTime = time.Since(loadStart)
		if err != nil {
			return nil, fmt.Errorf("parser: failed to read file: %w", err)
		}
		format = detectFormatFromPath(specPath)
	}

	res, err := p.parseBytes(data, specPath)
	if err != nil {
		return nil, err
	}
	res.SourcePath = specPath
	res.LoadTime = loadTime
	if format != SourceFormatUnknown {
		res.SourceFormat = format
	}
	return res, nil
}

// ParseReader parses an OpenAPI document from an io.Reader
// Note: since there is no actual ParseResult.SourcePath, it will be set to: ParseReader.yaml or ParseReader.json
func (p *Parser) ParseReader(r io.Reader) (*ParseResult, error) {
	loadStart := time.Now()
	data, err := io.ReadAll(r)
	loadTime := time.Since(loadStart)
	if err != nil {
		return nil, fmt.Errorf("parser: failed to read data: %w", err)
	}
	res, err := p.parseBytes(data, "ParseReader")
	if err != nil {
		return nil, err
	}
	res.LoadTime = loadTime
	res.SourcePath = "ParseReader." + string(res.SourceFormat)
	return res, nil
}

// ParseBytes parses an OpenAPI document from a byte slice
// Note: since there is no actual ParseResult.SourcePath, it will be set to: ParseBytes.yaml or ParseBytes.json
func (p *Parser) ParseBytes(data []byte) (*ParseResult, error) {
	res, err := p.parseBytes(data, "ParseBytes")
	if err != nil {
		return nil, err
	}
	res.SourcePath = "ParseBytes." + string(res.SourceFormat)
	return res, nil
}

func (p *Parser) parseBytes(data []byte, source string) (*ParseResult, error) {
	if p.Strict {
		res, err := LoadStrict(context.Background(), data)
		if err != nil {
			return nil, err
		}
		res.SourcePath = source
		p.logWarnings(source, res.Warnings)
		return res, nil
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, &oaserrors.ParseError{Path: source, Message: "invalid YAML or JSON", Cause: err}
	}
	if len(root.Content) == 0 {
		return nil, &oaserrors.ParseError{Path: source, Message: "empty document"}
	}

	dec := newDecoder()
	spec, version, err := dec.decodeDocument(&root)
	if err != nil {
		var pe *oaserrors.ParseError
		if errors.As(err, &pe) && pe.Path == "" {
			pe.Path = source
		}
		return nil, err
	}

	var body any
	if err := root.Decode(&body); err != nil {
		return nil, &oaserrors.ParseError{Path: source, Message: "cannot decode document body", Cause: err}
	}
	raw, _ := normalizeRaw(body).(map[string]any)

	res := &ParseResult{
		SourceFormat: detectFormatFromContent(data),
		Version:      version,
		Spec:         spec,
		Data:         raw,
		Warnings:     dec.warnings,
		SourceSize:   int64(len(data)),
	}
	p.log().Debug("parsed document",
		"source", source,
		"version", version,
		"paths", len(spec.Paths),
		"schemas", len(spec.Schemas))
	p.logWarnings(source, res.Warnings)
	return res, nil
}

func (p *Parser) logWarnings(source string, warnings []string) {
	for _, w := range warnings {
		p.log().Warn("approximate decoding", "source", source, "detail", w)
	}
}

// Parse decodes a YAML or JSON OpenAPI document with default settings.
func Parse(data []byte) (*ParseResult, error) {
	return New().ParseBytes(data)
}

// ParseFile reads and decodes the document at path (a file path or URL).
func ParseFile(path string) (*ParseResult, error) {
	return New().Parse(path)
}

// ParseReader decodes the document read from r with default settings.
func ParseReader(r io.Reader) (*ParseResult, error) {
	return New().ParseReader(r)
}
