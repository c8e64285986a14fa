// Package commands provides the cobra commands of the apichangelog CLI.
package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	fcolor "github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v4"

	"github.com/erraggy/apichangelog/differ"
	"github.com/erraggy/apichangelog/parser"
)

// Output format constants
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

const (
	// EnvPrefix prefixes every environment variable read by the CLI
	// (e.g., APICHANGELOG_STRICT).
	EnvPrefix = "APICHANGELOG"
	// ConfigName is the config file looked up in the working directory when
	// --config is not given.
	ConfigName = ".apichangelog"
)

// Flag names shared by several commands.
const (
	flagConfig      = "config"
	flagVerbose     = "verbose"
	flagNoColor     = "no-color"
	flagStrict      = "strict"
	flagNominalRefs = "nominal-refs"
	flagFormat      = "format"
	flagMinLevel    = "min-level"
	flagInput       = "input"
	flagOutput      = "output"
	flagWorkers     = "workers"
	flagRepoURL     = "repo-url"
	flagRepo        = "repo"
	flagMaxVersions = "max-versions"
)

// ErrChangesFound is returned by the diff command when the documents differ.
// It maps to exit code 1 without an error message.
var ErrChangesFound = errors.New("changes found")

// ValidateOutputFormat validates an output format and returns an error if invalid.
func ValidateOutputFormat(format string) error {
	if format != FormatText && format != FormatJSON && format != FormatYAML {
		return fmt.Errorf("invalid format '%s'. Valid formats: %s, %s, %s", format, FormatText, FormatJSON, FormatYAML)
	}
	return nil
}

// OutputStructured writes data in the specified format (json or yaml) to w.
// Returns an error if marshaling fails.
func OutputStructured(w io.Writer, data any, format string) error {
	var bytes []byte
	var err error

	switch format {
	case FormatJSON:
		bytes, err = json.MarshalIndent(data, "", "  ")
	case FormatYAML:
		bytes, err = yaml.Marshal(data)
	default:
		return fmt.Errorf("invalid format for structured output: %s", format)
	}

	if err != nil {
		return fmt.Errorf("marshaling to %s: %w", format, err)
	}

	_, err = fmt.Fprintln(w, strings.TrimRight(string(bytes), "\n"))
	return err
}

// loadSettings returns a viper instance holding cmd's flags, overridden in
// turn by the config file and APICHANGELOG_* variables for any flag the user
// did not set explicitly.
func loadSettings(cmd *cobra.Command) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, fmt.Errorf("bind flags: %w", err)
	}

	if path := v.GetString(flagConfig); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(ConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	if v.GetBool(flagNoColor) {
		fcolor.NoColor = true
	}
	return v, nil
}

// newLogger returns a text logger on cmd's stderr, at debug level when
// --verbose is set.
func newLogger(cmd *cobra.Command, v *viper.Viper) parser.Logger {
	level := slog.LevelInfo
	if v.GetBool(flagVerbose) {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})
	return parser.NewSlogAdapter(slog.New(handler))
}

// referenceMode maps the --nominal-refs setting to a differ mode.
func referenceMode(v *viper.Viper) differ.ReferenceMode {
	if v.GetBool(flagNominalRefs) {
		return differ.ReferencesNominal
	}
	return differ.ReferencesStructural
}

func addComparisonFlags(cmd *cobra.Command) {
	cmd.Flags().Bool(flagStrict, false, "load documents with full OpenAPI 3 validation")
	cmd.Flags().Bool(flagNominalRefs, false, "compare differently named references by name instead of by target shape")
}
