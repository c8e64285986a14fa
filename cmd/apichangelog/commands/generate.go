package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/erraggy/apichangelog/catalog"
	"github.com/erraggy/apichangelog/internal/cliutil"
)

const generateLong = `Scan a catalog directory laid out as <input>/<api>/<version>/ (one
OpenAPI document per version directory, with an optional info.json holding
{"date": ...}), compute the changes between every ordered pair of versions
of each API, and write them with the documents to
<output>/` + catalog.SiteDataPath + `.`

// NewGenerateCmd creates the generate command.
func NewGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "generate",
		Short:        "Build the changelog data for a catalog of API versions",
		Long:         generateLong,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			return runGenerate(cmd, v)
		},
	}

	cmd.Flags().StringP(flagInput, "i", "", "catalog directory to scan (required)")
	cmd.Flags().StringP(flagOutput, "o", "dist", "output directory")
	cmd.Flags().Int64(flagWorkers, 0, "concurrent comparisons (default: based on CPU count)")
	addComparisonFlags(cmd)

	return cmd
}

func runGenerate(cmd *cobra.Command, v *viper.Viper) error {
	input := v.GetString(flagInput)
	if input == "" {
		return fmt.Errorf("input directory is required (use -i or --input)")
	}
	workers := v.GetInt64(flagWorkers)
	if workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", workers)
	}

	cat := catalog.New()
	cat.Workers = workers
	cat.Strict = v.GetBool(flagStrict)
	cat.References = referenceMode(v)
	cat.Logger = newLogger(cmd, v)

	ctx := cmd.Context()
	if err := cat.Scan(ctx, input); err != nil {
		return err
	}
	if err := cat.Build(ctx); err != nil {
		return err
	}
	path, err := catalog.WriteSite(cat, v.GetString(flagOutput))
	if err != nil {
		return err
	}

	cliutil.Writef(cmd.OutOrStdout(), "Wrote %d version(s) of %d API(s) to %s\n", cat.Len(), len(cat.APIs()), path)
	return nil
}
