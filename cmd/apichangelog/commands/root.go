package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

const rootLong = `apichangelog reports the semantic differences between versions of an
OpenAPI document.

Each change carries a level ranking how structurally significant it is
(text < minor < required < type < member < shape < endpoint) and the side
that introduced it (added, removed, modified).

Settings are read from flags, then APICHANGELOG_* environment variables,
then .apichangelog.yaml in the working directory (or the file named by
--config).`

// NewRootCmd creates the root command with version info and subcommands.
func NewRootCmd(version, commit, date string) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "apichangelog",
		Short:         "Semantic changelogs for OpenAPI documents",
		Long:          rootLong,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.Version = fmt.Sprintf("%s (Built on %s from Git SHA %s)", version, date, commit)

	cmd.PersistentFlags().String(flagConfig, "", "config file (default ./"+ConfigName+".yaml)")
	cmd.PersistentFlags().BoolP(flagVerbose, "v", false, "enable debug logging on stderr")
	cmd.PersistentFlags().Bool(flagNoColor, false, "disable colored output")

	cmd.AddCommand(NewDiffCmd())
	cmd.AddCommand(NewGenerateCmd())
	cmd.AddCommand(NewCollectCmd())
	cmd.AddCommand(NewMCPCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}
