package commands

import (
	"github.com/spf13/cobra"

	apichangelog "github.com/erraggy/apichangelog"
	"github.com/erraggy/apichangelog/internal/cliutil"
)

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			cliutil.Writef(cmd.OutOrStdout(), "%s\n", apichangelog.BuildInfo())
		},
	}
}
