package commands

import (
	"github.com/spf13/cobra"

	"github.com/erraggy/apichangelog/internal/mcpserver"
)

const mcpLong = `Start a Model Context Protocol server on stdin/stdout.

Tools:
  diff            compare two documents given as file, url, or inline content
  list_versions   list the APIs and versions of a catalog directory
  changes_for     changes between two versions of an API in a catalog

The server is configured through APICHANGELOG_* environment variables
(e.g., APICHANGELOG_REFERENCES=nominal, APICHANGELOG_CHANGE_LIMIT=50).`

// NewMCPCmd creates the mcp command.
func NewMCPCmd() *cobra.Command {
	return &cobra.Command{
		Use:          "mcp",
		Short:        "Run the MCP server over stdio",
		Long:         mcpLong,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return mcpserver.Run(cmd.Context())
		},
	}
}
