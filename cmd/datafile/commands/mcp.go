package commands

import (
	"github.com/spf13/cobra"

	"github.com/erraggy/datafile/internal/mcpserver"
)

// NewMCPCmd builds the mcp command.
func NewMCPCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Run the MCP server over stdio",
		Long: `Start a Model Context Protocol server on stdin/stdout exposing the load,
merge, list_files, find_files, resolve_refs and validate tools. Logs go to
stderr.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env.Log.Info("starting MCP server", "max_files", env.Config.MCP.MaxFiles)
			return mcpserver.Run(cmd.Context(), env.Config, env.Log)
		},
	}
}
