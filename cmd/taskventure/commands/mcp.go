package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nhle/taskventure/internal/mcpserver"
)

// NewMCPCmd creates the mcp command.
func NewMCPCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve tasks and trips as MCP tools over stdio",
		Long: `Serve tasks and trips as MCP tools over stdio.

Add to an MCP client configuration:
    {
      "mcpServers": {
        "taskventure": {
          "command": "/path/to/taskventure",
          "args": ["mcp"]
        }
      }
    }`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// stdout carries the protocol, so the log must go to a file.
			e, err := openEnv(cmd.Context(), flags, openOptions{logToFile: true})
			if err != nil {
				return err
			}
			defer e.Close()

			s := mcpserver.NewServer(e.tasks, e.travels, e.logger.Named("mcp"))
			if err := s.Serve(); err != nil {
				return fmt.Errorf("MCP server error: %w", err)
			}
			return nil
		},
	}
}
