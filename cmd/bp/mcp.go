// ABOUTME: CLI command for starting MCP server.
// ABOUTME: Runs stdio-based MCP server for AI assistant integration.
package main

import (
	"os/signal"
	"syscall"

	"github.com/harperreed/bp/internal/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server",
	Long: `Start the Model Context Protocol (MCP) server for AI assistant integration.

MCP allows AI assistants to record and review your blood-pressure readings
through a standardized protocol. The server communicates via stdin/stdout.

CONFIGURATION:

  {
    "mcpServers": {
      "bp": {
        "command": "bp",
        "args": ["mcp"]
      }
    }
  }

AVAILABLE TOOLS:

  add_reading       Record a reading from 120/80[/72] shorthand
  list_readings     List readings newest first
  delete_reading    Delete a reading by ID
  get_stats         Averages, categories, and trend
  classify_reading  Categorize a systolic/diastolic pair

AVAILABLE RESOURCES:

  bp://recent     Last 10 readings with categories
  bp://summary    30-day statistics and all-time totals`,
	RunE: func(cmd *cobra.Command, args []string) error {
		server, err := mcp.NewServer(store)
		if err != nil {
			return err
		}

		// Handle shutdown signals
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return server.Serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
