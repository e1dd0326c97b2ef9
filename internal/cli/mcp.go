package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	wiresmcp "github.com/barooo/wires/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  "Commands for running the wires MCP (Model Context Protocol) server.",
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the wires MCP server on stdio",
	Long: `Start the wires MCP server on stdio transport.

The server exposes the dependency graph as MCP tools that AI coding
assistants can call: list_wires, get_wire, create_wire, update_wire,
set_status, add_dependency, remove_dependency, ready_wires, delete_wire,
and export_graph.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := requireEngine()
		if err != nil {
			return err
		}

		srv := wiresmcp.NewServer(eng, appVersion)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		if err := srv.Run(ctx); err != nil {
			return fmt.Errorf("running MCP server: %w", err)
		}

		return nil
	},
}

func init() {
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}
