package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/aretw0/triage/pkg/adapters/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Exposes triage to AI agents as the triage_query tool and the triage://graph resource.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd)
		if err != nil {
			return err
		}
		eng, err := a.engine(cmd)
		if err != nil {
			return err
		}

		srv := mcp.NewServer(eng, mcp.WithLogger(a.logger), mcp.WithSanitizer(a.sanitizer))

		sse, _ := cmd.Flags().GetBool("sse")
		if !sse {
			// Logs go to stderr so they never corrupt JSON-RPC on stdout.
			a.logger.Info("starting triage MCP server (stdio)")
			return srv.ServeStdio()
		}

		addr, _ := cmd.Flags().GetString("addr")
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := srv.ServeSSE(ctx, addr); err != nil {
			return err
		}
		a.logger.Info("MCP server stopped gracefully")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().Bool("sse", false, "Serve over Server-Sent Events instead of stdio")
	mcpCmd.Flags().String("addr", ":8081", "Address to listen on (only for SSE)")
}
