package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	coachmcp "github.com/complyops/draftcoach/internal/mcp"
)

var (
	mcpCatalog   string
	mcpDenylist  string
	mcpProviders string
	mcpWatch     bool
)

func init() {
	rootCmd.AddCommand(mcpCmd)
	mcpCmd.Flags().StringVar(&mcpCatalog, "catalog", "", "Path to policy catalog YAML")
	mcpCmd.Flags().StringVar(&mcpDenylist, "denylist", "", "Path to denylist YAML")
	mcpCmd.Flags().StringVar(&mcpProviders, "providers", "", "Path to provider chain YAML")
	mcpCmd.Flags().BoolVar(&mcpWatch, "watch", false, "Hot-reload the catalog file on change")
}

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP tool server for agent integration",
	Long:  "Runs draftcoach as an MCP (Model Context Protocol) server over stdio.\nExposes the coaching tools: suggest, check, redact.",
	RunE:  runMCP,
}

func runMCP(cmd *cobra.Command, args []string) error {
	srv, err := coachmcp.New(coachmcp.Config{
		CatalogPath:   mcpCatalog,
		DenylistPath:  mcpDenylist,
		ProvidersPath: mcpProviders,
		Watch:         mcpWatch,
	})
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nShutting down MCP server...")
		cancel()
	}()

	fmt.Fprintln(os.Stderr, "draftcoach MCP server running on stdio")
	if mcpWatch {
		fmt.Fprintf(os.Stderr, "Watching catalog: %s\n", mcpCatalog)
	}

	return srv.Run(ctx)
}
