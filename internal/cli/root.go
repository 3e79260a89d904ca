// Package cli implements the draftcoach command line interface.
package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "draftcoach",
	Short: "Compliance decision support for customer-facing drafts",
	Long:  "Scans support-agent drafts against a compliance policy catalog, redacts identifiers before any external call, and rewrites risky text into compliant replies via a provider fallback chain.",
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// readText returns the positional args joined, or stdin when none given.
func readText(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}

	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", fmt.Errorf("no input text: pass it as an argument or on stdin")
	}
	return text, nil
}
