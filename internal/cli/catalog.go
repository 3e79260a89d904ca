package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/complyops/draftcoach/internal/policy"
)

var (
	catalogPath   string
	catalogFormat string
)

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.Flags().StringVar(&catalogPath, "catalog", "", "Path to policy catalog YAML (optional, built-in by default)")
	catalogCmd.Flags().StringVarP(&catalogFormat, "format", "f", "text", "Output format (text|json)")
}

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Show the loaded policy catalog",
	Long: "Loads and validates the policy catalog, then lists each policy with\n" +
		"its severity and rule counts. Use to verify a catalog file before\n" +
		"deploying it.",
	RunE: runCatalog,
}

func runCatalog(cmd *cobra.Command, args []string) error {
	catalog, err := policy.LoadCatalog(catalogPath)
	if err != nil {
		return err
	}

	if catalogFormat == "json" {
		data, _ := json.MarshalIndent(catalog, "", "  ")
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	for _, p := range catalog.Policies {
		fmt.Fprintf(cmd.OutOrStdout(), "%-10s %-8s %s", p.ID, p.Severity, p.Name)
		if len(p.Patterns) > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "  (%d patterns)", len(p.Patterns))
		}
		if len(p.RequiredPhrases) > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "  (%d required phrases)", len(p.RequiredPhrases))
		}
		fmt.Fprintln(cmd.OutOrStdout())
	}
	return nil
}
