package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/complyops/draftcoach/internal/policy"
)

var (
	checkCatalog string
	checkFormat  string
)

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().StringVar(&checkCatalog, "catalog", "", "Path to policy catalog YAML (optional, built-in by default)")
	checkCmd.Flags().StringVarP(&checkFormat, "format", "f", "text", "Output format (text|json)")
}

var checkCmd = &cobra.Command{
	Use:   "check [text]",
	Short: "Scan text against the policy catalog",
	Long: "Reports every policy hit in the given text: pattern matches with\n" +
		"their location, and missing-disclosure findings.\n\n" +
		"Exit code 0 when clean, 1 when any policy fires.",
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	text, err := readText(cmd, args)
	if err != nil {
		return err
	}

	catalog, err := policy.LoadCatalog(checkCatalog)
	if err != nil {
		return err
	}
	m := policy.NewMatcher(catalog)

	hits := m.FindHits(text)

	if checkFormat == "json" {
		out := struct {
			Hits        []policy.Hit `json:"hits"`
			ContainsPII bool         `json:"contains_pii"`
		}{Hits: hits, ContainsPII: m.ContainsPII(text)}
		if out.Hits == nil {
			out.Hits = []policy.Hit{}
		}
		data, _ := json.MarshalIndent(out, "", "  ")
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
	} else {
		if len(hits) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "clean: no policy hits")
		}
		for _, h := range hits {
			if h.IsMissingDisclosure() {
				fmt.Fprintf(cmd.OutOrStdout(), "%-10s %-8s required disclosure missing\n", h.PolicyID, h.Severity)
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%-10s %-8s %q at %d:%d\n", h.PolicyID, h.Severity, h.Matched, h.Start, h.End)
		}
	}

	if len(hits) > 0 {
		cmd.SilenceUsage = true
		return fmt.Errorf("%d policy hit(s)", len(hits))
	}
	return nil
}
