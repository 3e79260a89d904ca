package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/complyops/draftcoach/internal/coach"
	"github.com/complyops/draftcoach/internal/denylist"
	"github.com/complyops/draftcoach/internal/policy"
	"github.com/complyops/draftcoach/internal/provider"
)

var (
	suggestCatalog     string
	suggestDenylist    string
	suggestProviders   string
	suggestContext     string
	suggestTone        string
	suggestPolicyIDs   []string
	suggestDisclosures []string
	suggestFormat      string
)

func init() {
	rootCmd.AddCommand(suggestCmd)
	suggestCmd.Flags().StringVar(&suggestCatalog, "catalog", "", "Path to policy catalog YAML (optional, built-in by default)")
	suggestCmd.Flags().StringVar(&suggestDenylist, "denylist", "", "Path to denylist YAML (optional)")
	suggestCmd.Flags().StringVar(&suggestProviders, "providers", "", "Path to provider chain YAML (optional, env-based by default)")
	suggestCmd.Flags().StringVarP(&suggestContext, "context", "c", "", "Conversation context for tailoring")
	suggestCmd.Flags().StringVar(&suggestTone, "tone", "", "Brand tone override")
	suggestCmd.Flags().StringSliceVar(&suggestPolicyIDs, "policy-id", nil, "Known violated policy id (repeatable)")
	suggestCmd.Flags().StringSliceVar(&suggestDisclosures, "disclosure", nil, "Required disclosure phrase (repeatable)")
	suggestCmd.Flags().StringVarP(&suggestFormat, "format", "f", "text", "Output format (text|json)")
}

var suggestCmd = &cobra.Command{
	Use:   "suggest [draft]",
	Short: "Rewrite a risky draft into a compliant reply",
	Long: "Redacts identifiers, derives policy evidence, and asks the provider\n" +
		"chain for a compliant rewrite. Provider failures degrade into a fixed\n" +
		"fallback reply instead of an error.",
	RunE: runSuggest,
}

func runSuggest(cmd *cobra.Command, args []string) error {
	draft, err := readText(cmd, args)
	if err != nil {
		return err
	}

	catalog, err := policy.LoadCatalog(suggestCatalog)
	if err != nil {
		return err
	}
	dl, err := denylist.Load(suggestDenylist)
	if err != nil {
		return err
	}
	chainCfg, err := provider.LoadChainConfig(suggestProviders)
	if err != nil {
		return err
	}
	chain, err := provider.NewChain(chainCfg)
	if err != nil {
		return err
	}

	c, err := coach.New(coach.Config{
		Matcher:  policy.NewMatcher(catalog),
		Chain:    chain,
		Denylist: dl,
	})
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	res := c.Suggest(ctx, coach.Request{
		Draft:               draft,
		Context:             suggestContext,
		KnownPolicyIDs:      suggestPolicyIDs,
		BrandTone:           suggestTone,
		RequiredDisclosures: suggestDisclosures,
	})

	if suggestFormat == "json" {
		data, _ := json.MarshalIndent(res, "", "  ")
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	fmt.Fprintln(cmd.OutOrStdout(), res.Suggestion)
	for i, alt := range res.Alternates {
		fmt.Fprintf(cmd.OutOrStdout(), "alt %d: %s\n", i+1, alt)
	}
	if res.Rationale != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "rationale: %s\n", res.Rationale)
	}
	if len(res.PolicyRefs) > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "policies: %v\n", res.PolicyRefs)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "confidence: %.2f  provider: %s  latency: %dms\n",
		res.Confidence, res.Provider, res.LatencyMS)
	if res.Degraded {
		fmt.Fprintln(os.Stderr, "warning: degraded fallback output; see rationale")
	}
	return nil
}
