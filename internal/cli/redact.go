package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/complyops/draftcoach/internal/redact"
)

var redactFormat string

func init() {
	rootCmd.AddCommand(redactCmd)
	redactCmd.Flags().StringVarP(&redactFormat, "format", "f", "text", "Output format (text|json)")
}

var redactCmd = &cobra.Command{
	Use:   "redact [text]",
	Short: "Redact SSNs and account numbers",
	Long: "Replaces identifiers with reversible category-indexed placeholders.\n" +
		"Text output prints the redacted text only; json output includes the\n" +
		"placeholder mapping.",
	RunE: runRedact,
}

func runRedact(cmd *cobra.Command, args []string) error {
	text, err := readText(cmd, args)
	if err != nil {
		return err
	}

	redacted, rmap := redact.Redact(text)

	if redactFormat == "json" {
		out := struct {
			Redacted string         `json:"redacted"`
			Entries  []redact.Entry `json:"entries"`
		}{Redacted: redacted, Entries: rmap.Entries()}
		if out.Entries == nil {
			out.Entries = []redact.Entry{}
		}
		data, _ := json.MarshalIndent(out, "", "  ")
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	fmt.Fprintln(cmd.OutOrStdout(), redacted)
	return nil
}
