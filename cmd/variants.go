package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/phytocore/smiq/internal/resolver"
)

// variantsCmd represents the variants command
var variantsCmd = &cobra.Command{
	Use:   "variants <name>",
	Short: "Show the query variants derived from a compound name",
	Long: `Variants prints the normalized query candidates the resolver would try
for a compound name, in cascade order. Useful for debugging why a name does
or does not resolve.

Examples:
  smiq variants "Curcumin (95%)"
  smiq variants "α-pinene"`,
	Args: cobra.ExactArgs(1),
	RunE: runVariants,
}

func runVariants(cmd *cobra.Command, args []string) error {
	variants := resolver.Variants(args[0])

	if output == "json" {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")

		return encoder.Encode(variants)
	}

	if len(variants) == 0 {
		fmt.Printf("⚠️  %q: invalid name, no variants\n", args[0])
		return nil
	}

	for i, v := range variants {
		fmt.Printf("%d. %s\n", i+1, v)
	}

	return nil
}

func init() {
	rootCmd.AddCommand(variantsCmd)
}
