package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/phytocore/smiq/internal/pubchem"
	"github.com/phytocore/smiq/internal/resolver"
)

var (
	lookupWorkers int
	lookupTimeout int
	lookupFuzzy   bool
)

// lookupCmd represents the lookup command
var lookupCmd = &cobra.Command{
	Use:   "lookup <name>...",
	Short: "Resolve compound names given on the command line",
	Long: `Lookup resolves one or more compound names ad hoc, without a dataset.

Examples:
  smiq lookup curcumin
  smiq lookup curcumin quercetin "beta-carotene"
  smiq lookup --output json resveratrol`,
	Args: cobra.MinimumNArgs(1),
	RunE: runLookup,
}

func runLookup(cmd *cobra.Command, args []string) error {
	baseURL, _ := cmd.Flags().GetString("base-url")

	client := pubchem.New(pubchem.Config{
		BaseURL: configString(cmd, "base-url", "base_url", baseURL),
		Timeout: time.Duration(lookupTimeout) * time.Second,
	})

	ctrl := resolver.NewController(
		resolver.NewResolver(client, lookupFuzzy),
		resolver.ControllerConfig{Workers: lookupWorkers},
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	outcomes := ctrl.Run(ctx, args)

	if output == "json" {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")

		return encoder.Encode(outcomes)
	}

	// Preserve the argument order in human output.
	for _, name := range args {
		o := outcomes[name]

		switch o.Status {
		case resolver.StatusSuccess:
			fmt.Printf("✅ %s (%s): %s\n", name, o.Strategy, o.SMILES)
		case resolver.StatusInvalid:
			fmt.Printf("⚠️  %q: invalid name\n", name)
		default:
			fmt.Printf("❌ %s: not found\n", name)
		}
	}

	return nil
}

func init() {
	rootCmd.AddCommand(lookupCmd)

	lookupCmd.Flags().IntVarP(&lookupWorkers, "workers", "w", 5, "maximum concurrent lookups")
	lookupCmd.Flags().IntVarP(&lookupTimeout, "timeout", "t", 12, "timeout in seconds for backend requests")
	lookupCmd.Flags().BoolVar(&lookupFuzzy, "fuzzy", true, "enable the fuzzy wildcard strategy")
	lookupCmd.Flags().String("base-url", pubchem.DefaultBaseURL, "lookup service base URL")
}
