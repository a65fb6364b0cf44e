package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/phytocore/smiq/internal/dataset"
	"github.com/phytocore/smiq/internal/pubchem"
	"github.com/phytocore/smiq/internal/resolver"
)

var (
	columnFlag      string
	outputFileFlag  string
	workersFlag     int
	timeoutFlag     int
	retriesFlag     int
	backoffFlag     float64
	maxInflightFlag int
	modeFlag        string
	fuzzyFlag       bool
	intervalFlag    int
	baseURLFlag     string
)

// resolveCmd represents the resolve command
var resolveCmd = &cobra.Command{
	Use:   "resolve <dataset.csv>",
	Short: "Resolve every compound name in a CSV dataset to SMILES",
	Long: `Resolve loads a CSV dataset, resolves each unique compound name in the
chosen column to a canonical SMILES identifier, and writes the dataset back
with an appended CanonicalSMILES column.

Names that share a value receive the same identifier on every row. An
interrupted run (Ctrl-C) still writes the outcomes completed so far.

Examples:
  smiq resolve phytochemicals_haldi.csv
  smiq resolve --column Compound_name --workers 30 dataset.csv
  smiq resolve --mode pool --fuzzy=false dataset.csv
  smiq resolve --output json dataset.csv > stats.json`,
	Args: cobra.ExactArgs(1),
	RunE: runResolve,
}

func runResolve(cmd *cobra.Command, args []string) error {
	path := args[0]

	mode := resolver.Mode(modeFlag)
	switch mode {
	case resolver.ModeAuto, resolver.ModeFlight, resolver.ModePool:
	default:
		return fmt.Errorf("invalid mode %q (valid: auto, flight, pool)", modeFlag)
	}

	ds, err := dataset.Load(path, columnFlag)
	if err != nil {
		return err
	}

	names := ds.Names()

	if !quiet {
		fmt.Printf("📖 %s: %d rows, %d unique compound names\n", path, len(ds.Rows), len(names))
	}

	ctrl := newEngine(cmd, mode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	outcomes := ctrl.Run(ctx, names)
	elapsed := time.Since(start)

	if ctx.Err() != nil && !quiet {
		fmt.Println("⚠️  Interrupted: writing partial results")
	}

	ds.Enrich(resolver.SMILESMap(outcomes))

	outPath := outputFileFlag
	if outPath == "" {
		outPath = dataset.DefaultOutputPath(path)
	}

	if err := ds.Write(outPath); err != nil {
		return fmt.Errorf("failed to write enriched dataset: %w", err)
	}

	if !quiet {
		fmt.Printf("💾 Enriched dataset written to %s\n", outPath)
	}

	report := resolver.BuildReport(ctrl.Stats(), len(ds.Rows), len(names), elapsed)

	return report.Output(os.Stdout, output)
}

// newEngine assembles the backend client, resolver, and controller from
// the resolve flags, letting config-file values stand in for unset flags.
func newEngine(cmd *cobra.Command, mode resolver.Mode) *resolver.Controller {
	client := pubchem.New(pubchem.Config{
		BaseURL:     configString(cmd, "base-url", "base_url", baseURLFlag),
		Timeout:     time.Duration(timeoutFlag) * time.Second,
		RetryCount:  retriesFlag,
		RetryWait:   time.Duration(backoffFlag * float64(time.Second)),
		MaxInflight: int64(maxInflightFlag),
	})

	res := resolver.NewResolver(client, fuzzyFlag)

	var progress func(resolver.Snapshot)
	if !quiet {
		progress = func(s resolver.Snapshot) {
			fmt.Printf("⚡ %d processed | ✓ %d resolved (%.1f%%) | 📋 %d cached | ❌ %d failed\n",
				s.Processed, s.Succeeded, 100*s.SuccessRate(), s.CacheHits, s.Failed)
		}
	}

	return resolver.NewController(res, resolver.ControllerConfig{
		Workers:        configInt(cmd, "workers", "workers", workersFlag),
		Mode:           mode,
		ReportInterval: intervalFlag,
		Progress:       progress,
	})
}

func init() {
	rootCmd.AddCommand(resolveCmd)

	resolveCmd.Flags().StringVarP(&columnFlag, "column", "c", "Phytochemical_name", "CSV column containing compound names")
	resolveCmd.Flags().StringVar(&outputFileFlag, "output-file", "", "path for the enriched dataset (default <input>_smiles.csv)")
	resolveCmd.Flags().IntVarP(&workersFlag, "workers", "w", 20, "maximum concurrent resolution cascades")
	resolveCmd.Flags().IntVarP(&timeoutFlag, "timeout", "t", 12, "timeout in seconds for backend requests")
	resolveCmd.Flags().IntVar(&retriesFlag, "retries", 4, "retry count for transient backend errors")
	resolveCmd.Flags().Float64Var(&backoffFlag, "backoff", 0.5, "base retry backoff in seconds (grows exponentially, capped)")
	resolveCmd.Flags().IntVar(&maxInflightFlag, "max-inflight", 30, "maximum simultaneous backend requests")
	resolveCmd.Flags().StringVar(&modeFlag, "mode", "auto", "execution mode (auto, flight, pool)")
	resolveCmd.Flags().BoolVar(&fuzzyFlag, "fuzzy", true, "enable the fuzzy wildcard strategy")
	resolveCmd.Flags().IntVar(&intervalFlag, "report-interval", 20, "print progress every N completed names (0 disables)")
	resolveCmd.Flags().StringVar(&baseURLFlag, "base-url", pubchem.DefaultBaseURL, "lookup service base URL")
}
