package resolver

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"
)

// Report is the run summary handed to the reporting collaborator once all
// cascades have completed (or the run was canceled).
type Report struct {
	Snapshot

	TotalRows   int     `json:"total_rows"`
	UniqueNames int     `json:"unique_names"`
	Elapsed     float64 `json:"elapsed_seconds"`
}

// BuildReport assembles the final report from a stats snapshot.
func BuildReport(snap Snapshot, totalRows, uniqueNames int, elapsed time.Duration) Report {
	return Report{
		Snapshot:    snap,
		TotalRows:   totalRows,
		UniqueNames: uniqueNames,
		Elapsed:     elapsed.Seconds(),
	}
}

// Output writes the report in the requested format ("human" or "json").
func (r Report) Output(w io.Writer, format string) error {
	switch strings.ToLower(format) {
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")

		return encoder.Encode(r)
	case "human", "":
		r.outputHuman(w)
		return nil
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

func (r Report) outputHuman(w io.Writer) {
	fmt.Fprintf(w, "📊 Resolution summary\n")
	fmt.Fprintf(w, "   Total rows:      %d\n", r.TotalRows)
	fmt.Fprintf(w, "   Unique names:    %d\n", r.UniqueNames)
	fmt.Fprintf(w, "   Processed:       %d\n", r.Processed)
	fmt.Fprintf(w, "   ✅ Resolved:     %d (%.1f%%)\n", r.Succeeded, 100*r.SuccessRate())
	fmt.Fprintf(w, "   ❌ Unresolved:   %d\n", r.Failed)

	if r.Invalid > 0 {
		fmt.Fprintf(w, "   ⚠️  Invalid names: %d\n", r.Invalid)
	}

	fmt.Fprintf(w, "   📋 Cache hits:   %d\n", r.CacheHits)

	if len(r.ByStrategy) > 0 {
		fmt.Fprintf(w, "🎯 Successes by strategy:\n")

		strategies := make([]Strategy, 0, len(r.ByStrategy))
		for s := range r.ByStrategy {
			strategies = append(strategies, s)
		}

		sort.Slice(strategies, func(i, j int) bool {
			return r.ByStrategy[strategies[i]] > r.ByStrategy[strategies[j]]
		})

		for _, s := range strategies {
			count := r.ByStrategy[s]
			share := 0.0

			if r.Succeeded > 0 {
				share = 100 * float64(count) / float64(r.Succeeded)
			}

			fmt.Fprintf(w, "   • %-8s %d (%.1f%%)\n", s, count, share)
		}
	}

	if r.Elapsed > 0 {
		rate := float64(r.Processed) / r.Elapsed
		fmt.Fprintf(w, "⏱️  %.1fs elapsed (%.1f names/s)\n", r.Elapsed, rate)
	}
}
