// Package report formats benchmark results into comparison tables.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/weiihann/corbench/bench"
)

// GeneratePlain writes the classic two-line summary per workload:
// total characters decoded, then nanoseconds per iteration.
func GeneratePlain(w io.Writer, res *bench.Result) error {
	if len(res.Workloads) == 0 {
		return fmt.Errorf("no results to report")
	}

	for _, wr := range res.Workloads {
		fmt.Fprintf(w, "total chars: %d\n", wr.TotalChars)
		fmt.Fprintf(w, "ns per iteration: %d\n", wr.NsPerIter)
	}

	return nil
}

// Generate writes a markdown comparison table for the given result.
func Generate(w io.Writer, res *bench.Result) error {
	if len(res.Workloads) == 0 {
		return fmt.Errorf("no results to report")
	}

	fastest := findFastest(res.Workloads)

	// Header.
	fmt.Fprintln(w, "## Benchmark Results")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Corpus **%s**, attribute **%s**, %d positions, run `%s`\n",
		res.Corpus, res.Attribute, res.Positions, res.RunID)
	fmt.Fprintln(w)

	// Main table; relative compares per-operation cost against the
	// fastest workload.
	fmt.Fprintln(w, "| Workload | Runs | Ops | Total Chars | Matches "+
		"| Ns/Iter | Ops/s | Relative |")
	fmt.Fprintln(w, "|----------|------|-----|-------------|---------"+
		"|---------|-------|----------|")

	for _, wr := range res.Workloads {
		relative := 1.0
		if fastest > 0 && wr.Operations > 0 && wr.NsPerIter > 0 {
			relative = float64(wr.NsPerIter) / float64(wr.Operations) / fastest
		}

		fmt.Fprintf(w, "| %s | %d | %d | %d | %d | %s | %.0f | %.2fx |\n",
			wr.Workload,
			wr.Runs,
			wr.Operations,
			wr.TotalChars,
			wr.Matches,
			formatNs(wr.NsPerIter),
			wr.OpsPerSec,
			relative,
		)
	}

	fmt.Fprintln(w)

	// Per-run spread.
	fmt.Fprintln(w, "| Workload | Min Run | Avg Run | Max Run |")
	fmt.Fprintln(w, "|----------|---------|---------|---------|")

	for _, wr := range res.Workloads {
		fmt.Fprintf(w, "| %s | %s | %s | %s |\n",
			wr.Workload,
			formatNs(wr.MinRunNs),
			formatNs(wr.AvgRunNs),
			formatNs(wr.MaxRunNs),
		)
	}

	return nil
}

// GenerateJSON writes the result as JSON to w.
func GenerateJSON(w io.Writer, res *bench.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(res)
}

// findFastest returns the lowest per-operation cost in nanoseconds.
func findFastest(workloads []bench.WorkloadResult) float64 {
	fastest := math.MaxFloat64

	for _, wr := range workloads {
		if wr.Operations <= 0 || wr.NsPerIter <= 0 {
			continue
		}

		nsPerOp := float64(wr.NsPerIter) / float64(wr.Operations)
		if nsPerOp < fastest {
			fastest = nsPerOp
		}
	}

	if fastest == math.MaxFloat64 {
		return 0
	}

	return fastest
}

func formatNs(ns int64) string {
	if ns < 1000 {
		return fmt.Sprintf("%dns", ns)
	}

	units := []string{"ns", "µs", "ms", "s"}
	value := float64(ns)
	unit := 0

	for value >= 1000 && unit < len(units)-1 {
		value /= 1000
		unit++
	}

	formatted := fmt.Sprintf("%.2f", value)
	formatted = strings.TrimRight(formatted, "0")
	formatted = strings.TrimRight(formatted, ".")

	return formatted + units[unit]
}
