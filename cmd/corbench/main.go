// Package main provides the CLI entry point for corbench, a corpus
// access benchmarking tool.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/weiihann/corbench/bench"
	"github.com/weiihann/corbench/report"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	root := newRootCmd(logger)
	if err := root.Execute(); err != nil {
		logger.Error("command failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func newRootCmd(logger *slog.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:   "corbench",
		Short: "Corpus access benchmarking tool",
		Long: `Corbench benchmarks corpus access primitives by running deterministic
access workloads through an engine-neutral corpus interface and reporting
decoded character totals and per-iteration latency.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newRunCmd(logger))
	root.AddCommand(newDecodeCmd(logger))
	root.AddCommand(newInfoCmd(logger))
	root.AddCommand(newGenerateCmd(logger))

	return root
}

func newRunCmd(logger *slog.Logger) *cobra.Command {
	var (
		registry   string
		corpusName string
		attribute  string
		runs       int
		seed       int64
		workloads  []string
		ops        int
		pattern    string
		structural string
		windowMin  int
		windowMax  int
		jump       int
		suitePath  string
		reportMD   bool
		outputJSON bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run access workloads against a corpus attribute",
		Long: `Open a corpus from the registry, execute the selected access workloads
against one of its positional attributes, and report decoded character
totals and per-iteration latency.

Known workloads: ` + strings.Join(bench.KnownWorkloads(), ", ") + `.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBenchmark(cmd.Context(), logger, runConfig{
				registry:   registry,
				corpus:     corpusName,
				attribute:  attribute,
				runs:       runs,
				seed:       seed,
				workloads:  workloads,
				ops:        ops,
				pattern:    pattern,
				structural: structural,
				windowMin:  windowMin,
				windowMax:  windowMax,
				jump:       jump,
				suitePath:  suitePath,
				reportMD:   reportMD,
				outputJSON: outputJSON,
			})
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&registry, "registry", bench.DefaultRegistry,
		"Corpus registry directory")
	flags.StringVar(&corpusName, "corpus", bench.DefaultCorpus,
		"Corpus name")
	flags.StringVar(&attribute, "attribute", bench.DefaultAttribute,
		"Positional attribute to benchmark")
	flags.IntVar(&runs, "runs", bench.DefaultRuns,
		"Repetitions per workload")
	flags.Int64Var(&seed, "seed", bench.DefaultSeed,
		"Seed for workload position streams")
	flags.StringSliceVar(&workloads, "workloads", []string{"sequential"},
		"Workloads to execute")
	flags.IntVar(&ops, "ops", 0,
		"Operations per iteration (0 = one per position)")
	flags.StringVar(&pattern, "pattern", bench.DefaultPattern,
		"Literal or regex pattern for scan and lexicon workloads")
	flags.StringVar(&structural, "structural", bench.DefaultStructural,
		"Structural attribute for segmentation workloads")
	flags.IntVar(&windowMin, "window-min", bench.DefaultWindowMin,
		"Minimum window size for windowed workloads")
	flags.IntVar(&windowMax, "window-max", bench.DefaultWindowMax,
		"Maximum window size for windowed workloads (exclusive)")
	flags.IntVar(&jump, "jump", bench.DefaultJump,
		"Jump length for the headlocal workload")
	flags.StringVar(&suitePath, "suite", "",
		"Path to a YAML suite file (overrides workload flags)")
	flags.BoolVar(&reportMD, "report", false,
		"Output a markdown comparison table instead of the plain summary")
	flags.BoolVar(&outputJSON, "json", false,
		"Output results as JSON instead of the plain summary")

	return cmd
}

type runConfig struct {
	registry   string
	corpus     string
	attribute  string
	runs       int
	seed       int64
	workloads  []string
	ops        int
	pattern    string
	structural string
	windowMin  int
	windowMax  int
	jump       int
	suitePath  string
	reportMD   bool
	outputJSON bool
}

func runBenchmark(
	ctx context.Context,
	logger *slog.Logger,
	cfg runConfig,
) error {
	registry := cfg.registry
	corpusName := cfg.corpus
	attribute := cfg.attribute
	runs := cfg.runs
	seed := cfg.seed

	// Step 1: Assemble the workload list (flags or suite file).
	var workloads []bench.WorkloadConfig

	if cfg.suitePath != "" {
		suite, err := bench.LoadSuite(cfg.suitePath)
		if err != nil {
			return err
		}

		registry = suite.Registry
		corpusName = suite.Corpus
		attribute = suite.Attribute
		runs = suite.Runs
		seed = suite.Seed
		workloads = suite.Workloads
	} else {
		for _, name := range cfg.workloads {
			workloads = append(workloads, bench.WorkloadConfig{
				Name:       name,
				Ops:        cfg.ops,
				WindowMin:  cfg.windowMin,
				WindowMax:  cfg.windowMax,
				Jump:       cfg.jump,
				Pattern:    cfg.pattern,
				Structural: cfg.structural,
			})
		}
	}

	logger.InfoContext(ctx, "starting benchmark",
		slog.String("registry", registry),
		slog.String("corpus", corpusName),
		slog.String("attribute", attribute),
		slog.Int("runs", runs),
		slog.Int64("seed", seed),
		slog.Int("workloads", len(workloads)),
	)

	// Step 2: Execute the workloads.
	runner := bench.NewRunner(registry, corpusName, attribute, logger)

	res, err := runner.Run(ctx, bench.RunConfig{
		Runs:      runs,
		Seed:      seed,
		Workloads: workloads,
	})
	if err != nil {
		return err
	}

	// Step 3: Report to stdout; logs stay on stderr.
	switch {
	case cfg.outputJSON:
		if err := report.GenerateJSON(os.Stdout, res); err != nil {
			return fmt.Errorf("generate JSON report: %w", err)
		}
	case cfg.reportMD:
		if err := report.Generate(os.Stdout, res); err != nil {
			return fmt.Errorf("generate report: %w", err)
		}
	default:
		if err := report.GeneratePlain(os.Stdout, res); err != nil {
			return fmt.Errorf("generate report: %w", err)
		}
	}

	logger.InfoContext(ctx, "benchmark complete",
		slog.String("run_id", res.RunID),
	)

	return nil
}
