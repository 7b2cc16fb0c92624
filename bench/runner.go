package bench

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	mrand "math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/weiihann/corbench/corpus"
)

// Canonical benchmark target, used as flag and suite defaults.
const (
	DefaultRegistry  = "testdata/registry"
	DefaultCorpus    = "simpledickens"
	DefaultAttribute = "word"
	DefaultRuns      = 10
	DefaultSeed      = 42
)

// ErrEmptyCorpus reports an attribute with no positions to decode.
var ErrEmptyCorpus = errors.New("corpus has no positions")

// Opener opens a corpus by registry path and name. It exists so tests
// can substitute an engine for the on-disk registry.
type Opener func(registry, name string) (corpus.Corpus, error)

// RunConfig holds parameters for a single benchmark invocation.
type RunConfig struct {
	Runs      int
	Seed      int64
	Workloads []WorkloadConfig
}

// Runner executes access workloads against one corpus attribute.
type Runner struct {
	Registry  string
	Corpus    string
	Attribute string
	Logger    *slog.Logger
	Open      Opener
}

// NewRunner creates a Runner for the named corpus and attribute.
func NewRunner(registry, corpusName, attribute string, logger *slog.Logger) *Runner {
	return &Runner{
		Registry:  registry,
		Corpus:    corpusName,
		Attribute: attribute,
		Logger: logger.With(
			slog.String("corpus", corpusName),
			slog.String("attribute", attribute),
		),
		Open: corpus.Open,
	}
}

// Run opens the corpus and executes every configured workload in
// order. Setup work (corpus open, position stream generation, type ID
// resolution) happens before timing starts; the measured section is
// the repetition loop alone. Execution is strictly sequential: every
// engine call completes before the next one starts, and ctx is only
// consulted between workloads, never inside a timed loop.
func (r *Runner) Run(ctx context.Context, cfg RunConfig) (*Result, error) {
	if cfg.Runs < 1 {
		return nil, fmt.Errorf("runs must be positive, got %d", cfg.Runs)
	}
	if len(cfg.Workloads) == 0 {
		return nil, errors.New("no workloads configured")
	}

	open := r.Open
	if open == nil {
		open = corpus.Open
	}

	c, err := open(r.Registry, r.Corpus)
	if err != nil {
		return nil, fmt.Errorf("open corpus: %w", err)
	}
	defer c.Close()

	attr, err := c.Positional(r.Attribute)
	if err != nil {
		return nil, fmt.Errorf("open attribute: %w", err)
	}

	max := attr.Max()
	if max <= 0 {
		return nil, fmt.Errorf("attribute %q: %w", r.Attribute, ErrEmptyCorpus)
	}

	r.Logger.Info("corpus opened",
		slog.Int("positions", max),
		slog.Int("runs", cfg.Runs),
	)

	result := &Result{
		RunID:     uuid.NewString(),
		Corpus:    r.Corpus,
		Attribute: r.Attribute,
		Positions: max,
		StartedAt: time.Now(),
	}

	for _, wcfg := range cfg.Workloads {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		// Each workload draws from a fresh generator, so its position
		// stream only depends on the seed, not on which other
		// workloads run alongside it.
		rng := mrand.New(mrand.NewSource(cfg.Seed))

		w, err := prepareWorkload(c, attr, wcfg, rng)
		if err != nil {
			return nil, fmt.Errorf("workload %s: %w", wcfg.Name, err)
		}

		wr, err := r.runWorkload(w, cfg.Runs)
		if err != nil {
			return nil, fmt.Errorf("workload %s: %w", w.name, err)
		}

		result.Workloads = append(result.Workloads, *wr)
	}

	return result, nil
}

func (r *Runner) runWorkload(w *workload, runs int) (*WorkloadResult, error) {
	r.Logger.Info("starting workload",
		slog.String("workload", w.name),
		slog.Int("operations", w.ops),
	)

	var (
		chars      int
		matches    int
		minRun     time.Duration
		maxRun     time.Duration
		totalRunNs int64
	)

	start := time.Now()

	for i := 0; i < runs; i++ {
		runStart := time.Now()

		c, m, err := w.pass()
		if err != nil {
			return nil, err
		}

		runElapsed := time.Since(runStart)

		chars += c
		matches += m
		totalRunNs += runElapsed.Nanoseconds()

		if i == 0 || runElapsed < minRun {
			minRun = runElapsed
		}
		if runElapsed > maxRun {
			maxRun = runElapsed
		}
	}

	elapsed := time.Since(start)
	nsPerIter := elapsed.Nanoseconds() / int64(runs)

	opsPerSec := 0.0
	if elapsed > 0 {
		opsPerSec = float64(w.ops) * float64(runs) / elapsed.Seconds()
	}

	r.Logger.Info("workload finished",
		slog.String("workload", w.name),
		slog.Duration("elapsed", elapsed),
		slog.Int64("ns_per_iter", nsPerIter),
	)

	return &WorkloadResult{
		Workload:   w.name,
		Runs:       runs,
		Operations: w.ops,
		TotalChars: chars,
		Matches:    matches,
		ElapsedNs:  elapsed.Nanoseconds(),
		NsPerIter:  nsPerIter,
		OpsPerSec:  opsPerSec,
		MinRunNs:   minRun.Nanoseconds(),
		AvgRunNs:   totalRunNs / int64(runs),
		MaxRunNs:   maxRun.Nanoseconds(),
	}, nil
}
