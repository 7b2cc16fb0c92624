package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/weiihann/corbench/bench"
	"github.com/weiihann/corbench/corpus"
)

func newGenerateCmd(logger *slog.Logger) *cobra.Command {
	var cfg generateConfig

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a synthetic VRT corpus into the registry",
		Long: `Generate a deterministic synthetic corpus with word and pos columns
and text/sentence structure, written to <registry>/<corpus>.vrt.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGenerate(cmd.Context(), logger, cfg)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&cfg.registry, "registry", bench.DefaultRegistry,
		"Corpus registry directory")
	flags.StringVar(&cfg.corpus, "corpus", "synthetic",
		"Name for the generated corpus")
	flags.IntVar(&cfg.tokens, "tokens", 100000,
		"Number of tokens to generate")
	flags.IntVar(&cfg.vocabulary, "vocabulary", 5000,
		"Vocabulary size")
	flags.IntVar(&cfg.sentenceMin, "sentence-min", 5,
		"Minimum sentence length in tokens")
	flags.IntVar(&cfg.sentenceMax, "sentence-max", 25,
		"Maximum sentence length in tokens")
	flags.Int64Var(&cfg.seed, "seed", bench.DefaultSeed,
		"Random seed (0 = use current time)")

	return cmd
}

type generateConfig struct {
	registry    string
	corpus      string
	tokens      int
	vocabulary  int
	sentenceMin int
	sentenceMax int
	seed        int64
}

func runGenerate(
	ctx context.Context,
	logger *slog.Logger,
	cfg generateConfig,
) error {
	seed := cfg.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	gen, err := corpus.NewGenerator(corpus.GenConfig{
		Tokens:      cfg.tokens,
		Vocabulary:  cfg.vocabulary,
		SentenceMin: cfg.sentenceMin,
		SentenceMax: cfg.sentenceMax,
		Seed:        seed,
	})
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.registry, 0o755); err != nil {
		return fmt.Errorf("create registry dir: %w", err)
	}

	path := filepath.Join(cfg.registry, cfg.corpus+".vrt")

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create corpus file: %w", err)
	}

	summary, err := gen.Generate(f)
	if err != nil {
		f.Close()
		os.Remove(path)

		return fmt.Errorf("generate: %w", err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("close corpus file: %w", err)
	}

	logger.InfoContext(ctx, "corpus generated",
		slog.String("path", path),
		slog.Int("tokens", summary.Tokens),
		slog.Int("sentences", summary.Sentences),
		slog.Int("texts", summary.Texts),
		slog.Int("types", summary.Types),
	)

	return nil
}
