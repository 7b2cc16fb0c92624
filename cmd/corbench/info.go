package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/weiihann/corbench/bench"
	"github.com/weiihann/corbench/corpus"
)

func newInfoCmd(logger *slog.Logger) *cobra.Command {
	var registry, corpusName string

	cmd := &cobra.Command{
		Use:   "info",
		Short: "List a corpus's attributes and sizes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := corpus.Open(registry, corpusName)
			if err != nil {
				return err
			}
			defer c.Close()

			logger.InfoContext(cmd.Context(), "inspecting corpus",
				slog.String("corpus", corpusName),
			)

			return infoCorpus(os.Stdout, c)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&registry, "registry", bench.DefaultRegistry,
		"Corpus registry directory")
	flags.StringVar(&corpusName, "corpus", bench.DefaultCorpus,
		"Corpus name")

	return cmd
}

func infoCorpus(w io.Writer, c corpus.Corpus) error {
	fmt.Fprintf(w, "corpus: %s\n", c.Name())
	fmt.Fprintf(w, "positions: %d\n", c.Size())

	if names := c.Positionals(); len(names) > 0 {
		fmt.Fprintln(w, "positional attributes:")

		for _, name := range names {
			attr, err := c.Positional(name)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "  %s (%d types)\n", name, attr.Types())
		}
	}

	if names := c.Structurals(); len(names) > 0 {
		fmt.Fprintln(w, "structural attributes:")

		for _, name := range names {
			s, err := c.Structural(name)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "  %s (%d regions)\n", name, s.Count())
		}
	}

	return nil
}
