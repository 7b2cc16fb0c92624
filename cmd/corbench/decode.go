package main

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/weiihann/corbench/bench"
	"github.com/weiihann/corbench/corpus"
)

func newDecodeCmd(logger *slog.Logger) *cobra.Command {
	var registry, corpusName string

	cmd := &cobra.Command{
		Use:   "decode",
		Short: "Dump a corpus token by token with structural tags",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := corpus.Open(registry, corpusName)
			if err != nil {
				return err
			}
			defer c.Close()

			logger.InfoContext(cmd.Context(), "decoding corpus",
				slog.String("corpus", corpusName),
				slog.Int("positions", c.Size()),
			)

			return decodeCorpus(os.Stdout, c)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&registry, "registry", bench.DefaultRegistry,
		"Corpus registry directory")
	flags.StringVar(&corpusName, "corpus", bench.DefaultCorpus,
		"Corpus name")

	return cmd
}

// decodeCorpus prints every token position with its positional values,
// bracketed by the structural tags opening and closing there. Open
// tags appear in attribute order, close tags reversed, so nested
// regions stay properly paired.
func decodeCorpus(w io.Writer, c corpus.Corpus) error {
	bw := bufio.NewWriter(w)

	posNames := c.Positionals()
	attrs := make([]corpus.Positional, len(posNames))
	for i, name := range posNames {
		attr, err := c.Positional(name)
		if err != nil {
			return err
		}
		attrs[i] = attr
	}

	strucNames := c.Structurals()
	strucs := make([]corpus.Structural, len(strucNames))
	for i, name := range strucNames {
		s, err := c.Structural(name)
		if err != nil {
			return err
		}
		strucs[i] = s
	}

	for pos := 0; pos < c.Size(); pos++ {
		for i, s := range strucs {
			if s.Boundary(pos)&corpus.BoundaryStart == 0 {
				continue
			}

			idx, _ := s.Containing(pos)
			if v, ok := s.Value(idx); ok {
				fmt.Fprintf(bw, "<%s %s>\n", strucNames[i], v)
			} else {
				fmt.Fprintf(bw, "<%s>\n", strucNames[i])
			}
		}

		fmt.Fprintf(bw, "%d", pos)
		for _, attr := range attrs {
			v, err := attr.Get(pos)
			if err != nil {
				return err
			}
			fmt.Fprintf(bw, "\t%s", v)
		}
		fmt.Fprintln(bw)

		for i := len(strucs) - 1; i >= 0; i-- {
			if strucs[i].Boundary(pos)&corpus.BoundaryEnd != 0 {
				fmt.Fprintf(bw, "</%s>\n", strucNames[i])
			}
		}
	}

	return bw.Flush()
}
