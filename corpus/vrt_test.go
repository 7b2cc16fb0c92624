package corpus

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const sampleVRT = "<!-- #vrt positional-attributes: word pos -->\n" +
	"<text id=\"t1\">\n" +
	"<s>\n" +
	"the\tDT\n" +
	"quick\tJJ\n" +
	"brown\tJJ\n" +
	"</s>\n" +
	"<s>\n" +
	"fox\tNN\n" +
	"jumps\tVB\n" +
	"</s>\n" +
	"</text>\n"

func TestReadVRTBasic(t *testing.T) {
	c, err := ReadVRT(strings.NewReader(sampleVRT), "sample")
	if err != nil {
		t.Fatalf("parsing failed: %v", err)
	}

	if c.Name() != "sample" {
		t.Errorf("Name() = %q, want sample", c.Name())
	}
	if c.Size() != 5 {
		t.Errorf("Size() = %d, want 5", c.Size())
	}

	if diff := cmp.Diff([]string{"word", "pos"}, c.Positionals()); diff != "" {
		t.Errorf("Positionals() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"text", "s"}, c.Structurals()); diff != "" {
		t.Errorf("Structurals() mismatch (-want +got):\n%s", diff)
	}

	word, err := c.Positional("word")
	if err != nil {
		t.Fatalf("opening word attribute failed: %v", err)
	}
	if got, _ := word.Get(3); got != "fox" {
		t.Errorf("word at 3 = %q, want fox", got)
	}

	pos, err := c.Positional("pos")
	if err != nil {
		t.Fatalf("opening pos attribute failed: %v", err)
	}
	if got, _ := pos.Get(0); got != "DT" {
		t.Errorf("pos at 0 = %q, want DT", got)
	}

	s, err := c.Structural("s")
	if err != nil {
		t.Fatalf("opening s attribute failed: %v", err)
	}
	if s.Count() != 2 {
		t.Fatalf("sentence count = %d, want 2", s.Count())
	}
	second, err := s.Span(1)
	if err != nil {
		t.Fatalf("Span(1) failed: %v", err)
	}
	if second != (Span{Start: 3, End: 5}) {
		t.Errorf("sentence 1 = %+v, want [3,5)", second)
	}
	if _, ok := s.Value(0); ok {
		t.Error("sentence 0 has annotation, want none")
	}

	text, err := c.Structural("text")
	if err != nil {
		t.Fatalf("opening text attribute failed: %v", err)
	}
	if text.Count() != 1 {
		t.Fatalf("text count = %d, want 1", text.Count())
	}
	if v, ok := text.Value(0); !ok || v != `id="t1"` {
		t.Errorf("text annotation = %q, %v, want id=\"t1\", true", v, ok)
	}
}

func TestReadVRTDefaultColumn(t *testing.T) {
	input := "hello\nworld\n"

	c, err := ReadVRT(strings.NewReader(input), "tiny")
	if err != nil {
		t.Fatalf("parsing failed: %v", err)
	}

	if diff := cmp.Diff([]string{"word"}, c.Positionals()); diff != "" {
		t.Errorf("Positionals() mismatch (-want +got):\n%s", diff)
	}
	if c.Size() != 2 {
		t.Errorf("Size() = %d, want 2", c.Size())
	}
}

func TestReadVRTBlankLinesSkipped(t *testing.T) {
	input := "hello\n\n  \nworld\n"

	c, err := ReadVRT(strings.NewReader(input), "tiny")
	if err != nil {
		t.Fatalf("parsing failed: %v", err)
	}
	if c.Size() != 2 {
		t.Errorf("Size() = %d, want 2", c.Size())
	}
}

func TestReadVRTUnclosedRegionEndsAtEOF(t *testing.T) {
	input := "<s>\nhello\nworld\n"

	c, err := ReadVRT(strings.NewReader(input), "tiny")
	if err != nil {
		t.Fatalf("parsing failed: %v", err)
	}

	s, err := c.Structural("s")
	if err != nil {
		t.Fatalf("opening s attribute failed: %v", err)
	}
	if s.Count() != 1 {
		t.Fatalf("sentence count = %d, want 1", s.Count())
	}
	span, err := s.Span(0)
	if err != nil {
		t.Fatalf("Span(0) failed: %v", err)
	}
	if span != (Span{Start: 0, End: 2}) {
		t.Errorf("sentence 0 = %+v, want [0,2)", span)
	}
}

func TestReadVRTEmptyRegionDropped(t *testing.T) {
	input := "hello\n<s>\n</s>\nworld\n"

	c, err := ReadVRT(strings.NewReader(input), "tiny")
	if err != nil {
		t.Fatalf("parsing failed: %v", err)
	}

	if _, err := c.Structural("s"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Structural(\"s\") error = %v, want ErrNotFound", err)
	}
}

func TestReadVRTErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{
			name:  "multi column without declaration",
			input: "the\tDT\n",
		},
		{
			name:  "field count mismatch",
			input: "<!-- #vrt positional-attributes: word pos -->\nthe\n",
		},
		{
			name:  "duplicate declaration",
			input: "<!-- #vrt positional-attributes: word -->\n<!-- #vrt positional-attributes: word -->\n",
		},
		{
			name:  "empty declaration",
			input: "<!-- #vrt positional-attributes: -->\n",
		},
		{
			name:  "reopen before close",
			input: "<s>\nhello\n<s>\nworld\n</s>\n",
		},
		{
			name:  "close without open",
			input: "hello\n</s>\n",
		},
		{
			name:  "unterminated tag",
			input: "<s\nhello\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadVRT(strings.NewReader(tt.input), "bad"); err == nil {
				t.Error("parsing succeeded, want error")
			}
		})
	}
}

func TestOpen(t *testing.T) {
	registry := t.TempDir()
	path := filepath.Join(registry, "tiny.vrt")
	if err := os.WriteFile(path, []byte(sampleVRT), 0o644); err != nil {
		t.Fatalf("writing fixture failed: %v", err)
	}

	c, err := Open(registry, "tiny")
	if err != nil {
		t.Fatalf("opening corpus failed: %v", err)
	}
	defer c.Close()

	if c.Name() != "tiny" {
		t.Errorf("Name() = %q, want tiny", c.Name())
	}
	if c.Size() != 5 {
		t.Errorf("Size() = %d, want 5", c.Size())
	}
}

func TestOpenMissingCorpus(t *testing.T) {
	if _, err := Open(t.TempDir(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}
