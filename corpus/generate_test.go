package corpus

import (
	"bytes"
	"testing"
)

func TestGenerateDeterministic(t *testing.T) {
	cfg := GenConfig{
		Tokens:      500,
		Vocabulary:  100,
		SentenceMin: 5,
		SentenceMax: 15,
		Seed:        42,
	}

	var buf1, buf2 bytes.Buffer

	gen1, err := NewGenerator(cfg)
	if err != nil {
		t.Fatalf("creating generator failed: %v", err)
	}
	sum1, err := gen1.Generate(&buf1)
	if err != nil {
		t.Fatalf("first generation failed: %v", err)
	}

	gen2, err := NewGenerator(cfg)
	if err != nil {
		t.Fatalf("creating generator failed: %v", err)
	}
	sum2, err := gen2.Generate(&buf2)
	if err != nil {
		t.Fatalf("second generation failed: %v", err)
	}

	if buf1.String() != buf2.String() {
		t.Error("output is not deterministic for same seed")
	}
	if sum1 != sum2 {
		t.Errorf("summaries differ: %+v vs %+v", sum1, sum2)
	}
}

func TestGenerateParses(t *testing.T) {
	cfg := GenConfig{
		Tokens:      1000,
		Vocabulary:  200,
		SentenceMin: 3,
		SentenceMax: 12,
		Seed:        7,
	}

	var buf bytes.Buffer
	gen, err := NewGenerator(cfg)
	if err != nil {
		t.Fatalf("creating generator failed: %v", err)
	}
	sum, err := gen.Generate(&buf)
	if err != nil {
		t.Fatalf("generation failed: %v", err)
	}

	c, err := ReadVRT(&buf, "synthetic")
	if err != nil {
		t.Fatalf("generated output does not parse: %v", err)
	}

	if c.Size() != cfg.Tokens {
		t.Errorf("Size() = %d, want %d", c.Size(), cfg.Tokens)
	}
	if sum.Tokens != cfg.Tokens {
		t.Errorf("summary tokens = %d, want %d", sum.Tokens, cfg.Tokens)
	}

	word, err := c.Positional("word")
	if err != nil {
		t.Fatalf("opening word attribute failed: %v", err)
	}
	if _, err := c.Positional("pos"); err != nil {
		t.Fatalf("opening pos attribute failed: %v", err)
	}

	if word.Types() > cfg.Vocabulary {
		t.Errorf("Types() = %d, want at most %d", word.Types(), cfg.Vocabulary)
	}
	if sum.Types != word.Types() {
		t.Errorf("summary types = %d, corpus has %d", sum.Types, word.Types())
	}

	sents, err := c.Structural("s")
	if err != nil {
		t.Fatalf("opening s attribute failed: %v", err)
	}
	if sents.Count() != sum.Sentences {
		t.Errorf("sentence count = %d, summary says %d", sents.Count(), sum.Sentences)
	}

	// All sentences respect the length bounds except the final one,
	// which may be truncated to hit the exact token count.
	for i := 0; i < sents.Count(); i++ {
		span, err := sents.Span(i)
		if err != nil {
			t.Fatalf("Span(%d) failed: %v", i, err)
		}

		if span.Len() > cfg.SentenceMax {
			t.Errorf("sentence %d has %d tokens, want at most %d", i, span.Len(), cfg.SentenceMax)
		}
		if i < sents.Count()-1 && span.Len() < cfg.SentenceMin {
			t.Errorf("sentence %d has %d tokens, want at least %d", i, span.Len(), cfg.SentenceMin)
		}
	}

	texts, err := c.Structural("text")
	if err != nil {
		t.Fatalf("opening text attribute failed: %v", err)
	}
	if texts.Count() != sum.Texts {
		t.Errorf("text count = %d, summary says %d", texts.Count(), sum.Texts)
	}
}

func TestGeneratorValidation(t *testing.T) {
	tests := []struct {
		name string
		cfg  GenConfig
	}{
		{name: "zero tokens", cfg: GenConfig{Tokens: 0, Vocabulary: 10, SentenceMin: 1, SentenceMax: 5}},
		{name: "tiny vocabulary", cfg: GenConfig{Tokens: 10, Vocabulary: 1, SentenceMin: 1, SentenceMax: 5}},
		{name: "zero sentence min", cfg: GenConfig{Tokens: 10, Vocabulary: 10, SentenceMin: 0, SentenceMax: 5}},
		{name: "inverted bounds", cfg: GenConfig{Tokens: 10, Vocabulary: 10, SentenceMin: 6, SentenceMax: 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewGenerator(tt.cfg); err == nil {
				t.Error("config accepted, want error")
			}
		})
	}
}

func TestWordForType(t *testing.T) {
	seen := make(map[string]int)
	for id := 0; id < 1000; id++ {
		w := wordForType(id)
		if w == "" {
			t.Fatalf("wordForType(%d) is empty", id)
		}
		if prev, ok := seen[w]; ok {
			t.Fatalf("wordForType collision: %d and %d both map to %q", prev, id, w)
		}
		seen[w] = id
	}
}
