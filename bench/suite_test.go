package bench

import (
	"os"
	"path/filepath"
	"testing"
)

func writeSuite(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "suite.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing suite failed: %v", err)
	}

	return path
}

func TestLoadSuite(t *testing.T) {
	path := writeSuite(t, `
corpus: tiny
runs: 3
workloads:
  - name: sequential
  - name: random
    ops: 100
  - name: window-sequential
    window_min: 5
    window_max: 9
  - name: regex-scan
    pattern: "th.*"
`)

	s, err := LoadSuite(path)
	if err != nil {
		t.Fatalf("loading suite failed: %v", err)
	}

	if s.Corpus != "tiny" {
		t.Errorf("corpus = %q, want tiny", s.Corpus)
	}
	if s.Registry != DefaultRegistry {
		t.Errorf("registry = %q, want default %q", s.Registry, DefaultRegistry)
	}
	if s.Attribute != DefaultAttribute {
		t.Errorf("attribute = %q, want default %q", s.Attribute, DefaultAttribute)
	}
	if s.Runs != 3 {
		t.Errorf("runs = %d, want 3", s.Runs)
	}
	if s.Seed != DefaultSeed {
		t.Errorf("seed = %d, want default %d", s.Seed, DefaultSeed)
	}

	if len(s.Workloads) != 4 {
		t.Fatalf("got %d workloads, want 4", len(s.Workloads))
	}
	if s.Workloads[1].Ops != 100 {
		t.Errorf("random ops = %d, want 100", s.Workloads[1].Ops)
	}
	if s.Workloads[2].WindowMin != 5 || s.Workloads[2].WindowMax != 9 {
		t.Errorf("windows = [%d,%d), want [5,9)",
			s.Workloads[2].WindowMin, s.Workloads[2].WindowMax)
	}
	if s.Workloads[3].Pattern != "th.*" {
		t.Errorf("pattern = %q, want th.*", s.Workloads[3].Pattern)
	}
}

func TestLoadSuiteErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name: "unknown workload",
			content: `
runs: 3
workloads:
  - name: turbo
`,
		},
		{
			name: "missing workload name",
			content: `
runs: 3
workloads:
  - ops: 100
`,
		},
		{
			name: "zero runs",
			content: `
workloads:
  - name: sequential
`,
		},
		{
			name: "negative runs",
			content: `
runs: -1
workloads:
  - name: sequential
`,
		},
		{
			name: "no workloads",
			content: `
runs: 3
`,
		},
		{
			name:    "not yaml",
			content: "{{{",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeSuite(t, tt.content)
			if _, err := LoadSuite(path); err == nil {
				t.Error("loading succeeded, want error")
			}
		})
	}
}

func TestLoadSuiteMissingFile(t *testing.T) {
	if _, err := LoadSuite(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("loading succeeded, want error")
	}
}
