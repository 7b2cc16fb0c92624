package bench

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Suite describes a full benchmark invocation in a YAML file: the
// corpus coordinates, run count, seed, and the workload list. Omitted
// coordinates fall back to the canonical defaults; runs must be set.
type Suite struct {
	Registry  string           `yaml:"registry"`
	Corpus    string           `yaml:"corpus"`
	Attribute string           `yaml:"attribute"`
	Runs      int              `yaml:"runs"`
	Seed      int64            `yaml:"seed"`
	Workloads []WorkloadConfig `yaml:"workloads"`
}

// LoadSuite reads a suite file, fills in defaults, and validates it.
func LoadSuite(path string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read suite: %w", err)
	}

	var s Suite
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse suite %s: %w", path, err)
	}

	s.applyDefaults()

	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("suite %s: %w", path, err)
	}

	return &s, nil
}

func (s *Suite) applyDefaults() {
	if s.Registry == "" {
		s.Registry = DefaultRegistry
	}
	if s.Corpus == "" {
		s.Corpus = DefaultCorpus
	}
	if s.Attribute == "" {
		s.Attribute = DefaultAttribute
	}
	if s.Seed == 0 {
		s.Seed = DefaultSeed
	}
}

// Validate checks the suite for fields the runner would reject.
func (s *Suite) Validate() error {
	if s.Runs < 1 {
		return fmt.Errorf("runs must be positive, got %d", s.Runs)
	}
	if len(s.Workloads) == 0 {
		return errors.New("no workloads listed")
	}

	for i, w := range s.Workloads {
		if w.Name == "" {
			return fmt.Errorf("workload %d: missing name", i)
		}
		if !IsKnownWorkload(w.Name) {
			return fmt.Errorf("workload %d: unknown workload %q", i, w.Name)
		}
	}

	return nil
}
