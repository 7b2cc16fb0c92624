package bench

import (
	"fmt"
	mrand "math/rand"
	"regexp"
	"sort"

	"github.com/weiihann/corbench/corpus"
)

// Default workload parameters, applied where a config leaves the
// zero value.
const (
	DefaultWindowMin  = 20
	DefaultWindowMax  = 50
	DefaultJump       = 10
	DefaultPattern    = "ziggurat"
	DefaultStructural = "s"

	maxJumpsPerHead = 10
)

// WorkloadConfig names an access pattern and its parameters. Zero
// values fall back to defaults; an operation count of zero means one
// operation per corpus position.
type WorkloadConfig struct {
	Name       string `yaml:"name"`
	Ops        int    `yaml:"ops"`
	WindowMin  int    `yaml:"window_min"`
	WindowMax  int    `yaml:"window_max"`
	Jump       int    `yaml:"jump"`
	Pattern    string `yaml:"pattern"`
	Structural string `yaml:"structural"`
}

// KnownWorkloads returns the workload names the runner understands.
func KnownWorkloads() []string {
	return []string{
		"sequential",
		"random",
		"window-sequential",
		"window-random",
		"alternating",
		"headlocal",
		"scan",
		"regex-scan",
		"lexicon",
		"regex-lexicon",
		"postings-decode",
		"postings-gather",
		"seg-sequential",
		"seg-random",
		"seg-lookup",
		"seg-start",
		"join",
	}
}

// IsKnownWorkload reports whether name is a workload the runner can
// execute.
func IsKnownWorkload(name string) bool {
	for _, w := range KnownWorkloads() {
		if w == name {
			return true
		}
	}

	return false
}

func (cfg WorkloadConfig) withDefaults(maxPos int) WorkloadConfig {
	if cfg.Ops <= 0 {
		cfg.Ops = maxPos
	}
	if cfg.WindowMin <= 0 {
		cfg.WindowMin = DefaultWindowMin
	}
	if cfg.WindowMax <= cfg.WindowMin {
		cfg.WindowMax = cfg.WindowMin + (DefaultWindowMax - DefaultWindowMin)
	}
	if cfg.Jump <= 0 {
		cfg.Jump = DefaultJump
	}
	if cfg.Pattern == "" {
		cfg.Pattern = DefaultPattern
	}
	if cfg.Structural == "" {
		cfg.Structural = DefaultStructural
	}

	return cfg
}

// workload is a prepared access pattern. pass executes one full
// iteration and returns the characters decoded and pattern matches
// seen. All position streams are generated before timing starts.
type workload struct {
	name string
	ops  int
	pass func() (chars, matches int, err error)
}

// prepareWorkload resolves a config against an open corpus: position
// streams are drawn from rng, patterns are compiled, and structural
// attributes are opened, all outside the timed section. Regex
// compilation stays inside scan and lexicon passes since matcher
// setup is part of what those patterns measure.
func prepareWorkload(c corpus.Corpus, attr corpus.Positional, cfg WorkloadConfig, rng *mrand.Rand) (*workload, error) {
	cfg = cfg.withDefaults(attr.Max())
	max := attr.Max()

	switch cfg.Name {
	case "sequential":
		return &workload{
			name: cfg.Name,
			ops:  max,
			pass: func() (int, int, error) {
				chars := 0
				for pos := 0; pos < max; pos++ {
					s, err := attr.Get(pos)
					if err != nil {
						return 0, 0, err
					}
					chars += len(s)
				}

				return chars, 0, nil
			},
		}, nil

	case "random":
		positions := randomPositions(rng, cfg.Ops, max)

		return &workload{name: cfg.Name, ops: len(positions), pass: decodePass(attr, positions)}, nil

	case "window-sequential", "window-random":
		windows := randomWindows(rng, cfg.Ops, max, cfg.WindowMin, cfg.WindowMax)
		if cfg.Name == "window-sequential" {
			sort.Slice(windows, func(i, j int) bool {
				return windows[i].Start < windows[j].Start
			})
		}

		return &workload{name: cfg.Name, ops: spanTotal(windows), pass: windowPass(attr, windows)}, nil

	case "alternating":
		windows := randomWindows(rng, cfg.Ops, max, cfg.WindowMin, cfg.WindowMax)

		return &workload{name: cfg.Name, ops: spanTotal(windows), pass: zigzagPass(attr, windows)}, nil

	case "headlocal":
		positions := headlocalJumps(rng, cfg.Ops, max, cfg.Jump)

		return &workload{name: cfg.Name, ops: len(positions), pass: decodePass(attr, positions)}, nil

	case "scan":
		pattern := cfg.Pattern

		return &workload{
			name: cfg.Name,
			ops:  max,
			pass: func() (int, int, error) {
				chars, matches := 0, 0
				for pos := 0; pos < max; pos++ {
					s, err := attr.Get(pos)
					if err != nil {
						return 0, 0, err
					}
					chars += len(s)
					if s == pattern {
						matches++
					}
				}

				return chars, matches, nil
			},
		}, nil

	case "regex-scan":
		pattern := anchoredPattern(cfg.Pattern)
		if _, err := regexp.Compile(pattern); err != nil {
			return nil, fmt.Errorf("pattern %q: %w", cfg.Pattern, err)
		}

		return &workload{
			name: cfg.Name,
			ops:  max,
			pass: func() (int, int, error) {
				re, err := regexp.Compile(pattern)
				if err != nil {
					return 0, 0, err
				}

				chars, matches := 0, 0
				for pos := 0; pos < max; pos++ {
					s, err := attr.Get(pos)
					if err != nil {
						return 0, 0, err
					}
					chars += len(s)
					if re.MatchString(s) {
						matches++
					}
				}

				return chars, matches, nil
			},
		}, nil

	case "lexicon":
		pattern := cfg.Pattern

		return &workload{
			name: cfg.Name,
			ops:  1,
			pass: func() (int, int, error) {
				if id, ok := attr.ID(pattern); ok {
					return 0, attr.Freq(id), nil
				}

				return 0, 0, nil
			},
		}, nil

	case "regex-lexicon":
		pattern := anchoredPattern(cfg.Pattern)
		if _, err := regexp.Compile(pattern); err != nil {
			return nil, fmt.Errorf("pattern %q: %w", cfg.Pattern, err)
		}

		return &workload{
			name: cfg.Name,
			ops:  attr.Types(),
			pass: func() (int, int, error) {
				re, err := regexp.Compile(pattern)
				if err != nil {
					return 0, 0, err
				}

				return 0, len(attr.MatchingIDs(re)), nil
			},
		}, nil

	case "postings-decode":
		ids, err := matchingIDs(attr, cfg.Pattern)
		if err != nil {
			return nil, err
		}

		return &workload{
			name: cfg.Name,
			ops:  len(ids),
			pass: func() (int, int, error) {
				matches := 0
				for _, id := range ids {
					positions, err := attr.Positions(id)
					if err != nil {
						return 0, 0, err
					}
					matches += len(positions)
				}

				return 0, matches, nil
			},
		}, nil

	case "postings-gather":
		ids, err := matchingIDs(attr, cfg.Pattern)
		if err != nil {
			return nil, err
		}

		return &workload{
			name: cfg.Name,
			ops:  len(ids),
			pass: func() (int, int, error) {
				return 0, len(attr.GatherPositions(ids)), nil
			},
		}, nil

	case "seg-sequential":
		seg, err := openSegmentation(c, cfg.Structural)
		if err != nil {
			return nil, err
		}
		n := seg.Count()

		return &workload{
			name: cfg.Name,
			ops:  n,
			pass: func() (int, int, error) {
				matches := 0
				for i := 0; i < n; i++ {
					span, err := seg.Span(i)
					if err != nil {
						return 0, 0, err
					}
					matches += span.Len()
				}

				return 0, matches, nil
			},
		}, nil

	case "seg-random":
		seg, err := openSegmentation(c, cfg.Structural)
		if err != nil {
			return nil, err
		}

		indices := randomPositions(rng, cfg.Ops, seg.Count())

		return &workload{
			name: cfg.Name,
			ops:  len(indices),
			pass: func() (int, int, error) {
				matches := 0
				for _, i := range indices {
					span, err := seg.Span(i)
					if err != nil {
						return 0, 0, err
					}
					matches += span.Len()
				}

				return 0, matches, nil
			},
		}, nil

	case "seg-lookup":
		seg, err := openSegmentation(c, cfg.Structural)
		if err != nil {
			return nil, err
		}

		return &workload{
			name: cfg.Name,
			ops:  max,
			pass: func() (int, int, error) {
				matches := 0
				for pos := 0; pos < max; pos++ {
					if _, ok := seg.Containing(pos); ok {
						matches++
					}
				}

				return 0, matches, nil
			},
		}, nil

	case "seg-start":
		seg, err := openSegmentation(c, cfg.Structural)
		if err != nil {
			return nil, err
		}

		return &workload{
			name: cfg.Name,
			ops:  max,
			pass: func() (int, int, error) {
				matches := 0
				for pos := 0; pos < max; pos++ {
					if seg.Boundary(pos)&corpus.BoundaryStart != 0 {
						matches++
					}
				}

				return 0, matches, nil
			},
		}, nil

	case "join":
		seg, err := openSegmentation(c, cfg.Structural)
		if err != nil {
			return nil, err
		}

		positions := randomPositions(rng, cfg.Ops, max)

		return &workload{
			name: cfg.Name,
			ops:  len(positions),
			pass: func() (int, int, error) {
				chars, matches := 0, 0
				for _, pos := range positions {
					i, ok := seg.Containing(pos)
					if !ok {
						continue
					}

					span, err := seg.Span(i)
					if err != nil {
						return 0, 0, err
					}
					for q := span.Start; q < span.End; q++ {
						s, err := attr.Get(q)
						if err != nil {
							return 0, 0, err
						}
						chars += len(s)
					}
					matches++
				}

				return chars, matches, nil
			},
		}, nil

	default:
		return nil, fmt.Errorf("unknown workload %q", cfg.Name)
	}
}

func openSegmentation(c corpus.Corpus, name string) (corpus.Structural, error) {
	seg, err := c.Structural(name)
	if err != nil {
		return nil, err
	}
	if seg.Count() == 0 {
		return nil, fmt.Errorf("structural attribute %q has no regions", name)
	}

	return seg, nil
}

// matchingIDs resolves the type IDs for a postings workload. ID
// resolution is setup, not the measured operation, so it happens here
// rather than in the pass.
func matchingIDs(attr corpus.Positional, pattern string) ([]int, error) {
	re, err := regexp.Compile(anchoredPattern(pattern))
	if err != nil {
		return nil, fmt.Errorf("pattern %q: %w", pattern, err)
	}

	return attr.MatchingIDs(re), nil
}

// anchoredPattern wraps a pattern so it must match a full token value.
func anchoredPattern(pattern string) string {
	return "^(?:" + pattern + ")$"
}

func decodePass(attr corpus.Positional, positions []int) func() (int, int, error) {
	return func() (int, int, error) {
		chars := 0
		for _, pos := range positions {
			s, err := attr.Get(pos)
			if err != nil {
				return 0, 0, err
			}
			chars += len(s)
		}

		return chars, 0, nil
	}
}

func windowPass(attr corpus.Positional, windows []corpus.Span) func() (int, int, error) {
	return func() (int, int, error) {
		chars := 0
		for _, win := range windows {
			for pos := win.Start; pos < win.End; pos++ {
				s, err := attr.Get(pos)
				if err != nil {
					return 0, 0, err
				}
				chars += len(s)
			}
		}

		return chars, 0, nil
	}
}

// zigzagPass decodes each window outside-in: first position, last
// position, second, second to last, until the window is exhausted.
func zigzagPass(attr corpus.Positional, windows []corpus.Span) func() (int, int, error) {
	return func() (int, int, error) {
		chars := 0
		for _, win := range windows {
			n := win.Len()
			for k := 0; k < n; k++ {
				pos := win.Start + k/2
				if k%2 == 1 {
					pos = win.End - 1 - k/2
				}

				s, err := attr.Get(pos)
				if err != nil {
					return 0, 0, err
				}
				chars += len(s)
			}
		}

		return chars, 0, nil
	}
}

// randomPositions draws n uniform values in [0, max).
func randomPositions(rng *mrand.Rand, n, max int) []int {
	positions := make([]int, n)
	for i := range positions {
		positions[i] = rng.Intn(max)
	}

	return positions
}

// randomWindows draws [start, end) windows until they cover at least
// total positions. Window sizes are uniform in [wmin, wmax) and
// windows are truncated at the corpus end.
func randomWindows(rng *mrand.Rand, total, max, wmin, wmax int) []corpus.Span {
	var windows []corpus.Span

	covered := 0
	for covered < total {
		start := rng.Intn(max)
		end := start + wmin + rng.Intn(wmax-wmin)
		if end > max {
			end = max
		}

		windows = append(windows, corpus.Span{Start: start, End: end})
		covered += end - start
	}

	return windows
}

// headlocalJumps produces a mostly ascending position stream: random
// head positions in ascending order, each followed by up to
// maxJumpsPerHead short jumps within jumpLen of the head, clamped to
// the valid position range.
func headlocalJumps(rng *mrand.Rand, total, max, jumpLen int) []int {
	type series struct {
		head      int
		positions []int
	}

	var all []series

	count := 0
	for count < total {
		head := rng.Intn(max)
		s := series{head: head, positions: []int{head}}

		njumps := rng.Intn(maxJumpsPerHead)
		for j := 0; j < njumps; j++ {
			pos := head + rng.Intn(2*jumpLen) - jumpLen
			if pos < 0 {
				pos = 0
			}
			if pos >= max {
				pos = max - 1
			}
			s.positions = append(s.positions, pos)
		}

		all = append(all, s)
		count += len(s.positions)
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].head < all[j].head
	})

	positions := make([]int, 0, count)
	for _, s := range all {
		positions = append(positions, s.positions...)
	}

	return positions
}

func spanTotal(windows []corpus.Span) int {
	total := 0
	for _, w := range windows {
		total += w.Len()
	}

	return total
}
