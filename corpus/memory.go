package corpus

import (
	"fmt"
	"regexp"
	"sort"
)

// Memory is an in-memory corpus. Attributes are added once during
// construction; afterwards the corpus is read-only.
type Memory struct {
	name        string
	size        int
	sized       bool
	positionals map[string]*memPositional
	structurals map[string]*memStructural
	posNames    []string
	strucNames  []string
}

// NewMemory creates an empty in-memory corpus with the given name.
func NewMemory(name string) *Memory {
	return &Memory{
		name:        name,
		positionals: make(map[string]*memPositional),
		structurals: make(map[string]*memStructural),
	}
}

// AddPositional adds a positional attribute from per-position values.
// The first attribute fixes the corpus size; later attributes must
// match it.
func (m *Memory) AddPositional(name string, values []string) error {
	if _, ok := m.positionals[name]; ok {
		return fmt.Errorf("positional attribute %q already defined", name)
	}

	if !m.sized {
		m.size = len(values)
		m.sized = true
	} else if len(values) != m.size {
		return fmt.Errorf(
			"positional attribute %q has %d values, corpus has %d positions",
			name, len(values), m.size,
		)
	}

	attr := &memPositional{
		stream: make([]int, len(values)),
		ids:    make(map[string]int),
	}

	for pos, v := range values {
		id, ok := attr.ids[v]
		if !ok {
			id = len(attr.lexicon)
			attr.ids[v] = id
			attr.lexicon = append(attr.lexicon, v)
			attr.freq = append(attr.freq, 0)
			attr.postings = append(attr.postings, nil)
		}

		attr.stream[pos] = id
		attr.freq[id]++
		attr.postings[id] = append(attr.postings[id], pos)
	}

	m.positionals[name] = attr
	m.posNames = append(m.posNames, name)

	return nil
}

// AddStructural adds a structural attribute from ascending,
// non-overlapping spans. values carries the per-region annotation and
// may be nil.
func (m *Memory) AddStructural(name string, spans []Span, values []string) error {
	if _, ok := m.structurals[name]; ok {
		return fmt.Errorf("structural attribute %q already defined", name)
	}
	if values != nil && len(values) != len(spans) {
		return fmt.Errorf(
			"structural attribute %q has %d values for %d spans",
			name, len(values), len(spans),
		)
	}

	prevEnd := 0
	for i, s := range spans {
		if s.Start < 0 || s.End > m.size || s.Start >= s.End {
			return fmt.Errorf(
				"structural attribute %q: invalid span %d [%d,%d) in corpus of size %d",
				name, i, s.Start, s.End, m.size,
			)
		}
		if s.Start < prevEnd {
			return fmt.Errorf(
				"structural attribute %q: span %d [%d,%d) overlaps previous end %d",
				name, i, s.Start, s.End, prevEnd,
			)
		}
		prevEnd = s.End
	}

	m.structurals[name] = &memStructural{spans: spans, values: values}
	m.strucNames = append(m.strucNames, name)

	return nil
}

func (m *Memory) Name() string { return m.name }

func (m *Memory) Size() int { return m.size }

func (m *Memory) Positional(name string) (Positional, error) {
	attr, ok := m.positionals[name]
	if !ok {
		return nil, fmt.Errorf("positional attribute %q: %w", name, ErrNotFound)
	}

	return attr, nil
}

func (m *Memory) Structural(name string) (Structural, error) {
	attr, ok := m.structurals[name]
	if !ok {
		return nil, fmt.Errorf("structural attribute %q: %w", name, ErrNotFound)
	}

	return attr, nil
}

func (m *Memory) Positionals() []string {
	names := make([]string, len(m.posNames))
	copy(names, m.posNames)

	return names
}

func (m *Memory) Structurals() []string {
	names := make([]string, len(m.strucNames))
	copy(names, m.strucNames)

	return names
}

// Close is a no-op for the in-memory engine.
func (m *Memory) Close() error { return nil }

// memPositional stores the token stream as type IDs plus the lexicon
// and an inverted index. IDs are dense in [0, Types()) in order of
// first occurrence.
type memPositional struct {
	stream   []int
	lexicon  []string
	ids      map[string]int
	freq     []int
	postings [][]int
}

func (a *memPositional) Max() int { return len(a.stream) }

func (a *memPositional) Get(pos int) (string, error) {
	if pos < 0 || pos >= len(a.stream) {
		return "", fmt.Errorf("position %d: %w", pos, ErrOutOfRange)
	}

	return a.lexicon[a.stream[pos]], nil
}

func (a *memPositional) Types() int { return len(a.lexicon) }

func (a *memPositional) Value(id int) (string, error) {
	if id < 0 || id >= len(a.lexicon) {
		return "", fmt.Errorf("type id %d: %w", id, ErrOutOfRange)
	}

	return a.lexicon[id], nil
}

func (a *memPositional) ID(value string) (int, bool) {
	id, ok := a.ids[value]

	return id, ok
}

func (a *memPositional) Freq(id int) int {
	if id < 0 || id >= len(a.freq) {
		return 0
	}

	return a.freq[id]
}

func (a *memPositional) MatchingIDs(re *regexp.Regexp) []int {
	var ids []int
	for id, v := range a.lexicon {
		if re.MatchString(v) {
			ids = append(ids, id)
		}
	}

	return ids
}

func (a *memPositional) Positions(id int) ([]int, error) {
	if id < 0 || id >= len(a.postings) {
		return nil, fmt.Errorf("type id %d: %w", id, ErrOutOfRange)
	}

	return a.postings[id], nil
}

func (a *memPositional) GatherPositions(ids []int) []int {
	total := 0
	for _, id := range ids {
		if id >= 0 && id < len(a.postings) {
			total += len(a.postings[id])
		}
	}

	gathered := make([]int, 0, total)
	for _, id := range ids {
		if id >= 0 && id < len(a.postings) {
			gathered = append(gathered, a.postings[id]...)
		}
	}

	sort.Ints(gathered)

	// Deduplicate in place; repeated IDs contribute their postings
	// more than once.
	out := gathered[:0]
	for i, pos := range gathered {
		if i == 0 || pos != gathered[i-1] {
			out = append(out, pos)
		}
	}

	return out
}

type memStructural struct {
	spans  []Span
	values []string
}

func (s *memStructural) Count() int { return len(s.spans) }

func (s *memStructural) Span(i int) (Span, error) {
	if i < 0 || i >= len(s.spans) {
		return Span{}, fmt.Errorf("region %d: %w", i, ErrOutOfRange)
	}

	return s.spans[i], nil
}

func (s *memStructural) Value(i int) (string, bool) {
	if s.values == nil || i < 0 || i >= len(s.values) || s.values[i] == "" {
		return "", false
	}

	return s.values[i], true
}

func (s *memStructural) Containing(pos int) (int, bool) {
	i := sort.Search(len(s.spans), func(i int) bool {
		return s.spans[i].End > pos
	})

	if i < len(s.spans) && s.spans[i].Start <= pos && pos >= 0 {
		return i, true
	}

	return 0, false
}

func (s *memStructural) Boundary(pos int) Boundary {
	i, ok := s.Containing(pos)
	if !ok {
		return 0
	}

	b := BoundaryInside
	if pos == s.spans[i].Start {
		b |= BoundaryStart
	}
	if pos == s.spans[i].End-1 {
		b |= BoundaryEnd
	}

	return b
}
