// Package corpus provides engine-neutral access to token corpora: a
// corpus is opened by (registry, name) and exposes positional
// attributes (per-token annotations decodable by position) and
// structural attributes (ordered, non-overlapping token ranges such as
// sentences).
package corpus

import (
	"errors"
	"regexp"
)

var (
	// ErrNotFound reports an unknown corpus or attribute name.
	ErrNotFound = errors.New("not found")

	// ErrOutOfRange reports a position or index outside the valid range.
	ErrOutOfRange = errors.New("out of range")
)

// Span is a half-open token range [Start, End).
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the number of token positions covered by the span.
func (s Span) Len() int {
	return s.End - s.Start
}

// Boundary describes how a token position relates to the regions of a
// structural attribute. Zero means the position is outside every region.
type Boundary int

const (
	// BoundaryInside is set for any position covered by a region.
	BoundaryInside Boundary = 1 << iota
	// BoundaryStart is set for the first position of a region.
	BoundaryStart
	// BoundaryEnd is set for the last position of a region.
	BoundaryEnd
)

// Corpus is an opened corpus. Attribute handles obtained from it are
// only valid while the corpus itself is open.
type Corpus interface {
	// Name returns the corpus name it was opened under.
	Name() string

	// Size returns the number of token positions.
	Size() int

	// Positional returns the named positional attribute.
	Positional(name string) (Positional, error)

	// Structural returns the named structural attribute.
	Structural(name string) (Structural, error)

	// Positionals lists positional attribute names in declaration order.
	Positionals() []string

	// Structurals lists structural attribute names in declaration order.
	Structurals() []string

	// Close releases the corpus. Attribute handles must not be used
	// after Close returns.
	Close() error
}

// Positional is a per-token annotation layer. Every distinct value
// (type) has a stable integer ID assigned in order of first occurrence.
type Positional interface {
	// Max returns the number of token positions. Valid positions are
	// 0 <= pos < Max().
	Max() int

	// Get decodes the value at a position.
	Get(pos int) (string, error)

	// Types returns the number of distinct values.
	Types() int

	// Value returns the value of a type ID.
	Value(id int) (string, error)

	// ID looks a value up in the lexicon.
	ID(value string) (int, bool)

	// Freq returns the number of occurrences of a type ID.
	Freq(id int) int

	// MatchingIDs returns the IDs of all types matching re, ascending.
	// Anchoring is the caller's concern.
	MatchingIDs(re *regexp.Regexp) []int

	// Positions returns the postings list of a type ID: every position
	// at which it occurs, ascending.
	Positions(id int) ([]int, error)

	// GatherPositions returns one combined, sorted, deduplicated
	// postings list for a set of type IDs. Unknown IDs are ignored.
	GatherPositions(ids []int) []int
}

// Structural is a segmentation layer: ordered, non-overlapping spans.
type Structural interface {
	// Count returns the number of regions.
	Count() int

	// Span returns the i-th region.
	Span(i int) (Span, error)

	// Value returns the annotation of the i-th region (the attribute
	// text of its opening tag) and whether one is present.
	Value(i int) (string, bool)

	// Containing returns the index of the region covering pos.
	Containing(pos int) (int, bool)

	// Boundary reports the region boundary flags at pos.
	Boundary(pos int) Boundary
}
