package corpus

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// vrtDeclPrefix marks the comment naming the positional columns of a
// VRT file, e.g. <!-- #vrt positional-attributes: word pos -->.
const vrtDeclPrefix = "#vrt positional-attributes:"

// Open loads the corpus name from the registry directory. The corpus
// is read from <registry>/<name>.vrt and held in memory.
func Open(registry, name string) (Corpus, error) {
	path := filepath.Join(registry, name+".vrt")

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("corpus %q in registry %q: %w", name, registry, ErrNotFound)
		}

		return nil, fmt.Errorf("open corpus %q: %w", name, err)
	}
	defer f.Close()

	c, err := ReadVRT(f, name)
	if err != nil {
		return nil, fmt.Errorf("corpus %q: %w", name, err)
	}

	return c, nil
}

// ReadVRT parses VRT (vertical text) input into a corpus. Lines
// starting with "<" are structural tags, every other non-blank line is
// one token with tab-separated positional values.
func ReadVRT(r io.Reader, name string) (Corpus, error) {
	p := &vrtParser{
		name:    name,
		open:    make(map[string]*openRegion),
		regions: make(map[string]*regionSet),
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 1024*1024), 1024*1024)

	for scanner.Scan() {
		p.line++
		if err := p.parseLine(scanner.Text()); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("line %d: %w", p.line, err)
	}

	return p.finish()
}

type vrtParser struct {
	name    string
	line    int
	columns []string
	tokens  [][]string
	ntokens int

	open       map[string]*openRegion
	regions    map[string]*regionSet
	strucOrder []string
}

type openRegion struct {
	start int
	value string
}

type regionSet struct {
	spans  []Span
	values []string
	hasVal bool
}

func (p *vrtParser) parseLine(line string) error {
	switch {
	case strings.TrimSpace(line) == "":
		return nil
	case strings.HasPrefix(line, "<!--"):
		return p.parseComment(line)
	case strings.HasPrefix(line, "</"):
		return p.closeTag(line)
	case strings.HasPrefix(line, "<"):
		return p.openTag(line)
	default:
		return p.parseToken(line)
	}
}

func (p *vrtParser) parseComment(line string) error {
	body := strings.TrimPrefix(line, "<!--")
	body = strings.TrimSuffix(strings.TrimSpace(body), "-->")
	body = strings.TrimSpace(body)

	if !strings.HasPrefix(body, vrtDeclPrefix) {
		return nil
	}
	if p.columns != nil {
		return fmt.Errorf("line %d: positional-attributes already declared", p.line)
	}

	cols := strings.Fields(strings.TrimPrefix(body, vrtDeclPrefix))
	if len(cols) == 0 {
		return fmt.Errorf("line %d: empty positional-attributes declaration", p.line)
	}

	p.columns = cols
	p.tokens = make([][]string, len(cols))

	return nil
}

func (p *vrtParser) openTag(line string) error {
	if !strings.HasSuffix(line, ">") {
		return fmt.Errorf("line %d: malformed tag %q", p.line, line)
	}

	body := strings.TrimSuffix(strings.TrimPrefix(line, "<"), ">")
	name, value, _ := strings.Cut(body, " ")
	if name == "" {
		return fmt.Errorf("line %d: malformed tag %q", p.line, line)
	}

	if _, ok := p.open[name]; ok {
		return fmt.Errorf("line %d: region <%s> opened before the previous one closed", p.line, name)
	}

	p.open[name] = &openRegion{start: p.ntokens, value: strings.TrimSpace(value)}
	if _, ok := p.regions[name]; !ok {
		p.regions[name] = &regionSet{}
		p.strucOrder = append(p.strucOrder, name)
	}

	return nil
}

func (p *vrtParser) closeTag(line string) error {
	if !strings.HasSuffix(line, ">") {
		return fmt.Errorf("line %d: malformed tag %q", p.line, line)
	}

	name := strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(line, "</"), ">"))

	or, ok := p.open[name]
	if !ok {
		return fmt.Errorf("line %d: close tag </%s> without matching open tag", p.line, name)
	}
	delete(p.open, name)

	p.endRegion(name, or)

	return nil
}

// endRegion records a region ending at the current token position.
// Regions without any tokens are dropped.
func (p *vrtParser) endRegion(name string, or *openRegion) {
	if or.start >= p.ntokens {
		return
	}

	set := p.regions[name]
	set.spans = append(set.spans, Span{Start: or.start, End: p.ntokens})
	set.values = append(set.values, or.value)
	if or.value != "" {
		set.hasVal = true
	}
}

func (p *vrtParser) parseToken(line string) error {
	fields := strings.Split(line, "\t")

	// Without a declaration a single-column file defaults to "word".
	if p.columns == nil {
		if len(fields) > 1 {
			return fmt.Errorf(
				"line %d: token has %d fields but no positional-attributes declaration",
				p.line, len(fields),
			)
		}

		p.columns = []string{"word"}
		p.tokens = make([][]string, 1)
	}

	if len(fields) != len(p.columns) {
		return fmt.Errorf(
			"line %d: token has %d fields, want %d",
			p.line, len(fields), len(p.columns),
		)
	}

	for i, f := range fields {
		p.tokens[i] = append(p.tokens[i], f)
	}
	p.ntokens++

	return nil
}

func (p *vrtParser) finish() (Corpus, error) {
	// Regions still open at EOF end at the last token.
	for name, or := range p.open {
		p.endRegion(name, or)
	}

	c := NewMemory(p.name)

	for i, col := range p.columns {
		if err := c.AddPositional(col, p.tokens[i]); err != nil {
			return nil, err
		}
	}

	for _, name := range p.strucOrder {
		set := p.regions[name]
		if len(set.spans) == 0 {
			continue
		}

		values := set.values
		if !set.hasVal {
			values = nil
		}

		if err := c.AddStructural(name, set.spans, values); err != nil {
			return nil, err
		}
	}

	return c, nil
}
