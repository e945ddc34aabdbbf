package strictjson

import (
	"strconv"
	"strings"
)

// StepKind identifies which of the six path-step shapes spec.md §4.3
// defines a compiled Step represents.
type StepKind uint8

const (
	StepName StepKind = iota
	StepWildcard
	StepIndices
	StepSlice
	StepUnion
	StepFilter
)

// sliceBounds holds the optional start/end/step of a `[a:b:c]` entry; a
// nil pointer means the component was omitted and takes its default at
// evaluation time (spec.md §4.4 Slice).
type sliceBounds struct {
	start, end, step *int
}

// unionEntry is one element of a `[e1, e2, ...]` bracket; a bracket with
// exactly one entry collapses to the matching Step kind instead (spec.md
// §4.3: "Bracket Entry lists of length 1 collapse to the corresponding
// single-kind step").
type unionEntry struct {
	kind    StepKind // StepName, StepWildcard, StepIndices, or StepSlice
	name    string
	indices []int
	slice   sliceBounds
}

// Step is one segment of a compiled path: a kind plus the recursive-descent
// flag (spec.md §4.3: "A segment is represented as (kind, recursive_flag)").
type Step struct {
	Kind      StepKind
	Recursive bool

	name    string
	indices []int
	slice   sliceBounds
	union   []unionEntry
	filter  *filterExpr
}

// CompiledPath is the compiled program produced by Compile: a flat
// sequence of Steps ready to be run by the evaluator (component C7)
// against a document.
type CompiledPath struct {
	raw   string
	steps []Step
}

// String returns the original path text.
func (cp *CompiledPath) String() string { return cp.raw }

// pathCompiler is a small recursive-descent scanner over a path
// expression, grounded on njchilds90-go-jsonpath__jsonpath.go's
// tokenize/parseBracket and dhawalhost-nqjson/nqjson_get.go's
// parsePathSegments, generalized to also recognize recursive descent,
// unions, slices, and `?(...)` filters per the grammar in spec.md §4.3.
type pathCompiler struct {
	src string
	pos int
}

// Compile parses a JSONPath expression into a reusable CompiledPath.
// Per spec.md §4.4, the root of a top-level path must be '$'; '@' is only
// legal as the root of a relative path inside a filter expression.
func Compile(path string) (*CompiledPath, error) {
	if path == "" {
		return nil, newPathError(0, "path must not be empty")
	}
	if path[0] != '$' {
		if path[0] == '@' {
			return nil, newPathError(0, "'@' is not a valid root for a top-level path")
		}
		return nil, newPathError(0, "path must start with '$'")
	}
	c := &pathCompiler{src: path, pos: 1}
	steps, err := c.parseSegments()
	if err != nil {
		return nil, err
	}
	return &CompiledPath{raw: path, steps: steps}, nil
}

func (c *pathCompiler) parseSegments() ([]Step, error) {
	var steps []Step
	for c.pos < len(c.src) {
		st, err, ok := c.tryParseSegment()
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, newPathError(c.pos, "unexpected character %q", c.src[c.pos])
		}
		steps = append(steps, st)
	}
	return steps, nil
}

// parseSegmentsLenient consumes as many leading Segments as it can from the
// current position and stops — without erroring — the moment the next
// character isn't '.' or '['. It is used by the filter compiler
// (jsonpath_filter.go) to scan a path operand embedded in a larger
// expression, where the path is followed by a comparison operator or
// closing delimiter rather than end-of-string.
func (c *pathCompiler) parseSegmentsLenient() []Step {
	var steps []Step
	for c.pos < len(c.src) {
		st, err, ok := c.tryParseSegment()
		if !ok || err != nil {
			break
		}
		steps = append(steps, st)
	}
	return steps
}

// tryParseSegment parses one Segment at the current position. ok is false
// (with a nil error) when the current character doesn't start a segment at
// all, letting callers distinguish "done" from "malformed".
func (c *pathCompiler) tryParseSegment() (Step, error, bool) {
	switch c.src[c.pos] {
	case '.':
		recursive := false
		c.pos++
		if c.pos < len(c.src) && c.src[c.pos] == '.' {
			recursive = true
			c.pos++
		}
		if c.pos < len(c.src) && c.src[c.pos] == '[' {
			st, err := c.parseBracket()
			if err != nil {
				return Step{}, err, true
			}
			st.Recursive = recursive
			return st, nil, true
		}
		if c.pos >= len(c.src) {
			return Step{}, newPathError(c.pos, "unexpected end after '.'"), true
		}
		if c.src[c.pos] == '*' {
			c.pos++
			return Step{Kind: StepWildcard, Recursive: recursive}, nil, true
		}
		name, ok := c.readIdentifier()
		if !ok {
			return Step{}, newPathError(c.pos, "expected identifier after '.'"), true
		}
		return Step{Kind: StepName, Recursive: recursive, name: name}, nil, true
	case '[':
		st, err := c.parseBracket()
		return st, err, true
	default:
		return Step{}, nil, false
	}
}

func isIdentStart(b byte) bool {
	return b == '_' || b == '$' || (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

func isIdentCont(b byte) bool {
	return isIdentStart(b) || (b >= '0' && b <= '9') || b == '-'
}

func (c *pathCompiler) readIdentifier() (string, bool) {
	start := c.pos
	if c.pos >= len(c.src) || !isIdentStart(c.src[c.pos]) {
		return "", false
	}
	c.pos++
	for c.pos < len(c.src) && isIdentCont(c.src[c.pos]) {
		c.pos++
	}
	return c.src[start:c.pos], true
}

func (c *pathCompiler) skipBracketWS() {
	for c.pos < len(c.src) && (c.src[c.pos] == ' ' || c.src[c.pos] == '\t') {
		c.pos++
	}
}

// parseBracket parses one `[...]` segment: a filter, a wildcard, or a
// comma-separated Entry list (spec.md §4.3 Bracket).
func (c *pathCompiler) parseBracket() (Step, error) {
	openPos := c.pos
	c.pos++ // consume '['
	c.skipBracketWS()

	if c.pos < len(c.src) && c.src[c.pos] == '?' {
		return c.parseFilterBracket(openPos)
	}
	if c.pos < len(c.src) && c.src[c.pos] == '*' {
		c.pos++
		c.skipBracketWS()
		if c.pos >= len(c.src) || c.src[c.pos] != ']' {
			return Step{}, newPathError(c.pos, "expected ']' after '*'")
		}
		c.pos++
		return Step{Kind: StepWildcard}, nil
	}

	var entries []unionEntry
	for {
		e, err := c.parseEntry()
		if err != nil {
			return Step{}, err
		}
		entries = append(entries, e)
		c.skipBracketWS()
		if c.pos < len(c.src) && c.src[c.pos] == ',' {
			c.pos++
			c.skipBracketWS()
			continue
		}
		break
	}
	if c.pos >= len(c.src) || c.src[c.pos] != ']' {
		return Step{}, newPathError(c.pos, "expected ']'")
	}
	c.pos++

	if len(entries) == 1 {
		return entryToStep(entries[0]), nil
	}
	return Step{Kind: StepUnion, union: entries}, nil
}

func (c *pathCompiler) parseFilterBracket(openPos int) (Step, error) {
	c.pos++ // consume '?'
	if c.pos >= len(c.src) || c.src[c.pos] != '(' {
		return Step{}, newPathError(c.pos, "expected '(' after '?'")
	}
	c.pos++
	exprStart := c.pos
	depth := 1
	for c.pos < len(c.src) && depth > 0 {
		switch c.src[c.pos] {
		case '(':
			depth++
		case ')':
			depth--
		}
		if depth > 0 {
			c.pos++
		}
	}
	if depth != 0 {
		return Step{}, newPathError(openPos, "unclosed filter expression")
	}
	exprEnd := c.pos
	c.pos++ // consume ')'
	c.skipBracketWS()
	if c.pos >= len(c.src) || c.src[c.pos] != ']' {
		return Step{}, newPathError(c.pos, "expected ']' to close filter")
	}
	c.pos++
	fe, err := compileFilter(c.src[exprStart:exprEnd], exprStart)
	if err != nil {
		return Step{}, err
	}
	return Step{Kind: StepFilter, filter: fe}, nil
}

func (c *pathCompiler) parseEntry() (unionEntry, error) {
	c.skipBracketWS()
	if c.pos >= len(c.src) {
		return unionEntry{}, newPathError(c.pos, "unexpected end in bracket")
	}
	switch ch := c.src[c.pos]; {
	case ch == '\'' || ch == '"':
		s, err := c.readQuotedString(ch)
		if err != nil {
			return unionEntry{}, err
		}
		return unionEntry{kind: StepName, name: s}, nil
	case ch == '*':
		c.pos++
		return unionEntry{kind: StepWildcard}, nil
	case ch == '-' || ch == ':' || isDigit(ch):
		return c.parseIndexOrSlice()
	default:
		name, ok := c.readIdentifier()
		if !ok {
			return unionEntry{}, newPathError(c.pos, "unexpected character %q in bracket", ch)
		}
		return unionEntry{kind: StepName, name: name}, nil
	}
}

func (c *pathCompiler) readQuotedString(q byte) (string, error) {
	start := c.pos
	c.pos++ // consume opening quote
	var b strings.Builder
	for {
		if c.pos >= len(c.src) {
			return "", newPathError(start, "unterminated string literal")
		}
		ch := c.src[c.pos]
		if ch == '\\' && c.pos+1 < len(c.src) {
			b.WriteByte(c.src[c.pos+1])
			c.pos += 2
			continue
		}
		if ch == q {
			c.pos++
			return b.String(), nil
		}
		b.WriteByte(ch)
		c.pos++
	}
}

func (c *pathCompiler) readSignedInt() (*int, bool) {
	start := c.pos
	if c.pos < len(c.src) && c.src[c.pos] == '-' {
		c.pos++
	}
	digitsStart := c.pos
	for c.pos < len(c.src) && isDigit(c.src[c.pos]) {
		c.pos++
	}
	if c.pos == digitsStart {
		c.pos = start
		return nil, false
	}
	n, _ := strconv.Atoi(c.src[start:c.pos])
	return &n, true
}

// parseIndexOrSlice parses `Signed` or `Slice` (spec.md §4.3 grammar).
func (c *pathCompiler) parseIndexOrSlice() (unionEntry, error) {
	var parts [3]*int
	parts[0], _ = c.readSignedInt()
	isSlice := false
	part := 0
	for part < 2 && c.pos < len(c.src) && c.src[c.pos] == ':' {
		isSlice = true
		c.pos++
		part++
		parts[part], _ = c.readSignedInt()
	}
	if isSlice {
		return unionEntry{kind: StepSlice, slice: sliceBounds{start: parts[0], end: parts[1], step: parts[2]}}, nil
	}
	if parts[0] == nil {
		return unionEntry{}, newPathError(c.pos, "expected index or slice")
	}
	return unionEntry{kind: StepIndices, indices: []int{*parts[0]}}, nil
}

func entryToStep(e unionEntry) Step {
	switch e.kind {
	case StepName:
		return Step{Kind: StepName, name: e.name}
	case StepWildcard:
		return Step{Kind: StepWildcard}
	case StepIndices:
		return Step{Kind: StepIndices, indices: e.indices}
	case StepSlice:
		return Step{Kind: StepSlice, slice: e.slice}
	default:
		return Step{}
	}
}
