package strictjson

import (
	"regexp"
	"strconv"
	"strings"
)

// filterNodeKind identifies the shape of one node in a compiled filter
// expression tree (spec.md §4.5 "Filter sub-language").
type filterNodeKind uint8

const (
	filterOr filterNodeKind = iota
	filterAnd
	filterNot
	filterCompare
	filterExistence
)

// compareOp is one of the six relational operators plus the regex-match
// operator `=~` from spec.md §4.5.
type compareOp uint8

const (
	opEq compareOp = iota
	opNe
	opLe
	opGe
	opLt
	opGt
	opMatch
)

// filterOperand is either a path (relative to the filter's candidate node
// via '@', or absolute via '$'), a literal, or a path wrapped in one of
// the `length`/`size`/`count` functions (spec.md §4.5 "Functions").
type filterOperand struct {
	isPath  bool
	pathAbs bool
	path    []Step
	lit     *Value
	fn      string // "", "length", "size", or "count"
}

// filterExpr is a compiled `?(...)` predicate, grounded on
// njchilds90-go-jsonpath__jsonpath.go's filter expression tree but
// generalized to the and/or/not/compare/existence shapes spec.md §4.5
// enumerates.
type filterExpr struct {
	kind        filterNodeKind
	left, right *filterExpr // operands of Or/And/Not
	op          compareOp
	lhs, rhs    filterOperand
}

// filterCompiler is a small recursive-descent parser over the text inside
// `?(...)`, reusing pathCompiler for the path operands themselves.
type filterCompiler struct {
	src string
	pos int
}

// compileFilter compiles the body of a `?(...)` bracket. baseOffset is the
// position of the expression's first character within the overall path
// string, used to produce accurate PathError offsets.
func compileFilter(src string, baseOffset int) (*filterExpr, error) {
	fc := &filterCompiler{src: src}
	fc.skipWS()
	if fc.pos >= len(fc.src) {
		return nil, newPathError(baseOffset, "empty filter expression")
	}
	expr, err := fc.parseOr(baseOffset)
	if err != nil {
		return nil, err
	}
	fc.skipWS()
	if fc.pos != len(fc.src) {
		return nil, newPathError(baseOffset+fc.pos, "unexpected trailing content in filter")
	}
	return expr, nil
}

func (fc *filterCompiler) skipWS() {
	for fc.pos < len(fc.src) && (fc.src[fc.pos] == ' ' || fc.src[fc.pos] == '\t') {
		fc.pos++
	}
}

func (fc *filterCompiler) hasPrefix(s string) bool {
	return strings.HasPrefix(fc.src[fc.pos:], s)
}

func (fc *filterCompiler) parseOr(base int) (*filterExpr, error) {
	left, err := fc.parseAnd(base)
	if err != nil {
		return nil, err
	}
	for {
		fc.skipWS()
		if !fc.hasPrefix("||") {
			return left, nil
		}
		fc.pos += 2
		right, err := fc.parseAnd(base)
		if err != nil {
			return nil, err
		}
		left = &filterExpr{kind: filterOr, left: left, right: right}
	}
}

func (fc *filterCompiler) parseAnd(base int) (*filterExpr, error) {
	left, err := fc.parseUnary(base)
	if err != nil {
		return nil, err
	}
	for {
		fc.skipWS()
		if !fc.hasPrefix("&&") {
			return left, nil
		}
		fc.pos += 2
		right, err := fc.parseUnary(base)
		if err != nil {
			return nil, err
		}
		left = &filterExpr{kind: filterAnd, left: left, right: right}
	}
}

func (fc *filterCompiler) parseUnary(base int) (*filterExpr, error) {
	fc.skipWS()
	if fc.pos < len(fc.src) && fc.src[fc.pos] == '!' && !fc.hasPrefix("!=") {
		fc.pos++
		inner, err := fc.parseUnary(base)
		if err != nil {
			return nil, err
		}
		return &filterExpr{kind: filterNot, left: inner}, nil
	}
	if fc.pos < len(fc.src) && fc.src[fc.pos] == '(' {
		fc.pos++
		inner, err := fc.parseOr(base)
		if err != nil {
			return nil, err
		}
		fc.skipWS()
		if fc.pos >= len(fc.src) || fc.src[fc.pos] != ')' {
			return nil, newPathError(base+fc.pos, "expected ')'")
		}
		fc.pos++
		return inner, nil
	}
	return fc.parseComparison(base)
}

func (fc *filterCompiler) parseComparison(base int) (*filterExpr, error) {
	lhs, err := fc.parseOperand(base)
	if err != nil {
		return nil, err
	}
	fc.skipWS()
	op, ok := fc.tryCompOp()
	if !ok {
		return &filterExpr{kind: filterExistence, lhs: lhs}, nil
	}
	rhs, err := fc.parseOperand(base)
	if err != nil {
		return nil, err
	}
	return &filterExpr{kind: filterCompare, op: op, lhs: lhs, rhs: rhs}, nil
}

func (fc *filterCompiler) tryCompOp() (compareOp, bool) {
	switch {
	case fc.hasPrefix("=="):
		fc.pos += 2
		return opEq, true
	case fc.hasPrefix("!="):
		fc.pos += 2
		return opNe, true
	case fc.hasPrefix("<="):
		fc.pos += 2
		return opLe, true
	case fc.hasPrefix(">="):
		fc.pos += 2
		return opGe, true
	case fc.hasPrefix("=~"):
		fc.pos += 2
		return opMatch, true
	case fc.hasPrefix("<"):
		fc.pos++
		return opLt, true
	case fc.hasPrefix(">"):
		fc.pos++
		return opGt, true
	default:
		return 0, false
	}
}

func (fc *filterCompiler) parseOperand(base int) (filterOperand, error) {
	fc.skipWS()
	if fc.pos >= len(fc.src) {
		return filterOperand{}, newPathError(base+fc.pos, "expected operand")
	}
	switch ch := fc.src[fc.pos]; {
	case ch == '@' || ch == '$':
		return fc.parsePathOperand(base)
	case ch == '\'' || ch == '"':
		s, err := fc.readQuotedString(base, ch)
		if err != nil {
			return filterOperand{}, err
		}
		return filterOperand{lit: String(s)}, nil
	case ch == '-' || isDigit(ch):
		return fc.parseNumberOperand(base)
	default:
		word, ok := fc.readWord()
		if !ok {
			return filterOperand{}, newPathError(base+fc.pos, "unexpected character %q in filter", ch)
		}
		switch word {
		case "true":
			return filterOperand{lit: Bool(true)}, nil
		case "false":
			return filterOperand{lit: Bool(false)}, nil
		case "null":
			return filterOperand{lit: Null()}, nil
		case "length", "size", "count":
			return fc.parseFunctionCall(base, word)
		default:
			return filterOperand{}, newPathError(base+fc.pos, "unexpected identifier %q in filter", word)
		}
	}
}

func (fc *filterCompiler) parsePathOperand(base int) (filterOperand, error) {
	isAbs := fc.src[fc.pos] == '$'
	c := &pathCompiler{src: fc.src, pos: fc.pos + 1}
	steps := c.parseSegmentsLenient()
	fc.pos = c.pos
	return filterOperand{isPath: true, pathAbs: isAbs, path: steps}, nil
}

func (fc *filterCompiler) parseFunctionCall(base int, name string) (filterOperand, error) {
	fc.skipWS()
	if fc.pos >= len(fc.src) || fc.src[fc.pos] != '(' {
		return filterOperand{}, newPathError(base+fc.pos, "expected '(' after %s", name)
	}
	fc.pos++
	fc.skipWS()
	inner, err := fc.parsePathOperand(base)
	if err != nil {
		return filterOperand{}, err
	}
	fc.skipWS()
	if fc.pos >= len(fc.src) || fc.src[fc.pos] != ')' {
		return filterOperand{}, newPathError(base+fc.pos, "expected ')' to close %s(...)", name)
	}
	fc.pos++
	inner.fn = name
	return inner, nil
}

func (fc *filterCompiler) readQuotedString(base int, q byte) (string, error) {
	start := fc.pos
	fc.pos++
	var b strings.Builder
	for {
		if fc.pos >= len(fc.src) {
			return "", newPathError(base+start, "unterminated string literal in filter")
		}
		ch := fc.src[fc.pos]
		if ch == '\\' && fc.pos+1 < len(fc.src) {
			b.WriteByte(fc.src[fc.pos+1])
			fc.pos += 2
			continue
		}
		if ch == q {
			fc.pos++
			return b.String(), nil
		}
		b.WriteByte(ch)
		fc.pos++
	}
}

func (fc *filterCompiler) parseNumberOperand(base int) (filterOperand, error) {
	start := fc.pos
	if fc.pos < len(fc.src) && fc.src[fc.pos] == '-' {
		fc.pos++
	}
	digitsStart := fc.pos
	for fc.pos < len(fc.src) && isDigit(fc.src[fc.pos]) {
		fc.pos++
	}
	isFloat := false
	if fc.pos < len(fc.src) && fc.src[fc.pos] == '.' {
		isFloat = true
		fc.pos++
		for fc.pos < len(fc.src) && isDigit(fc.src[fc.pos]) {
			fc.pos++
		}
	}
	if fc.pos == digitsStart || (isFloat && fc.pos == start+1) {
		return filterOperand{}, newPathError(base+start, "malformed number in filter")
	}
	token := fc.src[start:fc.pos]
	if !isFloat {
		if n, err := strconv.ParseInt(token, 10, 64); err == nil {
			return filterOperand{lit: Long(n)}, nil
		}
	}
	f, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return filterOperand{}, newPathError(base+start, "malformed number in filter")
	}
	return filterOperand{lit: Double(f)}, nil
}

func (fc *filterCompiler) readWord() (string, bool) {
	start := fc.pos
	for fc.pos < len(fc.src) && (isIdentCont(fc.src[fc.pos]) || fc.src[fc.pos] == '_') {
		fc.pos++
	}
	if fc.pos == start {
		return "", false
	}
	return fc.src[start:fc.pos], true
}

// resolveFilterPath walks a compiled filter-operand path against a single
// starting node. Only the step kinds that can address exactly one node
// (name and single-index navigation) are followed; a wildcard, slice,
// union, or nested filter step inside a filter operand's own path yields
// "not found" rather than fanning out, since a comparison needs a single
// value (spec.md §4.5: "filter operands address a single node").
func resolveFilterPath(steps []Step, start *Value) (*Value, bool) {
	cur := start
	for _, st := range steps {
		if cur == nil {
			return nil, false
		}
		switch st.Kind {
		case StepName:
			if !cur.IsObject() {
				return nil, false
			}
			child := cur.GetKey(st.name)
			if child == nil {
				return nil, false
			}
			cur = child
		case StepIndices:
			if !cur.IsArray() || len(st.indices) != 1 {
				return nil, false
			}
			idx := normalizeIndex(st.indices[0], cur.Len())
			if idx < 0 || idx >= cur.Len() {
				return nil, false
			}
			cur = cur.Get(idx)
		default:
			return nil, false
		}
	}
	return cur, true
}

func normalizeIndex(i, length int) int {
	if i < 0 {
		return i + length
	}
	return i
}

// resolveOperand evaluates one filterOperand against the current candidate
// node and the document root, applying its `length`/`size`/`count`
// wrapper function if present.
func resolveOperand(op filterOperand, candidate, root *Value) (*Value, bool) {
	if op.lit != nil {
		return op.lit, true
	}
	start := candidate
	if op.pathAbs {
		start = root
	}
	v, ok := resolveFilterPath(op.path, start)
	if !ok {
		return nil, false
	}
	if op.fn == "" {
		return v, true
	}
	if op.fn == "count" {
		if v.IsArray() || v.IsObject() {
			return Long(int64(v.Len())), true
		}
		return Long(1), true
	}
	// length / size: spec.md §4.5 "string length in bytes, array length,
	// object size, or else 0".
	switch {
	case v.IsString():
		return Long(int64(len(v.StringValue()))), true
	case v.IsArray() || v.IsObject():
		return Long(int64(v.Len())), true
	default:
		return Long(0), true
	}
}

// evalFilter runs a compiled filter predicate against one candidate node,
// with access to the document root for absolute ($) path operands inside
// the filter (spec.md §4.5).
func evalFilter(fe *filterExpr, candidate, root *Value) bool {
	switch fe.kind {
	case filterOr:
		return evalFilter(fe.left, candidate, root) || evalFilter(fe.right, candidate, root)
	case filterAnd:
		return evalFilter(fe.left, candidate, root) && evalFilter(fe.right, candidate, root)
	case filterNot:
		return !evalFilter(fe.left, candidate, root)
	case filterExistence:
		v, ok := resolveOperand(fe.lhs, candidate, root)
		return ok && v.Truthy()
	case filterCompare:
		lhs, lok := resolveOperand(fe.lhs, candidate, root)
		rhs, rok := resolveOperand(fe.rhs, candidate, root)
		if !lok || !rok {
			return false
		}
		return compareOperands(fe.op, lhs, rhs)
	default:
		return false
	}
}

func compareOperands(op compareOp, lhs, rhs *Value) bool {
	if op == opMatch {
		if !lhs.IsString() || !rhs.IsString() {
			return false
		}
		re, err := regexp.Compile(rhs.StringValue())
		if err != nil {
			return false
		}
		return re.MatchString(lhs.StringValue())
	}
	if op == opEq {
		return lhs.Equal(rhs)
	}
	if op == opNe {
		return !lhs.Equal(rhs)
	}
	if lhs.IsNumber() && rhs.IsNumber() {
		a, b := lhs.Float64(), rhs.Float64()
		switch op {
		case opLt:
			return a < b
		case opLe:
			return a <= b
		case opGt:
			return a > b
		case opGe:
			return a >= b
		}
	}
	if lhs.IsString() && rhs.IsString() {
		a, b := lhs.StringValue(), rhs.StringValue()
		switch op {
		case opLt:
			return a < b
		case opLe:
			return a <= b
		case opGt:
			return a > b
		case opGe:
			return a >= b
		}
	}
	return false
}
