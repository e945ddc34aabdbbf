package strictjson

import "strconv"

// maxDepth is the hard nesting-depth bound from spec.md §4.1/§5: crossing
// zero remaining depth returns StatusDepthExceeded. Twenty is a testable
// constant, not a tunable.
const maxDepth = 20

// parser is a recursive-descent scanner over a byte slice, grounded on
// blastbao-fastjson/parser.go's single-pass Parser (no backtracking, an
// explicit byte cursor, a cache of pre-allocated Values) generalized to
// produce the strictjson Value tree and the exhaustive Status taxonomy
// instead of fastjson's generic error strings.
type parser struct {
	buf []byte
	pos int
}

// Parse implements the parse(bytes) -> (Status, Value) contract of
// spec.md §4.1/§6. On success it returns a well-formed Value and a nil
// error; on failure the returned Value is nil and err is a *ParseError
// carrying the precise Status.
func Parse(data []byte) (*Value, error) {
	p := &parser{buf: data}
	p.skipWS()
	val, st := p.parseValue(maxDepth)
	if st != StatusSuccess {
		return nil, &ParseError{Status: elevateSentinel(st), Offset: p.pos}
	}
	p.skipWS()
	// Trailing content: after a top-level value parses, anything
	// non-whitespace left over is rejected (spec.md §4.1 "Trailing content").
	if p.pos < len(p.buf) {
		return nil, &ParseError{Status: StatusTrailingContent, Offset: p.pos}
	}
	return val, nil
}

// ParseString is the string-input convenience form of Parse.
func ParseString(s string) (*Value, error) {
	return Parse([]byte(s))
}

// elevateSentinel turns the internal absent_value sentinel into
// unexpected_eof if it ever escapes parseValue at the top level (spec.md
// §7: "absent_value... elevated to unexpected_eof if it escapes").
func elevateSentinel(st Status) Status {
	if st == StatusAbsentValue {
		return StatusUnexpectedEOF
	}
	return st
}

func (p *parser) skipWS() {
	for p.pos < len(p.buf) && isJSONWhitespace(p.buf[p.pos]) {
		p.pos++
	}
}

func (p *parser) peek() byte {
	if p.pos >= len(p.buf) {
		return 0
	}
	return p.buf[p.pos]
}

// parseValue dispatches on the next non-whitespace byte. depthLeft is the
// remaining recursion budget; it must be checked by callers before
// recursing into parseValue for array/object elements.
func (p *parser) parseValue(depthLeft int) (*Value, Status) {
	if p.pos >= len(p.buf) {
		return nil, StatusUnexpectedEOF
	}
	switch c := p.buf[p.pos]; {
	case c == '"':
		return p.parseString()
	case c == '{':
		return p.parseObject(depthLeft)
	case c == '[':
		return p.parseArray(depthLeft)
	case c == 't':
		return p.parseLiteral("true", Bool(true))
	case c == 'f':
		return p.parseLiteral("false", Bool(false))
	case c == 'n':
		return p.parseLiteral("null", Null())
	case c == '-' || (c >= '0' && c <= '9'):
		return p.parseNumber()
	case c == ']' || c == '}':
		return nil, StatusAbsentValue
	default:
		return nil, StatusIllegalCharacter
	}
}

func (p *parser) parseLiteral(lit string, val *Value) (*Value, Status) {
	if p.pos+len(lit) > len(p.buf) || string(p.buf[p.pos:p.pos+len(lit)]) != lit {
		return nil, StatusIllegalCharacter
	}
	p.pos += len(lit)
	return val, StatusSuccess
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// isValueStartByte reports whether b is a byte that legitimately begins a
// JSON value (digit, '-', '"', '{', '[', or the first letter of
// true/false/null). Grounded on original_source/json.cpp's parse loop: a
// missing_comma/missing_colon/object_key_must_be_string status is only
// produced when the offending byte is itself a recognized value-starting
// token but arrives in the wrong context; any other byte falls through to
// that switch's unconditional `default: return illegal_character` before
// context is even consulted.
func isValueStartByte(b byte) bool {
	switch {
	case b == '"', b == '{', b == '[':
		return true
	case b == '-' || isDigit(b):
		return true
	case b == 't' || b == 'f' || b == 'n':
		return true
	default:
		return false
	}
}

// parseNumber implements spec.md §4.1 "Numbers": leading-zero rejection,
// mandatory digit after '-' and '.', mandatory digit after 'e'/'E' sign,
// and integer->double promotion on overflow via strconv's own ErrRange
// signal (equivalent to the checked multiply/add the spec describes:
// strconv.ParseInt fails exactly when the accumulated value would
// overflow int64, at which point we fall through to the double path).
func (p *parser) parseNumber() (*Value, Status) {
	start := p.pos
	if p.peek() == '-' {
		p.pos++
		if !isDigit(p.peek()) {
			return nil, StatusBadNegative
		}
	}
	if p.peek() == '0' {
		p.pos++
		if isDigit(p.peek()) {
			return nil, StatusUnexpectedOctal
		}
	} else {
		for isDigit(p.peek()) {
			p.pos++
		}
	}

	isFloat := false
	if p.peek() == '.' {
		isFloat = true
		p.pos++
		if !isDigit(p.peek()) {
			return nil, StatusBadDouble
		}
		for isDigit(p.peek()) {
			p.pos++
		}
	}
	if c := p.peek(); c == 'e' || c == 'E' {
		isFloat = true
		p.pos++
		if c := p.peek(); c == '+' || c == '-' {
			p.pos++
		}
		if !isDigit(p.peek()) {
			return nil, StatusBadExponent
		}
		for isDigit(p.peek()) {
			p.pos++
		}
	}

	token := string(p.buf[start:p.pos])
	if !isFloat {
		if iv, err := strconv.ParseInt(token, 10, 64); err == nil {
			return Long(iv), StatusSuccess
		}
	}
	f, err := strconv.ParseFloat(token, 64)
	if err != nil {
		if numErr, ok := err.(*strconv.NumError); !ok || numErr.Err != strconv.ErrRange {
			return nil, StatusBadDouble
		}
		// ErrRange with overflow: f is already the correctly signed ±Inf.
	}
	return Double(f), StatusSuccess
}

// parseArray implements spec.md §4.1 "Arrays and objects" for the
// '[' context. depthLeft is the budget remaining *before* entering this
// container; it is decremented once for the elements inside.
func (p *parser) parseArray(depthLeft int) (*Value, Status) {
	if depthLeft <= 0 {
		return nil, StatusDepthExceeded
	}
	p.pos++ // consume '['
	p.skipWS()
	arr := Array()
	if p.peek() == ']' {
		p.pos++
		return arr, StatusSuccess
	}
	for {
		val, st := p.parseValue(depthLeft - 1)
		if st == StatusAbsentValue {
			return nil, StatusUnexpectedComma
		}
		if st != StatusSuccess {
			return nil, st
		}
		arr.arr = append(arr.arr, val)
		p.skipWS()
		switch p.peek() {
		case ',':
			p.pos++
			p.skipWS()
			continue
		case ']':
			p.pos++
			return arr, StatusSuccess
		default:
			if p.pos >= len(p.buf) {
				return nil, StatusUnexpectedEndOfArray
			}
			if isValueStartByte(p.peek()) {
				return nil, StatusMissingComma
			}
			return nil, StatusIllegalCharacter
		}
	}
}

// parseObject implements spec.md §4.1 "Arrays and objects" for the
// '{' context, including the KEY constraint (object keys must be
// strings) and duplicate-key first-insertion-wins semantics (spec.md §3
// invariant: "duplicate keys on parse retain the first insertion").
func (p *parser) parseObject(depthLeft int) (*Value, Status) {
	if depthLeft <= 0 {
		return nil, StatusDepthExceeded
	}
	p.pos++ // consume '{'
	p.skipWS()
	obj := Object()
	if p.peek() == '}' {
		p.pos++
		return obj, StatusSuccess
	}
	for {
		if p.peek() != '"' {
			if p.pos >= len(p.buf) {
				return nil, StatusUnexpectedEndOfObject
			}
			if isValueStartByte(p.peek()) {
				return nil, StatusObjectKeyMustBeString
			}
			return nil, StatusIllegalCharacter
		}
		keyVal, st := p.parseString()
		if st != StatusSuccess {
			return nil, st
		}
		p.skipWS()
		if p.peek() != ':' {
			if p.pos >= len(p.buf) {
				return nil, StatusUnexpectedEndOfObject
			}
			if isValueStartByte(p.peek()) {
				return nil, StatusMissingColon
			}
			return nil, StatusIllegalCharacter
		}
		p.pos++
		p.skipWS()
		val, st := p.parseValue(depthLeft - 1)
		if st == StatusAbsentValue {
			return nil, StatusObjectMissingValue
		}
		if st != StatusSuccess {
			return nil, st
		}
		if _, exists := obj.objectIndex(keyVal.s); !exists {
			obj.SetObjectItem(keyVal.s, val)
		}
		p.skipWS()
		switch p.peek() {
		case ',':
			p.pos++
			p.skipWS()
			continue
		case '}':
			p.pos++
			return obj, StatusSuccess
		default:
			if p.pos >= len(p.buf) {
				return nil, StatusUnexpectedEndOfObject
			}
			if isValueStartByte(p.peek()) {
				return nil, StatusMissingComma
			}
			return nil, StatusIllegalCharacter
		}
	}
}

// parseString implements spec.md §4.1 "Strings": a table-driven byte
// classifier (utf8.go's classTable) that batches literal runs and only
// breaks out to handle escapes or multi-byte UTF-8 decoding, rejecting
// C0/C1 controls and malformed UTF-8 with the precise status from the
// table in spec.md §4.1.
func (p *parser) parseString() (*Value, Status) {
	p.pos++ // consume opening quote
	var out []byte
	runStart := p.pos
	for {
		if p.pos >= len(p.buf) {
			return nil, StatusUnexpectedEndOfString
		}
		b := p.buf[p.pos]
		switch classTable[b] {
		case classDQuote:
			out = append(out, p.buf[runStart:p.pos]...)
			p.pos++
			return String(string(out)), StatusSuccess

		case classBackslash:
			out = append(out, p.buf[runStart:p.pos]...)
			esc, st := p.decodeEscape()
			if st != StatusSuccess {
				return nil, st
			}
			out = append(out, esc...)
			runStart = p.pos

		case classC0:
			return nil, StatusNonDelC0ControlCodeInString
		case classC1:
			return nil, StatusC1ControlCodeInString
		case classBadUTF8:
			return nil, StatusOverlongASCII
		case classEvilUTF8:
			return nil, StatusIllegalUTF8Character

		case classASCII:
			p.pos++

		case classUTF8_3_ED:
			r, n, st := decodeRuneAt(p.buf[p.pos:])
			if st == StatusUTF16SurrogateInUTF8 {
				if combined, total, ok := p.tryCESU8Pair(r, n); ok {
					out = append(out, p.buf[runStart:p.pos]...)
					out = appendUTF8(out, combined)
					p.pos += total
					runStart = p.pos
					continue
				}
				return nil, StatusUTF16SurrogateInUTF8
			}
			if st != StatusSuccess {
				return nil, st
			}
			p.pos += n

		default: // classUTF8_2, classUTF8_3, classUTF8_3_E0, classUTF8_4, classUTF8_4_F0
			_, n, st := decodeRuneAt(p.buf[p.pos:])
			if st != StatusSuccess {
				return nil, st
			}
			p.pos += n
		}
	}
}

// tryCESU8Pair checks whether the 3-byte surrogate-range sequence just
// decoded at p.pos (value hi, byte length n) is the first half of a
// CESU-8 pair whose second half immediately follows as another 3-byte
// 0xED-led sequence. On success it returns the combined supplementary
// codepoint and the total byte length of both halves (spec.md §4.1/§9
// "CESU-8").
func (p *parser) tryCESU8Pair(hi rune, n int) (rune, int, bool) {
	if !isHighSurrogate(uint16(hi)) {
		return 0, 0, false
	}
	rest := p.buf[p.pos+n:]
	if len(rest) < 3 || rest[0] != 0xED {
		return 0, 0, false
	}
	lo, n2, st := decodeRuneAt(rest)
	if st != StatusUTF16SurrogateInUTF8 || !isLowSurrogate(uint16(lo)) {
		return 0, 0, false
	}
	return combineSurrogates(uint16(hi), uint16(lo)), n + n2, true
}

// decodeEscape handles one '\X' escape sequence; p.pos points at the
// backslash on entry. It returns the decoded bytes to append to the
// output buffer.
func (p *parser) decodeEscape() ([]byte, Status) {
	p.pos++ // consume backslash
	if p.pos >= len(p.buf) {
		return nil, StatusUnexpectedEndOfString
	}
	c := p.buf[p.pos]
	switch c {
	case '"', '\\', '/':
		p.pos++
		return []byte{c}, StatusSuccess
	case 'b':
		p.pos++
		return []byte{'\b'}, StatusSuccess
	case 'f':
		p.pos++
		return []byte{'\f'}, StatusSuccess
	case 'n':
		p.pos++
		return []byte{'\n'}, StatusSuccess
	case 'r':
		p.pos++
		return []byte{'\r'}, StatusSuccess
	case 't':
		p.pos++
		return []byte{'\t'}, StatusSuccess
	case 'x':
		p.pos++
		return p.decodeHexEscape()
	case 'u':
		p.pos++
		return p.decodeUnicodeEscape()
	default:
		return nil, StatusInvalidEscapeCharacter
	}
}

func hexVal(b byte) (int, bool) {
	switch {
	case b >= '0' && b <= '9':
		return int(b - '0'), true
	case b >= 'a' && b <= 'f':
		return int(b-'a') + 10, true
	case b >= 'A' && b <= 'F':
		return int(b-'A') + 10, true
	default:
		return 0, false
	}
}

// decodeHexEscape handles \xHH, accepting only printable ASCII
// (spec.md §4.1 Escapes).
func (p *parser) decodeHexEscape() ([]byte, Status) {
	if p.pos+2 > len(p.buf) {
		return nil, StatusInvalidHexEscape
	}
	hi, ok1 := hexVal(p.buf[p.pos])
	lo, ok2 := hexVal(p.buf[p.pos+1])
	if !ok1 || !ok2 {
		return nil, StatusInvalidHexEscape
	}
	v := hi<<4 | lo
	p.pos += 2
	if v < 0x20 || v > 0x7E {
		return nil, StatusHexEscapeNotPrintable
	}
	return []byte{byte(v)}, StatusSuccess
}

// hex4At reads exactly 4 hex digits starting at pos without mutating the
// parser's cursor; the caller decides whether to commit.
func hex4At(buf []byte, pos int) (uint16, bool) {
	if pos+4 > len(buf) {
		return 0, false
	}
	var v uint16
	for i := 0; i < 4; i++ {
		d, ok := hexVal(buf[pos+i])
		if !ok {
			return 0, false
		}
		v = v<<4 | uint16(d)
	}
	return v, true
}

// decodeUnicodeEscape handles \uHHHH, including the surrogate-pair and
// "echo malformed surrogate escapes literally" rules of spec.md §4.1/§9.
// p.pos points at the first hex digit on entry (the 'u' already consumed
// by decodeEscape).
func (p *parser) decodeUnicodeEscape() ([]byte, Status) {
	c, ok := hex4At(p.buf, p.pos)
	if !ok {
		return nil, StatusInvalidUnicodeEscape
	}
	if !(c >= 0xD800 && c <= 0xDFFF) {
		p.pos += 4
		return appendUTF8(nil, rune(c)), StatusSuccess
	}
	if isHighSurrogate(c) {
		if p.pos+4+2+4 <= len(p.buf) && p.buf[p.pos+4] == '\\' && p.buf[p.pos+5] == 'u' {
			if lo, ok2 := hex4At(p.buf, p.pos+6); ok2 && isLowSurrogate(lo) {
				p.pos += 4 + 2 + 4
				return appendUTF8(nil, combineSurrogates(c, lo)), StatusSuccess
			}
		}
		// No valid low-surrogate pair follows: echo "\u" literally and
		// resume scanning at the hex digits (deliberate, per spec.md §9
		// "Surrogate echo behavior" — do not consume them, do not
		// substitute U+FFFD).
		return []byte("\\u"), StatusSuccess
	}
	// Lone low surrogate with no preceding high surrogate: same echo rule.
	return []byte("\\u"), StatusSuccess
}
