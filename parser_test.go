package strictjson

import "testing"

func mustParse(t *testing.T, s string) *Value {
	t.Helper()
	v, err := ParseString(s)
	if err != nil {
		t.Fatalf("ParseString(%q) unexpected error: %v", s, err)
	}
	return v
}

func wantStatus(t *testing.T, s string, want Status) {
	t.Helper()
	_, err := ParseString(s)
	if err == nil {
		t.Fatalf("ParseString(%q) expected error %s, got none", s, want)
	}
	pe, ok := err.(*ParseError)
	if !ok {
		t.Fatalf("ParseString(%q) expected *ParseError, got %T", s, err)
	}
	if pe.Status != want {
		t.Fatalf("ParseString(%q) got status %s, want %s", s, pe.Status, want)
	}
}

func TestParseLiterals(t *testing.T) {
	if !mustParse(t, "null").IsNull() {
		t.Fatal("null literal")
	}
	if mustParse(t, "true").BoolValue() != true {
		t.Fatal("true literal")
	}
	if mustParse(t, "false").BoolValue() != false {
		t.Fatal("false literal")
	}
}

func TestParseNumbers(t *testing.T) {
	cases := []struct {
		in   string
		kind Kind
	}{
		{"0", KindLong},
		{"-0", KindLong},
		{"42", KindLong},
		{"-42", KindLong},
		{"3.14", KindDouble},
		{"1e10", KindDouble},
		{"1E-10", KindDouble},
		{"-1.5e+3", KindDouble},
	}
	for _, c := range cases {
		v := mustParse(t, c.in)
		if v.Kind() != c.kind {
			t.Errorf("Parse(%q).Kind() = %s, want %s", c.in, v.Kind(), c.kind)
		}
	}
}

func TestParseIntegerOverflowPromotesToDouble(t *testing.T) {
	v := mustParse(t, "99999999999999999999999999999")
	if v.Kind() != KindDouble {
		t.Fatalf("overflowing integer literal should promote to double, got %s", v.Kind())
	}
}

func TestParseRejectsLeadingZero(t *testing.T) {
	wantStatus(t, "01", StatusUnexpectedOctal)
}

func TestParseRejectsBadNegative(t *testing.T) {
	wantStatus(t, "-", StatusBadNegative)
	wantStatus(t, "-a", StatusBadNegative)
}

func TestParseRejectsBadExponent(t *testing.T) {
	wantStatus(t, "1e", StatusBadExponent)
	wantStatus(t, "1e+", StatusBadExponent)
}

func TestParseRejectsBadDouble(t *testing.T) {
	wantStatus(t, "1.", StatusBadDouble)
}

func TestParseStrings(t *testing.T) {
	v := mustParse(t, `"hello world"`)
	if v.StringValue() != "hello world" {
		t.Fatalf("got %q", v.StringValue())
	}
}

func TestParseStringEscapes(t *testing.T) {
	cases := map[string]string{
		`"\n"`:             "\n",
		`"\t"`:             "\t",
		`"\""`:             `"`,
		`"\\"`:             `\`,
		`"\/"`:              "/",
		"\"\\u0041\"":       "A",
		"\"\\ud83d\\ude00\"": "\U0001F600", // emoji surrogate pair
		`"\x41"`:            "A",
	}
	for in, want := range cases {
		v := mustParse(t, in)
		if v.StringValue() != want {
			t.Errorf("ParseString(%s) = %q, want %q", in, v.StringValue(), want)
		}
	}
}

func TestParseSurrogateEchoOnMalformedEscape(t *testing.T) {
	// A lone low surrogate with no preceding high surrogate echoes the
	// literal "\u" text rather than substituting U+FFFD or erroring.
	v := mustParse(t, `"\uDFAA"`)
	if v.StringValue() != `\uDFAA` {
		t.Fatalf(`got %q, want literal \uDFAA`, v.StringValue())
	}
}

func TestParseRejectsHexEscapeNonPrintable(t *testing.T) {
	wantStatus(t, `"\x01"`, StatusHexEscapeNotPrintable)
}

func TestParseRejectsInvalidEscapeCharacter(t *testing.T) {
	wantStatus(t, `"\q"`, StatusInvalidEscapeCharacter)
}

func TestParseRejectsControlCharactersInString(t *testing.T) {
	wantStatus(t, "\"a\x01b\"", StatusNonDelC0ControlCodeInString)
	wantStatus(t, "\"a\x85b\"", StatusC1ControlCodeInString)
}

func TestParseArraysAndObjects(t *testing.T) {
	v := mustParse(t, `[1, 2, 3]`)
	if v.Len() != 3 || v.Get(1).LongValue() != 2 {
		t.Fatal("array parse mismatch")
	}
	o := mustParse(t, `{"a":1,"b":[true,null]}`)
	if o.GetKey("a").LongValue() != 1 {
		t.Fatal("object parse mismatch")
	}
	if o.GetKey("b").Len() != 2 {
		t.Fatal("nested array parse mismatch")
	}
}

func TestParseDuplicateKeysFirstInsertionWins(t *testing.T) {
	o := mustParse(t, `{"a":1,"a":2}`)
	if o.GetKey("a").LongValue() != 1 {
		t.Fatalf("duplicate key should keep first insertion, got %d", o.GetKey("a").LongValue())
	}
}

func TestParseRejectsMissingCommaAndColon(t *testing.T) {
	wantStatus(t, `[1 2]`, StatusMissingComma)
	wantStatus(t, `{"a" 1}`, StatusMissingColon)
}

func TestParseRejectsTrailingContent(t *testing.T) {
	wantStatus(t, `1 2`, StatusTrailingContent)
}

func TestParseRejectsObjectKeyMustBeString(t *testing.T) {
	wantStatus(t, `{1:2}`, StatusObjectKeyMustBeString)
}

func TestParseDepthLimit(t *testing.T) {
	// Exactly 20 levels of array nesting must succeed.
	ok := ""
	for i := 0; i < 20; i++ {
		ok = "[" + ok + "]"
	}
	if _, err := ParseString(ok); err != nil {
		t.Fatalf("20 levels of nesting should succeed, got %v", err)
	}

	// 21 levels must fail with depth_exceeded.
	tooDeep := "[" + ok + "]"
	wantStatus(t, tooDeep, StatusDepthExceeded)
}

func TestParseRejectsOverlongUTF8(t *testing.T) {
	// 0xC0 0x80 is an overlong encoding of NUL.
	wantStatus(t, "\"\xc0\x80\"", StatusOverlongASCII)
}

func TestParseRejectsLoneSurrogateInUTF8(t *testing.T) {
	// 0xED 0xA0 0x80 directly encodes U+D800, a lone high surrogate.
	wantStatus(t, "\"\xed\xa0\x80\"", StatusUTF16SurrogateInUTF8)
}

func TestParseEmptyContainers(t *testing.T) {
	if mustParse(t, `[]`).Len() != 0 {
		t.Fatal("empty array")
	}
	if mustParse(t, `{}`).Len() != 0 {
		t.Fatal("empty object")
	}
}
