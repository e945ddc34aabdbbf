package strictjson

import "testing"

// These are the literal round-trip laws and rejection scenarios enumerated
// in spec.md §8, each checked against the exact strings given there.

func TestSpecRoundTripLaws(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{`0`, `0`},
		{`{}`, `{}`},
		{`[]`, `[]`},
		{" [\"\\u00A0\"] ", `["\u00a0"]`},
		{" [123.456e-789] ", `[0]`},
		{" [1.5e+9999] ", `[1e5000]`},
		{" [-1.5e+9999] ", `[-1e5000]`},
		{" [-123123123123123123123123123123] ", `[-1.2312312312312312e+29]`},
		{" [\"\\uDFAA\"] ", `["\\uDFAA"]`},
	}
	for _, c := range cases {
		v, err := ParseString(c.in)
		if err != nil {
			t.Fatalf("ParseString(%q) unexpected error: %v", c.in, err)
		}
		got := v.String()
		if got != c.want {
			t.Errorf("ParseString(%q).String() = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestSpecRejectionScenarios(t *testing.T) {
	cases := []struct {
		in   string
		want Status
	}{
		{`[nan]`, StatusIllegalCharacter},
		{`[012]`, StatusUnexpectedOctal},
		{`[0e]`, StatusBadExponent},
		{`{"a" b}`, StatusIllegalCharacter},
		{"[\"\t\"]", StatusNonDelC0ControlCodeInString},
		{"[\"\xc0\xaf\"]", StatusOverlongASCII},
		{"[\"\xf4\xbf\xbf\xbf\"]", StatusUTF8ExceedsUTF16Range},
		{`[] []`, StatusTrailingContent},
	}
	for _, c := range cases {
		wantStatus(t, c.in, c.want)
	}

	// 21-level array nesting, checked separately since it isn't a literal
	// in spec.md §8's table.
	deep := ""
	for i := 0; i < 21; i++ {
		deep = "[" + deep + "]"
	}
	wantStatus(t, deep, StatusDepthExceeded)
}

func TestRejectsBOM(t *testing.T) {
	// No byte-order mark is accepted; a leading BOM byte is simply not a
	// legal value-starting byte (spec.md §6 "Formats").
	wantStatus(t, "\xef\xbb\xbf{}", StatusIllegalCharacter)
}
