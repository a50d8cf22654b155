package bignum

import "testing"

func TestFormatterNotations(t *testing.T) {
	tests := []struct {
		name     string
		notation Notation
		n        Number
		want     string
	}{
		{"small values are plain", NotationStandard, FromFloat(999), "999"},
		{"thousands suffix", NotationStandard, FromFloat(1500), "1.50K"},
		{"millions suffix", NotationStandard, FromFloat(2.346e6), "2.35M"},
		{"decillion suffix", NotationStandard, New(7, 34), "70.00Dc"},
		{"rounding carries to next suffix", NotationStandard, FromFloat(999999), "1.00M"},
		{"past the table falls back", NotationStandard, New(1.2, 40), "1.20e40"},
		{"scientific below a million", NotationScientific, FromFloat(54321), "54321"},
		{"scientific", NotationScientific, New(6.789, 120), "6.79e120"},
		{"engineering", NotationEngineering, New(1.234, 7), "12.34e6"},
		{"engineering carry", NotationEngineering, New(9.99999, 8), "1.00e9"},
		{"negative", NotationStandard, FromFloat(-4200), "-4.20K"},
		{"infinity", NotationStandard, Inf, "Infinity"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := Formatter{Notation: tc.notation, Precision: 2}
			if got := f.Format(tc.n); got != tc.want {
				t.Errorf("Format(%v) = %q, expected %q", tc.n, got, tc.want)
			}
		})
	}
}

func TestDefaultFormatterMatchesString(t *testing.T) {
	f := DefaultFormatter()
	for _, n := range []Number{Zero, FromFloat(12.5), FromFloat(123456), New(3.14159, 77), FromFloat(0.0002)} {
		if f.Format(n) != n.String() {
			t.Errorf("DefaultFormatter().Format(%#v) = %q, String() = %q", n, f.Format(n), n.String())
		}
	}
}

func TestParseNotation(t *testing.T) {
	for in, want := range map[string]Notation{
		"":             NotationScientific,
		"Scientific":   NotationScientific,
		"standard":     NotationStandard,
		" engineering": NotationEngineering,
	} {
		got, err := ParseNotation(in)
		if err != nil || got != want {
			t.Errorf("ParseNotation(%q) = %q, %v; expected %q", in, got, err, want)
		}
	}
	if _, err := ParseNotation("roman"); err == nil {
		t.Error("ParseNotation(roman) expected error")
	}
}
