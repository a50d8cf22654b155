package bignum

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

// checkNormalized fails the test if n breaks the mantissa invariant.
func checkNormalized(t *testing.T, n Number) {
	t.Helper()
	if n.inf {
		if math.Abs(n.m) != 1 || n.e != 0 {
			t.Errorf("infinity not canonical: %#v", n)
		}
		return
	}
	if n.m == 0 {
		if n.e != 0 {
			t.Errorf("zero with exponent %d", n.e)
		}
		return
	}
	if a := math.Abs(n.m); a < 1 || a >= 10 {
		t.Errorf("mantissa %v out of [1, 10) (exponent %d)", n.m, n.e)
	}
}

func approxEqual(a, b, rel float64) bool {
	if a == b {
		return true
	}
	return math.Abs(a-b) <= rel*math.Max(math.Abs(a), math.Abs(b))
}

func TestNewNormalizes(t *testing.T) {
	tests := []struct {
		name     string
		m        float64
		e        int64
		wantM    float64
		wantE    int64
		wantZero bool
	}{
		{"already normal", 5, 0, 5, 0, false},
		{"ten", 10, 0, 1, 1, false},
		{"thousand", 1000, 0, 1, 3, false},
		{"large mantissa", 12345, 2, 1.2345, 6, false},
		{"small mantissa", 0.05, 3, 5, 1, false},
		{"negative", -250, 0, -2.5, 2, false},
		{"zero keeps zero exponent", 0, 42, 0, 0, true},
		{"nan becomes zero", math.NaN(), 7, 0, 0, true},
		{"max float", math.MaxFloat64, 0, 1.7976931348623157, 308, false},
		{"subnormal", 5e-324, 0, 4.94065645841247, -324, false},
		{"subnormal decade", 1e-310, 0, 1, -310, false},
		{"exponent underflow", 0.1, math.MinInt64, 0, 0, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			n := New(tc.m, tc.e)
			checkNormalized(t, n)
			if tc.wantZero {
				if !n.IsZero() {
					t.Errorf("New(%v, %d) = %v, expected zero", tc.m, tc.e, n)
				}
				return
			}
			if n.Exponent() != tc.wantE || !approxEqual(n.Mantissa(), tc.wantM, 1e-12) {
				t.Errorf("New(%v, %d) = (%v, %d), expected (%v, %d)",
					tc.m, tc.e, n.Mantissa(), n.Exponent(), tc.wantM, tc.wantE)
			}
		})
	}
}

func TestNewExponentOverflow(t *testing.T) {
	if n := New(10, math.MaxInt64); !n.IsInf() || n.Sign() != 1 {
		t.Errorf("New(10, MaxInt64) = %#v, expected Infinity", n)
	}
	if n := New(-5, math.MaxInt64-1); !n.IsInf() || n.Sign() != -1 {
		t.Errorf("New(-5, MaxInt64-1) = %#v, expected -Infinity", n)
	}
	if n := New(5, -maxExponent); n.IsZero() || n.Exponent() != -maxExponent {
		t.Errorf("New(5, %d) = %#v, expected it unchanged", -maxExponent, n)
	}
}

func TestFromFloatInfinity(t *testing.T) {
	if n := FromFloat(math.Inf(1)); !n.IsInf() || n.Sign() != 1 {
		t.Errorf("FromFloat(+Inf) = %#v, expected +Inf sentinel", n)
	}
	if n := FromFloat(math.Inf(-1)); !n.IsInf() || n.Sign() != -1 {
		t.Errorf("FromFloat(-Inf) = %#v, expected -Inf sentinel", n)
	}
}

func TestAdd(t *testing.T) {
	// 5 + 5 = 10
	got := New(5, 0).Add(New(5, 0))
	if got != New(1, 1) || got.Mantissa() != 1 || got.Exponent() != 1 {
		t.Errorf("5 + 5 = (%v, %d), expected (1, 1)", got.Mantissa(), got.Exponent())
	}

	tests := []struct {
		name string
		a, b Number
		want float64
	}{
		{"different exponents", New(1.5, 3), New(2, 1), 1520},
		{"negative result", New(1, 2), New(-3, 2), -200},
		{"cancel to zero", New(7, 5), New(-7, 5), 0},
		{"zero left", Zero, New(3, -20), 3e-20},
		{"zero right", New(3, -20), Zero, 3e-20},
		{"within cutoff", New(1, 15), New(1, 0), 1e15 + 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := tc.a.Add(tc.b)
			checkNormalized(t, r)
			if !approxEqual(r.Float64(), tc.want, 1e-12) {
				t.Errorf("%v + %v = %v, expected %v", tc.a, tc.b, r.Float64(), tc.want)
			}
		})
	}
}

func TestAddNegligibleCutoff(t *testing.T) {
	big := New(3.25, 40)
	small := New(9.99, 24) // 16 decades below
	if got := big.Add(small); got != big {
		t.Errorf("Add across 16 decades = %#v, expected larger operand unchanged %#v", got, big)
	}
	if got := small.Add(big); got != big {
		t.Errorf("Add (reversed) across 16 decades = %#v, expected %#v", got, big)
	}
}

func TestSubConsistency(t *testing.T) {
	pairs := [][2]Number{
		{New(5, 3), New(2, 1)},
		{New(1, 100), New(9.5, 99)},
		{New(-4, -3), New(7, -3)},
		{Zero, New(1, 50)},
		{New(2, 10), New(2, 10)},
	}
	for _, p := range pairs {
		a, b := p[0], p[1]
		if a.Add(b.Neg()).Cmp(a.Sub(b)) != 0 {
			t.Errorf("Add(a, -b) != Sub(a, b) for a=%v b=%v", a, b)
		}
		checkNormalized(t, a.Sub(b))
	}
}

func TestMul(t *testing.T) {
	tests := []struct{ a, b float64 }{
		{3, 7},
		{1.5e10, 4e-3},
		{-2.5, 8},
		{123456, 654321},
	}
	for _, tc := range tests {
		r := FromFloat(tc.a).Mul(FromFloat(tc.b))
		checkNormalized(t, r)
		if !approxEqual(r.Float64(), tc.a*tc.b, 1e-12) {
			t.Errorf("%v × %v = %v, expected %v", tc.a, tc.b, r.Float64(), tc.a*tc.b)
		}
	}

	huge := New(5, 200).Mul(New(4, 200))
	if huge.Exponent() != 401 || !approxEqual(huge.Mantissa(), 2, 1e-12) {
		t.Errorf("5e200 × 4e200 = %v, expected 2e401", huge)
	}
	if !Inf.Mul(Zero).IsZero() {
		t.Error("Inf × 0 should be zero, not NaN")
	}
}

func TestDiv(t *testing.T) {
	r := New(1, 10).Div(New(4, 2))
	if !approxEqual(r.Float64(), 2.5e7, 1e-12) {
		t.Errorf("1e10 / 4e2 = %v, expected 2.5e7", r)
	}

	if got := New(3, 0).Div(Zero); !got.IsInf() || got.Sign() != 1 {
		t.Errorf("3 / 0 = %#v, expected +Inf", got)
	}
	if got := New(-3, 0).Div(Zero); !got.IsInf() || got.Sign() != -1 {
		t.Errorf("-3 / 0 = %#v, expected -Inf", got)
	}
	if got := Zero.Div(Zero); !got.IsZero() {
		t.Errorf("0 / 0 = %#v, expected zero", got)
	}
	if got := New(5, 5).Div(Inf); !got.IsZero() {
		t.Errorf("x / Inf = %#v, expected zero", got)
	}
}

func TestPow(t *testing.T) {
	if got := New(1, 0).Pow(3); got.Mantissa() != 1 || got.Exponent() != 0 {
		t.Errorf("1^3 = (%v, %d), expected (1, 0)", got.Mantissa(), got.Exponent())
	}
	if got := Zero.Pow(5); !got.IsZero() {
		t.Errorf("0^5 = %v, expected 0", got)
	}
	if got := New(7, 3).Pow(0); got != One {
		t.Errorf("x^0 = %v, expected 1", got)
	}
	if got := FromFloat(2).Pow(10); got.Float64() != 1024 {
		t.Errorf("2^10 = %v, expected exactly 1024", got.Float64())
	}
	if got := FromFloat(-2).Pow(3); got.Float64() != -8 {
		t.Errorf("(-2)^3 = %v, expected -8", got.Float64())
	}
	if got := FromFloat(-2).Pow(0.5); !got.IsZero() {
		t.Errorf("(-2)^0.5 = %v, expected zero (no real result)", got)
	}

	// Log-domain path: 10^400 squared would overflow any float64.
	big := New(1, 400).Pow(2)
	checkNormalized(t, big)
	if big.Exponent() != 800 || !approxEqual(big.Mantissa(), 1, 1e-9) {
		t.Errorf("(1e400)^2 = %v, expected 1e800", big)
	}

	// 1.07^10000 = 10^(10000 × log10 1.07)
	want := 10000 * math.Log10(1.07)
	got := FromFloat(1.07).Pow(10000)
	checkNormalized(t, got)
	if !approxEqual(got.Log10(), want, 1e-12) {
		t.Errorf("log10(1.07^10000) = %v, expected %v", got.Log10(), want)
	}

	root := New(1, 1000).Sqrt()
	if root.Exponent() != 500 {
		t.Errorf("sqrt(1e1000) exponent = %d, expected 500", root.Exponent())
	}
}

func TestPowOverflowToInf(t *testing.T) {
	got := New(1, 100).Pow(1e15)
	if !got.IsInf() {
		t.Errorf("(1e100)^1e15 = %#v, expected Inf", got)
	}
	if got := New(1, -100).Pow(1e15); !got.IsZero() {
		t.Errorf("(1e-100)^1e15 = %#v, expected zero", got)
	}
}

func TestLog10(t *testing.T) {
	tests := []struct {
		name string
		n    Number
		want float64
	}{
		{"one", One, 0},
		{"thousand", FromFloat(1000), 3},
		{"huge", New(2, 500), 500 + math.Log10(2)},
		{"zero yields zero", Zero, 0},
		{"negative yields zero", FromFloat(-50), 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.n.Log10(); !approxEqual(got, tc.want, 1e-12) {
				t.Errorf("Log10(%v) = %v, expected %v", tc.n, got, tc.want)
			}
		})
	}
}

func TestCmp(t *testing.T) {
	ordered := []Number{
		Inf.Neg(),
		New(-5, 100),
		New(-1, 0),
		New(-9, -5),
		Zero,
		New(1, -300),
		New(9.99, -1),
		One,
		New(1.01, 0),
		New(5, 100),
		Inf,
	}
	for i := range ordered {
		for j := range ordered {
			want := 0
			switch {
			case i < j:
				want = -1
			case i > j:
				want = 1
			}
			if got := ordered[i].Cmp(ordered[j]); got != want {
				t.Errorf("Cmp(%v, %v) = %d, expected %d", ordered[i], ordered[j], got, want)
			}
		}
	}

	if New(3, 4).Max(New(2, 5)) != New(2, 5) {
		t.Error("Max picked the smaller value")
	}
	if New(3, 4).Min(New(2, 5)) != New(3, 4) {
		t.Error("Min picked the larger value")
	}
}

func TestFloat64(t *testing.T) {
	if got := New(1.5, 308).Float64(); !approxEqual(got, 1.5e308, 1e-12) {
		t.Errorf("Float64(1.5e308) = %v", got)
	}
	if got := New(1, 309).Float64(); !math.IsInf(got, 1) {
		t.Errorf("Float64(1e309) = %v, expected +Inf", got)
	}
	if got := New(-1, 400).Float64(); !math.IsInf(got, -1) {
		t.Errorf("Float64(-1e400) = %v, expected -Inf", got)
	}
	if got := New(1, -400).Float64(); got != 0 {
		t.Errorf("Float64(1e-400) = %v, expected 0", got)
	}
	if got := New(1.7976931348623157, 308).Float64(); got != math.MaxFloat64 {
		t.Errorf("Float64(MaxFloat64) = %v, expected %v", got, math.MaxFloat64)
	}
	if got := FromFloat(-math.MaxFloat64).Float64(); got != -math.MaxFloat64 {
		t.Errorf("Float64(-MaxFloat64) = %v", got)
	}
	if got := FromFloat(1e-310).Float64(); got != 1e-310 {
		t.Errorf("Float64(1e-310) = %v, expected 1e-310", got)
	}
}

func TestFloor(t *testing.T) {
	if got := FromFloat(98.4).Floor(); got.Float64() != 98 {
		t.Errorf("Floor(98.4) = %v, expected 98", got)
	}
	big := New(1.23456789, 40)
	if got := big.Floor(); got != big {
		t.Errorf("Floor(%v) changed a value beyond float precision", big)
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		n    Number
		want string
	}{
		{Zero, "0"},
		{FromFloat(10), "10"},
		{FromFloat(2.5), "2.5"},
		{FromFloat(123456), "123456"},
		{FromFloat(1234567), "1.23e6"},
		{FromFloat(0.5), "0.5"},
		{FromFloat(0.00123), "0.00123"},
		{FromFloat(0.0005), "5.00e-4"},
		{New(9.999, 10), "1.00e11"},
		{New(-4.5, 50), "-4.50e50"},
		{Inf, "Infinity"},
		{Inf.Neg(), "-Infinity"},
	}
	for _, tc := range tests {
		if got := tc.n.String(); got != tc.want {
			t.Errorf("String(%#v) = %q, expected %q", tc.n, got, tc.want)
		}
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in    string
		wantM float64
		wantE int64
	}{
		{"10", 1, 1},
		{"1.5e30", 1.5, 30},
		{"25E-3", 2.5, -2},
		{"  7.25e+4 ", 7.25, 4},
		{"0", 0, 0},
		{"-3e100", -3, 100},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			n, err := Parse(tc.in)
			if err != nil {
				t.Fatalf("Parse(%q) failed: %v", tc.in, err)
			}
			checkNormalized(t, n)
			if n.Exponent() != tc.wantE || !approxEqual(n.Mantissa(), tc.wantM, 1e-12) {
				t.Errorf("Parse(%q) = (%v, %d), expected (%v, %d)", tc.in, n.Mantissa(), n.Exponent(), tc.wantM, tc.wantE)
			}
		})
	}

	if n, err := Parse("Infinity"); err != nil || !n.IsInf() {
		t.Errorf("Parse(Infinity) = %v, %v", n, err)
	}

	long := "5" + strings.Repeat("0", 348)
	n, err := Parse(long)
	if err != nil {
		t.Fatalf("Parse(long decimal) failed: %v", err)
	}
	if n.Exponent() != int64(len(long)-1) {
		t.Errorf("Parse(long decimal) exponent = %d, expected %d", n.Exponent(), len(long)-1)
	}

	tiny := "0." + strings.Repeat("0", 319) + "5"
	n, err = Parse(tiny)
	if err != nil {
		t.Fatalf("Parse(tiny decimal) failed: %v", err)
	}
	checkNormalized(t, n)
	if n.Exponent() != -320 || !approxEqual(n.Mantissa(), 5, 1e-3) {
		t.Errorf("Parse(tiny decimal) = (%v, %d), expected (5, -320)", n.Mantissa(), n.Exponent())
	}

	if n, err := Parse("10e9223372036854775807"); err != nil || !n.IsInf() || n.Sign() != 1 {
		t.Errorf("Parse(exponent past int64) = %v, %v, expected Infinity", n, err)
	}
	if n, err := Parse("-10e9223372036854775807"); err != nil || !n.IsInf() || n.Sign() != -1 {
		t.Errorf("Parse(negative exponent past int64) = %v, %v, expected -Infinity", n, err)
	}
	if n, err := Parse("0.1e-9223372036854775808"); err != nil || !n.IsZero() {
		t.Errorf("Parse(exponent below int64) = %v, %v, expected 0", n, err)
	}
	if n, err := Parse("0e9223372036854775807"); err != nil || !n.IsZero() {
		t.Errorf("Parse(zero with huge exponent) = %v, %v, expected 0", n, err)
	}

	for _, bad := range []string{"", "abc", "1e", "1e5.5", "NaN", "1.2.3"} {
		if _, err := Parse(bad); err == nil {
			t.Errorf("Parse(%q) expected error", bad)
		}
	}
}

func TestStringRoundTrip(t *testing.T) {
	values := []Number{
		FromFloat(3),
		FromFloat(98.4017),
		FromFloat(0.000731),
		New(5.555, 6),
		New(1.234, 150),
		New(-9.876, 299),
		New(2.5, -250),
	}
	for _, v := range values {
		back, err := Parse(v.String())
		if err != nil {
			t.Fatalf("Parse(%q) failed: %v", v.String(), err)
		}
		if !approxEqual(back.Mantissa()*math.Pow10(int(back.Exponent()-v.Exponent())), v.Mantissa(), 1e-2) {
			t.Errorf("round trip %v -> %q -> %v exceeds 1e-2", v, v.String(), back)
		}
	}
}

func TestMarshalTextLossless(t *testing.T) {
	values := []Number{Zero, One, FromFloat(1.0 / 3), New(7.123456789012345, 12345), New(-2.2, -77), Inf}
	for _, v := range values {
		text, err := v.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText(%v) failed: %v", v, err)
		}
		var back Number
		if err := back.UnmarshalText(text); err != nil {
			t.Fatalf("UnmarshalText(%q) failed: %v", text, err)
		}
		if back != v {
			t.Errorf("text round trip %#v -> %q -> %#v", v, text, back)
		}
	}
}

func TestEncodings(t *testing.T) {
	type save struct {
		Gold Number `json:"gold" yaml:"gold"`
	}

	data, err := json.Marshal(save{Gold: New(4.5, 42)})
	if err != nil {
		t.Fatalf("json.Marshal failed: %v", err)
	}
	if string(data) != `{"gold":"4.5e42"}` {
		t.Errorf("json.Marshal = %s", data)
	}

	var s save
	if err := json.Unmarshal([]byte(`{"gold":1500}`), &s); err != nil {
		t.Fatalf("json.Unmarshal bare number failed: %v", err)
	}
	if s.Gold != New(1.5, 3) {
		t.Errorf("json bare number = %v, expected 1500", s.Gold)
	}

	if err := yaml.Unmarshal([]byte("gold: 2.5e300\n"), &s); err != nil {
		t.Fatalf("yaml.Unmarshal failed: %v", err)
	}
	if s.Gold != New(2.5, 300) {
		t.Errorf("yaml gold = %v, expected 2.5e300", s.Gold)
	}

	var scanned Number
	if err := scanned.Scan([]byte("3e7")); err != nil || scanned != New(3, 7) {
		t.Errorf("Scan([]byte) = %v, %v", scanned, err)
	}
	if err := scanned.Scan(int64(42)); err != nil || scanned != New(4.2, 1) {
		t.Errorf("Scan(int64) = %v, %v", scanned, err)
	}
	if err := scanned.Scan(true); err == nil {
		t.Error("Scan(bool) expected error")
	}
}

func TestOperationsStayNormalized(t *testing.T) {
	seeds := []Number{Zero, One, New(-3.3, 4), New(9.99, 299), New(1.01, -12), New(5, 1000)}
	for _, a := range seeds {
		for _, b := range seeds {
			for _, r := range []Number{a.Add(b), a.Sub(b), a.Mul(b), a.Div(b), a.Pow(2.5), a.Abs().Pow(-1.5)} {
				checkNormalized(t, r)
				if math.IsNaN(r.Mantissa()) {
					t.Errorf("NaN escaped for a=%v b=%v", a, b)
				}
			}
		}
	}
}
