package bignum

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Float64 converts a to a float64. Exponents above 308 overflow to ±Inf explicitly.
func (a Number) Float64() float64 {
	switch {
	case a.inf:
		return math.Inf(int(a.m))
	case a.m == 0:
		return 0
	case a.e > 308:
		return math.Inf(a.Sign())
	case a.e < -330:
		return 0
	}
	if a.e >= 300 || a.e <= -300 {
		// Near the float64 limits a scaled product can round past MaxFloat64 or
		// lose subnormal bits; parsing rounds once.
		f, _ := strconv.ParseFloat(strconv.FormatFloat(a.m, 'g', -1, 64)+"e"+strconv.FormatInt(a.e, 10), 64)
		return f
	}
	return scaleByPow10(a.m, a.e)
}

// String renders a for display. Exponents below 6 render as a plain decimal with
// trailing zeros trimmed, except magnitudes under 0.001 which use exponential form.
// Larger values render as "<mantissa with 2 decimals>e<exponent>".
func (a Number) String() string {
	switch {
	case a.inf && a.m < 0:
		return "-Infinity"
	case a.inf:
		return "Infinity"
	case a.m == 0:
		return "0"
	case a.e >= 6 || a.e < -3:
		return formatExp(a.m, a.e, 2)
	}
	return formatPlain(a)
}

// formatExp renders m×10^e with prec mantissa decimals, carrying rounding into the
// exponent so the mantissa never prints as 10.
func formatExp(m float64, e int64, prec int) string {
	pow := math.Pow10(prec)
	r := math.Round(m*pow) / pow
	if math.Abs(r) >= 10 {
		r /= 10
		e++
	}
	return strconv.FormatFloat(r, 'f', prec, 64) + "e" + strconv.FormatInt(e, 10)
}

// formatPlain renders a with six significant digits.
func formatPlain(a Number) string {
	prec := int(5 - a.e)
	if prec < 0 {
		prec = 0
	}
	s := strconv.FormatFloat(a.Float64(), 'f', prec, 64)
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	return s
}

// Parse reads a Number from "<float>e<int>" or a plain decimal. The string is split on
// the first 'e' or 'E'; a missing exponent defaults to 0. "Infinity" and "inf"
// (optionally signed) parse to the infinity sentinel.
func Parse(s string) (Number, error) {
	t := strings.TrimSpace(s)
	if t == "" {
		return Zero, errors.New("bignum: empty number")
	}

	switch strings.ToLower(strings.TrimPrefix(t, "+")) {
	case "infinity", "inf":
		return Inf, nil
	case "-infinity", "-inf":
		return Inf.Neg(), nil
	}

	mant, exp, hasExp := t, "", false
	if i := strings.IndexAny(t, "eE"); i >= 0 {
		mant, exp, hasExp = t[:i], t[i+1:], true
	}

	m, err := parseMantissa(mant)
	if err != nil {
		return Zero, fmt.Errorf("bignum: invalid mantissa %q: %w", mant, err)
	}
	if !hasExp {
		return m, nil
	}
	e, err := strconv.ParseInt(exp, 10, 64)
	if err != nil {
		return Zero, fmt.Errorf("bignum: invalid exponent %q: %w", exp, err)
	}
	switch {
	case m.IsZero():
		return Zero, nil
	case e > 2*maxExponent:
		return infWithSign(m.m), nil
	case e < -2*maxExponent:
		return Zero, nil
	}
	return New(m.m, m.e+e), nil
}

// parseMantissa parses the part before the exponent marker. Plain decimals longer
// than float64 range fall back to math/big.
func parseMantissa(s string) (Number, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err == nil {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return Zero, errors.New("not a finite number")
		}
		return FromFloat(f), nil
	}
	if !errors.Is(err, strconv.ErrRange) {
		return Zero, err
	}

	bf, _, err := big.ParseFloat(s, 10, 64, big.ToNearestEven)
	if err != nil {
		return Zero, err
	}
	frac := new(big.Float)
	exp2 := bf.MantExp(frac)
	mf, _ := frac.Float64()
	return FromFloat(mf).Mul(FromFloat(2).Pow(float64(exp2))), nil
}

// MustParse is like Parse but panics on malformed input. Intended for literals.
func MustParse(s string) Number {
	n, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return n
}

// MarshalText writes the persisted form "<mantissa>e<exponent>" with the mantissa in
// its shortest exact decimal expansion, so Parse restores the value bit for bit.
func (a Number) MarshalText() ([]byte, error) {
	switch {
	case a.inf:
		return []byte(a.String()), nil
	case a.m == 0:
		return []byte("0"), nil
	}
	s := strconv.FormatFloat(a.m, 'f', -1, 64) + "e" + strconv.FormatInt(a.e, 10)
	return []byte(s), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Number) UnmarshalText(text []byte) error {
	n, err := Parse(string(text))
	if err != nil {
		return err
	}
	*a = n
	return nil
}

// MarshalJSON encodes a as a JSON string in the persisted form.
func (a Number) MarshalJSON() ([]byte, error) {
	text, _ := a.MarshalText()
	return []byte(strconv.Quote(string(text))), nil
}

// UnmarshalJSON accepts a JSON string or a bare JSON number.
func (a *Number) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" {
		return nil
	}
	if unq, err := strconv.Unquote(s); err == nil {
		s = unq
	}
	return a.UnmarshalText([]byte(s))
}

// Value implements driver.Valuer; numbers are stored as TEXT.
func (a Number) Value() (driver.Value, error) {
	text, err := a.MarshalText()
	if err != nil {
		return nil, err
	}
	return string(text), nil
}

// Scan implements sql.Scanner.
func (a *Number) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*a = Zero
		return nil
	case string:
		return a.UnmarshalText([]byte(v))
	case []byte:
		return a.UnmarshalText(v)
	case float64:
		*a = FromFloat(v)
		return nil
	case int64:
		*a = FromInt(v)
		return nil
	default:
		return fmt.Errorf("bignum: cannot scan %T", src)
	}
}

// MarshalYAML implements yaml.Marshaler.
func (a Number) MarshalYAML() (any, error) {
	text, err := a.MarshalText()
	return string(text), err
}

// UnmarshalYAML implements yaml.Unmarshaler for scalar nodes such as 1.5e30 or "10".
func (a *Number) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("bignum: line %d: expected a scalar number", node.Line)
	}
	return a.UnmarshalText([]byte(node.Value))
}
