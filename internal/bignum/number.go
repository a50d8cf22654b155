// Package bignum provides a magnitude-unbounded number type for idle game economies.
// Values are stored as a normalized float64 mantissa and a base-10 exponent, so
// currencies, damage and HP far beyond float64 range stay comparable and closed under
// arithmetic. Precision is that of float64 (about 15 significant digits).
//
// No operation panics on domain errors: division by zero and overflow degrade to an
// explicit infinity value, and NaN never escapes.
package bignum

import "math"

const (
	// negligibleDecades is the exponent gap beyond which Add drops the smaller operand.
	negligibleDecades = 15

	// maxExponent bounds the exponent; larger results become Inf, smaller become zero.
	maxExponent int64 = 1_000_000_000_000_000
)

// Number represents mantissa × 10^exponent.
//
// A finite non-zero Number always has 1 ≤ |mantissa| < 10. Zero has mantissa 0 and
// exponent 0. Infinity carries mantissa ±1, exponent 0 and the inf flag.
// The zero value is the number 0.
type Number struct {
	m   float64
	e   int64
	inf bool
}

// Commonly used values.
var (
	Zero = Number{}
	One  = Number{m: 1}
	Inf  = Number{m: 1, inf: true}
)

// New creates a normalized Number from a mantissa and exponent.
func New(mantissa float64, exponent int64) Number {
	return normalize(mantissa, exponent)
}

// FromFloat converts a float64. NaN becomes zero, ±Inf becomes the infinity sentinel.
func FromFloat(x float64) Number {
	return normalize(x, 0)
}

// FromInt converts an int64.
func FromInt(x int64) Number {
	return normalize(float64(x), 0)
}

// normalize re-establishes the mantissa invariant.
func normalize(m float64, e int64) Number {
	switch {
	case math.IsNaN(m) || m == 0:
		return Zero
	case math.IsInf(m, 0):
		return infWithSign(m)
	case e > 2*maxExponent:
		return infWithSign(m)
	case e < -2*maxExponent:
		return Zero
	}

	// Log10 loses accuracy on subnormals.
	if math.Abs(m) < minNormal {
		m *= 1e300
		e -= 300
	}

	shift := int64(math.Floor(math.Log10(math.Abs(m))))
	m = scaleByPow10(m, -shift)
	e += shift

	// Log10 is not exact at powers of ten, so the mantissa can land a decade off.
	for i := 0; i < 4; i++ {
		if a := math.Abs(m); a >= 10 {
			m /= 10
			e++
		} else if a < 1 {
			m *= 10
			e--
		} else {
			break
		}
	}

	switch {
	case e > maxExponent:
		return infWithSign(m)
	case e < -maxExponent:
		return Zero
	}
	return Number{m: m, e: e}
}

// scaleByPow10 returns m × 10^k without intermediate overflow for |k| up to ~600.
func scaleByPow10(m float64, k int64) float64 {
	for k > 308 {
		m *= 1e300
		k -= 300
	}
	for k < -308 {
		m /= 1e300
		k += 300
	}
	if k >= 0 {
		return m * math.Pow10(int(k))
	}
	return m / math.Pow10(int(-k))
}

func infWithSign(sign float64) Number {
	if sign < 0 {
		return Number{m: -1, inf: true}
	}
	return Inf
}

// Mantissa returns the normalized mantissa.
func (a Number) Mantissa() float64 {
	return a.m
}

// Exponent returns the base-10 exponent.
func (a Number) Exponent() int64 {
	return a.e
}

// IsZero reports whether a is exactly zero.
func (a Number) IsZero() bool {
	return a.m == 0 && !a.inf
}

// IsInf reports whether a is the positive or negative infinity sentinel.
func (a Number) IsInf() bool {
	return a.inf
}

// Sign returns -1, 0 or 1.
func (a Number) Sign() int {
	switch {
	case a.m > 0:
		return 1
	case a.m < 0:
		return -1
	default:
		return 0
	}
}

// Neg returns -a.
func (a Number) Neg() Number {
	if a.m == 0 {
		return Zero
	}
	a.m = -a.m
	return a
}

// Abs returns |a|.
func (a Number) Abs() Number {
	a.m = math.Abs(a.m)
	return a
}

// Equal reports whether a and b hold the same normalized fields.
func (a Number) Equal(b Number) bool {
	return a == b
}
