package bignum

import "math"

// Add returns a + b.
//
// When the exponents differ by more than 15 decades the smaller operand is below
// float64 precision of the larger and is dropped: the result is the larger operand
// unchanged. This is a deliberate approximation, not exact arithmetic.
func (a Number) Add(b Number) Number {
	switch {
	case a.inf || b.inf:
		return addInf(a, b)
	case a.m == 0:
		return b
	case b.m == 0:
		return a
	case a.e == b.e:
		return normalize(a.m+b.m, a.e)
	}

	hi, lo := a, b
	if lo.e > hi.e {
		hi, lo = lo, hi
	}
	diff := hi.e - lo.e
	if diff > negligibleDecades {
		return hi
	}
	// Align on the smaller exponent: 10^diff is exact for diff ≤ 22, so sums of
	// integers stay exact.
	return normalize(scaleByPow10(hi.m, diff)+lo.m, lo.e)
}

// addInf handles sums with at least one infinite operand.
// Opposite infinities cancel to zero rather than producing NaN.
func addInf(a, b Number) Number {
	switch {
	case a.inf && b.inf && a.m != b.m:
		return Zero
	case a.inf:
		return a
	default:
		return b
	}
}

// Sub returns a - b.
func (a Number) Sub(b Number) Number {
	return a.Add(b.Neg())
}

// Mul returns a × b. Zero times infinity is zero.
func (a Number) Mul(b Number) Number {
	switch {
	case a.m == 0 || b.m == 0:
		return Zero
	case a.inf || b.inf:
		return infWithSign(a.m * b.m)
	}
	return normalize(a.m*b.m, a.e+b.e)
}

// Scale returns a × f.
func (a Number) Scale(f float64) Number {
	return a.Mul(FromFloat(f))
}

// Div returns a / b. Division by zero yields the infinity sentinel carrying the sign
// of a (0/0 is zero); it never panics.
func (a Number) Div(b Number) Number {
	switch {
	case a.m == 0:
		return Zero
	case b.m == 0:
		return infWithSign(a.m)
	case a.inf && b.inf:
		return normalize(a.m*b.m, 0)
	case a.inf:
		return infWithSign(a.m * b.m)
	case b.inf:
		return Zero
	}
	return normalize(a.m/b.m, a.e-b.e)
}

// Pow returns a^p.
//
// Exponentiation runs in the log domain: log10|a| × p is split into an integer
// exponent and a fractional part that becomes the mantissa, so results never pass
// through an overflowing float64. Values that fit float64 use math.Pow directly to
// keep small integer powers exact. A negative base with a non-integer power has no
// real result and yields zero.
func (a Number) Pow(p float64) Number {
	switch {
	case math.IsNaN(p):
		return Zero
	case a.m == 0:
		return Zero
	case p == 0:
		return One
	case p == 1:
		return a
	}

	sign := 1.0
	if a.m < 0 {
		if p != math.Trunc(p) {
			return Zero
		}
		if math.Mod(math.Abs(p), 2) == 1 {
			sign = -1
		}
	}

	if a.inf {
		if p > 0 {
			return infWithSign(sign)
		}
		return Zero
	}

	if a.e > -300 && a.e < 300 {
		if r := math.Pow(math.Abs(a.Float64()), p); r != 0 && !math.IsInf(r, 0) && r >= minNormal {
			return normalize(sign*r, 0)
		}
	}

	newLog := (math.Log10(math.Abs(a.m)) + float64(a.e)) * p
	switch {
	case math.IsNaN(newLog):
		return One
	case newLog > float64(maxExponent):
		return infWithSign(sign)
	case newLog < -float64(maxExponent):
		return Zero
	}
	exp := math.Floor(newLog)
	return normalize(sign*math.Pow(10, newLog-exp), int64(exp))
}

// minNormal is the smallest positive normal float64.
const minNormal = 0x1p-1022

// Sqrt returns the square root of a.
func (a Number) Sqrt() Number {
	return a.Pow(0.5)
}

// Log10 returns log10(a) as a float64. Non-positive input yields 0 rather than an
// error; damage compression formulas rely on that. Positive infinity yields +Inf.
func (a Number) Log10() float64 {
	switch {
	case a.m <= 0:
		return 0
	case a.inf:
		return math.Inf(1)
	}
	return math.Log10(a.m) + float64(a.e)
}

// Floor rounds a toward negative infinity. Values at or above 10^15 are already
// integral within float64 precision and are returned unchanged.
func (a Number) Floor() Number {
	if a.inf || a.m == 0 || a.e >= negligibleDecades {
		return a
	}
	return FromFloat(math.Floor(a.Float64()))
}

// Cmp compares a and b and returns -1, 0 or 1. Sign is compared first, then the
// exponent, then the mantissa. Zero equals only zero; infinity exceeds every finite
// value of the same sign.
func (a Number) Cmp(b Number) int {
	sa, sb := a.Sign(), b.Sign()
	switch {
	case sa < sb:
		return -1
	case sa > sb:
		return 1
	case sa == 0:
		return 0
	}
	c := cmpMagnitude(a, b)
	if sa < 0 {
		return -c
	}
	return c
}

func cmpMagnitude(a, b Number) int {
	switch {
	case a.inf && b.inf:
		return 0
	case a.inf:
		return 1
	case b.inf:
		return -1
	case a.e < b.e:
		return -1
	case a.e > b.e:
		return 1
	}
	am, bm := math.Abs(a.m), math.Abs(b.m)
	switch {
	case am < bm:
		return -1
	case am > bm:
		return 1
	}
	return 0
}

// Less reports a < b.
func (a Number) Less(b Number) bool { return a.Cmp(b) < 0 }

// Greater reports a > b.
func (a Number) Greater(b Number) bool { return a.Cmp(b) > 0 }

// GreaterOrEqual reports a >= b.
func (a Number) GreaterOrEqual(b Number) bool { return a.Cmp(b) >= 0 }

// Max returns the larger of a and b.
func (a Number) Max(b Number) Number {
	if a.Cmp(b) >= 0 {
		return a
	}
	return b
}

// Min returns the smaller of a and b.
func (a Number) Min(b Number) Number {
	if a.Cmp(b) <= 0 {
		return a
	}
	return b
}

// Sum adds all values.
func Sum(values ...Number) Number {
	total := Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}
