// Package progression implements the upgrade math shared by every idle track:
// geometric cost curves with closed-form buy-max, the caller-owned Resource ledger,
// and the milestone multiplier step function.
package progression

import (
	"errors"
	"fmt"
	"math"

	"github.com/vovakirdan/tui-idle/internal/bignum"
)

// MaxLevel caps levels so that level arithmetic never overflows int64 and stays
// exact when converted to float64.
const MaxLevel int64 = 1 << 53

// maxCorrection bounds the ±1 steps BuyMax takes after the logarithmic estimate.
const maxCorrection = 3

// ErrInvalidCurve is returned (wrapped) by Curve.Validate.
var ErrInvalidCurve = errors.New("progression: invalid cost curve")

// Curve is a geometric cost curve: the n-th unit (0-indexed) costs Base × Scale^n.
type Curve struct {
	Base  float64 `yaml:"base"`
	Scale float64 `yaml:"scale"`
}

// Purchase describes the outcome of a buy operation.
type Purchase struct {
	Levels   int64         // Levels gained, 0 if nothing was affordable
	Cost     bignum.Number // Total price of those levels
	NewLevel int64         // Level after the purchase
}

// NewCurve creates a validated curve.
func NewCurve(base, scale float64) (Curve, error) {
	c := Curve{Base: base, Scale: scale}
	if err := c.Validate(); err != nil {
		return Curve{}, err
	}
	return c, nil
}

// Validate checks that base is positive and scale is strictly greater than one.
// A linear curve (scale == 1) is not supported.
func (c Curve) Validate() error {
	switch {
	case math.IsNaN(c.Base) || math.IsInf(c.Base, 0) || c.Base <= 0:
		return fmt.Errorf("%w: base must be positive and finite, got %v", ErrInvalidCurve, c.Base)
	case math.IsNaN(c.Scale) || math.IsInf(c.Scale, 0) || c.Scale <= 1:
		return fmt.Errorf("%w: scale must be finite and greater than 1, got %v", ErrInvalidCurve, c.Scale)
	}
	return nil
}

// mustBeValid panics on an invalid curve. Rulesets are validated at load time, so
// reaching this with a bad curve is a programming error.
func (c Curve) mustBeValid() {
	if err := c.Validate(); err != nil {
		panic(err)
	}
}

// scalePow returns Scale^n, in float64 while it fits and in the log domain after.
func (c Curve) scalePow(n int64) bignum.Number {
	if float64(n)*math.Log10(c.Scale) < 300 {
		return bignum.FromFloat(math.Pow(c.Scale, float64(n)))
	}
	return bignum.FromFloat(c.Scale).Pow(float64(n))
}

// growth returns Scale^k - 1 without cancellation for scales close to one.
func (c Curve) growth(k int64) bignum.Number {
	switch x := float64(k) * math.Log(c.Scale); {
	case x < 0.5:
		return bignum.FromFloat(math.Expm1(x))
	case x < 690:
		return bignum.FromFloat(math.Pow(c.Scale, float64(k)) - 1)
	}
	return c.scalePow(k).Sub(bignum.One)
}

// NextLevelCost returns the price of the single next level: Base × Scale^level.
func (c Curve) NextLevelCost(level int64) bignum.Number {
	c.mustBeValid()
	if level < 0 {
		level = 0
	}
	return bignum.FromFloat(c.Base).Mul(c.scalePow(level))
}

// CostToReachLevel returns the cumulative cost from level 0 to target:
// Base × (Scale^target - 1) / (Scale - 1). A target of zero or less costs nothing.
func (c Curve) CostToReachLevel(target int64) bignum.Number {
	return c.CostBetween(0, target)
}

// CostBetween returns CostToReachLevel(to) - CostToReachLevel(from), or zero when
// to < from. It is evaluated as Base × Scale^from × (Scale^(to-from) - 1) / (Scale - 1)
// so that neighbouring levels deep into the curve do not cancel each other out.
func (c Curve) CostBetween(from, to int64) bignum.Number {
	c.mustBeValid()
	if from < 0 {
		from = 0
	}
	switch {
	case to <= from:
		return bignum.Zero
	case to-from == 1:
		return c.NextLevelCost(from)
	}
	return c.NextLevelCost(from).Mul(c.growth(to - from)).Scale(1 / (c.Scale - 1))
}

// BuyMax returns the largest purchase affordable from level with the given budget.
//
// The closed form inverts the series directly:
//
//	x = 1 + budget × (Scale - 1) / (Base × Scale^level)
//	L = floor(log(x) / log(Scale))
//
// The ratio is formed with bignum so it stays valid for levels whose prices overflow
// float64, and log(x) degrades to log(ratio) once the 1 is below float precision.
// The estimate is then checked against CostBetween and nudged by at most a few
// levels, so CostBetween(level, level+L) ≤ budget < CostBetween(level, level+L+1).
func (c Curve) BuyMax(level int64, budget bignum.Number) Purchase {
	c.mustBeValid()
	if level < 0 {
		level = 0
	}
	none := Purchase{Cost: bignum.Zero, NewLevel: level}
	if budget.Sign() <= 0 || level >= MaxLevel {
		return none
	}

	gain := MaxLevel - level
	if !budget.IsInf() {
		ratio := budget.Scale(c.Scale - 1).Div(c.NextLevelCost(level))
		var est float64
		if ratio.Exponent() < 15 {
			est = math.Log1p(ratio.Float64()) / math.Log(c.Scale)
		} else {
			est = ratio.Log10() * math.Ln10 / math.Log(c.Scale)
		}
		if est < float64(gain) {
			gain = int64(math.Floor(est))
		}
		gain = c.settle(level, gain, budget)
	}

	if gain <= 0 {
		return none
	}
	return Purchase{
		Levels:   gain,
		Cost:     c.CostBetween(level, level+gain),
		NewLevel: level + gain,
	}
}

// settle corrects the floating-point estimate of affordable levels.
func (c Curve) settle(level, gain int64, budget bignum.Number) int64 {
	if gain < 0 {
		gain = 0
	}
	for i := 0; i < maxCorrection && gain > 0 && c.CostBetween(level, level+gain).Greater(budget); i++ {
		gain--
	}
	for i := 0; i < maxCorrection && level+gain < MaxLevel && !c.CostBetween(level, level+gain+1).Greater(budget); i++ {
		gain++
	}
	return gain
}

// BuyMaxFloat is BuyMax with a float64 budget.
func (c Curve) BuyMaxFloat(level int64, budget float64) Purchase {
	return c.BuyMax(level, bignum.FromFloat(budget))
}

// BuyN prices exactly n levels from level and reports whether the budget covers them.
func (c Curve) BuyN(level, n int64, budget bignum.Number) (Purchase, bool) {
	if level < 0 {
		level = 0
	}
	if n <= 0 {
		return Purchase{Cost: bignum.Zero, NewLevel: level}, false
	}
	if n > MaxLevel-level {
		n = MaxLevel - level
	}
	cost := c.CostBetween(level, level+n)
	p := Purchase{Levels: n, Cost: cost, NewLevel: level + n}
	return p, !cost.Greater(budget)
}

// LevelForTotalCost returns the highest level whose cumulative cost from zero fits
// in total. It is the inverse of CostToReachLevel.
func (c Curve) LevelForTotalCost(total bignum.Number) int64 {
	return c.BuyMax(0, total).NewLevel
}
