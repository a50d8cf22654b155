package progression

import (
	"fmt"
	"math"

	"github.com/vovakirdan/tui-idle/internal/bignum"
)

// Threshold multiplies output by Factor once level reaches Level.
type Threshold struct {
	Level  int64   `yaml:"level"`
	Factor float64 `yaml:"factor"`
}

// Periodic multiplies output by Factor at Start, Start+Period, Start+2×Period, ...
type Periodic struct {
	Start  int64   `yaml:"start"`
	Period int64   `yaml:"period"`
	Factor float64 `yaml:"factor"`
}

// Count returns how many times level has crossed this rule.
func (p Periodic) Count(level int64) int64 {
	switch {
	case level < p.Start:
		return 0
	case p.Period <= 0:
		return 1
	}
	return (level-p.Start)/p.Period + 1
}

// Milestones is a breakthrough table: an ordered set of one-off thresholds plus
// periodic rules. The multiplier for a level is the product of every factor the
// level has crossed, counted in closed form so astronomically large levels cost
// the same as small ones.
type Milestones struct {
	Fixed    []Threshold `yaml:"fixed"`
	Periodic []Periodic  `yaml:"periodic"`
}

// Crossing is the number of times a level has triggered one factor.
type Crossing struct {
	Factor float64
	Count  int64
}

// DefaultMilestones returns the standard breakthrough table:
// ×4 at 10, 25, 50 and 75; from 100 on, ×10 at every multiple of 100 and ×4 at
// every +25, +50 and +75 offset; and an extra ×10 for every full 1000 levels.
func DefaultMilestones() Milestones {
	return Milestones{
		Fixed: []Threshold{
			{Level: 10, Factor: 4},
			{Level: 25, Factor: 4},
			{Level: 50, Factor: 4},
			{Level: 75, Factor: 4},
		},
		Periodic: []Periodic{
			{Start: 100, Period: 100, Factor: 10},
			{Start: 125, Period: 100, Factor: 4},
			{Start: 150, Period: 100, Factor: 4},
			{Start: 175, Period: 100, Factor: 4},
			{Start: 1000, Period: 1000, Factor: 10},
		},
	}
}

// Validate checks that factors are positive and periods are non-zero.
func (m Milestones) Validate() error {
	for _, t := range m.Fixed {
		if !(t.Factor > 0) || math.IsInf(t.Factor, 0) {
			return fmt.Errorf("progression: milestone at level %d has invalid factor %v", t.Level, t.Factor)
		}
	}
	for _, p := range m.Periodic {
		if !(p.Factor > 0) || math.IsInf(p.Factor, 0) {
			return fmt.Errorf("progression: periodic milestone from %d has invalid factor %v", p.Start, p.Factor)
		}
		if p.Period <= 0 {
			return fmt.Errorf("progression: periodic milestone from %d needs a positive period, got %d", p.Start, p.Period)
		}
	}
	return nil
}

// Crossings tallies crossed thresholds per distinct factor, in table order.
func (m Milestones) Crossings(level int64) []Crossing {
	var out []Crossing
	add := func(factor float64, n int64) {
		if n <= 0 {
			return
		}
		for i := range out {
			if out[i].Factor == factor {
				out[i].Count += n
				return
			}
		}
		out = append(out, Crossing{Factor: factor, Count: n})
	}

	for _, t := range m.Fixed {
		if level >= t.Level {
			add(t.Factor, 1)
		}
	}
	for _, p := range m.Periodic {
		if p.Period > 0 {
			add(p.Factor, p.Count(level))
		}
	}
	return out
}

// Multiplier returns the product of every crossed factor for level.
// It depends only on level.
func (m Milestones) Multiplier(level int64) bignum.Number {
	result := bignum.One
	for _, c := range m.Crossings(level) {
		result = result.Mul(factorPow(c.Factor, c.Count))
	}
	return result
}

// factorPow returns f^n exactly in float64 when it fits, in the log domain otherwise.
func factorPow(f float64, n int64) bignum.Number {
	if math.Abs(float64(n)*math.Log10(f)) < 300 {
		return bignum.FromFloat(math.Pow(f, float64(n)))
	}
	return bignum.FromFloat(f).Pow(float64(n))
}

// NextMilestone returns the smallest threshold strictly above level, or false if
// the table has none.
func (m Milestones) NextMilestone(level int64) (int64, bool) {
	next, found := int64(math.MaxInt64), false
	consider := func(at int64) {
		if at > level && at < next {
			next, found = at, true
		}
	}

	for _, t := range m.Fixed {
		consider(t.Level)
	}
	for _, p := range m.Periodic {
		if p.Period <= 0 {
			continue
		}
		if level < p.Start {
			consider(p.Start)
			continue
		}
		consider(p.Start + p.Count(level)*p.Period)
	}
	return next, found
}
